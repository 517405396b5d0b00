package fl33t

import (
	"crypto/md5" //nolint:gosec // fl33t uses MD5 as an upload integrity check, not for security
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// WriterLogger is a Logger that prints each entry as a single line to an
// io.Writer. The CLI wires it to stderr for verbose mode.
type WriterLogger struct {
	Out io.Writer
}

// NewStderrLogger returns a WriterLogger printing to standard error.
func NewStderrLogger() *WriterLogger {
	return &WriterLogger{Out: os.Stderr}
}

func (l *WriterLogger) log(level, msg string, fields map[string]interface{}) {
	if l.Out == nil {
		return
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var line strings.Builder
	fmt.Fprintf(&line, "%s: %s", level, msg)
	for _, key := range keys {
		fmt.Fprintf(&line, " %s=%v", key, fields[key])
	}

	fmt.Fprintln(l.Out, line.String())
}

// Debug implements Logger.
func (l *WriterLogger) Debug(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

// Info implements Logger.
func (l *WriterLogger) Info(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

// Warn implements Logger.
func (l *WriterLogger) Warn(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

// Error implements Logger.
func (l *WriterLogger) Error(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

// MD5File returns the hex MD5 digest of a file's contents. fl33t uses the
// digest to verify build uploads.
func MD5File(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	hash := md5.New() //nolint:gosec // integrity check, not security
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// FileSize returns a file's size in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stating %s: %w", path, err)
	}

	return info.Size(), nil
}
