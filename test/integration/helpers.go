//go:build integration
// +build integration

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	TeamID       string
	SessionToken string
	APIEndpoint  string
	Fl33tPath    string
	Verbose      bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		TeamID:       os.Getenv("FL33T_TEAM"),
		SessionToken: os.Getenv("FL33T_TOKEN"),
		APIEndpoint:  os.Getenv("FL33T_API"),
		Fl33tPath:    getFl33tPath(),
		Verbose:      os.Getenv("FL33T_VERBOSE") == "true",
	}
}

// getFl33tPath determines the path to the fl33t binary
func getFl33tPath() string {
	if path := os.Getenv("FL33T_BINARY_PATH"); path != "" {
		return path
	}

	// Try common locations
	candidates := []string{
		"../../fl33t",
		"./fl33t",
		"../fl33t",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "fl33t" // Fallback to PATH
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	if config.TeamID == "" || config.SessionToken == "" {
		t.Skip("FL33T_TEAM or FL33T_TOKEN not set, skipping integration test")
	}

	if _, err := os.Stat(config.Fl33tPath); os.IsNotExist(err) {
		t.Skipf("fl33t binary not found at %s, skipping integration test", config.Fl33tPath)
	}
}

// CommandRunner provides utilities for running fl33t commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a fl33t command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	full := []string{"--team", runner.config.TeamID, "--token", runner.config.SessionToken}
	if runner.config.APIEndpoint != "" {
		full = append(full, "--api", runner.config.APIEndpoint)
	}
	full = append(full, args...)

	cmd := exec.Command(runner.config.Fl33tPath, full...)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.Fl33tPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// CleanupResource attempts to delete a test resource
func (runner *CommandRunner) CleanupResource(resourceType, id string) {
	var args []string
	switch resourceType {
	case "train":
		args = []string{"trains", "delete", id}
	case "fleet":
		args = []string{"fleets", "delete", id}
	case "device":
		args = []string{"devices", "delete", id}
	default:
		runner.t.Logf("Unknown resource type for cleanup: %s", resourceType)
		return
	}

	stdout, stderr, err := runner.Run(args...)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", resourceType, id, stdout, stderr)
	}
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	output = strings.TrimSpace(output)
	if !strings.HasPrefix(output, "{") && !strings.HasPrefix(output, "[") {
		t.Errorf("Output does not appear to be JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	output = strings.TrimSpace(output)
	if output == "" || strings.HasPrefix(output, "{") {
		t.Errorf("Output does not appear to be YAML: %s", output)
	}
}
