// Package constants holds shared constants for the fl33t client and CLI.
package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP behavior.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultUserAgent is sent on API requests unless overridden.
	DefaultUserAgent = "fl33t-go"
)

// Identifier generation.
const (
	// GeneratedIDAlphabet is the character set for generated device IDs.
	// Device IDs double as claim tokens, so generation must draw from a
	// cryptographically strong random source.
	GeneratedIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)
