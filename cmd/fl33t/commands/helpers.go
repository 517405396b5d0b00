// Package commands implements the fl33t CLI commands.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fl33t/fl33t-go/pkg/fl33t"
	"github.com/fl33t/fl33t-go/pkg/fl33tclient"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	// JSON formatting.
	defaultJSONIndent = "  "

	// Common values.
	Yes          = "yes"
	No           = "no"
	NotAvailable = "N/A"
	Masked       = "***"
)

// Common static errors used throughout the commands package.
var (
	ErrTeamRequired     = errors.New("team ID is required (use --team or FL33T_TEAM)")
	ErrTokenRequired    = errors.New("session token is required (use --token or FL33T_TOKEN)")
	ErrNameRequired     = errors.New("name is required")
	ErrTrainRequired    = errors.New("train ID is required (--train)")
	ErrFleetRequired    = errors.New("fleet ID is required (--fleet)")
	ErrVersionRequired  = errors.New("version is required (--version)")
	ErrFilenameRequired = errors.New("build file is required (--file)")
	ErrNothingToUpdate  = errors.New("nothing to update; specify at least one field flag")
)

// clientCache reuses clients across subcommands of a single invocation.
var clientCache = fl33t.NewClientCache()

// createClient builds a fl33t client from the CLI flags, environment, and
// config file. Repeated calls with the same credentials share one client.
func createClient() (fl33t.Client, error) {
	teamID := viper.GetString("team")
	if teamID == "" {
		return nil, ErrTeamRequired
	}

	token := viper.GetString("token")
	if token == "" {
		return nil, ErrTokenRequired
	}

	return clientCache.GetOrCreate(teamID, token, func() (fl33t.Client, error) {
		config := &fl33t.Config{
			TeamID:       teamID,
			SessionToken: token,
			BaseURL:      viper.GetString("api"),
		}
		if viper.GetBool("verbose") {
			config.Debug = true
			config.Logger = fl33t.NewStderrLogger()
		}

		return fl33tclient.New(config)
	})
}

// renderEncoded writes the value as JSON or YAML to stdout.
func renderEncoded(output string, value interface{}) error {
	switch output {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", defaultJSONIndent)

		return encoder.Encode(value)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(value)
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}
}

// isTableOutput reports whether the selected output format is the default
// table rendering.
func isTableOutput(output string) bool {
	return output != OutputFormatJSON && output != OutputFormatYAML
}

// yesNo renders a boolean the way the tables expect.
func yesNo(value bool) string {
	if value {
		return Yes
	}

	return No
}

// timestampString renders a Timestamp, falling back to N/A when unset.
func timestampString(ts fl33t.Timestamp) string {
	if !ts.Valid {
		return NotAvailable
	}

	return ts.String()
}
