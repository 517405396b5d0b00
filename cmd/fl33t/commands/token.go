package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fl33t/fl33t-go/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewTokenCommand creates the token command group.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the session token",
		Long:  "Commands for storing and inspecting the fl33t session token",
	}

	cmd.AddCommand(newTokenSetCommand())
	cmd.AddCommand(newTokenShowCommand())

	return cmd
}

func newTokenSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Store a session token",
		Long:  "Prompt for a session token and persist it to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(os.Stderr, "Session token: ")

			raw, err := term.ReadPassword(int(os.Stdin.Fd()))

			fmt.Fprintln(os.Stderr)

			if err != nil {
				return fmt.Errorf("reading token: %w", err)
			}

			token := strings.TrimSpace(string(raw))
			if token == "" {
				return ErrTokenRequired
			}

			viper.Set("token", token)

			return saveConfig()
		},
	}
}

func newTokenShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current token's session",
		Long:  "Display the privilege and type of the configured session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			session, err := client.Sessions().GetOwn(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching own session: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, session)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("Type", session.Type)
			_ = table.Append("Privilege", session.Priv())
			_ = table.Append("Token", maskToken(session.SessionToken))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

// maskToken keeps only the last four characters visible.
func maskToken(token string) string {
	if len(token) <= 4 {
		return Masked
	}

	return Masked + token[len(token)-4:]
}

// saveConfig persists the current viper state to the active config file,
// creating ~/.fl33t/config.yml when none is in use yet.
func saveConfig() error {
	if viper.ConfigFileUsed() != "" {
		return viper.WriteConfig()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("finding home directory: %w", err)
	}

	configDir := filepath.Join(home, ".fl33t")
	if err := os.MkdirAll(configDir, constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yml")

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := os.Chmod(configPath, constants.ConfigFilePerm); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("restricting config permissions: %w", err)
	}

	return nil
}
