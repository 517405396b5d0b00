package commands

import (
	"fmt"
	"os"

	"github.com/fl33t/fl33t-go/pkg/fl33t"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewSessionsCommand creates the sessions command group.
func NewSessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "Manage API sessions",
		Long:    "List, inspect, create, and revoke fl33t API sessions",
	}

	cmd.AddCommand(newSessionsListCommand())
	cmd.AddCommand(newSessionsShowCommand())
	cmd.AddCommand(newSessionsCreateCommand())
	cmd.AddCommand(newSessionsDeleteCommand())

	return cmd
}

func newSessionsListCommand() *cobra.Command {
	var (
		offset int
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List API sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			opts := pageOptions(cmd, offset, limit)

			sessions, err := client.Sessions().List(cmd.Context(), opts).All()
			if err != nil {
				return fmt.Errorf("listing sessions: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, sessions)
			}

			if len(sessions) == 0 {
				fmt.Println("No sessions found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Token", "Type", "Privilege")

			for _, session := range sessions {
				_ = table.Append(maskToken(session.SessionToken), session.Type, session.Priv())
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	addPageFlags(cmd, &offset, &limit)

	return cmd
}

func newSessionsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show SESSION_TOKEN",
		Short: "Show session details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			session, err := client.Sessions().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching session: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, session)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("Token", session.SessionToken)
			_ = table.Append("Type", session.Type)
			_ = table.Append("Privilege", session.Priv())
			_ = table.Append("Admin", yesNo(session.Admin.Bool()))
			_ = table.Append("Device", yesNo(session.Device.Bool()))
			_ = table.Append("Provisioning", yesNo(session.Provisioning.Bool()))
			_ = table.Append("Upload", yesNo(session.Upload.Bool()))
			_ = table.Append("Readonly", yesNo(session.Readonly.Bool()))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newSessionsCreateCommand() *cobra.Command {
	var (
		admin        bool
		device       bool
		provisioning bool
		upload       bool
		readonly     bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API session",
		Long:  "Create a new API session with the requested privilege flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			session := &fl33t.Session{
				Admin:        fl33t.TruthyBool(admin),
				Device:       fl33t.TruthyBool(device),
				Provisioning: fl33t.TruthyBool(provisioning),
				Upload:       fl33t.TruthyBool(upload),
				Readonly:     fl33t.TruthyBool(readonly),
			}

			if err := client.Sessions().Create(cmd.Context(), session); err != nil {
				return fmt.Errorf("creating session: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, session)
			}

			fmt.Printf("Created %s session: %s\n", session.Priv(), session.SessionToken)

			return nil
		},
	}

	cmd.Flags().BoolVar(&admin, "admin", false, "grant admin privilege")
	cmd.Flags().BoolVar(&device, "device", false, "grant device privilege")
	cmd.Flags().BoolVar(&provisioning, "provisioning", false, "grant provisioning privilege")
	cmd.Flags().BoolVar(&upload, "upload", false, "grant upload privilege")
	cmd.Flags().BoolVar(&readonly, "readonly", false, "grant readonly privilege")

	return cmd
}

func newSessionsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete SESSION_TOKEN",
		Aliases: []string{"revoke"},
		Short:   "Revoke an API session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			session := &fl33t.Session{SessionToken: args[0]}

			if err := client.Sessions().Delete(cmd.Context(), session); err != nil {
				return fmt.Errorf("deleting session: %w", err)
			}

			fmt.Printf("Deleted session %s\n", maskToken(args[0]))

			return nil
		},
	}
}

// addPageFlags registers the shared pagination flags on a list command.
func addPageFlags(cmd *cobra.Command, offset, limit *int) {
	cmd.Flags().IntVar(offset, "offset", 0, "fetch a single page starting at this offset")
	cmd.Flags().IntVar(limit, "limit", 0, "page size (default server limit when 0)")
}

// pageOptions translates the CLI pagination flags. An explicitly set
// --offset pins the listing to that single page.
func pageOptions(cmd *cobra.Command, offset, limit int) *fl33t.PageOptions {
	opts := &fl33t.PageOptions{Limit: limit}

	if cmd.Flags().Changed("offset") {
		opts.Offset = &offset
	}

	return opts
}
