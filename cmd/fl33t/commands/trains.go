package commands

import (
	"fmt"
	"os"

	"github.com/fl33t/fl33t-go/pkg/fl33t"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewTrainsCommand creates the trains command group.
func NewTrainsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trains",
		Aliases: []string{"train"},
		Short:   "Manage build trains",
		Long:    "List, inspect, create, update, and delete firmware build trains",
	}

	cmd.AddCommand(newTrainsListCommand())
	cmd.AddCommand(newTrainsShowCommand())
	cmd.AddCommand(newTrainsCreateCommand())
	cmd.AddCommand(newTrainsUpdateCommand())
	cmd.AddCommand(newTrainsDeleteCommand())

	return cmd
}

func newTrainsListCommand() *cobra.Command {
	var (
		offset int
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List build trains",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			opts := pageOptions(cmd, offset, limit)

			trains, err := client.Trains().List(cmd.Context(), opts).All()
			if err != nil {
				return fmt.Errorf("listing trains: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, trains)
			}

			if len(trains) == 0 {
				fmt.Println("No trains found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Last Upload")

			for _, train := range trains {
				_ = table.Append(train.TrainID, train.Name, timestampString(train.UploadTstamp))
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

func newTrainsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show TRAIN_ID",
		Short: "Show train details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			train, err := client.Trains().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching train: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, train)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("ID", train.TrainID)
			_ = table.Append("Name", train.Name)
			_ = table.Append("Last Upload", timestampString(train.UploadTstamp))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newTrainsCreateCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a build train",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return ErrNameRequired
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			train := &fl33t.Train{Name: name}

			if err := client.Trains().Create(cmd.Context(), train); err != nil {
				return fmt.Errorf("creating train: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, train)
			}

			fmt.Printf("Created train %s: %s\n", train.TrainID, train.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "train name")

	return cmd
}

func newTrainsUpdateCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "update TRAIN_ID",
		Short: "Update a build train",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("name") {
				return ErrNothingToUpdate
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			train, err := client.Trains().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching train: %w", err)
			}

			train.Name = name

			if err := client.Trains().Update(cmd.Context(), train); err != nil {
				return fmt.Errorf("updating train: %w", err)
			}

			fmt.Printf("Updated train %s\n", train.TrainID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new train name")

	return cmd
}

func newTrainsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TRAIN_ID",
		Short: "Delete a build train",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			train := &fl33t.Train{TrainID: args[0]}

			if err := client.Trains().Delete(cmd.Context(), train); err != nil {
				return fmt.Errorf("deleting train: %w", err)
			}

			fmt.Printf("Deleted train %s\n", args[0])

			return nil
		},
	}
}
