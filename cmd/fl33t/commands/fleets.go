package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fl33t/fl33t-go/pkg/fl33t"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewFleetsCommand creates the fleets command group.
func NewFleetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fleets",
		Aliases: []string{"fleet"},
		Short:   "Manage device fleets",
		Long:    "List, inspect, create, update, and delete device fleets",
	}

	cmd.AddCommand(newFleetsListCommand())
	cmd.AddCommand(newFleetsShowCommand())
	cmd.AddCommand(newFleetsCreateCommand())
	cmd.AddCommand(newFleetsUpdateCommand())
	cmd.AddCommand(newFleetsDeleteCommand())

	return cmd
}

func newFleetsListCommand() *cobra.Command {
	var (
		offset  int
		limit   int
		trainID string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List device fleets",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			opts := &fl33t.FleetListOptions{
				PageOptions: *pageOptions(cmd, offset, limit),
				TrainID:     trainID,
			}

			fleets, err := client.Fleets().List(cmd.Context(), opts).All()
			if err != nil {
				return fmt.Errorf("listing fleets: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, fleets)
			}

			if len(fleets) == 0 {
				fmt.Println("No fleets found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Train", "Build", "Size", "Unreleased")

			for _, fleet := range fleets {
				_ = table.Append(
					fleet.FleetID,
					fleet.Name,
					fleet.TrainID,
					fleet.BuildID,
					strconv.FormatInt(fleet.Size.Int64(), 10),
					yesNo(fleet.Unreleased.Bool()),
				)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	addPageFlags(cmd, &offset, &limit)
	cmd.Flags().StringVar(&trainID, "train", "", "restrict to fleets on this train")

	return cmd
}

func newFleetsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show FLEET_ID",
		Short: "Show fleet details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			fleet, err := client.Fleets().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching fleet: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, fleet)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("ID", fleet.FleetID)
			_ = table.Append("Name", fleet.Name)
			_ = table.Append("Train", fleet.TrainID)
			_ = table.Append("Build", fleet.BuildID)
			_ = table.Append("Size", strconv.FormatInt(fleet.Size.Int64(), 10))
			_ = table.Append("Unreleased", yesNo(fleet.Unreleased.Bool()))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newFleetsCreateCommand() *cobra.Command {
	var (
		name       string
		trainID    string
		buildID    string
		unreleased bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a device fleet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return ErrNameRequired
			}

			if trainID == "" {
				return ErrTrainRequired
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			fleet := &fl33t.Fleet{
				Name:       name,
				TrainID:    trainID,
				BuildID:    buildID,
				Unreleased: fl33t.TruthyBool(unreleased),
			}

			if err := client.Fleets().Create(cmd.Context(), fleet); err != nil {
				return fmt.Errorf("creating fleet: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, fleet)
			}

			fmt.Printf("Created fleet %s: %s\n", fleet.FleetID, fleet.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "fleet name")
	cmd.Flags().StringVar(&trainID, "train", "", "train the fleet follows")
	cmd.Flags().StringVar(&buildID, "build", "", "pinned build ID")
	cmd.Flags().BoolVar(&unreleased, "unreleased", false, "track unreleased builds")

	return cmd
}

func newFleetsUpdateCommand() *cobra.Command {
	var (
		name       string
		buildID    string
		unreleased bool
	)

	cmd := &cobra.Command{
		Use:   "update FLEET_ID",
		Short: "Update a device fleet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("build") && !flags.Changed("unreleased") {
				return ErrNothingToUpdate
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			fleet, err := client.Fleets().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching fleet: %w", err)
			}

			if flags.Changed("name") {
				fleet.Name = name
			}

			if flags.Changed("build") {
				fleet.BuildID = buildID
			}

			if flags.Changed("unreleased") {
				fleet.Unreleased = fl33t.TruthyBool(unreleased)
			}

			if err := client.Fleets().Update(cmd.Context(), fleet); err != nil {
				return fmt.Errorf("updating fleet: %w", err)
			}

			fmt.Printf("Updated fleet %s\n", fleet.FleetID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new fleet name")
	cmd.Flags().StringVar(&buildID, "build", "", "new pinned build ID")
	cmd.Flags().BoolVar(&unreleased, "unreleased", false, "track unreleased builds")

	return cmd
}

func newFleetsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete FLEET_ID",
		Short: "Delete a device fleet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			fleet := &fl33t.Fleet{FleetID: args[0]}

			if err := client.Fleets().Delete(cmd.Context(), fleet); err != nil {
				return fmt.Errorf("deleting fleet: %w", err)
			}

			fmt.Printf("Deleted fleet %s\n", args[0])

			return nil
		},
	}
}
