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

// NewBuildsCommand creates the builds command group.
func NewBuildsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "builds",
		Aliases: []string{"build"},
		Short:   "Manage firmware builds",
		Long:    "List, inspect, upload, update, and delete firmware builds within a train",
	}

	cmd.AddCommand(newBuildsListCommand())
	cmd.AddCommand(newBuildsShowCommand())
	cmd.AddCommand(newBuildsCreateCommand())
	cmd.AddCommand(newBuildsUpdateCommand())
	cmd.AddCommand(newBuildsDeleteCommand())

	return cmd
}

func newBuildsListCommand() *cobra.Command {
	var (
		offset  int
		limit   int
		trainID string
		version string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List builds in a train",
		RunE: func(cmd *cobra.Command, args []string) error {
			if trainID == "" {
				return ErrTrainRequired
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			opts := &fl33t.BuildListOptions{
				PageOptions: *pageOptions(cmd, offset, limit),
				Version:     version,
			}

			builds, err := client.Builds().List(cmd.Context(), trainID, opts).All()
			if err != nil {
				return fmt.Errorf("listing builds: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, builds)
			}

			if len(builds) == 0 {
				fmt.Println("No builds found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Version", "Status", "Released", "Size", "Uploaded")

			for _, build := range builds {
				_ = table.Append(
					build.BuildID,
					build.Version,
					build.Status,
					yesNo(build.Released.Bool()),
					strconv.FormatInt(build.Size.Int64(), 10),
					timestampString(build.UploadTstamp),
				)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	addPageFlags(cmd, &offset, &limit)
	cmd.Flags().StringVar(&trainID, "train", "", "train to list builds from")
	cmd.Flags().StringVar(&version, "version", "", "restrict to builds of this version")

	return cmd
}

func newBuildsShowCommand() *cobra.Command {
	var trainID string

	cmd := &cobra.Command{
		Use:   "show BUILD_ID",
		Short: "Show build details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if trainID == "" {
				return ErrTrainRequired
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			build, err := client.Builds().Get(cmd.Context(), trainID, args[0])
			if err != nil {
				return fmt.Errorf("fetching build: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, build)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("ID", build.BuildID)
			_ = table.Append("Version", build.Version)
			_ = table.Append("Train", build.TrainID)
			_ = table.Append("Status", build.Status)
			_ = table.Append("Released", yesNo(build.Released.Bool()))
			_ = table.Append("Filename", build.Filename)
			_ = table.Append("MD5", build.MD5Sum)
			_ = table.Append("Size", strconv.FormatInt(build.Size.Int64(), 10))
			_ = table.Append("Uploaded", timestampString(build.UploadTstamp))
			_ = table.Append("Download URL", build.DownloadURL)

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&trainID, "train", "", "train the build belongs to")

	return cmd
}

func newBuildsCreateCommand() *cobra.Command {
	var (
		trainID  string
		version  string
		filename string
		skipUp   bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a build and upload its file",
		Long:  "Register a new firmware build in a train and upload the build file to fl33t",
		RunE: func(cmd *cobra.Command, args []string) error {
			if trainID == "" {
				return ErrTrainRequired
			}

			if version == "" {
				return ErrVersionRequired
			}

			if filename == "" {
				return ErrFilenameRequired
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			build, err := fl33t.NewBuildFromFile(filename)
			if err != nil {
				return fmt.Errorf("reading build file: %w", err)
			}

			build.TrainID = trainID
			build.Version = version

			if err := client.Builds().Create(cmd.Context(), build); err != nil {
				return fmt.Errorf("creating build: %w", err)
			}

			if !skipUp && build.UploadURL != "" {
				if err := client.Builds().Upload(cmd.Context(), build); err != nil {
					return fmt.Errorf("uploading build file: %w", err)
				}
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, build)
			}

			fmt.Printf("Created build %s (version %s) in train %s\n", build.BuildID, build.Version, build.TrainID)

			return nil
		},
	}

	cmd.Flags().StringVar(&trainID, "train", "", "train to create the build in")
	cmd.Flags().StringVar(&version, "version", "", "build version")
	cmd.Flags().StringVar(&filename, "file", "", "path to the build file")
	cmd.Flags().BoolVar(&skipUp, "skip-upload", false, "register the build without uploading the file")

	return cmd
}

func newBuildsUpdateCommand() *cobra.Command {
	var (
		trainID  string
		released bool
	)

	cmd := &cobra.Command{
		Use:   "update BUILD_ID",
		Short: "Update a build",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if trainID == "" {
				return ErrTrainRequired
			}

			if !cmd.Flags().Changed("released") {
				return ErrNothingToUpdate
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			build, err := client.Builds().Get(cmd.Context(), trainID, args[0])
			if err != nil {
				return fmt.Errorf("fetching build: %w", err)
			}

			build.Released = fl33t.TruthyBool(released)

			if err := client.Builds().Update(cmd.Context(), build); err != nil {
				return fmt.Errorf("updating build: %w", err)
			}

			fmt.Printf("Updated build %s\n", build.BuildID)

			return nil
		},
	}

	cmd.Flags().StringVar(&trainID, "train", "", "train the build belongs to")
	cmd.Flags().BoolVar(&released, "released", false, "mark the build released")

	return cmd
}

func newBuildsDeleteCommand() *cobra.Command {
	var trainID string

	cmd := &cobra.Command{
		Use:   "delete BUILD_ID",
		Short: "Delete a build",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if trainID == "" {
				return ErrTrainRequired
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			build := &fl33t.Build{TrainID: trainID, BuildID: args[0]}

			if err := client.Builds().Delete(cmd.Context(), build); err != nil {
				return fmt.Errorf("deleting build: %w", err)
			}

			fmt.Printf("Deleted build %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&trainID, "train", "", "train the build belongs to")

	return cmd
}
