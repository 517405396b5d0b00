package commands

import (
	"fmt"
	"os"

	"github.com/fl33t/fl33t-go/pkg/fl33t"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewDevicesCommand creates the devices command group.
func NewDevicesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "devices",
		Aliases: []string{"device"},
		Short:   "Manage devices",
		Long:    "List, inspect, register, update, and delete devices, and check for upgrades",
	}

	cmd.AddCommand(newDevicesListCommand())
	cmd.AddCommand(newDevicesShowCommand())
	cmd.AddCommand(newDevicesCreateCommand())
	cmd.AddCommand(newDevicesUpdateCommand())
	cmd.AddCommand(newDevicesDeleteCommand())
	cmd.AddCommand(newDevicesUpgradeCommand())

	return cmd
}

func newDevicesListCommand() *cobra.Command {
	var (
		offset  int
		limit   int
		fleetID string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			opts := &fl33t.DeviceListOptions{
				PageOptions: *pageOptions(cmd, offset, limit),
				FleetID:     fleetID,
			}

			devices, err := client.Devices().List(cmd.Context(), opts).All()
			if err != nil {
				return fmt.Errorf("listing devices: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, devices)
			}

			if len(devices) == 0 {
				fmt.Println("No devices found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Fleet", "Build", "Last Checkin")

			for _, device := range devices {
				_ = table.Append(
					device.DeviceID,
					device.Name,
					device.FleetID,
					device.BuildID,
					timestampString(device.CheckinTstamp),
				)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	addPageFlags(cmd, &offset, &limit)
	cmd.Flags().StringVar(&fleetID, "fleet", "", "restrict to devices in this fleet")

	return cmd
}

func newDevicesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show DEVICE_ID",
		Short: "Show device details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			device, err := client.Devices().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching device: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, device)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("ID", device.DeviceID)
			_ = table.Append("Name", device.Name)
			_ = table.Append("Fleet", device.FleetID)
			_ = table.Append("Build", device.BuildID)
			_ = table.Append("Last Checkin", timestampString(device.CheckinTstamp))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newDevicesCreateCommand() *cobra.Command {
	var (
		deviceID string
		name     string
		fleetID  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a device",
		Long:  "Register a device in a fleet. When --id is omitted a random device ID is generated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fleetID == "" {
				return ErrFleetRequired
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			device := &fl33t.Device{
				DeviceID: deviceID,
				Name:     name,
				FleetID:  fleetID,
			}

			if err := client.Devices().Create(cmd.Context(), device); err != nil {
				return fmt.Errorf("creating device: %w", err)
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, device)
			}

			fmt.Printf("Created device %s in fleet %s\n", device.DeviceID, device.FleetID)

			return nil
		},
	}

	cmd.Flags().StringVar(&deviceID, "id", "", "device ID (generated when omitted)")
	cmd.Flags().StringVar(&name, "name", "", "device name")
	cmd.Flags().StringVar(&fleetID, "fleet", "", "fleet to register the device in")

	return cmd
}

func newDevicesUpdateCommand() *cobra.Command {
	var (
		name    string
		fleetID string
	)

	cmd := &cobra.Command{
		Use:   "update DEVICE_ID",
		Short: "Update a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("fleet") {
				return ErrNothingToUpdate
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			device, err := client.Devices().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching device: %w", err)
			}

			if flags.Changed("name") {
				device.Name = name
			}

			if flags.Changed("fleet") {
				device.FleetID = fleetID
			}

			if err := client.Devices().Update(cmd.Context(), device); err != nil {
				return fmt.Errorf("updating device: %w", err)
			}

			fmt.Printf("Updated device %s\n", device.DeviceID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new device name")
	cmd.Flags().StringVar(&fleetID, "fleet", "", "move the device to this fleet")

	return cmd
}

func newDevicesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DEVICE_ID",
		Short: "Delete a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			device := &fl33t.Device{DeviceID: args[0]}

			if err := client.Devices().Delete(cmd.Context(), device); err != nil {
				return fmt.Errorf("deleting device: %w", err)
			}

			fmt.Printf("Deleted device %s\n", args[0])

			return nil
		},
	}
}

func newDevicesUpgradeCommand() *cobra.Command {
	var installedBuildID string

	cmd := &cobra.Command{
		Use:   "upgrade DEVICE_ID",
		Short: "Check whether an upgrade is available",
		Long:  "Ask fl33t whether a newer firmware build is available for the device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			build, err := client.Devices().HasUpgradeAvailable(cmd.Context(), args[0], installedBuildID)
			if err != nil {
				return fmt.Errorf("checking for upgrade: %w", err)
			}

			if build == nil {
				fmt.Println("Device is up to date")

				return nil
			}

			output := viper.GetString("output")
			if !isTableOutput(output) {
				return renderEncoded(output, build)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("Build", build.BuildID)
			_ = table.Append("Version", build.Version)
			_ = table.Append("Train", build.TrainID)
			_ = table.Append("Download URL", build.DownloadURL)

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&installedBuildID, "installed-build", "", "build currently installed on the device")

	return cmd
}
