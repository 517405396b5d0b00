package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fl33t/fl33t-go/pkg/fl33t"
)

// DevicesClient implements the fl33t.DevicesClient interface.
type DevicesClient struct {
	client *Client
}

// NewDevicesClient creates a new devices client.
func NewDevicesClient(client *Client) *DevicesClient {
	return &DevicesClient{client: client}
}

// Get fetches a device by ID.
func (d *DevicesClient) Get(ctx context.Context, deviceID string) (*fl33t.Device, error) {
	path := d.client.teamPath("device", deviceID)

	resp, err := d.client.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return nil, fl33t.NewInvalidDeviceIDError(deviceID)
	}

	raw, err := decodeEnvelope(resp, "device", path)
	if err != nil {
		return nil, err
	}

	device := &fl33t.Device{}
	if err := json.Unmarshal(raw, device); err != nil {
		return nil, fmt.Errorf("decoding device: %w", err)
	}

	device.Bind(d.client)

	return device, nil
}

// List lazily iterates the team's devices, optionally restricted to one
// fleet.
func (d *DevicesClient) List(ctx context.Context, opts *fl33t.DeviceListOptions) *fl33t.Iterator[*fl33t.Device] {
	path := d.client.teamPath("devices")

	base := url.Values{}

	var pageOpts *fl33t.PageOptions

	if opts != nil {
		pageOpts = &opts.PageOptions

		if opts.FleetID != "" {
			base.Set("fleet_id", opts.FleetID)
		}
	}

	fetch := func(ctx context.Context, offset, limit int) ([]*fl33t.Device, int, error) {
		resp, err := d.client.httpClient.Get(ctx, path, pageQuery(base, offset, limit))
		if err != nil {
			return nil, 0, err
		}

		devices, total, err := decodeListEnvelope[fl33t.Device](resp, "devices", "device_count", path)
		if err != nil {
			return nil, 0, err
		}

		for _, device := range devices {
			device.Bind(d.client)
		}

		return devices, total, nil
	}

	return fl33t.NewIterator(ctx, fetch, pageOpts, d.client.defaultQueryLimit)
}

// Create registers the device. An empty DeviceID is filled in with a
// generated identifier before the request; a 409 from the service means the
// chosen ID is already taken.
func (d *DevicesClient) Create(ctx context.Context, device *fl33t.Device) error {
	if device.DeviceID == "" {
		generated, err := d.client.generateIDString()
		if err != nil {
			return err
		}

		device.DeviceID = generated
	}

	path := d.client.teamPath("device")

	resp, err := d.client.httpClient.Post(ctx, path, map[string]*fl33t.Device{"device": device})
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusConflict {
		return &fl33t.DuplicateDeviceIDError{DeviceID: device.DeviceID}
	}

	raw, err := decodeEnvelope(resp, "device", path)
	if err != nil {
		return err
	}

	created := &fl33t.Device{}
	if err := json.Unmarshal(raw, created); err != nil {
		return fmt.Errorf("decoding device: %w", err)
	}

	device.Absorb(created)
	device.Bind(d.client)

	return nil
}

// Update saves the device's current state. Success is a 204.
func (d *DevicesClient) Update(ctx context.Context, device *fl33t.Device) error {
	path := d.client.teamPath("device", device.DeviceID)

	resp, err := d.client.httpClient.Put(ctx, path, map[string]*fl33t.Device{"device": device})
	if err != nil {
		return err
	}

	return expectNoContent(resp, path, fl33t.NewInvalidDeviceIDError(device.DeviceID))
}

// Delete removes the device. Success is a 204.
func (d *DevicesClient) Delete(ctx context.Context, device *fl33t.Device) error {
	path := d.client.teamPath("device", device.DeviceID)

	resp, err := d.client.httpClient.Delete(ctx, path)
	if err != nil {
		return err
	}

	return expectNoContent(resp, path, fl33t.NewInvalidDeviceIDError(device.DeviceID))
}

// HasUpgradeAvailable asks whether a newer build is available for the
// device. installedBuildID is optional; when set it is passed to the service
// so the answer is relative to that build. A 204 means the device is
// current and returns (nil, nil).
func (d *DevicesClient) HasUpgradeAvailable(ctx context.Context, deviceID, installedBuildID string) (*fl33t.Build, error) {
	path := d.client.teamPath("device", deviceID, "build")

	var query url.Values

	if installedBuildID != "" {
		query = url.Values{}
		query.Set("installed_build_id", installedBuildID)
	}

	resp, err := d.client.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusBadRequest, http.StatusNotFound:
		return nil, fl33t.NewInvalidDeviceIDError(deviceID)
	}

	raw, err := decodeEnvelope(resp, "build", path)
	if err != nil {
		return nil, err
	}

	build := &fl33t.Build{}
	if err := json.Unmarshal(raw, build); err != nil {
		return nil, fmt.Errorf("decoding build: %w", err)
	}

	build.Bind(d.client)

	return build, nil
}
