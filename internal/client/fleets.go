package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fl33t/fl33t-go/pkg/fl33t"
)

// FleetsClient implements the fl33t.FleetsClient interface.
type FleetsClient struct {
	client *Client
}

// NewFleetsClient creates a new fleets client.
func NewFleetsClient(client *Client) *FleetsClient {
	return &FleetsClient{client: client}
}

// Get fetches a fleet by ID.
func (f *FleetsClient) Get(ctx context.Context, fleetID string) (*fl33t.Fleet, error) {
	path := f.client.teamPath("fleet", fleetID)

	resp, err := f.client.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return nil, fl33t.NewInvalidFleetIDError(fleetID)
	}

	raw, err := decodeEnvelope(resp, "fleet", path)
	if err != nil {
		return nil, err
	}

	fleet := &fl33t.Fleet{}
	if err := json.Unmarshal(raw, fleet); err != nil {
		return nil, fmt.Errorf("decoding fleet: %w", err)
	}

	fleet.Bind(f.client)

	return fleet, nil
}

// List lazily iterates the team's fleets, optionally restricted to one train.
func (f *FleetsClient) List(ctx context.Context, opts *fl33t.FleetListOptions) *fl33t.Iterator[*fl33t.Fleet] {
	path := f.client.teamPath("fleets")

	base := url.Values{}

	var pageOpts *fl33t.PageOptions

	if opts != nil {
		pageOpts = &opts.PageOptions

		if opts.TrainID != "" {
			base.Set("train_id", opts.TrainID)
		}
	}

	fetch := func(ctx context.Context, offset, limit int) ([]*fl33t.Fleet, int, error) {
		resp, err := f.client.httpClient.Get(ctx, path, pageQuery(base, offset, limit))
		if err != nil {
			return nil, 0, err
		}

		fleets, total, err := decodeListEnvelope[fl33t.Fleet](resp, "fleets", "fleet_count", path)
		if err != nil {
			return nil, 0, err
		}

		for _, fleet := range fleets {
			fleet.Bind(f.client)
		}

		return fleets, total, nil
	}

	return fl33t.NewIterator(ctx, fetch, pageOpts, f.client.defaultQueryLimit)
}

// Create creates a new fleet and absorbs the service's view of it.
func (f *FleetsClient) Create(ctx context.Context, fleet *fl33t.Fleet) error {
	path := f.client.teamPath("fleet")

	resp, err := f.client.httpClient.Post(ctx, path, map[string]*fl33t.Fleet{"fleet": fleet})
	if err != nil {
		return err
	}

	raw, err := decodeEnvelope(resp, "fleet", path)
	if err != nil {
		return err
	}

	created := &fl33t.Fleet{}
	if err := json.Unmarshal(raw, created); err != nil {
		return fmt.Errorf("decoding fleet: %w", err)
	}

	fleet.Absorb(created)
	fleet.Bind(f.client)

	return nil
}

// Update saves the fleet's current state. Success is a 204.
func (f *FleetsClient) Update(ctx context.Context, fleet *fl33t.Fleet) error {
	path := f.client.teamPath("fleet", fleet.FleetID)

	resp, err := f.client.httpClient.Put(ctx, path, map[string]*fl33t.Fleet{"fleet": fleet})
	if err != nil {
		return err
	}

	return expectNoContent(resp, path, fl33t.NewInvalidFleetIDError(fleet.FleetID))
}

// Delete removes the fleet. Success is a 204.
func (f *FleetsClient) Delete(ctx context.Context, fleet *fl33t.Fleet) error {
	path := f.client.teamPath("fleet", fleet.FleetID)

	resp, err := f.client.httpClient.Delete(ctx, path)
	if err != nil {
		return err
	}

	return expectNoContent(resp, path, fl33t.NewInvalidFleetIDError(fleet.FleetID))
}
