// Package client implements the fl33t.Client interface over the fl33t REST
// API. All resource paths are scoped under the configured team.
package client

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"github.com/fl33t/fl33t-go/internal/constants"
	"github.com/fl33t/fl33t-go/internal/http"
	"github.com/fl33t/fl33t-go/pkg/fl33t"
)

// Client implements the fl33t.Client interface and the record capability
// interfaces (fl33t.Ops); decoded records are bound to it.
type Client struct {
	httpClient *http.Client
	logger     fl33t.Logger

	teamID            string
	token             string
	generatedIDLength int
	defaultQueryLimit int

	sessions *SessionsClient
	trains   *TrainsClient
	fleets   *FleetsClient
	builds   *BuildsClient
	devices  *DevicesClient
}

// New creates a new fl33t API client.
func New(config *fl33t.Config) (*Client, error) {
	if config == nil {
		return nil, fl33t.ErrConfigRequired
	}

	if config.SessionToken == "" {
		return nil, fl33t.ErrSessionTokenRequired
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = fl33t.DefaultAPIHost
	}

	logger := config.Logger
	if logger == nil {
		logger = fl33t.NoopLogger{}
	}

	idLength := config.GeneratedIDLength
	if idLength < 1 {
		idLength = fl33t.DefaultGeneratedIDLength
	}

	queryLimit := config.DefaultQueryLimit
	if queryLimit < 1 {
		queryLimit = fl33t.DefaultQueryLimit
	}

	httpOpts := []http.Option{
		http.WithLogger(logger),
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	}

	client := &Client{
		httpClient:        http.NewClient(baseURL, config.SessionToken, httpOpts...),
		logger:            logger,
		teamID:            config.TeamID,
		token:             config.SessionToken,
		generatedIDLength: idLength,
		defaultQueryLimit: queryLimit,
	}

	client.initializeResourceClients()

	return client, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.sessions = NewSessionsClient(c)
	c.trains = NewTrainsClient(c)
	c.fleets = NewFleetsClient(c)
	c.builds = NewBuildsClient(c)
	c.devices = NewDevicesClient(c)
}

// TeamID implements fl33t.Client.TeamID.
func (c *Client) TeamID() string {
	return c.teamID
}

// Token implements fl33t.Client.Token.
func (c *Client) Token() string {
	return c.token
}

// Sessions implements fl33t.Client.Sessions.
func (c *Client) Sessions() fl33t.SessionsClient {
	return c.sessions
}

// Trains implements fl33t.Client.Trains.
func (c *Client) Trains() fl33t.TrainsClient {
	return c.trains
}

// Fleets implements fl33t.Client.Fleets.
func (c *Client) Fleets() fl33t.FleetsClient {
	return c.fleets
}

// Builds implements fl33t.Client.Builds.
func (c *Client) Builds() fl33t.BuildsClient {
	return c.builds
}

// Devices implements fl33t.Client.Devices.
func (c *Client) Devices() fl33t.DevicesClient {
	return c.devices
}

// teamPath builds a team-scoped API path.
func (c *Client) teamPath(parts ...string) string {
	return "/team/" + c.teamID + "/" + strings.Join(parts, "/")
}

// generateIDString generates a random lowercase-alphanumeric identifier for
// caller-chosen IDs such as device IDs. The IDs double as claim tokens, so
// the randomness comes from crypto/rand.
func (c *Client) generateIDString() (string, error) {
	alphabet := constants.GeneratedIDAlphabet
	buf := make([]byte, c.generatedIDLength)

	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("generating ID: %w", err)
		}

		buf[i] = alphabet[n.Int64()]
	}

	return string(buf), nil
}

// pageQuery builds the offset/limit query parameters for one page fetch.
func pageQuery(base url.Values, offset, limit int) url.Values {
	query := url.Values{}

	for key, values := range base {
		query[key] = values
	}

	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	return query
}

// Record capability delegation: the concrete client satisfies fl33t.Ops so
// that decoded records can perform mutations and resolve relationships.

// CreateSession implements fl33t.SessionOps.
func (c *Client) CreateSession(ctx context.Context, session *fl33t.Session) error {
	return c.sessions.Create(ctx, session)
}

// UpdateSession implements fl33t.SessionOps.
func (c *Client) UpdateSession(ctx context.Context, session *fl33t.Session) error {
	return c.sessions.Update(ctx, session)
}

// DeleteSession implements fl33t.SessionOps.
func (c *Client) DeleteSession(ctx context.Context, session *fl33t.Session) error {
	return c.sessions.Delete(ctx, session)
}

// CreateTrain implements fl33t.TrainOps.
func (c *Client) CreateTrain(ctx context.Context, train *fl33t.Train) error {
	return c.trains.Create(ctx, train)
}

// UpdateTrain implements fl33t.TrainOps.
func (c *Client) UpdateTrain(ctx context.Context, train *fl33t.Train) error {
	return c.trains.Update(ctx, train)
}

// DeleteTrain implements fl33t.TrainOps.
func (c *Client) DeleteTrain(ctx context.Context, train *fl33t.Train) error {
	return c.trains.Delete(ctx, train)
}

// CreateFleet implements fl33t.FleetOps.
func (c *Client) CreateFleet(ctx context.Context, fleet *fl33t.Fleet) error {
	return c.fleets.Create(ctx, fleet)
}

// UpdateFleet implements fl33t.FleetOps.
func (c *Client) UpdateFleet(ctx context.Context, fleet *fl33t.Fleet) error {
	return c.fleets.Update(ctx, fleet)
}

// DeleteFleet implements fl33t.FleetOps.
func (c *Client) DeleteFleet(ctx context.Context, fleet *fl33t.Fleet) error {
	return c.fleets.Delete(ctx, fleet)
}

// CreateBuild implements fl33t.BuildOps.
func (c *Client) CreateBuild(ctx context.Context, build *fl33t.Build) error {
	return c.builds.Create(ctx, build)
}

// UpdateBuild implements fl33t.BuildOps.
func (c *Client) UpdateBuild(ctx context.Context, build *fl33t.Build) error {
	return c.builds.Update(ctx, build)
}

// DeleteBuild implements fl33t.BuildOps.
func (c *Client) DeleteBuild(ctx context.Context, build *fl33t.Build) error {
	return c.builds.Delete(ctx, build)
}

// CreateDevice implements fl33t.DeviceOps.
func (c *Client) CreateDevice(ctx context.Context, device *fl33t.Device) error {
	return c.devices.Create(ctx, device)
}

// UpdateDevice implements fl33t.DeviceOps.
func (c *Client) UpdateDevice(ctx context.Context, device *fl33t.Device) error {
	return c.devices.Update(ctx, device)
}

// DeleteDevice implements fl33t.DeviceOps.
func (c *Client) DeleteDevice(ctx context.Context, device *fl33t.Device) error {
	return c.devices.Delete(ctx, device)
}

// GetTrain implements fl33t.FleetOps and fl33t.BuildOps.
func (c *Client) GetTrain(ctx context.Context, trainID string) (*fl33t.Train, error) {
	return c.trains.Get(ctx, trainID)
}

// GetFleet implements fl33t.DeviceOps.
func (c *Client) GetFleet(ctx context.Context, fleetID string) (*fl33t.Fleet, error) {
	return c.fleets.Get(ctx, fleetID)
}

// GetBuild implements fl33t.FleetOps and fl33t.DeviceOps.
func (c *Client) GetBuild(ctx context.Context, trainID, buildID string) (*fl33t.Build, error) {
	return c.builds.Get(ctx, trainID, buildID)
}

// ListFleets implements fl33t.TrainOps.
func (c *Client) ListFleets(ctx context.Context, trainID string, opts *fl33t.PageOptions) *fl33t.Iterator[*fl33t.Fleet] {
	listOpts := &fl33t.FleetListOptions{TrainID: trainID}
	if opts != nil {
		listOpts.PageOptions = *opts
	}

	return c.fleets.List(ctx, listOpts)
}

// ListBuilds implements fl33t.TrainOps.
func (c *Client) ListBuilds(ctx context.Context, trainID, version string, opts *fl33t.PageOptions) *fl33t.Iterator[*fl33t.Build] {
	listOpts := &fl33t.BuildListOptions{Version: version}
	if opts != nil {
		listOpts.PageOptions = *opts
	}

	return c.builds.List(ctx, trainID, listOpts)
}

// ListDevices implements fl33t.FleetOps.
func (c *Client) ListDevices(ctx context.Context, fleetID string, opts *fl33t.PageOptions) *fl33t.Iterator[*fl33t.Device] {
	listOpts := &fl33t.DeviceListOptions{FleetID: fleetID}
	if opts != nil {
		listOpts.PageOptions = *opts
	}

	return c.devices.List(ctx, listOpts)
}

// HasUpgradeAvailable implements fl33t.DeviceOps.
func (c *Client) HasUpgradeAvailable(ctx context.Context, deviceID, installedBuildID string) (*fl33t.Build, error) {
	return c.devices.HasUpgradeAvailable(ctx, deviceID, installedBuildID)
}

// decodeEnvelope extracts the named payload key from a singular response
// envelope. A missing key is a malformed response and fatal.
func decodeEnvelope(resp *http.Response, key, path string) (json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", key, err)
	}

	raw, ok := envelope[key]
	if !ok {
		return nil, &fl33t.APIError{
			URL:        path,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("response is missing the %q key", key),
		}
	}

	return raw, nil
}

// decodeListEnvelope extracts a page of records and the server-reported
// total count from a plural response envelope. A missing plural key is a
// malformed response and fatal, never silently empty; a missing count is
// treated as zero, i.e. no more pages.
func decodeListEnvelope[T any](resp *http.Response, plural, countKey, path string) ([]*T, int, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, 0, fmt.Errorf("decoding %s response: %w", plural, err)
	}

	raw, ok := envelope[plural]
	if !ok {
		return nil, 0, &fl33t.APIError{
			URL:        path,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("response is missing the %q key", plural),
		}
	}

	var items []*T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, fmt.Errorf("decoding %s items: %w", plural, err)
	}

	total := 0

	if rawCount, ok := envelope[countKey]; ok {
		if err := json.Unmarshal(rawCount, &total); err != nil {
			return nil, 0, fmt.Errorf("decoding %s: %w", countKey, err)
		}
	}

	return items, total, nil
}
