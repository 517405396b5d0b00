package fl33t

import (
	"context"
	"net/http"
)

// DefaultAPIHost is the production fl33t API endpoint.
const DefaultAPIHost = "https://api.fl33t.com"

// Defaults applied by the client constructor; see Config.
const (
	DefaultGeneratedIDLength = 6
	DefaultQueryLimit        = 25
)

// Client provides access to all fl33t resource clients.
type Client interface {
	Sessions() SessionsClient
	Trains() TrainsClient
	Fleets() FleetsClient
	Builds() BuildsClient
	Devices() DevicesClient

	// TeamID returns the team scope this client operates under.
	TeamID() string
	// Token returns the session token this client authenticates with.
	Token() string
}

// SessionsClient manages API session records.
type SessionsClient interface {
	// Get fetches a session by its token.
	Get(ctx context.Context, sessionToken string) (*Session, error)
	// GetOwn fetches the session for the token this client authenticates with.
	GetOwn(ctx context.Context) (*Session, error)
	List(ctx context.Context, opts *PageOptions) *Iterator[*Session]
	Create(ctx context.Context, session *Session) error
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, session *Session) error
}

// TrainsClient manages firmware release trains.
type TrainsClient interface {
	Get(ctx context.Context, trainID string) (*Train, error)
	List(ctx context.Context, opts *PageOptions) *Iterator[*Train]
	Create(ctx context.Context, train *Train) error
	Update(ctx context.Context, train *Train) error
	Delete(ctx context.Context, train *Train) error
}

// FleetsClient manages device fleets.
type FleetsClient interface {
	Get(ctx context.Context, fleetID string) (*Fleet, error)
	List(ctx context.Context, opts *FleetListOptions) *Iterator[*Fleet]
	Create(ctx context.Context, fleet *Fleet) error
	Update(ctx context.Context, fleet *Fleet) error
	Delete(ctx context.Context, fleet *Fleet) error
}

// BuildsClient manages firmware builds within a train.
type BuildsClient interface {
	Get(ctx context.Context, trainID, buildID string) (*Build, error)
	List(ctx context.Context, trainID string, opts *BuildListOptions) *Iterator[*Build]
	// Create registers the build record. When the service hands back an
	// upload URL and the record was built from a local file, follow up with
	// Upload to push the artifact bytes.
	Create(ctx context.Context, build *Build) error
	// Upload PUTs the build file to the pre-signed upload URL returned by
	// Create. The request carries no bearer token; the URL is self-authenticating.
	Upload(ctx context.Context, build *Build) error
	Update(ctx context.Context, build *Build) error
	Delete(ctx context.Context, build *Build) error
}

// DevicesClient manages devices.
type DevicesClient interface {
	Get(ctx context.Context, deviceID string) (*Device, error)
	List(ctx context.Context, opts *DeviceListOptions) *Iterator[*Device]
	// Create registers the device. An empty device_id is filled in with a
	// generated lowercase-alphanumeric identifier; a 409 from the service
	// surfaces as DuplicateDeviceIDError.
	Create(ctx context.Context, device *Device) error
	Update(ctx context.Context, device *Device) error
	Delete(ctx context.Context, device *Device) error
	// HasUpgradeAvailable checks whether a newer build is available for the
	// device. A nil Build with nil error means the device is current.
	HasUpgradeAvailable(ctx context.Context, deviceID, installedBuildID string) (*Build, error)
}

// SessionOps is the capability interface a Session record holds for
// performing network mutations.
type SessionOps interface {
	CreateSession(ctx context.Context, session *Session) error
	UpdateSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, session *Session) error
}

// TrainOps is the capability interface a Train record holds.
type TrainOps interface {
	CreateTrain(ctx context.Context, train *Train) error
	UpdateTrain(ctx context.Context, train *Train) error
	DeleteTrain(ctx context.Context, train *Train) error
	ListFleets(ctx context.Context, trainID string, opts *PageOptions) *Iterator[*Fleet]
	ListBuilds(ctx context.Context, trainID, version string, opts *PageOptions) *Iterator[*Build]
}

// FleetOps is the capability interface a Fleet record holds.
type FleetOps interface {
	CreateFleet(ctx context.Context, fleet *Fleet) error
	UpdateFleet(ctx context.Context, fleet *Fleet) error
	DeleteFleet(ctx context.Context, fleet *Fleet) error
	GetTrain(ctx context.Context, trainID string) (*Train, error)
	GetBuild(ctx context.Context, trainID, buildID string) (*Build, error)
	ListDevices(ctx context.Context, fleetID string, opts *PageOptions) *Iterator[*Device]
}

// BuildOps is the capability interface a Build record holds.
type BuildOps interface {
	CreateBuild(ctx context.Context, build *Build) error
	UpdateBuild(ctx context.Context, build *Build) error
	DeleteBuild(ctx context.Context, build *Build) error
	GetTrain(ctx context.Context, trainID string) (*Train, error)
}

// DeviceOps is the capability interface a Device record holds.
type DeviceOps interface {
	CreateDevice(ctx context.Context, device *Device) error
	UpdateDevice(ctx context.Context, device *Device) error
	DeleteDevice(ctx context.Context, device *Device) error
	GetFleet(ctx context.Context, fleetID string) (*Fleet, error)
	GetBuild(ctx context.Context, trainID, buildID string) (*Build, error)
	HasUpgradeAvailable(ctx context.Context, deviceID, installedBuildID string) (*Build, error)
}

// Ops bundles every capability interface; the concrete client implements it
// and is what records get bound to.
type Ops interface {
	SessionOps
	TrainOps
	FleetOps
	BuildOps
	DeviceOps
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NoopLogger is a Logger that discards everything.
type NoopLogger struct{}

// Debug implements Logger.
func (NoopLogger) Debug(string, map[string]interface{}) {}

// Info implements Logger.
func (NoopLogger) Info(string, map[string]interface{}) {}

// Warn implements Logger.
func (NoopLogger) Warn(string, map[string]interface{}) {}

// Error implements Logger.
func (NoopLogger) Error(string, map[string]interface{}) {}

// Config represents client configuration for building a fl33t Client.
type Config struct {
	// TeamID is the tenant scope; all resource paths live under it.
	TeamID string
	// SessionToken is the bearer token sent on every request. Required;
	// construction fails without it.
	SessionToken string
	// BaseURL overrides the API endpoint. Defaults to DefaultAPIHost.
	BaseURL string
	// GeneratedIDLength is the length of generated device IDs. Defaults to
	// 6; values below 1 fall back to the default. Device IDs double as claim
	// tokens, so generation uses a cryptographically strong random source.
	GeneratedIDLength int
	// DefaultQueryLimit is the per-page limit for auto-paginated listings.
	// Defaults to 25; values below 1 fall back to the default.
	DefaultQueryLimit int
	// Debug enables request/response logging through Logger.
	Debug bool
	// Logger is the structured logger used by the HTTP layer and clients.
	// Defaults to NoopLogger.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// HTTPClient overrides the underlying HTTP client, mainly for tests.
	HTTPClient *http.Client
}

// PageOptions controls pagination of list endpoints.
type PageOptions struct {
	// Offset, when set, requests exactly one page starting at that offset;
	// the iterator will not auto-advance. When nil, the listing paginates
	// automatically from offset 0.
	Offset *int
	// Limit is the per-page limit. Zero means the client's default. It is a
	// page size, not a cap on total results.
	Limit int
}

// FleetListOptions are the filters accepted by the fleet listing.
type FleetListOptions struct {
	PageOptions

	// TrainID restricts the listing to fleets on one train.
	TrainID string
}

// BuildListOptions are the filters accepted by the build listing.
type BuildListOptions struct {
	PageOptions

	// Version restricts the listing to builds of one version.
	Version string
}

// DeviceListOptions are the filters accepted by the device listing.
type DeviceListOptions struct {
	PageOptions

	// FleetID restricts the listing to devices in one fleet.
	FleetID string
}
