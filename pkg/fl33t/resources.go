package fl33t

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
)

// BuildStatuses is the declared value set for the Build status enum.
var BuildStatuses = []string{"created", "failed", "available"}

// Session is an API credential record with privilege flags. Its identity
// field is the session token itself.
type Session struct {
	SessionToken string     `json:"session_token"`
	Type         string     `json:"type"`
	Admin        TruthyBool `json:"admin"`
	Device       TruthyBool `json:"device"`
	Provisioning TruthyBool `json:"provisioning"`
	Readonly     TruthyBool `json:"readonly"`
	Upload       TruthyBool `json:"upload"`

	ops SessionOps
}

var sessionFields = map[string]struct{}{
	"session_token": {},
	"type":          {},
	"admin":         {},
	"device":        {},
	"provisioning":  {},
	"readonly":      {},
	"upload":        {},
}

// UnmarshalJSON implements json.Unmarshaler with strict field validation.
func (s *Session) UnmarshalJSON(data []byte) error {
	raw, err := rawFields("session", data, sessionFields)
	if err != nil {
		return err
	}

	for key, value := range raw {
		var fieldErr error

		switch key {
		case "session_token":
			fieldErr = json.Unmarshal(value, &s.SessionToken)
		case "type":
			fieldErr = json.Unmarshal(value, &s.Type)
		case "admin":
			fieldErr = s.Admin.UnmarshalJSON(value)
		case "device":
			fieldErr = s.Device.UnmarshalJSON(value)
		case "provisioning":
			fieldErr = s.Provisioning.UnmarshalJSON(value)
		case "readonly":
			fieldErr = s.Readonly.UnmarshalJSON(value)
		case "upload":
			fieldErr = s.Upload.UnmarshalJSON(value)
		}

		if fieldErr != nil {
			return fieldValueError(key, fieldErr)
		}
	}

	return nil
}

// Bind attaches the client operations used by Create, Update and Delete.
func (s *Session) Bind(ops SessionOps) {
	s.ops = ops
}

// ID returns this session's unique ID, which is its token.
func (s *Session) ID() string {
	return s.SessionToken
}

// Priv returns the session's effective privilege as a human-readable string.
// The flags are checked in decreasing order of capability.
func (s *Session) Priv() string {
	switch {
	case bool(s.Admin):
		return "admin"
	case bool(s.Device):
		return "device"
	case bool(s.Provisioning):
		return "provisioning"
	case bool(s.Upload):
		return "upload"
	case bool(s.Readonly):
		return "readonly"
	default:
		return "unprivileged"
	}
}

// String implements fmt.Stringer.
func (s *Session) String() string {
	return fmt.Sprintf("%s:%s:%s", s.Type, s.Priv(), s.SessionToken)
}

// Create creates this session in fl33t.
func (s *Session) Create(ctx context.Context) error {
	if s.ops == nil {
		return ErrClientMissing
	}

	return s.ops.CreateSession(ctx, s)
}

// Update updates this session in fl33t.
func (s *Session) Update(ctx context.Context) error {
	if s.ops == nil {
		return ErrClientMissing
	}

	return s.ops.UpdateSession(ctx, s)
}

// Delete deletes this session from fl33t.
func (s *Session) Delete(ctx context.Context) error {
	if s.ops == nil {
		return ErrClientMissing
	}

	return s.ops.DeleteSession(ctx, s)
}

// Absorb overwrites this record's fields from a server payload.
func (s *Session) Absorb(other *Session) {
	ops := s.ops
	*s = *other
	s.ops = ops
}

// Train is a named firmware release lineage; it owns builds and fleets.
type Train struct {
	TrainID      string    `json:"train_id"`
	Name         string    `json:"name"`
	UploadTstamp Timestamp `json:"upload_tstamp"`

	ops TrainOps
}

var trainFields = map[string]struct{}{
	"train_id":      {},
	"name":          {},
	"upload_tstamp": {},
}

// UnmarshalJSON implements json.Unmarshaler with strict field validation.
func (t *Train) UnmarshalJSON(data []byte) error {
	raw, err := rawFields("train", data, trainFields)
	if err != nil {
		return err
	}

	for key, value := range raw {
		var fieldErr error

		switch key {
		case "train_id":
			fieldErr = json.Unmarshal(value, &t.TrainID)
		case "name":
			fieldErr = json.Unmarshal(value, &t.Name)
		case "upload_tstamp":
			fieldErr = t.UploadTstamp.UnmarshalJSON(value)
		}

		if fieldErr != nil {
			return fieldValueError(key, fieldErr)
		}
	}

	return nil
}

// Bind attaches the client operations used by mutations and accessors.
func (t *Train) Bind(ops TrainOps) {
	t.ops = ops
}

// ID returns this train's unique ID.
func (t *Train) ID() string {
	return t.TrainID
}

// String implements fmt.Stringer.
func (t *Train) String() string {
	return fmt.Sprintf("Train %s: %s", t.TrainID, t.Name)
}

// Fleets returns an iterator over the fleets pinned to this train.
func (t *Train) Fleets(ctx context.Context) (*Iterator[*Fleet], error) {
	if t.ops == nil {
		return nil, ErrClientMissing
	}

	return t.ops.ListFleets(ctx, t.TrainID, nil), nil
}

// Builds returns an iterator over the builds belonging to this train.
func (t *Train) Builds(ctx context.Context) (*Iterator[*Build], error) {
	if t.ops == nil {
		return nil, ErrClientMissing
	}

	return t.ops.ListBuilds(ctx, t.TrainID, "", nil), nil
}

// Create creates this train in fl33t.
func (t *Train) Create(ctx context.Context) error {
	if t.ops == nil {
		return ErrClientMissing
	}

	return t.ops.CreateTrain(ctx, t)
}

// Update updates this train in fl33t.
func (t *Train) Update(ctx context.Context) error {
	if t.ops == nil {
		return ErrClientMissing
	}

	return t.ops.UpdateTrain(ctx, t)
}

// Delete deletes this train from fl33t.
func (t *Train) Delete(ctx context.Context) error {
	if t.ops == nil {
		return ErrClientMissing
	}

	return t.ops.DeleteTrain(ctx, t)
}

// Absorb overwrites this record's fields from a server payload.
func (t *Train) Absorb(other *Train) {
	ops := t.ops
	*t = *other
	t.ops = ops
}

// Fleet is a named group of devices pinned to a train and optionally a
// specific build.
type Fleet struct {
	FleetID    string     `json:"fleet_id"`
	Name       string     `json:"name"`
	Size       Int        `json:"size"`
	TrainID    string     `json:"train_id"`
	BuildID    string     `json:"build_id"`
	Unreleased TruthyBool `json:"unreleased"`

	ops FleetOps
}

var fleetFields = map[string]struct{}{
	"fleet_id":   {},
	"name":       {},
	"size":       {},
	"train_id":   {},
	"build_id":   {},
	"unreleased": {},
}

// UnmarshalJSON implements json.Unmarshaler with strict field validation.
func (f *Fleet) UnmarshalJSON(data []byte) error {
	raw, err := rawFields("fleet", data, fleetFields)
	if err != nil {
		return err
	}

	for key, value := range raw {
		var fieldErr error

		switch key {
		case "fleet_id":
			fieldErr = json.Unmarshal(value, &f.FleetID)
		case "name":
			fieldErr = json.Unmarshal(value, &f.Name)
		case "size":
			fieldErr = f.Size.UnmarshalJSON(value)
		case "train_id":
			fieldErr = json.Unmarshal(value, &f.TrainID)
		case "build_id":
			if string(value) != "null" {
				fieldErr = json.Unmarshal(value, &f.BuildID)
			}
		case "unreleased":
			fieldErr = f.Unreleased.UnmarshalJSON(value)
		}

		if fieldErr != nil {
			return fieldValueError(key, fieldErr)
		}
	}

	return nil
}

// Bind attaches the client operations used by mutations and accessors.
func (f *Fleet) Bind(ops FleetOps) {
	f.ops = ops
}

// ID returns this fleet's unique ID.
func (f *Fleet) ID() string {
	return f.FleetID
}

// String implements fmt.Stringer.
func (f *Fleet) String() string {
	status := "Released"
	if f.Unreleased {
		status = "Unreleased"
	}

	return fmt.Sprintf("Fleet %s: %s (Train: %s, Status: %s, Size: %d)",
		f.FleetID, f.Name, f.TrainID, status, f.Size)
}

// Train fetches the train this fleet is pinned to.
func (f *Fleet) Train(ctx context.Context) (*Train, error) {
	if f.ops == nil {
		return nil, ErrClientMissing
	}

	return f.ops.GetTrain(ctx, f.TrainID)
}

// Build fetches the build this fleet is pinned to. The parent train is
// resolved from the fleet's own train_id field.
func (f *Fleet) Build(ctx context.Context) (*Build, error) {
	if f.ops == nil {
		return nil, ErrClientMissing
	}

	return f.ops.GetBuild(ctx, f.TrainID, f.BuildID)
}

// Devices returns an iterator over the devices belonging to this fleet.
func (f *Fleet) Devices(ctx context.Context) (*Iterator[*Device], error) {
	if f.ops == nil {
		return nil, ErrClientMissing
	}

	return f.ops.ListDevices(ctx, f.FleetID, nil), nil
}

// Create creates this fleet in fl33t.
func (f *Fleet) Create(ctx context.Context) error {
	if f.ops == nil {
		return ErrClientMissing
	}

	return f.ops.CreateFleet(ctx, f)
}

// Update updates this fleet in fl33t.
func (f *Fleet) Update(ctx context.Context) error {
	if f.ops == nil {
		return ErrClientMissing
	}

	return f.ops.UpdateFleet(ctx, f)
}

// Delete deletes this fleet from fl33t.
func (f *Fleet) Delete(ctx context.Context) error {
	if f.ops == nil {
		return ErrClientMissing
	}

	return f.ops.DeleteFleet(ctx, f)
}

// Absorb overwrites this record's fields from a server payload.
func (f *Fleet) Absorb(other *Fleet) {
	ops := f.ops
	*f = *other
	f.ops = ops
}

// Build is one uploaded firmware artifact belonging to a train.
//
// FullPath is local-only and never transmitted: when a Build is constructed
// from a local file via NewBuildFromFile, it holds the original path used
// for the upload step while Filename carries only the base name.
type Build struct {
	BuildID      string     `json:"build_id"`
	Version      string     `json:"version"`
	Filename     string     `json:"filename"`
	MD5Sum       string     `json:"md5sum"`
	Size         Int        `json:"size"`
	Status       string     `json:"status"`
	Released     TruthyBool `json:"released"`
	TrainID      string     `json:"train_id"`
	UploadTstamp Timestamp  `json:"upload_tstamp"`
	UploadURL    string     `json:"upload_url"`
	DownloadURL  string     `json:"download_url"`

	FullPath string `json:"-"`

	ops BuildOps
}

var buildFields = map[string]struct{}{
	"build_id":      {},
	"version":       {},
	"filename":      {},
	"md5sum":        {},
	"size":          {},
	"status":        {},
	"released":      {},
	"train_id":      {},
	"upload_tstamp": {},
	"upload_url":    {},
	"download_url":  {},
}

// UnmarshalJSON implements json.Unmarshaler with strict field validation.
// A status outside the declared enum set is rejected.
func (b *Build) UnmarshalJSON(data []byte) error {
	raw, err := rawFields("build", data, buildFields)
	if err != nil {
		return err
	}

	for key, value := range raw {
		var fieldErr error

		switch key {
		case "build_id":
			fieldErr = json.Unmarshal(value, &b.BuildID)
		case "version":
			fieldErr = json.Unmarshal(value, &b.Version)
		case "filename":
			fieldErr = json.Unmarshal(value, &b.Filename)
		case "md5sum":
			fieldErr = json.Unmarshal(value, &b.MD5Sum)
		case "size":
			fieldErr = b.Size.UnmarshalJSON(value)
		case "status":
			if fieldErr = json.Unmarshal(value, &b.Status); fieldErr == nil {
				fieldErr = validateEnum("status", b.Status, BuildStatuses)
			}
		case "released":
			fieldErr = b.Released.UnmarshalJSON(value)
		case "train_id":
			fieldErr = json.Unmarshal(value, &b.TrainID)
		case "upload_tstamp":
			fieldErr = b.UploadTstamp.UnmarshalJSON(value)
		case "upload_url":
			fieldErr = json.Unmarshal(value, &b.UploadURL)
		case "download_url":
			fieldErr = json.Unmarshal(value, &b.DownloadURL)
		}

		if fieldErr != nil {
			return fieldValueError(key, fieldErr)
		}
	}

	return nil
}

// NewBuildFromFile constructs a Build from a local firmware file. The
// filename is reduced to its base name, and the MD5 checksum and byte size
// are computed from the file contents before any network call.
func NewBuildFromFile(path string) (*Build, error) {
	sum, err := MD5File(path)
	if err != nil {
		return nil, fmt.Errorf("hashing build file: %w", err)
	}

	size, err := FileSize(path)
	if err != nil {
		return nil, fmt.Errorf("sizing build file: %w", err)
	}

	return &Build{
		Filename: filepath.Base(path),
		FullPath: path,
		MD5Sum:   sum,
		Size:     Int(size),
	}, nil
}

// Bind attaches the client operations used by mutations and accessors.
func (b *Build) Bind(ops BuildOps) {
	b.ops = ops
}

// ID returns this build's unique ID.
func (b *Build) ID() string {
	return b.BuildID
}

// String implements fmt.Stringer.
func (b *Build) String() string {
	released := "Unreleased"
	if b.Released {
		released = "Released"
	}

	return fmt.Sprintf("Build %s: %s (Status: %s, Released: %s, Train: %s, Size: %d, Uploaded: %s)",
		b.BuildID, b.Version, b.Status, released, b.TrainID, b.Size, b.UploadTstamp)
}

// Train fetches the train this build belongs to.
func (b *Build) Train(ctx context.Context) (*Train, error) {
	if b.ops == nil {
		return nil, ErrClientMissing
	}

	return b.ops.GetTrain(ctx, b.TrainID)
}

// Create creates this build record in fl33t. When the record was built from
// a local file, the caller should follow up with the upload step; see
// BuildsClient.Upload.
func (b *Build) Create(ctx context.Context) error {
	if b.ops == nil {
		return ErrClientMissing
	}

	return b.ops.CreateBuild(ctx, b)
}

// Update updates this build in fl33t.
func (b *Build) Update(ctx context.Context) error {
	if b.ops == nil {
		return ErrClientMissing
	}

	return b.ops.UpdateBuild(ctx, b)
}

// Delete deletes this build from fl33t.
func (b *Build) Delete(ctx context.Context) error {
	if b.ops == nil {
		return ErrClientMissing
	}

	return b.ops.DeleteBuild(ctx, b)
}

// Absorb overwrites this record's fields from a server payload, except
// filename and size: the filename must not be clobbered or the upload step
// breaks, and the real file size is unknown to fl33t until after upload.
func (b *Build) Absorb(other *Build) {
	filename := b.Filename
	size := b.Size
	fullpath := b.FullPath
	ops := b.ops

	*b = *other

	b.Filename = filename
	b.Size = size
	b.FullPath = fullpath
	b.ops = ops
}

// Device is a single claimed unit belonging to a fleet, checking in
// periodically and polling for upgrades.
type Device struct {
	DeviceID      string    `json:"device_id"`
	Name          string    `json:"name"`
	FleetID       string    `json:"fleet_id"`
	BuildID       string    `json:"build_id"`
	SessionToken  string    `json:"session_token"`
	CheckinTstamp Timestamp `json:"checkin_tstamp"`

	ops DeviceOps
}

var deviceFields = map[string]struct{}{
	"device_id":      {},
	"name":           {},
	"fleet_id":       {},
	"build_id":       {},
	"session_token":  {},
	"checkin_tstamp": {},
}

// UnmarshalJSON implements json.Unmarshaler with strict field validation.
func (d *Device) UnmarshalJSON(data []byte) error {
	raw, err := rawFields("device", data, deviceFields)
	if err != nil {
		return err
	}

	for key, value := range raw {
		var fieldErr error

		switch key {
		case "device_id":
			fieldErr = json.Unmarshal(value, &d.DeviceID)
		case "name":
			fieldErr = json.Unmarshal(value, &d.Name)
		case "fleet_id":
			fieldErr = json.Unmarshal(value, &d.FleetID)
		case "build_id":
			fieldErr = json.Unmarshal(value, &d.BuildID)
		case "session_token":
			fieldErr = json.Unmarshal(value, &d.SessionToken)
		case "checkin_tstamp":
			fieldErr = d.CheckinTstamp.UnmarshalJSON(value)
		}

		if fieldErr != nil {
			return fieldValueError(key, fieldErr)
		}
	}

	return nil
}

// Bind attaches the client operations used by mutations and accessors.
func (d *Device) Bind(ops DeviceOps) {
	d.ops = ops
}

// ID returns this device's unique ID.
func (d *Device) ID() string {
	return d.DeviceID
}

// String implements fmt.Stringer.
func (d *Device) String() string {
	return fmt.Sprintf("Device %s: %s (Fleet: %s, Build: %s)",
		d.DeviceID, d.Name, d.FleetID, d.BuildID)
}

// Fleet fetches the fleet this device belongs to.
func (d *Device) Fleet(ctx context.Context) (*Fleet, error) {
	if d.ops == nil {
		return nil, ErrClientMissing
	}

	return d.ops.GetFleet(ctx, d.FleetID)
}

// Build fetches the build currently assigned to this device. The parent
// train is resolved through the device's fleet, since devices carry no
// train_id of their own.
func (d *Device) Build(ctx context.Context) (*Build, error) {
	if d.ops == nil {
		return nil, ErrClientMissing
	}

	fleet, err := d.ops.GetFleet(ctx, d.FleetID)
	if err != nil {
		return nil, fmt.Errorf("resolving fleet for device %s: %w", d.DeviceID, err)
	}

	return d.ops.GetBuild(ctx, fleet.TrainID, d.BuildID)
}

// UpgradeAvailable returns the available firmware upgrade for this device,
// or nil when the device is already current. The installed build defaults
// to the device's own build_id when not supplied.
func (d *Device) UpgradeAvailable(ctx context.Context, installedBuildID string) (*Build, error) {
	if d.ops == nil {
		return nil, ErrClientMissing
	}

	if installedBuildID == "" {
		installedBuildID = d.BuildID
	}

	return d.ops.HasUpgradeAvailable(ctx, d.DeviceID, installedBuildID)
}

// Create creates this device in fl33t. An empty device_id is filled in with
// a generated identifier by the client.
func (d *Device) Create(ctx context.Context) error {
	if d.ops == nil {
		return ErrClientMissing
	}

	return d.ops.CreateDevice(ctx, d)
}

// Update updates this device in fl33t.
func (d *Device) Update(ctx context.Context) error {
	if d.ops == nil {
		return ErrClientMissing
	}

	return d.ops.UpdateDevice(ctx, d)
}

// Delete deletes this device from fl33t.
func (d *Device) Delete(ctx context.Context) error {
	if d.ops == nil {
		return ErrClientMissing
	}

	return d.ops.DeleteDevice(ctx, d)
}

// Absorb overwrites this record's fields from a server payload.
func (d *Device) Absorb(other *Device) {
	ops := d.ops
	*d = *other
	d.ops = ops
}
