package fl33t

import (
	"errors"
	"fmt"
)

// Static errors that can be wrapped with context.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrSessionTokenRequired = errors.New("session token is required")
	ErrClientMissing        = errors.New("record is not bound to a client")
	ErrNoMoreItems          = errors.New("no more items")
	ErrUploadFailed         = errors.New("build file upload failed")
	ErrNoUploadURL          = errors.New("no upload URL provided for build")
)

// Resource kind names used by InvalidIDError.
const (
	ResourceSession = "session"
	ResourceFleet   = "fleet"
	ResourceTrain   = "train"
	ResourceBuild   = "build"
	ResourceDevice  = "device"
)

// InvalidIDError reports that the service responded 400 or 404 to an
// operation addressed to a specific resource ID.
type InvalidIDError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *InvalidIDError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("no %s by that ID exists in fl33t", e.Resource)
	}

	return fmt.Sprintf("no %s with ID %q exists in fl33t", e.Resource, e.ID)
}

// NewInvalidSessionIDError returns an InvalidIDError for a session token.
func NewInvalidSessionIDError(id string) *InvalidIDError {
	return &InvalidIDError{Resource: ResourceSession, ID: id}
}

// NewInvalidFleetIDError returns an InvalidIDError for a fleet ID.
func NewInvalidFleetIDError(id string) *InvalidIDError {
	return &InvalidIDError{Resource: ResourceFleet, ID: id}
}

// NewInvalidTrainIDError returns an InvalidIDError for a train ID.
func NewInvalidTrainIDError(id string) *InvalidIDError {
	return &InvalidIDError{Resource: ResourceTrain, ID: id}
}

// NewInvalidBuildIDError returns an InvalidIDError for a build ID.
func NewInvalidBuildIDError(id string) *InvalidIDError {
	return &InvalidIDError{Resource: ResourceBuild, ID: id}
}

// NewInvalidDeviceIDError returns an InvalidIDError for a device ID.
func NewInvalidDeviceIDError(id string) *InvalidIDError {
	return &InvalidIDError{Resource: ResourceDevice, ID: id}
}

// IsInvalidID checks if the error is an InvalidIDError for any resource kind.
func IsInvalidID(err error) bool {
	var invalidID *InvalidIDError

	return errors.As(err, &invalidID)
}

// DuplicateDeviceIDError reports a 409 on device creation. Device IDs may be
// caller-chosen, so collisions are possible; other resource kinds use
// server-generated IDs and cannot collide.
type DuplicateDeviceIDError struct {
	DeviceID string
}

// Error implements the error interface.
func (e *DuplicateDeviceIDError) Error() string {
	return fmt.Sprintf("a device with ID %q already exists in fl33t", e.DeviceID)
}

// UnprivilegedTokenError reports a 401 or 403 from the service.
type UnprivilegedTokenError struct {
	URL string
}

// Error implements the error interface.
func (e *UnprivilegedTokenError) Error() string {
	return fmt.Sprintf("the token does not have enough privilege to view: %s", e.URL)
}

// IsUnprivileged checks if the error is an UnprivilegedTokenError.
func IsUnprivileged(err error) bool {
	var unprivileged *UnprivilegedTokenError

	return errors.As(err, &unprivileged)
}

// APIError reports a 5xx from the service, or a successful-looking response
// that is missing an expected payload key.
type APIError struct {
	URL        string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("the fl33t API returned an error for: %s : %d - %s", e.URL, e.StatusCode, e.Message)
}

// UnknownFieldError reports a field outside a record's declared field set,
// detected at decode time.
type UnknownFieldError struct {
	Type  string
	Field string
}

// Error implements the error interface.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s is not a valid field of %s", e.Field, e.Type)
}

// FieldValueError reports a declared field whose value failed coercion or
// enum validation.
type FieldValueError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *FieldValueError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
