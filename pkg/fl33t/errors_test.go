package fl33t_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fl33t/fl33t-go/pkg/fl33t"
	"github.com/stretchr/testify/assert"
)

func TestInvalidIDError_Error(t *testing.T) {
	t.Parallel()

	err := fl33t.NewInvalidDeviceIDError("dev-1")
	assert.Equal(t, `no device with ID "dev-1" exists in fl33t`, err.Error())

	err = fl33t.NewInvalidSessionIDError("")
	assert.Equal(t, "no session by that ID exists in fl33t", err.Error())
}

func TestInvalidIDError_SurvivesWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("fetching train: %w", fl33t.NewInvalidTrainIDError("train-1"))
	assert.True(t, fl33t.IsInvalidID(wrapped))

	var invalidID *fl33t.InvalidIDError

	assert.True(t, errors.As(wrapped, &invalidID))
	assert.Equal(t, fl33t.ResourceTrain, invalidID.Resource)
	assert.Equal(t, "train-1", invalidID.ID)
}

func TestUnprivilegedTokenError(t *testing.T) {
	t.Parallel()

	err := &fl33t.UnprivilegedTokenError{URL: "https://api.fl33t.com/team/x/trains"}
	assert.Equal(t, "the token does not have enough privilege to view: https://api.fl33t.com/team/x/trains", err.Error())
	assert.True(t, fl33t.IsUnprivileged(err))
	assert.True(t, fl33t.IsUnprivileged(fmt.Errorf("listing: %w", err)))
	assert.False(t, fl33t.IsUnprivileged(errors.New("other")))
}

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	err := &fl33t.APIError{
		URL:        "https://api.fl33t.com/team/x/trains",
		StatusCode: 502,
		Message:    "upstream broken",
	}
	assert.Equal(t, "the fl33t API returned an error for: https://api.fl33t.com/team/x/trains : 502 - upstream broken", err.Error())
}

func TestDuplicateDeviceIDError_Error(t *testing.T) {
	t.Parallel()

	err := &fl33t.DuplicateDeviceIDError{DeviceID: "dev-1"}
	assert.Equal(t, `a device with ID "dev-1" already exists in fl33t`, err.Error())
}
