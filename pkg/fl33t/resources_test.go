package fl33t_test

import (
	"context"
	"crypto/md5" //nolint:gosec // mirrors the production integrity check
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fl33t/fl33t-go/pkg/fl33t"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Unmarshal(t *testing.T) {
	t.Parallel()

	t.Run("decodes privilege flags", func(t *testing.T) {
		t.Parallel()

		payload := `{
			"session_token": "token-abc",
			"type": "api",
			"admin": false,
			"device": false,
			"provisioning": true,
			"readonly": true,
			"upload": false
		}`

		var session fl33t.Session

		err := json.Unmarshal([]byte(payload), &session)
		require.NoError(t, err)
		assert.Equal(t, "token-abc", session.SessionToken)
		assert.Equal(t, "api", session.Type)
		assert.False(t, session.Admin.Bool())
		assert.True(t, session.Provisioning.Bool())
		assert.Equal(t, "provisioning", session.Priv())
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		var session fl33t.Session

		err := json.Unmarshal([]byte(`{"session_token": "x", "color": "red"}`), &session)
		require.Error(t, err)

		var unknown *fl33t.UnknownFieldError

		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "color", unknown.Field)
		assert.Equal(t, "session", unknown.Type)
	})

	t.Run("instances do not share state", func(t *testing.T) {
		t.Parallel()

		var first, second fl33t.Session

		require.NoError(t, json.Unmarshal([]byte(`{"session_token": "one", "admin": true}`), &first))
		require.NoError(t, json.Unmarshal([]byte(`{"session_token": "two"}`), &second))

		assert.Equal(t, "one", first.SessionToken)
		assert.True(t, first.Admin.Bool())
		assert.Equal(t, "two", second.SessionToken)
		assert.False(t, second.Admin.Bool())
	})
}

func TestSession_Priv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		session  fl33t.Session
		expected string
	}{
		{name: "unprivileged", session: fl33t.Session{}, expected: "unprivileged"},
		{name: "readonly", session: fl33t.Session{Readonly: true}, expected: "readonly"},
		{name: "upload beats readonly", session: fl33t.Session{Upload: true, Readonly: true}, expected: "upload"},
		{name: "provisioning beats upload", session: fl33t.Session{Provisioning: true, Upload: true}, expected: "provisioning"},
		{name: "device beats provisioning", session: fl33t.Session{Device: true, Provisioning: true}, expected: "device"},
		{name: "admin beats everything", session: fl33t.Session{Admin: true, Device: true, Readonly: true}, expected: "admin"},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, testCase.session.Priv())
		})
	}
}

func TestFleet_Unmarshal(t *testing.T) {
	t.Parallel()

	t.Run("coerces size and unreleased", func(t *testing.T) {
		t.Parallel()

		payload := `{
			"fleet_id": "fleet-1",
			"name": "production",
			"size": "250",
			"train_id": "train-1",
			"build_id": null,
			"unreleased": "false"
		}`

		var fleet fl33t.Fleet

		err := json.Unmarshal([]byte(payload), &fleet)
		require.NoError(t, err)
		assert.Equal(t, int64(250), fleet.Size.Int64())
		assert.Empty(t, fleet.BuildID)
		// "false" is a nonempty string, hence truthy.
		assert.True(t, fleet.Unreleased.Bool())
	})

	t.Run("bad size is a field error", func(t *testing.T) {
		t.Parallel()

		var fleet fl33t.Fleet

		err := json.Unmarshal([]byte(`{"fleet_id": "f", "size": "large"}`), &fleet)
		require.Error(t, err)

		var fieldErr *fl33t.FieldValueError

		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "size", fieldErr.Field)
	})
}

func TestBuild_Unmarshal(t *testing.T) {
	t.Parallel()

	t.Run("valid status", func(t *testing.T) {
		t.Parallel()

		payload := `{
			"build_id": "build-1",
			"version": "1.2.3",
			"status": "available",
			"released": true,
			"train_id": "train-1",
			"upload_tstamp": "2024-05-01T10:30:00Z"
		}`

		var build fl33t.Build

		err := json.Unmarshal([]byte(payload), &build)
		require.NoError(t, err)
		assert.Equal(t, "available", build.Status)
		assert.True(t, build.Released.Bool())
		assert.True(t, build.UploadTstamp.Valid)
	})

	t.Run("status outside the enum is rejected", func(t *testing.T) {
		t.Parallel()

		var build fl33t.Build

		err := json.Unmarshal([]byte(`{"build_id": "b", "status": "pending"}`), &build)
		require.Error(t, err)

		var fieldErr *fl33t.FieldValueError

		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "status", fieldErr.Field)
	})

	t.Run("unset upload timestamp", func(t *testing.T) {
		t.Parallel()

		var build fl33t.Build

		err := json.Unmarshal([]byte(`{"build_id": "b", "upload_tstamp": null}`), &build)
		require.NoError(t, err)
		assert.False(t, build.UploadTstamp.Valid)
	})
}

func TestBuild_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		payload  string
		sentinel string
	}{
		{
			name: "uploaded build",
			payload: `{
				"build_id": "build-1",
				"version": "1.2.3",
				"filename": "firmware-1.2.3.bin",
				"md5sum": "d41d8cd98f00b204e9800998ecf8427e",
				"size": 2048,
				"status": "available",
				"released": true,
				"train_id": "train-1",
				"upload_tstamp": "2024-05-01T10:30:00Z"
			}`,
		},
		{
			name:     "pending build keeps the falsy sentinel",
			payload:  `{"build_id": "build-2", "train_id": "train-1", "status": "created", "upload_tstamp": 0}`,
			sentinel: `"upload_tstamp":0`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var build fl33t.Build
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &build))

			encoded, err := json.Marshal(&build)
			require.NoError(t, err)
			if tt.sentinel != "" {
				assert.Contains(t, string(encoded), tt.sentinel)
			}

			var decoded fl33t.Build
			require.NoError(t, json.Unmarshal(encoded, &decoded))
			assert.Equal(t, build, decoded)
		})
	}
}

func TestNewBuildFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "firmware-1.2.3.bin")
	contents := []byte("firmware image contents")
	require.NoError(t, os.WriteFile(path, contents, 0o600))

	sum := md5.Sum(contents) //nolint:gosec // mirrors the production integrity check

	build, err := fl33t.NewBuildFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "firmware-1.2.3.bin", build.Filename)
	assert.Equal(t, path, build.FullPath)
	assert.Equal(t, hex.EncodeToString(sum[:]), build.MD5Sum)
	assert.Equal(t, int64(len(contents)), build.Size.Int64())

	_, err = fl33t.NewBuildFromFile(filepath.Join(dir, "missing.bin"))
	require.Error(t, err)
}

func TestBuild_Absorb(t *testing.T) {
	t.Parallel()

	local := &fl33t.Build{
		Filename: "firmware.bin",
		FullPath: "/tmp/firmware.bin",
		Size:     1024,
		Version:  "1.0.0",
	}

	server := &fl33t.Build{
		BuildID:   "build-9",
		Version:   "1.0.0",
		Filename:  "ignored-by-absorb",
		Size:      0,
		Status:    "created",
		TrainID:   "train-1",
		UploadURL: "https://uploads.example.com/signed",
	}

	local.Absorb(server)

	assert.Equal(t, "build-9", local.BuildID)
	assert.Equal(t, "https://uploads.example.com/signed", local.UploadURL)
	// The local file identity must survive absorption.
	assert.Equal(t, "firmware.bin", local.Filename)
	assert.Equal(t, "/tmp/firmware.bin", local.FullPath)
	assert.Equal(t, int64(1024), local.Size.Int64())
}

func TestRecords_UnboundOperations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	assert.ErrorIs(t, (&fl33t.Session{}).Create(ctx), fl33t.ErrClientMissing)
	assert.ErrorIs(t, (&fl33t.Train{}).Update(ctx), fl33t.ErrClientMissing)
	assert.ErrorIs(t, (&fl33t.Fleet{}).Delete(ctx), fl33t.ErrClientMissing)
	assert.ErrorIs(t, (&fl33t.Build{}).Create(ctx), fl33t.ErrClientMissing)
	assert.ErrorIs(t, (&fl33t.Device{}).Update(ctx), fl33t.ErrClientMissing)

	_, err := (&fl33t.Fleet{}).Train(ctx)
	assert.ErrorIs(t, err, fl33t.ErrClientMissing)

	_, err = (&fl33t.Device{}).UpgradeAvailable(ctx, "")
	assert.ErrorIs(t, err, fl33t.ErrClientMissing)
}

func TestRecord_Strings(t *testing.T) {
	t.Parallel()

	session := &fl33t.Session{SessionToken: "tok", Type: "api", Upload: true}
	assert.Equal(t, "api:upload:tok", session.String())

	train := &fl33t.Train{TrainID: "train-1", Name: "production"}
	assert.Equal(t, "Train train-1: production", train.String())

	device := &fl33t.Device{DeviceID: "dev-1", Name: "unit", FleetID: "fleet-1", BuildID: "build-1"}
	assert.Equal(t, "Device dev-1: unit (Fleet: fleet-1, Build: build-1)", device.String())
}

func TestIsInvalidID(t *testing.T) {
	t.Parallel()

	assert.True(t, fl33t.IsInvalidID(fl33t.NewInvalidTrainIDError("train-1")))
	assert.False(t, fl33t.IsInvalidID(errors.New("boom")))
	assert.False(t, fl33t.IsInvalidID(nil))
}
