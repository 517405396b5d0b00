package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fl33t/fl33t-go/pkg/fl33t"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBuildFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "firmware-2.0.0.bin")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestBuildsClient_Get(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/team/test-team/train/train-1/build/build-2", request.URL.Path)

		response := map[string]interface{}{
			"build": map[string]interface{}{
				"build_id": "build-2",
				"train_id": "train-1",
				"version":  "2.0.0",
				"status":   "available",
			},
		}
		_ = json.NewEncoder(writer).Encode(response)
	}))

	build, err := apiClient.Builds().Get(context.Background(), "train-1", "build-2")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", build.Version)
	assert.Equal(t, "available", build.Status)
}

func TestBuildsClient_List(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/team/test-team/train/train-1/builds", request.URL.Path)
		assert.Equal(t, "2.0.0", request.URL.Query().Get("version"))

		response := map[string]interface{}{
			"builds": []map[string]interface{}{
				{"build_id": "build-2", "train_id": "train-1", "version": "2.0.0"},
			},
			"build_count": 1,
		}
		_ = json.NewEncoder(writer).Encode(response)
	}))

	opts := &fl33t.BuildListOptions{Version: "2.0.0"}

	builds, err := apiClient.Builds().List(context.Background(), "train-1", opts).All()
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Equal(t, "build-2", builds[0].BuildID)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestBuildsClient_CreateAndUpload(t *testing.T) {
	t.Parallel()

	t.Run("create keeps the local file identity", func(t *testing.T) {
		t.Parallel()

		path := writeBuildFile(t, "firmware bytes")

		apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, "/team/test-team/train/train-1/build", request.URL.Path)

			var payload map[string]map[string]interface{}

			require.NoError(t, json.NewDecoder(request.Body).Decode(&payload))
			assert.Equal(t, "firmware-2.0.0.bin", payload["build"]["filename"])

			// The service echoes the record with its own ideas about
			// filename and size; those must not clobber the local values.
			response := map[string]interface{}{
				"build": map[string]interface{}{
					"build_id":   "build-7",
					"train_id":   "train-1",
					"version":    "2.0.0",
					"status":     "created",
					"filename":   "server-side-name.bin",
					"size":       0,
					"upload_url": "https://uploads.example.com/signed",
				},
			}
			_ = json.NewEncoder(writer).Encode(response)
		}))

		build, err := fl33t.NewBuildFromFile(path)
		require.NoError(t, err)

		build.TrainID = "train-1"
		build.Version = "2.0.0"

		originalSize := build.Size

		err = apiClient.Builds().Create(context.Background(), build)
		require.NoError(t, err)
		assert.Equal(t, "build-7", build.BuildID)
		assert.Equal(t, "https://uploads.example.com/signed", build.UploadURL)
		assert.Equal(t, "firmware-2.0.0.bin", build.Filename)
		assert.Equal(t, originalSize, build.Size)
		assert.Equal(t, path, build.FullPath)
	})

	t.Run("upload PUTs the file to the pre-signed URL", func(t *testing.T) {
		t.Parallel()

		path := writeBuildFile(t, "firmware bytes")

		uploadServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPut, request.Method)
			assert.Equal(t, "application/octet-stream", request.Header.Get("Content-Type"))
			assert.Equal(t, `attachment; filename="firmware-2.0.0.bin"`, request.Header.Get("Content-Disposition"))
			assert.Empty(t, request.Header.Get("Authorization"))

			body, err := io.ReadAll(request.Body)
			assert.NoError(t, err)
			assert.Equal(t, "firmware bytes", string(body))

			writer.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(uploadServer.Close)

		apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			response := map[string]interface{}{
				"build": map[string]interface{}{
					"build_id":   "build-7",
					"train_id":   "train-1",
					"upload_url": uploadServer.URL,
				},
			}
			_ = json.NewEncoder(writer).Encode(response)
		}))

		build, err := fl33t.NewBuildFromFile(path)
		require.NoError(t, err)

		build.TrainID = "train-1"

		require.NoError(t, apiClient.Builds().Create(context.Background(), build))
		require.NoError(t, apiClient.Builds().Upload(context.Background(), build))
	})

	t.Run("missing upload URL is not fatal", func(t *testing.T) {
		t.Parallel()

		path := writeBuildFile(t, "firmware bytes")

		apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte(`{"build": {"build_id": "build-7", "train_id": "train-1"}}`))
		}))

		build, err := fl33t.NewBuildFromFile(path)
		require.NoError(t, err)

		build.TrainID = "train-1"

		require.NoError(t, apiClient.Builds().Create(context.Background(), build))
		assert.Empty(t, build.UploadURL)

		// Uploading without a URL is the caller's error.
		err = apiClient.Builds().Upload(context.Background(), build)
		require.ErrorIs(t, err, fl33t.ErrNoUploadURL)
	})

	t.Run("failed upload surfaces ErrUploadFailed", func(t *testing.T) {
		t.Parallel()

		path := writeBuildFile(t, "firmware bytes")

		uploadServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusForbidden)
		}))
		t.Cleanup(uploadServer.Close)

		apiClient := newTestClient(t, nil)

		build, err := fl33t.NewBuildFromFile(path)
		require.NoError(t, err)

		build.UploadURL = uploadServer.URL

		err = apiClient.Builds().Upload(context.Background(), build)
		require.ErrorIs(t, err, fl33t.ErrUploadFailed)
	})
}

func TestBuildsClient_Delete(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodDelete, request.Method)
		assert.Equal(t, "/team/test-team/train/train-1/build/build-2", request.URL.Path)
		writer.WriteHeader(http.StatusNoContent)
	}))

	build := &fl33t.Build{TrainID: "train-1", BuildID: "build-2"}
	require.NoError(t, apiClient.Builds().Delete(context.Background(), build))
}

func TestBuild_TrainAccessor(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/team/test-team/train/train-1/build/build-2":
			_, _ = writer.Write([]byte(`{"build": {"build_id": "build-2", "train_id": "train-1"}}`))
		case "/team/test-team/train/train-1":
			_, _ = writer.Write([]byte(`{"train": {"train_id": "train-1", "name": "production"}}`))
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))

	build, err := apiClient.Builds().Get(context.Background(), "train-1", "build-2")
	require.NoError(t, err)

	train, err := build.Train(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Train %s: %s", "train-1", "production"), train.String())
}
