package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	internalhttp "github.com/fl33t/fl33t-go/internal/http"
	"github.com/fl33t/fl33t-go/pkg/fl33t"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/team/test-team/trains", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			response := map[string]string{"train_id": "train-abc", "name": "production"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL, "test-token")

		req := &internalhttp.Request{
			Method: "GET",
			Path:   "/team/test-team/trains",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "train-abc", result["train_id"])
		assert.Equal(t, "production", result["name"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/team/test-team/devices", request.URL.Path)
			assert.Equal(t, "limit=25&offset=0", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL, "test-token")

		req := &internalhttp.Request{
			Method: "GET",
			Path:   "/team/test-team/devices",
			Query:  url.Values{"offset": []string{"0"}, "limit": []string{"25"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var payload map[string]map[string]string

			err := json.NewDecoder(request.Body).Decode(&payload)
			assert.NoError(t, err)
			assert.Equal(t, "nightly", payload["train"]["name"])

			writer.WriteHeader(http.StatusOK)
			_, _ = writer.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL, "test-token")

		req := &internalhttp.Request{
			Method: "POST",
			Path:   "/team/test-team/train",
			Body:   map[string]map[string]string{"train": {"name": "nightly"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("unauthorized returns UnprivilegedTokenError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL, "weak-token")

		resp, err := client.Get(context.Background(), "/team/test-team/trains", nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var unprivileged *fl33t.UnprivilegedTokenError

		require.ErrorAs(t, err, &unprivileged)
		assert.Contains(t, unprivileged.URL, "/team/test-team/trains")
	})

	t.Run("server error returns APIError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadGateway)
			_, _ = writer.Write([]byte("upstream broken"))
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL, "test-token")

		resp, err := client.Get(context.Background(), "/team/test-team/fleets", nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var apiErr *fl33t.APIError

		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, "upstream broken", apiErr.Message)
	})

	t.Run("client errors are returned to the caller", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL, "test-token")

		resp, err := client.Get(context.Background(), "/team/test-team/train/missing", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("exactly one attempt per request", func(t *testing.T) {
		t.Parallel()

		var attempts int

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL, "test-token")

		_, err := client.Get(context.Background(), "/team/test-team/trains", nil)
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})
}

func TestClient_Upload(t *testing.T) {
	t.Parallel()
	t.Run("successful upload", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "PUT", request.Method)
			assert.Equal(t, "application/octet-stream", request.Header.Get("Content-Type"))
			assert.Equal(t, `attachment; filename="firmware.bin"`, request.Header.Get("Content-Disposition"))
			assert.Empty(t, request.Header.Get("Authorization"))

			body, err := io.ReadAll(request.Body)
			assert.NoError(t, err)
			assert.Equal(t, "firmware bytes", string(body))

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := internalhttp.NewClient("https://api.example.com", "test-token")

		err := client.Upload(context.Background(), server.URL, "firmware.bin", strings.NewReader("firmware bytes"))
		require.NoError(t, err)
	})

	t.Run("non-200 fails the upload", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := internalhttp.NewClient("https://api.example.com", "test-token")

		err := client.Upload(context.Background(), server.URL, "firmware.bin", strings.NewReader("data"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, fl33t.ErrUploadFailed))
	})
}

func TestClient_DebugLogging(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	logger := &MockLogger{}
	client := internalhttp.NewClient(server.URL, "test-token",
		internalhttp.WithLogger(logger),
		internalhttp.WithDebug(true),
	)

	_, err := client.Get(context.Background(), "/team/test-team/trains", nil)
	require.NoError(t, err)
	assert.Len(t, logger.logs, 2)
	assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
	assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
}
