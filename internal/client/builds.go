package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/fl33t/fl33t-go/pkg/fl33t"
)

// BuildsClient implements the fl33t.BuildsClient interface.
type BuildsClient struct {
	client *Client
}

// NewBuildsClient creates a new builds client.
func NewBuildsClient(client *Client) *BuildsClient {
	return &BuildsClient{client: client}
}

// Get fetches a build by train and build ID.
func (b *BuildsClient) Get(ctx context.Context, trainID, buildID string) (*fl33t.Build, error) {
	path := b.client.teamPath("train", trainID, "build", buildID)

	resp, err := b.client.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return nil, fl33t.NewInvalidBuildIDError(buildID)
	}

	raw, err := decodeEnvelope(resp, "build", path)
	if err != nil {
		return nil, err
	}

	build := &fl33t.Build{}
	if err := json.Unmarshal(raw, build); err != nil {
		return nil, fmt.Errorf("decoding build: %w", err)
	}

	build.Bind(b.client)

	return build, nil
}

// List lazily iterates the builds of one train, optionally restricted to a
// version.
func (b *BuildsClient) List(ctx context.Context, trainID string, opts *fl33t.BuildListOptions) *fl33t.Iterator[*fl33t.Build] {
	path := b.client.teamPath("train", trainID, "builds")

	base := url.Values{}

	var pageOpts *fl33t.PageOptions

	if opts != nil {
		pageOpts = &opts.PageOptions

		if opts.Version != "" {
			base.Set("version", opts.Version)
		}
	}

	fetch := func(ctx context.Context, offset, limit int) ([]*fl33t.Build, int, error) {
		resp, err := b.client.httpClient.Get(ctx, path, pageQuery(base, offset, limit))
		if err != nil {
			return nil, 0, err
		}

		builds, total, err := decodeListEnvelope[fl33t.Build](resp, "builds", "build_count", path)
		if err != nil {
			return nil, 0, err
		}

		for _, build := range builds {
			build.Bind(b.client)
		}

		return builds, total, nil
	}

	return fl33t.NewIterator(ctx, fetch, pageOpts, b.client.defaultQueryLimit)
}

// Create registers the build record with its train. The response is absorbed
// except for the locally derived filename and size, which stay
// caller-authoritative so the subsequent Upload matches the bytes on disk. A
// missing upload_url is not an error, only logged; some builds are records
// without an artifact.
func (b *BuildsClient) Create(ctx context.Context, build *fl33t.Build) error {
	path := b.client.teamPath("train", build.TrainID, "build")

	resp, err := b.client.httpClient.Post(ctx, path, map[string]*fl33t.Build{"build": build})
	if err != nil {
		return err
	}

	raw, err := decodeEnvelope(resp, "build", path)
	if err != nil {
		return err
	}

	created := &fl33t.Build{}
	if err := json.Unmarshal(raw, created); err != nil {
		return fmt.Errorf("decoding build: %w", err)
	}

	build.Absorb(created)
	build.Bind(b.client)

	if build.UploadURL == "" {
		b.client.logger.Warn("Build created without an upload URL", map[string]interface{}{
			"build_id": build.BuildID,
			"version":  build.Version,
		})
	}

	return nil
}

// Upload PUTs the build's local file to the pre-signed upload URL handed
// back by Create.
func (b *BuildsClient) Upload(ctx context.Context, build *fl33t.Build) error {
	if build.UploadURL == "" {
		return fmt.Errorf("build %s: %w", build.BuildID, fl33t.ErrNoUploadURL)
	}

	if build.FullPath == "" {
		return fmt.Errorf("build %s has no local file: %w", build.BuildID, fl33t.ErrUploadFailed)
	}

	file, err := os.Open(build.FullPath)
	if err != nil {
		return fmt.Errorf("opening build file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return b.client.httpClient.Upload(ctx, build.UploadURL, build.Filename, file)
}

// Update saves the build's current state. Success is a 204.
func (b *BuildsClient) Update(ctx context.Context, build *fl33t.Build) error {
	path := b.client.teamPath("train", build.TrainID, "build", build.BuildID)

	resp, err := b.client.httpClient.Put(ctx, path, map[string]*fl33t.Build{"build": build})
	if err != nil {
		return err
	}

	return expectNoContent(resp, path, fl33t.NewInvalidBuildIDError(build.BuildID))
}

// Delete removes the build from its train. Success is a 204.
func (b *BuildsClient) Delete(ctx context.Context, build *fl33t.Build) error {
	path := b.client.teamPath("train", build.TrainID, "build", build.BuildID)

	resp, err := b.client.httpClient.Delete(ctx, path)
	if err != nil {
		return err
	}

	return expectNoContent(resp, path, fl33t.NewInvalidBuildIDError(build.BuildID))
}
