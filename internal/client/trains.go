package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fl33t/fl33t-go/pkg/fl33t"
)

// TrainsClient implements the fl33t.TrainsClient interface.
type TrainsClient struct {
	client *Client
}

// NewTrainsClient creates a new trains client.
func NewTrainsClient(client *Client) *TrainsClient {
	return &TrainsClient{client: client}
}

// Get fetches a train by ID.
func (t *TrainsClient) Get(ctx context.Context, trainID string) (*fl33t.Train, error) {
	path := t.client.teamPath("train", trainID)

	resp, err := t.client.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return nil, fl33t.NewInvalidTrainIDError(trainID)
	}

	raw, err := decodeEnvelope(resp, "train", path)
	if err != nil {
		return nil, err
	}

	train := &fl33t.Train{}
	if err := json.Unmarshal(raw, train); err != nil {
		return nil, fmt.Errorf("decoding train: %w", err)
	}

	train.Bind(t.client)

	return train, nil
}

// List lazily iterates the team's trains.
func (t *TrainsClient) List(ctx context.Context, opts *fl33t.PageOptions) *fl33t.Iterator[*fl33t.Train] {
	path := t.client.teamPath("trains")

	fetch := func(ctx context.Context, offset, limit int) ([]*fl33t.Train, int, error) {
		resp, err := t.client.httpClient.Get(ctx, path, pageQuery(url.Values{}, offset, limit))
		if err != nil {
			return nil, 0, err
		}

		trains, total, err := decodeListEnvelope[fl33t.Train](resp, "trains", "train_count", path)
		if err != nil {
			return nil, 0, err
		}

		for _, train := range trains {
			train.Bind(t.client)
		}

		return trains, total, nil
	}

	return fl33t.NewIterator(ctx, fetch, opts, t.client.defaultQueryLimit)
}

// Create creates a new train and absorbs the service's view of it.
func (t *TrainsClient) Create(ctx context.Context, train *fl33t.Train) error {
	path := t.client.teamPath("train")

	resp, err := t.client.httpClient.Post(ctx, path, map[string]*fl33t.Train{"train": train})
	if err != nil {
		return err
	}

	raw, err := decodeEnvelope(resp, "train", path)
	if err != nil {
		return err
	}

	created := &fl33t.Train{}
	if err := json.Unmarshal(raw, created); err != nil {
		return fmt.Errorf("decoding train: %w", err)
	}

	train.Absorb(created)
	train.Bind(t.client)

	return nil
}

// Update saves the train's current state. Success is a 204.
func (t *TrainsClient) Update(ctx context.Context, train *fl33t.Train) error {
	path := t.client.teamPath("train", train.TrainID)

	resp, err := t.client.httpClient.Put(ctx, path, map[string]*fl33t.Train{"train": train})
	if err != nil {
		return err
	}

	return expectNoContent(resp, path, fl33t.NewInvalidTrainIDError(train.TrainID))
}

// Delete removes the train. Success is a 204.
func (t *TrainsClient) Delete(ctx context.Context, train *fl33t.Train) error {
	path := t.client.teamPath("train", train.TrainID)

	resp, err := t.client.httpClient.Delete(ctx, path)
	if err != nil {
		return err
	}

	return expectNoContent(resp, path, fl33t.NewInvalidTrainIDError(train.TrainID))
}
