package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	internalhttp "github.com/fl33t/fl33t-go/internal/http"
	"github.com/fl33t/fl33t-go/pkg/fl33t"
)

// SessionsClient implements the fl33t.SessionsClient interface.
type SessionsClient struct {
	client *Client
}

// NewSessionsClient creates a new sessions client.
func NewSessionsClient(client *Client) *SessionsClient {
	return &SessionsClient{client: client}
}

// Get fetches a session by its token.
func (s *SessionsClient) Get(ctx context.Context, sessionToken string) (*fl33t.Session, error) {
	path := s.client.teamPath("session", sessionToken)

	resp, err := s.client.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return nil, fl33t.NewInvalidSessionIDError(sessionToken)
	}

	raw, err := decodeEnvelope(resp, "session", path)
	if err != nil {
		return nil, err
	}

	session := &fl33t.Session{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}

	session.Bind(s.client)

	return session, nil
}

// GetOwn fetches the session for the token this client authenticates with.
func (s *SessionsClient) GetOwn(ctx context.Context) (*fl33t.Session, error) {
	return s.Get(ctx, s.client.token)
}

// List lazily iterates the team's sessions.
func (s *SessionsClient) List(ctx context.Context, opts *fl33t.PageOptions) *fl33t.Iterator[*fl33t.Session] {
	path := s.client.teamPath("sessions")

	fetch := func(ctx context.Context, offset, limit int) ([]*fl33t.Session, int, error) {
		resp, err := s.client.httpClient.Get(ctx, path, pageQuery(url.Values{}, offset, limit))
		if err != nil {
			return nil, 0, err
		}

		sessions, total, err := decodeListEnvelope[fl33t.Session](resp, "sessions", "session_count", path)
		if err != nil {
			return nil, 0, err
		}

		for _, session := range sessions {
			session.Bind(s.client)
		}

		return sessions, total, nil
	}

	return fl33t.NewIterator(ctx, fetch, opts, s.client.defaultQueryLimit)
}

// Create creates a new session and absorbs the service's view of it, most
// importantly the generated session_token.
func (s *SessionsClient) Create(ctx context.Context, session *fl33t.Session) error {
	path := s.client.teamPath("session")

	resp, err := s.client.httpClient.Post(ctx, path, map[string]*fl33t.Session{"session": session})
	if err != nil {
		return err
	}

	raw, err := decodeEnvelope(resp, "session", path)
	if err != nil {
		return err
	}

	created := &fl33t.Session{}
	if err := json.Unmarshal(raw, created); err != nil {
		return fmt.Errorf("decoding session: %w", err)
	}

	session.Absorb(created)
	session.Bind(s.client)

	return nil
}

// Update saves the session's current state. Success is a 204.
func (s *SessionsClient) Update(ctx context.Context, session *fl33t.Session) error {
	path := s.client.teamPath("session", session.SessionToken)

	resp, err := s.client.httpClient.Put(ctx, path, map[string]*fl33t.Session{"session": session})
	if err != nil {
		return err
	}

	return expectNoContent(resp, path, fl33t.NewInvalidSessionIDError(session.SessionToken))
}

// Delete revokes the session. Success is a 204.
func (s *SessionsClient) Delete(ctx context.Context, session *fl33t.Session) error {
	path := s.client.teamPath("session", session.SessionToken)

	resp, err := s.client.httpClient.Delete(ctx, path)
	if err != nil {
		return err
	}

	return expectNoContent(resp, path, fl33t.NewInvalidSessionIDError(session.SessionToken))
}

// expectNoContent interprets the response to an update or delete: 204 is the
// only success, a 400 or 404 means the targeted ID does not exist, and
// anything else is unexpected.
func expectNoContent(resp *internalhttp.Response, path string, invalidID *fl33t.InvalidIDError) error {
	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusBadRequest, http.StatusNotFound:
		return invalidID
	default:
		return &fl33t.APIError{
			URL:        path,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}
}
