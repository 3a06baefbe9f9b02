// Package speakerdir is the HTTP client for the speaker-management peer
// service, which owns speaker profiles and invitations.
package speakerdir

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"eventstage/internal/domain"
)

type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient returns a SpeakerDirectory backed by the speaker-management
// service at baseURL. A nil client falls back to http.DefaultClient; callers
// bound individual calls through their context.
func NewHTTPClient(baseURL string, client *http.Client) domain.SpeakerDirectory {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

func (c *httpClient) ListAcceptedInvitations(ctx context.Context, speakerID string) ([]*domain.Invitation, error) {
	u := fmt.Sprintf("%s/speakers/%s/invitations?status=%s", c.baseURL, url.PathEscape(speakerID), domain.InvitationAccepted)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch speaker invitations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speaker service returned status: %d", resp.StatusCode)
	}
	var invitations []*domain.Invitation
	if err := json.NewDecoder(resp.Body).Decode(&invitations); err != nil {
		return nil, fmt.Errorf("failed to decode invitations response: %w", err)
	}
	return invitations, nil
}

func (c *httpClient) GetSessionWindow(ctx context.Context, sessionID string) (*domain.SessionWindow, error) {
	u := fmt.Sprintf("%s/sessions/%s", c.baseURL, url.PathEscape(sessionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session window: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speaker service returned status: %d", resp.StatusCode)
	}
	var window domain.SessionWindow
	if err := json.NewDecoder(resp.Body).Decode(&window); err != nil {
		return nil, fmt.Errorf("failed to decode session window response: %w", err)
	}
	return &window, nil
}

func (c *httpClient) GetSpeaker(ctx context.Context, speakerID string) (*domain.SpeakerProfile, error) {
	u := fmt.Sprintf("%s/speakers/%s", c.baseURL, url.PathEscape(speakerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch speaker profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speaker service returned status: %d", resp.StatusCode)
	}
	var profile domain.SpeakerProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode speaker profile response: %w", err)
	}
	return &profile, nil
}

type createInvitationRequest struct {
	SpeakerID string `json:"speaker_id"`
	EventID   string `json:"event_id"`
	SessionID string `json:"session_id"`
}

func (c *httpClient) CreateInvitation(ctx context.Context, speakerID, eventID, sessionID string) error {
	body, err := json.Marshal(createInvitationRequest{
		SpeakerID: speakerID,
		EventID:   eventID,
		SessionID: sessionID,
	})
	if err != nil {
		return fmt.Errorf("failed to encode invitation request: %w", err)
	}
	u := fmt.Sprintf("%s/invitations", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("speaker service returned status: %d", resp.StatusCode)
	}
	return nil
}

func (c *httpClient) DeleteInvitation(ctx context.Context, sessionID, speakerID string) error {
	u := fmt.Sprintf("%s/sessions/%s/speakers/%s/invitation", c.baseURL, url.PathEscape(sessionID), url.PathEscape(speakerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("speaker service returned status: %d", resp.StatusCode)
	}
	return nil
}
