// Package backend talks to the LinguaLive progress service over HTTP: it
// fetches the learner profile before a session and uploads the transcript
// after one.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lingualive/lingualive/pkg/core/live"
)

// transcriptMarker tells the backend the attached message is a completed
// session transcript rather than a chat turn.
const transcriptMarker = "SESSION_COMPLETE_TRANSCRIPT"

// Profile is the learner's stored progress.
type Profile struct {
	CurrentLevel string `json:"currentLevel"`
	XP           int    `json:"xp"`
}

// DefaultProfile is the fallback when the backend is unreachable or returns
// garbage. New learners start here too.
func DefaultProfile() Profile {
	return Profile{CurrentLevel: "Beginner", XP: 0}
}

// Client is an HTTP client for the progress service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a backend client. baseURL is the service root, e.g.
// "http://localhost:4000/api/ai".
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log.With().Str("component", "backend").Logger(),
	}
}

// FetchProfile retrieves the learner's profile.
func (c *Client) FetchProfile(ctx context.Context, userID string) (Profile, error) {
	url := c.baseURL + "/profile/" + userID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Profile{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("fetch profile: status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	if profile.CurrentLevel == "" {
		return Profile{}, fmt.Errorf("decode profile: missing level")
	}
	return profile, nil
}

// ProfileOrDefault fetches the profile, falling back to the Beginner default
// on any failure. The failure is logged, never returned.
func (c *Client) ProfileOrDefault(ctx context.Context, userID string) Profile {
	profile, err := c.FetchProfile(ctx, userID)
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("profile fetch failed, using default")
		return DefaultProfile()
	}
	return profile
}

type syncRequest struct {
	UserID         string                 `json:"userId"`
	Message        string                 `json:"message"`
	FullTranscript []live.TranscriptEntry `json:"fullTranscript"`
}

// SyncTranscript uploads a completed session transcript. Implements
// live.TranscriptSyncer.
func (c *Client) SyncTranscript(ctx context.Context, userID string, entries []live.TranscriptEntry) error {
	body, err := json.Marshal(syncRequest{
		UserID:         userID,
		Message:        transcriptMarker,
		FullTranscript: entries,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/message", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sync transcript: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sync transcript: status %d", resp.StatusCode)
	}
	return nil
}
