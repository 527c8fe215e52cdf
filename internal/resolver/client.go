package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

var errNotFound = errors.New("not found")

// Record shapes are declared here rather than imported from the hub's storage
// package, which would pull pgx and the rest of the server-side stack into
// the client binary.

// ProfileRecord is a user's profile row as served by the hub.
type ProfileRecord struct {
	UserID        string     `json:"user_id"`
	CurrentPackID *uuid.UUID `json:"current_pack_id,omitempty"`
}

// DayRecord is one pack day as served by the hub.
type DayRecord struct {
	ID       uuid.UUID `json:"id"`
	PackID   uuid.UUID `json:"pack_id"`
	DayName  string    `json:"day_name"`
	DayOrder int       `json:"day_order"`
}

// ExerciseRecord is one pack exercise as served by the hub. Sets and Time are
// mutually informative: Time > 0 means a timed exercise, otherwise Sets
// applies. Reps may be absent.
type ExerciseRecord struct {
	ID             uuid.UUID `json:"id"`
	DayID          uuid.UUID `json:"day_id"`
	ChosenExercise string    `json:"chosen_exercise"`
	Sets           int       `json:"sets"`
	Reps           int       `json:"reps,omitempty"`
	Time           int       `json:"time,omitempty"`
}

// Client reads pack records from the hub over HTTP. Each call is one round
// trip with its own timeout; a timeout counts as a fetch failure.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a hub client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// GetProfile fetches the profile record for an opaque user identifier.
// Returns ErrProfileNotFound when the hub has no such profile.
func (c *Client) GetProfile(ctx context.Context, userID string) (*ProfileRecord, error) {
	var p ProfileRecord
	err := c.getJSON(ctx, "/api/v1/profiles/"+url.PathEscape(userID), &p)
	if errors.Is(err, errNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// QueryDays fetches the days whose pack_id matches.
func (c *Client) QueryDays(ctx context.Context, packID uuid.UUID) ([]DayRecord, error) {
	var days []DayRecord
	err := c.getJSON(ctx, "/api/v1/days?pack_id="+packID.String(), &days)
	if err != nil {
		return nil, err
	}
	return days, nil
}

// QueryExercises fetches the exercises whose day_id matches.
func (c *Client) QueryExercises(ctx context.Context, dayID uuid.UUID) ([]ExerciseRecord, error) {
	var exercises []ExerciseRecord
	err := c.getJSON(ctx, "/api/v1/exercises?day_id="+dayID.String(), &exercises)
	if err != nil {
		return nil, err
	}
	return exercises, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", ErrRemoteFetchFailed, resp.StatusCode, msg)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrRemoteFetchFailed, err)
	}
	return nil
}
