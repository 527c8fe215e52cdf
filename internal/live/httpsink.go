package live

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPSink delivers live status updates to an HTTP endpoint. The endpoint
// receives POST /update with a Status body while a session runs and
// POST /end when it completes.
type HTTPSink struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPSink creates a sink client for the given base URL.
func NewHTTPSink(baseURL string) *HTTPSink {
	return &HTTPSink{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Publish POSTs the status to the sink.
func (s *HTTPSink) Publish(ctx context.Context, st Status) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling status: %w", err)
	}
	return s.post(ctx, "/update", data)
}

// End POSTs the dismissal to the sink.
func (s *HTTPSink) End(ctx context.Context) error {
	return s.post(ctx, "/end", nil)
}

func (s *HTTPSink) post(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sink %s failed (status %d): %s", path, resp.StatusCode, msg)
	}
	return nil
}
