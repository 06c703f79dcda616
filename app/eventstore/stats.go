package eventstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatsClient talks to the dashboard statistics collaborator. Every call is
// best-effort: callers log failures and carry on, nothing here is allowed
// to block or fail a calendar operation.
type StatsClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewStatsClient(baseURL string) *StatsClient {
	return &StatsClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IncrementStat bumps the named counter by one.
func (s *StatsClient) IncrementStat(ctx context.Context, name string) error {
	return s.post(ctx, "/api/stats/increment/"+name)
}

// ResyncStats asks the collaborator to recompute its aggregates from the
// source collections.
func (s *StatsClient) ResyncStats(ctx context.Context) error {
	return s.post(ctx, "/api/stats/resync")
}

func (s *StatsClient) post(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("stats endpoint %s returned %d: %s", path, resp.StatusCode, msg)
	}
	return nil
}
