package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"digdug/server/models"
)

const gradingTimeout = 2 * time.Second

// GradingClient submits finished games to the external grading server
type GradingClient struct {
	url    string
	client *http.Client
}

// NewGradingClient returns nil when no grading URL is configured
func NewGradingClient(url string) *GradingClient {
	if url == "" {
		return nil
	}
	return &GradingClient{
		url:    url,
		client: &http.Client{Timeout: gradingTimeout},
	}
}

// Submit posts the game record as JSON
func (g *GradingClient) Submit(ctx context.Context, record *models.GameRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit game: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("grading server answered %s", resp.Status)
	}
	return nil
}
