// Package elevation queries an Open-Elevation compatible lookup service.
package elevation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// MaxBatch is the largest number of locations sent in one request.
const MaxBatch = 500

// ErrService is returned when the service fails or answers inconsistently.
var ErrService = errors.New("elevation service error")

type (
	// Location is a coordinate in degrees.
	Location struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	// Result is the elevation of one Location in meters.
	Result struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Elevation float64 `json:"elevation"`
	}

	lookupRequest struct {
		Locations []Location `json:"locations"`
	}
	lookupResponse struct {
		Results []Result `json:"results"`
	}
)

// Client performs blocking lookups. There is no retry: a failed request
// fails the whole lookup.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a Client for the lookup endpoint url.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{url: url, http: &http.Client{Timeout: timeout}}
}

// Lookup returns the elevations of locations in request order. Locations
// are sent in batches of at most MaxBatch.
func (c *Client) Lookup(ctx context.Context, locations []Location) ([]float64, error) {
	out := make([]float64, 0, len(locations))
	for start := 0; start < len(locations); start += MaxBatch {
		end := min(start+MaxBatch, len(locations))
		batch, err := c.lookupBatch(ctx, locations[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (c *Client) lookupBatch(ctx context.Context, locations []Location) ([]float64, error) {
	body, err := json.Marshal(lookupRequest{Locations: locations})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: non-200 status code: %d", ErrService, resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrService, err)
	}
	if len(decoded.Results) != len(locations) {
		return nil, fmt.Errorf("%w: got %d results for %d locations", ErrService, len(decoded.Results), len(locations))
	}

	out := make([]float64, len(decoded.Results))
	for i, r := range decoded.Results {
		out[i] = r.Elevation
	}
	return out, nil
}
