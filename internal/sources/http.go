package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	userAgent    = "jobscout/1.0 (+https://github.com/khrees2412/jobscout)"
	maxBodyBytes = 8 << 20
	httpTimeout  = 15 * time.Second
)

// NewHTTPClient returns the client shared by all adapters.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// getJSON issues a GET request and decodes the JSON body into v.
func getJSON(ctx context.Context, client *http.Client, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: http GET: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: bad status: %s", ErrSourceUnavailable, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrSourceUnavailable, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: json unmarshal: %v", ErrSourceUnavailable, err)
	}
	return nil
}
