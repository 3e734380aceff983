package enhance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ContentFetcher retrieves a page and reduces it to plain text.
type ContentFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

var _ ContentFetcher = (*Fetcher)(nil)

// Fetcher performs a GET with a browser-like User-Agent (sites reject
// unidentified clients) and pipes the body through the text extractor.
// Errors are returned; the pipeline treats them as an empty reference.
type Fetcher struct {
	httpClient *http.Client
	extractor  *Extractor
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(httpClient *http.Client, extractor *Extractor, userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		extractor:  extractor,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error fetching %s: %d %s", pageURL, resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return f.extractor.Run(string(data)), nil
}
