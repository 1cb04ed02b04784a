package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"
)

// BulletinURL is the KOERI page listing the most recent earthquakes.
const BulletinURL = "http://www.koeri.boun.edu.tr/scripts/lst0.asp"

// Fetcher retrieves a page body as text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchError reports a failed page retrieval: transport failure, a non-2xx
// status, or a body that could not be read or decoded.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HTTPFetcher fetches pages with a single GET request. It does not retry and
// sets no timeout of its own; cancel the context to bound a request.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher. A nil client uses a plain http.Client.
// An empty userAgent leaves Go's default User-Agent header in place.
func NewHTTPFetcher(client *http.Client, userAgent string) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPFetcher{client: client, userAgent: userAgent}
}

// Fetch downloads url and returns its body decoded to UTF-8 according to the
// charset the page declares.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("decoding body: %w", err)}
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}

	return string(body), nil
}
