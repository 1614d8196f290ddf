package vpmobil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var baseURL = "https://www.stundenplan24.de"

// notFoundMarker is what the service renders instead of a plan that does not exist
const notFoundMarker = "Seite nicht gefunden"

// Fetcher retrieves the raw feed document for a request
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) ([]byte, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface
type FetcherFunc func(ctx context.Context, req FetchRequest) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, req FetchRequest) ([]byte, error) {
	return f(ctx, req)
}

// HTTPFetcher downloads plans from stundenplan24.de using basic auth
type HTTPFetcher struct {
	httpClient *http.Client
	baseURL    string
}

// HTTPFetcherOption configures an HTTPFetcher
type HTTPFetcherOption func(*HTTPFetcher)

// WithBaseURL points the fetcher at another host, mainly for tests
func WithBaseURL(u string) HTTPFetcherOption {
	return func(f *HTTPFetcher) { f.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default client with a 10 second timeout
func WithHTTPClient(c *http.Client) HTTPFetcherOption {
	return func(f *HTTPFetcher) { f.httpClient = c }
}

// NewHTTPFetcher creates a new feed fetcher
func NewHTTPFetcher(opts ...HTTPFetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the feed location for a request
func (f *HTTPFetcher) URL(req FetchRequest) string {
	return fmt.Sprintf("%s/%d/mobil/mobdaten/%s", f.baseURL, req.Credentials.SchoolCode, req.FileName())
}

// Fetch downloads the feed. It does not retry.
func (f *HTTPFetcher) Fetch(ctx context.Context, fr FetchRequest) ([]byte, error) {
	url := f.URL(fr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	req.SetBasicAuth(fr.Credentials.Username, fr.Credentials.Password)
	req.Header.Set("User-Agent", "vpctl/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch %s: %v", ErrTransport, url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: school %d rejected user %q", ErrAuthentication, fr.Credentials.SchoolCode, fr.Credentials.Username)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: no plan published for %s", ErrDataNotFound, fr.Date.Format("2006-01-02"))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status code %d when fetching %s", ErrTransport, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read feed body: %v", ErrTransport, err)
	}

	if strings.Contains(string(body), notFoundMarker) {
		return nil, fmt.Errorf("%w: no plan published for %s", ErrDataNotFound, fr.Date.Format("2006-01-02"))
	}

	return body, nil
}
