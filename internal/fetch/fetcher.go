// Package fetch retrieves and parses one RSS/Atom feed per call.
//
// Failures are always wrapped in *FetchError so callers can isolate a bad
// source without aborting sibling sources.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
)

const userAgent = "newsbrief/1.0 (personal news aggregator)"

// FetchError reports a per-source failure. Non-fatal by contract: the
// orchestrator logs it, records it in the run report, and moves on.
type FetchError struct {
	SourceURL string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.SourceURL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Entry is one raw feed item as received from a source.
type Entry struct {
	Title     string
	Link      string
	Summary   string
	Published *time.Time
}

// Fetcher retrieves feeds over HTTPS with a per-request timeout.
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher with the given HTTP timeout.
func New(timeout time.Duration) *Fetcher {
	return NewWithClient(&http.Client{Timeout: timeout})
}

// NewWithClient allows injecting a custom HTTP client (for testing).
func NewWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch retrieves and parses one feed. Plaintext transport is rejected
// before any network call. Returns the feed's entries in document order.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL string) ([]Entry, error) {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return nil, &FetchError{SourceURL: sourceURL, Err: fmt.Errorf("invalid URL: %w", err)}
	}
	if parsed.Scheme != "https" {
		return nil, &FetchError{SourceURL: sourceURL, Err: fmt.Errorf("insecure transport %q: only https is allowed", parsed.Scheme)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, &FetchError{SourceURL: sourceURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{SourceURL: sourceURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{SourceURL: sourceURL, Err: fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)}
	}

	parser := gofeed.NewParser()
	parsedFeed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, &FetchError{SourceURL: sourceURL, Err: fmt.Errorf("parse feed: %w", err)}
	}

	entries := make([]Entry, 0, len(parsedFeed.Items))
	for _, item := range parsedFeed.Items {
		entries = append(entries, convertItem(item))
	}
	return entries, nil
}

// convertItem maps a gofeed item to an Entry. Summary falls back from the
// description to the full content; the published timestamp stays nil when
// the source omits it so the caller can apply its own default.
func convertItem(item *gofeed.Item) Entry {
	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	var published *time.Time
	if item.PublishedParsed != nil {
		published = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed
	}

	return Entry{
		Title:     item.Title,
		Link:      item.Link,
		Summary:   summary,
		Published: published,
	}
}
