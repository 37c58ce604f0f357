package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>Article 1</title>
      <link>https://example.com/article1</link>
      <description>First article</description>
      <pubDate>Mon, 01 Jan 2024 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Article 2</title>
      <link>https://example.com/article2</link>
      <description>Second article</description>
    </item>
  </channel>
</rss>`

func newTestFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, *httptest.Server) {
	t.Helper()
	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)
	return NewWithClient(server.Client()), server
}

func TestFetch(t *testing.T) {
	f, server := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testRSS))
	})

	entries, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Title != "Article 1" {
		t.Errorf("expected 'Article 1', got %q", entries[0].Title)
	}
	if entries[0].Link != "https://example.com/article1" {
		t.Errorf("unexpected link: %s", entries[0].Link)
	}
	if entries[0].Published == nil {
		t.Error("expected parsed published time on first entry")
	}
	if entries[1].Published != nil {
		t.Error("entry without pubDate must carry a nil timestamp")
	}
}

func TestFetchRejectsPlaintext(t *testing.T) {
	var hits atomic.Int32
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	_, err := f.Fetch(context.Background(), "http://example.com/feed.xml")
	if err == nil {
		t.Fatal("expected error for http:// source")
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fe.SourceURL != "http://example.com/feed.xml" {
		t.Errorf("FetchError carries wrong source: %s", fe.SourceURL)
	}
	if hits.Load() != 0 {
		t.Error("plaintext URL must be rejected before any network call")
	}
}

func TestFetchHTTPError(t *testing.T) {
	f, server := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := f.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
}

func TestFetchMalformedBody(t *testing.T) {
	f, server := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a feed"))
	})

	_, err := f.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for malformed feed body")
	}
}

func TestFetchContextCancelled(t *testing.T) {
	f, server := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(testRSS))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, server.URL)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestFetchSummaryFallback(t *testing.T) {
	atom := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <entry>
    <title>No Summary</title>
    <link href="https://example.com/a"/>
    <content type="text">full body text</content>
  </entry>
</feed>`

	f, server := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(atom))
	})

	entries, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Summary != "full body text" {
		t.Errorf("summary should fall back to content, got %q", entries[0].Summary)
	}
}
