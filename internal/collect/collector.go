// Package collect orchestrates one collection run: fetch every configured
// source, deduplicate by content fingerprint, analyze, and store.
package collect

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"newsbrief/internal/analyze"
	"newsbrief/internal/feed"
	"newsbrief/internal/fetch"
	"newsbrief/internal/logging"
	"newsbrief/internal/store"
)

// fetcher interface for dependency injection (testing).
type fetcher interface {
	Fetch(ctx context.Context, sourceURL string) ([]fetch.Entry, error)
}

// articleStore is the slice of the store the collector needs.
type articleStore interface {
	Exists(fingerprint string) (bool, error)
	Insert(a feed.Article) error
}

// SourceFailure records one skipped source for the run report.
type SourceFailure struct {
	Category  feed.Category
	SourceURL string
	Reason    string
}

// Report summarizes a collection run. A report is produced even when every
// source fails; zero stored articles is a valid outcome.
type Report struct {
	SourcesAttempted     int
	SourcesFailed        int
	ArticlesFetched      int
	ArticlesDeduplicated int
	ArticlesStored       int
	Failures             []SourceFailure
}

// Collector iterates configured sources per category, sequentially, with a
// per-host rate limit between fetches. Sources are immutable after
// construction.
type Collector struct {
	sources      map[feed.Category][]string
	store        articleStore
	fetcher      fetcher
	analyzer     analyze.Analyzer
	hostDelay    time.Duration
	maxPerSource int
	limiters     map[string]*rate.Limiter
}

// Options tunes a Collector.
type Options struct {
	// HostDelay is the minimum delay between consecutive requests to the
	// same host. Zero disables rate limiting.
	HostDelay time.Duration
	// MaxPerSource caps entries taken from one feed. Zero means no cap.
	MaxPerSource int
}

// New creates a Collector over a validated source mapping.
func New(sources map[feed.Category][]string, st articleStore, f fetcher, a analyze.Analyzer, opts Options) *Collector {
	// Copy the mapping so later config mutation can't leak into a run.
	copied := make(map[feed.Category][]string, len(sources))
	for category, urls := range sources {
		copied[category] = append([]string(nil), urls...)
	}

	return &Collector{
		sources:      copied,
		store:        st,
		fetcher:      f,
		analyzer:     a,
		hostDelay:    opts.HostDelay,
		maxPerSource: opts.MaxPerSource,
		limiters:     make(map[string]*rate.Limiter),
	}
}

// Run executes one collection pass. Per-source failures are contained and
// reported; storage failures abort the run with the partial report.
// Cancellation between sources leaves the store consistent since every
// article write is a single complete insert.
func (c *Collector) Run(ctx context.Context) (Report, error) {
	var report Report

	for _, category := range feed.Categories {
		urls := c.sources[category]
		for _, sourceURL := range urls {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			report.SourcesAttempted++

			if err := c.waitForHost(ctx, sourceURL); err != nil {
				return report, err
			}

			entries, err := c.fetcher.Fetch(ctx, sourceURL)
			if err != nil {
				// Isolation: one bad source never aborts its siblings.
				logging.Warn("source fetch failed", "category", category, "url", sourceURL, "error", err)
				report.SourcesFailed++
				report.Failures = append(report.Failures, SourceFailure{
					Category:  category,
					SourceURL: sourceURL,
					Reason:    err.Error(),
				})
				continue
			}

			if err := c.ingest(category, entries, &report); err != nil {
				return report, err
			}
		}
	}

	logging.Info("collection complete",
		"attempted", report.SourcesAttempted,
		"failed", report.SourcesFailed,
		"fetched", report.ArticlesFetched,
		"deduplicated", report.ArticlesDeduplicated,
		"stored", report.ArticlesStored,
	)
	return report, nil
}

// ingest runs the dedup gate and analysis for one source's entries and
// writes the survivors. Returns only storage-layer errors.
func (c *Collector) ingest(category feed.Category, entries []fetch.Entry, report *Report) error {
	now := time.Now()

	for i, entry := range entries {
		if c.maxPerSource > 0 && i >= c.maxPerSource {
			break
		}
		report.ArticlesFetched++

		fingerprint := feed.Fingerprint(entry.Title, entry.Summary)

		exists, err := c.store.Exists(fingerprint)
		if err != nil {
			return fmt.Errorf("dedup check: %w", err)
		}
		if exists {
			report.ArticlesDeduplicated++
			continue
		}

		result := c.analyzer.Analyze(entry.Summary)

		published := now
		if entry.Published != nil {
			published = *entry.Published
		}

		article := feed.Article{
			SourceURL:          entry.Link,
			Fingerprint:        fingerprint,
			Category:           category,
			Title:              entry.Title,
			RawSummary:         entry.Summary,
			ShortSummary:       result.Summary,
			Classification:     result.Classification,
			FactualSignals:     result.FactualSignals,
			SpeculativeSignals: result.SpeculativeSignals,
			PublishedAt:        published,
			IngestedAt:         now,
		}

		if err := c.store.Insert(article); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				// Lost a check-then-insert race; same outcome as the gate.
				report.ArticlesDeduplicated++
				continue
			}
			return fmt.Errorf("insert article: %w", err)
		}
		report.ArticlesStored++
	}
	return nil
}

// waitForHost applies the minimum inter-request delay for the source's
// host. The limiter is per hostname, so mirrored paths on one host share
// a budget while distinct hosts proceed independently.
func (c *Collector) waitForHost(ctx context.Context, sourceURL string) error {
	if c.hostDelay <= 0 {
		return nil
	}

	host := sourceURL
	if parsed, err := url.Parse(sourceURL); err == nil && parsed.Host != "" {
		host = parsed.Host
	}

	limiter, ok := c.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(c.hostDelay), 1)
		c.limiters[host] = limiter
	}
	return limiter.Wait(ctx)
}
