// Package feed defines the article domain model shared across the pipeline.
package feed

import (
	"fmt"
	"time"
)

// Category is the fixed topical bucket a feed source belongs to.
// Categories are assigned at configuration time, never inferred from content.
type Category string

const (
	CategoryWorld         Category = "world"
	CategoryUS            Category = "us"
	CategoryLocal         Category = "local"
	CategoryTechnology    Category = "technology"
	CategoryEV            Category = "ev"
	CategoryCybersecurity Category = "cybersecurity"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryWorld,
	CategoryUS,
	CategoryLocal,
	CategoryTechnology,
	CategoryEV,
	CategoryCybersecurity,
}

// ParseCategory validates a category name from configuration.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}

// Classification labels an article's content as factual, speculative, or a
// mix of both.
type Classification string

const (
	Factual     Classification = "factual"
	Speculative Classification = "speculative"
	Mixed       Classification = "mixed"
)

// Article is the unit of work flowing from fetch through analysis to the
// store. Articles are immutable once inserted.
type Article struct {
	SourceURL          string
	Fingerprint        string
	Category           Category
	Title              string
	RawSummary         string
	ShortSummary       string
	Classification     Classification
	FactualSignals     int
	SpeculativeSignals int
	PublishedAt        time.Time
	IngestedAt         time.Time
}
