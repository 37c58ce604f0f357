// Package analyze classifies article text as factual or speculative using
// marker-term matching, and produces a short display summary.
package analyze

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"newsbrief/internal/feed"
)

// Markers holds the two disjoint term sets the classifier scans for.
// Represented as data so vocabularies can be extended or swapped from
// configuration without touching the classifier.
type Markers struct {
	Factual     []string
	Speculative []string
}

// DefaultMarkers returns the built-in marker vocabulary.
func DefaultMarkers() Markers {
	return Markers{
		Factual: []string{
			"announced", "confirmed", "disclosed", "reported earnings",
			"filed", "released", "published", "data shows", "statistics",
			"according to", "statement", "press release", "official",
		},
		Speculative: []string{
			"allegedly", "reportedly", "sources say", "rumors", "speculation",
			"could", "might", "may", "possible", "potential", "unconfirmed",
			"sources suggest", "insider claims", "expected", "likely", "rumored",
		},
	}
}

// Result is the output of a single analysis.
type Result struct {
	Classification     feed.Classification
	FactualSignals     int
	SpeculativeSignals int
	Summary            string
}

// Analyzer is anything that can classify article text. The heuristic
// implementation below is one of possibly many.
type Analyzer interface {
	Analyze(raw string) Result
}

// DefaultSummaryLen is the character budget for generated summaries.
const DefaultSummaryLen = 300

// MarkerAnalyzer classifies text by counting marker-term matches.
// Pure computation, safe for concurrent use.
type MarkerAnalyzer struct {
	markers    Markers
	summaryLen int
	sanitizer  *bluemonday.Policy
}

var _ Analyzer = (*MarkerAnalyzer)(nil)

// New creates a MarkerAnalyzer. A summaryLen of zero or less selects
// DefaultSummaryLen.
func New(markers Markers, summaryLen int) *MarkerAnalyzer {
	if summaryLen <= 0 {
		summaryLen = DefaultSummaryLen
	}
	return &MarkerAnalyzer{
		markers:    markers,
		summaryLen: summaryLen,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// Analyze classifies raw article text. The tie-break is count equality:
// equal factual and speculative counts, including both zero, yield Mixed
// regardless of which marker set is scanned first. Empty input yields
// Mixed with zero signals and an empty summary.
func (a *MarkerAnalyzer) Analyze(raw string) Result {
	clean := a.stripMarkup(raw)
	scannable := tokenText(clean)

	factual := countMarkers(scannable, a.markers.Factual)
	speculative := countMarkers(scannable, a.markers.Speculative)

	classification := feed.Mixed
	switch {
	case factual > speculative:
		classification = feed.Factual
	case speculative > factual:
		classification = feed.Speculative
	}

	return Result{
		Classification:     classification,
		FactualSignals:     factual,
		SpeculativeSignals: speculative,
		Summary:            summarize(clean, a.summaryLen),
	}
}

// stripMarkup removes HTML tags and entities and collapses whitespace.
func (a *MarkerAnalyzer) stripMarkup(raw string) string {
	clean := html.UnescapeString(a.sanitizer.Sanitize(raw))
	return strings.Join(strings.Fields(clean), " ")
}

// tokenText lowercases text and replaces punctuation with spaces so marker
// terms match on word boundaries only ("may" never matches "mayor").
func tokenText(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// countMarkers counts how many terms from the set appear in the token text.
// Each term counts at most once; the count measures vocabulary coverage,
// not occurrence frequency.
func countMarkers(tokens string, terms []string) int {
	padded := " " + tokens + " "
	count := 0
	for _, term := range terms {
		normalized := tokenText(term)
		if normalized == "" {
			continue
		}
		if strings.Contains(padded, " "+normalized+" ") {
			count++
		}
	}
	return count
}

// summarize truncates text to the budget, preferring the last sentence
// boundary within it. A hard truncation appends an ellipsis marker.
func summarize(text string, budget int) string {
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}

	window := string(runes[:budget])
	if cut := lastSentenceEnd(window); cut > 0 {
		return strings.TrimSpace(window[:cut])
	}
	if budget <= 3 {
		// No room for the ellipsis marker.
		return strings.TrimSpace(window)
	}
	return strings.TrimSpace(string(runes[:budget-3])) + "..."
}

// lastSentenceEnd returns the byte offset just past the final sentence
// terminator in s, or 0 if none exists.
func lastSentenceEnd(s string) int {
	end := 0
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' {
			end = i + 1
		}
	}
	return end
}
