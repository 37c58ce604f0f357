package analyze

import (
	"strings"
	"testing"

	"newsbrief/internal/feed"
)

func TestAnalyzeEmpty(t *testing.T) {
	a := New(DefaultMarkers(), 0)
	res := a.Analyze("")
	if res.Classification != feed.Mixed {
		t.Errorf("expected mixed, got %s", res.Classification)
	}
	if res.FactualSignals != 0 || res.SpeculativeSignals != 0 {
		t.Errorf("expected (0,0) signals, got (%d,%d)", res.FactualSignals, res.SpeculativeSignals)
	}
	if res.Summary != "" {
		t.Errorf("expected empty summary, got %q", res.Summary)
	}
}

func TestAnalyzeFactual(t *testing.T) {
	a := New(DefaultMarkers(), 0)
	res := a.Analyze("Officials confirmed the breach occurred Tuesday, according to reports.")
	if res.Classification != feed.Factual {
		t.Errorf("expected factual, got %s (signals %d/%d)",
			res.Classification, res.FactualSignals, res.SpeculativeSignals)
	}
	if res.FactualSignals < 2 {
		t.Errorf("expected at least 2 factual signals (confirmed, according to), got %d", res.FactualSignals)
	}
	if res.SpeculativeSignals != 0 {
		t.Errorf("expected 0 speculative signals, got %d", res.SpeculativeSignals)
	}
}

func TestAnalyzeSpeculative(t *testing.T) {
	a := New(DefaultMarkers(), 0)
	res := a.Analyze("The breach may have affected millions, sources suggest, and could expand.")
	if res.Classification != feed.Speculative {
		t.Errorf("expected speculative, got %s (signals %d/%d)",
			res.Classification, res.FactualSignals, res.SpeculativeSignals)
	}
}

func TestAnalyzeTieIsMixed(t *testing.T) {
	markers := Markers{
		Factual:     []string{"confirmed"},
		Speculative: []string{"rumored"},
	}
	a := New(markers, 0)
	res := a.Analyze("The outage was confirmed but the cause is rumored to be internal.")
	if res.FactualSignals != 1 || res.SpeculativeSignals != 1 {
		t.Fatalf("expected (1,1) signals, got (%d,%d)", res.FactualSignals, res.SpeculativeSignals)
	}
	if res.Classification != feed.Mixed {
		t.Errorf("equal counts must classify as mixed, got %s", res.Classification)
	}

	// Symmetric: swapping which set holds which term flips the counts but
	// the tie result is unchanged.
	swapped := New(Markers{Factual: markers.Speculative, Speculative: markers.Factual}, 0)
	res2 := swapped.Analyze("The outage was confirmed but the cause is rumored to be internal.")
	if res2.Classification != feed.Mixed {
		t.Errorf("tie-break must be symmetric in scan order, got %s", res2.Classification)
	}
}

func TestAnalyzeWordBoundaries(t *testing.T) {
	a := New(Markers{Speculative: []string{"may"}}, 0)
	res := a.Analyze("The mayor dismayed the council.")
	if res.SpeculativeSignals != 0 {
		t.Errorf("marker 'may' must not match inside other words, got %d signals", res.SpeculativeSignals)
	}
}

func TestAnalyzeMarkerCountedOnce(t *testing.T) {
	a := New(Markers{Speculative: []string{"could"}}, 0)
	res := a.Analyze("It could happen and it could spread.")
	if res.SpeculativeSignals != 1 {
		t.Errorf("each marker term counts at most once, got %d", res.SpeculativeSignals)
	}
}

func TestAnalyzeStripsMarkup(t *testing.T) {
	a := New(DefaultMarkers(), 0)
	res := a.Analyze("<p>Officials <b>confirmed</b> the incident &amp; filed a report.</p>")
	if res.Classification != feed.Factual {
		t.Errorf("expected factual after markup stripping, got %s", res.Classification)
	}
	if strings.ContainsAny(res.Summary, "<>") {
		t.Errorf("summary contains markup: %q", res.Summary)
	}
	if !strings.Contains(res.Summary, "&") {
		t.Errorf("entities should be unescaped in summary: %q", res.Summary)
	}
}

func TestSummaryWithinBudget(t *testing.T) {
	a := New(DefaultMarkers(), 50)
	res := a.Analyze("Short text.")
	if res.Summary != "Short text." {
		t.Errorf("text within budget should pass through, got %q", res.Summary)
	}
}

func TestSummarySentenceBoundary(t *testing.T) {
	a := New(DefaultMarkers(), 40)
	res := a.Analyze("First sentence here. Second sentence is much longer and exceeds the budget entirely.")
	if res.Summary != "First sentence here." {
		t.Errorf("expected cut at sentence boundary, got %q", res.Summary)
	}
}

func TestSummaryHardTruncate(t *testing.T) {
	budget := 30
	a := New(DefaultMarkers(), budget)
	res := a.Analyze("a single unbroken run of words with no terminator anywhere in sight")
	if !strings.HasSuffix(res.Summary, "...") {
		t.Errorf("expected ellipsis marker on hard truncation, got %q", res.Summary)
	}
	if len([]rune(res.Summary)) > budget {
		t.Errorf("summary exceeds budget: %d runes", len([]rune(res.Summary)))
	}
}

func TestSummaryTinyBudget(t *testing.T) {
	for _, budget := range []int{1, 2, 3} {
		a := New(DefaultMarkers(), budget)
		res := a.Analyze("abc def")
		if got := len([]rune(res.Summary)); got > budget {
			t.Errorf("budget %d: summary has %d runes: %q", budget, got, res.Summary)
		}
	}
}
