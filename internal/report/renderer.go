// Package report renders the HTML news digest.
package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"sort"
	"time"

	"newsbrief/internal/feed"
)

// classStyles maps a classification to its CSS class in the digest.
// Factual renders green, speculative red, mixed amber.
var classStyles = map[feed.Classification]string{
	feed.Factual:     "factual",
	feed.Speculative: "speculative",
	feed.Mixed:       "mixed",
}

// Renderer produces a static HTML document from stored articles.
type Renderer struct {
	title          string
	maxPerCategory int
	tmpl           *template.Template
	now            func() time.Time
}

// New creates a Renderer. maxPerCategory of zero or less means no cap.
func New(title string, maxPerCategory int) *Renderer {
	return &Renderer{
		title:          title,
		maxPerCategory: maxPerCategory,
		tmpl:           template.Must(template.New("digest").Parse(digestTemplate)),
		now:            time.Now,
	}
}

type sectionData struct {
	Category feed.Category
	Articles []articleData
}

type articleData struct {
	Title        string
	SourceURL    string
	ShortSummary string
	Class        string
	Label        string
	TimeAgo      string
	Signals      string
}

type digestData struct {
	Title       string
	GeneratedAt string
	Total       int
	Sections    []sectionData
}

// Render writes the digest for the given articles. Articles are grouped by
// category in the fixed category order and sorted by published time
// descending within each group; empty categories are omitted.
func (r *Renderer) Render(w io.Writer, articles []feed.Article) error {
	now := r.now()

	grouped := make(map[feed.Category][]feed.Article)
	for _, a := range articles {
		grouped[a.Category] = append(grouped[a.Category], a)
	}

	data := digestData{
		Title:       r.title,
		GeneratedAt: now.Format("Monday, January 2, 2006 15:04"),
		Total:       len(articles),
	}

	for _, category := range feed.Categories {
		group := grouped[category]
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].PublishedAt.After(group[j].PublishedAt)
		})
		if r.maxPerCategory > 0 && len(group) > r.maxPerCategory {
			group = group[:r.maxPerCategory]
		}

		section := sectionData{Category: category}
		for _, a := range group {
			section.Articles = append(section.Articles, articleData{
				Title:        a.Title,
				SourceURL:    a.SourceURL,
				ShortSummary: a.ShortSummary,
				Class:        classStyles[a.Classification],
				Label:        string(a.Classification),
				TimeAgo:      timeAgo(now, a.PublishedAt),
				Signals:      fmt.Sprintf("%d factual / %d speculative", a.FactualSignals, a.SpeculativeSignals),
			})
		}
		data.Sections = append(data.Sections, section)
	}

	return r.tmpl.Execute(w, data)
}

// WriteFile renders the digest to a file.
func (r *Renderer) WriteFile(path string, articles []feed.Article) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := r.Render(f, articles); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// timeAgo formats the age of a published time for display.
func timeAgo(now, published time.Time) string {
	diff := now.Sub(published)
	switch {
	case diff >= 48*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	case diff >= 24*time.Hour:
		return "1 day ago"
	case diff >= 2*time.Hour:
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	case diff >= time.Hour:
		return "1 hour ago"
	case diff >= 2*time.Minute:
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	default:
		return "just now"
	}
}

const digestTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; max-width: 960px; margin: 0 auto; padding: 20px; background: #f8f9fa; }
.header { background: #2c3e50; color: white; padding: 24px; border-radius: 8px; margin-bottom: 24px; }
.header h1 { margin: 0; }
.header .subtitle { opacity: 0.8; margin-top: 6px; }
.section { background: white; margin: 24px 0; border-radius: 8px; box-shadow: 0 1px 6px rgba(0,0,0,0.1); overflow: hidden; }
.section-header { background: #34495e; color: white; padding: 14px 20px; font-size: 1.2em; font-weight: bold; text-transform: capitalize; }
.article { margin: 16px 20px; padding: 14px; border-left: 4px solid #ddd; background: #fafafa; border-radius: 0 6px 6px 0; }
.article.factual { border-left-color: #27ae60; }
.article.speculative { border-left-color: #e74c3c; }
.article.mixed { border-left-color: #f39c12; }
.article-title { font-size: 1.1em; font-weight: bold; margin: 0 0 6px 0; }
.article-title a { color: #2c3e50; text-decoration: none; }
.article-meta { color: #666; font-size: 0.85em; margin-bottom: 8px; }
.tag { display: inline-block; padding: 2px 8px; border-radius: 10px; font-size: 0.8em; font-weight: bold; margin-right: 8px; text-transform: uppercase; }
.tag.factual { background: #d4edda; color: #155724; }
.tag.speculative { background: #f8d7da; color: #721c24; }
.tag.mixed { background: #fff3cd; color: #856404; }
.footer { text-align: center; color: #666; padding: 20px; font-size: 0.85em; }
</style>
</head>
<body>
<div class="header">
<h1>{{.Title}}</h1>
<div class="subtitle">{{.GeneratedAt}} &middot; {{.Total}} articles</div>
</div>
{{range .Sections}}
<div class="section">
<div class="section-header">{{.Category}}</div>
{{range .Articles}}
<div class="article {{.Class}}">
<div class="article-title"><a href="{{.SourceURL}}">{{.Title}}</a></div>
<div class="article-meta"><span class="tag {{.Class}}">{{.Label}}</span>{{.TimeAgo}} &middot; signals: {{.Signals}}</div>
<div>{{.ShortSummary}}</div>
</div>
{{end}}
</div>
{{end}}
<div class="footer">Generated by newsbrief &middot; local processing only</div>
</body>
</html>
`
