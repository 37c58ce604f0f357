package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"newsbrief/internal/collect"
	"newsbrief/internal/feed"
)

// Styles for terminal output.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	categoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

// status prints the configured sources and database counts.
func (a *app) status() error {
	fmt.Println(headerStyle.Render("newsbrief status"))
	fmt.Println()

	sources := a.cfg.CategorySources()
	counts, err := a.store.CountByCategory()
	if err != nil {
		return err
	}

	total := 0
	for _, category := range feed.Categories {
		urls := sources[category]
		stored := counts[category]
		total += stored
		if len(urls) == 0 && stored == 0 {
			continue
		}

		fmt.Printf("%s  %s\n",
			categoryStyle.Render(string(category)),
			countStyle.Render(fmt.Sprintf("%d stored", stored)),
		)
		for _, u := range urls {
			fmt.Printf("  %s\n", mutedStyle.Render(u))
		}
	}

	fmt.Println()
	fmt.Printf("%s %s\n", mutedStyle.Render("database:"), a.cfg.Database.Path)
	fmt.Printf("%s %s\n", mutedStyle.Render("retention:"), fmt.Sprintf("%d days", a.cfg.Retention.Days))
	fmt.Printf("%s %s\n", mutedStyle.Render("articles total:"), countStyle.Render(fmt.Sprintf("%d", total)))
	return nil
}

// printReport prints the collection run summary.
func printReport(rep collect.Report) {
	fmt.Println(headerStyle.Render("collection report"))
	fmt.Printf("  sources attempted:    %d\n", rep.SourcesAttempted)
	fmt.Printf("  sources failed:       %d\n", rep.SourcesFailed)
	fmt.Printf("  articles fetched:     %d\n", rep.ArticlesFetched)
	fmt.Printf("  articles deduplicated: %d\n", rep.ArticlesDeduplicated)
	fmt.Printf("  articles stored:      %d\n", rep.ArticlesStored)

	for _, f := range rep.Failures {
		fmt.Printf("  %s %s (%s): %s\n",
			failStyle.Render("failed:"), f.SourceURL, f.Category, f.Reason)
	}
}
