// newsbrief collects RSS feeds across fixed topic categories, classifies
// each article as factual or speculative, and renders an HTML digest.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsbrief/internal/analyze"
	"newsbrief/internal/collect"
	"newsbrief/internal/config"
	"newsbrief/internal/fetch"
	"newsbrief/internal/logging"
	"newsbrief/internal/mail"
	"newsbrief/internal/report"
	"newsbrief/internal/retention"
	"newsbrief/internal/schedule"
	"newsbrief/internal/store"
)

const usage = `usage: newsbrief [-config path] [command]

commands:
  collect   fetch, classify, and store new articles (default)
  report    render the HTML digest from stored articles
  sweep     purge articles past the retention threshold
  status    show configured sources and database counts
  run       run the cron scheduler (sweep + collect + report per trigger)
`

func main() {
	configPath := flag.String("config", "", "path to YAML configuration (falls back to $NEWSBRIEF_CONFIG)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "collect"
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Invalid configuration must never start a partial run.
		fatal("Configuration error: %v", err)
	}
	logging.Init(cfg.LogLevel)

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		fatal("Storage unavailable: %v", err)
	}
	defer st.Close()

	app := newApp(cfg, st)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "collect":
		err = app.collect(ctx)
	case "report":
		err = app.report()
	case "sweep":
		err = app.sweep()
	case "status":
		err = app.status()
	case "run":
		err = app.run(ctx)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fatal("Error: %v", err)
	}
}

// app wires the pipeline components for one process.
type app struct {
	cfg       config.Config
	store     *store.Store
	collector *collect.Collector
	sweeper   *retention.Sweeper
	renderer  *report.Renderer
	mailer    *mail.Mailer
}

func newApp(cfg config.Config, st *store.Store) *app {
	markers := analyze.DefaultMarkers()
	if len(cfg.Analysis.FactualMarkers) > 0 {
		markers.Factual = cfg.Analysis.FactualMarkers
	}
	if len(cfg.Analysis.SpeculativeMarkers) > 0 {
		markers.Speculative = cfg.Analysis.SpeculativeMarkers
	}
	analyzer := analyze.New(markers, cfg.Report.MaxSummaryLen)

	fetcher := fetch.New(time.Duration(cfg.Collection.TimeoutSeconds) * time.Second)
	collector := collect.New(cfg.CategorySources(), st, fetcher, analyzer, collect.Options{
		HostDelay:    time.Duration(cfg.Collection.RateLimitDelaySeconds) * time.Second,
		MaxPerSource: cfg.Collection.MaxPerSource,
	})

	return &app{
		cfg:       cfg,
		store:     st,
		collector: collector,
		sweeper:   retention.New(st, nil),
		renderer:  report.New(cfg.Report.Title, cfg.Report.MaxPerCategory),
		mailer:    mail.New(cfg.Mail),
	}
}

// collect runs one collection pass and prints the run summary. Per-source
// failures are already inside the report; only storage failures surface
// here.
func (a *app) collect(ctx context.Context) error {
	rep, err := a.collector.Run(ctx)
	if err != nil {
		return err
	}
	printReport(rep)
	return nil
}

// report renders the digest from the last 24 hours of stored articles and
// mails it when delivery is configured.
func (a *app) report() error {
	since := time.Now().Add(-24 * time.Hour)
	articles, err := a.store.Query(store.QueryFilter{Since: &since})
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		logging.Info("no recent articles to report")
		return nil
	}

	var buf bytes.Buffer
	if err := a.renderer.Render(&buf, articles); err != nil {
		return err
	}
	if err := os.WriteFile(a.cfg.Report.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logging.Info("digest rendered", "path", a.cfg.Report.Path, "articles", len(articles))

	return a.mailer.Send(time.Now(), buf.String())
}

func (a *app) sweep() error {
	deleted, err := a.sweeper.Sweep(a.cfg.Retention.Days)
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d articles older than %d days\n", deleted, a.cfg.Retention.Days)
	return nil
}

// run drives the full pipeline on the cron schedule until interrupted.
func (a *app) run(ctx context.Context) error {
	if !a.cfg.Schedule.Enabled {
		return fmt.Errorf("scheduling is disabled in configuration")
	}

	job := func() {
		if _, err := a.sweeper.Sweep(a.cfg.Retention.Days); err != nil {
			logging.Error("scheduled sweep failed", "error", err)
			return
		}
		if err := a.collect(ctx); err != nil {
			logging.Error("scheduled collection failed", "error", err)
			return
		}
		if err := a.report(); err != nil {
			logging.Error("scheduled report failed", "error", err)
		}
	}

	scheduler, err := schedule.New(a.cfg.Schedule.Spec, job)
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", a.cfg.Schedule.Spec, err)
	}
	scheduler.Run(ctx)
	return nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
