package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.ormside.net/rke/blogbuilder/internal/config"
	"git.ormside.net/rke/blogbuilder/internal/events"
	"git.ormside.net/rke/blogbuilder/internal/gitsource"
	"git.ormside.net/rke/blogbuilder/internal/history"
	"git.ormside.net/rke/blogbuilder/internal/lint"
	"git.ormside.net/rke/blogbuilder/internal/logfields"
	"git.ormside.net/rke/blogbuilder/internal/metrics"
	"git.ormside.net/rke/blogbuilder/internal/preview"
	"git.ormside.net/rke/blogbuilder/internal/site"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"blogbuilder.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Drafts    bool `help:"Render draft documents (the index still omits them)"`
		KeepGoing bool `short:"k" help:"Skip broken documents instead of aborting the build"`
	} `cmd:"" help:"Build the site from the content store"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Serve struct {
		Port int `short:"p" help:"Override the preview port"`
	} `cmd:"" help:"Serve the site locally, rebuilding on content changes"`

	Lint struct {
	} `cmd:"" help:"Check every document without writing output"`

	History struct {
		Limit int `short:"n" help:"Number of builds to show" default:"20"`
	} `cmd:"" help:"Show recent builds from the history store"`
}

func main() {
	kctx := kong.Parse(&CLI)

	if kctx.Command() == "init" {
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("init failed", logfields.Error(err))
			os.Exit(1)
		}
		slog.Info("configuration written", logfields.Path(CLI.Config))
		return
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("failed to load configuration", logfields.Error(err))
		os.Exit(1)
	}
	slog.SetDefault(cfg.Logging.NewLogger(CLI.Verbose))

	var runErr error
	switch kctx.Command() {
	case "build":
		runErr = runBuild(cfg)
	case "serve":
		runErr = runServe(cfg)
	case "lint":
		runErr = runLint(cfg)
	case "history":
		runErr = runHistory(cfg, CLI.History.Limit)
	default:
		runErr = fmt.Errorf("unknown command %q", kctx.Command())
	}
	if runErr != nil {
		slog.Error("command failed", logfields.Error(runErr))
		os.Exit(1)
	}
}

// driver bundles the pieces a build run touches beyond the pipeline itself:
// content sync, metrics, history, and event publishing.
type driver struct {
	cfg       *config.Config
	recorder  metrics.Recorder
	registry  *prom.Registry
	store     history.Store
	publisher *events.Publisher
}

func newDriver(cfg *config.Config) (*driver, error) {
	d := &driver{cfg: cfg, recorder: metrics.NoopRecorder{}}

	if cfg.Metrics.Enabled {
		d.registry = prom.NewRegistry()
		d.recorder = metrics.NewPrometheusRecorder(d.registry)
	}

	if cfg.History.Enabled {
		store, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		d.store = store
	}

	if cfg.Events.Enabled {
		pub, err := events.NewPublisher(cfg.Events)
		if err != nil {
			d.close()
			return nil, err
		}
		d.publisher = pub
	}

	return d, nil
}

func (d *driver) close() {
	if d.publisher != nil {
		d.publisher.Close()
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			slog.Warn("failed to close history store", logfields.Error(err))
		}
	}
}

// sync refreshes the content checkout when a Git source is configured.
func (d *driver) sync() error {
	if d.cfg.Content.Git == nil {
		return nil
	}
	client := gitsource.NewClient(*d.cfg.Content.Git, d.cfg.Content.Dir)
	_, err := client.Sync()
	return err
}

// build runs one full pipeline pass and records the outcome in the history
// store and on the event bus. The build error is returned; bookkeeping
// failures are logged but never mask it.
func (d *driver) build(ctx context.Context) error {
	if err := d.sync(); err != nil {
		return err
	}

	builder := &site.Builder{
		ContentDir: d.cfg.Content.Dir,
		Writer: site.Writer{
			OutputDir:   d.cfg.Output.Dir,
			Clean:       d.cfg.Output.Clean,
			SiteTitle:   d.cfg.Site.Title,
			BaseURL:     d.cfg.Site.BaseURL,
			Description: d.cfg.Site.Description,
		},
		Opts: site.Options{
			IncludeDrafts: d.cfg.Build.IncludeDrafts,
			KeepGoing:     d.cfg.Build.KeepGoing,
		},
		Recorder: d.recorder,
	}

	report, _, buildErr := builder.Run(ctx)
	if report != nil {
		d.record(ctx, report, buildErr)
	}
	return buildErr
}

func (d *driver) record(ctx context.Context, report *site.Report, buildErr error) {
	errText := ""
	if buildErr != nil {
		errText = buildErr.Error()
	}

	if d.store != nil {
		entry := history.Entry{
			BuildID:   report.BuildID,
			StartedAt: report.StartedAt,
			Duration:  report.Duration,
			Pages:     report.Pages,
			Drafts:    report.Drafts,
			Outcome:   report.Outcome,
			Error:     errText,
		}
		if err := d.store.Record(ctx, entry); err != nil {
			slog.Warn("failed to record build history", logfields.BuildID(report.BuildID), logfields.Error(err))
		}
	}

	if d.publisher != nil {
		event := events.BuildCompleted{
			BuildID:    report.BuildID,
			Outcome:    report.Outcome,
			Pages:      report.Pages,
			Drafts:     report.Drafts,
			StartedAt:  report.StartedAt,
			DurationMS: report.Duration.Milliseconds(),
			Error:      errText,
		}
		if err := d.publisher.PublishBuildCompleted(event); err != nil {
			slog.Warn("failed to publish build event", logfields.BuildID(report.BuildID), logfields.Error(err))
		}
	}
}

func runBuild(cfg *config.Config) error {
	if CLI.Build.Drafts {
		cfg.Build.IncludeDrafts = true
	}
	if CLI.Build.KeepGoing {
		cfg.Build.KeepGoing = true
	}

	d, err := newDriver(cfg)
	if err != nil {
		return err
	}
	defer d.close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return d.build(ctx)
}

func runServe(cfg *config.Config) error {
	if CLI.Serve.Port > 0 {
		cfg.Preview.Port = CLI.Serve.Port
	}

	d, err := newDriver(cfg)
	if err != nil {
		return err
	}
	defer d.close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := preview.Options{
		ContentDir:      cfg.Content.Dir,
		OutputDir:       cfg.Output.Dir,
		Port:            cfg.Preview.Port,
		QuietWindow:     cfg.Preview.QuietWindow.Std(),
		MaxDelay:        cfg.Preview.MaxDelay.Std(),
		RebuildInterval: cfg.Preview.RebuildInterval.Std(),
		Rebuild:         d.build,
	}
	if cfg.Metrics.Enabled {
		opts.MetricsHandler = metrics.HTTPHandler(d.registry)
	}

	return preview.Serve(ctx, opts)
}

func runLint(cfg *config.Config) error {
	if cfg.Content.Git != nil {
		if _, err := gitsource.NewClient(*cfg.Content.Git, cfg.Content.Dir).Sync(); err != nil {
			return err
		}
	}

	result, err := lint.Run(cfg.Content.Dir)
	if err != nil {
		return err
	}

	for _, issue := range result.Issues {
		fmt.Printf("%-14s %-30s %s\n", issue.Kind, issue.Slug, issue.Message)
	}
	fmt.Printf("%d documents checked, %d issues\n", result.Documents, len(result.Issues))

	if !result.Clean() {
		return fmt.Errorf("lint found %d issues", len(result.Issues))
	}
	return nil
}

func runHistory(cfg *config.Config, limit int) error {
	if !cfg.History.Enabled {
		return fmt.Errorf("build history is disabled in the configuration")
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no builds recorded")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %-8s  %5s  %6s  %8s\n", "BUILD", "STARTED", "OUTCOME", "PAGES", "DRAFTS", "DURATION")
	for _, e := range entries {
		fmt.Printf("%-36s  %-20s  %-8s  %5d  %6d  %8s\n",
			e.BuildID,
			e.StartedAt.Format("2006-01-02 15:04:05"),
			e.Outcome,
			e.Pages,
			e.Drafts,
			e.Duration.Round(time.Millisecond))
	}
	return nil
}
