package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/openclaw/qrgen/api"
	"github.com/openclaw/qrgen/config"
	"github.com/openclaw/qrgen/generator"
	"github.com/openclaw/qrgen/store"
)

// errTargetsFailed is returned in --strict mode when a target was not written.
var errTargetsFailed = errors.New("one or more QR codes could not be generated")

// loadConfig reads the config file and environment, then applies the flags
// that were set explicitly on the command line.
func loadConfig(cmd *cobra.Command, o *options) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			apply()
		}
	}
	set("github", func() { cfg.GitHubURL = o.github })
	set("docker", func() { cfg.DockerURL = o.docker })
	set("dir", func() { cfg.OutputDir = o.dir })
	set("fill", func() { cfg.FillColor = o.fill })
	set("back", func() { cfg.BackColor = o.back })
	set("size", func() { cfg.Size = o.size })
	set("recovery", func() { cfg.Recovery = o.recovery })
	set("data-dir", func() { cfg.DataDir = o.dataDir })
	set("no-history", func() { cfg.History = !o.noHistory })
	set("webhook", func() { cfg.WebhookURL = o.webhook })
	set("log-level", func() { cfg.LogLevel = o.logLevel })
	set("log-format", func() { cfg.LogFormat = o.logFormat })
	set("port", func() { cfg.Port = o.port })
	set("interval", func() { cfg.RegenerateInterval = config.Duration{Duration: o.interval} })

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger from the configured level and format.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	switch cfg.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "pretty":
		cl := charmlog.NewWithOptions(w, charmlog.Options{
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		cl.SetLevel(charmlog.Level(level))
		handler = cl
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

// openGenerator wires the generator with its optional history store and
// webhook. The returned store is nil when history is disabled; the caller
// closes it.
func openGenerator(cfg *config.Config, log *slog.Logger) (*generator.Generator, *store.HistoryStore, error) {
	recovery, err := generator.ParseRecovery(cfg.Recovery)
	if err != nil {
		return nil, nil, err
	}

	opts := generator.Options{
		OutputDir: cfg.OutputDir,
		FillColor: cfg.FillColor,
		BackColor: cfg.BackColor,
		Size:      cfg.Size,
		Recovery:  recovery,
	}

	var hist *store.HistoryStore
	if cfg.History {
		if err := cfg.EnsureDataDir(); err != nil {
			return nil, nil, fmt.Errorf("ensure data dir: %w", err)
		}
		hist, err = store.NewHistoryStore(cfg.HistoryPath())
		if err != nil {
			return nil, nil, fmt.Errorf("open history store: %w", err)
		}
		opts.Recorder = hist
	}
	if cfg.WebhookURL != "" {
		opts.Notifier = generator.NewWebhookNotifier(cfg.WebhookURL, log)
	}

	return generator.New(opts, log), hist, nil
}

func runGenerateCmd(cmd *cobra.Command, o *options) error {
	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}
	log := newLogger(cfg, os.Stdout)
	slog.SetDefault(log)

	return runGenerate(cmd.Context(), cfg, log, cmd.OutOrStdout(), o.strict)
}

// runGenerate regenerates both targets and prints a summary to out. Failed
// targets are reported but only turn into an error when strict is set.
func runGenerate(ctx context.Context, cfg *config.Config, log *slog.Logger, out io.Writer, strict bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	gen, hist, err := openGenerator(cfg, log)
	if err != nil {
		return err
	}
	if hist != nil {
		defer hist.Close()
	}

	run, err := gen.Run(ctx, generator.DefaultTargets(cfg.GitHubURL, cfg.DockerURL))
	if err != nil {
		return err
	}

	printSummary(out, run)
	if strict && run.Failed() > 0 {
		return errTargetsFailed
	}
	return nil
}

func printSummary(out io.Writer, run *generator.Run) {
	ok := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)

	for _, res := range run.Results {
		if res.OK() {
			ok.Fprint(out, "  OK   ")
			fmt.Fprintf(out, "%-7s %s (%s)\n", res.Target, res.Path, humanize.Bytes(uint64(res.Bytes)))
		} else {
			fail.Fprint(out, "  FAIL ")
			fmt.Fprintf(out, "%-7s %s\n", res.Target, res.Error)
		}
	}
}

func runHistoryCmd(cmd *cobra.Command, o *options) error {
	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}
	return runHistory(cmd.Context(), cfg, cmd.OutOrStdout(), o.target, o.limit)
}

// runHistory prints recorded generations. A missing database means nothing
// has been recorded yet.
func runHistory(ctx context.Context, cfg *config.Config, out io.Writer, target string, limit int) error {
	if _, err := os.Stat(cfg.HistoryPath()); errors.Is(err, os.ErrNotExist) {
		printHistory(out, nil)
		return nil
	}

	hist, err := store.NewHistoryStore(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer hist.Close()

	gens, err := hist.List(ctx, target, limit)
	if err != nil {
		return err
	}
	printHistory(out, gens)
	return nil
}

func printHistory(out io.Writer, gens []store.Generation) {
	if len(gens) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tTARGET\tSTATUS\tCOLORS\tSIZE\tURL")
	for _, g := range gens {
		status := color.GreenString("ok")
		if !g.OK {
			status = color.RedString("failed")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s/%s\t%s\t%s\n",
			humanize.Time(time.Unix(g.Timestamp, 0)),
			g.Target,
			status,
			g.Foreground, g.Background,
			humanize.Bytes(uint64(g.Bytes)),
			g.URL,
		)
	}
	tw.Flush()
}

// runServeCmd is the HTTP service entrypoint.
func runServeCmd(cmd *cobra.Command, o *options) error {
	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}
	log := newLogger(cfg, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting qrgen", "version", version, "port", cfg.Port, "output_dir", cfg.OutputDir)

	gen, hist, err := openGenerator(cfg, log)
	if err != nil {
		return err
	}
	if hist != nil {
		defer hist.Close()
	}

	targets := generator.DefaultTargets(cfg.GitHubURL, cfg.DockerURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := gen.Run(ctx, targets); err != nil {
		return fmt.Errorf("initial generation: %w", err)
	}
	if cfg.RegenerateInterval.Duration > 0 {
		generator.StartRegenerateLoop(ctx, gen, targets, cfg.RegenerateInterval.Duration, log)
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: api.NewRouter(&api.Server{
			Generator: gen,
			Targets:   targets,
			Store:     hist,
			Log:       log,
			Version:   version,
			StartTime: time.Now(),
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("HTTP server: %w", err)
	}

	log.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("goodbye")
	return nil
}
