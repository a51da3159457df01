// Package generator renders QR codes for the configured targets, recolors
// them to the configured palette and writes them to the output directory.
package generator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// Fixed output filenames, one per target.
const (
	GitHubFile = "github_qr.png"
	DockerFile = "docker_qr.png"
)

// Target is one URL to encode and the file slot it is written to.
type Target struct {
	Name     string // stable identifier, e.g. "github"
	Label    string // human-readable name used in errors
	URL      string
	Filename string
}

// DefaultTargets returns the repository and registry targets.
func DefaultTargets(githubURL, dockerURL string) []Target {
	return []Target{
		{Name: "github", Label: "GitHub", URL: githubURL, Filename: GitHubFile},
		{Name: "docker", Label: "Docker-Hub", URL: dockerURL, Filename: DockerFile},
	}
}

// Result is the outcome of generating a single target.
type Result struct {
	Target     string `json:"target"`
	URL        string `json:"url"`
	Path       string `json:"path"`
	Bytes      int64  `json:"bytes"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`

	Err error `json:"-"`
}

// OK reports whether the target was written.
func (r Result) OK() bool { return r.Err == nil }

// Run is the outcome of one generation pass over all targets.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Foreground string    `json:"foreground"`
	Background string    `json:"background"`
	Results    []Result  `json:"results"`
}

// Failed returns the number of targets that were not written.
func (r *Run) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n
}

// Recorder persists run outcomes.
type Recorder interface {
	RecordRun(ctx context.Context, run *Run) error
}

// Notifier announces finished runs.
type Notifier interface {
	Notify(ctx context.Context, run *Run) error
}

// Options configures a Generator.
type Options struct {
	OutputDir string
	FillColor string
	BackColor string
	Size      int
	Recovery  qrcode.RecoveryLevel

	Recorder Recorder // optional
	Notifier Notifier // optional
}

// Generator owns the output directory. Run calls are serialized so the two
// file slots always have a single writer.
type Generator struct {
	opts Options
	log  *slog.Logger

	runMu sync.Mutex

	mu      sync.Mutex
	lastRun *Run
}

// New creates a Generator. A zero Size falls back to DefaultSize.
func New(opts Options, log *slog.Logger) *Generator {
	if opts.Size == 0 {
		opts.Size = DefaultSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{opts: opts, log: log}
}

// OutputDir returns the directory the target files are written to.
func (g *Generator) OutputDir() string { return g.opts.OutputDir }

// Palette resolves the configured fill and back colors.
func (g *Generator) Palette() (Palette, error) {
	return ResolvePalette(g.opts.FillColor, g.opts.BackColor)
}

// LastRun returns the most recent run, or nil if none has happened yet.
func (g *Generator) LastRun() *Run {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastRun
}

// Render encodes text and recolors it with p. A zero size uses the
// configured size.
func (g *Generator) Render(text string, p Palette, size int) (*image.RGBA, error) {
	if size == 0 {
		size = g.opts.Size
	}
	img, err := Encode(text, g.opts.Recovery, size)
	if err != nil {
		return nil, err
	}
	return Recolor(img, p), nil
}

// Generate renders url with p and writes it to path, returning the number of
// bytes written.
func (g *Generator) Generate(url, path string, p Palette) (int64, error) {
	img, err := g.Render(url, p, g.opts.Size)
	if err != nil {
		return 0, err
	}
	return Save(img, path)
}

// Cleanup deletes the given files from dir. Files that do not exist are
// skipped; any other failure is returned.
func Cleanup(dir string, filenames ...string) error {
	var errs []error
	for _, name := range filenames {
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

// Run regenerates every target. The previous files are removed first, then
// each target is validated and written in order. A failing target is logged
// and recorded in its Result without stopping the others. The returned error
// is non-nil only when ctx was already done or the output directory could not
// be prepared; in both cases no file has been touched. Once cleanup has
// happened ctx is no longer consulted, so both targets are always attempted.
func (g *Generator) Run(ctx context.Context, targets []Target) (*Run, error) {
	g.runMu.Lock()
	defer g.runMu.Unlock()

	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	if err := os.MkdirAll(g.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", g.opts.OutputDir, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run not started: %w", err)
	}

	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.Filename)
	}
	if err := Cleanup(g.opts.OutputDir, names...); err != nil {
		return nil, fmt.Errorf("cleanup: %w", err)
	}

	absDir, err := filepath.Abs(g.opts.OutputDir)
	if err != nil {
		absDir = g.opts.OutputDir
	}
	g.log.Info("saving QR codes", "dir", absDir, "run_id", run.ID)

	palette, paletteErr := g.Palette()
	if paletteErr == nil {
		run.Foreground = palette.Foreground.Hex()
		run.Background = palette.Background.Hex()
	} else {
		g.log.Error("cannot resolve palette", "fill", g.opts.FillColor, "back", g.opts.BackColor, "error", paletteErr)
	}

	for _, t := range targets {
		res := g.runTarget(t, palette, paletteErr)
		run.Results = append(run.Results, res)
	}
	run.FinishedAt = time.Now().UTC()

	ctx = context.WithoutCancel(ctx)

	if g.opts.Recorder != nil {
		if err := g.opts.Recorder.RecordRun(ctx, run); err != nil {
			g.log.Warn("failed to record run", "run_id", run.ID, "error", err)
		}
	}
	if g.opts.Notifier != nil {
		if err := g.opts.Notifier.Notify(ctx, run); err != nil {
			g.log.Warn("failed to notify run", "run_id", run.ID, "error", err)
		}
	}

	g.mu.Lock()
	g.lastRun = run
	g.mu.Unlock()

	g.log.Info("done", "run_id", run.ID, "failed", run.Failed(), "total", len(run.Results))
	return run, nil
}

func (g *Generator) runTarget(t Target, p Palette, paletteErr error) Result {
	start := time.Now()
	path := filepath.Join(g.opts.OutputDir, t.Filename)
	res := Result{Target: t.Name, URL: t.URL, Path: path}

	fail := func(err error) Result {
		res.Err = err
		res.Error = err.Error()
		res.DurationMS = time.Since(start).Milliseconds()
		g.log.Error(err.Error(), "target", t.Name)
		return res
	}

	if paletteErr != nil {
		return fail(paletteErr)
	}
	url, err := ValidateURL(t.URL, t.Label)
	if err != nil {
		return fail(err)
	}
	n, err := g.Generate(url, path, p)
	if err != nil {
		return fail(fmt.Errorf("%s: %w", t.Label, err))
	}

	res.Bytes = n
	res.DurationMS = time.Since(start).Milliseconds()
	g.log.Info("overwrote "+t.Filename, "target", t.Name, "bytes", n)
	return res
}
