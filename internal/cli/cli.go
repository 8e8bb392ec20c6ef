// --- START OF FINAL REVISED FILE internal/cli/cli.go ---
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/stackvity/keymap-converter/internal/cli/config"
	"github.com/stackvity/keymap-converter/internal/cli/download"
	"github.com/stackvity/keymap-converter/internal/cli/git"
	"github.com/stackvity/keymap-converter/internal/cli/hooks"
	"github.com/stackvity/keymap-converter/internal/cli/runner"
	"github.com/stackvity/keymap-converter/internal/cli/ui"
	"github.com/stackvity/keymap-converter/internal/cli/watch"
	"github.com/stackvity/keymap-converter/pkg/converter"
	"github.com/stackvity/keymap-converter/pkg/converter/cache"
)

// App runs conversions for a loaded configuration.
type App struct {
	cfg      config.Config
	logger   *slog.Logger
	out      io.Writer
	color    bool
	importer *download.Importer
	cache    cache.CacheManager
	// convert is converter.Convert; replaced in tests.
	convert func(context.Context, converter.Options) (converter.Report, error)
	// mu serializes conversions; watch mode runs them back to back.
	mu sync.Mutex
}

// NewApp wires the CLI dependencies. Reports are written to out.
func NewApp(cfg config.Config, logger *slog.Logger, out io.Writer) *App {
	h := logger.Handler()
	app := &App{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "cli")),
		out:      out,
		color:    isTerminal(out),
		importer: download.NewImporter(h),
		convert:  converter.Convert,
	}
	if cfg.CacheEnabled && cfg.CacheFilePath != "" {
		app.cache = cache.NewFileCacheManager(h, cfg.AppVersion, cfg.CacheFormat)
	}
	return app
}

// Run orchestrates the main application logic after configuration loading:
// one conversion, or a conversion per new download in watch mode.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	app := NewApp(cfg, logger, os.Stdout)
	if cfg.WatchMode {
		return app.Watch(ctx)
	}
	return app.RunOnce(ctx, cfg.ArchivePath)
}

// RunOnce converts the configured input and prints the report. archivePath
// overrides the locator; it is ignored when a source directory is configured.
func (a *App) RunOnce(ctx context.Context, archivePath string) error {
	report, err := a.convertInput(ctx, archivePath)
	if report != nil {
		if printErr := printReport(a.out, *report, a.cfg.OutputFormat, a.color); printErr != nil {
			a.logger.Error("Failed to print report", slog.Any("error", printErr))
		}
	}
	return err
}

// Watch converts the newest download if there is one, then converts every
// new download until ctx is cancelled.
func (a *App) Watch(ctx context.Context) error {
	w, err := watch.New(a.cfg.Logger, a.cfg.ImportDir, a.cfg.ArchivePrefix, a.cfg.WatchDebounce)
	if err != nil {
		return err
	}
	if err := a.RunOnce(ctx, ""); err != nil && !errors.Is(err, download.ErrArchiveNotFound) {
		a.logger.Error("Initial conversion failed", slog.Any("error", err))
	}
	a.logger.Info("Watching for new downloads (Ctrl+C to stop)", slog.String("dir", a.cfg.ImportDir), slog.String("prefix", a.cfg.ArchivePrefix))
	return w.Run(ctx, a.RunOnce)
}

// convertInput resolves the input, consults the archive index, and runs the
// conversion. The returned report is nil only when nothing ran.
func (a *App) convertInput(ctx context.Context, archivePath string) (*converter.Report, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cfg.SourceDir != "" {
		report, err := a.runConversion(ctx, a.cfg.SourceDir)
		if len(report.Steps) == 0 {
			return nil, err
		}
		report.Summary.CacheStatus = converter.CacheStatusDisabled
		return &report, err
	}

	if archivePath == "" {
		archive, err := a.importer.Locate(a.cfg.ImportDir, a.cfg.ArchivePrefix)
		if err != nil {
			a.logger.Error("No download to convert", slog.Any("error", err))
			return nil, err
		}
		archivePath = archive.Path
	}
	name := filepath.Base(archivePath)
	a.logger.Info("Converting download", slog.String("archive", archivePath))

	hash, err := cache.HashFile(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", download.ErrExtract, err)
	}
	cacheStatus := converter.CacheStatusDisabled
	if a.cache != nil {
		if loadErr := a.cache.Load(a.cfg.CacheFilePath); loadErr != nil {
			a.logger.Warn("Archive index unavailable, converting anyway", slog.Any("error", loadErr))
		}
		hit, entry := a.cache.Check(name, hash, a.runSettings())
		switch {
		case hit && !a.cfg.Force:
			a.logger.Info("Download already converted, skipping (use --force to convert again)",
				slog.String("archive", name), slog.Time("processedAt", entry.ProcessedAt))
			report := cachedReport(name, entry)
			return &report, nil
		case hit:
			a.logger.Info("Download already converted, converting again because of --force", slog.String("archive", name))
		}
		cacheStatus = converter.CacheStatusMiss
	}

	tmp, err := a.importer.NewTempDir("")
	if err != nil {
		return nil, err
	}
	defer tmp.Close()
	if _, err := a.importer.Extract(ctx, archivePath, a.cfg.SourcePrefix, tmp.Path()); err != nil {
		return nil, err
	}

	report, convErr := a.runConversion(ctx, tmp.Path())
	if len(report.Steps) == 0 {
		return nil, convErr
	}
	report.Summary.Archive = name
	report.Summary.CacheStatus = cacheStatus

	if convErr == nil && a.cache != nil {
		entry := cache.CacheEntry{
			ArchiveHash: hash,
			ProcessedAt: time.Now(),
			Settings:    a.runSettings(),
			Matched:     report.Summary.MatchedCount,
			Literal:     report.Summary.LiteralCount,
		}
		if err := a.cache.Update(name, entry); err != nil {
			a.logger.Warn("Failed to record converted download", slog.Any("error", err))
		} else if err := a.cache.Persist(a.cfg.CacheFilePath); err != nil {
			a.logger.Warn("Failed to persist archive index", slog.Any("error", err))
		}
	}
	if closeErr := tmp.Close(); closeErr != nil && convErr == nil {
		a.logger.Warn("Temp directory left behind", slog.Any("error", closeErr))
	}
	return &report, convErr
}

// runSettings is the work the configuration asks for. The archive index
// keys converted downloads on it.
func (a *App) runSettings() cache.RunSettings {
	exportDir := a.cfg.ExportDir
	if abs, err := filepath.Abs(exportDir); err == nil {
		exportDir = abs
	}
	var steps []string
	if a.cfg.Toolchain.Compile.Enabled {
		steps = append(steps, string(converter.StepCompile))
	}
	if a.cfg.Toolchain.Flash.Enabled {
		steps = append(steps, string(converter.StepFlash))
	}
	if a.cfg.Git.Commit {
		steps = append(steps, string(converter.StepCommit))
	}
	return cache.RunSettings{
		ExportDir:    exportDir,
		Strict:       a.cfg.Strict,
		Steps:        steps,
		TemplatePath: a.cfg.TemplatePath,
	}
}

// runConversion builds the library options for sourceDir and runs Convert,
// with the TUI when enabled and stderr is a terminal.
func (a *App) runConversion(ctx context.Context, sourceDir string) (converter.Report, error) {
	opts := a.cfg.Options
	opts.SourceDir = sourceDir
	if opts.Logger == nil {
		opts.Logger = a.logger.Handler()
	}
	opts.CommandRunner = runner.NewExecCommandRunner(opts.Logger)
	opts.GitClient = git.New(opts.Logger)

	if !a.cfg.TuiEnabled || !term.IsTerminal(int(os.Stderr.Fd())) {
		opts.EventHooks = hooks.NewCLIHooks(a.logger, false, a.cfg.Verbose, nil)
		return a.convert(ctx, opts)
	}
	return a.runWithTUI(ctx, opts)
}

// runWithTUI runs the conversion next to the Bubble Tea program. Library logs
// are held back while the TUI owns the terminal and written out afterwards.
func (a *App) runWithTUI(ctx context.Context, opts converter.Options) (converter.Report, error) {
	var held bytes.Buffer
	level := slog.LevelInfo
	if a.cfg.Verbose {
		level = slog.LevelDebug
	}
	opts.Logger = slog.NewTextHandler(&held, &slog.HandlerOptions{Level: level})
	defer func() {
		if held.Len() > 0 {
			_, _ = os.Stderr.Write(held.Bytes())
		}
	}()

	model := ui.NewModel(a.cfg.AppVersion)
	program := tea.NewProgram(&model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	opts.EventHooks = hooks.NewCLIHooks(slog.New(opts.Logger), true, false, programSender{program})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	var report converter.Report
	var convErr error
	converted := make(chan struct{})

	g.Go(func() error {
		_, err := program.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("terminal UI failed: %w", err)
		}
		select {
		case <-converted:
		default:
			// The user quit before the run finished.
			cancel()
		}
		return nil
	})
	g.Go(func() error {
		defer close(converted)
		report, convErr = a.convert(runCtx, opts)
		program.Quit()
		return nil
	})
	if err := g.Wait(); err != nil {
		a.logger.Warn("Terminal UI exited with an error", slog.Any("error", err))
	}
	return report, convErr
}

// cachedReport describes a skipped, already converted download.
func cachedReport(name string, entry cache.CacheEntry) converter.Report {
	steps := make([]converter.StepInfo, 0, len(converter.Steps()))
	for _, s := range converter.Steps() {
		steps = append(steps, converter.StepInfo{Step: s, Status: converter.StatusCached, Message: "already converted"})
	}
	return converter.Report{
		Summary: converter.ReportSummary{
			ExportDir:     entry.Settings.ExportDir,
			Archive:       name,
			CacheStatus:   converter.CacheStatusHit,
			SlotCount:     entry.Matched + entry.Literal,
			MatchedCount:  entry.Matched,
			LiteralCount:  entry.Literal,
			Timestamp:     entry.ProcessedAt,
			SchemaVersion: converter.ReportSchemaVersion,
		},
		Steps:     steps,
		Slots:     []converter.SlotInfo{},
		Artifacts: []converter.ArtifactInfo{},
		Errors:    []converter.ErrorInfo{},
	}
}

// programSender adapts *tea.Program to hooks.TUIProgram.
type programSender struct{ p *tea.Program }

func (s programSender) Send(msg interface{}) { s.p.Send(msg) }

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// --- END OF FINAL REVISED FILE internal/cli/cli.go ---
