// --- START OF FINAL REVISED FILE pkg/converter/engine.go ---
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/stackvity/keymap-converter/pkg/converter/codemap"
	"github.com/stackvity/keymap-converter/pkg/converter/encoding"
	"github.com/stackvity/keymap-converter/pkg/converter/git"
	"github.com/stackvity/keymap-converter/pkg/converter/language"
	"github.com/stackvity/keymap-converter/pkg/converter/template"
	"github.com/stackvity/keymap-converter/pkg/converter/toolchain"
)

// Engine orchestrates one conversion run: read the source, transform
// keymap.c, render the catalog, write every artifact, then optionally
// compile, flash and commit.
type Engine struct {
	opts      *Options
	logger    *slog.Logger
	hooks     Hooks
	walker    *Walker
	processor *Processor
	emitter   *template.CatalogEmitter
	writer    *ArtifactWriter
	report    Report
}

// NewEngine validates opts and resolves default implementations for the
// dependencies that were not injected.
func NewEngine(opts Options) (*Engine, error) { // minimal comment
	if opts.Logger == nil {
		return nil, fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrConfigValidation)
	}
	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}
	logger := slog.New(opts.Logger).With(slog.String("component", "engine"))

	if opts.SourceDir == "" {
		return nil, fmt.Errorf("%w: source directory cannot be empty", ErrConfigValidation)
	}
	if opts.ExportDir == "" {
		return nil, fmt.Errorf("%w: export directory cannot be empty", ErrConfigValidation)
	}
	if info, err := os.Stat(opts.SourceDir); err != nil {
		return nil, fmt.Errorf("%w: cannot access source directory '%s': %w", ErrConfigValidation, opts.SourceDir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%w: source path '%s' is not a directory", ErrConfigValidation, opts.SourceDir)
	}
	if (opts.Toolchain.Compile.Enabled || opts.Toolchain.Flash.Enabled) && opts.CommandRunner == nil {
		return nil, fmt.Errorf("%w: CommandRunner required when compile or flash is enabled", ErrConfigValidation)
	}
	if opts.Git.Commit && opts.GitClient == nil {
		return nil, fmt.Errorf("%w: GitClient required when git.commit is enabled", ErrConfigValidation)
	}

	if opts.EncodingHandler == nil {
		handler, err := encoding.NewGoCharsetEncodingHandler(opts.DefaultEncoding)
		if err != nil {
			return nil, fmt.Errorf("%w: defaultEncoding: %w", ErrConfigValidation, err)
		}
		opts.EncodingHandler = handler
		logger.Debug("EncodingHandler not provided, using default GoCharsetEncodingHandler.")
	}
	if opts.LanguageDetector == nil {
		opts.LanguageDetector = language.NewGoEnryDetector(nil)
		logger.Debug("LanguageDetector not provided, using default GoEnryDetector.")
	}
	if opts.TemplateExecutor == nil {
		opts.TemplateExecutor = template.NewGoTemplateExecutor()
		logger.Debug("TemplateExecutor not provided, using default GoTemplateExecutor.")
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = DefaultCommandTimeout
	}
	if opts.Git.Message == "" {
		opts.Git.Message = DefaultCommitMessage
	}
	opts.Toolchain.Compile.Stage = toolchain.StageCompile
	opts.Toolchain.Flash.Stage = toolchain.StageFlash

	return &Engine{
		opts:      &opts,
		logger:    logger,
		hooks:     opts.EventHooks,
		walker:    NewWalker(opts.SourceDir, opts.Logger),
		processor: NewProcessor(opts.Logger, opts.EncodingHandler, opts.LanguageDetector, opts.Strict),
		emitter:   template.NewCatalogEmitter(opts.TemplateExecutor, opts.Template),
		writer:    NewArtifactWriter(opts.Logger),
	}, nil
}

// runState carries data between steps.
type runState struct {
	sources   Sources
	keymap    SourceFile
	config    *SourceFile
	rules     *SourceFile
	transform *Transformation
	catalog   string
}

// Run executes every step in order. The first failing step aborts the run;
// the remaining steps are reported as skipped. The returned report is
// complete in both cases.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	e.report = Report{
		Summary: ReportSummary{
			SourceDir:      e.opts.SourceDir,
			ExportDir:      e.opts.ExportDir,
			ProfileUsed:    e.opts.ProfileName,
			ConfigFilePath: e.opts.ConfigFilePath,
			Strict:         e.opts.Strict,
			Timestamp:      start,
			SchemaVersion:  ReportSchemaVersion,
		},
		Steps:     []StepInfo{},
		Slots:     []SlotInfo{},
		Artifacts: []ArtifactInfo{},
		Errors:    []ErrorInfo{},
	}
	e.logger.Info("Starting keymap conversion", slog.String("source", e.opts.SourceDir), slog.String("export", e.opts.ExportDir), slog.Bool("strict", e.opts.Strict))

	steps := []struct {
		step    Step
		enabled bool
		run     func(context.Context, *runState) (string, error)
	}{
		{StepRead, true, e.read},
		{StepTransform, true, e.transform},
		{StepCatalog, true, e.renderCatalog},
		{StepWrite, true, e.write},
		{StepCompile, e.opts.Toolchain.Compile.Enabled, e.command(e.opts.Toolchain.Compile)},
		{StepFlash, e.opts.Toolchain.Flash.Enabled, e.command(e.opts.Toolchain.Flash)},
		{StepCommit, e.opts.Git.Commit, e.commit},
	}
	for _, s := range steps {
		if hookErr := e.hooks.OnStepDiscovered(s.step); hookErr != nil {
			e.logger.Warn("Event hook OnStepDiscovered failed", slog.String("step", string(s.step)), slog.String("error", hookErr.Error()))
		}
	}

	state := &runState{}
	var runErr error
	for _, s := range steps {
		switch {
		case runErr != nil:
			e.recordStep(s.step, StatusSkipped, "aborted by earlier failure", 0)
			continue
		case !s.enabled:
			e.recordStep(s.step, StatusSkipped, "not configured", 0)
			continue
		}
		if err := ctx.Err(); err != nil {
			runErr = err
			e.recordStep(s.step, StatusSkipped, "cancelled", 0)
			continue
		}
		e.notify(s.step, StatusProcessing, "", 0)
		stepStart := time.Now()
		msg, err := s.run(ctx, state)
		elapsed := time.Since(stepStart)
		if err != nil {
			runErr = fmt.Errorf("%s: %w", s.step, err)
			e.recordError(s.step, err, true)
			e.recordStep(s.step, StatusFailed, err.Error(), elapsed)
			e.logger.Error("Step failed", slog.String("step", string(s.step)), slog.String("error", err.Error()))
			continue
		}
		e.recordStep(s.step, StatusSuccess, msg, elapsed)
	}

	e.report.Summary.FatalErrorOccurred = runErr != nil
	e.report.Summary.DurationSeconds = time.Since(start).Seconds()
	if hookErr := e.hooks.OnRunComplete(e.report); hookErr != nil {
		e.logger.Warn("Error reported by OnRunComplete hook", slog.String("hookError", hookErr.Error()))
	}
	if runErr != nil {
		e.logger.Error("Keymap conversion failed", slog.String("error", runErr.Error()))
	} else {
		e.logger.Info("Keymap conversion finished",
			slog.Int("matched", e.report.Summary.MatchedCount),
			slog.Int("literal", e.report.Summary.LiteralCount),
			slog.Duration("duration", time.Since(start)))
	}
	return e.report, runErr
}

func (e *Engine) read(ctx context.Context, st *runState) (string, error) {
	sources, err := e.walker.Walk(ctx)
	if err != nil {
		return "", err
	}
	st.sources = sources
	if st.keymap, err = e.processor.ReadSource(sources.Keymap); err != nil {
		return "", err
	}
	e.report.Summary.SourceEncoding = st.keymap.Encoding
	if !st.keymap.Check.Plausible && st.keymap.Check.Language != "" {
		e.recordError(StepRead, fmt.Errorf("%s looks like %s", KeymapFileName, st.keymap.Check.Language), false)
	}
	for _, opt := range []struct {
		path string
		dst  **SourceFile
	}{{sources.Config, &st.config}, {sources.Rules, &st.rules}} {
		if opt.path == "" {
			continue
		}
		src, err := e.processor.ReadSource(opt.path)
		if err != nil {
			return "", err
		}
		*opt.dst = &src
	}
	return fmt.Sprintf("%s (%s)", filepath.Base(sources.Keymap), st.keymap.Encoding), nil
}

func (e *Engine) transform(_ context.Context, st *runState) (string, error) {
	t, err := e.processor.Transform(bytes.NewReader(st.keymap.Text))
	if err != nil {
		return "", err
	}
	st.transform = t
	slots := NewSlotInfos(t.Classifications)
	summary := &e.report.Summary
	e.report.Slots = slots
	summary.SlotCount = len(slots)
	summary.LiteralCount = len(t.Output.Literal)
	summary.MatchedCount = summary.SlotCount - summary.LiteralCount
	for _, c := range t.Classifications {
		if c.Ambiguous() {
			summary.AmbiguousCount++
		}
		if c.Diagnostic != nil && (c.Ambiguous() || !c.Slot.Decoded()) {
			e.recordError(StepTransform, fmt.Errorf("macro slot %d (line %d): %w", c.Slot.Ordinal, c.Slot.Line, c.Diagnostic), false)
		}
	}
	return fmt.Sprintf("%d macros, %d matched, %d literal", summary.SlotCount, summary.MatchedCount, summary.LiteralCount), nil
}

func (e *Engine) renderCatalog(_ context.Context, st *runState) (string, error) {
	var buf bytes.Buffer
	if err := e.emitter.Emit(&buf); err != nil {
		if errors.Is(err, codemap.ErrUnencodableChar) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrTemplateExecution, err)
	}
	st.catalog = buf.String()
	return MacrosFileName, nil
}

func (e *Engine) write(ctx context.Context, st *runState) (string, error) {
	artifacts := []Artifact{
		{Name: KeymapFileName, Content: st.transform.Output.Keymap},
		{Name: TapDanceFileName, Content: st.transform.Output.TapDance},
		{Name: MacrosFileName, Content: st.catalog},
	}
	if st.config != nil {
		artifacts = append(artifacts, Artifact{Name: ConfigFileName, Content: ConfigHeader(st.config.Text)})
	}
	if st.rules != nil {
		artifacts = append(artifacts, Artifact{Name: RulesFileName, Content: string(st.rules.Text)})
	}
	infos, err := e.writer.WriteAll(ctx, e.opts.ExportDir, artifacts)
	e.report.Artifacts = append(e.report.Artifacts, infos...)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d files", len(infos)), nil
}

func (e *Engine) command(cfg toolchain.CommandConfig) func(context.Context, *runState) (string, error) {
	return func(ctx context.Context, _ *runState) (string, error) {
		cmdCtx, cancel := context.WithTimeout(ctx, e.opts.CommandTimeout)
		defer cancel()
		res, err := e.opts.CommandRunner.Run(cmdCtx, cfg)
		if err != nil {
			if res.Stderr != "" {
				e.logger.Error("Command output", slog.String("command", cfg.Name), slog.String("stderr", res.Stderr))
			}
			return "", err
		}
		return fmt.Sprintf("%s in %s", cfg.Name, res.Duration.Round(time.Millisecond)), nil
	}
}

func (e *Engine) commit(ctx context.Context, _ *runState) (string, error) {
	repo := e.opts.Git.Repo
	if repo == "" {
		repo = e.opts.ExportDir
	}
	pathspec, err := filepath.Rel(repo, e.opts.ExportDir)
	if err != nil {
		return "", git.Errorf("export directory %s is not inside %s: %w", e.opts.ExportDir, repo, err)
	}
	hash, err := e.opts.GitClient.Commit(ctx, repo, filepath.ToSlash(pathspec), e.opts.Git.Message)
	if errors.Is(err, git.ErrNothingToCommit) {
		return "nothing to commit", nil
	}
	if err != nil {
		return "", err
	}
	e.report.Summary.CommitHash = hash
	return hash, nil
}

func (e *Engine) notify(step Step, status Status, msg string, d time.Duration) {
	if hookErr := e.hooks.OnStepStatusUpdate(step, status, msg, d); hookErr != nil {
		e.logger.Warn("Event hook OnStepStatusUpdate failed", slog.String("step", string(step)), slog.String("error", hookErr.Error()))
	}
}

func (e *Engine) recordStep(step Step, status Status, msg string, d time.Duration) {
	e.report.Steps = append(e.report.Steps, StepInfo{Step: step, Status: status, Message: msg, DurationMs: d.Milliseconds()})
	e.notify(step, status, msg, d)
}

func (e *Engine) recordError(step Step, err error, fatal bool) {
	e.report.Errors = append(e.report.Errors, ErrorInfo{Step: step, Error: err.Error(), IsFatal: fatal})
	if fatal {
		e.report.Summary.ErrorCount++
	} else {
		e.report.Summary.WarningCount++
	}
}

// --- END OF FINAL REVISED FILE pkg/converter/engine.go ---
