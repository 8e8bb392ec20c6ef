// --- START OF FINAL REVISED FILE pkg/converter/processor.go ---
package converter

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/stackvity/keymap-converter/pkg/converter/encoding"
	"github.com/stackvity/keymap-converter/pkg/converter/language"
	"github.com/stackvity/keymap-converter/pkg/converter/macro"
	"github.com/stackvity/keymap-converter/pkg/converter/rewrite"
	"github.com/stackvity/keymap-converter/pkg/converter/section"
)

// SourceFile is a source file decoded to UTF-8.
type SourceFile struct {
	Path     string
	Text     []byte
	Encoding string
	Check    language.Check
}

// Transformation is the outcome of transforming one keymap.c.
type Transformation struct {
	Regions         *section.Regions
	Classifications macro.Classifications
	Output          *rewrite.Result
}

// --- Processor ---

// Processor reads source files and runs the keymap pipeline: split, extract,
// classify, rewrite. Each stage runs to completion before the next begins and
// any error aborts the transformation.
type Processor struct {
	logger          *slog.Logger
	encodingHandler encoding.EncodingHandler
	langDetector    language.LanguageDetector
	splitter        *section.Splitter
	extractor       *macro.Extractor
	classifier      *macro.Classifier
	rewriter        *rewrite.Rewriter
}

// NewProcessor creates a new Processor. A nil encoding handler or language
// detector disables decoding (input must be UTF-8) or the plausibility check.
func NewProcessor(
	loggerHandler slog.Handler,
	encHandler encoding.EncodingHandler,
	langDet language.LanguageDetector,
	strict bool,
) *Processor {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &Processor{
		logger:          slog.New(loggerHandler).With(slog.String("component", "processor")),
		encodingHandler: encHandler,
		langDetector:    langDet,
		splitter:        section.NewSplitter(loggerHandler),
		extractor:       macro.NewExtractor(loggerHandler, strict),
		classifier:      macro.NewClassifier(loggerHandler, strict),
		rewriter:        rewrite.NewRewriter(loggerHandler),
	}
}

// ReadSource reads path and decodes it to UTF-8. When a language detector is
// configured, a file whose content contradicts its name is logged but still
// returned.
func (p *Processor) ReadSource(path string) (SourceFile, error) {
	logArgs := []any{slog.String("path", path)}
	f, err := os.Open(path)
	if err != nil {
		return SourceFile{}, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	defer f.Close()

	src := SourceFile{Path: path, Encoding: "utf-8"}
	if p.encodingHandler != nil {
		src.Text, src.Encoding, err = encoding.ReadText(p.encodingHandler, f)
	} else {
		src.Text, err = io.ReadAll(f)
	}
	if err != nil {
		return SourceFile{}, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}
	logArgs = append(logArgs, slog.String("encoding", src.Encoding))

	if p.langDetector != nil {
		check, detErr := language.CheckFile(p.langDetector, path, src.Text)
		if detErr != nil {
			p.logger.Debug("Language detection failed", append(logArgs, slog.String("error", detErr.Error()))...)
		} else {
			src.Check = check
			if !check.Plausible {
				p.logger.Warn("Source content does not look like its file type",
					append(logArgs, slog.String("role", check.Role.String()), slog.String("language", check.Language))...)
			}
		}
	}
	p.logger.Debug("Read source file", logArgs...)
	return src, nil
}

// Transform runs the keymap pipeline over input.
func (p *Processor) Transform(input io.Reader) (*Transformation, error) {
	regions, err := p.splitter.Split(input)
	if err != nil {
		return nil, err
	}
	slots, err := p.extractor.Extract(regions.MacroDefsText(), regions.MacroDefsLine)
	if err != nil {
		return nil, err
	}
	cls, err := p.classifier.Classify(slots)
	if err != nil {
		return nil, err
	}
	out, err := p.rewriter.Rewrite(regions, cls)
	if err != nil {
		return nil, err
	}
	return &Transformation{Regions: regions, Classifications: cls, Output: out}, nil
}

// ConfigHeader copies every line of config.h and appends ConfigInclude.
func ConfigHeader(config []byte) string {
	var b strings.Builder
	text := string(bytes.TrimSuffix(config, []byte("\n")))
	if text != "" {
		for _, line := range strings.Split(text, "\n") {
			b.WriteString(strings.TrimSuffix(line, "\r"))
			b.WriteByte('\n')
		}
	}
	b.WriteString(ConfigInclude)
	b.WriteByte('\n')
	return b.String()
}

// --- END OF FINAL REVISED FILE pkg/converter/processor.go ---
