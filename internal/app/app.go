package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/fiksextract/internal/engine"
	"github.com/hyperifyio/fiksextract/internal/extract"
	"github.com/hyperifyio/fiksextract/internal/input"
	"github.com/hyperifyio/fiksextract/internal/registry"
	"github.com/hyperifyio/fiksextract/internal/sanitize"
	"github.com/hyperifyio/fiksextract/internal/xmltree"
)

// ErrExtractionFailed is returned from a batch run when at least one document
// could not be extracted. The other documents are still written.
var ErrExtractionFailed = errors.New("extraction failed")

// IsExtractionError reports whether err stems from a document that could not
// be extracted, as opposed to a usage or I/O problem.
func IsExtractionError(err error) bool {
	return errors.Is(err, ErrExtractionFailed) ||
		errors.Is(err, sanitize.ErrNoXMLContent) ||
		errors.Is(err, registry.ErrUnknownFormat) ||
		errors.Is(err, extract.ErrNoMatchingElements) ||
		errors.Is(err, xmltree.ErrParseRecoveryFailed)
}

type App struct {
	cfg         Config
	placeholder extract.PlaceholderMode
	eng         *engine.Engine
	stdin       io.Reader
	stdout      io.Writer
	now         func() time.Time
}

// document is one input as read from disk or stdin.
type document struct {
	name     string
	raw      []byte
	text     string
	encoding string
}

// New validates cfg and builds the extraction engine. Zero Format and
// Workers take their defaults.
func New(cfg Config) (*App, error) {
	def := Defaults()
	if cfg.Format == "" {
		cfg.Format = def.Format
	}
	if cfg.Workers == 0 {
		cfg.Workers = def.Workers
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	mode, _ := extract.ParsePlaceholderMode(cfg.Placeholder)
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	reg := registry.Default(registry.Options{Placeholder: mode, Seed: cfg.Seed})
	log.Debug().Strs("formats", reg.Names()).Str("placeholder", string(mode)).Msg("registry ready")
	return &App{
		cfg:         cfg,
		placeholder: mode,
		eng:         engine.New(reg, sanitize.Options{FoldDiacritics: cfg.FoldDiacritics}),
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		now:         time.Now,
	}, nil
}

// SetIO replaces stdin and stdout.
func (a *App) SetIO(in io.Reader, out io.Writer) {
	a.stdin = in
	a.stdout = out
}

func (a *App) Run(ctx context.Context) error {
	inputs := a.cfg.Inputs
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	if a.cfg.Tags {
		return a.runTags(inputs)
	}
	if len(inputs) == 1 {
		return a.process(inputs[0], strings.TrimSpace(a.cfg.OutputPath))
	}
	return a.runBatch(ctx, inputs)
}

func (a *App) runBatch(ctx context.Context, inputs []string) error {
	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	outputs := planOutputPaths(a.cfg.OutputDir, inputs, a.cfg.Format)

	var failed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := a.process(in, outputs[i])
			if err != nil && IsExtractionError(err) {
				log.Warn().Err(err).Str("input", in).Msg("document skipped")
				failed.Add(1)
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%w: %d of %d documents", ErrExtractionFailed, n, len(inputs))
	}
	return nil
}

// process extracts one input and writes it to outputPath, or stdout when
// outputPath is empty.
func (a *App) process(path, outputPath string) error {
	d, err := a.load(path)
	if err != nil {
		return err
	}
	out, err := a.eng.Extract(d.text)
	if err != nil {
		return fmt.Errorf("%s: %w", d.name, err)
	}

	var buf bytes.Buffer
	if err := encodeResult(&buf, out.Result, a.cfg.Format); err != nil {
		return fmt.Errorf("%s: encode: %w", d.name, err)
	}
	if outputPath == "" {
		_, err = a.stdout.Write(buf.Bytes())
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().
		Str("input", d.name).
		Str("format", out.Format).
		Int("records", out.Result.Count()).
		Str("output", outputPath).
		Msg("extracted")

	if a.cfg.Manifest {
		m := buildManifest(d, out, outputPath, string(a.placeholder), a.now())
		if err := writeManifest(m); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
	}
	return nil
}

func (a *App) runTags(inputs []string) error {
	for i, in := range inputs {
		d, err := a.load(in)
		if err != nil {
			return err
		}
		tags, err := a.eng.Tags(d.text)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		var b strings.Builder
		if len(inputs) > 1 {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("== " + d.name + "\n")
		}
		for _, t := range tags {
			b.WriteString(t)
			b.WriteByte('\n')
		}
		if _, err := io.WriteString(a.stdout, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) load(path string) (document, error) {
	var (
		raw  []byte
		err  error
		name = path
	)
	if path == "-" {
		name = "stdin"
		raw, err = io.ReadAll(a.stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return document{}, fmt.Errorf("read %s: %w", name, err)
	}
	text, enc, err := input.Decode(raw)
	if err != nil {
		return document{}, fmt.Errorf("%s: %w", name, err)
	}
	log.Debug().Str("input", name).Str("encoding", enc).Int("bytes", len(raw)).Msg("input loaded")
	return document{name: name, raw: raw, text: text, encoding: enc}, nil
}

// encodeResult writes the result payload as indented JSON or YAML.
func encodeResult(w io.Writer, res extract.Result, format string) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res.Payload()); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(res.Payload())
	}
}
