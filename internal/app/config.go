package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperifyio/fiksextract/internal/extract"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Defaults shared by flag parsing and file config overlay.
const (
	DefaultFormat  = FormatJSON
	DefaultWorkers = 4
)

// Config holds runtime configuration for the application.
type Config struct {
	// Inputs are document paths; "-" or no inputs reads stdin.
	Inputs []string
	// OutputPath receives the result of a single input; empty means stdout.
	OutputPath string
	// OutputDir receives one result file per input in batch mode.
	OutputDir string
	Format    string

	// Extraction
	Placeholder    string
	Seed           uint64
	FoldDiacritics bool

	// Behavior
	Manifest bool
	Workers  int
	Tags     bool
	Verbose  bool
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Format:      DefaultFormat,
		Placeholder: string(extract.PlaceholderRandom),
		Workers:     DefaultWorkers,
	}
}

// Batch reports whether cfg names more than one input.
func (c Config) Batch() bool { return len(c.Inputs) > 1 }

// ValidateConfig checks settings that would otherwise fail late.
func ValidateConfig(cfg Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("config: unknown format %q (want json or yaml)", cfg.Format)
	}
	if _, err := extract.ParsePlaceholderMode(cfg.Placeholder); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Workers < 1 {
		return errors.New("config: workers must be at least 1")
	}
	// -tags prints to stdout whatever the number of inputs.
	batchOutput := cfg.Batch() && !cfg.Tags
	if batchOutput && strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("config: several inputs need an output directory (-outdir or FIKS_OUTPUT_DIR)")
	}
	if batchOutput && strings.TrimSpace(cfg.OutputPath) != "" {
		return errors.New("config: -o takes a single input; use -outdir for several")
	}
	if cfg.Manifest && !cfg.Tags && strings.TrimSpace(cfg.OutputPath) == "" && strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("config: a manifest needs an output file or directory")
	}
	for _, in := range cfg.Inputs {
		if in == "-" && cfg.Batch() {
			return errors.New("config: stdin cannot be combined with other inputs")
		}
	}
	return nil
}
