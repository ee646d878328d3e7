package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags and env.
type FileConfig struct {
	Output    string `yaml:"output" json:"output"`
	OutputDir string `yaml:"outputDir" json:"outputDir"`
	Format    string `yaml:"format" json:"format"`
	Manifest  bool   `yaml:"manifest" json:"manifest"`

	Placeholder struct {
		Mode string `yaml:"mode" json:"mode"`
		Seed uint64 `yaml:"seed" json:"seed"`
	} `yaml:"placeholder" json:"placeholder"`

	Sanitize struct {
		FoldDiacritics bool `yaml:"foldDiacritics" json:"foldDiacritics"`
	} `yaml:"sanitize" json:"sanitize"`

	Workers int  `yaml:"workers" json:"workers"`
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc onto cfg for fields that are unset
// or still at their default. Env and explicit flags are applied afterwards
// and win over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.OutputDir == "" && fc.OutputDir != "" {
		cfg.OutputDir = fc.OutputDir
	}
	if (cfg.Format == "" || cfg.Format == DefaultFormat) && fc.Format != "" {
		cfg.Format = fc.Format
	}
	if !cfg.Manifest && fc.Manifest {
		cfg.Manifest = true
	}
	if (cfg.Placeholder == "" || cfg.Placeholder == Defaults().Placeholder) && fc.Placeholder.Mode != "" {
		cfg.Placeholder = fc.Placeholder.Mode
	}
	if cfg.Seed == 0 && fc.Placeholder.Seed != 0 {
		cfg.Seed = fc.Placeholder.Seed
	}
	if !cfg.FoldDiacritics && fc.Sanitize.FoldDiacritics {
		cfg.FoldDiacritics = true
	}
	if (cfg.Workers == 0 || cfg.Workers == DefaultWorkers) && fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
