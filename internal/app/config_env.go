package app

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvOutput      = "FIKS_OUTPUT"
	EnvOutputDir   = "FIKS_OUTPUT_DIR"
	EnvFormat      = "FIKS_FORMAT"
	EnvManifest    = "FIKS_MANIFEST"
	EnvPlaceholder = "FIKS_PLACEHOLDER"
	EnvSeed        = "FIKS_SEED"
	EnvFold        = "FIKS_FOLD_DIACRITICS"
	EnvWorkers     = "FIKS_WORKERS"
	EnvVerbose     = "FIKS_VERBOSE"
)

// ApplyEnvOverrides forcefully overrides cfg fields with environment
// variables that are set. It runs after the config file so env wins over
// the file; explicit flags are applied last.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&cfg.OutputPath, EnvOutput)
	setString(&cfg.OutputDir, EnvOutputDir)
	setString(&cfg.Format, EnvFormat)
	setString(&cfg.Placeholder, EnvPlaceholder)

	if n, ok := envUint(EnvSeed); ok {
		cfg.Seed = n
	}
	if n, ok := envInt(EnvWorkers); ok && n > 0 {
		cfg.Workers = n
	}

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, key string) {
		if v, ok := envBool(key); ok {
			*dst = v
		}
	}
	setBool(&cfg.Manifest, EnvManifest)
	setBool(&cfg.FoldDiacritics, EnvFold)
	setBool(&cfg.Verbose, EnvVerbose)
}

func envBool(key string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

func envInt(key string) (int, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func envUint(key string) (uint64, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	return n, err == nil
}
