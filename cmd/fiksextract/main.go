package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/fiksextract/internal/app"
)

// Exit codes.
const (
	exitOK         = 0
	exitUsage      = 1
	exitExtraction = 2
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	os.Exit(realMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func realMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, showVersion, err := loadConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return exitUsage
	}
	if showVersion {
		fmt.Fprintln(stdout, app.VersionString())
		return exitOK
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(context.Background(), cfg, stdin, stdout); err != nil {
		log.Error().Err(err).Msg("run failed")
		if app.IsExtractionError(err) {
			return exitExtraction
		}
		return exitUsage
	}
	return exitOK
}

// loadConfig resolves configuration from, lowest to highest precedence:
// defaults, the config file, dotenv files and the environment, and flags
// given on the command line.
func loadConfig(args []string, stderr io.Writer) (app.Config, bool, error) {
	def := app.Defaults()
	fs := flag.NewFlagSet("fiksextract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: fiksextract [flags] [file ...]\n\n"+
			"Extracts orders, invoices and delivery notes from EDI XML. With no file,\n"+
			"or with \"-\", the document is read from stdin.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	var (
		configPath  string
		envFiles    string
		outputPath  string
		outputDir   string
		format      string
		manifest    bool
		placeholder string
		seed        uint64
		fold        bool
		workers     int
		tags        bool
		verbose     bool
		version     bool
	)
	fs.StringVar(&configPath, "config", os.Getenv("FIKS_CONFIG"), "Path to a YAML or JSON config file")
	fs.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load (missing files are ignored)")
	fs.StringVar(&outputPath, "o", "", "Write the result of a single input to this file instead of stdout")
	fs.StringVar(&outputDir, "outdir", "", "Directory for results when several inputs are given")
	fs.StringVar(&format, "format", def.Format, "Output format: json or yaml")
	fs.BoolVar(&manifest, "manifest", false, "Write a <output>.manifest.json sidecar per result")
	fs.StringVar(&placeholder, "placeholder", def.Placeholder, "Naming of packages without identifier: random or sequence")
	fs.Uint64Var(&seed, "seed", 0, "Seed for random placeholders (0 = not reproducible)")
	fs.BoolVar(&fold, "fold", false, "Fold accented letters to ASCII instead of dropping them")
	fs.IntVar(&workers, "workers", def.Workers, "Documents extracted in parallel in batch mode")
	fs.BoolVar(&tags, "tags", false, "List the distinct element names of each input instead of extracting")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")
	fs.BoolVar(&version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, false, err
	}
	if version {
		return app.Config{}, true, nil
	}

	if err := app.LoadEnvFiles(splitList(envFiles)...); err != nil {
		return app.Config{}, false, fmt.Errorf("load env files: %w", err)
	}

	cfg := def
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, false, fmt.Errorf("load config %s: %w", configPath, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	// Explicit flags win.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.OutputPath = outputPath
		case "outdir":
			cfg.OutputDir = outputDir
		case "format":
			cfg.Format = format
		case "manifest":
			cfg.Manifest = manifest
		case "placeholder":
			cfg.Placeholder = placeholder
		case "seed":
			cfg.Seed = seed
		case "fold":
			cfg.FoldDiacritics = fold
		case "workers":
			cfg.Workers = workers
		case "v":
			cfg.Verbose = verbose
		}
	})
	cfg.Tags = tags
	cfg.Inputs = fs.Args()

	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, false, err
	}
	return cfg, false, nil
}

func run(ctx context.Context, cfg app.Config, stdin io.Reader, stdout io.Writer) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	a.SetIO(stdin, stdout)
	return a.Run(ctx)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
