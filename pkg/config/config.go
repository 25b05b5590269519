package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/alim08/econ_notes/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is shared by the server and the static exporter.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	MetricsPort int    `envconfig:"METRICS_PORT" default:"8082" validate:"min=1,max=65535,nefield=Port"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`

	// ContentDir overrides the embedded documents when set.
	ContentDir string `envconfig:"CONTENT_DIR"`
	OutputPath string `envconfig:"OUTPUT_PATH" default:"dist/index.html" validate:"required"`

	SampleCount int `envconfig:"SAMPLE_COUNT" default:"20" validate:"min=1,max=1000"`
	ChartWidth  int `envconfig:"CHART_WIDTH" default:"800" validate:"min=200,max=4000"`
	ChartHeight int `envconfig:"CHART_HEIGHT" default:"400" validate:"min=150,max=3000"`
}

// Load reads a .env file if present, then the environment, then the
// application flags in args (via a local FlagSet), and validates the result.
// Flags win over the environment. Any -test.* args are stripped first.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	// a fresh FlagSet so we don't collide with `go test` flags
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	fs.IntVar(&cfg.MetricsPort, "metrics-port", cfg.MetricsPort, "Metrics server port")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "directory of document YAML files (default: embedded)")
	fs.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "static export destination")

	if err := fs.Parse(stripTestFlags(args)); err != nil {
		return nil, err
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if errs := validation.ValidateStruct(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %w", errs)
	}
	return &cfg, nil
}

func stripTestFlags(args []string) []string {
	var out []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "-test.") {
			continue
		}
		out = append(out, arg)
	}
	return out
}
