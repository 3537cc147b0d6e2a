package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/akamensky/argparse"
	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config holds all application configuration values
type Config struct {
	Port      string `env:"PORT" default:"8000"`
	ServeDir  string `env:"SERVE_DIR"`
	// ScriptURL is the Apps Script deployment the website talks to.
	ScriptURL string `env:"SCRIPT_URL" default:"https://script.google.com/macros/s/AKfycbz7dBZqc2t36QwY8nRw2rPViKpiKWelilUPlre5TrsvhWenaBXW5UKndknbyMb7A5q3zQ/exec"`

	SourceTag               string `env:"SOURCE_TAG" default:"website"`
	DonorRegistrationAction string `env:"DONOR_REGISTRATION_ACTION" default:"submit_donor_registration"`
	DonorDetailsAction      string `env:"DONOR_DETAILS_ACTION" default:"form_responses_2"`

	// Zero disables the timeout, matching a plain blocking call.
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" default:"0s"`

	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`
	GinMode     string `env:"GIN_MODE" default:"debug"`
	MetricsAddr string `env:"METRICS_ADDR"`
}

// Load reads configuration from the environment (and an optional .env file),
// then applies command-line overrides from args.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.applyFlags(args); err != nil {
		return nil, err
	}

	if cfg.ServeDir == "" {
		dir, err := executableDir()
		if err != nil {
			return nil, err
		}
		cfg.ServeDir = dir
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyFlags(args []string) error {
	if len(args) == 0 {
		return nil
	}

	parser := argparse.NewParser("donor-relay", "Local development server for the Life Savers Donors website")
	port := parser.String("p", "port", &argparse.Options{Help: "Port to listen on", Default: c.Port})
	dir := parser.String("d", "dir", &argparse.Options{Help: "Directory to serve static files from", Default: c.ServeDir})
	scriptURL := parser.String("u", "script-url", &argparse.Options{Help: "Apps Script endpoint to relay API calls to", Default: c.ScriptURL})

	if err := parser.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	c.Port = *port
	c.ServeDir = *dir
	c.ScriptURL = *scriptURL
	return nil
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

func validate(cfg *Config) error {
	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		return fmt.Errorf("PORT must be a number between 0 and 65535, got %q", cfg.Port)
	}

	u, err := url.Parse(cfg.ScriptURL)
	if err != nil {
		return fmt.Errorf("SCRIPT_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return errors.New("SCRIPT_URL must be an absolute http(s) URL")
	}

	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", cfg.GinMode)
	}

	if cfg.UpstreamTimeout < 0 {
		return errors.New("UPSTREAM_TIMEOUT must not be negative")
	}

	return nil
}
