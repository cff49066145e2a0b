package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/proposal-desk/casing"
)

const (
	DefaultPort    = 4300
	DefaultTimeout = 10 * time.Second
	DefaultEnvFile = ".env"
)

type Config struct {
	Port           int
	APIBaseURL     string
	RequestTimeout time.Duration
	WireCase       casing.Convention
	LogLevel       slog.Level
	SubmitRPS      float64
	SubmitBurst    int
}

// LoadEnvFile loads KEY=VALUE pairs from path without overriding variables
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var (
		timeout  string
		wireCase string
		logLevel string
		rps      string
		burst    int
		envFile  string
	)

	fs := flag.NewFlagSet("proposal-desk", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.APIBaseURL, "api", "", "Backend API base URL")
	fs.StringVar(&timeout, "timeout", "", "Backend request timeout (e.g. 10s)")
	fs.StringVar(&wireCase, "wire-case", "", "Backend key convention (snake, kebab, pascal)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&rps, "submit-rps", "", "Per-client submit rate, 0 disables")
	fs.IntVar(&burst, "submit-burst", 0, "Per-client submit burst")
	fs.StringVar(&envFile, "env-file", DefaultEnvFile, "Environment file to load")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := LoadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = os.Getenv("API_BASE_URL")
	}
	if cfg.APIBaseURL == "" {
		return Config{}, errors.New("API base URL required (use -api or API_BASE_URL env)")
	}

	timeout = firstNonEmpty(timeout, os.Getenv("REQUEST_TIMEOUT"))
	cfg.RequestTimeout = DefaultTimeout
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid request timeout %q", timeout)
		}
		cfg.RequestTimeout = d
	}

	codec, err := casing.Lookup(firstNonEmpty(wireCase, os.Getenv("WIRE_CASE"), string(casing.Snake)))
	if err != nil {
		return Config{}, err
	}
	cfg.WireCase = codec.Convention()

	level, err := ParseLevel(firstNonEmpty(logLevel, os.Getenv("LOG_LEVEL")))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	if rps = firstNonEmpty(rps, os.Getenv("SUBMIT_RPS")); rps != "" {
		cfg.SubmitRPS, err = strconv.ParseFloat(rps, 64)
		if err != nil || cfg.SubmitRPS < 0 {
			return Config{}, fmt.Errorf("invalid submit rate %q", rps)
		}
	}

	cfg.SubmitBurst = burst
	if cfg.SubmitBurst == 0 {
		if burstStr := os.Getenv("SUBMIT_BURST"); burstStr != "" {
			cfg.SubmitBurst, err = strconv.Atoi(burstStr)
			if err != nil {
				return Config{}, errors.New("invalid SUBMIT_BURST env variable")
			}
		}
	}
	if cfg.SubmitBurst < 0 {
		return Config{}, errors.New("submit burst must not be negative")
	}
	if cfg.SubmitRPS > 0 && cfg.SubmitBurst == 0 {
		cfg.SubmitBurst = 1
	}

	return cfg, nil
}

// ParseLevel maps a level name onto slog. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
