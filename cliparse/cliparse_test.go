// cliparse/cliparse_test.go
package cliparse

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/proposal-desk/casing"
)

// noEnvFile keeps a stray .env from leaking into the tests
var noEnvFile = []string{"-env-file", ""}

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("API_BASE_URL", "http://backend/api")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("WIRE_CASE", "kebab")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SUBMIT_RPS", "2.5")
	t.Setenv("SUBMIT_BURST", "4")

	cfg, err := ParseFlags(noEnvFile)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.APIBaseURL != "http://backend/api" {
		t.Errorf("expected API URL from env, got %s", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.WireCase != casing.Kebab {
		t.Errorf("expected kebab, got %s", cfg.WireCase)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug, got %s", cfg.LogLevel)
	}
	if cfg.SubmitRPS != 2.5 || cfg.SubmitBurst != 4 {
		t.Errorf("expected 2.5/4, got %v/%d", cfg.SubmitRPS, cfg.SubmitBurst)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("API_BASE_URL", "http://env/api")
	t.Setenv("WIRE_CASE", "kebab")

	cfg, err := ParseFlags(append(noEnvFile, "-p", "8080", "-api", "http://cli/api", "-wire-case", "pascal", "-submit-rps", "1"))
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.APIBaseURL != "http://cli/api" {
		t.Errorf("CLI should override env: got %s", cfg.APIBaseURL)
	}
	if cfg.WireCase != casing.Pascal {
		t.Errorf("CLI should override env: got %s", cfg.WireCase)
	}
	if cfg.SubmitBurst != 1 {
		t.Errorf("expected burst to default to 1 when a rate is set, got %d", cfg.SubmitBurst)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend/api")

	cfg, err := ParseFlags(noEnvFile)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.RequestTimeout != DefaultTimeout {
		t.Errorf("expected %s, got %s", DefaultTimeout, cfg.RequestTimeout)
	}
	if cfg.WireCase != casing.Snake {
		t.Errorf("expected snake, got %s", cfg.WireCase)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info, got %s", cfg.LogLevel)
	}
	if cfg.SubmitRPS != 0 || cfg.SubmitBurst != 0 {
		t.Errorf("expected rate limiting off, got %v/%d", cfg.SubmitRPS, cfg.SubmitBurst)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing api url", nil, nil},
		{"bad port", map[string]string{"PORT": "eighty"}, nil},
		{"bad timeout", nil, []string{"-timeout", "soon"}},
		{"zero timeout", nil, []string{"-timeout", "0s"}},
		{"unknown wire case", nil, []string{"-wire-case", "screaming"}},
		{"bad log level", nil, []string{"-log-level", "chatty"}},
		{"negative rate", nil, []string{"-submit-rps", "-1"}},
		{"negative burst", nil, []string{"-submit-burst", "-2"}},
		{"unknown flag", nil, []string{"-d", "postgres://"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("API_BASE_URL", "")
			if tc.name != "missing api url" {
				t.Setenv("API_BASE_URL", "http://backend/api")
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			if _, err := ParseFlags(append(noEnvFile, tc.args...)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("API_BASE_URL=http://file/api\nPORT=7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Registered so t.Setenv restores the original state afterwards
	t.Setenv("API_BASE_URL", "")
	t.Setenv("PORT", "")
	os.Unsetenv("API_BASE_URL")
	os.Unsetenv("PORT")

	cfg, err := ParseFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL != "http://file/api" || cfg.Port != 7000 {
		t.Errorf("expected values from env file, got %+v", cfg)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing env file should not be an error, got %v", err)
	}
}
