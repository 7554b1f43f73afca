package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where aicounsel stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// RebuildInterval is how often the index runner rebuilds the match
	// snapshot from the pattern store.
	RebuildInterval time.Duration

	// Fallback classifier configuration
	FallbackEnabled bool   // AICOUNSEL_FALLBACK_ENABLED
	FallbackAPIKey  string // AICOUNSEL_FALLBACK_API_KEY
	FallbackBaseURL string // AICOUNSEL_FALLBACK_BASE_URL (default: https://api.openai.com/v1)
	FallbackModel   string // AICOUNSEL_FALLBACK_MODEL (default: gpt-4o-mini)

	// CompanyName is used in suggested reply templates.
	CompanyName string // AICOUNSEL_COMPANY_NAME (default: 텔리젠)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsFallbackEnabled returns true if the fallback classifier is enabled and
// an API key is configured.
func (p *Profile) IsFallbackEnabled() bool {
	return p.FallbackEnabled && p.FallbackAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from AICOUNSEL_* environment variables.
// Values already set (e.g. by flags) are only overridden when the
// corresponding variable is present.
func (p *Profile) FromEnv() {
	if v := os.Getenv("AICOUNSEL_MODE"); v != "" {
		p.Mode = v
	}
	if v := os.Getenv("AICOUNSEL_ADDR"); v != "" {
		p.Addr = v
	}
	if v := os.Getenv("AICOUNSEL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			p.Port = port
		}
	}
	if v := os.Getenv("AICOUNSEL_DATA"); v != "" {
		p.Data = v
	}
	if v := os.Getenv("AICOUNSEL_DSN"); v != "" {
		p.DSN = v
	}
	if v := os.Getenv("AICOUNSEL_DRIVER"); v != "" {
		p.Driver = v
	}
	if v := os.Getenv("AICOUNSEL_REBUILD_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			p.RebuildInterval = d
		}
	}

	p.FallbackEnabled = os.Getenv("AICOUNSEL_FALLBACK_ENABLED") == "true"
	p.FallbackAPIKey = os.Getenv("AICOUNSEL_FALLBACK_API_KEY")
	p.FallbackBaseURL = getEnvOrDefault("AICOUNSEL_FALLBACK_BASE_URL", "https://api.openai.com/v1")
	p.FallbackModel = getEnvOrDefault("AICOUNSEL_FALLBACK_MODEL", "gpt-4o-mini")
	p.CompanyName = getEnvOrDefault("AICOUNSEL_COMPANY_NAME", "텔리젠")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver %q", p.Driver)
	}

	if p.RebuildInterval <= 0 {
		p.RebuildInterval = 5 * time.Minute
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "aicounsel")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/aicounsel"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("aicounsel_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for postgres driver")
	}

	return nil
}
