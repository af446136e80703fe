package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Backend names accepted in the backend key.
const (
	BackendREST     = "rest"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config captures everything Navigator reads from config.toml.
type Config struct {
	Backend     string
	APIURL      string
	APIKey      string
	DatabaseURL string
	UserID      string // fixed user for the local backends
	LogDir      string
	LogLevel    string
	SessionPoll time.Duration
}

const (
	defaultConfigPath  = "~/.config/navigator/config.toml"
	defaultLogDir      = "~/.local/share/navigator/logs"
	defaultDatabaseURL = "~/.local/share/navigator/navigator.db"
	defaultAPIURL      = "http://127.0.0.1:54321"
	defaultLogLevel    = "info"
	defaultSessionPoll = 5 * time.Second
	defaultLocalUser   = "local"

	apiKeyEnv = "NAVIGATOR_API_KEY"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw struct {
		Backend     string `toml:"backend"`
		APIURL      string `toml:"api_url"`
		APIKey      string `toml:"api_key"`
		DatabaseURL string `toml:"database_url"`
		UserID      string `toml:"user_id"`
		LogDir      string `toml:"log_dir"`
		LogLevel    string `toml:"log_level"`
		SessionPoll string `toml:"session_poll"`
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := Config{
		Backend:     strings.ToLower(orDefault(raw.Backend, BackendREST)),
		APIURL:      orDefault(raw.APIURL, defaultAPIURL),
		APIKey:      strings.TrimSpace(raw.APIKey),
		DatabaseURL: orDefault(raw.DatabaseURL, defaultDatabaseURL),
		UserID:      strings.TrimSpace(raw.UserID),
		LogDir:      mustExpand(orDefault(raw.LogDir, defaultLogDir)),
		LogLevel:    strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel)),
		SessionPoll: defaultSessionPoll,
	}
	if key := strings.TrimSpace(os.Getenv(apiKeyEnv)); key != "" {
		cfg.APIKey = key
	}

	switch cfg.Backend {
	case BackendREST, BackendPostgres, BackendMemory:
	case BackendSQLite:
		cfg.DatabaseURL = mustExpand(cfg.DatabaseURL)
	default:
		return Config{}, fmt.Errorf("unknown backend %q (want rest, sqlite, postgres or memory)", raw.Backend)
	}
	if cfg.Backend == BackendPostgres && raw.DatabaseURL == "" {
		return Config{}, fmt.Errorf("backend postgres requires database_url")
	}
	if cfg.Backend != BackendREST && cfg.UserID == "" {
		cfg.UserID = defaultLocalUser
	}

	if poll := strings.TrimSpace(raw.SessionPoll); poll != "" {
		d, err := time.ParseDuration(poll)
		if err != nil {
			return Config{}, fmt.Errorf("parse session_poll: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("session_poll must be positive, got %s", d)
		}
		cfg.SessionPoll = d
	}

	return cfg, nil
}

// LogPath returns the path of Navigator's own log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/navigator.log")
	}
	return filepath.Join(c.LogDir, "navigator.log")
}

// Local reports whether the backend is on this machine (no remote identity).
func (c Config) Local() bool {
	return c.Backend != BackendREST
}

func orDefault(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
