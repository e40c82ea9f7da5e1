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

// Config holds hunter's runtime settings.
type Config struct {
	APIBase        string
	PhotosRoot     string
	RequestTimeout time.Duration

	StatsPollInterval  time.Duration
	IndexPollInterval  time.Duration
	FolderPollInterval time.Duration

	LogFile  string
	LogLevel string

	Search SearchDefaults
}

// SearchDefaults seeds the search controls.
type SearchDefaults struct {
	TopK      int
	Threshold float64
}

const (
	defaultConfigPath = "~/.config/hunter/config.toml"
	defaultLogFile    = "~/.local/state/hunter/hunter.log"
	defaultAPIBase    = "http://127.0.0.1:8000"
	defaultPhotosRoot = "/app/photos"
	defaultLogLevel   = "info"
	defaultTopK       = 20
	defaultTimeout    = 10 * time.Second
	defaultStatsPoll  = 5 * time.Second
	defaultIndexPoll  = time.Second
	defaultFolderPoll = 3 * time.Second
	maxTopK           = 100
	envAPIBase        = "HUNTER_API_BASE"
	envPhotosRoot     = "HUNTER_PHOTOS_ROOT"
	envLogLevel       = "HUNTER_LOG_LEVEL"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBase:            defaultAPIBase,
		PhotosRoot:         defaultPhotosRoot,
		RequestTimeout:     defaultTimeout,
		StatsPollInterval:  defaultStatsPoll,
		IndexPollInterval:  defaultIndexPoll,
		FolderPollInterval: defaultFolderPoll,
		LogFile:            mustExpand(defaultLogFile),
		LogLevel:           defaultLogLevel,
		Search:             SearchDefaults{TopK: defaultTopK},
	}
}

type rawConfig struct {
	APIBase               string `toml:"api_base"`
	PhotosRoot            string `toml:"photos_root"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	StatsPollSeconds      int    `toml:"stats_poll_seconds"`
	IndexPollMS           int    `toml:"index_poll_ms"`
	FolderPollSeconds     int    `toml:"folder_poll_seconds"`
	LogFile               string `toml:"log_file"`
	LogLevel              string `toml:"log_level"`
	Search                struct {
		DefaultTopK      int      `toml:"default_top_k"`
		DefaultThreshold *float64 `toml:"default_threshold"`
	} `toml:"search"`
}

// Load reads the config at path, falling back to defaults when it is missing.
// HUNTER_* environment variables override file values.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(raw.PhotosRoot); v != "" {
		cfg.PhotosRoot = v
	}
	if raw.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
	}
	if raw.StatsPollSeconds > 0 {
		cfg.StatsPollInterval = time.Duration(raw.StatsPollSeconds) * time.Second
	}
	if raw.IndexPollMS > 0 {
		cfg.IndexPollInterval = time.Duration(raw.IndexPollMS) * time.Millisecond
	}
	if raw.FolderPollSeconds > 0 {
		cfg.FolderPollInterval = time.Duration(raw.FolderPollSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if raw.Search.DefaultTopK > 0 {
		cfg.Search.TopK = raw.Search.DefaultTopK
	}
	if raw.Search.DefaultThreshold != nil {
		cfg.Search.Threshold = *raw.Search.DefaultThreshold
	}

	applyEnv(&cfg)
	cfg.Search = cfg.Search.clamped()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(envAPIBase)); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(os.Getenv(envPhotosRoot)); v != "" {
		cfg.PhotosRoot = v
	}
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
}

func (s SearchDefaults) clamped() SearchDefaults {
	if s.TopK < 1 {
		s.TopK = 1
	}
	if s.TopK > maxTopK {
		s.TopK = maxTopK
	}
	if s.Threshold < 0 {
		s.Threshold = 0
	}
	if s.Threshold > 1 {
		s.Threshold = 1
	}
	return s
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
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
