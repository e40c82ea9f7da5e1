package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(envAPIBase, "")

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != defaultAPIBase {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, defaultAPIBase)
	}
	if cfg.StatsPollInterval != 5*time.Second || cfg.IndexPollInterval != time.Second || cfg.FolderPollInterval != 3*time.Second {
		t.Fatalf("poll intervals = %v/%v/%v, want 5s/1s/3s", cfg.StatsPollInterval, cfg.IndexPollInterval, cfg.FolderPollInterval)
	}
	if cfg.Search.TopK != 20 || cfg.Search.Threshold != 0 {
		t.Fatalf("Search = %#v, want top_k 20 threshold 0", cfg.Search)
	}

	wantLog, err := ExpandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("ExpandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(envAPIBase, "")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "  http://10.0.0.5:9000  "
photos_root = "/srv/photos"
request_timeout_seconds = 4
stats_poll_seconds = 7
index_poll_ms = 250
folder_poll_seconds = 2
log_file = "  ~/logs/hunter.log  "
log_level = "DEBUG"

[search]
default_top_k = 40
default_threshold = 0.25
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://10.0.0.5:9000" {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, "http://10.0.0.5:9000")
	}
	if cfg.PhotosRoot != "/srv/photos" {
		t.Fatalf("PhotosRoot = %q, want /srv/photos", cfg.PhotosRoot)
	}
	if cfg.RequestTimeout != 4*time.Second || cfg.StatsPollInterval != 7*time.Second ||
		cfg.IndexPollInterval != 250*time.Millisecond || cfg.FolderPollInterval != 2*time.Second {
		t.Fatalf("durations = %v %v %v %v", cfg.RequestTimeout, cfg.StatsPollInterval, cfg.IndexPollInterval, cfg.FolderPollInterval)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Search.TopK != 40 || cfg.Search.Threshold != 0.25 {
		t.Fatalf("Search = %#v, want 40/0.25", cfg.Search)
	}
}

func TestLoad_ClampsSearchDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
[search]
default_top_k = 500
default_threshold = 1.5
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Search.TopK != 100 || cfg.Search.Threshold != 1 {
		t.Fatalf("Search = %#v, want clamped 100/1", cfg.Search)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(envAPIBase, "http://photos.lan:8000")
	t.Setenv(envPhotosRoot, "/mnt/photos")
	t.Setenv(envLogLevel, "WARN")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_base = "http://ignored:1"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://photos.lan:8000" || cfg.PhotosRoot != "/mnt/photos" || cfg.LogLevel != "warn" {
		t.Fatalf("env overrides not applied: %#v", cfg)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_base = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath returned nil error, want error")
	}
}
