package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/memoryhunter/hunter/internal/config"
	"github.com/memoryhunter/hunter/internal/folders"
	"github.com/memoryhunter/hunter/internal/i18n"
	"github.com/memoryhunter/hunter/internal/logging"
	"github.com/memoryhunter/hunter/internal/maintenance"
	"github.com/memoryhunter/hunter/internal/memhunter"
	"github.com/memoryhunter/hunter/internal/notify"
	"github.com/memoryhunter/hunter/internal/prefs"
	"github.com/memoryhunter/hunter/internal/search"
	"github.com/memoryhunter/hunter/internal/state"
	"github.com/memoryhunter/hunter/internal/tracker"
	"github.com/memoryhunter/hunter/internal/ui"
	"github.com/memoryhunter/hunter/internal/viewer"
)

// Options configure a hunter session. Non-empty APIBase, LogLevel and LogFile
// override the config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/hunter/prefs.toml
	APIBase    string
	LogLevel   string
	LogFile    string
	// Stderr mirrors log entries to stderr. Never set it for the TUI.
	Stderr bool
}

// Env is the loaded configuration and a client for its backend.
type Env struct {
	Config config.Config
	Client *memhunter.Client

	closeLog func() error
}

// Setup loads config, starts logging and builds the API client. Callers must
// Close the Env.
func Setup(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIBase); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(opts.LogFile); v != "" {
		cfg.LogFile = v
	}

	closeLog, err := logging.Setup(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, Stderr: opts.Stderr})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := memhunter.NewClient(cfg.APIBase,
		memhunter.WithTimeout(cfg.RequestTimeout),
		memhunter.WithPhotosRoot(cfg.PhotosRoot),
		memhunter.WithLogger(logrus.WithField("component", "client")),
	)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init memoryhunter client: %w", err)
	}
	return &Env{Config: cfg, Client: client, closeLog: closeLog}, nil
}

// Close flushes and closes the log file.
func (e *Env) Close() error {
	if e == nil || e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// Language picks the UI language: the saved preference, then the locale.
func Language(p prefs.Prefs, getenv func(string) string) i18n.Lang {
	if lang, ok := i18n.ParseLang(p.Lang); ok {
		return lang
	}
	return i18n.Detect(getenv)
}

// Run boots the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	opts.Stderr = false
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer env.Close()
	log := logrus.WithField("component", "app")
	cfg := env.Config

	prefsPath := opts.PrefsPath
	if strings.TrimSpace(prefsPath) == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		log.WithError(err).Warn("preferences unreadable, using defaults")
	}

	bundle := i18n.NewBundle(Language(userPrefs, os.Getenv))
	unsubscribe := bundle.Subscribe(func(lang i18n.Lang) {
		if err := prefs.Update(prefsPath, func(p *prefs.Prefs) { p.Lang = string(lang) }); err != nil {
			log.WithError(err).Warn("save language preference failed")
		}
	})
	defer unsubscribe()

	clk := clockwork.NewRealClock()
	notices := notify.NewCenter(clk)
	store := &state.Store{}
	client := env.Client

	poller := StartStatsPoller(ctx, clk, store, client, cfg.StatsPollInterval)
	defer poller.Cancel()
	refresh := StatsRefresher(store, client)

	tr := tracker.New(client, tracker.Options{
		Clock:      clk,
		Interval:   cfg.IndexPollInterval,
		Notifier:   notices,
		OnComplete: refresh,
	})
	defer tr.Close()

	folderCtl := folders.New(client, folders.Options{
		Clock:    clk,
		Interval: cfg.FolderPollInterval,
		Notifier: notices,
	})
	defer folderCtl.Close()

	log.WithFields(logrus.Fields{
		"api_base": cfg.APIBase,
		"lang":     bundle.Lang(),
	}).Info("hunter started")

	return ui.Run(ui.Options{
		Context: ctx,
		Store:   store,
		Bundle:  bundle,
		Notices: notices,
		Tracker: tr,
		Search: search.New(client, search.Options{
			Notifier:  notices,
			TopK:      cfg.Search.TopK,
			Threshold: cfg.Search.Threshold,
		}),
		Viewer:      viewer.New(client),
		Folders:     folderCtl,
		Browser:     folders.NewBrowser(folderCtl),
		Maintenance: maintenance.New(client, maintenance.Options{Notifier: notices, OnCleaned: refresh}),
		Refresh:     refresh,
		LogFile:     cfg.LogFile,
		ThemeName:   userPrefs.Theme,
		PrefsPath:   prefsPath,
	})
}
