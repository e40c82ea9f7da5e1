// Package cli defines hunter's cobra command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/memoryhunter/hunter/internal/app"
	"github.com/memoryhunter/hunter/internal/i18n"
	"github.com/memoryhunter/hunter/internal/notify"
	"github.com/memoryhunter/hunter/internal/prefs"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	prefsPath  string
	apiBase    string
	logLevel   string
	logFile    string
	envFile    string
	verbose    bool
}

func (g *globalOptions) appOptions() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		APIBase:    g.apiBase,
		LogLevel:   g.logLevel,
		LogFile:    g.logFile,
		Stderr:     g.verbose,
	}
}

// NewRootCmd builds the hunter command tree. Without a subcommand it runs the
// TUI.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "hunter",
		Short: "Terminal client for the MemoryHunter photo search service",
		Long: `hunter talks to a running MemoryHunter backend.

Run it without arguments for the interactive interface, or use the
subcommands for one-shot queries and scripting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFile(g.envFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), g.appOptions())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "config file (default ~/.config/hunter/config.toml)")
	flags.StringVar(&g.prefsPath, "prefs", "", "preferences file (default ~/.config/hunter/prefs.toml)")
	flags.StringVar(&g.apiBase, "api", "", "MemoryHunter base URL, overrides api_base")
	flags.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&g.logFile, "log-file", "", "log file, overrides log_file")
	flags.StringVar(&g.envFile, "env-file", ".env", "dotenv file with HUNTER_* variables, skipped when missing")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "mirror log entries to stderr (one-shot commands only)")

	root.AddCommand(
		newTUICmd(g),
		newStatsCmd(g),
		newIndexCmd(g),
		newSearchCmd(g),
		newFoldersCmd(g),
		newMaintenanceCmd(g),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newTUICmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), g.appOptions())
		},
	}
}

// loadEnvFile reads HUNTER_* variables without overriding the environment.
func loadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// session is what a one-shot command needs.
type session struct {
	*app.Env
	bundle  *i18n.Bundle
	notices notify.Notifier
	out     io.Writer
}

func (g *globalOptions) open(cmd *cobra.Command) (*session, error) {
	env, err := app.Setup(g.appOptions())
	if err != nil {
		return nil, err
	}
	p, err := prefs.Load(g.prefsPath)
	if err != nil {
		logrus.WithField("component", "cli").WithError(err).Warn("preferences unreadable, using defaults")
	}
	bundle := i18n.NewBundle(app.Language(p, os.Getenv))
	return &session{
		Env:     env,
		bundle:  bundle,
		notices: &printNotifier{bundle: bundle, w: cmd.ErrOrStderr()},
		out:     cmd.OutOrStdout(),
	}, nil
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// printNotifier writes non-error notices to w. Errors are returned to cobra
// instead.
type printNotifier struct {
	bundle *i18n.Bundle
	w      io.Writer
}

func (p *printNotifier) Notify(n notify.Notice) {
	if n.Level == notify.Error {
		return
	}
	fmt.Fprintf(p.w, "[%s] %s\n", n.Level, p.bundle.Notice(n))
}
