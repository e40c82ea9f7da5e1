package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/memoryhunter/hunter/internal/folders"
	"github.com/memoryhunter/hunter/internal/i18n"
	"github.com/memoryhunter/hunter/internal/maintenance"
	"github.com/memoryhunter/hunter/internal/notify"
	"github.com/memoryhunter/hunter/internal/prefs"
	"github.com/memoryhunter/hunter/internal/search"
	"github.com/memoryhunter/hunter/internal/state"
	"github.com/memoryhunter/hunter/internal/tracker"
	"github.com/memoryhunter/hunter/internal/viewer"
)

// Tab is the active main panel.
type Tab int

const (
	TabSearch Tab = iota
	TabFolders
	TabMaintenance
	TabLogs
)

var tabTitles = []string{"tab.search", "tab.folders", "tab.maintenance", "tab.logs"}

// Options wires the UI to the controllers. Every controller is required.
type Options struct {
	Context     context.Context
	Store       *state.Store
	Bundle      *i18n.Bundle
	Notices     *notify.Center
	Tracker     *tracker.Tracker
	Search      *search.Controller
	Viewer      *viewer.Viewer
	Folders     *folders.Controller
	Browser     *folders.Browser
	Maintenance *maintenance.Controller

	// Refresh fetches stats outside the poller's schedule.
	Refresh func(ctx context.Context)

	LogFile   string
	Tick      time.Duration
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	bundle    *i18n.Bundle
	notices   *notify.Center
	tracker   *tracker.Tracker
	searcher  *search.Controller
	viewer    *viewer.Viewer
	folderCtl *folders.Controller
	browser   *folders.Browser
	maint     *maintenance.Controller
	refresh   func(ctx context.Context)
	prefsPath string
	tick      time.Duration
	log       logrus.FieldLogger

	keys     keyMap
	theme    Theme
	tab      Tab
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal
	spinner  spinner.Model

	// Snapshots refreshed on every tick.
	snapshot state.Snapshot
	index    tracker.View
	active   []notify.Notice

	search  searchPane
	folders folderPane
	mview   maintenance.View
	logs    logPane
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		bundle:    opts.Bundle,
		notices:   opts.Notices,
		tracker:   opts.Tracker,
		searcher:  opts.Search,
		viewer:    opts.Viewer,
		folderCtl: opts.Folders,
		browser:   opts.Browser,
		maint:     opts.Maintenance,
		refresh:   opts.Refresh,
		prefsPath: opts.PrefsPath,
		tick:      tick,
		log:       logrus.WithField("component", "ui"),
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.ThemeName),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		search:    newSearchPane(opts.Bundle),
		logs:      newLogPane(opts.LogFile),
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.tick),
		m.spinner.Tick,
		m.run(func(ctx context.Context) error {
			_, err := m.folderCtl.Load(ctx)
			return err
		}),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeLogs()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case actionDoneMsg:
		m.sync()
		return m, nil

	case logLinesMsg:
		m.applyLogs(msg)
		return m, nil
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var done bool
		m.modal, cmd, done = m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		}
		m.sync()
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return m.bundle.T("loading")
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.frame())
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderNotices())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	return b.String()
}

// contentHeight is what is left after header, tabs, notices and command bar.
func (m Model) contentHeight() int {
	return max(m.height-4, 3)
}

func (m Model) frame() frame {
	return frame{theme: m.theme, bundle: m.bundle, width: m.width, height: m.height}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		var cmd tea.Cmd
		var done bool
		m.modal, cmd, done = m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		}
		m.sync()
		return m, cmd
	}
	if m.tab == TabSearch && m.search.input.Focused() {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.ToggleLang):
		m.bundle.Toggle()
		m.notices.Notify(notify.Message(notify.Info, "lang.changed"))
		m.sync()
		return m, nil
	case key.Matches(msg, m.keys.StartIndex):
		return m, m.startIndex()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshStats()
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.tab + 1) % Tab(len(tabTitles)))
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab((m.tab + Tab(len(tabTitles)) - 1) % Tab(len(tabTitles)))
	case key.Matches(msg, m.keys.TabSearch):
		return m.switchTab(TabSearch)
	case key.Matches(msg, m.keys.TabFolders):
		return m.switchTab(TabFolders)
	case key.Matches(msg, m.keys.TabMaint):
		return m.switchTab(TabMaintenance)
	case key.Matches(msg, m.keys.TabLogs):
		return m.switchTab(TabLogs)
	}

	switch m.tab {
	case TabSearch:
		return m.handleSearchKey(msg)
	case TabFolders:
		return m.handleFoldersKey(msg)
	case TabMaintenance:
		return m.handleMaintenanceKey(msg)
	case TabLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

func (m Model) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	m.tab = tab
	if tab == TabLogs {
		return m, m.readLogs()
	}
	return m, nil
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.prefsPath == "" {
		return
	}
	name := m.theme.Name
	if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name }); err != nil {
		m.log.WithError(err).Warn("save theme preference failed")
	}
}

// startIndex is a no-op while the control is disabled.
func (m Model) startIndex() tea.Cmd {
	if !m.tracker.View().ControlEnabled {
		return nil
	}
	return m.run(m.tracker.Start)
}

func (m Model) refreshStats() tea.Cmd {
	if m.refresh == nil {
		return nil
	}
	return m.run(func(ctx context.Context) error {
		m.refresh(ctx)
		return nil
	})
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.sync()
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.tab == TabLogs && m.logs.follow {
		cmds = append(cmds, m.readLogs())
	}
	return m, tea.Batch(cmds...)
}

// sync copies every controller's view into the model.
func (m *Model) sync() {
	m.snapshot = m.store.Snapshot()
	m.index = m.tracker.View()
	m.active = m.notices.Active()
	m.search.view = m.searcher.View()
	m.search.clamp()
	m.folders.view = m.folderCtl.View()
	m.folders.clamp()
	m.mview = m.maint.View()
}

func (m Model) renderContent() string {
	switch m.tab {
	case TabFolders:
		return m.renderFolders()
	case TabMaintenance:
		return m.renderMaintenance()
	case TabLogs:
		return m.renderLogs()
	default:
		return m.renderSearch()
	}
}

// Messages

type tickMsg time.Time

// actionDoneMsg reports that a controller call finished. Failures have
// already been turned into notices by the controller.
type actionDoneMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// run calls fn off the UI goroutine.
func (m Model) run(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{err: fn(ctx)}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx is
// cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
