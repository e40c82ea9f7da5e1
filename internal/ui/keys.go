package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings. Help texts are i18n keys and are
// translated when rendered.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	ToggleLang key.Binding
	StartIndex key.Binding
	Refresh    key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	TabSearch  key.Binding
	TabFolders key.Binding
	TabMaint   key.Binding
	TabLogs    key.Binding
	Escape     key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding

	// Search
	FocusSearch   key.Binding
	TopKUp        key.Binding
	TopKDown      key.Binding
	ThresholdUp   key.Binding
	ThresholdDown key.Binding

	// Folders
	AddFolder    key.Binding
	RemoveFolder key.Binding
	ScanFolder   key.Binding
	IndexFolder  key.Binding
	ForceIndex   key.Binding
	Reload       key.Binding

	// Maintenance
	Health     key.Binding
	Preview    key.Binding
	Cleanup    key.Binding
	Optimize   key.Binding
	MaintStats key.Binding

	// Logs
	CycleLevel   key.Binding
	ToggleFollow key.Binding

	// Dialogs
	BrowseInto key.Binding
	BrowseUp   key.Binding
	Select     key.Binding
	Filter     key.Binding
	Rename     key.Binding
	Confirm    key.Binding
	Unhover    key.Binding
	Yes        key.Binding
	No         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "help.quit")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help.help")),
		CycleTheme: key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "help.theme")),
		ToggleLang: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "help.lang")),
		StartIndex: key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "help.index")),
		Refresh:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "help.refresh")),
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "help.next_tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "help.prev_tab")),
		TabSearch:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "tab.search")),
		TabFolders: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "tab.folders")),
		TabMaint:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "tab.maintenance")),
		TabLogs:    key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "tab.logs")),
		Escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "help.back")),

		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "help.up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "help.down")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "help.top")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "help.bottom")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "help.open")),

		FocusSearch:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "help.focus_search")),
		TopKUp:        key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "help.top_k_up")),
		TopKDown:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "help.top_k_down")),
		ThresholdUp:   key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "help.threshold_up")),
		ThresholdDown: key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "help.threshold_down")),

		AddFolder:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "help.add_folder")),
		RemoveFolder: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "help.remove_folder")),
		ScanFolder:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "help.scan_folder")),
		IndexFolder:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "help.index_folder")),
		ForceIndex:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "help.force_index")),
		Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "help.reload")),

		Health:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "maint.health_check")),
		Preview:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "maint.preview")),
		Cleanup:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "maint.cleanup")),
		Optimize:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "maint.optimize")),
		MaintStats: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "maint.stats")),

		CycleLevel:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "help.log_level")),
		ToggleFollow: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "help.follow")),

		BrowseInto: key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter/l", "help.browse_into")),
		BrowseUp:   key.NewBinding(key.WithKeys("backspace", "h", "left"), key.WithHelp("backspace/h", "help.browse_up")),
		Select:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "help.select")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "help.filter")),
		Rename:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "help.rename")),
		Confirm:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "browser.confirm")),
		Unhover:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "help.unhover")),
		Yes:        key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm.yes")),
		No:         key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "confirm.no")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped the way the help overlay shows them.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.TabSearch, k.TabFolders, k.TabMaint, k.TabLogs, k.Up, k.Down, k.Top, k.Bottom, k.Escape},
		{k.FocusSearch, k.Open, k.TopKUp, k.TopKDown, k.ThresholdUp, k.ThresholdDown},
		{k.AddFolder, k.RemoveFolder, k.ScanFolder, k.IndexFolder, k.ForceIndex, k.Reload},
		{k.Health, k.Preview, k.Cleanup, k.Optimize, k.MaintStats},
		{k.CycleLevel, k.ToggleFollow},
		{k.BrowseInto, k.BrowseUp, k.Select, k.Filter, k.Rename, k.Confirm, k.Unhover},
		{k.StartIndex, k.Refresh, k.ToggleLang, k.CycleTheme, k.Help, k.Quit},
	}
}
