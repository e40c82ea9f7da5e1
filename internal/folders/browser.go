package folders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/memoryhunter/hunter/internal/memhunter"
	"github.com/memoryhunter/hunter/internal/notify"
)

var (
	// ErrNoSelection is returned by Confirm when no folder was picked.
	ErrNoSelection = errors.New("no folder selected")
	// ErrNotAccessible is returned for entries the backend cannot read.
	ErrNotAccessible = errors.New("folder is not accessible")
)

// Selection is the folder chosen in the browser.
type Selection struct {
	Path string
	Name string
}

// BrowserView is a snapshot of the add-folder dialog.
type BrowserView struct {
	Open        bool
	CurrentPath string
	ParentPath  string
	IsRoot      bool
	// Entries is the listing after the name filter.
	Entries  []memhunter.BrowseEntry
	Total    int
	Filter   string
	Selected *Selection
	Err      error
}

// Browser walks the backend's filesystem and adds the chosen folder through
// the Controller.
type Browser struct {
	folders *Controller

	mu          sync.Mutex
	open        bool
	listing     memhunter.BrowseResponse
	selected    *Selection
	filterText  string
	filter      glob.Glob
	err         error
	browseCalls uint64
}

// NewBrowser returns a closed browser that adds folders through c.
func NewBrowser(c *Controller) *Browser {
	return &Browser{folders: c}
}

// Open shows the dialog at the filesystem roots.
func (b *Browser) Open(ctx context.Context) error {
	b.mu.Lock()
	b.open = true
	b.selected = nil
	b.listing = memhunter.BrowseResponse{IsRoot: true}
	b.err = nil
	b.mu.Unlock()
	return b.Browse(ctx, "")
}

// Close hides the dialog and forgets the selection.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = false
	b.selected = nil
	b.listing = memhunter.BrowseResponse{}
	b.err = nil
	b.browseCalls++
}

// Browse lists path. The empty path lists the filesystem roots.
func (b *Browser) Browse(ctx context.Context, path string) error {
	b.mu.Lock()
	b.browseCalls++
	call := b.browseCalls
	b.mu.Unlock()

	resp, err := b.folders.client.Browse(ctx, path)

	b.mu.Lock()
	defer b.mu.Unlock()
	if call != b.browseCalls {
		return nil
	}
	if err != nil {
		b.err = err
		b.folders.log.WithError(err).WithField("path", path).Warn("browse failed")
		b.folders.notify(notify.Failure("browser.load_failed", err))
		return err
	}
	b.listing = *resp
	b.err = nil
	return nil
}

// Enter descends into entry.
func (b *Browser) Enter(ctx context.Context, entry memhunter.BrowseEntry) error {
	if !entry.CanEnter() {
		b.folders.notify(notify.Message(notify.Warning, "browser.not_accessible"))
		return ErrNotAccessible
	}
	return b.Browse(ctx, entry.Path)
}

// Up moves to the parent directory. A directory without a parent goes back to
// the roots. At the roots Up does nothing.
func (b *Browser) Up(ctx context.Context) error {
	b.mu.Lock()
	listing := b.listing
	b.mu.Unlock()
	if listing.IsRoot {
		return nil
	}
	return b.Browse(ctx, listing.ParentPath)
}

// Select picks entry for Confirm. The name defaults to the last path element.
func (b *Browser) Select(entry memhunter.BrowseEntry) error {
	if !entry.CanEnter() {
		b.folders.notify(notify.Message(notify.Warning, "browser.not_accessible"))
		return ErrNotAccessible
	}
	b.SelectPath(entry.Path, entry.Name)
	return nil
}

// SelectPath picks a path directly.
func (b *Browser) SelectPath(path, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = baseName(path)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = &Selection{Path: path, Name: name}
}

// Rename changes the name the selection will be added under.
func (b *Browser) Rename(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selected == nil {
		return
	}
	if name = strings.TrimSpace(name); name != "" {
		b.selected.Name = name
	}
}

// Confirm adds the selected folder, closes the dialog and reloads the folder
// list. With nothing selected it warns and returns ErrNoSelection.
func (b *Browser) Confirm(ctx context.Context) (*memhunter.Folder, error) {
	b.mu.Lock()
	sel := b.selected
	b.mu.Unlock()
	if sel == nil {
		b.folders.notify(notify.Message(notify.Warning, "browser.select_first"))
		return nil, ErrNoSelection
	}
	folder, err := b.folders.Create(ctx, sel.Path, sel.Name)
	if err != nil {
		return nil, err
	}
	b.Close()
	return folder, nil
}

// SetFilter narrows the listing to entries whose name matches a glob pattern,
// case-insensitively. An empty pattern shows everything.
func (b *Browser) SetFilter(pattern string) error {
	pattern = strings.TrimSpace(pattern)
	var g glob.Glob
	if pattern != "" {
		compiled, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return fmt.Errorf("compile filter %q: %w", pattern, err)
		}
		g = compiled
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filterText = pattern
	b.filter = g
	return nil
}

// View returns the dialog state.
func (b *Browser) View() BrowserView {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := BrowserView{
		Open:        b.open,
		CurrentPath: b.listing.CurrentPath,
		ParentPath:  b.listing.ParentPath,
		IsRoot:      b.listing.IsRoot,
		Total:       len(b.listing.Folders),
		Filter:      b.filterText,
		Err:         b.err,
	}
	if b.selected != nil {
		sel := *b.selected
		v.Selected = &sel
	}
	for _, entry := range b.listing.Folders {
		if b.filter != nil && !b.filter.Match(strings.ToLower(entry.Name)) {
			continue
		}
		v.Entries = append(v.Entries, entry)
	}
	return v
}

func baseName(path string) string {
	trimmed := strings.TrimRight(path, `/\`)
	if trimmed == "" {
		return path
	}
	if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
