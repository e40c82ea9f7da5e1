// Package folders manages the backend's monitored folders and the dialog used
// to add new ones.
package folders

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/memoryhunter/hunter/internal/jobs"
	"github.com/memoryhunter/hunter/internal/memhunter"
	"github.com/memoryhunter/hunter/internal/notify"
)

const defaultWatchInterval = 3 * time.Second

// Client is the part of the API folder management uses.
type Client interface {
	Folders(ctx context.Context) ([]memhunter.Folder, error)
	CreateFolder(ctx context.Context, path, name string) (*memhunter.Folder, error)
	DeleteFolder(ctx context.Context, id string, deleteVectors bool) error
	ScanFolder(ctx context.Context, id string) (*memhunter.ScanResult, error)
	IndexFolder(ctx context.Context, id string, forceReindex bool) (*memhunter.Accepted, error)
	Browse(ctx context.Context, path string) (*memhunter.BrowseResponse, error)
}

// Options configure a Controller.
type Options struct {
	Clock    clockwork.Clock
	Interval time.Duration
	Notifier notify.Notifier
}

// View is a snapshot of the folder panel.
type View struct {
	Folders []memhunter.Folder
	Loaded  bool
	LoadErr error
	// Watching lists folder ids with an index watch running.
	Watching map[string]bool
}

// Find returns the folder with id.
func (v View) Find(id string) (memhunter.Folder, bool) {
	for _, f := range v.Folders {
		if f.ID == id {
			return f, true
		}
	}
	return memhunter.Folder{}, false
}

type watch struct {
	token  uint64
	handle *jobs.Handle
}

// Controller owns the folder list. Every mutation is followed by a reload of
// the authoritative list.
type Controller struct {
	client   Client
	clock    clockwork.Clock
	interval time.Duration
	notifier notify.Notifier
	log      logrus.FieldLogger

	mu         sync.Mutex
	view       View
	issued     uint64
	applied    uint64
	watches    map[string]watch
	watchToken uint64
}

// New returns a controller with an empty list.
func New(client Client, opts Options) *Controller {
	c := &Controller{
		client:   client,
		clock:    opts.Clock,
		interval: opts.Interval,
		notifier: opts.Notifier,
		log:      logrus.WithField("component", "folders"),
		watches:  make(map[string]watch),
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if c.interval <= 0 {
		c.interval = defaultWatchInterval
	}
	return c
}

// Load replaces the list with the backend's.
func (c *Controller) Load(ctx context.Context) ([]memhunter.Folder, error) {
	list, err := c.reload(ctx)
	if err != nil {
		c.notify(notify.Failure("folders.load_failed", err))
		return nil, err
	}
	return list, nil
}

func (c *Controller) reload(ctx context.Context) ([]memhunter.Folder, error) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	list, err := c.client.Folders(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		return list, err
	}
	c.applied = seq
	if err != nil {
		c.view.LoadErr = err
		c.log.WithError(err).Warn("folder list failed")
		return nil, err
	}
	c.view.Folders = append([]memhunter.Folder(nil), list...)
	c.view.Loaded = true
	c.view.LoadErr = nil
	return list, nil
}

// Create registers path under name. An empty name lets the backend pick the
// directory's base name.
func (c *Controller) Create(ctx context.Context, path, name string) (*memhunter.Folder, error) {
	folder, err := c.client.CreateFolder(ctx, path, name)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Warn("add folder failed")
		c.notify(notify.Failure("folders.add_failed", err))
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"id": folder.ID, "path": folder.Path}).Info("folder added")
	c.notify(notify.Message(notify.Success, "folders.added", folder.Name))
	_, _ = c.reload(ctx)
	return folder, nil
}

// Remove deletes folder id. Callers confirm with the user first.
func (c *Controller) Remove(ctx context.Context, id string, deleteVectors bool) error {
	if err := c.client.DeleteFolder(ctx, id, deleteVectors); err != nil {
		c.log.WithError(err).WithField("id", id).Warn("remove folder failed")
		c.notify(notify.Failure("folders.remove_failed", err))
		return err
	}
	c.stopWatch(id)
	c.log.WithField("id", id).Info("folder removed")
	c.notify(notify.Message(notify.Success, "folders.removed"))
	_, _ = c.reload(ctx)
	return nil
}

// Scan counts the images in folder id.
func (c *Controller) Scan(ctx context.Context, id string) (*memhunter.ScanResult, error) {
	c.notify(notify.Message(notify.Info, "folders.scanning"))
	result, err := c.client.ScanFolder(ctx, id)
	if err != nil {
		c.log.WithError(err).WithField("id", id).Warn("scan failed")
		c.notify(notify.Failure("folders.scan_failed", err))
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"id": id, "valid": result.ValidImages, "errors": result.Errors}).Info("scan finished")
	c.notify(notify.Message(notify.Success, "folders.scanned", result.ValidImages))
	_, _ = c.reload(ctx)
	return result, nil
}

// Index starts indexing folder id and watches the list until the folder
// leaves the indexing state. A previous watch for the same folder is replaced.
func (c *Controller) Index(ctx context.Context, id string, force bool) error {
	c.notify(notify.Message(notify.Info, "folders.index_starting"))
	accepted, err := c.client.IndexFolder(ctx, id, force)
	if err != nil {
		c.log.WithError(err).WithField("id", id).Warn("index folder failed")
		c.notify(notify.Failure("folders.index_failed", err))
		return err
	}
	c.log.WithFields(logrus.Fields{"id": id, "force": force}).Info("folder index started")
	c.notify(notify.Message(notify.Success, "folders.index_started", accepted.Message))

	c.mu.Lock()
	if prev, ok := c.watches[id]; ok {
		prev.handle.Cancel()
	}
	c.watchToken++
	token := c.watchToken
	c.watches[id] = watch{
		token:  token,
		handle: jobs.Every(ctx, c.clock, c.interval, c.watchTick(id, token)),
	}
	c.mu.Unlock()
	return nil
}

func (c *Controller) watchTick(id string, token uint64) jobs.TickFunc {
	return func(ctx context.Context) bool {
		if !c.ownsWatch(id, token) {
			return false
		}
		list, err := c.reload(ctx)
		if err != nil {
			return true
		}
		if !c.ownsWatch(id, token) {
			return false
		}

		var folder *memhunter.Folder
		for i := range list {
			if list[i].ID == id {
				folder = &list[i]
				break
			}
		}
		switch {
		case folder == nil:
			c.log.WithField("id", id).Info("watched folder disappeared")
			c.dropWatch(id, token)
			return false
		case folder.Status != memhunter.FolderIndexing:
			c.log.WithFields(logrus.Fields{"id": id, "status": folder.Status}).Info("folder index finished")
			c.dropWatch(id, token)
			c.notify(notify.Message(notify.Success, "folders.index_done"))
			return false
		}
		return true
	}
}

func (c *Controller) ownsWatch(id string, token uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.watches[id]
	return ok && w.token == token
}

func (c *Controller) dropWatch(id string, token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w, ok := c.watches[id]; ok && w.token == token {
		delete(c.watches, id)
	}
}

func (c *Controller) stopWatch(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w, ok := c.watches[id]; ok {
		w.handle.Cancel()
		delete(c.watches, id)
	}
}

// WatchDone is closed when the watch for id ends. With no watch it is already
// closed.
func (c *Controller) WatchDone(id string) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	var h *jobs.Handle
	if w, ok := c.watches[id]; ok {
		h = w.handle
	}
	return h.Done()
}

// Close cancels every watch.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, w := range c.watches {
		w.handle.Cancel()
		delete(c.watches, id)
	}
}

// View returns a copy of the panel state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view
	v.Folders = append([]memhunter.Folder(nil), c.view.Folders...)
	v.Watching = make(map[string]bool, len(c.watches))
	for id := range c.watches {
		v.Watching[id] = true
	}
	return v
}

func (c *Controller) notify(n notify.Notice) {
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}
