// Package notify holds transient user notifications.
package notify

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/memoryhunter/hunter/internal/memhunter"
)

// Level doubles as the tone a notice is rendered with.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notice is a message keyed for translation at render time, so a language
// switch re-renders notices already on screen.
type Notice struct {
	ID    uint64
	Level Level
	Key   string
	Args  []any

	// Detail is a server message appended verbatim after the translated text.
	Detail string
	// Generic marks failures without a server message. Cause says what went
	// wrong and Status is the HTTP status when one was received.
	Generic bool
	Cause   Cause
	Status  int

	At time.Time
}

// Cause classifies a generic failure.
type Cause int

const (
	CauseUnknown Cause = iota
	CauseNetwork
	CauseStatus
	CauseResponse
)

// Notifier receives notices from controllers.
type Notifier interface {
	Notify(n Notice)
}

// Message builds a plain notice.
func Message(level Level, key string, args ...any) Notice {
	return Notice{Level: level, Key: key, Args: args}
}

// Failure builds an error notice for err. The backend's detail is kept
// verbatim. Everything else is flagged generic.
func Failure(key string, err error) Notice {
	n := Notice{Level: Error, Key: key}
	if reason, ok := memhunter.Reason(err); ok {
		n.Detail = reason
		return n
	}
	n.Generic = true
	n.Status = memhunter.StatusCode(err)
	switch {
	case n.Status > 0:
		n.Cause = CauseStatus
	case memhunter.IsTransport(err):
		n.Cause = CauseNetwork
	case memhunter.IsDecode(err):
		n.Cause = CauseResponse
	}
	return n
}

const (
	defaultTTL   = 3 * time.Second
	historyLimit = 100
)

// Center stores notices and expires them after a fixed time on screen.
type Center struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	ttl     time.Duration
	nextID  uint64
	history []Notice
	log     logrus.FieldLogger
}

// NewCenter returns a Center using clk for timestamps. A nil clock uses the
// real clock.
func NewCenter(clk clockwork.Clock) *Center {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Center{
		clock: clk,
		ttl:   defaultTTL,
		log:   logrus.WithField("component", "notify"),
	}
}

// Notify records n.
func (c *Center) Notify(n Notice) {
	c.mu.Lock()
	c.nextID++
	n.ID = c.nextID
	n.At = c.clock.Now()
	c.history = append(c.history, n)
	if len(c.history) > historyLimit {
		c.history = append([]Notice(nil), c.history[len(c.history)-historyLimit:]...)
	}
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"level":  n.Level.String(),
		"key":    n.Key,
		"detail": n.Detail,
	}).Info("notice")
}

// Active returns notices that have not expired, oldest first.
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	var out []Notice
	for _, n := range c.history {
		if now.Sub(n.At) < c.ttl {
			out = append(out, n)
		}
	}
	return out
}

// History returns every retained notice, oldest first.
func (c *Center) History() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notice(nil), c.history...)
}

// Last returns the most recent notice.
func (c *Center) Last() (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.history) == 0 {
		return Notice{}, false
	}
	return c.history[len(c.history)-1], true
}
