// Package search runs photo searches and keeps the result cards.
package search

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/memoryhunter/hunter/internal/memhunter"
	"github.com/memoryhunter/hunter/internal/notify"
	"github.com/memoryhunter/hunter/internal/viewer"
)

// ErrEmptyQuery is returned when Submit gets a blank query. No request is sent.
var ErrEmptyQuery = errors.New("search query is empty")

const (
	MinTopK       = 1
	MaxTopK       = 100
	DefaultTopK   = 20
	ThresholdStep = 0.05
)

// Client is the part of the API search uses.
type Client interface {
	Search(ctx context.Context, req memhunter.SearchRequest) (*memhunter.SearchResponse, error)
	PhotoURL(serverPath string) string
}

// Card is one rendered result.
type Card struct {
	Result  memhunter.SearchResult
	Score   string
	URL     string
	Objects int
}

// View is a snapshot of the search panel.
type View struct {
	TopK      int
	Threshold float64
	InFlight  int

	// Searched is false until the first response has been applied.
	Searched bool
	Query    string
	Count    int
	Cards    []Card
}

// Loading reports whether any search is outstanding.
func (v View) Loading() bool {
	return v.InFlight > 0
}

// NoResults reports whether the last applied search came back empty.
func (v View) NoResults() bool {
	return v.Searched && v.Count == 0
}

// Options configure a Controller.
type Options struct {
	Notifier  notify.Notifier
	TopK      int
	Threshold float64
}

// Controller owns the search panel's state.
type Controller struct {
	client   Client
	notifier notify.Notifier
	log      logrus.FieldLogger

	mu      sync.Mutex
	view    View
	issued  uint64
	applied uint64
}

// New returns a controller with sliders set from opts.
func New(client Client, opts Options) *Controller {
	topK := opts.TopK
	if topK == 0 {
		topK = DefaultTopK
	}
	return &Controller{
		client:   client,
		notifier: opts.Notifier,
		log:      logrus.WithField("component", "search"),
		view: View{
			TopK:      ClampTopK(topK),
			Threshold: ClampThreshold(opts.Threshold),
		},
	}
}

// ClampTopK limits n to [MinTopK, MaxTopK].
func ClampTopK(n int) int {
	return min(max(n, MinTopK), MaxTopK)
}

// ClampThreshold limits f to [0,1] and rounds it to two decimals.
func ClampThreshold(f float64) float64 {
	f = min(max(f, 0), 1)
	return math.Round(f*100) / 100
}

// SetTopK sets the result count slider.
func (c *Controller) SetTopK(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.TopK = ClampTopK(n)
}

// AdjustTopK moves the result count slider by delta.
func (c *Controller) AdjustTopK(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.TopK = ClampTopK(c.view.TopK + delta)
}

// SetThreshold sets the similarity slider.
func (c *Controller) SetThreshold(f float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Threshold = ClampThreshold(f)
}

// AdjustThreshold moves the similarity slider by steps of ThresholdStep.
func (c *Controller) AdjustThreshold(steps int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Threshold = ClampThreshold(c.view.Threshold + float64(steps)*ThresholdStep)
}

// Submit runs one search with the current sliders. Each call is independent;
// a response that arrives after a newer one has been applied is dropped.
func (c *Controller) Submit(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		c.notify(notify.Message(notify.Warning, "search.empty_query"))
		return ErrEmptyQuery
	}

	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.view.InFlight++
	req := memhunter.SearchRequest{Query: query, TopK: c.view.TopK, Threshold: c.view.Threshold}
	c.mu.Unlock()

	resp, err := c.client.Search(ctx, req)

	c.mu.Lock()
	c.view.InFlight--
	if err != nil {
		c.mu.Unlock()
		c.log.WithError(err).WithField("query", query).Warn("search failed")
		c.notify(notify.Failure("search.failed", err))
		return err
	}
	if seq < c.applied {
		c.mu.Unlock()
		c.log.WithField("query", query).Debug("dropped stale search response")
		return nil
	}
	c.applied = seq
	c.view.Searched = true
	c.view.Query = resp.Query
	if c.view.Query == "" {
		c.view.Query = query
	}
	c.view.Count = resp.Count
	c.view.Cards = c.cards(resp.Results)
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{"query": query, "count": resp.Count}).Info("search finished")
	return nil
}

func (c *Controller) cards(results []memhunter.SearchResult) []Card {
	if len(results) == 0 {
		return nil
	}
	out := make([]Card, 0, len(results))
	for _, r := range results {
		out = append(out, Card{
			Result:  r,
			Score:   r.ScoreText(),
			URL:     c.client.PhotoURL(r.Path),
			Objects: viewer.ParseObjects(r.Objects).Count(),
		})
	}
	return out
}

// View returns a copy of the panel state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view
	v.Cards = append([]Card(nil), c.view.Cards...)
	return v
}

func (c *Controller) notify(n notify.Notice) {
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}
