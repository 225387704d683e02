// Package collection implements the remote-list view used by the site's
// directory sections: one fetch per mount, a committed fallback when the fetch
// fails or comes back empty, and client-side filtering and show-more paging.
package collection

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// All is the filter value that selects every item.
const All = "All"

// ErrClosed is returned when a fetch cycle completes after Close.
var ErrClosed = errors.New("collection: controller closed")

var errNoFetcher = errors.New("no fetcher configured")

// State is the controller lifecycle state.
type State int

const (
	StateLoading State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "loading"
}

// Config parameterizes a Controller for one item shape.
type Config[T any] struct {
	// Name is the logical collection name passed to the Fetcher.
	Name     string
	Fetcher  Fetcher[T]
	Fallback []T
	// Key returns the item id. Duplicate ids in a remote result make the
	// result malformed.
	Key func(T) string
	// Category returns the filter key of an item. Nil disables filtering
	// beyond All.
	Category func(T) string
	Tiers    Tiers
	Logger   zerolog.Logger
}

// View is the read model a host renders.
type View[T any] struct {
	Loading    bool     `json:"loading"`
	Source     Source   `json:"source"`
	Items      []T      `json:"items"`
	Categories []string `json:"categories"`
	Filter     string   `json:"filter"`
	Expanded   bool     `json:"expanded"`
	PageSize   int      `json:"page_size"`
	Total      int      `json:"total"`
	ShowToggle bool     `json:"show_toggle"`
}

// MapView converts the visible items of v with fn, keeping the rest of the view.
func MapView[T, U any](v View[T], fn func(T) U) View[U] {
	out := View[U]{
		Loading:    v.Loading,
		Source:     v.Source,
		Items:      make([]U, 0, len(v.Items)),
		Categories: v.Categories,
		Filter:     v.Filter,
		Expanded:   v.Expanded,
		PageSize:   v.PageSize,
		Total:      v.Total,
		ShowToggle: v.ShowToggle,
	}
	for _, it := range v.Items {
		out.Items = append(out.Items, fn(it))
	}
	return out
}

type snapshot[T any] struct {
	items  []T
	source Source
}

// Controller owns one collection snapshot and the presentation state derived
// from it. It is safe for concurrent use.
type Controller[T any] struct {
	cfg    Config[T]
	flight singleflight.Group

	mu         sync.RWMutex
	state      State
	source     Source
	items      []T
	categories []string
	filter     string
	expanded   bool
	pageSize   int
	pending    int
	loaded     bool
	closed     bool
}

// NewController returns a controller in the loading state. Zero tiers select
// DefaultTiers.
func NewController[T any](cfg Config[T]) *Controller[T] {
	if cfg.Tiers == (Tiers{}) {
		cfg.Tiers = DefaultTiers
	}
	return &Controller[T]{
		cfg:        cfg,
		state:      StateLoading,
		filter:     All,
		categories: []string{All},
		pageSize:   cfg.Tiers.PageSize(0),
	}
}

// Initialize runs the mount fetch cycle. It returns ctx.Err() or ErrClosed when
// the result arrived for a view that is gone; the result is discarded in both
// cases. Fetch failures are not returned: they resolve to the fallback.
func (c *Controller[T]) Initialize(ctx context.Context) error {
	return c.load(ctx)
}

// Refresh runs another fetch cycle and replaces the snapshot wholesale.
// Concurrent calls share one in-flight fetch; a caller whose ctx ends stops
// waiting without cutting the fetch short for the others. The previous snapshot
// stays visible while the fetch runs.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.load(ctx)
}

func (c *Controller[T]) load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.pending++
	c.state = StateLoading
	c.mu.Unlock()

	// The shared fetch outlives any one caller; fetchers bound it with their
	// own timeout.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(c.cfg.Name, func() (interface{}, error) {
		return c.fetch(fetchCtx), nil
	})

	select {
	case <-ctx.Done():
		c.settle(nil)
		return ctx.Err()
	case res := <-ch:
		if err := ctx.Err(); err != nil {
			c.settle(nil)
			return err
		}
		snap := res.Val.(snapshot[T])
		return c.settle(&snap)
	}
}

// settle ends one load. A nil snap abandons it; the controller goes back to
// ready when it already holds a snapshot and no other load is pending.
func (c *Controller[T]) settle(snap *snapshot[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--

	var err error
	switch {
	case c.closed:
		err = ErrClosed
	case snap != nil:
		c.items = snap.items
		c.source = snap.source
		c.categories = deriveCategories(snap.items, c.cfg.Category)
		c.filter = All
		c.expanded = false
		c.loaded = true
	}

	if c.loaded && c.pending == 0 {
		c.state = StateReady
	} else {
		c.state = StateLoading
	}
	return err
}

func (c *Controller[T]) fetch(ctx context.Context) snapshot[T] {
	var (
		items []T
		err   error
	)
	if c.cfg.Fetcher == nil {
		err = NewFetchError(c.cfg.Name, KindUnknown, errNoFetcher)
	} else {
		items, err = safeFetch(ctx, c.cfg.Fetcher, c.cfg.Name)
	}
	if err == nil {
		err = checkKeys(c.cfg.Name, items, c.cfg.Key)
	}
	if err == nil && len(items) == 0 {
		err = ErrEmptyResult
	}

	resolved, src := Resolve(items, err, c.cfg.Fallback)
	if src == SourceFallback {
		c.cfg.Logger.Warn().
			Err(err).
			Str("collection", c.cfg.Name).
			Int("fallback_items", len(resolved)).
			Msg("using fallback collection")
	} else {
		c.cfg.Logger.Debug().
			Str("collection", c.cfg.Name).
			Int("items", len(resolved)).
			Msg("collection fetched")
	}
	return snapshot[T]{items: resolved, source: src}
}

func deriveCategories[T any](items []T, category func(T) string) []string {
	cats := []string{All}
	if category == nil {
		return cats
	}
	seen := map[string]bool{All: true}
	for _, it := range items {
		cat := category(it)
		if cat == "" || seen[cat] {
			continue
		}
		seen[cat] = true
		cats = append(cats, cat)
	}
	return cats
}

// SetFilter selects the items whose category equals category, or every item for
// All or the empty string. It always collapses the view.
func (c *Controller[T]) SetFilter(category string) {
	if category == "" {
		category = All
	}
	c.mu.Lock()
	c.filter = category
	c.expanded = false
	c.mu.Unlock()
}

// ToggleExpanded flips between showing the whole filtered collection and the
// first page.
func (c *Controller[T]) ToggleExpanded() {
	c.mu.Lock()
	c.expanded = !c.expanded
	c.mu.Unlock()
}

// SetViewportWidth recomputes the page size for width and reports whether it
// changed.
func (c *Controller[T]) SetViewportWidth(width int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	size := c.cfg.Tiers.PageSize(width)
	changed := size != c.pageSize
	c.pageSize = size
	return changed
}

// Close marks the view as gone. Fetch cycles finishing afterwards are dropped.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// State returns the lifecycle state.
func (c *Controller[T]) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Items returns a copy of the whole snapshot.
func (c *Controller[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// View derives the visible subset from the snapshot and presentation state.
func (c *Controller[T]) View() View[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	filtered := c.filtered()
	visible := filtered
	if !c.expanded && len(visible) > c.pageSize {
		visible = visible[:c.pageSize]
	}

	cats := make([]string, len(c.categories))
	copy(cats, c.categories)

	return View[T]{
		Loading:    c.state == StateLoading,
		Source:     c.source,
		Items:      visible,
		Categories: cats,
		Filter:     c.filter,
		Expanded:   c.expanded,
		PageSize:   c.pageSize,
		Total:      len(filtered),
		ShowToggle: len(filtered) > c.pageSize,
	}
}

// filtered returns a new slice; callers hold at least the read lock.
func (c *Controller[T]) filtered() []T {
	out := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if c.filter == All || (c.cfg.Category != nil && c.cfg.Category(it) == c.filter) {
			out = append(out, it)
		}
	}
	return out
}
