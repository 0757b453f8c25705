// Package storefront keeps the product listing filter state of a
// client view consistent across debounced typing, selector changes,
// pagination and cross-page return.
package storefront

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"storefront/internal/clientstate"
	"storefront/internal/models"
)

// Phase is the controller's position in the input/fetch cycle. State
// transitions are the single source of truth; there are no independent
// reactive watchers to re-enter each other.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseFetching
	PhaseSettled
)

// Fetcher loads one page of products for a filter state.
type Fetcher interface {
	FetchProducts(ctx context.Context, f FilterState) (*models.ProductList, error)
}

const defaultDebounce = 500 * time.Millisecond

// Controller is an injected per-view state container. All transitions
// run under one lock; debounce timers are the only deferred work, and
// scheduling a new one cancels the prior pending one.
type Controller struct {
	mu      sync.Mutex
	fetcher Fetcher
	storage clientstate.Storage
	key     string

	debounce      time.Duration
	timer         *time.Timer
	pendingSearch string

	state FilterState
	phase Phase

	// Monotonic fetch sequencing: a response only applies when it is
	// still the latest issued request, so a slow stale fetch can never
	// overwrite a newer one.
	seq  uint64
	page *models.ProductList
	err  error

	onSettled func(*models.ProductList, error)
}

type Option func(*Controller)

func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithViewKey namespaces the persisted filter state per view.
func WithViewKey(key string) Option {
	return func(c *Controller) { c.key = key }
}

// WithOnSettled registers a callback invoked after each applied fetch.
func WithOnSettled(fn func(*models.ProductList, error)) Option {
	return func(c *Controller) { c.onSettled = fn }
}

// NewController restores the persisted filter state of the view, or
// starts from defaults when nothing (or something unparseable) is
// stored. It does not fetch; call Refresh once mounted.
func NewController(fetcher Fetcher, storage clientstate.Storage, opts ...Option) *Controller {
	c := &Controller{
		fetcher:  fetcher,
		storage:  storage,
		key:      "productsFilters",
		debounce: defaultDebounce,
		state:    DefaultFilters(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if data, ok := storage.Load(c.key); ok {
		var saved FilterState
		if err := json.Unmarshal(data, &saved); err == nil && saved.Page >= 1 && saved.Limit >= 1 {
			c.state = saved
		} else {
			storage.Remove(c.key)
		}
	}
	return c
}

func (c *Controller) State() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Current returns the last applied page and fetch error.
func (c *Controller) Current() (*models.ProductList, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page, c.err
}

// SetSearch records typed text and arms the debounce timer. Only the
// most recent settled debounce becomes an effective filter change.
func (c *Controller) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pendingSearch = text
	if c.timer != nil {
		c.timer.Stop()
	}
	c.phase = PhaseDebouncing
	c.timer = time.AfterFunc(c.debounce, func() {
		c.commitSearch(text)
	})
}

func (c *Controller) commitSearch(text string) {
	c.mu.Lock()
	if text != c.pendingSearch {
		// A newer keystroke re-armed the timer after this one fired.
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.state.Search = text
	c.state.Page = 1
	c.persistLocked()
	c.fetchLocked()
	c.mu.Unlock()
}

// Flush fires a pending debounce immediately.
func (c *Controller) Flush() {
	c.mu.Lock()
	timer, text := c.timer, c.pendingSearch
	c.mu.Unlock()

	if timer != nil && timer.Stop() {
		c.commitSearch(text)
	}
}

// SetCategory narrows the listing; a new filter invalidates the old
// page window, so the page resets to 1.
func (c *Controller) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Category = category
	c.state.Page = 1
	c.persistLocked()
	c.fetchLocked()
}

func (c *Controller) SetSort(sort string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Sort = sort
	c.state.Page = 1
	c.persistLocked()
	c.fetchLocked()
}

// SetPage moves the window without touching the other filters.
func (c *Controller) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Page = page
	c.persistLocked()
	c.fetchLocked()
}

// ClearFilters resets everything to defaults and drops the persisted
// entry, starting a fresh session.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pendingSearch = ""
	c.state = DefaultFilters()
	c.storage.Remove(c.key)
	c.fetchLocked()
}

// Refresh fetches with the current (possibly restored) filter state.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchLocked()
}

func (c *Controller) persistLocked() {
	data, err := json.Marshal(c.state)
	if err != nil {
		return
	}
	c.storage.Save(c.key, data)
}

func (c *Controller) fetchLocked() {
	c.seq++
	seq := c.seq
	state := c.state
	c.phase = PhaseFetching

	go func() {
		page, err := c.fetcher.FetchProducts(context.Background(), state)
		c.complete(seq, page, err)
	}()
}

func (c *Controller) complete(seq uint64, page *models.ProductList, err error) {
	c.mu.Lock()
	if seq != c.seq {
		// Superseded while in flight; discard the stale response.
		c.mu.Unlock()
		return
	}
	c.page = page
	c.err = err
	c.phase = PhaseSettled
	fn := c.onSettled
	c.mu.Unlock()

	if fn != nil {
		fn(page, err)
	}
}
