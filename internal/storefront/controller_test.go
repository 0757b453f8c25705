package storefront

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/clientstate"
	"storefront/internal/models"
)

type immediateFetcher struct {
	mu    sync.Mutex
	calls []FilterState
}

func (f *immediateFetcher) FetchProducts(_ context.Context, st FilterState) (*models.ProductList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, st)
	return &models.ProductList{CurrentPage: st.Page}, nil
}

func (f *immediateFetcher) Calls() []FilterState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FilterState(nil), f.calls...)
}

// gatedFetcher blocks every fetch until the test releases it, so
// responses can be completed out of order.
type gatedFetcher struct {
	mu    sync.Mutex
	calls []FilterState
	gates []chan *models.ProductList
}

func (f *gatedFetcher) FetchProducts(_ context.Context, st FilterState) (*models.ProductList, error) {
	f.mu.Lock()
	gate := make(chan *models.ProductList, 1)
	f.calls = append(f.calls, st)
	f.gates = append(f.gates, gate)
	f.mu.Unlock()
	return <-gate, nil
}

func (f *gatedFetcher) pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.gates)
}

func (f *gatedFetcher) release(i int, page *models.ProductList) {
	f.mu.Lock()
	gate := f.gates[i]
	f.mu.Unlock()
	gate <- page
}

func settledCounter() (func(*models.ProductList, error), chan struct{}) {
	ch := make(chan struct{}, 16)
	return func(*models.ProductList, error) { ch <- struct{}{} }, ch
}

func waitSettled(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a settled fetch")
	}
}

func TestSearchDebounce(t *testing.T) {
	fetcher := &immediateFetcher{}
	onSettled, settled := settledCounter()
	c := NewController(fetcher, clientstate.NewMemStorage(),
		WithDebounce(30*time.Millisecond), WithOnSettled(onSettled))

	c.SetSearch("a")
	c.SetSearch("ab")
	c.SetSearch("abc")
	assert.Equal(t, PhaseDebouncing, c.Phase())

	waitSettled(t, settled)

	// Fast typing settles into exactly one effective change.
	calls := fetcher.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "abc", calls[0].Search)
	assert.Equal(t, 1, calls[0].Page)
	assert.Equal(t, PhaseSettled, c.Phase())
}

func TestSearchFlush(t *testing.T) {
	fetcher := &immediateFetcher{}
	onSettled, settled := settledCounter()
	c := NewController(fetcher, clientstate.NewMemStorage(), WithOnSettled(onSettled))

	// Default debounce is 500ms; Flush fires it immediately.
	c.SetSearch("widget")
	c.Flush()
	waitSettled(t, settled)

	require.Len(t, fetcher.Calls(), 1)
	assert.Equal(t, "widget", c.State().Search)
}

func TestStaleResponseDiscarded(t *testing.T) {
	fetcher := &gatedFetcher{}
	onSettled, settled := settledCounter()
	c := NewController(fetcher, clientstate.NewMemStorage(), WithOnSettled(onSettled))

	c.SetCategory("Books")
	c.SetSort("name")
	require.Eventually(t, func() bool { return fetcher.pending() == 2 },
		2*time.Second, time.Millisecond)

	newer := &models.ProductList{TotalProducts: 2}
	older := &models.ProductList{TotalProducts: 1}

	// The later request resolves first and wins.
	fetcher.release(1, newer)
	waitSettled(t, settled)

	// The superseded response arrives late and must be dropped.
	fetcher.release(0, older)
	time.Sleep(50 * time.Millisecond)

	page, err := c.Current()
	require.NoError(t, err)
	assert.Same(t, newer, page)
	assert.Empty(t, settled, "stale response must not settle again")
}

func TestCategoryAndSortResetPage(t *testing.T) {
	fetcher := &immediateFetcher{}
	onSettled, settled := settledCounter()
	c := NewController(fetcher, clientstate.NewMemStorage(), WithOnSettled(onSettled))

	c.SetPage(3)
	waitSettled(t, settled)
	assert.Equal(t, 3, c.State().Page)

	c.SetCategory("Books")
	waitSettled(t, settled)
	assert.Equal(t, 1, c.State().Page)

	c.SetPage(2)
	waitSettled(t, settled)

	c.SetSort("price_low")
	waitSettled(t, settled)
	assert.Equal(t, 1, c.State().Page)

	// Paging alone leaves the other filters untouched.
	c.SetPage(4)
	waitSettled(t, settled)
	st := c.State()
	assert.Equal(t, "Books", st.Category)
	assert.Equal(t, "price_low", st.Sort)
	assert.Equal(t, 4, st.Page)
}

func TestFilterStatePersistence(t *testing.T) {
	storage := clientstate.NewMemStorage()
	fetcher := &immediateFetcher{}
	onSettled, settled := settledCounter()

	c := NewController(fetcher, storage, WithOnSettled(onSettled))
	c.SetCategory("Sports")
	waitSettled(t, settled)
	c.SetPage(2)
	waitSettled(t, settled)

	// Returning to the view restores the exact prior filter state.
	restored := NewController(&immediateFetcher{}, storage)
	st := restored.State()
	assert.Equal(t, "Sports", st.Category)
	assert.Equal(t, 2, st.Page)
}

func TestClearFiltersRemovesPersistedState(t *testing.T) {
	storage := clientstate.NewMemStorage()
	fetcher := &immediateFetcher{}
	onSettled, settled := settledCounter()

	c := NewController(fetcher, storage, WithOnSettled(onSettled))
	c.SetCategory("Books")
	waitSettled(t, settled)

	c.ClearFilters()
	waitSettled(t, settled)

	assert.Equal(t, DefaultFilters(), c.State())
	_, ok := storage.Load("productsFilters")
	assert.False(t, ok)
}

func TestCorruptPersistedStateFallsBackToDefaults(t *testing.T) {
	storage := clientstate.NewMemStorage()
	storage.Save("productsFilters", []byte("][nonsense"))

	c := NewController(&immediateFetcher{}, storage)
	assert.Equal(t, DefaultFilters(), c.State())

	_, ok := storage.Load("productsFilters")
	assert.False(t, ok)
}
