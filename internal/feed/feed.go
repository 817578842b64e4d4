// Package feed is the integration boundary between the listings API and the pure
// taxonomy/filter code: it fetches, keeps the latest settled snapshot, and derives the
// filtered view.
package feed

import (
	"context"
	"errors"
	"log"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/01moynul/marketfeed/internal/filter"
	"github.com/01moynul/marketfeed/internal/models"
	"github.com/01moynul/marketfeed/internal/taxonomy"
	"golang.org/x/sync/errgroup"
)

// Source is the slice of the listings API the feed needs.
type Source interface {
	Categories(ctx context.Context) ([]models.CategoryNode, error)
	VehicleCategories(ctx context.Context) ([]models.CategoryNode, error)
	Search(ctx context.Context, token string, params url.Values) ([]models.Listing, error)
}

// Feed holds the category set, the last fetched listings and the active criteria.
// Searches are latest-wins: a response for a superseded request is dropped.
type Feed struct {
	src      Source
	token    string
	Resolver *taxonomy.Resolver

	gen      atomic.Uint64
	debounce *Debouncer

	mu       sync.RWMutex
	listings []models.Listing
	criteria models.FilterCriteria
}

// New builds a feed. debounce <= 0 uses DefaultDebounce.
func New(src Source, token string, debounce time.Duration) *Feed {
	return &Feed{
		src:      src,
		token:    token,
		Resolver: taxonomy.NewResolver(),
		debounce: NewDebouncer(debounce),
	}
}

// Refresh reloads categories and listings concurrently. A failed category fetch keeps
// the previous set; a failed listing fetch leaves an empty feed. The returned error is
// informational, the feed is usable either way.
func (f *Feed) Refresh(ctx context.Context) error {
	criteria := f.Criteria()
	var catErr, listErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		catErr = f.LoadCategories(gctx)
		return nil
	})
	g.Go(func() error {
		_, listErr = f.Search(gctx, criteria)
		return nil
	})
	_ = g.Wait()

	return errors.Join(catErr, listErr)
}

// LoadCategories replaces the working category set with a fresh fetch.
func (f *Feed) LoadCategories(ctx context.Context) error {
	nodes, err := f.src.Categories(ctx)
	if err != nil {
		log.Printf("feed: categories not loaded: %v", err)
		return err
	}
	f.Resolver.Replace(taxonomy.FlattenAll(nodes))
	return nil
}

// LoadVehicleCategories merges the vehicle-subcategory batch into the working set.
func (f *Feed) LoadVehicleCategories(ctx context.Context) error {
	nodes, err := f.src.VehicleCategories(ctx)
	if err != nil {
		log.Printf("feed: vehicle categories not loaded: %v", err)
		return err
	}
	f.Resolver.MergeVehicles(taxonomy.FlattenAll(nodes))
	return nil
}

// Search fetches listings for c and makes them current unless a newer search started
// meanwhile. It reports whether the result was kept.
func (f *Feed) Search(ctx context.Context, c models.FilterCriteria) (bool, error) {
	gen := f.gen.Add(1)

	listings, err := f.src.Search(ctx, f.token, filter.CoarseQuery(c))
	if err != nil {
		log.Printf("feed: search failed: %v", err)
		listings = nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen.Load() {
		return false, err
	}
	f.listings = listings
	f.criteria = c
	return true, err
}

// Update records new criteria and schedules a debounced search for them.
// done, if not nil, is called with the outcome of the search that actually ran.
func (f *Feed) Update(ctx context.Context, c models.FilterCriteria, done func(kept bool, err error)) {
	f.mu.Lock()
	f.criteria = c
	f.mu.Unlock()

	f.debounce.Trigger(func() {
		kept, err := f.Search(ctx, c)
		if done != nil {
			done(kept, err)
		}
	})
}

// Close drops any pending debounced search.
func (f *Feed) Close() {
	f.debounce.Stop()
}

// Criteria returns the active criteria.
func (f *Feed) Criteria() models.FilterCriteria {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.criteria
}

// View applies the active criteria to the current listings.
func (f *Feed) View() []models.Listing {
	f.mu.RLock()
	listings, criteria := f.listings, f.criteria
	f.mu.RUnlock()
	return filter.Apply(listings, criteria, f.Resolver.Snapshot())
}
