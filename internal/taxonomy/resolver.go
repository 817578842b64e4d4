package taxonomy

import (
	"sync"

	"github.com/01moynul/marketfeed/internal/models"
)

// Resolver holds the working category set: the general batch plus, once the Vehicles
// root has been picked, the vehicle-subcategory batch. Readers get snapshots.
type Resolver struct {
	mu        sync.RWMutex
	all       []models.Category
	navigable []models.Category
	// vehicles is set once the vehicle batch has been merged into the current set.
	vehicles bool
}

// NewResolver returns an empty resolver. An empty set is a valid, displayable state.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Replace swaps the whole working set for a freshly fetched batch.
func (r *Resolver) Replace(batch []models.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set(Dedupe(batch))
	r.vehicles = false
}

// Merge adds a secondary batch (vehicle subcategories) keeping ids unique.
// Entries already in the set win over the incoming ones.
func (r *Resolver) Merge(batch []models.Category) {
	if len(batch) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.merge(batch)
}

// MergeVehicles merges the vehicle-subcategory batch and records that it is present
// until the next Replace. The general batch may already hold shallow Vehicles children,
// so their presence says nothing about the vehicle batch.
func (r *Resolver) MergeVehicles(batch []models.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(batch) > 0 {
		r.merge(batch)
	}
	r.vehicles = true
}

// VehiclesLoaded reports whether MergeVehicles ran since the last Replace.
func (r *Resolver) VehiclesLoaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vehicles
}

func (r *Resolver) merge(batch []models.Category) {
	merged := make([]models.Category, 0, len(r.all)+len(batch))
	merged = append(merged, r.all...)
	merged = append(merged, batch...)
	r.set(Dedupe(merged))
}

func (r *Resolver) set(all []models.Category) {
	r.all = all
	r.navigable = Navigable(all)
}

// Snapshot returns a copy of the navigable categories.
func (r *Resolver) Snapshot() []models.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Category, len(r.navigable))
	copy(out, r.navigable)
	return out
}

// Len is the number of navigable categories.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.navigable)
}

func (r *Resolver) ChildrenOf(parentID *int64) []models.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return ChildrenOf(r.navigable, parentID)
}

func (r *Resolver) HasChildren(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return HasChildren(r.navigable, id)
}

func (r *Resolver) Find(id int64) (models.Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Find(r.navigable, id)
}
