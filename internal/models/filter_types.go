package models

// Range is an inclusive numeric interval. A nil bound is unbounded on that side.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// IsEmpty reports whether neither bound is set.
func (r *Range) IsEmpty() bool {
	return r == nil || (r.Min == nil && r.Max == nil)
}

// Contains reports whether v lies within the inclusive bounds.
func (r *Range) Contains(v float64) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// FilterCriteria is the full set of user-specified constraints for the listing feed.
// The zero value applies no constraint at all.
type FilterCriteria struct {
	Keyword      string        `json:"keyword,omitempty"`
	CategoryPath SelectionPath `json:"categoryPath,omitempty"`
	PriceRange   *Range        `json:"priceRange,omitempty"`

	// --- Vehicle-only ---
	KmRange        *Range   `json:"kmRange,omitempty"`
	ModelYearRange *Range   `json:"modelYearRange,omitempty"`
	EnginePowers   []string `json:"enginePowers,omitempty"`
	EngineSizes    []string `json:"engineSizes,omitempty"`
	BodyType       string   `json:"bodyType,omitempty"`
	Transmission   string   `json:"transmission,omitempty"`
	FuelType       string   `json:"fuelType,omitempty"`
}
