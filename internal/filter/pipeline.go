// Package filter applies a FilterCriteria to a listing collection.
//
// Every predicate is conjunctive and an absent criterion never excludes a listing.
// A listing missing an attribute that an active predicate needs is excluded.
package filter

import (
	"strconv"
	"strings"

	"github.com/01moynul/marketfeed/internal/models"
)

// predicate reports whether a listing passes one criterion.
type predicate func(l *models.Listing) bool

// Stage is one named predicate of the pipeline.
type Stage struct {
	Name string
	keep predicate
}

// Keep reports whether l passes the stage.
func (s Stage) Keep(l *models.Listing) bool { return s.keep(l) }

// Apply returns the listings matching every specified criterion, in input order.
// categories resolves category names for the keyword search and may be nil.
func Apply(listings []models.Listing, c models.FilterCriteria, categories []models.Category) []models.Listing {
	stages := Stages(c, categories)
	out := make([]models.Listing, 0, len(listings))

next:
	for i := range listings {
		for _, s := range stages {
			if !s.keep(&listings[i]) {
				continue next
			}
		}
		out = append(out, listings[i])
	}
	return out
}

// Stages lists the active predicates in evaluation order: keyword, category, price,
// then the vehicle-only ones when the path is rooted at Vehicles.
func Stages(c models.FilterCriteria, categories []models.Category) []Stage {
	var stages []Stage

	if kw := strings.ToLower(strings.TrimSpace(c.Keyword)); kw != "" {
		stages = append(stages, Stage{"keyword", keywordPredicate(kw, categoryNames(categories))})
	}
	if last, ok := c.CategoryPath.Last(); ok {
		stages = append(stages, Stage{"category", categoryPredicate(last)})
	}
	if !c.PriceRange.IsEmpty() {
		r := c.PriceRange
		stages = append(stages, Stage{"price", func(l *models.Listing) bool {
			return l.Price != nil && r.Contains(*l.Price)
		}})
	}

	if !c.CategoryPath.IsVehicle() {
		return stages
	}

	if !c.KmRange.IsEmpty() {
		stages = append(stages, Stage{"km", intRangePredicate(c.KmRange, func(l *models.Listing) *int64 { return l.Km })})
	}
	if !c.ModelYearRange.IsEmpty() {
		stages = append(stages, Stage{"modelYear", intRangePredicate(c.ModelYearRange, func(l *models.Listing) *int64 { return l.ModelYear })})
	}
	if len(c.EnginePowers) > 0 {
		stages = append(stages, Stage{"enginePower", memberPredicate(c.EnginePowers, func(l *models.Listing) *string { return l.EnginePower })})
	}
	if len(c.EngineSizes) > 0 {
		stages = append(stages, Stage{"engineSize", memberPredicate(c.EngineSizes, func(l *models.Listing) *string { return l.EngineSize })})
	}
	if c.BodyType != "" {
		stages = append(stages, Stage{"bodyType", exactPredicate(c.BodyType, func(l *models.Listing) *string { return l.BodyType })})
	}
	if c.Transmission != "" {
		stages = append(stages, Stage{"transmission", exactPredicate(c.Transmission, func(l *models.Listing) *string { return l.Transmission })})
	}
	if c.FuelType != "" {
		stages = append(stages, Stage{"fuelType", exactPredicate(c.FuelType, func(l *models.Listing) *string { return l.FuelType })})
	}
	return stages
}

func categoryNames(categories []models.Category) map[int64]string {
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		if _, ok := names[c.ID]; !ok {
			names[c.ID] = strings.ToLower(c.Name)
		}
	}
	return names
}

func keywordPredicate(kw string, names map[int64]string) predicate {
	return func(l *models.Listing) bool {
		fields := []string{l.Title, l.Description, l.Location, l.SellerName}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), kw) {
				return true
			}
		}
		if l.Price != nil && strings.Contains(strconv.FormatFloat(*l.Price, 'f', -1, 64), kw) {
			return true
		}
		name := names[l.CategoryID]
		if name == "" {
			name = strings.ToLower(l.CategoryName)
		}
		return strings.Contains(name, kw)
	}
}

// categoryPredicate matches the deepest selected id. The Vehicles root on its own
// matches every listing that carries a vehicle detail.
func categoryPredicate(last int64) predicate {
	if last == models.VehiclesCategoryID {
		return func(l *models.Listing) bool { return l.HasVehicleDetail }
	}
	return func(l *models.Listing) bool { return l.CategoryID == last }
}

func intRangePredicate(r *models.Range, get func(*models.Listing) *int64) predicate {
	return func(l *models.Listing) bool {
		v := get(l)
		return v != nil && r.Contains(float64(*v))
	}
}

func memberPredicate(set []string, get func(*models.Listing) *string) predicate {
	want := make(map[string]struct{}, len(set))
	for _, s := range set {
		want[s] = struct{}{}
	}
	return func(l *models.Listing) bool {
		v := get(l)
		if v == nil {
			return false
		}
		_, ok := want[*v]
		return ok
	}
}

func exactPredicate(want string, get func(*models.Listing) *string) predicate {
	return func(l *models.Listing) bool {
		v := get(l)
		return v != nil && strings.EqualFold(*v, want)
	}
}

// Reset clears every criterion. It exists so callers reset through one place.
func Reset(models.FilterCriteria) models.FilterCriteria {
	return models.FilterCriteria{}
}

// WithCategoryPath sets the category path. Leaving the Vehicles root drops the
// vehicle-only sub-filters, which mean nothing outside it.
func WithCategoryPath(c models.FilterCriteria, path models.SelectionPath) models.FilterCriteria {
	c.CategoryPath = append(models.SelectionPath(nil), path...)
	if !c.CategoryPath.IsVehicle() {
		c = clearVehicle(c)
	}
	if len(c.CategoryPath) == 0 {
		c.CategoryPath = nil
	}
	return c
}

func clearVehicle(c models.FilterCriteria) models.FilterCriteria {
	c.KmRange = nil
	c.ModelYearRange = nil
	c.EnginePowers = nil
	c.EngineSizes = nil
	c.BodyType = ""
	c.Transmission = ""
	c.FuelType = ""
	return c
}

// IsZero reports whether no criterion is set.
func IsZero(c models.FilterCriteria) bool {
	return strings.TrimSpace(c.Keyword) == "" &&
		len(c.CategoryPath) == 0 &&
		c.PriceRange.IsEmpty() &&
		c.KmRange.IsEmpty() &&
		c.ModelYearRange.IsEmpty() &&
		len(c.EnginePowers) == 0 &&
		len(c.EngineSizes) == 0 &&
		c.BodyType == "" && c.Transmission == "" && c.FuelType == ""
}
