package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/01moynul/marketfeed/internal/models"
)

// CoarseQuery builds the upstream search parameters the listings API filters on
// cheaply: category and price. The rest is left to Apply.
func CoarseQuery(c models.FilterCriteria) url.Values {
	q := url.Values{}
	if last, ok := c.CategoryPath.Last(); ok {
		q.Set("categoryId", strconv.FormatInt(last, 10))
	}
	setRange(q, "Price", c.PriceRange)
	return q
}

// ServerQuery serialises every set criterion to the upstream search parameters.
// Lists are comma-joined.
func ServerQuery(c models.FilterCriteria) url.Values {
	q := CoarseQuery(c)
	if kw := strings.TrimSpace(c.Keyword); kw != "" {
		q.Set("keyword", kw)
	}
	if !c.CategoryPath.IsVehicle() {
		return q
	}

	setRange(q, "Km", c.KmRange)
	setRange(q, "ModelYear", c.ModelYearRange)
	if len(c.EnginePowers) > 0 {
		q.Set("enginePowers", strings.Join(c.EnginePowers, ","))
	}
	if len(c.EngineSizes) > 0 {
		q.Set("engineSizes", strings.Join(c.EngineSizes, ","))
	}
	setString(q, "bodyType", c.BodyType)
	setString(q, "transmission", c.Transmission)
	setString(q, "fuelType", c.FuelType)
	return q
}

func setRange(q url.Values, suffix string, r *models.Range) {
	if r == nil {
		return
	}
	if r.Min != nil {
		q.Set("min"+suffix, strconv.FormatFloat(*r.Min, 'f', -1, 64))
	}
	if r.Max != nil {
		q.Set("max"+suffix, strconv.FormatFloat(*r.Max, 'f', -1, 64))
	}
}

func setString(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}

// ParseQuery reads criteria from request parameters. It accepts the upstream names
// plus "q" for the keyword and "path" (comma-separated ids) for the category path.
// Blank values are treated as absent.
func ParseQuery(q url.Values) (models.FilterCriteria, error) {
	var c models.FilterCriteria
	var err error

	c.Keyword = strings.TrimSpace(first(q, "keyword", "q"))

	if raw := first(q, "path"); raw != "" {
		for _, part := range splitList(raw) {
			id, perr := strconv.ParseInt(part, 10, 64)
			if perr != nil {
				return c, fmt.Errorf("invalid path entry %q", part)
			}
			c.CategoryPath = append(c.CategoryPath, id)
		}
	} else if raw := first(q, "categoryId"); raw != "" {
		id, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			return c, fmt.Errorf("invalid categoryId %q", raw)
		}
		c.CategoryPath = models.SelectionPath{id}
	}

	if c.PriceRange, err = parseRange(q, "Price"); err != nil {
		return c, err
	}
	if c.KmRange, err = parseRange(q, "Km"); err != nil {
		return c, err
	}
	if c.ModelYearRange, err = parseRange(q, "ModelYear"); err != nil {
		return c, err
	}

	c.EnginePowers = listParam(q, "enginePowers")
	c.EngineSizes = listParam(q, "engineSizes")
	c.BodyType = strings.TrimSpace(q.Get("bodyType"))
	c.Transmission = strings.TrimSpace(q.Get("transmission"))
	c.FuelType = strings.TrimSpace(q.Get("fuelType"))

	// Vehicle sub-filters only exist under the Vehicles root.
	return WithCategoryPath(c, c.CategoryPath), nil
}

func parseRange(q url.Values, suffix string) (*models.Range, error) {
	var r models.Range
	for _, b := range []struct {
		key string
		dst **float64
	}{{"min" + suffix, &r.Min}, {"max" + suffix, &r.Max}} {
		raw := strings.TrimSpace(q.Get(b.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", b.key, raw)
		}
		*b.dst = &v
	}
	if r.IsEmpty() {
		return nil, nil
	}
	return &r, nil
}

func first(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

// listParam accepts both "k=a,b" and repeated "k=a&k=b".
func listParam(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		out = append(out, splitList(v)...)
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
