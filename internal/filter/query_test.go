package filter

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/01moynul/marketfeed/internal/models"
)

func TestServerQuery(t *testing.T) {
	c := models.FilterCriteria{
		Keyword:        " bmw ",
		CategoryPath:   models.SelectionPath{1, 2},
		PriceRange:     &models.Range{Min: f(100000), Max: f(900000)},
		KmRange:        &models.Range{Max: f(120000)},
		ModelYearRange: &models.Range{Min: f(2015)},
		EnginePowers:   []string{"126 - 150 hp", "151 - 175 hp"},
		BodyType:       "Sedan",
	}
	got := ServerQuery(c)
	want := url.Values{
		"keyword":      {"bmw"},
		"categoryId":   {"2"},
		"minPrice":     {"100000"},
		"maxPrice":     {"900000"},
		"maxKm":        {"120000"},
		"minModelYear": {"2015"},
		"enginePowers": {"126 - 150 hp,151 - 175 hp"},
		"bodyType":     {"Sedan"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}
}

func TestCoarseQueryOnlyCategoryAndPrice(t *testing.T) {
	c := models.FilterCriteria{
		Keyword:      "x",
		CategoryPath: models.SelectionPath{1},
		PriceRange:   &models.Range{Max: f(50)},
		BodyType:     "SUV",
	}
	got := CoarseQuery(c)
	want := url.Values{"categoryId": {"1"}, "maxPrice": {"50"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if enc := CoarseQuery(models.FilterCriteria{}).Encode(); enc != "" {
		t.Errorf("empty criteria must encode to nothing, got %q", enc)
	}
}

func TestParseQueryRoundTrip(t *testing.T) {
	q, _ := url.ParseQuery("q=bmw&path=1,2&minPrice=100&maxKm=5000&enginePowers=26 - 50 hp&enginePowers=51 - 75 hp&fuelType=Dizel")
	c, err := ParseQuery(q)
	if err != nil {
		t.Fatal(err)
	}
	if c.Keyword != "bmw" || !reflect.DeepEqual(c.CategoryPath, models.SelectionPath{1, 2}) {
		t.Errorf("keyword/path: %+v", c)
	}
	if c.PriceRange == nil || *c.PriceRange.Min != 100 || c.PriceRange.Max != nil {
		t.Errorf("price: %+v", c.PriceRange)
	}
	if !reflect.DeepEqual(c.EnginePowers, []string{"26 - 50 hp", "51 - 75 hp"}) {
		t.Errorf("engine powers: %v", c.EnginePowers)
	}
	if c.FuelType != "Dizel" || c.KmRange == nil {
		t.Errorf("vehicle filters lost: %+v", c)
	}
}

func TestParseQueryDropsVehicleFiltersOutsideVehicles(t *testing.T) {
	q := url.Values{"categoryId": {"3"}, "bodyType": {"SUV"}, "minKm": {"10"}}
	c, err := ParseQuery(q)
	if err != nil {
		t.Fatal(err)
	}
	if c.BodyType != "" || c.KmRange != nil {
		t.Errorf("got %+v", c)
	}
}

func TestParseQueryErrors(t *testing.T) {
	for _, raw := range []string{"minPrice=abc", "path=1,x", "categoryId=car", "maxModelYear=20a"} {
		q, _ := url.ParseQuery(raw)
		if _, err := ParseQuery(q); err == nil {
			t.Errorf("ParseQuery(%q): expected error", raw)
		}
	}
	c, err := ParseQuery(url.Values{"minPrice": {""}, "keyword": {"  "}})
	if err != nil || !IsZero(c) {
		t.Errorf("blank values must be absent: %+v, %v", c, err)
	}
}
