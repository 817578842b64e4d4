// Package vehicle holds the fixed option lists of the car-detail form and filter panel.
package vehicle

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed options.yaml
var optionsYAML []byte

// Bucket is a labelled numeric band such as "126 - 150 hp". A nil Max is open-ended.
type Bucket struct {
	Label string `yaml:"label" json:"label"`
	Min   int64  `yaml:"min" json:"min"`
	Max   *int64 `yaml:"max,omitempty" json:"max,omitempty"`
}

// Contains reports whether v falls inside the band.
func (b Bucket) Contains(v int64) bool {
	return v >= b.Min && (b.Max == nil || v <= *b.Max)
}

// Options is the catalogue served to the form pickers.
type Options struct {
	BodyTypes     []string `yaml:"bodyTypes" json:"bodyTypes"`
	Transmissions []string `yaml:"transmissions" json:"transmissions"`
	FuelTypes     []string `yaml:"fuelTypes" json:"fuelTypes"`
	EnginePowers  []Bucket `yaml:"enginePowers" json:"enginePowers"`
	EngineSizes   []Bucket `yaml:"engineSizes" json:"engineSizes"`
	ModelYears    []string `yaml:"-" json:"modelYears"`
}

// Load parses the embedded catalogue and fills the model years for now.
func Load(now time.Time) (*Options, error) {
	var o Options
	if err := yaml.Unmarshal(optionsYAML, &o); err != nil {
		return nil, fmt.Errorf("failed to parse vehicle options: %w", err)
	}
	o.ModelYears = ModelYears(now)
	return &o, nil
}

// MustLoad is Load for program start-up.
func MustLoad(now time.Time) *Options {
	o, err := Load(now)
	if err != nil {
		panic(err)
	}
	return o
}

// yearSpan is how many model years the year picker offers.
const yearSpan = 66

// ModelYears lists years from now's year downwards.
func ModelYears(now time.Time) []string {
	years := make([]string, 0, yearSpan)
	for y := now.Year(); y > now.Year()-yearSpan; y-- {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// PowerLabel maps a horse power value to its picker label.
func (o *Options) PowerLabel(hp int64) (string, bool) {
	return label(o.EnginePowers, hp)
}

// SizeLabel maps an engine size in cm³ to its picker label.
func (o *Options) SizeLabel(cc int64) (string, bool) {
	return label(o.EngineSizes, cc)
}

func label(buckets []Bucket, v int64) (string, bool) {
	for _, b := range buckets {
		if b.Contains(v) {
			return b.Label, true
		}
	}
	return "", false
}

// LeadingNumber reads the number a picker label starts with, ignoring the dots used as
// thousands separators: "126 - 150 hp" gives 126, "85.000" gives 85000.
func LeadingNumber(s string) (int64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
