package vehicle

import (
	"testing"
	"time"
)

func TestLoadCatalogue(t *testing.T) {
	o, err := Load(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(o.BodyTypes) != 7 || len(o.Transmissions) != 4 || len(o.FuelTypes) != 6 {
		t.Errorf("unexpected list sizes: %d %d %d", len(o.BodyTypes), len(o.Transmissions), len(o.FuelTypes))
	}
	if len(o.EnginePowers) != 25 {
		t.Errorf("engine powers: got %d, want 25", len(o.EnginePowers))
	}
	if o.ModelYears[0] != "2025" || o.ModelYears[len(o.ModelYears)-1] != "1960" {
		t.Errorf("model years: %s .. %s", o.ModelYears[0], o.ModelYears[len(o.ModelYears)-1])
	}
}

func TestBucketLabels(t *testing.T) {
	o := MustLoad(time.Now())

	tests := []struct {
		hp   int64
		want string
	}{
		{10, "25 hp'ye kadar"},
		{25, "25 hp'ye kadar"},
		{150, "126 - 150 hp"},
		{151, "151 - 175 hp"},
		{900, "601 hp ve üzeri"},
	}
	for _, tt := range tests {
		got, ok := o.PowerLabel(tt.hp)
		if !ok || got != tt.want {
			t.Errorf("PowerLabel(%d) = %q, %v; want %q", tt.hp, got, ok, tt.want)
		}
	}

	if _, ok := o.SizeLabel(1250); ok {
		t.Error("1250 cm³ falls in no catalogue band")
	}
	if got, _ := o.SizeLabel(1598); got != "1301 - 1600 cm³" {
		t.Errorf("SizeLabel(1598) = %q", got)
	}
}

func TestLeadingNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"126 - 150 hp", 126, true},
		{"25 hp'ye kadar", 25, true},
		{"85.000", 85000, true},
		{" 2019 ", 2019, true},
		{"", 0, false},
		{"hp", 0, false},
	}
	for _, tt := range tests {
		got, ok := LeadingNumber(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("LeadingNumber(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
