package upstream

import (
	"errors"
	"testing"
	"time"

	"github.com/01moynul/marketfeed/internal/taxonomy"
	"github.com/01moynul/marketfeed/internal/vehicle"
)

const categoriesDoc = `{
  "$id": "1",
  "$values": [
    {"$id": "2", "id": 1, "name": "Vasıta", "children": {"$id": "3", "$values": [
      {"$id": "4", "id": 2, "name": "Otomobil", "children": {"$values": []}},
      {"$ref": "4"}
    ]}},
    {"$id": "5", "id": 3, "name": "Emlak", "children": [{"id": 30, "name": "Konut"}]},
    {"id": "not-a-number", "name": "bad"}
  ]
}`

func TestDecodeCategoriesEnvelope(t *testing.T) {
	nodes, err := DecodeCategories([]byte(categoriesDoc))
	if err != nil {
		t.Fatal(err)
	}
	flat := taxonomy.Dedupe(taxonomy.FlattenAll(nodes))
	var got []int64
	for _, c := range flat {
		got = append(got, c.ID)
	}
	want := []int64{1, 2, 3, 30}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDecodeCategoriesSingleRoot(t *testing.T) {
	nodes, err := DecodeCategories([]byte(`{"id": 1, "name": "Vasıta", "children": {"$values": [{"id": 2, "name": "Otomobil"}]}}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 || len(nodes[0].Children) != 1 {
		t.Errorf("got %+v", nodes)
	}
}

func TestDecodeCategoriesMalformed(t *testing.T) {
	for _, doc := range []string{``, `null`, `{"message": "oops"}`, `"text"`, `{"$values": 3}`} {
		nodes, err := DecodeCategories([]byte(doc))
		if !errors.Is(err, ErrMalformed) || nodes != nil {
			t.Errorf("DecodeCategories(%q) = %v, %v; want ErrMalformed", doc, nodes, err)
		}
	}
}

const listingsDoc = `{"$values": [
  {"id": 7, "title": "Temiz BMW", "price": 850000, "categoryId": 2, "sellerName": "Ayşe",
   "images": {"$values": [{"url": "https://cdn/1.jpg"}]},
   "carDetail": {"brand": "BMW", "model": "320i", "year": 2019, "kilometre": 85000, "horsePower": 170,
                 "engineSize": 1598, "bodyType": "Sedan", "transmission": "Otomatik", "fuelType": "Benzin"}},
  {"id": "b-2", "title": "Daire", "price": 4500000, "categoryId": 3, "carDetail": null,
   "imageUrls": {"$values": ["https://cdn/2.jpg"]}},
  {"id": 9, "title": "Motor", "categoryId": 2, "carDetail": {"horsePower": 1250, "engineSize": 1250}}
]}`

func TestDecodeListingsFlattensCarDetail(t *testing.T) {
	ls, err := DecodeListings([]byte(listingsDoc), vehicle.MustLoad(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if len(ls) != 3 {
		t.Fatalf("got %d listings, want 3", len(ls))
	}

	car := ls[0]
	if car.ID != "7" || !car.HasVehicleDetail || *car.Km != 85000 || *car.ModelYear != 2019 {
		t.Errorf("car: %+v", car)
	}
	if *car.EnginePower != "151 - 175 hp" || *car.EngineSize != "1301 - 1600 cm³" {
		t.Errorf("engine labels: %q %q", *car.EnginePower, *car.EngineSize)
	}
	if *car.BodyType != "sedan" || *car.Transmission != "otomatik" || *car.FuelType != "benzin" {
		t.Errorf("lowercased enums: %q %q %q", *car.BodyType, *car.Transmission, *car.FuelType)
	}
	if len(car.Images) != 1 || car.Images[0] != "https://cdn/1.jpg" {
		t.Errorf("images: %v", car.Images)
	}

	flat := ls[1]
	if flat.ID != "b-2" || flat.HasVehicleDetail || flat.Km != nil || flat.BodyType != nil {
		t.Errorf("flat: %+v", flat)
	}
	if len(flat.Images) != 1 {
		t.Errorf("imageUrls envelope: %v", flat.Images)
	}

	odd := ls[2]
	if *odd.EnginePower != "601 hp ve üzeri" || *odd.EngineSize != "1250" {
		t.Errorf("out-of-band size keeps digits: %q %q", *odd.EnginePower, *odd.EngineSize)
	}
	if odd.Price != nil || odd.BodyType != nil {
		t.Errorf("missing fields must stay absent: %+v", odd)
	}
}

func TestDecodeListingsQuotedNumbers(t *testing.T) {
	doc := `[
	  {"id": "q-1", "title": "Arsa", "price": "1250000.5", "categoryId": "32"},
	  {"id": "q-2", "title": "Bağ evi", "price": "", "categoryId": null},
	  {"id": "q-3", "title": "Tarla", "price": "pazarlık", "categoryId": 32}
	]`
	ls, err := DecodeListings([]byte(doc), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(ls) != 3 {
		t.Fatalf("got %d listings, want 3 (quoted numbers must not drop a listing)", len(ls))
	}
	if ls[0].Price == nil || *ls[0].Price != 1250000.5 || ls[0].CategoryID != 32 {
		t.Errorf("quoted price and category: %+v", ls[0])
	}
	if ls[1].Price != nil || ls[1].CategoryID != 0 {
		t.Errorf("empty values must stay absent: %+v", ls[1])
	}
	if ls[2].Price != nil || ls[2].CategoryID != 32 {
		t.Errorf("unreadable price must stay absent: %+v", ls[2])
	}
}

func TestDecodeListingsMalformed(t *testing.T) {
	if _, err := DecodeListings([]byte(`{"error": "x"}`), nil); !errors.Is(err, ErrMalformed) {
		t.Errorf("got %v, want ErrMalformed", err)
	}
	ls, err := DecodeListings([]byte(`[]`), nil)
	if err != nil || len(ls) != 0 {
		t.Errorf("empty array is valid: %v %v", ls, err)
	}
}
