// Package upstream talks to the listings API and normalizes its JSON.
//
// The API serialises object graphs with reference preservation: arrays arrive wrapped
// as {"$values": [...]}, nodes may carry "$id"/"$ref" instead of data, and carDetail is
// null for non-vehicle adverts. Everything here turns that into the flat models the
// taxonomy and filter packages work on.
package upstream

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/01moynul/marketfeed/internal/models"
	"github.com/01moynul/marketfeed/internal/taxonomy"
	"github.com/goccy/go-json"
)

// ErrMalformed reports a document without the expected array or envelope.
var ErrMalformed = errors.New("malformed upstream document")

// Labeler maps raw engine figures to the picker labels the filters use.
type Labeler interface {
	PowerLabel(hp int64) (string, bool)
	SizeLabel(cc int64) (string, bool)
}

type envelope struct {
	Values *[]json.RawMessage `json:"$values"`
}

// values unwraps a bare array or a {"$values": [...]} envelope.
func values(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}
	switch raw[0] {
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil, false
		}
		return arr, true
	case '{':
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Values == nil {
			return nil, false
		}
		return *env.Values, true
	}
	return nil, false
}

type rawCategory struct {
	ID       *int64          `json:"id"`
	Name     string          `json:"name"`
	Children json.RawMessage `json:"children"`
}

// DecodeCategories reads a category document: an envelope, a bare array, or a single
// root node (the vehicle-categories endpoint). Unreadable nodes are dropped.
func DecodeCategories(data []byte) ([]models.CategoryNode, error) {
	if items, ok := values(data); ok {
		return decodeNodes(items, 0), nil
	}

	var probe rawCategory
	if err := json.Unmarshal(data, &probe); err != nil || probe.ID == nil {
		return nil, ErrMalformed
	}
	n, _ := decodeNode(data, 0)
	return []models.CategoryNode{n}, nil
}

func decodeNodes(items []json.RawMessage, depth int) []models.CategoryNode {
	nodes := make([]models.CategoryNode, 0, len(items))
	for _, item := range items {
		if n, ok := decodeNode(item, depth); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func decodeNode(raw json.RawMessage, depth int) (models.CategoryNode, bool) {
	var rc rawCategory
	if err := json.Unmarshal(raw, &rc); err != nil || depth >= taxonomy.MaxDepth {
		return models.CategoryNode{}, false
	}
	n := models.CategoryNode{ID: rc.ID, Name: rc.Name}
	if kids, ok := values(rc.Children); ok {
		n.Children = decodeNodes(kids, depth+1)
	}
	return n, true
}

type rawImage struct {
	URL string `json:"url"`
}

type rawCarDetail struct {
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         *int64 `json:"year"`
	Kilometre    *int64 `json:"kilometre"`
	HorsePower   *int64 `json:"horsePower"`
	EngineSize   *int64 `json:"engineSize"`
	BodyType     string `json:"bodyType"`
	Transmission string `json:"transmission"`
	FuelType     string `json:"fuelType"`
}

type rawListing struct {
	ID           json.RawMessage `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Price        json.RawMessage `json:"price"`
	Currency     string          `json:"currency"`
	CategoryID   json.RawMessage `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Location     string          `json:"location"`
	Address      string          `json:"address"`
	SellerName   string          `json:"sellerName"`
	UserID       string          `json:"userId"`
	Status       string          `json:"status"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	Images       json.RawMessage `json:"images"`
	ImageURLs    json.RawMessage `json:"imageUrls"`
	CarDetail    *rawCarDetail   `json:"carDetail"`
}

// DecodeListings reads a listing document (envelope or bare array) and flattens the
// vehicle detail into scalar fields. labels may be nil.
func DecodeListings(data []byte, labels Labeler) ([]models.Listing, error) {
	items, ok := values(data)
	if !ok {
		return nil, ErrMalformed
	}

	out := make([]models.Listing, 0, len(items))
	for _, item := range items {
		var rl rawListing
		if err := json.Unmarshal(item, &rl); err != nil {
			continue
		}
		out = append(out, normalizeListing(rl, labels))
	}
	return out, nil
}

func normalizeListing(rl rawListing, labels Labeler) models.Listing {
	l := models.Listing{
		ID:           rawID(rl.ID),
		Title:        rl.Title,
		Description:  rl.Description,
		Price:        rawFloat(rl.Price),
		Currency:     rl.Currency,
		CategoryID:   rawInt(rl.CategoryID),
		CategoryName: rl.CategoryName,
		Location:     rl.Location,
		Address:      rl.Address,
		SellerName:   rl.SellerName,
		UserID:       rl.UserID,
		Status:       rl.Status,
		Latitude:     rl.Latitude,
		Longitude:    rl.Longitude,
		Images:       imageURLs(rl),
	}

	cd := rl.CarDetail
	if cd == nil {
		return l
	}
	l.HasVehicleDetail = true
	l.Brand = cd.Brand
	l.Model = cd.Model
	l.Km = cd.Kilometre
	l.ModelYear = cd.Year
	if cd.HorsePower != nil {
		l.EnginePower = engineLabel(*cd.HorsePower, labels, Labeler.PowerLabel)
	}
	if cd.EngineSize != nil {
		l.EngineSize = engineLabel(*cd.EngineSize, labels, Labeler.SizeLabel)
	}
	l.BodyType = lowerOrNil(cd.BodyType)
	l.Transmission = lowerOrNil(cd.Transmission)
	l.FuelType = lowerOrNil(cd.FuelType)
	return l
}

// engineLabel prefers the catalogue band; values outside every band keep their digits.
func engineLabel(v int64, labels Labeler, lookup func(Labeler, int64) (string, bool)) *string {
	s := strconv.FormatInt(v, 10)
	if labels != nil {
		if label, ok := lookup(labels, v); ok {
			s = label
		}
	}
	return &s
}

func lowerOrNil(s string) *string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	return &s
}

func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// rawNumber returns the text of a number sent either bare or quoted.
func rawNumber(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	return string(raw), true
}

// rawFloat reads a price; an unreadable value is treated as absent.
func rawFloat(raw json.RawMessage) *float64 {
	s, ok := rawNumber(raw)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func rawInt(raw json.RawMessage) int64 {
	s, ok := rawNumber(raw)
	if !ok {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func imageURLs(rl rawListing) []string {
	urls := []string{}
	if items, ok := values(rl.Images); ok {
		for _, item := range items {
			var img rawImage
			if err := json.Unmarshal(item, &img); err == nil && img.URL != "" {
				urls = append(urls, img.URL)
			}
		}
	}
	if items, ok := values(rl.ImageURLs); ok {
		for _, item := range items {
			var u string
			if err := json.Unmarshal(item, &u); err == nil && u != "" {
				urls = append(urls, u)
			}
		}
	}
	return urls
}
