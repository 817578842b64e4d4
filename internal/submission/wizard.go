// Package submission drives the five-step "post an ad" form and turns a finished draft
// into the payload the listings API expects.
package submission

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/01moynul/marketfeed/internal/models"
	"github.com/01moynul/marketfeed/internal/taxonomy"
	"github.com/01moynul/marketfeed/internal/vehicle"
)

// Wizard steps.
const (
	StepCategory = iota + 1
	StepPhotos
	StepDetails
	StepAddress
	StepPrice
)

const (
	MaxPhotos         = 10
	MaxTitleLen       = 20
	MinDescriptionLen = 30

	currencyTRY  = "TRY"
	statusQueued = "Beklemede" // pending moderation
)

var (
	ErrCategoryIncomplete = errors.New("category selection is incomplete")
	ErrCarDetails         = errors.New("every vehicle detail is required")
	ErrNoPhotos           = errors.New("at least one photo is required")
	ErrTooManyPhotos      = fmt.Errorf("at most %d photos are allowed", MaxPhotos)
	ErrTitle              = fmt.Errorf("title must be 1-%d characters", MaxTitleLen)
	ErrDescription        = fmt.Errorf("description must be at least %d characters", MinDescriptionLen)
	ErrAddress            = errors.New("address is required")
	ErrLocation           = errors.New("a map location is required")
	ErrPrice              = errors.New("a valid price is required")
	ErrAtFirstStep        = errors.New("already at the first step")
	ErrAtLastStep         = errors.New("already at the last step")
)

// Wizard wraps a draft with the category set it is validated against.
type Wizard struct {
	Draft      *models.AdDraft
	Categories []models.Category
}

func New(d *models.AdDraft, categories []models.Category) *Wizard {
	if d.Step < StepCategory {
		d.Step = StepCategory
	}
	return &Wizard{Draft: d, Categories: categories}
}

// Selection restores the category drill-down state of the draft.
func (w *Wizard) Selection() *taxonomy.Selection {
	return taxonomy.RestoreSelection(w.Categories, w.Draft.Path)
}

// Select picks a category at the current drill-down level and stores the path.
// Leaving the Vehicles root discards the car-detail form.
func (w *Wizard) Select(level int, categoryID int64) (taxonomy.SelectResult, error) {
	sel := w.Selection()
	res, err := sel.SelectAt(w.Categories, level, categoryID)
	if err != nil {
		return res, err
	}
	w.Draft.Path = sel.Path()
	if !w.Draft.Path.IsVehicle() {
		w.Draft.CarDetails = models.CarDetails{}
	}
	return res, nil
}

// Back steps the category picker up one level.
func (w *Wizard) Back() {
	sel := w.Selection()
	sel.Back()
	w.Draft.Path = sel.Path()
}

// AddPhoto appends a photo reference.
func (w *Wizard) AddPhoto(ref string) error {
	if len(w.Draft.Photos) >= MaxPhotos {
		return ErrTooManyPhotos
	}
	w.Draft.Photos = append(w.Draft.Photos, ref)
	return nil
}

// CheckStep validates what the given step collects.
func (w *Wizard) CheckStep(step int) error {
	d := w.Draft
	switch step {
	case StepCategory:
		if !w.Selection().Complete(w.Categories, d.CarDetails) {
			return ErrCategoryIncomplete
		}
	case StepPhotos:
		if len(d.Photos) == 0 {
			return ErrNoPhotos
		}
		if len(d.Photos) > MaxPhotos {
			return ErrTooManyPhotos
		}
	case StepDetails:
		if n := utf8.RuneCountInString(d.Title); n == 0 || n > MaxTitleLen {
			return ErrTitle
		}
		if utf8.RuneCountInString(d.Description) < MinDescriptionLen {
			return ErrDescription
		}
	case StepAddress:
		if strings.TrimSpace(d.Address) == "" {
			return ErrAddress
		}
	case StepPrice:
		if _, ok := parsePrice(d.Price); !ok {
			return ErrPrice
		}
	}
	return nil
}

// Next validates the current step and advances.
func (w *Wizard) Next() error {
	if w.Draft.Step >= StepPrice {
		return ErrAtLastStep
	}
	if err := w.CheckStep(w.Draft.Step); err != nil {
		return err
	}
	w.Draft.Step++
	return nil
}

// Prev goes back one step.
func (w *Wizard) Prev() error {
	if w.Draft.Step <= StepCategory {
		return ErrAtFirstStep
	}
	w.Draft.Step--
	return nil
}

// Validate runs the full pre-submission checks in form order.
func (w *Wizard) Validate() error {
	d := w.Draft
	if len(d.Path) == 0 {
		return ErrCategoryIncomplete
	}
	if d.Path.IsVehicle() && !d.CarDetails.Filled() {
		return ErrCarDetails
	}
	for step := StepCategory; step <= StepPrice; step++ {
		if err := w.CheckStep(step); err != nil {
			return err
		}
		if step == StepAddress && (d.Latitude == 0 || d.Longitude == 0) {
			return ErrLocation
		}
	}
	return nil
}

// IsVehicle reports whether the draft posts to the cars endpoint.
func (w *Wizard) IsVehicle() bool {
	return w.Draft.Path.IsVehicle()
}

// Payload validates the draft and builds the request body. images are the encoded
// photos in draft order. Brand and model come from the names of the first two vehicle
// subcategory levels.
func (w *Wizard) Payload(images []string) (models.AdPayload, error) {
	if err := w.Validate(); err != nil {
		return models.AdPayload{}, err
	}
	d := w.Draft
	last, _ := d.Path.Last()
	price, _ := parsePrice(d.Price)

	p := models.AdPayload{
		Title:        strings.TrimSpace(d.Title),
		Description:  strings.TrimSpace(d.Description),
		Price:        price,
		Currency:     currencyTRY,
		CategoryID:   last,
		Status:       statusQueued,
		Address:      strings.TrimSpace(d.Address),
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		Base64Images: images,
	}
	if !d.Path.IsVehicle() {
		return p, nil
	}

	p.Brand = w.nameAt(1)
	p.Model = w.nameAt(2)
	car := d.CarDetails
	p.Year, _ = vehicle.LeadingNumber(car.Year)
	p.Kilometre, _ = vehicle.LeadingNumber(car.Kilometre)
	p.HorsePower, _ = vehicle.LeadingNumber(car.HorsePower)
	p.EngineSize, _ = vehicle.LeadingNumber(car.EngineSize)
	p.BodyType = car.BodyType
	p.Transmission = car.Transmission
	p.FuelType = car.FuelType
	return p, nil
}

func (w *Wizard) nameAt(level int) string {
	if level >= len(w.Draft.Path) {
		return ""
	}
	c, ok := taxonomy.Find(w.Categories, w.Draft.Path[level])
	if !ok {
		return ""
	}
	return c.Name
}

// parsePrice reads a whole price typed with dot thousands separators ("1.250.000").
func parsePrice(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range strings.ReplaceAll(s, ".", "") {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	return vehicle.LeadingNumber(s)
}
