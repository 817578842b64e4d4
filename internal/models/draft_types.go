package models

import "time"

// CarDetails holds the vehicle attribute form as the user filled it in.
// Values are kept as entered (picker labels, dotted thousands) until submission.
type CarDetails struct {
	Year         string `json:"year"`
	Kilometre    string `json:"kilometre"`
	HorsePower   string `json:"horsePower"`
	EngineSize   string `json:"engineSize"`
	BodyType     string `json:"bodyType"`
	Transmission string `json:"transmission"`
	FuelType     string `json:"fuelType"`
}

// Filled reports whether every required vehicle field has a value.
func (d CarDetails) Filled() bool {
	for _, v := range []string{d.Year, d.Kilometre, d.HorsePower, d.EngineSize, d.BodyType, d.Transmission, d.FuelType} {
		if v == "" {
			return false
		}
	}
	return true
}

// AdDraft is the in-progress state of the "post an ad" wizard.
type AdDraft struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Step        int           `json:"step"`
	Path        SelectionPath `json:"categoryPath"`
	CarDetails  CarDetails    `json:"carDetails"`
	Photos      []string      `json:"photos"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Address     string        `json:"address"`
	Latitude    float64       `json:"latitude"`
	Longitude   float64       `json:"longitude"`
	Price       string        `json:"price"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// AdPayload is the body posted to the listings API when an ad is submitted.
type AdPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        int64    `json:"price"`
	Currency     string   `json:"currency"`
	CategoryID   int64    `json:"categoryId"`
	Status       string   `json:"status"`
	Address      string   `json:"address"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Base64Images []string `json:"base64Images"`

	// --- Vehicle ads only ---
	Brand        string `json:"brand,omitempty"`
	Model        string `json:"model,omitempty"`
	Year         int64  `json:"year,omitempty"`
	Kilometre    int64  `json:"kilometre,omitempty"`
	HorsePower   int64  `json:"horsePower,omitempty"`
	EngineSize   int64  `json:"engineSize,omitempty"`
	BodyType     string `json:"bodyType,omitempty"`
	Transmission string `json:"transmission,omitempty"`
	FuelType     string `json:"fuelType,omitempty"`
}
