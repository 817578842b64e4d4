package models

// Listing is an advert as consumed by the filter pipeline.
// Vehicle attributes are already flattened out of the raw carDetail object and are
// only present for listings under the Vehicles category.
type Listing struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        *float64 `json:"price,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	CategoryID   int64    `json:"categoryId"`
	CategoryName string   `json:"categoryName,omitempty"`
	Location     string   `json:"location"`
	Address      string   `json:"address,omitempty"`
	SellerName   string   `json:"sellerName"`
	UserID       string   `json:"userId,omitempty"`
	Status       string   `json:"status,omitempty"`
	Latitude     float64  `json:"latitude,omitempty"`
	Longitude    float64  `json:"longitude,omitempty"`
	Images       []string `json:"images"`

	// --- Vehicle Detail (nil unless the raw listing carried a carDetail) ---
	HasVehicleDetail bool    `json:"hasVehicleDetail"`
	Brand            string  `json:"brand,omitempty"`
	Model            string  `json:"model,omitempty"`
	Km               *int64  `json:"km,omitempty"`
	ModelYear        *int64  `json:"modelYear,omitempty"`
	EnginePower      *string `json:"enginePower,omitempty"`
	EngineSize       *string `json:"engineSize,omitempty"`
	BodyType         *string `json:"bodyType,omitempty"`
	Transmission     *string `json:"transmission,omitempty"`
	FuelType         *string `json:"fuelType,omitempty"`
}
