package model

// SavedCountry represents a saved country row in the database.
// Pointer metrics allow distinguishing between "not supplied at save time"
// (nil) and an explicit zero growth rate.
type SavedCountry struct {
	ID               int64
	UserID           int64
	Country          string
	GrowthGDP        *float64
	GrowthPopulation *float64
	GrowthTotal      *float64
	SavedAt          string
}

// SaveCountryRequest represents a save/unsave API request.
type SaveCountryRequest struct {
	Country          string   `json:"country"`
	GrowthGDP        *float64 `json:"growthGDP"`
	GrowthPopulation *float64 `json:"growthPopulation"`
	GrowthTotal      *float64 `json:"growthTotal"`
	Action           string   `json:"action"`
}

// SavedCountryResponse represents a saved country in API responses.
// Absent metrics serialize as null, never as zero.
type SavedCountryResponse struct {
	Country          string   `json:"country"`
	GrowthGDP        *float64 `json:"growthGdp"`
	GrowthPopulation *float64 `json:"growthPopulation"`
	GrowthTotal      *float64 `json:"growthTotal"`
	SavedAt          string   `json:"savedAt"`
}

// SavedCountriesResponse wraps the saved-country listing payload.
type SavedCountriesResponse struct {
	Countries []SavedCountryResponse `json:"countries"`
}
