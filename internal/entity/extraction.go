package entity

// EventCandidate is one structured event proposed by the extraction service
// for a fetched page. Field tags match the service's JSON wire format.
type EventCandidate struct {
	Name         string   `json:"event_name"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	LocationText string   `json:"location_text"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	PriceMin     *float64 `json:"price_min,omitempty"`
	PriceMax     *float64 `json:"price_max,omitempty"`
	Description  string   `json:"description"`
	Categories   []string `json:"categories"`
	ImageURL     string   `json:"image_url"`
}

// ExtractionResult is the extraction service's answer for one listing.
// It is ephemeral and never stored.
type ExtractionResult struct {
	Success bool             `json:"success"`
	Events  []EventCandidate `json:"events"`
	Error   string           `json:"error,omitempty"`
}
