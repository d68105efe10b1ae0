package propsearch

// TemplateParam is one placeholder declared by the search template.
type TemplateParam struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GeoPoint is a geographic coordinate pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchRequest carries the template parameters for a search. Nil pointer
// fields are left unbound on the server side.
type SearchRequest struct {
	Query            string   `json:"query"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Distance         *int     `json:"distance,omitempty"`
	Tax              *float64 `json:"tax,omitempty"`
	Bedrooms         *int     `json:"bedrooms,omitempty"`
	Bathrooms        *float64 `json:"bathrooms,omitempty"`
	HomePriceMin     *float64 `json:"home_price_min,omitempty"`
	HomePriceMax     *float64 `json:"home_price_max,omitempty"`
	SquareFootage    *int     `json:"square_footage,omitempty"`
	PropertyFeatures *string  `json:"property_features,omitempty"`
	Maintenance      *float64 `json:"maintenance,omitempty"`
}

// Property is one search hit. Field values come back as the store holds
// them, so numeric fields may also carry the string "N/A" when the listing
// lacks the attribute.
type Property struct {
	Title            any `json:"title"`
	Tax              any `json:"tax"`
	MaintenanceFee   any `json:"maintenance_fee"`
	Bathrooms        any `json:"bathrooms"`
	Bedrooms         any `json:"bedrooms"`
	SquareFootage    any `json:"square_footage"`
	HomePrice        any `json:"home_price"`
	PropertyFeatures any `json:"property_features"`
}

// SearchResult is the outcome of a search.
type SearchResult struct {
	Message string     `json:"message"`
	Total   int        `json:"total"`
	Results []Property `json:"results"`
}

type paramsResponse struct {
	Message    string          `json:"message"`
	Parameters []TemplateParam `json:"parameters"`
}

type geocodeResponse struct {
	Message   string  `json:"message"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
