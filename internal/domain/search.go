package domain

// TemplateParam pairs a placeholder discovered in the template source with
// its catalog description.
type TemplateParam struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HitFields is the fields projection of one hit. The store represents every
// field value as an array even for scalars.
type HitFields map[string][]any

// SearchHits is the raw result page returned by the store for one templated
// search: the total-match count (approximate above the store's threshold,
// treated opaquely) and the projected fields of each hit.
type SearchHits struct {
	Total  int
	Fields []HitFields
}

// SearchRecord is the compact projection of one matched listing. Values keep
// the store's native type; absent fields carry the "N/A" sentinel.
type SearchRecord struct {
	Title            any `json:"title"`
	Tax              any `json:"tax"`
	MaintenanceFee   any `json:"maintenance_fee"`
	Bathrooms        any `json:"bathrooms"`
	Bedrooms         any `json:"bedrooms"`
	SquareFootage    any `json:"square_footage"`
	HomePrice        any `json:"home_price"`
	PropertyFeatures any `json:"property_features"`
}

// SearchOutcome is the shaped result of one templated search. Zero records
// with a nil error is the structured no-results outcome, not a failure.
type SearchOutcome struct {
	Total   int            `json:"total"`
	Records []SearchRecord `json:"results"`
}
