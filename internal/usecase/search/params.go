package search

import "fmt"

// defaultDistanceMiles is injected when a caller supplies coordinates
// without an explicit radius.
const defaultDistanceMiles = 25

// Params are the caller-supplied template parameters. Nil pointer fields are
// unbound and never reach the template.
type Params struct {
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

// Normalize applies the binding rules and returns only bound parameters:
//  1. coordinates without a distance get defaultDistanceMiles,
//  2. a distance is formatted with the unit suffix the store expects,
//  3. unset parameters are pruned entirely; the template must tolerate any
//     subset of its placeholders being unbound.
func (p Params) Normalize() map[string]any {
	distance := p.Distance
	if p.Latitude != nil && p.Longitude != nil && distance == nil {
		d := defaultDistanceMiles
		distance = &d
	}

	bound := map[string]any{}
	if p.Query != "" {
		bound["query"] = p.Query
	}
	if p.Latitude != nil {
		bound["latitude"] = *p.Latitude
	}
	if p.Longitude != nil {
		bound["longitude"] = *p.Longitude
	}
	if distance != nil {
		bound["distance"] = fmt.Sprintf("%dmi", *distance)
	}
	if p.Tax != nil {
		bound["tax"] = *p.Tax
	}
	if p.Bedrooms != nil {
		bound["bedrooms"] = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		bound["bathrooms"] = *p.Bathrooms
	}
	if p.HomePriceMin != nil {
		bound["home_price_min"] = *p.HomePriceMin
	}
	if p.HomePriceMax != nil {
		bound["home_price_max"] = *p.HomePriceMax
	}
	if p.SquareFootage != nil {
		bound["square_footage"] = *p.SquareFootage
	}
	if p.PropertyFeatures != nil {
		bound["property_features"] = *p.PropertyFeatures
	}
	if p.Maintenance != nil {
		bound["maintenance"] = *p.Maintenance
	}
	return bound
}
