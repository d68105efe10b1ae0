package domain

// GeoPoint is a resolved latitude/longitude pair in degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ValidCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func (p GeoPoint) ValidCoordinates() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}
