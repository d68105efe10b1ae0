package search

// paramCatalog maps template placeholder names to the guidance shown to
// callers. The catalog is a static table kept in sync with
// data/search_template.mustache by hand; placeholder discovery is purely
// syntactic and never validates against this table. A placeholder missing
// here gets descriptionOmitted.
var paramCatalog = map[string]string{
	"query":     "Free-text description of the desired property",
	"latitude":  "Latitude of the search center, in degrees",
	"longitude": "Longitude of the search center, in degrees",
	"distance": "Search radius around the center, in miles. Defaults to 25 " +
		"when latitude and longitude are set without a distance",
	"tax":         "Real estate tax amount",
	"maintenance": "Maintenance fee amount",
	"bedrooms":    "Number of bedrooms",
	"bathrooms":   "Number of bathrooms",
	"square_footage": "Property square footage. If only a maximum is known, " +
		"set the minimum to 0",
	"home_price_min": "Minimum home price. If only a maximum price is known, set this to 0",
	"home_price_max": "Maximum home price",
	"property_features": "Home features such as AC, pool or updated kitchen, " +
		"listed as a single space-separated string, e.g. \"pool updated kitchen\"",
}

const descriptionOmitted = "description omitted"

func describeParam(name string) string {
	if d, ok := paramCatalog[name]; ok {
		return d
	}
	return descriptionOmitted
}
