// Package propsearch provides a Go client for the propsearch property
// listing service: template parameter discovery, address geocoding and
// templated property search.
//
//	client := propsearch.New("http://localhost:8080")
//	params, _ := client.TemplateParams(ctx)
//	pt, _ := client.Geocode(ctx, "Miami Beach")
//	res, _ := client.Search(ctx, propsearch.SearchRequest{
//	    Query:     "waterfront condo",
//	    Latitude:  &pt.Latitude,
//	    Longitude: &pt.Longitude,
//	})
package propsearch
