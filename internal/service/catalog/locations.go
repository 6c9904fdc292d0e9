package catalog

import "github.com/seu-repo/vending-fleet/internal/domain"

var locations = []domain.Location{
	{ID: "LOC-01", Name: "Central Station", City: "Chicago", Latitude: 41.8786, Longitude: -87.6403},
	{ID: "LOC-02", Name: "Riverside Campus", City: "Austin", Latitude: 30.2849, Longitude: -97.7341},
	{ID: "LOC-03", Name: "Harbor Mall", City: "Seattle", Latitude: 47.6062, Longitude: -122.3321},
	{ID: "LOC-04", Name: "Airport Terminal B", City: "Denver", Latitude: 39.8561, Longitude: -104.6737},
	{ID: "LOC-05", Name: "Tech Park Tower", City: "San Jose", Latitude: 37.3382, Longitude: -121.8863},
}

// Locations returns the fixed site list. Each call returns a fresh slice.
func Locations() []domain.Location {
	out := make([]domain.Location, len(locations))
	copy(out, locations)
	return out
}
