package catalog

func ptr(v float64) *float64 { return &v }

// Seed returns the built-in catalog used by the memory backend when no seed
// file is configured.
func Seed() Snapshot {
	return Snapshot{Regions: map[string][]Restaurant{
		"NY": {
			{
				Name:    "Halal Food NYC",
				Menu:    []string{"🍔 Burger", "🥙 Shawarma", "🍕 Pizza"},
				Address: "2nd Ave & E 53rd St, New York, NY",
				Phone:   "+1 212 555 0141",
				Lat:     ptr(40.7128),
				Lon:     ptr(-74.0060),
			},
		},
		"CA": {
			{
				Name:    "Halal LA",
				Menu:    []string{"🍗 Chicken", "🥗 Salad", "🍔 Burger"},
				Address: "Westwood Blvd, Los Angeles, CA",
				Phone:   "+1 310 555 0192",
				Lat:     ptr(34.0522),
				Lon:     ptr(-118.2437),
			},
		},
	}}
}
