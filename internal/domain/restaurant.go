package domain

// Restaurant is a venue owned by a registered user.
type Restaurant struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Cuisine     string  `json:"cuisine"`
	Address     string  `json:"address"`
	ZipCode     string  `json:"zipCode"`
	CountryCode string  `json:"countryCode"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

// RatedRestaurant is a restaurant with the mean of its review ratings.
// Rating is nil when the restaurant has no reviews.
type RatedRestaurant struct {
	Restaurant
	Rating *float64 `json:"rating"`
}

// AttachRatings joins ratings onto restaurants by id. Restaurants missing
// from ratings get a nil rating. The input order is preserved.
func AttachRatings(restaurants []Restaurant, ratings map[int64]float64) []RatedRestaurant {
	out := make([]RatedRestaurant, 0, len(restaurants))
	for _, r := range restaurants {
		rated := RatedRestaurant{Restaurant: r}
		if avg, ok := ratings[r.ID]; ok {
			rated.Rating = &avg
		}
		out = append(out, rated)
	}
	return out
}
