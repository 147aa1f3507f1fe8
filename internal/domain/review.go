package domain

import "time"

// Review is a rating left for a restaurant.
type Review struct {
	ID           int64     `json:"id"`
	RestaurantID int64     `json:"restaurantId"`
	Rating       int       `json:"rating"`
	Author       *string   `json:"author"`
	Comment      *string   `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}
