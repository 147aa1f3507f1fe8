package domain

import "strings"

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

// RestaurantDraft describes a restaurant to create during registration.
type RestaurantDraft struct {
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Cuisine     string  `json:"cuisine"`
	Address     string  `json:"address"`
	ZipCode     string  `json:"zipCode"`
	CountryCode string  `json:"countryCode"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

// Registration is the payload that creates a user and their restaurants.
type Registration struct {
	FirstName     string            `json:"firstName"`
	LastName      string            `json:"lastName"`
	Email         string            `json:"email"`
	Password      string            `json:"password"`
	PlanID        int64             `json:"planId"`
	AnnualPayment bool              `json:"annualPayment"`
	Restaurants   []RestaurantDraft `json:"restaurants"`
}

// Normalize trims the free-text fields in place.
func (r *Registration) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	for i := range r.Restaurants {
		d := &r.Restaurants[i]
		d.Name = strings.TrimSpace(d.Name)
		d.City = strings.TrimSpace(d.City)
		d.Cuisine = strings.TrimSpace(d.Cuisine)
		d.Address = strings.TrimSpace(d.Address)
		d.ZipCode = strings.TrimSpace(d.ZipCode)
		d.CountryCode = strings.TrimSpace(d.CountryCode)
	}
}

// Validate performs presence checks only. It returns a short reason suitable
// for the response body, or "" when the payload is acceptable.
func (r Registration) Validate() string {
	switch {
	case r.FirstName == "" || r.LastName == "":
		return "firstName and lastName are required"
	case r.Email == "":
		return "email is required"
	case r.Password == "":
		return "password is required"
	case len(r.Password) > MaxPasswordBytes:
		return "password must be at most 72 bytes"
	case r.PlanID <= 0:
		return "planId is required"
	case len(r.Restaurants) == 0:
		return "at least one restaurant is required"
	}
	for _, d := range r.Restaurants {
		if d.Name == "" {
			return "restaurant name is required"
		}
	}
	return ""
}

// NewUser is the user row produced by a registration.
type NewUser struct {
	FirstName     string
	LastName      string
	Email         string
	PasswordHash  string
	RoleID        int64
	PlanID        int64
	IsActive      bool
	AnnualPayment bool
}

// RegistrationResult reports the ids created by a registration.
type RegistrationResult struct {
	UserID        int64
	RestaurantIDs []int64
}
