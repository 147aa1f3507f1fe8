package domain

import "context"

// PlanRepository reads and updates subscription plans.
type PlanRepository interface {
	List(ctx context.Context) ([]Plan, error)
	GetByID(ctx context.Context, id int64) (*Plan, error)
	Update(ctx context.Context, plan Plan) error
}

// RoleRepository lists roles.
type RoleRepository interface {
	List(ctx context.Context) ([]Role, error)
}

// ReviewRepository lists and deletes reviews.
type ReviewRepository interface {
	List(ctx context.Context) ([]Review, error)
	Delete(ctx context.Context, id int64) error
}

// UserRepository reads users and updates their status flags.
type UserRepository interface {
	List(ctx context.Context) ([]PublicUser, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	UpdateStatus(ctx context.Context, status UserStatus) error
	UpdatePlan(ctx context.Context, userID, planID int64) error
}

// RestaurantRepository lists restaurants with their average rating.
type RestaurantRepository interface {
	ListWithRatings(ctx context.Context) ([]RatedRestaurant, error)
}

// RegistrationRepository persists a user with their restaurants atomically.
type RegistrationRepository interface {
	Register(ctx context.Context, user NewUser, restaurants []RestaurantDraft) (*RegistrationResult, error)
}

// MaintenanceRepository rebuilds the schema from a seed script.
type MaintenanceRepository interface {
	Reset(ctx context.Context, script string) error
}
