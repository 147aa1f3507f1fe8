package repo

import (
	"context"
	"fmt"

	"restoplan/internal/domain"
	"restoplan/internal/infra"
	"restoplan/internal/sqlinline"
)

// RegistrationRepositoryPG creates a user, their restaurants and the link rows
// in a single transaction.
type RegistrationRepositoryPG struct {
	sql infra.TxExecutor
}

func NewRegistrationRepository(sql infra.TxExecutor) *RegistrationRepositoryPG {
	return &RegistrationRepositoryPG{sql: sql}
}

// Register returns domain.ErrConflict for a duplicate email and
// domain.ErrInvalidReference for an unknown plan or role. Nothing is written
// when any step fails.
func (r *RegistrationRepositoryPG) Register(ctx context.Context, user domain.NewUser, restaurants []domain.RestaurantDraft) (*domain.RegistrationResult, error) {
	var result domain.RegistrationResult
	err := r.sql.InTx(ctx, func(tx infra.SQLExecutor) error {
		if err := tx.QueryRow(ctx, sqlinline.QInsertUser,
			user.FirstName,
			user.LastName,
			user.Email,
			user.PasswordHash,
			user.RoleID,
			user.PlanID,
			user.IsActive,
			user.AnnualPayment,
		).Scan(&result.UserID); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		result.RestaurantIDs = make([]int64, 0, len(restaurants))
		for i, d := range restaurants {
			var restaurantID int64
			if err := tx.QueryRow(ctx, sqlinline.QInsertRestaurant,
				d.Name,
				d.City,
				d.Cuisine,
				d.Address,
				d.ZipCode,
				d.CountryCode,
				d.Description,
				d.ImageURL,
			).Scan(&restaurantID); err != nil {
				return fmt.Errorf("insert restaurant %d: %w", i, err)
			}
			if _, err := tx.Exec(ctx, sqlinline.QInsertUserRestaurant, result.UserID, restaurantID); err != nil {
				return fmt.Errorf("link restaurant %d: %w", restaurantID, err)
			}
			result.RestaurantIDs = append(result.RestaurantIDs, restaurantID)
		}
		return nil
	})
	if err != nil {
		switch {
		case infra.IsUniqueViolation(err):
			return nil, domain.ErrConflict
		case infra.IsForeignKeyViolation(err):
			return nil, domain.ErrInvalidReference
		}
		return nil, fmt.Errorf("register %s: %w", user.Email, err)
	}
	return &result, nil
}
