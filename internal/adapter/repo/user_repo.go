package repo

import (
	"context"
	"fmt"

	"restoplan/internal/domain"
	"restoplan/internal/infra"
	"restoplan/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// List returns the public projection of every user.
func (r *UserRepositoryPG) List(ctx context.Context) ([]domain.PublicUser, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListUsers)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.PublicUser, 0)
	for rows.Next() {
		var u domain.PublicUser
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.IsActive, &u.AnnualPayment); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetByID fetches the extended projection of one user.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.RoleID,
		&u.PlanID,
		&u.IsActive,
		&u.AnnualPayment,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

// UpdateStatus writes both flags of status.
func (r *UserRepositoryPG) UpdateStatus(ctx context.Context, status domain.UserStatus) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateUserStatus, status.ID, status.IsActive, status.AnnualPayment)
	if err != nil {
		return fmt.Errorf("update user %d status: %w", status.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePlan moves a user to another plan.
func (r *UserRepositoryPG) UpdatePlan(ctx context.Context, userID, planID int64) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateUserPlan, userID, planID)
	if err != nil {
		if infra.IsForeignKeyViolation(err) {
			return domain.ErrInvalidReference
		}
		return fmt.Errorf("update user %d plan: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
