package repo

import (
	"context"
	"fmt"

	"restoplan/internal/domain"
	"restoplan/internal/infra"
	"restoplan/internal/sqlinline"
)

// RoleRepositoryPG implements domain.RoleRepository backed by PostgreSQL.
type RoleRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewRoleRepository(sql infra.SQLExecutor) *RoleRepositoryPG {
	return &RoleRepositoryPG{sql: sql}
}

func (r *RoleRepositoryPG) List(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListRoles)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := make([]domain.Role, 0)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}
