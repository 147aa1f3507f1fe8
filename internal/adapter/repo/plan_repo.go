package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restoplan/internal/domain"
	"restoplan/internal/infra"
	"restoplan/internal/sqlinline"
)

// PlanRepositoryPG implements domain.PlanRepository backed by PostgreSQL.
type PlanRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewPlanRepository(sql infra.SQLExecutor) *PlanRepositoryPG {
	return &PlanRepositoryPG{sql: sql}
}

func (r *PlanRepositoryPG) List(ctx context.Context) ([]domain.Plan, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListPlans)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	plans := make([]domain.Plan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (r *PlanRepositoryPG) GetByID(ctx context.Context, id int64) (*domain.Plan, error) {
	p, err := scanPlan(r.sql.QueryRow(ctx, sqlinline.QSelectPlanByID, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get plan %d: %w", id, err)
	}
	return p, nil
}

// Update writes every column of plan. It returns domain.ErrNotFound when the
// row disappeared since it was read.
func (r *PlanRepositoryPG) Update(ctx context.Context, plan domain.Plan) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdatePlan,
		plan.ID,
		plan.Name,
		plan.MonthlyFee,
		plan.YearlyFee,
		plan.MaxNumberOfRestaurants,
		plan.Description,
	)
	if err != nil {
		return fmt.Errorf("update plan %d: %w", plan.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPlan(row pgx.Row) (*domain.Plan, error) {
	var p domain.Plan
	if err := row.Scan(&p.ID, &p.Name, &p.MonthlyFee, &p.YearlyFee, &p.MaxNumberOfRestaurants, &p.Description); err != nil {
		return nil, err
	}
	return &p, nil
}
