package repo

import (
	"context"
	"fmt"

	"restoplan/internal/domain"
	"restoplan/internal/infra"
	"restoplan/internal/sqlinline"
)

// RestaurantRepositoryPG implements domain.RestaurantRepository backed by PostgreSQL.
type RestaurantRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewRestaurantRepository(sql infra.SQLExecutor) *RestaurantRepositoryPG {
	return &RestaurantRepositoryPG{sql: sql}
}

// ListWithRatings loads restaurants and the per-restaurant mean rating in two
// queries and joins them by id.
func (r *RestaurantRepositoryPG) ListWithRatings(ctx context.Context) ([]domain.RatedRestaurant, error) {
	restaurants, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	ratings, err := r.ratings(ctx)
	if err != nil {
		return nil, err
	}
	return domain.AttachRatings(restaurants, ratings), nil
}

func (r *RestaurantRepositoryPG) list(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListRestaurants)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		var rs domain.Restaurant
		if err := rows.Scan(
			&rs.ID,
			&rs.Name,
			&rs.City,
			&rs.Cuisine,
			&rs.Address,
			&rs.ZipCode,
			&rs.CountryCode,
			&rs.Description,
			&rs.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return out, nil
}

func (r *RestaurantRepositoryPG) ratings(ctx context.Context) (map[int64]float64, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QRestaurantRatings)
	if err != nil {
		return nil, fmt.Errorf("restaurant ratings: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]float64)
	for rows.Next() {
		var (
			id  int64
			avg float64
		)
		if err := rows.Scan(&id, &avg); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out[id] = avg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("restaurant ratings: %w", err)
	}
	return out, nil
}
