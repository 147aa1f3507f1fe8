package repo

import (
	"context"
	"fmt"

	"restoplan/internal/domain"
	"restoplan/internal/infra"
	"restoplan/internal/sqlinline"
)

// ReviewRepositoryPG implements domain.ReviewRepository backed by PostgreSQL.
type ReviewRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewReviewRepository(sql infra.SQLExecutor) *ReviewRepositoryPG {
	return &ReviewRepositoryPG{sql: sql}
}

func (r *ReviewRepositoryPG) List(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListReviews)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.RestaurantID, &rv.Rating, &rv.Author, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Delete removes the review if present. Deleting a missing id is not an error.
func (r *ReviewRepositoryPG) Delete(ctx context.Context, id int64) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QDeleteReview, id); err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	return nil
}
