package handlers

import "net/http"

func (a *App) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := a.Reviews.List(r.Context())
	if err != nil {
		a.log(r).Error().Err(err).Msg("list reviews failed")
		a.error(w, http.StatusInternalServerError, "internal", "Reviews not found")
		return
	}
	a.json(w, http.StatusOK, reviews)
}

// DeleteReview echoes the id whether or not a review was removed.
func (a *App) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "Invalid review id")
		return
	}
	if err := a.Reviews.Delete(r.Context(), id); err != nil {
		a.log(r).Error().Err(err).Int64("review_id", id).Msg("delete review failed")
		a.error(w, http.StatusInternalServerError, "internal", "Review deletion failed")
		return
	}
	a.json(w, http.StatusOK, map[string]int64{"id": id})
}
