package domain

import "github.com/oapi-codegen/nullable"

// Plan is a subscription tier restaurants owners sign up for.
type Plan struct {
	ID                     int64   `json:"id"`
	Name                   string  `json:"name"`
	MonthlyFee             float64 `json:"monthlyFee"`
	YearlyFee              float64 `json:"yearlyFee"`
	MaxNumberOfRestaurants int     `json:"maxNumberOfRestaurants"`
	Description            *string `json:"description"`
}

// PlanPatch is a partial update of a plan. Absent fields keep their stored value.
type PlanPatch struct {
	Name                   nullable.Nullable[string]  `json:"name"`
	MonthlyFee             nullable.Nullable[float64] `json:"monthlyFee"`
	YearlyFee              nullable.Nullable[float64] `json:"yearlyFee"`
	MaxNumberOfRestaurants nullable.Nullable[int]     `json:"maxNumberOfRestaurants"`
	Description            nullable.Nullable[string]  `json:"description"`
}

// Validate rejects explicit nulls on columns that cannot hold them.
func (p PlanPatch) Validate() error {
	if p.Name.IsNull() || p.MonthlyFee.IsNull() || p.YearlyFee.IsNull() || p.MaxNumberOfRestaurants.IsNull() {
		return ErrInvalidInput
	}
	return nil
}

// Apply merges the patch over the current plan and returns the result.
func (p PlanPatch) Apply(current Plan) Plan {
	merged := current
	merged.Name = valueOr(p.Name, current.Name)
	merged.MonthlyFee = valueOr(p.MonthlyFee, current.MonthlyFee)
	merged.YearlyFee = valueOr(p.YearlyFee, current.YearlyFee)
	merged.MaxNumberOfRestaurants = valueOr(p.MaxNumberOfRestaurants, current.MaxNumberOfRestaurants)
	switch {
	case p.Description.IsNull():
		merged.Description = nil
	case p.Description.IsSpecified():
		desc := p.Description.MustGet()
		merged.Description = &desc
	}
	return merged
}
