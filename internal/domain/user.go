package domain

import "github.com/oapi-codegen/nullable"

// User is the extended projection returned for a single user.
type User struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	RoleID        int64  `json:"roleId"`
	PlanID        int64  `json:"planId"`
	IsActive      bool   `json:"isActive"`
	AnnualPayment bool   `json:"annualPayment"`
}

// PublicUser is the collection projection; it omits role and plan ids.
type PublicUser struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	IsActive      bool   `json:"isActive"`
	AnnualPayment bool   `json:"annualPayment"`
}

// UserStatusPatch updates the activation and payment flags of a user.
type UserStatusPatch struct {
	IsActive      nullable.Nullable[bool] `json:"isActive"`
	AnnualPayment nullable.Nullable[bool] `json:"annualPayment"`
}

// Validate requires at least one flag and rejects explicit nulls.
func (p UserStatusPatch) Validate() error {
	if p.IsActive.IsNull() || p.AnnualPayment.IsNull() {
		return ErrInvalidInput
	}
	if !p.IsActive.IsSpecified() && !p.AnnualPayment.IsSpecified() {
		return ErrInvalidInput
	}
	return nil
}

// UserStatus is the activation and payment state written for a user.
type UserStatus struct {
	ID            int64 `json:"id"`
	IsActive      bool  `json:"isActive"`
	AnnualPayment bool  `json:"annualPayment"`
}

// Apply merges the patch over the current user's flags.
func (p UserStatusPatch) Apply(current User) UserStatus {
	return UserStatus{
		ID:            current.ID,
		IsActive:      valueOr(p.IsActive, current.IsActive),
		AnnualPayment: valueOr(p.AnnualPayment, current.AnnualPayment),
	}
}
