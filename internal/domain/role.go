package domain

// DefaultRoleID is assigned to every user created through registration.
const DefaultRoleID int64 = 2

// Role is a user permission level. Roles are seeded and read-only.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
