package domain

import "time"

// Role is the coarse permission tier assigned to every user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts a wire-level role string into a Role.
// Unknown tokens fail with ErrInvalidRole instead of passing through.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

func (r Role) String() string { return string(r) }

// User is a directory record. PasswordHash is excluded from any JSON
// rendering; handlers additionally project users through a view type that
// does not carry the field at all.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash []byte    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPatch is a partial update. Nil fields are left untouched.
type UserPatch struct {
	Name   *string
	Role   *Role
	Active *bool
}

// IsZero reports whether the patch changes nothing.
func (p UserPatch) IsZero() bool {
	return p.Name == nil && p.Role == nil && p.Active == nil
}
