package handler

import (
	"github.com/sample-intranet/identity-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// viewTimeFormat is the fixed textual timestamp format of the public API.
const viewTimeFormat = "2006-01-02 15:04:05"

// userView is the public projection of a user record. It has no password
// hash field, so no serialization path can leak one.
type userView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newUserView(u *domain.User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.String(),
		IsActive:  u.Active,
		CreatedAt: u.CreatedAt.UTC().Format(viewTimeFormat),
		UpdatedAt: u.UpdatedAt.UTC().Format(viewTimeFormat),
	}
}

func newUserViews(users []*domain.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}
	return views
}

// --- Request / Response types ---

type registerRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required"`
	Name     string `json:"name"      validate:"required,max=100"`
	Role     string `json:"role"      validate:"omitempty,oneof=user admin"`
	IsActive *bool  `json:"is_active"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	User        userView `json:"user"`
}

type updateUserRequest struct {
	Name     *string `json:"name"      validate:"omitempty,max=100"`
	Role     *string `json:"role"      validate:"omitempty,oneof=user admin"`
	IsActive *bool   `json:"is_active"`
}

func (r updateUserRequest) patch() (domain.UserPatch, error) {
	patch := domain.UserPatch{Name: r.Name, Active: r.IsActive}
	if r.Role != nil {
		role, err := domain.ParseRole(*r.Role)
		if err != nil {
			return domain.UserPatch{}, err
		}
		patch.Role = &role
	}
	return patch, nil
}
