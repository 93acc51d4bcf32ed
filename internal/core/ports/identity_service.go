package ports

import (
	"context"

	"github.com/sample-intranet/identity-api/internal/core/domain"
)

// RegisterInput carries a registration request into the core.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	// Role defaults to domain.RoleUser when empty.
	Role string
	// Active defaults to true when nil.
	Active *bool
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresIn int64
	User      *domain.User
}

// IdentityService composes credential hashing, the user directory, token
// issuance and the access gate into the operations the HTTP layer consumes.
type IdentityService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Authorize validates the bearer token, reloads the caller's record
	// (a deleted or deactivated user fails even with a valid signature),
	// narrows op for self-targeted requests, and consults the access gate.
	// It returns the caller's current record on success.
	Authorize(ctx context.Context, token string, op domain.Operation, targetID string) (*domain.User, error)

	GetUser(ctx context.Context, id string) (*domain.User, error)

	// ListUsers pages through active users. A negative skip is treated as 0
	// and a non-positive limit falls back to the default page size.
	ListUsers(ctx context.Context, skip, limit int) ([]*domain.User, error)
	SearchUsers(ctx context.Context, term string) ([]*domain.User, error)
	UpdateUser(ctx context.Context, actor *domain.User, id string, patch domain.UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}
