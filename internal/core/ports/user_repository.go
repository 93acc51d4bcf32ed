package ports

import (
	"context"

	"github.com/sample-intranet/identity-api/internal/core/domain"
)

// UserRepository is the persistence contract for the user directory.
//
// Email comparisons are case-insensitive throughout. Create must enforce
// email uniqueness atomically (a storage-level unique constraint, not a
// check-then-insert in the caller) so concurrent registrations of the same
// address yield exactly one success and one domain.ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListActive returns a page of active users, skipping skip records and
	// returning at most limit. Ordering is a backend choice; callers must
	// not depend on insertion order.
	ListActive(ctx context.Context, skip, limit int) ([]*domain.User, error)

	// SearchActiveByName matches a case-insensitive substring against the
	// names of active users.
	SearchActiveByName(ctx context.Context, term string) ([]*domain.User, error)

	// Update applies the non-nil fields of the patch and bumps updated_at.
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)

	// Delete removes the record permanently.
	Delete(ctx context.Context, id string) error
}

// LoginThrottle limits repeated failed logins for a single email address.
type LoginThrottle interface {
	// TooMany reports whether the address has exhausted its attempts.
	TooMany(ctx context.Context, email string) (bool, error)
	// Fail records one failed attempt.
	Fail(ctx context.Context, email string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, email string) error
}
