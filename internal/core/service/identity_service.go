package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sample-intranet/identity-api/internal/api/metrics"
	"github.com/sample-intranet/identity-api/internal/core/domain"
	"github.com/sample-intranet/identity-api/internal/core/ports"
)

// dummyHash is a bcrypt hash of a random string. Login verifies against it
// when the email is unknown so the response time does not reveal whether
// the account exists.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// IdentityService implements ports.IdentityService on top of the user
// directory, the password hasher, the token service, and the access gate.
type IdentityService struct {
	repo        ports.UserRepository
	hasher      *PasswordHasher
	tokens      *TokenService
	throttle    ports.LoginThrottle
	minPassword int
	log         zerolog.Logger
}

// NewIdentityService wires the facade. throttle may be nil to disable
// failed-login throttling; minPassword <= 0 means any non-blank password.
func NewIdentityService(repo ports.UserRepository, hasher *PasswordHasher, tokens *TokenService, throttle ports.LoginThrottle, minPassword int, log zerolog.Logger) *IdentityService {
	return &IdentityService{
		repo:        repo,
		hasher:      hasher,
		tokens:      tokens,
		throttle:    throttle,
		minPassword: minPassword,
		log:         log,
	}
}

// Register validates the input, hashes the password, and creates the user.
// Email uniqueness is left to the directory's atomic constraint; there is
// no lookup-then-insert here.
func (s *IdentityService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	// addr.Address must equal the input so RFC 5322 display-name forms
	// ("Alice <a@b.c>") cannot smuggle decoration into the stored email.
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, domain.ErrInvalidEmail
	}
	if strings.TrimSpace(in.Password) == "" || len(in.Password) < s.minPassword {
		return nil, domain.ErrWeakPassword
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	role := domain.RoleUser
	if in.Role != "" {
		parsed, err := domain.ParseRole(in.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", created.Role.String()).Msg("user registered")
	return created, nil
}

// Login authenticates by email and password and issues a bearer token.
// Unknown email and wrong password collapse into
// domain.ErrInvalidCredentials; a deactivated account with correct
// credentials returns domain.ErrAccountDisabled, which the HTTP layer
// renders with the same generic unauthorized body.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if blocked := s.throttled(ctx, email); blocked {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// burn the same bcrypt cost as a real comparison
			s.hasher.Verify(password, dummyHash)
			s.recordFailure(ctx, email)
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		metrics.LoginsTotal.WithLabelValues("disabled").Inc()
		s.log.Info().Str("user_id", user.ID).Msg("login refused for disabled account")
		return nil, domain.ErrAccountDisabled
	}

	token, expiresIn, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.LoginResult{Token: token, ExpiresIn: expiresIn, User: user}, nil
}

// Authorize validates the token, reloads the caller from the directory,
// and consults the access gate. Token state alone is never trusted: a user
// deleted or deactivated after issuance is rejected with
// domain.ErrInvalidToken even though the signature still verifies.
func (s *IdentityService) Authorize(ctx context.Context, token string, op domain.Operation, targetID string) (*domain.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		var te *TokenError
		if errors.As(err, &te) {
			metrics.TokenValidationsTotal.WithLabelValues(te.Reason).Inc()
			s.log.Debug().Str("reason", te.Reason).Msg("token rejected")
		}
		return nil, err
	}
	metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrInvalidToken
	}

	resolved := op.ForTarget(user.ID, targetID)
	if !domain.Can(user.Role, resolved) {
		metrics.AccessDenialsTotal.WithLabelValues(string(resolved)).Inc()
		s.log.Debug().
			Str("user_id", user.ID).
			Str("operation", string(resolved)).
			Msg("operation denied")
		return nil, domain.ErrForbidden
	}

	return user, nil
}

func (s *IdentityService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// defaultListLimit caps a listing page when the caller supplies no limit.
const defaultListLimit = 100

func (s *IdentityService) ListUsers(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.ListActive(ctx, skip, limit)
}

func (s *IdentityService) SearchUsers(ctx context.Context, term string) ([]*domain.User, error) {
	return s.repo.SearchActiveByName(ctx, strings.TrimSpace(term))
}

// UpdateUser applies a partial update. Non-admin callers cannot touch role
// or active, so a user cannot escalate or reactivate itself.
func (s *IdentityService) UpdateUser(ctx context.Context, actor *domain.User, id string, patch domain.UserPatch) (*domain.User, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		patch.Role = nil
		patch.Active = nil
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.ErrNameRequired
	}
	if patch.IsZero() {
		return s.repo.FindByID(ctx, id)
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

func (s *IdentityService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *IdentityService) throttled(ctx context.Context, email string) bool {
	if s.throttle == nil {
		return false
	}
	blocked, err := s.throttle.TooMany(ctx, email)
	if err != nil {
		// throttle outage must not take logins down with it
		s.log.Warn().Err(err).Msg("login throttle check failed")
		return false
	}
	return blocked
}

func (s *IdentityService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Fail(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login throttle record failed")
	}
}
