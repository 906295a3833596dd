package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-cms/inkwell/internal/authz"
	"github.com/inkwell-cms/inkwell/internal/shared"
)

// Notifier enqueues post-registration notifications. Delivery is best
// effort; a failed enqueue never fails the registration.
type Notifier interface {
	WelcomeEmail(ctx context.Context, email, name string) error
}

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	hasher   Hasher
	tokens   *TokenService
	notifier Notifier
	logger   *slog.Logger
}

// NewService constructs a new Service. notifier may be nil.
func NewService(repo Repository, hasher Hasher, tokens *TokenService, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens, notifier: notifier, logger: logger}
}

// RegisterInput carries the already-validated registration fields.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Register creates a new account with the default USER role.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         authz.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.Username == "" || user.Email == "" {
		return nil, fmt.Errorf("%w: username and email required", shared.ErrInvalidInput)
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.WelcomeEmail(ctx, user.Email, user.Name); err != nil && s.logger != nil {
			s.logger.Warn("enqueue welcome email", slog.Any("error", err))
		}
	}
	return user, nil
}

// Authenticate validates email/password credentials. Every failure mode
// collapses into ErrInvalidCredentials so the response cannot reveal whether
// the account exists.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates the credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.tokens.Issue(user.Principal())
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
