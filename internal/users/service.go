package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/inkwell-cms/inkwell/internal/authz"
	"github.com/inkwell-cms/inkwell/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	SearchUser(ctx context.Context, query string) (*User, error)
	UpdateRole(ctx context.Context, id string, role authz.Role) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Auditor records administrative actions.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles user management logic and doubles as the principal lookup
// consumed by the authorization guards.
type Service struct {
	repo    RepositoryPort
	auditor Auditor
	logger  *slog.Logger
}

// NewService builds a Service instance. auditor may be nil.
func NewService(repo RepositoryPort, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{repo: repo, auditor: auditor, logger: logger}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser returns one user by id.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, id)
}

// SearchUser finds a user by exact email or username.
func (s *Service) SearchUser(ctx context.Context, query string) (*User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}
	return s.repo.SearchUser(ctx, query)
}

// ChangeRole assigns a new role to the user. The change takes effect on the
// target's next request because guards re-read the role per decision.
func (s *Service) ChangeRole(ctx context.Context, actorID, id string, role authz.Role) (*User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	user, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, actorID, "users.role_changed", id, map[string]any{"role": string(role)})
	return user, nil
}

// DeleteUser removes the account.
func (s *Service) DeleteUser(ctx context.Context, actorID, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actorID, "users.deleted", id, nil)
	return nil
}

// Principal resolves a user id to its identity claims. This is the fresh
// per-request read the role guard depends on.
func (s *Service) Principal(ctx context.Context, id string) (authz.Principal, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return authz.Principal{}, err
	}
	return authz.Principal{ID: user.ID, Role: user.Role}, nil
}

func (s *Service) audit(ctx context.Context, actorID, action, entityID string, meta map[string]any) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: entityID,
		Meta:     meta,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("record audit log", slog.String("action", action), slog.Any("error", err))
	}
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed user id", shared.ErrInvalidInput)
	}
	return nil
}
