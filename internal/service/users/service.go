// Package users backs the admin-only user management screen.
package users

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

// ErrForbidden reports a non-admin session reaching an admin operation.
var ErrForbidden = errors.New("administrator role required")

// Gateway is the subset of the backend client user management needs.
type Gateway interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, userID int, newRole, adminEmail string) error
}

// Service lists users and changes their roles on behalf of an admin session.
type Service struct {
	gw     Gateway
	logger *zap.Logger
}

// NewService wires the user service.
func NewService(gw Gateway, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gw: gw, logger: logger}
}

// List returns every account.
func (s *Service) List(ctx context.Context, actor models.Session) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.gw.ListUsers(ctx)
}

// UpdateRole changes userID's role, attributing the change to actor.
func (s *Service) UpdateRole(ctx context.Context, actor models.Session, userID int, role string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if role != models.RoleAdmin && role != models.RoleEmployee {
		return fmt.Errorf("%w: unknown role %q", models.ErrValidation, role)
	}
	if err := s.gw.UpdateUserRole(ctx, userID, role, actor.Email); err != nil {
		return err
	}
	s.logger.Info("user role updated",
		zap.Int("user_id", userID),
		zap.String("role", role),
		zap.String("by", actor.Email),
	)
	return nil
}
