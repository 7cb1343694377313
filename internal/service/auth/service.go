// Package auth logs users in against the backend and turns the result into a
// signed, immutable session context.
package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

// MinPasswordLength is the shortest password accepted on login and registration.
const MinPasswordLength = 6

// Gateway is the subset of the backend client authentication needs.
type Gateway interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	Register(ctx context.Context, reg models.Registration) error
}

// LoginForm is what the user submits to sign in.
type LoginForm struct {
	Name       string `json:"name"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// RegistrationForm is what an admin submits to create an account.
type RegistrationForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"rol"`
}

// Grant is a successful login.
type Grant struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Session   models.Session `json:"session"`
}

// Service authenticates users.
type Service struct {
	gw     Gateway
	tokens *Tokens
	logger *zap.Logger
}

// NewService wires the authentication service.
func NewService(gw Gateway, tokens *Tokens, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gw: gw, tokens: tokens, logger: logger}
}

// Login checks credentials with the backend and issues a session token. The
// typed name is remembered in the session only when RememberMe is set.
func (s *Service) Login(ctx context.Context, form LoginForm) (*Grant, error) {
	form.Name = strings.TrimSpace(form.Name)
	if form.Name == "" || len(form.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: name and a password of at least %d characters are required", models.ErrValidation, MinPasswordLength)
	}

	resp, err := s.gw.Login(ctx, models.Credentials{Name: form.Name, Password: form.Password})
	if err != nil {
		s.logger.Info("login rejected", zap.String("name", form.Name), zap.Error(err))
		return nil, err
	}

	session := models.Session{
		ID:    uuid.NewString(),
		Email: resp.User.Email,
		Role:  resp.User.Role,
	}
	if form.RememberMe {
		session.Name = form.Name
	}

	token, expiresAt, err := s.tokens.Issue(session)
	if err != nil {
		return nil, err
	}
	s.logger.Info("session opened", zap.String("session_id", session.ID), zap.String("role", session.Role))

	return &Grant{Token: token, ExpiresAt: expiresAt, Session: session}, nil
}

// Register validates the form and creates the account. An empty role
// defaults to employee.
func (s *Service) Register(ctx context.Context, form RegistrationForm) error {
	reg, err := form.validate()
	if err != nil {
		return err
	}
	if err := s.gw.Register(ctx, reg); err != nil {
		return err
	}
	s.logger.Info("user registered", zap.String("email", reg.Email), zap.String("role", reg.Role))
	return nil
}

// Authenticate resolves a bearer token to its session.
func (s *Service) Authenticate(token string) (models.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return models.Session{}, err
	}
	return claims.Session(), nil
}

func (f RegistrationForm) validate() (models.Registration, error) {
	reg := models.Registration{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Role:     f.Role,
	}
	if reg.Role == "" {
		reg.Role = models.RoleEmployee
	}

	switch {
	case reg.Name == "":
		return reg, fmt.Errorf("%w: name is required", models.ErrValidation)
	case !validEmail(reg.Email):
		return reg, fmt.Errorf("%w: a valid e-mail is required", models.ErrValidation)
	case len(reg.Password) < MinPasswordLength:
		return reg, fmt.Errorf("%w: password must have at least %d characters", models.ErrValidation, MinPasswordLength)
	case reg.Password != f.ConfirmPassword:
		return reg, fmt.Errorf("%w: passwords do not match", models.ErrValidation)
	case reg.Role != models.RoleAdmin && reg.Role != models.RoleEmployee:
		return reg, fmt.Errorf("%w: unknown role %q", models.ErrValidation, reg.Role)
	}
	return reg, nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
