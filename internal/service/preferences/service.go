// Package preferences stores per-user presentation settings.
package preferences

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

// Store persists preferences keyed by e-mail.
type Store interface {
	GetPreferences(ctx context.Context, email string) (models.Preferences, error)
	SavePreferences(ctx context.Context, prefs models.Preferences) error
}

// Update is a partial change; nil fields are left as they are.
type Update struct {
	Theme       *string `json:"theme"`
	DisplayName *string `json:"display_name"`
}

// Service reads and writes the preferences of a session's user.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService wires the preferences service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Get returns the preferences of the session's user.
func (s *Service) Get(ctx context.Context, session models.Session) (models.Preferences, error) {
	prefs, err := s.store.GetPreferences(ctx, session.Email)
	if err != nil {
		return models.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return prefs, nil
}

// Apply merges update into the stored preferences and saves the result.
func (s *Service) Apply(ctx context.Context, session models.Session, update Update) (models.Preferences, error) {
	prefs, err := s.Get(ctx, session)
	if err != nil {
		return models.Preferences{}, err
	}

	if update.Theme != nil {
		switch *update.Theme {
		case models.ThemeLight, models.ThemeDark:
			prefs.Theme = *update.Theme
		default:
			return models.Preferences{}, fmt.Errorf("%w: theme must be %s or %s", models.ErrValidation, models.ThemeLight, models.ThemeDark)
		}
	}
	if update.DisplayName != nil {
		prefs.DisplayName = strings.TrimSpace(*update.DisplayName)
	}
	prefs.Email = session.Email
	prefs.UpdatedAt = s.now().UTC()

	if err := s.store.SavePreferences(ctx, prefs); err != nil {
		return models.Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	return prefs, nil
}
