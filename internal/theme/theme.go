// Package theme manages the single persisted UI appearance preference.
// The service is constructed once at startup and injected; nothing here is
// a package-level global.
package theme

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/leadgenius/prospect-cli/internal/model"
	"github.com/leadgenius/prospect-cli/internal/store"
)

// ErrInvalidTheme is returned when a value other than "dark"/"light" is set.
var ErrInvalidTheme = eris.New("theme: value must be \"dark\" or \"light\"")

// Preferences is the slice of the store the service needs.
type Preferences interface {
	GetPreference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error
}

// Service resolves and persists the theme preference.
type Service struct {
	prefs    Preferences
	fallback string
}

// New creates a theme service. The fallback is used when no preference has
// been stored and no OS signal is available; invalid fallbacks become light.
func New(prefs Preferences, fallback string) *Service {
	if fallback != model.ThemeDark && fallback != model.ThemeLight {
		fallback = model.ThemeLight
	}
	return &Service{prefs: prefs, fallback: fallback}
}

// Resolve returns the stored preference, or the OS preference signal when
// none is stored, or the configured fallback when neither is available.
func (s *Service) Resolve(ctx context.Context) (string, error) {
	value, err := s.prefs.GetPreference(ctx, store.PreferenceTheme)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", eris.Wrap(err, "theme: resolve")
	}
	if sys := systemPreference(); sys != "" {
		return sys, nil
	}
	return s.fallback, nil
}

// Set validates and persists a theme value.
func (s *Service) Set(ctx context.Context, value string) error {
	if value != model.ThemeDark && value != model.ThemeLight {
		return ErrInvalidTheme
	}
	return s.prefs.SetPreference(ctx, store.PreferenceTheme, value)
}

// Toggle flips the current preference, persists it, and returns the new value.
func (s *Service) Toggle(ctx context.Context) (string, error) {
	current, err := s.Resolve(ctx)
	if err != nil {
		return "", err
	}
	next := model.ThemeDark
	if current == model.ThemeDark {
		next = model.ThemeLight
	}
	if err := s.Set(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// systemPreference reads the terminal's light/dark signal. COLORFGBG ends in
// the background color index; 0-6 and 8 are dark backgrounds.
func systemPreference() string {
	fgbg := os.Getenv("COLORFGBG")
	if fgbg == "" {
		return ""
	}
	parts := strings.Split(fgbg, ";")
	bg := parts[len(parts)-1]
	switch bg {
	case "0", "1", "2", "3", "4", "5", "6", "8":
		return model.ThemeDark
	case "7", "9", "10", "11", "12", "13", "14", "15":
		return model.ThemeLight
	}
	return ""
}
