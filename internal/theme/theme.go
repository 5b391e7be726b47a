// Package theme resolves the light/dark/system preference into terminal styles.
package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PreferenceKey is the preference row that stores the theme.
const PreferenceKey = "theme"

// Mode is the user's theme choice.
type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeSystem Mode = "system"
)

// ErrInvalidMode indicates an unknown theme name.
var ErrInvalidMode = errors.New("invalid theme")

// ParseMode validates a theme name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLight, ModeDark, ModeSystem:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (want light, dark or system)", ErrInvalidMode, s)
	}
}

// Store persists the chosen mode.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Service reads and writes the theme preference.
type Service struct {
	store      Store
	logger     *slog.Logger
	darkSystem func() bool
}

// NewService creates a theme service backed by store.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, logger: logger, darkSystem: lipgloss.HasDarkBackground}
}

// Current returns the stored mode, or ModeSystem when nothing valid is stored.
func (s *Service) Current(ctx context.Context) Mode {
	raw, err := s.store.Get(ctx, PreferenceKey)
	if err != nil {
		return ModeSystem
	}
	m, err := ParseMode(raw)
	if err != nil {
		s.logger.Warn("ignoring stored theme", "value", raw)
		return ModeSystem
	}
	return m
}

// Set stores the mode.
func (s *Service) Set(ctx context.Context, m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	if err := s.store.Set(ctx, PreferenceKey, string(m)); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}

// Toggle flips between light and dark. System counts as its resolved value.
func (s *Service) Toggle(ctx context.Context) (Mode, error) {
	next := ModeDark
	if s.Resolve(s.Current(ctx)) == ModeDark {
		next = ModeLight
	}
	return next, s.Set(ctx, next)
}

// Resolve turns ModeSystem into light or dark using the terminal background.
func (s *Service) Resolve(m Mode) Mode {
	if m != ModeSystem {
		return m
	}
	if s.darkSystem() {
		return ModeDark
	}
	return ModeLight
}

// Palette returns the styles for the stored mode.
func (s *Service) Palette(ctx context.Context) Palette {
	return PaletteFor(s.Resolve(s.Current(ctx)))
}
