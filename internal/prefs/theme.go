package prefs

import "context"

// ThemeKey is the slot holding the viewer theme.
const ThemeKey = "theme"

// Theme is the viewer color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Theme returns the stored theme. Anything but "dark" reads as light.
func (s *Store) Theme(ctx context.Context) (Theme, error) {
	raw, _, err := s.Get(ctx, ThemeKey)
	if err != nil {
		return ThemeLight, err
	}
	if Theme(raw) == ThemeDark {
		return ThemeDark, nil
	}
	return ThemeLight, nil
}

// ToggleTheme flips the stored theme and returns the new value.
func (s *Store) ToggleTheme(ctx context.Context) (Theme, error) {
	current, err := s.Theme(ctx)
	if err != nil {
		return current, err
	}
	next := ThemeDark
	if current == ThemeDark {
		next = ThemeLight
	}
	if err := s.Set(ctx, ThemeKey, string(next)); err != nil {
		return current, err
	}
	return next, nil
}
