// Package settings holds the portfolio's personalization preferences.
// Preferences live in the browser; the server only validates and
// acknowledges them.
package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var (
	// ErrEmptyConfig is returned for a missing, null or empty payload
	ErrEmptyConfig = errors.New("empty configuration")
	// ErrInvalidConfig is returned when the payload is not a JSON object
	ErrInvalidConfig = errors.New("configuration must be a JSON object")
)

// maxPayload bounds how much of a request body Decode reads
const maxPayload = 64 << 10

// Theme holds the portfolio's accent colors
type Theme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Defaults is the personalization a first-time visitor sees
type Defaults struct {
	Theme         Theme           `json:"theme"`
	Bio           string          `json:"bio"`
	FeaturedRepos []string        `json:"featured_repos"`
	ShowSections  map[string]bool `json:"show_sections"`
}

// Section keys toggled from the customization panel
var Sections = []string{"profile", "stats", "heatmap", "comparison", "favorites", "projects", "about"}

// DefaultTheme is the brand palette, also used by the PDF report
var DefaultTheme = Theme{
	Primary:   "#38BDF8",
	Secondary: "#818CF8",
	Accent:    "#0EA5E9",
}

// NewDefaults returns a fresh copy of the default preferences, safe to modify.
func NewDefaults() Defaults {
	show := make(map[string]bool, len(Sections))
	for _, s := range Sections {
		show[s] = true
	}
	return Defaults{
		Theme:         DefaultTheme,
		FeaturedRepos: []string{},
		ShowSections:  show,
	}
}

// Preferences is an opaque configuration object sent by the client
type Preferences map[string]any

// Decode reads a configuration payload. Anything that is not a non-empty
// JSON object is rejected.
func Decode(r io.Reader) (Preferences, error) {
	if r == nil {
		return nil, ErrEmptyConfig
	}

	body, err := io.ReadAll(io.LimitReader(r, maxPayload))
	if err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, ErrEmptyConfig
	}

	var prefs Preferences
	if err := json.Unmarshal(body, &prefs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(prefs) == 0 {
		return nil, ErrEmptyConfig
	}
	return prefs, nil
}

// Store accepts validated preferences
type Store interface {
	Save(ctx context.Context, prefs Preferences) error
}

// NopStore acknowledges every save without keeping anything.
type NopStore struct{}

// Save logs the keys that were sent and discards the payload
func (NopStore) Save(_ context.Context, prefs Preferences) error {
	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	slog.Info("Configuration received (not persisted)", "keys", keys)
	return nil
}
