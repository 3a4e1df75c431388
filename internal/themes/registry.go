// Package themes owns the theme registry and the stateless helpers that
// resolve, apply, and project themes for pages and transactional email.
package themes

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/violetshores/vac-themes/internal/models"
)

// DefaultThemeID is the fallback used when no default is declared.
const DefaultThemeID = "default"

var (
	ErrNoThemes         = errors.New("registry has no themes")
	ErrUnknownDefault   = errors.New("default theme is not defined")
	ErrDuplicateTheme   = errors.New("duplicate theme id")
	ErrTokenSetMismatch = errors.New("token keys differ between themes")
)

// Registry is an immutable id -> theme table. It is safe for concurrent use.
type Registry struct {
	defaultID string
	order     []string
	themes    map[string]models.Theme
}

// NewRegistry validates every record and the cross-record token key set.
// An empty defaultID selects DefaultThemeID.
func NewRegistry(defaultID string, records []models.Theme) (*Registry, error) {
	defaultID = strings.TrimSpace(defaultID)
	if defaultID == "" {
		defaultID = DefaultThemeID
	}
	if len(records) == 0 {
		return nil, ErrNoThemes
	}

	reg := &Registry{
		defaultID: defaultID,
		order:     make([]string, 0, len(records)),
		themes:    make(map[string]models.Theme, len(records)),
	}

	var reference []string
	referenceID := ""
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return nil, fmt.Errorf("invalid theme %q: %w", record.ID, err)
		}
		if _, exists := reg.themes[record.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTheme, record.ID)
		}

		names := record.TokenNames()
		if reference == nil {
			reference = names
			referenceID = record.ID
		} else if diff := tokenSetDiff(reference, names); diff != "" {
			return nil, fmt.Errorf("%w: %q vs %q: %s", ErrTokenSetMismatch, referenceID, record.ID, diff)
		}

		reg.order = append(reg.order, record.ID)
		reg.themes[record.ID] = record.Clone()
	}

	if _, ok := reg.themes[defaultID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDefault, defaultID)
	}

	return reg, nil
}

// Get returns the theme for id, or the default theme when id is unknown.
func (r *Registry) Get(id string) models.Theme {
	if theme, ok := r.themes[id]; ok {
		return theme.Clone()
	}
	return r.Default()
}

// Lookup reports whether id is registered.
func (r *Registry) Lookup(id string) (models.Theme, bool) {
	theme, ok := r.themes[id]
	if !ok {
		return models.Theme{}, false
	}
	return theme.Clone(), true
}

func (r *Registry) Has(id string) bool {
	_, ok := r.themes[id]
	return ok
}

func (r *Registry) Default() models.Theme {
	return r.themes[r.defaultID].Clone()
}

func (r *Registry) DefaultID() string {
	return r.defaultID
}

// IDs returns theme ids in declaration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// All returns every theme in declaration order.
func (r *Registry) All() []models.Theme {
	results := make([]models.Theme, 0, len(r.order))
	for _, id := range r.order {
		results = append(results, r.themes[id].Clone())
	}
	return results
}

func (r *Registry) Len() int {
	return len(r.order)
}

// tokenSetDiff returns a human readable description of the difference
// between two sorted key lists, or "" when they match.
func tokenSetDiff(want, got []string) string {
	wantSet := make(map[string]struct{}, len(want))
	for _, name := range want {
		wantSet[name] = struct{}{}
	}
	gotSet := make(map[string]struct{}, len(got))
	for _, name := range got {
		gotSet[name] = struct{}{}
	}

	var missing, extra []string
	for _, name := range want {
		if _, ok := gotSet[name]; !ok {
			missing = append(missing, name)
		}
	}
	for _, name := range got {
		if _, ok := wantSet[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return ""
	}
	sort.Strings(missing)
	sort.Strings(extra)

	parts := make([]string, 0, 2)
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		parts = append(parts, "extra "+strings.Join(extra, ", "))
	}
	return strings.Join(parts, "; ")
}
