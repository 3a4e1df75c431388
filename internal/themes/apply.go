package themes

import "github.com/violetshores/vac-themes/internal/models"

// Element addresses the applier writes to when they exist on a surface.
const (
	AmbientSelector    = ".ambient"
	TrustGradFromID    = "trustGradFrom"
	TrustGradToID      = "trustGradTo"
	NavBadgeID         = "nav-badge"
	StopColorAttribute = "stop-color"
)

// Surface is the styling target a theme is applied to. The bool results
// report whether the addressed element exists; a missing element is not an
// error, the step is simply skipped.
type Surface interface {
	SetStyleVar(name, value string)
	SetBackground(selector, value string) bool
	SetAttribute(elementID, name, value string) bool
	SetText(elementID, text string) bool
}

// Apply writes theme onto surface and returns it. Calling it again with the
// same theme leaves the surface unchanged.
func Apply(surface Surface, theme models.Theme) models.Theme {
	for _, name := range theme.TokenNames() {
		surface.SetStyleVar(name, theme.Tokens[name])
	}

	if theme.Ambient.Gradient1 != "" || theme.Ambient.Gradient2 != "" {
		surface.SetBackground(AmbientSelector, theme.Ambient.Background())
	}

	if theme.TrustGradient.From != "" {
		surface.SetAttribute(TrustGradFromID, StopColorAttribute, theme.TrustGradient.From)
	}
	if theme.TrustGradient.To != "" {
		surface.SetAttribute(TrustGradToID, StopColorAttribute, theme.TrustGradient.To)
	}

	if theme.Meta.NavBadgeText != "" {
		surface.SetText(NavBadgeID, theme.Meta.NavBadgeText)
	}

	return theme
}

// Apply resolves id (falling back to the default theme) and applies it.
func (r *Registry) Apply(surface Surface, id string) models.Theme {
	return Apply(surface, r.Get(id))
}
