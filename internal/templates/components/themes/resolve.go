// Package themes holds HTML fragments returned to htmx requests.
package themes

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/violetshores/vac-themes/internal/models"
)

// ResolvedTheme renders the theme chosen for an address as a swatch chip.
func ResolvedTheme(email string, theme models.Theme) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="theme-resolution" data-theme-id="%s"><span class="theme-swatch" style="background:%s;border-color:%s"></span><span class="theme-name">%s</span><span class="theme-email">%s</span></div>`,
			html.EscapeString(theme.ID),
			html.EscapeString(theme.Email.BgCard),
			html.EscapeString(theme.Email.Accent),
			html.EscapeString(theme.Name),
			html.EscapeString(email),
		)
		return err
	})
}

// ThemeList renders every registered theme, marking the default.
func ThemeList(themes []models.Theme, defaultID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<ul class="theme-list">`)
		for _, theme := range themes {
			marker := ""
			if theme.ID == defaultID {
				marker = ` <span class="theme-default">default</span>`
			}
			fmt.Fprintf(&b,
				`<li data-theme-id="%s"><a href="/verify?theme=%s">%s</a> <span class="theme-audience">%s</span>%s</li>`,
				html.EscapeString(theme.ID),
				html.EscapeString(theme.ID),
				html.EscapeString(theme.Name),
				html.EscapeString(theme.Audience),
				marker,
			)
		}
		b.WriteString(`</ul>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
