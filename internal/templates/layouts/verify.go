package layouts

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/violetshores/vac-themes/internal/models"
	"github.com/violetshores/vac-themes/internal/themes"
)

const verifyPageBaseCSS = `body{margin:0;min-height:100vh;background:var(--bg);color:var(--text-primary);font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,Helvetica,Arial,sans-serif}` +
	`.ambient{position:fixed;inset:0;pointer-events:none}` +
	`nav{position:relative;display:flex;justify-content:space-between;align-items:center;padding:16px 24px;border-bottom:1px solid var(--border);background:var(--bg-elevated)}` +
	`.nav-badge{font-size:11px;letter-spacing:.12em;padding:4px 10px;border-radius:999px;color:var(--success);background:var(--success-bg);border:1px solid var(--success-border)}` +
	`main{position:relative;max-width:560px;margin:64px auto;padding:32px;text-align:center;background:var(--surface);border:1px solid var(--border);border-radius:12px}` +
	`.message{color:var(--text-secondary)}` +
	`.tagline{color:var(--text-tertiary);font-size:14px}` +
	`footer{position:relative;text-align:center;color:var(--text-muted);font-size:12px;padding:24px}`

// VerifyPageData is the copy shown on the verification page.
type VerifyPageData struct {
	Heading string
	Message string
}

// VerifyPage renders a full page from a document the theme was applied to.
// theme supplies copy that is not part of the styling surface.
func VerifyPage(doc *Document, theme models.Theme, data VerifyPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildVerifyPageHTML(doc, theme, data))
		return err
	})
}

func buildVerifyPageHTML(doc *Document, theme models.Theme, data VerifyPageData) string {
	heading := data.Heading
	if heading == "" {
		heading = "Verification"
	}

	ambientStyle := ""
	if background, ok := safeStyleValue(doc.Background(themes.AmbientSelector)); ok {
		ambientStyle = fmt.Sprintf(` style="background: %s"`, html.EscapeString(background))
	}

	return fmt.Sprintf(
		`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>%s%s</style>
</head>
<body data-theme="%s">
<div class="ambient"%s></div>
<nav>
	<span class="brand">%s</span>
	<span id="%s" class="nav-badge">%s</span>
</nav>
<main>
	<svg class="trust-ring" width="120" height="120" viewBox="0 0 120 120" aria-hidden="true">
		<defs>
			<linearGradient id="trustGradient" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
				<stop id="%s" offset="0%%" stop-color="%s"/>
				<stop id="%s" offset="100%%" stop-color="%s"/>
			</linearGradient>
		</defs>
		<circle cx="60" cy="60" r="52" fill="none" stroke="url(#trustGradient)" stroke-width="6"/>
	</svg>
	<h1>%s</h1>
	<p class="message">%s</p>
	<p class="tagline">%s</p>
</main>
<footer>%s</footer>
</body>
</html>`,
		html.EscapeString(heading+" · "+theme.Name),
		doc.RootCSS(),
		verifyPageBaseCSS,
		html.EscapeString(theme.ID),
		ambientStyle,
		html.EscapeString(theme.Name),
		themes.NavBadgeID,
		html.EscapeString(doc.Text(themes.NavBadgeID)),
		themes.TrustGradFromID,
		html.EscapeString(doc.Attribute(themes.TrustGradFromID, themes.StopColorAttribute)),
		themes.TrustGradToID,
		html.EscapeString(doc.Attribute(themes.TrustGradToID, themes.StopColorAttribute)),
		html.EscapeString(heading),
		html.EscapeString(data.Message),
		html.EscapeString(theme.Meta.Tagline),
		html.EscapeString(theme.Meta.FooterOrg),
	)
}
