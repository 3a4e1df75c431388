package themes

// EmailTokens is the flat, string-only projection of a theme handed to
// email rendering. It carries no references into the registry.
type EmailTokens struct {
	ID          string `json:"id"`
	BgOuter     string `json:"bgOuter"`
	BgCard      string `json:"bgCard"`
	Border      string `json:"border"`
	TextPrimary string `json:"textPrimary"`
	TextBody    string `json:"textBody"`
	TextMuted   string `json:"textMuted"`
	Accent      string `json:"accent"`
	AccentBtn   string `json:"accentBtn"`
	Success     string `json:"success"`
	CodeColor   string `json:"codeColor"`
	CodeBg      string `json:"codeBg"`
	CodeBorder  string `json:"codeBorder"`
	Tagline     string `json:"tagline"`
	FooterOrg   string `json:"footerOrg"`
}

// EmailTokens projects the theme for id, falling back to the default theme.
func (r *Registry) EmailTokens(id string) EmailTokens {
	theme := r.Get(id)
	palette := theme.Email
	return EmailTokens{
		ID:          theme.ID,
		BgOuter:     palette.BgOuter,
		BgCard:      palette.BgCard,
		Border:      palette.Border,
		TextPrimary: palette.TextPrimary,
		TextBody:    palette.TextBody,
		TextMuted:   palette.TextMuted,
		Accent:      palette.Accent,
		AccentBtn:   palette.AccentBtn,
		Success:     palette.Success,
		CodeColor:   palette.CodeColor,
		CodeBg:      palette.CodeBg,
		CodeBorder:  palette.CodeBorder,
		Tagline:     theme.Meta.Tagline,
		FooterOrg:   theme.Meta.FooterOrg,
	}
}

// Map returns the tokens keyed by their JSON names.
func (t EmailTokens) Map() map[string]string {
	return map[string]string{
		"id":          t.ID,
		"bgOuter":     t.BgOuter,
		"bgCard":      t.BgCard,
		"border":      t.Border,
		"textPrimary": t.TextPrimary,
		"textBody":    t.TextBody,
		"textMuted":   t.TextMuted,
		"accent":      t.Accent,
		"accentBtn":   t.AccentBtn,
		"success":     t.Success,
		"codeColor":   t.CodeColor,
		"codeBg":      t.CodeBg,
		"codeBorder":  t.CodeBorder,
		"tagline":     t.Tagline,
		"footerOrg":   t.FooterOrg,
	}
}
