// internal/models/themes.go
package models

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const maxThemeNameLength = 100

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
var rgbColorRegex = regexp.MustCompile(`^rgba?\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*(?:,\s*(?:0|1|0?\.\d+|1\.0+)\s*)?\)$`)
var themeIDRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
var tokenNameRegex = regexp.MustCompile(`^--[a-z][a-z0-9-]*$`)

func IsHexColor(value string) bool {
	return hexColorRegex.MatchString(strings.TrimSpace(value))
}

// IsColor accepts hex colours and rgb()/rgba() expressions.
func IsColor(value string) bool {
	trimmed := strings.TrimSpace(value)
	return IsHexColor(trimmed) || rgbColorRegex.MatchString(trimmed)
}

type ThemeMeta struct {
	NavBadgeText string `json:"navBadgeText" yaml:"nav_badge_text"`
	Tagline      string `json:"tagline" yaml:"tagline"`
	FooterOrg    string `json:"footerOrg" yaml:"footer_org"`
}

// EmailPalette is the subset of colours used where CSS custom properties
// are unavailable, i.e. inline-styled email.
type EmailPalette struct {
	BgOuter     string `json:"bgOuter" yaml:"bg_outer"`
	BgCard      string `json:"bgCard" yaml:"bg_card"`
	Border      string `json:"border" yaml:"border"`
	TextPrimary string `json:"textPrimary" yaml:"text_primary"`
	TextBody    string `json:"textBody" yaml:"text_body"`
	TextMuted   string `json:"textMuted" yaml:"text_muted"`
	Accent      string `json:"accent" yaml:"accent"`
	AccentBtn   string `json:"accentBtn" yaml:"accent_btn"`
	Success     string `json:"success" yaml:"success"`
	CodeColor   string `json:"codeColor" yaml:"code_color"`
	CodeBg      string `json:"codeBg" yaml:"code_bg"`
	CodeBorder  string `json:"codeBorder" yaml:"code_border"`
}

// Fields returns the palette keyed by its JSON names.
func (p EmailPalette) Fields() map[string]string {
	return map[string]string{
		"bgOuter":     p.BgOuter,
		"bgCard":      p.BgCard,
		"border":      p.Border,
		"textPrimary": p.TextPrimary,
		"textBody":    p.TextBody,
		"textMuted":   p.TextMuted,
		"accent":      p.Accent,
		"accentBtn":   p.AccentBtn,
		"success":     p.Success,
		"codeColor":   p.CodeColor,
		"codeBg":      p.CodeBg,
		"codeBorder":  p.CodeBorder,
	}
}

type Ambient struct {
	Gradient1 string `json:"gradient1" yaml:"gradient1"`
	Gradient2 string `json:"gradient2" yaml:"gradient2"`
}

// Background layers gradient1 on top of gradient2.
func (a Ambient) Background() string {
	return a.Gradient1 + ", " + a.Gradient2
}

type TrustGradient struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

type Theme struct {
	ID            string            `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name"`
	Audience      string            `json:"audience" yaml:"audience"`
	Meta          ThemeMeta         `json:"meta" yaml:"meta"`
	Tokens        map[string]string `json:"tokens" yaml:"tokens"`
	Email         EmailPalette      `json:"email" yaml:"email"`
	Ambient       Ambient           `json:"ambient" yaml:"ambient"`
	TrustGradient TrustGradient     `json:"trustGradient" yaml:"trust_gradient"`
}

// TokenNames returns the theme's token keys in sorted order.
func (t Theme) TokenNames() []string {
	names := make([]string, 0, len(t.Tokens))
	for name := range t.Tokens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy that shares no maps with t.
func (t Theme) Clone() Theme {
	clone := t
	if t.Tokens != nil {
		clone.Tokens = make(map[string]string, len(t.Tokens))
		for name, value := range t.Tokens {
			clone.Tokens[name] = value
		}
	}
	return clone
}

func (t Theme) Validate() error {
	if !themeIDRegex.MatchString(t.ID) {
		return fmt.Errorf("id %q must be lowercase letters, digits, or hyphens", t.ID)
	}

	trimmedName := strings.TrimSpace(t.Name)
	if trimmedName == "" {
		return fmt.Errorf("name is required")
	}
	if trimmedName != t.Name {
		return fmt.Errorf("name must not have leading or trailing whitespace")
	}
	if len(trimmedName) > maxThemeNameLength {
		return fmt.Errorf("name must be %d characters or fewer", maxThemeNameLength)
	}
	if strings.TrimSpace(t.Audience) == "" {
		return fmt.Errorf("audience is required")
	}

	textFields := map[string]string{
		"meta.nav_badge_text": t.Meta.NavBadgeText,
		"meta.tagline":        t.Meta.Tagline,
		"meta.footer_org":     t.Meta.FooterOrg,
		"ambient.gradient1":   t.Ambient.Gradient1,
		"ambient.gradient2":   t.Ambient.Gradient2,
	}
	for _, name := range sortedKeys(textFields) {
		if strings.TrimSpace(textFields[name]) == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if len(t.Tokens) == 0 {
		return fmt.Errorf("tokens are required")
	}
	for _, name := range t.TokenNames() {
		if !tokenNameRegex.MatchString(name) {
			return fmt.Errorf("token %q must look like --name", name)
		}
		if !IsColor(t.Tokens[name]) {
			return fmt.Errorf("token %s must be a hex or rgba() color, got %q", name, t.Tokens[name])
		}
	}

	emailFields := t.Email.Fields()
	for _, name := range sortedKeys(emailFields) {
		if !IsColor(emailFields[name]) {
			return fmt.Errorf("email.%s must be a hex or rgba() color, got %q", name, emailFields[name])
		}
	}

	if !IsColor(t.TrustGradient.From) {
		return fmt.Errorf("trust_gradient.from must be a hex or rgba() color, got %q", t.TrustGradient.From)
	}
	if !IsColor(t.TrustGradient.To) {
		return fmt.Errorf("trust_gradient.to must be a hex or rgba() color, got %q", t.TrustGradient.To)
	}

	return nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
