package layouts

import (
	"regexp"
	"sort"
	"strings"

	"github.com/violetshores/vac-themes/internal/themes"
)

var styleVarNameRegex = regexp.MustCompile(`^--[A-Za-z0-9-]+$`)

// Document is a server-side styling surface. It knows which addressable
// elements the page will render and records what a theme writes to them.
type Document struct {
	present     map[string]bool
	styleVars   map[string]string
	backgrounds map[string]string
	attributes  map[string]map[string]string
	texts       map[string]string
}

var _ themes.Surface = (*Document)(nil)

// NewDocument declares the elements present on the page. Writes addressed
// to anything else are ignored.
func NewDocument(elements ...string) *Document {
	present := make(map[string]bool, len(elements))
	for _, element := range elements {
		present[element] = true
	}
	return &Document{
		present:     present,
		styleVars:   make(map[string]string),
		backgrounds: make(map[string]string),
		attributes:  make(map[string]map[string]string),
		texts:       make(map[string]string),
	}
}

// NewVerifyDocument declares the elements rendered by VerifyPage.
func NewVerifyDocument() *Document {
	return NewDocument(
		themes.AmbientSelector,
		themes.TrustGradFromID,
		themes.TrustGradToID,
		themes.NavBadgeID,
	)
}

func (d *Document) SetStyleVar(name, value string) {
	d.styleVars[name] = value
}

func (d *Document) SetBackground(selector, value string) bool {
	if !d.present[selector] {
		return false
	}
	d.backgrounds[selector] = value
	return true
}

func (d *Document) SetAttribute(elementID, name, value string) bool {
	if !d.present[elementID] {
		return false
	}
	if d.attributes[elementID] == nil {
		d.attributes[elementID] = make(map[string]string)
	}
	d.attributes[elementID][name] = value
	return true
}

func (d *Document) SetText(elementID, text string) bool {
	if !d.present[elementID] {
		return false
	}
	d.texts[elementID] = text
	return true
}

func (d *Document) StyleVar(name string) string {
	return d.styleVars[name]
}

func (d *Document) Background(selector string) string {
	return d.backgrounds[selector]
}

func (d *Document) Attribute(elementID, name string) string {
	return d.attributes[elementID][name]
}

func (d *Document) Text(elementID string) string {
	return d.texts[elementID]
}

// RootCSS renders the style variables as a :root rule in name order.
// Names or values that could break out of the rule are dropped.
func (d *Document) RootCSS() string {
	names := make([]string, 0, len(d.styleVars))
	for name := range d.styleVars {
		names = append(names, name)
	}
	sort.Strings(names)

	var builder strings.Builder
	builder.WriteString(":root{")
	for _, name := range names {
		value, ok := safeStyleValue(d.styleVars[name])
		if !ok || !styleVarNameRegex.MatchString(name) {
			continue
		}
		builder.WriteString(name)
		builder.WriteString(":")
		builder.WriteString(value)
		builder.WriteString(";")
	}
	builder.WriteString("}")
	return builder.String()
}

func safeStyleValue(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	if strings.ContainsAny(trimmed, "<>{};\\\"'") {
		return "", false
	}
	return trimmed, true
}
