package themes

import (
	"net/url"
	"strings"
)

// ThemeQueryParam is the query parameter that selects a theme on page load.
const ThemeQueryParam = "theme"

// ResolveThemeIDFromLocation reads the theme parameter from a raw query
// string ("?theme=nist" or "theme=nist"). Unknown or missing values resolve
// to the default id.
func (r *Registry) ResolveThemeIDFromLocation(query string) string {
	query = strings.TrimPrefix(query, "?")
	if query == "" {
		return r.defaultID
	}

	// Malformed pairs are dropped; whatever parsed is still used.
	values, _ := url.ParseQuery(query)
	id := values.Get(ThemeQueryParam)
	if r.Has(id) {
		return id
	}
	return r.defaultID
}
