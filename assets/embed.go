package assets

import "embed"

const (
	ThemesPath  = "themes.yaml"
	DomainsPath = "domains.yaml"
)

// ThemesFS holds the bundled theme registry and domain map.
//
//go:embed themes.yaml domains.yaml
var ThemesFS embed.FS
