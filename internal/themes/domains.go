package themes

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/violetshores/vac-themes/assets"
)

// DomainMap maps recipient email domains to theme ids. Keys are either
// exact hostnames ("nist.gov") or suffixes starting with "." (".gov").
// It is immutable after construction.
type DomainMap struct {
	defaultID string
	exact     map[string]string
	suffixes  []string
	bySuffix  map[string]string
}

type domainFile struct {
	Domains map[string]string `yaml:"domains"`
}

// NewDomainMap normalises patterns to lower case and pre-sorts suffixes so
// that the longest (most specific) suffix is tested first.
func NewDomainMap(defaultID string, patterns map[string]string) (*DomainMap, error) {
	defaultID = strings.TrimSpace(defaultID)
	if defaultID == "" {
		defaultID = DefaultThemeID
	}

	dm := &DomainMap{
		defaultID: defaultID,
		exact:     make(map[string]string),
		bySuffix:  make(map[string]string),
	}
	for rawPattern, themeID := range patterns {
		pattern := strings.ToLower(strings.TrimSpace(rawPattern))
		themeID = strings.TrimSpace(themeID)
		switch {
		case pattern == "" || pattern == ".":
			return nil, fmt.Errorf("domain pattern %q is empty", rawPattern)
		case strings.Contains(pattern, "@"):
			return nil, fmt.Errorf("domain pattern %q must not contain @", rawPattern)
		case themeID == "":
			return nil, fmt.Errorf("domain pattern %q has no theme id", rawPattern)
		}

		target := dm.exact
		if strings.HasPrefix(pattern, ".") {
			target = dm.bySuffix
		}
		if existing, ok := target[pattern]; ok && existing != themeID {
			return nil, fmt.Errorf("domain pattern %q maps to both %q and %q", pattern, existing, themeID)
		}
		target[pattern] = themeID
	}

	dm.suffixes = make([]string, 0, len(dm.bySuffix))
	for suffix := range dm.bySuffix {
		dm.suffixes = append(dm.suffixes, suffix)
	}
	sort.Slice(dm.suffixes, func(i, j int) bool {
		if len(dm.suffixes[i]) != len(dm.suffixes[j]) {
			return len(dm.suffixes[i]) > len(dm.suffixes[j])
		}
		return dm.suffixes[i] < dm.suffixes[j]
	})

	return dm, nil
}

// ResolveThemeIDForEmail picks a theme id for a recipient address.
// The domain is everything after the last "@", compared case-insensitively.
// Exact hostnames win over suffixes; among suffixes the longest wins.
// Anything that does not match resolves to the default id.
func (d *DomainMap) ResolveThemeIDForEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return d.defaultID
	}
	domain := strings.ToLower(email[at+1:])

	if themeID, ok := d.exact[domain]; ok {
		return themeID
	}
	for _, suffix := range d.suffixes {
		if strings.HasSuffix(domain, suffix) {
			return d.bySuffix[suffix]
		}
	}
	return d.defaultID
}

// Patterns returns a copy of every pattern and its theme id.
func (d *DomainMap) Patterns() map[string]string {
	patterns := make(map[string]string, len(d.exact)+len(d.bySuffix))
	for pattern, themeID := range d.exact {
		patterns[pattern] = themeID
	}
	for pattern, themeID := range d.bySuffix {
		patterns[pattern] = themeID
	}
	return patterns
}

// Suffixes returns suffix patterns in match order.
func (d *DomainMap) Suffixes() []string {
	suffixes := make([]string, len(d.suffixes))
	copy(suffixes, d.suffixes)
	return suffixes
}

// Validate reports patterns whose theme id is missing from reg. Lookups never
// call this; it is a startup configuration check.
func (d *DomainMap) Validate(reg *Registry) error {
	var problems []string
	for pattern, themeID := range d.Patterns() {
		if !reg.Has(themeID) {
			problems = append(problems, fmt.Sprintf("%s -> %s", pattern, themeID))
		}
	}
	if !reg.Has(d.defaultID) {
		problems = append(problems, fmt.Sprintf("default -> %s", d.defaultID))
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("domain map references unknown themes: %s", strings.Join(problems, ", "))
}

// ParseDomainMap decodes a YAML domain map.
func ParseDomainMap(defaultID string, r io.Reader) (*DomainMap, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file domainFile
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse domains file: %w", err)
	}
	return NewDomainMap(defaultID, file.Domains)
}

func LoadDomainMapFile(defaultID, path string) (*DomainMap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open domains file: %w", err)
	}
	defer file.Close()

	return ParseDomainMap(defaultID, file)
}

func LoadEmbeddedDomainMap(defaultID string) (*DomainMap, error) {
	file, err := assets.ThemesFS.Open(assets.DomainsPath)
	if err != nil {
		return nil, fmt.Errorf("open embedded domains file: %w", err)
	}
	defer file.Close()

	return ParseDomainMap(defaultID, file)
}

// LoadDomainMap uses path when set, otherwise the embedded domain map.
func LoadDomainMap(defaultID, path string) (*DomainMap, error) {
	if path == "" {
		return LoadEmbeddedDomainMap(defaultID)
	}
	return LoadDomainMapFile(defaultID, path)
}
