package themes

import (
	"fmt"
	"sync/atomic"
)

type snapshot struct {
	registry *Registry
	domains  *DomainMap
}

// Store holds the current registry and domain map. Readers get a consistent
// pair; Reload swaps both at once and only after they validate together.
type Store struct {
	current      atomic.Pointer[snapshot]
	registryPath string
	domainsPath  string
}

// NewStore loads and validates the registry and domain map. Empty paths use
// the embedded files.
func NewStore(registryPath, domainsPath string) (*Store, error) {
	s := &Store{registryPath: registryPath, domainsPath: domainsPath}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore wraps an already loaded pair.
func NewStaticStore(reg *Registry, domains *DomainMap) (*Store, error) {
	if err := domains.Validate(reg); err != nil {
		return nil, err
	}
	s := &Store{}
	s.current.Store(&snapshot{registry: reg, domains: domains})
	return s, nil
}

// Snapshot returns the registry and domain map currently in use.
func (s *Store) Snapshot() (*Registry, *DomainMap) {
	current := s.current.Load()
	return current.registry, current.domains
}

func (s *Store) Registry() *Registry {
	return s.current.Load().registry
}

func (s *Store) Domains() *DomainMap {
	return s.current.Load().domains
}

// Paths returns the override files the store was loaded from.
func (s *Store) Paths() (registryPath, domainsPath string) {
	return s.registryPath, s.domainsPath
}

// Reload re-reads both files. On any error the previous pair stays in use.
func (s *Store) Reload() error {
	reg, err := LoadRegistry(s.registryPath)
	if err != nil {
		return fmt.Errorf("load theme registry: %w", err)
	}
	domains, err := LoadDomainMap(reg.DefaultID(), s.domainsPath)
	if err != nil {
		return fmt.Errorf("load domain map: %w", err)
	}
	if err := domains.Validate(reg); err != nil {
		return err
	}
	s.current.Store(&snapshot{registry: reg, domains: domains})
	return nil
}
