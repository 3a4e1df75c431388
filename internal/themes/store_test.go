package themes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/violetshores/vac-themes/assets"
)

// writeFileAtomic replaces path in one rename so watchers never see a
// truncated file.
func writeFileAtomic(t *testing.T, path string, data []byte) {
	t.Helper()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename %s: %v", tmp, err)
	}
}

func overrideFiles(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	registryData, err := assets.ThemesFS.ReadFile(assets.ThemesPath)
	if err != nil {
		t.Fatalf("read embedded themes: %v", err)
	}
	registryPath := filepath.Join(dir, "themes.yaml")
	domainsPath := filepath.Join(dir, "domains.yaml")
	writeFileAtomic(t, registryPath, registryData)
	writeFileAtomic(t, domainsPath, []byte("domains:\n  \"example.org\": nist\n"))
	return registryPath, domainsPath
}

func TestNewStoreEmbedded(t *testing.T) {
	store, err := NewStore("", "")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	reg, domains := store.Snapshot()
	if reg.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", reg.Len())
	}
	if got := domains.ResolveThemeIDForEmail("a@army.mil"); got != "defense" {
		t.Fatalf("resolve = %q, want defense", got)
	}
}

func TestStoreReloadKeepsPreviousOnError(t *testing.T) {
	registryPath, domainsPath := overrideFiles(t)

	store, err := NewStore(registryPath, domainsPath)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	writeFileAtomic(t, domainsPath, []byte("domains:\n  \"example.org\": missing\n"))
	err = store.Reload()
	if err == nil || !strings.Contains(err.Error(), "example.org -> missing") {
		t.Fatalf("Reload() error = %v, want unknown theme reference", err)
	}
	if got := store.Domains().ResolveThemeIDForEmail("a@example.org"); got != "nist" {
		t.Fatalf("resolve after failed reload = %q, want nist", got)
	}

	writeFileAtomic(t, domainsPath, []byte("domains:\n  \"example.org\": enterprise\n"))
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := store.Domains().ResolveThemeIDForEmail("a@example.org"); got != "enterprise" {
		t.Fatalf("resolve after reload = %q, want enterprise", got)
	}
}

func TestNewStaticStoreValidates(t *testing.T) {
	reg := loadTestRegistry(t)
	domains, err := NewDomainMap(reg.DefaultID(), map[string]string{"example.org": "missing"})
	if err != nil {
		t.Fatalf("NewDomainMap() error = %v", err)
	}
	if _, err := NewStaticStore(reg, domains); err == nil {
		t.Fatalf("NewStaticStore() accepted a dangling domain")
	}
}

func TestFileWatcherReloadsOnWrite(t *testing.T) {
	registryPath, domainsPath := overrideFiles(t)

	store, err := NewStore(registryPath, domainsPath)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	reloads := make(chan error, 16)
	watcher, err := NewFileWatcher(store, func(err error) {
		select {
		case reloads <- err:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		_ = watcher.Stop()
	})

	writeFileAtomic(t, domainsPath, []byte("domains:\n  \"example.org\": defense\n"))

	deadline := time.After(3 * time.Second)
	for store.Domains().ResolveThemeIDForEmail("a@example.org") != "defense" {
		select {
		case <-reloads:
		case <-deadline:
			t.Fatalf("store was not reloaded after the domains file changed")
		}
	}
}

func TestFileWatcherIdleForEmbedded(t *testing.T) {
	store, err := NewStore("", "")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	watcher, err := NewFileWatcher(store, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	if watcher.Watching() {
		t.Fatalf("embedded store should have nothing to watch")
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}
