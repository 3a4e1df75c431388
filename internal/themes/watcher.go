package themes

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// FileWatcher reloads a Store when one of its override files is written.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	store    *Store
	files    map[string]bool
	onReload func(error)
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewFileWatcher watches the store's override files. onReload, when set, is
// called after every reload attempt.
func NewFileWatcher(store *Store, onReload func(error)) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(map[string]bool)
	registryPath, domainsPath := store.Paths()
	for _, path := range []string{registryPath, domainsPath} {
		if path != "" {
			files[filepath.Clean(path)] = true
		}
	}

	return &FileWatcher{
		watcher:  watcher,
		store:    store,
		files:    files,
		onReload: onReload,
		done:     make(chan struct{}),
	}, nil
}

// Watching reports whether any override file is configured.
func (fw *FileWatcher) Watching() bool {
	return len(fw.files) > 0
}

// Start begins watching. Embedded files never change, so a store without
// override files starts nothing.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.running || !fw.Watching() {
		return nil
	}

	// Watch directories; editors often replace files instead of writing them.
	dirs := make(map[string]bool)
	for file := range fw.files {
		dirs[filepath.Dir(file)] = true
	}
	for dir := range dirs {
		if err := fw.watcher.Add(dir); err != nil {
			return err
		}
	}

	fw.running = true
	go fw.watch()
	return nil
}

func (fw *FileWatcher) watch() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.reload(event.Name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Theme file watcher error")

		case <-fw.done:
			return
		}
	}
}

func (fw *FileWatcher) reload(path string) {
	err := fw.store.Reload()
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("Theme reload failed; keeping previous themes")
	} else {
		log.Info().Str("file", path).Strs("themes", fw.store.Registry().IDs()).Msg("Themes reloaded")
	}
	if fw.onReload != nil {
		fw.onReload(err)
	}
}

// Stop stops the file watcher.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.running {
		return fw.watcher.Close()
	}
	fw.running = false
	close(fw.done)
	return fw.watcher.Close()
}
