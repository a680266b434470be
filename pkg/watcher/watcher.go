package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"mockups/pkg/config"
)

// DefaultDebounce is how long the project has to stay quiet before a rebuild
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a project's category directories and reports when the
// screenshot tree has changed
type Watcher struct {
	projectPath string
	sitePath    string
	categories  map[string]bool
	watcher     *fsnotify.Watcher

	Debounce time.Duration
}

// New creates a watcher for the project root and every existing category
// directory below it. Changes under sitePath are never reported.
func New(projectPath, sitePath string, categories []string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		projectPath: filepath.Clean(projectPath),
		sitePath:    filepath.Clean(sitePath),
		categories:  make(map[string]bool, len(categories)),
		watcher:     fsWatcher,
		Debounce:    DefaultDebounce,
	}
	for _, category := range categories {
		w.categories[category] = true
	}

	if err := fsWatcher.Add(w.projectPath); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch folder %s: %w", w.projectPath, err)
	}

	for _, category := range categories {
		dir := filepath.Join(w.projectPath, category)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		w.addTree(dir)
	}

	return w, nil
}

// Run blocks until ctx is done, calling onChange once per burst of relevant
// events. onChange runs on the watcher goroutine so rebuilds never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.watcher.Close()

	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) && w.inCategory(event.Name) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addTree(event.Name)
				}
			}

			if !w.Relevant(event) {
				continue
			}

			fire = time.After(w.Debounce)

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// Close releases the watch descriptors of a watcher that is never Run
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Relevant reports whether an event can change the scanned model
func (w *Watcher) Relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}

	if w.within(w.sitePath, event.Name) {
		return false
	}

	rel, err := filepath.Rel(w.projectPath, event.Name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)

	if rel == config.IconFile || rel == config.ProjectFile {
		return true
	}

	first, _, nested := strings.Cut(rel, "/")
	if !w.categories[first] {
		return false
	}
	if !nested {
		// The category directory itself appeared or went away
		return !event.Has(fsnotify.Write)
	}

	if filepath.Ext(base) == ".png" {
		return true
	}
	// Directory moves inside a category add or drop whole subtrees
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func (w *Watcher) inCategory(path string) bool {
	for category := range w.categories {
		if w.within(filepath.Join(w.projectPath, category), path) {
			return true
		}
	}
	return false
}

func (w *Watcher) within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// addTree watches dir and every directory below it, skipping the site directory
func (w *Watcher) addTree(dir string) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("Warning: cannot watch %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.within(w.sitePath, path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			log.Printf("Warning: cannot watch %s: %v", path, err)
		}
		return nil
	})
	if err != nil {
		log.Printf("Warning: cannot watch %s: %v", dir, err)
	}
}
