package indexer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mvp-joe/tagscan/internal/index"
	"github.com/mvp-joe/tagscan/internal/logging"
)

// Watcher keeps the index current while files change under the root.
// Filesystem events are debounced and flushed as one incremental
// update batch, so an editor save storm results in a single rewrite.
type Watcher struct {
	indexer      *Indexer
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	allowed      map[string]struct{}
	log          logging.Logger
}

// NewWatcher creates a recursive watcher over the indexer's root. The
// same ignore rules that drive the scan decide which directories are
// watched at all.
func NewWatcher(ix *Indexer, log logging.Logger) (*Watcher, error) {
	allowed, err := ix.AllowedExtensions()
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		indexer:      ix,
		watcher:      fsWatcher,
		debounceTime: 500 * time.Millisecond,
		allowed:      allowed,
		log:          log,
	}

	if err := w.addRecursively(ix.RootDir()); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// Run processes events until the context is cancelled. Each debounce
// window's changed files are flushed through one IncrementalUpdate.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	changed := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if path, ok := w.relevant(event); ok {
				changed[path] = struct{}{}
				if timer == nil {
					timer = time.NewTimer(w.debounceTime)
				} else {
					timer.Stop()
					timer.Reset(w.debounceTime)
				}
				fire = timer.C
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error: %v", err)

		case <-fire:
			fire = nil
			timer = nil
			paths := make([]string, 0, len(changed))
			for p := range changed {
				paths = append(paths, p)
			}
			changed = make(map[string]struct{})

			w.log.Debug("reindexing %d changed file(s)", len(paths))
			if _, err := w.indexer.IncrementalUpdate(ctx, paths); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.log.Error("incremental update failed: %v", err)
			}
		}
	}
}

// relevant filters one event down to a path worth reindexing. New
// directories are added to the watch set as a side effect.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	path := event.Name
	relPath, err := filepath.Rel(w.indexer.RootDir(), path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return "", false
	}

	// Never react to our own index writes.
	if relPath == index.DefaultFile || strings.HasPrefix(relPath, ".tagscan"+string(filepath.Separator)) {
		return "", false
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.indexer.Matcher().MatchesDir(relPath) {
				if err := w.addRecursively(path); err != nil {
					w.log.Warn("cannot watch new directory %s: %v", path, err)
				}
			}
			return "", false
		}
	}

	if w.indexer.Matcher().Matches(relPath) {
		return "", false
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := w.allowed[ext]; !ok {
		return "", false
	}

	// Removed or renamed-away files fail the regular-file check inside
	// IncrementalUpdate and are skipped there with a warning; the index
	// keeps its last known entry for them.
	return path, true
}

func (w *Watcher) addRecursively(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.log.Warn("skipping unwatchable path %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		relPath, relErr := filepath.Rel(w.indexer.RootDir(), path)
		if relErr == nil && relPath != "." && w.indexer.Matcher().MatchesDir(relPath) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
