package walker

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/tagscan/internal/ignore"
	"github.com/mvp-joe/tagscan/internal/logging"
)

// Walker enumerates the non-ignored regular files under a root
// directory. Ignored directories are pruned without descending, so a
// rule like "node_modules/" cuts the whole subtree out of the walk.
type Walker struct {
	root     string
	matcher  *ignore.Matcher
	includes []glob.Glob
	log      logging.Logger
}

// New creates a walker for root. includePatterns are optional glob
// patterns ('/' separated, compiled with gobwas/glob); when non-empty a
// file must match at least one of them to be emitted.
func New(root string, matcher *ignore.Matcher, includePatterns []string, log logging.Logger) (*Walker, error) {
	w := &Walker{
		root:    root,
		matcher: matcher,
		log:     log,
	}
	for _, pattern := range includePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		w.includes = append(w.includes, g)
	}
	return w, nil
}

// Walk returns the absolute paths of every candidate file under the
// root. allowedExtensions holds lower-cased extensions including the
// leading dot; when empty, all non-ignored files qualify. Visit order
// is not part of the contract. Unreadable directories are logged and
// skipped, never fatal.
func (w *Walker) Walk(allowedExtensions map[string]struct{}) ([]string, error) {
	var files []string

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.log.Warn("skipping unreadable path %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		relPath, relErr := filepath.Rel(w.root, path)
		if relErr != nil || relPath == "." {
			return nil
		}

		if d.IsDir() {
			if w.matcher.MatchesDir(relPath) {
				return fs.SkipDir
			}
			return nil
		}

		// Symlinks, sockets and other non-regular entries never qualify.
		if !d.Type().IsRegular() {
			return nil
		}

		if w.matcher.Matches(relPath) {
			return nil
		}

		if len(allowedExtensions) > 0 {
			ext := strings.ToLower(filepath.Ext(path))
			if _, ok := allowedExtensions[ext]; !ok {
				return nil
			}
		}

		if len(w.includes) > 0 && !w.matchesInclude(filepath.ToSlash(relPath)) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

func (w *Walker) matchesInclude(relPath string) bool {
	for _, g := range w.includes {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}
