package ignore

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/mvp-joe/tagscan/internal/logging"
)

// DefaultRuleFiles are the ignore rule files consulted when a scan does
// not name its own, in precedence order.
var DefaultRuleFiles = []string{".gitignore", ".ignore"}

// Matcher answers whether a path relative to the scan root is excluded
// by the accumulated ignore rules. Matching follows gitignore
// semantics: later rules override earlier ones, "!" re-includes,
// trailing "/" restricts a rule to directories, and "**" crosses path
// segment boundaries. Rules are rooted at the scan root.
type Matcher struct {
	rules *gitignore.GitIgnore
}

// NewMatcher loads rule files (resolved relative to root) in order and
// appends extraPatterns last, so they take precedence. A missing rule
// file is skipped silently; an unreadable one is skipped with a
// warning.
func NewMatcher(root string, ruleFiles []string, extraPatterns []string, log logging.Logger) *Matcher {
	var lines []string
	for _, name := range ruleFiles {
		path := filepath.Join(root, name)
		content, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Warn("skipping unreadable ignore file %s: %v", path, err)
			}
			continue
		}
		for _, line := range strings.Split(string(content), "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			lines = append(lines, line)
		}
	}
	lines = append(lines, extraPatterns...)

	return &Matcher{rules: gitignore.CompileIgnoreLines(lines...)}
}

// Matches reports whether a file at relPath is ignored.
func (m *Matcher) Matches(relPath string) bool {
	return m.rules.MatchesPath(filepath.ToSlash(relPath))
}

// MatchesDir reports whether the directory at relPath is ignored. The
// trailing slash makes directory-only rules fire.
func (m *Matcher) MatchesDir(relPath string) bool {
	return m.rules.MatchesPath(filepath.ToSlash(relPath) + "/")
}
