package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/tagscan/internal/ignore"
	"github.com/mvp-joe/tagscan/internal/logging"
)

// Test Plan:
// - Ignored files and whole directories never show up
// - Extension filtering is case-insensitive; empty set emits everything
// - Include globs narrow the result
// - Each candidate file is emitted exactly once

func buildTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func relPaths(t *testing.T, root string, absPaths []string) []string {
	t.Helper()
	var rels []string
	for _, p := range absPaths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
	}
	return rels
}

func TestWalker_PrunesIgnoredDirectories(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{
		".gitignore":              "node_modules/\n*.log\n",
		"src/app.ts":              "function a(){}",
		"src/debug.log":           "noise",
		"node_modules/lib/x.ts":   "function x(){}",
		"vendor/keep/solver.f90":  "program p\nend\n",
	})

	m := ignore.NewMatcher(root, ignore.DefaultRuleFiles, nil, logging.NewNop())
	w, err := New(root, m, nil, logging.NewNop())
	require.NoError(t, err)

	files, err := w.Walk(nil)
	require.NoError(t, err)

	rels := relPaths(t, root, files)
	assert.Contains(t, rels, "src/app.ts")
	assert.Contains(t, rels, "vendor/keep/solver.f90")
	assert.NotContains(t, rels, "src/debug.log")
	assert.NotContains(t, rels, "node_modules/lib/x.ts")
}

func TestWalker_ExtensionFilterIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{
		"a.ts":  "",
		"b.TS":  "",
		"c.f90": "",
		"d.txt": "",
	})

	m := ignore.NewMatcher(root, ignore.DefaultRuleFiles, nil, logging.NewNop())
	w, err := New(root, m, nil, logging.NewNop())
	require.NoError(t, err)

	files, err := w.Walk(map[string]struct{}{".ts": {}})
	require.NoError(t, err)

	rels := relPaths(t, root, files)
	assert.ElementsMatch(t, []string{"a.ts", "b.TS"}, rels)
}

func TestWalker_IncludeGlobsNarrow(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{
		"src/app.ts":   "",
		"tools/gen.ts": "",
	})

	m := ignore.NewMatcher(root, ignore.DefaultRuleFiles, nil, logging.NewNop())
	w, err := New(root, m, []string{"src/**"}, logging.NewNop())
	require.NoError(t, err)

	files, err := w.Walk(nil)
	require.NoError(t, err)

	rels := relPaths(t, root, files)
	assert.ElementsMatch(t, []string{"src/app.ts"}, rels)
}

func TestWalker_BadIncludeGlobFails(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m := ignore.NewMatcher(root, ignore.DefaultRuleFiles, nil, logging.NewNop())

	_, err := New(root, m, []string{"[unclosed"}, logging.NewNop())
	assert.Error(t, err)
}

func TestWalker_EmitsEachFileOnce(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{
		"a.ts":     "",
		"x/b.ts":   "",
		"x/y/c.ts": "",
	})

	m := ignore.NewMatcher(root, ignore.DefaultRuleFiles, nil, logging.NewNop())
	w, err := New(root, m, nil, logging.NewNop())
	require.NoError(t, err)

	files, err := w.Walk(nil)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, f := range files {
		seen[f]++
	}
	for f, n := range seen {
		assert.Equal(t, 1, n, "file %s emitted %d times", f, n)
	}
	assert.Len(t, files, 3)
}
