package strategy

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/tagscan/internal/model"
)

// Test Plan for the TypeScript/JavaScript strategy:
// - Extract a one-line function declaration with exact line numbers
// - Distinguish variable, function-literal and arrow initializers
// - Span the initializer, not the statement, for arrow functions
// - Extract classes, interfaces and type aliases
// - Emit outer constructs before nested ones (pre-order)
// - Yield nothing for unsupported extensions and binary garbage
// - Verify code spans are re-sliceable from the source

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAstStrategy_OneLineFunction(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "one.ts", "function foo(){}")

	tags, err := NewAstStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	assert.Equal(t, model.KindFunction, tags[0].Kind)
	assert.Equal(t, "foo", tags[0].Name)
	assert.Equal(t, 1, tags[0].StartLine)
	assert.Equal(t, 1, tags[0].EndLine)
	assert.Equal(t, "function foo(){}", tags[0].Code)
}

func TestAstStrategy_VariableKinds(t *testing.T) {
	t.Parallel()

	content := `const x = 5;
const f = () => {};
const g = function () {};
let uninitialized;
`
	path := writeSource(t, "vars.ts", content)

	tags, err := NewAstStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 3)

	assert.Equal(t, model.KindVariable, tags[0].Kind)
	assert.Equal(t, "x", tags[0].Name)

	assert.Equal(t, model.KindFunction, tags[1].Kind)
	assert.Equal(t, "f", tags[1].Name)

	assert.Equal(t, model.KindFunction, tags[2].Kind)
	assert.Equal(t, "g", tags[2].Name)
}

func TestAstStrategy_ArrowSpansInitializerOnly(t *testing.T) {
	t.Parallel()

	content := `const handler =
  (req: Request) => {
    return req;
  };
`
	path := writeSource(t, "arrow.ts", content)

	tags, err := NewAstStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	// The tag covers the arrow literal, not the whole statement.
	assert.Equal(t, model.KindFunction, tags[0].Kind)
	assert.Equal(t, "handler", tags[0].Name)
	assert.Equal(t, 2, tags[0].StartLine)
	assert.Equal(t, 4, tags[0].EndLine)
}

func TestAstStrategy_TypeDeclarations(t *testing.T) {
	t.Parallel()

	content := `interface User {
  id: number;
  name: string;
}

type UserId = number;

class UserStore {
  private users: User[] = [];
}
`
	path := writeSource(t, "types.ts", content)

	tags, err := NewAstStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 3)

	assert.Equal(t, model.KindInterface, tags[0].Kind)
	assert.Equal(t, "User", tags[0].Name)
	assert.Equal(t, 1, tags[0].StartLine)
	assert.Equal(t, 3, tags[0].EndLine)

	assert.Equal(t, model.KindType, tags[1].Kind)
	assert.Equal(t, "UserId", tags[1].Name)

	assert.Equal(t, model.KindClass, tags[2].Kind)
	assert.Equal(t, "UserStore", tags[2].Name)
	assert.Equal(t, 8, tags[2].StartLine)
	assert.Equal(t, 10, tags[2].EndLine)
}

func TestAstStrategy_PreOrderEmission(t *testing.T) {
	t.Parallel()

	content := `function outer() {
  function inner() {
    return 1;
  }
  return inner();
}
`
	path := writeSource(t, "nested.ts", content)

	tags, err := NewAstStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	// Pre-order: the enclosing function comes first.
	assert.Equal(t, "outer", tags[0].Name)
	assert.Equal(t, 1, tags[0].StartLine)
	assert.Equal(t, 6, tags[0].EndLine)

	assert.Equal(t, "inner", tags[1].Name)
	assert.Equal(t, 2, tags[1].StartLine)
	assert.Equal(t, 4, tags[1].EndLine)
}

func TestAstStrategy_JSXComponent(t *testing.T) {
	t.Parallel()

	content := `const App = () => {
  return <div>hello</div>;
};
`
	path := writeSource(t, "app.tsx", content)

	tags, err := NewAstStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, model.KindFunction, tags[0].Kind)
	assert.Equal(t, "App", tags[0].Name)
}

func TestAstStrategy_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "readme.md", "function foo(){}")

	tags, err := NewAstStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestAstStrategy_GarbageYieldsNothing(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "garbage.ts", "\x00\x01\x02 not a program ]]}}")

	tags, err := NewAstStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestAstStrategy_CodeIsResliceable(t *testing.T) {
	t.Parallel()

	content := `function add(a: number, b: number): number {
  return a + b;
}
`
	path := writeSource(t, "add.ts", content)

	tags, err := NewAstStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	lines := strings.Split(content, "\n")
	expected := strings.TrimSpace(strings.Join(lines[tags[0].StartLine-1:tags[0].EndLine], "\n"))
	assert.Equal(t, expected, tags[0].Code)
}
