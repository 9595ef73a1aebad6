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

// Test Plan for the Fortran strategy:
// - Extract a program with an inner "end do" that must not close it
// - Force-close an opener with no closer at EOF
// - Emit nested constructs in LIFO (close) order
// - Handle fixed-form comment lines and inline comments
// - Reject unsupported extensions
// - Verify code spans are re-sliceable from the source

func writeFortran(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStackStrategy_ProgramWithInnerBlock(t *testing.T) {
	t.Parallel()

	content := `program p
  do i = 1, 10
    x = x + i
  end do
end program p
`
	path := writeFortran(t, "simple.f90", content)

	tags, err := NewStackStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	assert.Equal(t, model.KindProgram, tags[0].Kind)
	assert.Equal(t, "p", tags[0].Name)
	assert.Equal(t, 1, tags[0].StartLine)
	assert.Equal(t, 5, tags[0].EndLine)
	assert.True(t, strings.HasPrefix(tags[0].Code, "program p"))
	assert.True(t, strings.HasSuffix(tags[0].Code, "end program p"))
}

func TestStackStrategy_ForceCloseAtEOF(t *testing.T) {
	t.Parallel()

	content := `program runaway
  x = 1
`
	path := writeFortran(t, "unclosed.f90", content)

	tags, err := NewStackStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	assert.Equal(t, model.KindProgram, tags[0].Kind)
	assert.Equal(t, "runaway", tags[0].Name)
	assert.Equal(t, 1, tags[0].StartLine)
	assert.Equal(t, 2, tags[0].EndLine)
}

func TestStackStrategy_NestedConstructsAreLIFO(t *testing.T) {
	t.Parallel()

	content := `module solver
contains
  subroutine step(x)
    do i = 1, 10
    end do
  end subroutine
  function norm(v) result(n)
    n = 0
  end function norm
end module solver
`
	path := writeFortran(t, "solver.f90", content)

	tags, err := NewStackStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 3)

	// Constructs are emitted as they close: inner before outer.
	assert.Equal(t, "step", tags[0].Name)
	assert.Equal(t, model.KindSubroutine, tags[0].Kind)
	assert.Equal(t, 3, tags[0].StartLine)
	assert.Equal(t, 6, tags[0].EndLine)

	assert.Equal(t, "norm", tags[1].Name)
	assert.Equal(t, model.KindFunction, tags[1].Kind)
	assert.Equal(t, 7, tags[1].StartLine)
	assert.Equal(t, 9, tags[1].EndLine)

	assert.Equal(t, "solver", tags[2].Name)
	assert.Equal(t, model.KindModule, tags[2].Kind)
	assert.Equal(t, 1, tags[2].StartLine)
	assert.Equal(t, 10, tags[2].EndLine)
}

func TestStackStrategy_FixedFormComments(t *testing.T) {
	t.Parallel()

	content := `      program legacy
c     an old fixed-form comment
C2345 another one
      x = 1 ! inline comment with end do in it
      end
`
	path := writeFortran(t, "legacy.f", content)

	tags, err := NewStackStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	assert.Equal(t, "legacy", tags[0].Name)
	assert.Equal(t, 1, tags[0].StartLine)
	assert.Equal(t, 5, tags[0].EndLine)
}

func TestStackStrategy_DerivedTypeAndPrefixedFunction(t *testing.T) {
	t.Parallel()

	content := `module geometry
  type, public :: point
    real :: x, y
  end type point
contains
  double precision function dist(a, b)
    dist = 0d0
  end function
end module geometry
`
	path := writeFortran(t, "geometry.f90", content)

	tags, err := NewStackStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 3)

	assert.Equal(t, "point", tags[0].Name)
	assert.Equal(t, model.KindType, tags[0].Kind)
	assert.Equal(t, 2, tags[0].StartLine)
	assert.Equal(t, 4, tags[0].EndLine)

	assert.Equal(t, "dist", tags[1].Name)
	assert.Equal(t, model.KindFunction, tags[1].Kind)

	assert.Equal(t, "geometry", tags[2].Name)
	assert.Equal(t, model.KindModule, tags[2].Kind)
}

func TestStackStrategy_TypeDeclarationIsNotAnOpener(t *testing.T) {
	t.Parallel()

	content := `subroutine use_point(p)
  type(point) :: p
  p%x = 1
end subroutine
`
	path := writeFortran(t, "use_point.f90", content)

	tags, err := NewStackStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "use_point", tags[0].Name)
}

func TestStackStrategy_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := writeFortran(t, "notfortran.txt", "program p\nend\n")

	tags, err := NewStackStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestStackStrategy_CodeIsResliceable(t *testing.T) {
	t.Parallel()

	content := `program p
  x = 1
end program p
`
	path := writeFortran(t, "slice.f90", content)

	tags, err := NewStackStrategy().ExtractTags(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	lines := strings.Split(content, "\n")
	expected := strings.TrimSpace(strings.Join(lines[tags[0].StartLine-1:tags[0].EndLine], "\n"))
	assert.Equal(t, expected, tags[0].Code)
}
