package strategy

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mvp-joe/tagscan/internal/model"
)

// stackStrategy extracts tags from Fortran sources with a line scanner
// and a stack of open constructs. No syntax tree is built: fixed-form
// Fortran is column-sensitive and the constructs worth indexing all
// open and close on statement keywords.
//
// Constructs are emitted when their closer is reached, so the output is
// LIFO ordered: an inner construct appears before the one enclosing it.
// This is the opposite of the tree-sitter strategy's pre-order output.
type stackStrategy struct{}

// NewStackStrategy creates the Fortran strategy.
func NewStackStrategy() Strategy {
	return &stackStrategy{}
}

func (s *stackStrategy) Language() string { return "fortran" }

func (s *stackStrategy) Extensions() []string {
	return []string{".f", ".for", ".f77", ".f90", ".f95", ".f03", ".f08"}
}

// openConstruct is one stack record for a construct whose closer has
// not been seen yet.
type openConstruct struct {
	kind      model.TagKind
	name      string
	startLine int
}

type openerPattern struct {
	kind model.TagKind
	re   *regexp.Regexp
}

// Opener patterns run against the lower-cased code portion of a line.
// Subroutines and functions may carry prefixes (recursive, pure, type
// specs like "double precision"), so those keywords may sit mid-line.
var openers = []openerPattern{
	{model.KindProgram, regexp.MustCompile(`^program\s+([a-z_]\w*)`)},
	{model.KindModule, regexp.MustCompile(`^module\s+([a-z_]\w*)`)},
	{model.KindSubroutine, regexp.MustCompile(`^(?:(?:recursive|pure|elemental|impure|module)\s+)*subroutine\s+([a-z_]\w*)`)},
	{model.KindFunction, regexp.MustCompile(`^(?:[\w()*,=\s]+\s)?function\s+([a-z_]\w*)`)},
	{model.KindType, regexp.MustCompile(`^type(?:\s*,[^:]*::\s*|\s*::\s*|\s+)([a-z_]\w*)`)},
}

// closerRe matches "end", optionally fused or spaced with a suffix
// keyword ("end function", "enddo", "endif", ...).
var closerRe = regexp.MustCompile(`^end(?:\s*([a-z]\w*))?\b`)

func (s *stackStrategy) ExtractTags(ctx context.Context, path string) ([]model.Tag, error) {
	ext := strings.ToLower(filepath.Ext(path))
	supported := false
	for _, e := range s.Extensions() {
		if e == ext {
			supported = true
			break
		}
	}
	if !supported {
		return nil, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(source), "\n")

	// A trailing newline produces one phantom empty line; it should not
	// become the end line of force-closed constructs.
	lastLine := len(lines)
	if lastLine > 1 && lines[lastLine-1] == "" {
		lastLine--
	}

	var stack []openConstruct
	var tags []model.Tag

	for i, raw := range lines {
		lineNo := i + 1

		if isFortranComment(raw) {
			continue
		}

		code := raw
		if bang := strings.IndexByte(code, '!'); bang >= 0 {
			code = code[:bang]
		}
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}

		// Closers are tested first: "end function" contains the
		// function keyword and must never be read as an opener. A line
		// cannot both open and close.
		if m := closerRe.FindStringSubmatch(code); m != nil {
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			suffix := m[1]
			if suffix == "" || model.TagKind(suffix) == top.kind {
				stack = stack[:len(stack)-1]
				tags = append(tags, closedTag(top, lineNo, lines))
			}
			// A mismatched suffix ("end do", "end if") closes an inner
			// block this scanner does not model; the stack stays put.
			continue
		}

		if opened, ok := matchOpener(code); ok {
			opened.startLine = lineNo
			stack = append(stack, opened)
		}
	}

	// Force-close whatever is still open so every opened construct
	// yields exactly one tag. Popping keeps the LIFO output order.
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		tags = append(tags, closedTag(top, lastLine, lines))
	}

	return tags, nil
}

func matchOpener(code string) (openConstruct, bool) {
	// "type(foo) x" declares a variable and "type is" guards a select
	// block; neither opens a derived type.
	if strings.HasPrefix(code, "type(") || strings.HasPrefix(code, "type is") {
		return openConstruct{}, false
	}
	for _, op := range openers {
		m := op.re.FindStringSubmatch(code)
		if m == nil {
			continue
		}
		name := m[1]
		if op.kind == model.KindModule && name == "procedure" {
			continue
		}
		return openConstruct{kind: op.kind, name: name}, true
	}
	return openConstruct{}, false
}

func closedTag(open openConstruct, endLine int, lines []string) model.Tag {
	return model.Tag{
		Kind:      open.kind,
		Name:      open.name,
		StartLine: open.startLine,
		EndLine:   endLine,
		Code:      sliceLines(lines, open.startLine, endLine),
	}
}

// isFortranComment reports whether the whole line is a comment. "!" and
// "*" mark comments wherever they start; legacy fixed-form markers in
// column 1 (c, C, d, D) only count when not immediately followed by an
// identifier character, so free-form statements like "call" or "double
// precision function" are not swallowed.
func isFortranComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	switch trimmed[0] {
	case '!', '*':
		return true
	}
	if len(line) > 0 {
		switch line[0] {
		case 'c', 'C', 'd', 'D':
			if len(line) == 1 {
				return true
			}
			next := line[1]
			if next == ' ' || next == '\t' || (next >= '0' && next <= '9') {
				return true
			}
		}
	}
	return false
}
