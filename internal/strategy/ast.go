package strategy

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/tagscan/internal/model"
)

// astStrategy extracts tags from TypeScript and JavaScript sources via
// a tree-sitter syntax tree. tree-sitter recovers from syntax errors,
// so a damaged file still yields tags for the parts that parse.
//
// Tags are emitted in pre-order traversal order: an outer construct
// appears before anything nested inside it. This is the opposite of
// the Fortran strategy, which emits constructs as they close.
type astStrategy struct {
	tsLang  *sitter.Language
	tsxLang *sitter.Language
}

// NewAstStrategy creates the TypeScript/JavaScript strategy.
func NewAstStrategy() Strategy {
	return &astStrategy{
		tsLang:  sitter.NewLanguage(typescript.LanguageTypescript()),
		tsxLang: sitter.NewLanguage(typescript.LanguageTSX()),
	}
}

func (s *astStrategy) Language() string { return "typescript" }

func (s *astStrategy) Extensions() []string {
	return []string{".ts", ".tsx", ".js", ".jsx"}
}

func (s *astStrategy) ExtractTags(ctx context.Context, path string) ([]model.Tag, error) {
	ext := strings.ToLower(filepath.Ext(path))
	language := s.tsLang
	switch ext {
	case ".ts":
	case ".tsx", ".jsx", ".js":
		// The TSX grammar accepts embedded markup, which plain .js
		// files may also carry.
		language = s.tsxLang
	default:
		return nil, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		// Entirely unparseable input is a normal no-match.
		return nil, nil
	}
	defer tree.Close()

	lines := strings.Split(string(source), "\n")

	var tags []model.Tag
	walkTree(tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_declaration", "generator_function_declaration":
			if tag, ok := namedTag(n, source, lines, model.KindFunction); ok {
				tags = append(tags, tag)
			}
		case "class_declaration":
			if tag, ok := namedTag(n, source, lines, model.KindClass); ok {
				tags = append(tags, tag)
			}
		case "interface_declaration":
			if tag, ok := namedTag(n, source, lines, model.KindInterface); ok {
				tags = append(tags, tag)
			}
		case "type_alias_declaration":
			if tag, ok := namedTag(n, source, lines, model.KindType); ok {
				tags = append(tags, tag)
			}
		case "lexical_declaration", "variable_declaration":
			tags = append(tags, declaratorTags(n, source, lines)...)
		}
		return true
	})

	return tags, nil
}

// namedTag builds a tag spanning the node's full line range. Anonymous
// declarations have no name node and emit nothing.
func namedTag(node *sitter.Node, source []byte, lines []string, kind model.TagKind) (model.Tag, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return model.Tag{}, false
	}
	return nodeTag(node, source, lines, kind, nodeText(nameNode, source)), true
}

// declaratorTags handles one const/let/var statement. A declarator
// initialized with a function or arrow literal becomes a function tag
// spanning the initializer only; any other initializer becomes a
// variable tag spanning the whole declarator; a bare declarator emits
// nothing.
func declaratorTags(node *sitter.Node, source []byte, lines []string) []model.Tag {
	var tags []model.Tag
	for _, decl := range findChildrenByType(node, "variable_declarator") {
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nodeText(nameNode, source)

		valueNode := decl.ChildByFieldName("value")
		if valueNode == nil {
			continue
		}

		switch valueNode.Kind() {
		case "arrow_function", "function_expression", "function":
			tags = append(tags, nodeTag(valueNode, source, lines, model.KindFunction, name))
		default:
			tags = append(tags, nodeTag(decl, source, lines, model.KindVariable, name))
		}
	}
	return tags
}

func nodeTag(node *sitter.Node, source []byte, lines []string, kind model.TagKind, name string) model.Tag {
	startLine := int(node.StartPosition().Row) + 1
	endLine := int(node.EndPosition().Row) + 1
	return model.Tag{
		Kind:      kind,
		Name:      name,
		StartLine: startLine,
		EndLine:   endLine,
		Code:      sliceLines(lines, startLine, endLine),
	}
}

// sliceLines returns the trimmed verbatim span of 1-based inclusive
// lines.
func sliceLines(lines []string, startLine, endLine int) string {
	if startLine < 1 || startLine > len(lines) {
		return ""
	}
	end := endLine
	if end > len(lines) {
		end = len(lines)
	}
	return strings.TrimSpace(strings.Join(lines[startLine-1:end], "\n"))
}

// nodeText extracts the source text of a node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor
// for each node, parents before children.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// findChildrenByType finds all direct children with the given type.
func findChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			results = append(results, child)
		}
	}
	return results
}
