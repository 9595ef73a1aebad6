package model

// TagKind identifies the syntactic category of an extracted construct.
// Each strategy only emits the kinds it declares support for.
type TagKind string

const (
	KindFunction   TagKind = "function"
	KindVariable   TagKind = "variable"
	KindClass      TagKind = "class"
	KindType       TagKind = "type"
	KindInterface  TagKind = "interface"
	KindProgram    TagKind = "program"
	KindModule     TagKind = "module"
	KindSubroutine TagKind = "subroutine"
)

// LanguageUnknown marks an index entry for a file that was checked but
// claimed by no strategy. Such entries are only written by incremental
// updates; full scans omit unclaimed files entirely.
const LanguageUnknown = "unknown"

// Tag is one named construct extracted from a source file.
//
// StartLine and EndLine are 1-based and inclusive. Code is the verbatim
// source spanning those lines with leading/trailing whitespace trimmed;
// re-slicing the original file at [StartLine, EndLine] and trimming must
// reproduce it exactly.
type Tag struct {
	Kind      TagKind `json:"kind"`
	Name      string  `json:"name"`
	StartLine int     `json:"startLine"`
	EndLine   int     `json:"endLine"`
	Code      string  `json:"code"`
}

// FileEntry is the extraction result for a single file. Tags are in
// extraction order, which is strategy-defined: the tree-walking strategy
// emits outer constructs before their nested children, the line-stack
// strategy emits constructs as they close (innermost first).
type FileEntry struct {
	FilePath string `json:"filePath"`
	Language string `json:"language"`
	Tags     []Tag  `json:"tags"`
}
