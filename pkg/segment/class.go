package segment

import "github.com/leapstack-labs/leapfluff/pkg/token"

// RawClass describes a family of raw segments: its class types and
// whether its members are code, whitespace, newlines or comments.
type RawClass struct {
	Name       string
	Types      []string
	Code       bool
	Whitespace bool
	Newline    bool
	Comment    bool
}

// Raw classes shared by lexers and parsers.
var (
	Code               = RawClass{Name: "CodeSegment", Types: []string{"raw"}, Code: true}
	Word               = RawClass{Name: "WordSegment", Types: []string{"word"}, Code: true}
	Literal            = RawClass{Name: "LiteralSegment", Types: []string{"literal"}, Code: true}
	Keyword            = RawClass{Name: "KeywordSegment", Types: []string{"keyword"}, Code: true}
	LiteralKeyword     = RawClass{Name: "LiteralKeywordSegment", Types: []string{"literal", "keyword"}, Code: true}
	Symbol             = RawClass{Name: "SymbolSegment", Types: []string{"symbol"}, Code: true}
	Identifier         = RawClass{Name: "IdentifierSegment", Types: []string{"identifier"}, Code: true}
	ComparisonOperator = RawClass{Name: "ComparisonOperatorSegment", Types: []string{"comparison_operator"}, Code: true}
	BinaryOperator     = RawClass{Name: "BinaryOperatorSegment", Types: []string{"binary_operator"}, Code: true}
	Unlexable          = RawClass{Name: "UnlexableSegment", Types: []string{"unlexable"}, Code: true}
	Whitespace         = RawClass{Name: "WhitespaceSegment", Types: []string{"whitespace"}, Whitespace: true}
	Newline            = RawClass{Name: "NewlineSegment", Types: []string{"newline"}, Newline: true}
	Comment            = RawClass{Name: "CommentSegment", Types: []string{"comment"}, Comment: true}
)

// Node types produced by the engine itself.
const (
	TypeFile       = "file"
	TypeBracketed  = "bracketed"
	TypeUnparsable = "unparsable"
	TypeIndent     = "indent"
	TypeDedent     = "dedent"
	TypeImplicit   = "implicit_indent"
	TypeEndOfFile  = "end_of_file"
)

// NewRaw creates a raw segment of the given class.
func NewRaw(class RawClass, raw string, pos token.Position, instanceTypes ...string) *Segment {
	return &Segment{
		Kind:       KindRaw,
		Types:      mergeTypes(instanceTypes, class.Types),
		Raw:        raw,
		Pos:        pos,
		code:       class.Code,
		whitespace: class.Whitespace,
		newline:    class.Newline,
		comment:    class.Comment,
	}
}

// Retype copies a raw segment into a new class, keeping its text and
// position.
func Retype(src *Segment, class RawClass, instanceTypes ...string) *Segment {
	return NewRaw(class, src.Raw, src.Pos, instanceTypes...)
}

// NewNode creates a node segment. Its position is taken from the first
// child.
func NewNode(typ string, children []*Segment) *Segment {
	s := &Segment{Kind: KindNode, Types: []string{typ}, Children: children}
	if len(children) > 0 {
		s.Pos = children[0].Pos
	}
	return s
}

// NewUnparsable creates an unparsable node with a description of what was
// expected instead.
func NewUnparsable(children []*Segment, expected string) *Segment {
	s := NewNode(TypeUnparsable, children)
	s.Expected = expected
	return s
}

// MetaKind identifies a kind of meta segment.
type MetaKind int

// Meta kinds.
const (
	MetaIndent MetaKind = iota
	MetaImplicitIndent
	MetaDedent
	MetaEndOfFile
)

func (k MetaKind) String() string {
	switch k {
	case MetaIndent:
		return TypeIndent
	case MetaImplicitIndent:
		return TypeIndent
	case MetaDedent:
		return TypeDedent
	case MetaEndOfFile:
		return TypeEndOfFile
	}
	return "meta"
}

// IndentValue returns the indent balance contributed by the meta.
func (k MetaKind) IndentValue() int {
	switch k {
	case MetaIndent, MetaImplicitIndent:
		return 1
	case MetaDedent:
		return -1
	}
	return 0
}

// NewMeta creates a zero-width meta segment at pos.
func NewMeta(kind MetaKind, pos token.Position) *Segment {
	return &Segment{
		Kind:     KindMeta,
		Types:    []string{kind.String()},
		Pos:      pos,
		Indent:   kind.IndentValue(),
		Implicit: kind == MetaImplicitIndent,
	}
}
