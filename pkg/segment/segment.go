// Package segment defines the lossless parse tree produced by the lexer and
// the grammar engine.
//
// A tree is made of three kinds of segment: raw segments hold source text,
// node segments group children under a type, and meta segments are zero-width
// markers (indents, dedents, end of file) used for layout.
package segment

import (
	"strings"

	"github.com/leapstack-labs/leapfluff/pkg/token"
)

// Kind distinguishes the three segment shapes.
type Kind int

// Segment kinds.
const (
	KindRaw Kind = iota
	KindNode
	KindMeta
)

// Segment is a single element of a parse tree.
type Segment struct {
	Kind     Kind
	Types    []string // instance type first, then class types
	Raw      string   // source text, raw segments only
	Children []*Segment
	Pos      token.Position

	// Raw segment flags.
	code       bool
	whitespace bool
	newline    bool
	comment    bool

	// Indent is +1/-1 for indent metas, 0 otherwise.
	Indent int
	// Implicit marks an implicit indent.
	Implicit bool
	// Expected describes what the parser was looking for in an
	// unparsable node.
	Expected string
}

// Type returns the primary type of the segment.
func (s *Segment) Type() string {
	if len(s.Types) == 0 {
		return ""
	}
	return s.Types[0]
}

// IsType reports whether the segment has any of the given types.
func (s *Segment) IsType(types ...string) bool {
	for _, want := range types {
		for _, have := range s.Types {
			if have == want {
				return true
			}
		}
	}
	return false
}

// IsRaw reports whether the segment carries source text directly.
func (s *Segment) IsRaw() bool { return s.Kind == KindRaw }

// IsMeta reports whether the segment is a zero-width marker.
func (s *Segment) IsMeta() bool { return s.Kind == KindMeta }

// IsCode reports whether the segment (or any descendant) is code.
func (s *Segment) IsCode() bool {
	switch s.Kind {
	case KindRaw:
		return s.code
	case KindMeta:
		return false
	}
	for _, c := range s.Children {
		if c.IsCode() {
			return true
		}
	}
	return false
}

// IsWhitespace reports whether the segment is whitespace or a newline.
func (s *Segment) IsWhitespace() bool {
	if s.Kind == KindRaw {
		return s.whitespace || s.newline
	}
	return false
}

// IsNewline reports whether the segment is a newline.
func (s *Segment) IsNewline() bool { return s.Kind == KindRaw && s.newline }

// IsComment reports whether the segment is a comment.
func (s *Segment) IsComment() bool { return s.Kind == KindRaw && s.comment }

// Text returns the source text covered by the segment.
func (s *Segment) Text() string {
	if s.Kind != KindNode {
		return s.Raw
	}
	var b strings.Builder
	s.writeText(&b)
	return b.String()
}

func (s *Segment) writeText(b *strings.Builder) {
	if s.Kind != KindNode {
		b.WriteString(s.Raw)
		return
	}
	for _, c := range s.Children {
		c.writeText(b)
	}
}

// RawUpper returns the uppercased source text.
func (s *Segment) RawUpper() string {
	return strings.ToUpper(s.Text())
}

// End returns the position immediately after the segment.
func (s *Segment) End() token.Position {
	return s.Pos.Advance(s.Text())
}

// Span returns the source range covered by the segment.
func (s *Segment) Span() token.Span {
	return token.Span{Start: s.Pos, End: s.End()}
}

// Walk visits s and its descendants depth first. Returning false from fn
// skips the children of the current segment.
func (s *Segment) Walk(fn func(*Segment) bool) {
	if !fn(s) {
		return
	}
	for _, c := range s.Children {
		c.Walk(fn)
	}
}

// RawSegments returns the raw and meta leaves in source order.
func (s *Segment) RawSegments() []*Segment {
	var out []*Segment
	s.Walk(func(seg *Segment) bool {
		if seg.Kind != KindNode {
			out = append(out, seg)
		}
		return true
	})
	return out
}

// Find returns every descendant (including s) with any of the given types.
func (s *Segment) Find(types ...string) []*Segment {
	var out []*Segment
	s.Walk(func(seg *Segment) bool {
		if seg.IsType(types...) {
			out = append(out, seg)
		}
		return true
	})
	return out
}

// Child returns the first direct child with any of the given types.
func (s *Segment) Child(types ...string) *Segment {
	for _, c := range s.Children {
		if c.IsType(types...) {
			return c
		}
	}
	return nil
}

// CodeChildren returns the direct children that are code.
func (s *Segment) CodeChildren() []*Segment {
	var out []*Segment
	for _, c := range s.Children {
		if c.IsCode() {
			out = append(out, c)
		}
	}
	return out
}

func mergeTypes(instance []string, class []string) []string {
	out := make([]string, 0, len(instance)+len(class))
	seen := make(map[string]struct{}, len(instance)+len(class))
	for _, list := range [][]string{instance, class} {
		for _, t := range list {
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
