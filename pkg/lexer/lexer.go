// Package lexer splits SQL source text into raw segments.
//
// Lexing is lossless: concatenating the raw text of every produced segment
// reproduces the input exactly. Text that no matcher accepts becomes an
// unlexable segment and a LexError, rather than aborting the lex.
package lexer

import (
	"fmt"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
	"github.com/leapstack-labs/leapfluff/pkg/token"
)

// LexError reports text that could not be lexed.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// lastResort consumes anything up to the next whitespace.
var lastResort = Regex("<unlexable>", `[^\t\n ]*`, segment.Unlexable, WithType("unlexable"))

// Lexer tokenises SQL with an ordered list of matchers.
type Lexer struct {
	matchers Matchers
}

// New returns a lexer using the given matchers.
func New(matchers Matchers) *Lexer {
	return &Lexer{matchers: matchers}
}

// Matchers returns the matchers of the lexer.
func (l *Lexer) Matchers() Matchers {
	return l.matchers
}

// Lex splits sql into raw segments terminated by an end_of_file meta.
func (l *Lexer) Lex(sql string) ([]*segment.Segment, []*LexError) {
	input, offsets := decode(sql)
	pos := token.Start
	var (
		segs []*segment.Segment
		errs []*LexError
	)

	emit := func(elems []element) {
		for _, e := range elems {
			if e.raw == "" {
				continue
			}
			segs = append(segs, segment.NewRaw(e.matcher.Class, e.raw, pos, e.matcher.instanceType()))
			pos = pos.Advance(e.raw)
		}
	}

	idx := 0
	for idx < len(input) {
		matched := false
		for _, m := range l.matchers {
			n := m.matchAt(input, idx)
			if n == 0 {
				continue
			}
			emit(m.elements(sql[offsets[idx]:offsets[idx+n]]))
			idx += n
			matched = true
			break
		}
		if matched {
			continue
		}

		n := lastResort.matchAt(input, idx)
		if n == 0 {
			n = 1
		}
		raw := sql[offsets[idx]:offsets[idx+n]]
		errs = append(errs, &LexError{
			Pos:     pos,
			Message: fmt.Sprintf("unable to lex characters: %q", truncate(raw, 10)),
		})
		emit([]element{{raw: raw, matcher: lastResort}})
		idx += n
	}

	segs = append(segs, segment.NewMeta(segment.MetaEndOfFile, pos))
	return segs, errs
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
