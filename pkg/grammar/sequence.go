package grammar

import (
	"fmt"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Sequence matches its elements in order.
type Sequence struct {
	base
}

// Seq returns a Sequence of the given elements. Strings are keywords and
// Option values configure the grammar.
func Seq(args ...any) *Sequence {
	return &Sequence{base: newBase("Sequence", args)}
}

// Simple unions the hints of the leading elements up to and including the
// first one that is not optional.
func (s *Sequence) Simple(ctx *Context, crumbs []string) *SimpleHint {
	return sequenceHint(s.elements, ctx, crumbs)
}

func sequenceHint(elems []Matcher, ctx *Context, crumbs []string) *SimpleHint {
	out := newHint(nil, nil)
	for _, e := range elems {
		if isMeta(e) {
			continue
		}
		h := e.Simple(ctx, crumbs)
		if h == nil {
			return nil
		}
		out = union(out, h)
		if !e.IsOptional() {
			return out
		}
	}
	return out
}

func isMeta(m Matcher) bool {
	switch m.(type) {
	case *Meta, *Conditional:
		return true
	}
	return false
}

func (s *Sequence) Match(segs []*segment.Segment, idx int, ctx *Context) (*MatchResult, error) {
	return s.matchElements(segs, idx, ctx)
}

// flushMetas places buffered metas: before any non-code gap when every
// meta indents, after the gap otherwise.
func flushMetas(preIdx, postIdx int, buffer []segment.MetaKind) []Insert {
	at := preIdx
	for _, m := range buffer {
		if m.IndentValue() < 0 {
			at = postIdx
			break
		}
	}
	out := make([]Insert, len(buffer))
	for i, m := range buffer {
		out[i] = Insert{Idx: at, Meta: m}
	}
	return out
}

func (s *Sequence) matchElements(segs []*segment.Segment, idx int, ctx *Context) (*MatchResult, error) {
	start := idx
	matched := idx
	maxIdx := len(segs)
	var (
		inserts  []Insert
		children []*MatchResult
		buffer   []segment.MetaKind
		first    = true
		err      error
	)

	if s.mode == Greedy {
		maxIdx, err = trimToTerminator(segs, idx, append(append([]Matcher(nil), s.terminators...), ctx.Terminators()...), ctx)
		if err != nil {
			return nil, err
		}
	}

	for _, elem := range s.elements {
		switch e := elem.(type) {
		case *Conditional:
			if e.enabled(ctx) {
				buffer = append(buffer, e.meta)
			}
			continue
		case *Meta:
			buffer = append(buffer, e.kind)
			continue
		}

		elemIdx := matched
		if s.allowGaps() {
			elemIdx = skipStartForwardToCode(segs, matched, maxIdx)
		}

		if elemIdx >= maxIdx {
			if elem.IsOptional() {
				continue
			}
			if s.mode == Strict || matched == start {
				return EmptyAt(idx), nil
			}
			for _, m := range buffer {
				inserts = append(inserts, Insert{Idx: matched, Meta: m})
			}
			partial := &MatchResult{Start: start, Stop: matched, Inserts: inserts, Children: children}
			return partial.Wrap(UnparsableClass(fmt.Sprintf("%s after %s. Found nothing.", elem, describeSegment(segs[matched-1])))), nil
		}

		restore := ctx.Deeper(false, nil)
		res, err := elem.Match(segs[:maxIdx], elemIdx, ctx)
		restore()
		if err != nil {
			return nil, err
		}

		if !res.Matched() {
			if elem.IsOptional() {
				continue
			}
			if s.mode == Strict {
				return EmptyAt(idx), nil
			}
			if s.mode == GreedyOnceStarted && matched == start {
				return EmptyAt(idx), nil
			}
			if matched == start {
				return &MatchResult{
					Start: start,
					Stop:  maxIdx,
					Class: UnparsableClass(fmt.Sprintf("%s to start sequence. Found %s", elem, describeSegment(segs[elemIdx]))),
				}, nil
			}
			gapStart := skipStartForwardToCode(segs, matched, maxIdx)
			return &MatchResult{
				Start:   start,
				Stop:    maxIdx,
				Inserts: inserts,
				Children: append(children, &MatchResult{
					Start: gapStart,
					Stop:  maxIdx,
					Class: UnparsableClass(fmt.Sprintf("%s after %s. Found %s", elem, describeSegment(segs[matched-1]), describeSegment(segs[elemIdx]))),
				}),
			}, nil
		}

		inserts = append(inserts, flushMetas(matched, elemIdx, buffer)...)
		buffer = nil
		matched = res.Stop

		if first && s.mode == GreedyOnceStarted {
			maxIdx, err = trimToTerminator(segs, matched, append(append([]Matcher(nil), s.terminators...), ctx.Terminators()...), ctx)
			if err != nil {
				return nil, err
			}
			first = false
		}

		if res.Class != nil {
			children = append(children, res)
			continue
		}
		children = append(children, res.Children...)
		inserts = append(inserts, res.Inserts...)
	}

	for _, m := range buffer {
		inserts = append(inserts, Insert{Idx: matched, Meta: m})
	}

	if s.mode != Strict && maxIdx > matched {
		gapStart := skipStartForwardToCode(segs, matched, maxIdx)
		gapStop := skipStopBackwardToCode(segs, maxIdx, gapStart)
		if gapStop > gapStart {
			children = append(children, &MatchResult{
				Start: gapStart,
				Stop:  gapStop,
				Class: UnparsableClass("Nothing here."),
			})
			matched = gapStop
		}
	}

	return &MatchResult{Start: start, Stop: matched, Inserts: inserts, Children: children}, nil
}

// Bracketed matches its elements as a sequence enclosed in a bracket
// pair taken from the dialect.
type Bracketed struct {
	base
}

// Brackets returns a Bracketed grammar. The bracket pair defaults to the
// "round" pair of the "bracket_pairs" set.
func Brackets(args ...any) *Bracketed {
	return &Bracketed{base: newBase("Bracketed", args)}
}

func (b *Bracketed) brackets(ctx *Context) (start, end Matcher, persists bool, err error) {
	for _, p := range ctx.Dialect.BracketPairs(b.bracketSet) {
		if p.Type != b.bracketType {
			continue
		}
		var ok bool
		if start, ok = ctx.Dialect.Grammar(p.Start); !ok {
			return nil, nil, false, &ParseError{Message: "unknown bracket rule " + p.Start, Err: ErrUnknownRule}
		}
		if end, ok = ctx.Dialect.Grammar(p.End); !ok {
			return nil, nil, false, &ParseError{Message: "unknown bracket rule " + p.End, Err: ErrUnknownRule}
		}
		persists = p.Persists
		break
	}
	if b.startBracket != nil {
		start = b.startBracket
	}
	if b.endBracket != nil {
		end = b.endBracket
	}
	if start == nil || end == nil {
		return nil, nil, false, &ParseError{Message: "no bracket pair of type " + b.bracketType, Err: ErrUnknownRule}
	}
	return start, end, persists, nil
}

// Simple returns the hint of the opening bracket.
func (b *Bracketed) Simple(ctx *Context, crumbs []string) *SimpleHint {
	start, _, _, err := b.brackets(ctx)
	if err != nil {
		return nil
	}
	return start.Simple(ctx, crumbs)
}

func (b *Bracketed) Match(segs []*segment.Segment, idx int, ctx *Context) (*MatchResult, error) {
	startBracket, endBracket, persists, err := b.brackets(ctx)
	if err != nil {
		return nil, err
	}

	restore := ctx.Deeper(false, nil)
	open, err := startBracket.Match(segs, idx, ctx)
	restore()
	if err != nil {
		return nil, err
	}
	if !open.Matched() {
		return EmptyAt(idx), nil
	}

	contentStart := open.Stop
	if b.allowGaps() {
		contentStart = skipStartForwardToCode(segs, contentStart, len(segs))
	}

	restore = ctx.Deeper(true, []Matcher{endBracket})
	content, err := (&Sequence{base: b.base}).matchElements(segs, contentStart, ctx)
	restore()
	if err != nil {
		return nil, err
	}

	contentStop := content.Stop
	if !content.Matched() {
		contentStop = open.Stop
	}
	closeIdx := contentStop
	if b.allowGaps() {
		closeIdx = skipStartForwardToCode(segs, contentStop, len(segs))
	}

	var closeMatch *MatchResult
	if closeIdx < len(segs) {
		restore = ctx.Deeper(false, nil)
		closeMatch, err = endBracket.Match(segs, closeIdx, ctx)
		restore()
		if err != nil {
			return nil, err
		}
	}
	if closeMatch == nil || !closeMatch.Matched() {
		if b.mode == Strict {
			return EmptyAt(idx), nil
		}
		return nil, newParseError(segs[idx], ErrMsgUnclosedBracket)
	}

	out := &MatchResult{
		Start: idx,
		Stop:  closeMatch.Stop,
		Inserts: []Insert{
			{Idx: open.Stop, Meta: segment.MetaIndent},
		},
		Children: []*MatchResult{open},
	}
	if content.Matched() {
		if content.Class != nil {
			out.Children = append(out.Children, content)
		} else {
			out.Children = append(out.Children, content.Children...)
			out.Inserts = append(out.Inserts, content.Inserts...)
		}
	}
	out.Inserts = append(out.Inserts, Insert{Idx: closeMatch.Start, Meta: segment.MetaDedent})
	out.Children = append(out.Children, closeMatch)

	if !persists {
		return out, nil
	}
	return out.Wrap(NodeClass(segment.TypeBracketed)), nil
}
