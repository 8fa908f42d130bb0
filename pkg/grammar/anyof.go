package grammar

import (
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// AnyNumberOf matches any of its elements repeatedly, taking the longest
// option each time.
type AnyNumberOf struct {
	base
}

// AnyOf returns an AnyNumberOf grammar.
func AnyOf(args ...any) *AnyNumberOf {
	return &AnyNumberOf{base: newBase("AnyNumberOf", args)}
}

// OneOf matches exactly one of its elements.
func OneOf(args ...any) *AnyNumberOf {
	return &AnyNumberOf{base: newBase("OneOf", append(args, MinTimes(1), MaxTimes(1)))}
}

// AnySetOf matches its elements in any order, each at most once.
func AnySetOf(args ...any) *AnyNumberOf {
	return &AnyNumberOf{base: newBase("AnySetOf", append(args, MaxTimesPerElement(1)))}
}

// OptionallyBracketed matches the elements with or without surrounding
// round brackets.
func OptionallyBracketed(args ...any) *AnyNumberOf {
	var elems, opts []any
	for _, a := range args {
		if _, ok := a.(Option); ok {
			opts = append(opts, a)
			continue
		}
		elems = append(elems, a)
	}
	var bare any
	if len(elems) == 1 {
		bare = elems[0]
	} else {
		bare = Seq(elems...)
	}
	return OneOf(append([]any{Brackets(elems...), bare}, opts...)...)
}

// IsOptional also holds when no repetition is required.
func (a *AnyNumberOf) IsOptional() bool {
	return a.optional || a.minTimes == 0
}

// Simple unions the hints of all options.
func (a *AnyNumberOf) Simple(ctx *Context, crumbs []string) *SimpleHint {
	hints := make([]*SimpleHint, 0, len(a.elements))
	for _, e := range a.elements {
		h := e.Simple(ctx, crumbs)
		if h == nil {
			return nil
		}
		hints = append(hints, h)
	}
	return union(hints...)
}

func (a *AnyNumberOf) Match(segs []*segment.Segment, idx int, ctx *Context) (*MatchResult, error) {
	if a.exclude != nil {
		restore := ctx.Deeper(false, nil)
		ex, err := a.exclude.Match(segs, idx, ctx)
		restore()
		if err != nil {
			return nil, err
		}
		if ex.Matched() {
			return EmptyAt(idx), nil
		}
	}

	var (
		n       int
		counter = make(map[string]int, len(a.elements))
		matched = EmptyAt(idx)
		stop    = idx
		working = idx
		maxIdx  = len(segs)
		err     error
	)

	if a.mode == Greedy {
		terms := a.terminators
		if !a.resetTerms {
			terms = append(append([]Matcher(nil), a.terminators...), ctx.Terminators()...)
		}
		maxIdx, err = trimToTerminator(segs, idx, terms, ctx)
		if err != nil {
			return nil, err
		}
	}

	for {
		if a.maxTimes > 0 && n >= a.maxTimes {
			return parseModeResult(segs, matched, maxIdx, a.mode), nil
		}
		if stop >= maxIdx || working >= maxIdx {
			if n < a.minTimes {
				return EmptyAt(idx), nil
			}
			return parseModeResult(segs, matched, maxIdx, a.mode), nil
		}

		restore := ctx.Deeper(a.resetTerms, a.terminators)
		res, opt, err := longestMatch(segs[:maxIdx], a.elements, working, ctx)
		restore()
		if err != nil {
			return nil, err
		}

		if !res.Matched() {
			if n < a.minTimes {
				matched = EmptyAt(idx)
			}
			return parseModeResult(segs, matched, maxIdx, a.mode), nil
		}

		counter[opt.Key()]++
		if a.maxPerElem > 0 && counter[opt.Key()] > a.maxPerElem {
			return parseModeResult(segs, matched, maxIdx, a.mode), nil
		}

		matched = matched.Append(res)
		n++
		if res.Len() == 0 {
			// Only metas matched; repeating would not advance.
			return parseModeResult(segs, matched, maxIdx, a.mode), nil
		}
		stop = matched.Stop
		working = stop
		if a.allowGaps() {
			working = skipStartForwardToCode(segs, stop, maxIdx)
		}
	}
}
