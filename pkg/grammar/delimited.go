package grammar

import (
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Delimited matches one or more of its elements separated by a delimiter,
// which defaults to a comma. Multiple elements are alternatives, not a
// sequence.
type Delimited struct {
	base
}

// NewDelimited returns a Delimited grammar.
func NewDelimited(args ...any) *Delimited {
	d := &Delimited{base: newBase("Delimited", args)}
	if d.delimiter == nil {
		d.delimiter = NewRef("CommaSegment")
		d.desc = describe(d.kind, d.elements, &d.config)
	}
	return d
}

// Simple unions the hints of the elements.
func (d *Delimited) Simple(ctx *Context, crumbs []string) *SimpleHint {
	hints := make([]*SimpleHint, 0, len(d.elements))
	for _, e := range d.elements {
		h := e.Simple(ctx, crumbs)
		if h == nil {
			return nil
		}
		hints = append(hints, h)
	}
	return union(hints...)
}

func (d *Delimited) Match(segs []*segment.Segment, idx int, ctx *Context) (*MatchResult, error) {
	var (
		delimiters     int
		seekingDelim   bool
		maxIdx         = len(segs)
		working        = idx
		result         = EmptyAt(idx)
		delimiterMatch *MatchResult
	)

	delims := []Matcher{d.delimiter}
	terms := append([]Matcher(nil), d.terminators...)
	for _, t := range ctx.Terminators() {
		if !containsMatcher(delims, t) {
			terms = append(terms, t)
		}
	}
	if d.noGaps {
		terms = append(terms, NonCode())
	}

	for {
		if d.allowGaps() && working > idx {
			working = skipStartForwardToCode(segs, working, maxIdx)
		}
		if working >= maxIdx {
			break
		}

		restore := ctx.Deeper(false, nil)
		term, _, err := longestMatch(segs, terms, working, ctx)
		restore()
		if err != nil {
			return nil, err
		}
		if term.Matched() {
			break
		}

		var push []Matcher
		options := d.elements
		if seekingDelim {
			options = delims
		} else {
			push = delims
		}
		restore = ctx.Deeper(false, push)
		res, _, err := longestMatch(segs, options, working, ctx)
		restore()
		if err != nil {
			return nil, err
		}

		if !res.Matched() {
			if seekingDelim && d.optDelimiter {
				seekingDelim = false
				continue
			}
			break
		}

		if seekingDelim {
			delimiterMatch = res
		} else {
			if delimiterMatch != nil {
				delimiters++
				result = result.Append(delimiterMatch)
				delimiterMatch = nil
			}
			result = result.Append(res)
		}
		working = res.Stop
		seekingDelim = !seekingDelim
	}

	if d.trailing && delimiterMatch != nil && !seekingDelim {
		delimiters++
		result = result.Append(delimiterMatch)
	}

	if delimiters < d.minDelims {
		return EmptyAt(idx), nil
	}
	return result, nil
}
