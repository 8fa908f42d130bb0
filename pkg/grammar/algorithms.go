package grammar

import (
	"slices"
	"strings"
	"unicode"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// cancelCheckInterval is how many longestMatch calls pass between context
// cancellation checks.
const cancelCheckInterval = 256

// skipStartForwardToCode returns the index of the first code segment at or
// after start, or maxIdx.
func skipStartForwardToCode(segs []*segment.Segment, start, maxIdx int) int {
	for i := start; i < maxIdx; i++ {
		if segs[i].IsCode() {
			return i
		}
	}
	return maxIdx
}

// skipStopBackwardToCode moves stop back over trailing non-code, but not
// past minIdx.
func skipStopBackwardToCode(segs []*segment.Segment, stop, minIdx int) int {
	for i := stop; i > minIdx; i-- {
		if segs[i-1].IsCode() {
			return i
		}
	}
	return minIdx
}

// firstCode returns the uppercase raw and types of the first code segment
// from idx.
func firstCode(segs []*segment.Segment, idx int) (string, []string, bool) {
	for _, s := range segs[idx:] {
		if s.IsCode() {
			return s.RawUpper(), s.Types, true
		}
	}
	return "", nil, false
}

// firstTrimmedRaw returns the first word of the uppercase raw.
func firstTrimmedRaw(s *segment.Segment) string {
	raw := s.RawUpper()
	if i := strings.IndexByte(raw, ' '); i >= 0 {
		return raw[:i]
	}
	return raw
}

// pruneOptions drops options whose hint rules out the next code segment.
func pruneOptions(options []Matcher, segs []*segment.Segment, idx int, ctx *Context) []Matcher {
	raw, types, ok := firstCode(segs, idx)
	if !ok {
		return options
	}
	out := make([]Matcher, 0, len(options))
	for _, opt := range options {
		if opt.Simple(ctx, nil).Accepts(raw, types) {
			out = append(out, opt)
		}
	}
	return out
}

// longestMatch tries each matcher at idx and returns the longest result.
// It stops early on a match that reaches the end of segs, on the last
// option, or when a terminator follows the best match.
func longestMatch(segs []*segment.Segment, matchers []Matcher, idx int, ctx *Context) (*MatchResult, Matcher, error) {
	maxIdx := len(segs)
	if len(matchers) == 0 || idx >= maxIdx {
		return EmptyAt(idx), nil, nil
	}
	ctx.Stats.Matches++
	if ctx.Stats.Matches%cancelCheckInterval == 0 {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
	}

	options := pruneOptions(matchers, segs, idx, ctx)
	if len(options) == 0 {
		return EmptyAt(idx), nil, nil
	}

	terminators := ctx.Terminators()
	loc := locKey(segs, idx)
	best := EmptyAt(idx)
	var bestMatcher Matcher

	for i, m := range options {
		key := loc
		key.matcher = m.Key()
		res, ok := ctx.checkCache(key)
		if !ok {
			var err error
			res, err = m.Match(segs, idx, ctx)
			if err != nil {
				return nil, nil, err
			}
			ctx.putCache(key, res)
		}

		if res.Matched() && res.Stop == maxIdx {
			return res, m, nil
		}
		if !res.BetterThan(best) {
			continue
		}
		best, bestMatcher = res, m

		if i == len(options)-1 {
			break
		}
		if len(terminators) == 0 {
			continue
		}
		next := skipStartForwardToCode(segs, best.Stop, maxIdx)
		if next == maxIdx {
			break
		}
		terminated := false
		for _, term := range terminators {
			tm, err := term.Match(segs, next, ctx)
			if err != nil {
				return nil, nil, err
			}
			if tm.Matched() {
				terminated = true
				break
			}
		}
		if terminated {
			break
		}
	}
	return best, bestMatcher, nil
}

// nextMatch scans forward from idx for the first position where any of the
// matchers match. Matchers earlier in the list win ties.
func nextMatch(segs []*segment.Segment, idx int, matchers []Matcher, ctx *Context) (*MatchResult, int, error) {
	maxIdx := len(segs)
	if idx >= maxIdx {
		return EmptyAt(idx), -1, nil
	}

	rawMap := map[string][]int{}
	typeMap := map[string][]int{}
	var always []int
	for i, m := range matchers {
		h := m.Simple(ctx, nil)
		if h == nil {
			always = append(always, i)
			continue
		}
		for r := range h.Raws {
			rawMap[r] = append(rawMap[r], i)
		}
		for t := range h.Types {
			typeMap[t] = append(typeMap[t], i)
		}
	}

	for pos := idx; pos < maxIdx; pos++ {
		seg := segs[pos]
		candidates := append([]int(nil), always...)
		candidates = append(candidates, rawMap[firstTrimmedRaw(seg)]...)
		for _, t := range seg.Types {
			candidates = append(candidates, typeMap[t]...)
		}
		if len(candidates) == 0 {
			continue
		}
		slices.Sort(candidates)
		last := -1
		for _, ci := range candidates {
			if ci == last {
				continue
			}
			last = ci
			res, err := matchers[ci].Match(segs, pos, ctx)
			if err != nil {
				return nil, -1, err
			}
			if res.Matched() {
				return res, ci, nil
			}
		}
	}
	return EmptyAt(idx), -1, nil
}

type bracketSet struct {
	starts   []Matcher
	ends     []Matcher
	persists []bool
}

func dialectBrackets(ctx *Context, set string) (bracketSet, error) {
	var bs bracketSet
	for _, p := range ctx.Dialect.BracketPairs(set) {
		start, ok := ctx.Dialect.Grammar(p.Start)
		if !ok {
			return bs, &ParseError{Message: "unknown bracket rule " + p.Start, Err: ErrUnknownRule}
		}
		end, ok := ctx.Dialect.Grammar(p.End)
		if !ok {
			return bs, &ParseError{Message: "unknown bracket rule " + p.End, Err: ErrUnknownRule}
		}
		bs.starts = append(bs.starts, start)
		bs.ends = append(bs.ends, end)
		bs.persists = append(bs.persists, p.Persists)
	}
	return bs, nil
}

// resolveBracket finds the bracket closing the one matched by opening,
// recursing through nested pairs. It fails on unclosed or mismatched
// brackets.
func resolveBracket(segs []*segment.Segment, opening *MatchResult, typeIdx int, bs bracketSet, nested bool, ctx *Context) (*MatchResult, error) {
	matched := opening.Stop
	children := []*MatchResult{opening}
	all := append(append([]Matcher(nil), bs.starts...), bs.ends...)

	for {
		res, which, err := nextMatch(segs, matched, all, ctx)
		if err != nil {
			return nil, err
		}
		if !res.Matched() {
			return nil, newParseError(segs[opening.Start], ErrMsgUnclosedBracket)
		}

		if which >= len(bs.starts) {
			if which-len(bs.starts) != typeIdx {
				return nil, newParseError(segs[res.Stop-1], ErrMsgUnexpectedBracket)
			}
			children = append(children, res)
			out := &MatchResult{
				Start:    opening.Start,
				Stop:     res.Stop,
				Children: children,
				Inserts: []Insert{
					{Idx: opening.Stop, Meta: segment.MetaIndent},
					{Idx: res.Start, Meta: segment.MetaDedent},
				},
			}
			if !bs.persists[typeIdx] {
				return out, nil
			}
			return out.Wrap(NodeClass(segment.TypeBracketed)), nil
		}

		inner, err := resolveBracket(segs, res, which, bs, nested, ctx)
		if err != nil {
			return nil, err
		}
		matched = inner.Stop
		if nested {
			children = append(children, inner)
		}
	}
}

// nextExBracketMatch looks for the next match of matchers, skipping over
// bracketed sections. Reaching a closing bracket first means no match.
func nextExBracketMatch(segs []*segment.Segment, idx int, matchers []Matcher, ctx *Context) (*MatchResult, Matcher, []*MatchResult, error) {
	if idx >= len(segs) {
		return EmptyAt(idx), nil, nil, nil
	}
	bs, err := dialectBrackets(ctx, "bracket_pairs")
	if err != nil {
		return nil, nil, nil, err
	}

	all := append(append(append([]Matcher(nil), matchers...), bs.starts...), bs.ends...)
	nStarts := len(bs.starts)
	var children []*MatchResult
	pos := idx
	for {
		res, which, err := nextMatch(segs, pos, all, ctx)
		if err != nil {
			return nil, nil, nil, err
		}
		if !res.Matched() {
			return EmptyAt(idx), nil, children, nil
		}
		switch {
		case which < len(matchers):
			return res, matchers[which], children, nil
		case which >= len(matchers)+nStarts:
			return EmptyAt(idx), nil, children, nil
		}
		inner, err := resolveBracket(segs, res, which-len(matchers), bs, true, ctx)
		if err != nil {
			return nil, nil, nil, err
		}
		children = append(children, inner)
		pos = inner.Stop
	}
}

// greedyMatch claims segments from idx up to the first terminator.
// Keyword terminators only count when preceded by whitespace, or when they
// sit at the start of the scan.
func greedyMatch(segs []*segment.Segment, idx int, ctx *Context, matchers []Matcher, includeTerminator, nested bool) (*MatchResult, error) {
	maxIdx := len(segs)
	working := idx
	var children []*MatchResult
	var term *MatchResult

	for {
		restore := ctx.Deeper(false, nil)
		res, m, inner, err := nextExBracketMatch(segs, working, matchers, ctx)
		restore()
		if err != nil {
			return nil, err
		}
		if nested {
			children = append(children, inner...)
		}
		if !res.Matched() {
			return &MatchResult{Start: idx, Stop: maxIdx, Children: children}, nil
		}

		if isKeywordHint(m.Simple(ctx, nil)) {
			allowed := res.Start == working
			for i := res.Start; i > working; i-- {
				prev := segs[i-1]
				if prev.IsMeta() {
					continue
				}
				allowed = prev.IsWhitespace()
				break
			}
			if !allowed {
				working = res.Stop
				continue
			}
		}
		term = res
		break
	}

	if includeTerminator {
		return &MatchResult{Start: idx, Stop: term.Stop, Children: children}, nil
	}
	stop := skipStopBackwardToCode(segs, term.Start, idx)
	if stop == idx {
		return &MatchResult{Start: idx, Stop: term.Start, Children: children}, nil
	}
	return &MatchResult{Start: idx, Stop: stop, Children: children}, nil
}

// isKeywordHint reports whether a hint lists at least one raw, only
// alphabetic raws, and no types.
func isKeywordHint(h *SimpleHint) bool {
	if h == nil || len(h.Types) > 0 || len(h.Raws) == 0 {
		return false
	}
	for r := range h.Raws {
		for _, ch := range r {
			if !unicode.IsLetter(ch) {
				return false
			}
		}
	}
	return true
}

// trimToTerminator returns the index where a greedy grammar starting at
// idx must stop.
func trimToTerminator(segs []*segment.Segment, idx int, terminators []Matcher, ctx *Context) (int, error) {
	if idx >= len(segs) {
		return len(segs), nil
	}

	restore := ctx.Deeper(false, nil)
	for _, term := range pruneOptions(terminators, segs, idx, ctx) {
		res, err := term.Match(segs, idx, ctx)
		if err != nil {
			restore()
			return 0, err
		}
		if res.Matched() {
			restore()
			return idx, nil
		}
	}
	restore()

	restore = ctx.Deeper(false, nil)
	res, err := greedyMatch(segs, idx, ctx, terminators, false, false)
	restore()
	if err != nil {
		return 0, err
	}
	return skipStopBackwardToCode(segs, res.Stop, idx), nil
}

// parseModeResult marks unclaimed code up to maxIdx as unparsable in the
// greedy modes.
func parseModeResult(segs []*segment.Segment, current *MatchResult, maxIdx int, mode ParseMode) *MatchResult {
	if mode == Strict {
		return current
	}
	stop := current.Stop
	if stop >= maxIdx || skipStartForwardToCode(segs, stop, maxIdx) == maxIdx {
		return current
	}
	trim := skipStartForwardToCode(segs, stop, maxIdx)
	return current.Append(&MatchResult{
		Start: trim,
		Stop:  maxIdx,
		Class: UnparsableClass("Nothing else in " + mode.String() + " section."),
	})
}
