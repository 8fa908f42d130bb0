package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
	"github.com/leapstack-labs/leapfluff/pkg/token"
)

// Class describes the segment a match produces when applied.
type Class struct {
	// Node is the node type to wrap children in.
	Node string
	// Raw, when set, re-types a single raw segment instead.
	Raw      *segment.RawClass
	RawTypes []string
	// Expected is recorded on unparsable nodes.
	Expected string
}

// NodeClass returns a class that wraps children in a node of type typ.
func NodeClass(typ string) *Class {
	return &Class{Node: typ}
}

// UnparsableClass returns a class for unparsable sections.
func UnparsableClass(expected string) *Class {
	return &Class{Node: segment.TypeUnparsable, Expected: expected}
}

// Insert is a meta segment to place before the segment at Idx.
type Insert struct {
	Idx  int
	Meta segment.MetaKind
}

// MatchResult describes how a grammar matched a slice of segments,
// without building any segments. Apply turns it into a tree.
type MatchResult struct {
	Start, Stop int
	Class       *Class
	Inserts     []Insert
	Children    []*MatchResult
}

// EmptyAt returns a result matching nothing at idx.
func EmptyAt(idx int) *MatchResult {
	return &MatchResult{Start: idx, Stop: idx}
}

// Len returns the number of segments matched.
func (m *MatchResult) Len() int {
	return m.Stop - m.Start
}

// Matched reports whether the result matched anything, or carries
// inserts.
func (m *MatchResult) Matched() bool {
	return m.Len() > 0 || len(m.Inserts) > 0
}

// BetterThan reports whether m is a longer match than other.
func (m *MatchResult) BetterThan(other *MatchResult) bool {
	return m.Len() > other.Len()
}

// Append combines m with a following result. Classless results are
// flattened so their children and inserts are carried directly.
func (m *MatchResult) Append(other *MatchResult, inserts ...Insert) *MatchResult {
	if m.Len() == 0 && len(m.Inserts) == 0 {
		return other
	}
	if other.Len() == 0 && len(other.Inserts) == 0 {
		return m
	}
	out := &MatchResult{
		Start:   min(m.Start, other.Start),
		Stop:    max(m.Stop, other.Stop),
		Inserts: append([]Insert(nil), inserts...),
	}
	for _, part := range []*MatchResult{m, other} {
		if part.Class != nil {
			out.Children = append(out.Children, part)
			continue
		}
		out.Inserts = append(out.Inserts, part.Inserts...)
		out.Children = append(out.Children, part.Children...)
	}
	return out
}

// Wrap returns m wrapped in class. Empty results pass straight through.
func (m *MatchResult) Wrap(class *Class, inserts ...Insert) *MatchResult {
	if !m.Matched() {
		return m
	}
	out := &MatchResult{Start: m.Start, Stop: m.Stop, Class: class}
	if m.Class != nil {
		out.Inserts = append([]Insert(nil), inserts...)
		out.Children = []*MatchResult{m}
		return out
	}
	out.Inserts = append(append([]Insert(nil), inserts...), m.Inserts...)
	out.Children = m.Children
	return out
}

type trigger struct {
	idx    int
	order  int
	insert *Insert
	child  *MatchResult
}

// Apply builds the segments described by the result from the segments it
// was matched against.
func (m *MatchResult) Apply(segs []*segment.Segment) ([]*segment.Segment, error) {
	triggers := make([]trigger, 0, len(m.Inserts)+len(m.Children))
	for i := range m.Inserts {
		triggers = append(triggers, trigger{idx: m.Inserts[i].Idx, order: len(triggers), insert: &m.Inserts[i]})
	}
	for _, c := range m.Children {
		triggers = append(triggers, trigger{idx: c.Start, order: len(triggers), child: c})
	}
	sort.SliceStable(triggers, func(i, j int) bool {
		if triggers[i].idx != triggers[j].idx {
			return triggers[i].idx < triggers[j].idx
		}
		return triggers[i].order < triggers[j].order
	})

	var out []*segment.Segment
	maxIdx := m.Start
	for _, t := range triggers {
		if t.idx > maxIdx {
			out = append(out, segs[maxIdx:t.idx]...)
			maxIdx = t.idx
		} else if t.idx < maxIdx {
			return nil, fmt.Errorf("%w: trigger at %d behind %d", ErrOverlap, t.idx, maxIdx)
		}
		if t.child != nil {
			built, err := t.child.Apply(segs)
			if err != nil {
				return nil, err
			}
			out = append(out, built...)
			maxIdx = t.child.Stop
			continue
		}
		out = append(out, segment.NewMeta(t.insert.Meta, metaPosition(segs, t.insert.Idx)))
	}
	if maxIdx < m.Stop {
		out = append(out, segs[maxIdx:m.Stop]...)
	}

	switch {
	case m.Class == nil:
		return out, nil
	case m.Class.Raw != nil:
		if len(out) != 1 {
			return nil, fmt.Errorf("raw match must cover exactly one segment, got %d", len(out))
		}
		return []*segment.Segment{segment.Retype(out[0], *m.Class.Raw, m.Class.RawTypes...)}, nil
	case m.Class.Node == segment.TypeUnparsable:
		return []*segment.Segment{segment.NewUnparsable(out, m.Class.Expected)}, nil
	default:
		node := segment.NewNode(m.Class.Node, out)
		if len(out) == 0 && m.Start < len(segs) {
			node.Pos = segs[m.Start].Pos
		}
		return []*segment.Segment{node}, nil
	}
}

func metaPosition(segs []*segment.Segment, idx int) token.Position {
	if idx < len(segs) {
		return segs[idx].Pos
	}
	if len(segs) == 0 {
		return token.Start
	}
	return segs[len(segs)-1].End()
}

// String renders the result structure for debug logging.
func (m *MatchResult) String() string {
	var b strings.Builder
	m.stringify(&b, 0)
	return b.String()
}

func (m *MatchResult) stringify(b *strings.Builder, depth int) {
	pad := strings.Repeat("  ", depth)
	name := "<match>"
	if m.Class != nil {
		name = m.Class.Node
		if m.Class.Raw != nil {
			name = m.Class.Raw.Name
		}
	}
	fmt.Fprintf(b, "%s%s [%d:%d]\n", pad, name, m.Start, m.Stop)
	for _, ins := range m.Inserts {
		fmt.Fprintf(b, "%s  +%s@%d\n", pad, ins.Meta, ins.Idx)
	}
	for _, c := range m.Children {
		c.stringify(b, depth+1)
	}
}
