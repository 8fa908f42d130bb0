package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

const (
	indentSize = 4
	posWidth   = 20
	typeWidth  = 60
)

// Printer writes the human tree form: one segment per line, prefixed with
// its position and indented by depth.
type Printer struct {
	opts   Options
	style  Styler
	output *bytes.Buffer
	depth  int
}

func newPrinter(opts Options) *Printer {
	style := opts.Styler
	if style == nil {
		style = plain{}
	}
	return &Printer{opts: opts, style: style, output: &bytes.Buffer{}}
}

func renderHuman(w io.Writer, tree *segment.Segment, opts Options) error {
	p := newPrinter(opts)
	p.segment(tree)
	_, err := w.Write(p.output.Bytes())
	return err
}

// String returns the formatted output.
func (p *Printer) String() string {
	return p.output.String()
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) visible(s *segment.Segment) bool {
	if s.IsMeta() {
		return p.opts.Metas && !p.opts.CodeOnly
	}
	return !p.opts.CodeOnly || s.IsCode()
}

func (p *Printer) segment(s *segment.Segment) {
	label := s.Type() + ":"
	if s.IsMeta() {
		label = "[META] " + label
	}
	padded := strings.Repeat(" ", p.depth*indentSize) + label

	var suffix string
	switch {
	case s.Kind == segment.KindRaw:
		suffix = p.style.Raw(quoteRaw(s.Raw))
	case s.IsType(segment.TypeUnparsable) && s.Expected != "":
		suffix = p.style.Unparsable("!! Expected: " + quoteRaw(s.Expected))
	}

	styled := p.style.Type(padded)
	switch {
	case s.IsMeta():
		styled = p.style.Meta(padded)
	case s.IsType(segment.TypeUnparsable):
		styled = p.style.Unparsable(padded)
	}

	line := fmt.Sprintf("%-*s|%s", posWidth, position(s), styled)
	if suffix != "" {
		if pad := typeWidth - len(padded); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		line += "  " + suffix
	}
	p.output.WriteString(strings.TrimRight(line, " "))
	p.output.WriteByte('\n')

	p.indent()
	for _, c := range s.Children {
		if p.visible(c) {
			p.segment(c)
		}
	}
	p.dedent()
}

func position(s *segment.Segment) string {
	return fmt.Sprintf("[L:%3d, P:%3d]", s.Pos.Line, s.Pos.Column)
}

// quoteRaw quotes s for display: single quotes
// unless the text contains a single quote and no double quote.
func quoteRaw(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
