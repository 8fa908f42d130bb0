package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used by human output.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Hint    lipgloss.Style
	Muted   lipgloss.Style

	// Parse tree styles.
	SegmentType lipgloss.Style
	Raw         lipgloss.Style
	Meta        lipgloss.Style
	Unparsable  lipgloss.Style
}

// NewStyles creates styles bound to a lipgloss renderer, so that colour is
// only emitted when that renderer's output supports it.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:      r.NewStyle().Bold(true),
		Success:     r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:       r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning:     r.NewStyle().Foreground(lipgloss.Color("11")),
		Info:        r.NewStyle().Foreground(lipgloss.Color("12")),
		Hint:        r.NewStyle().Foreground(lipgloss.Color("8")),
		Muted:       r.NewStyle().Foreground(lipgloss.Color("8")),
		SegmentType: r.NewStyle().Foreground(lipgloss.Color("14")),
		Raw:         r.NewStyle().Foreground(lipgloss.Color("11")),
		Meta:        r.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		Unparsable:  r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// treeStyler adapts Styles to format.Styler.
type treeStyler struct{ s *Styles }

func (t treeStyler) Type(s string) string       { return t.s.SegmentType.Render(s) }
func (t treeStyler) Raw(s string) string        { return t.s.Raw.Render(s) }
func (t treeStyler) Meta(s string) string       { return t.s.Meta.Render(s) }
func (t treeStyler) Unparsable(s string) string { return t.s.Unparsable.Render(s) }
