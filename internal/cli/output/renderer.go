// Package output renders command results for terminals and pipes.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/leapstack-labs/leapfluff/pkg/format"
	"github.com/leapstack-labs/leapfluff/pkg/lint"
)

// Renderer writes command output. Styling is only applied on a TTY.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer) *Renderer {
	return NewRendererWithTTY(out, errOut, IsTTY(out))
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool) *Renderer {
	profile := termenv.Ascii
	if isTTY {
		profile = termenv.NewOutput(out).EnvColorProfile()
	}
	lr := lipgloss.NewRenderer(out)
	lr.SetColorProfile(profile)

	return &Renderer{
		out:    out,
		errOut: errOut,
		isTTY:  isTTY,
		styles: NewStyles(lr),
	}
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the error writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes a line to the output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Success writes a styled success line.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render(msg))
}

// Warn writes a styled warning line to the error writer.
func (r *Renderer) Warn(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render(msg))
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table returns a table writer mirrored to the output. Terminals get box
// drawing, pipes get plain columns.
func (r *Renderer) Table() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	if r.isTTY {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleDefault)
		t.Style().Options.DrawBorder = false
		t.Style().Options.SeparateColumns = false
		t.Style().Options.SeparateHeader = false
	}
	return t
}

// TreeStyler returns a format.Styler for parse trees, or nil off a TTY.
func (r *Renderer) TreeStyler() format.Styler {
	if !r.isTTY {
		return nil
	}
	return treeStyler{r.styles}
}

// Severity renders a severity with its colour.
func (r *Renderer) Severity(sev lint.Severity) string {
	switch sev {
	case lint.SeverityError:
		return r.styles.Error.Render(sev.String())
	case lint.SeverityWarning:
		return r.styles.Warning.Render(sev.String())
	case lint.SeverityInfo:
		return r.styles.Info.Render(sev.String())
	default:
		return r.styles.Hint.Render(sev.String())
	}
}
