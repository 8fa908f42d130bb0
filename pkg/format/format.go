// Package format renders parse trees.
//
// Three output forms are supported. Human output prints one line per
// segment with its position, indented by depth. YAML and JSON output
// render the tree as nested records keyed by segment type.
package format

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Output formats.
const (
	Human = "human"
	YAML  = "yaml"
	JSON  = "json"
)

// ErrUnknownFormat is returned for an output format Render does not know.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported output formats.
func Formats() []string {
	return []string{Human, YAML, JSON}
}

// Styler decorates human output. The zero Options use plain text.
type Styler interface {
	Type(s string) string
	Raw(s string) string
	Meta(s string) string
	Unparsable(s string) string
}

// Options configures rendering.
type Options struct {
	Format string
	// CodeOnly drops whitespace, comments and metas.
	CodeOnly bool
	// Metas includes indent metas in human output.
	Metas bool
	// Styler colours human output. Nil means plain.
	Styler Styler
}

// Render writes tree to w in the requested format.
func Render(w io.Writer, tree *segment.Segment, opts Options) error {
	switch strings.ToLower(opts.Format) {
	case "", Human:
		return renderHuman(w, tree, opts)
	case YAML:
		return renderYAML(w, tree, opts.CodeOnly)
	case JSON:
		return renderJSON(w, tree, opts.CodeOnly)
	}
	return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, opts.Format, strings.Join(Formats(), ", "))
}

// String renders tree to a string.
func String(tree *segment.Segment, opts Options) (string, error) {
	var b strings.Builder
	if err := Render(&b, tree, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

type plain struct{}

func (plain) Type(s string) string       { return s }
func (plain) Raw(s string) string        { return s }
func (plain) Meta(s string) string       { return s }
func (plain) Unparsable(s string) string { return s }
