package output

import (
	"bytes"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfluff/pkg/lint"
)

func TestRenderer_Plain(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	r := NewRendererWithTTY(out, errOut, false)

	assert.False(t, r.IsTTY())
	assert.Nil(t, r.TreeStyler())

	r.Success("done")
	r.Printf("%s=%d\n", "n", 1)
	r.Warn("careful")
	assert.Equal(t, "done\nn=1\n", out.String(), "no escape codes off a TTY")
	assert.Equal(t, "careful\n", errOut.String())
	assert.Equal(t, "warning", r.Severity(lint.SeverityWarning))
}

func TestRenderer_TTY(t *testing.T) {
	r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, true)
	require.NotNil(t, r.TreeStyler())
	assert.Contains(t, r.TreeStyler().Type("select_clause"), "select_clause")
}

func TestRenderer_JSON(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, out, false)
	require.NoError(t, r.JSON(map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out.String())
}

func TestRenderer_Table(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, out, false)

	tw := r.Table()
	tw.AppendHeader(table.Row{"NAME", "TYPE"})
	tw.AppendRow(table.Row{"SelectStatementSegment", "select_statement"})
	tw.Render()

	assert.Contains(t, out.String(), "SelectStatementSegment")
	assert.NotContains(t, out.String(), "│")
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}
