// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfluff/internal/cli/config"
	"github.com/leapstack-labs/leapfluff/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/leapfluff/internal/config"
	"github.com/leapstack-labs/leapfluff/internal/testutil"
)

// SetupTestProject creates a temporary project holding the given SQL
// files, keyed by relative path. It returns the project root.
func SetupTestProject(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(tmpDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return tmpDir
}

// TestConfig returns the default configuration with the on-disk cache
// turned off, so tests never write outside their temp dirs.
func TestConfig() *config.Config {
	cfg := sharedcfg.Default()
	cfg.Cache.Enabled = false
	return cfg
}

// Result holds the captured output of a command run.
type Result struct {
	Out    string
	ErrOut string
	Err    error
}

// Execute runs cmd with args and stdin, with cfg and a test logger in its
// context, and captures both output streams.
func Execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, stdin string, args ...string) Result {
	t.Helper()

	if cfg == nil {
		cfg = TestConfig()
	}
	ctx := config.WithLogger(context.Background(), testutil.NewTestLogger(t))
	ctx = config.WithConfig(ctx, cfg)

	// Subcommands run without the root, so match its silencing here.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	return Result{Out: out.String(), ErrOut: errOut.String(), Err: err}
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the given TTY state.
func NewTestRenderer(isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
