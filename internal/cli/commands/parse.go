package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfluff/internal/cache"
	"github.com/leapstack-labs/leapfluff/pkg/format"
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
	"github.com/leapstack-labs/leapfluff/pkg/parser"
)

// ErrUnparsable is returned when any input did not parse cleanly.
var ErrUnparsable = errors.New("found unparsable sections")

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	CodeOnly bool
	Metas    bool
	Watch    bool
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [files...|-]",
		Short: "Parse SQL and print the syntax tree",
		Long: `Parse SQL files into a syntax tree.

Text the grammar cannot account for is reported as unparsable and the
command exits non-zero. With no files, SQL is read from standard input.`,
		Example: `  # Parse a file with the sqlite dialect
  leapfluff parse query.sql

  # Parse from stdin as YAML, code only
  echo "SELECT 1" | leapfluff parse --format yaml --code-only

  # Re-parse whenever the files change
  leapfluff parse --watch models/*.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.CodeOnly, "code-only", false, "Drop whitespace, comments and indentation markers")
	cmd.Flags().BoolVar(&opts.Metas, "metas", false, "Show indentation markers in human output")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-parse files when they change")

	return cmd
}

// parseRun parses and renders one batch of inputs.
type parseRun struct {
	cc      *CommandContext
	opts    *ParseOptions
	popts   parser.Options
	dialect string
	store   *cache.Store
	multi   bool
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	cc := NewCommandContext(cmd)
	popts, err := cc.ParseOptions()
	if err != nil {
		return err
	}
	d, err := cc.Dialect()
	if err != nil {
		return err
	}
	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}

	run := &parseRun{cc: cc, opts: opts, popts: popts, dialect: d.Name(), multi: len(inputs) > 1}
	if cc.Cfg.Cache.Enabled && strings.EqualFold(cc.Cfg.Output, format.JSON) {
		store, err := cache.Open(cc.Cfg.Cache.Path)
		if err != nil {
			cc.Logger.Warn("parse cache unavailable", "path", cc.Cfg.Cache.Path, "error", err)
		} else {
			defer func() { _ = store.Close() }()
			run.store = store
		}
	}

	unparsable, err := run.parse(cmd.Context(), inputs)
	if err != nil {
		return err
	}

	if opts.Watch {
		return run.watch(cmd.Context(), args)
	}
	if unparsable > 0 {
		return fmt.Errorf("%w: %d", ErrUnparsable, unparsable)
	}
	return nil
}

// parse renders every input in order and returns the number of
// unparsable sections and lex errors found.
func (p *parseRun) parse(ctx context.Context, inputs []input) (int, error) {
	hits := make([]*cache.Entry, len(inputs))
	var misses []input
	var missIdx []int
	for i, in := range inputs {
		if e := p.lookup(ctx, in); e != nil {
			hits[i] = e
			continue
		}
		misses = append(misses, in)
		missIdx = append(missIdx, i)
	}

	parsed, err := parseAll(ctx, misses, p.popts)
	if err != nil {
		return 0, err
	}
	results := make([]*parser.Result, len(inputs))
	for j, i := range missIdx {
		results[i] = parsed[j]
	}

	total := 0
	for i, in := range inputs {
		n, err := p.render(ctx, in, results[i], hits[i])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (p *parseRun) render(ctx context.Context, in input, res *parser.Result, hit *cache.Entry) (int, error) {
	r := p.cc.Renderer
	if p.multi && !strings.EqualFold(p.cc.Cfg.Output, format.JSON) {
		r.Println(r.Styles().Header.Render("==== parsing " + in.Name))
	}

	if hit != nil {
		p.cc.Logger.Debug("parse cache hit", "file", in.Name, "id", hit.ID)
		_, err := r.Writer().Write(hit.TreeJSON)
		return hit.Unparsable, err
	}

	var buf bytes.Buffer
	err := format.Render(&buf, res.Tree, format.Options{
		Format:   p.cc.Cfg.Output,
		CodeOnly: p.opts.CodeOnly,
		Metas:    p.opts.Metas,
		Styler:   r.TreeStyler(),
	})
	if err != nil {
		return 0, err
	}
	if _, err := r.Writer().Write(buf.Bytes()); err != nil {
		return 0, err
	}

	n := len(res.LexErrors)
	for _, le := range res.LexErrors {
		p.report(in.Name, le.Pos.Line, le.Pos.Column, "LXR", le.Message)
	}
	for _, v := range res.Violations() {
		p.report(in.Name, v.Pos.Line, v.Pos.Column, "PRS", v.Message)
		n++
	}

	if p.store != nil {
		e := &cache.Entry{
			Dialect:    p.dialect,
			Hash:       p.key(in),
			TreeJSON:   buf.Bytes(),
			Unparsable: n,
		}
		if err := p.store.Put(ctx, e); err != nil {
			p.cc.Logger.Warn("failed to cache parse result", "file", in.Name, "error", err)
		}
	}
	return n, nil
}

func (p *parseRun) report(name string, line, col int, code, msg string) {
	r := p.cc.Renderer
	_, _ = fmt.Fprintf(r.ErrWriter(), "%s L:%3d | P:%3d | %s | %s\n",
		r.Styles().Muted.Render(name), line, col, r.Styles().Error.Render(code), msg)
}

func (p *parseRun) lookup(ctx context.Context, in input) *cache.Entry {
	if p.store == nil {
		return nil
	}
	e, err := p.store.Get(ctx, p.dialect, p.key(in))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			p.cc.Logger.Warn("parse cache lookup failed", "file", in.Name, "error", err)
		}
		return nil
	}
	return e
}

// key folds everything that changes the rendered tree into the cache key.
func (p *parseRun) key(in input) string {
	return cache.Hash(in.SQL, p.cc.Cfg.Output, strconv.FormatBool(p.opts.CodeOnly), indentKey(p.popts.Indent))
}

func indentKey(cfg grammar.IndentConfig) string {
	parts := make([]string, 0, len(cfg))
	for k, v := range cfg {
		parts = append(parts, k+"="+strconv.FormatBool(v))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// watch re-parses files as they change until interrupted.
func (p *parseRun) watch(ctx context.Context, files []string) error {
	watched := map[string]bool{}
	for _, f := range files {
		if f == "-" {
			return errors.New("--watch needs file arguments")
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = true
	}
	if len(watched) == 0 {
		return errors.New("--watch needs file arguments")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Editors replace files on save, so watch the directories.
	dirs := map[string]bool{}
	for f := range watched {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
	}
	p.cc.Logger.Info("watching for changes", "files", len(watched))

	pending := map[string]bool{}
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !watched[event.Name] {
				continue
			}
			pending[event.Name] = true
			debounce = time.After(100 * time.Millisecond)

		case <-debounce:
			names := make([]string, 0, len(pending))
			for n := range pending {
				names = append(names, n)
			}
			sort.Strings(names)
			pending = map[string]bool{}

			for _, name := range names {
				in, err := readInput(nil, name)
				if err != nil {
					p.cc.Logger.Error("failed to read changed file", "file", name, "error", err)
					continue
				}
				p.multi = true
				if _, err := p.parse(ctx, []input{in}); err != nil {
					p.cc.Logger.Error("parse failed", "file", name, "error", err)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.cc.Logger.Error("watcher error", "error", err)
		}
	}
}
