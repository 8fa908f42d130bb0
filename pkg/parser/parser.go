// Package parser turns SQL text into a lossless segment tree using the
// grammar library of a registered dialect.
//
// Parsing never fails on bad SQL. Text the grammar cannot account for ends
// up in unparsable nodes, which Result.Violations reports. Parse only
// returns an error for an unknown dialect, a broken grammar library or a
// cancelled context.
//
// # Usage
//
//	res, err := parser.Parse(ctx, "SELECT a FROM t;", parser.Options{Dialect: "sqlite"})
//	if err != nil {
//	    return err
//	}
//	for _, v := range res.Violations() {
//	    fmt.Println(v)
//	}
//
// The dialect packages register themselves on import, so callers import
// them for side effects:
//
//	import _ "github.com/leapstack-labs/leapfluff/pkg/dialects/sqlite"
package parser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
	"github.com/leapstack-labs/leapfluff/pkg/lexer"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// MsgNothingElse is recorded on the unparsable tail of a file the root
// grammar stopped short of.
const MsgNothingElse = "Nothing else in FileSegment."

// Options configures a parse.
type Options struct {
	// Dialect names a registered dialect. Ignored by ParseDialect.
	Dialect string
	// Indent overrides individual indentation switches.
	Indent grammar.IndentConfig
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// Result is the outcome of a parse.
type Result struct {
	Dialect   string
	RunID     string
	Tree      *segment.Segment
	LexErrors []*lexer.LexError
	Stats     grammar.Stats
	Duration  time.Duration
}

// Parse lexes and parses sql with the dialect named in opts.
func Parse(ctx context.Context, sql string, opts Options) (*Result, error) {
	d, err := dialect.Lookup(opts.Dialect)
	if err != nil {
		return nil, err
	}
	return ParseDialect(ctx, d, sql, opts)
}

// ParseDialect lexes and parses sql with d.
func ParseDialect(ctx context.Context, d *dialect.Dialect, sql string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	started := time.Now()

	segs, lexErrs := d.Lexer().Lex(sql)
	for _, le := range lexErrs {
		logger.Debug("lex error", "dialect", d.Name(), "pos", le.Pos.String(), "message", le.Message)
	}

	var ctxOpts []grammar.ContextOption
	ctxOpts = append(ctxOpts, grammar.WithLogger(logger))
	if opts.Indent != nil {
		ctxOpts = append(ctxOpts, grammar.WithIndentConfig(opts.Indent))
	}
	gctx := grammar.NewContext(ctx, d, ctxOpts...)

	tree, err := parseFile(segs, d, gctx)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", d.Name(), err)
	}

	res := &Result{
		Dialect:   d.Name(),
		RunID:     gctx.RunID,
		Tree:      tree,
		LexErrors: lexErrs,
		Stats:     gctx.Stats,
		Duration:  time.Since(started),
	}
	logger.Debug("parsed file",
		"dialect", d.Name(),
		"run_id", res.RunID,
		"segments", len(segs),
		"matches", res.Stats.Matches,
		"cache_hits", res.Stats.CacheHits,
		"cache_misses", res.Stats.CacheMisses,
		"max_depth", res.Stats.MaxDepth,
		"duration", res.Duration,
	)
	for _, v := range res.Violations() {
		logger.Debug("unparsable section", "pos", v.Pos.String(), "expected", v.Expected)
	}
	return res, nil
}

// parseFile matches the root grammar against the code portion of segs and
// wraps the result, with the surrounding non-code, in a file node.
func parseFile(segs []*segment.Segment, d *dialect.Dialect, ctx *grammar.Context) (*segment.Segment, error) {
	start, end := codeBounds(segs)
	if start == end {
		return segment.NewNode(segment.TypeFile, segs), nil
	}

	root := d.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: %s", grammar.ErrUnknownRule, dialect.RootRule)
	}

	code := segs[:end]
	match, err := root.Match(code, start, ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var content []*segment.Segment
	switch {
	case !match.Matched():
		content = []*segment.Segment{segment.NewUnparsable(segs[start:end], root.String())}
	default:
		applied, err := match.Apply(code)
		if err != nil {
			return nil, err
		}
		content = applied
		if match.Stop < end {
			content = append(content, segment.NewUnparsable(segs[match.Stop:end], MsgNothingElse))
		}
	}

	children := make([]*segment.Segment, 0, start+len(content)+len(segs)-end)
	children = append(children, segs[:start]...)
	children = append(children, content...)
	children = append(children, segs[end:]...)
	return segment.NewNode(segment.TypeFile, children), nil
}

// codeBounds returns the index of the first code segment and one past the
// last. Both are zero when there is no code.
func codeBounds(segs []*segment.Segment) (int, int) {
	start := -1
	for i, s := range segs {
		if s.IsCode() {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, 0
	}
	end := len(segs)
	for end > start && !segs[end-1].IsCode() {
		end--
	}
	return start, end
}
