// Package sqlite provides the SQLite dialect.
//
// The dialect starts from a copy of ANSI and replaces what SQLite does
// differently: its keyword sets, quoting rules, bind parameters, JSON path
// operators, upsert and conflict clauses, PRAGMA, triggers and virtual
// tables. The grammar tables are built once, on first use, and are shared
// read-only afterwards.
package sqlite

import (
	"fmt"
	"sync"

	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/dialects/ansi"
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
	"github.com/leapstack-labs/leapfluff/pkg/lexer"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Name is the registry name of the dialect.
const Name = "sqlite"

func init() {
	dialect.RegisterFunc(Name, Dialect)
}

// Dialect returns the SQLite dialect, building it on first use.
var Dialect = sync.OnceValue(build)

// SegmentGrammar returns the grammar of the named rule.
func SegmentGrammar(name string) (grammar.Matcher, bool) {
	return Dialect().Grammar(name)
}

// SegmentType returns the node type produced by the named rule. Grammars
// and raw parsers have no type.
func SegmentType(name string) (string, bool) {
	return Dialect().SegmentType(name)
}

// RootGrammar returns the grammar a SQLite file is parsed with.
func RootGrammar() grammar.Matcher {
	return Dialect().Root()
}

func build() *dialect.Dialect {
	base := ansi.Dialect()

	b := dialect.Extend(base, Name).
		ReplaceSet(dialect.ReservedKeywords, ReservedKeywords...).
		ReplaceSet(dialect.UnreservedKeywords, UnreservedKeywords...).
		Brackets(dialect.BracketPairs,
			grammar.BracketPair{Type: "round", Start: "StartBracketSegment", End: "EndBracketSegment", Persists: true},
			grammar.BracketPair{Type: "square", Start: "StartSquareBracketSegment", End: "EndSquareBracketSegment", Persists: true},
			grammar.BracketPair{Type: "curly", Start: "StartCurlyBracketSegment", End: "EndCurlyBracketSegment"},
		)

	patchLexer(b)
	addParsers(b)
	replaceGrammars(b, base)
	addExpressionSegments(b)
	addInsertSegments(b)
	addDDLSegments(b)
	addQuerySegments(b)

	return b.Build()
}

// baseGrammar returns a rule of d, panicking if it is missing.
func baseGrammar(d *dialect.Dialect, name string) grammar.Matcher {
	m, ok := d.Grammar(name)
	if !ok {
		panic(fmt.Sprintf("sqlite: base dialect %s has no rule %s", d.Name(), name))
	}
	return m
}

// ---------- Lexer ----------

func patchLexer(b *dialect.Builder) {
	whitespace := lexer.Regex("whitespace", `[^\S\r\n]+`, segment.Whitespace)
	newline := lexer.Regex("newline", `\r\n|\n`, segment.Newline)

	b.PatchLexer(
		// An unterminated block comment runs to the end of the input.
		lexer.Regex("block_comment", `\/\*([^\*]|\*(?!\/))*(\*\/|\Z)`, segment.Comment,
			lexer.WithSubdivider(newline),
			lexer.WithTrimPostSubdivide(whitespace),
		),
		lexer.Regex("single_quote", `'([^']|'')*'`, segment.Code),
		lexer.Regex("double_quote", `"([^"]|"")*"`, segment.Code),
		lexer.Regex("back_quote", "`([^`]|``)*`", segment.Code),
	).
		InsertLexerBefore("question",
			lexer.Regex("at_sign_literal", `@[a-zA-Z0-9_]+`, segment.Literal, lexer.WithType("at_sign_literal")),
			lexer.Regex("colon_literal", `:[a-zA-Z0-9_]+`, segment.Literal, lexer.WithType("colon_literal")),
			lexer.Regex("question_literal", `\?[0-9]+`, segment.Literal, lexer.WithType("question_literal")),
			lexer.Regex("dollar_literal", `\$[a-zA-Z0-9_]+`, segment.Literal, lexer.WithType("dollar_literal")),
		).
		InsertLexerBefore("greater_than",
			lexer.String("inline_path_operator", "->>", segment.Code),
			lexer.String("column_path_operator", "->", segment.Code),
		)
}

// ---------- Parsers ----------

func addParsers(b *dialect.Builder) {
	b.Add(map[string]grammar.Matcher{
		"BackQuotedIdentifierSegment": grammar.NewTypedParser("back_quote", segment.Identifier,
			grammar.WithType("quoted_identifier")),
		"ColumnPathOperatorSegment": grammar.NewStringParser("->", segment.Symbol,
			grammar.WithType("column_path_operator")),
		"InlinePathOperatorSegment": grammar.NewStringParser("->>", segment.Symbol,
			grammar.WithType("column_path_operator")),
		"QuestionMarkSegment": grammar.NewStringParser("?", segment.Symbol, grammar.WithType("question_mark")),
		"AtSignLiteralSegment": grammar.NewTypedParser("at_sign_literal", segment.Literal,
			grammar.WithType("at_sign_literal")),
		"ColonLiteralSegment": grammar.NewTypedParser("colon_literal", segment.Literal,
			grammar.WithType("colon_literal")),
		"QuestionLiteralSegment": grammar.NewTypedParser("question_literal", segment.Literal,
			grammar.WithType("question_literal")),
		"DollarLiteralSegment": grammar.NewTypedParser("dollar_literal", segment.Literal,
			grammar.WithType("dollar_literal")),
	})
}

// ---------- Grammar replacements ----------

func replaceGrammars(b *dialect.Builder, base *dialect.Dialect) {
	b.Replace(map[string]grammar.Matcher{
		"PrimaryKeyGrammar": seq(
			"PRIMARY",
			"KEY",
			oneOf("ASC", "DESC", optional()),
			ref("ConflictClauseSegment", optional()),
			seq("AUTOINCREMENT", optional()),
		),
		"NumericLiteralSegment": oneOf(
			grammar.NewTypedParser("numeric_literal", segment.Literal, grammar.WithType("numeric_literal")),
			ref("ParameterizedSegment"),
		),
		"LiteralGrammar":            grammar.InsertInto(baseGrammar(base, "LiteralGrammar"), ref("ParameterizedSegment")),
		"TemporaryTransientGrammar": ref("TemporaryGrammar"),
		"DateTimeLiteralGrammar": seq(
			oneOf("DATE", "DATETIME"),
			grammar.NewTypedParser("single_quote", segment.Literal, grammar.WithType("date_constructor_literal")),
		),
		"BaseExpressionElementGrammar": oneOf(
			ref("LiteralGrammar"),
			ref("BareFunctionSegment"),
			ref("FunctionSegment"),
			ref("ColumnReferenceSegment"),
			ref("ExpressionSegment"),
			seq(ref("DatatypeSegment"), ref("LiteralGrammar")),
			terminators(ref("CommaSegment"), kw("AS")),
		),
		"AlterTableOptionsGrammar": oneOf(
			seq("RENAME", "TO", ref("SingleIdentifierGrammar")),
			seq(
				"RENAME",
				seq("COLUMN", optional()),
				ref("ColumnReferenceSegment"),
				"TO",
				ref("SingleIdentifierGrammar"),
			),
			seq("ADD", seq("COLUMN", optional()), ref("ColumnDefinitionSegment")),
			seq("DROP", seq("COLUMN", optional()), ref("ColumnReferenceSegment")),
		),
		"AutoIncrementGrammar":      nothing(),
		"CommentClauseSegment":      nothing(),
		"IntervalExpressionSegment": nothing(),
		"TimeZoneGrammar":           nothing(),
		"FetchClauseSegment":        nothing(),
		"TrimParametersGrammar":     nothing(),
		"LikeGrammar":               seq("LIKE"),
		"OverlapsClauseSegment":     nothing(),
		"MLTableExpressionSegment":  nothing(),
		"MergeIntoLiteralGrammar":   nothing(),
		"SamplingExpressionSegment": nothing(),
		"IgnoreRespectNullsGrammar": nothing(),
		"NanLiteralSegment":         nothing(),
		"GroupingSetsClauseSegment": nothing(),
		"BinaryOperatorGrammar": grammar.InsertInto(baseGrammar(base, "BinaryOperatorGrammar"),
			ref("ColumnPathOperatorSegment"),
			ref("InlinePathOperatorSegment"),
		),
		"OrderByClauseTerminators": oneOf("LIMIT", "WINDOW", ref("FrameClauseUnitGrammar")),
		"WhereClauseTerminatorGrammar": oneOf(
			"LIMIT",
			seq("GROUP", "BY"),
			seq("ORDER", "BY"),
			"WINDOW",
		),
		"FromClauseTerminatorGrammar": oneOf(
			"WHERE",
			"LIMIT",
			seq("GROUP", "BY"),
			seq("ORDER", "BY"),
			"WINDOW",
			ref("SetOperatorSegment"),
			ref("WithNoSchemaBindingClauseSegment"),
			ref("WithDataClauseSegment"),
		),
		"GroupByClauseTerminatorGrammar": oneOf(
			seq("ORDER", "BY"),
			"LIMIT",
			"HAVING",
			"WINDOW",
		),
		"PostFunctionGrammar": seq(
			ref("FilterClauseGrammar", optional()),
			ref("OverClauseSegment", optional()),
		),
		"SelectClauseTerminatorGrammar": oneOf(
			"FROM",
			"WHERE",
			seq("ORDER", "BY"),
			"LIMIT",
			ref("SetOperatorSegment"),
		),
		"FunctionContentsGrammar": anyOf(
			ref("ExpressionSegment"),
			seq(ref("ExpressionSegment"), "AS", ref("DatatypeSegment")),
			seq(
				ref("TrimParametersGrammar"),
				ref("ExpressionSegment", optional(), exclude(kw("FROM"))),
				"FROM",
				ref("ExpressionSegment"),
			),
			seq(oneOf(ref("DatetimeUnitSegment"), ref("ExpressionSegment")), "FROM", ref("ExpressionSegment")),
			seq(
				kw("DISTINCT", optional()),
				oneOf(ref("StarSegment"), delimited(ref("FunctionContentsExpressionGrammar"))),
			),
			ref("OrderByClauseSegment"),
			seq(
				oneOf(ref("QuotedLiteralSegment"), ref("SingleIdentifierGrammar"), ref("ColumnReferenceSegment")),
				"IN",
				oneOf(ref("QuotedLiteralSegment"), ref("SingleIdentifierGrammar"), ref("ColumnReferenceSegment")),
			),
			ref("IndexColumnDefinitionSegment"),
			// RAISE(IGNORE) and RAISE(ABORT, 'message') inside triggers.
			oneOf(
				"IGNORE",
				seq(oneOf("ABORT", "FAIL", "ROLLBACK"), ref("CommaSegment"), ref("QuotedLiteralSegment")),
			),
		),
		"Expression_A_Unary_Operator_Grammar": oneOf(
			ref("SignedSegmentGrammar", exclude(seq(ref("QualifiedNumericLiteralSegment")))),
			ref("TildeSegment"),
			ref("NotOperatorGrammar"),
		),
		"IsDistinctFromGrammar": seq(
			"IS",
			kw("NOT", optional()),
			seq("DISTINCT", "FROM", optional()),
		),
		"PatternMatchingGrammar": seq(
			kw("NOT", optional()),
			oneOf("GLOB", "REGEXP", "MATCH"),
		),
		"IsNullGrammar":  kw("ISNULL"),
		"NotNullGrammar": kw("NOTNULL"),
		"CollateGrammar": seq("COLLATE", ref("CollationReferenceSegment")),
		"SingleIdentifierGrammar": oneOf(
			ref("NakedIdentifierSegment"),
			ref("SingleQuotedIdentifierSegment"),
			ref("QuotedIdentifierSegment"),
			ref("BackQuotedIdentifierSegment"),
			terminators(ref("DotSegment")),
		),
		"QuotedIdentifierSegment": grammar.NewTypedParser("double_quote", segment.Identifier,
			grammar.WithType("quoted_identifier")),
		"SingleQuotedIdentifierSegment": grammar.NewTypedParser("single_quote", segment.Identifier,
			grammar.WithType("quoted_identifier")),
		"ColumnConstraintDefaultGrammar": ref("ExpressionSegment"),
		"FrameClauseUnitGrammar":         oneOf("ROWS", "RANGE", "GROUPS"),
	})
}

// ---------- Expressions and references ----------

func addExpressionSegments(b *dialect.Builder) {
	// JSON paths: col->'$.a' and tbl->>'$.a'.
	b.Segment("ColumnReferenceSegment", "column_reference", grammar.InsertInto(ansi.ObjectReference(),
		seq(oneOf(
			ansi.ObjectReference(),
			ref("FunctionSegment"),
			ref("BareFunctionSegment"),
			ref("LiteralGrammar"),
		)),
	)).
		Segment("TableReferenceSegment", "table_reference", grammar.InsertInto(ansi.ObjectReference(),
			seq(
				ansi.ObjectReference(),
				oneOf(ref("ColumnPathOperatorSegment"), ref("InlinePathOperatorSegment")),
				oneOf(ref("LiteralGrammar")),
			),
		)).
		Segment("PragmaReferenceSegment", "pragma_reference", ansi.ObjectReference()).
		Segment("ParameterizedSegment", "parameterized_expression", oneOf(
			ref("AtSignLiteralSegment"),
			ref("QuestionMarkSegment"),
			ref("ColonLiteralSegment"),
			ref("QuestionLiteralSegment"),
			ref("DollarLiteralSegment"),
		)).
		Segment("DatatypeSegment", "data_type", oneOf(
			seq("DOUBLE", "PRECISION"),
			seq("UNSIGNED", "BIG", "INT"),
			seq(
				oneOf(
					seq(oneOf("VARYING", "NATIVE"), oneOf("CHARACTER")),
					seq(oneOf("CHARACTER"), oneOf("VARYING", "NATIVE")),
					ref("DatatypeIdentifierSegment"),
				),
				ref("BracketedArguments", optional()),
				oneOf("UNSIGNED", optional()),
			),
		)).
		Segment("FrameClauseSegment", "frame_clause", seq(
			ref("FrameClauseUnitGrammar"),
			oneOf(
				seq("UNBOUNDED", "PRECEDING"),
				seq("CURRENT", "ROW"),
				seq(ref("ExpressionSegment"), "PRECEDING"),
				seq(
					"BETWEEN",
					oneOf(
						seq("UNBOUNDED", "PRECEDING"),
						seq("CURRENT", "ROW"),
						seq(ref("ExpressionSegment"), "FOLLOWING"),
						seq(ref("ExpressionSegment"), "PRECEDING"),
					),
					"AND",
					oneOf(
						seq("UNBOUNDED", "FOLLOWING"),
						seq("CURRENT", "ROW"),
						seq(ref("ExpressionSegment"), "FOLLOWING"),
						seq(ref("ExpressionSegment"), "PRECEDING"),
					),
				),
			),
			seq(
				"EXCLUDE",
				oneOf(seq("NO", "OTHERS"), seq("CURRENT", "ROW"), "TIES", "GROUP"),
				optional(),
			),
		)).
		Segment("SetOperatorSegment", "set_operator", oneOf(
			seq("UNION", oneOf("DISTINCT", "ALL", optional())),
			seq(oneOf("INTERSECT", "EXCEPT"), kw("ALL", optional())),
			exclude(seq("EXCEPT", bracketed(anything()))),
		))
}
