// Package ansi provides the base ANSI SQL dialect: lexer matchers, keyword
// sets and the grammar library every other dialect extends.
//
// Rules are grouped by area: core symbols and literals here, expressions,
// select statements and the remaining statements in their own files.
// Dialects copy ANSI with dialect.Extend and replace what differs.
package ansi

import (
	"strings"
	"sync"

	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

func init() {
	dialect.RegisterFunc("ansi", Dialect)
}

// Names of the additional sets used by generated rules.
const (
	SetBareFunctions     = "bare_functions"
	SetDatetimeUnits     = "datetime_units"
	SetDatePartFunctions = "date_part_function_name"
)

// Dialect returns the base ANSI SQL dialect, building it on first use.
var Dialect = sync.OnceValue(build)

func build() *dialect.Dialect {
	b := dialect.NewDialect("ansi").
		Lexer(Matchers()).
		UpdateSet(dialect.ReservedKeywords, ReservedKeywords...).
		UpdateSet(dialect.UnreservedKeywords, UnreservedKeywords...).
		UpdateSet(SetBareFunctions, BareFunctions...).
		UpdateSet(SetDatetimeUnits, DatetimeUnits...).
		UpdateSet(SetDatePartFunctions, DatePartFunctions...).
		Brackets(dialect.BracketPairs,
			grammar.BracketPair{Type: "round", Start: "StartBracketSegment", End: "EndBracketSegment", Persists: true},
			grammar.BracketPair{Type: "square", Start: "StartSquareBracketSegment", End: "EndSquareBracketSegment", Persists: true},
			grammar.BracketPair{Type: "curly", Start: "StartCurlyBracketSegment", End: "EndCurlyBracketSegment", Persists: true},
		)

	addSymbols(b)
	addLiterals(b)
	addGenerated(b)
	addCoreGrammars(b)
	addReferences(b)
	addExpressions(b)
	addSelect(b)
	addStatements(b)

	return b.Build()
}

// ---------- Symbols ----------

func addSymbols(b *dialect.Builder) {
	b.Add(map[string]grammar.Matcher{
		"DelimiterGrammar":          ref("SemicolonSegment"),
		"SemicolonSegment":          symbol(";", "statement_terminator"),
		"ColonSegment":              symbol(":", "colon"),
		"SliceSegment":              symbol(":", "slice"),
		"StartBracketSegment":       symbol("(", "start_bracket"),
		"EndBracketSegment":         symbol(")", "end_bracket"),
		"StartSquareBracketSegment": symbol("[", "start_square_bracket"),
		"EndSquareBracketSegment":   symbol("]", "end_square_bracket"),
		"StartCurlyBracketSegment":  symbol("{", "start_curly_bracket"),
		"EndCurlyBracketSegment":    symbol("}", "end_curly_bracket"),
		"CommaSegment":              symbol(",", "comma"),
		"DotSegment":                symbol(".", "dot"),
		"StarSegment":               symbol("*", "star"),
		"TildeSegment":              symbol("~", "tilde"),
		"ParameterSegment":          symbol("?", "parameter"),
		"CastOperatorSegment":       symbol("::", "casting_operator"),
		"PlusSegment":               symbol("+", "binary_operator"),
		"MinusSegment":              symbol("-", "binary_operator"),
		"PositiveSegment":           symbol("+", "sign_indicator"),
		"NegativeSegment":           symbol("-", "sign_indicator"),
		"DivideSegment":             symbol("/", "binary_operator"),
		"MultiplySegment":           symbol("*", "binary_operator"),
		"ModuloSegment":             symbol("%", "binary_operator"),
		"SlashSegment":              symbol("/", "slash"),
		"AmpersandSegment":          symbol("&", "ampersand"),
		"PipeSegment":               symbol("|", "pipe"),
		"BitwiseXorSegment":         symbol("^", "binary_operator"),
		"LikeOperatorSegment": grammar.NewTypedParser("like_operator", segment.ComparisonOperator,
			grammar.WithType("like_operator")),
		"RawNotSegment":         rawComparison("!"),
		"RawEqualsSegment":      rawComparison("="),
		"RawGreaterThanSegment": rawComparison(">"),
		"RawLessThanSegment":    rawComparison("<"),
	})

	// Operators built from several raw symbols without gaps.
	b.Segment("EqualsSegment", "comparison_operator", ref("RawEqualsSegment")).
		Segment("GreaterThanSegment", "comparison_operator", ref("RawGreaterThanSegment")).
		Segment("LessThanSegment", "comparison_operator", ref("RawLessThanSegment")).
		Segment("GreaterThanOrEqualToSegment", "comparison_operator",
			seq(ref("RawGreaterThanSegment"), ref("RawEqualsSegment"), noGaps())).
		Segment("LessThanOrEqualToSegment", "comparison_operator",
			seq(ref("RawLessThanSegment"), ref("RawEqualsSegment"), noGaps())).
		Segment("NotEqualToSegment", "comparison_operator", oneOf(
			seq(ref("RawNotSegment"), ref("RawEqualsSegment"), noGaps()),
			seq(ref("RawLessThanSegment"), ref("RawGreaterThanSegment"), noGaps()),
		)).
		Segment("ConcatSegment", "binary_operator", seq(ref("PipeSegment"), ref("PipeSegment"), noGaps())).
		Segment("BitwiseAndSegment", "binary_operator", ref("AmpersandSegment")).
		Segment("BitwiseOrSegment", "binary_operator", ref("PipeSegment")).
		Segment("BitwiseLShiftSegment", "binary_operator",
			seq(ref("RawLessThanSegment"), ref("RawLessThanSegment"), noGaps())).
		Segment("BitwiseRShiftSegment", "binary_operator",
			seq(ref("RawGreaterThanSegment"), ref("RawGreaterThanSegment"), noGaps()))
}

// ---------- Literals ----------

func addLiterals(b *dialect.Builder) {
	b.Add(map[string]grammar.Matcher{
		"QuotedIdentifierSegment": grammar.NewTypedParser("double_quote", segment.Identifier,
			grammar.WithType("quoted_identifier")),
		"QuotedLiteralSegment": grammar.NewTypedParser("single_quote", segment.Literal,
			grammar.WithType("quoted_literal")),
		"SingleQuotedIdentifierSegment": grammar.NewTypedParser("single_quote", segment.Identifier,
			grammar.WithType("quoted_identifier")),
		"NumericLiteralSegment": grammar.NewTypedParser("numeric_literal", segment.Literal,
			grammar.WithType("numeric_literal")),
		"NullLiteralSegment": grammar.NewStringParser("null", segment.LiteralKeyword,
			grammar.WithType("null_literal")),
		"NanLiteralSegment": grammar.NewStringParser("nan", segment.LiteralKeyword,
			grammar.WithType("null_literal")),
		"TrueSegment": grammar.NewStringParser("true", segment.LiteralKeyword,
			grammar.WithType("boolean_literal")),
		"FalseSegment": grammar.NewStringParser("false", segment.LiteralKeyword,
			grammar.WithType("boolean_literal")),
		"ParameterNameSegment": grammar.NewRegexParser(`"?[A-Z][A-Z0-9_]*"?`, segment.Code,
			grammar.WithType("parameter")),
		"FunctionNameIdentifierSegment": grammar.NewTypedParser("word", segment.Word,
			grammar.WithType("function_name_identifier")),
		"UnknownLiteralSegment": nothing(),
		"NormalizedGrammar":     nothing(),
		"BooleanLiteralGrammar": oneOf(ref("TrueSegment"), ref("FalseSegment")),
		"DateTimeLiteralGrammar": seq(
			oneOf("DATE", "TIME", "TIMESTAMP", "INTERVAL"),
			grammar.NewTypedParser("single_quote", segment.Literal, grammar.WithType("date_constructor_literal")),
		),
		"LiteralGrammar": oneOf(
			ref("QuotedLiteralSegment"),
			ref("NumericLiteralSegment"),
			ref("BooleanLiteralGrammar"),
			ref("QualifiedNumericLiteralSegment"),
			ref("NullLiteralSegment"),
			ref("DateTimeLiteralGrammar"),
			ref("ArrayLiteralSegment"),
			ref("TypedArrayLiteralSegment"),
			ref("ObjectLiteralSegment"),
		),
	})

	b.Segment("QualifiedNumericLiteralSegment", "numeric_literal",
		seq(ref("SignedSegmentGrammar"), ref("NumericLiteralSegment"), noGaps())).
		Segment("ArrayLiteralSegment", "array_literal", bracketed(
			delimited(ref("BaseExpressionElementGrammar"), grammar.AllowTrailing(), optional()),
			grammar.BracketType("square"), greedy(),
		)).
		Segment("ArrayTypeSegment", "array_type", nothing()).
		Segment("TypedArrayLiteralSegment", "typed_array_literal",
			seq(ref("ArrayTypeSegment"), ref("ArrayLiteralSegment"))).
		Segment("ObjectLiteralSegment", "object_literal", bracketed(
			delimited(ref("ObjectLiteralElementSegment"), optional()),
			grammar.BracketType("curly"),
		)).
		Segment("ObjectLiteralElementSegment", "object_literal_element",
			seq(ref("QuotedLiteralSegment"), ref("ColonSegment"), ref("BaseExpressionElementGrammar")))
}

// ---------- Generated ----------

// addGenerated defines the rules built from the finished keyword sets, so
// that a dialect changing its sets gets matching parsers.
func addGenerated(b *dialect.Builder) {
	b.Generate("BareFunctionSegment", func(d *dialect.Dialect) grammar.Matcher {
		return grammar.NewMultiStringParser(d.Set(SetBareFunctions), segment.Code, grammar.WithType("bare_function"))
	}).
		Generate("NakedIdentifierSegment", NakedIdentifier).
		Generate("DatatypeIdentifierSegment", func(*dialect.Dialect) grammar.Matcher {
			return oneOf(
				grammar.NewRegexParser(`[A-Z_][A-Z0-9_]*`, segment.Code,
					grammar.WithType("data_type_identifier"), grammar.AntiTemplate(`^(NOT)$`)),
				ref("SingleIdentifierGrammar", exclude(ref("NakedIdentifierSegment"))),
			)
		}).
		Generate("DatetimeUnitSegment", func(d *dialect.Dialect) grammar.Matcher {
			return grammar.NewMultiStringParser(d.Set(SetDatetimeUnits), segment.Code, grammar.WithType("date_part"))
		}).
		Generate("DatePartFunctionName", func(d *dialect.Dialect) grammar.Matcher {
			return grammar.NewMultiStringParser(d.Set(SetDatePartFunctions), segment.Code,
				grammar.WithType("function_name_identifier"))
		})
}

// NakedIdentifier builds the unquoted identifier parser of a dialect. The
// pattern refuses pure numbers, and the anti-template refuses the reserved
// keywords of d.
func NakedIdentifier(d *dialect.Dialect) grammar.Matcher {
	opts := []grammar.ParserOption{grammar.WithType("naked_identifier")}
	if reserved := d.Set(dialect.ReservedKeywords); len(reserved) > 0 {
		opts = append(opts, grammar.AntiTemplate(`^(`+strings.Join(reserved, "|")+`)$`))
	}
	return grammar.NewRegexParser(`[A-Z0-9_]*[A-Z][A-Z0-9_]*`, segment.Identifier, opts...)
}

// ---------- Core grammars ----------

func addCoreGrammars(b *dialect.Builder) {
	b.Add(map[string]grammar.Matcher{
		"SingleIdentifierGrammar": oneOf(
			ref("NakedIdentifierSegment"),
			ref("QuotedIdentifierSegment"),
			terminators(ref("DotSegment")),
		),
		"ArithmeticBinaryOperatorGrammar": oneOf(
			ref("PlusSegment"),
			ref("MinusSegment"),
			ref("DivideSegment"),
			ref("MultiplySegment"),
			ref("ModuloSegment"),
			ref("BitwiseAndSegment"),
			ref("BitwiseOrSegment"),
			ref("BitwiseXorSegment"),
			ref("BitwiseLShiftSegment"),
			ref("BitwiseRShiftSegment"),
		),
		"SignedSegmentGrammar":        oneOf(ref("PositiveSegment"), ref("NegativeSegment")),
		"StringBinaryOperatorGrammar": oneOf(ref("ConcatSegment")),
		"BooleanBinaryOperatorGrammar": oneOf(
			ref("AndOperatorGrammar"),
			ref("OrOperatorGrammar"),
		),
		"IsDistinctFromGrammar": seq("IS", kw("NOT", optional()), "DISTINCT", "FROM"),
		"ComparisonOperatorGrammar": oneOf(
			ref("EqualsSegment"),
			ref("GreaterThanSegment"),
			ref("LessThanSegment"),
			ref("GreaterThanOrEqualToSegment"),
			ref("LessThanOrEqualToSegment"),
			ref("NotEqualToSegment"),
			ref("LikeOperatorSegment"),
			ref("IsDistinctFromGrammar"),
		),
		"AndOperatorGrammar": grammar.NewStringParser("AND", segment.BinaryOperator),
		"OrOperatorGrammar":  grammar.NewStringParser("OR", segment.BinaryOperator),
		"NotOperatorGrammar": grammar.NewStringParser("NOT", segment.Keyword, grammar.WithType("keyword")),
		"BinaryOperatorGrammar": oneOf(
			ref("ArithmeticBinaryOperatorGrammar"),
			ref("StringBinaryOperatorGrammar"),
			ref("BooleanBinaryOperatorGrammar"),
			ref("ComparisonOperatorGrammar"),
		),
		"MergeIntoLiteralGrammar":             seq("MERGE", "INTO"),
		"PreTableFunctionKeywordsGrammar":     nothing(),
		"BracketedColumnReferenceListGrammar": bracketed(delimited(ref("ColumnReferenceSegment"))),
		"OrReplaceGrammar":                    seq("OR", "REPLACE"),
		"TemporaryTransientGrammar":           oneOf("TRANSIENT", ref("TemporaryGrammar")),
		"TemporaryGrammar":                    oneOf("TEMP", "TEMPORARY"),
		"IfExistsGrammar":                     seq("IF", "EXISTS"),
		"IfNotExistsGrammar":                  seq("IF", "NOT", "EXISTS"),
		"LikeGrammar":                         oneOf("LIKE", "RLIKE", "ILIKE"),
		"PatternMatchingGrammar":              nothing(),
		"UnionGrammar":                        seq("UNION", oneOf("DISTINCT", "ALL", optional())),
		"IsClauseGrammar": oneOf(
			ref("NullLiteralSegment"),
			ref("NanLiteralSegment"),
			ref("UnknownLiteralSegment"),
			ref("BooleanLiteralGrammar"),
			ref("NormalizedGrammar"),
		),
		"IsNullGrammar":        nothing(),
		"NotNullGrammar":       nothing(),
		"CollateGrammar":       nothing(),
		"PrimaryKeyGrammar":    seq("PRIMARY", "KEY"),
		"ForeignKeyGrammar":    seq("FOREIGN", "KEY"),
		"UniqueKeyGrammar":     seq("UNIQUE"),
		"AutoIncrementGrammar": seq("AUTO_INCREMENT"),
		"FunctionParameterGrammar": oneOf(
			seq(ref("ParameterNameSegment", optional()), oneOf(seq("ANY", "TYPE"), ref("DatatypeSegment"))),
			oneOf(seq("ANY", "TYPE"), ref("DatatypeSegment")),
		),
		"FilterClauseGrammar":       seq("FILTER", bracketed(seq("WHERE", ref("ExpressionSegment")))),
		"IgnoreRespectNullsGrammar": seq(oneOf("IGNORE", "RESPECT"), "NULLS"),
		"FrameClauseUnitGrammar":    oneOf("ROWS", "RANGE"),
		"ReferentialActionGrammar": oneOf(
			"RESTRICT",
			"CASCADE",
			seq("SET", "NULL"),
			seq("NO", "ACTION"),
			seq("SET", "DEFAULT"),
		),
		"DropBehaviorGrammar": oneOf("RESTRICT", "CASCADE", optional()),
		"ColumnConstraintDefaultGrammar": oneOf(
			ref("ShorthandCastSegment"),
			ref("LiteralGrammar"),
			ref("FunctionSegment"),
			ref("BareFunctionSegment"),
		),
		"ReferenceMatchGrammar": seq("MATCH", oneOf("FULL", "PARTIAL", "SIMPLE")),
		"ReferenceDefinitionGrammar": seq(
			"REFERENCES",
			ref("TableReferenceSegment"),
			ref("BracketedColumnReferenceListGrammar", optional()),
			ref("ReferenceMatchGrammar", optional()),
			anySetOf(
				seq("ON", "DELETE", ref("ReferentialActionGrammar")),
				seq("ON", "UPDATE", ref("ReferentialActionGrammar")),
			),
		),
		"TrimParametersGrammar": oneOf("BOTH", "LEADING", "TRAILING"),
		"DefaultValuesGrammar":  seq("DEFAULT", "VALUES"),
		"TimeZoneGrammar":       anyOf(seq("AT", "TIME", "ZONE", ref("ExpressionSegment"))),
	})
}
