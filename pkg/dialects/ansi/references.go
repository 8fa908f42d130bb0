package ansi

import (
	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
)

// ObjectReference is the dotted identifier grammar shared by every
// reference segment.
func ObjectReference() grammar.Matcher {
	return delimited(
		ref("SingleIdentifierGrammar"),
		grammar.Delimiter(ref("ObjectReferenceDelimiterGrammar")),
		terminators(ref("ObjectReferenceTerminatorGrammar")),
		noGaps(),
	)
}

// ---------- References ----------

func addReferences(b *dialect.Builder) {
	b.Add(map[string]grammar.Matcher{
		"ObjectReferenceDelimiterGrammar": oneOf(
			ref("DotSegment"),
			seq(ref("DotSegment"), ref("DotSegment"), noGaps()),
		),
		"ObjectReferenceTerminatorGrammar": oneOf(
			"ON",
			"AS",
			"USING",
			ref("CommaSegment"),
			ref("CastOperatorSegment"),
			ref("StartSquareBracketSegment"),
			ref("StartBracketSegment"),
			ref("BinaryOperatorGrammar"),
			ref("ColonSegment"),
			ref("DelimiterGrammar"),
			ref("JoinLikeClauseGrammar"),
		),
		"CharCharacterSetGrammar":           nothing(),
		"AggregateOrderByClause":            ref("OrderByClauseSegment"),
		"FunctionContentsExpressionGrammar": ref("ExpressionSegment"),
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
			ref("AggregateOrderByClause"),
			seq(
				oneOf(ref("QuotedLiteralSegment"), ref("SingleIdentifierGrammar"), ref("ColumnReferenceSegment")),
				"IN",
				oneOf(ref("QuotedLiteralSegment"), ref("SingleIdentifierGrammar"), ref("ColumnReferenceSegment")),
			),
			ref("IgnoreRespectNullsGrammar"),
			ref("IndexColumnDefinitionSegment"),
		),
	})

	for name, typ := range map[string]string{
		"ObjectReferenceSegment":   "object_reference",
		"TableReferenceSegment":    "table_reference",
		"SchemaReferenceSegment":   "schema_reference",
		"DatabaseReferenceSegment": "database_reference",
		"IndexReferenceSegment":    "index_reference",
		"TriggerReferenceSegment":  "trigger_reference",
		"ColumnReferenceSegment":   "column_reference",
		"FunctionReferenceSegment": "function_reference",
	} {
		b.Segment(name, typ, ObjectReference())
	}

	b.Segment("CollationReferenceSegment", "collation_reference", oneOf(
		ref("QuotedLiteralSegment"),
		ObjectReference(),
	)).
		Segment("WildcardIdentifierSegment", "wildcard_identifier", seq(
			anyOf(seq(ref("SingleIdentifierGrammar"), ref("ObjectReferenceDelimiterGrammar"))),
			ref("StarSegment"),
			noGaps(),
		)).
		Segment("WildcardExpressionSegment", "wildcard_expression", seq(ref("WildcardIdentifierSegment"))).
		Segment("SingleIdentifierListSegment", "identifier_list", delimited(ref("SingleIdentifierGrammar"))).
		Segment("AliasExpressionSegment", "alias_expression", seq(
			indent(),
			kw("AS", optional()),
			oneOf(
				seq(
					ref("SingleIdentifierGrammar"),
					bracketed(ref("SingleIdentifierListSegment"), optional()),
				),
				ref("SingleQuotedIdentifierSegment"),
			),
			dedent(),
		)).
		Segment("AliasedObjectReferenceSegment", "object_reference", seq(
			ref("ObjectReferenceSegment"),
			ref("AliasExpressionSegment"),
		))

	// Types and casts.
	b.Segment("DatatypeSegment", "data_type", oneOf(
		seq(
			oneOf("TIME", "TIMESTAMP"),
			bracketed(ref("NumericLiteralSegment"), optional()),
			seq(oneOf("WITH", "WITHOUT"), "TIME", "ZONE", optional()),
		),
		seq("DOUBLE", "PRECISION"),
		seq(
			oneOf(
				seq(oneOf("CHARACTER", "BINARY"), oneOf("VARYING", seq("LARGE", "OBJECT"))),
				seq(
					seq(ref("SingleIdentifierGrammar"), ref("DotSegment"), noGaps(), optional()),
					ref("DatatypeIdentifierSegment"),
					noGaps(),
				),
			),
			ref("BracketedArguments", optional()),
			oneOf("UNSIGNED", ref("CharCharacterSetGrammar"), optional()),
		),
	)).
		Segment("BracketedArguments", "bracketed_arguments", bracketed(
			delimited(ref("LiteralGrammar"), optional()),
		)).
		Segment("ArrayAccessorSegment", "array_accessor", bracketed(
			delimited(
				oneOf(ref("NumericLiteralSegment"), ref("ExpressionSegment")),
				grammar.Delimiter(ref("SliceSegment")),
			),
			grammar.BracketType("square"),
			greedy(),
		)).
		Segment("ShorthandCastSegment", "cast_expression", seq(
			oneOf(ref("Expression_D_Grammar"), ref("CaseExpressionSegment")),
			anyOf(
				seq(ref("CastOperatorSegment"), ref("DatatypeSegment"), ref("TimeZoneGrammar", optional())),
				minTimes(1),
			),
		))

	// Functions.
	b.Segment("FunctionNameSegment", "function_name", seq(
		anyOf(seq(ref("SingleIdentifierGrammar"), ref("DotSegment"))),
		oneOf(ref("FunctionNameIdentifierSegment"), ref("QuotedIdentifierSegment")),
		noGaps(),
	)).
		Segment("DatePartFunctionNameSegment", "function_name", ref("DatePartFunctionName")).
		Segment("FunctionContentsSegment", "function_contents", bracketed(
			ref("FunctionContentsGrammar", optional()),
			greedy(),
		)).
		Segment("FunctionSegment", "function", oneOf(
			seq(
				ref("DatePartFunctionNameSegment"),
				bracketed(
					delimited(ref("DatetimeUnitSegment"), ref("FunctionContentsGrammar", optional())),
					greedy(),
				),
			),
			seq(
				seq(
					ref("FunctionNameSegment", exclude(oneOf(
						ref("DatePartFunctionNameSegment"),
						ref("ValuesClauseSegment"),
					))),
					ref("FunctionContentsSegment"),
				),
				ref("PostFunctionGrammar", optional()),
			),
		))
}
