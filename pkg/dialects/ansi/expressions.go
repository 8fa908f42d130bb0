package ansi

import (
	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
)

// ---------- Expressions ----------

// The expression grammars follow the layering of the PostgreSQL grammar:
// A allows every operator, B drops boolean and pattern operators so that
// BETWEEN ... AND parses, C adds EXISTS and casts, D holds the atoms.
func addExpressions(b *dialect.Builder) {
	b.Add(map[string]grammar.Matcher{
		"Expression_A_Unary_Operator_Grammar": oneOf(
			ref("SignedSegmentGrammar", exclude(seq(ref("QualifiedNumericLiteralSegment")))),
			ref("TildeSegment"),
			ref("NotOperatorGrammar"),
			"PRIOR",
		),
		"Tail_Recurse_Expression_A_Grammar": seq(
			anyOf(ref("Expression_A_Unary_Operator_Grammar"), terminators(ref("BinaryOperatorGrammar"))),
			ref("Expression_C_Grammar"),
		),
		"Expression_A_Grammar": seq(
			ref("Tail_Recurse_Expression_A_Grammar"),
			anyOf(oneOf(
				ref("LikeExpressionGrammar"),
				seq(ref("BinaryOperatorGrammar"), ref("Tail_Recurse_Expression_A_Grammar")),
				ref("InOperatorGrammar"),
				seq("IS", kw("NOT", optional()), ref("IsClauseGrammar")),
				ref("IsNullGrammar"),
				ref("NotNullGrammar"),
				ref("CollateGrammar"),
				seq(
					kw("NOT", optional()),
					"BETWEEN",
					ref("Expression_B_Grammar"),
					"AND",
					ref("Tail_Recurse_Expression_A_Grammar"),
				),
				seq(ref("PatternMatchingGrammar"), ref("Expression_A_Grammar")),
			)),
		),
		"LikeExpressionGrammar": seq(
			seq(kw("NOT", optional()), ref("LikeGrammar")),
			ref("Expression_A_Grammar"),
			seq("ESCAPE", ref("Tail_Recurse_Expression_A_Grammar"), optional()),
		),
		"InOperatorGrammar": seq(
			kw("NOT", optional()),
			"IN",
			oneOf(
				bracketed(
					oneOf(delimited(ref("Expression_A_Grammar")), ref("SelectableGrammar")),
					greedy(),
				),
				ref("FunctionSegment"),
			),
		),
		"Expression_B_Unary_Operator_Grammar": oneOf(
			ref("SignedSegmentGrammar", exclude(seq(ref("QualifiedNumericLiteralSegment")))),
			ref("TildeSegment"),
		),
		"Tail_Recurse_Expression_B_Grammar": seq(
			anyOf(ref("Expression_B_Unary_Operator_Grammar")),
			ref("Expression_C_Grammar"),
		),
		"Expression_B_Grammar": seq(
			ref("Tail_Recurse_Expression_B_Grammar"),
			anyOf(seq(
				oneOf(
					ref("ArithmeticBinaryOperatorGrammar"),
					ref("StringBinaryOperatorGrammar"),
					ref("ComparisonOperatorGrammar"),
				),
				ref("Tail_Recurse_Expression_B_Grammar"),
			)),
		),
		"Expression_C_Grammar": oneOf(
			seq("EXISTS", bracketed(ref("SelectableGrammar"))),
			seq(
				oneOf(ref("Expression_D_Grammar"), ref("CaseExpressionSegment")),
				anyOf(ref("TimeZoneGrammar"), optional()),
			),
			ref("ShorthandCastSegment"),
			terminators(ref("CommaSegment")),
		),
		"Expression_D_Grammar": seq(
			oneOf(
				ref("BareFunctionSegment"),
				ref("FunctionSegment"),
				bracketed(
					oneOf(
						ref("ExpressionSegment"),
						ref("SelectableGrammar"),
						delimited(
							ref("ColumnReferenceSegment"),
							ref("FunctionSegment"),
							ref("LiteralGrammar"),
						),
					),
					greedy(),
				),
				ref("LiteralGrammar"),
				ref("IntervalExpressionSegment"),
				ref("ColumnReferenceSegment"),
				seq(ref("SingleIdentifierGrammar"), ref("ObjectReferenceDelimiterGrammar"), ref("StarSegment")),
				seq(ref("DatatypeSegment"), oneOf(
					ref("QuotedLiteralSegment"),
					ref("NumericLiteralSegment"),
					ref("BooleanLiteralGrammar"),
					ref("NullLiteralSegment"),
					ref("DateTimeLiteralGrammar"),
				)),
				terminators(ref("CommaSegment")),
			),
			ref("AccessorGrammar", optional()),
		),
		"AccessorGrammar": anyOf(ref("ArrayAccessorSegment")),
		"BaseExpressionElementGrammar": oneOf(
			ref("LiteralGrammar"),
			ref("BareFunctionSegment"),
			ref("IntervalExpressionSegment"),
			ref("FunctionSegment"),
			ref("ColumnReferenceSegment"),
			ref("ExpressionSegment"),
			seq(ref("DatatypeSegment"), ref("LiteralGrammar")),
			terminators(ref("CommaSegment"), kw("AS")),
		),
	})

	b.Segment("ExpressionSegment", "expression", ref("Expression_A_Grammar")).
		Segment("IntervalExpressionSegment", "interval_expression", seq(
			"INTERVAL",
			oneOf(
				seq(ref("NumericLiteralSegment"), oneOf(ref("QuotedLiteralSegment"), ref("DatetimeUnitSegment"))),
				ref("QuotedLiteralSegment"),
			),
		))

	caseBody := func() []any {
		return []any{
			implicitIndent(),
			anyOf(
				ref("WhenClauseSegment"),
				resetTerminators(),
				terminators(kw("ELSE"), kw("END")),
			),
			ref("ElseClauseSegment", optional(), resetTerminators(), terminators(kw("END"))),
			dedent(),
			"END",
		}
	}
	b.Segment("CaseExpressionSegment", "case_expression", oneOf(
		seq(append([]any{"CASE"}, caseBody()...)...),
		seq(append([]any{"CASE", ref("ExpressionSegment")}, caseBody()...)...),
		terminators(ref("ComparisonOperatorGrammar"), ref("CommaSegment"), ref("BinaryOperatorGrammar")),
	)).
		Segment("WhenClauseSegment", "when_clause", seq(
			"WHEN",
			seq(implicitIndent(), ref("ExpressionSegment"), dedent()),
			when(indent(), "indented_then"),
			"THEN",
			when(implicitIndent(), "indented_then_contents"),
			ref("ExpressionSegment"),
			when(dedent(), "indented_then_contents"),
			when(dedent(), "indented_then"),
		)).
		Segment("ElseClauseSegment", "else_clause", seq(
			"ELSE",
			implicitIndent(),
			ref("ExpressionSegment"),
			dedent(),
		))
}
