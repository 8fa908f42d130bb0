package ansi

import (
	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// UnorderedSelect returns the clauses of a select statement up to, but not
// including, ORDER BY. Extra grammars are appended after NamedWindow.
func UnorderedSelect(opts ...any) *grammar.Sequence {
	return seq(append([]any{
		ref("SelectClauseSegment"),
		ref("FromClauseSegment", optional()),
		ref("WhereClauseSegment", optional()),
		ref("GroupByClauseSegment", optional()),
		ref("HavingClauseSegment", optional()),
		ref("OverlapsClauseSegment", optional()),
		ref("NamedWindowSegment", optional()),
	}, opts...)...)
}

// ---------- Select ----------

func addSelect(b *dialect.Builder) {
	b.Add(map[string]grammar.Matcher{
		"SelectClauseTerminatorGrammar": oneOf(
			"FROM",
			"WHERE",
			seq("ORDER", "BY"),
			"LIMIT",
			"OVERLAPS",
			ref("SetOperatorSegment"),
			"FETCH",
		),
		"FromClauseTerminatorGrammar": oneOf(
			"WHERE",
			"LIMIT",
			seq("GROUP", "BY"),
			seq("ORDER", "BY"),
			"HAVING",
			"QUALIFY",
			"WINDOW",
			ref("SetOperatorSegment"),
			ref("WithNoSchemaBindingClauseSegment"),
			ref("WithDataClauseSegment"),
			"FETCH",
		),
		"WhereClauseTerminatorGrammar": oneOf(
			"LIMIT",
			seq("GROUP", "BY"),
			seq("ORDER", "BY"),
			"HAVING",
			"QUALIFY",
			"WINDOW",
			"OVERLAPS",
			"FETCH",
		),
		"GroupByClauseTerminatorGrammar": oneOf(
			seq("ORDER", "BY"),
			"LIMIT",
			"HAVING",
			"QUALIFY",
			"WINDOW",
			"FETCH",
		),
		"HavingClauseTerminatorGrammar": oneOf(
			seq("ORDER", "BY"),
			"LIMIT",
			"QUALIFY",
			"WINDOW",
			"FETCH",
		),
		"OrderByClauseTerminators": oneOf(
			"LIMIT",
			"HAVING",
			"QUALIFY",
			"WINDOW",
			ref("FrameClauseUnitGrammar"),
			"SEPARATOR",
			"FETCH",
		),
		"JoinKeywordsGrammar": seq("JOIN"),
		"JoinTypeKeywordsGrammar": oneOf(
			"CROSS",
			"INNER",
			seq(oneOf("FULL", "LEFT", "RIGHT"), kw("OUTER", optional())),
		),
		"NaturalJoinKeywordsGrammar": seq(
			"NATURAL",
			oneOf(
				"INNER",
				seq(oneOf("LEFT", "RIGHT", "FULL"), kw("OUTER", optional())),
				optional(),
			),
		),
		"ExtendedNaturalJoinKeywordsGrammar": nothing(),
		"NestedJoinGrammar":                  nothing(),
		"JoinLikeClauseGrammar":              nothing(),
		"PostTableExpressionGrammar":         nothing(),
		"PostFunctionGrammar":                oneOf(ref("OverClauseSegment"), ref("FilterClauseGrammar")),
		"SelectableGrammar": oneOf(
			optBracketed(ref("WithCompoundStatementSegment")),
			ref("NonWithSelectableGrammar"),
			bracketed(ref("SelectableGrammar")),
		),
		"NonWithSelectableGrammar": oneOf(
			ref("SetExpressionSegment"),
			optBracketed(ref("SelectStatementSegment")),
			ref("NonSetSelectableGrammar"),
		),
		"NonWithNonSelectableGrammar": oneOf(
			ref("UpdateStatementSegment"),
			ref("InsertStatementSegment"),
			ref("DeleteStatementSegment"),
		),
		"NonSetSelectableGrammar": oneOf(
			ref("ValuesClauseSegment"),
			ref("UnorderedSelectStatementSegment"),
			bracketed(ref("SelectStatementSegment")),
			bracketed(ref("WithCompoundStatementSegment")),
			bracketed(ref("NonSetSelectableGrammar")),
		),
	})

	addSelectClauses(b)
	addJoins(b)
	addWindows(b)

	b.Segment("UnorderedSelectStatementSegment", "select_statement", UnorderedSelect(
		terminators(
			ref("SetOperatorSegment"),
			ref("WithNoSchemaBindingClauseSegment"),
			ref("WithDataClauseSegment"),
			ref("OrderByClauseSegment"),
			ref("LimitClauseSegment"),
		),
		grammar.Mode(grammar.GreedyOnceStarted),
	)).
		Segment("SelectStatementSegment", "select_statement", UnorderedSelect(
			ref("OrderByClauseSegment", optional()),
			ref("FetchClauseSegment", optional()),
			ref("LimitClauseSegment", optional()),
			ref("NamedWindowSegment", optional()),
			terminators(
				ref("SetOperatorSegment"),
				ref("WithNoSchemaBindingClauseSegment"),
				ref("WithDataClauseSegment"),
			),
			grammar.Mode(grammar.GreedyOnceStarted),
		)).
		Segment("SetOperatorSegment", "set_operator", oneOf(
			ref("UnionGrammar"),
			seq(oneOf("INTERSECT", "EXCEPT"), kw("ALL", optional())),
			"MINUS",
			exclude(seq("EXCEPT", bracketed(anything()))),
		)).
		Segment("SetExpressionSegment", "set_expression", seq(
			ref("NonSetSelectableGrammar"),
			anyOf(
				seq(ref("SetOperatorSegment"), ref("NonSetSelectableGrammar")),
				minTimes(1),
			),
			ref("OrderByClauseSegment", optional()),
			ref("LimitClauseSegment", optional()),
			ref("NamedWindowSegment", optional()),
		)).
		Segment("WithCompoundStatementSegment", "with_compound_statement", seq(
			"WITH",
			kw("RECURSIVE", optional()),
			when(indent(), "indented_ctes"),
			delimited(ref("CTEDefinitionSegment"), terminators(kw("SELECT")), grammar.AllowTrailing()),
			when(dedent(), "indented_ctes"),
			oneOf(ref("NonWithSelectableGrammar"), ref("NonWithNonSelectableGrammar")),
		)).
		Segment("CTEDefinitionSegment", "common_table_expression", seq(
			ref("SingleIdentifierGrammar"),
			ref("CTEColumnList", optional()),
			kw("AS", optional()),
			bracketed(ref("SelectableGrammar"), greedy()),
		)).
		Segment("CTEColumnList", "cte_column_list", bracketed(ref("SingleIdentifierListSegment"))).
		Segment("WithNoSchemaBindingClauseSegment", "with_no_schema_binding_clause",
			seq("WITH", "NO", "SCHEMA", "BINDING")).
		Segment("WithDataClauseSegment", "with_data_clause",
			seq("WITH", seq("NO", optional()), "DATA"))
}

func addSelectClauses(b *dialect.Builder) {
	b.Segment("SelectClauseModifierSegment", "select_clause_modifier", oneOf("DISTINCT", "ALL")).
		Segment("SelectClauseElementSegment", "select_clause_element", oneOf(
			seq(ref("WildcardExpressionSegment")),
			seq(ref("BaseExpressionElementGrammar"), ref("AliasExpressionSegment", optional())),
		)).
		Segment("SelectClauseSegment", "select_clause", seq(
			"SELECT",
			ref("SelectClauseModifierSegment", optional()),
			indent(),
			delimited(ref("SelectClauseElementSegment"), grammar.AllowTrailing()),
			dedent(),
			terminators(ref("SelectClauseTerminatorGrammar")),
			grammar.Mode(grammar.GreedyOnceStarted),
		)).
		Segment("FromClauseSegment", "from_clause", seq(
			"FROM",
			delimited(ref("FromExpressionSegment"), terminators(ref("FromClauseTerminatorGrammar"))),
		)).
		Segment("WhereClauseSegment", "where_clause", seq(
			"WHERE",
			implicitIndent(),
			optBracketed(ref("ExpressionSegment")),
			dedent(),
			terminators(ref("WhereClauseTerminatorGrammar")),
		)).
		Segment("GroupByClauseSegment", "groupby_clause", seq(
			"GROUP",
			"BY",
			indent(),
			oneOf(
				"ALL",
				ref("CubeRollupClauseSegment"),
				ref("GroupingSetsClauseSegment"),
				delimited(
					oneOf(ref("ColumnReferenceSegment"), ref("NumericLiteralSegment"), ref("ExpressionSegment")),
					terminators(ref("GroupByClauseTerminatorGrammar")),
				),
			),
			dedent(),
		)).
		Segment("CubeRollupClauseSegment", "cube_rollup_clause", seq(
			oneOf(ref("CubeFunctionNameSegment"), ref("RollupFunctionNameSegment")),
			bracketed(ref("GroupingExpressionList")),
		)).
		Segment("CubeFunctionNameSegment", "function_name",
			grammar.NewStringParser("CUBE", segment.Code, grammar.WithType("function_name_identifier"))).
		Segment("RollupFunctionNameSegment", "function_name",
			grammar.NewStringParser("ROLLUP", segment.Code, grammar.WithType("function_name_identifier"))).
		Segment("GroupingSetsClauseSegment", "grouping_sets_clause", seq(
			"GROUPING",
			"SETS",
			bracketed(delimited(ref("CubeRollupClauseSegment"), ref("GroupingExpressionList"))),
		)).
		Segment("GroupingExpressionList", "grouping_expression_list", delimited(
			oneOf(
				ref("ExpressionSegment"),
				bracketed(delimited(ref("ExpressionSegment"), optional())),
			),
		)).
		Segment("HavingClauseSegment", "having_clause", seq(
			"HAVING",
			implicitIndent(),
			optBracketed(ref("ExpressionSegment")),
			dedent(),
			terminators(ref("HavingClauseTerminatorGrammar")),
		)).
		Segment("OrderByClauseSegment", "orderby_clause", seq(
			"ORDER",
			"BY",
			indent(),
			delimited(
				seq(
					oneOf(ref("ColumnReferenceSegment"), ref("NumericLiteralSegment"), ref("ExpressionSegment")),
					oneOf("ASC", "DESC", optional()),
					seq("NULLS", oneOf("FIRST", "LAST"), optional()),
				),
				terminators(ref("OrderByClauseTerminators")),
			),
			dedent(),
		)).
		Segment("LimitClauseSegment", "limit_clause", seq(
			"LIMIT",
			indent(),
			optBracketed(oneOf(ref("NumericLiteralSegment"), ref("ExpressionSegment"), "ALL")),
			oneOf(
				seq("OFFSET", oneOf(ref("NumericLiteralSegment"), ref("ExpressionSegment"))),
				seq(ref("CommaSegment"), ref("NumericLiteralSegment")),
				optional(),
			),
			dedent(),
		)).
		Segment("FetchClauseSegment", "fetch_clause", seq(
			"FETCH",
			oneOf("FIRST", "NEXT"),
			ref("NumericLiteralSegment", optional()),
			oneOf("ROW", "ROWS"),
			"ONLY",
		)).
		Segment("OverlapsClauseSegment", "overlaps_clause", seq(
			"OVERLAPS",
			oneOf(
				bracketed(ref("DateTimeLiteralGrammar"), ref("CommaSegment"), ref("DateTimeLiteralGrammar")),
				ref("ColumnReferenceSegment"),
			),
		)).
		Segment("ValuesClauseSegment", "values_clause", seq(
			oneOf("VALUE", "VALUES"),
			delimited(seq(
				kw("ROW", optional()),
				bracketed(
					delimited("DEFAULT", ref("LiteralGrammar"), ref("ExpressionSegment")),
					greedy(),
				),
			)),
		))
}

func addJoins(b *dialect.Builder) {
	joinTerminators := terminators(seq("ORDER", "BY"), seq("GROUP", "BY"))

	b.Segment("FromExpressionSegment", "from_expression", optBracketed(seq(
		indent(),
		oneOf(
			ref("FromExpressionElementSegment"),
			bracketed(ref("FromExpressionSegment")),
			joinTerminators,
		),
		dedent(),
		when(indent(), "indented_joins"),
		anyOf(
			oneOf(ref("JoinClauseSegment"), ref("JoinLikeClauseGrammar")),
			optional(),
			joinTerminators,
		),
		when(dedent(), "indented_joins"),
	))).
		Segment("FromExpressionElementSegment", "from_expression_element", seq(
			ref("PreTableFunctionKeywordsGrammar", optional()),
			optBracketed(ref("TableExpressionSegment")),
			ref("AliasExpressionSegment", optional(), exclude(oneOf(
				ref("FromClauseTerminatorGrammar"),
				ref("SamplingExpressionSegment"),
				ref("JoinLikeClauseGrammar"),
				"LATERAL",
			))),
			seq("WITH", "OFFSET", ref("AliasExpressionSegment"), optional()),
			ref("SamplingExpressionSegment", optional()),
			ref("PostTableExpressionGrammar", optional()),
		)).
		Segment("TableExpressionSegment", "table_expression", oneOf(
			ref("ValuesClauseSegment"),
			ref("BareFunctionSegment"),
			ref("FunctionSegment"),
			ref("TableReferenceSegment"),
			ref("MLTableExpressionSegment"),
			bracketed(ref("SelectableGrammar")),
		)).
		Segment("MLTableExpressionSegment", "ml_table_expression", seq(
			"ML",
			ref("DotSegment"),
			ref("SingleIdentifierGrammar"),
			bracketed(
				seq("MODEL", ref("ObjectReferenceSegment")),
				seq(ref("CommaSegment"), "TABLE", ref("ObjectReferenceSegment"), optional()),
			),
			noGaps(),
		)).
		Segment("SamplingExpressionSegment", "sample_expression", seq(
			"TABLESAMPLE",
			oneOf("BERNOULLI", "SYSTEM"),
			bracketed(ref("NumericLiteralSegment")),
			seq(oneOf("REPEATABLE", "SEED"), bracketed(ref("NumericLiteralSegment")), optional()),
		)).
		Segment("JoinClauseSegment", "join_clause", oneOf(
			seq(
				ref("JoinTypeKeywordsGrammar", optional()),
				ref("JoinKeywordsGrammar"),
				indent(),
				seq(
					ref("FromExpressionElementSegment"),
					anyOf(ref("NestedJoinGrammar")),
					dedent(),
					seq(
						when(indent(), "indented_using_on"),
						oneOf(
							ref("JoinOnConditionSegment"),
							seq(
								"USING",
								indent(),
								bracketed(delimited(ref("SingleIdentifierGrammar")), greedy()),
								dedent(),
							),
						),
						when(dedent(), "indented_using_on"),
						optional(),
					),
				),
			),
			seq(
				ref("NaturalJoinKeywordsGrammar"),
				ref("JoinKeywordsGrammar"),
				indent(),
				ref("FromExpressionElementSegment"),
				dedent(),
			),
			seq(
				ref("ExtendedNaturalJoinKeywordsGrammar"),
				indent(),
				ref("FromExpressionElementSegment"),
				dedent(),
			),
		)).
		Segment("JoinOnConditionSegment", "join_on_condition", seq(
			"ON",
			when(implicitIndent(), "indented_on_contents"),
			optBracketed(ref("ExpressionSegment")),
			when(dedent(), "indented_on_contents"),
		))
}

func addWindows(b *dialect.Builder) {
	extent := oneOf(
		seq("CURRENT", "ROW"),
		seq(
			oneOf(ref("NumericLiteralSegment"), seq("INTERVAL", ref("QuotedLiteralSegment")), "UNBOUNDED"),
			oneOf("PRECEDING", "FOLLOWING"),
		),
	)

	b.Segment("NamedWindowSegment", "named_window", seq(
		"WINDOW",
		indent(),
		delimited(ref("NamedWindowExpressionSegment")),
		dedent(),
	)).
		Segment("NamedWindowExpressionSegment", "named_window_expression", seq(
			ref("SingleIdentifierGrammar"),
			"AS",
			oneOf(
				ref("SingleIdentifierGrammar"),
				bracketed(ref("WindowSpecificationSegment"), greedy()),
			),
		)).
		Segment("OverClauseSegment", "over_clause", seq(
			ref("IgnoreRespectNullsGrammar", optional()),
			"OVER",
			oneOf(
				ref("SingleIdentifierGrammar"),
				bracketed(ref("WindowSpecificationSegment", optional()), greedy()),
			),
		)).
		Segment("WindowSpecificationSegment", "window_specification", seq(
			ref("SingleIdentifierGrammar", optional(), exclude(oneOf("PARTITION", "ORDER"))),
			ref("PartitionClauseSegment", optional()),
			ref("OrderByClauseSegment", optional()),
			ref("FrameClauseSegment", optional()),
			optional(),
		)).
		Segment("PartitionClauseSegment", "partitionby_clause", seq(
			"PARTITION",
			"BY",
			indent(),
			optBracketed(delimited(ref("ExpressionSegment"))),
			dedent(),
		)).
		Segment("FrameClauseSegment", "frame_clause", seq(
			ref("FrameClauseUnitGrammar"),
			oneOf(extent, seq("BETWEEN", extent, "AND", extent)),
		))
}
