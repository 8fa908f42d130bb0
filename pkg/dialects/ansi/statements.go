package ansi

import (
	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
)

// File returns the root grammar: statements separated by one or more
// delimiters, with optional delimiters before the first statement and
// after the last.
func File() grammar.Matcher {
	return seq(
		anyOf(ref("DelimiterGrammar")),
		delimited(
			ref("StatementSegment"),
			grammar.Delimiter(anyOf(ref("DelimiterGrammar"), minTimes(1))),
			grammar.AllowTrailing(),
			optional(),
		),
	)
}

// ---------- Statements ----------

func addStatements(b *dialect.Builder) {
	b.Add(map[string]grammar.Matcher{
		"AlterTableOptionsGrammar": oneOf(
			seq(
				ref("ParameterNameSegment"),
				ref("EqualsSegment", optional()),
				oneOf(ref("LiteralGrammar"), ref("NakedIdentifierSegment")),
			),
			seq(
				oneOf("ADD", "MODIFY"),
				kw("COLUMN", optional()),
				ref("ColumnDefinitionSegment"),
				oneOf(
					seq(oneOf("FIRST", "AFTER"), ref("ColumnReferenceSegment")),
					ref("ColumnReferenceSegment"),
					optional(),
				),
			),
			seq("RENAME", oneOf("AS", "TO", optional()), ref("TableReferenceSegment")),
			ref("AlterTableDropColumnGrammar"),
		),
		"AlterTableDropColumnGrammar": seq(
			"DROP",
			kw("COLUMN", optional()),
			ref("IfExistsGrammar", optional()),
			ref("SingleIdentifierGrammar"),
		),
	})

	b.Segment(dialect.RootRule, "file", File()).
		Segment("StatementSegment", "statement", oneOf(
			ref("SelectableGrammar"),
			ref("InsertStatementSegment"),
			ref("TransactionStatementSegment"),
			ref("DropTableStatementSegment"),
			ref("DropViewStatementSegment"),
			ref("CreateTableStatementSegment"),
			ref("AlterTableStatementSegment"),
			ref("CreateSchemaStatementSegment"),
			ref("DropSchemaStatementSegment"),
			ref("CreateIndexStatementSegment"),
			ref("DropIndexStatementSegment"),
			ref("CreateViewStatementSegment"),
			ref("DeleteStatementSegment"),
			ref("UpdateStatementSegment"),
			ref("ExplainStatementSegment"),
			ref("CreateTriggerStatementSegment"),
			ref("DropTriggerStatementSegment"),
			terminators(ref("DelimiterGrammar")),
		)).
		Segment("InsertStatementSegment", "insert_statement", seq(
			"INSERT",
			"INTO",
			ref("TableReferenceSegment"),
			oneOf(
				ref("SelectableGrammar"),
				seq(ref("BracketedColumnReferenceListGrammar"), ref("SelectableGrammar")),
				ref("DefaultValuesGrammar"),
			),
		)).
		Segment("TransactionStatementSegment", "transaction_statement", seq(
			oneOf("START", "BEGIN", "COMMIT", "ROLLBACK", "END"),
			oneOf("TRANSACTION", "WORK", optional()),
			seq("NAME", ref("SingleIdentifierGrammar"), optional()),
			seq("AND", kw("NO", optional()), "CHAIN", optional()),
		)).
		Segment("DeleteStatementSegment", "delete_statement", seq(
			"DELETE",
			ref("FromClauseSegment"),
			ref("WhereClauseSegment", optional()),
		)).
		Segment("UpdateStatementSegment", "update_statement", seq(
			"UPDATE",
			ref("TableReferenceSegment"),
			ref("AliasExpressionSegment", exclude(kw("SET")), optional()),
			ref("SetClauseListSegment"),
			ref("FromClauseSegment", optional()),
			ref("WhereClauseSegment", optional()),
		)).
		Segment("SetClauseListSegment", "set_clause_list", seq(
			"SET",
			indent(),
			delimited(ref("SetClauseSegment")),
			dedent(),
		)).
		Segment("SetClauseSegment", "set_clause", seq(
			ref("ColumnReferenceSegment"),
			ref("EqualsSegment"),
			oneOf(
				ref("LiteralGrammar"),
				ref("BareFunctionSegment"),
				ref("FunctionSegment"),
				ref("ColumnReferenceSegment"),
				ref("ExpressionSegment"),
				ref("ValuesClauseSegment"),
				"DEFAULT",
			),
		)).
		Segment("ExplainStatementSegment", "explain_statement", seq(
			"EXPLAIN",
			oneOf(
				ref("SelectableGrammar"),
				ref("InsertStatementSegment"),
				ref("UpdateStatementSegment"),
				ref("DeleteStatementSegment"),
			),
		))

	addDDL(b)
}

func addDDL(b *dialect.Builder) {
	b.Segment("ColumnConstraintSegment", "column_constraint_segment", seq(
		seq("CONSTRAINT", ref("ObjectReferenceSegment"), optional()),
		oneOf(
			seq(kw("NOT", optional()), "NULL"),
			seq("CHECK", bracketed(ref("ExpressionSegment"))),
			seq("DEFAULT", ref("ColumnConstraintDefaultGrammar")),
			ref("PrimaryKeyGrammar"),
			ref("UniqueKeyGrammar"),
			ref("AutoIncrementGrammar"),
			ref("ReferenceDefinitionGrammar"),
			ref("CommentClauseSegment"),
			seq("COLLATE", ref("CollationReferenceSegment")),
		),
	)).
		Segment("ColumnDefinitionSegment", "column_definition", seq(
			ref("SingleIdentifierGrammar"),
			ref("DatatypeSegment"),
			bracketed(anything(), optional()),
			anyOf(ref("ColumnConstraintSegment", optional())),
		)).
		Segment("IndexColumnDefinitionSegment", "index_column_definition", seq(
			ref("SingleIdentifierGrammar"),
			oneOf("ASC", "DESC", optional()),
		)).
		Segment("TableConstraintSegment", "table_constraint", seq(
			seq("CONSTRAINT", ref("ObjectReferenceSegment"), optional()),
			oneOf(
				seq("UNIQUE", ref("BracketedColumnReferenceListGrammar")),
				seq(ref("PrimaryKeyGrammar"), ref("BracketedColumnReferenceListGrammar")),
				seq(
					ref("ForeignKeyGrammar"),
					ref("BracketedColumnReferenceListGrammar"),
					ref("ReferenceDefinitionGrammar"),
				),
			),
		)).
		Segment("TableEndClauseSegment", "table_end_clause_segment", nothing()).
		Segment("CommentClauseSegment", "comment_clause", seq("COMMENT", ref("QuotedLiteralSegment"))).
		Segment("CreateTableStatementSegment", "create_table_statement", seq(
			"CREATE",
			ref("OrReplaceGrammar", optional()),
			ref("TemporaryTransientGrammar", optional()),
			"TABLE",
			ref("IfNotExistsGrammar", optional()),
			ref("TableReferenceSegment"),
			oneOf(
				seq(
					bracketed(delimited(oneOf(
						ref("TableConstraintSegment"),
						ref("ColumnDefinitionSegment"),
					))),
					ref("CommentClauseSegment", optional()),
				),
				seq("AS", optBracketed(ref("SelectableGrammar"))),
				seq("LIKE", ref("TableReferenceSegment")),
			),
			ref("TableEndClauseSegment", optional()),
		)).
		Segment("AlterTableStatementSegment", "alter_table_statement", seq(
			"ALTER",
			"TABLE",
			ref("TableReferenceSegment"),
			delimited(ref("AlterTableOptionsGrammar")),
		)).
		Segment("CreateViewStatementSegment", "create_view_statement", seq(
			"CREATE",
			ref("OrReplaceGrammar", optional()),
			"VIEW",
			ref("IfNotExistsGrammar", optional()),
			ref("TableReferenceSegment"),
			ref("BracketedColumnReferenceListGrammar", optional()),
			"AS",
			optBracketed(ref("SelectableGrammar")),
			ref("WithNoSchemaBindingClauseSegment", optional()),
		)).
		Segment("CreateSchemaStatementSegment", "create_schema_statement", seq(
			"CREATE",
			"SCHEMA",
			ref("IfNotExistsGrammar", optional()),
			ref("SchemaReferenceSegment"),
		)).
		Segment("DropSchemaStatementSegment", "drop_schema_statement", seq(
			"DROP",
			"SCHEMA",
			ref("IfExistsGrammar", optional()),
			ref("SchemaReferenceSegment"),
			ref("DropBehaviorGrammar", optional()),
		)).
		Segment("DropTableStatementSegment", "drop_table_statement", seq(
			"DROP",
			ref("TemporaryGrammar", optional()),
			"TABLE",
			ref("IfExistsGrammar", optional()),
			delimited(ref("TableReferenceSegment")),
			ref("DropBehaviorGrammar", optional()),
		)).
		Segment("DropViewStatementSegment", "drop_view_statement", seq(
			"DROP",
			"VIEW",
			ref("IfExistsGrammar", optional()),
			ref("TableReferenceSegment"),
			ref("DropBehaviorGrammar", optional()),
		)).
		Segment("DropIndexStatementSegment", "drop_index_statement", seq(
			"DROP",
			"INDEX",
			ref("IfExistsGrammar", optional()),
			ref("IndexReferenceSegment"),
			ref("DropBehaviorGrammar", optional()),
		)).
		Segment("DropTriggerStatementSegment", "drop_trigger", seq(
			"DROP",
			"TRIGGER",
			ref("IfExistsGrammar", optional()),
			ref("TriggerReferenceSegment"),
		)).
		Segment("CreateIndexStatementSegment", "create_index_statement", seq(
			"CREATE",
			ref("OrReplaceGrammar", optional()),
			kw("UNIQUE", optional()),
			"INDEX",
			ref("IfNotExistsGrammar", optional()),
			ref("IndexReferenceSegment"),
			"ON",
			ref("TableReferenceSegment"),
			bracketed(delimited(ref("IndexColumnDefinitionSegment"))),
		)).
		Segment("CreateTriggerStatementSegment", "create_trigger", seq(
			"CREATE",
			"TRIGGER",
			ref("TriggerReferenceSegment"),
			oneOf("BEFORE", "AFTER", seq("INSTEAD", "OF"), optional()),
			delimited(
				"INSERT",
				"DELETE",
				seq("UPDATE", "OF", delimited(ref("ColumnReferenceSegment"), terminators(kw("OR"), kw("ON")))),
				grammar.Delimiter(kw("OR")),
				terminators(kw("ON")),
			),
			"ON",
			ref("TableReferenceSegment"),
			anyOf(
				seq(
					"REFERENCING", "OLD", "ROW", "AS", ref("ParameterNameSegment"),
					"NEW", "ROW", "AS", ref("ParameterNameSegment"),
				),
				seq("FROM", ref("TableReferenceSegment")),
				oneOf(
					seq("NOT", "DEFERRABLE"),
					seq("DEFERRABLE", oneOf(seq("INITIALLY", "IMMEDIATE"), seq("INITIALLY", "DEFERRED"))),
				),
				seq("FOR", kw("EACH", optional()), oneOf("ROW", "STATEMENT")),
				seq("WHEN", bracketed(ref("ExpressionSegment"))),
			),
			seq(
				"EXECUTE",
				"PROCEDURE",
				ref("FunctionNameIdentifierSegment"),
				bracketed(ref("FunctionContentsGrammar", optional())),
				optional(),
			),
		))
}
