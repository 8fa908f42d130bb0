package sqlite

import (
	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/dialects/ansi"
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
)

// conflictActions are the resolution algorithms of OR and ON CONFLICT.
var conflictActions = []any{"ROLLBACK", "ABORT", "FAIL", "IGNORE", "REPLACE"}

// pragmaValue is the right-hand side of a PRAGMA assignment or call.
func pragmaValue() grammar.Matcher {
	return oneOf(
		ref("LiteralGrammar"),
		ref("BooleanLiteralGrammar"),
		"YES", "NO", "ON", "OFF", "NONE", "FULL", "INCREMENTAL", "DELETE",
		"TRUNCATE", "PERSIST", "MEMORY", "WAL", "NORMAL", "EXCLUSIVE", "FAST",
		"EXTRA", "DEFAULT", "FILE", "PASSIVE", "RESTART", "RESET",
		ref("SingleIdentifierGrammar"),
	)
}

// deferrable is the trailing [NOT] DEFERRABLE [INITIALLY ...] of a
// constraint.
func deferrable() []any {
	return []any{
		oneOf("DEFERRABLE", seq("NOT", "DEFERRABLE"), optional()),
		oneOf(
			seq("INITIALLY", "DEFERRED"),
			seq("INITIALLY", "IMMEDIATE"),
			optional(),
		),
	}
}

// ---------- INSERT and upsert ----------

func addInsertSegments(b *dialect.Builder) {
	b.Segment("ValuesClauseSegment", "values_clause", seq(
		"VALUES",
		delimited(seq(bracketed(
			delimited("DEFAULT", ref("ExpressionSegment")),
			greedy(),
		))),
	)).
		Segment("ReturningClauseSegment", "returning_clause", seq(
			"RETURNING",
			indent(),
			delimited(
				ref("WildcardExpressionSegment"),
				seq(ref("ExpressionSegment"), ref("AliasExpressionSegment", optional())),
			),
			dedent(),
		)).
		Segment("ConflictTargetSegment", "conflict_target", seq(
			delimited(ref("IndexColumnDefinitionSegment")),
			seq("WHERE", ref("ExpressionSegment"), optional()),
		)).
		Segment("UpsertClauseSegment", "upsert_clause", seq(
			"ON",
			"CONFLICT",
			ref("ConflictTargetSegment", optional()),
			"DO",
			oneOf(
				"NOTHING",
				seq(
					"UPDATE",
					"SET",
					delimited(seq(
						oneOf(ref("SingleIdentifierGrammar"), ref("BracketedColumnReferenceListGrammar")),
						ref("EqualsSegment"),
						ref("ExpressionSegment"),
					)),
					seq("WHERE", ref("ExpressionSegment"), optional()),
				),
			),
		)).
		Segment("InsertStatementSegment", "insert_statement", seq(
			oneOf(
				seq("INSERT", seq("OR", oneOf(conflictActions...), optional())),
				"REPLACE",
			),
			"INTO",
			ref("TableReferenceSegment"),
			ref("BracketedColumnReferenceListGrammar", optional()),
			oneOf(
				seq(ref("ValuesClauseSegment"), ref("UpsertClauseSegment", optional())),
				seq(optBracketed(ref("SelectableGrammar")), ref("UpsertClauseSegment", optional())),
				ref("DefaultValuesGrammar"),
			),
			ref("ReturningClauseSegment", optional()),
		)).
		Segment("ConflictClauseSegment", "conflict_clause", seq(
			"ON",
			"CONFLICT",
			oneOf(conflictActions...),
		))
}

// ---------- DDL ----------

func addDDLSegments(b *dialect.Builder) {
	b.Segment("TableEndClauseSegment", "table_end_clause_segment", delimited(
		seq("WITHOUT", "ROWID"),
		"STRICT",
	)).
		Segment("IndexColumnDefinitionSegment", "index_column_definition", seq(
			oneOf(ref("SingleIdentifierGrammar"), ref("ExpressionSegment")),
			oneOf("ASC", "DESC", optional()),
		)).
		Segment("ColumnConstraintSegment", "column_constraint_segment", seq(append([]any{
			seq("CONSTRAINT", ref("ObjectReferenceSegment"), optional()),
			oneOf(
				seq(kw("NOT", optional()), "NULL", ref("ConflictClauseSegment", optional())),
				seq("CHECK", bracketed(ref("ExpressionSegment"))),
				seq("DEFAULT", ref("ColumnConstraintDefaultGrammar")),
				ref("PrimaryKeyGrammar"),
				seq(ref("UniqueKeyGrammar"), ref("ConflictClauseSegment", optional())),
				ref("AutoIncrementGrammar"),
				ref("ReferenceDefinitionGrammar"),
				ref("CommentClauseSegment"),
				seq("COLLATE", ref("CollationReferenceSegment")),
				seq(
					seq("GENERATED", "ALWAYS", optional()),
					"AS",
					bracketed(ref("ExpressionSegment")),
					oneOf("STORED", "VIRTUAL", optional()),
				),
			),
		}, deferrable()...)...)).
		Segment("TableConstraintSegment", "table_constraint", seq(append([]any{
			seq("CONSTRAINT", ref("ObjectReferenceSegment"), optional()),
			oneOf(
				seq("CHECK", bracketed(ref("ExpressionSegment"))),
				seq(
					"UNIQUE",
					ref("BracketedColumnReferenceListGrammar"),
					ref("ConflictClauseSegment", optional()),
				),
				seq(
					ref("PrimaryKeyGrammar"),
					ref("BracketedColumnReferenceListGrammar"),
					ref("ConflictClauseSegment", optional()),
				),
				seq(
					ref("ForeignKeyGrammar"),
					ref("BracketedColumnReferenceListGrammar"),
					ref("ReferenceDefinitionGrammar"),
				),
			),
		}, deferrable()...)...)).
		Segment("CreateIndexStatementSegment", "create_index_statement", seq(
			"CREATE",
			kw("UNIQUE", optional()),
			"INDEX",
			ref("IfNotExistsGrammar", optional()),
			ref("IndexReferenceSegment"),
			"ON",
			ref("TableReferenceSegment"),
			seq(bracketed(delimited(ref("IndexColumnDefinitionSegment")))),
			ref("WhereClauseSegment", optional()),
		)).
		Segment("CreateVirtualTableStatementSegment", "create_virtual_table_statement", seq(
			"CREATE",
			"VIRTUAL",
			"TABLE",
			ref("IfNotExistsGrammar", optional()),
			ref("TableReferenceSegment"),
			"USING",
			ref("SingleIdentifierGrammar"),
			bracketed(
				delimited(oneOf(
					ref("QuotedLiteralSegment"),
					ref("NumericLiteralSegment"),
					ref("SingleIdentifierGrammar"),
				)),
				optional(),
			),
		)).
		Segment("CreateTriggerStatementSegment", "create_trigger", seq(
			"CREATE",
			ref("TemporaryGrammar", optional()),
			"TRIGGER",
			ref("IfNotExistsGrammar", optional()),
			ref("TriggerReferenceSegment"),
			oneOf("BEFORE", "AFTER", seq("INSTEAD", "OF"), optional()),
			oneOf(
				"DELETE",
				"INSERT",
				seq("UPDATE", seq("OF", delimited(ref("ColumnReferenceSegment")), optional())),
			),
			"ON",
			ref("TableReferenceSegment"),
			seq("FOR", "EACH", "ROW", optional()),
			seq("WHEN", optBracketed(ref("ExpressionSegment")), optional()),
			"BEGIN",
			delimited(
				ref("UpdateStatementSegment"),
				ref("InsertStatementSegment"),
				ref("DeleteStatementSegment"),
				ref("SelectableGrammar"),
				grammar.Delimiter(anyOf(ref("DelimiterGrammar"), minTimes(1))),
				grammar.AllowTrailing(),
			),
			"END",
		)).
		Segment("CreateViewStatementSegment", "create_view_statement", seq(
			"CREATE",
			ref("TemporaryGrammar", optional()),
			"VIEW",
			ref("IfNotExistsGrammar", optional()),
			ref("TableReferenceSegment"),
			ref("BracketedColumnReferenceListGrammar", optional()),
			"AS",
			optBracketed(ref("SelectableGrammar")),
		))
}

// ---------- Queries and other statements ----------

func addQuerySegments(b *dialect.Builder) {
	// SQLite's select has no greedy terminators, so trailing clauses are
	// left to the enclosing grammar.
	unordered := ansi.UnorderedSelect()

	b.Segment("UnorderedSelectStatementSegment", "select_statement", unordered).
		Segment("SelectStatementSegment", "select_statement", grammar.InsertInto(unordered,
			ref("OrderByClauseSegment", optional()),
			ref("FetchClauseSegment", optional()),
			ref("LimitClauseSegment", optional()),
			ref("NamedWindowSegment", optional()),
		)).
		Segment("DeleteStatementSegment", "delete_statement", seq(
			"DELETE",
			ref("FromClauseSegment"),
			ref("WhereClauseSegment", optional()),
			ref("ReturningClauseSegment", optional()),
		)).
		Segment("UpdateStatementSegment", "update_statement", seq(
			"UPDATE",
			seq("OR", oneOf(conflictActions...), optional()),
			indent(),
			ref("TableReferenceSegment"),
			ref("AliasExpressionSegment", optional()),
			dedent(),
			ref("SetClauseListSegment"),
			ref("FromClauseSegment", optional()),
			ref("WhereClauseSegment", optional()),
			ref("ReturningClauseSegment", optional()),
		)).
		Segment("SetClauseSegment", "set_clause", seq(
			oneOf(ref("SingleIdentifierGrammar"), ref("BracketedColumnReferenceListGrammar")),
			ref("EqualsSegment"),
			ref("ExpressionSegment"),
		)).
		Segment("TransactionStatementSegment", "transaction_statement", seq(
			oneOf(
				seq("BEGIN", oneOf("DEFERRED", "IMMEDIATE", "EXCLUSIVE", optional())),
				"COMMIT",
				"ROLLBACK",
				"END",
			),
			oneOf("TRANSACTION", optional()),
			seq("TO", kw("SAVEPOINT", optional()), ref("ObjectReferenceSegment"), optional()),
		)).
		Segment("PragmaStatementSegment", "pragma_statement", seq(
			"PRAGMA",
			ref("PragmaReferenceSegment"),
			bracketed(pragmaValue(), optional()),
			seq(ref("EqualsSegment"), optBracketed(pragmaValue()), optional()),
		)).
		Segment("ExplainStatementSegment", "explain_statement", seq(
			"EXPLAIN",
			seq("QUERY", "PLAN", optional()),
			oneOf(
				ref("AlterTableStatementSegment"),
				ref("CreateIndexStatementSegment"),
				ref("CreateTableStatementSegment"),
				ref("CreateVirtualTableStatementSegment"),
				ref("CreateTriggerStatementSegment"),
				ref("CreateViewStatementSegment"),
				ref("DeleteStatementSegment"),
				ref("DropIndexStatementSegment"),
				ref("DropTableStatementSegment"),
				ref("DropTriggerStatementSegment"),
				ref("DropViewStatementSegment"),
				ref("InsertStatementSegment"),
				ref("PragmaStatementSegment"),
				ref("SelectableGrammar"),
				ref("TransactionStatementSegment"),
				ref("UpdateStatementSegment"),
			),
		)).
		Segment("StatementSegment", "statement", oneOf(
			ref("AlterTableStatementSegment"),
			ref("CreateIndexStatementSegment"),
			ref("CreateTableStatementSegment"),
			ref("CreateVirtualTableStatementSegment"),
			ref("CreateTriggerStatementSegment"),
			ref("CreateViewStatementSegment"),
			ref("DeleteStatementSegment"),
			ref("DropIndexStatementSegment"),
			ref("DropTableStatementSegment"),
			ref("DropTriggerStatementSegment"),
			ref("DropViewStatementSegment"),
			ref("ExplainStatementSegment"),
			ref("InsertStatementSegment"),
			ref("PragmaStatementSegment"),
			ref("SelectableGrammar"),
			ref("TransactionStatementSegment"),
			ref("UpdateStatementSegment"),
			bracketed(ref("StatementSegment")),
		))
}
