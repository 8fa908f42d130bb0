package sqlite

// ReservedKeywords cannot be used as naked identifiers.
// https://www.sqlite.org/lang_keywords.html
var ReservedKeywords = []string{
	"ADD", "ALL", "ALTER", "AND", "AS", "AUTOINCREMENT", "BETWEEN", "CASE",
	"CHECK", "COLLATE", "COMMIT", "CONSTRAINT", "CREATE", "CROSS",
	"CURRENT_DATE", "CURRENT_TIME", "CURRENT_TIMESTAMP", "DEFAULT",
	"DEFERRABLE", "DELETE", "DISTINCT", "DROP", "ELSE", "ESCAPE", "EXCEPT",
	"EXISTS", "FILTER", "FOREIGN", "FROM", "FULL", "GLOB", "GROUP", "HAVING",
	"IN", "INDEX", "INDEXED", "INNER", "INSERT", "INTERSECT", "INTO", "IS",
	"ISNULL", "JOIN", "LEFT", "LIMIT", "NATURAL", "NOT", "NOTHING", "NOTNULL",
	"NULL", "ON", "OR", "ORDER", "OUTER", "OVER", "PRIMARY", "REFERENCES",
	"REGEXP", "RETURNING", "RIGHT", "SELECT", "SET", "TABLE", "THEN", "TO",
	"TRANSACTION", "UNION", "UNIQUE", "UPDATE", "USING", "VALUES", "WHEN",
	"WHERE", "WINDOW",
}

// UnreservedKeywords are the remaining SQLite keywords plus the type names
// and pragma values the grammar spells out.
var UnreservedKeywords = []string{
	"ABORT", "ACTION", "AFTER", "ALWAYS", "ANALYZE", "ASC", "ATTACH", "BEFORE",
	"BEGIN", "BY", "CASCADE", "CAST", "COLUMN", "CONFLICT", "CURRENT",
	"DATABASE", "DEFERRED", "DESC", "DETACH", "DO", "EACH", "END", "EXCLUDE",
	"EXCLUSIVE", "EXPLAIN", "FAIL", "FIRST", "FOLLOWING", "FOR", "GENERATED",
	"GROUPS", "IF", "IGNORE", "IMMEDIATE", "INITIALLY", "INSTEAD", "KEY",
	"LAST", "LIKE", "MATCH", "MATERIALIZED", "NO", "NULLS", "OF", "OFFSET",
	"OTHERS", "PARTITION", "PLAN", "PRAGMA", "PRECEDING", "QUERY", "RAISE",
	"RANGE", "RECURSIVE", "REINDEX", "RELEASE", "RENAME", "REPLACE",
	"RESTRICT", "ROLLBACK", "ROW", "ROWS", "SAVEPOINT", "TEMP", "TEMPORARY",
	"TIES", "TRIGGER", "UNBOUNDED", "VACUUM", "VIEW", "VIRTUAL", "WITH",
	"WITHOUT",

	// Not keywords to SQLite, but matched as words by the grammar.
	"BIG", "DATE", "DATETIME", "DOUBLE", "INT", "NATIVE", "PRECISION",
	"ROWID", "STORED", "STRICT", "UNSIGNED", "VARYING", "CHARACTER",
}
