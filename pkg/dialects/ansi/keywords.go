package ansi

// ReservedKeywords are the ANSI words that can never be naked identifiers.
var ReservedKeywords = []string{
	"ALL", "ALTER", "AND", "ANY", "AS", "ASC", "AT", "BETWEEN", "BOTH", "BY",
	"CASE", "CAST", "CHECK", "COLLATE", "COLUMN", "CONSTRAINT", "CREATE",
	"CROSS", "CUBE", "CURRENT", "CURRENT_DATE", "CURRENT_TIME",
	"CURRENT_TIMESTAMP", "CURRENT_USER", "DEFAULT", "DELETE", "DESC",
	"DISTINCT", "DROP", "ELSE", "END", "EXCEPT", "EXISTS", "FALSE", "FETCH",
	"FILTER", "FOR", "FOREIGN", "FROM", "FULL", "GRANT", "GROUP", "GROUPING",
	"HAVING", "IN", "INNER", "INSERT", "INTERSECT", "INTERVAL", "INTO", "IS",
	"JOIN", "LATERAL", "LEADING", "LEFT", "LIKE", "LIMIT", "LOCALTIME",
	"LOCALTIMESTAMP", "NATURAL", "NOT", "NULL", "OFFSET", "ON", "ONLY", "OR",
	"ORDER", "OUTER", "OVER", "OVERLAPS", "PARTITION", "PRIMARY", "QUALIFY",
	"REFERENCES", "RIGHT", "ROLLUP", "ROWS", "SELECT", "SESSION_USER", "SET",
	"SOME", "TABLE", "TABLESAMPLE", "THEN", "TO", "TRAILING", "TRUE", "UNION",
	"UNIQUE", "UPDATE", "USER", "USING", "VALUES", "WHEN", "WHERE", "WINDOW",
	"WITH", "WITHIN",
}

// UnreservedKeywords are ANSI keywords that may still name objects.
// Keywords referenced by rules but listed in neither set are added here
// when the dialect is built.
var UnreservedKeywords = []string{
	"ABORT", "ACTION", "ADD", "AFTER", "ALWAYS", "BEFORE", "BEGIN", "BERNOULLI",
	"BINARY", "BINDING", "CASCADE", "CHAIN", "CHARACTER", "COMMENT", "COMMIT",
	"DATA", "DATE", "DEFERRABLE", "DEFERRED", "DO", "DOUBLE", "EACH",
	"ESCAPE", "EXECUTE", "EXPLAIN", "FIRST", "FOLLOWING", "GENERATED",
	"IF", "IGNORE", "ILIKE", "IMMEDIATE", "INDEX", "INITIALLY", "INSTEAD",
	"KEY", "LARGE", "LAST", "MATCH", "MERGE", "MINUS", "MODEL", "MODIFY",
	"NAN", "NAME", "NEXT", "NO", "NULLS", "OBJECT", "OF", "PARTIAL",
	"PRECEDING", "PRECISION", "PROCEDURE", "RANGE", "RECURSIVE", "RENAME",
	"REPEATABLE", "REPLACE", "RESPECT", "RESTRICT", "RLIKE", "ROLLBACK", "ROW",
	"SCHEMA", "SEED", "SETS", "SIMPLE", "START", "STATEMENT", "SYSTEM", "TEMP",
	"TEMPORARY", "TIME", "TIMESTAMP", "TRANSACTION", "TRANSIENT", "TRIGGER",
	"TYPE", "UNBOUNDED", "UNSIGNED", "VALUE", "VARYING", "VIEW", "WITHOUT",
	"WORK", "ZONE",
}

// BareFunctions can be called without parentheses.
var BareFunctions = []string{"CURRENT_TIMESTAMP", "CURRENT_TIME", "CURRENT_DATE"}

// DatetimeUnits are the date parts accepted by interval and date functions.
var DatetimeUnits = []string{
	"DAY", "DAYOFYEAR", "HOUR", "MILLISECOND", "MINUTE", "MONTH",
	"QUARTER", "SECOND", "WEEK", "WEEKDAY", "YEAR",
}

// DatePartFunctions take a date part as their first argument.
var DatePartFunctions = []string{"DATEADD"}
