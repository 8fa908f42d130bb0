package ansi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/dialects/ansi"
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
	"github.com/leapstack-labs/leapfluff/pkg/parser"
)

func TestReferentialClosure(t *testing.T) {
	d := ansi.Dialect()
	for _, name := range d.Rules() {
		m, _ := d.Grammar(name)
		for _, ref := range grammar.RefNames(m) {
			_, ok := d.Grammar(ref)
			assert.True(t, ok, "%s refers to missing rule %s", name, ref)
		}
	}
}

func TestRoot(t *testing.T) {
	d, ok := dialect.Get("ANSI")
	require.True(t, ok)
	assert.Same(t, ansi.Dialect(), d)

	root, ok := d.Grammar(dialect.RootRule)
	require.True(t, ok)
	assert.Same(t, root, d.Root())
	assert.Empty(t, d.Inherits())
}

func TestNakedIdentifierExcludesReserved(t *testing.T) {
	d := ansi.Dialect()
	res, err := parser.ParseDialect(context.Background(), d, "SELECT select FROM t", parser.Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Violations())

	res, err = parser.ParseDialect(context.Background(), d, "SELECT name FROM t", parser.Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Violations())
	assert.NotEmpty(t, res.Tree.Find("naked_identifier"))
}

func TestParseANSI(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		types []string
	}{
		{
			name:  "select",
			sql:   "SELECT DISTINCT a AS x, b + 1 FROM s.t AS u WHERE a BETWEEN 1 AND 2;",
			types: []string{"select_clause_modifier", "alias_expression", "where_clause", "table_reference"},
		},
		{
			name:  "group by having",
			sql:   "SELECT a, count(*) FROM t GROUP BY a HAVING count(*) > 1 ORDER BY a DESC;",
			types: []string{"groupby_clause", "having_clause", "orderby_clause", "function"},
		},
		{
			name:  "in subquery",
			sql:   "SELECT a FROM t WHERE a IN (SELECT b FROM u) AND c NOT IN (1, 2);",
			types: []string{"where_clause"},
		},
		{
			name:  "exists",
			sql:   "SELECT a FROM t WHERE NOT EXISTS (SELECT 1 FROM u WHERE u.id = t.id);",
			types: []string{"where_clause"},
		},
		{
			name:  "insert select",
			sql:   "INSERT INTO t (a) SELECT a FROM u;",
			types: []string{"insert_statement"},
		},
		{
			name:  "create schema",
			sql:   "CREATE SCHEMA IF NOT EXISTS s;",
			types: []string{"create_schema_statement"},
		},
		{
			name:  "drop table cascade",
			sql:   "DROP TABLE IF EXISTS a, b CASCADE;",
			types: []string{"drop_table_statement"},
		},
		{
			name:  "transaction",
			sql:   "COMMIT WORK AND NO CHAIN;",
			types: []string{"transaction_statement"},
		},
		{
			name:  "interval",
			sql:   "SELECT INTERVAL 1 DAY FROM t;",
			types: []string{"interval_expression"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parser.ParseDialect(context.Background(), ansi.Dialect(), tt.sql, parser.Options{})
			require.NoError(t, err)
			require.Empty(t, res.Violations(), "unparsable: %s", tt.sql)
			assert.Equal(t, tt.sql, res.Tree.Text())
			for _, typ := range tt.types {
				assert.NotEmpty(t, res.Tree.Find(typ), "no %s node", typ)
			}
		})
	}
}
