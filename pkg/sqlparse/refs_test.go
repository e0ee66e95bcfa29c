package sqlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func duck() Dialect {
	return GetDialect("duckdb")
}

func TestExtractRefs_Basic(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []SourceRef
	}{
		{
			name: "simple select",
			sql:  "SELECT id, name FROM users",
			want: []SourceRef{{Name: "users"}},
		},
		{
			name: "join collects both sides",
			sql:  "SELECT * FROM orders o JOIN customers c ON o.customer_id = c.id",
			want: []SourceRef{{Name: "orders"}, {Name: "customers"}},
		},
		{
			name: "update target is a reference",
			sql:  "UPDATE v3 SET price = price * 2 WHERE id = 1",
			want: []SourceRef{{Name: "v3"}},
		},
		{
			name: "insert select references both tables",
			sql:  "INSERT INTO archive SELECT * FROM events WHERE ts < now()",
			want: []SourceRef{{Name: "archive"}, {Name: "events"}},
		},
		{
			name: "delete target",
			sql:  "DELETE FROM sessions WHERE expired",
			want: []SourceRef{{Name: "sessions"}},
		},
		{
			name: "schema qualified",
			sql:  "SELECT * FROM analytics.events",
			want: []SourceRef{{Schema: "analytics", Name: "events"}},
		},
		{
			name: "catalog qualified drops schema",
			sql:  "SELECT * FROM my_db.main.users",
			want: []SourceRef{{Catalog: "my_db", Name: "users"}},
		},
		{
			name: "default in-memory catalog keeps only the name",
			sql:  "SELECT * FROM memory.main.users",
			want: []SourceRef{{Name: "users"}},
		},
		{
			name: "pure ddl yields nothing",
			sql:  "CREATE TABLE t (id INTEGER, name VARCHAR)",
			want: []SourceRef{},
		},
		{
			name: "create table as select references the source",
			sql:  "CREATE TABLE summary AS SELECT region, sum(total) FROM sales GROUP BY region",
			want: []SourceRef{{Name: "sales"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRefs(tt.sql, duck())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRefs_CTEShadowing(t *testing.T) {
	sql := `WITH recent AS (SELECT * FROM events WHERE ts > '2024-01-01')
	        SELECT * FROM recent JOIN users ON recent.user_id = users.id`

	got := ExtractRefs(sql, duck())
	assert.Equal(t, []SourceRef{{Name: "events"}, {Name: "users"}}, got)
}

func TestExtractRefs_CTEVisibleInLaterCTE(t *testing.T) {
	sql := `WITH a AS (SELECT * FROM base),
	             b AS (SELECT * FROM a)
	        SELECT * FROM b`

	got := ExtractRefs(sql, duck())
	assert.Equal(t, []SourceRef{{Name: "base"}}, got)
}

func TestExtractRefs_RecursiveCTE(t *testing.T) {
	sql := `WITH RECURSIVE tree AS (
	          SELECT id, parent_id FROM nodes WHERE parent_id IS NULL
	          UNION ALL
	          SELECT n.id, n.parent_id FROM nodes n JOIN tree ON n.parent_id = tree.id
	        )
	        SELECT * FROM tree`

	got := ExtractRefs(sql, duck())
	assert.Equal(t, []SourceRef{{Name: "nodes"}}, got)
}

func TestExtractRefs_CTEDoesNotShadowOutsideItsStatement(t *testing.T) {
	sql := `WITH tmp AS (SELECT 1 FROM dual) SELECT * FROM tmp;
	        SELECT * FROM tmp`

	got := ExtractRefs(sql, duck())
	// second statement has no CTE named tmp in scope
	assert.Equal(t, []SourceRef{{Name: "dual"}, {Name: "tmp"}}, got)
}

func TestExtractRefs_Subqueries(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []SourceRef
	}{
		{
			name: "derived table",
			sql:  "SELECT * FROM (SELECT id FROM users) u",
			want: []SourceRef{{Name: "users"}},
		},
		{
			name: "scalar subquery in select list",
			sql:  "SELECT id, (SELECT max(total) FROM orders) FROM users",
			want: []SourceRef{{Name: "users"}, {Name: "orders"}},
		},
		{
			name: "in subquery",
			sql:  "SELECT * FROM users WHERE id IN (SELECT user_id FROM admins)",
			want: []SourceRef{{Name: "users"}, {Name: "admins"}},
		},
		{
			name: "exists subquery",
			sql:  "SELECT * FROM users u WHERE EXISTS (SELECT 1 FROM orders o WHERE o.user_id = u.id)",
			want: []SourceRef{{Name: "users"}, {Name: "orders"}},
		},
		{
			name: "union branches",
			sql:  "SELECT id FROM a UNION ALL SELECT id FROM b",
			want: []SourceRef{{Name: "a"}, {Name: "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRefs(tt.sql, duck())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRefs_SetOperations(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []SourceRef
	}{
		{
			name: "parenthesized left operand",
			sql:  "(SELECT * FROM a UNION SELECT * FROM b) EXCEPT SELECT * FROM c",
			want: []SourceRef{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		},
		{
			name: "parenthesized right operand",
			sql:  "SELECT * FROM a INTERSECT (SELECT * FROM b UNION SELECT * FROM c)",
			want: []SourceRef{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		},
		{
			name: "parenthesized on both sides",
			sql:  "(SELECT * FROM a UNION ALL SELECT * FROM b) UNION (SELECT * FROM c EXCEPT SELECT * FROM d)",
			want: []SourceRef{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}},
		},
		{
			name: "three-way chain without parens",
			sql:  "SELECT * FROM a UNION SELECT * FROM b UNION SELECT * FROM c",
			want: []SourceRef{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRefs(tt.sql, duck())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRefs_FirstOccurrenceOrderAndDedupe(t *testing.T) {
	sql := `SELECT * FROM b JOIN a ON b.x = a.x;
	        SELECT * FROM a;
	        SELECT * FROM c JOIN b ON c.y = b.y`

	got := ExtractRefs(sql, duck())
	assert.Equal(t, []SourceRef{{Name: "b"}, {Name: "a"}, {Name: "c"}}, got)
}

func TestExtractRefs_Idempotent(t *testing.T) {
	sql := "SELECT * FROM t1 JOIN db2.s.t2 ON t1.id = t2.id"

	first := ExtractRefs(sql, duck())
	second := ExtractRefs(sql, duck())
	assert.Equal(t, first, second)
	assert.Equal(t, []SourceRef{{Name: "t1"}, {Catalog: "db2", Name: "t2"}}, first)
}

func TestExtractRefs_ParseFailureIsIsolated(t *testing.T) {
	sql := `SELEC broken syntax here;
	        SELECT * FROM survivors`

	got := ExtractRefs(sql, duck())
	assert.Equal(t, []SourceRef{{Name: "survivors"}}, got)
}

func TestExtractRefs_QuotedIdentifiers(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []SourceRef
	}{
		{
			name: "quoted name with spaces",
			sql:  `SELECT * FROM "my table"`,
			want: []SourceRef{{Name: "my table"}},
		},
		{
			name: "quoted name with comment-like sequence",
			sql:  `SELECT * FROM "weird -- name"`,
			want: []SourceRef{{Name: "weird -- name"}},
		},
		{
			name: "quoted name with semicolon",
			sql:  `SELECT * FROM "a;b"; SELECT * FROM c`,
			want: []SourceRef{{Name: "a;b"}, {Name: "c"}},
		},
		{
			name: "escaped quote inside identifier",
			sql:  `SELECT * FROM "say ""hi"""`,
			want: []SourceRef{{Name: `say "hi"`}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRefs(tt.sql, duck())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRefs_CommentsIgnored(t *testing.T) {
	sql := `-- leading comment
	        SELECT * /* inline; comment */ FROM users -- trailing`

	got := ExtractRefs(sql, duck())
	assert.Equal(t, []SourceRef{{Name: "users"}}, got)
}

func TestExtractRefs_PostgresDefaults(t *testing.T) {
	// postgres has no in-memory catalog, so a catalog qualifier is
	// always kept
	got := ExtractRefs("SELECT * FROM mydb.public.users", GetDialect("postgres"))
	assert.Equal(t, []SourceRef{{Catalog: "mydb", Name: "users"}}, got)

	got = ExtractRefs("SELECT * FROM public.users", GetDialect("postgres"))
	assert.Equal(t, []SourceRef{{Schema: "public", Name: "users"}}, got)
}

func TestSourceRef_Parts(t *testing.T) {
	require.Equal(t, []string{"t"}, SourceRef{Name: "t"}.Parts())
	require.Equal(t, []string{"s", "t"}, SourceRef{Schema: "s", Name: "t"}.Parts())
	require.Equal(t, []string{"c", "t"}, SourceRef{Catalog: "c", Name: "t"}.Parts())
	require.Equal(t, "c.t", SourceRef{Catalog: "c", Name: "t"}.String())
}
