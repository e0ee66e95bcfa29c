package sqlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SelectShapes(t *testing.T) {
	stmt, err := Parse("SELECT DISTINCT u.id, count(*) AS n FROM users u WHERE active GROUP BY u.id HAVING count(*) > 1 ORDER BY n DESC LIMIT 10 OFFSET 5", duck())
	require.NoError(t, err)

	sel, ok := stmt.(*SelectStmt)
	require.True(t, ok)
	core := sel.Body.Left
	assert.True(t, core.Distinct)
	assert.Len(t, core.Columns, 2)
	assert.Equal(t, "n", core.Columns[1].Alias)
	assert.NotNil(t, core.Where)
	assert.Len(t, core.GroupBy, 1)
	assert.NotNil(t, core.Having)
	assert.Len(t, core.OrderBy, 1)
	assert.NotNil(t, core.Limit)
	assert.NotNil(t, core.Offset)

	table, ok := core.From.Source.(*TableName)
	require.True(t, ok)
	assert.Equal(t, "users", table.Name)
	assert.Equal(t, "u", table.Alias)
}

func TestParse_TableQualifiers(t *testing.T) {
	stmt, err := Parse("SELECT * FROM c.s.t", duck())
	require.NoError(t, err)

	table := stmt.(*SelectStmt).Body.Left.From.Source.(*TableName)
	assert.Equal(t, "c", table.Catalog)
	assert.Equal(t, "s", table.Schema)
	assert.Equal(t, "t", table.Name)
}

func TestParse_Joins(t *testing.T) {
	stmt, err := Parse("SELECT * FROM a LEFT OUTER JOIN b ON a.x = b.x CROSS JOIN c, d", duck())
	require.NoError(t, err)

	from := stmt.(*SelectStmt).Body.Left.From
	require.Len(t, from.Joins, 3)
	assert.Equal(t, "LEFT", from.Joins[0].Type)
	assert.NotNil(t, from.Joins[0].On)
	assert.Equal(t, "CROSS", from.Joins[1].Type)
	assert.Equal(t, "CROSS", from.Joins[2].Type)
}

func TestParse_TableFunction(t *testing.T) {
	stmt, err := Parse("SELECT * FROM read_csv('data.csv') t", duck())
	require.NoError(t, err)

	fn, ok := stmt.(*SelectStmt).Body.Left.From.Source.(*TableFunc)
	require.True(t, ok)
	assert.Equal(t, "read_csv", fn.Name)
	assert.Equal(t, "t", fn.Alias)
	assert.Len(t, fn.Args, 1)
}

func TestParse_CreateTableAsSelect(t *testing.T) {
	stmt, err := Parse("CREATE OR REPLACE TABLE c.s.t AS SELECT * FROM src", duck())
	require.NoError(t, err)

	create, ok := stmt.(*CreateStmt)
	require.True(t, ok)
	assert.True(t, create.OrReplace)
	assert.Equal(t, ObjectTable, create.Kind)
	assert.Equal(t, []string{"c", "s", "t"}, create.Object.Parts)
	require.NotNil(t, create.Select)
}

func TestParse_Attach(t *testing.T) {
	stmt, err := Parse("ATTACH 'md:my_db' AS remote (READ_ONLY)", duck())
	require.NoError(t, err)

	attach, ok := stmt.(*AttachStmt)
	require.True(t, ok)
	assert.Equal(t, "md:my_db", attach.Target)
	assert.Equal(t, "remote", attach.Alias)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"not sql", "GRANT ALL ON t TO someone"},
		{"missing from target", "SELECT * FROM"},
		{"dangling create", "CREATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.sql, duck())
			require.Error(t, err)

			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}
