package clickhouse

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	chdriver "github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqldeps/pkg/engine"
	"github.com/leapstack-labs/sqldeps/pkg/metadata"
)

// ---------- driver fakes ----------

type fakeConn struct {
	chdriver.Conn

	// results matched by substring of the query text
	results map[string]*fakeRows
	scalars map[string]any
	failOn  string
}

func (c *fakeConn) Query(_ context.Context, query string, _ ...any) (chdriver.Rows, error) {
	if c.failOn != "" && strings.Contains(query, c.failOn) {
		return nil, errors.New("simulated failure")
	}
	for key, rows := range c.results {
		if strings.Contains(query, key) {
			return rows.reset(), nil
		}
	}
	return nil, errors.New("unexpected query: " + query)
}

func (c *fakeConn) QueryRow(_ context.Context, query string, _ ...any) chdriver.Row {
	if c.failOn != "" && strings.Contains(query, c.failOn) {
		return &fakeRow{err: errors.New("simulated failure")}
	}
	for key, val := range c.scalars {
		if strings.Contains(query, key) {
			return &fakeRow{vals: []any{val}}
		}
	}
	return &fakeRow{err: errors.New("unexpected query: " + query)}
}

type fakeRow struct {
	vals []any
	err  error
}

func (r *fakeRow) Err() error { return r.err }

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

func (r *fakeRow) ScanStruct(any) error { return nil }

type fakeRows struct {
	cols []string
	data [][]any
	pos  int
}

func (r *fakeRows) reset() *fakeRows { r.pos = 0; return r }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(dest, r.data[r.pos-1])
}

func (r *fakeRows) ScanStruct(any) error { return nil }
func (r *fakeRows) Totals(...any) error  { return nil }
func (r *fakeRows) Columns() []string    { return r.cols }
func (r *fakeRows) Close() error         { return nil }
func (r *fakeRows) Err() error           { return nil }

func (r *fakeRows) ColumnTypes() []chdriver.ColumnType {
	types := make([]chdriver.ColumnType, len(r.cols))
	for i, name := range r.cols {
		var scanType reflect.Type
		if len(r.data) > 0 {
			scanType = reflect.TypeOf(r.data[0][i])
		} else {
			scanType = reflect.TypeOf("")
		}
		types[i] = fakeColumnType{name: name, scanType: scanType}
	}
	return types
}

type fakeColumnType struct {
	name     string
	scanType reflect.Type
}

func (t fakeColumnType) Name() string             { return t.name }
func (t fakeColumnType) Nullable() bool           { return false }
func (t fakeColumnType) ScanType() reflect.Type   { return t.scanType }
func (t fakeColumnType) DatabaseTypeName() string { return "" }

// assign copies row values into scan destinations via reflection.
func assign(dest, vals []any) error {
	if len(dest) != len(vals) {
		return errors.New("scan arity mismatch")
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Ptr {
			return errors.New("scan destination is not a pointer")
		}
		dv.Elem().Set(reflect.ValueOf(vals[i]))
	}
	return nil
}

func ptrUint64(v uint64) *uint64 { return &v }

// ---------- tests ----------

func TestCompatible(t *testing.T) {
	assert.False(t, Compatible(nil))
	assert.False(t, Compatible("clickhouse"))
	assert.False(t, Compatible((chdriver.Conn)(nil)))
	assert.True(t, Compatible(&fakeConn{}))
}

func TestEngine_SourceAndDialect(t *testing.T) {
	e := New(&fakeConn{}, nil)
	assert.Equal(t, "clickhouse", e.Source())
	assert.Equal(t, "clickhouse", e.Dialect())
}

func TestEngine_Execute(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeRows{
		"SELECT name FROM metrics": {
			cols: []string{"name"},
			data: [][]any{{"cpu"}, {"memory"}},
		},
	}}
	e := New(conn, nil)

	result, err := e.Execute(context.Background(), "SELECT name FROM metrics")
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, result.Columns)
	assert.Equal(t, [][]any{{"cpu"}, {"memory"}}, result.Rows)
}

func TestEngine_ExecutePropagatesQueryError(t *testing.T) {
	e := New(&fakeConn{failOn: "SELECT"}, nil)

	_, err := e.Execute(context.Background(), "SELECT 1")
	var queryErr *engine.QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "SELECT 1", queryErr.Query)
}

func TestEngine_GetDefaultDatabase(t *testing.T) {
	e := New(&fakeConn{scalars: map[string]any{"currentDatabase": "default"}}, nil)

	name, ok := e.GetDefaultDatabase(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "default", name)
}

func TestEngine_GetDefaultDatabase_FailureDegrades(t *testing.T) {
	e := New(&fakeConn{failOn: "currentDatabase"}, nil)

	_, ok := e.GetDefaultDatabase(context.Background())
	assert.False(t, ok)
}

func TestEngine_GetDatabases(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeRows{
		"SHOW DATABASES": {
			cols: []string{"name"},
			data: [][]any{{"system"}, {"information_schema"}, {"analytics"}},
		},
		"system.tables": {
			cols: []string{"name", "engine", "total_rows"},
			data: [][]any{
				{"hits", "MergeTree", ptrUint64(5000)},
				{"hits_by_day", "MaterializedView", (*uint64)(nil)},
			},
		},
		"DESCRIBE TABLE": {
			cols: []string{"name", "type"},
			data: [][]any{{"id", "UInt64"}, {"ts", "DateTime64(3)"}},
		},
	}}
	e := New(conn, nil)

	dbs := e.GetDatabases(context.Background(), engine.DatabaseOptions{
		IncludeTableDetails: engine.ToggleOn,
	})

	// system databases are skipped
	require.Len(t, dbs, 1)
	db := dbs[0]
	assert.Equal(t, "analytics", db.Name)
	assert.Equal(t, "clickhouse", db.Dialect)

	// no schema concept: a single unnamed schema
	require.Len(t, db.Schemas, 1)
	assert.Equal(t, "", db.Schemas[0].Name)

	tables := db.Schemas[0].Tables
	require.Len(t, tables, 2)
	assert.Equal(t, metadata.TableTypeTable, tables[0].Type)
	require.NotNil(t, tables[0].NumRows)
	assert.Equal(t, int64(5000), *tables[0].NumRows)
	assert.Equal(t, metadata.TableTypeView, tables[1].Type)
	assert.Nil(t, tables[1].NumRows)

	require.Len(t, tables[0].Columns, 2)
	assert.Equal(t, metadata.TypeInteger, tables[0].Columns[0].Type)
	assert.Equal(t, metadata.TypeDatetime, tables[0].Columns[1].Type)
	assert.Equal(t, "DateTime64(3)", tables[0].Columns[1].ExternalType)
}

func TestEngine_GetDatabases_AutoSkipsDetails(t *testing.T) {
	conn := &fakeConn{results: map[string]*fakeRows{
		"SHOW DATABASES": {
			cols: []string{"name"},
			data: [][]any{{"analytics"}},
		},
		"system.tables": {
			cols: []string{"name", "engine", "total_rows"},
			data: [][]any{{"hits", "MergeTree", ptrUint64(1)}},
		},
	}}
	e := New(conn, nil)

	dbs := e.GetDatabases(context.Background(), engine.DatabaseOptions{})
	require.Len(t, dbs, 1)
	// DESCRIBE was never issued; details default off for this backend
	assert.Empty(t, dbs[0].Schemas[0].Tables[0].Columns)
}

func TestEngine_GetDatabases_TableListingFailureDegrades(t *testing.T) {
	conn := &fakeConn{
		results: map[string]*fakeRows{
			"SHOW DATABASES": {
				cols: []string{"name"},
				data: [][]any{{"analytics"}},
			},
		},
		failOn: "system.tables",
	}
	e := New(conn, nil)

	dbs := e.GetDatabases(context.Background(), engine.DatabaseOptions{})
	require.Len(t, dbs, 1)
	assert.Empty(t, dbs[0].Schemas[0].Tables)
}
