package duckdb

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqldeps/pkg/engine"
	"github.com/leapstack-labs/sqldeps/pkg/metadata"
)

// testEngine wires a mocked connection directly, bypassing the driver
// check in New.
func testEngine(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Engine{db: db, logger: slog.New(slog.DiscardHandler)}, mock
}

func TestCompatible(t *testing.T) {
	assert.False(t, Compatible(nil))
	assert.False(t, Compatible(42))
	assert.False(t, Compatible("duckdb"))

	// a *sql.DB on a foreign driver is not claimed
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	assert.False(t, Compatible(db))
}

func TestNew_RejectsUnsupportedValues(t *testing.T) {
	_, err := New(42, nil)
	require.Error(t, err)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = New(db, nil)
	require.Error(t, err)
}

func TestEngine_SourceAndDialect(t *testing.T) {
	e, _ := testEngine(t)
	assert.Equal(t, "duckdb", e.Source())
	assert.Equal(t, "duckdb", e.Dialect())
}

func TestEngine_Execute(t *testing.T) {
	e, mock := testEngine(t)

	mock.ExpectQuery("SELECT 42 AS answer").WillReturnRows(
		sqlmock.NewRows([]string{"answer"}).AddRow(int64(42)))

	result, err := e.Execute(context.Background(), "SELECT 42 AS answer")
	require.NoError(t, err)
	assert.Equal(t, []string{"answer"}, result.Columns)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, []any{int64(42)}, result.Rows[0])
}

func TestEngine_ExecutePropagatesQueryError(t *testing.T) {
	e, mock := testEngine(t)

	mock.ExpectQuery("SELECT boom").WillReturnError(errors.New("binder error"))

	_, err := e.Execute(context.Background(), "SELECT boom")
	var queryErr *engine.QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "SELECT boom", queryErr.Query)
}

func TestEngine_GetDefaultDatabase(t *testing.T) {
	e, mock := testEngine(t)

	mock.ExpectQuery("SELECT current_database").WillReturnRows(
		sqlmock.NewRows([]string{"current_database()"}).AddRow("memory"))

	name, ok := e.GetDefaultDatabase(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "memory", name)
}

func TestEngine_GetDatabases(t *testing.T) {
	e, mock := testEngine(t)

	mock.ExpectQuery("duckdb_databases").WillReturnRows(
		sqlmock.NewRows([]string{"database_name"}).AddRow("memory"))
	mock.ExpectQuery("duckdb_schemas").WithArgs("memory").WillReturnRows(
		sqlmock.NewRows([]string{"schema_name"}).AddRow("main"))
	mock.ExpectQuery("duckdb_tables").WithArgs("memory", "main").WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "estimated_size", "column_count"}).
			AddRow("events", int64(1200), int64(3)))
	mock.ExpectQuery("duckdb_views").WithArgs("memory", "main").WillReturnRows(
		sqlmock.NewRows([]string{"view_name"}).AddRow("events_by_day"))
	mock.ExpectQuery("duckdb_columns").WithArgs("memory", "main", "events").WillReturnRows(
		sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("id", "BIGINT").
			AddRow("ts", "TIMESTAMP").
			AddRow("payload", "VARCHAR"))
	mock.ExpectQuery("duckdb_columns").WithArgs("memory", "main", "events_by_day").WillReturnRows(
		sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("day", "DATE"))

	dbs := e.GetDatabases(context.Background(), engine.DatabaseOptions{})
	require.Len(t, dbs, 1)
	assert.Equal(t, "memory", dbs[0].Name)
	assert.Equal(t, "duckdb", dbs[0].Dialect)

	require.Len(t, dbs[0].Schemas, 1)
	tables := dbs[0].Schemas[0].Tables
	require.Len(t, tables, 2)

	events := tables[0]
	assert.Equal(t, "events", events.Name)
	assert.Equal(t, metadata.TableTypeTable, events.Type)
	require.NotNil(t, events.NumRows)
	assert.Equal(t, int64(1200), *events.NumRows)
	require.Len(t, events.Columns, 3)
	assert.Equal(t, metadata.TypeInteger, events.Columns[0].Type)
	assert.Equal(t, metadata.TypeDatetime, events.Columns[1].Type)
	assert.Equal(t, metadata.TypeString, events.Columns[2].Type)

	view := tables[1]
	assert.Equal(t, "events_by_day", view.Name)
	assert.Equal(t, metadata.TableTypeView, view.Type)
	require.Len(t, view.Columns, 1)
	assert.Equal(t, metadata.TypeDate, view.Columns[0].Type)
}

func TestEngine_GetDatabases_FailedSchemaListingDegrades(t *testing.T) {
	e, mock := testEngine(t)

	mock.ExpectQuery("duckdb_databases").WillReturnRows(
		sqlmock.NewRows([]string{"database_name"}).AddRow("memory"))
	mock.ExpectQuery("duckdb_schemas").WithArgs("memory").
		WillReturnError(errors.New("catalog error"))

	dbs := e.GetDatabases(context.Background(), engine.DatabaseOptions{})
	require.Len(t, dbs, 1)
	assert.Empty(t, dbs[0].Schemas)
}

func TestEngine_GetDatabases_TablesOff(t *testing.T) {
	e, mock := testEngine(t)

	mock.ExpectQuery("duckdb_databases").WillReturnRows(
		sqlmock.NewRows([]string{"database_name"}).AddRow("memory"))
	mock.ExpectQuery("duckdb_schemas").WithArgs("memory").WillReturnRows(
		sqlmock.NewRows([]string{"schema_name"}).AddRow("main"))

	dbs := e.GetDatabases(context.Background(), engine.DatabaseOptions{
		IncludeTables: engine.ToggleOff,
	})
	require.Len(t, dbs, 1)
	require.Len(t, dbs[0].Schemas, 1)
	assert.Empty(t, dbs[0].Schemas[0].Tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}
