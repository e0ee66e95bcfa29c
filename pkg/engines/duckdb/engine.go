// Package duckdb implements the engine abstraction for embedded DuckDB
// connections. A nil connection resolves to a process-wide in-memory
// engine, so SQL works out of the box before any connection variable
// exists. Introspection uses the duckdb_databases/duckdb_tables/
// duckdb_views/duckdb_columns catalog functions.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	duckdbdrv "github.com/marcboeker/go-duckdb"

	"github.com/leapstack-labs/sqldeps/pkg/engine"
	"github.com/leapstack-labs/sqldeps/pkg/metadata"
)

// InternalEngineName names the shared in-memory engine used when no
// connection is supplied.
const InternalEngineName = "duckdb-internal"

const dialectName = "duckdb"

// Engine wraps a DuckDB connection behind the engine abstraction.
type Engine struct {
	db     *sql.DB
	logger *slog.Logger
}

// New wraps a DuckDB connection value: a *duckdb.Connector, a *sql.DB
// opened on the duckdb driver, or nil for the shared in-memory engine.
func New(v any, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch conn := v.(type) {
	case nil:
		return Internal(logger)
	case *duckdbdrv.Connector:
		return &Engine{db: sql.OpenDB(conn), logger: logger}, nil
	case *sql.DB:
		if !isDuckDB(conn) {
			return nil, fmt.Errorf("connection is not a duckdb database")
		}
		return &Engine{db: conn, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported duckdb connection type %T", v)
	}
}

var internal struct {
	once sync.Once
	eng  *Engine
	err  error
}

// Internal returns the process-wide in-memory engine, opening it on
// first use.
func Internal(logger *slog.Logger) (*Engine, error) {
	internal.once.Do(func() {
		db, err := sql.Open("duckdb", "")
		if err != nil {
			internal.err = fmt.Errorf("open in-memory duckdb: %w", err)
			return
		}
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		internal.eng = &Engine{db: db, logger: logger}
	})
	return internal.eng, internal.err
}

// Compatible reports whether v is a DuckDB connection value.
func Compatible(v any) bool {
	switch conn := v.(type) {
	case *duckdbdrv.Connector:
		return conn != nil
	case *sql.DB:
		return conn != nil && isDuckDB(conn)
	default:
		return false
	}
}

func isDuckDB(db *sql.DB) bool {
	switch db.Driver().(type) {
	case duckdbdrv.Driver, *duckdbdrv.Driver:
		return true
	}
	return false
}

// Source identifies the backend family.
func (e *Engine) Source() string {
	return dialectName
}

// Dialect returns the SQL dialect for parsing queries.
func (e *Engine) Dialect() string {
	return dialectName
}

// Execute runs a query and returns its result. Failures propagate as
// a *engine.QueryError.
func (e *Engine) Execute(ctx context.Context, query string) (*engine.Result, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &engine.QueryError{Query: query, Err: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &engine.QueryError{Query: query, Err: err}
	}

	result := &engine.Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &engine.QueryError{Query: query, Err: err}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, &engine.QueryError{Query: query, Err: err}
	}
	return result, nil
}

// GetDefaultDatabase reports the catalog a bare query runs against.
func (e *Engine) GetDefaultDatabase(ctx context.Context) (string, bool) {
	return e.scalar(ctx, "SELECT current_database()")
}

// CurrentSchema reports the schema a bare query runs against.
func (e *Engine) CurrentSchema(ctx context.Context) (string, bool) {
	return e.scalar(ctx, "SELECT current_schema()")
}

func (e *Engine) scalar(ctx context.Context, query string) (string, bool) {
	var name sql.NullString
	if err := e.db.QueryRowContext(ctx, query).Scan(&name); err != nil {
		e.logger.Warn("duckdb scalar lookup failed", "query", query, "error", err)
		return "", false
	}
	return name.String, name.Valid
}

// GetDatabases lists every attached catalog with its schemas and
// tables. Catalog metadata is local, so table details default on.
func (e *Engine) GetDatabases(ctx context.Context, opts engine.DatabaseOptions) []metadata.Database {
	includeSchemas := opts.IncludeSchemas.Resolve(true)
	includeTables := opts.IncludeTables.Resolve(true)
	includeDetails := opts.IncludeTableDetails.Resolve(true)

	databases := []metadata.Database{}
	for _, dbName := range e.listDatabases(ctx) {
		db := metadata.Database{
			Name:    dbName,
			Dialect: dialectName,
			Schemas: []metadata.Schema{},
		}
		if includeSchemas {
			for _, schemaName := range e.listSchemas(ctx, dbName) {
				schema := metadata.Schema{Name: schemaName, Tables: []metadata.DataTable{}}
				if includeTables {
					schema.Tables = e.listTables(ctx, dbName, schemaName, includeDetails)
				}
				db.Schemas = append(db.Schemas, schema)
			}
		}
		databases = append(databases, db)
	}
	return databases
}

func (e *Engine) listDatabases(ctx context.Context) []string {
	return e.names(ctx, "SELECT database_name FROM duckdb_databases() WHERE NOT internal ORDER BY database_name")
}

func (e *Engine) listSchemas(ctx context.Context, database string) []string {
	return e.names(ctx,
		"SELECT schema_name FROM duckdb_schemas() WHERE NOT internal AND database_name = ? ORDER BY schema_name",
		database)
}

// listTables merges duckdb_tables() and duckdb_views() for one schema.
func (e *Engine) listTables(ctx context.Context, database, schema string, includeDetails bool) []metadata.DataTable {
	tables := []metadata.DataTable{}

	rows, err := e.db.QueryContext(ctx,
		`SELECT table_name, estimated_size, column_count FROM duckdb_tables()
		WHERE database_name = ? AND schema_name = ? ORDER BY table_name`,
		database, schema)
	if err != nil {
		e.logger.Warn("duckdb table listing failed", "schema", schema, "error", err)
	} else {
		func() {
			defer func() { _ = rows.Close() }()
			for rows.Next() {
				var name string
				var numRows sql.NullInt64
				var numCols sql.NullInt64
				if err := rows.Scan(&name, &numRows, &numCols); err != nil {
					e.logger.Warn("duckdb table scan failed", "schema", schema, "error", err)
					continue
				}
				table := metadata.DataTable{
					Name:    name,
					Type:    metadata.TableTypeTable,
					Columns: []metadata.DataTableColumn{},
				}
				if numRows.Valid {
					table.NumRows = &numRows.Int64
				}
				if numCols.Valid {
					n := int(numCols.Int64)
					table.NumColumns = &n
				}
				tables = append(tables, table)
			}
		}()
	}

	for _, viewName := range e.names(ctx,
		`SELECT view_name FROM duckdb_views() WHERE NOT internal
		AND database_name = ? AND schema_name = ? ORDER BY view_name`,
		database, schema) {
		tables = append(tables, metadata.DataTable{
			Name:    viewName,
			Type:    metadata.TableTypeView,
			Columns: []metadata.DataTableColumn{},
		})
	}

	if includeDetails {
		for i := range tables {
			tables[i].Columns = e.listColumns(ctx, database, schema, tables[i].Name)
			if tables[i].NumColumns == nil {
				n := len(tables[i].Columns)
				tables[i].NumColumns = &n
			}
		}
	}

	return tables
}

func (e *Engine) listColumns(ctx context.Context, database, schema, table string) []metadata.DataTableColumn {
	rows, err := e.db.QueryContext(ctx,
		`SELECT column_name, data_type FROM duckdb_columns()
		WHERE database_name = ? AND schema_name = ? AND table_name = ?
		ORDER BY column_index`,
		database, schema, table)
	if err != nil {
		e.logger.Warn("duckdb column listing failed", "table", table, "error", err)
		return []metadata.DataTableColumn{}
	}
	defer func() { _ = rows.Close() }()

	cols := []metadata.DataTableColumn{}
	for rows.Next() {
		var name, colType string
		if err := rows.Scan(&name, &colType); err != nil {
			e.logger.Warn("duckdb column scan failed", "table", table, "error", err)
			continue
		}
		cols = append(cols, metadata.DataTableColumn{
			Name:         name,
			Type:         metadata.TypeFromString(colType),
			ExternalType: colType,
		})
	}
	return cols
}

// names runs a query and collects its first column as strings. A
// failure logs and returns nil so callers degrade to empty listings.
func (e *Engine) names(ctx context.Context, query string, args ...any) []string {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		e.logger.Warn("duckdb name listing failed", "error", err)
		return nil
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		out = append(out, name)
	}
	return out
}
