// Package sqldb implements the engine abstraction for any database
// reachable through database/sql. The SQL dialect is inferred from the
// connection's driver; postgres and mysql introspect through
// information_schema, sqlite through sqlite_master and table_info
// pragmas.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/stdlib"
	duckdbdrv "github.com/marcboeker/go-duckdb"
	sqlitedrv "modernc.org/sqlite"

	"github.com/leapstack-labs/sqldeps/pkg/engine"
	"github.com/leapstack-labs/sqldeps/pkg/metadata"
)

// Engine wraps a *sql.DB behind the engine abstraction.
type Engine struct {
	db      *sql.DB
	dialect string
	logger  *slog.Logger
}

// New wraps an open connection. A nil logger discards log output.
func New(db *sql.DB, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		db:      db,
		dialect: dialectForDriver(db),
		logger:  logger,
	}
}

// Compatible reports whether v is a *sql.DB this engine should claim.
// Connections opened on the embedded duckdb driver are excluded; those
// belong to the duckdb engine.
func Compatible(v any) bool {
	db, ok := v.(*sql.DB)
	if !ok || db == nil {
		return false
	}
	switch db.Driver().(type) {
	case duckdbdrv.Driver, *duckdbdrv.Driver:
		return false
	}
	return true
}

// dialectForDriver infers the SQL dialect from the driver's dynamic type.
func dialectForDriver(db *sql.DB) string {
	if db == nil {
		return "sql"
	}
	switch db.Driver().(type) {
	case *stdlib.Driver:
		return "postgres"
	case *mysql.MySQLDriver:
		return "mysql"
	case *sqlitedrv.Driver:
		return "sqlite"
	default:
		return "sql"
	}
}

// Source identifies the backend family by its inferred dialect.
func (e *Engine) Source() string {
	return e.dialect
}

// Dialect returns the SQL dialect for parsing queries.
func (e *Engine) Dialect() string {
	return e.dialect
}

// Execute runs a query and returns its result. Failures propagate as
// a *engine.QueryError.
func (e *Engine) Execute(ctx context.Context, query string) (*engine.Result, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &engine.QueryError{Query: query, Err: err}
	}
	defer func() { _ = rows.Close() }()

	result, err := scanResult(rows)
	if err != nil {
		return nil, &engine.QueryError{Query: query, Err: err}
	}
	return result, nil
}

// scanResult reads all rows into an engine.Result.
func scanResult(rows *sql.Rows) (*engine.Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &engine.Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, values)
	}
	return result, rows.Err()
}

// GetDefaultDatabase reports the database a bare query runs against.
func (e *Engine) GetDefaultDatabase(ctx context.Context) (string, bool) {
	switch e.dialect {
	case "postgres":
		return e.queryScalar(ctx, "SELECT current_database()")
	case "mysql":
		return e.queryScalar(ctx, "SELECT DATABASE()")
	case "sqlite":
		return "main", true
	default:
		return "", false
	}
}

func (e *Engine) queryScalar(ctx context.Context, query string) (string, bool) {
	var name sql.NullString
	if err := e.db.QueryRowContext(ctx, query).Scan(&name); err != nil {
		e.logger.Warn("default database lookup failed", "error", err)
		return "", false
	}
	return name.String, name.Valid
}

// GetDatabases lists the current database with its schemas and tables.
// Every sub-query that fails is logged and degrades to an empty result
// for that level only.
func (e *Engine) GetDatabases(ctx context.Context, opts engine.DatabaseOptions) []metadata.Database {
	name, ok := e.GetDefaultDatabase(ctx)
	if !ok {
		return []metadata.Database{}
	}

	db := metadata.Database{
		Name:    name,
		Dialect: e.dialect,
		Schemas: []metadata.Schema{},
	}

	// details cost one query per table on this path
	includeSchemas := opts.IncludeSchemas.Resolve(true)
	includeTables := opts.IncludeTables.Resolve(true)
	includeDetails := opts.IncludeTableDetails.Resolve(false)

	if includeSchemas {
		for _, schemaName := range e.listSchemas(ctx) {
			schema := metadata.Schema{Name: schemaName, Tables: []metadata.DataTable{}}
			if includeTables {
				schema.Tables = e.listTables(ctx, schemaName, includeDetails)
			}
			db.Schemas = append(db.Schemas, schema)
		}
	}

	return []metadata.Database{db}
}

// listSchemas returns the schema names of the current database.
func (e *Engine) listSchemas(ctx context.Context) []string {
	switch e.dialect {
	case "postgres":
		return e.queryNames(ctx, `SELECT schema_name FROM information_schema.schemata
			WHERE schema_name NOT IN ('information_schema', 'pg_catalog') ORDER BY schema_name`)
	case "mysql":
		// mysql conflates schema and database; report the current one
		if name, ok := e.GetDefaultDatabase(ctx); ok {
			return []string{name}
		}
		return nil
	case "sqlite":
		return []string{"main"}
	default:
		return nil
	}
}

// listTables returns the tables and views of one schema.
func (e *Engine) listTables(ctx context.Context, schema string, includeDetails bool) []metadata.DataTable {
	var rows *sql.Rows
	var err error

	switch e.dialect {
	case "sqlite":
		rows, err = e.db.QueryContext(ctx,
			`SELECT name, type FROM sqlite_master WHERE type IN ('table', 'view') ORDER BY name`)
	case "postgres":
		rows, err = e.db.QueryContext(ctx,
			`SELECT table_name, table_type FROM information_schema.tables
			WHERE table_schema = $1 ORDER BY table_name`, schema)
	default:
		rows, err = e.db.QueryContext(ctx,
			`SELECT table_name, table_type FROM information_schema.tables
			WHERE table_schema = ? ORDER BY table_name`, schema)
	}
	if err != nil {
		e.logger.Warn("table listing failed", "schema", schema, "error", err)
		return []metadata.DataTable{}
	}
	defer func() { _ = rows.Close() }()

	tables := []metadata.DataTable{}
	for rows.Next() {
		var name, tableType string
		if err := rows.Scan(&name, &tableType); err != nil {
			e.logger.Warn("table row scan failed", "schema", schema, "error", err)
			continue
		}
		table := metadata.DataTable{
			Name:    name,
			Type:    tableTypeOf(tableType),
			Columns: []metadata.DataTableColumn{},
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		e.logger.Warn("table listing iteration failed", "schema", schema, "error", err)
	}

	if includeDetails {
		for i := range tables {
			cols := e.listColumns(ctx, schema, tables[i].Name)
			tables[i].Columns = cols
			n := len(cols)
			tables[i].NumColumns = &n
		}
	}

	return tables
}

// tableTypeOf maps backend table type strings onto the shared enum.
func tableTypeOf(t string) metadata.TableType {
	switch t {
	case "VIEW", "view":
		return metadata.TableTypeView
	default:
		return metadata.TableTypeTable
	}
}

// listColumns returns the column details of one table.
func (e *Engine) listColumns(ctx context.Context, schema, table string) []metadata.DataTableColumn {
	if e.dialect == "sqlite" {
		return e.listColumnsSQLite(ctx, table)
	}

	query := `SELECT column_name, data_type FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ? ORDER BY ordinal_position`
	if e.dialect == "postgres" {
		query = `SELECT column_name, data_type FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`
	}

	rows, err := e.db.QueryContext(ctx, query, schema, table)
	if err != nil {
		e.logger.Warn("column listing failed", "table", table, "error", err)
		return []metadata.DataTableColumn{}
	}
	defer func() { _ = rows.Close() }()

	return scanColumns(rows, e.logger, table)
}

// listColumnsSQLite reads column details from the table_info pragma.
func (e *Engine) listColumnsSQLite(ctx context.Context, table string) []metadata.DataTableColumn {
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		e.logger.Warn("column listing failed", "table", table, "error", err)
		return []metadata.DataTableColumn{}
	}
	defer func() { _ = rows.Close() }()

	cols := []metadata.DataTableColumn{}
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull int
		var dfltValue any
		var pk int
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			e.logger.Warn("column row scan failed", "table", table, "error", err)
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

// scanColumns reads (name, type) rows into column details.
func scanColumns(rows *sql.Rows, logger *slog.Logger, table string) []metadata.DataTableColumn {
	cols := []metadata.DataTableColumn{}
	for rows.Next() {
		var name, colType string
		if err := rows.Scan(&name, &colType); err != nil {
			logger.Warn("column row scan failed", "table", table, "error", err)
			continue
		}
		cols = append(cols, metadata.DataTableColumn{
			Name:         name,
			Type:         metadata.TypeFromString(colType),
			ExternalType: colType,
		})
	}
	if err := rows.Err(); err != nil {
		logger.Warn("column listing iteration failed", "table", table, "error", err)
	}
	return cols
}

// queryNames runs a query and collects its first column as strings.
func (e *Engine) queryNames(ctx context.Context, query string) []string {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		e.logger.Warn("name listing failed", "error", err)
		return nil
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		names = append(names, name)
	}
	return names
}
