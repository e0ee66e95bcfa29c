// Package clickhouse implements the engine abstraction over the native
// clickhouse-go connection. ClickHouse has no schema level between
// database and table, so every database reports a single unnamed
// schema. Listings come from SHOW DATABASES, system.tables, and
// DESCRIBE TABLE.
package clickhouse

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	chdriver "github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/leapstack-labs/sqldeps/pkg/engine"
	"github.com/leapstack-labs/sqldeps/pkg/metadata"
)

const dialectName = "clickhouse"

// skipped when listing: not user data
var systemDatabases = map[string]struct{}{
	"system":             {},
	"information_schema": {},
	"INFORMATION_SCHEMA": {},
}

// Engine wraps a native ClickHouse connection.
type Engine struct {
	conn   chdriver.Conn
	logger *slog.Logger
}

// New wraps an open native connection. A nil logger discards log output.
func New(conn chdriver.Conn, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{conn: conn, logger: logger}
}

// Compatible reports whether v is a native ClickHouse connection.
func Compatible(v any) bool {
	conn, ok := v.(chdriver.Conn)
	return ok && conn != nil
}

// Source identifies the backend family.
func (e *Engine) Source() string {
	return dialectName
}

// Dialect returns the SQL dialect for parsing queries.
func (e *Engine) Dialect() string {
	return dialectName
}

// Execute runs a query and returns its result. The native driver needs
// typed scan targets, so each cell is allocated from the column's scan
// type and dereferenced after the scan.
func (e *Engine) Execute(ctx context.Context, query string) (*engine.Result, error) {
	rows, err := e.conn.Query(ctx, query)
	if err != nil {
		return nil, &engine.QueryError{Query: query, Err: err}
	}
	defer rows.Close()

	columnTypes := rows.ColumnTypes()
	result := &engine.Result{Columns: rows.Columns()}

	for rows.Next() {
		ptrs := make([]any, len(columnTypes))
		for i, ct := range columnTypes {
			ptrs[i] = reflect.New(ct.ScanType()).Interface()
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &engine.QueryError{Query: query, Err: err}
		}
		values := make([]any, len(ptrs))
		for i, p := range ptrs {
			values[i] = reflect.ValueOf(p).Elem().Interface()
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, &engine.QueryError{Query: query, Err: err}
	}
	return result, nil
}

// GetDefaultDatabase reports the database a bare query runs against.
func (e *Engine) GetDefaultDatabase(ctx context.Context) (string, bool) {
	var name string
	if err := e.conn.QueryRow(ctx, "SELECT currentDatabase()").Scan(&name); err != nil {
		e.logger.Warn("clickhouse default database lookup failed", "error", err)
		return "", false
	}
	return name, true
}

// GetDatabases lists every non-system database. Table details cost one
// DESCRIBE per table, so auto resolves them off.
func (e *Engine) GetDatabases(ctx context.Context, opts engine.DatabaseOptions) []metadata.Database {
	includeTables := opts.IncludeTables.Resolve(true)
	includeDetails := opts.IncludeTableDetails.Resolve(false)

	databases := []metadata.Database{}
	for _, dbName := range e.listDatabases(ctx) {
		if _, skip := systemDatabases[dbName]; skip {
			continue
		}

		// no schema concept: one unnamed schema per database
		schema := metadata.Schema{Name: "", Tables: []metadata.DataTable{}}
		if includeTables {
			schema.Tables = e.listTables(ctx, dbName, includeDetails)
		}

		databases = append(databases, metadata.Database{
			Name:    dbName,
			Dialect: dialectName,
			Schemas: []metadata.Schema{schema},
		})
	}
	return databases
}

func (e *Engine) listDatabases(ctx context.Context) []string {
	rows, err := e.conn.Query(ctx, "SHOW DATABASES")
	if err != nil {
		e.logger.Warn("clickhouse database listing failed", "error", err)
		return nil
	}
	defer rows.Close()

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

// listTables reads system.tables for one database.
func (e *Engine) listTables(ctx context.Context, database string, includeDetails bool) []metadata.DataTable {
	rows, err := e.conn.Query(ctx,
		"SELECT name, engine, total_rows FROM system.tables WHERE database = ? ORDER BY name",
		database)
	if err != nil {
		e.logger.Warn("clickhouse table listing failed", "database", database, "error", err)
		return []metadata.DataTable{}
	}
	defer rows.Close()

	tables := []metadata.DataTable{}
	for rows.Next() {
		var name, tableEngine string
		var totalRows *uint64
		if err := rows.Scan(&name, &tableEngine, &totalRows); err != nil {
			e.logger.Warn("clickhouse table scan failed", "database", database, "error", err)
			continue
		}
		table := metadata.DataTable{
			Name:    name,
			Type:    tableTypeOf(tableEngine),
			Columns: []metadata.DataTableColumn{},
		}
		if totalRows != nil {
			n := int64(*totalRows)
			table.NumRows = &n
		}
		tables = append(tables, table)
	}

	if includeDetails {
		for i := range tables {
			cols := e.describeTable(ctx, database, tables[i].Name)
			tables[i].Columns = cols
			n := len(cols)
			tables[i].NumColumns = &n
		}
	}

	return tables
}

// tableTypeOf maps a ClickHouse table engine onto the shared enum.
func tableTypeOf(tableEngine string) metadata.TableType {
	switch tableEngine {
	case "View", "MaterializedView", "LiveView":
		return metadata.TableTypeView
	default:
		return metadata.TableTypeTable
	}
}

// describeTable reads column names and types via DESCRIBE TABLE.
func (e *Engine) describeTable(ctx context.Context, database, table string) []metadata.DataTableColumn {
	query := fmt.Sprintf("DESCRIBE TABLE `%s`.`%s`", database, table)
	rows, err := e.conn.Query(ctx, query)
	if err != nil {
		e.logger.Warn("clickhouse describe failed", "table", table, "error", err)
		return []metadata.DataTableColumn{}
	}
	defer rows.Close()

	// DESCRIBE returns more columns than we need; scan the first two
	// and discard the rest
	scanWidth := len(rows.Columns())

	cols := []metadata.DataTableColumn{}
	for rows.Next() {
		ptrs := make([]any, scanWidth)
		var name, colType string
		ptrs[0] = &name
		ptrs[1] = &colType
		for i := 2; i < scanWidth; i++ {
			var discard string
			ptrs[i] = &discard
		}
		if err := rows.Scan(ptrs...); err != nil {
			e.logger.Warn("clickhouse describe scan failed", "table", table, "error", err)
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
