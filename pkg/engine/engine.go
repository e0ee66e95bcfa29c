// Package engine defines the abstraction shared by every database
// backend: a minimal execution interface plus optional introspection
// capabilities discovered at runtime by type assertion. Backend client
// objects come from independent driver libraries with no common base
// type, so anything beyond Execute is a capability, not a requirement.
package engine

import (
	"context"

	"github.com/leapstack-labs/sqldeps/pkg/metadata"
)

// Engine is the minimal contract every backend implements.
type Engine interface {
	// Source identifies the backend family, e.g. "duckdb" or "clickhouse".
	Source() string

	// Dialect identifies the SQL dialect used to parse queries against
	// this engine.
	Dialect() string

	// Execute runs a query and returns its tabular result. Unlike
	// introspection, execution failures propagate to the caller.
	Execute(ctx context.Context, query string) (*Result, error)
}

// DatabaseLister is implemented by engines that can enumerate their
// databases, schemas, and tables. Listing degrades rather than fails:
// sub-queries that error are logged and contribute empty results.
type DatabaseLister interface {
	GetDatabases(ctx context.Context, opts DatabaseOptions) []metadata.Database
}

// DefaultDatabaseProvider is implemented by engines that know which
// database a bare query runs against.
type DefaultDatabaseProvider interface {
	GetDefaultDatabase(ctx context.Context) (string, bool)
}

// Result is a tabular query result.
type Result struct {
	Columns []string
	Rows    [][]any
}

// DatabaseOptions controls how much work GetDatabases does. Each
// toggle may defer to the engine's own cost heuristic.
type DatabaseOptions struct {
	IncludeSchemas      Toggle
	IncludeTables       Toggle
	IncludeTableDetails Toggle
}
