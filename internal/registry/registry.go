// Package registry turns opaque runtime values into engines. Backend
// client objects share no base type, so detection runs each candidate
// through a fixed-priority list of compatibility predicates and wraps
// the first match.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	chdriver "github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/leapstack-labs/sqldeps/pkg/engine"
	"github.com/leapstack-labs/sqldeps/pkg/engines/clickhouse"
	"github.com/leapstack-labs/sqldeps/pkg/engines/duckdb"
	"github.com/leapstack-labs/sqldeps/pkg/engines/sqldb"
	"github.com/leapstack-labs/sqldeps/pkg/metadata"
)

// NamedValue is a candidate runtime value together with its
// user-assigned name.
type NamedValue struct {
	Name  string
	Value any
}

// NamedEngine pairs a detected engine with the name of the value it
// wraps.
type NamedEngine struct {
	Name   string
	Engine engine.Engine
}

type detector struct {
	compatible func(any) bool
	build      func(any, *slog.Logger) (engine.Engine, error)
}

// Specialized engines run before the generic database/sql one so a
// native client is never downgraded to the generic wrapper.
var detectors = []detector{
	{
		compatible: clickhouse.Compatible,
		build: func(v any, logger *slog.Logger) (engine.Engine, error) {
			conn, ok := v.(chdriver.Conn)
			if !ok {
				return nil, fmt.Errorf("value is not a clickhouse connection")
			}
			return clickhouse.New(conn, logger), nil
		},
	},
	{
		compatible: sqldb.Compatible,
		build: func(v any, logger *slog.Logger) (engine.Engine, error) {
			db, ok := v.(*sql.DB)
			if !ok {
				return nil, fmt.Errorf("value is not a *sql.DB")
			}
			return sqldb.New(db, logger), nil
		},
	},
	{
		compatible: duckdb.Compatible,
		build: func(v any, logger *slog.Logger) (engine.Engine, error) {
			return duckdb.New(v, logger)
		},
	},
}

// DetectEngines wraps every compatible value in an engine. The first
// matching detector wins per value; incompatible values are skipped.
func DetectEngines(values []NamedValue, logger *slog.Logger) []NamedEngine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	engines := []NamedEngine{}
	for _, nv := range values {
		for _, d := range detectors {
			if !d.compatible(nv.Value) {
				continue
			}
			eng, err := d.build(nv.Value, logger)
			if err != nil {
				logger.Warn("engine construction failed", "name", nv.Name, "error", err)
				break
			}
			engines = append(engines, NamedEngine{Name: nv.Name, Engine: eng})
			break
		}
	}
	return engines
}

// ToConnection builds the descriptor consumers render for one engine.
// Engines without listing support contribute an empty database list.
func ToConnection(ctx context.Context, named NamedEngine, opts engine.DatabaseOptions, logger *slog.Logger) metadata.DataSourceConnection {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	conn := metadata.DataSourceConnection{
		Source:      named.Engine.Source(),
		Dialect:     named.Engine.Dialect(),
		Name:        named.Name,
		DisplayName: displayName(named),
		Databases:   []metadata.Database{},
	}

	lister, ok := named.Engine.(engine.DatabaseLister)
	if !ok {
		logger.Debug("engine does not support database listing", "name", named.Name)
		return conn
	}

	conn.Databases = lister.GetDatabases(ctx, opts)
	for i := range conn.Databases {
		conn.Databases[i].Engine = named.Name
	}
	return conn
}

// displayName labels the shared in-memory engine distinctly; named
// engines show their dialect and variable name.
func displayName(named NamedEngine) string {
	if named.Name == duckdb.InternalEngineName {
		return fmt.Sprintf("%s (In-Memory)", named.Engine.Dialect())
	}
	return fmt.Sprintf("%s (%s)", named.Engine.Dialect(), named.Name)
}
