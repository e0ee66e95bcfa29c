package cli

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	ch "github.com/ClickHouse/clickhouse-go/v2"

	"github.com/leapstack-labs/sqldeps/internal/config"
	"github.com/leapstack-labs/sqldeps/internal/registry"
	"github.com/leapstack-labs/sqldeps/pkg/engines/clickhouse"
	"github.com/leapstack-labs/sqldeps/pkg/engines/duckdb"
	"github.com/leapstack-labs/sqldeps/pkg/engines/sqldb"
)

// openTarget opens the configured target database and wraps it in an
// engine. A nil target or an empty duckdb target yields the shared
// in-memory engine. The returned cleanup closes the connection.
func openTarget(target *config.TargetConfig, logger *slog.Logger) (registry.NamedEngine, func(), error) {
	noop := func() {}

	if target == nil || (target.Type == "" && target.Path == "" && target.DSN == "") {
		eng, err := duckdb.Internal(logger)
		if err != nil {
			return registry.NamedEngine{}, noop, err
		}
		return registry.NamedEngine{Name: duckdb.InternalEngineName, Engine: eng}, noop, nil
	}

	switch target.Type {
	case "duckdb", "":
		if target.Path == "" {
			eng, err := duckdb.Internal(logger)
			if err != nil {
				return registry.NamedEngine{}, noop, err
			}
			return registry.NamedEngine{Name: duckdb.InternalEngineName, Engine: eng}, noop, nil
		}
		db, err := sql.Open("duckdb", target.Path)
		if err != nil {
			return registry.NamedEngine{}, noop, fmt.Errorf("open duckdb %s: %w", target.Path, err)
		}
		eng, err := duckdb.New(db, logger)
		if err != nil {
			_ = db.Close()
			return registry.NamedEngine{}, noop, err
		}
		return registry.NamedEngine{Name: "duckdb", Engine: eng}, func() { _ = db.Close() }, nil

	case "sqlite":
		return openSQL(target.Type, "sqlite", target.Path, logger)

	case "postgres", "postgresql":
		return openSQL("postgres", "pgx", target.DSN, logger)

	case "mysql":
		return openSQL(target.Type, "mysql", target.DSN, logger)

	case "clickhouse":
		opts, err := ch.ParseDSN(target.DSN)
		if err != nil {
			return registry.NamedEngine{}, noop, fmt.Errorf("parse clickhouse dsn: %w", err)
		}
		conn, err := ch.Open(opts)
		if err != nil {
			return registry.NamedEngine{}, noop, fmt.Errorf("open clickhouse: %w", err)
		}
		eng := clickhouse.New(conn, logger)
		return registry.NamedEngine{Name: "clickhouse", Engine: eng}, func() { _ = conn.Close() }, nil

	default:
		return registry.NamedEngine{}, noop, fmt.Errorf("unsupported target type %q", target.Type)
	}
}

func openSQL(name, driver, dsn string, logger *slog.Logger) (registry.NamedEngine, func(), error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return registry.NamedEngine{}, func() {}, fmt.Errorf("open %s: %w", name, err)
	}
	eng := sqldb.New(db, logger)
	return registry.NamedEngine{Name: name, Engine: eng}, func() { _ = db.Close() }, nil
}

// newLogger returns the CLI logger, writing warnings and errors to
// stderr.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
