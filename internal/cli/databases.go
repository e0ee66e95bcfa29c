package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqldeps/internal/registry"
	"github.com/leapstack-labs/sqldeps/pkg/engine"
	"github.com/leapstack-labs/sqldeps/pkg/metadata"
)

// NewDatabasesCommand creates the databases command.
func NewDatabasesCommand() *cobra.Command {
	var (
		tablesFlag  string
		detailsFlag string
		asJSON      bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "databases",
		Short: "Introspect the configured target database",
		Long: `Connect to the target configured in sqldeps.yaml and print its
catalog tree: databases, schemas, tables, and optionally columns.

Without a configured target an in-memory DuckDB instance is used.`,
		Example: `  # Catalog tree of the configured target
  sqldeps databases

  # Include per-table columns
  sqldeps databases --details true

  # Machine-readable output
  sqldeps databases --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			opts := cfg.Datasources.Options()
			if tablesFlag != "" {
				t, err := engine.ParseToggle(tablesFlag)
				if err != nil {
					return fmt.Errorf("--tables: %w", err)
				}
				opts.IncludeTables = t
			}
			if detailsFlag != "" {
				t, err := engine.ParseToggle(detailsFlag)
				if err != nil {
					return fmt.Errorf("--details: %w", err)
				}
				opts.IncludeTableDetails = t
			}

			logger := newLogger(verbose)
			named, cleanup, err := openTarget(cfg.Target, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			conn := registry.ToConnection(cmd.Context(), named, opts, logger)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(conn)
			}
			return renderConnection(cmd, conn)
		},
	}

	cmd.Flags().StringVar(&tablesFlag, "tables", "", "Include tables (true|false|auto)")
	cmd.Flags().StringVar(&detailsFlag, "details", "", "Include table columns (true|false|auto)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

func renderConnection(cmd *cobra.Command, conn metadata.DataSourceConnection) error {
	w := cmd.OutOrStdout()

	l := list.NewWriter()
	l.SetOutputMirror(w)
	l.SetStyle(list.StyleConnectedLight)

	l.AppendItem(conn.DisplayName)
	l.Indent()
	for _, db := range conn.Databases {
		l.AppendItem(db.Name)
		l.Indent()
		for _, schema := range db.Schemas {
			if schema.Name != "" {
				l.AppendItem(schema.Name)
				l.Indent()
			}
			for _, table := range schema.Tables {
				l.AppendItem(describeTable(table))
				if len(table.Columns) > 0 {
					l.Indent()
					for _, col := range table.Columns {
						l.AppendItem(fmt.Sprintf("%s: %s (%s)", col.Name, col.Type, col.ExternalType))
					}
					l.UnIndent()
				}
			}
			if schema.Name != "" {
				l.UnIndent()
			}
		}
		l.UnIndent()
	}
	l.UnIndent()

	l.Render()
	return nil
}

func describeTable(t metadata.DataTable) string {
	s := fmt.Sprintf("%s [%s]", t.Name, t.Type)
	if t.NumRows != nil {
		s += fmt.Sprintf(" %d rows", *t.NumRows)
	}
	return s
}
