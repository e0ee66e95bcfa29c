package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqldeps/pkg/sqlparse"
)

// NewRefsCommand creates the refs command.
func NewRefsCommand() *cobra.Command {
	var (
		dialectName string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "refs [file]",
		Short: "Extract table references from SQL",
		Long: `Parse SQL and list every table, view, and attached source it reads
from. Names that resolve to a CTE defined in the same statement are
excluded, and qualifiers matching the dialect defaults are elided.`,
		Example: `  # References of a SQL file, resolved with DuckDB defaults
  sqldeps refs query.sql

  # Read from stdin with PostgreSQL defaults
  cat query.sql | sqldeps refs --dialect postgres

  # Machine-readable output
  sqldeps refs query.sql --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readSQL(cmd, args)
			if err != nil {
				return err
			}

			refs := sqlparse.ExtractRefs(sql, sqlparse.GetDialect(dialectName))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(refs)
			}
			return renderRefs(cmd, refs)
		},
	}

	cmd.Flags().StringVar(&dialectName, "dialect", "duckdb", "SQL dialect (duckdb|postgres|mysql|sqlite|clickhouse)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func renderRefs(cmd *cobra.Command, refs []sqlparse.SourceRef) error {
	w := cmd.OutOrStdout()
	if len(refs) == 0 {
		_, _ = fmt.Fprintln(w, "(no references)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Catalog", "Schema", "Name"})
	for _, r := range refs {
		t.AppendRow(table.Row{r.Catalog, r.Schema, r.Name})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d references)\n", len(refs))
	return nil
}
