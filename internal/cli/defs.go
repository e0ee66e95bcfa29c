package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqldeps/pkg/sqlparse"
)

// NewDefsCommand creates the defs command.
func NewDefsCommand() *cobra.Command {
	var (
		dialectName string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "defs [file]",
		Short: "Extract object definitions from SQL DDL",
		Long: `Parse SQL and list the tables, views, schemas, and catalogs its DDL
statements create, along with the schemas and catalogs those
definitions live in.`,
		Example: `  # Definitions of a migration file
  sqldeps defs schema.sql

  # Read from stdin
  cat schema.sql | sqldeps defs --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readSQL(cmd, args)
			if err != nil {
				return err
			}

			defs := sqlparse.ExtractDefs(sql, sqlparse.GetDialect(dialectName))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(defs)
			}
			return renderDefs(cmd, defs)
		},
	}

	cmd.Flags().StringVar(&dialectName, "dialect", "duckdb", "SQL dialect (duckdb|postgres|mysql|sqlite|clickhouse)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func renderDefs(cmd *cobra.Command, defs *sqlparse.Definitions) error {
	w := cmd.OutOrStdout()
	if defs.Empty() {
		_, _ = fmt.Fprintln(w, "(no definitions)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Names"})
	appendDefRow(t, "tables", defs.Tables)
	appendDefRow(t, "views", defs.Views)
	appendDefRow(t, "schemas", defs.Schemas)
	appendDefRow(t, "catalogs", defs.Catalogs)
	appendDefRow(t, "referenced schemas", defs.ReferencedSchemas)
	appendDefRow(t, "referenced catalogs", defs.ReferencedCatalogs)
	t.Render()
	return nil
}

func appendDefRow(t table.Writer, kind string, names []string) {
	if len(names) == 0 {
		return
	}
	t.AppendRow(table.Row{kind, strings.Join(names, ", ")})
}
