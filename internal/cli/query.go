package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqldeps/pkg/engine"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a SQL query against the configured target",
		Example: `  # Query the in-memory default engine
  sqldeps query "SELECT 42 AS answer"

  # Query the configured target
  sqldeps query "SELECT * FROM users LIMIT 10"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger := newLogger(verbose)
			named, cleanup, err := openTarget(cfg.Target, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := named.Engine.Execute(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return renderResult(cmd, result)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

func renderResult(cmd *cobra.Command, result *engine.Result) error {
	w := cmd.OutOrStdout()
	if len(result.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range result.Rows {
		out := make(table.Row, len(row))
		for i, v := range row {
			out[i] = formatValue(v)
		}
		t.AppendRow(out)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(result.Rows))
	return nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
