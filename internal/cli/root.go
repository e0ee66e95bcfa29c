// Package cli provides the sqldeps command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqldeps/internal/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqldeps",
		Short: "sqldeps - SQL dependency extraction and catalog introspection",
		Long: `sqldeps extracts table references and object definitions from SQL text
and introspects the catalogs of connected databases.

The refs and defs commands parse SQL from a file or stdin. The
databases command connects to the target configured in sqldeps.yaml
and prints its catalog tree.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sqldeps.yaml)")

	rootCmd.AddCommand(NewRefsCommand())
	rootCmd.AddCommand(NewDefsCommand())
	rootCmd.AddCommand(NewDatabasesCommand())
	rootCmd.AddCommand(NewQueryCommand())
	rootCmd.AddCommand(NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sqldeps v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "build date: %s, commit: %s\n", BuildDate, GitCommit)
		},
	}
}

// loadConfig resolves the active configuration: the --config flag when
// given, otherwise sqldeps.yaml in the working directory.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromDir(".")
}

// readSQL reads the SQL input for refs and defs: the named file, or
// stdin when no file argument is given.
func readSQL(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
