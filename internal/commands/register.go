// Package commands contains the command line definitions.
package commands

import (
	"github.com/spf13/cobra"
)

// DefaultConfigFile is read by generate when no --config is given and the
// file exists in the working directory. init writes it.
const DefaultConfigFile = "gqlcodegen.yaml"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gqlcodegen",
		Short: "Generate Go models and resolver APIs from GraphQL schema files",
		Long: `gqlcodegen reads GraphQL SDL files and writes Go sources: a struct per
object and input type, a string type per enum, an interface per interface
and union, and one API interface per root operation type.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
