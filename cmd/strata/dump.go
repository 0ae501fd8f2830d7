// FILE: stratacfg/strata/cmd/strata/dump.go
package main

import (
	"github.com/spf13/cobra"
)

// newDumpCommand creates the dump subcommand
func newDumpCommand(flags *sourceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the fully resolved configuration as TOML",
		Long: `Dump merges all sources, expands every placeholder and prints the result
as a TOML document. Resolution failures (cycles, unresolved references)
surface as errors, so dump doubles as a configuration check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.build()
			if err != nil {
				return err
			}
			return cfg.Dump(cmd.OutOrStdout())
		},
	}
}
