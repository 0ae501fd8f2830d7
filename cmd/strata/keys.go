// FILE: stratacfg/strata/cmd/strata/keys.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newKeysCommand creates the keys subcommand
func newKeysCommand(flags *sourceFlags) *cobra.Command {
	var origin bool

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List all keys across the layered sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.build()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range cfg.Keys() {
				if origin {
					src, _ := cfg.Origin(key)
					fmt.Fprintf(out, "%s\t(%s)\n", key, src)
					continue
				}
				fmt.Fprintln(out, key)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&origin, "origin", false, "include the source supplying each key")
	return cmd
}
