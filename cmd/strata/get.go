// FILE: stratacfg/strata/cmd/strata/get.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newGetCommand creates the get subcommand
func newGetCommand(flags *sourceFlags) *cobra.Command {
	var asType string
	var origin bool

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Resolve one key and print its value",
		Long: `Get resolves a key against the layered sources: highest-priority value
wins, placeholders expand, and the result coerces to the requested type.

Example:
  strata get db.url --file config.toml
  strata get server.port --file config.toml --as int
  strata get timeout --set timeout=2m --as duration`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.build()
			if err != nil {
				return err
			}
			key := args[0]

			var value any
			switch asType {
			case "string":
				value, err = cfg.GetString(key)
			case "int":
				value, err = cfg.GetInt(key)
			case "int64":
				value, err = cfg.GetInt64(key)
			case "uint64":
				value, err = cfg.GetUint64(key)
			case "float":
				value, err = cfg.GetFloat64(key)
			case "bool":
				value, err = cfg.GetBool(key)
			case "duration":
				value, err = cfg.GetDuration(key)
			case "strings":
				var ss []string
				ss, err = cfg.GetStringSlice(key)
				value = strings.Join(ss, "\n")
			case "ints":
				var ns []int
				ns, err = cfg.GetIntSlice(key)
				value = strings.Trim(fmt.Sprint(ns), "[]")
			default:
				return fmt.Errorf("unknown --as type %q", asType)
			}
			if err != nil {
				return err
			}

			if origin {
				src, _ := cfg.Origin(key)
				fmt.Fprintf(cmd.OutOrStdout(), "%v\t(%s)\n", value, src)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", value)
			return nil
		},
	}

	cmd.Flags().StringVar(&asType, "as", "string", "target type: string|int|int64|uint64|float|bool|duration|strings|ints")
	cmd.Flags().BoolVar(&origin, "origin", false, "also print the source supplying the value")
	return cmd
}
