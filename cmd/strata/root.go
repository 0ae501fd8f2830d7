// FILE: stratacfg/strata/cmd/strata/root.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stratacfg/strata"
)

// sourceFlags carries the source-assembly flags shared by every subcommand.
type sourceFlags struct {
	files         []string
	optionalFiles []string
	envPrefix     string
	sets          []string
	random        bool
	profile       string
}

// build assembles the layered Config from the flag values, strongest layer
// first: --set overrides, random, environment, files.
func (f *sourceFlags) build() (*strata.Config, error) {
	b := strata.NewBuilder()
	for _, kv := range f.sets {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, want key=value", kv)
		}
		b.Set(k, v)
	}
	if f.random {
		b.WithRandom()
	}
	if f.envPrefix != "" {
		b.WithEnvPrefix(f.envPrefix)
	}
	if f.profile != "" {
		b.WithProfile(f.profile)
	}
	for _, p := range f.files {
		b.WithFile(p)
	}
	for _, p := range f.optionalFiles {
		b.WithOptionalFile(p)
	}
	return b.Build()
}

func NewRootCommand(version string) *cobra.Command {
	flags := &sourceFlags{}

	rootCmd := &cobra.Command{
		Use:   "strata",
		Short: "Layered configuration resolver",
		Long: `strata resolves configuration across layered sources: explicit overrides,
environment variables, TOML/YAML/JSON/INI files and embedded defaults, with
${key:default} placeholder expansion across all of them.

Example:
  strata get db.url --file config.toml --env-prefix MYAPP
  strata keys --file config.toml --origin
  strata watch server.addr --file config.toml`,
		Version:      version,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringArrayVar(&flags.files, "file", nil, "configuration file (repeatable, earlier wins)")
	pf.StringArrayVar(&flags.optionalFiles, "optional-file", nil, "configuration file that may not exist (repeatable)")
	pf.StringVar(&flags.envPrefix, "env-prefix", "", "environment variable prefix (MYAPP maps MYAPP_A_B to a.b)")
	pf.StringArrayVar(&flags.sets, "set", nil, "explicit override key=value (repeatable, strongest layer)")
	pf.BoolVar(&flags.random, "random", false, "enable the random.* value namespace")
	pf.StringVar(&flags.profile, "profile", "", "layer <file>-<profile>.<ext> variants above each file")

	rootCmd.AddCommand(
		newGetCommand(flags),
		newKeysCommand(flags),
		newDumpCommand(flags),
		newWatchCommand(flags),
	)

	return rootCmd
}
