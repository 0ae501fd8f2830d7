// FILE: stratacfg/strata/cmd/strata/main.go
package main

import "os"

var version = "dev"

func main() {
	if err := NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}
