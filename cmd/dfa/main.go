// Package main implements the dfa CLI.
// It loads IR documents and runs constant propagation and dead-code
// detection over their methods.
package main

import (
	"os"

	"github.com/l3aro/go-dataflow/cmd/dfa/commands"
)

var version = "dev"

func main() {
	commands.RootCmd.SetVersionTemplate(`dfa version {{.Version}}
`)
	commands.RootCmd.Version = version

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
