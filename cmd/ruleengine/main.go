// Command ruleengine is a host-side example driver: it is not part of
// the engine's core and exists to exercise validate/compile/run/inspect
// against a DSL source file or a compiled bytecode file from a shell.
package main

import (
	"os"

	"github.com/DamacloidTechnology/test-rule/cmd/ruleengine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
