package cmd

import (
	"os"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	ruleengine "github.com/DamacloidTechnology/test-rule"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <source.rules|bytecode.bc>",
	Short: "print rule metadata and known function names for a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		applyLogLevel()
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var engine *ruleengine.Engine
		if strings.HasSuffix(args[0], ".bc") {
			engine, err = ruleengine.FromBytecode(data)
		} else {
			engine, err = ruleengine.FromSource(string(data))
		}
		if err != nil {
			return err
		}

		repr.Println(engine.RulesMetadata())
		repr.Println(engine.Functions())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
