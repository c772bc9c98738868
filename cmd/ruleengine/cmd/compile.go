package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	ruleengine "github.com/DamacloidTechnology/test-rule"
)

var compileOut string

var compileCmd = &cobra.Command{
	Use:   "compile <source.rules>",
	Short: "compile a rule source file to a bytecode file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		applyLogLevel()
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		engine, err := ruleengine.FromSource(string(src))
		if err != nil {
			logrus.WithError(err).Error("compile failed")
			return err
		}
		bc, err := engine.ToBytecode()
		if err != nil {
			return err
		}
		if compileOut == "" {
			compileOut = args[0] + ".bc"
		}
		if err := os.WriteFile(compileOut, bc, 0o644); err != nil {
			return err
		}
		logrus.WithField("out", compileOut).Info("compiled bytecode written")
		return nil
	},
}

func init() {
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "", "output bytecode path (default: <source>.bc)")
	rootCmd.AddCommand(compileCmd)
}
