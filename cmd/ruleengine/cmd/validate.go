package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	ruleengine "github.com/DamacloidTechnology/test-rule"
)

var validateCmd = &cobra.Command{
	Use:   "validate <source.rules>",
	Short: "compile a rule source file without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		applyLogLevel()
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := ruleengine.Validate(string(src)); err != nil {
			logrus.WithError(err).Error("validation failed")
			return err
		}
		fmt.Println("ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
