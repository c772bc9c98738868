package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ruleengine "github.com/DamacloidTechnology/test-rule"
)

// runInput is the on-disk JSON shape for the `run` subcommand's input
// file: plain JSON objects for the transaction and profile fields.
type runInput struct {
	Transaction map[string]ruleengine.Value `json:"transaction"`
	Profile     map[string]ruleengine.Value `json:"profile"`
}

var runCmd = &cobra.Command{
	Use:   "run <bytecode> <input.json>",
	Short: "execute a compiled bytecode file against a JSON transaction/profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		applyLogLevel()
		bc, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		engine, err := ruleengine.FromBytecode(bc)
		if err != nil {
			return err
		}

		inputData, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		var input runInput
		if err := json.Unmarshal(inputData, &input); err != nil {
			return err
		}

		result := engine.Execute(
			ruleengine.NewTransaction(input.Transaction),
			ruleengine.NewUserProfile(input.Profile),
		)

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
