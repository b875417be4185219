package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "Print the tool contracts as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close(cmd.Context()) }()

		out, err := json.MarshalIndent(map[string]any{"tools": a.runtime.Registry().ListContracts()}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contractsCmd)
}
