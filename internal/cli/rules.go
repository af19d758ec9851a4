package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the active admission rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		for i, rule := range a.pipeline.ListRules() {
			fmt.Printf("%2d. %s\n", i+1, rule)
		}
		return nil
	},
}
