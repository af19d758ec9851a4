package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/stablegate/internal/replay"
)

var replayLimit int

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().IntVar(&replayLimit, "limit", 1000, "Maximum settlement rows to verify")
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-derive seals for recorded settlements and report mismatches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := replay.Verify(a.store, a.sealer, replayLimit)
		if err != nil {
			return err
		}
		fmt.Println(report.String())
		for _, m := range report.Mismatches {
			fmt.Fprintf(os.Stderr, "mismatch %s (%s): recorded %s, expected %s\n", m.Key, m.RecordID, m.Recorded, m.Expected)
		}
		if !report.OK() {
			os.Exit(1)
		}
		return nil
	},
}
