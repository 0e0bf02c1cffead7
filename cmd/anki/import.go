package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ky489401/anki-canonical/internal/core"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import DIR",
	Short: "Import all .apkg packages of a directory into Anki",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolkit := core.CurrentToolkit()
		if !toolkit.ValidateAnkiConnect(cmd.Context()) {
			return fmt.Errorf("AnkiConnect is not reachable at %s", toolkit.Anki.BaseURL())
		}
		report, err := toolkit.BatchImportPackages(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d imported, %d failed, %d skipped\n", len(report.Imported), len(report.Failed), len(report.Skipped))
		if len(report.Failed) > 0 {
			return fmt.Errorf("%d package(s) failed to import", len(report.Failed))
		}
		return nil
	},
}
