package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ky489401/anki-canonical/internal/core"
	"github.com/ky489401/anki-canonical/pkg/filesystem"
)

func init() {
	rootCmd.AddCommand(diagnosticsCmd)
}

var diagnosticsCmd = &cobra.Command{
	Use:   "diagnostics",
	Short: "Check AnkiConnect and LLM availability",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		toolkit := core.CurrentToolkit()
		diagnostics := toolkit.RunDiagnostics(cmd.Context())
		content, err := json.MarshalIndent(diagnostics, "", "  ")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, string(content))

		dir := toolkit.Config.OutputDirectory
		if stats := filesystem.Stats(dir); stats.Exists {
			size, err := filesystem.DirSize(dir)
			if err != nil {
				core.CurrentLogger().Warnf("Unable to read %s: %v", dir, err)
			}
			fmt.Fprintf(out, "Output directory %s: %s\n", dir, filesystem.FormatFileSize(size))
		}

		fmt.Fprintln(out, "Available functions:")
		for _, function := range toolkit.AvailableFunctions() {
			fmt.Fprintf(out, "- %s\n", function)
		}
		return nil
	},
}
