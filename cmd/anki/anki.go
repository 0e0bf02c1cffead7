package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ky489401/anki-canonical/internal/core"
)

var verboseInfo bool
var verboseDebug bool
var verboseTrace bool

var configPath string

var rootCmd = &cobra.Command{
	Use:   "anki",
	Short: "Anki helpers converting Markdown and LaTeX notes to flashcards",
	Long:  `Convert notes mixing Markdown and LaTeX math to HTML, parse Q&A files, build .apkg packages and talk to Anki through AnkiConnect.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configPath != "" {
			os.Setenv("ANKI_CONFIG", configPath)
			core.Reset()
		}

		// Enable verbose output. The most verbose level wins when multiple flags are passsed.
		if verboseInfo {
			core.CurrentLogger().SetVerboseLevel(core.VerboseInfo)
		}
		if verboseDebug {
			core.CurrentLogger().SetVerboseLevel(core.VerboseDebug)
		}
		if verboseTrace {
			core.CurrentLogger().SetVerboseLevel(core.VerboseTrace)
		}
	},
	SilenceUsage: true,
}

func init() {
	// Use PersistentFlags to make flags accessible to sub-commands
	rootCmd.PersistentFlags().BoolVarP(&verboseInfo, "v", "", false, "enable verbose info output")
	rootCmd.PersistentFlags().BoolVarP(&verboseDebug, "vv", "", false, "enable verbose debug output")
	rootCmd.PersistentFlags().BoolVarP(&verboseTrace, "vvv", "", false, "enable verbose trace output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default is ./"+core.DefaultConfigFile+")")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
