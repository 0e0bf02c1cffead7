package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ky489401/anki-canonical/internal/apkg"
	"github.com/ky489401/anki-canonical/internal/core"
	"github.com/ky489401/anki-canonical/pkg/filesystem"
)

var generateTopic string
var generateOutputDir string

func init() {
	generateCmd.Flags().StringVar(&generateTopic, "topic", "", "topic of the syllabus")
	generateCmd.Flags().StringVarP(&generateOutputDir, "output", "o", "", "output directory (default from configuration)")
	generateCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate SYLLABUS",
	Short: "Generate a deck from a syllabus using an LLM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolkit := core.CurrentToolkit()
		if toolkit.Assistant == nil {
			return errors.New("no LLM configured (set OPENAI_API_KEY)")
		}
		syllabus, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		pairs, err := toolkit.GenerateFromSyllabus(cmd.Context(), string(syllabus), generateTopic)
		if err != nil {
			return err
		}
		if len(pairs) == 0 {
			return errors.New("no Q&A pairs generated")
		}

		dir := generateOutputDir
		if dir == "" {
			dir = toolkit.Config.OutputDirectory
		}
		if _, err := filesystem.SetupOutputDirectory(dir); err != nil {
			return err
		}
		deck := toolkit.CreateDeck(generateTopic, pairs)
		stats := apkg.DeckStatistics(deck)
		path, err := apkg.NewPackage(deck).WriteToFile(core.GeneratedPackagePath(dir, generateTopic))
		if err != nil {
			return err
		}
		core.CurrentLogger().LogOperation("Generate", fmt.Sprintf("%s (%d cards)", path, stats.TotalNotes), true)
		return nil
	},
}
