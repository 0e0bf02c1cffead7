package main

import (
	"github.com/spf13/cobra"

	"github.com/ky489401/anki-canonical/internal/core"
	"github.com/ky489401/anki-canonical/pkg/filesystem"
)

var buildDeckName string
var buildOutput string
var buildBackup bool
var buildOptions core.DeckOptions

func init() {
	buildCmd.Flags().StringVarP(&buildDeckName, "deck", "d", "", "deck name (default from configuration)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "package file (default is the deck name with underscores)")
	buildCmd.Flags().BoolVar(&buildBackup, "backup", false, "back up an existing package before overwriting it")
	buildCmd.Flags().BoolVar(&buildOptions.Cloze, "cloze", false, "create cloze notes hiding each answer")
	buildCmd.Flags().BoolVar(&buildOptions.Render, "render", false, "convert questions and answers from Markdown with LaTeX math to HTML")
	buildCmd.Flags().BoolVar(&buildOptions.ForAnki, "for-anki", false, "adapt math, images and line breaks to the Anki card renderer")
	buildCmd.Flags().StringSliceVarP(&buildOptions.Tags, "tag", "t", nil, "tag added to every note")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build QA_FILE",
	Short: "Build an .apkg package from a Q&A file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolkit := core.CurrentToolkit()
		deckName := buildDeckName
		if deckName == "" {
			deckName = toolkit.Config.DefaultDeckName
		}
		output := buildOutput
		if output == "" {
			output = core.DefaultPackagePath(deckName)
		}

		if buildBackup && filesystem.Stats(output).Exists {
			backup, err := filesystem.BackupFile(output)
			if err != nil {
				return err
			}
			core.CurrentLogger().LogOperation("Backup", backup, true)
		}

		path, err := toolkit.CreateDeckFromQAFile(args[0], deckName, output, buildOptions)
		if err != nil {
			return err
		}
		core.CurrentLogger().Infof("%s: %s", path, filesystem.FormatFileSize(filesystem.Stats(path).SizeBytes))
		return nil
	},
}
