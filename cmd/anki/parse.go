package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ky489401/anki-canonical/internal/core"
	"github.com/ky489401/anki-canonical/internal/qa"
	"github.com/ky489401/anki-canonical/pkg/text"
)

var parseFormat string
var parseValidate bool
var parseStats bool

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "json", "output format (json, yaml or tsv)")
	parseCmd.Flags().BoolVar(&parseValidate, "validate", false, "clean pairs and drop short or duplicated ones")
	parseCmd.Flags().BoolVar(&parseStats, "stats", false, "print statistics instead of the pairs")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Extract Q&A pairs from text, Markdown, CSV, JSON or YAML files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := qa.BatchParseFiles(cmd.Context(), args)
		for _, result := range results {
			if result.Err != nil {
				core.CurrentLogger().Warnf("Error parsing %s: %v", result.Path, result.Err)
				continue
			}
			core.CurrentLogger().Infof("Parsed %d pair(s) from %s", len(result.Pairs), result.Path)
		}
		pairs := qa.Pairs(results)
		if parseValidate {
			pairs = qa.ValidatePairs(pairs)
		}

		if parseStats {
			printStats(cmd, pairs)
			return nil
		}

		switch parseFormat {
		case "json":
			content, err := json.MarshalIndent(pairs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(content))
		case "yaml":
			content, err := yaml.Marshal(pairs)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(content))
		case "tsv":
			// Same layout as the Anki text export
			for _, pair := range pairs {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join([]string{oneLine(pair.Question), oneLine(pair.Answer), pair.Tags}, "\t"))
			}
		default:
			return fmt.Errorf("unknown format %q", parseFormat)
		}
		return nil
	},
}

func oneLine(s string) string {
	return strings.NewReplacer("\t", " ", "\n", "<br>").Replace(s)
}

func printStats(cmd *cobra.Command, pairs []qa.Pair) {
	var questions []string
	words, characters := 0, 0
	for _, pair := range pairs {
		questions = append(questions, pair.Question)
		words += text.CountWords(pair.Question) + text.CountWords(pair.Answer)
		characters += text.CountCharacters(pair.Question, false) + text.CountCharacters(pair.Answer, false)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Pairs: %d\n", len(pairs))
	fmt.Fprintf(out, "Words: %d\n", words)
	fmt.Fprintf(out, "Characters (without spaces): %d\n", characters)
	duplicates := text.FindDuplicates(questions)
	fmt.Fprintf(out, "Duplicated questions: %d\n", len(duplicates))
	for _, question := range duplicates {
		fmt.Fprintf(out, "- %s\n", question)
	}
}
