package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ky489401/anki-canonical/internal/ankiconnect"
	"github.com/ky489401/anki-canonical/internal/core"
	"github.com/ky489401/anki-canonical/internal/llm"
	"github.com/ky489401/anki-canonical/internal/qa"
	"github.com/ky489401/anki-canonical/pkg/markdown"
)

var summarizeBatchSize int
var rankField string

func init() {
	summarizeCmd.Flags().IntVar(&summarizeBatchSize, "batch-size", 10, "number of cards per batch")
	rankCmd.Flags().StringVar(&rankField, "field", "Front", "field containing the card title")
	rootCmd.AddCommand(enhanceCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(rankCmd)
}

var enhanceCmd = &cobra.Command{
	Use:   "enhance QA_FILE",
	Short: "Rewrite Q&A pairs with clearer questions using an LLM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, err := qa.ParseFile(args[0])
		if err != nil {
			return err
		}
		enhanced, err := core.CurrentToolkit().Assistant.EnhanceQA(cmd.Context(), pairs)
		if err != nil {
			return err
		}
		result := make([]qa.Pair, len(enhanced))
		for i, pair := range enhanced {
			if pair.Err != nil {
				core.CurrentLogger().Warnf("Keeping %q: %v", pair.Original.Question, pair.Err)
			}
			result[i] = pair.Enhanced
		}
		return printJSON(cmd, result)
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize QUERY",
	Short: "Summarize the cards matching a search query using an LLM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries, err := core.CurrentToolkit().SummarizeCards(cmd.Context(), args[0], summarizeBatchSize)
		if err != nil {
			return err
		}
		return printJSON(cmd, summaries)
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank QUERY",
	Short: "Order the cards matching a search query and flag duplicates using an LLM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolkit := core.CurrentToolkit()
		if toolkit.Assistant == nil {
			return llm.ErrNoModel
		}
		table, err := toolkit.Anki.LoadQuery(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		titles := table.Column(rankField)
		if titles == nil {
			return fmt.Errorf("unknown field %q (available: %s)", rankField, strings.Join(table.Columns, ", "))
		}
		numbers := table.Column(ankiconnect.CardNumberColumn)
		var lines []string
		for i, title := range titles {
			lines = append(lines, fmt.Sprintf("%s: %s", numbers[i], markdown.HTMLToText(title)))
		}

		ranking, err := toolkit.Assistant.RankCards(cmd.Context(), strings.Join(lines, "\n"))
		if err != nil {
			return err
		}
		return printJSON(cmd, ranking)
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(content))
	return nil
}
