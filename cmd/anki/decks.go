package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ky489401/anki-canonical/internal/core"
	"github.com/ky489401/anki-canonical/pkg/markdown"
)

var queryFormat string
var queryMarkdown bool

func init() {
	queryCmd.Flags().StringVar(&queryFormat, "format", "table", "output format (table or json)")
	queryCmd.Flags().BoolVar(&queryMarkdown, "markdown", false, "convert field values from HTML to Markdown")
	rootCmd.AddCommand(decksCmd)
	rootCmd.AddCommand(queryCmd)
}

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List the decks present in Anki",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := core.CurrentToolkit().Anki.DeckNames(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query QUERY",
	Short: `Print the cards matching a search query (ex: deck:"My Deck")`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := core.CurrentToolkit().Anki.LoadQuery(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		core.CurrentLogger().Infof("Loaded %d cards from Anki", table.Len())
		if queryMarkdown {
			for _, row := range table.Rows {
				for i := range row {
					if md, err := markdown.FromHTML(row[i]); err == nil {
						row[i] = md
					}
				}
			}
		}

		if queryFormat == "json" {
			content, err := json.MarshalIndent(table.Records(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(content))
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, strings.Join(table.Columns, "\t"))
		for _, row := range table.Rows {
			values := make([]string, len(row))
			for i, value := range row {
				values[i] = strings.ReplaceAll(value, "\n", " ")
			}
			fmt.Fprintln(w, strings.Join(values, "\t"))
		}
		return w.Flush()
	},
}
