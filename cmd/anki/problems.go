package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ky489401/anki-canonical/internal/qa"
)

var problemsChapter int
var problemsSkipExtras bool

func init() {
	problemsCmd.Flags().IntVar(&problemsChapter, "chapter", 1, "number of the first chapter")
	problemsCmd.Flags().BoolVar(&problemsSkipExtras, "skip-extras", false, `ignore problems mentioning "extra"`)
	rootCmd.AddCommand(problemsCmd)
}

var problemsCmd = &cobra.Command{
	Use:   "problems FILE",
	Short: "List the exercises of a LaTeX or text file as Q&A pairs (tab-separated)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		problems := qa.AssignChapters(qa.GetProblems(string(content)), problemsChapter)
		for _, problem := range problems {
			text := strings.TrimSpace(problem.Content)
			if problemsSkipExtras && len(qa.FilterExtras([]string{text})) == 0 {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Problem %s\t%s\n", problem.ID, oneLine(text))
		}
		return nil
	},
}
