package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ky489401/anki-canonical/internal/core"
	"github.com/ky489401/anki-canonical/pkg/console"
	"github.com/ky489401/anki-canonical/pkg/filesystem"
	"github.com/ky489401/anki-canonical/pkg/latex"
	"github.com/ky489401/anki-canonical/pkg/markdown"
	"github.com/ky489401/anki-canonical/pkg/text"
)

var convertStyle string
var convertRenderer string
var convertVerbatim bool
var convertPreprocess bool
var convertNoStructural bool
var convertForAnki bool
var convertOutputDir string

func init() {
	convertCmd.Flags().StringVar(&convertStyle, "style", "bracket", "math delimiters to protect (bracket or dollar)")
	convertCmd.Flags().StringVar(&convertRenderer, "renderer", "gomarkdown", "Markdown renderer (gomarkdown, goldmark, paragraphs or none)")
	convertCmd.Flags().BoolVar(&convertVerbatim, "verbatim", false, "restore math spans byte-for-byte instead of rewriting them with brackets")
	convertCmd.Flags().BoolVar(&convertPreprocess, "preprocess", false, "only normalize math and rewrite LaTeX structures, without Markdown rendering")
	convertCmd.Flags().BoolVar(&convertNoStructural, "no-structural", false, "keep LaTeX structures (sections, lists, tables, images) as is")
	convertCmd.Flags().BoolVar(&convertForAnki, "for-anki", false, "adapt the output to the Anki card renderer")
	convertCmd.Flags().StringVarP(&convertOutputDir, "output", "o", "", "write FILE.html files into this directory instead of stdout")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert FILE...",
	Short: "Convert Markdown notes with LaTeX math to HTML",
	Long:  `Convert Markdown notes with LaTeX math to HTML. Use "-" to read from stdin.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, err := latex.ParseDelimiterStyle(convertStyle)
		if err != nil {
			return err
		}
		renderer, err := rendererByName(convertRenderer)
		if err != nil {
			return err
		}
		emission := latex.EmitBracket
		if convertVerbatim {
			emission = latex.EmitVerbatim
		}
		toolkit := core.CurrentToolkit()
		toolkit.Converter = latex.NewConverter(renderer,
			latex.WithStyle(style),
			latex.WithEmission(emission),
			latex.WithStructural(!convertNoStructural))

		texts := make([]string, len(args))
		for i, path := range args {
			texts[i], err = readInput(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
		}
		outputs, err := toolkit.ConvertNotes(cmd.Context(), texts, convertPreprocess, convertForAnki)
		if err != nil {
			return err
		}

		if convertOutputDir != "" {
			if _, err := filesystem.SetupOutputDirectory(convertOutputDir); err != nil {
				return err
			}
		}
		progress := console.NewProgressLog(len(args), console.ToWriter(cmd.ErrOrStderr()))
		for i, path := range args {
			html := outputs[i]
			if convertOutputDir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), html)
				continue
			}
			progress.Log(i+1, path)
			name := "stdin"
			if path != "-" {
				name = text.TrimExtension(filepath.Base(path))
			}
			output := filepath.Join(convertOutputDir, filesystem.CleanFilename(name)+".html")
			if err := os.WriteFile(output, []byte(html), 0644); err != nil {
				return err
			}
		}
		if convertOutputDir != "" {
			progress.Clear(fmt.Sprintf("Converted %d file(s) into %s", len(args), convertOutputDir))
		}
		return nil
	},
}

func rendererByName(name string) (markdown.Renderer, error) {
	if name == "paragraphs" {
		return latex.Paragraphs(), nil
	}
	return markdown.RendererByName(name)
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		content, err := io.ReadAll(stdin)
		return string(content), err
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("file %s not found", path)
	}
	return string(content), err
}
