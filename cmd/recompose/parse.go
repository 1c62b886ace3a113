// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/recompose/internal/docx"
	"github.com/pdiddy/recompose/internal/logging"
	"github.com/pdiddy/recompose/internal/output"
	"github.com/pdiddy/recompose/internal/process"
	"github.com/pdiddy/recompose/pkg/types"
)

// defaultOutput is written in the working directory when no OUTPUT is given.
const defaultOutput = "output.xml"

var parseCmd = &cobra.Command{
	Use:   "parse INPUT [OUTPUT]",
	Short: "Parse a books-received Word document into structured records",
	Long: `Parse reads a Word XML or .docx document, processes every paragraph that
holds italic text, and writes one record per citation to OUTPUT
(default output.xml). A paragraph status line is printed for each citation
and a batch summary at the end.

The output format is taken from --format, else from the OUTPUT extension
(.xml, .yaml, .json, .csl.yaml, .bib), else xml. An OUTPUT ending in .xz is
compressed. With --watch the document is parsed again whenever it changes.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	input := args[0]
	outPath := defaultOutput
	if len(args) > 1 {
		outPath = args[1]
	}
	format, err := resolveFormat(string(cfg.Parse.Format), outPath)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	run := func(ctx context.Context) error {
		_, err := parseDocument(ctx, w, input, outPath, format, cfg.Parse)
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		fmt.Fprintf(w, "Watching %s (Ctrl-C to stop)\n", input)
		return process.Watch(ctx, input, logging.Logger(), run)
	}
	return run(ctx)
}

// resolveFormat picks the configured format, else the one implied by the
// output path, else xml.
func resolveFormat(configured, outPath string) (types.OutputFormat, error) {
	if configured != "" {
		return output.ParseFormat(configured)
	}
	if f, ok := output.FormatFromPath(outPath); ok {
		return f, nil
	}
	return types.OutputXML, nil
}

// parseDocument runs the pipeline over input and writes the records to
// outPath.
func parseDocument(ctx context.Context, w io.Writer, input, outPath string, format types.OutputFormat, cfg types.ParseConfig) (process.BatchResult, error) {
	if err := docx.CheckSuitable(input); err != nil {
		return process.BatchResult{}, err
	}
	doc, err := docx.Open(input)
	if err != nil {
		return process.BatchResult{}, err
	}

	logging.Info("parsing document", "file", input, "format", string(format), "all", cfg.AllParagraphs)
	outcomes, result, err := process.Document(ctx, doc, cfg.AllParagraphs, process.Options{
		PreviewLength: cfg.PreviewLength,
		Progress:      w,
		Logger:        logging.Logger(),
	})
	if err != nil {
		return result, err
	}

	opts := output.Options{Source: filepath.Base(input), IncludeReports: cfg.IncludeReports}
	if err := output.WriteFile(outPath, format, process.Records(outcomes), opts); err != nil {
		return result, err
	}
	fmt.Fprintf(w, "Wrote %d records to %s (%s)\n", result.Records(), outPath, format)
	return result, nil
}

func init() {
	flags := parseCmd.Flags()
	flags.StringP("format", "f", "", "output format: xml, yaml, json, csl, bibtex")
	flags.BoolP("all", "a", false, "process every paragraph, not only those with italic text")
	flags.Int("preview-length", process.DefaultPreviewLength, "characters of each paragraph shown in status lines")
	flags.Bool("reports", false, "include validation reports in yaml and json output")
	flags.BoolP("watch", "w", false, "parse again whenever INPUT changes")

	viper.BindPFlag("parse.format", flags.Lookup("format"))
	viper.BindPFlag("parse.all_paragraphs", flags.Lookup("all"))
	viper.BindPFlag("parse.preview_length", flags.Lookup("preview-length"))
	viper.BindPFlag("parse.include_reports", flags.Lookup("reports"))

	rootCmd.AddCommand(parseCmd)
}
