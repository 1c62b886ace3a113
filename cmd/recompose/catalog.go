// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/recompose/internal/catalog"
	"github.com/pdiddy/recompose/internal/docx"
	"github.com/pdiddy/recompose/internal/logging"
	"github.com/pdiddy/recompose/internal/output"
	"github.com/pdiddy/recompose/internal/process"
	"github.com/pdiddy/recompose/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the citation catalogue (ingest, search, stats)",
	Long: `Catalog keeps parsed citations from many documents in a local SQLite
database. Use subcommands to ingest documents, search records, or show totals.`,
}

// --- ingest subcommand ---

var catalogIngestCmd = &cobra.Command{
	Use:   "ingest INPUT...",
	Short: "Parse documents and store their records in the catalogue",
	Long: `Ingest parses each INPUT and stores its records. Documents whose content
is unchanged since the last ingest are skipped; changed documents have their
records replaced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCatalogIngest,
}

func runCatalogIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if all, _ := cmd.Flags().GetBool("all"); all {
		cfg.Parse.AllParagraphs = true
	}
	store, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := ingestDocuments(cmd.Context(), cmd.OutOrStdout(), store, args, cfg.Parse)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d document(s) failed ingest", summary.Failed)
	}
	return nil
}

// ingestDocuments parses and stores each path, continuing past documents
// that fail.
func ingestDocuments(ctx context.Context, w io.Writer, store *catalog.Store, paths []string, cfg types.ParseConfig) (catalog.IngestSummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var summary catalog.IngestSummary
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		status, records, err := ingestDocument(ctx, store, path, cfg)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", path, err)
			logging.Warn("ingest failed", "file", path, "error", err)
			summary.Failed++
			continue
		}
		summary.Add(status, records)
		if status == catalog.StatusSkipped {
			fmt.Fprintf(w, "skipped  %s\n", path)
		} else {
			fmt.Fprintf(w, "%-8s %s (%d records)\n", status, path, records)
		}
	}
	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d, records: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed, summary.Records)
	return summary, nil
}

func ingestDocument(ctx context.Context, store *catalog.Store, path string, cfg types.ParseConfig) (catalog.IngestStatus, int, error) {
	digest, err := catalog.DigestFile(path)
	if err != nil {
		return "", 0, err
	}
	unchanged, err := store.Unchanged(ctx, path, digest)
	if err != nil {
		return "", 0, err
	}
	if unchanged {
		return catalog.StatusSkipped, 0, nil
	}

	if err := docx.CheckSuitable(path); err != nil {
		return "", 0, err
	}
	doc, err := docx.Open(path)
	if err != nil {
		return "", 0, err
	}
	outcomes, _, err := process.Document(ctx, doc, cfg.AllParagraphs, process.Options{
		PreviewLength: cfg.PreviewLength,
		Logger:        logging.Logger(),
	})
	if err != nil {
		return "", 0, err
	}
	records := process.Records(outcomes)
	status, err := store.Ingest(ctx, catalog.Document{Path: path, Digest: digest, Records: records})
	if err != nil {
		return "", 0, err
	}
	return status, len(records), nil
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search catalogued records by title, author, year, or publisher",
	Long: `Search finds catalogued records matching every given filter. Text filters
match substrings case-insensitively. Results print as a table, or in any
parse output format with --format.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	q := queryFromFlags(cmd)
	if q.IsEmpty() {
		return fmt.Errorf("filter required: provide --title, --author, --year, --publisher, --isbn, or --partial")
	}

	store, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	entries, err := store.Search(ctx, q)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	if format == "" || format == "table" {
		return formatSearchTable(w, entries)
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	return output.Write(w, f, catalog.Results(entries), output.Options{})
}

func queryFromFlags(cmd *cobra.Command) catalog.Query {
	title, _ := cmd.Flags().GetString("title")
	author, _ := cmd.Flags().GetString("author")
	year, _ := cmd.Flags().GetString("year")
	publisher, _ := cmd.Flags().GetString("publisher")
	isbn, _ := cmd.Flags().GetString("isbn")
	partial, _ := cmd.Flags().GetBool("partial")
	limit, _ := cmd.Flags().GetInt("limit")
	return catalog.Query{
		Title:       title,
		Author:      author,
		Year:        year,
		Publisher:   publisher,
		ISBN:        isbn,
		PartialOnly: partial,
		MaxResults:  limit,
	}
}

// cell truncates s to width display columns and pads it.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}

func formatSearchTable(w io.Writer, entries []catalog.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}
	fmt.Fprintf(w, "%s  %s  %s  %s\n", cell("Year", 4), cell("Names", 30), cell("Title", 45), "Publisher")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, e := range entries {
		c := e.Citation
		names := c.Authors
		if len(names) == 0 {
			names = c.Editors
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			cell(c.Year, 4), cell(strings.Join(names, "; "), 30), cell(c.Title, 45), c.Publisher)
	}
	fmt.Fprintf(w, "\n%d results\n", len(entries))
	return nil
}

// --- stats subcommand ---

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print catalogue totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := catalog.Open(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "documents: %d\ncitations: %d (partial: %d)\ndatabase:  %s\n",
			st.Documents, st.Citations, st.Partial, store.Path())
		return nil
	},
}

// --- remove subcommand ---

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove INPUT...",
	Short: "Remove documents and their records from the catalogue",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := catalog.Open(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, path := range args {
			removed, err := store.Remove(context.Background(), path)
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintf(cmd.OutOrStdout(), "removed  %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "unknown  %s\n", path)
			}
		}
		return nil
	},
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", catalog.DefaultDir, "directory holding the catalogue database")
	catalogCmd.PersistentFlags().Int("max-results", catalog.DefaultMaxResults, "default maximum number of search results")
	viper.BindPFlag("catalog.dir", catalogCmd.PersistentFlags().Lookup("catalog-dir"))
	viper.BindPFlag("catalog.max_results", catalogCmd.PersistentFlags().Lookup("max-results"))

	catalogIngestCmd.Flags().Bool("all", false, "process every paragraph, not only those with italic text")

	catalogSearchCmd.Flags().String("title", "", "match title or series")
	catalogSearchCmd.Flags().String("author", "", "match author, editor, translator, or illustrator")
	catalogSearchCmd.Flags().String("year", "", "match publication year")
	catalogSearchCmd.Flags().String("publisher", "", "match publisher")
	catalogSearchCmd.Flags().String("isbn", "", "match ISBN or ISSN, spaces and hyphens ignored")
	catalogSearchCmd.Flags().Bool("partial", false, "only records with an invalid zone")
	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogSearchCmd.Flags().String("format", "table", "output: table, xml, yaml, json, csl, bibtex")

	catalogStatsCmd.Flags().Bool("json", false, "print totals as JSON")

	catalogCmd.AddCommand(catalogIngestCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogStatsCmd)
	catalogCmd.AddCommand(catalogRemoveCmd)

	rootCmd.AddCommand(catalogCmd)
}
