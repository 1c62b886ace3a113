// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/recompose/internal/docx"
)

var checkCmd = &cobra.Command{
	Use:   "check INPUT...",
	Short: "Check that documents are Word XML the parser can read",
	Long: `Check runs the suitability checks on each INPUT without parsing its
citations: the file header names a Word document (flat XML only), the XML
parses, no tracked changes remain, and the w prefix binds the
WordprocessingML namespace. Checks stop at the first failure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed, err := checkDocuments(cmd.OutOrStdout(), args)
		if err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d document(s) unsuitable", failed, len(args))
		}
		return nil
	},
}

// checkDocuments prints the checks run on each path and returns how many
// paths failed them.
func checkDocuments(w io.Writer, paths []string) (int, error) {
	failed := 0
	for _, path := range paths {
		s, err := docx.Inspect(path)
		if err != nil {
			return failed, err
		}
		for _, c := range s.Checks {
			mark := "ok  "
			if !c.Passed {
				mark = "FAIL"
			}
			fmt.Fprintf(w, "  %s %s\n", mark, c.Name)
		}
		if err := s.Err(); err != nil {
			failed++
			fmt.Fprintf(w, "unsuitable: %v\n", err)
			continue
		}
		fmt.Fprintf(w, "suitable:   %s\n", path)
	}
	return failed, nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
