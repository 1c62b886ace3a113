// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package process drives the citation pipeline over many paragraphs:
// segment each one, aggregate its zones into a record, and keep going past
// paragraphs that fail. Per-paragraph status lines go to an io.Writer and
// details go to the structured logger.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pdiddy/recompose/internal/docx"
	"github.com/pdiddy/recompose/internal/extract"
	"github.com/pdiddy/recompose/internal/segment"
	"github.com/pdiddy/recompose/pkg/types"
)

// DefaultPreviewLength is the paragraph head length used in status lines.
const DefaultPreviewLength = 30

// Source yields the formatted runs of one paragraph. *docx.Paragraph
// implements it.
type Source interface {
	Runs() []types.RunSpan
}

// Outcome is the result of processing one paragraph. Err is set when the
// paragraph failed segmentation, in which case Result is empty.
type Outcome struct {
	Index     int                     `json:"index" yaml:"index"`
	Head      string                  `json:"head" yaml:"head"`
	Segmented types.SegmentedCitation `json:"segmented" yaml:"segmented"`
	Result    extract.Result          `json:"result" yaml:"result"`
	Err       error                   `json:"-" yaml:"-"`
}

// OK reports whether the paragraph produced a record.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// BatchResult holds the outcome of a batch run. Parsed records had every
// zone valid; Partial records had at least one invalid zone; Failed
// paragraphs produced no record.
type BatchResult struct {
	Parsed  int `json:"parsed" yaml:"parsed"`
	Partial int `json:"partial" yaml:"partial"`
	Failed  int `json:"failed" yaml:"failed"`
}

// Total returns the number of paragraphs processed.
func (r BatchResult) Total() int {
	return r.Parsed + r.Partial + r.Failed
}

// Records returns the number of paragraphs that produced a record.
func (r BatchResult) Records() int {
	return r.Parsed + r.Partial
}

// HasFailures reports whether any paragraph failed segmentation.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Options configures a batch run. Zero values select the defaults: a
// 30-character preview, no status output, and slog.Default.
type Options struct {
	PreviewLength int
	Progress      io.Writer
	Logger        *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.PreviewLength <= 0 {
		o.PreviewLength = DefaultPreviewLength
	}
	if o.Progress == nil {
		o.Progress = io.Discard
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Paragraph segments and aggregates one paragraph. index is its 1-based
// position and is used in the paragraph head.
func Paragraph(src Source, index int, opts Options) Outcome {
	opts = opts.withDefaults()
	runs := src.Runs()
	out := Outcome{
		Index: index,
		Head:  Head(segment.Text(runs), opts.PreviewLength, NumberBullet(index)),
	}
	log := opts.Logger.With("paragraph", index)

	seg, err := segment.Segment(runs)
	if err != nil {
		out.Err = err
		log.Warn("skipping paragraph", "head", out.Head, "error", err.Error())
		log.Debug("paragraph runs", "text", Visualize(runs))
		fmt.Fprintf(opts.Progress, "failed:  %s (%s)\n", out.Head, failureKind(err))
		return out
	}
	out.Segmented = seg
	out.Result = extract.Aggregate(seg)

	if out.Result.Validity.All() {
		log.Debug("parsed paragraph", "head", out.Head)
		fmt.Fprintf(opts.Progress, "parsed:  %s\n", out.Head)
		return out
	}
	invalid := invalidZones(out.Result)
	log.Info("partial record", "head", out.Head,
		"authors", out.Result.Reports.Authors.String(),
		"title", out.Result.Reports.Title.String(),
		"meta", out.Result.Reports.Meta.String())
	fmt.Fprintf(opts.Progress, "partial: %s (invalid: %s)\n", out.Head, strings.Join(invalid, ", "))
	return out
}

// Paragraphs processes paras in order, printing a status line per
// paragraph and a summary. A paragraph that fails segmentation is logged
// and skipped. Cancelling ctx stops the run between paragraphs; the
// outcomes gathered so far are returned with ctx.Err().
func Paragraphs[S Source](ctx context.Context, paras []S, opts Options) ([]Outcome, BatchResult, error) {
	opts = opts.withDefaults()
	var result BatchResult
	outcomes := make([]Outcome, 0, len(paras))
	for i, p := range paras {
		if err := ctx.Err(); err != nil {
			return outcomes, result, err
		}
		out := Paragraph(p, i+1, opts)
		switch {
		case !out.OK():
			result.Failed++
		case out.Result.Validity.All():
			result.Parsed++
		default:
			result.Partial++
		}
		outcomes = append(outcomes, out)
	}
	fmt.Fprintf(opts.Progress, "\nBatch summary: %d parsed, %d partial, %d failed (total: %d)\n",
		result.Parsed, result.Partial, result.Failed, result.Total())
	opts.Logger.Info("batch finished", "parsed", result.Parsed, "partial", result.Partial,
		"failed", result.Failed, "total", result.Total())
	return outcomes, result, nil
}

// Document processes the candidate paragraphs of doc, or every paragraph
// when all is set.
func Document(ctx context.Context, doc *docx.Document, all bool, opts Options) ([]Outcome, BatchResult, error) {
	paras, err := doc.Paragraphs(all)
	if err != nil {
		return nil, BatchResult{}, fmt.Errorf("listing paragraphs: %w", err)
	}
	return Paragraphs(ctx, paras, opts)
}

// Records returns the results of the outcomes that produced a record, in
// order.
func Records(outcomes []Outcome) []extract.Result {
	records := make([]extract.Result, 0, len(outcomes))
	for _, o := range outcomes {
		if o.OK() {
			records = append(records, o.Result)
		}
	}
	return records
}

func failureKind(err error) string {
	var segErr *segment.Error
	if errors.As(err, &segErr) {
		if segErr.Kind == segment.KindPattern {
			return segment.ErrItalicPattern.Error()
		}
		if segErr.Reason != "" {
			return segErr.Reason
		}
	}
	return err.Error()
}

func invalidZones(r extract.Result) []string {
	var zones []string
	if !r.Validity.Authors {
		zones = append(zones, "authors")
	}
	if !r.Validity.Title {
		zones = append(zones, "title")
	}
	if !r.Validity.Meta {
		zones = append(zones, "meta")
	}
	return zones
}
