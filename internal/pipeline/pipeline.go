// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one discover, convert, merge, compress, and cleanup
// pass over a folder of XPS documents.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/xpsmerge/internal/convert"
	"github.com/pdiddy/xpsmerge/internal/discover"
	"github.com/pdiddy/xpsmerge/internal/pdf"
	"github.com/pdiddy/xpsmerge/pkg/types"
)

var (
	// ErrNothingConverted is returned when every source failed conversion.
	ErrNothingConverted = errors.New("no documents could be converted")

	// ErrMerge is returned when the converted documents could not be merged.
	ErrMerge = errors.New("merge failed")
)

// Confirmer answers the yes/no questions the pipeline asks while running.
type Confirmer interface {
	Confirm(question string) bool
}

// Deps are the collaborators a run needs beyond its configuration.
type Deps struct {
	// Chain converts each source document.
	Chain *convert.Chain

	// Confirmer is asked before cleanup when the policy is "ask".
	Confirmer Confirmer
}

// Result summarizes a run.
type Result struct {
	Sources       []types.SourceDocument
	Conversion    convert.BatchResult
	MergedPath    string
	MergedPages   int
	OutputPath    string
	Compression   pdf.CompressResult
	CleanedUp     bool
	CleanupErrors []error
}

// Run executes the pipeline for cfg, writing progress to w. It returns an
// error for missing input, zero conversions, merge failure, cancellation,
// or when not even the fallback copy of the merged document could be
// written. Per-file conversion failures, compression failure, and cleanup
// failures are reported on w and do not stop the run.
func Run(ctx context.Context, cfg types.RunConfig, deps Deps, w io.Writer) (Result, error) {
	var res Result

	scratch := cfg.ScratchPath()
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return res, fmt.Errorf("creating scratch directory %s: %w", scratch, err)
	}
	fmt.Fprintf(w, "scratch directory: %s\n", scratch)

	sources, err := discover.Discover(cfg.InputDir)
	if err != nil {
		return res, err
	}
	res.Sources = sources
	fmt.Fprintf(w, "found %d XPS document(s) in %s\n", len(sources), cfg.InputDir)

	batch, err := convert.ConvertBatch(ctx, deps.Chain, sources, scratch, w)
	res.Conversion = batch
	if err != nil {
		return res, err
	}
	if len(batch.Converted) == 0 {
		return res, ErrNothingConverted
	}

	res.MergedPath = filepath.Join(scratch, types.MergedScratchName)
	fmt.Fprintf(w, "\nmerging %d document(s)\n", len(batch.Converted))
	if err := pdf.Merge(batch.Paths(), res.MergedPath, w); err != nil {
		return res, fmt.Errorf("%w: %v", ErrMerge, err)
	}
	if n, err := pdf.PageCount(res.MergedPath); err == nil {
		res.MergedPages = n
		fmt.Fprintf(w, "merged: %d page(s)\n", n)
	}

	res.OutputPath = cfg.OutputPath()
	comp, err := pdf.Compress(res.MergedPath, res.OutputPath, cfg.Compression, w)
	res.Compression = comp
	if err != nil {
		return res, err
	}
	fmt.Fprintf(w, "\ndone: %s\n", res.OutputPath)

	if cfg.Report {
		reportPath := ReportPath(res.OutputPath)
		if err := WriteReport(reportPath, cfg, res); err != nil {
			fmt.Fprintf(w, "warning: %v\n", err)
		} else {
			fmt.Fprintf(w, "report: %s\n", reportPath)
		}
	}

	if shouldClean(cfg.Cleanup, deps.Confirmer) {
		res.CleanupErrors = Cleanup(append(batch.Paths(), res.MergedPath), w)
		res.CleanedUp = true
	}
	return res, nil
}

func shouldClean(policy types.CleanupPolicy, c Confirmer) bool {
	switch policy {
	case types.CleanupAlways:
		return true
	case types.CleanupNever:
		return false
	default:
		return c != nil && c.Confirm("\nDelete the temporary PDF files?")
	}
}

// Cleanup removes the given scratch files. Files that are already gone are
// ignored; other failures are reported on w and returned, never fatal.
func Cleanup(paths []string, w io.Writer) []error {
	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(w, "cleanup: %v\n", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		fmt.Fprintln(w, "temporary files removed")
	}
	return errs
}
