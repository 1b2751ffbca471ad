// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns XPS documents into PDF through an ordered chain of
// converters: in-process rendering, the external GhostXPS converter, and an
// interactive manual fallback.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/xpsmerge/internal/pdf"
	"github.com/pdiddy/xpsmerge/pkg/types"
)

// Converter produces a PDF at dst from the XPS document at src. Different
// strategies (rendering, GhostXPS, manual) implement this interface.
type Converter interface {
	// Name identifies the converter in status output.
	Name() string

	// Convert writes the PDF for src to dst.
	Convert(ctx context.Context, src, dst string) error
}

// ErrNoOutput is returned when a converter reported success but dst does
// not exist afterwards.
var ErrNoOutput = errors.New("converter produced no output file")

// Tier pairs a converter with the tier it represents.
type Tier struct {
	Kind      types.ConversionTier
	Converter Converter
}

// Chain tries its tiers in order and stops at the first success.
type Chain struct {
	tiers []Tier
}

// NewChain builds a chain from the given converters. Nil converters are
// skipped, so a disabled tier can be passed as nil.
func NewChain(primary, secondary, manual Converter) *Chain {
	c := &Chain{}
	for _, t := range []Tier{
		{Kind: types.TierPrimary, Converter: primary},
		{Kind: types.TierSecondary, Converter: secondary},
		{Kind: types.TierManual, Converter: manual},
	} {
		if t.Converter != nil {
			c.tiers = append(c.tiers, t)
		}
	}
	return c
}

// Tiers returns the configured tiers in the order they are tried.
func (c *Chain) Tiers() []Tier { return c.tiers }

// ConvertFile runs src through the chain. It returns the tier that produced
// dst, or TierNone when every tier failed. Converter errors and panics are
// written to w and never returned; only context cancellation is.
func (c *Chain) ConvertFile(ctx context.Context, src, dst string, w io.Writer) (types.ConversionTier, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		fmt.Fprintf(w, "  failed: %v\n", err)
		return types.TierNone, nil
	}
	// A leftover file from an earlier run must not count as output.
	os.Remove(dst)

	for _, t := range c.tiers {
		if err := ctx.Err(); err != nil {
			return types.TierNone, err
		}
		err := attempt(ctx, t.Converter, src, dst)
		if err == nil {
			return t.Kind, nil
		}
		os.Remove(dst)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return types.TierNone, ctxErr
		}
		fmt.Fprintf(w, "  %s (%s) failed: %v\n", t.Kind, t.Converter.Name(), err)
	}
	return types.TierNone, nil
}

// attempt runs one converter and checks that its output exists.
func attempt(ctx context.Context, c Converter, src, dst string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	if err := c.Convert(ctx, src, dst); err != nil {
		return err
	}
	if !pdf.Exists(dst) {
		return ErrNoOutput
	}
	return nil
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	// Converted lists the intermediates in source order.
	Converted []types.IntermediateDocument

	// Skipped lists the sources every tier failed on.
	Skipped []types.SourceDocument
}

// Total returns the number of sources processed.
func (r BatchResult) Total() int {
	return len(r.Converted) + len(r.Skipped)
}

// HasFailures reports whether any source was skipped.
func (r BatchResult) HasFailures() bool {
	return len(r.Skipped) > 0
}

// Paths returns the intermediate paths in merge order.
func (r BatchResult) Paths() []string {
	paths := make([]string, len(r.Converted))
	for i, d := range r.Converted {
		paths[i] = d.Path
	}
	return paths
}

// ConvertBatch converts each source, in order, into scratchDir, printing
// per-file status to w. A source that fails every tier is skipped and the
// batch continues. The returned error is non-nil only when ctx is cancelled;
// the result then covers the sources finished so far.
func ConvertBatch(ctx context.Context, c *Chain, sources []types.SourceDocument, scratchDir string, w io.Writer) (BatchResult, error) {
	var result BatchResult
	for _, src := range sources {
		dst := filepath.Join(scratchDir, src.IntermediateName())
		fmt.Fprintf(w, "\n[%d/%d] converting %s\n", src.Index, len(sources), src.Name())

		tier, err := c.ConvertFile(ctx, src.Path, dst, w)
		if err != nil {
			return result, err
		}
		if tier == types.TierNone {
			fmt.Fprintf(w, "failed:    %s (skipped)\n", src.Name())
			result.Skipped = append(result.Skipped, src)
			continue
		}

		fmt.Fprintf(w, "converted: %s -> %s (%s)\n", src.Name(), dst, tier)
		result.Converted = append(result.Converted, types.IntermediateDocument{
			Source: src,
			Path:   dst,
			Tier:   tier,
		})
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		len(result.Converted), len(result.Skipped), result.Total())
	return result, nil
}
