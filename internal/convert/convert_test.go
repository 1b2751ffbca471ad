// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/xpsmerge/internal/pdf"
	"github.com/pdiddy/xpsmerge/internal/pdf/pdftest"
	"github.com/pdiddy/xpsmerge/pkg/types"
)

// fakeConverter writes a PDF with a fixed page count for sources it
// accepts and fails for the rest.
type fakeConverter struct {
	name   string
	pages  int
	fail   map[string]error // source base name -> error
	noFile bool             // report success without writing
	calls  []string
}

func (f *fakeConverter) Name() string { return f.name }

func (f *fakeConverter) Convert(_ context.Context, src, dst string) error {
	f.calls = append(f.calls, filepath.Base(src))
	if err, ok := f.fail[filepath.Base(src)]; ok {
		return err
	}
	if f.noFile {
		return nil
	}
	pages := f.pages
	if pages == 0 {
		pages = 1
	}
	return os.WriteFile(dst, pdftest.Build(pages, filepath.Base(src)), 0o644)
}

// panicConverter panics on every call.
type panicConverter struct{}

func (panicConverter) Name() string { return "panicky" }
func (panicConverter) Convert(context.Context, string, string) error {
	panic("renderer crashed")
}

func sources(t *testing.T, names ...string) []types.SourceDocument {
	t.Helper()
	dir := t.TempDir()
	docs := make([]types.SourceDocument, len(names))
	for i, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("xps"), 0o644))
		docs[i] = types.SourceDocument{Path: p, Index: i + 1}
	}
	return docs
}

func TestNewChainSkipsNil(t *testing.T) {
	c := NewChain(&fakeConverter{name: "a"}, nil, &fakeConverter{name: "c"})
	tiers := c.Tiers()
	require.Len(t, tiers, 2)
	assert.Equal(t, types.TierPrimary, tiers[0].Kind)
	assert.Equal(t, types.TierManual, tiers[1].Kind)
}

func TestConvertFile(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name      string
		primary   Converter
		secondary Converter
		manual    Converter
		wantTier  types.ConversionTier
		wantLog   []string
	}{
		{
			name:     "primary succeeds",
			primary:  &fakeConverter{name: "mupdf"},
			wantTier: types.TierPrimary,
		},
		{
			name:      "secondary after primary error",
			primary:   &fakeConverter{name: "mupdf", fail: map[string]error{"a.xps": boom}},
			secondary: &fakeConverter{name: "ghostxps"},
			wantTier:  types.TierSecondary,
			wantLog:   []string{"primary (mupdf) failed: boom"},
		},
		{
			name:      "success without output counts as failure",
			primary:   &fakeConverter{name: "mupdf", noFile: true},
			secondary: &fakeConverter{name: "ghostxps"},
			wantTier:  types.TierSecondary,
			wantLog:   []string{ErrNoOutput.Error()},
		},
		{
			name:      "panic is contained",
			primary:   panicConverter{},
			secondary: &fakeConverter{name: "ghostxps"},
			wantTier:  types.TierSecondary,
			wantLog:   []string{"panic: renderer crashed"},
		},
		{
			name:      "manual after both automated tiers",
			primary:   &fakeConverter{name: "mupdf", fail: map[string]error{"a.xps": boom}},
			secondary: &fakeConverter{name: "ghostxps", fail: map[string]error{"a.xps": boom}},
			manual:    &fakeConverter{name: "manual"},
			wantTier:  types.TierManual,
		},
		{
			name:      "all tiers fail",
			primary:   &fakeConverter{name: "mupdf", fail: map[string]error{"a.xps": boom}},
			secondary: &fakeConverter{name: "ghostxps", fail: map[string]error{"a.xps": boom}},
			manual:    &fakeConverter{name: "manual", fail: map[string]error{"a.xps": ErrDeclined}},
			wantTier:  types.TierNone,
			wantLog:   []string{"manual (manual) failed: manual conversion declined"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := sources(t, "a.xps")[0]
			dst := filepath.Join(t.TempDir(), "scratch", src.IntermediateName())

			var log bytes.Buffer
			tier, err := NewChain(tt.primary, tt.secondary, tt.manual).ConvertFile(context.Background(), src.Path, dst, &log)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTier, tier)
			for _, want := range tt.wantLog {
				assert.Contains(t, log.String(), want)
			}
			if tier == types.TierNone {
				assert.NoFileExists(t, dst)
			} else {
				assert.FileExists(t, dst)
			}
		})
	}
}

func TestConvertFileIgnoresStaleOutput(t *testing.T) {
	src := sources(t, "a.xps")[0]
	dst := filepath.Join(t.TempDir(), "001_a.pdf")
	pdftest.Write(t, dst, 1)

	c := NewChain(&fakeConverter{name: "mupdf", noFile: true}, nil, nil)
	tier, err := c.ConvertFile(context.Background(), src.Path, dst, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, types.TierNone, tier)
}

func TestConvertFileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := sources(t, "a.xps")[0]
	primary := &fakeConverter{name: "mupdf"}
	_, err := NewChain(primary, nil, nil).ConvertFile(ctx, src.Path, filepath.Join(t.TempDir(), "x.pdf"), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, primary.calls)
}

func TestConvertBatch(t *testing.T) {
	srcs := sources(t, "a.xps", "b.xps", "c.xps")
	scratch := t.TempDir()
	boom := errors.New("boom")

	primary := &fakeConverter{name: "mupdf", pages: 2, fail: map[string]error{"b.xps": boom, "c.xps": boom}}
	secondary := &fakeConverter{name: "ghostxps", pages: 3, fail: map[string]error{"c.xps": boom}}

	var log bytes.Buffer
	result, err := ConvertBatch(context.Background(), NewChain(primary, secondary, nil), srcs, scratch, &log)
	require.NoError(t, err)

	require.Len(t, result.Converted, 2)
	assert.Equal(t, filepath.Join(scratch, "001_a.pdf"), result.Converted[0].Path)
	assert.Equal(t, types.TierPrimary, result.Converted[0].Tier)
	assert.Equal(t, filepath.Join(scratch, "002_b.pdf"), result.Converted[1].Path)
	assert.Equal(t, types.TierSecondary, result.Converted[1].Tier)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "c.xps", result.Skipped[0].Name())
	assert.True(t, result.HasFailures())
	assert.Equal(t, 3, result.Total())
	assert.Equal(t, []string{filepath.Join(scratch, "001_a.pdf"), filepath.Join(scratch, "002_b.pdf")}, result.Paths())

	n, err := pdf.PageCount(result.Converted[1].Path)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "secondary tier output is kept")

	out := log.String()
	assert.Contains(t, out, "[1/3] converting a.xps")
	assert.Contains(t, out, "failed:    c.xps (skipped)")
	assert.True(t, strings.Contains(out, "Batch summary: 2 converted, 1 failed (total: 3)"))
}

func TestConvertBatchCancelledMidway(t *testing.T) {
	srcs := sources(t, "a.xps", "b.xps")
	ctx, cancel := context.WithCancel(context.Background())

	c := NewChain(&cancellingConverter{cancel: cancel}, nil, nil)
	result, err := ConvertBatch(ctx, c, srcs, t.TempDir(), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, result.Converted, 1)
}

// cancellingConverter succeeds once and cancels the context.
type cancellingConverter struct {
	cancel context.CancelFunc
}

func (c *cancellingConverter) Name() string { return "cancelling" }

func (c *cancellingConverter) Convert(_ context.Context, src, dst string) error {
	defer c.cancel()
	return os.WriteFile(dst, pdftest.Build(1, "x"), 0o644)
}
