// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/xpsmerge/pkg/types"
)

// CompressResult describes the outcome of Compress.
type CompressResult struct {
	InputSize  int64
	OutputSize int64

	// Fallback is true when compression failed and the input was copied
	// unchanged to the output path.
	Fallback bool

	// Err holds the compression error that triggered the fallback.
	Err error
}

// Reduction returns the size reduction in percent. It is zero when the
// input is empty and negative when the output grew.
func (r CompressResult) Reduction() float64 {
	if r.InputSize <= 0 {
		return 0
	}
	return (1 - float64(r.OutputSize)/float64(r.InputSize)) * 100
}

// optimize is replaced in tests to force the fallback path.
var optimize = func(in, out string) error {
	conf := Configuration()
	conf.WriteObjectStream = true
	conf.WriteXRefStream = true
	return api.OptimizeFile(in, out, conf)
}

// Compress rewrites the PDF at in to out with object and xref streams and
// duplicate-resource elimination enabled. Document information is carried
// over by the optimizer. The same lossless pass is applied at every level;
// the level is reported for the record.
//
// If compression fails for any reason, in is copied byte for byte to out and
// the result is marked as a fallback. An error is returned only when the
// fallback copy also fails.
func Compress(in, out string, level types.CompressionLevel, w io.Writer) (CompressResult, error) {
	var res CompressResult

	info, err := os.Stat(in)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", in, err)
	}
	res.InputSize = info.Size()

	fmt.Fprintf(w, "compressing: %s (level %s)\n", in, level)

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return res, fmt.Errorf("creating directory for %s: %w", out, err)
	}

	if err := compressTo(in, out); err != nil {
		fmt.Fprintf(w, "compression failed: %v\n", err)
		fmt.Fprintf(w, "copying merged document unchanged to %s\n", out)
		res.Fallback = true
		res.Err = err
		if err := CopyFile(in, out); err != nil {
			return res, fmt.Errorf("fallback copy: %w", err)
		}
	}

	outInfo, err := os.Stat(out)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", out, err)
	}
	res.OutputSize = outInfo.Size()

	fmt.Fprintf(w, "size: %s -> %s (%.2f%% reduction)\n",
		humanize.Bytes(uint64(res.InputSize)), humanize.Bytes(uint64(res.OutputSize)), res.Reduction())
	return res, nil
}

// compressTo runs the optimizer into a temporary file and renames it over
// out, so a failed run never leaves a truncated output behind.
func compressTo(in, out string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pdfcpu panic: %v", p)
		}
	}()

	tmp := out + ".tmp"
	os.Remove(tmp)
	if err := optimize(in, tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, out); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s to %s: %w", tmp, out, err)
	}
	return nil
}
