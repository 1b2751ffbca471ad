// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pdiddy/xpsmerge/internal/pdf"
)

// document is the subset of a MuPDF document the renderer needs.
type document interface {
	NumPage() int
	ImageDPI(pageNumber int, dpi float64) (*image.RGBA, error)
	Close() error
}

// openDocument opens an XPS file with MuPDF. Tests replace it.
var openDocument = func(path string) (document, error) {
	return fitz.New(path)
}

// RenderConverter converts in process: MuPDF rasterizes each XPS page and
// pdfcpu assembles the JPEG-encoded pages into a PDF, one image per page.
type RenderConverter struct {
	dpi     float64
	quality int
}

// NewRenderConverter returns a renderer working at dpi with the given JPEG
// quality (1-100).
func NewRenderConverter(dpi float64, quality int) *RenderConverter {
	return &RenderConverter{dpi: dpi, quality: quality}
}

func (r *RenderConverter) Name() string { return "mupdf" }

// Quality returns the JPEG quality pages are encoded at.
func (r *RenderConverter) Quality() int { return r.quality }

// DPI returns the page rasterization resolution.
func (r *RenderConverter) DPI() float64 { return r.dpi }

// Convert renders src page by page into dst.
func (r *RenderConverter) Convert(ctx context.Context, src, dst string) error {
	doc, err := openDocument(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return fmt.Errorf("%s has no pages", src)
	}

	work, err := os.MkdirTemp(filepath.Dir(dst), ".render-*")
	if err != nil {
		return fmt.Errorf("creating render directory: %w", err)
	}
	defer os.RemoveAll(work)

	pages := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := doc.ImageDPI(i, r.dpi)
		if err != nil {
			return fmt.Errorf("rendering page %d of %s: %w", i+1, src, err)
		}
		path := filepath.Join(work, fmt.Sprintf("page-%04d.jpg", i+1))
		if err := writeJPEG(path, img, r.quality); err != nil {
			return err
		}
		pages = append(pages, path)
	}

	// ImportImagesFile appends to an existing file, so start clean.
	os.Remove(dst)

	imp := pdfcpu.DefaultImportConfig()
	imp.Pos = pdftypes.Full
	if err := api.ImportImagesFile(pages, dst, imp, pdf.Configuration()); err != nil {
		os.Remove(dst)
		return fmt.Errorf("assembling %s: %w", dst, err)
	}
	return nil
}

func writeJPEG(path string, img image.Image, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
