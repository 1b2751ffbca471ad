// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdf merges and compresses PDF documents with pdfcpu.
package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Keep pdfcpu from creating a config directory under the user's home.
	api.DisableConfigDir()
}

// Configuration returns the pdfcpu configuration used for every operation.
// Relaxed validation tolerates the slightly non-conforming files some XPS printers
// and converters produce.
func Configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("counting pages of %s: %w", path, err)
	}
	return n, nil
}

// Merge concatenates the pages of files, in order, into out. Any existing
// file at out is replaced. On failure out is removed so no partial merge
// is left behind.
func Merge(files []string, out string, w io.Writer) error {
	if len(files) == 0 {
		return fmt.Errorf("merge: no input files")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", out, err)
	}
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale %s: %w", out, err)
	}

	for _, f := range files {
		fmt.Fprintf(w, "adding: %s\n", filepath.Base(f))
	}

	if err := api.MergeCreateFile(files, out, false, Configuration()); err != nil {
		os.Remove(out)
		return fmt.Errorf("merging %d file(s) into %s: %w", len(files), out, err)
	}
	return nil
}

// CopyFile copies src to dst byte for byte, creating dst's directory.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dst, err)
	}

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s to %s: %w", tmp, dst, err)
	}
	return nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
