// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover lists the XPS documents a run will process.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/xpsmerge/pkg/types"
)

// Pattern is matched against each file name in the input directory.
// Matching is case-sensitive. Names starting with a dot are never matched,
// which keeps AppleDouble files such as "._a.xps" out of a run.
const Pattern = "*.xps"

var (
	// ErrDirNotFound is returned when the input directory does not exist.
	ErrDirNotFound = errors.New("input directory not found")

	// ErrNoDocuments is returned when the input directory has no XPS files.
	ErrNoDocuments = errors.New("no XPS documents found")
)

// Discover returns the XPS documents directly inside dir, sorted ascending
// by full path and numbered from 1 in that order.
func Discover(dir string) ([]types.SourceDocument, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	}

	// Only the base names are matched, so glob characters in dir itself
	// ("Scans [2024]") are taken literally.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if !isDocument(e.Name()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		fi, err := os.Stat(p)
		if err != nil || fi.IsDir() {
			continue
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, dir)
	}
	sort.Strings(paths)

	docs := make([]types.SourceDocument, len(paths))
	for i, p := range paths {
		docs[i] = types.SourceDocument{Path: p, Index: i + 1}
	}
	return docs, nil
}

func isDocument(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ok, _ := filepath.Match(Pattern, name)
	return ok
}
