// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ConversionTier identifies which strategy produced an intermediate PDF.
type ConversionTier string

const (
	TierNone      ConversionTier = "none"
	TierPrimary   ConversionTier = "primary"
	TierSecondary ConversionTier = "secondary"
	TierManual    ConversionTier = "manual"
)

// SourceDocument is an XPS file selected by discovery. Sources are immutable
// inputs; Index is the 1-based position in sorted discovery order.
type SourceDocument struct {
	// Path is the full path of the XPS file.
	Path string `json:"path" yaml:"path"`

	// Index is the 1-based position of the file after sorting.
	Index int `json:"index" yaml:"index"`
}

// Name returns the base file name of the source.
func (s SourceDocument) Name() string {
	return filepath.Base(s.Path)
}

// Stem returns the file name without its extension.
func (s SourceDocument) Stem() string {
	name := s.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// IntermediateName returns the scratch file name for the source, e.g.
// "001_report.pdf". The zero-padded index keeps lexical and source order equal.
func (s SourceDocument) IntermediateName() string {
	return fmt.Sprintf("%03d_%s.pdf", s.Index, s.Stem())
}

// IntermediateDocument is a per-source converted PDF in scratch storage.
type IntermediateDocument struct {
	// Source is the XPS document the PDF was produced from.
	Source SourceDocument `json:"source" yaml:"source"`

	// Path is the scratch path of the PDF.
	Path string `json:"path" yaml:"path"`

	// Tier records which conversion strategy succeeded.
	Tier ConversionTier `json:"tier" yaml:"tier"`
}
