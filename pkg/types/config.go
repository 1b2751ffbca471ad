// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CompressionLevel selects the quality/size tradeoff for the output document.
type CompressionLevel string

const (
	CompressionLow    CompressionLevel = "low"
	CompressionMedium CompressionLevel = "medium"
	CompressionHigh   CompressionLevel = "high"
)

// Quality returns the image quality associated with the level:
// low 90, medium 75, high 60. Unknown levels are treated as medium.
func (l CompressionLevel) Quality() int {
	switch l {
	case CompressionLow:
		return 90
	case CompressionHigh:
		return 60
	default:
		return 75
	}
}

// ParseCompressionChoice maps a console menu answer to a level.
// "1" is low, "3" is high; anything else, including an empty answer, is medium.
func ParseCompressionChoice(choice string) CompressionLevel {
	switch strings.TrimSpace(choice) {
	case "1":
		return CompressionLow
	case "3":
		return CompressionHigh
	default:
		return CompressionMedium
	}
}

// ParseCompressionLevel accepts a level name or a menu number.
func ParseCompressionLevel(s string) (CompressionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "1":
		return CompressionLow, nil
	case "medium", "2", "":
		return CompressionMedium, nil
	case "high", "3":
		return CompressionHigh, nil
	default:
		return "", fmt.Errorf("unknown compression level %q: use low, medium, or high", s)
	}
}

// CleanupPolicy controls what happens to scratch files after a run.
type CleanupPolicy string

const (
	CleanupAsk    CleanupPolicy = "ask"
	CleanupAlways CleanupPolicy = "always"
	CleanupNever  CleanupPolicy = "never"
)

// ParseCleanupPolicy validates a cleanup policy name. Empty means ask.
func ParseCleanupPolicy(s string) (CleanupPolicy, error) {
	switch p := CleanupPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return CleanupAsk, nil
	case CleanupAsk, CleanupAlways, CleanupNever:
		return p, nil
	default:
		return "", fmt.Errorf("unknown cleanup policy %q: use ask, always, or never", s)
	}
}

const (
	// DefaultScratchDir is the scratch subdirectory created under the base directory.
	DefaultScratchDir = "temp"

	// DefaultOutputName is used when the user leaves the output filename blank.
	DefaultOutputName = "merged.pdf"

	// DefaultRenderDPI is the resolution used by the in-process renderer.
	DefaultRenderDPI = 150.0

	// MergedScratchName is the file name of the merged document in scratch storage.
	MergedScratchName = "merged_temp.pdf"
)

// RunConfig holds every parameter of a single run. It is assembled once,
// before discovery, and is not modified afterwards.
type RunConfig struct {
	// InputDir is the directory scanned for XPS documents.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputName is the output document file name, resolved against BaseDir
	// unless it is absolute.
	OutputName string `json:"output" yaml:"output"`

	// Compression is the level chosen by the user.
	Compression CompressionLevel `json:"compression" yaml:"compression"`

	// BaseDir holds the scratch subdirectory and the output document.
	BaseDir string `json:"base_dir" yaml:"base_dir"`

	// ScratchDir is the scratch subdirectory name under BaseDir (default "temp").
	ScratchDir string `json:"scratch_dir" yaml:"scratch_dir"`

	// GhostXPSPath is the GhostXPS executable. Empty means search well-known locations.
	GhostXPSPath string `json:"ghostxps_path,omitempty" yaml:"ghostxps_path,omitempty"`

	// RenderDPI is the page rasterization resolution of the in-process renderer.
	RenderDPI float64 `json:"render_dpi" yaml:"render_dpi"`

	// Manual enables the interactive manual conversion fallback.
	Manual bool `json:"manual" yaml:"manual"`

	// Viewer is the application the manual fallback opens documents with.
	// Empty means the platform's file association.
	Viewer string `json:"viewer,omitempty" yaml:"viewer,omitempty"`

	// Cleanup selects whether scratch files are removed at the end of the run.
	Cleanup CleanupPolicy `json:"cleanup" yaml:"cleanup"`

	// Report writes a YAML run report next to the output document.
	Report bool `json:"report" yaml:"report"`
}

// ScratchPath returns the scratch directory under BaseDir.
func (c RunConfig) ScratchPath() string {
	dir := c.ScratchDir
	if dir == "" {
		dir = DefaultScratchDir
	}
	return filepath.Join(c.BaseDir, dir)
}

// OutputPath returns the path of the output document. A name without an
// extension gets ".pdf" appended.
func (c RunConfig) OutputPath() string {
	name := strings.TrimSpace(c.OutputName)
	if name == "" {
		name = DefaultOutputName
	}
	if filepath.Ext(name) == "" {
		name += ".pdf"
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.BaseDir, name)
}
