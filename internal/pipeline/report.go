// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/xpsmerge/pkg/types"
)

// Report is the YAML record of a finished run.
type Report struct {
	GeneratedAt time.Time              `yaml:"generated_at"`
	InputDir    string                 `yaml:"input_dir"`
	Output      string                 `yaml:"output"`
	Compression types.CompressionLevel `yaml:"compression"`
	Pages       int                    `yaml:"pages"`
	InputBytes  int64                  `yaml:"merged_bytes"`
	OutputBytes int64                  `yaml:"output_bytes"`
	Fallback    bool                   `yaml:"compression_fallback"`
	Documents   []ReportDocument       `yaml:"documents"`
}

// ReportDocument records the fate of one source document.
type ReportDocument struct {
	Source       string               `yaml:"source"`
	Intermediate string               `yaml:"intermediate,omitempty"`
	Tier         types.ConversionTier `yaml:"tier"`
}

// ReportPath returns the report location for an output document:
// "out.pdf" becomes "out.report.yaml", whatever the extension's case.
func ReportPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".report.yaml"
}

// BuildReport assembles the report for a run, listing sources in order.
func BuildReport(cfg types.RunConfig, res Result) Report {
	tiers := make(map[string]types.IntermediateDocument, len(res.Conversion.Converted))
	for _, d := range res.Conversion.Converted {
		tiers[d.Source.Path] = d
	}

	r := Report{
		GeneratedAt: time.Now().UTC(),
		InputDir:    cfg.InputDir,
		Output:      res.OutputPath,
		Compression: cfg.Compression,
		Pages:       res.MergedPages,
		InputBytes:  res.Compression.InputSize,
		OutputBytes: res.Compression.OutputSize,
		Fallback:    res.Compression.Fallback,
	}
	for _, s := range res.Sources {
		doc := ReportDocument{Source: s.Path, Tier: types.TierNone}
		if d, ok := tiers[s.Path]; ok {
			doc.Intermediate = d.Path
			doc.Tier = d.Tier
		}
		r.Documents = append(r.Documents, doc)
	}
	return r
}

// WriteReport writes the run report as YAML to path.
func WriteReport(path string, cfg types.RunConfig, res Result) error {
	data, err := yaml.Marshal(BuildReport(cfg, res))
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
