//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and runs it on the XPS files in ./input, writing
// merged.pdf to the working directory. Set XPSMERGE_* variables to override
// any setting.
func Convert() error {
	mg.Deps(Init, Build)
	return sh.RunWithV(
		map[string]string{
			"XPSMERGE_INPUT_DIR": envOr("XPSMERGE_INPUT_DIR", "input"),
			"XPSMERGE_OUTPUT":    envOr("XPSMERGE_OUTPUT", "merged.pdf"),
		},
		filepath.Join(binDir, binName), "run",
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
