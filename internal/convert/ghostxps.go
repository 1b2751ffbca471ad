// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// LegacyGhostXPSPath is the Windows install location older setups assumed.
// It is only tried when no path is configured and nothing is found on PATH.
const LegacyGhostXPSPath = `C:\Program Files\gs\ghostxps-10.04.0-win64\gxpswin64.exe`

// ghostXPSNames are the binary names GhostXPS ships under.
var ghostXPSNames = []string{"gxps", "gxpswin64.exe", "gxpswin32.exe"}

// GhostXPSArgs returns the converter arguments for src and dst.
func GhostXPSArgs(src, dst string) []string {
	return []string{
		"-sDEVICE=pdfwrite",
		"-dNOPAUSE",
		"-dBATCH",
		"-dQUIET",
		"-sOutputFile=" + dst,
		src,
	}
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	IsFile(path string) bool
	Run(ctx context.Context, name string, args []string, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = stderr
	return cmd.Run()
}

// GhostXPSConverter converts by running the GhostXPS command-line tool and
// blocking until it exits. There is no timeout; cancelling ctx kills it.
type GhostXPSConverter struct {
	configured string
	exec       executor
}

// NewGhostXPSConverter returns a converter using the binary at path. An
// empty path means search PATH for the usual binary names and then the
// legacy Windows install location.
func NewGhostXPSConverter(path string) *GhostXPSConverter {
	return &GhostXPSConverter{configured: path, exec: defaultExec}
}

var defaultExec = &osExecutor{}

func (g *GhostXPSConverter) Name() string { return "ghostxps" }

// Locate returns the GhostXPS binary to run, or an error naming every
// location that was tried.
func (g *GhostXPSConverter) Locate() (string, error) {
	if g.configured != "" {
		if g.exec.IsFile(g.configured) {
			return g.configured, nil
		}
		if p, err := g.exec.LookPath(g.configured); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("GhostXPS not found at configured path %s", g.configured)
	}

	for _, name := range ghostXPSNames {
		if p, err := g.exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	if g.exec.IsFile(LegacyGhostXPSPath) {
		return LegacyGhostXPSPath, nil
	}
	return "", fmt.Errorf("GhostXPS not found: tried %s on PATH and %s; set ghostxps_path",
		strings.Join(ghostXPSNames, ", "), LegacyGhostXPSPath)
}

// Convert runs GhostXPS on src. It fails when the binary cannot be found,
// exits non-zero, or leaves no file at dst.
func (g *GhostXPSConverter) Convert(ctx context.Context, src, dst string) error {
	bin, err := g.Locate()
	if err != nil {
		return err
	}

	var stderr bytes.Buffer
	if err := g.exec.Run(ctx, bin, GhostXPSArgs(src, dst), &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("running %s: %w: %s", bin, err, msg)
		}
		return fmt.Errorf("running %s: %w", bin, err)
	}
	if !g.exec.IsFile(dst) {
		return fmt.Errorf("%s exited cleanly but wrote no %s", bin, dst)
	}
	return nil
}
