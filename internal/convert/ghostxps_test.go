// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	pathBins map[string]bool // binary -> whether LookPath succeeds
	files    map[string]bool // path -> whether IsFile reports true
	runFunc  func(name string, args []string, stderr io.Writer) error
	ran      []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.pathBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) IsFile(path string) bool {
	if m.files[path] {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (m *mockExecutor) Run(_ context.Context, name string, args []string, stderr io.Writer) error {
	m.ran = append(m.ran, name+" "+strings.Join(args, " "))
	if m.runFunc != nil {
		return m.runFunc(name, args, stderr)
	}
	return nil
}

func TestGhostXPSArgs(t *testing.T) {
	got := strings.Join(GhostXPSArgs("in.xps", "out.pdf"), " ")
	want := "-sDEVICE=pdfwrite -dNOPAUSE -dBATCH -dQUIET -sOutputFile=out.pdf in.xps"
	if got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestGhostXPSLocate(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		exec       *mockExecutor
		want       string
		wantErr    string
	}{
		{
			name:       "configured file",
			configured: "/opt/gs/gxps",
			exec:       &mockExecutor{files: map[string]bool{"/opt/gs/gxps": true}},
			want:       "/opt/gs/gxps",
		},
		{
			name:       "configured name on PATH",
			configured: "gxps",
			exec:       &mockExecutor{pathBins: map[string]bool{"gxps": true}},
			want:       "/usr/bin/gxps",
		},
		{
			name:       "configured but missing",
			configured: "/opt/gs/gxps",
			exec:       &mockExecutor{pathBins: map[string]bool{"gxps": true}},
			wantErr:    "configured path /opt/gs/gxps",
		},
		{
			name: "found on PATH",
			exec: &mockExecutor{pathBins: map[string]bool{"gxpswin64.exe": true}},
			want: "/usr/bin/gxpswin64.exe",
		},
		{
			name: "legacy install path",
			exec: &mockExecutor{files: map[string]bool{LegacyGhostXPSPath: true}},
			want: LegacyGhostXPSPath,
		},
		{
			name:    "nothing found",
			exec:    &mockExecutor{},
			wantErr: "set ghostxps_path",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &GhostXPSConverter{configured: tt.configured, exec: tt.exec}
			got, err := g.Locate()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGhostXPSConvert(t *testing.T) {
	tests := []struct {
		name    string
		runFunc func(name string, args []string, stderr io.Writer) error
		wantErr string
	}{
		{
			name: "writes output",
			runFunc: func(_ string, args []string, _ io.Writer) error {
				out := strings.TrimPrefix(args[4], "-sOutputFile=")
				return os.WriteFile(out, []byte("%PDF"), 0o644)
			},
		},
		{
			name: "non-zero exit",
			runFunc: func(_ string, _ []string, stderr io.Writer) error {
				io.WriteString(stderr, "Unrecoverable error\n")
				return errors.New("exit status 1")
			},
			wantErr: "exit status 1: Unrecoverable error",
		},
		{
			name:    "clean exit without output",
			runFunc: func(string, []string, io.Writer) error { return nil },
			wantErr: "wrote no",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			dst := filepath.Join(dir, "001_a.pdf")
			exec := &mockExecutor{pathBins: map[string]bool{"gxps": true}, runFunc: tt.runFunc}
			g := &GhostXPSConverter{exec: exec}

			err := g.Convert(context.Background(), "/in/a.xps", dst)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(exec.ran) != 1 || !strings.HasPrefix(exec.ran[0], "/usr/bin/gxps -sDEVICE=pdfwrite") {
				t.Errorf("ran = %v", exec.ran)
			}
		})
	}
}

func TestGhostXPSConvertMissingBinary(t *testing.T) {
	exec := &mockExecutor{}
	g := &GhostXPSConverter{exec: exec}
	if err := g.Convert(context.Background(), "a.xps", filepath.Join(t.TempDir(), "a.pdf")); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(exec.ran) != 0 {
		t.Errorf("nothing should run, ran = %v", exec.ran)
	}
}

func TestGhostXPSName(t *testing.T) {
	if got := NewGhostXPSConverter("").Name(); got != "ghostxps" {
		t.Errorf("name = %q", got)
	}
}
