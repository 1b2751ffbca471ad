// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/xpsmerge/internal/opener"
	"github.com/pdiddy/xpsmerge/internal/pdf"
	"github.com/pdiddy/xpsmerge/internal/prompt"
)

// ErrDeclined is returned when the user chooses not to convert by hand.
var ErrDeclined = errors.New("manual conversion declined")

// ManualConverter asks the user to print the document to PDF themselves.
// It opens the source in the default viewer and blocks, without a timeout,
// until the user confirms.
type ManualConverter struct {
	prompter *prompt.Prompter
	opener   opener.Opener
}

// NewManualConverter returns a manual converter talking through p and
// opening files with o.
func NewManualConverter(p *prompt.Prompter, o opener.Opener) *ManualConverter {
	return &ManualConverter{prompter: p, opener: o}
}

func (m *ManualConverter) Name() string { return "manual" }

// Opener returns the opener documents are shown with.
func (m *ManualConverter) Opener() opener.Opener { return m.opener }

// Convert walks the user through a manual conversion of src to dst. When
// dst is still missing afterwards the user may name another file, which is
// copied to dst.
func (m *ManualConverter) Convert(ctx context.Context, src, dst string) error {
	if !m.prompter.Confirm("Convert this file manually?") {
		return ErrDeclined
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w := m.prompter.Writer()
	fmt.Fprintf(w, "Opening %s\n", src)
	if err := m.opener.Open(src); err != nil {
		fmt.Fprintf(w, "  warning: %v\n  open the file yourself to continue\n", err)
	}
	fmt.Fprintln(w, "Follow these steps:")
	fmt.Fprintln(w, "  1. Print the document (Ctrl+P) once it is open")
	fmt.Fprintln(w, "  2. Choose a PDF printer (e.g. \"Microsoft Print to PDF\")")
	fmt.Fprintf(w, "  3. Save the file as: %s\n", dst)

	m.prompter.Wait("\nPress ENTER after the PDF has been saved...")

	if pdf.Exists(dst) {
		return nil
	}

	alt := m.prompter.Ask("If you saved it somewhere else, enter the full path (ENTER to skip): ")
	if alt == "" {
		return fmt.Errorf("no PDF at %s", dst)
	}
	if !pdf.Exists(alt) {
		return fmt.Errorf("no PDF at %s", alt)
	}
	if err := pdf.CopyFile(alt, dst); err != nil {
		return err
	}
	fmt.Fprintf(w, "copied: %s -> %s\n", alt, dst)
	return nil
}
