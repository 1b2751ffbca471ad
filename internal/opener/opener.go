// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package opener hands a file to the operating system's default
// application, the way a double click in a file manager would.
package opener

import (
	"fmt"
	"os"

	"github.com/skratchdot/open-golang/open"
)

// Opener opens files with the platform's default handler.
type Opener interface {
	// Name identifies the opener in status output.
	Name() string

	// Open starts the default application for path and returns without
	// waiting for it to exit.
	Open(path string) error
}

// System opens files through the desktop's file association
// (xdg-open, open, or the Windows shell).
type System struct {
	start func(input string) error
	app   string
}

// Default returns a System opener using the platform default application.
func Default() *System {
	return &System{start: open.Start}
}

// WithApp returns a System opener that always uses the named application
// instead of the file association.
func WithApp(app string) *System {
	return &System{
		start: func(input string) error { return open.StartWith(input, app) },
		app:   app,
	}
}

func (s *System) Name() string {
	if s.app != "" {
		return s.app
	}
	return "default application"
}

// Open checks that path exists and launches the application for it.
func (s *System) Open(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("opening %s: is a directory", path)
	}
	if err := s.start(path); err != nil {
		return fmt.Errorf("opening %s with %s: %w", path, s.Name(), err)
	}
	return nil
}
