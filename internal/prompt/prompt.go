// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt reads answers to console questions. All input is free
// text; the only interpretation done here is yes/no and trimming.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks questions on w and reads line answers from r.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Prompter reading from r and writing questions to w.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(r), out: w}
}

// Writer returns the writer questions are printed to.
func (p *Prompter) Writer() io.Writer { return p.out }

// Ask prints question and returns the trimmed answer. Reaching end of input
// yields an empty answer.
func (p *Prompter) Ask(question string) string {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return ""
	}
	return strings.TrimSpace(line)
}

// AskDefault is Ask with a fallback used for empty answers.
func (p *Prompter) AskDefault(question, fallback string) string {
	if answer := p.Ask(question); answer != "" {
		return answer
	}
	return fallback
}

// Confirm asks a yes/no question. Only "yes" or "y" (any case) count as yes.
func (p *Prompter) Confirm(question string) bool {
	switch strings.ToLower(p.Ask(question + " (yes/no): ")) {
	case "yes", "y":
		return true
	default:
		return false
	}
}

// Wait prints message and blocks until a line (or end of input) is read.
// There is no timeout.
func (p *Prompter) Wait(message string) {
	p.Ask(message)
}
