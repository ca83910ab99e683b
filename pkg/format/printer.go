// Package format renders identifiers, qualified names and expressions back
// to canonical SQL text.
package format

import (
	"strings"
)

// Printer accumulates canonical SQL text.
type Printer struct {
	output strings.Builder
}

// NewPrinter returns an empty printer.
func NewPrinter() *Printer {
	return &Printer{}
}

// String returns the text written so far.
func (p *Printer) String() string {
	return p.output.String()
}

// Write appends raw text.
func (p *Printer) Write(s string) {
	p.output.WriteString(s)
}

// Ident appends a single name part, quoting it when necessary.
func (p *Printer) Ident(s string) {
	p.Write(Ident(s))
}

// Name appends a qualified name.
func (p *Printer) Name(parts []string) {
	for i, s := range parts {
		if i > 0 {
			p.Write(".")
		}
		p.Ident(s)
	}
}

// List appends count items separated by sep.
func (p *Printer) List(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		if i > 0 {
			p.Write(sep)
		}
		format(i)
	}
}
