// Package output renders command results for a terminal or a pipe.
//
// Text goes through lipgloss styles that are only coloured when stdout is
// a terminal; tables use go-pretty; json and yaml output encodes plain
// values for scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Renderer writes command output in one format.
type Renderer struct {
	w      io.Writer
	errW   io.Writer
	format string
	styles *Styles
}

// NewRenderer creates a renderer writing results to w and diagnostics to errW.
// Text is styled only when w is a terminal.
func NewRenderer(w, errW io.Writer, format string) *Renderer {
	return NewRendererWithTTY(w, errW, IsTerminal(w), format)
}

// NewRendererWithTTY creates a renderer with explicit terminal state.
func NewRendererWithTTY(w, errW io.Writer, isTTY bool, format string) *Renderer {
	if format == "" {
		format = FormatText
	}
	return &Renderer{
		w:      w,
		errW:   errW,
		format: format,
		styles: NewStyles(isTTY),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Format returns the output format.
func (r *Renderer) Format() string {
	return r.format
}

// Structured reports whether output is json or yaml.
func (r *Renderer) Structured() bool {
	return r.format == FormatJSON || r.format == FormatYAML
}

// Writer returns the result writer.
func (r *Renderer) Writer() io.Writer {
	return r.w
}

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Println writes a line of text.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// Printf writes formatted text.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format, a...)
}

// Print writes text as is.
func (r *Renderer) Print(text string) {
	_, _ = io.WriteString(r.w, text)
}

// Header writes a styled heading line.
func (r *Renderer) Header(text string) {
	r.Println(r.styles.Header.Render(text))
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render(msg))
}

// Muted writes de-emphasised text.
func (r *Renderer) Muted(msg string) {
	r.Println(r.styles.Muted.Render(msg))
}

// Warning writes a warning to the diagnostics writer.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errW, r.styles.Warning.Render("Warning: "+msg))
}

// Error writes an error to the diagnostics writer.
func (r *Renderer) Error(err error) {
	_, _ = fmt.Fprintln(r.errW, r.styles.Error.Render("Error: "+err.Error()))
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Encode writes v in the renderer's structured format, JSON unless yaml
// was asked for.
func (r *Renderer) Encode(v any) error {
	if r.format == FormatYAML {
		return r.YAML(v)
	}
	return r.JSON(v)
}

// Table writes rows under a header as a table.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}
	t.Render()
}
