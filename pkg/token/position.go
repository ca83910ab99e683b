package token

import (
	"fmt"
	"strings"
)

// Location identifies a point in a source document. Text is the whole
// document; many locations share it and it is never modified.
type Location struct {
	File  string
	Text  string
	Start int // 0-based byte offset
}

// Line returns the 1-based line number of the location.
func (l Location) Line() int {
	end := l.Start
	if end > len(l.Text) {
		end = len(l.Text)
	}
	return strings.Count(l.Text[:end], "\n") + 1
}

// String renders the location as file:line.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line())
}

// Span is a contiguous range of the source, text[Location.Start:End].
type Span struct {
	Location Location
	End      int
}

// Text returns the verbatim source covered by the span.
func (s Span) Text() string {
	return s.Location.Text[s.Location.Start:s.End]
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Location.Start
}
