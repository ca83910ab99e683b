package format

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/sqlschema/pkg/ast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ambiguous lists words that would start a table constraint if they began a
// column definition, so they are always quoted.
var ambiguous = map[string]bool{
	"check":      true,
	"constraint": true,
	"foreign":    true,
	"fulltext":   true,
	"index":      true,
	"key":        true,
	"primary":    true,
	"spatial":    true,
	"unique":     true,
}

// Ident returns s as it should appear in SQL: bare if it reads back as the
// same word, otherwise double-quoted with embedded quotes doubled.
func Ident(s string) string {
	if isPlainWord(s) && !ambiguous[s] {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Name renders a qualified name.
func Name(q *ast.QualifiedName) string {
	p := NewPrinter()
	p.Name(q.Names)
	return p.String()
}

// String renders a string literal with embedded quotes doubled.
func String(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func isPlainWord(s string) bool {
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r != '_' && !unicode.IsLetter(r) {
		return false
	}
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	// Words are folded when read back, so anything with upper case must be quoted.
	return cases.Lower(language.Und).String(s) == s
}
