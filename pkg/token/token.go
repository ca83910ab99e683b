// Package token defines the lexical tokens produced by the SQL tokenizer.
//
// Single-character operator and punctuation tokens use the character itself
// as their Kind, so a parser can write p.check('(') directly. Every other kind
// is a negative constant and can never collide with a character code.
package token

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int32

// Token kinds that are not a single character.
const (
	EOF Kind = -(iota + 1)
	Word
	QuotedName
	String
	Number
	DoublePipe   // ||
	NotEqual     // != or <>
	LessEqual    // <= or !>
	GreaterEqual // >= or !<
)

var kindNames = map[Kind]string{
	EOF:          "end of file",
	Word:         "word",
	QuotedName:   "quoted name",
	String:       "string literal",
	Number:       "number",
	DoublePipe:   "||",
	NotEqual:     "<>",
	LessEqual:    "<=",
	GreaterEqual: ">=",
}

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if k > 0 {
		return fmt.Sprintf("'%c'", rune(k))
	}
	return fmt.Sprintf("KIND(%d)", int32(k))
}

// IsName reports whether tokens of this kind can be used as a name.
func (k Kind) IsName() bool {
	return k == Word || k == QuotedName
}

// Token is a lexical token spanning text[Start:End].
type Token struct {
	Start int
	End   int
	Kind  Kind

	// Value is the decoded content for words (lower case), quoted names,
	// strings and numbers. It is empty for operators; the lexeme can be
	// recovered from the offsets.
	Value string
}

// Is reports whether the token is the given word. Words are stored folded
// to lower case, so word must be lower case too.
func (t Token) Is(word string) bool {
	return t.Kind == Word && t.Value == word
}

func (t Token) String() string {
	switch t.Kind {
	case Word, Number:
		return t.Value
	case QuotedName:
		return fmt.Sprintf("%q", t.Value)
	case String:
		return fmt.Sprintf("'%s'", t.Value)
	}
	return t.Kind.String()
}
