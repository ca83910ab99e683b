package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/sqlschema/pkg/token"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// punctuation lists the characters that become single-character tokens.
// Any other character outside words, numbers and quotes is stray.
const punctuation = "!%&()*+,-./;<=>@^|~"

// Lexer converts source text into tokens.
type Lexer struct {
	file  string
	input string
	pos   int // current offset in input

	tokens []token.Token
	lower  cases.Caser
}

// NewLexer creates a lexer for the given input. file is used only in
// error messages.
func NewLexer(file, input string) *Lexer {
	return &Lexer{
		file:  file,
		input: input,
		lower: cases.Lower(language.Und),
	}
}

// Tokenize returns all tokens of the input. The final token is always a
// single EOF token with Start == End == len(input).
func Tokenize(file, input string) ([]token.Token, error) {
	l := NewLexer(file, input)
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *Lexer) run() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		next := l.peekChar()

		switch {
		case ch == '-' && next == '-', ch == '#':
			l.skipLineComment()
		case ch == '/' && next == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		case ch == ' ', ch == '\t', ch == '\n', ch == '\r', ch == '\f', ch == '\v':
			l.pos++
		case ch == '\'':
			if err := l.readQuoted(l.pos, l.pos, '\'', token.String, true); err != nil {
				return err
			}
		case (ch == 'N' || ch == 'n') && next == '\'':
			// National character prefix; all text is Unicode already.
			if err := l.readQuoted(l.pos, l.pos+1, '\'', token.String, true); err != nil {
				return err
			}
		case ch == '"':
			if err := l.readQuoted(l.pos, l.pos, '"', token.QuotedName, true); err != nil {
				return err
			}
		case ch == '`':
			if err := l.readQuoted(l.pos, l.pos, '`', token.QuotedName, true); err != nil {
				return err
			}
		case ch == '[':
			if err := l.readQuoted(l.pos, l.pos, ']', token.QuotedName, false); err != nil {
				return err
			}
		case isDigit(ch), ch == '.' && isDigit(next):
			l.readNumber()
		case isLetter(ch) || ch == '_':
			l.readWord()
		case ch >= utf8.RuneSelf:
			if err := l.readUnicode(); err != nil {
				return err
			}
		default:
			if err := l.readOperator(ch, next); err != nil {
				return err
			}
		}
	}

	l.emit(token.Token{Start: len(l.input), End: len(l.input), Kind: token.EOF})
	return nil
}

// peekChar returns the character after the current one, or 0 at the end.
func (l *Lexer) peekChar() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) emit(tok token.Token) {
	l.tokens = append(l.tokens, tok)
	l.pos = tok.End
}

func (l *Lexer) errorf(start int, kind error, format string, args ...any) error {
	loc := token.Location{File: l.file, Text: l.input, Start: start}
	return token.Errorf(loc, kind, format, args...)
}

func (l *Lexer) skipLineComment() {
	i := strings.IndexByte(l.input[l.pos:], '\n')
	if i < 0 {
		l.pos = len(l.input)
		return
	}
	l.pos += i
}

// skipBlockComment skips a /* */ comment. Comments do not nest.
func (l *Lexer) skipBlockComment() error {
	i := strings.Index(l.input[l.pos+2:], "*/")
	if i < 0 {
		return l.errorf(l.pos, token.ErrUnclosedComment, "unclosed /*")
	}
	l.pos += 2 + i + 2
	return nil
}

// readOperator emits a punctuation or operator token.
func (l *Lexer) readOperator(ch, next byte) error {
	start := l.pos
	kind := token.Kind(ch)
	end := start + 1

	switch ch {
	case '|':
		if next == '|' {
			kind, end = token.DoublePipe, start+2
		}
	case '!':
		switch next {
		case '=':
			kind, end = token.NotEqual, start+2
		case '<':
			// Transact-SQL "not less than".
			kind, end = token.GreaterEqual, start+2
		case '>':
			kind, end = token.LessEqual, start+2
		}
	case '<':
		switch next {
		case '=':
			kind, end = token.LessEqual, start+2
		case '>':
			kind, end = token.NotEqual, start+2
		}
	case '>':
		if next == '=' {
			kind, end = token.GreaterEqual, start+2
		}
	default:
		if strings.IndexByte(punctuation, ch) < 0 {
			return l.errorf(start, token.ErrStrayCharacter, "stray %q", rune(ch))
		}
	}

	l.emit(token.Token{Start: start, End: end, Kind: kind})
	return nil
}

// readQuoted reads a quoted name or string literal. start is where the
// token begins and open is the offset of the opening quote character;
// they differ only for N'...' literals. A doubled closing character stands
// for itself, and when backslash is set so does a backslash followed by the
// closing character or another backslash.
func (l *Lexer) readQuoted(start, open int, closing byte, kind token.Kind, backslash bool) error {
	var sb strings.Builder
	i := open + 1
	for {
		if i >= len(l.input) {
			return l.errorf(start, token.ErrUnclosedQuote, "unclosed %c", l.input[open])
		}
		ch := l.input[i]
		switch {
		case ch == closing:
			if i+1 < len(l.input) && l.input[i+1] == closing {
				sb.WriteByte(closing)
				i += 2
				continue
			}
			l.emit(token.Token{Start: start, End: i + 1, Kind: kind, Value: sb.String()})
			return nil
		case ch == '\\' && backslash && i+1 < len(l.input) &&
			(l.input[i+1] == closing || l.input[i+1] == '\\'):
			sb.WriteByte(l.input[i+1])
			i += 2
		default:
			sb.WriteByte(ch)
			i++
		}
	}
}

// readNumber reads a run of word characters with at most one decimal point.
// The text is kept as written.
func (l *Lexer) readNumber() {
	start := l.pos
	i := start
	if l.input[i] == '.' {
		i = l.skipWordChars(i + 1)
	} else {
		i = l.skipWordChars(i)
		if i < len(l.input) && l.input[i] == '.' {
			i = l.skipWordChars(i + 1)
		}
	}
	l.emit(token.Token{Start: start, End: i, Kind: token.Number, Value: l.input[start:i]})
}

// readWord reads an identifier or keyword, folded to lower case.
func (l *Lexer) readWord() {
	start := l.pos
	end := l.skipWordChars(start)
	l.emit(token.Token{Start: start, End: end, Kind: token.Word, Value: l.fold(l.input[start:end])})
}

// readUnicode classifies a character outside ASCII.
func (l *Lexer) readUnicode() error {
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	switch {
	case unicode.IsSpace(r):
		l.pos += size
	case unicode.IsLetter(r):
		l.readWord()
	case unicode.IsDigit(r):
		l.readNumber()
	default:
		return l.errorf(l.pos, token.ErrStrayCharacter, "stray %q", r)
	}
	return nil
}

func (l *Lexer) skipWordChars(i int) int {
	for i < len(l.input) {
		ch := l.input[i]
		if ch < utf8.RuneSelf {
			if !isLetter(ch) && !isDigit(ch) && ch != '_' {
				return i
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(l.input[i:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return i
		}
		i += size
	}
	return i
}

func (l *Lexer) fold(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return l.lower.String(s)
		}
	}
	return strings.ToLower(s)
}

// isLetter reports whether ch is an ASCII letter.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

// isDigit reports whether ch is an ASCII digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
