// Package lexer is a fixture/conformance tokenizer standing in for the
// external lexer collaborator, so the parser can be driven end-to-end from
// tests and the CLI.
//
// It produces the token kinds the parser's contract requires (IDENT,
// NUMBER, STRING, OP, WHITESPACE, NEWLINE, EOF) and nothing Perl-DSL-aware:
// quote-like operator bodies (q//, m//, s///, heredocs, ...) are tokenized
// blindly as ordinary code — the string engine and heredoc coordinator in
// internal/parser rescan those forms through the Cursor's character-level
// API, not via lexer cooperation.
package lexer

import (
	"strings"

	"github.com/perlfront/perlfront/internal/token"
)

type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	column       int
	file         string
}

func New(input, file string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0, file: file}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) peekCharAt(n int) byte {
	idx := l.readPosition + n - 1
	if idx >= len(l.input) {
		return 0
	}
	return l.input[idx]
}

func (l *Lexer) loc() token.SourceLocator {
	return token.SourceLocator{File: l.file, Line: l.line, Col: l.column}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
func isLetter(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
func isIdentPart(ch byte) bool { return isLetter(ch) || isDigit(ch) }

// Tokenize lexes the entire input into a token buffer suitable for
// token.NewCursor, skipping nothing — whitespace/newline tokens are
// preserved so the Cursor can decide what to skip.
func (l *Lexer) Tokenize() []token.Token {
	var out []token.Token
	for {
		tok := l.next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

func (l *Lexer) next() token.Token {
	switch {
	case l.ch == 0:
		return token.Token{Kind: token.EOF, Loc: l.loc()}
	case l.ch == '\n':
		loc := l.loc()
		l.readChar()
		return token.Token{Kind: token.NEWLINE, Text: "\n", Loc: loc}
	case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
		return l.lexWhitespace()
	case l.ch == '#':
		return l.lexComment()
	case l.ch == '"' || l.ch == '\'' || l.ch == '`':
		return l.lexQuotedString()
	case isDigit(l.ch) || (l.ch == 'v' && isDigit(l.peekChar())):
		return l.lexNumber()
	case isLetter(l.ch):
		return l.lexIdent()
	default:
		return l.lexOperator()
	}
}

func (l *Lexer) lexWhitespace() token.Token {
	loc := l.loc()
	start := l.position
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
	return token.Token{Kind: token.WHITESPACE, Text: l.input[start:l.position], Loc: loc}
}

func (l *Lexer) lexComment() token.Token {
	loc := l.loc()
	start := l.position
	for l.ch != 0 && l.ch != '\n' {
		l.readChar()
	}
	return token.Token{Kind: token.WHITESPACE, Text: l.input[start:l.position], Loc: loc}
}

// lexQuotedString handles the plain `"..."`/'...'`/`` `...` `` forms,
// handed over pre-delimited. Escapes are kept verbatim — the parser's
// segment parser is responsible for interpreting them.
func (l *Lexer) lexQuotedString() token.Token {
	loc := l.loc()
	delim := l.ch
	var sb strings.Builder
	l.readChar() // consume opening delimiter
	for l.ch != delim && l.ch != 0 {
		if l.ch == '\\' && l.peekChar() != 0 {
			sb.WriteByte(l.ch)
			l.readChar()
			sb.WriteByte(l.ch)
			l.readChar()
			continue
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	if l.ch == delim {
		l.readChar() // consume closing delimiter
	}
	flag := token.StrDouble
	switch delim {
	case '\'':
		flag = token.StrSingle
	case '`':
		flag = token.StrBacktick
	}
	return token.Token{Kind: token.STRING, Text: sb.String(), StringFlag: flag, Loc: loc}
}

func (l *Lexer) lexNumber() token.Token {
	loc := l.loc()
	start := l.position

	if l.ch == 'v' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
		for l.ch == '.' && isDigit(l.peekChar()) {
			l.readChar()
			for isDigit(l.ch) {
				l.readChar()
			}
		}
		return token.Token{Kind: token.NUMBER, Text: l.input[start:l.position], NumberFlag: token.NumVString, Loc: loc}
	}

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return token.Token{Kind: token.NUMBER, Text: l.input[start:l.position], NumberFlag: token.NumHex, Loc: loc}
	}
	if l.ch == '0' && (l.peekChar() == 'b' || l.peekChar() == 'B') {
		l.readChar()
		l.readChar()
		for l.ch == '0' || l.ch == '1' || l.ch == '_' {
			l.readChar()
		}
		return token.Token{Kind: token.NUMBER, Text: l.input[start:l.position], NumberFlag: token.NumBinary, Loc: loc}
	}
	if l.ch == '0' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return token.Token{Kind: token.NUMBER, Text: l.input[start:l.position], NumberFlag: token.NumOctal, Loc: loc}
	}

	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	flag := token.NumDecimal
	if l.ch == '.' && isDigit(l.peekChar()) {
		flag = token.NumDecimal
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		savePos, saveRead, saveCh := l.position, l.readPosition, l.ch
		saveLine, saveCol := l.line, l.column
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if isDigit(l.ch) {
			for isDigit(l.ch) {
				l.readChar()
			}
		} else {
			l.position, l.readPosition, l.ch = savePos, saveRead, saveCh
			l.line, l.column = saveLine, saveCol
		}
	}
	return token.Token{Kind: token.NUMBER, Text: l.input[start:l.position], NumberFlag: flag, Loc: loc}
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func (l *Lexer) lexIdent() token.Token {
	loc := l.loc()
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	// Package-qualified names: Foo::Bar, Foo'Bar.
	for (l.ch == ':' && l.peekChar() == ':') || (l.ch == '\'' && isLetter(l.peekChar())) {
		if l.ch == ':' {
			l.readChar()
			l.readChar()
		} else {
			l.readChar()
		}
		for isIdentPart(l.ch) {
			l.readChar()
		}
	}
	return token.Token{Kind: token.IDENT, Text: l.input[start:l.position], Loc: loc}
}

// multiCharOps is tried longest-first so greedy operators like "<=>" are
// not mis-split into "<=" + ">".
var multiCharOps = []string{
	"<=>", "**=", "...", "<<~", "//=", "||=", "&&=",
	"->", "=>", "::", "**", "++", "--", "==", "!=", "<=", ">=",
	"&&", "||", "//", "..", "=~", "!~", "+=", "-=", "*=", "/=",
	"%=", ".=", "|=", "&=", "^=", "<<", ">>", "$#",
}

func (l *Lexer) lexOperator() token.Token {
	loc := l.loc()
	rest := l.input[l.position:]
	for _, op := range multiCharOps {
		if strings.HasPrefix(rest, op) {
			for range op {
				l.readChar()
			}
			return token.Token{Kind: token.OP, Text: op, Loc: loc}
		}
	}
	ch := l.ch
	l.readChar()
	if ch == 0 {
		return token.Token{Kind: token.EOF, Loc: loc}
	}
	return token.Token{Kind: token.OP, Text: string(ch), Loc: loc}
}
