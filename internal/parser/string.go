package parser

import (
	"strconv"
	"strings"

	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/config"
	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/lexer"
	"github.com/perlfront/perlfront/internal/token"
)

// parseStringToken handles an already-lexed "/'/` STRING token: the lexer
// fixture pre-delimits these, so only interpolation and escape
// decoding remain the parser's job.
func (p *Parser) parseStringToken(t token.Token) (ast.Node, error) {
	idx := p.cur.Index()
	p.cur.ConsumeKind(token.STRING)
	switch t.StringFlag {
	case token.StrSingle:
		return ast.NewString(idx, singleQuoteUnescape(t.Text), false), nil
	case token.StrBacktick:
		inner, err := p.parseInterpolatedSegment(idx, t.Text, false)
		if err != nil {
			return nil, err
		}
		return ast.NewOperator(idx, "qx", inner), nil
	default:
		return p.parseInterpolatedSegment(idx, t.Text, false)
	}
}

// quoteLikeKeywords is consulted by primary.go; declared there.

// parseQuoteLike implements the raw delimited scanner and segment parser
// for q//, qq//, qx//, qw//, qr//, m//, s///, tr///, y///. The cursor sits
// on the opening delimiter character at entry (either just after the
// keyword identifier, or at a bare "/"/"//" routed here as "m").
func (p *Parser) parseQuoteLike(kw string) (ast.Node, error) {
	idx := p.cur.Index()
	p.skipRawWhitespace()

	open := p.cur.ConsumeChar()
	if open == "" {
		return nil, p.errorf(diagnostics.UnexpectedToken, "EOF, expecting a delimiter for %s", kw)
	}
	closeDelim := matchingDelim(open)

	buf1, err := p.scanDelimited(open, closeDelim)
	if err != nil {
		return nil, err
	}

	var buf2 string
	needsTwoBuffers := kw == "s" || kw == "tr" || kw == "y"
	if needsTwoBuffers {
		open2, close2 := open, closeDelim
		if open != closeDelim {
			p.skipRawWhitespace()
			open2 = p.cur.ConsumeChar()
			close2 = matchingDelim(open2)
		}
		buf2, err = p.scanDelimited(open2, close2)
		if err != nil {
			return nil, err
		}
	}

	modifiers := p.scanModifiers()

	switch kw {
	case "q":
		return ast.NewString(idx, unescapeDelimited(buf1, open, closeDelim), false), nil

	case "qq":
		return p.parseInterpolatedSegment(idx, buf1, false)

	case "qx":
		inner, err := p.parseInterpolatedSegment(idx, buf1, false)
		if err != nil {
			return nil, err
		}
		return ast.NewOperator(idx, "qx", inner), nil

	case "qw":
		return p.buildQwList(idx, buf1), nil

	case "qr":
		pat, err := p.parseInterpolatedSegment(idx, buf1, true)
		if err != nil {
			return nil, err
		}
		op := ast.NewOperator(idx, "qr", pat)
		op.Flags["modifiers"+modifiers] = true
		return op, nil

	case "m":
		pat, err := p.parseInterpolatedSegment(idx, buf1, true)
		if err != nil {
			return nil, err
		}
		op := ast.NewOperator(idx, "match", pat)
		op.Flags["modifiers"+modifiers] = true
		return op, nil

	case "s":
		pat, err := p.parseInterpolatedSegment(idx, buf1, true)
		if err != nil {
			return nil, err
		}
		var repl ast.Node
		if eCount := strings.Count(modifiers, "e"); eCount > 0 {
			toks := lexer.New(buf2, p.ctx.FilePath).Tokenize()
			sub := New(toks, p.ctx)
			repl, err = sub.ParseExpression(0)
			if err != nil {
				return nil, err
			}
			// Each `e` beyond the first evaluates the previous result as
			// code again: /ee wraps the replacement in one string-eval.
			for i := 1; i < eCount; i++ {
				ev := &ast.EvalOperator{Keyword: "eval", Operand: repl, Snapshot: p.ctx.Symbols.Snapshot()}
				ev.SetTokenIndex(idx)
				repl = ev
			}
		} else {
			repl, err = p.parseInterpolatedSegment(idx, buf2, false)
			if err != nil {
				return nil, err
			}
		}
		op := ast.NewBinaryOperator(idx, "subst", pat, repl)
		op.Flags["modifiers"+modifiers] = true
		return op, nil

	case "tr", "y":
		op := ast.NewBinaryOperator(idx, "transliterate",
			ast.NewString(idx, buf1, false), ast.NewString(idx, buf2, false))
		op.Flags["modifiers"+modifiers] = true
		return op, nil
	}

	return nil, p.errorf(diagnostics.UnexpectedToken, "%q quote-like operator", kw)
}

func matchingDelim(open string) string {
	switch open {
	case "(":
		return ")"
	case "{":
		return "}"
	case "[":
		return "]"
	case "<":
		return ">"
	}
	return open
}

// scanDelimited collects characters up to the matching closeDelim,
// honoring nesting for paired brackets; a backslash escapes the next
// character only, and both are kept verbatim.
func (p *Parser) scanDelimited(open, closeDelim string) (string, error) {
	var sb strings.Builder
	depth := 1
	nesting := open != closeDelim

	for {
		ch := p.cur.PeekChar()
		if ch == "" {
			return sb.String(), p.errorf(diagnostics.MissingTerminator, "Can't find string terminator %q anywhere before EOF", closeDelim)
		}
		if ch == "\\" {
			sb.WriteString(p.cur.ConsumeChar())
			if next := p.cur.PeekChar(); next != "" {
				sb.WriteString(p.cur.ConsumeChar())
			}
			continue
		}
		if nesting && ch == open {
			depth++
			sb.WriteString(p.cur.ConsumeChar())
			continue
		}
		if ch == closeDelim {
			p.cur.ConsumeChar()
			depth--
			if depth == 0 {
				return sb.String(), nil
			}
			sb.WriteString(closeDelim)
			continue
		}
		sb.WriteString(p.cur.ConsumeChar())
	}
}

func (p *Parser) skipRawWhitespace() {
	for {
		ch := p.cur.PeekChar()
		if ch != " " && ch != "\t" && ch != "\n" && ch != "\r" {
			break
		}
		p.cur.ConsumeChar()
	}
}

func (p *Parser) scanModifiers() string {
	var sb strings.Builder
	for {
		ch := p.cur.PeekChar()
		if len(ch) != 1 || !isASCIILetter(ch[0]) {
			break
		}
		sb.WriteString(p.cur.ConsumeChar())
	}
	return sb.String()
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func (p *Parser) buildQwList(idx int, buf string) *ast.List {
	fields := strings.Fields(buf)
	elems := make([]ast.Node, len(fields))
	for i, f := range fields {
		elems[i] = ast.NewString(idx, f, false)
	}
	return ast.NewList(idx, elems, nil)
}

// singleQuoteUnescape handles the two escapes Perl honors inside single
// quotes: \\ and \'.
func singleQuoteUnescape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '\'') {
			sb.WriteByte(s[i+1])
			i++
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// unescapeDelimited is q//'s escaping rule: a backslash before the
// delimiter chars or another backslash is consumed, everything else is
// left verbatim.
func unescapeDelimited(s, open, closeDelim string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			next := string(s[i+1])
			if next == "\\" || next == open || next == closeDelim {
				sb.WriteByte(s[i+1])
				i++
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// caseEntry tracks one active \U/\L/\u/\l transform; oneShot entries
// (\u, \l) apply to exactly the next rendered character.
type caseEntry struct {
	mode    byte
	oneShot bool
}

// parseInterpolatedSegment is the segment parser for interpolating
// contexts: buf is re-tokenized with a fresh lexer pass over its own
// cursor, never the outer parser's, and walked character-by-character, accumulating literal runs and
// interpolated variable chunks into segments. isRegex leaves backslash
// escapes verbatim (regex engines own their own escape semantics) while
// still interpolating variables.
func (p *Parser) parseInterpolatedSegment(idx int, buf string, isRegex bool) (ast.Node, error) {
	toks := lexer.New(buf, p.ctx.FilePath).Tokenize()
	sub := New(toks, p.ctx)

	var segments []ast.Node
	var literal strings.Builder
	var caseStack []caseEntry
	quoteMeta := false

	appendLiteral := func(s string) {
		for _, r := range s {
			out := string(r)
			if quoteMeta && !isWordRune(r) {
				out = "\\" + out
			}
			if n := len(caseStack); n > 0 {
				top := caseStack[n-1]
				switch top.mode {
				case 'U', 'u':
					out = strings.ToUpper(out)
				case 'L', 'l':
					out = strings.ToLower(out)
				}
				if top.oneShot {
					caseStack = caseStack[:n-1]
				}
			}
			literal.WriteString(out)
		}
	}

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, ast.NewString(idx, literal.String(), false))
			literal.Reset()
		}
	}

	for {
		ch := sub.cur.PeekChar()
		if ch == "" {
			break
		}

		if ch == "\\" {
			sub.cur.ConsumeChar()
			next := sub.cur.PeekChar()
			switch next {
			case "Q":
				sub.cur.ConsumeChar()
				quoteMeta = true
			case "E":
				sub.cur.ConsumeChar()
				quoteMeta = false
				if len(caseStack) > 0 && !caseStack[len(caseStack)-1].oneShot {
					caseStack = caseStack[:len(caseStack)-1]
				}
			case "U":
				sub.cur.ConsumeChar()
				caseStack = append(caseStack, caseEntry{mode: 'U'})
			case "L":
				sub.cur.ConsumeChar()
				caseStack = append(caseStack, caseEntry{mode: 'L'})
			case "u":
				sub.cur.ConsumeChar()
				caseStack = append(caseStack, caseEntry{mode: 'u', oneShot: true})
			case "l":
				sub.cur.ConsumeChar()
				caseStack = append(caseStack, caseEntry{mode: 'l', oneShot: true})
			default:
				if isRegex {
					appendLiteral("\\")
					if next != "" {
						appendLiteral(sub.cur.ConsumeChar())
					}
				} else {
					appendLiteral(sub.decodeEscape())
				}
			}
			continue
		}

		if (ch == "$" || ch == "@") && sub.interpolatable() {
			flush()
			seg, err := sub.parseInterpolationChunk(ch)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
			continue
		}

		appendLiteral(sub.cur.ConsumeChar())
	}
	flush()

	switch len(segments) {
	case 0:
		return ast.NewString(idx, "", false), nil
	case 1:
		if s, ok := segments[0].(*ast.String); ok {
			return s, nil
		}
	}
	return ast.NewBinaryOperator(idx, "join", ast.NewString(idx, "", false), ast.NewList(idx, segments, nil)), nil
}

// interpolatable reports whether the "$"/"@" under the cursor should be
// treated as a variable reference rather than literal text: not followed
// by whitespace/EOF or by non-interpolating punctuation.
func (p *Parser) interpolatable() bool {
	m := p.cur.Mark()
	p.cur.ConsumeChar()
	next := p.cur.PeekChar()
	p.cur.Reset(m)
	if next == "" {
		return false
	}
	switch next {
	case " ", "\t", "\n", "\r", ")", "%", "|", "#", "\"", "\\", "?", "(":
		return false
	}
	return true
}

// parseInterpolationChunk parses one interpolated variable reference
// starting at sig ("$" or "@"), reusing the token-level sigil-variable
// and postfix-subscript machinery since scanning up to here
// always leaves the cursor token-aligned on the sigil. "@" wraps the
// result in a join($", ...).
func (p *Parser) parseInterpolationChunk(sig string) (ast.Node, error) {
	idx := p.cur.Index()
	node, err := p.parseSigilVariable()
	if err != nil {
		return nil, err
	}
	for {
		m := p.cur.Mark()
		t := p.cur.Peek()
		if t.Is(token.OP, "[") || t.Is(token.OP, "{") || t.Is(token.OP, "->") {
			node, err = p.parseInfix(node, t.Text, config.PrecArrow)
			if err != nil {
				return node, err
			}
			continue
		}
		p.cur.Reset(m)
		break
	}
	if sig == "@" {
		return ast.NewBinaryOperator(idx, "join", ast.NewString(idx, "$\"", false), node), nil
	}
	return node, nil
}

// decodeEscape decodes one backslash escape sequence (the backslash
// itself already consumed) into its literal character(s).
func (p *Parser) decodeEscape() string {
	ch := p.cur.ConsumeChar()
	switch ch {
	case "n":
		return "\n"
	case "t":
		return "\t"
	case "r":
		return "\r"
	case "f":
		return "\f"
	case "b":
		return "\b"
	case "a":
		return "\a"
	case "e":
		return "\x1b"
	case "\\":
		return "\\"
	case "\"":
		return "\""
	case "$":
		return "$"
	case "@":
		return "@"
	case "c":
		c2 := p.cur.ConsumeChar()
		if c2 == "" {
			return ""
		}
		return string(controlChar(c2[0]))
	case "x":
		if p.cur.PeekChar() == "{" {
			p.cur.ConsumeChar()
			var hex strings.Builder
			for p.cur.PeekChar() != "}" && p.cur.PeekChar() != "" {
				hex.WriteString(p.cur.ConsumeChar())
			}
			p.cur.ConsumeChar()
			return decodeHexRune(hex.String())
		}
		var hex strings.Builder
		for i := 0; i < 2; i++ {
			c := p.cur.PeekChar()
			if !isHexChar(c) {
				break
			}
			hex.WriteString(p.cur.ConsumeChar())
		}
		return decodeHexRune(hex.String())
	case "o":
		if p.cur.PeekChar() == "{" {
			p.cur.ConsumeChar()
			var oct strings.Builder
			for p.cur.PeekChar() != "}" && p.cur.PeekChar() != "" {
				oct.WriteString(p.cur.ConsumeChar())
			}
			p.cur.ConsumeChar()
			return decodeOctalRune(oct.String())
		}
		return ""
	case "N":
		if p.cur.PeekChar() == "{" {
			p.cur.ConsumeChar()
			for p.cur.PeekChar() != "}" && p.cur.PeekChar() != "" {
				p.cur.ConsumeChar()
			}
			p.cur.ConsumeChar()
			// Unicode character-name lookup needs a names database; out of
			// scope for a syntax-level parser, so \N{...} contributes nothing.
			return ""
		}
		return "N"
	case "0", "1", "2", "3", "4", "5", "6", "7":
		oct := ch
		for i := 0; i < 2; i++ {
			c := p.cur.PeekChar()
			if c < "0" || c > "7" {
				break
			}
			oct += p.cur.ConsumeChar()
		}
		return decodeOctalRune(oct)
	default:
		return ch
	}
}

func controlChar(b byte) byte {
	switch {
	case b == '@':
		return 0
	case b >= 'A' && b <= 'Z':
		return b - 'A' + 1
	case b >= 'a' && b <= 'z':
		return b - 'a' + 1
	case b >= '[' && b <= '_':
		return b - '[' + 27
	case b == '?':
		return 127
	}
	return b
}

func isHexChar(s string) bool {
	if len(s) != 1 {
		return false
	}
	b := s[0]
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func decodeHexRune(hex string) string {
	hex = strings.ReplaceAll(hex, "_", "")
	if hex == "" {
		return ""
	}
	n, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return ""
	}
	return string(rune(n))
}

func decodeOctalRune(oct string) string {
	if oct == "" {
		return ""
	}
	n, err := strconv.ParseInt(oct, 8, 32)
	if err != nil {
		return ""
	}
	return string(rune(n))
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
