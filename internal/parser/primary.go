package parser

import (
	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/config"
	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/token"
)

// quoteLikeKeywords dispatch to the String/Quote Engine.
var quoteLikeKeywords = map[string]bool{
	"q": true, "qq": true, "qx": true, "qw": true, "qr": true,
	"m": true, "s": true, "tr": true, "y": true,
}

var declaratorKeywords = map[string]bool{
	"my": true, "our": true, "state": true, "local": true,
}

// parsePrimary dispatches on the leading token.
func (p *Parser) parsePrimary() (ast.Node, error) {
	if err := p.skipInlineNewlines(); err != nil {
		return nil, err
	}
	t := p.cur.Peek()
	idx := p.cur.Index()

	switch {
	case t.Kind == token.NUMBER:
		p.cur.Consume()
		return ast.NewNumber(idx, t.Text, t.NumberFlag == token.NumVString), nil

	case t.Kind == token.STRING:
		return p.parseStringToken(t)

	case t.Kind == token.OP && (t.Text == "<<" || t.Text == "<<~"):
		return p.parseHeredocIntro()

	case t.Kind == token.OP && sigilTexts[t.Text]:
		return p.parseSigilVariable()

	case t.Is(token.OP, "("):
		return p.parseParenthesized()

	case t.Is(token.OP, "["):
		return p.parseArrayLiteral()

	case t.Is(token.OP, "{"):
		return p.parseHashLiteral()

	case t.Is(token.OP, "\\"):
		p.cur.Consume()
		operand, err := p.ParseExpression(config.PrecUnaryPrefix)
		if err != nil {
			return nil, err
		}
		return ast.NewOperator(idx, "\\", operand), nil

	case t.Is(token.OP, "!") || t.Is(token.OP, "~"):
		p.cur.Consume()
		operand, err := p.ParseExpression(config.PrecUnaryPrefix)
		if err != nil {
			return nil, err
		}
		return ast.NewOperator(idx, t.Text, operand), nil

	case t.Is(token.OP, "-") && p.atFileTestLetter():
		p.cur.Consume()
		letter, _ := p.cur.ConsumeKind(token.IDENT)
		info, _ := config.LookupCoreOp("-" + letter.Text)
		return p.parseCoreOpCall("-"+letter.Text, info, idx)

	case t.Is(token.OP, "-") || t.Is(token.OP, "+"):
		p.cur.Consume()
		operand, err := p.ParseExpression(config.PrecUnaryPrefix)
		if err != nil {
			return nil, err
		}
		return ast.NewOperator(idx, "unary"+t.Text, operand), nil

	case t.Is(token.OP, "++") || t.Is(token.OP, "--"):
		p.cur.Consume()
		operand, err := p.ParseExpression(config.PrecIncDec)
		if err != nil {
			return nil, err
		}
		return ast.NewOperator(idx, "prefix"+t.Text, operand), nil

	case t.Kind == token.IDENT && t.Text == "not":
		p.cur.Consume()
		operand, err := p.ParseExpression(config.PrecNot)
		if err != nil {
			return nil, err
		}
		return ast.NewOperator(idx, "not", operand), nil

	case t.Kind == token.OP && (t.Text == "/" || t.Text == "//"):
		return p.parseQuoteLike("m")

	case t.Kind == token.IDENT && (declaratorKeywords[t.Text] || (t.Text == "field" && p.classDepth > 0)):
		return p.parseDeclaratorExpr()

	case t.Kind == token.IDENT && quoteLikeKeywords[t.Text]:
		kw := t.Text
		// A quote-like keyword is only such when immediately followed by a
		// delimiter character, not when it is itself a plain call/bareword
		// (e.g. a sub actually named `s`). The fixture lexer cannot tell
		// these apart by whitespace, so presence of *any* following token
		// other than "=>" is treated as the start of a delimiter, matching how Perl's own tokenizer must
		// special-case these names.
		if p.cur.PeekAt(1).Is(token.OP, "=>") {
			p.cur.Consume()
			return ast.NewIdentifier(idx, kw), nil
		}
		p.cur.Consume()
		return p.parseQuoteLike(kw)

	case t.Kind == token.IDENT && t.Text == "sub":
		return p.parseAnonSub()

	case t.Kind == token.IDENT && t.Text == "do":
		return p.parseDoExpr()

	case t.Kind == token.IDENT && (t.Text == "eval" || t.Text == "evalbytes"):
		return p.parseEvalExpr()

	case t.Kind == token.OP && t.Text == "<":
		return p.parseDiamond()

	case t.Kind == token.IDENT:
		return p.parseBarewordPrimary()

	default:
		p.cur.Consume()
		return nil, p.errorf(diagnostics.UnexpectedToken, "%q", t.Text)
	}
}

// atFileTestLetter reports whether the "-" under the cursor begins a file
// test (-e, -f, -d, ...): a single-letter identifier with a matching
// core-op table entry follows immediately.
func (p *Parser) atFileTestLetter() bool {
	next := p.cur.PeekAt(1)
	if next.Kind != token.IDENT || len(next.Text) != 1 {
		return false
	}
	_, ok := config.LookupCoreOp("-" + next.Text)
	return ok
}

func (p *Parser) parseParenthesized() (ast.Node, error) {
	defer p.suspendListBound()()
	idx := p.cur.Index()
	p.cur.Consume() // "("
	list, err := p.ParseCommaList()
	if err != nil {
		return list, err
	}
	if _, err := p.expect(token.OP, ")"); err != nil {
		return list, err
	}
	list.SetTokenIndex(idx)
	return list, nil
}

func (p *Parser) parseArrayLiteral() (ast.Node, error) {
	defer p.suspendListBound()()
	idx := p.cur.Index()
	p.cur.Consume() // "["
	list, err := p.ParseCommaList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OP, "]"); err != nil {
		return nil, err
	}
	return ast.NewArrayLiteral(idx, list.Elements), nil
}

func (p *Parser) parseHashLiteral() (ast.Node, error) {
	defer p.suspendListBound()()
	idx := p.cur.Index()
	p.cur.Consume() // "{"
	list, err := p.ParseCommaList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OP, "}"); err != nil {
		return nil, err
	}
	return ast.NewHashLiteral(idx, list.Elements), nil
}

// parseBarewordPrimary handles the bareword-identifier branch of primary
// dispatch: core-op calls, or a bare (possibly package-qualified) name
// left for the Infix Parser to turn into an autoquoted string, a call, or
// the left side of `->`.
func (p *Parser) parseBarewordPrimary() (ast.Node, error) {
	idx := p.cur.Index()
	t, _ := p.cur.ConsumeKind(token.IDENT)

	if info, ok := config.LookupCoreOp(t.Text); ok {
		return p.parseCoreOpCall(t.Text, info, idx)
	}

	return ast.NewIdentifier(idx, t.Text), nil
}

// parseDiamond handles `<$fh>`, `<STDIN>`/`<DATA>`/`<ARGV>`, and a
// generic raw glob pattern.
func (p *Parser) parseDiamond() (ast.Node, error) {
	idx := p.cur.Index()
	p.cur.Consume() // "<"

	if t := p.cur.Peek(); t.Kind == token.OP && sigilTexts[t.Text] {
		inner, err := p.parseSigilVariable()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.OP, ">"); err != nil {
			return nil, err
		}
		return ast.NewOperator(idx, "readline", inner), nil
	}

	if t, ok := p.cur.ConsumeKind(token.IDENT); ok {
		if _, err := p.expect(token.OP, ">"); err != nil {
			return nil, err
		}
		return ast.NewOperator(idx, "readline", ast.NewIdentifier(idx, t.Text)), nil
	}

	// Generic raw glob pattern: collect raw chars up to ">".
	var text string
	for {
		ch := p.cur.PeekChar()
		if ch == "" || ch == ">" {
			break
		}
		text += p.cur.ConsumeChar()
	}
	if _, err := p.expect(token.OP, ">"); err != nil {
		return nil, err
	}
	return ast.NewOperator(idx, "glob", ast.NewString(idx, text, false)), nil
}
