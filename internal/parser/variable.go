package parser

import (
	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/token"
)

// sigilTexts is the set of sigil characters the Identifier & Variable Parser
// dispatches on. "$#" is pre-merged into one token by the
// lexer fixture's multiCharOps table.
var sigilTexts = map[string]bool{"$": true, "@": true, "%": true, "&": true, "*": true, "$#": true}

// looksLikeNameStart reports whether t can begin a variable name: simple,
// qualified, braced, or control-char forms.
func looksLikeNameStart(t token.Token) bool {
	switch t.Kind {
	case token.IDENT, token.NUMBER:
		return true
	case token.OP:
		return t.Text == "{" || t.Text == "^"
	}
	return false
}

// parseSigilVariable is entered with the sigil token already the current
// (unconsumed) token. It consumes the sigil and everything needed to
// complete one variable reference, including nested "$$x" dereference
// chains.
func (p *Parser) parseSigilVariable() (ast.Node, error) {
	idx := p.cur.Index()
	sig, _ := p.cur.ConsumeKind(token.OP)

	next := p.cur.Peek()

	// Stacked sigil: another sigil character immediately follows, and what
	// comes after THAT looks like it continues a name — this is a
	// dereference chain ($$ref, @$ref, %$ref, &$ref, $$$ref, ...).
	if sigilTexts[next.Text] && next.Kind == token.OP {
		afterNext := p.cur.PeekAt(1)
		if looksLikeNameStart(afterNext) || sigilTexts[afterNext.Text] {
			inner, err := p.parseSigilVariable()
			if err != nil {
				return nil, err
			}
			return ast.NewOperator(idx, sig.Text, inner), nil
		}
	}

	name, err := p.parseVariableName()
	if err != nil {
		return nil, err
	}
	return ast.NewOperator(idx, sig.Text, name), nil
}

// parseVariableName consumes one name that follows a sigil: a braced
// form `{name}` or `{ EXPR }`, a control-char name `^X`, a plain/
// qualified identifier, a numeric capture-group name ($1, $2, ...), or a
// single punctuation character standing for a special variable ($@, $!,
// $/, $$ the PID, ...).
func (p *Parser) parseVariableName() (ast.Node, error) {
	idx := p.cur.Index()
	t := p.cur.Peek()

	switch {
	case t.Is(token.OP, "{"):
		p.cur.Consume()
		if id, ok := p.cur.ConsumeKind(token.IDENT); ok {
			if _, err := p.expect(token.OP, "}"); err != nil {
				return nil, err
			}
			return ast.NewIdentifier(idx, id.Text), nil
		}
		inner, err := p.ParseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.OP, "}"); err != nil {
			return nil, err
		}
		return inner, nil

	case t.Is(token.OP, "^"):
		p.cur.Consume()
		id, err := p.expectKind(token.IDENT)
		if err != nil {
			return nil, err
		}
		return ast.NewIdentifier(idx, "^"+id.Text), nil

	case t.Kind == token.IDENT:
		p.cur.Consume()
		return ast.NewIdentifier(idx, t.Text), nil

	case t.Kind == token.NUMBER:
		p.cur.Consume()
		return ast.NewIdentifier(idx, t.Text), nil

	case t.Kind == token.OP && t.Text != "":
		// A bare punctuation character standing in for a special variable
		// ($@, $!, $\, $/, $,, $;, $$ the pid, $0, ...).
		p.cur.Consume()
		return ast.NewIdentifier(idx, t.Text), nil

	default:
		return nil, p.errorf(diagnostics.UnexpectedToken, "%q, expecting a variable name", t.Text)
	}
}
