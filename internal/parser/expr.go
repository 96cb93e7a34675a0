package parser

import (
	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/config"
	"github.com/perlfront/perlfront/internal/token"
)

// ParseExpression is the precedence-climbing driver. minPrec
// is the precedence floor: the loop stops as soon as it sees an operator
// whose precedence does not exceed it, which is how a single call doubles
// as both "parse one operand" (minPrec == highest) and "parse a whole
// expression" (minPrec == 0).
func (p *Parser) ParseExpression(minPrec int) (ast.Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return left, err
	}

	for {
		if err := p.skipInlineNewlines(); err != nil {
			return left, err
		}
		t := p.cur.Peek()
		if p.isExprTerminator(t) {
			return left, nil
		}
		if p.listBound && t.Kind == token.IDENT && config.ListTerminators[t.Text] {
			return left, nil
		}

		opText, isOp := p.operatorText(t)
		if !isOp {
			return left, nil
		}
		prec, ok := config.Precedence[opText]
		if !ok || prec <= minPrec {
			return left, nil
		}

		nextPrec := prec
		if config.RightAssoc[opText] {
			nextPrec--
		}

		left, err = p.parseInfix(left, opText, nextPrec)
		if err != nil {
			return left, err
		}
	}
}

// operatorText resolves the token the loop is looking at to the string
// key config.Precedence/InfixSet are indexed by, handling the `x`
// identifier-keyword operator, coalescing `x` followed by `=` into the
// compound `x=` (the fixture lexer cannot merge these itself since `x`
// lexes as an identifier, not an operator character run).
func (p *Parser) operatorText(t token.Token) (string, bool) {
	if t.Kind != token.OP && t.Kind != token.IDENT {
		return "", false
	}
	if t.Kind == token.IDENT && t.Text == "x" && p.cur.PeekAt(1).Is(token.OP, "=") {
		return "x=", true
	}
	if !config.InfixSet[t.Text] {
		return "", false
	}
	return t.Text, true
}

// isExprTerminator reports whether t should stop expression parsing
// outright rather than being considered as an
// infix candidate.
func (p *Parser) isExprTerminator(t token.Token) bool {
	if t.Kind == token.EOF || t.Kind == token.NEWLINE {
		return true
	}
	if t.Kind == token.OP && config.Terminators[t.Text] {
		return true
	}
	if t.Kind == token.IDENT && config.Terminators[t.Text] {
		return true
	}
	return false
}

// isListTerminator additionally stops comma-list parsing on `not`/`and`/
// `or`.
func (p *Parser) isListTerminator(t token.Token) bool {
	if t.Kind == token.EOF || t.Kind == token.NEWLINE {
		return true
	}
	return (t.Kind == token.OP || t.Kind == token.IDENT) && config.ListTerminators[t.Text]
}

// ParseCommaList parses a (possibly empty up to the next terminator)
// comma-separated list at comma precedence, used by parenthesized-list
// primaries and call-argument collection. It does not consume a trailing
// terminator.
func (p *Parser) ParseCommaList() (*ast.List, error) {
	startIdx := p.cur.Index()
	if err := p.skipInlineNewlines(); err != nil {
		return ast.NewList(startIdx, nil, nil), err
	}
	if p.isListTerminator(p.cur.Peek()) {
		return ast.NewList(startIdx, nil, nil), nil
	}
	// One below comma precedence so the climbing loop treats `,`/`=>`
	// themselves as infix operators and accumulates the List here.
	first, err := p.ParseExpression(config.PrecComma - 1)
	if err != nil {
		return ast.NewList(startIdx, nil, nil), err
	}
	if lst, ok := first.(*ast.List); ok && lst.Handle == nil {
		return lst, nil
	}
	return ast.NewList(startIdx, []ast.Node{first}, nil), nil
}
