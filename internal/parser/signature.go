package parser

import (
	"strconv"
	"strings"

	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/config"
	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/token"
)

// parseSignatureOrPrototype consumes the parenthesized text of a `sub
// NAME (…)` and decides, from its shape, whether it is a signature or a
// bare prototype string: a sigil immediately
// followed by a name is a parameter; anything else is prototype-string
// punctuation.
func (p *Parser) parseSignatureOrPrototype() ([]ast.Parameter, string, error) {
	defer p.suspendListBound()()
	p.cur.Consume() // "("
	if p.atOp(")") {
		p.cur.Consume()
		return nil, "", nil
	}
	if t := p.cur.Peek(); t.Kind == token.OP && sigilTexts[t.Text] {
		next := p.cur.PeekAt(1)
		isParam := next.Kind == token.IDENT || next.Kind == token.NUMBER ||
			(next.Kind == token.OP && sigilTexts[next.Text] && p.cur.PeekAt(2).Kind == token.IDENT)
		if isParam {
			params, err := p.parseSignatureParams()
			return params, "", err
		}
	}
	proto, err := p.parsePrototypeString()
	return nil, proto, err
}

// parseSignatureParams collects the parameter list: binds `my ($a, $b, @rest) =
// @_` worth of parameters, each with an optional `=`/`//=`/`||=` default,
// rejecting anything but a trailing slurpy.
func (p *Parser) parseSignatureParams() ([]ast.Parameter, error) {
	var params []ast.Parameter
	for {
		if p.atOp(")") {
			break
		}
		sigTok, ok := p.cur.ConsumeKind(token.OP)
		if !ok || !sigilTexts[sigTok.Text] {
			return params, p.errorf(diagnostics.UnexpectedToken, "%q in signature", sigTok.Text)
		}
		if sigTok.Text == "$#" {
			return params, p.errorf(diagnostics.UnexpectedToken, "\"$#\" not allowed in signature")
		}
		// PeekChar before Peek: the fixture lexer folds "#..." into a
		// trivia token, which Peek would silently step over.
		if p.cur.PeekChar() == "#" {
			return params, p.errorf(diagnostics.UnexpectedToken, "\"#\" after %q in signature", sigTok.Text)
		}
		if t := p.cur.Peek(); t.Kind == token.OP && sigilTexts[t.Text] {
			return params, p.errorf(diagnostics.UnexpectedToken, "%q immediately after %q in signature", t.Text, sigTok.Text)
		}

		name := sigTok.Text
		if idTok, ok := p.cur.ConsumeKind(token.IDENT); ok {
			name += idTok.Text
		}
		param := ast.Parameter{Name: name, IsSlurpy: sigTok.Text == "@" || sigTok.Text == "%"}

		switch {
		case p.atOp("="):
			p.cur.Consume()
			def, err := p.ParseExpression(config.PrecComma)
			if err != nil {
				return params, err
			}
			param.Default, param.DefaultOp = def, "="
		case p.atOp("//="):
			p.cur.Consume()
			def, err := p.ParseExpression(config.PrecComma)
			if err != nil {
				return params, err
			}
			param.Default, param.DefaultOp = def, "//="
		case p.atOp("||="):
			p.cur.Consume()
			def, err := p.ParseExpression(config.PrecComma)
			if err != nil {
				return params, err
			}
			param.Default, param.DefaultOp = def, "||="
		}

		for _, prev := range params {
			if prev.IsSlurpy {
				return params, p.errorf(diagnostics.UnexpectedToken, "a slurpy parameter must be the last one in a signature")
			}
		}

		params = append(params, param)

		if p.atOp(",") {
			p.cur.Consume()
			continue
		}
		break
	}
	if _, err := p.expect(token.OP, ")"); err != nil {
		return params, err
	}
	return params, nil
}

// synthesizeSignaturePrologue builds the three-part prologue inserted in
// front of a signature-bearing sub's body: (a) `my (...) = @_`
// binding every parameter, (b) an arg-count guard calling `die "Bad number
// of arguments"` when `@_` falls outside `[min, max]`, and (c) each
// parameter's default assignment (`=` gated on position, `//=`/`||=`
// applied unconditionally by value).
func (p *Parser) synthesizeSignaturePrologue(idx int, params []ast.Parameter) []ast.Statement {
	if len(params) == 0 {
		return nil
	}

	varNodes := make([]ast.Node, len(params))
	for i, prm := range params {
		varNodes[i] = variableNodeFromName(idx, prm.Name)
	}

	var bindTarget ast.Node = varNodes[0]
	if len(varNodes) > 1 {
		bindTarget = ast.NewList(idx, varNodes, nil)
	}
	declOp := ast.NewOperator(idx, "my", bindTarget)
	declOp.IsDeclaredReference = true
	atUnderscore := ast.NewOperator(idx, "@", ast.NewIdentifier(idx, "_"))
	bindAssign := ast.NewBinaryOperator(idx, "=", declOp, atUnderscore)
	bindStmt := &ast.ExpressionStatement{Expr: bindAssign}
	bindStmt.SetTokenIndex(idx)
	stmts := []ast.Statement{bindStmt}

	hasSlurpy := false
	min := 0
	seenOptional := false
	for _, prm := range params {
		if prm.IsSlurpy {
			hasSlurpy = true
			continue
		}
		if prm.DefaultOp == "" && !seenOptional {
			min++
		} else {
			seenOptional = true
		}
	}
	max := len(params)
	if hasSlurpy {
		max--
	}

	scalarArgs := ast.NewBinaryOperator(idx, "call", ast.NewIdentifier(idx, "scalar"),
		ast.NewList(idx, []ast.Node{ast.NewOperator(idx, "@", ast.NewIdentifier(idx, "_"))}, nil))
	var guardCond ast.Node = ast.NewBinaryOperator(idx, "<", scalarArgs, ast.NewNumber(idx, strconv.Itoa(min), false))
	if !hasSlurpy {
		highCond := ast.NewBinaryOperator(idx, ">", scalarArgs, ast.NewNumber(idx, strconv.Itoa(max), false))
		guardCond = ast.NewBinaryOperator(idx, "||", guardCond, highCond)
	}
	dieCall := ast.NewBinaryOperator(idx, "call", ast.NewIdentifier(idx, "die"),
		ast.NewList(idx, []ast.Node{ast.NewString(idx, "Bad number of arguments", false)}, nil))
	dieStmt := &ast.ExpressionStatement{Expr: dieCall, Modifier: &ast.StatementModifier{Keyword: "if", Cond: guardCond}}
	dieStmt.SetTokenIndex(idx)
	stmts = append(stmts, dieStmt)

	for i, prm := range params {
		if prm.IsSlurpy || prm.DefaultOp == "" {
			continue
		}
		var stmt *ast.ExpressionStatement
		if prm.DefaultOp == "=" {
			assign := ast.NewBinaryOperator(idx, "=", varNodes[i], prm.Default)
			cond := ast.NewBinaryOperator(idx, "<", scalarArgs, ast.NewNumber(idx, strconv.Itoa(i+1), false))
			stmt = &ast.ExpressionStatement{Expr: assign, Modifier: &ast.StatementModifier{Keyword: "if", Cond: cond}}
		} else {
			assign := ast.NewBinaryOperator(idx, prm.DefaultOp, varNodes[i], prm.Default)
			stmt = &ast.ExpressionStatement{Expr: assign}
		}
		stmt.SetTokenIndex(idx)
		stmts = append(stmts, stmt)
	}

	return stmts
}

// parsePrototypeString reassembles a bare (non-signature) prototype from
// its individual punctuation tokens. The fixture lexer tokenizes
// prototype punctuation one operator at a time, so reconstruction is
// concatenation rather than a single STRING token.
func (p *Parser) parsePrototypeString() (string, error) {
	var sb strings.Builder
	for {
		t := p.cur.Peek()
		if t.Is(token.OP, ")") {
			break
		}
		if t.Kind == token.EOF {
			return sb.String(), p.errorf(diagnostics.UnexpectedToken, "EOF in prototype")
		}
		p.cur.Consume()
		sb.WriteString(t.Text)
	}
	if _, err := p.expect(token.OP, ")"); err != nil {
		return sb.String(), err
	}
	return sb.String(), nil
}
