package parser

import (
	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/config"
	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/token"
)

// parseInfix consumes the operator token identified by opText and
// combines it with left. nextPrec is the precedence the
// right-hand side must be parsed at, already adjusted for associativity
// by the Expression Engine.
func (p *Parser) parseInfix(left ast.Node, opText string, nextPrec int) (ast.Node, error) {
	idx := p.cur.Index()

	switch opText {
	case ",", "=>":
		return p.parseCommaInfix(left, opText, nextPrec, idx)
	case "?":
		return p.parseTernary(left, idx)
	case "->":
		return p.parseArrowInfix(left, idx)
	case "(":
		return p.parseCallInfix(left, idx)
	case "{":
		return p.parseBraceSubscript(left, idx)
	case "[":
		return p.parseBracketSubscript(left, idx)
	case "++", "--":
		p.cur.ConsumeText(token.OP, opText)
		return ast.NewOperator(idx, "postfix"+opText, left), nil
	}

	if declErr := p.checkDeclaredReferenceGuard(left, opText); declErr != nil {
		return left, declErr
	}

	// Consume the operator token(s). The "x=" coalescing produced by the
	// Expression Engine spans two real tokens (IDENT "x", OP "=").
	if opText == "x=" {
		p.cur.ConsumeText(token.IDENT, "x")
		p.cur.ConsumeText(token.OP, "=")
	} else if p.cur.Peek().Kind == token.IDENT {
		p.cur.ConsumeText(token.IDENT, opText)
	} else {
		p.cur.ConsumeText(token.OP, opText)
	}

	name := p.applyFeatureGates(opText)

	if name == "isa" && !p.ctx.Symbols.IsFeatureCategoryEnabled("isa") {
		return left, p.errAt(diagnostics.FeatureDisabled, "isa", "")
	}

	if err := p.validateChaining(left, name); err != nil {
		return left, err
	}

	right, err := p.ParseExpression(nextPrec)
	if err != nil {
		return left, err
	}
	return ast.NewBinaryOperator(idx, name, left, right), nil
}

// applyFeatureGates rewrites `&`/`|`/`^` (and their assignment forms) to
// the explicit `binary&`/`binary|`/`binary^` spelling when the `bitwise`
// feature is active. The caller separately rejects the `isa`
// operator with FeatureDisabled when the `isa` feature is off, since that
// is a reject-or-not decision rather than a spelling rewrite.
func (p *Parser) applyFeatureGates(opText string) string {
	if !p.ctx.Symbols.IsFeatureCategoryEnabled("bitwise") {
		return opText
	}
	switch opText {
	case "&":
		return "binary&"
	case "|":
		return "binary|"
	case "^":
		return "binary^"
	case "&=":
		return "binary&="
	case "|=":
		return "binary|="
	case "^=":
		return "binary^="
	}
	return opText
}

// parseCommaInfix handles `,` and `=>`: `=>`
// autoquotes a bareword left-hand side, and a trailing comma before a
// list terminator promotes the left side to a single-element list
// instead of erroring on a missing right operand.
func (p *Parser) parseCommaInfix(left ast.Node, opText string, nextPrec int, idx int) (ast.Node, error) {
	p.cur.ConsumeText(token.OP, opText)

	if opText == "=>" {
		if id, ok := left.(*ast.Identifier); ok {
			left = ast.NewString(id.TokenIndex(), id.Name, false)
		} else if lst, ok := left.(*ast.List); ok && lst.Handle == nil && len(lst.Elements) > 0 {
			// The bareword being autoquoted may already sit at the tail of
			// the list this comma chain is accumulating.
			if id, ok := lst.Elements[len(lst.Elements)-1].(*ast.Identifier); ok {
				lst.Elements[len(lst.Elements)-1] = ast.NewString(id.TokenIndex(), id.Name, false)
			}
		}
	}

	if err := p.skipInlineNewlines(); err != nil {
		return left, err
	}
	if p.isListTerminator(p.cur.Peek()) {
		if lst, ok := left.(*ast.List); ok && lst.Handle == nil {
			return lst, nil
		}
		return ast.NewList(idx, []ast.Node{left}, nil), nil
	}

	right, err := p.ParseExpression(nextPrec)
	if err != nil {
		return left, err
	}

	if lst, ok := left.(*ast.List); ok && lst.Handle == nil {
		lst.Elements = append(lst.Elements, right)
		return lst, nil
	}
	return ast.NewList(idx, []ast.Node{left, right}, nil), nil
}

func (p *Parser) parseTernary(left ast.Node, idx int) (ast.Node, error) {
	p.cur.ConsumeText(token.OP, "?")
	// The middle expression is delimited by "?" and ":", so the
	// list-terminator bound does not apply inside it.
	restore := p.suspendListBound()
	then, err := p.ParseExpression(0)
	restore()
	if err != nil {
		return left, err
	}
	if _, err := p.expect(token.OP, ":"); err != nil {
		return left, err
	}
	els, err := p.ParseExpression(config.PrecTernary - 1)
	if err != nil {
		return left, err
	}
	return ast.NewTernary(idx, "?:", left, then, els), nil
}

// parseCallInfix handles `left(...)`: a function-call argument list.
func (p *Parser) parseCallInfix(left ast.Node, idx int) (ast.Node, error) {
	defer p.suspendListBound()()
	p.cur.ConsumeText(token.OP, "(")
	args, err := p.ParseCommaList()
	if err != nil {
		return left, err
	}
	if _, err := p.expect(token.OP, ")"); err != nil {
		return left, err
	}
	return ast.NewBinaryOperator(idx, "call", left, args), nil
}

// parseBraceSubscript handles `left{ key }`: hash element/slice access,
// with the `$$var{...}` → `$var->{...}` arrow-insertion transform.
func (p *Parser) parseBraceSubscript(left ast.Node, idx int) (ast.Node, error) {
	defer p.suspendListBound()()
	p.cur.ConsumeText(token.OP, "{")
	left = p.maybeInsertArrow(left)

	var key ast.Node
	var err error
	if id, ok := p.tryBareHashKey(); ok {
		key = id
	} else {
		key, err = p.ParseCommaList()
		if err != nil {
			return left, err
		}
	}
	if _, err := p.expect(token.OP, "}"); err != nil {
		return left, err
	}
	return ast.NewBinaryOperator(idx, "->{}", left, key), nil
}

// tryBareHashKey recognizes a single bareword immediately followed by
// "}" as an autoquoted hash key (`$h{key}`), without consuming anything
// on a non-match.
func (p *Parser) tryBareHashKey() (ast.Node, bool) {
	m := p.cur.Mark()
	idx := p.cur.Index()
	id, ok := p.cur.ConsumeKind(token.IDENT)
	if !ok || !p.cur.Peek().Is(token.OP, "}") {
		p.cur.Reset(m)
		return nil, false
	}
	return ast.NewString(idx, id.Text, false), true
}

// parseBracketSubscript handles `left[ index ]`: array element/slice
// access.
func (p *Parser) parseBracketSubscript(left ast.Node, idx int) (ast.Node, error) {
	defer p.suspendListBound()()
	p.cur.ConsumeText(token.OP, "[")
	left = p.maybeInsertArrow(left)

	index, err := p.ParseCommaList()
	if err != nil {
		return left, err
	}
	if _, err := p.expect(token.OP, "]"); err != nil {
		return left, err
	}
	return ast.NewBinaryOperator(idx, "->[]", left, index), nil
}

// maybeInsertArrow implements the `$$var[…]`/`$$var{…}` → `$var->[…]`/
// `$var->{…}` rewrite: a scalar-deref Operator ("$") whose operand is
// itself a variable is really "the arrow was implicit", so unwrap the
// outer "$" and let the subscript apply to the inner value.
func (p *Parser) maybeInsertArrow(left ast.Node) ast.Node {
	if op, ok := left.(*ast.Operator); ok && op.Name == "$" {
		if inner, ok := op.Operand.(*ast.Operator); ok {
			return inner
		}
	}
	return left
}

// parseArrowInfix is the `->` method-call / postfix-dereference
// dispatcher.
func (p *Parser) parseArrowInfix(left ast.Node, idx int) (ast.Node, error) {
	defer p.suspendListBound()()
	p.cur.ConsumeText(token.OP, "->")
	t := p.cur.Peek()

	switch {
	case t.Is(token.OP, "("):
		p.cur.Consume()
		args, err := p.ParseCommaList()
		if err != nil {
			return left, err
		}
		if _, err := p.expect(token.OP, ")"); err != nil {
			return left, err
		}
		return ast.NewBinaryOperator(idx, "call", left, args), nil

	case t.Is(token.OP, "["):
		p.cur.Consume()
		index, err := p.ParseCommaList()
		if err != nil {
			return left, err
		}
		if _, err := p.expect(token.OP, "]"); err != nil {
			return left, err
		}
		return ast.NewBinaryOperator(idx, "->[]", left, index), nil

	case t.Is(token.OP, "{"):
		p.cur.Consume()
		var key ast.Node
		var err error
		if id, ok := p.tryBareHashKey(); ok {
			key = id
		} else {
			key, err = p.ParseCommaList()
			if err != nil {
				return left, err
			}
		}
		if _, err := p.expect(token.OP, "}"); err != nil {
			return left, err
		}
		return ast.NewBinaryOperator(idx, "->{}", left, key), nil

	case t.Is(token.OP, "@") && p.cur.PeekAt(1).Is(token.OP, "*"):
		p.cur.Consume()
		p.cur.Consume()
		return ast.NewOperator(idx, "@*", left), nil

	case t.Is(token.OP, "$") && p.cur.PeekAt(1).Is(token.OP, "*"):
		p.cur.Consume()
		p.cur.Consume()
		return ast.NewOperator(idx, "$*", left), nil

	case t.Is(token.OP, "%") && p.cur.PeekAt(1).Is(token.OP, "*"):
		p.cur.Consume()
		p.cur.Consume()
		return ast.NewOperator(idx, "%*", left), nil

	case t.Is(token.OP, "&") && p.cur.PeekAt(1).Is(token.OP, "*"):
		p.cur.Consume()
		p.cur.Consume()
		return ast.NewOperator(idx, "&*", left), nil

	case t.Is(token.OP, "$#") && p.cur.PeekAt(1).Is(token.OP, "*"):
		p.cur.Consume()
		p.cur.Consume()
		return ast.NewOperator(idx, "$#*", left), nil

	case t.Is(token.OP, "**"):
		p.cur.Consume()
		return ast.NewOperator(idx, "**", left), nil

	case t.Is(token.OP, "*") && p.cur.PeekAt(1).Is(token.OP, "{"):
		p.cur.Consume()
		p.cur.Consume()
		slot, err := p.ParseExpression(0)
		if err != nil {
			return left, err
		}
		if _, err := p.expect(token.OP, "}"); err != nil {
			return left, err
		}
		return ast.NewBinaryOperator(idx, "*{}", left, slot), nil

	case t.Is(token.OP, "@") && p.cur.PeekAt(1).Is(token.OP, "["):
		p.cur.Consume()
		p.cur.Consume()
		index, err := p.ParseCommaList()
		if err != nil {
			return left, err
		}
		if _, err := p.expect(token.OP, "]"); err != nil {
			return left, err
		}
		return ast.NewBinaryOperator(idx, "@[]", left, index), nil

	case t.Is(token.OP, "@") && p.cur.PeekAt(1).Is(token.OP, "{"):
		p.cur.Consume()
		p.cur.Consume()
		keys, err := p.ParseCommaList()
		if err != nil {
			return left, err
		}
		if _, err := p.expect(token.OP, "}"); err != nil {
			return left, err
		}
		return ast.NewBinaryOperator(idx, "@{}", left, keys), nil

	case t.Is(token.OP, "&") && p.cur.PeekAt(1).Kind == token.IDENT:
		p.cur.Consume()
		name, _ := p.cur.ConsumeKind(token.IDENT)
		return ast.NewBinaryOperator(idx, "->&", left, ast.NewIdentifier(idx, name.Text)), nil

	case t.Is(token.OP, "$"):
		method, err := p.parseSigilVariable()
		if err != nil {
			return left, err
		}
		return p.finishMethodCall(left, method, idx)

	case t.Kind == token.IDENT:
		p.cur.Consume()
		return p.finishMethodCall(left, ast.NewIdentifier(idx, t.Text), idx)

	default:
		return left, p.errorf(diagnostics.UnexpectedToken, "%q after ->", t.Text)
	}
}

// finishMethodCall optionally consumes a parenthesized argument list
// following a method name.
func (p *Parser) finishMethodCall(left, method ast.Node, idx int) (ast.Node, error) {
	call := ast.NewBinaryOperator(idx, "->method", left, method)
	if p.cur.Peek().Is(token.OP, "(") {
		p.cur.Consume()
		args, err := p.ParseCommaList()
		if err != nil {
			return call, err
		}
		if _, err := p.expect(token.OP, ")"); err != nil {
			return call, err
		}
		return ast.NewBinaryOperator(idx, "call", call, args), nil
	}
	return call, nil
}

// validateChaining implements the Perl 5.32+ comparison-chaining rule. left is only
// relevant when it is itself a BinaryOperator
// produced by a comparison operator at the same precedence level as the
// operator about to be applied — which is exactly the shape the
// precedence-climbing loop produces for `a < b < c`.
func (p *Parser) validateChaining(left ast.Node, opText string) error {
	isCompare := func(s string) bool {
		return config.NonChainable[s] || config.ChainableEquality[s] || config.ChainableRelational[s]
	}
	if !isCompare(opText) {
		return nil
	}
	leftBin, ok := left.(*ast.BinaryOperator)
	if !ok || !isCompare(leftBin.Name) {
		return nil
	}
	leftOp := leftBin.Name

	if opText == "isa" && config.ChainableRelational[leftOp] {
		return p.errorf(diagnostics.ChainingError, "\"isa\" cannot be chained with a relational operator")
	}
	if leftOp == "isa" && config.ChainableRelational[opText] {
		return p.errorf(diagnostics.ChainingError, "\"isa\" cannot be chained with a relational operator")
	}

	if config.Precedence[leftOp] != config.Precedence[opText] {
		return nil
	}
	if config.NonChainable[leftOp] || config.NonChainable[opText] {
		return p.errorf(diagnostics.ChainingError, "%q is non-associative and can't be chained with %q", leftOp, opText)
	}
	if config.ChainableEquality[leftOp] && config.ChainableRelational[opText] {
		return p.errorf(diagnostics.ChainingError, "equality and relational operators can't be chained together")
	}
	if config.ChainableRelational[leftOp] && config.ChainableEquality[opText] {
		return p.errorf(diagnostics.ChainingError, "equality and relational operators can't be chained together")
	}
	return nil
}

// checkDeclaredReferenceGuard enforces the declared-reference rule: once a
// `my`/`our`/`state`/`local` operand is marked
// isDeclaredReference, only `=`, `,`, and compound assignments may
// follow.
func (p *Parser) checkDeclaredReferenceGuard(left ast.Node, opText string) error {
	op, ok := left.(*ast.Operator)
	if !ok || !op.IsDeclaredReference {
		return nil
	}
	if opText == "," || opText == "=>" || opText == "=" || config.Precedence[opText] == config.PrecAssign {
		return nil
	}
	return p.errAt(diagnostics.DeclaredReferenceMisuse, opText, op.Name)
}
