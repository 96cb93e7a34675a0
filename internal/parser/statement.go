package parser

import (
	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/token"
)

// controlKeywords is the set the block/hash scan treats as
// decisive evidence of a block: "a control keyword not followed by =>".
var controlKeywords = map[string]bool{
	"if": true, "unless": true, "for": true, "foreach": true,
	"while": true, "until": true, "my": true, "our": true, "state": true,
	"local": true, "return": true, "package": true, "use": true, "no": true,
	"sub": true, "try": true, "format": true,
}

var modifierKeywords = map[string]bool{
	"if": true, "unless": true, "while": true, "until": true,
	"for": true, "foreach": true,
}

// parseStatement is the Statement Parser entry point.
func (p *Parser) parseStatement() (ast.Statement, error) {
	if stmt, matched, err := p.tryParseLabel(); matched || err != nil {
		return stmt, err
	}

	t := p.cur.Peek()

	switch {
	case t.Is(token.OP, "{"):
		return p.parseBlockOrHashStatement()

	case t.Kind == token.OP && t.Text == "=" && t.Loc.Col == 1:
		p.skipPod()
		return nil, nil

	case t.Is(token.IDENT, "if"), t.Is(token.IDENT, "unless"):
		return p.parseIf()

	case t.Is(token.IDENT, "for"), t.Is(token.IDENT, "foreach"):
		return p.parseFor()

	case t.Is(token.IDENT, "while"), t.Is(token.IDENT, "until"):
		return p.parseWhileUntil()

	case t.Is(token.IDENT, "try"):
		return p.parseTry()

	case t.Is(token.IDENT, "package"), t.Is(token.IDENT, "class"):
		return p.parsePackageDeclaration()

	case t.Is(token.IDENT, "use"), t.Is(token.IDENT, "no"):
		return p.parseUseStatement()

	case t.Is(token.IDENT, "sub") && p.cur.PeekAt(1).Kind == token.IDENT:
		return p.parseNamedSub()

	case t.Kind == token.IDENT && isSpecialBlockKeyword(t.Text):
		return p.parseSpecialBlock()

	case t.Is(token.IDENT, "__DATA__"), t.Is(token.IDENT, "__END__"):
		return p.parseDataSection()

	case t.Is(token.IDENT, "format"):
		return p.parseFormatDeclaration()

	case t.Is(token.OP, "...") && p.nextIsStatementEnd():
		idx := p.cur.Index()
		p.cur.Consume()
		n := &ast.NotImplementedStatement{}
		n.SetTokenIndex(idx)
		return n, nil

	case t.Is(token.IDENT, "last"), t.Is(token.IDENT, "next"), t.Is(token.IDENT, "redo"):
		return p.parseLoopControl()

	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) nextIsStatementEnd() bool {
	t := p.cur.PeekAt(1)
	return t.Kind == token.EOF || t.Kind == token.NEWLINE || t.Is(token.OP, ";") || t.Is(token.OP, "}")
}

// tryParseLabel recognizes a `label:` prefix and attaches it to the
// statement that follows.
func (p *Parser) tryParseLabel() (ast.Statement, bool, error) {
	t := p.cur.Peek()
	if t.Kind != token.IDENT || controlKeywords[t.Text] || isSpecialBlockKeyword(t.Text) {
		return nil, false, nil
	}
	if !p.cur.PeekAt(1).Is(token.OP, ":") {
		return nil, false, nil
	}
	label := t.Text
	p.cur.Consume()
	p.cur.Consume()
	stmt, err := p.parseStatement()
	if err != nil {
		return stmt, true, err
	}
	attachLabel(stmt, label)
	return stmt, true, nil
}

func attachLabel(stmt ast.Statement, label string) {
	switch s := stmt.(type) {
	case *ast.If:
		s.LabelName = label
	case *ast.For1:
		s.LabelName = label
	case *ast.For3:
		s.LabelName = label
	case *ast.Block:
		s.LabelName = label
		s.IsLoop = true
	}
}

// parseBlockOrHashStatement decides between a bare block and a
// hash-literal expression statement: a `{` opening a statement is scanned forward, tracking
// nested bracket depth, for the first decisive token at the outer level.
func (p *Parser) parseBlockOrHashStatement() (ast.Statement, error) {
	idx := p.cur.Index()
	if p.looksLikeBlock() {
		blk, err := p.parseBlock()
		if err != nil {
			return blk, err
		}
		return p.finishExprStatement(blk, idx)
	}
	expr, err := p.parseHashLiteral()
	if err != nil {
		return nil, err
	}
	return p.finishExprStatement(expr, idx)
}

func (p *Parser) looksLikeBlock() bool {
	m := p.cur.Mark()
	defer p.cur.Reset(m)

	p.cur.Consume() // opening "{"
	depth := 0
	for {
		t := p.cur.Peek()
		if t.Kind == token.EOF {
			return false
		}
		if depth == 0 {
			switch {
			case t.Kind == token.OP && (t.Text == "," || t.Text == "=>"):
				return false
			case t.Is(token.OP, "}"):
				return false // undecided at the close: default to hash
			case t.Is(token.OP, ";"):
				return true
			case t.Kind == token.IDENT && controlKeywords[t.Text] && !p.cur.PeekAt(1).Is(token.OP, "=>"):
				return true
			}
		}
		switch {
		case t.Kind == token.OP && (t.Text == "(" || t.Text == "{" || t.Text == "["):
			depth++
		case t.Kind == token.OP && (t.Text == ")" || t.Text == "}" || t.Text == "]"):
			if depth == 0 {
				return false
			}
			depth--
		}
		p.cur.Consume()
	}
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	defer p.suspendListBound()()
	idx := p.cur.Index()
	if _, err := p.expect(token.OP, "{"); err != nil {
		return nil, err
	}
	blk := &ast.Block{}
	blk.SetTokenIndex(idx)
	for {
		if err := p.skipStatementSeparators(); err != nil {
			return blk, err
		}
		if p.cur.Peek().Is(token.OP, "}") {
			break
		}
		if p.cur.AtEOF() {
			return blk, p.errorf(diagnostics.UnexpectedToken, "EOF, expecting \"}\"")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return blk, err
		}
		if stmt != nil {
			blk.Statements = append(blk.Statements, stmt)
		}
	}
	p.cur.Consume() // "}"
	return blk, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	idx := p.cur.Index()
	kw, _ := p.cur.ConsumeKind(token.IDENT)
	negated := kw.Text == "unless"

	if _, err := p.expect(token.OP, "("); err != nil {
		return nil, err
	}
	cond, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OP, ")"); err != nil {
		return nil, err
	}
	thenBlk, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	node := &ast.If{Negated: negated, Cond: cond, Then: thenBlk}
	node.SetTokenIndex(idx)
	cur := node

	for p.atKeyword("elsif") {
		eidx := p.cur.Index()
		p.cur.Consume()
		if _, err := p.expect(token.OP, "("); err != nil {
			return node, err
		}
		c2, err := p.ParseExpression(0)
		if err != nil {
			return node, err
		}
		if _, err := p.expect(token.OP, ")"); err != nil {
			return node, err
		}
		t2, err := p.parseBlock()
		if err != nil {
			return node, err
		}
		elseIf := &ast.If{Cond: c2, Then: t2}
		elseIf.SetTokenIndex(eidx)
		cur.ElseIf = elseIf
		cur = elseIf
	}

	if p.atKeyword("else") {
		p.cur.Consume()
		elseBlk, err := p.parseBlock()
		if err != nil {
			return node, err
		}
		cur.Else = elseBlk
	}

	return node, nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	idx := p.cur.Index()
	p.cur.Consume() // for / foreach

	var loopVar ast.Node
	if p.atKeyword("my") {
		declIdx := p.cur.Index()
		p.cur.Consume()
		v, err := p.parseSigilVariable()
		if err != nil {
			return nil, err
		}
		loopVar = ast.NewOperator(declIdx, "my", v)
	} else if t := p.cur.Peek(); t.Kind == token.OP && sigilTexts[t.Text] {
		v, err := p.parseSigilVariable()
		if err != nil {
			return nil, err
		}
		loopVar = v
	}

	if _, err := p.expect(token.OP, "("); err != nil {
		return nil, err
	}

	if loopVar == nil && p.looksLikeCStyleFor() {
		return p.parseFor3(idx)
	}

	list, err := p.ParseCommaList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OP, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	f := &ast.For1{LoopVar: loopVar, List: list, Body: body}
	f.SetTokenIndex(idx)
	return f, nil
}

// looksLikeCStyleFor scans (without consuming) for a top-level ";" before
// the matching ")", distinguishing `for (init;cond;incr)` from
// `for (LIST)`.
func (p *Parser) looksLikeCStyleFor() bool {
	m := p.cur.Mark()
	defer p.cur.Reset(m)
	depth := 0
	for {
		t := p.cur.Peek()
		if t.Kind == token.EOF {
			return false
		}
		if t.Kind == token.OP {
			switch t.Text {
			case "(", "[", "{":
				depth++
			case ")":
				if depth == 0 {
					return false
				}
				depth--
			case "]", "}":
				depth--
			case ";":
				if depth == 0 {
					return true
				}
			}
		}
		p.cur.Consume()
	}
}

func (p *Parser) parseFor3(idx int) (ast.Statement, error) {
	var init, cond, incr ast.Node
	var err error

	if !p.cur.Peek().Is(token.OP, ";") {
		if init, err = p.ParseExpression(0); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.OP, ";"); err != nil {
		return nil, err
	}
	if !p.cur.Peek().Is(token.OP, ";") {
		if cond, err = p.ParseExpression(0); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.OP, ";"); err != nil {
		return nil, err
	}
	if !p.cur.Peek().Is(token.OP, ")") {
		if incr, err = p.ParseExpression(0); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.OP, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	f := &ast.For3{Init: init, Cond: cond, Incr: incr, Body: body}
	f.SetTokenIndex(idx)
	if p.atKeyword("continue") {
		p.cur.Consume()
		cont, err := p.parseBlock()
		if err != nil {
			return f, err
		}
		f.Continue = cont
	}
	return f, nil
}

func (p *Parser) parseWhileUntil() (ast.Statement, error) {
	idx := p.cur.Index()
	kw, _ := p.cur.ConsumeKind(token.IDENT)
	negated := kw.Text == "until"

	if _, err := p.expect(token.OP, "("); err != nil {
		return nil, err
	}
	cond, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OP, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	f := &ast.For3{Cond: cond, Body: body, Negated: negated}
	f.SetTokenIndex(idx)
	if p.atKeyword("continue") {
		p.cur.Consume()
		cont, err := p.parseBlock()
		if err != nil {
			return f, err
		}
		f.Continue = cont
	}
	return f, nil
}

func (p *Parser) parseTry() (ast.Statement, error) {
	idx := p.cur.Index()
	if !p.ctx.Symbols.IsFeatureCategoryEnabled("try") {
		return nil, p.errAt(diagnostics.FeatureDisabled, "try", "")
	}
	p.cur.Consume() // "try"
	tryBlk, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IDENT, "catch"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OP, "("); err != nil {
		return nil, err
	}
	v, err := p.parseSigilVariable()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OP, ")"); err != nil {
		return nil, err
	}
	catchBlk, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var finallyBlk *ast.Block
	if p.atKeyword("finally") {
		p.cur.Consume()
		finallyBlk, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	node := &ast.Try{
		TryBlock:     tryBlk,
		CatchVar:     identifierOperand(v),
		CatchBlock:   catchBlk,
		FinallyBlock: finallyBlk,
	}
	node.SetTokenIndex(idx)
	return node, nil
}

func (p *Parser) parseLoopControl() (ast.Statement, error) {
	idx := p.cur.Index()
	kw, _ := p.cur.ConsumeKind(token.IDENT)

	var label string
	m := p.cur.Mark()
	if lt, ok := p.cur.ConsumeKind(token.IDENT); ok && !modifierKeywords[lt.Text] {
		label = lt.Text
	} else {
		p.cur.Reset(m)
	}

	var stmt ast.Statement
	if kw.Text == "last" {
		n := &ast.BreakStatement{LabelName: label}
		n.SetTokenIndex(idx)
		stmt = n
	} else {
		n := &ast.ContinueStatement{LabelName: label}
		n.SetTokenIndex(idx)
		stmt = n
	}
	return p.finishExprStatement(stmt, idx)
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	idx := p.cur.Index()
	expr, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	return p.finishExprStatement(expr, idx)
}

// finishExprStatement applies an optional trailing statement modifier
// to an already-parsed expression (or bare statement, for
// `last`/`next`/`redo`), lowering a `do { BLOCK } while (...)` combination
// to a `For3` with `IsDoWhile` set so the body runs at least once.
func (p *Parser) finishExprStatement(expr ast.Node, idx int) (ast.Statement, error) {
	mod, err := p.tryStatementModifier()
	if err != nil {
		return nil, err
	}
	if mod == nil {
		if s, ok := expr.(ast.Statement); ok {
			return s, nil
		}
		es := &ast.ExpressionStatement{Expr: expr}
		es.SetTokenIndex(idx)
		return es, nil
	}

	if blk, isBlock := expr.(*ast.Block); isBlock && (mod.Keyword == "while" || mod.Keyword == "until") {
		f := &ast.For3{Body: blk, Cond: mod.Cond, Negated: mod.Keyword == "until", IsDoWhile: true}
		f.SetTokenIndex(idx)
		return f, nil
	}

	es := &ast.ExpressionStatement{Expr: expr, Modifier: mod}
	es.SetTokenIndex(idx)
	return es, nil
}

func (p *Parser) tryStatementModifier() (*ast.StatementModifier, error) {
	t := p.cur.Peek()
	if t.Kind != token.IDENT {
		return nil, nil
	}
	switch t.Text {
	case "if", "unless", "while", "until", "for", "foreach":
		p.cur.Consume()
		cond, err := p.ParseExpression(0)
		if err != nil {
			return nil, err
		}
		kw := t.Text
		if kw == "foreach" {
			kw = "for"
		}
		return &ast.StatementModifier{Keyword: kw, Cond: cond}, nil
	}
	return nil, nil
}

// identifierOperand unwraps a sigil-wrapped variable node (an
// *ast.Operator built by parseSigilVariable) down to its bare
// *ast.Identifier, used where the AST wants a name rather than a full
// variable reference (e.g. Try.CatchVar).
func identifierOperand(n ast.Node) *ast.Identifier {
	switch v := n.(type) {
	case *ast.Operator:
		return identifierOperand(v.Operand)
	case *ast.Identifier:
		return v
	}
	return nil
}
