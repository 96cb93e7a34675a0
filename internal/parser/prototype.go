package parser

import (
	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/config"
	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/token"
)

// parseCoreOpCall applies the Prototype Engine to a known
// core-op bareword: parenthesized calls consume their argument list
// greedily; bare calls stop at an expression terminator, an assignment
// operator, or "=>".
func (p *Parser) parseCoreOpCall(name string, info config.CoreOpInfo, idx int) (ast.Node, error) {
	prevProto := p.currentProtoName
	p.currentProtoName = name
	defer func() { p.currentProtoName = prevProto }()

	parenthesized := p.atOp("(")
	if parenthesized {
		p.cur.Consume()
		defer p.suspendListBound()()
	}

	handle, err := p.collectHandleSlot(name, idx)
	if err != nil {
		return nil, err
	}

	args, err := p.collectPrototypeArgs(info.Prototype, parenthesized)
	if err != nil {
		return nil, err
	}

	if parenthesized {
		if _, err := p.expect(token.OP, ")"); err != nil {
			return nil, err
		}
	}

	if name == "select" && !config.SelectArgCounts[len(args)] {
		return nil, p.errorf(diagnostics.BadArgCount, " for %s", name)
	}

	return ast.NewBinaryOperator(idx, "call", ast.NewIdentifier(idx, name), ast.NewList(idx, args, handle)), nil
}

// collectHandleSlot fills the List's handle slot: print-family ops take an optional
// leading filehandle (bareword or `{ EXPR }` block) and otherwise default to
// the currently selected handle, `select()`; sort/map/grep take an optional
// leading block.
func (p *Parser) collectHandleSlot(name string, idx int) (ast.Node, error) {
	switch name {
	case "print", "printf", "say":
		if p.atOp("{") {
			blk, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			return blk, nil
		}
		if fh := p.tryBarewordFilehandle(); fh != nil {
			return fh, nil
		}
		return ast.NewBinaryOperator(idx, "call",
			ast.NewIdentifier(idx, "select"), ast.NewList(idx, nil, nil)), nil
	case "sort", "map", "grep":
		if p.atOp("{") {
			blk, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			return blk, nil
		}
	}
	return nil, nil
}

// tryBarewordFilehandle recognizes an all-caps bareword that is directly
// followed by the start of another expression (no comma), the surface shape
// of `print STDERR "..."`.
func (p *Parser) tryBarewordFilehandle() ast.Node {
	t := p.cur.Peek()
	if t.Kind != token.IDENT || !isFilehandleName(t.Text) {
		return nil
	}
	next := p.cur.PeekAt(1)
	switch {
	case next.Kind == token.STRING, next.Kind == token.NUMBER:
	case next.Kind == token.OP && sigilTexts[next.Text]:
	default:
		return nil
	}
	idx := p.cur.Index()
	p.cur.Consume()
	return ast.NewIdentifier(idx, t.Text)
}

func isFilehandleName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if (b < 'A' || b > 'Z') && (b < '0' || b > '9') && b != '_' {
			return false
		}
	}
	return true
}

// collectPrototypeArgs walks proto one meaningful character at a time,
// dispatching to the argument form each prototype character requires.
// Non-parenthesized calls bound their arguments at the list-terminator
// keywords; parenthesized lists are consumed greedily.
func (p *Parser) collectPrototypeArgs(proto string, parenthesized bool) ([]ast.Node, error) {
	if !parenthesized {
		prev := p.listBound
		p.listBound = true
		defer func() { p.listBound = prev }()
	}
	// An empty prototype means "no prototype; parse as general list":
	// print/die/join/sort/... all
	// take an arbitrary comma list, so there is no per-character form to
	// walk — just collect a comma list the same way the '@'/'%' slurp
	// case does.
	if proto == "" {
		if p.atPrototypeStop(parenthesized) {
			return nil, nil
		}
		lst, err := p.ParseCommaList()
		if err != nil {
			return lst.Elements, err
		}
		return lst.Elements, nil
	}

	runes := []rune(proto)
	var args []ast.Node
	optional := false

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch ch {
		case ' ', '\t':
			continue
		case ';':
			optional = true
			continue
		}

		if p.atPrototypeStop(parenthesized) {
			if optional {
				break
			}
			if ch == '_' {
				// `_` defaults to $_ when the argument is absent.
				args = append(args, ast.NewOperator(p.cur.Index(), "$", ast.NewIdentifier(p.cur.Index(), "_")))
				continue
			}
			return args, p.errorf(diagnostics.BadArgCount, " for %s", p.currentProtoName)
		}

		switch ch {
		case '$', '_':
			arg, err := p.ParseExpression(config.PrecComma)
			if err != nil {
				return args, err
			}
			args = append(args, arg)

		case '@', '%':
			lst, err := p.ParseCommaList()
			if err != nil {
				return args, err
			}
			args = append(args, lst.Elements...)
			i = len(runes) // a slurp consumes the rest of the prototype too

		case '&':
			if p.atOp("{") {
				blk, err := p.parseBlock()
				if err != nil {
					return args, err
				}
				sub := &ast.Subroutine{Body: blk}
				sub.SetTokenIndex(blk.TokenIndex())
				args = append(args, sub)
			} else {
				arg, err := p.ParseExpression(config.PrecComma)
				if err != nil {
					return args, err
				}
				args = append(args, arg)
			}

		case '*':
			if idTok, ok := p.cur.ConsumeKind(token.IDENT); ok {
				args = append(args, ast.NewIdentifier(p.cur.Index(), idTok.Text))
			} else {
				arg, err := p.ParseExpression(config.PrecComma)
				if err != nil {
					return args, err
				}
				args = append(args, arg)
			}

		case '+':
			arg, err := p.ParseExpression(config.PrecComma)
			if err != nil {
				return args, err
			}
			args = append(args, arg)

		case '\\':
			if i+1 < len(runes) && runes[i+1] == '[' {
				i += 2
				for i < len(runes) && runes[i] != ']' {
					i++
				}
			} else if i+1 < len(runes) {
				i++
			}
			arg, err := p.ParseExpression(config.PrecComma)
			if err != nil {
				return args, err
			}
			args = append(args, ast.NewOperator(arg.TokenIndex(), "\\", arg))

		default:
			// Unrecognized prototype punctuation: no argument form to apply.
		}

		if p.atOp(",") {
			p.cur.Consume()
		}
	}

	return args, nil
}

// atPrototypeStop reports whether the cursor sits at a point a bare
// (non-parenthesized) prototype call must stop: an expression terminator,
// "=>", or any assignment operator.
func (p *Parser) atPrototypeStop(parenthesized bool) bool {
	if parenthesized {
		return p.atOp(")")
	}
	t := p.cur.Peek()
	if p.isExprTerminator(t) {
		return true
	}
	if t.Is(token.OP, "=>") || t.Is(token.OP, ",") {
		return true
	}
	if t.Kind == token.OP && config.Precedence[t.Text] == config.PrecAssign {
		return true
	}
	return false
}
