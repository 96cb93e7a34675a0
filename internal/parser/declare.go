package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/config"
	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/runtime"
	"github.com/perlfront/perlfront/internal/symtab"
	"github.com/perlfront/perlfront/internal/token"
)

// perlCompilerVersion is the interpreter version a bare `use VERSION;`
// compares against.
const perlCompilerVersion = "5.40.0"

func declKindForKeyword(kw string) symtab.DeclKind {
	switch kw {
	case "my", "field":
		return symtab.DeclMy
	case "our":
		return symtab.DeclOur
	case "state":
		return symtab.DeclState
	case "local":
		return symtab.DeclLocal
	}
	return symtab.DeclNone
}

// collectDeclaredVars walks the primary a declarator consumed (a single
// sigil variable, or a parenthesized list of them) and returns each leaf
// variable node.
func collectDeclaredVars(n ast.Node) []*ast.Operator {
	switch v := n.(type) {
	case *ast.Operator:
		if sigilTexts[v.Name] {
			return []*ast.Operator{v}
		}
	case *ast.List:
		var out []*ast.Operator
		for _, e := range v.Elements {
			out = append(out, collectDeclaredVars(e)...)
		}
		return out
	}
	return nil
}

func variableBaseName(op *ast.Operator) string {
	switch inner := op.Operand.(type) {
	case *ast.Identifier:
		return op.Name + inner.Name
	case *ast.Operator:
		return op.Name + variableBaseName(inner)
	}
	return op.Name
}

// parseDeclaratorExpr handles `my`/`our`/`state`/`local` at expression
// position: it parses the primary the declarator governs,
// registers every declared variable in the current scope, and marks the
// result isDeclaredReference so the Infix Parser's guard can
// reject anything but `,`/`=>`/assignment from following.
func (p *Parser) parseDeclaratorExpr() (ast.Node, error) {
	idx := p.cur.Index()
	kwTok, _ := p.cur.ConsumeKind(token.IDENT)
	kw := kwTok.Text

	inner, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	kind := declKindForKeyword(kw)
	pkg := p.ctx.Symbols.CurrentPackage()
	for _, leaf := range collectDeclaredVars(inner) {
		name := variableBaseName(leaf)
		masks := p.ctx.Symbols.AddVariable(symtab.Variable{
			Name: name, DeclKind: kind, Package: pkg, BackingNode: leaf,
		})
		if masks {
			p.ctx.AddWarning(diagnostics.Warning{
				Message: fmt.Sprintf("\"%s\" variable %s masks earlier declaration in same scope", kw, name),
				Loc:     kwTok.Loc,
			})
		}
	}

	declOp := ast.NewOperator(idx, kw, inner)
	declOp.IsDeclaredReference = true
	return declOp, nil
}

// parseDoExpr handles `do { BLOCK }` (an expression yielding the block's
// last value) and `do FILE`.
func (p *Parser) parseDoExpr() (ast.Node, error) {
	idx := p.cur.Index()
	p.cur.Consume() // "do"
	if p.atOp("{") {
		blk, err := p.parseBlock()
		if err != nil {
			return blk, err
		}
		return blk, nil
	}
	operand, err := p.ParseExpression(config.PrecUniop)
	if err != nil {
		return nil, err
	}
	return ast.NewOperator(idx, "do", operand), nil
}

// parseEvalExpr handles `eval { BLOCK }`/`eval EXPR`/`evalbytes EXPR`.
func (p *Parser) parseEvalExpr() (ast.Node, error) {
	idx := p.cur.Index()
	kwTok, _ := p.cur.ConsumeKind(token.IDENT)

	if p.atOp("{") {
		scopeIdx := p.ctx.Symbols.EnterScope()
		body, err := p.parseBlock()
		p.ctx.Symbols.ExitScope(scopeIdx)
		if err != nil {
			return body, err
		}
		sub := &ast.Subroutine{Body: body, UseTryCatch: true}
		sub.SetTokenIndex(idx)
		return ast.NewBinaryOperator(idx, "call", sub, ast.NewList(idx, nil, nil)), nil
	}

	var operand ast.Node
	if !p.isExprTerminator(p.cur.Peek()) {
		var err error
		operand, err = p.ParseExpression(config.PrecUniop)
		if err != nil {
			return nil, err
		}
	}
	e := &ast.EvalOperator{Keyword: kwTok.Text, Operand: operand, Snapshot: p.ctx.Symbols.Snapshot()}
	e.SetTokenIndex(idx)
	return e, nil
}

// parsePackageDeclaration handles `package NAME [VERSION] [BLOCK]` and its
// `class` sibling.
func (p *Parser) parsePackageDeclaration() (ast.Statement, error) {
	idx := p.cur.Index()
	kwTok, _ := p.cur.ConsumeKind(token.IDENT) // "package" | "class"
	isClass := kwTok.Text == "class"

	if isClass && !p.ctx.Symbols.IsFeatureCategoryEnabled("class") {
		return nil, p.errAt(diagnostics.FeatureDisabled, "class", "")
	}

	nameTok, err := p.expectKind(token.IDENT)
	if err != nil {
		return nil, err
	}

	decl := &ast.PackageDeclaration{Name: nameTok.Text}
	decl.SetTokenIndex(idx)

	if p.cur.Peek().Kind == token.NUMBER {
		vtok, _ := p.cur.ConsumeKind(token.NUMBER)
		decl.Version = vtok.Text
		p.ctx.Symbols.SetPackageVersion(nameTok.Text, vtok.Text)
	}

	if isClass {
		decl.IsClass = true
		if err := p.parseIsaAttribute(decl); err != nil {
			return decl, err
		}
	}

	p.ctx.Symbols.SetCurrentPackage(nameTok.Text)
	p.ctx.Host.SetPackageExists(nameTok.Text)

	if p.atOp("{") {
		// Two-scope discipline: an outer scope is entered at "{", an inner
		// one wraps the statement list. For classes the inner scope is kept
		// alive through the class transform so methods can close over
		// class-level lexicals.
		outerIdx := p.ctx.Symbols.EnterScope()
		if isClass {
			p.ctx.Symbols.EnterScope()
			p.classDepth++
		}
		blk, err := p.parseBlock()
		if isClass {
			p.classDepth--
			if err == nil {
				p.classTransform(decl, blk)
			}
		}
		p.ctx.Symbols.ExitScope(outerIdx)
		if err != nil {
			return decl, err
		}
		decl.Block = blk
		if isClass {
			p.registerClassSymbols(decl)
		}
	}

	return decl, nil
}

// parseIsaAttribute handles a class's `:isa(Parent [VERSION])` attribute,
// checking the parent's recorded version against the required one
// via the runtime's version helper when both are known.
func (p *Parser) parseIsaAttribute(decl *ast.PackageDeclaration) error {
	if !p.atOp(":") {
		return nil
	}
	p.cur.Consume()
	if _, err := p.expect(token.IDENT, "isa"); err != nil {
		return err
	}
	if _, err := p.expect(token.OP, "("); err != nil {
		return err
	}
	parentTok, err := p.expectKind(token.IDENT)
	if err != nil {
		return err
	}
	decl.ParentClass = parentTok.Text

	if p.cur.Peek().Kind == token.NUMBER {
		vtok, _ := p.cur.ConsumeKind(token.NUMBER)
		decl.ParentVersion = vtok.Text
	}
	if _, err := p.expect(token.OP, ")"); err != nil {
		return err
	}

	if have, ok := p.ctx.Symbols.GetPackageVersion(decl.ParentClass); ok && decl.ParentVersion != "" {
		if verr := p.ctx.Host.CompareVersion(have, decl.ParentVersion, decl.ParentClass); verr != nil {
			return p.errorf(diagnostics.VersionMismatch, "%v", verr)
		}
	}
	return nil
}

// parseUseStatement handles `use MODULE [VERSION] [ARGS]` / `no MODULE …`
// and the bare `use VERSION;` form.
func (p *Parser) parseUseStatement() (ast.Statement, error) {
	idx := p.cur.Index()
	kwTok, _ := p.cur.ConsumeKind(token.IDENT) // "use" | "no"
	isNo := kwTok.Text == "no"

	stmt := &ast.UseStatement{IsNo: isNo}
	stmt.SetTokenIndex(idx)

	if p.cur.Peek().Kind == token.NUMBER {
		vtok, _ := p.cur.ConsumeKind(token.NUMBER)
		stmt.Version = vtok.Text
		if err := p.ctx.Host.CompareVersion(perlCompilerVersion, vtok.Text, "perl"); err != nil {
			return stmt, p.errorf(diagnostics.VersionMismatch, "%v", err)
		}
		p.enableVersionFeatures(vtok.Text)
		return stmt, nil
	}

	nameTok, err := p.expectKind(token.IDENT)
	if err != nil {
		return stmt, err
	}
	stmt.Module = nameTok.Text

	if p.cur.Peek().Kind == token.NUMBER {
		vtok, _ := p.cur.ConsumeKind(token.NUMBER)
		stmt.Version = vtok.Text
	}

	switch {
	case p.atOp("("):
		openIdx := p.cur.Index()
		p.cur.Consume()
		if p.atOp(")") {
			stmt.ParensWereEmpty = true
			p.cur.Consume()
		} else {
			args, err := p.ParseCommaList()
			if err != nil {
				return stmt, err
			}
			if _, err := p.expect(token.OP, ")"); err != nil {
				return stmt, err
			}
			args.SetTokenIndex(openIdx)
			stmt.Args = args
		}
	case !p.isExprTerminator(p.cur.Peek()):
		// `use MODULE LIST;` without parens:
		// the same comma list the parenthesized form accepts.
		args, err := p.ParseCommaList()
		if err != nil {
			return stmt, err
		}
		stmt.Args = args
	}

	if _, err := p.ctx.Host.Require(stmt.Module); err != nil {
		return stmt, p.errorf(diagnostics.BeginFailed, "%s", stmt.Module)
	}
	if stmt.Version != "" {
		if have, ok := p.ctx.Symbols.GetPackageVersion(stmt.Module); ok {
			if err := p.ctx.Host.CompareVersion(have, stmt.Version, stmt.Module); err != nil {
				return stmt, p.errorf(diagnostics.VersionMismatch, "%v", err)
			}
		}
	}

	switch stmt.Module {
	case "feature":
		p.applyFeaturePragma(stmt.Args, isNo)
	case "strict", "warnings":
		if isNo {
			p.ctx.Symbols.DisableFeatureCategory(stmt.Module)
		} else {
			p.ctx.Symbols.EnableFeatureCategory(stmt.Module)
		}
	}

	if !stmt.ParensWereEmpty {
		methodName := "import"
		if isNo {
			methodName = "unimport"
		}
		if found, resolved := p.ctx.Host.Can(stmt.Module, methodName, false); found {
			if _, err := p.ctx.Host.Invoke(resolved, nil, runtime.ContextVoid); err != nil {
				return stmt, p.errorf(diagnostics.BeginFailed, "%s", stmt.Module)
			}
		}
	}

	return stmt, nil
}

// applyFeaturePragma handles `use feature 'NAME', ...;` / `no feature
// 'NAME';`: each named feature is toggled in the current scope's feature
// table, whatever its name (the ones gated elsewhere are isa, try,
// bitwise, class, signatures, say).
func (p *Parser) applyFeaturePragma(args *ast.List, isNo bool) {
	if args == nil {
		return
	}
	for _, elem := range args.Elements {
		var name string
		switch v := elem.(type) {
		case *ast.String:
			name = v.Text
		case *ast.Identifier:
			name = v.Name
		default:
			continue
		}
		if isNo {
			p.ctx.Symbols.DisableFeatureCategory(name)
		} else {
			p.ctx.Symbols.EnableFeatureCategory(name)
		}
	}
}

func (p *Parser) enableVersionFeatures(version string) {
	p.ctx.Symbols.EnableFeatureCategory("say")
	p.ctx.Symbols.EnableFeatureCategory("signatures")
	if versionAtLeast(version, "5.012") {
		p.ctx.Symbols.EnableFeatureCategory("strict")
	}
	if versionAtLeast(version, "5.032") {
		p.ctx.Symbols.EnableFeatureCategory("isa")
	}
	if versionAtLeast(version, "5.034") {
		p.ctx.Symbols.EnableFeatureCategory("try")
	}
	if versionAtLeast(version, "5.036") {
		p.ctx.Symbols.EnableFeatureCategory("warnings")
		p.ctx.Symbols.EnableFeatureCategory("bitwise")
	}
	if versionAtLeast(version, "5.038") {
		p.ctx.Symbols.EnableFeatureCategory("class")
	}
}

// versionAtLeast compares two dotted-numeric version strings
// component-wise, treating missing trailing components as zero.
func versionAtLeast(have, want string) bool {
	hp := versionParts(have)
	wp := versionParts(want)
	for i := 0; i < len(hp) || i < len(wp); i++ {
		var h, w int
		if i < len(hp) {
			h = hp[i]
		}
		if i < len(wp) {
			w = wp[i]
		}
		if h != w {
			return h > w
		}
	}
	return true
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(v, "v")
	fields := strings.Split(v, ".")
	out := make([]int, len(fields))
	for i, f := range fields {
		n, _ := strconv.Atoi(f)
		out[i] = n
	}
	return out
}

// parseNamedSub handles a statement-position `sub NAME …`.
func (p *Parser) parseNamedSub() (ast.Statement, error) {
	idx := p.cur.Index()
	p.cur.Consume() // "sub"
	nameTok, err := p.expectKind(token.IDENT)
	if err != nil {
		return nil, err
	}

	sub := &ast.Subroutine{Name: nameTok.Text}
	sub.SetTokenIndex(idx)
	p.ctx.Host.SetPackageExists(p.ctx.Symbols.CurrentPackage())

	if err := p.parseSubTail(sub); err != nil {
		return sub, err
	}
	return sub, nil
}

// parseAnonSub handles an anonymous `sub (…) { BLOCK }` at expression
// position.
func (p *Parser) parseAnonSub() (ast.Node, error) {
	idx := p.cur.Index()
	p.cur.Consume() // "sub"
	sub := &ast.Subroutine{}
	sub.SetTokenIndex(idx)
	if err := p.parseSubTail(sub); err != nil {
		return sub, err
	}
	return sub, nil
}

// parseSubTail consumes the prototype-or-signature, attributes, and body
// shared by named and anonymous sub forms.
func (p *Parser) parseSubTail(sub *ast.Subroutine) error {
	if p.atOp("(") {
		params, prototype, err := p.parseSignatureOrPrototype()
		if err != nil {
			return err
		}
		sub.Signature = params
		sub.Prototype = prototype
	}

	for p.atOp(":") {
		p.cur.Consume()
		attrTok, err := p.expectKind(token.IDENT)
		if err != nil {
			return err
		}
		attr := attrTok.Text
		if p.atOp("(") {
			p.cur.Consume()
			depth := 1
			for depth > 0 {
				t := p.cur.Peek()
				if t.Kind == token.EOF {
					return p.errorf(diagnostics.UnexpectedToken, "EOF in attribute")
				}
				if t.Is(token.OP, "(") {
					depth++
				}
				if t.Is(token.OP, ")") {
					depth--
				}
				p.cur.Consume()
			}
		}
		sub.Attributes = append(sub.Attributes, attr)
	}

	if p.atOp(";") {
		return nil
	}

	scopeIdx := p.ctx.Symbols.EnterScope()
	pkg := p.ctx.Symbols.CurrentPackage()
	for _, prm := range sub.Signature {
		p.ctx.Symbols.AddVariable(symtab.Variable{Name: prm.Name, DeclKind: symtab.DeclMy, Package: pkg})
	}
	body, err := p.parseBlock()
	p.ctx.Symbols.ExitScope(scopeIdx)
	if err != nil {
		return err
	}
	body.Statements = append(p.synthesizeSignaturePrologue(sub.TokenIndex(), sub.Signature), body.Statements...)
	sub.Body = body
	return nil
}
