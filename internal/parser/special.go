package parser

import (
	"strings"

	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/runtime"
	"github.com/perlfront/perlfront/internal/symtab"
	"github.com/perlfront/perlfront/internal/token"
)

var specialBlockKeywords = map[string]bool{
	"BEGIN": true, "END": true, "INIT": true, "CHECK": true,
	"UNITCHECK": true, "ADJUST": true,
}

func isSpecialBlockKeyword(name string) bool {
	return specialBlockKeywords[name]
}

// parseSpecialBlock handles BEGIN/END/INIT/CHECK/UNITCHECK/ADJUST:
// `KEYWORD { BLOCK }`, transformed into a phase-prologue-wrapped
// anonymous sub and dispatched to the matching runtime hook.
func (p *Parser) parseSpecialBlock() (ast.Statement, error) {
	idx := p.cur.Index()
	kwTok, _ := p.cur.ConsumeKind(token.IDENT)
	kw := kwTok.Text

	currentPkg := p.ctx.Symbols.CurrentPackage()
	visible := p.ctx.Symbols.GetAllVisibleVariables()

	scopeIdx := p.ctx.Symbols.EnterScope()
	body, err := p.parseBlock()
	p.ctx.Symbols.ExitScope(scopeIdx)
	if err != nil {
		return nil, err
	}

	syntheticPkg := "PerlOnJava::_BEGIN_" + p.ctx.NextBeginSuffix()
	prologue := p.phasePrologue(idx, kw, currentPkg, syntheticPkg, visible)
	body.Statements = append(prologue, body.Statements...)

	sub := &ast.Subroutine{Body: body}
	sub.SetTokenIndex(idx)

	sb := &ast.SpecialBlock{Keyword: kw, Body: body, SyntheticPackage: syntheticPkg}
	sb.SetTokenIndex(idx)

	switch kw {
	case "BEGIN":
		if _, err := p.ctx.Host.Invoke(sub, nil, runtime.ContextVoid); err != nil {
			return sb, p.errorf(diagnostics.BeginFailed, "%s", kw)
		}
	case "END":
		p.ctx.Host.SaveEndBlock(sub)
	case "INIT":
		p.ctx.Host.SaveInitBlock(sub)
	case "CHECK":
		p.ctx.Host.SaveCheckBlock(sub)
	case "UNITCHECK":
		p.ctx.UnitCheckQueue = append(p.ctx.UnitCheckQueue, func() error {
			_, err := p.ctx.Host.Invoke(sub, nil, runtime.ContextVoid)
			return err
		})
	case "ADJUST":
		// Not executed at parse time: the class body holding
		// this node is read by the class-transform step, which hands ADJUST
		// blocks to the generated constructor.
	}

	return sb, nil
}

// phasePrologue builds the statements prepended to a special block's
// body: the `${^GLOBAL_PHASE}` assignment, a package/our pair per
// lexically visible outer variable, and a closing `package CURRENT`.
func (p *Parser) phasePrologue(idx int, kw, currentPkg, syntheticPkg string, visible []symtab.Variable) []ast.Statement {
	phase := kw
	if kw == "BEGIN" || kw == "UNITCHECK" {
		phase = "START"
	}

	var stmts []ast.Statement

	globalPhaseVar := ast.NewOperator(idx, "$", ast.NewIdentifier(idx, "^GLOBAL_PHASE"))
	localRef := ast.NewOperator(idx, "local", globalPhaseVar)
	localRef.IsDeclaredReference = true
	assign := ast.NewBinaryOperator(idx, "=", localRef, ast.NewString(idx, phase, false))
	assignStmt := &ast.ExpressionStatement{Expr: assign}
	assignStmt.SetTokenIndex(idx)
	stmts = append(stmts, assignStmt)

	for _, v := range visible {
		if v.Name == "@_" || v.DeclKind == symtab.DeclNone {
			continue
		}
		declPkg := v.Package
		if v.DeclKind == symtab.DeclMy || v.DeclKind == symtab.DeclState {
			declPkg = syntheticPkg
		}

		pkgStmt := &ast.PackageDeclaration{Name: declPkg}
		pkgStmt.SetTokenIndex(idx)
		stmts = append(stmts, pkgStmt)

		ourDecl := ast.NewOperator(idx, "our", variableNodeFromName(idx, v.Name))
		ourDecl.IsDeclaredReference = true
		ourStmt := &ast.ExpressionStatement{Expr: ourDecl}
		ourStmt.SetTokenIndex(idx)
		stmts = append(stmts, ourStmt)
	}

	restoreStmt := &ast.PackageDeclaration{Name: currentPkg}
	restoreStmt.SetTokenIndex(idx)
	stmts = append(stmts, restoreStmt)

	return stmts
}

// variableNodeFromName rebuilds a sigil-wrapped variable reference from a
// symbol table's sigil-qualified name (e.g. "@rest" -> @-operator wrapping
// identifier "rest").
func variableNodeFromName(idx int, name string) ast.Node {
	if strings.HasPrefix(name, "$#") {
		return ast.NewOperator(idx, "$#", ast.NewIdentifier(idx, name[2:]))
	}
	if name == "" {
		return ast.NewIdentifier(idx, "")
	}
	return ast.NewOperator(idx, name[:1], ast.NewIdentifier(idx, name[1:]))
}
