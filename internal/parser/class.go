package parser

import (
	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/symtab"
)

// classTransform runs over a parsed class body while its inner scope is
// still alive: named subs become deferred methods, each `field` declaration
// grows a read accessor, ADJUST blocks are collected, and the constructor
// is synthesized last so it can see all of them.
func (p *Parser) classTransform(decl *ast.PackageDeclaration, blk *ast.Block) {
	for _, stmt := range blk.Statements {
		switch s := stmt.(type) {
		case *ast.Subroutine:
			if s.Name != "" {
				decl.Methods = append(decl.Methods, s)
			}
		case *ast.SpecialBlock:
			if s.Keyword == "ADJUST" {
				decl.AdjustBlocks = append(decl.AdjustBlocks, s)
			}
		case *ast.ExpressionStatement:
			if field := fieldDeclaration(s.Expr); field != nil {
				decl.Fields = append(decl.Fields, field)
				decl.Accessors = append(decl.Accessors, synthesizeAccessor(field))
			}
		}
	}
	decl.Constructor = synthesizeConstructor(decl)
}

// fieldDeclaration unwraps `field $x` / `field $x = default` down to the
// field declarator, or nil when expr is not a field declaration.
func fieldDeclaration(expr ast.Node) *ast.Operator {
	if assign, ok := expr.(*ast.BinaryOperator); ok && assign.Name == "=" {
		expr = assign.Left
	}
	if op, ok := expr.(*ast.Operator); ok && op.Name == "field" {
		return op
	}
	return nil
}

// fieldName strips the sigil off a field declarator's variable.
func fieldName(field *ast.Operator) string {
	leaves := collectDeclaredVars(field.Operand)
	if len(leaves) == 0 {
		return ""
	}
	base := variableBaseName(leaves[0])
	if len(base) < 2 {
		return ""
	}
	return base[1:]
}

// synthesizeAccessor builds a reader method for one field:
//
//	sub NAME { my ($self) = @_; $self->{NAME} }
func synthesizeAccessor(field *ast.Operator) *ast.Subroutine {
	idx := field.TokenIndex()
	name := fieldName(field)

	bind := selfBinding(idx)
	access := ast.NewBinaryOperator(idx, "->{}",
		ast.NewOperator(idx, "$", ast.NewIdentifier(idx, "self")),
		ast.NewString(idx, name, false))
	accessStmt := &ast.ExpressionStatement{Expr: access}
	accessStmt.SetTokenIndex(idx)

	body := &ast.Block{Statements: []ast.Statement{bind, accessStmt}}
	body.SetTokenIndex(idx)
	sub := &ast.Subroutine{Name: name, Body: body}
	sub.SetTokenIndex(idx)
	return sub
}

// synthesizeConstructor builds the generated `new`:
//
//	sub new {
//	    my ($class, %args) = @_;
//	    my $self = bless({}, $class);
//	    $self->{FIELD} = $args{FIELD};   # per field
//	    ...                              # ADJUST blocks, invoked in order
//	    $self
//	}
func synthesizeConstructor(decl *ast.PackageDeclaration) *ast.Subroutine {
	idx := decl.TokenIndex()

	classVar := ast.NewOperator(idx, "$", ast.NewIdentifier(idx, "class"))
	argsVar := ast.NewOperator(idx, "%", ast.NewIdentifier(idx, "args"))
	declOp := ast.NewOperator(idx, "my", ast.NewList(idx, []ast.Node{classVar, argsVar}, nil))
	declOp.IsDeclaredReference = true
	bind := ast.NewBinaryOperator(idx, "=", declOp,
		ast.NewOperator(idx, "@", ast.NewIdentifier(idx, "_")))
	bindStmt := &ast.ExpressionStatement{Expr: bind}
	bindStmt.SetTokenIndex(idx)
	stmts := []ast.Statement{bindStmt}

	selfDecl := ast.NewOperator(idx, "my",
		ast.NewOperator(idx, "$", ast.NewIdentifier(idx, "self")))
	selfDecl.IsDeclaredReference = true
	blessCall := ast.NewBinaryOperator(idx, "call", ast.NewIdentifier(idx, "bless"),
		ast.NewList(idx, []ast.Node{
			ast.NewHashLiteral(idx, nil),
			ast.NewOperator(idx, "$", ast.NewIdentifier(idx, "class")),
		}, nil))
	selfAssign := ast.NewBinaryOperator(idx, "=", selfDecl, blessCall)
	selfStmt := &ast.ExpressionStatement{Expr: selfAssign}
	selfStmt.SetTokenIndex(idx)
	stmts = append(stmts, selfStmt)

	for _, field := range decl.Fields {
		name := fieldName(field)
		slot := ast.NewBinaryOperator(idx, "->{}",
			ast.NewOperator(idx, "$", ast.NewIdentifier(idx, "self")),
			ast.NewString(idx, name, false))
		arg := ast.NewBinaryOperator(idx, "->{}",
			ast.NewOperator(idx, "$", ast.NewIdentifier(idx, "args")),
			ast.NewString(idx, name, false))
		assign := ast.NewBinaryOperator(idx, "=", slot, arg)
		stmt := &ast.ExpressionStatement{Expr: assign}
		stmt.SetTokenIndex(idx)
		stmts = append(stmts, stmt)
	}

	for _, adj := range decl.AdjustBlocks {
		sub := &ast.Subroutine{Body: adj.Body}
		sub.SetTokenIndex(adj.TokenIndex())
		call := ast.NewBinaryOperator(adj.TokenIndex(), "call", sub,
			ast.NewList(adj.TokenIndex(), []ast.Node{
				ast.NewOperator(adj.TokenIndex(), "$", ast.NewIdentifier(adj.TokenIndex(), "self")),
			}, nil))
		stmt := &ast.ExpressionStatement{Expr: call}
		stmt.SetTokenIndex(adj.TokenIndex())
		stmts = append(stmts, stmt)
	}

	ret := &ast.ExpressionStatement{Expr: ast.NewOperator(idx, "$", ast.NewIdentifier(idx, "self"))}
	ret.SetTokenIndex(idx)
	stmts = append(stmts, ret)

	body := &ast.Block{Statements: stmts}
	body.SetTokenIndex(idx)
	sub := &ast.Subroutine{Name: "new", Body: body}
	sub.SetTokenIndex(idx)
	return sub
}

// selfBinding builds the `my ($self) = @_;` opener shared by synthesized
// methods.
func selfBinding(idx int) ast.Statement {
	selfDecl := ast.NewOperator(idx, "my",
		ast.NewOperator(idx, "$", ast.NewIdentifier(idx, "self")))
	selfDecl.IsDeclaredReference = true
	bind := ast.NewBinaryOperator(idx, "=", selfDecl,
		ast.NewOperator(idx, "@", ast.NewIdentifier(idx, "_")))
	stmt := &ast.ExpressionStatement{Expr: bind}
	stmt.SetTokenIndex(idx)
	return stmt
}

// registerClassSymbols registers the deferred methods, accessors, and the
// generated constructor with the scope enclosing the class block.
func (p *Parser) registerClassSymbols(decl *ast.PackageDeclaration) {
	for _, sub := range decl.Methods {
		p.registerCodeSymbol(decl.Name, sub)
	}
	for _, sub := range decl.Accessors {
		p.registerCodeSymbol(decl.Name, sub)
	}
	if decl.Constructor != nil {
		p.registerCodeSymbol(decl.Name, decl.Constructor)
	}
}

func (p *Parser) registerCodeSymbol(pkg string, sub *ast.Subroutine) {
	p.ctx.Symbols.AddVariable(symtab.Variable{
		Name: "&" + sub.Name, Package: pkg, BackingNode: sub,
	})
}
