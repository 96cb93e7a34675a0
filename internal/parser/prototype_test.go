package parser_test

import (
	"testing"

	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/diagnostics"
)

// A core op with a required "$" prototype slot rejects a bare call with
// nothing supplied.
func TestCoreOpMissingRequiredArgIsBadArgCount(t *testing.T) {
	_, _, err := parseSrc(t, "scalar;")
	if err == nil {
		t.Fatalf("expected BadArgCount, got nil")
	}
	if diagKind(err) != diagnostics.BadArgCount {
		t.Fatalf("error kind = %v, want BadArgCount", diagKind(err))
	}
}

// A "_" prototype slot left empty defaults to $_ instead of erroring: one
// scalar, defaulting to the topic variable when absent.
func TestCoreOpUnderscorePrototypeDefaultsToTopic(t *testing.T) {
	prog, _, err := parseSrc(t, "defined;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expr.(*ast.BinaryOperator)
	if !ok || call.Name != "call" {
		t.Fatalf("expr is %#v, want a 'call' BinaryOperator", stmt.Expr)
	}
	args := call.Right.(*ast.List)
	if len(args.Elements) != 1 {
		t.Fatalf("got %d args, want the synthesized $_ default", len(args.Elements))
	}
	topic, ok := args.Elements[0].(*ast.Operator)
	if !ok || topic.Name != "$" {
		t.Fatalf("default arg = %#v, want the '$' Operator wrapping '_'", args.Elements[0])
	}
	if id, ok := topic.Operand.(*ast.Identifier); !ok || id.Name != "_" {
		t.Fatalf("default arg operand = %#v, want Identifier(_)", topic.Operand)
	}
}

// select accepts exactly 0, 1, or 4 arguments; any other count is
// BadArgCount (the runtime owns the 4-arg semantics).
func TestSelectArgumentCountRule(t *testing.T) {
	for _, src := range []string{"select;", "select($fh);", "select($r, $w, $e, 0.25);"} {
		if _, _, err := parseSrc(t, src); err != nil {
			t.Errorf("%s: parse error: %v", src, err)
		}
	}
	_, _, err := parseSrc(t, "select($a, $b);")
	if err == nil {
		t.Fatalf("select with 2 args should be BadArgCount")
	}
	if diagKind(err) != diagnostics.BadArgCount {
		t.Fatalf("error kind = %v, want BadArgCount", diagKind(err))
	}
}

// A non-parenthesized call's argument list stops before the low-precedence
// keywords (`not`/`and`/`or`): `open ... or die ...` is the open call as a
// whole or-ed with the die, not a call whose last argument swallowed the
// `or` expression.
func TestBareCallArgumentsStopAtOrDie(t *testing.T) {
	prog, _, err := parseSrc(t, `open $fh, $path or die "boom";`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	or, ok := stmt.Expr.(*ast.BinaryOperator)
	if !ok || or.Name != "or" {
		t.Fatalf("expr is %#v, want an 'or' BinaryOperator at the top", stmt.Expr)
	}
	openCall, ok := or.Left.(*ast.BinaryOperator)
	if !ok || openCall.Name != "call" {
		t.Fatalf("or.Left is %#v, want the open call", or.Left)
	}
	if id, ok := openCall.Left.(*ast.Identifier); !ok || id.Name != "open" {
		t.Fatalf("call target is %#v, want Identifier(open)", openCall.Left)
	}
	openArgs := openCall.Right.(*ast.List)
	if len(openArgs.Elements) != 2 {
		t.Fatalf("open got %d args, want 2 ($fh, $path)", len(openArgs.Elements))
	}
	dieCall, ok := or.Right.(*ast.BinaryOperator)
	if !ok || dieCall.Name != "call" {
		t.Fatalf("or.Right is %#v, want the die call", or.Right)
	}
	if id, ok := dieCall.Left.(*ast.Identifier); !ok || id.Name != "die" {
		t.Fatalf("or.Right target is %#v, want Identifier(die)", dieCall.Left)
	}
}

// `and` bounds a bare list the same way `or` does.
func TestBareCallArgumentsStopAtAnd(t *testing.T) {
	prog, _, err := parseSrc(t, "push @log, $msg and $x;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	and, ok := stmt.Expr.(*ast.BinaryOperator)
	if !ok || and.Name != "and" {
		t.Fatalf("expr is %#v, want an 'and' BinaryOperator at the top", stmt.Expr)
	}
	pushCall, ok := and.Left.(*ast.BinaryOperator)
	if !ok || pushCall.Name != "call" {
		t.Fatalf("and.Left is %#v, want the push call", and.Left)
	}
	if len(pushCall.Right.(*ast.List).Elements) != 2 {
		t.Fatalf("push got %d args, want 2", len(pushCall.Right.(*ast.List).Elements))
	}
}

// Inside parentheses the bound is lifted: the low-precedence keywords are
// ordinary operators again and the list is consumed greedily.
func TestParenthesizedListKeepsLowPrecedenceOperators(t *testing.T) {
	prog, _, err := parseSrc(t, "print(1 or 2);")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	call := stmt.Expr.(*ast.BinaryOperator)
	args := call.Right.(*ast.List)
	if len(args.Elements) != 1 {
		t.Fatalf("got %d args, want 1 (the whole `1 or 2` expression)", len(args.Elements))
	}
	if or, ok := args.Elements[0].(*ast.BinaryOperator); !ok || or.Name != "or" {
		t.Fatalf("argument is %#v, want an 'or' BinaryOperator", args.Elements[0])
	}
}

// print's argument list carries the default filehandle, select(), in the
// List's handle slot; an explicit all-caps bareword filehandle replaces it.
func TestPrintFillsListHandleSlot(t *testing.T) {
	prog, _, err := parseSrc(t, `print "x";`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	call := stmt.Expr.(*ast.BinaryOperator)
	args := call.Right.(*ast.List)
	def, ok := args.Handle.(*ast.BinaryOperator)
	if !ok || def.Name != "call" {
		t.Fatalf("handle = %#v, want the default select() call", args.Handle)
	}
	if id, ok := def.Left.(*ast.Identifier); !ok || id.Name != "select" {
		t.Fatalf("handle callee = %#v, want Identifier(select)", def.Left)
	}

	prog2, _, err := parseSrc(t, `print STDERR "x";`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stmt2 := prog2.Statements[0].(*ast.ExpressionStatement)
	args2 := stmt2.Expr.(*ast.BinaryOperator).Right.(*ast.List)
	if id, ok := args2.Handle.(*ast.Identifier); !ok || id.Name != "STDERR" {
		t.Fatalf("handle = %#v, want Identifier(STDERR)", args2.Handle)
	}
	if len(args2.Elements) != 1 {
		t.Fatalf("got %d args, want 1 after the filehandle", len(args2.Elements))
	}
}

// sort's leading block lands in the handle slot, leaving the list proper to
// the values being sorted.
func TestSortBlockFillsHandleSlot(t *testing.T) {
	prog, _, err := parseSrc(t, "sort { $a <=> $b } @list;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	call := stmt.Expr.(*ast.BinaryOperator)
	args := call.Right.(*ast.List)
	if _, ok := args.Handle.(*ast.Block); !ok {
		t.Fatalf("handle = %#v, want the comparator *ast.Block", args.Handle)
	}
	if len(args.Elements) != 1 {
		t.Fatalf("got %d list elements, want 1 (@list)", len(args.Elements))
	}
}

// The same core op parses cleanly, parenthesized, once an argument is
// supplied.
func TestCoreOpParenthesizedCallConsumesArg(t *testing.T) {
	prog, _, err := parseSrc(t, "defined($x);")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expr.(*ast.BinaryOperator)
	if !ok || call.Name != "call" {
		t.Fatalf("expr is %#v, want a 'call' BinaryOperator", stmt.Expr)
	}
	args, ok := call.Right.(*ast.List)
	if !ok || len(args.Elements) != 1 {
		t.Fatalf("args = %#v, want a 1-element List", call.Right)
	}
}

// A bare (non-parenthesized) call to a "$"-prototype op stops its argument
// scan at the statement terminator rather than swallowing anything past it.
func TestCoreOpBareCallStopsAtStatementTerminator(t *testing.T) {
	prog, _, err := parseSrc(t, "defined $x;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Statements))
	}
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expr.(*ast.BinaryOperator)
	if !ok || call.Name != "call" {
		t.Fatalf("expr is %#v, want a 'call' BinaryOperator", stmt.Expr)
	}
	args := call.Right.(*ast.List)
	if len(args.Elements) != 1 {
		t.Fatalf("got %d args, want 1", len(args.Elements))
	}
}

// An empty prototype ("") parses as an arbitrary comma list, exercised here
// via push's empty-prototype core-op entry.
func TestCoreOpEmptyPrototypeParsesCommaList(t *testing.T) {
	prog, _, err := parseSrc(t, "push(@list, 1, 2, 3);")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expr.(*ast.BinaryOperator)
	if !ok || call.Name != "call" {
		t.Fatalf("expr is %#v, want a 'call' BinaryOperator", stmt.Expr)
	}
	args := call.Right.(*ast.List)
	if len(args.Elements) != 4 {
		t.Fatalf("got %d args, want 4 (@list, 1, 2, 3)", len(args.Elements))
	}
}

// shift's ";\@" prototype is entirely optional, so a bare call with no
// argument at all is legal.
func TestCoreOpOptionalPrototypeAllowsNoArgs(t *testing.T) {
	prog, _, err := parseSrc(t, "shift;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expr.(*ast.BinaryOperator)
	if !ok || call.Name != "call" {
		t.Fatalf("expr is %#v, want a 'call' BinaryOperator", stmt.Expr)
	}
	args := call.Right.(*ast.List)
	if len(args.Elements) != 0 {
		t.Fatalf("got %d args, want 0", len(args.Elements))
	}
}
