package ast

import (
	"fmt"
	"strings"
)

// Dump renders prog as an S-expression debug aid. It walks the tree via
// the Visitor interface so the dumper, like every other consumer, breaks
// at compile time if a new node kind is added without a case here.
func Dump(prog *Program) string {
	d := &dumper{}
	d.VisitProgram(prog)
	return d.sb.String()
}

type dumper struct {
	sb    strings.Builder
	depth int
}

func (d *dumper) line(format string, args ...interface{}) {
	d.sb.WriteString(strings.Repeat("  ", d.depth))
	fmt.Fprintf(&d.sb, format, args...)
	d.sb.WriteByte('\n')
}

func (d *dumper) child(n Node) {
	if n == nil {
		d.line("nil")
		return
	}
	d.depth++
	n.Accept(d)
	d.depth--
}

func (d *dumper) childSlice(label string, nodes []Node) {
	d.line("(%s", label)
	for _, n := range nodes {
		d.child(n)
	}
	d.line(")")
}

func (d *dumper) VisitProgram(n *Program) {
	d.line("(program")
	d.depth++
	for _, s := range n.Statements {
		s.Accept(d)
	}
	d.depth--
	d.line(")")
}

func (d *dumper) VisitNumber(n *Number) { d.line("(number %s)", n.Text) }
func (d *dumper) VisitString(n *String) { d.line("(string %q)", n.Text) }
func (d *dumper) VisitIdentifier(n *Identifier) { d.line("(ident %s)", n.Name) }

func (d *dumper) VisitOperator(n *Operator) {
	d.line("(op %s", n.Name)
	d.child(n.Operand)
	d.line(")")
}

func (d *dumper) VisitBinaryOperator(n *BinaryOperator) {
	d.line("(binop %s", n.Name)
	d.child(n.Left)
	d.child(n.Right)
	d.line(")")
}

func (d *dumper) VisitTernary(n *Ternary) {
	d.line("(ternary")
	d.child(n.Cond)
	d.child(n.Then)
	d.child(n.Else)
	d.line(")")
}

func (d *dumper) VisitList(n *List) {
	d.childSlice("list", n.Elements)
}

func (d *dumper) VisitArrayLiteral(n *ArrayLiteral) { d.childSlice("array", n.Elements) }
func (d *dumper) VisitHashLiteral(n *HashLiteral)   { d.childSlice("hash", n.Elements) }

func (d *dumper) VisitBlock(n *Block) {
	d.line("(block")
	d.depth++
	for _, s := range n.Statements {
		s.Accept(d)
	}
	d.depth--
	d.line(")")
}

func (d *dumper) VisitIf(n *If) {
	d.line("(if")
	d.child(n.Cond)
	d.child(n.Then)
	if n.ElseIf != nil {
		d.depth++
		n.ElseIf.Accept(d)
		d.depth--
	}
	if n.Else != nil {
		d.child(n.Else)
	}
	d.line(")")
}

func (d *dumper) VisitFor1(n *For1) {
	d.line("(for1")
	d.child(n.LoopVar)
	d.child(n.List)
	d.child(n.Body)
	d.line(")")
}

func (d *dumper) VisitFor3(n *For3) {
	d.line("(for3")
	d.child(n.Init)
	d.child(n.Cond)
	d.child(n.Incr)
	d.child(n.Body)
	d.line(")")
}

func (d *dumper) VisitTry(n *Try) {
	d.line("(try")
	d.child(n.TryBlock)
	d.child(n.CatchBlock)
	if n.FinallyBlock != nil {
		d.child(n.FinallyBlock)
	}
	d.line(")")
}

func (d *dumper) VisitBreak(n *BreakStatement)    { d.line("(break %s)", n.LabelName) }
func (d *dumper) VisitContinue(n *ContinueStatement) { d.line("(continue %s)", n.LabelName) }

func (d *dumper) VisitExpressionStatement(n *ExpressionStatement) {
	d.line("(stmt")
	d.child(n.Expr)
	d.line(")")
}

func (d *dumper) VisitNotImplemented(n *NotImplementedStatement) { d.line("(not-implemented)") }

func (d *dumper) VisitSubroutine(n *Subroutine) {
	d.line("(sub %q", n.Name)
	d.child(n.Body)
	d.line(")")
}

func (d *dumper) VisitEvalOperator(n *EvalOperator) {
	d.line("(eval %s", n.Keyword)
	d.child(n.Operand)
	d.line(")")
}

func (d *dumper) VisitCompilerFlag(n *CompilerFlag) { d.line("(compiler-flag)") }

func (d *dumper) VisitPackageDeclaration(n *PackageDeclaration) {
	d.line("(package %s %s", n.Name, n.Version)
	if n.Block != nil {
		d.child(n.Block)
	}
	d.line(")")
}

func (d *dumper) VisitUseStatement(n *UseStatement) {
	kw := "use"
	if n.IsNo {
		kw = "no"
	}
	d.line("(%s %s %s)", kw, n.Module, n.Version)
}

func (d *dumper) VisitSpecialBlock(n *SpecialBlock) {
	d.line("(%s", n.Keyword)
	d.child(n.Body)
	d.line(")")
}

func (d *dumper) VisitHeredoc(n *Heredoc) {
	d.line("(heredoc %s", n.Tag)
	d.child(n.Body)
	d.line(")")
}

func (d *dumper) VisitDataSection(n *DataSection) {
	d.line("(%s %s %d bytes)", n.Kind, n.Package, len(n.Text))
}

func (d *dumper) VisitFormatNode(n *FormatNode) {
	d.line("(format %s %d lines)", n.Name, len(n.Lines))
}
