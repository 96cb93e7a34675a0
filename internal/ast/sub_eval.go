package ast

import "github.com/perlfront/perlfront/internal/symtab"

// Parameter is one signature-bound parameter, consumed by the
// Signature Parser to synthesize the binding prologue.
type Parameter struct {
	Name      string // sigil-qualified, e.g. "$x", "@rest", "%opts"
	Default   Node   // nil if no default
	DefaultOp string // "=" | "//=" | "||=" | "" (no default)
	IsSlurpy  bool
}

// Subroutine is a named or anonymous sub. Anonymous forms omit
// Name. UseTryCatch marks a sub synthesized by lowering an `eval`
// block.
type Subroutine struct {
	base
	Name        string // "" for anonymous subs
	Prototype   string
	Attributes  []string
	Signature   []Parameter
	Body        *Block
	UseTryCatch bool
}

func (s *Subroutine) expressionNode() {}
func (s *Subroutine) statementNode()  {} // named subs are also statements
func (s *Subroutine) Accept(v Visitor) { v.VisitSubroutine(s) }

// EvalOperator models `eval EXPR` (the block form `eval { BLOCK }` is
// lowered by the expression parser to a call of an anonymous Subroutine
// with UseTryCatch set; this node covers the `eval STRING` / `evalbytes`
// forms which need a scope snapshot).
type EvalOperator struct {
	base
	Keyword  string // "eval" | "evalbytes"
	Operand  Node   // nil means the implicit `$_` operand
	Snapshot symtab.Snapshot
}

func (e *EvalOperator) expressionNode() {}
func (e *EvalOperator) Accept(v Visitor) { v.VisitEvalOperator(e) }

// CompilerFlag is returned from `use`/`no`: a snapshot of the
// warning/feature/strict state that statement just changed.
type CompilerFlag struct {
	base
	Warnings map[string]bool
	Features map[string]bool
	Strict   bool
}

func (c *CompilerFlag) statementNode()  {}
func (c *CompilerFlag) Accept(v Visitor) { v.VisitCompilerFlag(c) }
