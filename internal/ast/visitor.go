package ast

// Visitor is the exhaustive dispatch interface every consumer of the AST
// implements.
type Visitor interface {
	VisitProgram(*Program)

	VisitNumber(*Number)
	VisitString(*String)
	VisitIdentifier(*Identifier)
	VisitOperator(*Operator)
	VisitBinaryOperator(*BinaryOperator)
	VisitTernary(*Ternary)
	VisitList(*List)
	VisitArrayLiteral(*ArrayLiteral)
	VisitHashLiteral(*HashLiteral)

	VisitBlock(*Block)
	VisitIf(*If)
	VisitFor1(*For1)
	VisitFor3(*For3)
	VisitTry(*Try)
	VisitBreak(*BreakStatement)
	VisitContinue(*ContinueStatement)
	VisitExpressionStatement(*ExpressionStatement)
	VisitNotImplemented(*NotImplementedStatement)

	VisitSubroutine(*Subroutine)
	VisitEvalOperator(*EvalOperator)
	VisitCompilerFlag(*CompilerFlag)

	VisitPackageDeclaration(*PackageDeclaration)
	VisitUseStatement(*UseStatement)
	VisitSpecialBlock(*SpecialBlock)
	VisitHeredoc(*Heredoc)
	VisitDataSection(*DataSection)

	VisitFormatNode(*FormatNode)
}

// BaseVisitor implements every Visitor method as a no-op so callers that
// only care about a handful of node kinds can embed it and override just
// those, the same partial-visitor convenience shape used throughout the
// pack's hand-rolled parsers.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program)                               {}
func (BaseVisitor) VisitNumber(*Number)                                 {}
func (BaseVisitor) VisitString(*String)                                 {}
func (BaseVisitor) VisitIdentifier(*Identifier)                         {}
func (BaseVisitor) VisitOperator(*Operator)                             {}
func (BaseVisitor) VisitBinaryOperator(*BinaryOperator)                 {}
func (BaseVisitor) VisitTernary(*Ternary)                               {}
func (BaseVisitor) VisitList(*List)                                     {}
func (BaseVisitor) VisitArrayLiteral(*ArrayLiteral)                     {}
func (BaseVisitor) VisitHashLiteral(*HashLiteral)                       {}
func (BaseVisitor) VisitBlock(*Block)                                   {}
func (BaseVisitor) VisitIf(*If)                                         {}
func (BaseVisitor) VisitFor1(*For1)                                     {}
func (BaseVisitor) VisitFor3(*For3)                                     {}
func (BaseVisitor) VisitTry(*Try)                                       {}
func (BaseVisitor) VisitBreak(*BreakStatement)                          {}
func (BaseVisitor) VisitContinue(*ContinueStatement)                    {}
func (BaseVisitor) VisitExpressionStatement(*ExpressionStatement)       {}
func (BaseVisitor) VisitNotImplemented(*NotImplementedStatement)        {}
func (BaseVisitor) VisitSubroutine(*Subroutine)                         {}
func (BaseVisitor) VisitEvalOperator(*EvalOperator)                     {}
func (BaseVisitor) VisitCompilerFlag(*CompilerFlag)                     {}
func (BaseVisitor) VisitPackageDeclaration(*PackageDeclaration)         {}
func (BaseVisitor) VisitUseStatement(*UseStatement)                     {}
func (BaseVisitor) VisitSpecialBlock(*SpecialBlock)                     {}
func (BaseVisitor) VisitHeredoc(*Heredoc)                               {}
func (BaseVisitor) VisitDataSection(*DataSection)                       {}
func (BaseVisitor) VisitFormatNode(*FormatNode)                         {}
