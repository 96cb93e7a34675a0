// Package ast defines the closed AST sum type the parser produces. Every
// variant carries a TokenIndex for diagnostics and is dispatched through a
// Visitor via Accept.
//
// Downstream passes consume this via the Visitor rather than
// type-switching everywhere: new node kinds require edits to every
// exhaustive Visitor implementation, preventing a silently-unhandled node
// from compiling.
package ast

// Node is the base interface every AST variant implements.
type Node interface {
	// TokenIndex is the index, within the token buffer that produced this
	// node, of its primary token.
	TokenIndex() int
	Accept(v Visitor)
}

// Expression is a Node that yields a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a Node that appears in a Block's statement list.
type Statement interface {
	Node
	statementNode()
}

// Annotations holds the tags downstream passes read off a node: context
// hint, declared-reference marker, postfix-deref marker, and class-related
// tags. These may be attached after a node is linked; everything else
// about a node is immutable once linked.
type Annotations struct {
	Context            string // "SCALAR" | "LIST" | ""
	IsDeclaredReference bool
	PostfixDeref       string // e.g. "@*", "$*", "%*", "&*", "$#*", "**"
	IsClass            bool
	ParentClass        string
	ParentVersion      string
}

// base is embedded by every concrete node to provide TokenIndex() without
// repeating the field and method on every variant.
type base struct {
	tokenIndex int
}

func (b base) TokenIndex() int { return b.tokenIndex }

// SetTokenIndex lets the parser stamp a node's primary token after
// construction, for the handful of node kinds built incrementally (e.g.
// Program, whose token index is known before its statement list is).
func (b *base) SetTokenIndex(i int) { b.tokenIndex = i }

// Program is the root of every parse.
type Program struct {
	base
	Statements []Statement
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// ---- Literals ----------------------------------------------------------

// Number is a numeric literal; the source text is preserved verbatim since
// "numeric coercion is a runtime concern".
type Number struct {
	base
	Text       string
	IsVString  bool
}

func (n *Number) expressionNode() {}
func (n *Number) Accept(v Visitor) { v.VisitNumber(n) }

func NewNumber(tokenIndex int, text string, isVString bool) *Number {
	return &Number{base: base{tokenIndex}, Text: text, IsVString: isVString}
}

// String is a literal string with no interpolation applied (the
// String/Quote Engine.9, produces a List(join(...)) node instead
// when interpolation is present).
type String struct {
	base
	Text      string
	IsVString bool
}

func (s *String) expressionNode()  {}
func (s *String) Accept(v Visitor) { v.VisitString(s) }

func NewString(tokenIndex int, text string, isVString bool) *String {
	return &String{base: base{tokenIndex}, Text: text, IsVString: isVString}
}

// Identifier is a fully- or partially-qualified name, autoquoted by `=>`
// and bare hash-key contexts.
type Identifier struct {
	base
	Name string
}

func (i *Identifier) expressionNode()  {}
func (i *Identifier) Accept(v Visitor) { v.VisitIdentifier(i) }

func NewIdentifier(tokenIndex int, name string) *Identifier {
	return &Identifier{base: base{tokenIndex}, Name: name}
}

// ---- Operators ----------------------------------------------------------

// Operator is a unary-shaped node: sigils, unary ops, declarators, scalar/
// undef, reference (\), postfix $#, file tests, die, etc..
type Operator struct {
	base
	Name      string
	Operand   Node // may be nil for nullary forms (e.g. bare `wantarray`)
	Flags     map[string]bool
	Annotations
}

func (o *Operator) expressionNode()  {}
func (o *Operator) Accept(v Visitor) { v.VisitOperator(o) }

func NewOperator(tokenIndex int, name string, operand Node) *Operator {
	return &Operator{base: base{tokenIndex}, Name: name, Operand: operand, Flags: map[string]bool{}}
}

// BinaryOperator covers infix operators, `->`, call/subscript forms
// `(`/`{`/`[`, `join`, and assignments.
type BinaryOperator struct {
	base
	Name  string
	Left  Node
	Right Node
	Flags map[string]bool
}

func (b *BinaryOperator) expressionNode()  {}
func (b *BinaryOperator) Accept(v Visitor) { v.VisitBinaryOperator(b) }

func NewBinaryOperator(tokenIndex int, name string, left, right Node) *BinaryOperator {
	return &BinaryOperator{base: base{tokenIndex}, Name: name, Left: left, Right: right, Flags: map[string]bool{}}
}

// Ternary is always `?:`.
type Ternary struct {
	base
	Op   string
	Cond Node
	Then Node
	Else Node
}

func (t *Ternary) expressionNode()  {}
func (t *Ternary) Accept(v Visitor) { v.VisitTernary(t) }

func NewTernary(tokenIndex int, op string, cond, then, els Node) *Ternary {
	return &Ternary{base: base{tokenIndex}, Op: op, Cond: cond, Then: then, Else: els}
}

// List is an ordered comma-list, with an optional filehandle slot for
// `map`/`sort`/`print`.
type List struct {
	base
	Elements []Node
	Handle   Node // nil unless a filehandle/block precedes the list
}

func (l *List) expressionNode()  {}
func (l *List) Accept(v Visitor) { v.VisitList(l) }

func NewList(tokenIndex int, elements []Node, handle Node) *List {
	return &List{base: base{tokenIndex}, Elements: elements, Handle: handle}
}

// ArrayLiteral / HashLiteral are `[ ... ]` / `{ ... }` anonymous
// constructors.
type ArrayLiteral struct {
	base
	Elements []Node
}

func (a *ArrayLiteral) expressionNode()  {}
func (a *ArrayLiteral) Accept(v Visitor) { v.VisitArrayLiteral(a) }

func NewArrayLiteral(tokenIndex int, elements []Node) *ArrayLiteral {
	return &ArrayLiteral{base: base{tokenIndex}, Elements: elements}
}

type HashLiteral struct {
	base
	Elements []Node
}

func (h *HashLiteral) expressionNode()  {}
func (h *HashLiteral) Accept(v Visitor) { v.VisitHashLiteral(h) }

func NewHashLiteral(tokenIndex int, elements []Node) *HashLiteral {
	return &HashLiteral{base: base{tokenIndex}, Elements: elements}
}
