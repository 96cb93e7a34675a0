package ast

// FormatNode is a `format NAME = ... .` template. The
// template is attached immediately at parse time; Lines is replaced once
// when deferred collection completes.
type FormatNode struct {
	base
	Name  string
	Lines []FormatLine
}

func (f *FormatNode) statementNode()  {}
func (f *FormatNode) Accept(v Visitor) { v.VisitFormatNode(f) }

// FormatLine is the {Comment | Picture | Argument} sum over a format
// template's body lines.
type FormatLine interface {
	formatLineNode()
}

// CommentLine is a line whose trimmed content begins with '#'.
type CommentLine struct {
	Text string
}

func (CommentLine) formatLineNode() {}

// PictureField decodes one `@`/`^`-introduced field of a picture line.
type PictureField struct {
	Spec        string // the raw field spec text, e.g. "<<<<", "###.##"
	Kind        string // "left" | "right" | "center" | "integer" | "decimal" | "multiline-fill" | "multiline-consume"
	Width       int
	StartPos    int
	IsSpecial   bool // true for ^-introduced fields
}

// PictureLine is a template line containing one or more field markers.
type PictureLine struct {
	Fields []PictureField
}

func (PictureLine) formatLineNode() {}

// ArgumentLine is the comma-separated expression list that supplies values
// for the immediately preceding PictureLine's fields. On a syntax error
// the Format Parser falls back to FallbackText.
type ArgumentLine struct {
	Exprs        []Node
	FallbackText string // non-empty only if Exprs parsing failed
}

func (ArgumentLine) formatLineNode() {}
