// Package parser implements the Perl 5 statement and expression parser:
// the orchestrator that walks an already-lexed token buffer and a mutable
// pipeline.Context to produce the closed ast.Program sum type. Every parse
// failure propagates as a structured *diagnostics.Error so callers can
// switch on its Kind.
package parser

import (
	"fmt"

	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/pipeline"
	"github.com/perlfront/perlfront/internal/token"
)

// Parser walks one token buffer. A fresh Parser is constructed for every
// re-entrant sub-parse (string interpolation, signature buffers, BEGIN
// sub-compiles) sharing the outer pipeline.Context but never the outer
// Cursor.
type Parser struct {
	cur *token.Cursor
	ctx *pipeline.Context

	// currentProtoName is the subroutine name in scope for a prototype-driven
	// argument collection, so BadArgCount diagnostics can name it.
	currentProtoName string

	// dataSectionSeen stops the statement loop once __DATA__/__END__ has
	// consumed the remainder of the token stream.
	dataSectionSeen bool

	// listBound, while set, stops expression parsing at the list-terminator
	// keywords (not/and/or) so a non-parenthesized argument list ends before
	// them: `open $fh, $path or die` is (open $fh, $path) or die, not a
	// two-argument open whose second argument swallows the `or`.
	listBound bool

	// classDepth tracks how many class bodies enclose the cursor; `field`
	// is a declarator only inside one.
	classDepth int
}

// New builds a Parser over buf sharing ctx.
func New(buf []token.Token, ctx *pipeline.Context) *Parser {
	return &Parser{cur: token.NewCursor(buf), ctx: ctx}
}

// Context exposes the shared pipeline.Context, used by sub-parsers that
// need to thread it into a freshly constructed Parser (string
// interpolation, signatures).
func (p *Parser) Context() *pipeline.Context { return p.ctx }

func (p *Parser) errAt(kind diagnostics.Kind, args ...interface{}) error {
	tok := p.cur.Peek()
	e := diagnostics.AtToken(kind, tok, p.cur.Index(), args...)
	p.ctx.AddError(e)
	return e
}

func (p *Parser) errorf(kind diagnostics.Kind, format string, a ...interface{}) error {
	return p.errAt(kind, fmt.Sprintf(format, a...))
}

// expect consumes the next token asserting kind and text; on mismatch it
// records an UnexpectedToken diagnostic and returns an error.
func (p *Parser) expect(kind token.Kind, text string) (token.Token, error) {
	if tok, ok := p.cur.ConsumeText(kind, text); ok {
		return tok, nil
	}
	got := p.cur.Peek()
	return got, p.errorf(diagnostics.UnexpectedToken, "%q, expecting %q", got.Text, text)
}

func (p *Parser) expectKind(kind token.Kind) (token.Token, error) {
	if tok, ok := p.cur.ConsumeKind(kind); ok {
		return tok, nil
	}
	got := p.cur.Peek()
	return got, p.errorf(diagnostics.UnexpectedToken, "%q, expecting %s", got.Text, kind)
}

// atKeyword reports whether the next token is the bare identifier kw.
func (p *Parser) atKeyword(kw string) bool {
	return p.cur.Peek().Is(token.IDENT, kw)
}

func (p *Parser) atOp(op string) bool {
	return p.cur.Peek().Is(token.OP, op)
}

// suspendListBound lifts the list-terminator bound for the duration of a
// bracketed sub-expression, where and/or/not are ordinary operators again.
// Callers defer the returned func.
func (p *Parser) suspendListBound() func() {
	prev := p.listBound
	p.listBound = false
	return func() { p.listBound = prev }
}

// skipStatementSeparators consumes any run of ";" / newline tokens. The
// cursor treats newlines as significant; the statement parser is the one
// responsible for consuming them between statements.
//
// Every newline it consumes is also the heredoc coordinator's suspension
// point: any heredocs introduced earlier on the line just ended have their
// body lines spliced out of the stream right here.
func (p *Parser) skipStatementSeparators() error {
	for {
		if _, ok := p.cur.ConsumeText(token.OP, ";"); ok {
			continue
		}
		if _, ok := p.cur.ConsumeKind(token.NEWLINE); ok {
			if heredocs, _ := p.ctx.PendingCount(); heredocs > 0 {
				if err := p.drainPendingHeredocs(); err != nil {
					return err
				}
			}
			continue
		}
		break
	}
	return nil
}

// skipInlineNewlines consumes newline tokens inside an expression, where a
// line break is insignificant whitespace. Each consumed newline is still a
// heredoc suspension point, so any heredoc introduced earlier on the line
// has its body spliced out before the expression resumes on the next line.
func (p *Parser) skipInlineNewlines() error {
	for {
		if _, ok := p.cur.ConsumeKind(token.NEWLINE); !ok {
			return nil
		}
		if heredocs, _ := p.ctx.PendingCount(); heredocs > 0 {
			if err := p.drainPendingHeredocs(); err != nil {
				return err
			}
		}
	}
}

// ParseProgram parses the full token buffer into an ast.Program, the
// top-level entry point.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	startIdx := p.cur.Index()
	prog := &ast.Program{}
	prog.SetTokenIndex(startIdx)

	for {
		if err := p.skipStatementSeparators(); err != nil {
			return prog, err
		}
		if p.cur.AtEOF() {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return prog, err
		}
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		if p.dataSectionSeen {
			break
		}
	}

	if heredocs, formats := p.ctx.PendingCount(); heredocs > 0 {
		return prog, p.errorf(diagnostics.MissingTerminator, "Can't find string terminator anywhere before EOF")
	} else if formats > 0 {
		return prog, p.errorf(diagnostics.MissingTerminator, "Can't find format terminator")
	}

	return prog, nil
}
