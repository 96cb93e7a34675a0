package parser

import (
	"strings"

	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/token"
)

// parseDataSection handles `__DATA__`/`__END__`: everything
// remaining in the token stream is captured into a per-package `::DATA` IO
// handle and parsing stops. A placeholder handle is opened before the text
// is known so a preceding BEGIN block could already have referenced DATA;
// the backing buffer is then replaced in place. The body is read line-wise
// off the character-level cursor, so the captured text is a byte-exact copy
// of the source tail starting on the line after the marker.
func (p *Parser) parseDataSection() (ast.Statement, error) {
	idx := p.cur.Index()
	kwTok, _ := p.cur.ConsumeKind(token.IDENT)

	pkg := p.ctx.Symbols.CurrentPackage()
	handle, err := p.ctx.Host.OpenDataHandle(pkg, "")
	if err != nil {
		return nil, err
	}

	// Discard the remainder of the marker's own line; the body starts on
	// the next one.
	p.readRawLine()

	var sb strings.Builder
	for {
		line, eof := p.readRawLine()
		if eof {
			sb.WriteString(line)
			break
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	if err := p.ctx.Host.ReplaceDataBacking(handle, sb.String()); err != nil {
		return nil, err
	}

	node := &ast.DataSection{Package: pkg, Kind: kwTok.Text, Text: sb.String()}
	node.SetTokenIndex(idx)
	p.dataSectionSeen = true
	return node, nil
}

// skipPod discards a pod block: a `=` in the first column introduces pod,
// skipped until `=cut`.
func (p *Parser) skipPod() {
	for !p.cur.AtEOF() {
		t := p.cur.Peek()
		if t.Kind == token.OP && t.Text == "=" && t.Loc.Col == 1 {
			next := p.cur.PeekAt(1)
			if next.Kind == token.IDENT && next.Text == "cut" {
				p.cur.Consume()
				p.cur.Consume()
				return
			}
		}
		p.cur.Consume()
	}
}
