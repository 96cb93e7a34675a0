package parser

import (
	"strings"

	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/pipeline"
	"github.com/perlfront/perlfront/internal/token"
)

// parseHeredocIntro handles `<<TAG` / `<<"TAG"` / `<<'TAG'` / `<<~TAG`.
// It records the identifier, interpolation mode, and a
// pending-node handle in the shared heredoc queue; the body
// itself is spliced in by drainPendingHeredocs once the statement parser
// reaches the end of the current line.
func (p *Parser) parseHeredocIntro() (ast.Node, error) {
	idx := p.cur.Index()
	introTok, _ := p.cur.ConsumeKind(token.OP)
	indented := introTok.Text == "<<~"

	var tag, interpMode string
	switch {
	case p.cur.Peek().Kind == token.STRING:
		strTok, _ := p.cur.ConsumeKind(token.STRING)
		tag = strTok.Text
		interpMode = "double"
		if strTok.StringFlag == token.StrSingle {
			interpMode = "single"
		}
	case p.cur.Peek().Kind == token.IDENT:
		idTok, _ := p.cur.ConsumeKind(token.IDENT)
		tag = idTok.Text
		interpMode = "bare"
	default:
		return nil, p.errorf(diagnostics.UnexpectedToken, "%q, expecting a heredoc tag", p.cur.Peek().Text)
	}
	if indented {
		interpMode = "indented"
	}

	heredoc := &ast.Heredoc{Tag: tag, InterpMode: interpMode}
	heredoc.SetTokenIndex(idx)

	pending := &pipeline.PendingHeredoc{Tag: tag}
	pending.Resolve = func(raw string) error {
		body := raw
		if indented {
			body = stripCommonIndent(body)
		}

		if interpMode == "single" {
			// A single-quoted tag suppresses interpolation and escape
			// processing entirely; the body is taken verbatim.
			heredoc.Body = ast.NewString(idx, body, false)
		} else {
			seg, err := p.parseInterpolatedSegment(idx, body, false)
			if err != nil {
				return err
			}
			heredoc.Body = seg
		}
		heredoc.Resolved = true
		return nil
	}
	p.ctx.HeredocQueue = append(p.ctx.HeredocQueue, pending)

	return heredoc, nil
}

// drainPendingHeredocs is invoked by the Statement Parser every time a
// newline is consumed between statements: the coordinator's "next
// newline" suspension point. It reads the raw body lines
// directly off the token cursor (consuming them so the main parse never
// revisits them as statements) for every heredoc introduced on the line
// just completed.
func (p *Parser) drainPendingHeredocs() error {
	// Read every pending body off the stream first, in introduction order,
	// and only then interpolate: a Resolve callback re-enters the parser,
	// and it must not find later bodies still waiting to be read.
	type collected struct {
		pending *pipeline.PendingHeredoc
		body    string
	}
	var bodies []collected
	for _, pending := range p.ctx.HeredocQueue {
		if pending.Resolved {
			continue
		}
		body, err := p.readHeredocBody(pending.Tag)
		if err != nil {
			return err
		}
		pending.Resolved = true
		bodies = append(bodies, collected{pending, body})
	}
	for _, c := range bodies {
		if err := c.pending.Resolve(c.body); err != nil {
			return err
		}
	}
	return nil
}

// readHeredocBody reads raw lines off the character-level cursor until one
// trims to exactly tag, returning every line before it, each followed by "\n".
func (p *Parser) readHeredocBody(tag string) (string, error) {
	var body strings.Builder
	for {
		line, eof := p.readRawLine()
		if eof {
			return body.String(), p.errorf(diagnostics.MissingTerminator, "Can't find string terminator %q anywhere before EOF", tag)
		}
		if strings.TrimSpace(line) == tag {
			return body.String(), nil
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
}

// readRawLine reconstructs one line of exact source text (no token
// boundaries lost, since it walks PeekChar/ConsumeChar rather than
// Peek/Consume) up to the newline that ends it. The newline is consumed
// but not included in the returned line.
func (p *Parser) readRawLine() (line string, hitEOF bool) {
	var sb strings.Builder
	for {
		ch := p.cur.PeekChar()
		if ch == "" {
			return sb.String(), true
		}
		p.cur.ConsumeChar()
		if ch == "\n" {
			return sb.String(), false
		}
		sb.WriteString(ch)
	}
}

// stripCommonIndent implements `<<~TAG`'s outdenting: the smallest leading
// whitespace run shared by every non-empty line is removed from all lines.
func stripCommonIndent(body string) string {
	lines := strings.Split(body, "\n")
	minIndent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indent := len(l) - len(strings.TrimLeft(l, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return body
	}
	for i, l := range lines {
		if len(l) >= minIndent {
			lines[i] = l[minIndent:]
		} else {
			lines[i] = strings.TrimLeft(l, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
