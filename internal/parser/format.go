package parser

import (
	"regexp"
	"strings"

	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/lexer"
	"github.com/perlfront/perlfront/internal/pipeline"
	"github.com/perlfront/perlfront/internal/token"
)

// pictureFieldRe recognizes a format picture field marker:
// "@"/"^" followed by a run of justification/numeric characters, "*", or
// a "#...#.#...#" fixed-decimal run.
var pictureFieldRe = regexp.MustCompile(`[@^](#+\.#+|[<>|#]+|\*)`)

// parseFormatDeclaration handles `format NAME = … .`: the
// body is collected verbatim, line by line, until a line whose trimmed
// content is exactly ".".
func (p *Parser) parseFormatDeclaration() (ast.Statement, error) {
	idx := p.cur.Index()
	p.cur.Consume() // "format"

	name := "STDOUT"
	if idTok, ok := p.cur.ConsumeKind(token.IDENT); ok {
		name = idTok.Text
	}
	if _, err := p.expect(token.OP, "="); err != nil {
		return nil, err
	}

	node := &ast.FormatNode{Name: name}
	node.SetTokenIndex(idx)

	pending := &pipeline.PendingFormat{Name: name}
	p.ctx.FormatQueue = append(p.ctx.FormatQueue, pending)

	rawLines, err := p.readFormatBody()
	if err != nil {
		pending.Resolved = false
		return node, err
	}

	node.Lines = p.classifyFormatLines(rawLines)
	pending.Resolved = true
	return node, nil
}

// readFormatBody discards whatever (normally nothing) follows "=" on the
// declaration line, then collects raw body lines until a lone ".".
func (p *Parser) readFormatBody() ([]string, error) {
	if _, eof := p.readRawLine(); eof {
		return nil, p.errorf(diagnostics.MissingTerminator, "Can't find format terminator")
	}
	var lines []string
	for {
		line, eof := p.readRawLine()
		if eof {
			return lines, p.errorf(diagnostics.MissingTerminator, "Can't find format terminator")
		}
		if strings.TrimSpace(line) == "." {
			return lines, nil
		}
		lines = append(lines, line)
	}
}

// classifyFormatLines sorts each collected body line into Comment,
// Picture, or Argument (re-lexed and parsed as a comma list,
// falling back to the raw line text on a syntax error).
func (p *Parser) classifyFormatLines(raw []string) []ast.FormatLine {
	lines := make([]ast.FormatLine, 0, len(raw))
	for _, line := range raw {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			lines = append(lines, ast.CommentLine{Text: trimmed})
		case pictureFieldRe.MatchString(line):
			lines = append(lines, p.buildPictureLine(line))
		default:
			lines = append(lines, p.buildArgumentLine(line))
		}
	}
	return lines
}

func (p *Parser) buildPictureLine(line string) ast.PictureLine {
	matches := pictureFieldRe.FindAllStringSubmatchIndex(line, -1)
	fields := make([]ast.PictureField, 0, len(matches))
	for _, m := range matches {
		markerByte := line[m[0]]
		spec := line[m[2]:m[3]]
		fields = append(fields, ast.PictureField{
			Spec:      spec,
			Kind:      pictureFieldKind(markerByte, spec),
			Width:     len(spec),
			StartPos:  m[0],
			IsSpecial: markerByte == '^',
		})
	}
	return ast.PictureLine{Fields: fields}
}

func pictureFieldKind(marker byte, spec string) string {
	switch {
	case spec == "*":
		if marker == '^' {
			return "multiline-fill"
		}
		return "multiline-consume"
	case strings.HasPrefix(spec, "<"):
		return "left"
	case strings.HasPrefix(spec, ">"):
		return "right"
	case strings.HasPrefix(spec, "|"):
		return "center"
	case strings.Contains(spec, "."):
		return "decimal"
	case strings.HasPrefix(spec, "#"):
		return "integer"
	default:
		return ""
	}
}

// buildArgumentLine re-lexes line as a standalone comma-separated
// expression list; a syntax error falls back to the whole line as a
// string literal.
func (p *Parser) buildArgumentLine(line string) ast.ArgumentLine {
	toks := lexer.New(line, p.ctx.FilePath).Tokenize()
	sub := New(toks, p.ctx)
	lst, err := sub.ParseCommaList()
	if err != nil || !sub.cur.AtEOF() {
		return ast.ArgumentLine{FallbackText: line}
	}
	return ast.ArgumentLine{Exprs: lst.Elements}
}
