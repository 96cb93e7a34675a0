package diagnostics_test

import (
	"strings"
	"testing"

	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/token"
)

func TestErrorRendersSingleLineEndingInPeriod(t *testing.T) {
	loc := token.SourceLocator{File: "foo.pl", Line: 12}
	err := diagnostics.New(diagnostics.UnexpectedToken, 3, loc, "}")

	got := err.Error()
	if !strings.HasSuffix(got, ".") {
		t.Fatalf("Error() = %q, want suffix '.'", got)
	}
	if strings.Count(got, "\n") != 0 {
		t.Fatalf("Error() = %q, want a single line", got)
	}
	if !strings.Contains(got, "foo.pl line 12") {
		t.Fatalf("Error() = %q, want source locator", got)
	}
}

func TestErrorAtTokenUsesTokenLocation(t *testing.T) {
	tok := token.Token{Kind: token.OP, Text: "}", Loc: token.SourceLocator{File: "bar.pl", Line: 5}}
	err := diagnostics.AtToken(diagnostics.MissingTerminator, tok, 7, "Can't find string terminator")

	if err.Loc != tok.Loc {
		t.Fatalf("Loc = %+v, want %+v", err.Loc, tok.Loc)
	}
	if err.Index != 7 {
		t.Fatalf("Index = %d, want 7", err.Index)
	}
}

func TestDeclaredReferenceMisuseTemplateFillsBothVerbs(t *testing.T) {
	err := diagnostics.New(diagnostics.DeclaredReferenceMisuse, 0, token.SourceLocator{Line: 1}, "+", "my")
	got := err.Error()
	if !strings.Contains(got, "Can't declare + in my") {
		t.Fatalf("Error() = %q, want the declared-reference misuse message", got)
	}
}

func TestUnknownKindFallsBackToGenericFormat(t *testing.T) {
	err := diagnostics.New(diagnostics.Kind("Bogus"), 0, token.SourceLocator{Line: 1}, "x")
	got := err.Error()
	if !strings.Contains(got, "x") {
		t.Fatalf("Error() = %q, want it to contain the raw arg", got)
	}
}

func TestWarningStringIncludesLocation(t *testing.T) {
	w := diagnostics.Warning{Message: `"$x" masks earlier declaration`, Loc: token.SourceLocator{File: "f.pl", Line: 4}}
	got := w.String()
	if !strings.Contains(got, "f.pl line 4") {
		t.Fatalf("Warning.String() = %q, want source locator", got)
	}
	if !strings.HasSuffix(got, ".") {
		t.Fatalf("Warning.String() = %q, want suffix '.'", got)
	}
}
