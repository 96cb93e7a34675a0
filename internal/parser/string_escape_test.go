package parser_test

import (
	"testing"

	"github.com/perlfront/perlfront/internal/ast"
)

// asString extracts the single *ast.String a plain (non-interpolating)
// double-quoted literal collapses to.
func asString(t *testing.T, src string) string {
	t.Helper()
	prog, _, err := parseSrc(t, src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stmt, ok := prog.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ExpressionStatement", prog.Statements[0])
	}
	str, ok := stmt.Expr.(*ast.String)
	if !ok {
		t.Fatalf("expr is %T, want *ast.String", stmt.Expr)
	}
	return str.Text
}

func TestDoubleQuotedEscapeTable(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`"\n";`, "\n"},
		{`"\t";`, "\t"},
		{`"\cA";`, "\x01"},
		{`"\x41";`, "A"},
		{`"\x{263A}";`, "\u263A"},
		{`"\o{101}";`, "A"},
		{`"\101";`, "A"},
	}
	for _, c := range cases {
		if got := asString(t, c.src); got != c.want {
			t.Errorf("%s: got %q, want %q", c.src, got, c.want)
		}
	}
}

func TestQuotemetaEscapesNonWordRunes(t *testing.T) {
	got := asString(t, `"\Qa.b*c\E";`)
	want := `a\.b\*c`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCaseFoldingUpperLowerSpans(t *testing.T) {
	if got := asString(t, `"\Uabc\E def";`); got != "ABC def" {
		t.Fatalf("\\U...\\E got %q, want %q", got, "ABC def")
	}
	if got := asString(t, `"\LABC\E def";`); got != "abc def" {
		t.Fatalf("\\L...\\E got %q, want %q", got, "abc def")
	}
}

func TestCaseFoldingOneShotUpperLower(t *testing.T) {
	if got := asString(t, `"\uabc";`); got != "Abc" {
		t.Fatalf("\\u got %q, want %q", got, "Abc")
	}
	if got := asString(t, `"\lABC";`); got != "aBC" {
		t.Fatalf("\\l got %q, want %q", got, "aBC")
	}
}

// A single \E closes only the innermost persistent case modifier, per the
// innermost-first stack discipline: \U\Lfoo\Ebar closes just the \L,
// leaving \U active so "bar" still upcases.
func TestCaseFoldingNestedEClosesInnermostOnly(t *testing.T) {
	if got := asString(t, `"\U\Lfoo\Ebar\E";`); got != "fooBAR" {
		t.Fatalf("nested \\U\\L...\\E...\\E got %q, want %q", got, "fooBAR")
	}
}

// An array interpolation wraps the variable in join($", ...) rather than
// splicing it bare.
func TestArrayInterpolationWrapsInListSeparatorJoin(t *testing.T) {
	prog, _, err := parseSrc(t, `"got @items here";`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	outer, ok := stmt.Expr.(*ast.BinaryOperator)
	if !ok || outer.Name != "join" {
		t.Fatalf("expr is %#v, want the outer segment 'join'", stmt.Expr)
	}
	lst := outer.Right.(*ast.List)
	if len(lst.Elements) != 3 {
		t.Fatalf("got %d segments, want 3", len(lst.Elements))
	}
	inner, ok := lst.Elements[1].(*ast.BinaryOperator)
	if !ok || inner.Name != "join" {
		t.Fatalf("segment 1 = %#v, want the @-wrapping 'join'", lst.Elements[1])
	}
	sep, ok := inner.Left.(*ast.String)
	if !ok || sep.Text != "$\"" {
		t.Fatalf("@-join separator = %#v, want String(\"$\\\"\")", inner.Left)
	}
}
