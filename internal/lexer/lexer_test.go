package lexer_test

import (
	"testing"

	"github.com/perlfront/perlfront/internal/lexer"
	"github.com/perlfront/perlfront/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func texts(toks []token.Token, skipTrivia bool) []string {
	var out []string
	for _, t := range toks {
		if skipTrivia && (t.Kind == token.WHITESPACE || t.Kind == token.EOF) {
			continue
		}
		out = append(out, t.Text)
	}
	return out
}

func TestTokenizeEndsWithEOF(t *testing.T) {
	toks := lexer.New("1+1", "f.pl").Tokenize()
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("Tokenize() did not end in EOF: %v", kinds(toks))
	}
}

func TestTokenizeGreedyMultiCharOperators(t *testing.T) {
	toks := lexer.New("$a <=> $b", "f.pl").Tokenize()
	got := texts(toks, true)
	want := []string{"$", "a", "<=>", "$", "b"}
	if len(got) != len(want) {
		t.Fatalf("texts = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("texts = %v, want %v", got, want)
		}
	}
}

func TestTokenizeNumberSubKinds(t *testing.T) {
	cases := []struct {
		src  string
		flag token.NumberFlag
	}{
		{"42", token.NumDecimal},
		{"0x1F", token.NumHex},
		{"0b101", token.NumBinary},
		{"0755", token.NumOctal},
		{"v1.2.3", token.NumVString},
	}
	for _, c := range cases {
		toks := lexer.New(c.src, "f.pl").Tokenize()
		if toks[0].Kind != token.NUMBER {
			t.Fatalf("%q: first token kind = %v, want NUMBER", c.src, toks[0].Kind)
		}
		if toks[0].NumberFlag != c.flag {
			t.Errorf("%q: NumberFlag = %v, want %v", c.src, toks[0].NumberFlag, c.flag)
		}
	}
}

func TestTokenizeQuotedStringKeepsEscapesVerbatim(t *testing.T) {
	toks := lexer.New(`"hello\n$name"`, "f.pl").Tokenize()
	if toks[0].Kind != token.STRING {
		t.Fatalf("first token kind = %v, want STRING", toks[0].Kind)
	}
	if toks[0].Text != `hello\n$name` {
		t.Fatalf("Text = %q, want escapes left verbatim", toks[0].Text)
	}
	if toks[0].StringFlag != token.StrDouble {
		t.Fatalf("StringFlag = %v, want StrDouble", toks[0].StringFlag)
	}
}

func TestTokenizePackageQualifiedIdentifier(t *testing.T) {
	toks := lexer.New("Foo::Bar::baz", "f.pl").Tokenize()
	if toks[0].Kind != token.IDENT || toks[0].Text != "Foo::Bar::baz" {
		t.Fatalf("got %+v, want a single IDENT Foo::Bar::baz", toks[0])
	}
}

func TestTokenizeTracksLineNumbers(t *testing.T) {
	toks := lexer.New("1;\n2;\n3;", "f.pl").Tokenize()
	var lines []int
	for _, tok := range toks {
		if tok.Kind == token.NUMBER {
			lines = append(lines, tok.Loc.Line)
		}
	}
	want := []int{1, 2, 3}
	for i, w := range want {
		if i >= len(lines) || lines[i] != w {
			t.Fatalf("number token lines = %v, want %v", lines, want)
		}
	}
}
