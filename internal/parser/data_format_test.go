package parser_test

import (
	"testing"

	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/diagnostics"
)

// __DATA__ captures everything remaining in the token stream into a
// DataSection node and stops parsing.
func TestDataSectionCapturesRemainderAndStopsParsing(t *testing.T) {
	prog, _, err := parseSrc(t, "print 1;\n__DATA__\nalpha\nbeta\n")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("got %d statements, want 2 (print stmt + data section)", len(prog.Statements))
	}
	data, ok := prog.Statements[1].(*ast.DataSection)
	if !ok {
		t.Fatalf("statement 2 is %T, want *ast.DataSection", prog.Statements[1])
	}
	if data.Kind != "__DATA__" {
		t.Fatalf("Kind = %q, want __DATA__", data.Kind)
	}
	if data.Text == "" {
		t.Fatalf("Text is empty, want captured remainder")
	}
}

// A `=` in column 1 introduces pod, skipped through the matching `=cut`
// without producing a statement.
func TestPodBlockIsSkippedEntirely(t *testing.T) {
	prog, _, err := parseSrc(t, "=pod\nSome prose here.\n=cut\nprint 1;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("got %d statements, want 1 (pod produces none)", len(prog.Statements))
	}
}

// `format NAME = ... .` classifies each body line as Comment, Picture, or
// Argument.
func TestFormatDeclarationClassifiesLines(t *testing.T) {
	src := "format REPORT =\n# a comment\n@<<<<< @>>>>>\n$name, $amount\n.\n"
	prog, _, err := parseSrc(t, src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Statements))
	}
	fn, ok := prog.Statements[0].(*ast.FormatNode)
	if !ok {
		t.Fatalf("statement is %T, want *ast.FormatNode", prog.Statements[0])
	}
	if fn.Name != "REPORT" {
		t.Fatalf("Name = %q, want REPORT", fn.Name)
	}
	if len(fn.Lines) != 3 {
		t.Fatalf("got %d format lines, want 3", len(fn.Lines))
	}
	if _, ok := fn.Lines[0].(ast.CommentLine); !ok {
		t.Fatalf("line 0 is %T, want ast.CommentLine", fn.Lines[0])
	}
	pic, ok := fn.Lines[1].(ast.PictureLine)
	if !ok {
		t.Fatalf("line 1 is %T, want ast.PictureLine", fn.Lines[1])
	}
	if len(pic.Fields) != 2 {
		t.Fatalf("got %d picture fields, want 2", len(pic.Fields))
	}
	if pic.Fields[0].Kind != "left" || pic.Fields[1].Kind != "right" {
		t.Fatalf("field kinds = %q/%q, want left/right", pic.Fields[0].Kind, pic.Fields[1].Kind)
	}
	arg, ok := fn.Lines[2].(ast.ArgumentLine)
	if !ok {
		t.Fatalf("line 2 is %T, want ast.ArgumentLine", fn.Lines[2])
	}
	if len(arg.Exprs) != 2 {
		t.Fatalf("got %d argument exprs, want 2", len(arg.Exprs))
	}
}

// An unterminated format body is a MissingTerminator error at EOF.
func TestUnterminatedFormatFailsAtEOF(t *testing.T) {
	_, _, err := parseSrc(t, "format X =\n@<<<<\n$a\n")
	if err == nil {
		t.Fatalf("expected an error, got nil")
	}
}

// BEGIN runs its body immediately at parse time via Host.Invoke, with a phase prologue prepended whose last statement restores
// the enclosing package ahead of the original body.
func TestBeginBlockRunsImmediatelyWithPhasePrologue(t *testing.T) {
	prog, _, err := parseSrc(t, "package Foo; BEGIN { 1; }")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var sb *ast.SpecialBlock
	for _, s := range prog.Statements {
		if v, ok := s.(*ast.SpecialBlock); ok {
			sb = v
		}
	}
	if sb == nil {
		t.Fatalf("no *ast.SpecialBlock found among %d statements", len(prog.Statements))
	}
	if sb.Keyword != "BEGIN" {
		t.Fatalf("Keyword = %q, want BEGIN", sb.Keyword)
	}
	if len(sb.Body.Statements) < 2 {
		t.Fatalf("BEGIN body has %d statements, want a prologue prepended ahead of the original one", len(sb.Body.Statements))
	}
	last := sb.Body.Statements[len(sb.Body.Statements)-2]
	if _, ok := last.(*ast.PackageDeclaration); !ok {
		t.Fatalf("last prologue statement (before the original body) is %T, want *ast.PackageDeclaration restoring the package", last)
	}
}

// `class NAME { ... }` is rejected with FeatureDisabled until the
// `class` feature is enabled.
func TestClassKeywordRejectedWithoutFeature(t *testing.T) {
	_, _, err := parseSrc(t, "class Dog { }")
	if err == nil {
		t.Fatalf("expected FeatureDisabled, got nil")
	}
	if diagKind(err) != diagnostics.FeatureDisabled {
		t.Fatalf("error kind = %v, want FeatureDisabled", diagKind(err))
	}
}

// `use v5.38;` enables the class feature bundle, after which `class NAME
// :isa(Parent) { ... }` parses into a PackageDeclaration with the parent
// class recorded.
func TestClassParsesOnceVersionEnablesFeature(t *testing.T) {
	prog, _, err := parseSrc(t, "use v5.38; package Animal; class Dog :isa(Animal) { }")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var decl *ast.PackageDeclaration
	for _, s := range prog.Statements {
		if d, ok := s.(*ast.PackageDeclaration); ok && d.IsClass {
			decl = d
		}
	}
	if decl == nil {
		t.Fatalf("no class PackageDeclaration found")
	}
	if decl.Name != "Dog" || decl.ParentClass != "Animal" {
		t.Fatalf("decl = %#v, want Name=Dog ParentClass=Animal", decl)
	}
}

// `use feature 'class';` enables the class feature the same way a version
// bundle does, without needing a matching `use VERSION`.
func TestFeaturePragmaEnablesClass(t *testing.T) {
	prog, _, err := parseSrc(t, "use feature 'class'; class Dog { }")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	found := false
	for _, s := range prog.Statements {
		if d, ok := s.(*ast.PackageDeclaration); ok && d.IsClass {
			found = true
		}
	}
	if !found {
		t.Fatalf("no class PackageDeclaration found among %d statements", len(prog.Statements))
	}
}

// A decimal picture field (`###.##`) and the multiline `*`/`^*` fill
// markers classify distinctly from the plain left/right/center fields.
func TestFormatPictureFieldsClassifyDecimalAndMultiline(t *testing.T) {
	src := "format REPORT =\n@###.## ^* @*\n$amt, $overflow, $overflow\n.\n"
	prog, _, err := parseSrc(t, src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	fn := prog.Statements[0].(*ast.FormatNode)
	pic, ok := fn.Lines[0].(ast.PictureLine)
	if !ok {
		t.Fatalf("line 0 is %T, want ast.PictureLine", fn.Lines[0])
	}
	if len(pic.Fields) != 3 {
		t.Fatalf("got %d picture fields, want 3", len(pic.Fields))
	}
	if pic.Fields[0].Kind != "decimal" {
		t.Fatalf("field 0 Kind = %q, want decimal", pic.Fields[0].Kind)
	}
	if pic.Fields[1].Kind != "multiline-fill" || !pic.Fields[1].IsSpecial {
		t.Fatalf("field 1 = %#v, want Kind=multiline-fill IsSpecial=true", pic.Fields[1])
	}
	if pic.Fields[2].Kind != "multiline-consume" || pic.Fields[2].IsSpecial {
		t.Fatalf("field 2 = %#v, want Kind=multiline-consume IsSpecial=false", pic.Fields[2])
	}
}

// A class body runs the class transform while its inner scope is alive:
// named subs defer as methods, each `field` grows a read accessor, ADJUST
// blocks are stored for the constructor, and the synthesized `new` (plus
// the methods and accessors) is registered with the enclosing scope.
func TestClassTransformDefersMethodsAndSynthesizesConstructor(t *testing.T) {
	src := "use v5.38; class Point { field $x; field $y = 0; sub move { 1; } ADJUST { 1; } }"
	prog, ctx, err := parseSrc(t, src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var decl *ast.PackageDeclaration
	for _, s := range prog.Statements {
		if d, ok := s.(*ast.PackageDeclaration); ok && d.IsClass {
			decl = d
		}
	}
	if decl == nil {
		t.Fatalf("no class PackageDeclaration found")
	}
	if len(decl.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(decl.Fields))
	}
	if len(decl.Methods) != 1 || decl.Methods[0].Name != "move" {
		t.Fatalf("Methods = %#v, want [move]", decl.Methods)
	}
	if len(decl.Accessors) != 2 || decl.Accessors[0].Name != "x" || decl.Accessors[1].Name != "y" {
		t.Fatalf("Accessors = %#v, want readers x and y", decl.Accessors)
	}
	if len(decl.AdjustBlocks) != 1 {
		t.Fatalf("got %d ADJUST blocks, want 1", len(decl.AdjustBlocks))
	}
	if decl.Constructor == nil || decl.Constructor.Name != "new" {
		t.Fatalf("Constructor = %#v, want a synthesized 'new'", decl.Constructor)
	}
	// class/%args binding, bless, two field slots, one ADJUST call, $self.
	if got := len(decl.Constructor.Body.Statements); got != 6 {
		t.Fatalf("constructor body has %d statements, want 6", got)
	}
	for _, name := range []string{"&new", "&move", "&x", "&y"} {
		if _, ok := ctx.Symbols.Lookup(name); !ok {
			t.Errorf("%s not registered with the enclosing scope", name)
		}
	}
}

// `try { } catch ($e) { }` is rejected with FeatureDisabled until the `try`
// feature is enabled; with it, the statement parses into a Try node.
func TestTryStatementFeatureGate(t *testing.T) {
	_, _, err := parseSrc(t, "try { 1; } catch ($e) { 2; }")
	if diagKind(err) != diagnostics.FeatureDisabled {
		t.Fatalf("error kind = %v, want FeatureDisabled (err: %v)", diagKind(err), err)
	}

	prog, _, err := parseSrc(t, "use v5.36; try { 1; } catch ($e) { 2; } finally { 3; }")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var try *ast.Try
	for _, s := range prog.Statements {
		if v, ok := s.(*ast.Try); ok {
			try = v
		}
	}
	if try == nil {
		t.Fatalf("no *ast.Try found among %d statements", len(prog.Statements))
	}
	if try.CatchVar == nil || try.CatchVar.Name != "e" {
		t.Fatalf("CatchVar = %#v, want Identifier(e)", try.CatchVar)
	}
	if try.FinallyBlock == nil {
		t.Fatalf("FinallyBlock not attached")
	}
}

// `$x isa Foo` is rejected with FeatureDisabled until the `isa` feature is
// enabled.
func TestIsaOperatorRejectedWithoutFeature(t *testing.T) {
	_, _, err := parseSrc(t, "$x isa Foo;")
	if err == nil {
		t.Fatalf("expected FeatureDisabled, got nil")
	}
	if diagKind(err) != diagnostics.FeatureDisabled {
		t.Fatalf("error kind = %v, want FeatureDisabled", diagKind(err))
	}
}
