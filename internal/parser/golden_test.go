package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/perlfront/perlfront/internal/ast"
)

// Golden-diff coverage for a handful of representative scenarios: instead
// of hand-walking each node (as parser_test.go's scenario tests do), dump
// the parsed AST to its S-expression form (internal/ast.Dump) and diff it
// against a fixed expected rendering with go-cmp, the same diffing library
// other_examples' aledsdavies-devcmd go.mod pulls in for structural test
// assertions. require (testify) supplies the fail-fast assertions so a
// malformed parse doesn't cascade into a nil-pointer panic before the diff
// even runs.
var goldenCases = []struct {
	name string
	src  string
	want string
}{
	{
		name: "integer addition",
		src:  "1 + 2;",
		want: "(program\n" +
			"  (stmt\n" +
			"    (binop +\n" +
			"      (number 1)\n" +
			"      (number 2)\n" +
			"    )\n" +
			"  )\n" +
			")\n",
	},
	{
		name: "string literal statement",
		src:  "'hi';",
		want: "(program\n" +
			"  (stmt\n" +
			"    (string \"hi\")\n" +
			"  )\n" +
			")\n",
	},
	{
		name: "bareword call with one arg",
		src:  "print 1;",
		want: "(program\n" +
			"  (stmt\n" +
			"    (binop call\n" +
			"      (ident print)\n" +
			"      (list\n" +
			"        (number 1)\n" +
			"      )\n" +
			"    )\n" +
			"  )\n" +
			")\n",
	},
}

func TestGoldenASTDump(t *testing.T) {
	for _, tc := range goldenCases {
		t.Run(tc.name, func(t *testing.T) {
			prog, _, err := parseSrc(t, tc.src)
			require.NoError(t, err, "parse error for %q", tc.src)
			require.NotNil(t, prog, "nil program for %q", tc.src)

			got := ast.Dump(prog)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("AST dump mismatch for %q (-want +got):\n%s", tc.src, diff)
			}
		})
	}
}

// require also drives a couple of the error-path scenarios already covered
// structurally in parser_test.go, to exercise the testify dependency beyond
// the golden-diff harness above.
func TestRequireStyleErrorAssertions(t *testing.T) {
	_, _, err := parseSrc(t, "1 <=> 2 <=> 3;")
	require.Error(t, err, "chained <=> should fail to parse")

	prog, _, err := parseSrc(t, "my $x = 1;")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
}
