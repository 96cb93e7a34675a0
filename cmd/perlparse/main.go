// Command perlparse is the thin CLI driver around the parser: it owns file
// names and flags, wires the fixture lexer into the parser, and either
// dumps the resulting AST or reports diagnostics with a non-zero exit code.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/perlfront/perlfront/internal/ast"
	"github.com/perlfront/perlfront/internal/lexer"
	"github.com/perlfront/perlfront/internal/parser"
	"github.com/perlfront/perlfront/internal/pipeline"
	"github.com/perlfront/perlfront/internal/runtime"
)

var (
	dumpAST    bool
	traceBegin bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "perlparse",
		Short: "Parse a Perl 5 source file into an AST",
	}

	parseCmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse <file> and report diagnostics (or dump the AST)",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	parseCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST as an S-expression instead of a success message")
	parseCmd.Flags().BoolVar(&traceBegin, "trace-begin", false, "print every runtime.Host call made while executing BEGIN/use (compile-time) blocks")

	root.AddCommand(parseCmd)
	return root
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("perlparse: %w", err)
	}

	host := runtime.NewNullHost()
	ctx := pipeline.New(path, host)

	buf := lexer.New(string(src), path).Tokenize()
	p := parser.New(buf, ctx)

	prog, parseErr := p.ParseProgram()

	for _, w := range ctx.Warnings {
		color.Yellow("warning: %s", w.String())
	}

	if traceBegin {
		for _, call := range host.Calls {
			fmt.Fprintf(os.Stderr, "host: %s\n", call)
		}
	}

	if parseErr != nil {
		color.Red("error: %s", parseErr.Error())
		for _, e := range ctx.Errors {
			if e.Error() != parseErr.Error() {
				color.Red("error: %s", e.Error())
			}
		}
		return parseErr
	}

	if dumpAST {
		fmt.Print(ast.Dump(prog))
		return nil
	}

	fmt.Printf("%s: parsed OK (%d top-level statements)\n", path, len(prog.Statements))
	return nil
}
