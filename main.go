package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"tree_lox/ast"
	"tree_lox/errs"
	"tree_lox/interpreter"
	"tree_lox/parser"
	"tree_lox/resolver"
)

func main() {
	// Start CPU profile if enabled via the env-var CPUPROFILE.
	if profOut, has := os.LookupEnv("CPUPROFILE"); has && profOut != "" {
		f, err := os.Create(profOut)
		if err != nil {
			log.Fatalf("Cannot create profile output file: '%v' (%v).\n", profOut, err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	switch len(os.Args) {
	case 1:
		runPrompt()
	case 2:
		runFile(os.Args[1])
	default:
		fmt.Fprintf(os.Stderr, "Usage: %v [filename]\n", os.Args[0])
		os.Exit(1)
	}
}

func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open file '%v' (%v).\n", path, err)
		os.Exit(1)
	}

	sink := errs.NewSink()

	p := parser.New(string(source), sink)
	stmts := p.Parse()
	if sink.HadError {
		os.Exit(65)
	}

	table := resolver.Resolve(stmts, sink)
	if sink.HadError {
		os.Exit(65)
	}

	debugAST(stmts)

	interp := interpreter.New(sink)
	interp.Run(stmts, table)
	if sink.HadRuntimeError {
		os.Exit(70)
	}
}

func runPrompt() {
	sink := errs.NewSink()
	interp := interpreter.New(sink)
	lines := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprint(os.Stderr, "> ")
		if !lines.Scan() {
			break
		}
		sink.ResetStatic()

		p := parser.New(lines.Text(), sink)
		stmts := p.ParseREPL()
		if sink.HadError || stmts == nil {
			continue
		}

		table := resolver.Resolve(stmts, sink)
		if sink.HadError {
			continue
		}

		debugAST(stmts)
		interp.RunREPL(stmts, table)
	}

	if err := lines.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v.\n", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "[EXIT]")
}

// debugAST prints the parsed tree to stderr when LOX_DEBUG_AST is set, a
// dev-tooling switch alongside CPUPROFILE (SPEC_FULL.md §10.3).
func debugAST(stmts []ast.Stmt) {
	if v, ok := os.LookupEnv("LOX_DEBUG_AST"); !ok || v == "" {
		return
	}
	for _, s := range stmts {
		fmt.Fprintln(os.Stderr, interpreter.PrintStmt(s))
	}
}
