package app

import (
	"os"

	"github.com/glasswing-labs/minishell/internal/engine"
	"github.com/glasswing-labs/minishell/internal/environment"
	"github.com/glasswing-labs/minishell/internal/lexer"
	"github.com/glasswing-labs/minishell/internal/parser"
)

// Domain: hidden re-exec entry point
//
// RunEval implements the selfexec.EvalSubcommand handler: it evaluates a
// single already-serialized source string against the process's inherited
// stdio and os.Environ(), then exits with the resulting status. It never
// returns to its caller because every path ends in os.Exit, mirroring the
// original C's "child processes never return up the evaluator stack"
// invariant (SPEC_FULL.md §1.1) — the self re-exec makes that literal.
func RunEval(source, shellName string) {
	l := lexer.New(source)
	p := parser.New(l, shellName)
	root := p.Parse()
	if p.HasError() {
		os.Exit(2)
	}

	env := environment.New(os.Environ())
	eng := engine.New(env, shellName)
	status := eng.Evaluate(root)
	os.Exit(status)
}
