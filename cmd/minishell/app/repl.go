package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/glasswing-labs/minishell/internal/ast"
	"github.com/glasswing-labs/minishell/internal/engine"
	"github.com/glasswing-labs/minishell/internal/environment"
	"github.com/glasswing-labs/minishell/internal/history"
	"github.com/glasswing-labs/minishell/internal/lexer"
	"github.com/glasswing-labs/minishell/internal/parser"
	"github.com/glasswing-labs/minishell/internal/token"
)

// Domain: REPL / driver
//
// REPL is the external collaborator spec.md §6 describes: it reads one
// line at a time, lexes and parses it fresh, evaluates the resulting AST,
// and records the status. Grounded on original_source/src/repl/repl.c's
// prompt/read/eval loop and repl_signals.c's SIGINT/SIGQUIT handling,
// translated to os/signal (no readline-equivalent library appears anywhere
// in the retrieved corpus, so this one piece of ambient surface is built
// directly on bufio.Scanner; see DESIGN.md).
type REPL struct {
	env       *environment.Environment
	engine    *engine.Engine
	history   *history.Store
	shellName string

	debugTokens bool
	debugAST    bool

	out io.Writer
}

// NewREPL builds a REPL over env, recording history to store (nil disables
// history).
func NewREPL(env *environment.Environment, store *history.Store, shellName string, debugTokens, debugAST bool) *REPL {
	return &REPL{
		env:         env,
		engine:      engine.New(env, shellName),
		history:     store,
		shellName:   shellName,
		debugTokens: debugTokens,
		debugAST:    debugAST,
		out:         os.Stdout,
	}
}

// Run drives the prompt/read/eval loop until EOF or the "exit" built-in
// terminates the process.
func (r *REPL) Run() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	lines := make(chan string)
	scanner := bufio.NewScanner(os.Stdin)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	fmt.Fprintf(r.out, "%s> ", r.shellName)
	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGINT {
				fmt.Fprintln(r.out)
				fmt.Fprintf(r.out, "%s> ", r.shellName)
			}
			// SIGQUIT is ignored, matching original_source's repl_signals.c.

		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out)
				return
			}
			r.evalLine(line)
			fmt.Fprintf(r.out, "%s> ", r.shellName)
		}
	}
}

func (r *REPL) evalLine(line string) {
	if r.debugTokens {
		r.printTokens(line)
	}

	l := lexer.New(line)
	p := parser.New(l, r.shellName)
	root := p.Parse()

	if r.debugAST {
		r.printAST(root)
	}

	if p.HasError() {
		return
	}

	status := r.engine.Evaluate(root)
	r.env.Set("?", strconv.Itoa(status))

	if r.history != nil {
		if err := r.history.Append(line, status); err != nil {
			fmt.Fprintf(os.Stderr, "%s: history: %v\n", r.shellName, err)
		}
	}
}

func (r *REPL) printTokens(line string) {
	l := lexer.New(line)
	for {
		tok := l.NextToken()
		fmt.Fprintln(r.out, tok.String())
		if tok.Kind == token.NEWLINE {
			break
		}
	}
}

func (r *REPL) printAST(root ast.Node) {
	if root == nil {
		fmt.Fprintln(r.out, "<empty>")
		return
	}
	fmt.Fprintln(r.out, root.String())
}
