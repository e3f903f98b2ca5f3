// Package engine evaluates the AST internal/parser produces, per spec.md
// §4.3. Dispatch is a straight switch on node type; process composition
// (pipelines, subshells) is built on internal/process and internal/selfexec
// rather than fork/dup2, per spec.md §9's invitation to abstract spawning
// behind an interface when the host language has no raw fork.
package engine

import (
	"fmt"
	"os"

	"github.com/glasswing-labs/minishell/internal/ast"
	"github.com/glasswing-labs/minishell/internal/environment"
	"github.com/glasswing-labs/minishell/internal/process"
	"github.com/glasswing-labs/minishell/internal/selfexec"
	"github.com/glasswing-labs/minishell/internal/token"
)

// Engine walks an AST against a fixed environment and a fixed set of
// standard streams. A pipeline or subshell child runs in its own process
// with its own Engine (constructed by the __eval entry point), so stream
// state never needs to be threaded through the recursive walk: every
// SimpleCommand redirection and every pipe/subshell boundary is resolved
// relative to e.stdin/e.stdout/e.stderr alone.
type Engine struct {
	env       *environment.Environment
	shellName string

	stdin  *os.File
	stdout *os.File
	stderr *os.File
}

// New builds an Engine over the process's real standard streams.
func New(env *environment.Environment, shellName string) *Engine {
	return NewWithStreams(env, shellName, os.Stdin, os.Stdout, os.Stderr)
}

// NewWithStreams builds an Engine over explicit streams, for tests. The
// __eval re-exec entry point uses New instead: its process's own
// stdin/stdout are already wired to a pipe or redirected file by the
// parent's process.Spawn call.
func NewWithStreams(env *environment.Environment, shellName string, stdin, stdout, stderr *os.File) *Engine {
	return &Engine{env: env, shellName: shellName, stdin: stdin, stdout: stdout, stderr: stderr}
}

// Evaluate walks root and returns its exit status. A nil root (empty input
// line) evaluates to success, per spec.md §4.3.
func (e *Engine) Evaluate(root ast.Node) int {
	if root == nil {
		return 0
	}
	return e.eval(root)
}

func (e *Engine) eval(node ast.Node) int {
	switch n := node.(type) {
	case *ast.List:
		return e.evalList(n)
	case *ast.AndOr:
		return e.evalAndOr(n)
	case *ast.PipeSequence:
		return e.evalPipeSequence(n)
	case *ast.Subshell:
		return e.evalSubshell(n)
	case *ast.SimpleCommand:
		return e.evalSimpleCommand(n)
	default:
		fmt.Fprintf(e.stderr, "%s: internal error: unhandled node type %T\n", e.shellName, node)
		return 1
	}
}

// evalList evaluates both sides unconditionally (no short-circuit) and
// reports the status of the last child evaluated, per spec.md §4.3. A
// dangling ';' (Right == nil) reports the left side's status.
func (e *Engine) evalList(n *ast.List) int {
	status := e.eval(n.Left)
	if n.Right == nil {
		return status
	}
	return e.eval(n.Right)
}

// evalAndOr short-circuits: '&&' only evaluates its right side when the
// left succeeded, '||' only when the left failed.
func (e *Engine) evalAndOr(n *ast.AndOr) int {
	status := e.eval(n.Left)
	switch {
	case n.Op.Kind == token.AND_IF && status != 0:
		return status
	case n.Op.Kind == token.OR_IF && status == 0:
		return status
	}
	return e.eval(n.Right)
}

// evalPipeSequence runs Left and Right as two concurrent child processes
// joined by a real OS pipe, and reports only the right-most stage's status
// (spec.md §4.3, §9 open-question decision). Each side is re-exec'd via
// selfexec rather than continued in-process, so a built-in on the left of
// a pipe (e.g. "echo hi | grep h") gets its own process exactly like an
// external command would.
func (e *Engine) evalPipeSequence(n *ast.PipeSequence) int {
	r, w, err := os.Pipe()
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: pipe: %v\n", e.shellName, err)
		return 1
	}

	leftHandle := e.spawnChild(n.Left, e.stdin, w)
	rightHandle := e.spawnChild(n.Right, r, e.stdout)

	// Both children have their own duplicated copies of the pipe fds by
	// now (process.Spawn already called Start); the parent's copies must
	// close so the reader sees EOF once the writer exits.
	w.Close()
	r.Close()

	leftStatus := 1
	if leftHandle != nil {
		leftStatus = leftHandle.Wait()
	}
	_ = leftStatus

	rightStatus := 1
	if rightHandle != nil {
		rightStatus = rightHandle.Wait()
	}
	return rightStatus
}

// evalSubshell runs Inner in a single child process so that cd, export,
// unset and any other environment/cwd mutation stay isolated to the group
// (spec.md §4.3, §5).
func (e *Engine) evalSubshell(n *ast.Subshell) int {
	handle := e.spawnChild(n.Inner, e.stdin, e.stdout)
	if handle == nil {
		return 1
	}
	return handle.Wait()
}

// spawnChild re-execs the shell's own binary with node's canonical source
// text under the hidden __eval subcommand, wiring in and out as the
// child's standard streams. It returns nil (having already printed a
// diagnostic) if the re-exec could not even start.
func (e *Engine) spawnChild(node ast.Node, in, out *os.File) *process.Handle {
	argv, err := selfexec.Argv(node.String())
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: %v\n", e.shellName, err)
		return nil
	}

	handle, err := process.Spawn(process.Spec{
		Argv:   argv,
		Env:    e.env.Envp(),
		Stdin:  in,
		Stdout: out,
		Stderr: e.stderr,
	})
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: %v\n", e.shellName, err)
		return nil
	}
	return handle
}
