// Package builtins implements the in-process commands of spec.md §4.3:
// exactly {cd, echo, env, exit, export, pwd, unset}. Each runs inside the
// evaluator's own process (not a spawned child). When redirection is in
// effect the caller passes the redirected stdout through Context, so the
// process's real standard streams are never replaced.
package builtins

import (
	"fmt"
	"io"
	"strings"

	"github.com/glasswing-labs/minishell/internal/environment"
)

// Context is the narrow surface a builtin needs from the evaluator,
// mirroring the Context/dispatch-table split of the teacher's
// internal/builtins.Registry (grounded on that package's BuiltinFunction
// type and Context interface).
type Context interface {
	Stdout() io.Writer
	Stderr() io.Writer
	Env() *environment.Environment
	ShellName() string
	Chdir(path string) error
	Getwd() (string, error)
	// Exit terminates the current process (the shell itself in the top
	// level, or the current subshell/pipeline-stage child process when
	// running under __eval) with the given status.
	Exit(status int)
}

// Func is a built-in's implementation. It returns the command's exit
// status.
type Func func(ctx Context, args []string) int

// Registry is the dispatch table of recognized built-ins.
var Registry = map[string]Func{
	"cd":     cd,
	"echo":   echo,
	"env":    env,
	"exit":   exit,
	"export": export,
	"pwd":    pwd,
	"unset":  unset,
}

// IsBuiltin reports whether name is a recognized built-in command.
func IsBuiltin(name string) bool {
	_, ok := Registry[name]
	return ok
}

func cd(ctx Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintf(ctx.Stderr(), "%s: cd: missing argument\n", ctx.ShellName())
		return 1
	}
	if err := ctx.Chdir(args[0]); err != nil {
		fmt.Fprintf(ctx.Stderr(), "%s: cd: %s: %v\n", ctx.ShellName(), args[0], err)
		return 1
	}
	return 0
}

func echo(ctx Context, args []string) int {
	newline := true
	if len(args) > 0 && args[0] == "-n" {
		newline = false
		args = args[1:]
	}
	fmt.Fprint(ctx.Stdout(), strings.Join(args, " "))
	if newline {
		fmt.Fprintln(ctx.Stdout())
	}
	return 0
}

func env(ctx Context, _ []string) int {
	ctx.Env().Iterate(func(name, value string) {
		fmt.Fprintf(ctx.Stdout(), "%s=%s\n", name, value)
	})
	return 0
}

func exit(ctx Context, _ []string) int {
	ctx.Exit(0)
	return 0
}

func export(ctx Context, _ []string) int {
	fmt.Fprintf(ctx.Stderr(), "%s: export: not implemented\n", ctx.ShellName())
	return 0
}

func pwd(ctx Context, _ []string) int {
	dir, err := ctx.Getwd()
	if err != nil {
		fmt.Fprintf(ctx.Stderr(), "%s: pwd: %v\n", ctx.ShellName(), err)
		return 1
	}
	fmt.Fprintln(ctx.Stdout(), dir)
	return 0
}

func unset(ctx Context, args []string) int {
	if len(args) == 0 {
		return 0
	}
	ctx.Env().Unset(args[0])
	return 0
}
