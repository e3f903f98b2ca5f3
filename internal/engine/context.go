package engine

import (
	"io"
	"os"

	"github.com/glasswing-labs/minishell/internal/environment"
)

// builtinContext adapts an Engine (plus the current command's redirected
// stdout) to the builtins.Context surface. Built-ins never need a redirected
// stdin or stderr: none of spec.md §4.3's seven built-ins read from stdin,
// and stderr is always the shell's own (there is no stderr-redirection
// operator in the grammar).
type builtinContext struct {
	engine *Engine
	stdout *os.File
}

func (c *builtinContext) Stdout() io.Writer { return c.stdout }
func (c *builtinContext) Stderr() io.Writer { return c.engine.stderr }

func (c *builtinContext) Env() *environment.Environment { return c.engine.env }

func (c *builtinContext) ShellName() string { return c.engine.shellName }

func (c *builtinContext) Chdir(path string) error { return os.Chdir(path) }

func (c *builtinContext) Getwd() (string, error) { return os.Getwd() }

func (c *builtinContext) Exit(status int) { os.Exit(status) }
