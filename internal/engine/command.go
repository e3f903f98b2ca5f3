package engine

import (
	"fmt"
	"os"
	"strings"

	"github.com/glasswing-labs/minishell/internal/ast"
	"github.com/glasswing-labs/minishell/internal/builtins"
	"github.com/glasswing-labs/minishell/internal/process"
	"github.com/glasswing-labs/minishell/internal/token"
)

// redirState tracks the locally-opened descriptors for a single
// SimpleCommand evaluation: in/out start at the engine's standard streams
// and are only replaced by a redirection that this command's own
// cmd_prefix/cmd_suffix carries (spec.md §4.3's I/O-context rules).
type redirState struct {
	in, out             *os.File
	openedIn, openedOut *os.File
}

// apply resolves one IO_FILE against the current state. Per spec.md §4.3,
// the side it targets is first reset to the engine's default stream
// (closing whatever this command previously opened on that side), and only
// then is the new descriptor opened; a failure to open leaves the
// already-reset default in place rather than restoring the prior file.
func (e *Engine) applyRedirect(s *redirState, io *ast.IOFile) {
	filename := unquote(io.Filename)
	switch io.Op.Kind {
	case token.LESS:
		s.resetIn(e)
		f, err := os.OpenFile(filename, os.O_RDONLY, 0)
		if err != nil {
			fmt.Fprintf(e.stderr, "%s: %s: %v\n", e.shellName, filename, err)
			return
		}
		s.in, s.openedIn = f, f

	case token.GREAT:
		s.resetOut(e)
		f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Fprintf(e.stderr, "%s: %s: %v\n", e.shellName, filename, err)
			return
		}
		s.out, s.openedOut = f, f

	case token.DGREAT:
		s.resetOut(e)
		f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(e.stderr, "%s: %s: %v\n", e.shellName, filename, err)
			return
		}
		s.out, s.openedOut = f, f

	case token.DLESS:
		s.resetIn(e)
		fmt.Fprintf(e.stderr, "%s: heredoc redirection is not supported\n", e.shellName)
	}
}

func (s *redirState) resetIn(e *Engine) {
	if s.openedIn != nil {
		s.openedIn.Close()
		s.openedIn = nil
	}
	s.in = e.stdin
}

func (s *redirState) resetOut(e *Engine) {
	if s.openedOut != nil {
		s.openedOut.Close()
		s.openedOut = nil
	}
	s.out = e.stdout
}

func (s *redirState) close() {
	if s.openedIn != nil {
		s.openedIn.Close()
	}
	if s.openedOut != nil {
		s.openedOut.Close()
	}
}

// evalSimpleCommand applies every redirection in Prefix then Suffix order,
// collects the trailing words, and dispatches to a built-in or an external
// process. The locally-opened descriptors are always closed on return,
// whichever path ran (spec.md §4.3's "every open paired with a close").
func (e *Engine) evalSimpleCommand(n *ast.SimpleCommand) int {
	state := &redirState{in: e.stdin, out: e.stdout}
	defer state.close()

	for p := n.Prefix; p != nil; p = p.Next {
		e.applyRedirect(state, p.IO)
	}

	var args []string
	for s := n.Suffix; s != nil; s = s.Next {
		if s.IO != nil {
			e.applyRedirect(state, s.IO)
			continue
		}
		args = append(args, unquote(s.Word))
	}

	name := unquote(n.Name)
	if builtins.IsBuiltin(name) {
		return e.runBuiltin(name, args, state)
	}
	return e.runExternal(name, args, state)
}

func (e *Engine) runBuiltin(name string, args []string, state *redirState) int {
	fn := builtins.Registry[name]
	ctx := &builtinContext{engine: e, stdout: state.out}
	return fn(ctx, args)
}

func (e *Engine) runExternal(name string, args []string, state *redirState) int {
	argv := append([]string{name}, args...)
	status, err := process.Run(process.Spec{
		Argv:   argv,
		Env:    e.env.Envp(),
		Stdin:  state.in,
		Stdout: state.out,
		Stderr: e.stderr,
	})
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: %s: command not found\n", e.shellName, name)
		return 127
	}
	return status
}

// unquote strips the quoting the lexer preserved verbatim in WORD literals
// (spec.md §4.1, §9): a backslash drops out and its following byte is kept
// literally, and an unescaped quote character toggles a quoted region
// without itself appearing in the result.
func unquote(word string) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c == '\\' && i+1 < len(word) {
			i++
			b.WriteByte(word[i])
			continue
		}
		if quote == 0 && (c == '\'' || c == '"') {
			quote = c
			continue
		}
		if quote != 0 && c == quote {
			quote = 0
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
