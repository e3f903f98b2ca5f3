package builtins

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/glasswing-labs/minishell/internal/environment"
)

type fakeContext struct {
	stdout    bytes.Buffer
	stderr    bytes.Buffer
	env       *environment.Environment
	shellName string
	cwd       string
	chdirErr  error
	exitCode  int
	exited    bool
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		env:       environment.New(nil),
		shellName: "minishell",
		cwd:       "/home/user",
	}
}

func (c *fakeContext) Stdout() io.Writer              { return &c.stdout }
func (c *fakeContext) Stderr() io.Writer              { return &c.stderr }
func (c *fakeContext) Env() *environment.Environment  { return c.env }
func (c *fakeContext) ShellName() string              { return c.shellName }
func (c *fakeContext) Getwd() (string, error)         { return c.cwd, nil }
func (c *fakeContext) Exit(status int)                { c.exited = true; c.exitCode = status }
func (c *fakeContext) Chdir(path string) error {
	if c.chdirErr != nil {
		return c.chdirErr
	}
	c.cwd = path
	return nil
}

func TestIsBuiltinRecognizesAllSevenNames(t *testing.T) {
	for _, name := range []string{"cd", "echo", "env", "exit", "export", "pwd", "unset"} {
		if !IsBuiltin(name) {
			t.Errorf("IsBuiltin(%q) = false, want true", name)
		}
	}
	if IsBuiltin("ls") {
		t.Errorf("IsBuiltin(%q) = true, want false", "ls")
	}
}

func TestEchoJoinsArgsWithSpaceAndNewline(t *testing.T) {
	ctx := newFakeContext()
	status := Registry["echo"](ctx, []string{"hello", "world"})
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
	if got, want := ctx.stdout.String(), "hello world\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestEchoDashNSuppressesNewline(t *testing.T) {
	ctx := newFakeContext()
	Registry["echo"](ctx, []string{"-n", "hello"})
	if got, want := ctx.stdout.String(), "hello"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestPwdPrintsCurrentDirectory(t *testing.T) {
	ctx := newFakeContext()
	status := Registry["pwd"](ctx, nil)
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
	if got, want := ctx.stdout.String(), "/home/user\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestCdChangesDirectory(t *testing.T) {
	ctx := newFakeContext()
	status := Registry["cd"](ctx, []string{"/tmp"})
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
	if ctx.cwd != "/tmp" {
		t.Errorf("cwd = %q, want %q", ctx.cwd, "/tmp")
	}
}

func TestCdMissingArgumentIsError(t *testing.T) {
	ctx := newFakeContext()
	status := Registry["cd"](ctx, nil)
	if status != 1 {
		t.Errorf("status = %d, want 1", status)
	}
	if !strings.Contains(ctx.stderr.String(), "missing argument") {
		t.Errorf("stderr = %q, want mention of missing argument", ctx.stderr.String())
	}
}

func TestCdFailureReportsError(t *testing.T) {
	ctx := newFakeContext()
	ctx.chdirErr = errors.New("no such file or directory")
	status := Registry["cd"](ctx, []string{"/nope"})
	if status != 1 {
		t.Errorf("status = %d, want 1", status)
	}
	if !strings.Contains(ctx.stderr.String(), "/nope") {
		t.Errorf("stderr = %q, want mention of path", ctx.stderr.String())
	}
}

func TestEnvPrintsEveryVariableInOrder(t *testing.T) {
	ctx := newFakeContext()
	ctx.env.Set("A", "1")
	ctx.env.Set("B", "2")
	Registry["env"](ctx, nil)
	if got, want := ctx.stdout.String(), "A=1\nB=2\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestUnsetRemovesVariable(t *testing.T) {
	ctx := newFakeContext()
	ctx.env.Set("A", "1")
	Registry["unset"](ctx, []string{"A"})
	if _, ok := ctx.env.Get("A"); ok {
		t.Errorf("A still present after unset")
	}
}

func TestUnsetNoArgsIsNoop(t *testing.T) {
	ctx := newFakeContext()
	status := Registry["unset"](ctx, nil)
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
}

func TestExitCallsContextExit(t *testing.T) {
	ctx := newFakeContext()
	Registry["exit"](ctx, nil)
	if !ctx.exited {
		t.Errorf("Exit was not called")
	}
}
