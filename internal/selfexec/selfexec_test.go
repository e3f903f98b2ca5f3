package selfexec

import (
	"os"
	"testing"
)

func TestArgvBuildsHiddenEvalInvocation(t *testing.T) {
	argv, err := Argv("echo hello")
	if err != nil {
		t.Fatalf("Argv: %v", err)
	}
	if len(argv) != 3 {
		t.Fatalf("argv = %v, want 3 elements", argv)
	}

	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	if argv[0] != exe {
		t.Errorf("argv[0] = %q, want %q", argv[0], exe)
	}
	if argv[1] != EvalSubcommand {
		t.Errorf("argv[1] = %q, want %q", argv[1], EvalSubcommand)
	}
	if argv[2] != "echo hello" {
		t.Errorf("argv[2] = %q, want %q", argv[2], "echo hello")
	}
}

func TestArgvExecutableOverrideTakesPrecedence(t *testing.T) {
	ExecutableOverride = "/custom/minishell"
	defer func() { ExecutableOverride = "" }()

	argv, err := Argv("true")
	if err != nil {
		t.Fatalf("Argv: %v", err)
	}
	if argv[0] != "/custom/minishell" {
		t.Errorf("argv[0] = %q, want %q", argv[0], "/custom/minishell")
	}
}

func TestArgvEnvOverrideTakesPrecedenceOverExecutable(t *testing.T) {
	t.Setenv(executablePathEnv, "/env/minishell")

	argv, err := Argv("true")
	if err != nil {
		t.Fatalf("Argv: %v", err)
	}
	if argv[0] != "/env/minishell" {
		t.Errorf("argv[0] = %q, want %q", argv[0], "/env/minishell")
	}
}
