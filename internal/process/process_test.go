package process

import (
	"bytes"
	"os"
	"testing"
)

func TestRunCapturesStdoutAndExitCode(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}

	status, err := Run(Spec{
		Argv:   []string{"/bin/echo", "hello"},
		Env:    os.Environ(),
		Stdout: w,
		Stderr: w,
	})
	w.Close()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	if got, want := buf.String(), "hello\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRunNonZeroExitCode(t *testing.T) {
	status, err := Run(Spec{
		Argv: []string{"/bin/sh", "-c", "exit 7"},
		Env:  os.Environ(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status != 7 {
		t.Errorf("status = %d, want 7", status)
	}
}

func TestRunEmptyArgvReturnsError(t *testing.T) {
	if _, err := Run(Spec{}); err == nil {
		t.Errorf("Run with empty Argv: want error, got nil")
	}
}

func TestSpawnReturnsBeforeExit(t *testing.T) {
	h, err := Spawn(Spec{
		Argv: []string{"/bin/sh", "-c", "exit 3"},
		Env:  os.Environ(),
	})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if status := h.Wait(); status != 3 {
		t.Errorf("Wait() = %d, want 3", status)
	}
}
