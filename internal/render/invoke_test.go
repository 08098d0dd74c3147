package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeRenderer writes a shell script standing in for a renderer executable.
func fakeRenderer(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures are not portable to windows")
	}
	path := filepath.Join(t.TempDir(), "renderer.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write fake renderer: %v", err)
	}
	return path
}

func TestInvokeUnconfiguredPath(t *testing.T) {
	job := testJob(0)
	_, err := Invoke(context.Background(), fakeBackend{}, "scene.txt", job, InvokeConfig{})

	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *ConfigurationError", err)
	}
	if ce.Backend != "fake" {
		t.Errorf("error names backend %q, want fake", ce.Backend)
	}
	// The message must tell the user what to fix.
	if !strings.Contains(ce.Error(), "path") {
		t.Errorf("error is not actionable: %v", ce)
	}
}

func TestInvokeSuccess(t *testing.T) {
	job := testJob(0)
	exe := fakeRenderer(t, "exit 0\n")

	out, err := Invoke(context.Background(), fakeBackend{}, "scene.txt", job, InvokeConfig{Path: exe})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if out != job.Output {
		t.Errorf("output = %q, want %q", out, job.Output)
	}
}

func TestInvokePassesArguments(t *testing.T) {
	job := testJob(0)
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	exe := fakeRenderer(t, `echo "$@" > `+argsFile+"\n")

	_, err := Invoke(context.Background(), fakeBackend{}, "scene.txt", job, InvokeConfig{
		Path:   exe,
		Params: "--samples 32",
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("fake renderer did not run: %v", err)
	}
	got := strings.TrimSpace(string(data))
	want := "--samples 32 -o out.png -headless scene.txt"
	if got != want {
		t.Errorf("renderer args = %q, want %q", got, want)
	}
}

func TestInvokeNonZeroExit(t *testing.T) {
	// The original tooling this replaces ignored the renderer's exit code;
	// here a failed render must surface as an error.
	job := testJob(0)
	exe := fakeRenderer(t, "echo 'out of memory' >&2\nexit 3\n")

	_, err := Invoke(context.Background(), fakeBackend{}, "scene.txt", job, InvokeConfig{Path: exe})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "status 3") {
		t.Errorf("error should carry the exit status: %v", err)
	}
	if !strings.Contains(err.Error(), "out of memory") {
		t.Errorf("error should carry renderer stderr: %v", err)
	}
}

func TestInvokeTimeout(t *testing.T) {
	job := testJob(0)
	exe := fakeRenderer(t, "sleep 10\n")

	start := time.Now()
	_, err := Invoke(context.Background(), fakeBackend{}, "scene.txt", job, InvokeConfig{
		Path:    exe,
		Timeout: 100 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %v, want timeout", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("renderer was not killed promptly: %v", elapsed)
	}
}

func TestInvokeTimeoutKillsChildren(t *testing.T) {
	// The renderer forks a worker that inherits the stderr pipe; the timeout
	// must take down the whole process group, not just the top process, or
	// Wait stays blocked on the pipe until the worker exits.
	job := testJob(0)
	exe := fakeRenderer(t, "sleep 10 &\nwait\n")

	start := time.Now()
	_, err := Invoke(context.Background(), fakeBackend{}, "scene.txt", job, InvokeConfig{
		Path:    exe,
		Timeout: 100 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %v, want timeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("renderer children were not killed promptly: %v", elapsed)
	}
}

func TestInvokeBadPrefix(t *testing.T) {
	job := testJob(0)
	_, err := Invoke(context.Background(), fakeBackend{}, "scene.txt", job, InvokeConfig{
		Path:   "/usr/bin/true",
		Prefix: `nice -n "unterminated`,
	})
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *ConfigurationError", err)
	}
}

func TestBuildArgvPrefixOrder(t *testing.T) {
	job := testJob(0)
	argv, err := buildArgv(fakeBackend{}, "scene.txt", job, InvokeConfig{
		Prefix: "nice -n 19",
		Path:   "/opt/fake/render",
		Params: "--samples 8",
	})
	if err != nil {
		t.Fatalf("buildArgv failed: %v", err)
	}
	want := "nice -n 19 /opt/fake/render --samples 8 -o out.png -headless scene.txt"
	if got := strings.Join(argv, " "); got != want {
		t.Errorf("argv = %q, want %q", got, want)
	}
}
