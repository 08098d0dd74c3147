package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"

	"github.com/cadlabs/scenecast/internal/logger"
	"github.com/cadlabs/scenecast/internal/scene"
)

// waitDelay bounds how long Wait may linger on the renderer's I/O pipes
// after the process is gone.
const waitDelay = 3 * time.Second

// InvokeConfig carries everything Invoke needs from user configuration.
// It is passed explicitly so invocation stays testable without a live
// preferences store.
type InvokeConfig struct {
	// Prefix is an optional command prefix inserted before the executable
	// path (e.g. "nice -n 19"). Shell-word split.
	Prefix string
	// Path is the renderer executable. Empty means unconfigured.
	Path string
	// Params are the backend's default CLI parameters. Shell-word split.
	Params string
	// External launches the renderer's interactive viewer instead of
	// rendering headless.
	External bool
	// Timeout bounds the render; the process is killed when it expires.
	// Zero means no limit.
	Timeout time.Duration
}

// Invoke runs the external renderer on sceneFile and blocks until it
// completes, returning the output image path from the job.
//
// An unset executable path is a *ConfigurationError: a setup problem for the
// user to fix, reported without attempting to spawn anything. A non-zero
// exit status or an expired timeout is an error; the renderer process is
// released on every exit path.
func Invoke(ctx context.Context, b Backend, sceneFile string, job *scene.Job, cfg InvokeConfig) (string, error) {
	if cfg.Path == "" {
		return "", &ConfigurationError{
			Backend: b.Name(),
			Reason: "renderer executable path is not set; " +
				"set backends." + b.Name() + ".path in the scenecast config",
		}
	}

	argv, err := buildArgv(b, sceneFile, job, cfg)
	if err != nil {
		return "", err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	logger.Info("invoking renderer",
		zap.String("backend", b.Name()),
		zap.String("cmd", strings.Join(argv, " ")))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr
	// Renderers fork worker processes that inherit the stderr pipe; without
	// a wait delay, Wait would block on the pipe for as long as any orphaned
	// worker keeps it open. The process group kill takes the workers down
	// with the renderer.
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	runErr := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("renderer %s timed out after %v", b.Name(), cfg.Timeout)
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return "", fmt.Errorf("renderer %s exited with status %d: %s",
			b.Name(), exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
	}
	if runErr != nil {
		return "", fmt.Errorf("running renderer %s: %w", b.Name(), runErr)
	}

	logger.Info("render finished",
		zap.String("backend", b.Name()),
		zap.String("output", job.Output))
	return job.Output, nil
}

// buildArgv assembles prefix + executable + default params + backend args.
func buildArgv(b Backend, sceneFile string, job *scene.Job, cfg InvokeConfig) ([]string, error) {
	var argv []string
	if cfg.Prefix != "" {
		words, err := shellwords.Parse(cfg.Prefix)
		if err != nil {
			return nil, &ConfigurationError{Backend: b.Name(),
				Reason: fmt.Sprintf("bad command prefix %q: %v", cfg.Prefix, err)}
		}
		argv = append(argv, words...)
	}
	argv = append(argv, cfg.Path)
	if cfg.Params != "" {
		words, err := shellwords.Parse(cfg.Params)
		if err != nil {
			return nil, &ConfigurationError{Backend: b.Name(),
				Reason: fmt.Sprintf("bad renderer parameters %q: %v", cfg.Params, err)}
		}
		argv = append(argv, words...)
	}
	argv = append(argv, b.RenderArgs(sceneFile, job, cfg.External)...)
	return argv, nil
}
