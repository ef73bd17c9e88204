// Package adb wraps invocation of the external adb client binary.
//
// The bridge never speaks the adb wire protocol itself; everything goes
// through the client as a line-oriented text exchange over stdout/stderr and
// exit codes. Every invocation runs under a context deadline so a wedged
// device degrades to a reported failure instead of a hang.
package adb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/droidlink/droidlink/internal/logging"
)

// Locate finds the adb executable. Search order:
//  1. explicit override (config adb_path)
//  2. a binary sitting next to our own executable (bundled platform-tools)
//  3. $PATH
//
// Returns ErrToolUnavailable if none of these yield a usable path.
func Locate(override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override, nil
		}
		return "", ErrToolUnavailable
	}

	exeName := "adb"
	if runtime.GOOS == "windows" {
		exeName = "adb.exe"
	}

	if self, err := os.Executable(); err == nil {
		bundled := filepath.Join(filepath.Dir(self), exeName)
		if _, err := os.Stat(bundled); err == nil {
			return bundled, nil
		}
	}

	path, err := exec.LookPath(exeName)
	if err != nil {
		return "", ErrToolUnavailable
	}
	return path, nil
}

// Result holds the outcome of a completed adb invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes adb commands. It is stateless apart from the binary path
// and safe for concurrent use; each call spawns its own subprocess.
type Runner struct {
	path string
	log  *logging.Logger
}

// NewRunner creates a runner for the adb binary at path.
func NewRunner(path string, log *logging.Logger) *Runner {
	return &Runner{path: path, log: log}
}

// Path returns the adb binary path in use.
func (r *Runner) Path() string {
	return r.path
}

// Run executes `adb args...` and waits for completion, bounded by timeout.
// A non-zero exit yields a *ProcessError; a deadline hit yields a
// *TimeoutError. Stdout/stderr are captured whole (metadata commands only;
// transfers use Stream).
func (r *Runner) Run(ctx context.Context, timeout time.Duration, args ...string) (Result, error) {
	return r.run(ctx, timeout, "", args...)
}

// RunInput is Run with data written to the subprocess stdin. Used for the
// interactive pairing handshake, which reads the pairing code from stdin.
func (r *Runner) RunInput(ctx context.Context, timeout time.Duration, input string, args ...string) (Result, error) {
	return r.run(ctx, timeout, input, args...)
}

func (r *Runner) run(ctx context.Context, timeout time.Duration, input string, args ...string) (Result, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, r.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	if r.log != nil {
		r.log.Debug().Str("cmd", strings.Join(args, " ")).Msg("adb exec")
	}

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		return res, nil
	}

	if cctx.Err() == context.DeadlineExceeded {
		return res, &TimeoutError{Command: commandLabel(args), Timeout: timeout}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, &ProcessError{
			Command:  commandLabel(args),
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return res, ErrToolUnavailable
	}
	return res, err
}

// Shell executes a shell command on the given device:
// `adb -s <device> shell <shellArgs...>`.
func (r *Runner) Shell(ctx context.Context, timeout time.Duration, deviceID string, shellArgs ...string) (Result, error) {
	args := append([]string{"-s", deviceID, "shell"}, shellArgs...)
	return r.Run(ctx, timeout, args...)
}

// Stream is a running adb subprocess whose stdout is consumed line by line
// (pull -p / push -p progress markers). Call Wait exactly once after the
// reader is drained.
type Stream struct {
	Stdout io.ReadCloser

	cmd     *exec.Cmd
	cancel  context.CancelFunc
	stderr  *bytes.Buffer
	label   string
	timeout time.Duration
	cctx    context.Context
}

// Start launches `adb args...` with stdout piped for streaming consumption.
func (r *Runner) Start(ctx context.Context, timeout time.Duration, args ...string) (*Stream, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)

	cmd := exec.CommandContext(cctx, r.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}

	if r.log != nil {
		r.log.Debug().Str("cmd", strings.Join(args, " ")).Msg("adb stream")
	}

	if err := cmd.Start(); err != nil {
		cancel()
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil, ErrToolUnavailable
		}
		return nil, err
	}

	return &Stream{
		Stdout:  stdout,
		cmd:     cmd,
		cancel:  cancel,
		stderr:  &stderr,
		label:   commandLabel(args),
		timeout: timeout,
		cctx:    cctx,
	}, nil
}

// Wait reaps the subprocess and classifies its exit, mirroring Run.
func (s *Stream) Wait() error {
	defer s.cancel()

	err := s.cmd.Wait()
	if err == nil {
		return nil
	}

	if s.cctx.Err() == context.DeadlineExceeded {
		return &TimeoutError{Command: s.label, Timeout: s.timeout}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ProcessError{
			Command:  s.label,
			ExitCode: exitErr.ExitCode(),
			Stderr:   s.stderr.String(),
		}
	}
	return err
}

// commandLabel returns the subcommand used in error messages, skipping the
// device selector so errors read "adb pull failed", not "adb -s failed".
func commandLabel(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-s" {
			i++ // skip serial value
			continue
		}
		return args[i]
	}
	return ""
}
