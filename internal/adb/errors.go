package adb

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrToolUnavailable indicates the adb binary could not be located.
// Fatal for the whole session; surfaced once at startup.
var ErrToolUnavailable = errors.New("adb binary not found (install platform-tools or set adb_path in config)")

// TimeoutError indicates an adb invocation exceeded its deadline.
// A timeout always degrades to a reported failure, never a hang.
type TimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("adb %s timed out after %s", e.Command, e.Timeout)
}

// ProcessError indicates adb exited non-zero. Stderr is preserved verbatim
// so the user can diagnose; most device-side errors only appear there.
type ProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "no error output"
	}
	return fmt.Sprintf("adb %s failed (exit %d): %s", e.Command, e.ExitCode, msg)
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// ExitCode extracts the process exit code from err, or -1 when err is not
// a ProcessError.
func ExitCode(err error) int {
	var pe *ProcessError
	if errors.As(err, &pe) {
		return pe.ExitCode
	}
	return -1
}
