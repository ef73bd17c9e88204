package adb

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestTimeoutErrorClassification(t *testing.T) {
	base := &TimeoutError{Command: "pull", Timeout: 5 * time.Second}
	wrapped := fmt.Errorf("transfer failed: %w", base)

	if !IsTimeout(base) {
		t.Error("IsTimeout(TimeoutError) = false, want true")
	}
	if !IsTimeout(wrapped) {
		t.Error("IsTimeout(wrapped TimeoutError) = false, want true")
	}
	if IsTimeout(errors.New("plain")) {
		t.Error("IsTimeout(plain error) = true, want false")
	}
}

func TestProcessErrorMessage(t *testing.T) {
	err := &ProcessError{Command: "shell", ExitCode: 1, Stderr: "ls: /nope: No such file or directory\n"}
	msg := err.Error()
	if !strings.Contains(msg, "exit 1") {
		t.Errorf("ProcessError message missing exit code: %q", msg)
	}
	if !strings.Contains(msg, "No such file or directory") {
		t.Errorf("ProcessError message missing stderr text: %q", msg)
	}

	empty := &ProcessError{Command: "mv", ExitCode: 255}
	if !strings.Contains(empty.Error(), "no error output") {
		t.Errorf("empty-stderr ProcessError should note missing output: %q", empty.Error())
	}
}

func TestExitCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &ProcessError{Command: "rm", ExitCode: 2})
	if got := ExitCode(err); got != 2 {
		t.Errorf("ExitCode = %d, want 2", got)
	}
	if got := ExitCode(errors.New("other")); got != -1 {
		t.Errorf("ExitCode on non-process error = %d, want -1", got)
	}
}

func TestCommandLabel(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"devices"}, "devices"},
		{[]string{"-s", "emulator-5554", "shell", "ls"}, "shell"},
		{[]string{"-s", "abc", "pull", "-p", "/sdcard/a", "/tmp/a"}, "pull"},
		{[]string{}, ""},
	}
	for _, tt := range tests {
		if got := commandLabel(tt.args); got != tt.expected {
			t.Errorf("commandLabel(%v) = %q, want %q", tt.args, got, tt.expected)
		}
	}
}
