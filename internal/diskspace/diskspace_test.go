package diskspace

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCheckAgainstAvailable(t *testing.T) {
	tests := []struct {
		name      string
		required  int64
		available int64
		margin    float64
		wantErr   bool
	}{
		{"Plenty of space", 1000, 1_000_000, 1.05, false},
		{"Exactly enough with margin", 1000, 1050, 1.05, false},
		{"Margin pushes over", 1000, 1049, 1.05, true},
		{"Not enough", 1_000_000, 1000, 1.0, true},
		{"Unknown availability passes", 1_000_000, 0, 1.05, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkAgainstAvailable("/tmp/target", tt.required, tt.available, tt.margin)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkAgainstAvailable = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsInsufficientSpaceError(err) {
				t.Errorf("error %v is not an InsufficientSpaceError", err)
			}
		})
	}
}

func TestInsufficientSpaceErrorMessage(t *testing.T) {
	err := &InsufficientSpaceError{
		Path:           "/downloads/big.bin",
		RequiredBytes:  200 * 1024 * 1024,
		AvailableBytes: 50 * 1024 * 1024,
	}
	msg := err.Error()
	if !strings.Contains(msg, "/downloads/big.bin") {
		t.Errorf("message missing path: %q", msg)
	}
	if !strings.Contains(msg, "200.00 MB") || !strings.Contains(msg, "50.00 MB") {
		t.Errorf("message missing sizes: %q", msg)
	}
}

func TestIsInsufficientSpaceError(t *testing.T) {
	base := &InsufficientSpaceError{Path: "/x", RequiredBytes: 2, AvailableBytes: 1}
	if !IsInsufficientSpaceError(fmt.Errorf("download: %w", base)) {
		t.Error("wrapped InsufficientSpaceError not detected")
	}
	if IsInsufficientSpaceError(errors.New("other")) {
		t.Error("plain error misclassified")
	}
	if IsInsufficientSpaceError(nil) {
		t.Error("nil misclassified")
	}
}

func TestGetAvailableSpaceOnTempDir(t *testing.T) {
	dir := t.TempDir()
	// A real writable filesystem should report some available space.
	if got := GetAvailableSpace(dir + "/probe"); got <= 0 {
		t.Skipf("filesystem reports no available space (%d); skipping", got)
	}
}
