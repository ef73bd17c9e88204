package transfer

import (
	"strings"
	"testing"
)

type tick struct {
	transferred int64
	total       int64
}

func collectTicks(output string, total int64, sizeKnown bool) []tick {
	var ticks []tick
	scanPercentStream(strings.NewReader(output), total, sizeKnown, func(transferred, total int64) {
		ticks = append(ticks, tick{transferred, total})
	})
	return ticks
}

func TestScanPercentStreamKnownSize(t *testing.T) {
	output := "[  5%] /sdcard/big.bin\n" +
		"[ 50%] /sdcard/big.bin\n" +
		"[100%] /sdcard/big.bin\n"

	ticks := collectTicks(output, 1000, true)

	want := []tick{{50, 1000}, {500, 1000}, {1000, 1000}}
	if len(ticks) != len(want) {
		t.Fatalf("got %d ticks, want %d: %v", len(ticks), len(want), ticks)
	}
	for i, w := range want {
		if ticks[i] != w {
			t.Errorf("tick %d = %v, want %v", i, ticks[i], w)
		}
	}
}

func TestScanPercentStreamFloorsBytes(t *testing.T) {
	ticks := collectTicks("[ 33%] f\n", 10, true)
	if len(ticks) != 1 || ticks[0].transferred != 3 {
		t.Errorf("33%% of 10 bytes should floor to 3, got %v", ticks)
	}
}

func TestScanPercentStreamUnknownSize(t *testing.T) {
	output := "[ 10%] f\n[ 90%] f\n"
	ticks := collectTicks(output, 0, false)

	want := []tick{{10, 100}, {90, 100}}
	if len(ticks) != len(want) {
		t.Fatalf("got %v, want %v", ticks, want)
	}
	for i, w := range want {
		if ticks[i] != w {
			t.Errorf("tick %d = %v, want %v", i, ticks[i], w)
		}
	}
}

func TestScanPercentStreamMonotonic(t *testing.T) {
	// adb occasionally re-emits an earlier percent after a stall.
	output := "[ 40%] f\n[ 30%] f\n[ 40%] f\n[ 70%] f\n"
	ticks := collectTicks(output, 100, true)

	var prev int64 = -1
	for _, tk := range ticks {
		if tk.transferred <= prev {
			t.Errorf("non-monotonic tick %v after %d", tk, prev)
		}
		prev = tk.transferred
	}
	if prev != 70 {
		t.Errorf("final transferred = %d, want 70", prev)
	}
}

func TestScanPercentStreamCarriageReturnRewrites(t *testing.T) {
	// In-place rewrites arrive as one long line; only the last marker counts.
	output := "[  1%] f\r[ 25%] f\r[ 60%] f\n"
	ticks := collectTicks(output, 100, true)

	if len(ticks) != 1 || ticks[0].transferred != 60 {
		t.Errorf("expected single tick at 60, got %v", ticks)
	}
}

func TestScanPercentStreamIgnoresNoise(t *testing.T) {
	output := "adb: warning: something\n" +
		"[999%] bogus\n" +
		"100% but no brackets\n" +
		"[ 42%] real\n"
	ticks := collectTicks(output, 100, true)

	if len(ticks) != 1 || ticks[0].transferred != 42 {
		t.Errorf("expected single tick at 42, got %v", ticks)
	}
}

func TestScanPercentStreamNilCallback(t *testing.T) {
	// Must drain the stream without panicking.
	scanPercentStream(strings.NewReader("[ 50%] f\n"), 100, true, nil)
}

func TestSourceNotFoundErrorMessage(t *testing.T) {
	err := &SourceNotFoundError{Path: "/tmp/missing.txt"}
	if !strings.Contains(err.Error(), "/tmp/missing.txt") {
		t.Errorf("message missing path: %q", err.Error())
	}
}
