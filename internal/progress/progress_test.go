package progress

import "testing"

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		path     string
		max      int
		expected string
	}{
		{"/home/user/downloads/photo.jpg", 2, "…/downloads/photo.jpg"},
		{"photo.jpg", 2, "photo.jpg"},
		{"/a/b", 2, "…/a/b"},
		{"a/b", 2, "b"},
	}
	for _, tt := range tests {
		if got := truncatePath(tt.path, tt.max); got != tt.expected {
			t.Errorf("truncatePath(%q, %d) = %q, want %q", tt.path, tt.max, got, tt.expected)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
		{3 * 1024 * 1024 * 1024 * 1024, "3.0 TB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.expected {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.expected)
		}
	}
}

func TestNoOpIsSafe(t *testing.T) {
	var r Reporter = NoOp{}
	r.Start(100, "x")
	r.Update(50)
	r.Error(nil)
	r.Finish()
}

func TestSingleBarNilSafe(t *testing.T) {
	// Update/Finish before Start must not panic.
	b := NewSingleBar()
	b.Update(10)
	b.Finish()
	b.Error(nil)
}
