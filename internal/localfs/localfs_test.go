package localfs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsHiddenName(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{".bashrc", true},
		{".config", true},
		{"notes.txt", false},
		{".", false},
		{"..", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsHiddenName(tt.name); got != tt.expected {
			t.Errorf("IsHiddenName(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestIsHidden(t *testing.T) {
	if !IsHidden("/home/user/.ssh") {
		t.Error("dot-directory path should be hidden")
	}
	if IsHidden("/home/user/Documents") {
		t.Error("plain path should not be hidden")
	}
}

func setupTestDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"visible.txt": "hello",
		".hidden":     "secret",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for _, sub := range []string{"subdir", ".hiddendir"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "subdir", "nested.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestListDirectoryExcludesHiddenByDefault(t *testing.T) {
	dir := setupTestDir(t)

	entries, err := ListDirectory(dir, ListOptions{})
	if err != nil {
		t.Fatal(err)
	}

	names := map[string]Kind{}
	for _, e := range entries {
		names[e.Name] = e.Kind
	}

	if _, ok := names[".hidden"]; ok {
		t.Error("hidden file present without IncludeHidden")
	}
	if _, ok := names[".hiddendir"]; ok {
		t.Error("hidden directory present without IncludeHidden")
	}
	if kind := names["visible.txt"]; kind != KindFile {
		t.Errorf("visible.txt kind = %q", kind)
	}
	if kind := names["subdir"]; kind != KindDirectory {
		t.Errorf("subdir kind = %q", kind)
	}
}

func TestListDirectoryIncludeHidden(t *testing.T) {
	dir := setupTestDir(t)

	entries, err := ListDirectory(dir, ListOptions{IncludeHidden: true})
	if err != nil {
		t.Fatal(err)
	}

	found := false
	for _, e := range entries {
		if e.Name == ".hidden" {
			found = true
		}
	}
	if !found {
		t.Error("hidden file missing with IncludeHidden")
	}
}

func TestListDirectoryMissingPath(t *testing.T) {
	_, err := ListDirectory("/nonexistent/path/for/test", ListOptions{})
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWalkFilesSkipsHiddenDirs(t *testing.T) {
	dir := setupTestDir(t)
	if err := os.WriteFile(filepath.Join(dir, ".hiddendir", "buried.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var visited []string
	err := WalkFiles(dir, WalkOptions{SkipHiddenDirs: true}, func(e Entry) error {
		visited = append(visited, e.Name)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range visited {
		if name == "buried.txt" {
			t.Error("walk descended into hidden directory")
		}
		if name == "subdir" {
			t.Error("WalkFiles visited a directory")
		}
	}

	foundNested := false
	for _, name := range visited {
		if name == "nested.txt" {
			foundNested = true
		}
	}
	if !foundNested {
		t.Error("walk missed nested.txt in visible subdir")
	}
}
