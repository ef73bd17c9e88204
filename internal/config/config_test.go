package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultRemotePath != "/sdcard" {
		t.Errorf("DefaultRemotePath = %q", cfg.DefaultRemotePath)
	}
	if cfg.TransferTimeoutMinutes != 5 {
		t.Errorf("TransferTimeoutMinutes = %d", cfg.TransferTimeoutMinutes)
	}
	if cfg.ShowHidden {
		t.Error("ShowHidden should default to false")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")

	want := &Config{
		ADBPath:                "/opt/platform-tools/adb",
		DefaultRemotePath:      "/storage/emulated/0",
		DefaultLocalPath:       "/home/user/phone",
		ShowHidden:             true,
		TransferTimeoutMinutes: 10,
	}
	if err := Save(want, path); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}

	// Atomic write must not leave the temp file behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after Save")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	content := "[browse]\nshow_hidden = true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.ShowHidden {
		t.Error("show_hidden not loaded")
	}
	if cfg.DefaultRemotePath != "/sdcard" {
		t.Errorf("unset key lost its default: %q", cfg.DefaultRemotePath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"Defaults valid", func(c *Config) {}, nil},
		{"Relative remote path", func(c *Config) { c.DefaultRemotePath = "sdcard" }, ErrInvalidRemotePath},
		{"Zero timeout", func(c *Config) { c.TransferTimeoutMinutes = 0 }, ErrInvalidTransferTimeout},
		{"Huge timeout", func(c *Config) { c.TransferTimeoutMinutes = 600 }, ErrInvalidTransferTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransferTimeout(t *testing.T) {
	cfg := NewConfig()
	cfg.TransferTimeoutMinutes = 3
	if got := cfg.TransferTimeout(); got != 3*time.Minute {
		t.Errorf("TransferTimeout = %v", got)
	}
}
