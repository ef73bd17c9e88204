// Package config provides configuration management for DroidLink.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// Config holds user-tunable settings shared by every frontend.
//
// Config file location:
//   - Windows: %USERPROFILE%\.config\droidlink\config
//   - Unix: ~/.config/droidlink/config
//
// INI format:
//
//	[adb]
//	path = /opt/platform-tools/adb
//
//	[browse]
//	default_remote_path = /sdcard
//	default_local_path =
//	show_hidden = false
//
//	[transfer]
//	timeout_minutes = 5
type Config struct {
	// ADBPath overrides adb binary discovery. Empty means search the
	// bundled location and then $PATH.
	ADBPath string `ini:"path"`

	// DefaultRemotePath is the remote directory a new session opens in.
	DefaultRemotePath string `ini:"default_remote_path"`

	// DefaultLocalPath is the local directory a new session opens in.
	// Empty means the user's home directory.
	DefaultLocalPath string `ini:"default_local_path"`

	// ShowHidden includes dotfiles in local listings.
	ShowHidden bool `ini:"show_hidden"`

	// TransferTimeoutMinutes bounds a single pull/push subprocess.
	TransferTimeoutMinutes int `ini:"timeout_minutes"`
}

// Validation errors
var (
	ErrInvalidRemotePath      = errors.New("default_remote_path must be absolute (start with /)")
	ErrInvalidTransferTimeout = errors.New("timeout_minutes must be between 1 and 120")
)

// DefaultConfigPath returns the default path for the config file.
func DefaultConfigPath() (string, error) {
	var configDir string

	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
		configDir = filepath.Join(userProfile, ".config", "droidlink")
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "droidlink")
	}

	return filepath.Join(configDir, "config"), nil
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		DefaultRemotePath:      "/sdcard",
		ShowHidden:             false,
		TransferTimeoutMinutes: 5,
	}
}

// Load loads configuration from an INI file. A missing file is not an
// error: defaults are returned so a fresh install works with zero setup.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	adbSection := iniFile.Section("adb")
	cfg.ADBPath = adbSection.Key("path").String()

	browseSection := iniFile.Section("browse")
	cfg.DefaultRemotePath = browseSection.Key("default_remote_path").MustString(cfg.DefaultRemotePath)
	cfg.DefaultLocalPath = browseSection.Key("default_local_path").String()
	cfg.ShowHidden = browseSection.Key("show_hidden").MustBool(false)

	transferSection := iniFile.Section("transfer")
	cfg.TransferTimeoutMinutes = transferSection.Key("timeout_minutes").MustInt(cfg.TransferTimeoutMinutes)

	return cfg, nil
}

// Save writes configuration to an INI file, creating parent directories as
// needed. Written via a temp file and rename so a crash never leaves a
// half-written config.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	adbSection, err := iniFile.NewSection("adb")
	if err != nil {
		return fmt.Errorf("failed to create adb section: %w", err)
	}
	adbSection.Key("path").SetValue(cfg.ADBPath)

	browseSection, err := iniFile.NewSection("browse")
	if err != nil {
		return fmt.Errorf("failed to create browse section: %w", err)
	}
	browseSection.Key("default_remote_path").SetValue(cfg.DefaultRemotePath)
	browseSection.Key("default_local_path").SetValue(cfg.DefaultLocalPath)
	browseSection.Key("show_hidden").SetValue(fmt.Sprintf("%t", cfg.ShowHidden))

	transferSection, err := iniFile.NewSection("transfer")
	if err != nil {
		return fmt.Errorf("failed to create transfer section: %w", err)
	}
	transferSection.Key("timeout_minutes").SetValue(fmt.Sprintf("%d", cfg.TransferTimeoutMinutes))

	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks the configuration for values that would break a session.
func (cfg *Config) Validate() error {
	if !strings.HasPrefix(strings.TrimSpace(cfg.DefaultRemotePath), "/") {
		return ErrInvalidRemotePath
	}
	if cfg.TransferTimeoutMinutes < 1 || cfg.TransferTimeoutMinutes > 120 {
		return ErrInvalidTransferTimeout
	}
	return nil
}

// TransferTimeout returns the configured transfer timeout as a duration.
func (cfg *Config) TransferTimeout() time.Duration {
	return time.Duration(cfg.TransferTimeoutMinutes) * time.Minute
}

// LocalStartPath returns the local directory a session should open in,
// falling back to the home directory and then the OS temp dir.
func (cfg *Config) LocalStartPath() string {
	if cfg.DefaultLocalPath != "" {
		return cfg.DefaultLocalPath
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.TempDir()
}
