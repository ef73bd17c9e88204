package constants

import (
	"time"
)

// Application identity
const (
	// AppName - binary and config directory name
	AppName = "droidlink"

	// ADBBinaryName - name of the external adb client binary (without .exe)
	ADBBinaryName = "adb"
)

// Subprocess timeouts
//
// Every adb invocation runs under a context deadline. Metadata commands are
// cheap and must never hang the caller; transfers legitimately take minutes.
const (
	// MetadataTimeout - stat/test/readlink/getprop and similar single-file queries (5s)
	MetadataTimeout = 5 * time.Second

	// ListTimeout - directory listings and device enumeration (10s)
	ListTimeout = 10 * time.Second

	// MutateTimeout - mkdir/mv/rm on the device (10s)
	MutateTimeout = 10 * time.Second

	// PairTimeout - interactive pairing handshake (15s)
	// Covers the user-visible round trip of writing the code and waiting
	// for the daemon's verdict.
	PairTimeout = 15 * time.Second

	// ConnectTimeout - adb connect / server restart commands (10s)
	ConnectTimeout = 10 * time.Second

	// TransferTimeout - default ceiling for a single pull/push (5 minutes)
	// Overridable via config for very large files.
	TransferTimeout = 5 * time.Minute

	// ServerRestartDelay - pause between kill-server and start-server (1s)
	ServerRestartDelay = 1 * time.Second
)

// Success phrases emitted by the adb client. These are matched against
// stdout to classify otherwise ambiguous exit states.
const (
	// PairSuccessPhrase - printed by `adb pair` on a successful handshake
	PairSuccessPhrase = "Successfully paired"

	// ConnectSuccessPhrase - printed by `adb connect` on success
	// (adb exits 0 even for "failed to connect", so stdout is authoritative)
	ConnectSuccessPhrase = "connected"

	// PairingServiceType - mDNS service type for pairing-capable peers
	PairingServiceType = "_adb-tls-pairing._tcp."
)

// Link resolution
const (
	// MaxLinkHops - maximum symlink chain length before declaring a cycle.
	// Mirrors the kernel's ELOOP behavior at a smaller, UI-friendly bound.
	MaxLinkHops = 10
)

// Event bus sizing
const (
	// EventBusDefaultBuffer - default per-subscriber channel buffer
	EventBusDefaultBuffer = 1000

	// EventBusMaxBuffer - hard cap on per-subscriber channel buffer
	EventBusMaxBuffer = 10000
)

// Disk space safety margin applied before downloads.
const (
	// DiskSpaceSafetyMargin - require 5% headroom over the reported file size
	DiskSpaceSafetyMargin = 1.05
)
