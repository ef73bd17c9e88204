// Package device discovers connected Android devices and tracks which one
// the session is operating against.
//
// Discovery and naming fail soft (empty results, fallback labels) so a
// frontend can always render something; pairing and connecting fail loud
// with the tool's own error text.
package device

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/droidlink/droidlink/internal/adb"
	"github.com/droidlink/droidlink/internal/constants"
	"github.com/droidlink/droidlink/internal/events"
	"github.com/droidlink/droidlink/internal/logging"
)

// Status is a device state as reported by `adb devices`.
type Status string

const (
	StatusDevice       Status = "device"       // Usable
	StatusUnauthorized Status = "unauthorized" // Awaiting on-device authorization prompt
	StatusOffline      Status = "offline"      // Known but unreachable
)

// Device is one entry from the device enumeration.
type Device struct {
	ID          string
	Status      Status
	DisplayName string
}

// Usable reports whether remote operations can be issued against the device.
func (d Device) Usable() bool {
	return d.Status == StatusDevice
}

// PairingService is one mDNS-discovered pairing-capable peer.
type PairingService struct {
	Name string
	IP   string
	Port string
}

// Registry enumerates devices and tracks the active one.
type Registry struct {
	runner *adb.Runner
	bus    *events.EventBus
	log    *logging.Logger

	// Snapshot from the most recent List; SetActive validates against it.
	known  []Device
	active string
}

// NewRegistry creates a device registry.
func NewRegistry(runner *adb.Runner, bus *events.EventBus, log *logging.Logger) *Registry {
	return &Registry{runner: runner, bus: bus, log: log}
}

// List enumerates connected devices via `adb devices`. Fails soft: timeout
// or a non-zero exit yields an empty slice. All reported devices are
// returned, including unauthorized/offline ones; only Usable() entries may
// become active.
func (r *Registry) List(ctx context.Context) []Device {
	res, err := r.runner.Run(ctx, constants.ListTimeout, "devices")
	if err != nil {
		if r.log != nil {
			r.log.Warn().Err(err).Msg("device enumeration failed")
		}
		return nil
	}

	devices := ParseDevices(res.Stdout)
	for i := range devices {
		if devices[i].Usable() {
			devices[i].DisplayName = r.Name(ctx, devices[i].ID)
		} else {
			devices[i].DisplayName = FallbackName(devices[i].ID)
		}
	}

	r.known = devices
	return devices
}

// ParseDevices parses `adb devices` output. The first line is a header;
// each subsequent non-empty line is "<serial>\t<status>".
func ParseDevices(output string) []Device {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) <= 1 {
		return nil
	}

	var devices []Device
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "\t") {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		id := strings.TrimSpace(parts[0])
		status := Status(strings.TrimSpace(parts[1]))
		if id == "" {
			continue
		}
		devices = append(devices, Device{ID: id, Status: status})
	}
	return devices
}

// Name returns a human-readable model name for the device, falling back to
// a label derived from the id when the query fails.
func (r *Registry) Name(ctx context.Context, id string) string {
	res, err := r.runner.Shell(ctx, constants.MetadataTimeout, id, "getprop", "ro.product.model")
	if err != nil {
		return FallbackName(id)
	}
	name := strings.TrimSpace(res.Stdout)
	if name == "" {
		return FallbackName(id)
	}
	return name
}

// FallbackName derives a display label from a device id when the model name
// is unavailable.
func FallbackName(id string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return "Device " + short
}

// SetActive selects the device all subsequent remote operations target.
// Succeeds only if id appeared usable in the most recent List; otherwise
// the previous selection is left unchanged.
func (r *Registry) SetActive(id string) bool {
	for _, d := range r.known {
		if d.ID == id && d.Usable() {
			r.active = id
			if r.bus != nil {
				r.bus.PublishDeviceChanged(id, d.DisplayName)
			}
			return true
		}
	}
	return false
}

// Active returns the currently selected device id ("" if none).
func (r *Registry) Active() string {
	return r.active
}

// Pair drives the interactive pairing handshake: spawns `adb pair <addr>`,
// writes the code to its stdin, and waits up to PairTimeout. Success is
// classified by the known success phrase in stdout; any other outcome
// surfaces the tool's error text verbatim.
func (r *Registry) Pair(ctx context.Context, address, code string) (string, error) {
	res, err := r.runner.RunInput(ctx, constants.PairTimeout, code+"\n", "pair", address)
	if err != nil {
		if adb.IsTimeout(err) {
			return "", fmt.Errorf("pairing timed out; confirm the pairing dialog is still open on the device: %w", err)
		}
		return "", pairingFailure(res, err)
	}

	if strings.Contains(res.Stdout, constants.PairSuccessPhrase) {
		return strings.TrimSpace(res.Stdout), nil
	}
	return "", pairingFailure(res, nil)
}

func pairingFailure(res adb.Result, err error) error {
	msg := strings.TrimSpace(res.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(res.Stdout)
	}
	if msg == "" && err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = "pairing rejected"
	}
	return fmt.Errorf("pairing failed: %s", msg)
}

// Connect connects to a device over the network. adb exits 0 even on
// failure, so stdout is authoritative: it must contain the success phrase.
func (r *Registry) Connect(ctx context.Context, address string) (string, error) {
	res, err := r.runner.Run(ctx, constants.ConnectTimeout, "connect", address)
	if err != nil {
		return "", err
	}

	out := strings.TrimSpace(res.Stdout)
	if strings.Contains(out, constants.ConnectSuccessPhrase) && !strings.Contains(out, "failed") {
		return out, nil
	}

	msg := strings.TrimSpace(res.Stderr)
	if msg == "" {
		msg = out
	}
	return "", fmt.Errorf("connect failed: %s", msg)
}

// RestartServer kills and restarts the adb server. The kill result is
// ignored (the server may simply not be running); the start result decides.
func (r *Registry) RestartServer(ctx context.Context) (string, error) {
	_, _ = r.runner.Run(ctx, constants.ConnectTimeout, "kill-server")
	time.Sleep(constants.ServerRestartDelay)

	_, err := r.runner.Run(ctx, constants.ConnectTimeout, "start-server")
	if err != nil {
		return "", fmt.Errorf("failed to start adb server: %w", err)
	}
	return "adb server restarted", nil
}

// DiscoverPairingServices lists pairing-capable peers found via
// `adb mdns services`. Fails soft.
func (r *Registry) DiscoverPairingServices(ctx context.Context) []PairingService {
	res, err := r.runner.Run(ctx, constants.ListTimeout, "mdns", "services")
	if err != nil {
		if r.log != nil {
			r.log.Warn().Err(err).Msg("mdns discovery failed")
		}
		return nil
	}
	return ParsePairingServices(res.Stdout)
}

// ParsePairingServices extracts pairing services from `adb mdns services`
// output. Only lines advertising the pairing service type are kept; the
// address field is split on its last colon so IPv6-ish forms survive.
func ParsePairingServices(output string) []PairingService {
	var services []PairingService
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if !strings.Contains(line, constants.PairingServiceType) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		addr := fields[2]
		idx := strings.LastIndex(addr, ":")
		if idx < 0 {
			continue
		}
		services = append(services, PairingService{
			Name: fields[0],
			IP:   addr[:idx],
			Port: addr[idx+1:],
		})
	}
	return services
}
