package device

import (
	"testing"
)

func TestParseDevices(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected []Device
	}{
		{
			name: "Single connected device",
			output: "List of devices attached\n" +
				"emulator-5554\tdevice\n",
			expected: []Device{
				{ID: "emulator-5554", Status: StatusDevice},
			},
		},
		{
			name: "Mixed statuses",
			output: "List of devices attached\n" +
				"R58M123ABC\tdevice\n" +
				"192.168.1.20:5555\toffline\n" +
				"0a1b2c3d\tunauthorized\n",
			expected: []Device{
				{ID: "R58M123ABC", Status: StatusDevice},
				{ID: "192.168.1.20:5555", Status: StatusOffline},
				{ID: "0a1b2c3d", Status: StatusUnauthorized},
			},
		},
		{
			name:     "Header only",
			output:   "List of devices attached\n\n",
			expected: nil,
		},
		{
			name:     "Empty output",
			output:   "",
			expected: nil,
		},
		{
			name: "Lines without tabs ignored",
			output: "List of devices attached\n" +
				"* daemon started successfully\n" +
				"emulator-5554\tdevice\n",
			expected: []Device{
				{ID: "emulator-5554", Status: StatusDevice},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDevices(tt.output)
			if len(got) != len(tt.expected) {
				t.Fatalf("ParseDevices returned %d devices, want %d: %+v", len(got), len(tt.expected), got)
			}
			for i := range got {
				if got[i].ID != tt.expected[i].ID || got[i].Status != tt.expected[i].Status {
					t.Errorf("device[%d] = %+v, want %+v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestUsable(t *testing.T) {
	if !(Device{Status: StatusDevice}).Usable() {
		t.Error("device status should be usable")
	}
	if (Device{Status: StatusUnauthorized}).Usable() {
		t.Error("unauthorized status should not be usable")
	}
	if (Device{Status: StatusOffline}).Usable() {
		t.Error("offline status should not be usable")
	}
}

func TestFallbackName(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"R58M123ABCDEF", "Device R58M123A"},
		{"abc", "Device abc"},
		{"12345678", "Device 12345678"},
	}
	for _, tt := range tests {
		if got := FallbackName(tt.id); got != tt.expected {
			t.Errorf("FallbackName(%q) = %q, want %q", tt.id, got, tt.expected)
		}
	}
}

func TestSetActiveRequiresKnownUsableDevice(t *testing.T) {
	r := &Registry{}
	r.known = []Device{
		{ID: "good", Status: StatusDevice},
		{ID: "locked", Status: StatusUnauthorized},
	}

	if !r.SetActive("good") {
		t.Error("SetActive on usable known device should succeed")
	}
	if r.Active() != "good" {
		t.Errorf("Active = %q, want %q", r.Active(), "good")
	}

	if r.SetActive("locked") {
		t.Error("SetActive on unauthorized device should fail")
	}
	if r.SetActive("unknown") {
		t.Error("SetActive on unknown device should fail")
	}
	if r.Active() != "good" {
		t.Errorf("failed SetActive must not change selection; Active = %q", r.Active())
	}
}

func TestParsePairingServices(t *testing.T) {
	output := "List of discovered mdns services\n" +
		"adb-R58M123ABC-aBcDeF\t_adb-tls-pairing._tcp.\t192.168.1.42:37123\n" +
		"adb-R58M123ABC-aBcDeF\t_adb-tls-connect._tcp.\t192.168.1.42:5555\n" +
		"adb-XYZ\t_adb-tls-pairing._tcp.\t10.0.0.7:40001\n"

	got := ParsePairingServices(output)
	if len(got) != 2 {
		t.Fatalf("ParsePairingServices returned %d services, want 2: %+v", len(got), got)
	}
	if got[0].IP != "192.168.1.42" || got[0].Port != "37123" {
		t.Errorf("service[0] = %+v, want ip 192.168.1.42 port 37123", got[0])
	}
	if got[1].IP != "10.0.0.7" || got[1].Port != "40001" {
		t.Errorf("service[1] = %+v, want ip 10.0.0.7 port 40001", got[1])
	}
	if got[0].Name != "adb-R58M123ABC-aBcDeF" {
		t.Errorf("service[0].Name = %q", got[0].Name)
	}
}

func TestParsePairingServicesEmpty(t *testing.T) {
	if got := ParsePairingServices(""); got != nil {
		t.Errorf("empty output should yield nil, got %+v", got)
	}
	if got := ParsePairingServices("List of discovered mdns services\n"); got != nil {
		t.Errorf("header-only output should yield nil, got %+v", got)
	}
}
