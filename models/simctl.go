package models

import (
	"strings"
)

const simRuntimePrefix = "com.apple.CoreSimulator.SimRuntime."

type SimctlDevice struct {
	AvailabilityError    string `json:"availabilityError,omitempty"`
	DataPath             string `json:"dataPath,omitempty"`
	DataPathSize         int    `json:"dataPathSize,omitempty"`
	LogPath              string `json:"logPath,omitempty"`
	UDID                 string `json:"udid"`
	IsAvailable          bool   `json:"isAvailable"`
	DeviceTypeIdentifier string `json:"deviceTypeIdentifier,omitempty"`
	State                string `json:"state"`
	Name                 string `json:"name"`
	LastBootedAt         string `json:"lastBootedAt,omitempty"`
	LogPathSize          int    `json:"logPathSize,omitempty"`

	// Not part of the simctl output, stamped from the runtime key the device was listed under
	SDKVersion string `json:"sdkVersion,omitempty"`
}

type SimctlDevices struct {
	SimctlDevice map[string][]SimctlDevice `json:"devices"`
}

// Flatten returns all device records with SDKVersion set from their runtime key
func (d SimctlDevices) Flatten() []SimctlDevice {
	var flat []SimctlDevice
	for runtime, devices := range d.SimctlDevice {
		version := RuntimeVersion(runtime)
		for _, device := range devices {
			device.SDKVersion = version
			flat = append(flat, device)
		}
	}
	return flat
}

// RuntimeVersion extracts the OS version from a simctl runtime key
// Handles both `com.apple.CoreSimulator.SimRuntime.iOS-8-3` and the older `iOS 8.3`
func RuntimeVersion(runtime string) string {
	if strings.HasPrefix(runtime, simRuntimePrefix) {
		name := strings.TrimPrefix(runtime, simRuntimePrefix)
		parts := strings.SplitN(name, "-", 2)
		if len(parts) != 2 {
			return ""
		}
		return strings.ReplaceAll(parts[1], "-", ".")
	}

	parts := strings.Fields(runtime)
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}
