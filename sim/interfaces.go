package sim

import (
	"context"

	"github.com/shamanec/GADS-simulator/models"
)

// DeviceControl is the simulator control utility, `xcrun simctl` in production
type DeviceControl interface {
	ListDevices(ctx context.Context) (models.SimctlDevices, error)
	Erase(ctx context.Context, udid string) error
	Shutdown(ctx context.Context, udid string) error
	Delete(ctx context.Context, udid string) error
}

// Launcher boots a simulator and launches a minimal app context on it
type Launcher interface {
	QuickLaunch(ctx context.Context, udid string) error
}

// ProcessSweeper terminates all simulator processes on the host
type ProcessSweeper interface {
	KillAllSimulators(ctx context.Context) error
}

type MetadataReader interface {
	ReadPlist(path string, v interface{}) error
}

// SettingsUpdater receives settings changes without them being interpreted here
type SettingsUpdater interface {
	UpdateSettings(ctx context.Context, udid, dataRoot, name string, values map[string]interface{}) error
}
