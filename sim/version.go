package sim

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/shamanec/GADS-simulator/models"
)

// PlatformVersion returns the simulator OS version.
// The catalog is queried once per handle, a device never changes its OS version.
func (s *Simulator) PlatformVersion(ctx context.Context) (PlatformVersion, error) {
	device, err := s.resolve(ctx)
	if err != nil {
		return PlatformVersion{}, err
	}
	return device.version, nil
}

func (s *Simulator) resolve(ctx context.Context) (*resolvedDevice, error) {
	if err := s.checkUsable(); err != nil {
		return nil, err
	}

	if cached := s.device.Load(); cached != nil {
		return cached, nil
	}

	record, err := s.lookupDevice(ctx)
	if err != nil {
		return nil, err
	}

	version, err := ParsePlatformVersion(record.SDKVersion)
	if err != nil {
		return nil, fmt.Errorf("simulator `%s`: %w", s.udid, err)
	}

	dataRoot := record.DataPath
	if dataRoot == "" {
		dataRoot = filepath.Join(s.devicesRoot, s.udid, "data")
	}

	resolved := &resolvedDevice{version: version, dataRoot: dataRoot}
	// A concurrent first call may have won, keep its value
	if !s.device.CompareAndSwap(nil, resolved) {
		return s.device.Load(), nil
	}

	s.log.LogDebug("simulator_state", fmt.Sprintf("Resolved simulator `%s` to iOS %s with %s layout at `%s`", s.udid, version, version.Layout, dataRoot))
	return resolved, nil
}

func (s *Simulator) lookupDevice(ctx context.Context) (models.SimctlDevice, error) {
	simData, err := s.control.ListDevices(ctx)
	if err != nil {
		return models.SimctlDevice{}, err
	}

	for _, device := range simData.Flatten() {
		if device.UDID == s.udid {
			return device, nil
		}
	}
	return models.SimctlDevice{}, fmt.Errorf("%w: `%s`", ErrDeviceNotFound, s.udid)
}
