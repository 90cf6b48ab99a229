package sim

import (
	"context"
	"fmt"
)

// Artifacts the OS creates together on first boot, on every layout
var bootArtifacts = []string{
	"Library/ConfigurationProfiles",
	"Library/Cookies",
	"Library/Logs",
	"Library/Preferences/.GlobalPreferences.plist",
	"Library/Preferences/com.apple.springboard.plist",
	"var/run/syslogd.pid",
}

var legacyBootArtifacts = []string{
	"Applications",
}

var modernBootArtifacts = []string{
	"Library/DeviceRegistry.state",
	"Library/Preferences/com.apple.Preferences.plist",
}

// FreshnessReport is a heuristic, simctl has no authoritative "was booted" state
type FreshnessReport struct {
	Fresh   bool
	Checked []string
	Missing []string
}

func expectedArtifacts(layout LayoutGeneration) ([]string, error) {
	paths := append([]string{}, bootArtifacts...)
	switch layout {
	case LayoutLegacy:
		paths = append(paths, legacyBootArtifacts...)
	case LayoutModern:
		paths = append(paths, modernBootArtifacts...)
	default:
		return nil, fmt.Errorf("%w: no boot artifacts known for %s layout", ErrUnsupportedPlatform, layout)
	}
	return paths, nil
}

// Freshness reports the simulator as fresh, never booted, when any expected boot artifact is missing
func (s *Simulator) Freshness(ctx context.Context) (FreshnessReport, error) {
	device, err := s.resolve(ctx)
	if err != nil {
		return FreshnessReport{}, err
	}

	paths, err := expectedArtifacts(device.version.Layout)
	if err != nil {
		return FreshnessReport{}, err
	}

	report := FreshnessReport{Checked: paths}
	for _, result := range probePaths(s.fs, device.dataRoot, paths) {
		if !result.Exists {
			report.Missing = append(report.Missing, result.Path)
		}
	}
	report.Fresh = len(report.Missing) > 0

	if report.Fresh {
		s.log.LogDebug("simulator_state", fmt.Sprintf("Simulator `%s` looks fresh, missing %v", s.udid, report.Missing))
	}
	return report, nil
}

func (s *Simulator) IsFresh(ctx context.Context) (bool, error) {
	report, err := s.Freshness(ctx)
	if err != nil {
		return false, err
	}
	return report.Fresh, nil
}
