package sim

import (
	"fmt"

	"github.com/Masterminds/semver"
)

// LayoutGeneration is the on-disk application data convention of an OS version
type LayoutGeneration int

const (
	LayoutUnknown LayoutGeneration = iota
	// LayoutLegacy keeps app containers under `Applications`, named after the `.app` bundle inside
	LayoutLegacy
	// LayoutModern keeps app data under `Containers/Data/Application` in UUID named folders
	LayoutModern
)

func (l LayoutGeneration) String() string {
	switch l {
	case LayoutLegacy:
		return "legacy"
	case LayoutModern:
		return "modern"
	default:
		return "unknown"
	}
}

type PlatformVersion struct {
	Raw    string
	Major  int64
	Minor  int64
	Layout LayoutGeneration
}

func (v PlatformVersion) String() string {
	return v.Raw
}

// ParsePlatformVersion maps an SDK version to its layout generation.
// 7.1 is the only supported legacy version, everything from 8 on is modern.
// Other versions are rejected instead of guessing a layout.
func ParsePlatformVersion(raw string) (PlatformVersion, error) {
	parsed, err := semver.NewVersion(raw)
	if err != nil {
		return PlatformVersion{}, fmt.Errorf("%w: could not parse `%s` - %v", ErrUnsupportedPlatform, raw, err)
	}

	version := PlatformVersion{
		Raw:   raw,
		Major: parsed.Major(),
		Minor: parsed.Minor(),
	}

	switch {
	case version.Major == 7 && version.Minor == 1:
		version.Layout = LayoutLegacy
	case version.Major >= 8:
		version.Layout = LayoutModern
	default:
		return PlatformVersion{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, raw)
	}

	return version, nil
}
