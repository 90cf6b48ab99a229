package sim

import "errors"

var (
	// ErrDeviceNotFound means the UDID is not in the simctl catalog, it is invalid or was deleted
	ErrDeviceNotFound = errors.New("simulator not found")

	// ErrBundleDiscovery means a legacy application container holds no `.app` bundle
	ErrBundleDiscovery = errors.New("could not discover application bundle")

	// ErrMetadataRead means a container's metadata plist is missing or malformed
	ErrMetadataRead = errors.New("could not read container metadata")

	ErrUnsupportedPlatform = errors.New("unsupported simulator platform version")
	ErrDeviceDeleted       = errors.New("simulator was deleted")
	ErrNoSettingsUpdater   = errors.New("no settings updater configured")
)
