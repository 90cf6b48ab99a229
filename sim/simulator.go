package sim

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shamanec/GADS-simulator/logger"
	"github.com/shamanec/GADS-simulator/models"
	"github.com/spf13/afero"
)

const (
	DefaultWarmUpRetries  = 15
	DefaultWarmUpInterval = 250 * time.Millisecond
)

type Options struct {
	Control  DeviceControl
	Launcher Launcher
	Sweeper  ProcessSweeper
	Metadata MetadataReader
	Settings SettingsUpdater
	Fs       afero.Fs
	Logger   *logger.CustomLogger

	// DevicesRoot is used for the data root when simctl does not report a dataPath
	DevicesRoot    string
	WarmUpRetries  int
	WarmUpInterval time.Duration
}

// resolvedDevice is what a single catalog lookup yields for the handle
type resolvedDevice struct {
	version  PlatformVersion
	dataRoot string
}

// Simulator is the per-device handle.
// The platform version and the bundle path map are resolved at most once and never change afterwards,
// installing or removing apps after the first lookup is not reflected until a new handle is created.
type Simulator struct {
	udid         string
	xcodeVersion string

	control  DeviceControl
	launcher Launcher
	sweeper  ProcessSweeper
	metadata MetadataReader
	settings SettingsUpdater
	fs       afero.Fs
	log      *logger.CustomLogger

	devicesRoot    string
	warmUpRetries  int
	warmUpInterval time.Duration

	device      atomic.Pointer[resolvedDevice]
	bundlePaths atomic.Pointer[map[string]string]
	deleted     atomic.Bool
}

func New(udid, xcodeVersion string, opts Options) (*Simulator, error) {
	if udid == "" {
		return nil, errors.New("simulator udid is required")
	}
	if opts.Control == nil || opts.Launcher == nil || opts.Sweeper == nil {
		return nil, errors.New("device control, launcher and process sweeper are required")
	}

	s := &Simulator{
		udid:           udid,
		xcodeVersion:   xcodeVersion,
		control:        opts.Control,
		launcher:       opts.Launcher,
		sweeper:        opts.Sweeper,
		metadata:       opts.Metadata,
		settings:       opts.Settings,
		fs:             opts.Fs,
		log:            opts.Logger,
		devicesRoot:    opts.DevicesRoot,
		warmUpRetries:  opts.WarmUpRetries,
		warmUpInterval: opts.WarmUpInterval,
	}

	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.metadata == nil {
		s.metadata = NewPlistReader(s.fs)
	}
	if s.log == nil {
		s.log = logger.ProviderLogger
	}
	if s.warmUpRetries <= 0 {
		s.warmUpRetries = DefaultWarmUpRetries
	}
	if s.warmUpInterval <= 0 {
		s.warmUpInterval = DefaultWarmUpInterval
	}

	return s, nil
}

func (s *Simulator) UDID() string {
	return s.udid
}

func (s *Simulator) XcodeVersion() string {
	return s.xcodeVersion
}

func (s *Simulator) checkUsable() error {
	if s.deleted.Load() {
		return fmt.Errorf("%w: `%s`", ErrDeviceDeleted, s.udid)
	}
	return nil
}

// Device returns the current catalog record, it is queried on every call
func (s *Simulator) Device(ctx context.Context) (models.SimctlDevice, error) {
	if err := s.checkUsable(); err != nil {
		return models.SimctlDevice{}, err
	}
	return s.lookupDevice(ctx)
}

// DataRoot is the simulator's data folder, the root of every path the freshness and bundle lookups use
func (s *Simulator) DataRoot(ctx context.Context) (string, error) {
	device, err := s.resolve(ctx)
	if err != nil {
		return "", err
	}
	return device.dataRoot, nil
}

// InstalledApps is BundlePaths on a populated filesystem.
// On a never booted simulator this boots it and shuts it down first, so the OS creates its app folders.
func (s *Simulator) InstalledApps(ctx context.Context) (map[string]string, error) {
	fresh, err := s.IsFresh(ctx)
	if err != nil {
		return nil, err
	}

	if fresh {
		if _, err := s.LaunchAndQuit(ctx); err != nil {
			return nil, err
		}
	}

	return s.BundlePaths(ctx)
}

// AppDataDir returns the private data folder of an installed app, warming the simulator up first when needed
func (s *Simulator) AppDataDir(ctx context.Context, bundleID string) (string, bool, error) {
	paths, err := s.InstalledApps(ctx)
	if err != nil {
		return "", false, err
	}

	path, ok := paths[bundleID]
	return path, ok, nil
}

func (s *Simulator) UpdateSettings(ctx context.Context, name string, values map[string]interface{}) error {
	if s.settings == nil {
		return ErrNoSettingsUpdater
	}

	dataRoot, err := s.DataRoot(ctx)
	if err != nil {
		return err
	}

	s.log.LogDebug("simulator_settings", fmt.Sprintf("Forwarding `%s` settings update for simulator `%s`", name, s.udid))
	return s.settings.UpdateSettings(ctx, s.udid, dataRoot, name, values)
}
