package sim

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shamanec/GADS-simulator/logger"
	"github.com/shamanec/GADS-simulator/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

type fakeControl struct {
	mu        sync.Mutex
	catalog   models.SimctlDevices
	listCalls atomic.Int32
	calls     []string
	err       error
}

func newFakeControl(runtime string, devices ...models.SimctlDevice) *fakeControl {
	return &fakeControl{
		catalog: models.SimctlDevices{SimctlDevice: map[string][]models.SimctlDevice{runtime: devices}},
	}
}

func (f *fakeControl) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeControl) ListDevices(context.Context) (models.SimctlDevices, error) {
	f.listCalls.Add(1)
	return f.catalog, nil
}

func (f *fakeControl) Erase(_ context.Context, udid string) error {
	f.record("erase " + udid)
	return f.err
}

func (f *fakeControl) Shutdown(_ context.Context, udid string) error {
	f.record("shutdown " + udid)
	return f.err
}

func (f *fakeControl) Delete(_ context.Context, udid string) error {
	f.record("delete " + udid)
	return f.err
}

func (f *fakeControl) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeLauncher struct {
	launches int
	err      error
	onLaunch func()
}

func (f *fakeLauncher) QuickLaunch(context.Context, string) error {
	f.launches++
	if f.onLaunch != nil {
		f.onLaunch()
	}
	return f.err
}

type fakeSweeper struct {
	sweeps int
	err    error
}

func (f *fakeSweeper) KillAllSimulators(context.Context) error {
	f.sweeps++
	return f.err
}

type fakeSettings struct {
	udid     string
	dataRoot string
	name     string
	values   map[string]interface{}
}

func (f *fakeSettings) UpdateSettings(_ context.Context, udid, dataRoot, name string, values map[string]interface{}) error {
	f.udid, f.dataRoot, f.name, f.values = udid, dataRoot, name, values
	return nil
}

// lateFs reports path as missing for the first misses Stat calls
type lateFs struct {
	afero.Fs
	path   string
	misses int
	stats  int
}

func (l *lateFs) Stat(name string) (os.FileInfo, error) {
	if name == l.path {
		l.stats++
		if l.stats <= l.misses {
			return nil, os.ErrNotExist
		}
	}
	return l.Fs.Stat(name)
}

type testEnv struct {
	fs       afero.Fs
	control  *fakeControl
	launcher *fakeLauncher
	sweeper  *fakeSweeper
	settings *fakeSettings
	dataRoot string
}

func dataRootFor(udid string) string {
	return filepath.Join("/sims", udid, "data")
}

func newTestEnv(udid, runtime string) *testEnv {
	return &testEnv{
		fs: afero.NewMemMapFs(),
		control: newFakeControl(runtime, models.SimctlDevice{
			UDID:        udid,
			Name:        "iPhone",
			State:       "Shutdown",
			IsAvailable: true,
			DataPath:    dataRootFor(udid),
		}),
		launcher: &fakeLauncher{},
		sweeper:  &fakeSweeper{},
		settings: &fakeSettings{},
		dataRoot: dataRootFor(udid),
	}
}

func (e *testEnv) simulator(t *testing.T, udid string) *Simulator {
	t.Helper()
	s, err := New(udid, "6.3", Options{
		Control:        e.control,
		Launcher:       e.launcher,
		Sweeper:        e.sweeper,
		Settings:       e.settings,
		Fs:             e.fs,
		Logger:         logger.Discard(),
		DevicesRoot:    "/sims",
		WarmUpInterval: time.Millisecond,
	})
	require.NoError(t, err)
	return s
}

func (e *testEnv) populate(t *testing.T, layout LayoutGeneration) {
	t.Helper()
	paths, err := expectedArtifacts(layout)
	require.NoError(t, err)
	for _, rel := range paths {
		full := filepath.Join(e.dataRoot, rel)
		if filepath.Ext(full) == "" {
			require.NoError(t, e.fs.MkdirAll(full, 0755))
			continue
		}
		require.NoError(t, e.fs.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, afero.WriteFile(e.fs, full, []byte{}, 0644))
	}
}

func (e *testEnv) legacyApp(t *testing.T, container, bundle string) string {
	t.Helper()
	dir := filepath.Join(e.dataRoot, "Applications", container)
	require.NoError(t, e.fs.MkdirAll(filepath.Join(dir, bundle+".app"), 0755))
	return dir
}

func (e *testEnv) modernApp(t *testing.T, container, bundleID string) string {
	t.Helper()
	dir := filepath.Join(e.dataRoot, "Containers", "Data", "Application", container)
	require.NoError(t, e.fs.MkdirAll(dir, 0755))

	data, err := plist.Marshal(map[string]interface{}{
		"MCMMetadataIdentifier": bundleID,
		"MCMMetadataUUID":       container,
	}, plist.XMLFormat)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(e.fs, filepath.Join(dir, containerMetadataFile), data, 0644))
	return dir
}
