package sim

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyBundlePathsUseAppFolderName(t *testing.T) {
	env := newTestEnv("ABCD", "iOS 7.1")
	safari := env.legacyApp(t, "MobileSafari", "MobileSafari")
	mapsApp := env.legacyApp(t, "3F1A", "com.example.Maps")
	s := env.simulator(t, "ABCD")

	paths, err := s.BundlePaths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"MobileSafari":     safari,
		"com.example.Maps": mapsApp,
	}, paths)
}

func TestLegacyContainerWithoutAppFailsScan(t *testing.T) {
	env := newTestEnv("ABCD", "iOS 7.1")
	env.legacyApp(t, "MobileSafari", "MobileSafari")
	require.NoError(t, env.fs.MkdirAll(filepath.Join(env.dataRoot, "Applications", "Broken", "Documents"), 0755))
	s := env.simulator(t, "ABCD")

	_, err := s.BundlePaths(context.Background())
	assert.ErrorIs(t, err, ErrBundleDiscovery)

	// nothing was cached, the scan runs again once the layout is fixed
	require.NoError(t, env.fs.MkdirAll(filepath.Join(env.dataRoot, "Applications", "Broken", "Broken.app"), 0755))
	paths, err := s.BundlePaths(context.Background())
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestModernBundlePathsUseMetadataIdentifier(t *testing.T) {
	env := newTestEnv("EFGH", "com.apple.CoreSimulator.SimRuntime.iOS-8-3")
	safari := env.modernApp(t, "XYZ-UUID", "com.apple.mobilesafari")
	notes := env.modernApp(t, "ABC-UUID", "com.apple.mobilenotes")
	s := env.simulator(t, "EFGH")

	paths, err := s.BundlePaths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"com.apple.mobilesafari": safari,
		"com.apple.mobilenotes":  notes,
	}, paths)
	assert.Equal(t, "/sims/EFGH/data/Containers/Data/Application/XYZ-UUID", safari)
}

func TestModernMetadataErrors(t *testing.T) {
	tests := []struct {
		name     string
		metadata []byte
	}{
		{"missing", nil},
		{"malformed", []byte("<plist><dict><key>")},
		{"no identifier", []byte(`<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0"><dict><key>MCMMetadataUUID</key><string>XYZ</string></dict></plist>`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv("EFGH", "com.apple.CoreSimulator.SimRuntime.iOS-8-3")
			env.modernApp(t, "GOOD-UUID", "com.apple.mobilesafari")
			dir := filepath.Join(env.dataRoot, "Containers", "Data", "Application", "BAD-UUID")
			require.NoError(t, env.fs.MkdirAll(dir, 0755))
			if tt.metadata != nil {
				require.NoError(t, afero.WriteFile(env.fs, filepath.Join(dir, containerMetadataFile), tt.metadata, 0644))
			}
			s := env.simulator(t, "EFGH")

			_, err := s.BundlePaths(context.Background())
			assert.ErrorIs(t, err, ErrMetadataRead)
		})
	}
}

func TestBundlePathsWithoutApplicationsFolder(t *testing.T) {
	env := newTestEnv("EFGH", "com.apple.CoreSimulator.SimRuntime.iOS-8-3")
	s := env.simulator(t, "EFGH")

	paths, err := s.BundlePaths(context.Background())
	require.NoError(t, err)
	assert.Empty(t, paths)

	// the empty result is not kept, the folder shows up after the first boot
	safari := env.modernApp(t, "XYZ-UUID", "com.apple.mobilesafari")
	paths, err = s.BundlePaths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"com.apple.mobilesafari": safari}, paths)
}

func TestLegacyBundlePathsWithoutApplicationsFolder(t *testing.T) {
	env := newTestEnv("ABCD", "iOS 7.1")
	s := env.simulator(t, "ABCD")

	paths, err := s.BundlePaths(context.Background())
	require.NoError(t, err)
	assert.Empty(t, paths)

	env.legacyApp(t, "MobileSafari", "MobileSafari")
	paths, err = s.BundlePaths(context.Background())
	require.NoError(t, err)
	assert.Contains(t, paths, "MobileSafari")
}

func TestBundlePathsAreCached(t *testing.T) {
	env := newTestEnv("EFGH", "com.apple.CoreSimulator.SimRuntime.iOS-8-3")
	env.modernApp(t, "XYZ-UUID", "com.apple.mobilesafari")
	s := env.simulator(t, "EFGH")

	first, err := s.BundlePaths(context.Background())
	require.NoError(t, err)

	// installs after the first lookup are not picked up by the same handle
	env.modernApp(t, "NEW-UUID", "com.example.new")
	second, err := s.BundlePaths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// callers get a copy, not the cache itself
	second["com.example.injected"] = "/tmp"
	third, err := s.BundlePaths(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, third, "com.example.injected")
}

func TestBundlePathsIgnoreLooseFiles(t *testing.T) {
	env := newTestEnv("EFGH", "com.apple.CoreSimulator.SimRuntime.iOS-8-3")
	env.modernApp(t, "XYZ-UUID", "com.apple.mobilesafari")
	root := filepath.Join(env.dataRoot, "Containers", "Data", "Application")
	require.NoError(t, afero.WriteFile(env.fs, filepath.Join(root, ".DS_Store"), []byte{}, 0644))
	s := env.simulator(t, "EFGH")

	paths, err := s.BundlePaths(context.Background())
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}
