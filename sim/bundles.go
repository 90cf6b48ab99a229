package sim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const (
	containerMetadataFile = ".com.apple.mobile_container_manager.metadata.plist"
	appBundleSuffix       = ".app"
)

type containerMetadata struct {
	Identifier string `plist:"MCMMetadataIdentifier"`
}

// bundleIDResolver reads the bundle identifier of the app owning a container folder
type bundleIDResolver func(containerDir string) (string, error)

// BundlePaths maps bundle identifiers to app data folders.
// The map is built once per handle, a failure on any single container fails the whole scan and nothing is cached.
// A missing application folder gives an empty map that is not cached either, the OS creates it on first boot.
func (s *Simulator) BundlePaths(ctx context.Context) (map[string]string, error) {
	device, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}

	if cached := s.bundlePaths.Load(); cached != nil {
		return maps.Clone(*cached), nil
	}

	paths, rootExists, err := s.scanBundles(ctx, device)
	if err != nil {
		return nil, err
	}
	if !rootExists {
		return paths, nil
	}

	if !s.bundlePaths.CompareAndSwap(nil, &paths) {
		paths = *s.bundlePaths.Load()
	}
	return maps.Clone(paths), nil
}

func (s *Simulator) scanBundles(ctx context.Context, device *resolvedDevice) (map[string]string, bool, error) {
	var root string
	var resolveID bundleIDResolver

	switch device.version.Layout {
	case LayoutLegacy:
		root = filepath.Join(device.dataRoot, "Applications")
		resolveID = s.legacyBundleID
	case LayoutModern:
		root = filepath.Join(device.dataRoot, "Containers", "Data", "Application")
		resolveID = s.modernBundleID
	default:
		return nil, false, fmt.Errorf("%w: no bundle layout known for iOS %s", ErrUnsupportedPlatform, device.version)
	}

	entries, err := afero.ReadDir(s.fs, root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.LogDebug("bundle_paths", fmt.Sprintf("No application folder at `%s` for simulator `%s`", root, s.udid))
			return map[string]string{}, false, nil
		}
		return nil, false, fmt.Errorf("could not list applications of simulator `%s` - %w", s.udid, err)
	}

	var containers []string
	for _, entry := range entries {
		if entry.IsDir() {
			containers = append(containers, filepath.Join(root, entry.Name()))
		}
	}

	bundleIDs := make([]string, len(containers))
	g, gctx := errgroup.WithContext(ctx)
	for i, container := range containers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			id, err := resolveID(container)
			if err != nil {
				return err
			}
			bundleIDs[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, true, err
	}

	paths := make(map[string]string, len(containers))
	for i, container := range containers {
		paths[bundleIDs[i]] = container
	}

	s.log.LogInfo("bundle_paths", fmt.Sprintf("Found %d applications on simulator `%s`", len(paths), s.udid))
	return paths, true, nil
}

// legacyBundleID takes the identifier from the name of the `.app` bundle inside the container
func (s *Simulator) legacyBundleID(containerDir string) (string, error) {
	matches, err := afero.Glob(s.fs, filepath.Join(containerDir, "*"+appBundleSuffix))
	if err != nil {
		return "", fmt.Errorf("%w: `%s` - %v", ErrBundleDiscovery, containerDir, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no %s bundle in `%s`", ErrBundleDiscovery, appBundleSuffix, containerDir)
	}

	return strings.TrimSuffix(filepath.Base(matches[0]), appBundleSuffix), nil
}

// modernBundleID reads the identifier from the container manager metadata plist
func (s *Simulator) modernBundleID(containerDir string) (string, error) {
	metadataPath := filepath.Join(containerDir, containerMetadataFile)

	var metadata containerMetadata
	if err := s.metadata.ReadPlist(metadataPath, &metadata); err != nil {
		return "", fmt.Errorf("%w: `%s` - %v", ErrMetadataRead, metadataPath, err)
	}
	if metadata.Identifier == "" {
		return "", fmt.Errorf("%w: `%s` has no MCMMetadataIdentifier", ErrMetadataRead, metadataPath)
	}

	return metadata.Identifier, nil
}
