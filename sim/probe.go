package sim

import (
	"path/filepath"

	"github.com/spf13/afero"
)

type ProbeResult struct {
	Path   string
	Exists bool
}

// probePaths checks every relative path under root on its own.
// Any stat error counts as absent, an unreadable artifact tells the same as a missing one.
func probePaths(fs afero.Fs, root string, relPaths []string) []ProbeResult {
	results := make([]ProbeResult, 0, len(relPaths))
	for _, rel := range relPaths {
		_, err := fs.Stat(filepath.Join(root, rel))
		results = append(results, ProbeResult{Path: rel, Exists: err == nil})
	}
	return results
}
