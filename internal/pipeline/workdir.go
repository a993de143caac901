// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempDirName is the intermediate-artifact directory under the output dir.
const TempDirName = "temp"

// Workdir owns the temp directory for one run. Nothing else may write to
// it while the run is in progress.
type Workdir struct {
	dir  string
	used map[string]bool
}

// NewWorkdir creates outputDir (with parents) and its temp subdirectory.
func NewWorkdir(outputDir string) (*Workdir, error) {
	dir := filepath.Join(outputDir, TempDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating work directory %s: %w", dir, err)
	}
	return &Workdir{dir: dir, used: make(map[string]bool)}, nil
}

// Dir returns the temp directory path.
func (w *Workdir) Dir() string { return w.dir }

// Reserve returns the output path for a converted file named stem. A
// second reservation of the same stem in one run (a.png and a.jpg) gets a
// numeric suffix so neither overwrites the other.
func (w *Workdir) Reserve(stem string) string {
	name := stem + ".pdf"
	for n := 2; w.used[name]; n++ {
		name = fmt.Sprintf("%s-%d.pdf", stem, n)
	}
	w.used[name] = true
	return filepath.Join(w.dir, name)
}

// Cleanup removes every entry in the temp directory and then the directory
// itself.
func (w *Workdir) Cleanup() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("listing work directory: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(w.dir, e.Name())); err != nil {
			return fmt.Errorf("removing %s: %w", e.Name(), err)
		}
	}
	if err := os.Remove(w.dir); err != nil {
		return fmt.Errorf("removing work directory: %w", err)
	}
	return nil
}
