// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfops wraps the pdfcpu operations docmerge needs: merging,
// importing images as pages, and counting pages.
package pdfops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// config returns a fresh pdfcpu configuration. pdfcpu would otherwise
// create a config directory under the user's home on first use.
func config() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	return model.NewDefaultConfiguration()
}

// Merge writes the pages of inFiles, in order, to outPath. An existing
// file at outPath is replaced.
func Merge(inFiles []string, outPath string) error {
	return api.MergeCreateFile(inFiles, outPath, false, config())
}

// ImportImage writes a single-page PDF to outPath whose page matches the
// image dimensions. An existing file at outPath is replaced rather than
// appended to.
func ImportImage(imgPath, outPath string) error {
	if err := os.Remove(outPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing stale %s: %w", outPath, err)
	}
	imp := pdfcpu.DefaultImportConfig()
	if err := api.ImportImagesFile([]string{imgPath}, outPath, imp, config()); err != nil {
		os.Remove(outPath)
		return err
	}
	return nil
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	config()
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("counting pages of %s: %w", path, err)
	}
	return n, nil
}

// Validate reports whether path holds a readable PDF.
func Validate(path string) error {
	if err := api.ValidateFile(path, config()); err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}
	return nil
}

// PageWidths returns the width in points of every page, in page order.
func PageWidths(path string) ([]float64, error) {
	config()
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page dimensions of %s: %w", path, err)
	}
	widths := make([]float64, len(dims))
	for i, d := range dims {
		widths[i] = d.Width
	}
	return widths, nil
}
