// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render drives the office rendering engine (LibreOffice soffice)
// that exports presentations and word-processor documents to PDF. The
// engine runs either as a local binary or inside a docker/podman container.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Filter names the soffice PDF export filter for a document family.
type Filter string

const (
	FilterImpress Filter = "impress_pdf_Export"
	FilterWriter  Filter = "writer_pdf_Export"
)

var (
	// ErrEngineUnavailable is returned when the rendering engine cannot be
	// located or started.
	ErrEngineUnavailable = errors.New("rendering engine unavailable")

	// ErrNoOutput is returned when the engine exits cleanly but writes no PDF.
	ErrNoOutput = errors.New("rendering engine produced no output")
)

// Engine opens export sessions against the rendering engine.
type Engine interface {
	// Name describes the engine for logs (e.g. "soffice", "docker:libreoffice:latest").
	Name() string

	// Open acquires a session. Callers must Close it on every path.
	Open(ctx context.Context) (Session, error)
}

// Session is an acquired engine handle.
type Session interface {
	// Export renders src to a PDF at outPath using filter.
	Export(ctx context.Context, src, outPath string, filter Filter) error

	// Close releases everything the session acquired.
	Close() error
}

// Unavailable returns an Engine whose sessions always fail with err. It
// lets a run continue with the formats that do not need the engine.
func Unavailable(err error) Engine {
	return unavailable{err: err}
}

type unavailable struct{ err error }

func (u unavailable) Name() string { return "unavailable" }

func (u unavailable) Open(context.Context) (Session, error) {
	if errors.Is(u.err, ErrEngineUnavailable) {
		return nil, u.err
	}
	return nil, fmt.Errorf("%w: %w", ErrEngineUnavailable, u.err)
}

// sofficeArgs builds the headless conversion command line. profileURL is a
// file:// URL of the user profile the instance may write to.
func sofficeArgs(profileURL string, filter Filter, outDir, src string) []string {
	return []string{
		"-env:UserInstallation=" + profileURL,
		"--headless",
		"--norestore",
		"--nolockcheck",
		"--convert-to", "pdf:" + string(filter),
		"--outdir", outDir,
		src,
	}
}

func fileURL(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

// export runs one conversion into a scratch directory next to outPath and
// moves the result into place. run receives the scratch directory.
func export(ctx context.Context, timeout time.Duration, src, outPath string, run func(ctx context.Context, scratch string, stderr *bytes.Buffer) error) error {
	scratch, err := os.MkdirTemp(filepath.Dir(outPath), ".render-*")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	if err := run(ctx, scratch, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("exporting %s: %w: %s", filepath.Base(src), err, msg)
		}
		return fmt.Errorf("exporting %s: %w", filepath.Base(src), err)
	}

	base := filepath.Base(src)
	produced := filepath.Join(scratch, strings.TrimSuffix(base, filepath.Ext(base))+".pdf")
	if _, err := os.Stat(produced); err != nil {
		return fmt.Errorf("%w for %s", ErrNoOutput, base)
	}
	if err := os.Rename(produced, outPath); err != nil {
		return fmt.Errorf("moving %s into place: %w", base, err)
	}
	return nil
}
