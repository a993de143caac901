// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline scans an input directory, converts each file to PDF,
// merges the results into one document and removes the intermediate files.
//
// Conversion failures are isolated per file: the file is logged and left
// out of the merge. Merge and cleanup failures end the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/docmerge/internal/convert"
	"github.com/pdiddy/docmerge/internal/pdfops"
	"github.com/pdiddy/docmerge/pkg/types"
)

// MergedFileName is the name of the merged output in the output directory.
const MergedFileName = "merged_all_files.pdf"

// ErrNothingToMerge is returned by Merge when no file produced a PDF.
var ErrNothingToMerge = errors.New("no PDFs to merge")

// Options locates the directories of one run.
type Options struct {
	InputDir  string
	OutputDir string
}

// Pipeline runs scan, convert, merge and cleanup for one directory pair.
type Pipeline struct {
	opts       Options
	converters convert.Set
	log        *zap.Logger
}

// New returns a Pipeline. A nil logger discards all output.
func New(opts Options, converters convert.Set, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{opts: opts, converters: converters, log: log}
}

// MergedPath returns where Merge writes its output.
func (p *Pipeline) MergedPath() string {
	return filepath.Join(p.opts.OutputDir, MergedFileName)
}

// Run executes the whole pipeline. The summary is filled in as far as the
// run got, also when an error is returned.
func (p *Pipeline) Run(ctx context.Context) (types.RunSummary, error) {
	summary := types.RunSummary{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		InputDir:  p.opts.InputDir,
		OutputDir: p.opts.OutputDir,
	}
	finish := func(err error) (types.RunSummary, error) {
		summary.FinishedAt = time.Now().UTC()
		if err != nil {
			summary.Err = err.Error()
		}
		return summary, err
	}

	log := p.log.With(zap.String("run", summary.ID))
	log.Info("starting run", zap.String("input", p.opts.InputDir), zap.String("output", p.opts.OutputDir))

	info, err := os.Stat(p.opts.InputDir)
	if err != nil {
		return finish(fmt.Errorf("input directory: %w", err))
	}
	if !info.IsDir() {
		return finish(fmt.Errorf("input %s is not a directory", p.opts.InputDir))
	}

	work, err := NewWorkdir(p.opts.OutputDir)
	if err != nil {
		return finish(err)
	}

	scan, err := Timed(log, "process files", func() (types.ScanResult, error) {
		return p.Process(ctx, work)
	})
	summary.Files = scan.Files
	if err != nil {
		return finish(err)
	}

	merged, err := Timed(log, "merge pdfs", func() (string, error) {
		return p.Merge(ctx, scan.PDFPaths())
	})
	if err != nil {
		return finish(err)
	}
	summary.MergedPath = merged
	if n, err := pdfops.PageCount(merged); err != nil {
		log.Warn("could not count merged pages", zap.Error(err))
	} else {
		summary.PageCount = n
	}

	if _, err := Timed(log, "cleanup", func() (struct{}, error) {
		return struct{}{}, work.Cleanup()
	}); err != nil {
		return finish(err)
	}
	log.Info("temporary files cleaned up")

	log.Info("all files merged", zap.String("path", merged), zap.Int("pages", summary.PageCount))
	return finish(nil)
}

// Process converts every file of the input directory in scan order. It
// fails only when the directory cannot be listed or ctx is done.
func (p *Pipeline) Process(ctx context.Context, work *Workdir) (types.ScanResult, error) {
	var result types.ScanResult

	sources, err := Plan(p.opts.InputDir)
	if err != nil {
		return result, err
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Files = append(result.Files, p.dispatch(ctx, work, src))
	}

	p.log.Info("files processed",
		zap.Int("total", len(result.Files)),
		zap.Int("converted", result.Count(types.FileConverted)),
		zap.Int("passthrough", result.Count(types.FilePassthrough)),
		zap.Int("skipped", result.Count(types.FileSkipped)),
		zap.Int("failed", result.Count(types.FileFailed)),
	)
	return result, nil
}

func (p *Pipeline) dispatch(ctx context.Context, work *Workdir, src types.SourceFile) types.FileResult {
	res := types.FileResult{Source: src}
	log := p.log.With(zap.String("file", src.Path))

	switch src.Kind {
	case types.KindPDF:
		if samePath(src.Path, p.MergedPath()) {
			log.Warn("skipping merged output of a previous run")
			res.Status = types.FileSkipped
			return res
		}
		log.Info("passing PDF through")
		res.Status = types.FilePassthrough
		res.PDFPath = src.Path
		return res
	case types.KindUnsupported:
		log.Warn("unsupported file type", zap.String("ext", src.Ext))
		res.Status = types.FileSkipped
		return res
	}

	conv, ok := p.converters[src.Kind]
	if !ok {
		log.Warn("no converter configured", zap.String("kind", string(src.Kind)))
		res.Status = types.FileSkipped
		return res
	}

	out := work.Reserve(src.Stem())
	start := time.Now()
	_, err := Timed(log, "convert "+string(src.Kind), func() (struct{}, error) {
		if err := conv.Convert(ctx, src, out); err != nil {
			return struct{}{}, err
		}
		if _, err := os.Stat(out); err != nil {
			return struct{}{}, fmt.Errorf("converter wrote no PDF: %w", err)
		}
		return struct{}{}, nil
	})
	res.Duration = time.Since(start)

	if err != nil {
		os.Remove(out)
		res.Status = types.FileFailed
		res.Err = err.Error()
		return res
	}
	log.Info("converted to PDF", zap.String("pdf", out))
	res.Status = types.FileConverted
	res.PDFPath = out
	return res
}

// Merge appends the pages of every PDF in paths, in order, into
// MergedPath. A PDF that cannot be read aborts the merge.
func (p *Pipeline) Merge(ctx context.Context, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", ErrNothingToMerge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out := p.MergedPath()
	if err := pdfops.Merge(paths, out); err != nil {
		return "", fmt.Errorf("merging %d PDFs into %s: %w", len(paths), out, err)
	}
	p.log.Info("merged PDFs saved", zap.String("path", out), zap.Int("inputs", len(paths)))
	return out, nil
}

// Plan lists the regular files of inputDir in scan order and classifies
// them. Subdirectories are ignored; symlinks count when they resolve to a
// regular file.
func Plan(inputDir string) ([]types.SourceFile, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	var sources []types.SourceFile
	for _, e := range entries {
		path := filepath.Join(inputDir, e.Name())
		if !isRegular(e, path) {
			continue
		}
		sources = append(sources, types.Classify(path))
	}
	return sources, nil
}

func isRegular(e fs.DirEntry, path string) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
