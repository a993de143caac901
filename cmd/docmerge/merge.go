// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/docmerge/internal/config"
	"github.com/pdiddy/docmerge/internal/container"
	"github.com/pdiddy/docmerge/internal/convert"
	"github.com/pdiddy/docmerge/internal/history"
	"github.com/pdiddy/docmerge/internal/pipeline"
	"github.com/pdiddy/docmerge/internal/render"
	"github.com/pdiddy/docmerge/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Convert every file in the input folder and merge the PDFs",
	Long: `Merge scans the input folder in name order, converts each supported
file to PDF in <output>/temp, merges the PDFs into
<output>/merged_all_files.pdf and removes the temp folder.

Unsupported files are skipped with a warning. A file that fails to convert
is logged and left out of the merge. Presentations and word-processing
documents need LibreOffice, either as soffice on PATH (render.backend=local)
or inside a docker/podman image (render.backend=container).`,
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}

	engine := newEngine(cfg.Render, logger)
	converters := convert.NewSet(engine, convert.LayoutFromConfig(cfg.Text))
	p := pipeline.New(pipeline.Options{
		InputDir:  cfg.InputFolder,
		OutputDir: cfg.OutputFolder,
	}, converters, logger)

	summary, runErr := p.Run(cmd.Context())

	if cfg.HistoryDB != "" {
		if err := recordRun(cmd.Context(), cfg.HistoryDB, summary); err != nil {
			logger.Warn("recording run history", zap.String("db", cfg.HistoryDB), zap.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	printSummary(cmd.OutOrStdout(), summary)
	return nil
}

// newEngine builds the office rendering engine for rc. When none can be
// built, the returned engine fails every export so presentations and
// documents fail individually while other files still merge.
func newEngine(rc types.RenderConfig, log *zap.Logger) render.Engine {
	var (
		engine render.Engine
		err    error
	)
	switch rc.Backend {
	case types.BackendContainer:
		var rt container.Runtime
		rt, err = container.DetectRuntime()
		if err == nil {
			engine, err = render.NewContainer(rt, rc.Image, rc.Timeout)
		}
	default:
		engine, err = render.NewLocal(rc.Binary, rc.Timeout)
	}
	if err != nil {
		log.Warn("office rendering unavailable, presentations and documents will fail",
			zap.String("backend", string(rc.Backend)), zap.Error(err))
		return render.Unavailable(err)
	}
	log.Debug("office rendering engine ready", zap.String("engine", engine.Name()))
	return engine
}

func recordRun(ctx context.Context, path string, summary types.RunSummary) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	// The run context may already be cancelled; the record is still wanted.
	return store.Record(context.WithoutCancel(ctx), summary)
}

func printSummary(w io.Writer, s types.RunSummary) {
	scan := types.ScanResult{Files: s.Files}
	fmt.Fprintf(w, "Merged %d file(s), %d page(s) into %s\n",
		len(scan.PDFPaths()), s.PageCount, s.MergedPath)
	if n := scan.Count(types.FileSkipped); n > 0 {
		fmt.Fprintf(w, "Skipped %d unsupported file(s)\n", n)
	}
	for _, f := range s.Files {
		if f.Status == types.FileFailed {
			fmt.Fprintf(w, "Failed: %s: %s\n", f.Source.Name, f.Err)
		}
	}
	fmt.Fprintf(w, "Run %s\n", s.ID)
}
