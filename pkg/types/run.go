// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FileStatus records what happened to a single source file during a run.
type FileStatus string

const (
	FileConverted   FileStatus = "converted"
	FilePassthrough FileStatus = "passthrough"
	FileSkipped     FileStatus = "skipped"
	FileFailed      FileStatus = "failed"
)

// FileResult is the outcome of dispatching one source file.
type FileResult struct {
	Source SourceFile `json:"source" yaml:"source"`
	Status FileStatus `json:"status" yaml:"status"`

	// PDFPath is set for converted and passthrough files. For converted
	// files it points into the temp directory.
	PDFPath string `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`

	Duration time.Duration `json:"duration" yaml:"duration"`

	// Err holds the conversion error message for failed files.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Merged reports whether the file contributes pages to the merged output.
func (r FileResult) Merged() bool {
	return r.Status == FileConverted || r.Status == FilePassthrough
}

// ScanResult holds per-file results in scan order.
type ScanResult struct {
	Files []FileResult `json:"files" yaml:"files"`
}

// PDFPaths returns the PDFs to merge, in scan order.
func (r ScanResult) PDFPaths() []string {
	var paths []string
	for _, f := range r.Files {
		if f.Merged() {
			paths = append(paths, f.PDFPath)
		}
	}
	return paths
}

// Count returns the number of files with the given status.
func (r ScanResult) Count(status FileStatus) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// RunSummary describes one pipeline invocation.
type RunSummary struct {
	ID         string    `json:"id" yaml:"id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	InputDir   string    `json:"input_dir" yaml:"input_dir"`
	OutputDir  string    `json:"output_dir" yaml:"output_dir"`

	// MergedPath is empty when the merge stage did not complete.
	MergedPath string `json:"merged_path,omitempty" yaml:"merged_path,omitempty"`
	PageCount  int    `json:"page_count" yaml:"page_count"`

	Files []FileResult `json:"files,omitempty" yaml:"files,omitempty"`

	// Err is the error that terminated the run, if any.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Succeeded reports whether the run produced a merged file.
func (s RunSummary) Succeeded() bool {
	return s.Err == "" && s.MergedPath != ""
}
