// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docmerge/internal/pipeline"
	"github.com/pdiddy/docmerge/pkg/types"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what merge would do with each input file",
	Long: `Plan lists the input folder in merge order with the kind detected for
each file and the action merge would take (convert, passthrough or skip).
Nothing is converted and the output folder is not touched.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().String("format", "table", "output format: table or yaml")
	rootCmd.AddCommand(planCmd)
}

// planEntry is one row of the dispatch plan.
type planEntry struct {
	File   string     `yaml:"file"`
	Kind   types.Kind `yaml:"kind"`
	Action string     `yaml:"action"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	if cfg.InputFolder == "" {
		return fmt.Errorf("INPUT_FOLDER must be set")
	}
	files, err := pipeline.Plan(cfg.InputFolder)
	if err != nil {
		return err
	}

	entries := make([]planEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, planEntry{File: f.Name, Kind: f.Kind, Action: planAction(f.Kind)})
	}

	format, _ := cmd.Flags().GetString("format")
	return writePlan(cmd.OutOrStdout(), entries, format)
}

func planAction(k types.Kind) string {
	switch k {
	case types.KindPDF:
		return "passthrough"
	case types.KindUnsupported:
		return "skip"
	default:
		return "convert"
	}
}

func writePlan(w io.Writer, entries []planEntry, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case "table":
	default:
		return fmt.Errorf("unknown format %q (want table or yaml)", format)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No files found.")
		return nil
	}
	fmt.Fprintf(w, "%-4s  %-40s  %-12s  %s\n", "#", "File", "Kind", "Action")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for i, e := range entries {
		name := e.File
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-40s  %-12s  %s\n", i+1, name, e.Kind, e.Action)
	}
	return nil
}
