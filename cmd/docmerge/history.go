// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docmerge/internal/history"
	"github.com/pdiddy/docmerge/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded merge runs",
	Long: `History reads the run-history database named by history_db and lists
recent runs, newest first. Use --run to show a single run with its files.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().String("run", "", "show the run with this ID")
	historyCmd.Flags().String("format", "table", "output format: table, yaml or json")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if cfg.HistoryDB == "" {
		return fmt.Errorf("history_db is not configured")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetString("run")
	format, _ := cmd.Flags().GetString("format")

	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	var runs []types.RunSummary
	if runID != "" {
		run, err := store.Get(cmd.Context(), runID)
		if err != nil {
			return err
		}
		runs = []types.RunSummary{run}
	} else {
		runs, err = store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	switch format {
	case "yaml":
		return history.WriteYAML(w, runs)
	case "json":
		return history.WriteJSON(w, runs)
	case "table":
		if runID != "" {
			writeRunFiles(w, runs[0])
			return nil
		}
		writeRunTable(w, runs)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, yaml or json)", format)
	}
}

func writeRunTable(w io.Writer, runs []types.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-20s  %-5s  %-5s  %s\n", "Run", "Started", "Files", "Pages", "Result")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range runs {
		result := "ok"
		if !r.Succeeded() {
			result = "failed: " + r.Err
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-5d  %-5d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), len(r.Files), r.PageCount, result)
	}
}

func writeRunFiles(w io.Writer, r types.RunSummary) {
	fmt.Fprintf(w, "Run %s  %s -> %s\n", r.ID, r.InputDir, r.OutputDir)
	if r.Err != "" {
		fmt.Fprintf(w, "Error: %s\n", r.Err)
	}
	fmt.Fprintf(w, "%-40s  %-12s  %-12s  %s\n", "File", "Kind", "Status", "Duration")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, f := range r.Files {
		fmt.Fprintf(w, "%-40s  %-12s  %-12s  %s\n",
			f.Source.Name, f.Source.Kind, f.Status, f.Duration.Round(time.Millisecond))
	}
}
