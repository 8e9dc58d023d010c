// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/alltopdf/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past runs recorded in the output directory",
	Long: `History reads the run ledger kept in <output>/.alltopdf/history.db and
prints one row per run, newest first. Use --folders to include the result of
every top-level folder.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(history.Path(cfg.OutputDir)); err != nil {
		fmt.Println("No runs recorded.")
		return nil
	}

	store, err := history.Open(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	showFolders, _ := cmd.Flags().GetBool("folders")
	formatHistory(os.Stdout, runs, showFolders)
	return nil
}

func formatHistory(w io.Writer, runs []history.Run, showFolders bool) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-20s  %-10s  %7s  %6s  %7s  %s\n",
		"Started", "Duration", "Folders", "Items", "Errors", "Input")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, r := range runs {
		fmt.Fprintf(w, "%-20s  %-10s  %7d  %6d  %7d  %s\n",
			r.Started.Local().Format("2006-01-02 15:04:05"),
			r.Finished.Sub(r.Started).Round(time.Millisecond).String(),
			len(r.Folders), r.Visited, r.Errors, r.InputDir)
		if !showFolders {
			continue
		}
		for _, f := range r.Folders {
			if f.Error != "" {
				fmt.Fprintf(w, "    %-30s  %s\n", f.Name, f.Error)
			} else {
				fmt.Fprintf(w, "    %-30s  %d page(s)\n", f.Name, f.Pages)
			}
		}
	}
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show (0 = all)")
	historyCmd.Flags().Bool("folders", false, "show per-folder results")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}
