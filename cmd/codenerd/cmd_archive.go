package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"codenerd/cmd/codenerd/ui"
	"codenerd/internal/evalsink"
)

var archiveStatsModuleID string

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect recorded eval history",
}

var archiveStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recent eval records and success rate for a module",
	RunE:  runArchiveStats,
}

var archiveInspectModuleID string

var archiveInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Interactively browse a module's eval history",
	RunE:  runArchiveInspect,
}

func init() {
	archiveStatsCmd.Flags().StringVar(&archiveStatsModuleID, "module", "", "Module ID to inspect (required)")
	archiveStatsCmd.MarkFlagRequired("module")

	archiveInspectCmd.Flags().StringVar(&archiveInspectModuleID, "module", "", "Module ID to inspect (required)")
	archiveInspectCmd.MarkFlagRequired("module")

	archiveCmd.AddCommand(archiveStatsCmd, archiveInspectCmd)
}

func runArchiveInspect(cmd *cobra.Command, args []string) error {
	ws := workspace
	if ws == "" {
		ws = "."
	}
	sink, err := evalsink.Open(filepath.Join(ws, ".codenerd", "eval.db"))
	if err != nil {
		return fmt.Errorf("failed to open eval sink: %w", err)
	}
	defer sink.Close()

	model := ui.NewInspectorModel(sink, archiveInspectModuleID)
	p := tea.NewProgram(model)
	_, err = p.Run()
	return err
}

func runArchiveStats(cmd *cobra.Command, args []string) error {
	ws := workspace
	if ws == "" {
		ws = "."
	}
	sink, err := evalsink.Open(filepath.Join(ws, ".codenerd", "eval.db"))
	if err != nil {
		return fmt.Errorf("failed to open eval sink: %w", err)
	}
	defer sink.Close()

	ctx := context.Background()
	rate, err := sink.SuccessRate(ctx, archiveStatsModuleID, 10)
	if err != nil {
		return fmt.Errorf("failed to compute success rate: %w", err)
	}
	records, err := sink.ForModule(ctx, archiveStatsModuleID, 10)
	if err != nil {
		return fmt.Errorf("failed to fetch records: %w", err)
	}

	fmt.Printf("module: %s\n", archiveStatsModuleID)
	fmt.Printf("success rate (last %d): %.1f%%\n", len(records), rate*100)
	for _, r := range records {
		fmt.Printf("  ok=%-5v score=%.3f elapsed_ms=%d\n", r.OK, r.Score, r.ElapsedMs)
	}
	return nil
}
