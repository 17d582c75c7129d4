package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/history"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/output"
	"github.com/existflow/qazzerep/internal/report"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"hist"},
	Short:   "Browse and manage scan history",
	RunE:    runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List past scans, newest first",
	RunE:    runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole scan history",
	RunE:  runHistoryClear,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize originality across the history",
	RunE:  runHistoryStats,
}

var historyExportCmd = &cobra.Command{
	Use:   "export FILE.xlsx",
	Short: "Export the history to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryExport,
}

var (
	historyForce   bool
	historyVerbose bool
)

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyExportCmd)

	historyListCmd.Flags().BoolVarP(&historyVerbose, "verbose", "v", false, "Show every pair of each scan")
	historyClearCmd.Flags().BoolVarP(&historyForce, "force", "f", false, "Skip confirmation")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	sessions, err := history.Load(cmd.Context(), a.client)
	if err != nil {
		return fmt.Errorf("failed to load history: %s", api.Message(err))
	}
	if len(sessions) == 0 {
		out.Print("%s", a.tr.T("history.empty"))
		return nil
	}

	if !historyVerbose {
		table := output.NewTable(out.Out(), []string{"Date", "Pairs", "Lowest originality", "Session"})
		for _, s := range sessions {
			lowest, ok := lowestOriginality(s.Comparisons)
			cell := "-"
			if ok {
				cell = out.Risk(report.FormatPercent(lowest.Originality), lowest.HighRisk())
			}
			table.AddRow(s.Timestamp.String(), strconv.Itoa(s.TotalPairs), cell, report.ShortID(s.ID, 8))
		}
		return table.Render()
	}

	for _, s := range sessions {
		out.Header(fmt.Sprintf("%s  (%d %s)", s.Timestamp.String(), s.TotalPairs, a.tr.T("history.pairs")))
		if err := printComparisons(s.Comparisons); err != nil {
			return err
		}
		out.Print("")
	}
	return nil
}

// lowestOriginality returns the riskiest pair of a scan
func lowestOriginality(comps []model.Comparison) (model.Comparison, bool) {
	if len(comps) == 0 {
		return model.Comparison{}, false
	}
	lowest := comps[0]
	for _, c := range comps[1:] {
		if c.Originality < lowest.Originality {
			lowest = c
		}
	}
	return lowest, true
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	sessions, err := history.Load(cmd.Context(), a.client)
	if err != nil {
		return fmt.Errorf("failed to load history: %s", api.Message(err))
	}
	if !history.CanClear(sessions) {
		out.Print("%s", a.tr.T("history.empty"))
		return nil
	}

	cleared, err := history.Clear(cmd.Context(), a.client, sessions, confirmer(historyForce), a.tr.T("history.confirm_clear"))
	if errors.Is(err, history.ErrCancelled) {
		out.Print("Cancelled.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to clear history: %s", api.Message(err))
	}
	if cleared {
		out.Success("%s", a.tr.T("history.cleared"))
	}
	return nil
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	sessions, err := history.Load(cmd.Context(), a.client)
	if err != nil {
		return fmt.Errorf("failed to load history: %s", api.Message(err))
	}
	s := history.Summarize(sessions)

	out.Header(a.tr.T("dash.title_history"))
	out.Print("Scans:          %d", s.Sessions)
	out.Print("Pairs:          %d", s.Pairs)
	if s.Pairs == 0 {
		return nil
	}
	out.Print("Mean:           %s", report.FormatPercent(s.Mean))
	out.Print("Median:         %s", report.FormatPercent(s.Median))
	out.Print("Range:          %s - %s", report.FormatPercent(s.Min), report.FormatPercent(s.Max))
	out.Print("Low originality: %s", out.Risk(strconv.Itoa(s.HighRisk), s.HighRisk > 0))
	out.Print("AI flagged:     %s", out.Risk(strconv.Itoa(s.AIFlagged), s.AIFlagged > 0))
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	sessions, err := history.Load(cmd.Context(), a.client)
	if err != nil {
		return fmt.Errorf("failed to load history: %s", api.Message(err))
	}
	n, err := history.ExportXLSX(args[0], sessions)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	out.Success("Exported %d rows to %s", n, args[0])
	return nil
}
