package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/output"
	"github.com/existflow/qazzerep/internal/report"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:     "compare FILE FILE [FILE...]",
	Aliases: []string{"check"},
	Short:   "Compare two or more documents",
	Long: `Upload documents for pairwise similarity analysis.

Examples:
  qazzerep compare thesis.pdf draft.docx
  qazzerep compare *.pdf --json`,
	RunE: runCompare,
}

var compareJSON bool

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "Print the raw comparisons as JSON")
}

func runCompare(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return report.ErrTooFewFiles
	}

	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	if !compareJSON {
		out.Info("Uploading %d files...", len(args))
	}
	results, err := a.comparer().CompareFiles(cmd.Context(), args)
	if err != nil {
		if errors.Is(err, api.ErrNetwork) {
			return fmt.Errorf("%s: %w", a.tr.T("errors.network"), err)
		}
		return fmt.Errorf("analysis failed: %s", api.Message(err))
	}

	if compareJSON {
		enc := json.NewEncoder(out.Out())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	out.Success("%d pairs analyzed", len(results))
	return printComparisons(results)
}

// printComparisons renders comparisons as a table. Originality below the
// risk threshold and AI scores above it are flagged.
func printComparisons(results []model.Comparison) error {
	table := output.NewTable(out.Out(), []string{"Pair", "Originality", "Similarity", "AI A", "AI B", "Report"})
	for _, c := range results {
		table.AddRow(
			c.Pair,
			out.Risk(report.FormatPercent(c.Originality), c.HighRisk()),
			report.FormatPercent(c.Similarity),
			out.Risk(report.FormatPercent(c.DocA.AI.Score), c.DocA.AIHighRisk()),
			out.Risk(report.FormatPercent(c.DocB.AI.Score), c.DocB.AIHighRisk()),
			report.ShortID(c.ReportID, 8),
		)
	}
	return table.Render()
}
