package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/history"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/report"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Work with individual reports",
}

var reportLinkCmd = &cobra.Command{
	Use:   "link REPORT_ID",
	Short: "Print the public verification link",
	Long: `Print the public verification link for a report, optionally copying it
to the clipboard or rendering it as a QR code.

Examples:
  qazzerep report link 65f0aa11c0ffee01 --copy
  qazzerep report link 65f0aa11c0ffee01 --qr
  qazzerep report link 65f0aa11c0ffee01 --png qr.png`,
	Args: cobra.ExactArgs(1),
	RunE: runReportLink,
}

var reportShowCmd = &cobra.Command{
	Use:   "show REPORT_ID",
	Short: "Show a report from your history with document text",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportShow,
}

var reportRecalcCmd = &cobra.Command{
	Use:   "recalc REPORT_ID",
	Short: "Recalculate a report from edited texts",
	Long: `Recalculate a report after editing its document texts. Without
--text-a/--text-b the texts extracted from the original report are used.

Examples:
  qazzerep report recalc 65f0aa11c0ffee01 --text-a a.txt --text-b b.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runReportRecalc,
}

var (
	linkCopy bool
	linkQR   bool
	linkPNG  string
	textA    string
	textB    string
)

func init() {
	reportCmd.AddCommand(reportLinkCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportRecalcCmd)

	reportLinkCmd.Flags().BoolVarP(&linkCopy, "copy", "c", false, "Copy the link to the clipboard")
	reportLinkCmd.Flags().BoolVar(&linkQR, "qr", false, "Print the link as a terminal QR code")
	reportLinkCmd.Flags().StringVar(&linkPNG, "png", "", "Write the QR code to a PNG file")

	reportRecalcCmd.Flags().StringVar(&textA, "text-a", "", "File with the edited text of document A")
	reportRecalcCmd.Flags().StringVar(&textB, "text-b", "", "File with the edited text of document B")
}

func runReportLink(cmd *cobra.Command, args []string) error {
	link := report.VerifyURL(cfg.PublicURL, args[0])
	out.Print("%s", link)

	if linkCopy {
		if err := (report.SystemClipboard{}).WriteAll(link); err != nil {
			return fmt.Errorf("failed to copy: %w", err)
		}
		out.Success("Copied")
	}
	if linkQR {
		qr, err := report.QRText(link)
		if err != nil {
			return err
		}
		fmt.Fprint(out.Out(), qr)
	}
	if linkPNG != "" {
		png, err := report.QRPNG(link, 256)
		if err != nil {
			return err
		}
		if err := os.WriteFile(linkPNG, png, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", linkPNG, err)
		}
		out.Success("QR code written to %s", linkPNG)
	}
	return nil
}

// findReport looks a report id up in the caller's history
func findReport(cmd *cobra.Command, a *app, id string) (model.Comparison, error) {
	sessions, err := history.Load(cmd.Context(), a.client)
	if err != nil {
		return model.Comparison{}, fmt.Errorf("failed to load history: %s", api.Message(err))
	}
	for _, c := range history.Comparisons(sessions) {
		if c.ReportID == id {
			return c, nil
		}
	}
	return model.Comparison{}, fmt.Errorf("report %s not found in history", id)
}

func runReportShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := findReport(cmd, a, args[0])
	if err != nil {
		return err
	}
	printReport(a, c)
	return nil
}

func printReport(a *app, c model.Comparison) {
	out.Header(a.tr.T("report.title") + ": " + c.Pair)
	out.Print("%s: %s", a.tr.T("report.originality"), out.Risk(report.FormatPercent(c.Originality), c.HighRisk()))
	out.Print("%s: %s", a.tr.T("report.match_label"), report.FormatPercent(c.Similarity))
	if c.SemanticInfo != nil {
		out.Print("%s: %s", a.tr.T("verify.semantic"), report.FormatPercent(c.SemanticInfo.DNAScore))
		out.Print("%s: %s", a.tr.T("verify.lexical"), report.FormatPercent(c.SemanticInfo.LexicalScore))
	}
	for _, d := range []struct {
		label string
		doc   model.Document
	}{
		{a.tr.T("report.source_a"), c.DocA},
		{a.tr.T("report.target_b"), c.DocB},
	} {
		out.Header(d.label + ": " + d.doc.Name)
		out.Print("%s: %s", a.tr.T("report.ai_prob"), out.Risk(report.FormatPercent(d.doc.AI.Score), d.doc.AIHighRisk()))
		if text := report.PlainText(d.doc.HTML); text != "" {
			out.Print("%s", text)
		}
	}
	if c.ReportID != "" {
		out.Print("")
		out.Print("%s: %s", a.tr.T("report.share"), report.VerifyURL(cfg.PublicURL, c.ReportID))
	}
}

func readText(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func runReportRecalc(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	prev, err := findReport(cmd, a, args[0])
	if err != nil {
		return err
	}

	origA, origB := report.EditableTexts(prev)
	editedA, err := readText(textA, origA)
	if err != nil {
		return err
	}
	editedB, err := readText(textB, origB)
	if err != nil {
		return err
	}

	out.Info("%s...", a.tr.T("report.processing"))
	next, err := a.comparer().Recalculate(cmd.Context(), prev, editedA, editedB)
	if err != nil {
		if errors.Is(err, report.ErrEmptyText) {
			return errors.New(a.tr.T("errors.empty_text"))
		}
		return fmt.Errorf("recalculation failed: %s", api.Message(err))
	}

	out.Success("%s: %s -> %s", a.tr.T("report.recalc"),
		report.FormatPercent(prev.Originality), report.FormatPercent(next.Originality))
	return printComparisons([]model.Comparison{next})
}
