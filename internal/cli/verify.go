package cli

import (
	"errors"
	"fmt"

	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/report"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify REPORT_ID",
	Short: "Verify a public report by id",
	Long: `Fetch a stored report without logging in and print its verdict.

Examples:
  qazzerep verify 65f0aa11c0ffee01`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.client.PublicReport(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return errors.New(a.tr.T("errors.not_found"))
		}
		return fmt.Errorf("failed to fetch report: %s", api.Message(err))
	}

	c := r.Comparison()
	out.Header(a.tr.T("verify.title"))
	out.Success("%s: %s", a.tr.T("verify.authentic"), report.NodeID(r.ReportID))
	if c.HighRisk() {
		out.Warning("%s", a.tr.T("verify.critical"))
	} else {
		out.Print("%s", a.tr.T("verify.acceptable"))
	}
	out.Print("%s: %s", a.tr.T("verify.originality"), out.Risk(report.FormatPercent(r.Originality), c.HighRisk()))
	out.Print("%s: %s", a.tr.T("verify.semantic"), report.FormatPercent(r.SemanticDNA))
	out.Print("%s: %s", a.tr.T("verify.lexical"), report.FormatPercent(r.LexicalMatch))
	if !r.Timestamp.IsZero() {
		out.Print("%s", out.Dim(a.tr.T("verify.issued")+": "+r.Timestamp.String()))
	}
	return nil
}
