package cli

import (
	"fmt"

	"github.com/existflow/qazzerep/internal/info"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [SLUG]",
	Short: "Show documentation pages",
	Long: `Without arguments, list the available pages. With a slug, print the
page as markdown, or as HTML with --html.

Examples:
  qazzerep info
  qazzerep info privacy
  qazzerep info documentation --html > doc.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

var infoHTML bool

func init() {
	infoCmd.Flags().BoolVar(&infoHTML, "html", false, "Render the page as HTML")
}

func runInfo(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 {
		for _, slug := range info.Slugs() {
			p := info.Render(a.tr, slug)
			out.Print("%-16s %s", slug, p.Title)
		}
		return nil
	}

	p := info.Render(a.tr, args[0])
	if !p.Found {
		return fmt.Errorf("%s: %s", p.Title, args[0])
	}
	if infoHTML {
		fmt.Fprint(out.Out(), p.HTML())
		return nil
	}
	fmt.Fprint(out.Out(), p.Markdown())
	return nil
}
