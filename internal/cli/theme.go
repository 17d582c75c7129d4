package cli

import (
	"github.com/existflow/qazzerep/internal/theme"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark|system]",
	Short: "Show or set the visual theme",
	Long: `Show the stored theme preference, or set it.

Examples:
  qazzerep theme
  qazzerep theme dark`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(theme.Light), string(theme.Dark), string(theme.System)},
	RunE:      runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 {
		mode := "light"
		if a.theme.IsDark() {
			mode = "dark"
		}
		out.Print("%s: %s (%s)", a.tr.T("settings.theme"), a.theme.Preference(), mode)
		return nil
	}

	p, err := theme.ParsePreference(args[0])
	if err != nil {
		return err
	}
	if err := a.theme.Set(cmd.Context(), p); err != nil {
		return err
	}
	out.Success("%s: %s", a.tr.T("settings.theme"), p)
	return nil
}
