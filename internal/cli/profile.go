package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/profile"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show and edit your profile",
	RunE:  runProfileShow,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile and analysis settings",
	RunE:  runProfileShow,
}

var profileSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Update analysis settings",
	Long: `Update analysis settings. Only the flags given are changed.

Examples:
  qazzerep profile settings --rules gost,apa
  qazzerep profile settings --regex '\[\d+\]' --quotes=true
  qazzerep profile settings --name "Aigerim S."`,
	RunE: runProfileSettings,
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar FILE",
	Short: "Upload a JPEG or PNG avatar (max 2MB)",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileAvatar,
}

var (
	settingsRules  string
	settingsRegex  string
	settingsQuotes bool
	settingsName   string
)

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSettingsCmd)
	profileCmd.AddCommand(profileAvatarCmd)

	profileSettingsCmd.Flags().StringVar(&settingsRules, "rules", "", "Comma-separated active rules ("+strings.Join(model.KnownRules, ", ")+")")
	profileSettingsCmd.Flags().StringVar(&settingsRegex, "regex", "", "Custom exclusion regex")
	profileSettingsCmd.Flags().BoolVar(&settingsQuotes, "quotes", false, "Exclude quoted text")
	profileSettingsCmd.Flags().StringVar(&settingsName, "name", "", "Public display name")
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	u := a.session.Snapshot().User
	if u == nil {
		return errNotLoggedIn
	}
	out.Header(a.tr.T("profile.title"))
	out.Print("%s: %s", a.tr.T("profile.public_name"), u.Name())
	out.Print("%s: %s", a.tr.T("profile.contact_email"), u.Email)
	if u.Role != "" {
		out.Print("%s: %s", a.tr.T("auth.role"), u.Role)
	}
	if u.Avatar != "" {
		out.Print("Avatar: %s", u.Avatar)
	}

	out.Header(a.tr.T("profile.detectors"))
	for _, id := range model.KnownRules {
		mark := "[ ]"
		if u.Settings.HasRule(id) {
			mark = "[x]"
		}
		out.Print("%s %s", mark, a.tr.T("profile.rules."+id))
	}
	mark := "[ ]"
	if u.Settings.ExcludeQuotes {
		mark = "[x]"
	}
	out.Print("%s %s", mark, a.tr.T("profile.ignore_quotes"))
	if u.Settings.CustomRegex != "" {
		out.Print("Regex: %s", u.Settings.CustomRegex)
	}
	return nil
}

// parseRules splits a comma-separated rule list, dropping blanks and
// duplicates
func parseRules(s string) []string {
	rules := []string{}
	seen := map[string]bool{}
	for _, r := range strings.Split(s, ",") {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		rules = append(rules, r)
	}
	return rules
}

func runProfileSettings(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	u := a.session.Snapshot().User
	if u == nil {
		return errNotLoggedIn
	}

	s := u.Settings
	flags := cmd.Flags()
	if flags.Changed("rules") {
		s.ActiveRules = parseRules(settingsRules)
	}
	if flags.Changed("regex") {
		s.CustomRegex = settingsRegex
	}
	if flags.Changed("quotes") {
		s.ExcludeQuotes = settingsQuotes
	}
	if flags.Changed("name") {
		s.DisplayName = strings.TrimSpace(settingsName)
	}

	out.Info("%s...", a.tr.T("profile.syncing"))
	if err := profile.SaveSettings(cmd.Context(), a.client, a.session, s); err != nil {
		return fmt.Errorf("failed to save settings: %s", api.Message(err))
	}
	out.Success("%s", a.tr.T("profile.config_synced"))
	return nil
}

func runProfileAvatar(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	url, err := profile.UploadAvatarFile(cmd.Context(), a.client, a.session, args[0])
	if err != nil {
		return fmt.Errorf("%s: %s", a.tr.T("profile.upload_failed"), api.Message(err))
	}
	out.Success("%s: %s", a.tr.T("profile.avatar_updated"), url)
	return nil
}
