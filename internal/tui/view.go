package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/report"
	"github.com/existflow/qazzerep/internal/router"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(statusBar), 1)

	var body string
	switch {
	case m.booting || m.pending != "":
		body = m.spinner.View() + " " + m.tr.T("profile.syncing")
	case m.mode == ModeHelp:
		body = m.renderHelp()
	case m.mode == ModeRecalc:
		body = m.renderRecalc()
	default:
		body = m.renderBody()
	}

	mainContent := ContentStyle.Width(m.width).Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	// Modal overlays
	if m.mode == ModeInput || m.mode == ModeConfirm {
		modal := m.renderModal()
		mainContent = lipgloss.Place(
			m.width, bodyHeight,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, mainContent, statusBar)
}

func (m Model) renderBody() string {
	switch m.CurrentView() {
	case router.ViewLogin, router.ViewRegister:
		return m.renderForm()
	case router.ViewDashboard:
		return m.renderDashboard()
	case router.ViewHistory:
		return m.renderHistory()
	case router.ViewProfile:
		return m.renderProfile()
	case router.ViewAdmin:
		return m.renderAdmin()
	case router.ViewVerify:
		return m.renderVerify()
	default:
		return m.renderInfo()
	}
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render(m.tr.T("app.name"))

	snap := m.deps.Session.Snapshot()
	var tabs []string
	if snap.HasToken() {
		nav := []struct {
			view  router.View
			label string
		}{
			{router.ViewDashboard, "1 " + m.tr.T("nav.check")},
			{router.ViewHistory, "2 " + m.tr.T("nav.history")},
			{router.ViewProfile, "3 " + m.tr.T("nav.account")},
		}
		if m.isAdmin() {
			nav = append(nav, struct {
				view  router.View
				label string
			}{router.ViewAdmin, "4 " + m.tr.T("admin.title")})
		}
		for _, n := range nav {
			style := NavItemStyle
			if n.view == m.CurrentView() {
				style = NavItemActiveStyle
			}
			tabs = append(tabs, style.Render(n.label))
		}
	}

	right := strings.ToUpper(string(m.tr.Lang()))
	if m.deps.Theme != nil {
		right = string(m.deps.Theme.Preference()) + " · " + right
	}
	if snap.User != nil {
		right = snap.User.Name() + " · " + right
	}

	left := lipgloss.JoinHorizontal(lipgloss.Top, append([]string{title}, tabs...)...)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	return left + repeat(" ", gap) + HelpStyle.Render(right)
}

// isAdmin applies the admin guard to the current session
func (m Model) isAdmin() bool {
	snap := m.deps.Session.Snapshot()
	return m.deps.Guard.Decide(router.Input{
		HasToken:       snap.HasToken(),
		UserIdentifier: snap.Identifier(),
		RequiresAuth:   true,
		RequiresAdmin:  true,
	}) == router.Allow
}

func (m Model) renderForm() string {
	register := m.CurrentView() == router.ViewRegister

	title := m.tr.T("auth.login_title")
	if register {
		title = m.tr.T("auth.register_title")
	}

	var s strings.Builder
	s.WriteString(TitleStyle.Render(title) + "\n")
	s.WriteString(HelpStyle.Render(m.tr.T("auth.terminal_version")) + "\n\n")

	for i, in := range m.form {
		if i == fieldSchoolCode && m.role != model.RoleTeacher {
			continue
		}
		s.WriteString(in.View() + "\n")
	}

	if register {
		role := m.tr.T("auth.role_student")
		if m.role == model.RoleTeacher {
			role = m.tr.T("auth.role_teacher")
		}
		s.WriteString("\n" + m.tr.T("auth.role") + ": " + TitleStyle.Render(role) + HelpStyle.Render("  (ctrl+t)") + "\n")
	}

	s.WriteString("\n")
	if m.busy {
		s.WriteString(m.spinner.View() + " ")
	}
	if register {
		s.WriteString(HelpStyle.Render("enter: " + m.tr.T("auth.create_id") + "  ctrl+r: " + m.tr.T("auth.login_btn")))
	} else {
		s.WriteString(HelpStyle.Render("enter: " + m.tr.T("auth.login_btn") + "  ctrl+r: " + m.tr.T("auth.no_account") + " " + m.tr.T("auth.create_id")))
	}

	return ModalStyle.Render(s.String())
}

func (m Model) renderDashboard() string {
	if m.detail {
		return m.renderDetail()
	}
	if len(m.results) > 0 {
		return m.renderResults()
	}

	var s strings.Builder
	s.WriteString(TitleStyle.Render(m.tr.T("dash.title_new")) + "\n")
	s.WriteString(HelpStyle.Render(m.tr.T("dash.subtitle_new")) + "\n\n")

	if len(m.files) == 0 {
		s.WriteString(HelpStyle.Render("  "+m.tr.T("upload.title")+" (a)") + "\n")
	}
	for i, f := range m.files {
		style := ItemStyle
		if i == m.fileCursor {
			style = ItemSelectedStyle
		}
		s.WriteString(style.Render(cursorPrefix(i == m.fileCursor)+truncate(f, m.width-12)) + "\n")
	}

	s.WriteString("\n" + HelpStyle.Render(m.tr.T("upload.formats")) + "\n")
	s.WriteString(fmt.Sprintf("%s: %d\n\n", m.tr.T("upload.selected"), len(m.files)))

	if m.busy {
		s.WriteString(m.spinner.View() + " " + m.tr.T("report.processing") + "...")
	} else if len(m.files) >= 2 {
		s.WriteString(TitleStyle.Render("[s] " + m.tr.T("upload.btn_start")))
	}
	return s.String()
}

func (m Model) renderResults() string {
	width := max(m.width-40, 20)

	var s strings.Builder
	s.WriteString(TitleStyle.Render(m.tr.T("report.title")) + "\n")
	s.WriteString(HelpStyle.Render(repeat("─", width+30)) + "\n\n")

	for i, c := range m.results {
		style := ItemStyle
		if i == m.cursor {
			style = ItemSelectedStyle
		}
		pair := style.Render(fmt.Sprintf("%s%-*s", cursorPrefix(i == m.cursor), width, truncate(c.Pair, width)))
		score := OriginalityStyle(c).Render(fmt.Sprintf("%7s", report.FormatPercent(c.Originality)))
		s.WriteString(pair + score + "  " + HelpStyle.Render(report.ShortID(c.ReportID, 8)) + "\n")
	}
	return s.String()
}

func (m Model) renderDetail() string {
	c := m.currentComparison()
	if c == nil {
		return ""
	}

	var s strings.Builder
	s.WriteString(TitleStyle.Render(m.tr.T("report.title")+" · "+c.Pair) + "\n\n")

	s.WriteString(fmt.Sprintf("%s: %s   %s: %s\n",
		m.tr.T("report.originality"), OriginalityStyle(*c).Render(report.FormatPercent(c.Originality)),
		m.tr.T("report.match_label"), report.FormatPercent(c.Similarity)))
	if c.SemanticInfo != nil {
		s.WriteString(fmt.Sprintf("%s: %s   %s: %s\n",
			m.tr.T("verify.semantic"), report.FormatPercent(c.SemanticInfo.DNAScore),
			m.tr.T("verify.lexical"), report.FormatPercent(c.SemanticInfo.LexicalScore)))
	}
	s.WriteString("\n")

	if m.showQR && c.ReportID != "" {
		link := report.VerifyURL(m.deps.PublicURL, c.ReportID)
		s.WriteString(m.tr.T("report.share") + ": " + link + "\n")
		if qr, err := report.QRText(link); err == nil {
			s.WriteString(qr)
		} else {
			s.WriteString(ErrorStyle.Render(err.Error()) + "\n")
		}
		return s.String()
	}

	paneWidth := max((m.width-10)/2, 20)
	paneHeight := max(m.height-22, 4)
	docPane := func(label string, d model.Document) string {
		head := TitleStyle.Render(label+": "+truncate(d.Name, paneWidth-len(label)-4)) + "\n"
		head += m.tr.T("report.ai_prob") + ": " + AIStyle(d).Render(report.FormatPercent(d.AI.Score))
		if d.AI.Label != "" {
			head += HelpStyle.Render(" (" + d.AI.Label + ")")
		}
		body := lipgloss.NewStyle().Width(paneWidth - 4).MaxHeight(paneHeight).Render(report.PlainText(d.HTML))
		return PaneStyle.Width(paneWidth).Render(head + "\n\n" + body)
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		docPane(m.tr.T("report.source_a"), c.DocA),
		docPane(m.tr.T("report.target_b"), c.DocB)) + "\n\n")

	if c.ReportID != "" {
		link := report.VerifyURL(m.deps.PublicURL, c.ReportID)
		s.WriteString(m.tr.T("report.share") + ": " + link)
		if m.notice.Active() {
			s.WriteString("  " + NoticeStyle.Render("✓ "+m.tr.T("report.copied")))
		}
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderRecalc() string {
	width := max((m.width-10)/2, 20)
	height := max(m.height-12, 5)
	m.editA.SetWidth(width)
	m.editA.SetHeight(height)
	m.editB.SetWidth(width)
	m.editB.SetHeight(height)

	c := m.currentComparison()
	nameA, nameB := m.tr.T("report.source_a"), m.tr.T("report.target_b")
	if c != nil {
		nameA += ": " + c.DocA.Name
		nameB += ": " + c.DocB.Name
	}

	left := TitleStyle.Render(truncate(nameA, width)) + "\n" + m.editA.View()
	right := TitleStyle.Render(truncate(nameB, width)) + "\n" + m.editB.View()

	s := lipgloss.JoinHorizontal(lipgloss.Top, PaneStyle.Render(left), PaneStyle.Render(right))
	if m.busy {
		s += "\n" + m.spinner.View() + " " + m.tr.T("report.processing") + "..."
	}
	return s
}

func (m Model) renderHistory() string {
	var s strings.Builder
	s.WriteString(TitleStyle.Render(m.tr.T("dash.title_history")) + "\n")
	s.WriteString(HelpStyle.Render(m.tr.T("dash.subtitle_history")) + "\n\n")

	if m.busy {
		s.WriteString(m.spinner.View())
		return s.String()
	}
	if len(m.sessions) == 0 {
		s.WriteString(HelpStyle.Render("  " + m.tr.T("history.empty")))
		return s.String()
	}

	for i, hs := range m.sessions {
		selected := i == m.histCursor
		style := ItemStyle
		if selected {
			style = ItemSelectedStyle
		}
		line := fmt.Sprintf("%s%s  %d %s", cursorPrefix(selected), hs.Timestamp.String(), hs.TotalPairs, m.tr.T("history.pairs"))
		s.WriteString(style.Render(line) + "\n")

		if !selected {
			continue
		}
		for _, c := range hs.Comparisons {
			s.WriteString(fmt.Sprintf("      %-40s %s  %s\n",
				truncate(c.Pair, 40),
				OriginalityStyle(c).Render(report.FormatPercent(c.Originality)),
				HelpStyle.Render(report.ShortID(c.ReportID, 8))))
		}
	}
	return s.String()
}

func (m Model) renderProfile() string {
	snap := m.deps.Session.Snapshot()

	var s strings.Builder
	s.WriteString(TitleStyle.Render(m.tr.T("profile.title")) + "\n\n")
	if u := snap.User; u != nil {
		name := m.draft.DisplayName
		if name == "" {
			name = u.Name()
		}
		s.WriteString(fmt.Sprintf("%s: %s\n", m.tr.T("profile.public_name"), name))
		s.WriteString(fmt.Sprintf("%s: %s\n", m.tr.T("profile.contact_email"), u.Email))
		if u.Role != "" {
			s.WriteString(fmt.Sprintf("%s: %s\n", m.tr.T("auth.role"), u.Role))
		}
		if u.Avatar != "" {
			s.WriteString(HelpStyle.Render("avatar: "+u.Avatar) + "\n")
		}
	}
	s.WriteString("\n" + TitleStyle.Render(m.tr.T("profile.detectors")) + "\n")

	row := func(i int, on bool, label string) {
		box := "[ ]"
		if on {
			box = "[x]"
		}
		style := ItemStyle
		if i == m.ruleCursor {
			style = ItemSelectedStyle
		}
		s.WriteString(style.Render(cursorPrefix(i == m.ruleCursor)+box+" "+label) + "\n")
	}
	for i, r := range model.KnownRules {
		row(i, m.draft.HasRule(r), m.tr.T("profile.rules."+r))
	}
	row(len(model.KnownRules), m.draft.ExcludeQuotes, m.tr.T("profile.ignore_quotes"))

	regex := m.draft.CustomRegex
	if regex == "" {
		regex = "-"
	}
	s.WriteString("\nregex: " + regex + "\n\n")

	if m.busy {
		s.WriteString(m.spinner.View() + " " + m.tr.T("profile.syncing"))
	}
	return s.String()
}

func (m Model) renderAdmin() string {
	var s strings.Builder
	s.WriteString(TitleStyle.Render(m.tr.T("admin.title")) + "\n\n")

	if m.busy {
		s.WriteString(m.spinner.View())
		return s.String()
	}
	if len(m.docs) == 0 {
		s.WriteString(HelpStyle.Render("  " + m.tr.T("admin.empty")))
		return s.String()
	}

	s.WriteString(HelpStyle.Render(fmt.Sprintf("  %-16s %-32s %s", "ID", m.tr.T("admin.owner"), m.tr.T("admin.hashes"))) + "\n")
	for i, d := range m.docs {
		style := ItemStyle
		if i == m.docCursor {
			style = ItemSelectedStyle
		}
		line := fmt.Sprintf("%s%-16s %-32s %d", cursorPrefix(i == m.docCursor), report.NodeID(d.ID), truncate(d.Owner, 32), d.HashCount)
		s.WriteString(style.Render(line) + "\n")
	}
	return s.String()
}

func (m Model) renderVerify() string {
	var s strings.Builder
	s.WriteString(TitleStyle.Render(m.tr.T("verify.title")) + "\n\n")

	switch {
	case m.busy:
		s.WriteString(m.spinner.View())
	case m.publicErr != nil:
		s.WriteString(ErrorStyle.Render(m.errorText(m.publicErr)))
	case m.public != nil:
		r := m.public
		c := r.Comparison()
		verdict := SafeStyle.Render(m.tr.T("verify.acceptable"))
		if c.HighRisk() {
			verdict = HighRiskStyle.Render(m.tr.T("verify.critical"))
		}
		s.WriteString(NoticeStyle.Render("✓ "+m.tr.T("verify.authentic")) + "\n")
		s.WriteString(verdict + "\n\n")
		s.WriteString(fmt.Sprintf("ID: %s\n", r.ReportID))
		s.WriteString(fmt.Sprintf("%s\n", r.Pair))
		s.WriteString(fmt.Sprintf("%s: %s\n", m.tr.T("verify.originality"), OriginalityStyle(c).Render(report.FormatPercent(r.Originality))))
		s.WriteString(fmt.Sprintf("%s: %s\n", m.tr.T("verify.semantic"), report.FormatPercent(r.SemanticDNA)))
		s.WriteString(fmt.Sprintf("%s: %s\n", m.tr.T("verify.lexical"), report.FormatPercent(r.LexicalMatch)))
		s.WriteString(fmt.Sprintf("%s: %s\n", m.tr.T("verify.issued"), r.Timestamp.String()))
	}
	return s.String()
}

func (m Model) renderInfo() string {
	p := m.page
	var s strings.Builder
	s.WriteString(HelpStyle.Render(strings.ToUpper(p.Category)) + "\n")
	s.WriteString(TitleStyle.Render(p.Title) + "\n")
	if p.Description != "" {
		s.WriteString(HelpStyle.Render(p.Description) + "\n")
	}
	s.WriteString("\n")

	width := max(m.width-8, 20)
	for i, it := range p.Items {
		s.WriteString(TitleStyle.Render(fmt.Sprintf("%02d. %s", i+1, it.Title)) + "\n")
		s.WriteString(lipgloss.NewStyle().Width(width).Render(it.Body) + "\n\n")
	}
	s.WriteString(HelpStyle.Render("esc: " + m.tr.T("info.back")))
	return s.String()
}

func (m Model) renderModal() string {
	if m.mode == ModeConfirm {
		content := lipgloss.NewStyle().Bold(true).Render(m.question) + "\n\n"
		content += HelpStyle.Render("y:yes  n:no")
		return ModalStyle.Render(content)
	}

	title := ""
	switch m.prompt {
	case promptAddFile:
		title = m.tr.T("upload.title")
	case promptGoto:
		title = "Go to"
	case promptRegex:
		title = "Custom regex"
	case promptAvatar:
		title = "Avatar"
	case promptName:
		title = m.tr.T("profile.public_name")
	case promptOldPassword:
		title = m.tr.T("profile.old_pass")
	case promptNewPassword:
		title = m.tr.T("profile.new_pass")
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:ok  Esc:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderStatusBar() string {
	if m.message != "" {
		if m.isError {
			return StatusBarStyle.Width(m.width).Render(ErrorStyle.Render(m.message))
		}
		return StatusBarStyle.Width(m.width).Render(m.message)
	}
	return StatusBarStyle.Width(m.width).Render(m.helpLine())
}

// helpLine lists the keys relevant to the active view
func (m Model) helpLine() string {
	switch m.mode {
	case ModeRecalc:
		return "tab:switch  ctrl+s:" + m.tr.T("report.recalc") + "  esc:cancel"
	case ModeInput, ModeConfirm:
		return ""
	}

	switch m.CurrentView() {
	case router.ViewLogin, router.ViewRegister:
		return "tab:next  enter:submit  ctrl+r:login/register  ctrl+o:go to  ctrl+c:quit"
	case router.ViewDashboard:
		switch {
		case m.detail:
			return "c:copy link  e:edit & recalc  Q:QR  esc:back  ?:help"
		case len(m.results) > 0:
			return "↑/↓:select  enter:open  n:new check  ?:help  q:quit"
		default:
			return "a:add file  x:remove  s:run  1-4:views  t:theme  g:lang  ?:help  q:quit"
		}
	case router.ViewHistory:
		return "↑/↓:select  enter:open  C:clear  r:refresh  ?:help"
	case router.ViewProfile:
		return "↑/↓:select  space:toggle  x:regex  n:name  p:password  v:avatar  s:save  ?:help"
	case router.ViewAdmin:
		return "↑/↓:select  d:delete  r:refresh  ?:help"
	case router.ViewVerify:
		return "r:refresh  esc:home  ::go to  q:quit"
	}
	return "esc:home  ::go to  q:quit"
}

func (m Model) renderHelp() string {
	var s strings.Builder
	s.WriteString(TitleStyle.Render("Keys") + "\n\n")
	bindings := []struct{ k, d string }{
		{keys.Dashboard.Help().Key, m.tr.T("nav.check")},
		{keys.History.Help().Key, m.tr.T("nav.history")},
		{keys.Profile.Help().Key, m.tr.T("nav.account")},
		{keys.Admin.Help().Key, m.tr.T("admin.title")},
		{keys.Docs.Help().Key, keys.Docs.Help().Desc},
		{keys.Goto.Help().Key, keys.Goto.Help().Desc},
		{keys.Theme.Help().Key, m.tr.T("settings.theme")},
		{keys.Lang.Help().Key, m.tr.T("settings.language")},
		{keys.Copy.Help().Key, keys.Copy.Help().Desc},
		{keys.Edit.Help().Key, keys.Edit.Help().Desc},
		{keys.QR.Help().Key, keys.QR.Help().Desc},
		{keys.Name.Help().Key, keys.Name.Help().Desc},
		{keys.Password.Help().Key, m.tr.T("profile.change_pass")},
		{keys.Clear.Help().Key, keys.Clear.Help().Desc},
		{keys.Delete.Help().Key, keys.Delete.Help().Desc},
		{keys.Logout.Help().Key, m.tr.T("profile.logout")},
		{keys.Quit.Help().Key, keys.Quit.Help().Desc},
	}
	for _, b := range bindings {
		s.WriteString(fmt.Sprintf("  %-8s %s\n", b.k, b.d))
	}
	s.WriteString("\n" + HelpStyle.Render("Press any key to close"))
	return s.String()
}
