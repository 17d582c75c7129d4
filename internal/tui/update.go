package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/history"
	"github.com/existflow/qazzerep/internal/i18n"
	"github.com/existflow/qazzerep/internal/info"
	"github.com/existflow/qazzerep/internal/logger"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/report"
	"github.com/existflow/qazzerep/internal/router"
	"github.com/existflow/qazzerep/internal/session"
)

// Init restores the session before the first route is resolved
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initSession(), m.spinner.Tick)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.busy && !m.booting {
			return m, nil
		}
		if m.pending != "" && m.deps.Session.Snapshot().State != session.Loading {
			return m, m.navigate(m.pending)
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionReadyMsg:
		m.booting = false
		if msg.err != nil {
			m.setError(m.tr.T("errors.session_expired"))
		}
		return m, m.navigate(m.startPath)

	case authDoneMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				m.setError(m.tr.T("auth.error_invalid"))
			} else {
				m.setError(m.errorText(msg.err))
			}
			return m, nil
		}
		m.setStatus("")
		return m, m.navigate(router.PathHome)

	case compareDoneMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.results = msg.results
		m.cursor = 0
		m.detail = false
		m.showQR = false
		m.setStatus("")
		return m, nil

	case recalcDoneMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		if msg.index >= 0 && msg.index < len(m.results) {
			m.results[msg.index] = msg.result
		}
		m.mode = ModeNormal
		m.setStatus(m.tr.T("report.recalc") + ": " + report.FormatPercent(msg.result.Originality))
		return m, nil

	case historyLoadedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.busy = false
		m.sessions = msg.sessions
		if m.histCursor >= len(m.sessions) {
			m.histCursor = 0
		}
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		return m, nil

	case historyClearedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.sessions = nil
		m.histCursor = 0
		m.setStatus(m.tr.T("history.cleared"))
		return m, nil

	case docsLoadedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.busy = false
		m.docs = msg.docs
		if m.docCursor >= len(m.docs) {
			m.docCursor = max(len(m.docs)-1, 0)
		}
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		return m, nil

	case publicLoadedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.busy = false
		m.public = msg.report
		m.publicErr = msg.err
		return m, nil

	case settingsSavedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.setStatus(m.tr.T("profile.config_synced"))
		return m, nil

	case avatarUploadedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.setError(m.tr.T("profile.upload_failed") + ": " + m.errorText(msg.err))
			return m, nil
		}
		m.setStatus(m.tr.T("profile.avatar_updated"))
		return m, nil

	case passwordChangedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.setStatus(m.tr.T("profile.pass_changed"))
		return m, nil

	case copyExpiredMsg:
		m.notice.Expire(msg.gen)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			m.cancel()
			return m, tea.Quit
		}

		// Handle mode-specific input
		switch m.mode {
		case ModeInput:
			return m.updateInput(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		case ModeRecalc:
			return m.updateRecalc(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		if m.booting || m.pending != "" {
			return m, nil
		}

		switch m.CurrentView() {
		case router.ViewLogin, router.ViewRegister:
			return m.updateForm(msg)
		}

		// Normal mode key handling
		return m.handleNormalKeys(msg)
	}

	return m.forward(msg)
}

// stale reports whether an async result belongs to an earlier view
func (m Model) stale(gen uint64) bool {
	if gen != m.gen {
		logger.Debug("Dropping stale result", logger.F("gen", gen), logger.F("current", m.gen))
		return true
	}
	return false
}

// forward routes cursor blink and other internal messages to the
// focused input
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.mode == ModeInput:
		m.input, cmd = m.input.Update(msg)
	case m.mode == ModeRecalc:
		if m.editFocus == 0 {
			m.editA, cmd = m.editA.Update(msg)
		} else {
			m.editB, cmd = m.editB.Update(msg)
		}
	case len(m.form) > 0 && (m.CurrentView() == router.ViewLogin || m.CurrentView() == router.ViewRegister):
		m.form[m.formFocus], cmd = m.form[m.formFocus].Update(msg)
	}
	return m, cmd
}

// navigate resolves path through the guard and enters the resulting
// view. Work started by the previous view is cancelled and its late
// results are dropped.
func (m *Model) navigate(path string) tea.Cmd {
	m.cancel()
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.gen++
	m.busy = false
	m.mode = ModeNormal

	snap := m.deps.Session.Snapshot()
	res := m.deps.Routes.Resolve(path, snap, m.deps.Guard)
	for i := 0; i < 2 && !res.Pending && res.Decision != router.Allow; i++ {
		logger.Debug("Route redirect",
			logger.F("from", path),
			logger.F("to", res.Target()),
			logger.F("decision", res.Decision.String()))
		res = m.deps.Routes.Resolve(res.Target(), snap, m.deps.Guard)
	}

	if res.Pending {
		m.pending = path
		m.busy = true
		return m.spinner.Tick
	}

	m.pending = ""
	m.match = res.Match
	logger.Debug("Navigate", logger.F("path", m.match.Path), logger.F("view", string(m.CurrentView())))
	return m.enterView()
}

// enterView prepares the active view and starts its data load
func (m *Model) enterView() tea.Cmd {
	switch m.CurrentView() {
	case router.ViewLogin, router.ViewRegister:
		m.resetForm()
		return textinput.Blink

	case router.ViewHistory:
		m.busy = true
		return tea.Batch(m.spinner.Tick, m.loadHistoryCmd())

	case router.ViewAdmin:
		m.busy = true
		return tea.Batch(m.spinner.Tick, m.loadDocsCmd())

	case router.ViewVerify:
		m.public = nil
		m.publicErr = nil
		m.busy = true
		return tea.Batch(m.spinner.Tick, m.loadPublicCmd(m.match.Param("reportId")))

	case router.ViewProfile:
		m.draft = model.DefaultSettings()
		if u := m.deps.Session.Snapshot().User; u != nil {
			m.draft = u.Settings
		}
		m.ruleCursor = 0

	case router.ViewInfo:
		m.page = info.Render(m.tr, m.match.Param("slug"))

	case router.ViewNotFound:
		m.page = info.Render(m.tr, "")
	}
	return nil
}

// fail shows err. An expired session sends the user back to login.
func (m *Model) fail(err error) tea.Cmd {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if errors.Is(err, api.ErrUnauthorized) && m.deps.Session.Snapshot().HasToken() {
		logger.Warn("Session rejected by backend", logger.F("error", err))
		if lerr := m.deps.Session.Logout(context.Background()); lerr != nil {
			logger.Error("Logout failed", logger.F("error", lerr))
		}
		cmd := m.navigate(router.PathLogin)
		m.setError(m.tr.T("errors.session_expired"))
		return cmd
	}
	m.setError(m.errorText(err))
	return nil
}

// errorText maps an error to a localized message
func (m Model) errorText(err error) string {
	switch {
	case errors.Is(err, report.ErrTooFewFiles):
		return m.tr.T("errors.too_few_files")
	case errors.Is(err, report.ErrEmptyText):
		return m.tr.T("errors.empty_text")
	case errors.Is(err, api.ErrMissingPassword):
		return m.tr.T("errors.password_required")
	case errors.Is(err, api.ErrNotFound):
		return m.tr.T("errors.not_found")
	case errors.Is(err, api.ErrNetwork):
		return m.tr.T("errors.network")
	}
	return api.Message(err)
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, keys.Goto):
		return m.startPrompt(promptGoto, m.Path())

	case key.Matches(msg, keys.Theme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, keys.Lang):
		m.cycleLang()
		return m, nil

	case key.Matches(msg, keys.Logout):
		return m, m.logout()

	case key.Matches(msg, keys.Dashboard):
		return m, m.navigate(router.PathHome)

	case key.Matches(msg, keys.History):
		return m, m.navigate("/history")

	case key.Matches(msg, keys.Profile):
		return m, m.navigate("/profile")

	case key.Matches(msg, keys.Admin):
		return m, m.navigate("/admin")

	case key.Matches(msg, keys.Docs):
		return m, m.navigate("/documentation")
	}

	switch m.CurrentView() {
	case router.ViewDashboard:
		return m.handleDashboardKeys(msg)
	case router.ViewHistory:
		return m.handleHistoryKeys(msg)
	case router.ViewAdmin:
		return m.handleAdminKeys(msg)
	case router.ViewProfile:
		return m.handleProfileKeys(msg)
	case router.ViewVerify:
		if key.Matches(msg, keys.Refresh) {
			return m, m.navigate(m.Path())
		}
	}

	if key.Matches(msg, keys.Escape) {
		return m, m.navigate(router.PathHome)
	}
	return m, nil
}

// updateForm drives the login and register forms
func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	register := m.CurrentView() == router.ViewRegister

	switch {
	case key.Matches(msg, keys.FormGoto):
		return m.startPrompt(promptGoto, m.Path())

	case key.Matches(msg, keys.Register):
		if register {
			return m, m.navigate(router.PathLogin)
		}
		return m, m.navigate("/register")

	case register && key.Matches(msg, keys.Role):
		if m.role == model.RoleStudent {
			m.role = model.RoleTeacher
		} else {
			m.role = model.RoleStudent
		}
		return m, nil

	case msg.Type == tea.KeyTab, msg.Type == tea.KeyDown:
		m.focusForm(m.formFocus + 1)
		return m, textinput.Blink

	case msg.Type == tea.KeyShiftTab, msg.Type == tea.KeyUp:
		m.focusForm(m.formFocus - 1)
		return m, textinput.Blink

	case msg.Type == tea.KeyEnter:
		if m.formFocus < len(m.form)-1 {
			m.focusForm(m.formFocus + 1)
			return m, textinput.Blink
		}
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.setStatus("")
		if register {
			r := api.RegisterRequest{
				Email:    strings.TrimSpace(m.form[fieldEmail].Value()),
				Password: m.form[fieldPassword].Value(),
				FullName: strings.TrimSpace(m.form[fieldFullName].Value()),
				Role:     m.role,
				School:   strings.TrimSpace(m.form[fieldSchool].Value()),
			}
			if m.role == model.RoleTeacher {
				r.SchoolCode = strings.TrimSpace(m.form[fieldSchoolCode].Value())
			}
			return m, tea.Batch(m.spinner.Tick, m.registerCmd(r))
		}
		return m, tea.Batch(m.spinner.Tick, m.loginCmd(m.form[fieldEmail].Value(), m.form[fieldPassword].Value()))
	}

	var cmd tea.Cmd
	m.form[m.formFocus], cmd = m.form[m.formFocus].Update(msg)
	return m, cmd
}

func (m Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	// Report detail
	if m.detail {
		switch {
		case key.Matches(msg, keys.Escape):
			if m.showQR {
				m.showQR = false
				break
			}
			m.detail = false
		case key.Matches(msg, keys.QR):
			if c := m.currentComparison(); c != nil && c.ReportID != "" {
				m.showQR = !m.showQR
			}
		case key.Matches(msg, keys.Copy):
			return m.copyLink()
		case key.Matches(msg, keys.Edit):
			return m.startRecalc()
		}
		return m, nil
	}

	// Result list
	if len(m.results) > 0 {
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			m.detail = true
			m.showQR = false
		case key.Matches(msg, keys.New), key.Matches(msg, keys.Escape):
			m.results = nil
			m.files = nil
			m.cursor = 0
			m.fileCursor = 0
			m.setStatus("")
		}
		return m, nil
	}

	// File selection
	switch {
	case key.Matches(msg, keys.Add):
		return m.startPrompt(promptAddFile, "")
	case key.Matches(msg, keys.Remove):
		if m.fileCursor < len(m.files) {
			m.files = append(m.files[:m.fileCursor], m.files[m.fileCursor+1:]...)
			if m.fileCursor >= len(m.files) && m.fileCursor > 0 {
				m.fileCursor--
			}
		}
	case key.Matches(msg, keys.Up):
		if m.fileCursor > 0 {
			m.fileCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.fileCursor < len(m.files)-1 {
			m.fileCursor++
		}
	case key.Matches(msg, keys.Compare), key.Matches(msg, keys.Enter):
		if len(m.files) < 2 {
			m.setError(m.tr.T("errors.too_few_files"))
			return m, nil
		}
		m.busy = true
		m.setStatus(m.tr.T("report.processing"))
		return m, tea.Batch(m.spinner.Tick, m.compareCmd(m.files))
	}
	return m, nil
}

// copyLink copies the verification link and raises the copy notice
func (m Model) copyLink() (tea.Model, tea.Cmd) {
	c := m.currentComparison()
	if c == nil || c.ReportID == "" {
		return m, nil
	}
	link := report.VerifyURL(m.deps.PublicURL, c.ReportID)
	if err := m.deps.Clipboard.WriteAll(link); err != nil {
		m.setError(err.Error())
		return m, nil
	}
	logger.Debug("Copied verification link", logger.F("report_id", c.ReportID))
	return m, copyExpireCmd(m.notice.Copy())
}

func (m Model) startRecalc() (tea.Model, tea.Cmd) {
	c := m.currentComparison()
	if c == nil {
		return m, nil
	}
	a, b := report.EditableTexts(*c)
	m.editA = newEditor(a)
	m.editB = newEditor(b)
	m.editFocus = 0
	m.editA.Focus()
	m.mode = ModeRecalc
	return m, textarea.Blink
}

func newEditor(text string) textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetValue(text)
	ta.Blur()
	return ta
}

func (m Model) updateRecalc(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		return m, nil

	case msg.Type == tea.KeyTab:
		if m.editFocus == 0 {
			m.editFocus = 1
			m.editA.Blur()
			return m, m.editB.Focus()
		}
		m.editFocus = 0
		m.editB.Blur()
		return m, m.editA.Focus()

	case key.Matches(msg, keys.Save):
		c := m.currentComparison()
		if c == nil || m.busy {
			return m, nil
		}
		m.busy = true
		m.setStatus(m.tr.T("report.processing"))
		return m, tea.Batch(m.spinner.Tick, m.recalcCmd(m.cursor, *c, m.editA.Value(), m.editB.Value()))
	}

	var cmd tea.Cmd
	if m.editFocus == 0 {
		m.editA, cmd = m.editA.Update(msg)
	} else {
		m.editB, cmd = m.editB.Update(msg)
	}
	return m, cmd
}

func (m Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.histCursor > 0 {
			m.histCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.histCursor < len(m.sessions)-1 {
			m.histCursor++
		}
	case key.Matches(msg, keys.Refresh):
		return m, m.navigate(m.Path())
	case key.Matches(msg, keys.Enter):
		s := m.currentSession()
		if s == nil || len(s.Comparisons) == 0 {
			return m, nil
		}
		m.results = append([]model.Comparison(nil), s.Comparisons...)
		m.cursor = 0
		m.detail = false
		m.showQR = false
		return m, m.navigate(router.PathHome)
	case key.Matches(msg, keys.Clear):
		if !history.CanClear(m.sessions) {
			m.setStatus(m.tr.T("history.empty"))
			return m, nil
		}
		return m.ask(confirmClearHistory, m.tr.T("history.confirm_clear"))
	}
	return m, nil
}

func (m Model) handleAdminKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.docCursor > 0 {
			m.docCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.docCursor < len(m.docs)-1 {
			m.docCursor++
		}
	case key.Matches(msg, keys.Refresh):
		return m, m.navigate(m.Path())
	case key.Matches(msg, keys.Delete):
		if m.currentDocument() == nil {
			return m, nil
		}
		return m.ask(confirmDeleteDocument, m.tr.T("admin.confirm_delete"))
	}
	return m, nil
}

// profileRows is the rule list plus the quote toggle
func profileRows() int {
	return len(model.KnownRules) + 1
}

func (m Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.ruleCursor > 0 {
			m.ruleCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.ruleCursor < profileRows()-1 {
			m.ruleCursor++
		}
	case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
		if m.ruleCursor < len(model.KnownRules) {
			m.draft = m.draft.ToggleRule(model.KnownRules[m.ruleCursor])
		} else {
			m.draft.ExcludeQuotes = !m.draft.ExcludeQuotes
		}
	case key.Matches(msg, keys.Regex):
		return m.startPrompt(promptRegex, m.draft.CustomRegex)
	case key.Matches(msg, keys.Avatar):
		return m.startPrompt(promptAvatar, "")
	case key.Matches(msg, keys.Name):
		return m.startPrompt(promptName, m.draft.DisplayName)
	case key.Matches(msg, keys.Password):
		m.oldPassword = ""
		return m.startPrompt(promptOldPassword, "")
	case key.Matches(msg, keys.Save), key.Matches(msg, keys.Compare):
		m.busy = true
		m.setStatus(m.tr.T("profile.syncing"))
		return m, tea.Batch(m.spinner.Tick, m.saveSettingsCmd(m.draft))
	}
	return m, nil
}

func (m Model) startPrompt(p prompt, value string) (tea.Model, tea.Cmd) {
	m.prompt = p
	m.mode = ModeInput
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.EchoMode = textinput.EchoNormal
	switch p {
	case promptAddFile:
		m.input.Placeholder = m.tr.T("upload.formats")
	case promptGoto:
		m.input.Placeholder = "/verify/<report-id>"
	case promptRegex:
		m.input.Placeholder = "regex"
	case promptAvatar:
		m.input.Placeholder = "avatar.png"
	case promptName:
		m.input.Placeholder = m.tr.T("profile.public_name")
	case promptOldPassword, promptNewPassword:
		m.input.Placeholder = ""
		m.input.EchoMode = textinput.EchoPassword
	}
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		m.input.EchoMode = textinput.EchoNormal
		m.input.Reset()
		m.oldPassword = ""
		return m, nil

	case key.Matches(msg, keys.Enter):
		raw := m.input.Value()
		value := strings.TrimSpace(raw)
		m.mode = ModeNormal
		m.input.Blur()
		m.input.EchoMode = textinput.EchoNormal

		switch m.prompt {
		case promptAddFile:
			m.addFiles(value)
		case promptGoto:
			if value != "" {
				return m, m.navigate(value)
			}
		case promptRegex:
			m.draft.CustomRegex = value
		case promptAvatar:
			if value == "" {
				return m, nil
			}
			m.busy = true
			m.setStatus(m.tr.T("profile.syncing"))
			return m, tea.Batch(m.spinner.Tick, m.uploadAvatarCmd(value))
		case promptName:
			m.draft.DisplayName = value
		case promptOldPassword:
			m.oldPassword = raw
			return m.startPrompt(promptNewPassword, "")
		case promptNewPassword:
			oldPassword := m.oldPassword
			m.oldPassword = ""
			m.input.Reset()
			m.busy = true
			m.setStatus(m.tr.T("profile.syncing"))
			return m, tea.Batch(m.spinner.Tick, m.changePasswordCmd(oldPassword, raw))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// addFiles expands a path or glob and appends new regular files
func (m *Model) addFiles(pattern string) {
	if pattern == "" {
		return
	}
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		matches = []string{pattern}
	}

	added := 0
	for _, p := range matches {
		fi, err := os.Stat(p)
		if err != nil || fi.IsDir() {
			continue
		}
		dup := false
		for _, f := range m.files {
			if f == p {
				dup = true
				break
			}
		}
		if !dup {
			m.files = append(m.files, p)
			added++
		}
	}

	if added == 0 {
		m.setError(pattern + ": " + os.ErrNotExist.Error())
		return
	}
	m.setStatus(m.tr.T("upload.selected") + ": " + strconv.Itoa(len(m.files)))
}

func (m Model) ask(action confirmAction, question string) (tea.Model, tea.Cmd) {
	if !m.deps.ConfirmDelete {
		return m.runConfirmed(action)
	}
	m.confirm = action
	m.question = question
	m.mode = ModeConfirm
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = ModeNormal
		return m.runConfirmed(m.confirm)
	case "n", "N", "esc", "q":
		m.mode = ModeNormal
		m.confirm = confirmNone
		m.setStatus("")
	}
	return m, nil
}

func (m Model) runConfirmed(action confirmAction) (tea.Model, tea.Cmd) {
	m.confirm = confirmNone
	switch action {
	case confirmClearHistory:
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.clearHistoryCmd())
	case confirmDeleteDocument:
		doc := m.currentDocument()
		if doc == nil {
			return m, nil
		}
		m.busy = true
		m.setStatus(m.tr.T("admin.deleted") + ": " + report.NodeID(doc.ID))
		return m, tea.Batch(m.spinner.Tick, m.deleteDocCmd(doc.ID))
	}
	return m, nil
}

func (m *Model) cycleTheme() {
	if m.deps.Theme == nil {
		return
	}
	p, err := m.deps.Theme.Cycle(context.Background())
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.setStatus(m.tr.T("settings.theme") + ": " + string(p))
}

func (m *Model) cycleLang() {
	next := i18n.Langs[0]
	for i, l := range i18n.Langs {
		if l == m.tr.Lang() {
			next = i18n.Langs[(i+1)%len(i18n.Langs)]
			break
		}
	}
	m.tr = m.tr.WithLang(next)
	switch m.CurrentView() {
	case router.ViewInfo:
		m.page = info.Render(m.tr, m.match.Param("slug"))
	case router.ViewNotFound:
		m.page = info.Render(m.tr, "")
	}
	m.setStatus(m.tr.T("settings.language") + ": " + string(next))
}

func (m *Model) logout() tea.Cmd {
	if err := m.deps.Session.Logout(context.Background()); err != nil {
		m.setError(err.Error())
		return nil
	}
	m.results = nil
	m.files = nil
	m.sessions = nil
	m.docs = nil
	m.detail = false
	m.showQR = false
	m.oldPassword = ""
	cmd := m.navigate(router.PathLogin)
	m.setStatus(m.tr.T("auth.logged_out"))
	return cmd
}
