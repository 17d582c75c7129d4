package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/i18n"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/router"
	"github.com/existflow/qazzerep/internal/session"
	"github.com/existflow/qazzerep/internal/storage"
	"github.com/existflow/qazzerep/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminEmail = "admin@qazzerep.kz"

type fakeBackend struct {
	user      *model.User
	batch     *model.BatchResult
	recalc    *model.Comparison
	sessions  []model.HistorySession
	docs      []model.AdminDocument
	public    *model.PublicReport
	publicErr error
	cleared   int
	deleted   []string
	saved     []model.Settings
	passwords [][2]string
}

func (f *fakeBackend) Me(ctx context.Context) (*model.User, error) {
	u := *f.user
	return &u, nil
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (string, error) {
	if password != "secret" {
		return "", &api.Error{StatusCode: 401, Message: "bad"}
	}
	f.user = &model.User{Email: email}
	return "tok", nil
}

func (f *fakeBackend) Register(ctx context.Context, r api.RegisterRequest) (string, error) {
	f.user = &model.User{Email: r.Email, Role: r.Role}
	return "tok", nil
}

func (f *fakeBackend) PublicReport(ctx context.Context, id string) (*model.PublicReport, error) {
	return f.public, f.publicErr
}

func (f *fakeBackend) CompareBatch(ctx context.Context, files []api.Upload) (*model.BatchResult, error) {
	return f.batch, nil
}

func (f *fakeBackend) Recalculate(ctx context.Context, r api.RecalcRequest) (*model.Comparison, error) {
	return f.recalc, nil
}

func (f *fakeBackend) History(ctx context.Context) ([]model.HistorySession, error) {
	return f.sessions, nil
}

func (f *fakeBackend) ClearHistory(ctx context.Context) error {
	f.cleared++
	f.sessions = nil
	return nil
}

func (f *fakeBackend) AdminDocuments(ctx context.Context) ([]model.AdminDocument, error) {
	return f.docs, nil
}

func (f *fakeBackend) DeleteDocument(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	var rest []model.AdminDocument
	for _, d := range f.docs {
		if d.ID != id {
			rest = append(rest, d)
		}
	}
	f.docs = rest
	return nil
}

func (f *fakeBackend) UpdateSettings(ctx context.Context, s model.Settings) error {
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeBackend) UploadAvatar(ctx context.Context, name string, data []byte) (string, error) {
	return "/uploads/avatars/1.png", nil
}

func (f *fakeBackend) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	f.passwords = append(f.passwords, [2]string{oldPassword, newPassword})
	return nil
}

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func newTestModel(t *testing.T, user *model.User) (Model, *fakeBackend, *fakeClipboard) {
	t.Helper()
	b := &fakeBackend{user: user}
	mem := storage.NewMemory()
	sess := session.NewStore(mem, b)
	if user != nil {
		require.NoError(t, sess.Login(context.Background(), "tok"))
	}
	clip := &fakeClipboard{}

	m := New(Deps{
		Backend:       b,
		Session:       sess,
		Theme:         theme.NewStore(mem).WithDetector(func() bool { return true }),
		Catalog:       i18n.MustLoad(i18n.Eng),
		Guard:         router.Guard{AdminIdentity: adminEmail},
		Clipboard:     clip,
		PublicURL:     "https://qazzerep.kz",
		ConfirmDelete: true,
	}, "/")

	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(m, sessionReadyMsg{})
	return m, b, clip
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleResults() []model.Comparison {
	return []model.Comparison{
		{ReportID: "abc123", Pair: "A.pdf vs B.pdf", Originality: 42,
			DocA: model.Document{Name: "A.pdf", HTML: "<p>alpha</p>", AI: model.AIScore{Score: 75}},
			DocB: model.Document{Name: "B.pdf", HTML: "beta"}},
		{ReportID: "def456789", Pair: "A.pdf vs C.pdf", Originality: 97},
	}
}

func TestBoot_LoggedOutLandsOnLogin(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	assert.Equal(t, router.ViewLogin, m.CurrentView())
	assert.Equal(t, router.PathLogin, m.Path())
	assert.Contains(t, m.View(), "Authorization")
}

func TestLoginForm_SubmitsAndEntersDashboard(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m.form[fieldEmail].SetValue("a@b.kz")
	m.form[fieldPassword].SetValue("secret")

	m, _ = update(m, press("enter")) // to password
	m, cmd := update(m, press("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	m, _ = update(m, m.loginCmd("a@b.kz", "secret")())
	assert.Equal(t, router.ViewDashboard, m.CurrentView())
	assert.Equal(t, "a@b.kz", m.deps.Session.Snapshot().Identifier())
}

func TestLoginForm_InvalidCredentials(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m, _ = update(m, m.loginCmd("a@b.kz", "wrong")())
	assert.Equal(t, router.ViewLogin, m.CurrentView())
	assert.True(t, m.isError)
	assert.Equal(t, "ACCESS_DENIED: INVALID CREDENTIALS", m.message)
}

func TestLoginForm_SwitchesToRegister(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m, _ = update(m, press("ctrl+r"))
	assert.Equal(t, router.ViewRegister, m.CurrentView())
	assert.Len(t, m.form, 5)
}

func TestResults_ShowOriginalityAndShortID(t *testing.T) {
	m, _, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	require.Equal(t, router.ViewDashboard, m.CurrentView())

	m, _ = update(m, compareDoneMsg{gen: m.gen, results: sampleResults()[:1]})
	view := m.View()
	assert.Contains(t, view, "42%")
	assert.Contains(t, view, "abc123...")
}

func TestStaleResultIsDropped(t *testing.T) {
	m, _, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	oldGen := m.gen

	m, _ = update(m, press("2"))
	require.Equal(t, router.ViewHistory, m.CurrentView())
	require.NotEqual(t, oldGen, m.gen)

	m, _ = update(m, compareDoneMsg{gen: oldGen, results: sampleResults()})
	assert.Empty(t, m.results)
}

func TestCompare_NeedsTwoFiles(t *testing.T) {
	m, b, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	m.files = []string{"only.pdf"}

	m, cmd := update(m, press("s"))
	assert.Nil(t, cmd)
	assert.False(t, m.busy)
	assert.Equal(t, "Select at least two files", m.message)
	assert.Nil(t, b.batch)
}

func TestCompare_RunsWithTwoFiles(t *testing.T) {
	m, b, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	b.batch = &model.BatchResult{Comparisons: sampleResults()}

	dir := t.TempDir()
	for _, name := range []string{"A.pdf", "B.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	m.addFiles(filepath.Join(dir, "*.pdf"))
	require.Len(t, m.files, 2)

	m, cmd := update(m, press("s"))
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	m, _ = update(m, m.compareCmd(m.files)())
	assert.False(t, m.busy)
	assert.Len(t, m.results, 2)
}

func TestDetail_EscReturnsToUnchangedList(t *testing.T) {
	m, _, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	m, _ = update(m, compareDoneMsg{gen: m.gen, results: sampleResults()})

	m, _ = update(m, press("down"))
	m, _ = update(m, press("enter"))
	require.True(t, m.detail)

	m, _ = update(m, press("esc"))
	assert.False(t, m.detail)
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, sampleResults(), m.results)
}

func TestDetail_CopyLinkNotice(t *testing.T) {
	m, _, clip := newTestModel(t, &model.User{Email: "s@b.kz"})
	m, _ = update(m, compareDoneMsg{gen: m.gen, results: sampleResults()})
	m, _ = update(m, press("enter"))

	m, cmd := update(m, press("c"))
	require.NotNil(t, cmd)
	assert.Equal(t, "https://qazzerep.kz/verify/abc123", clip.text)
	assert.True(t, m.notice.Active())
	assert.Contains(t, m.View(), "Copied")

	m, _ = update(m, press("c"))
	m, _ = update(m, copyExpiredMsg{gen: 1})
	assert.True(t, m.notice.Active(), "an older expiry leaves the newer copy up")

	m, _ = update(m, copyExpiredMsg{gen: 2})
	assert.False(t, m.notice.Active())
}

func TestDetail_QRToggle(t *testing.T) {
	m, _, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 45})
	m, _ = update(m, compareDoneMsg{gen: m.gen, results: sampleResults()})
	m, _ = update(m, press("enter"))
	require.True(t, m.detail)
	assert.NotContains(t, m.View(), "▀")

	m, _ = update(m, press("Q"))
	assert.True(t, m.showQR)
	out := m.View()
	assert.Contains(t, out, "https://qazzerep.kz/verify/abc123")
	assert.True(t, strings.Contains(out, "▀") || strings.Contains(out, "▄"), "QR blocks rendered")

	m, _ = update(m, press("esc"))
	assert.False(t, m.showQR)
	assert.True(t, m.detail, "esc closes the QR before the detail view")

	m, _ = update(m, press("Q"))
	m, _ = update(m, press("Q"))
	assert.False(t, m.showQR)
}

func TestRecalc_ReplacesScoresKeepsIdentity(t *testing.T) {
	m, b, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	b.recalc = &model.Comparison{Originality: 90}
	m, _ = update(m, compareDoneMsg{gen: m.gen, results: sampleResults()})
	m, _ = update(m, press("enter"))

	m, _ = update(m, press("e"))
	require.Equal(t, ModeRecalc, m.mode)
	assert.Equal(t, "alpha", m.editA.Value())
	assert.Equal(t, "beta", m.editB.Value())

	m, cmd := update(m, press("ctrl+s"))
	require.NotNil(t, cmd)

	m, _ = update(m, m.recalcCmd(m.cursor, m.results[0], m.editA.Value(), m.editB.Value())())
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 90.0, m.results[0].Originality)
	assert.Equal(t, "abc123", m.results[0].ReportID)
}

func TestAdminGuard(t *testing.T) {
	m, _, _ := newTestModel(t, &model.User{Email: "student@b.kz"})
	m, _ = update(m, press("4"))
	assert.Equal(t, router.ViewDashboard, m.CurrentView(), "non-admins are sent home")

	m, b, _ := newTestModel(t, &model.User{Email: adminEmail})
	b.docs = []model.AdminDocument{{ID: "65f0aa11c0ffee01", Owner: "u@x.kz", HashCount: 12}}
	m, _ = update(m, press("4"))
	require.Equal(t, router.ViewAdmin, m.CurrentView())

	m, _ = update(m, m.loadDocsCmd()())
	assert.Contains(t, m.View(), "NODE_C0FFEE01")

	m, _ = update(m, press("d"))
	require.Equal(t, ModeConfirm, m.mode)
	m, _ = update(m, press("y"))
	m, _ = update(m, m.deleteDocCmd("65f0aa11c0ffee01")())
	assert.Equal(t, []string{"65f0aa11c0ffee01"}, b.deleted)
	assert.Empty(t, m.docs)
}

func TestHistory_ClearDisabledWhenEmpty(t *testing.T) {
	m, b, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	m, _ = update(m, press("2"))
	m, _ = update(m, m.loadHistoryCmd()())

	m, _ = update(m, press("C"))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "History is empty", m.message)
	assert.Equal(t, 0, b.cleared)
}

func TestHistory_ClearAfterConfirm(t *testing.T) {
	m, b, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	b.sessions = []model.HistorySession{{ID: "1", TotalPairs: 1, Comparisons: sampleResults()[:1]}}
	m, _ = update(m, press("2"))
	m, _ = update(m, m.loadHistoryCmd()())
	require.Len(t, m.sessions, 1)

	m, _ = update(m, press("C"))
	require.Equal(t, ModeConfirm, m.mode)
	m, _ = update(m, press("y"))
	assert.True(t, m.busy)

	m, _ = update(m, m.clearHistoryCmd()())
	assert.Equal(t, 1, b.cleared)
	assert.Empty(t, m.sessions)
	assert.Equal(t, "History cleared", m.message)
}

func TestHistory_OpenSessionShowsResults(t *testing.T) {
	m, b, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	b.sessions = []model.HistorySession{{ID: "1", TotalPairs: 2, Comparisons: sampleResults()}}
	m, _ = update(m, press("2"))
	m, _ = update(m, m.loadHistoryCmd()())

	m, _ = update(m, press("enter"))
	assert.Equal(t, router.ViewDashboard, m.CurrentView())
	assert.Len(t, m.results, 2)
}

func TestUnauthorizedLogsOut(t *testing.T) {
	m, _, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	m, _ = update(m, compareDoneMsg{gen: m.gen, err: &api.Error{StatusCode: 401}})

	assert.Equal(t, router.ViewLogin, m.CurrentView())
	assert.Equal(t, "Session expired, please log in again", m.message)
	assert.False(t, m.deps.Session.Snapshot().HasToken())
}

func TestGoto_VerifyIsPublic(t *testing.T) {
	m, b, _ := newTestModel(t, nil)
	b.public = &model.PublicReport{ReportID: "XYZ", Pair: "A vs B", Originality: 30}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.Equal(t, ModeInput, m.mode)
	m.input.SetValue("/verify/XYZ")
	m, _ = update(m, press("enter"))

	require.Equal(t, router.ViewVerify, m.CurrentView())
	assert.Equal(t, "XYZ", m.match.Param("reportId"))

	m, _ = update(m, m.loadPublicCmd("XYZ")())
	view := m.View()
	assert.Contains(t, view, "Report is authentic")
	assert.Contains(t, view, "Critical overlap level")
}

func TestInfoPages(t *testing.T) {
	m, _, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	m, _ = update(m, press("5"))
	assert.Equal(t, router.ViewInfo, m.CurrentView())
	assert.True(t, m.page.Found)

	m, _ = update(m, press(":"))
	m.input.SetValue("/no/such/page")
	m, _ = update(m, press("enter"))
	assert.Equal(t, router.ViewNotFound, m.CurrentView())
	assert.False(t, m.page.Found)
	assert.Contains(t, m.View(), "Page not found")
}

func TestProfile_ToggleAndSave(t *testing.T) {
	m, b, _ := newTestModel(t, &model.User{Email: "s@b.kz", Settings: model.Settings{ActiveRules: []string{model.RuleGOST}}})
	m, _ = update(m, press("3"))
	require.Equal(t, router.ViewProfile, m.CurrentView())

	m, _ = update(m, press(" "))
	assert.False(t, m.draft.HasRule(model.RuleGOST))
	m, _ = update(m, press("down"))
	m, _ = update(m, press(" "))
	assert.True(t, m.draft.HasRule(model.RuleAPA))

	m, _ = update(m, press("s"))
	m, _ = update(m, m.saveSettingsCmd(m.draft)())
	require.Len(t, b.saved, 1)
	assert.Equal(t, []string{model.RuleAPA}, b.saved[0].ActiveRules)
	assert.Equal(t, "CONFIG_SYNCED", m.message)
	assert.True(t, m.deps.Session.Snapshot().User.Settings.HasRule(model.RuleAPA))
}

func TestProfile_DisplayNamePrompt(t *testing.T) {
	m, b, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	m, _ = update(m, press("3"))

	m, _ = update(m, press("n"))
	require.Equal(t, ModeInput, m.mode)
	assert.Contains(t, m.View(), "Public Name")
	m, _ = update(m, press("Aru"))
	m, _ = update(m, press("enter"))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "Aru", m.draft.DisplayName)
	assert.Contains(t, m.View(), "Aru")

	m, _ = update(m, press("s"))
	m, _ = update(m, m.saveSettingsCmd(m.draft)())
	require.Len(t, b.saved, 1)
	assert.Equal(t, "Aru", b.saved[0].DisplayName)
}

func TestProfile_ChangePasswordPrompts(t *testing.T) {
	m, b, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	m, _ = update(m, press("3"))

	m, _ = update(m, press("p"))
	require.Equal(t, promptOldPassword, m.prompt)
	assert.Contains(t, m.View(), "Current Password")
	m, _ = update(m, press("old pw"))
	assert.NotContains(t, m.View(), "old pw")
	m, _ = update(m, press("enter"))

	require.Equal(t, ModeInput, m.mode)
	require.Equal(t, promptNewPassword, m.prompt)
	assert.Contains(t, m.View(), "New Password")
	m, _ = update(m, press("n3w"))
	m, cmd := update(m, press("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Empty(t, m.oldPassword)
	assert.Empty(t, m.input.Value())

	m, _ = update(m, m.changePasswordCmd("old pw", "n3w")())
	require.Len(t, b.passwords, 1)
	assert.Equal(t, [2]string{"old pw", "n3w"}, b.passwords[0])
	assert.False(t, m.busy)
	assert.Equal(t, "PASSWORD_UPDATED", m.message)
}

func TestProfile_PasswordPromptCancel(t *testing.T) {
	m, b, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	m, _ = update(m, press("3"))
	m, _ = update(m, press("p"))
	m, _ = update(m, press("old"))
	m, _ = update(m, press("enter"))
	m, _ = update(m, press("esc"))

	assert.Equal(t, ModeNormal, m.mode)
	assert.Empty(t, m.oldPassword)
	assert.Empty(t, b.passwords)
}

func TestThemeAndLanguageCycle(t *testing.T) {
	m, _, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	m, _ = update(m, press("t"))
	assert.Equal(t, theme.Light, m.deps.Theme.Preference())

	m, _ = update(m, press("g"))
	assert.Equal(t, i18n.Rus, m.tr.Lang())
}

func TestLogout(t *testing.T) {
	m, _, _ := newTestModel(t, &model.User{Email: "s@b.kz"})
	m, _ = update(m, compareDoneMsg{gen: m.gen, results: sampleResults()})
	m, _ = update(m, press("L"))

	assert.Equal(t, router.ViewLogin, m.CurrentView())
	assert.Empty(t, m.results)
	assert.False(t, m.deps.Session.Snapshot().HasToken())
}
