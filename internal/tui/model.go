package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/qazzerep/internal/admin"
	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/history"
	"github.com/existflow/qazzerep/internal/i18n"
	"github.com/existflow/qazzerep/internal/info"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/profile"
	"github.com/existflow/qazzerep/internal/report"
	"github.com/existflow/qazzerep/internal/router"
	"github.com/existflow/qazzerep/internal/session"
	"github.com/existflow/qazzerep/internal/theme"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeInput
	ModeConfirm
	ModeRecalc
	ModeHelp
)

// prompt identifies what the input modal collects
type prompt int

const (
	promptNone prompt = iota
	promptAddFile
	promptGoto
	promptRegex
	promptAvatar
	promptName
	promptOldPassword
	promptNewPassword
)

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmClearHistory
	confirmDeleteDocument
)

// Login form fields
const (
	fieldEmail = iota
	fieldPassword
	fieldFullName
	fieldSchool
	fieldSchoolCode
)

// Backend is the part of the API the TUI talks to
type Backend interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, r api.RegisterRequest) (string, error)
	PublicReport(ctx context.Context, reportID string) (*model.PublicReport, error)
	report.Backend
	history.Backend
	admin.Backend
	profile.Backend
}

// Deps wires the TUI to the rest of the application
type Deps struct {
	Backend         Backend
	Session         *session.Store
	Theme           *theme.Store
	Catalog         *i18n.Catalog
	Routes          *router.Table
	Guard           router.Guard
	Clipboard       report.Clipboard
	PublicURL       string
	ProcessingFloor time.Duration
	ConfirmDelete   bool
}

// Model is the main TUI model
type Model struct {
	deps     Deps
	comparer *report.Comparer
	tr       *i18n.Catalog

	// UI state
	width   int
	height  int
	mode    Mode
	booting bool
	busy    bool
	spinner spinner.Model
	message string
	isError bool

	// Navigation. gen changes on every navigation; async results
	// carrying an older gen are dropped.
	startPath string
	pending   string
	match     router.Match
	gen       uint64
	ctx       context.Context
	cancel    context.CancelFunc

	// Login and register forms
	form      []textinput.Model
	formFocus int
	role      string

	// Modal input
	prompt prompt
	input  textinput.Model

	confirm  confirmAction
	question string

	// Dashboard
	files      []string
	fileCursor int
	results    []model.Comparison
	cursor     int
	detail     bool
	showQR     bool
	notice     *report.CopyNotice

	// Recalculation editor
	editA     textarea.Model
	editB     textarea.Model
	editFocus int

	sessions   []model.HistorySession
	histCursor int

	docs      []model.AdminDocument
	docCursor int

	draft       model.Settings
	ruleCursor  int
	oldPassword string

	public    *model.PublicReport
	publicErr error

	page info.Page
}

// New creates the model. startPath is resolved once the session has
// been restored.
func New(deps Deps, startPath string) Model {
	if deps.Clipboard == nil {
		deps.Clipboard = report.SystemClipboard{}
	}
	if deps.Routes == nil {
		deps.Routes = router.NewTable(router.DefaultRoutes)
	}
	if deps.Catalog == nil {
		deps.Catalog = i18n.MustLoad(i18n.Fallback)
	}

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		deps:      deps,
		comparer:  report.NewComparer(deps.Backend, deps.ProcessingFloor),
		tr:        deps.Catalog,
		booting:   true,
		spinner:   sp,
		startPath: startPath,
		ctx:       ctx,
		cancel:    cancel,
		input:     ti,
		role:      model.RoleStudent,
		notice:    &report.CopyNotice{},
		match:     router.Match{Route: router.Route{View: router.ViewLogin}, Path: router.PathLogin},
	}
	m.resetForm()
	return m
}

// CurrentView returns the active view
func (m Model) CurrentView() router.View {
	return m.match.Route.View
}

// Path returns the active path
func (m Model) Path() string {
	return m.match.Path
}

func (m Model) currentComparison() *model.Comparison {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return nil
	}
	return &m.results[m.cursor]
}

func (m Model) currentSession() *model.HistorySession {
	if m.histCursor < 0 || m.histCursor >= len(m.sessions) {
		return nil
	}
	return &m.sessions[m.histCursor]
}

func (m Model) currentDocument() *model.AdminDocument {
	if m.docCursor < 0 || m.docCursor >= len(m.docs) {
		return nil
	}
	return &m.docs[m.docCursor]
}

// resetForm builds the inputs for the login or register view
func (m *Model) resetForm() {
	labels := []string{
		m.tr.T("auth.email_label"),
		m.tr.T("auth.pass_label"),
		m.tr.T("auth.full_name"),
		m.tr.T("auth.school"),
		m.tr.T("auth.school_code"),
	}
	n := 2
	if m.CurrentView() == router.ViewRegister {
		n = len(labels)
	}

	m.form = make([]textinput.Model, n)
	for i := range m.form {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = 256
		ti.Width = 40
		if i == fieldPassword {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		m.form[i] = ti
	}
	m.formFocus = 0
	m.form[0].Focus()
}

func (m *Model) focusForm(i int) {
	if len(m.form) == 0 {
		return
	}
	i = (i + len(m.form)) % len(m.form)
	for j := range m.form {
		m.form[j].Blur()
	}
	m.formFocus = i
	m.form[i].Focus()
}

func (m *Model) setStatus(msg string) {
	m.message = msg
	m.isError = false
}

func (m *Model) setError(msg string) {
	m.message = msg
	m.isError = true
}
