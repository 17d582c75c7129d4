package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/qazzerep/internal/admin"
	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/history"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/profile"
	"github.com/existflow/qazzerep/internal/report"
)

// sessionReadyMsg is sent once the persisted session has been restored
type sessionReadyMsg struct {
	err error
}

// authDoneMsg is sent when login or registration finished
type authDoneMsg struct {
	gen uint64
	err error
}

type compareDoneMsg struct {
	gen     uint64
	results []model.Comparison
	err     error
}

type recalcDoneMsg struct {
	gen    uint64
	index  int
	result model.Comparison
	err    error
}

type historyLoadedMsg struct {
	gen      uint64
	sessions []model.HistorySession
	err      error
}

type historyClearedMsg struct {
	gen uint64
	err error
}

type docsLoadedMsg struct {
	gen  uint64
	docs []model.AdminDocument
	err  error
}

type publicLoadedMsg struct {
	gen    uint64
	report *model.PublicReport
	err    error
}

type settingsSavedMsg struct {
	gen uint64
	err error
}

type avatarUploadedMsg struct {
	gen uint64
	url string
	err error
}

type passwordChangedMsg struct {
	gen uint64
	err error
}

// copyExpiredMsg clears the copy notice raised with the same gen
type copyExpiredMsg struct {
	gen uint64
}

func (m Model) initSession() tea.Cmd {
	sess := m.deps.Session
	return func() tea.Msg {
		return sessionReadyMsg{err: sess.Init(context.Background())}
	}
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	ctx, gen, b, sess := m.ctx, m.gen, m.deps.Backend, m.deps.Session
	return func() tea.Msg {
		token, err := b.Login(ctx, strings.TrimSpace(email), password)
		if err == nil {
			err = sess.Login(ctx, token)
		}
		return authDoneMsg{gen: gen, err: err}
	}
}

func (m Model) registerCmd(r api.RegisterRequest) tea.Cmd {
	ctx, gen, b, sess := m.ctx, m.gen, m.deps.Backend, m.deps.Session
	return func() tea.Msg {
		token, err := b.Register(ctx, r)
		if err == nil {
			err = sess.Login(ctx, token)
		}
		return authDoneMsg{gen: gen, err: err}
	}
}

func (m Model) compareCmd(paths []string) tea.Cmd {
	ctx, gen, c := m.ctx, m.gen, m.comparer
	files := append([]string(nil), paths...)
	return func() tea.Msg {
		res, err := c.CompareFiles(ctx, files)
		return compareDoneMsg{gen: gen, results: res, err: err}
	}
}

func (m Model) recalcCmd(index int, prev model.Comparison, textA, textB string) tea.Cmd {
	ctx, gen, c := m.ctx, m.gen, m.comparer
	return func() tea.Msg {
		res, err := c.Recalculate(ctx, prev, textA, textB)
		return recalcDoneMsg{gen: gen, index: index, result: res, err: err}
	}
}

func (m Model) loadHistoryCmd() tea.Cmd {
	ctx, gen, b := m.ctx, m.gen, m.deps.Backend
	return func() tea.Msg {
		sessions, err := history.Load(ctx, b)
		return historyLoadedMsg{gen: gen, sessions: sessions, err: err}
	}
}

func (m Model) clearHistoryCmd() tea.Cmd {
	ctx, gen, b, sessions := m.ctx, m.gen, m.deps.Backend, m.sessions
	return func() tea.Msg {
		_, err := history.Clear(ctx, b, sessions, confirmed, "")
		return historyClearedMsg{gen: gen, err: err}
	}
}

func (m Model) loadDocsCmd() tea.Cmd {
	ctx, gen, b := m.ctx, m.gen, m.deps.Backend
	return func() tea.Msg {
		docs, err := admin.List(ctx, b)
		return docsLoadedMsg{gen: gen, docs: docs, err: err}
	}
}

func (m Model) deleteDocCmd(id string) tea.Cmd {
	ctx, gen, b := m.ctx, m.gen, m.deps.Backend
	return func() tea.Msg {
		docs, err := admin.DeleteAndRefresh(ctx, b, id, confirmed, "")
		return docsLoadedMsg{gen: gen, docs: docs, err: err}
	}
}

func (m Model) loadPublicCmd(id string) tea.Cmd {
	ctx, gen, b := m.ctx, m.gen, m.deps.Backend
	return func() tea.Msg {
		r, err := b.PublicReport(ctx, id)
		return publicLoadedMsg{gen: gen, report: r, err: err}
	}
}

func (m Model) saveSettingsCmd(s model.Settings) tea.Cmd {
	ctx, gen, b, sess := m.ctx, m.gen, m.deps.Backend, m.deps.Session
	return func() tea.Msg {
		return settingsSavedMsg{gen: gen, err: profile.SaveSettings(ctx, b, sess, s)}
	}
}

func (m Model) uploadAvatarCmd(path string) tea.Cmd {
	ctx, gen, b, sess := m.ctx, m.gen, m.deps.Backend, m.deps.Session
	return func() tea.Msg {
		url, err := profile.UploadAvatarFile(ctx, b, sess, path)
		return avatarUploadedMsg{gen: gen, url: url, err: err}
	}
}

func (m Model) changePasswordCmd(oldPassword, newPassword string) tea.Cmd {
	ctx, gen, b := m.ctx, m.gen, m.deps.Backend
	return func() tea.Msg {
		return passwordChangedMsg{gen: gen, err: profile.ChangePassword(ctx, b, oldPassword, newPassword)}
	}
}

func copyExpireCmd(gen uint64) tea.Cmd {
	return tea.Tick(report.CopyNoticeDuration, func(time.Time) tea.Msg {
		return copyExpiredMsg{gen: gen}
	})
}

// confirmed is passed to workflows after the TUI modal already asked
func confirmed(string) bool { return true }
