package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/i18n"
	"github.com/existflow/qazzerep/internal/logger"
	"github.com/existflow/qazzerep/internal/report"
	"github.com/existflow/qazzerep/internal/router"
	"github.com/existflow/qazzerep/internal/session"
	"github.com/existflow/qazzerep/internal/storage"
	"github.com/existflow/qazzerep/internal/theme"
	"github.com/existflow/qazzerep/internal/tui"
)

// errNotLoggedIn is returned by commands that need a session
var errNotLoggedIn = errors.New("not logged in, run 'qazzerep auth login' first")

// app bundles the services a command needs
type app struct {
	store   *storage.SQLite
	client  *api.Client
	session *session.Store
	theme   *theme.Store
	tr      *i18n.Catalog
	guard   router.Guard
	routes  *router.Table
}

// openApp opens local storage and restores the session. With
// requireLogin, a missing or rejected session is an error.
func openApp(ctx context.Context, requireLogin bool) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := storage.OpenDefault()
	if err != nil {
		logger.Error("Failed to open database", logger.F("error", err))
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	lang, err := i18n.ParseLang(cfg.Language)
	if err != nil {
		logger.Warn("Unknown language, using fallback", logger.F("lang", cfg.Language))
		lang = i18n.Fallback
	}
	tr, err := i18n.Load(lang)
	if err != nil {
		store.Close()
		return nil, err
	}

	client := api.NewClient(cfg.APIURL, store, api.WithTimeout(cfg.Timeout()))
	a := &app{
		store:   store,
		client:  client,
		session: session.NewStore(store, client),
		theme:   theme.NewStore(store),
		tr:      tr,
		guard:   router.Guard{AdminIdentity: cfg.AdminIdentity},
		routes:  router.NewTable(router.DefaultRoutes),
	}

	if err := a.theme.Load(ctx); err != nil {
		logger.Warn("Failed to load theme", logger.F("error", err))
	}

	if err := a.session.Init(ctx); err != nil {
		if requireLogin {
			a.Close()
			return nil, fmt.Errorf("%s: %w", tr.T("errors.session_expired"), err)
		}
		logger.Warn("Stored session rejected", logger.F("error", err))
	}
	if requireLogin && !a.session.Snapshot().HasToken() {
		a.Close()
		return nil, errNotLoggedIn
	}
	return a, nil
}

// Close releases local storage
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("Failed to close database", logger.F("error", err))
	}
}

// authorize applies the route guard to path for CLI commands
func (a *app) authorize(path string) error {
	res := a.routes.Resolve(path, a.session.Snapshot(), a.guard)
	switch res.Decision {
	case router.RedirectToLogin:
		return errNotLoggedIn
	case router.RedirectToHome:
		return fmt.Errorf("%s requires administrator access", path)
	}
	return nil
}

func (a *app) comparer() *report.Comparer {
	return report.NewComparer(a.client, 0)
}

func (a *app) tuiDeps() tui.Deps {
	return tui.Deps{
		Backend:         a.client,
		Session:         a.session,
		Theme:           a.theme,
		Catalog:         a.tr,
		Routes:          a.routes,
		Guard:           a.guard,
		Clipboard:       report.SystemClipboard{},
		PublicURL:       cfg.PublicURL,
		ProcessingFloor: cfg.ProcessingFloor(),
		ConfirmDelete:   cfg.ConfirmDelete,
	}
}

// confirm asks a y/N question on in
func confirm(in io.Reader, question string) bool {
	fmt.Fprintf(stdout, "%s (y/N): ", question)
	reader := bufio.NewReader(in)
	response, _ := reader.ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// stdinConfirm is the interactive confirmation used by commands
func stdinConfirm(question string) bool {
	return confirm(os.Stdin, question)
}

// confirmer returns a confirmation that skips the prompt when set or when
// the config disables delete confirmations
func confirmer(force bool) func(string) bool {
	if force || !cfg.ConfirmDelete {
		return func(string) bool { return true }
	}
	return stdinConfirm
}

// prompt reads one trimmed line
func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
