// Package router maps paths to views and decides whether a view may render.
package router

import (
	"net/http"
	"strings"

	"github.com/existflow/qazzerep/internal/session"
	"github.com/labstack/echo/v4"
)

// View identifies a screen
type View string

const (
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewDashboard View = "dashboard"
	ViewHistory   View = "history"
	ViewProfile   View = "profile"
	ViewAdmin     View = "admin"
	ViewVerify    View = "verify"
	ViewInfo      View = "info"
	ViewNotFound  View = "not-found"
)

// Paths used for redirects
const (
	PathLogin = "/login"
	PathHome  = "/"
)

// Route binds a path pattern to a view and its access rules
type Route struct {
	Path          string
	View          View
	RequiresAuth  bool
	RequiresAdmin bool
}

// DefaultRoutes is the application route table. Static paths take
// precedence over /:slug.
var DefaultRoutes = []Route{
	{Path: "/login", View: ViewLogin},
	{Path: "/register", View: ViewRegister},
	{Path: "/verify/:reportId", View: ViewVerify},
	{Path: "/", View: ViewDashboard, RequiresAuth: true},
	{Path: "/history", View: ViewHistory, RequiresAuth: true},
	{Path: "/profile", View: ViewProfile, RequiresAuth: true},
	{Path: "/admin", View: ViewAdmin, RequiresAuth: true, RequiresAdmin: true},
	{Path: "/:slug", View: ViewInfo},
}

// Match is a resolved path
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// Param returns a path parameter or ""
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Table matches paths with echo's radix router
type Table struct {
	e      *echo.Echo
	routes map[string]Route
}

// NewTable builds a table from routes
func NewTable(routes []Route) *Table {
	t := &Table{e: echo.New(), routes: make(map[string]Route, len(routes))}
	noop := func(echo.Context) error { return nil }
	for _, r := range routes {
		t.e.GET(r.Path, noop)
		t.routes[r.Path] = r
	}
	return t
}

// Match resolves path. Unknown paths yield ViewNotFound and false.
func (t *Table) Match(path string) (Match, bool) {
	path = normalize(path)

	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return Match{Route: Route{View: ViewNotFound}, Path: path}, false
	}
	c := t.e.NewContext(req, nil)
	t.e.Router().Find(http.MethodGet, req.URL.Path, c)

	route, ok := t.routes[c.Path()]
	if !ok {
		return Match{Route: Route{View: ViewNotFound}, Path: path}, false
	}

	// echo lets a trailing param run past '/'; a param is one segment
	params := make(map[string]string, len(c.ParamNames()))
	for _, name := range c.ParamNames() {
		v := c.Param(name)
		if strings.Contains(v, "/") {
			return Match{Route: Route{View: ViewNotFound}, Path: path}, false
		}
		params[name] = v
	}
	return Match{Route: route, Path: path, Params: params}, true
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PathHome
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// Resolution is what the caller should do for a path
type Resolution struct {
	Match    Match
	Decision Decision
	// Pending means the session is still resolving; render nothing yet
	Pending bool
}

// Target is the path to show: the requested one, or the redirect
func (r Resolution) Target() string {
	switch r.Decision {
	case RedirectToLogin:
		return PathLogin
	case RedirectToHome:
		return PathHome
	default:
		return r.Match.Path
	}
}

// Resolve matches path and applies the guard against snap
func (t *Table) Resolve(path string, snap session.Snapshot, g Guard) Resolution {
	m, _ := t.Match(path)
	route := m.Route

	if (route.RequiresAuth || route.RequiresAdmin) && snap.HasToken() && snap.State == session.Loading {
		return Resolution{Match: m, Pending: true}
	}

	return Resolution{
		Match: m,
		Decision: g.Decide(Input{
			HasToken:       snap.HasToken(),
			UserIdentifier: snap.Identifier(),
			RequiresAuth:   route.RequiresAuth,
			RequiresAdmin:  route.RequiresAdmin,
		}),
	}
}
