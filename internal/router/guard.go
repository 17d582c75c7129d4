package router

import "strings"

// Decision is the guard outcome
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-login"
	case RedirectToHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Input is everything the guard looks at
type Input struct {
	HasToken       bool
	UserIdentifier string
	RequiresAuth   bool
	RequiresAdmin  bool
}

// Guard decides access. Admin access is an allow-list of one identity.
// Profile roles are chosen at registration and never grant admin access.
// It is not a permission system; the backend enforces the real checks.
type Guard struct {
	AdminIdentity string
}

// Decide returns the access decision for in
func (g Guard) Decide(in Input) Decision {
	if !in.RequiresAuth && !in.RequiresAdmin {
		return Allow
	}
	if !in.HasToken {
		return RedirectToLogin
	}
	if !in.RequiresAdmin {
		return Allow
	}
	if g.AdminIdentity != "" && in.UserIdentifier != "" &&
		strings.EqualFold(in.UserIdentifier, g.AdminIdentity) {
		return Allow
	}
	return RedirectToHome
}
