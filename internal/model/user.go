package model

// Rule identifiers understood by the backend's formatting checks
const (
	RuleGOST   = "gost"
	RuleAPA    = "apa"
	RuleTables = "tables"
	RuleTitles = "titles"
)

// KnownRules lists rule ids in display order
var KnownRules = []string{RuleGOST, RuleAPA, RuleTables, RuleTitles}

// Role values the backend may attach to a profile
const (
	RoleAdmin   = "admin"
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"
)

// Settings are the per-user analysis preferences
type Settings struct {
	ActiveRules   []string `json:"active_rules" yaml:"active_rules"`
	CustomRegex   string   `json:"custom_regex" yaml:"custom_regex"`
	ExcludeQuotes bool     `json:"exclude_quotes" yaml:"exclude_quotes"`
	DisplayName   string   `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	SystemEmail   string   `json:"system_email,omitempty" yaml:"system_email,omitempty"`
}

// DefaultSettings mirrors what the backend assigns to new accounts
func DefaultSettings() Settings {
	return Settings{ActiveRules: []string{RuleGOST}}
}

// HasRule reports whether id is active
func (s Settings) HasRule(id string) bool {
	for _, r := range s.ActiveRules {
		if r == id {
			return true
		}
	}
	return false
}

// ToggleRule returns a copy with id switched on or off
func (s Settings) ToggleRule(id string) Settings {
	out := s
	out.ActiveRules = make([]string, 0, len(s.ActiveRules)+1)
	found := false
	for _, r := range s.ActiveRules {
		if r == id {
			found = true
			continue
		}
		out.ActiveRules = append(out.ActiveRules, r)
	}
	if !found {
		out.ActiveRules = append(out.ActiveRules, id)
	}
	return out
}

// User is the profile returned by GET /auth/me
type User struct {
	ID          string   `json:"id,omitempty"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Avatar      string   `json:"avatar"`
	Role        string   `json:"role,omitempty"`
	Sub         string   `json:"sub,omitempty"`
	Settings    Settings `json:"settings"`
}

// Identifier is the value the admin allow-list is checked against
func (u *User) Identifier() string {
	if u == nil {
		return ""
	}
	if u.Sub != "" {
		return u.Sub
	}
	return u.Email
}

// Name returns the display name, falling back to the email
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// UserPatch carries the fields to overwrite in a shallow merge.
// Nil fields are left untouched.
type UserPatch struct {
	DisplayName *string
	Avatar      *string
	Settings    *Settings
}

// Merge returns u with the patch applied. Settings are replaced as a whole.
func (u User) Merge(p UserPatch) User {
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Settings != nil {
		u.Settings = *p.Settings
	}
	return u
}
