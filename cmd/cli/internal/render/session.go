package render

import (
	"time"

	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

type sessionView struct {
	Authenticated bool         `json:"authenticated" yaml:"authenticated"`
	User          *models.User `json:"user,omitempty" yaml:"user,omitempty"`
	APIURL        string       `json:"api_url" yaml:"api_url"`
	ExpiresAt     string       `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// Session writes the sign-in state. expires is the zero time when unknown.
func (r *Renderer) Session(authenticated bool, user *models.User, apiURL string, expires time.Time) error {
	view := sessionView{Authenticated: authenticated, User: user, APIURL: apiURL}
	if !expires.IsZero() {
		view.ExpiresAt = expires.Format(time.RFC3339)
	}
	if r.Structured() {
		return r.Encode(view)
	}

	r.Println()
	if !authenticated || user == nil {
		r.Printf("Status: %s\n", r.Badge(models.BadgeMuted, "Not logged in"))
		r.Printf("API: %s\n", apiURL)
		r.Println()
		return nil
	}

	r.Printf("Status: %s\n", r.Badge(models.BadgeSuccess, "Logged in"))
	r.field("Username", user.Username)
	r.field("Role", user.Role)
	r.field("API", apiURL)
	if view.ExpiresAt != "" {
		label := view.ExpiresAt
		if time.Now().After(expires) {
			label = r.Badge(models.BadgeDanger, label+" (expired)")
		}
		r.Printf("Token Expires: %s\n", label)
	}
	r.Println()
	return nil
}
