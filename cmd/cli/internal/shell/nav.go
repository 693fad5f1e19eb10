package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// AppTitle is shown in the header
const AppTitle = "Compliance Tracker Lite"

// NavItem is one navigation entry and the command it opens
type NavItem struct {
	Label   string `json:"label" yaml:"label"`
	Path    string `json:"path" yaml:"path"`
	Command string `json:"command" yaml:"command"`
}

// NavSection groups navigation entries under a title
type NavSection struct {
	Title string    `json:"title" yaml:"title"`
	Items []NavItem `json:"items" yaml:"items"`
}

// Sections is the navigation tree of the application
var Sections = []NavSection{
	{Title: "Overview", Items: []NavItem{
		{Label: "Dashboard", Path: "/", Command: "dashboard"},
	}},
	{Title: "Assessment", Items: []NavItem{
		{Label: "Controls", Path: "/controls", Command: "controls list"},
		{Label: "POA&M Items", Path: "/poam", Command: "poam list"},
	}},
	{Title: "Evidence", Items: []NavItem{
		{Label: "Evidence", Path: "/evidence", Command: "evidence list"},
		{Label: "Upload Evidence", Path: "/upload-evidence", Command: "evidence upload"},
	}},
	{Title: "Scope", Items: []NavItem{
		{Label: "Boundary Assets", Path: "/boundary", Command: "boundary list"},
	}},
}

// Resolve maps a navigation path to its command. Paths of the form
// /controls/<id> open the control detail; unknown paths fall back to the dashboard.
func Resolve(path string) string {
	path = strings.TrimSpace(path)
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for _, s := range Sections {
		for _, item := range s.Items {
			if item.Path == path {
				return item.Command
			}
		}
	}
	if id, ok := strings.CutPrefix(path, "/controls/"); ok && id != "" && !strings.Contains(id, "/") {
		return "controls show " + id
	}
	return "dashboard"
}

// Nav renders the navigation sidebar. Collapsed hides the labels.
type Nav struct {
	Collapsed bool
}

// Toggle flips between expanded and collapsed
func (n *Nav) Toggle() {
	n.Collapsed = !n.Collapsed
}

// Render writes the navigation tree, marking the entry whose path is active
func (n *Nav) Render(w io.Writer, active string) {
	for _, s := range Sections {
		if !n.Collapsed {
			_, _ = fmt.Fprintln(w, strings.ToUpper(s.Title))
		}
		for _, item := range s.Items {
			marker := " "
			if item.Path == active {
				marker = ">"
			}
			if n.Collapsed {
				_, _ = fmt.Fprintf(w, "%s %s\n", marker, item.Path)
				continue
			}
			_, _ = fmt.Fprintf(w, "%s %-18s %s\n", marker, item.Label, item.Path)
		}
	}
}

// Header is the one-line banner with the signed-in user, or Guest
func Header(user *models.User) string {
	if user == nil {
		return AppTitle + " | Guest"
	}
	return fmt.Sprintf("%s | %s (%s)", AppTitle, user.Username, user.Role)
}
