package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/apitest"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/config"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/shell"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/eaw-compliance/eaw-cli/pkg/keyring"
	"github.com/eaw-compliance/eaw-cli/pkg/logger"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

// setup points the global app at a fresh fake server and an empty mock keyring
func setup(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.NewServer(t)
	gokeyring.MockInit()

	cfg := config.Default()
	cfg.APIBaseURL = srv.BaseURL()
	app = newApp(cfg, logger.Discard(), keyring.NewKeyringManager(keyring.BackendSystem, "", ""))
	t.Cleanup(func() { app = nil })
	return srv
}

func signIn(t *testing.T, srv *apitest.Server) {
	t.Helper()
	require.NoError(t, app.Session.SetAuth(srv.Token, srv.User))
}

// run executes the command line with stdin and returns everything written
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	shell.ResetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProtectedCommandsRequireLogin(t *testing.T) {
	srv := setup(t)

	for _, args := range [][]string{
		{"dashboard"},
		{"controls", "list"},
		{"poam", "list"},
		{"evidence", "list"},
		{"boundary", "list"},
		{"frameworks", "list"},
		{"auth", "whoami"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := run(t, "", args...)
			assert.ErrorIs(t, err, shell.ErrLoginRequired)
		})
	}
	assert.Empty(t, srv.Requests())
}

func TestPublicCommandsRunLoggedOut(t *testing.T) {
	setup(t)

	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "eaw-cli dev")

	out, err = run(t, "", "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")

	out, err = run(t, "", "nav")
	require.NoError(t, err)
	assert.Contains(t, out, "Compliance Tracker Lite | Guest")
	assert.Contains(t, out, "Upload Evidence")
}

func TestLoginWithFlags(t *testing.T) {
	srv := setup(t)

	out, err := run(t, "", "auth", "login", "-u", "admin", "-p", "admin123")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as admin (admin)")
	assert.True(t, app.Session.IsAuthenticated())
	assert.Equal(t, srv.Token, app.Session.Token())

	out, err = run(t, "", "auth", "status", "-o", "json")
	require.NoError(t, err)
	var status map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, true, status["authenticated"])
	assert.Equal(t, srv.BaseURL(), status["api_url"])
}

func TestLoginPromptsForMissingValues(t *testing.T) {
	setup(t)

	out, err := run(t, "admin\nadmin123\n", "auth", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Username: ")
	assert.Contains(t, out, "Password: ")
	assert.True(t, app.Session.IsAuthenticated())
}

func TestLoginRejected(t *testing.T) {
	setup(t)

	_, err := run(t, "", "auth", "login", "-u", "admin", "-p", "wrong")
	assert.EqualError(t, err, "Invalid credentials")
	assert.False(t, app.Session.IsAuthenticated())

	_, err = run(t, "", "auth", "login", "-u", "admin", "-p", "")
	require.Error(t, err)
}

func TestLogout(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	out, err := run(t, "", "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	assert.False(t, app.Session.IsAuthenticated())

	_, err = run(t, "", "dashboard")
	assert.ErrorIs(t, err, shell.ErrLoginRequired)
}

func TestWhoami(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	out, err := run(t, "", "auth", "whoami", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "username: admin")
}

func TestOutputFormatValidated(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	_, err := run(t, "", "controls", "list", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestDashboard(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	out, err := run(t, "", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "SPRS Score: 62")
	assert.Contains(t, out, "Family Heatmap:")
	assert.Contains(t, out, "POA&M Summary:")
	assert.NotContains(t, out, "sample data")
	assert.NotContains(t, dashboardCmd.Long, "evidence")

	srv.Fail(http.MethodGet, "/dashboard", http.StatusInternalServerError)
	out, err = run(t, "", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "showing sample data")
	assert.Contains(t, out, "SPRS Score: 47 (Fair)")
}

func TestControlsList(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	out, err := run(t, "", "controls", "list", "--family", "ac")
	require.NoError(t, err)
	assert.Contains(t, out, "3.1.1")
	assert.Contains(t, out, "3.1.2")
	assert.NotContains(t, out, "3.3.1")
	assert.Contains(t, out, "2 of 5 controls shown")

	out, err = run(t, "", "controls", "list", "--search", "multifactor", "-o", "json")
	require.NoError(t, err)
	var controls []models.Control
	require.NoError(t, json.Unmarshal([]byte(out), &controls))
	require.Len(t, controls, 1)
	assert.Equal(t, "ctl-4", controls[0].ID)

	_, err = run(t, "", "controls", "list", "--status", "done")
	assert.ErrorContains(t, err, "invalid implementation status")
}

func TestControlsShowAndNotFound(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	out, err := run(t, "", "controls", "show", "ctl-1")
	require.NoError(t, err)
	assert.Contains(t, out, "3.1.1")
	assert.Contains(t, out, "Access Control Policy")

	_, err = run(t, "", "controls", "show", "nope")
	assert.EqualError(t, err, "control not found: nope")

	srv.Fail(http.MethodGet, "/controls/ctl-1", http.StatusInternalServerError)
	_, err = run(t, "", "controls", "show", "ctl-1")
	assert.EqualError(t, err, "failed to load control ctl-1")
}

func TestControlsFamilies(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	out, err := run(t, "", "controls", "families")
	require.NoError(t, err)
	assert.Contains(t, out, "Access Control")
	assert.Contains(t, out, "fam-sc")

	srv.Fail(http.MethodGet, "/controls/families", http.StatusInternalServerError)
	out, err = run(t, "", "controls", "families")
	require.NoError(t, err)
	assert.Contains(t, out, "No control families found")
}

func TestControlsUpdateKeepsUnchangedFields(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	out, err := run(t, "", "controls", "update", "ctl-3", "--status", "planned", "--assessor-notes", "reviewed")
	require.NoError(t, err)
	assert.Contains(t, out, "Control 3.3.1 saved")

	req, ok := srv.Last(http.MethodPut, "/controls/ctl-3")
	require.True(t, ok)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "planned", body["implementation_status"])
	assert.Equal(t, "reviewed", body["assessor_notes"])
	assert.Contains(t, body, "implementation_notes")
}

func TestControlsSetStatusAndObjective(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	out, err := run(t, "", "controls", "set-status", "ctl-5", "implemented")
	require.NoError(t, err)
	assert.Contains(t, out, "Control 3.13.1 is now Implemented")

	_, err = run(t, "", "controls", "set-status", "ctl-5", "finished")
	assert.ErrorContains(t, err, "invalid implementation status")

	out, err = run(t, "", "controls", "objective", "ctl-1", "obj-1b")
	require.NoError(t, err)
	assert.Contains(t, out, "Objective obj-1b is now Not Assessed")

	out, err = run(t, "", "controls", "objective", "ctl-1", "obj-1a", "not_met")
	require.NoError(t, err)
	assert.Contains(t, out, "Objective obj-1a is now Not Met")

	_, err = run(t, "", "controls", "objective", "ctl-1", "obj-9z")
	assert.ErrorIs(t, err, views.ErrUnknownObjective)
}

func TestPOAMCommands(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	out, err := run(t, "", "poam", "list", "--risk", "critical")
	require.NoError(t, err)
	assert.Contains(t, out, "3.5.3")
	assert.Contains(t, out, "1 of 2 items shown")

	_, err = run(t, "", "poam", "add", "--control", "ctl-5")
	assert.EqualError(t, err, "weakness is required")
	assert.Zero(t, srv.Count(http.MethodPost, "/poam"))

	out, err = run(t, "", "poam", "add", "--control", "ctl-5", "--weakness", "No boundary monitoring", "--due", "2026-12-31")
	require.NoError(t, err)
	assert.Contains(t, out, "POA&M item created")
	req, ok := srv.Last(http.MethodPost, "/poam")
	require.True(t, ok)
	assert.JSONEq(t, `{
		"control_id": "ctl-5",
		"weakness_description": "No boundary monitoring",
		"remediation_plan": "",
		"risk_level": "moderate",
		"responsible_person": "",
		"planned_completion_date": "2026-12-31",
		"status": "open"
	}`, string(req.Body))

	out, err = run(t, "", "poam", "set-status", "poam-1", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "POA&M item poam-1 is now Completed")

	_, err = run(t, "", "poam", "delete", "poam-2")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Count(http.MethodDelete, "/poam/poam-2"))
}

func TestEvidenceCommands(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	out, err := run(t, "", "evidence", "list", "--type", "screenshot")
	require.NoError(t, err)
	assert.Contains(t, out, "MFA Screenshot")
	assert.NotContains(t, out, "Access Control Policy")

	_, err = run(t, "", "evidence", "add", "--control", "ctl-2")
	assert.EqualError(t, err, "title is required")

	out, err = run(t, "", "evidence", "add", "--control", "ctl-2", "--title", "Session Lock Config", "--type", "configuration")
	require.NoError(t, err)
	assert.Contains(t, out, `Evidence "Session Lock Config" added`)
	req, ok := srv.Last(http.MethodPost, "/evidence")
	require.True(t, ok)
	assert.Contains(t, string(req.Body), `"description":null`)

	_, err = run(t, "", "evidence", "delete", "ev-1")
	require.NoError(t, err)
}

func TestEvidenceTemplate(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	out, err := run(t, "", "evidence", "template")
	require.NoError(t, err)
	assert.Equal(t, "control_number,evidence_type,title,description,external_url\n", out)

	srv.Fail(http.MethodGet, "/evidence/template", http.StatusNotFound)
	path := filepath.Join(t.TempDir(), "template.csv")
	_, err = run(t, "", "evidence", "template", "-f", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "control_number,evidence_type,title"))
	assert.Greater(t, strings.Count(string(data), "\n"), 1)
}

func TestEvidenceUpload(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)
	srv.BulkResult = models.BulkUploadResult{
		Created: 1,
		Errors:  []models.BulkUploadError{{Row: 3, Message: "Control 9.9.9 not found"}},
	}

	content := "control_number,evidence_type,title\n3.1.1,policy,\"Policy, v2\"\n9.9.9,log,Audit\n"
	path := filepath.Join(t.TempDir(), "evidence.CSV")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := run(t, "", "evidence", "upload", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "evidence.CSV: 2 rows")
	assert.Zero(t, srv.Count(http.MethodPost, "/evidence/bulk"))

	out, err = run(t, "", "evidence", "upload", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully created 1 evidence item(s)")
	assert.Contains(t, out, "Row 3: Control 9.9.9 not found")
	assert.Equal(t, content, string(srv.BulkBody))

	srv.Fail(http.MethodPost, "/evidence/bulk", http.StatusInternalServerError)
	out, err = run(t, "", "evidence", "upload", path)
	require.NoError(t, err)
	assert.Contains(t, out, views.UploadFailedMessage)

	txt := filepath.Join(t.TempDir(), "evidence.txt")
	require.NoError(t, os.WriteFile(txt, []byte(content), 0o600))
	_, err = run(t, "", "evidence", "upload", txt)
	assert.ErrorIs(t, err, views.ErrNotCSV)
}

func TestBoundaryCommands(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	out, err := run(t, "", "boundary", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "4 boundary assets defined")
	assert.Contains(t, out, "CUI Assets (in scope): 1")
	assert.Contains(t, out, "FCI Assets (in scope): 1")

	out, err = run(t, "", "boundary", "toggle-scope", "asset-3")
	require.NoError(t, err)
	assert.Contains(t, out, "Asset asset-3 is now in scope")

	_, err = run(t, "", "boundary", "toggle-scope", "asset-99")
	assert.ErrorContains(t, err, "not loaded")

	_, err = run(t, "", "boundary", "add", "--type", "server")
	assert.EqualError(t, err, "name is required")

	out, err = run(t, "", "boundary", "add", "--name", "Backup Server")
	require.NoError(t, err)
	assert.Contains(t, out, `Asset "Backup Server" added`)
	req, ok := srv.Last(http.MethodPost, "/boundary")
	require.True(t, ok)
	assert.Contains(t, string(req.Body), `"data_classification":"CUI"`)
	assert.Contains(t, string(req.Body), `"in_scope":1`)
}

func TestFrameworks(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)

	out, err := run(t, "", "frameworks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "fw-1")

	_, err = run(t, "", "frameworks", "show", "missing")
	assert.Error(t, err)

	srv.Fail(http.MethodGet, "/frameworks", http.StatusInternalServerError)
	out, err = run(t, "", "frameworks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No frameworks found")
}

func TestCompletionScript(t *testing.T) {
	setup(t)

	out, err := run(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "eaw-cli")

	_, err = run(t, "", "completion", "tcsh")
	assert.Error(t, err)
}
