package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTable() (*Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&buf, FormatTable, false), &buf
}

func TestUploadResultRendering(t *testing.T) {
	tests := []struct {
		name   string
		result models.BulkUploadResult
		want   string
	}{
		{
			name:   "created with one error",
			result: models.BulkUploadResult{Created: 2, Errors: []models.BulkUploadError{{Row: 3, Message: "control_number not found"}}},
			want:   "✓ Successfully created 2 evidence item(s)\nErrors:\n  Row 3: control_number not found\n",
		},
		{
			name:   "nothing created",
			result: models.BulkUploadResult{Created: 0, Errors: []models.BulkUploadError{{Row: 3, Message: "control_number not found"}}},
			want:   "Errors:\n  Row 3: control_number not found\n",
		},
		{
			name:   "clean upload",
			result: models.BulkUploadResult{Created: 1},
			want:   "✓ Successfully created 1 evidence item(s)\n",
		},
		{
			name:   "failed upload",
			result: views.FailedUpload(),
			want:   "Errors:\n  Row 0: Upload failed. Check file format.\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := newTable()
			require.NoError(t, r.UploadResult(tt.result))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestUploadResultJSONHasErrorArray(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatJSON, false)
	require.NoError(t, r.UploadResult(models.BulkUploadResult{Created: 1}))
	assert.JSONEq(t, `{"created":1,"errors":[]}`, buf.String())
}

func TestEmptyListsRenderEmptyState(t *testing.T) {
	r, buf := newTable()
	require.NoError(t, r.Controls([]models.Control{}, 0))
	require.NoError(t, r.POAM(nil, 0))
	require.NoError(t, r.Evidence(nil, 0))
	assert.Equal(t, "No controls found\nNo POA&M items found\nNo evidence found\n", buf.String())
}

func TestEmptyListJSON(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatJSON, false)
	require.NoError(t, r.Controls([]models.Control{}, 0))
	assert.Equal(t, "[]\n", buf.String())
}

func TestControlsTableAndCounter(t *testing.T) {
	r, buf := newTable()
	controls := []models.Control{
		{ID: "ctl-1", FamilyCode: "AC", ControlNumber: "3.1.1", Title: "Limit access", ControlType: models.ControlTypeBasic, ImplementationStatus: models.StatusPartiallyImplemented, SPRSPointsIfNotMet: 5},
	}
	require.NoError(t, r.Controls(controls, 110))

	out := buf.String()
	assert.Contains(t, out, "Control")
	assert.Contains(t, out, "-------")
	assert.Contains(t, out, "3.1.1")
	assert.Contains(t, out, "Partial")
	assert.True(t, strings.HasSuffix(out, "1 of 110 controls shown\n"))
}

func TestBadgeColour(t *testing.T) {
	plain := New(&bytes.Buffer{}, FormatTable, false)
	assert.Equal(t, "Met", plain.Badge(models.BadgeSuccess, "Met"))

	colored := New(&bytes.Buffer{}, FormatTable, true)
	assert.Equal(t, "\033[31mCUI\033[0m", colored.Badge(models.BadgeDanger, "CUI"))
	assert.Equal(t, "x", colored.Badge(models.Badge("unknown"), "x"))
}

func TestPreviewRemainingLine(t *testing.T) {
	r, buf := newTable()
	p := views.Preview{Header: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}, Remaining: 7}
	require.NoError(t, r.Preview("evidence.csv", p))
	assert.Contains(t, buf.String(), "evidence.csv: 8 rows")
	assert.Contains(t, buf.String(), "...and 7 more rows")
}

func TestBoundarySummaryCards(t *testing.T) {
	r, buf := newTable()
	assets := []models.BoundaryAsset{{ID: "a1", AssetName: models.StringPtr("File Server"), DataClassification: models.StringPtr("CUI"), InScope: 1}}
	require.NoError(t, r.Boundary(assets, views.SummarizeBoundary(assets)))
	out := buf.String()
	assert.Contains(t, out, "1 boundary assets defined")
	assert.Contains(t, out, "CUI Assets (in scope): 1")
	assert.Contains(t, out, "In Scope")
}

func TestDashboardSampleBannerAndYAML(t *testing.T) {
	r, buf := newTable()
	require.NoError(t, r.Dashboard(views.FallbackDashboard(), true))
	out := buf.String()
	assert.Contains(t, out, "showing sample data")
	assert.Contains(t, out, "SPRS Score: 47 (Fair)")
	assert.Contains(t, out, "Sep -12 → Oct 5")

	var ybuf bytes.Buffer
	require.NoError(t, New(&ybuf, FormatYAML, false).Dashboard(views.FallbackDashboard(), true))
	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(ybuf.Bytes(), &decoded))
	assert.Equal(t, 47, decoded["sprs_score"])
	assert.Equal(t, "Fair", decoded["sprs_label"])
	assert.Equal(t, true, decoded["sample_data"])
}

func TestSessionStructured(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatJSON, false)
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, r.Session(true, &models.User{Username: "admin"}, "http://localhost:5000/api", exp))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, true, out["authenticated"])
	assert.Equal(t, "2030-01-02T03:04:05Z", out["expires_at"])
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("█", 10)+strings.Repeat("░", 10), bar(50))
	assert.Equal(t, strings.Repeat("░", 20), bar(-5))
	assert.Equal(t, strings.Repeat("█", 20), bar(150))
}
