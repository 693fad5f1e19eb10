package views

import (
	"context"
	"net/http"
	"testing"

	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestSPRSBands(t *testing.T) {
	tests := []struct {
		score int
		label string
		badge models.Badge
	}{
		{110, "Excellent", models.BadgeSuccess},
		{80, "Excellent", models.BadgeSuccess},
		{79, "Good", models.BadgeSuccess},
		{50, "Good", models.BadgeSuccess},
		{1, "Fair", models.BadgeSuccess},
		{0, "Fair", models.BadgeWarning},
		{-49, "Needs Improvement", models.BadgeWarning},
		{-50, "Needs Improvement", models.BadgeDanger},
		{-51, "Critical", models.BadgeDanger},
		{-203, "Critical", models.BadgeDanger},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, SPRSLabel(tt.score), "label for %d", tt.score)
		assert.Equal(t, tt.badge, SPRSBadge(tt.score), "badge for %d", tt.score)
	}
	assert.Equal(t, ColorSuccess, SPRSColor(47))
	assert.Equal(t, ColorDanger, SPRSColor(-100))
}

func TestHeatmapBand(t *testing.T) {
	assert.Equal(t, models.BadgeSuccess, HeatmapBand(100))
	assert.Equal(t, models.BadgeSuccess, HeatmapBand(80))
	assert.Equal(t, models.BadgeWarning, HeatmapBand(79))
	assert.Equal(t, models.BadgeWarning, HeatmapBand(50))
	assert.Equal(t, models.BadgeDanger, HeatmapBand(49))
}

func TestDashboardLoad(t *testing.T) {
	client, _ := newAPI(t)
	v := NewDashboard(client.Dashboard, nil)
	assert.True(t, v.UsingFallback())

	v.Load(context.Background())
	assert.False(t, v.UsingFallback())
	assert.Equal(t, 62, v.Data().SPRSScore)
}

func TestDashboardFallsBackOnFailure(t *testing.T) {
	client, srv := newAPI(t)
	srv.Fail(http.MethodGet, "/dashboard", http.StatusInternalServerError)
	v := NewDashboard(client.Dashboard, nil)
	v.Load(context.Background())

	assert.Equal(t, PhaseReady, v.Phase())
	assert.True(t, v.UsingFallback())
	data := v.Data()
	assert.Equal(t, 47, data.SPRSScore)
	assert.Equal(t, 110, data.TotalControls)
	assert.Len(t, data.FamilyHeatmap, 14)
	assert.Len(t, data.ScoreTrend, 6)
	assert.Equal(t, 24, data.BoundaryCount)
	assert.Equal(t, "Fair", SPRSLabel(data.SPRSScore))
}
