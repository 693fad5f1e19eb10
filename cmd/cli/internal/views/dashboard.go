package views

import (
	"context"

	"github.com/eaw-compliance/eaw-cli/pkg/logger"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// DashboardSource fetches the dashboard aggregate
type DashboardSource interface {
	Get(ctx context.Context) (*models.DashboardData, error)
}

// Display colours shared by the SPRS and heatmap bands
const (
	ColorSuccess = "#5cb85c"
	ColorWarning = "#f0ad4e"
	ColorDanger  = "#d9534f"
)

// SPRSBadge bands a SPRS score: positive is success, above -50 warning,
// anything lower danger
func SPRSBadge(score int) models.Badge {
	switch {
	case score > 0:
		return models.BadgeSuccess
	case score > -50:
		return models.BadgeWarning
	default:
		return models.BadgeDanger
	}
}

// SPRSColor is the hex colour of SPRSBadge
func SPRSColor(score int) string {
	return badgeColor(SPRSBadge(score))
}

// SPRSLabel names the band a SPRS score falls in
func SPRSLabel(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 50:
		return "Good"
	case score >= 0:
		return "Fair"
	case score >= -50:
		return "Needs Improvement"
	default:
		return "Critical"
	}
}

// HeatmapBand bands a family implementation percentage
func HeatmapBand(percentage int) models.Badge {
	switch {
	case percentage >= 80:
		return models.BadgeSuccess
	case percentage >= 50:
		return models.BadgeWarning
	default:
		return models.BadgeDanger
	}
}

func badgeColor(b models.Badge) string {
	switch b {
	case models.BadgeSuccess:
		return ColorSuccess
	case models.BadgeWarning:
		return ColorWarning
	default:
		return ColorDanger
	}
}

// FallbackDashboard is the sample aggregate shown when the server cannot be reached
func FallbackDashboard() models.DashboardData {
	return models.DashboardData{
		SPRSScore:        47,
		TotalControls:    110,
		AssessedControls: 72,
		ImplementationBreakdown: []models.ChartSlice{
			{Name: "Implemented", Value: 38, Color: "#5cb85c"},
			{Name: "Partially Implemented", Value: 18, Color: "#f0ad4e"},
			{Name: "Planned", Value: 12, Color: "#5bc0de"},
			{Name: "Not Implemented", Value: 4, Color: "#d9534f"},
			{Name: "Not Applicable", Value: 8, Color: "#777"},
			{Name: "Not Assessed", Value: 30, Color: "#ddd"},
		},
		FamilyHeatmap: []models.FamilyHeat{
			{Name: "Access Control", Code: "AC", Total: 22, Implemented: 12, Percentage: 55, Color: "#f0ad4e"},
			{Name: "Awareness & Training", Code: "AT", Total: 3, Implemented: 2, Percentage: 67, Color: "#f0ad4e"},
			{Name: "Audit & Accountability", Code: "AU", Total: 9, Implemented: 7, Percentage: 78, Color: "#8bc34a"},
			{Name: "Config Management", Code: "CM", Total: 9, Implemented: 5, Percentage: 56, Color: "#f0ad4e"},
			{Name: "Identification & Auth", Code: "IA", Total: 11, Implemented: 8, Percentage: 73, Color: "#8bc34a"},
			{Name: "Incident Response", Code: "IR", Total: 3, Implemented: 3, Percentage: 100, Color: "#5cb85c"},
			{Name: "Maintenance", Code: "MA", Total: 6, Implemented: 4, Percentage: 67, Color: "#f0ad4e"},
			{Name: "Media Protection", Code: "MP", Total: 8, Implemented: 5, Percentage: 63, Color: "#f0ad4e"},
			{Name: "Personnel Security", Code: "PS", Total: 2, Implemented: 2, Percentage: 100, Color: "#5cb85c"},
			{Name: "Physical Protection", Code: "PE", Total: 6, Implemented: 4, Percentage: 67, Color: "#f0ad4e"},
			{Name: "Risk Assessment", Code: "RA", Total: 3, Implemented: 2, Percentage: 67, Color: "#f0ad4e"},
			{Name: "Security Assessment", Code: "CA", Total: 4, Implemented: 3, Percentage: 75, Color: "#8bc34a"},
			{Name: "System & Comm Protection", Code: "SC", Total: 16, Implemented: 9, Percentage: 56, Color: "#f0ad4e"},
			{Name: "System & Info Integrity", Code: "SI", Total: 7, Implemented: 5, Percentage: 71, Color: "#8bc34a"},
		},
		POAMSummary: models.POAMSummary{
			Total:      18,
			Open:       8,
			InProgress: 7,
			Overdue:    3,
			ByRisk: []models.ChartSlice{
				{Name: "Critical", Value: 2, Color: "#d9534f"},
				{Name: "High", Value: 5, Color: "#f0ad4e"},
				{Name: "Moderate", Value: 8, Color: "#5bc0de"},
				{Name: "Low", Value: 3, Color: "#777"},
			},
		},
		BoundaryCount: 24,
		ScoreTrend: []models.ChartSlice{
			{Name: "Sep", Value: -12},
			{Name: "Oct", Value: 5},
			{Name: "Nov", Value: 18},
			{Name: "Dec", Value: 29},
			{Name: "Jan", Value: 38},
			{Name: "Feb", Value: 47},
		},
	}
}

// Dashboard is the landing page. It starts out showing the fallback sample.
type Dashboard struct {
	page
	api DashboardSource

	data     models.DashboardData
	fallback bool
}

// NewDashboard creates an unloaded dashboard
func NewDashboard(source DashboardSource, log *logger.Logger) *Dashboard {
	v := &Dashboard{api: source, data: FallbackDashboard(), fallback: true}
	v.init(log)
	return v
}

// Load fetches the aggregate. Any failure shows the fallback sample.
func (v *Dashboard) Load(ctx context.Context) {
	gen := v.begin()
	data, err := v.api.Get(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen.stale(gen) {
		return
	}
	if err != nil || data == nil {
		v.log.Debugf("dashboard load failed, showing sample data: %v", err)
		v.data = FallbackDashboard()
		v.fallback = true
	} else {
		v.data = *data
		v.fallback = false
	}
	v.phase = PhaseReady
}

// Data returns the aggregate on display
func (v *Dashboard) Data() models.DashboardData {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.data
}

// UsingFallback reports whether the sample aggregate is on display
func (v *Dashboard) UsingFallback() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fallback
}
