package render

import (
	"fmt"
	"strings"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

const barWidth = 20

func bar(percentage int) string {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	filled := percentage * barWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

type dashboardView struct {
	models.DashboardData `yaml:",inline"`
	SPRSLabel            string `json:"sprs_label" yaml:"sprs_label"`
	SampleData           bool   `json:"sample_data" yaml:"sample_data"`
}

// Dashboard writes the score card, the implementation breakdown, the family
// heatmap, the POA&M summary and the score trend
func (r *Renderer) Dashboard(d models.DashboardData, sample bool) error {
	if r.Structured() {
		return r.Encode(dashboardView{DashboardData: d, SPRSLabel: views.SPRSLabel(d.SPRSScore), SampleData: sample})
	}

	r.Println()
	if sample {
		r.Println(r.Badge(models.BadgeMuted, "Server unavailable, showing sample data"))
		r.Println()
	}

	score := fmt.Sprintf("%d", d.SPRSScore)
	r.Printf("SPRS Score: %s (%s)   range -203 to 110\n",
		r.Badge(views.SPRSBadge(d.SPRSScore), score), views.SPRSLabel(d.SPRSScore))
	r.Printf("Controls Assessed: %d / %d   Open POA&M Items: %d   Boundary Assets: %d\n",
		d.AssessedControls, d.TotalControls, d.POAMSummary.Open, d.BoundaryCount)

	if len(d.ImplementationBreakdown) > 0 {
		r.Println("\nImplementation Status:")
		rows := make([][]string, 0, len(d.ImplementationBreakdown))
		for _, s := range d.ImplementationBreakdown {
			rows = append(rows, []string{s.Name, fmt.Sprint(s.Value)})
		}
		r.table([]string{"Status", "Controls"}, rows)
	}

	if len(d.FamilyHeatmap) > 0 {
		r.Println("\nFamily Heatmap:")
		rows := make([][]string, 0, len(d.FamilyHeatmap))
		for _, f := range d.FamilyHeatmap {
			band := views.HeatmapBand(f.Percentage)
			rows = append(rows, []string{
				f.Code,
				f.Name,
				fmt.Sprintf("%d/%d", f.Implemented, f.Total),
				r.Badge(band, bar(f.Percentage)+fmt.Sprintf(" %3d%%", f.Percentage)),
			})
		}
		r.table([]string{"Code", "Family", "Implemented", "Coverage"}, rows)
	}

	p := d.POAMSummary
	r.Println("\nPOA&M Summary:")
	r.Printf("Total: %d   Open: %d   In Progress: %d   Overdue: %s\n",
		p.Total, p.Open, p.InProgress, r.Badge(models.BadgeDanger, fmt.Sprint(p.Overdue)))
	if len(p.ByRisk) > 0 {
		parts := make([]string, 0, len(p.ByRisk))
		for _, s := range p.ByRisk {
			parts = append(parts, fmt.Sprintf("%s %d", s.Name, s.Value))
		}
		r.Printf("By Risk: %s\n", strings.Join(parts, "   "))
	}

	if len(d.ScoreTrend) > 0 {
		parts := make([]string, 0, len(d.ScoreTrend))
		for _, s := range d.ScoreTrend {
			parts = append(parts, fmt.Sprintf("%s %d", s.Name, s.Value))
		}
		r.Printf("\nScore Trend: %s\n", strings.Join(parts, " → "))
	}
	r.Println()
	return nil
}
