package render

import (
	"fmt"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/views"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// POAM writes a filtered POA&M list and its counter
func (r *Renderer) POAM(items []models.POAMItem, total int) error {
	if r.Structured() {
		return r.Encode(items)
	}
	if len(items) == 0 {
		r.Println("No POA&M items found")
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, p := range items {
		rows = append(rows, []string{
			orDash(p.ControlNumber),
			truncate(models.Deref(p.WeaknessDescription), 50),
			r.Badge(p.RiskLevel.Badge(), p.RiskLevel.Label()),
			r.Badge(p.Status.Badge(), p.Status.Label()),
			orDash(models.Deref(p.ResponsiblePerson)),
			orDash(models.Deref(p.PlannedCompletionDate)),
			p.ID,
		})
	}
	r.Println()
	r.table([]string{"Control", "Weakness", "Risk", "Status", "Owner", "Due", "ID"}, rows)
	r.Println()
	r.Shown(len(items), total, "items")
	return nil
}

// Evidence writes a filtered evidence list and its counter
func (r *Renderer) Evidence(evidence []models.Evidence, total int) error {
	if r.Structured() {
		return r.Encode(evidence)
	}
	if len(evidence) == 0 {
		r.Println("No evidence found")
		return nil
	}

	rows := make([][]string, 0, len(evidence))
	for _, e := range evidence {
		rows = append(rows, []string{
			orDash(e.ControlNumber),
			e.EvidenceType.Label(),
			truncate(e.Title, 50),
			orDash(e.Location()),
			orDash(e.UploadedAt),
			e.ID,
		})
	}
	r.Println()
	r.table([]string{"Control", "Type", "Title", "Location", "Uploaded", "ID"}, rows)
	r.Println()
	r.Shown(len(evidence), total, "items")
	return nil
}

// boundaryView is the structured form of the boundary page
type boundaryView struct {
	Summary views.BoundarySummary  `json:"summary" yaml:"summary"`
	Assets  []models.BoundaryAsset `json:"assets" yaml:"assets"`
}

// Boundary writes the boundary summary cards and the asset table
func (r *Renderer) Boundary(assets []models.BoundaryAsset, summary views.BoundarySummary) error {
	if r.Structured() {
		return r.Encode(boundaryView{Summary: summary, Assets: assets})
	}

	r.Println()
	r.Printf("%d boundary assets defined\n", len(assets))
	r.Printf("CUI Assets (in scope): %s   FCI Assets (in scope): %s\n",
		r.Badge(models.BadgeDanger, fmt.Sprint(summary.CUI)),
		r.Badge(models.BadgeWarning, fmt.Sprint(summary.FCI)))
	r.Println()

	if len(assets) == 0 {
		r.Println("No boundary assets found")
		return nil
	}

	rows := make([][]string, 0, len(assets))
	for _, a := range assets {
		scope := r.Badge(models.BadgeSuccess, "In Scope")
		if a.InScope != 1 {
			scope = r.Badge(models.BadgeMuted, "Out of Scope")
		}
		classification := orDash(models.Deref(a.DataClassification))
		rows = append(rows, []string{
			orDash(models.Deref(a.AssetName)),
			orDash(models.Deref(a.AssetType)),
			orDash(models.Deref(a.BoundaryName)),
			r.Badge(models.ClassificationBadge(a.DataClassification), classification),
			scope,
			a.ID,
		})
	}
	r.table([]string{"Asset", "Type", "Boundary", "Classification", "Scope", "ID"}, rows)
	r.Println()
	return nil
}

// Frameworks writes the framework list
func (r *Renderer) Frameworks(frameworks []models.Framework) error {
	if r.Structured() {
		return r.Encode(frameworks)
	}
	if len(frameworks) == 0 {
		r.Println("No frameworks found")
		return nil
	}

	rows := make([][]string, 0, len(frameworks))
	for _, f := range frameworks {
		rows = append(rows, []string{f.Name, f.Version, fmt.Sprint(f.TotalControls), fmt.Sprint(f.TotalObjectives), f.ID})
	}
	r.Println()
	r.table([]string{"Name", "Version", "Controls", "Objectives", "ID"}, rows)
	r.Println()
	return nil
}

// Framework writes one framework with its families
func (r *Renderer) Framework(f *models.Framework) error {
	if r.Structured() {
		return r.Encode(f)
	}
	r.Println()
	r.Printf("%s %s\n", f.Name, f.Version)
	r.field("ID", f.ID)
	r.field("Description", f.Description)
	r.Printf("Controls: %d   Objectives: %d\n", f.TotalControls, f.TotalObjectives)
	if len(f.Families) > 0 {
		r.Println()
		return r.Families(f.Families)
	}
	r.Println()
	return nil
}

// User writes the signed-in account
func (r *Renderer) User(u *models.User) error {
	if r.Structured() {
		return r.Encode(u)
	}
	r.field("Username", u.Username)
	r.field("Role", u.Role)
	r.field("Email", u.Email)
	r.field("ID", u.ID)
	return nil
}
