package render

import (
	"fmt"

	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// Controls writes a filtered control list and its counter
func (r *Renderer) Controls(controls []models.Control, total int) error {
	if r.Structured() {
		return r.Encode(controls)
	}
	if len(controls) == 0 {
		r.Println("No controls found")
		return nil
	}

	rows := make([][]string, 0, len(controls))
	for _, c := range controls {
		rows = append(rows, []string{
			c.ControlNumber,
			orDash(c.FamilyCode),
			truncate(c.Title, 60),
			r.Badge(c.ControlType.Badge(), c.ControlType.Label()),
			r.Badge(c.ImplementationStatus.Badge(), c.ImplementationStatus.ShortLabel()),
			fmt.Sprint(c.SPRSPointsIfNotMet),
			c.ID,
		})
	}
	r.Println()
	r.table([]string{"Control", "Family", "Title", "Type", "Status", "Points", "ID"}, rows)
	r.Println()
	r.Shown(len(controls), total, "controls")
	return nil
}

// Families writes the control families
func (r *Renderer) Families(families []models.ControlFamily) error {
	if r.Structured() {
		return r.Encode(families)
	}
	if len(families) == 0 {
		r.Println("No control families found")
		return nil
	}

	rows := make([][]string, 0, len(families))
	for _, f := range families {
		rows = append(rows, []string{f.FamilyCode, f.Name, fmt.Sprint(f.ControlCount), f.ID})
	}
	r.Println()
	r.table([]string{"Code", "Name", "Controls", "ID"}, rows)
	r.Println()
	return nil
}

// ControlDetail writes a control with its objectives, evidence and POA&M items
func (r *Renderer) ControlDetail(c *models.Control) error {
	if r.Structured() {
		return r.Encode(c)
	}

	r.Println()
	r.Printf("%s  %s\n", c.ControlNumber, c.Title)
	r.field("ID", c.ID)
	if c.FamilyCode != "" {
		r.Printf("Family: %s (%s)\n", c.FamilyName, c.FamilyCode)
	}
	r.Printf("Type: %s\n", r.Badge(c.ControlType.Badge(), c.ControlType.Label()))
	r.Printf("Status: %s\n", r.Badge(c.ImplementationStatus.Badge(), c.ImplementationStatus.Label()))
	r.Printf("SPRS Points If Not Met: %d\n", c.SPRSPointsIfNotMet)
	r.field("Last Assessed", models.Deref(c.LastAssessedDate))
	r.field("Assessed By", models.Deref(c.AssessedBy))

	r.section("Requirement", c.RequirementText)
	r.section("Plain English", c.PlainEnglish)
	r.section("Guidance", c.GuidanceText)
	r.section("Implementation Notes", models.Deref(c.ImplementationNotes))
	r.section("Assessor Notes", models.Deref(c.AssessorNotes))

	if len(c.Objectives) > 0 {
		r.Printf("\nAssessment Objectives (%d):\n", len(c.Objectives))
		rows := make([][]string, 0, len(c.Objectives))
		for _, o := range c.Objectives {
			rows = append(rows, []string{o.ObjectiveNumber, truncate(o.ObjectiveText, 60), r.Badge(o.Status.Badge(), o.Status.Label()), o.ID})
		}
		r.table([]string{"Objective", "Text", "Status", "ID"}, rows)
	}

	if len(c.Evidence) > 0 {
		r.Printf("\nEvidence (%d):\n", len(c.Evidence))
		rows := make([][]string, 0, len(c.Evidence))
		for _, e := range c.Evidence {
			rows = append(rows, []string{e.EvidenceType.Label(), e.Title, orDash(e.Location())})
		}
		r.table([]string{"Type", "Title", "Location"}, rows)
	}

	if len(c.POAMItems) > 0 {
		r.Printf("\nPOA&M Items (%d):\n", len(c.POAMItems))
		rows := make([][]string, 0, len(c.POAMItems))
		for _, p := range c.POAMItems {
			rows = append(rows, []string{
				truncate(models.Deref(p.WeaknessDescription), 50),
				r.Badge(p.RiskLevel.Badge(), p.RiskLevel.Label()),
				r.Badge(p.Status.Badge(), p.Status.Label()),
			})
		}
		r.table([]string{"Weakness", "Risk", "Status"}, rows)
	}
	r.Println()
	return nil
}

func (r *Renderer) section(title, body string) {
	if body == "" {
		return
	}
	r.Printf("\n%s:\n  %s\n", title, body)
}

// Export writes the full control export
func (r *Renderer) Export(e *models.ControlExport) error {
	if r.Structured() {
		return r.Encode(e)
	}
	if err := r.Controls(e.Controls, e.Total); err != nil {
		return err
	}
	r.field("Exported At", e.ExportedAt)
	return nil
}
