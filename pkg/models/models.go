package models

// User represents the authenticated account returned by the auth endpoints
type User struct {
	ID       string `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Role     string `json:"role" yaml:"role"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Framework represents a compliance framework (e.g. NIST SP 800-171 Rev 2)
type Framework struct {
	ID              string          `json:"id" yaml:"id"`
	Name            string          `json:"name" yaml:"name"`
	Version         string          `json:"version" yaml:"version"`
	Description     string          `json:"description" yaml:"description"`
	TotalControls   int             `json:"total_controls" yaml:"total_controls"`
	TotalObjectives int             `json:"total_objectives" yaml:"total_objectives"`
	Families        []ControlFamily `json:"families,omitempty" yaml:"families,omitempty"`
}

// ControlFamily represents a grouping of related controls. Read-only on the client.
type ControlFamily struct {
	ID           string `json:"id" yaml:"id"`
	FrameworkID  string `json:"framework_id" yaml:"framework_id"`
	FamilyCode   string `json:"family_code" yaml:"family_code"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	ControlCount int    `json:"control_count" yaml:"control_count"`
	SortOrder    int    `json:"sort_order" yaml:"sort_order"`
}

// Control represents a single security requirement and its assessment state.
// Only ImplementationStatus, ImplementationNotes and AssessorNotes are client-mutable;
// the nested collections are read-only views fetched with the detail record.
type Control struct {
	ID                   string                `json:"id" yaml:"id"`
	FamilyID             string                `json:"family_id" yaml:"family_id"`
	FamilyCode           string                `json:"family_code,omitempty" yaml:"family_code,omitempty"`
	FamilyName           string                `json:"family_name,omitempty" yaml:"family_name,omitempty"`
	ControlNumber        string                `json:"control_number" yaml:"control_number"`
	Title                string                `json:"title" yaml:"title"`
	RequirementText      string                `json:"requirement_text" yaml:"requirement_text"`
	PlainEnglish         string                `json:"plain_english" yaml:"plain_english"`
	GuidanceText         string                `json:"guidance_text" yaml:"guidance_text"`
	ControlType          ControlType           `json:"control_type" yaml:"control_type"`
	ImplementationStatus ImplementationStatus  `json:"implementation_status" yaml:"implementation_status"`
	Weight               int                   `json:"weight" yaml:"weight"`
	SPRSPointsIfNotMet   int                   `json:"sprs_points_if_not_met" yaml:"sprs_points_if_not_met"`
	ImplementationNotes  *string               `json:"implementation_notes" yaml:"implementation_notes"`
	AssessorNotes        *string               `json:"assessor_notes" yaml:"assessor_notes"`
	LastAssessedDate     *string               `json:"last_assessed_date" yaml:"last_assessed_date"`
	AssessedBy           *string               `json:"assessed_by" yaml:"assessed_by"`
	SortOrder            int                   `json:"sort_order" yaml:"sort_order"`
	Objectives           []AssessmentObjective `json:"objectives,omitempty" yaml:"objectives,omitempty"`
	Evidence             []Evidence            `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	POAMItems            []POAMItem            `json:"poam_items,omitempty" yaml:"poam_items,omitempty"`
}

// AssessmentObjective is a sub-checkable criterion under a control
type AssessmentObjective struct {
	ID              string          `json:"id" yaml:"id"`
	ControlID       string          `json:"control_id" yaml:"control_id"`
	ObjectiveNumber string          `json:"objective_number" yaml:"objective_number"`
	ObjectiveText   string          `json:"objective_text" yaml:"objective_text"`
	Status          ObjectiveStatus `json:"status" yaml:"status"`
	Notes           *string         `json:"notes" yaml:"notes"`
}

// Evidence is an artifact attached to a control. Evidence is created and deleted,
// never updated.
type Evidence struct {
	ID            string       `json:"id" yaml:"id"`
	ControlID     string       `json:"control_id" yaml:"control_id"`
	ControlNumber string       `json:"control_number,omitempty" yaml:"control_number,omitempty"`
	EvidenceType  EvidenceType `json:"evidence_type" yaml:"evidence_type"`
	Title         string       `json:"title" yaml:"title"`
	Description   *string      `json:"description" yaml:"description"`
	FilePath      *string      `json:"file_path" yaml:"file_path"`
	ExternalURL   *string      `json:"external_url" yaml:"external_url"`
	UploadedAt    string       `json:"uploaded_at" yaml:"uploaded_at"`
	UploadedBy    *string      `json:"uploaded_by" yaml:"uploaded_by"`
}

// Location returns the file path or external URL of the artifact, whichever is set
func (e Evidence) Location() string {
	if e.ExternalURL != nil && *e.ExternalURL != "" {
		return *e.ExternalURL
	}
	if e.FilePath != nil {
		return *e.FilePath
	}
	return ""
}

// POAMItem is a tracked remediation item for an unmet control
type POAMItem struct {
	ID                    string     `json:"id" yaml:"id"`
	ControlID             string     `json:"control_id" yaml:"control_id"`
	ControlNumber         string     `json:"control_number,omitempty" yaml:"control_number,omitempty"`
	WeaknessDescription   *string    `json:"weakness_description" yaml:"weakness_description"`
	RemediationPlan       *string    `json:"remediation_plan" yaml:"remediation_plan"`
	RiskLevel             RiskLevel  `json:"risk_level" yaml:"risk_level"`
	ResponsiblePerson     *string    `json:"responsible_person" yaml:"responsible_person"`
	ResponsibleTeam       *string    `json:"responsible_team" yaml:"responsible_team"`
	PlannedStartDate      *string    `json:"planned_start_date" yaml:"planned_start_date"`
	PlannedCompletionDate *string    `json:"planned_completion_date" yaml:"planned_completion_date"`
	ActualCompletionDate  *string    `json:"actual_completion_date" yaml:"actual_completion_date"`
	EstimatedCost         *float64   `json:"estimated_cost" yaml:"estimated_cost"`
	CostNotes             *string    `json:"cost_notes" yaml:"cost_notes"`
	Status                POAMStatus `json:"status" yaml:"status"`
	Milestones            string     `json:"milestones" yaml:"milestones"`
	CreatedAt             string     `json:"created_at" yaml:"created_at"`
	UpdatedAt             string     `json:"updated_at" yaml:"updated_at"`
}

// BoundaryAsset is an asset registered inside (or outside) the assessment boundary.
// InScope is a binary flag: 1 in scope, 0 out of scope.
type BoundaryAsset struct {
	ID                 string  `json:"id" yaml:"id"`
	BoundaryName       *string `json:"boundary_name" yaml:"boundary_name"`
	AssetTrackerID     *string `json:"asset_tracker_id" yaml:"asset_tracker_id"`
	AssetName          *string `json:"asset_name" yaml:"asset_name"`
	AssetType          *string `json:"asset_type" yaml:"asset_type"`
	DataClassification *string `json:"data_classification" yaml:"data_classification"`
	InScope            int     `json:"in_scope" yaml:"in_scope"`
	Notes              *string `json:"notes" yaml:"notes"`
}

// ChartSlice is one named, coloured value of a dashboard chart
type ChartSlice struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// FamilyHeat is the implementation percentage of one control family
type FamilyHeat struct {
	Name        string `json:"name" yaml:"name"`
	Code        string `json:"code" yaml:"code"`
	Total       int    `json:"total" yaml:"total"`
	Implemented int    `json:"implemented" yaml:"implemented"`
	Percentage  int    `json:"percentage" yaml:"percentage"`
	Color       string `json:"color" yaml:"color"`
}

// POAMSummary holds the POA&M counts shown on the dashboard
type POAMSummary struct {
	Total      int          `json:"total" yaml:"total"`
	Open       int          `json:"open" yaml:"open"`
	InProgress int          `json:"in_progress" yaml:"in_progress"`
	Overdue    int          `json:"overdue" yaml:"overdue"`
	ByRisk     []ChartSlice `json:"by_risk" yaml:"by_risk"`
}

// DashboardData is wholly server-computed; the client only derives display bands from it
type DashboardData struct {
	SPRSScore               int          `json:"sprs_score" yaml:"sprs_score"`
	TotalControls           int          `json:"total_controls" yaml:"total_controls"`
	AssessedControls        int          `json:"assessed_controls" yaml:"assessed_controls"`
	ImplementationBreakdown []ChartSlice `json:"implementation_breakdown" yaml:"implementation_breakdown"`
	FamilyHeatmap           []FamilyHeat `json:"family_heatmap" yaml:"family_heatmap"`
	POAMSummary             POAMSummary  `json:"poam_summary" yaml:"poam_summary"`
	BoundaryCount           int          `json:"boundary_count" yaml:"boundary_count"`
	ScoreTrend              []ChartSlice `json:"score_trend" yaml:"score_trend"`
}

// BulkUploadError describes one rejected row of a bulk evidence upload
type BulkUploadError struct {
	Row     int    `json:"row" yaml:"row"`
	Message string `json:"message" yaml:"message"`
}

// BulkUploadResult is the server's verdict on a bulk evidence upload
type BulkUploadResult struct {
	Created int               `json:"created" yaml:"created"`
	Errors  []BulkUploadError `json:"errors" yaml:"errors"`
}

// ControlExport is the full control set with objectives, as produced by the export endpoint
type ControlExport struct {
	Controls   []Control `json:"controls" yaml:"controls"`
	Total      int       `json:"total" yaml:"total"`
	ExportedAt string    `json:"exported_at" yaml:"exported_at"`
}

// StringPtr returns nil for an empty string and a pointer to s otherwise.
// Create bodies send null for empty optional fields.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "" for nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
