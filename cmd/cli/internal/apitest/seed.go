package apitest

import "github.com/eaw-compliance/eaw-cli/pkg/models"

func str(s string) *string { return &s }

// Seed resets s to a small NIST SP 800-171 data set
func Seed(s *Server) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Frameworks = []models.Framework{{
		ID:              "fw-1",
		Name:            "NIST SP 800-171",
		Version:         "Rev 2",
		Description:     "Protecting Controlled Unclassified Information in Nonfederal Systems",
		TotalControls:   110,
		TotalObjectives: 320,
	}}

	s.Families = []models.ControlFamily{
		{ID: "fam-ac", FrameworkID: "fw-1", FamilyCode: "AC", Name: "Access Control", ControlCount: 2, SortOrder: 1},
		{ID: "fam-au", FrameworkID: "fw-1", FamilyCode: "AU", Name: "Audit and Accountability", ControlCount: 1, SortOrder: 3},
		{ID: "fam-ia", FrameworkID: "fw-1", FamilyCode: "IA", Name: "Identification and Authentication", ControlCount: 1, SortOrder: 5},
		{ID: "fam-sc", FrameworkID: "fw-1", FamilyCode: "SC", Name: "System and Communications Protection", ControlCount: 1, SortOrder: 13},
	}

	s.Controls = []models.Control{
		{
			ID: "ctl-1", FamilyID: "fam-ac", FamilyCode: "AC", FamilyName: "Access Control",
			ControlNumber: "3.1.1", Title: "Limit system access to authorized users",
			RequirementText:      "Limit system access to authorized users, processes acting on behalf of authorized users, and devices.",
			ControlType:          models.ControlTypeBasic,
			ImplementationStatus: models.StatusImplemented,
			Weight:               5, SPRSPointsIfNotMet: 5, SortOrder: 1,
			Objectives: []models.AssessmentObjective{
				{ID: "obj-1a", ControlID: "ctl-1", ObjectiveNumber: "3.1.1[a]", ObjectiveText: "authorized users are identified", Status: models.ObjectiveMet},
				{ID: "obj-1b", ControlID: "ctl-1", ObjectiveNumber: "3.1.1[b]", ObjectiveText: "processes acting on behalf of authorized users are identified", Status: models.ObjectiveNotMet},
			},
		},
		{
			ID: "ctl-2", FamilyID: "fam-ac", FamilyCode: "AC", FamilyName: "Access Control",
			ControlNumber: "3.1.2", Title: "Limit system access to permitted transactions",
			ControlType:          models.ControlTypeBasic,
			ImplementationStatus: models.StatusPartiallyImplemented,
			Weight:               5, SPRSPointsIfNotMet: 5, SortOrder: 2,
		},
		{
			ID: "ctl-3", FamilyID: "fam-au", FamilyCode: "AU", FamilyName: "Audit and Accountability",
			ControlNumber: "3.3.1", Title: "Create and retain system audit logs",
			ControlType:          models.ControlTypeBasic,
			ImplementationStatus: models.StatusNotImplemented,
			Weight:               5, SPRSPointsIfNotMet: 5, SortOrder: 23,
		},
		{
			ID: "ctl-4", FamilyID: "fam-ia", FamilyCode: "IA", FamilyName: "Identification and Authentication",
			ControlNumber: "3.5.3", Title: "Use multifactor authentication",
			ControlType:          models.ControlTypeDerived,
			ImplementationStatus: models.StatusPlanned,
			Weight:               5, SPRSPointsIfNotMet: 5, SortOrder: 45,
		},
		{
			ID: "ctl-5", FamilyID: "fam-sc", FamilyCode: "SC", FamilyName: "System and Communications Protection",
			ControlNumber: "3.13.1", Title: "Monitor and protect communications at system boundaries",
			ControlType:          models.ControlTypeBasic,
			ImplementationStatus: models.StatusNotAssessed,
			Weight:               5, SPRSPointsIfNotMet: 5, SortOrder: 90,
		},
	}

	s.Evidence = []models.Evidence{
		{ID: "ev-1", ControlID: "ctl-1", ControlNumber: "3.1.1", EvidenceType: models.EvidencePolicy, Title: "Access Control Policy", ExternalURL: str("https://wiki.example.com/policies/ac"), UploadedAt: "2026-01-10T09:00:00"},
		{ID: "ev-2", ControlID: "ctl-4", ControlNumber: "3.5.3", EvidenceType: models.EvidenceScreenshot, Title: "MFA Screenshot", FilePath: str("uploads/mfa.png"), UploadedAt: "2026-01-11T09:00:00"},
	}

	s.POAM = []models.POAMItem{
		{ID: "poam-1", ControlID: "ctl-3", ControlNumber: "3.3.1", WeaknessDescription: str("No central audit logging"), RiskLevel: models.RiskHigh, Status: models.POAMOpen, PlannedCompletionDate: str("2026-03-31")},
		{ID: "poam-2", ControlID: "ctl-4", ControlNumber: "3.5.3", WeaknessDescription: str("MFA missing for VPN"), RiskLevel: models.RiskCritical, Status: models.POAMInProgress},
	}

	s.Boundary = []models.BoundaryAsset{
		{ID: "asset-1", AssetName: str("File Server"), AssetType: str("server"), DataClassification: str("CUI"), InScope: 1},
		{ID: "asset-2", AssetName: str("HR Laptop"), AssetType: str("workstation"), DataClassification: str("fci"), InScope: 1},
		{ID: "asset-3", AssetName: str("Guest Wi-Fi"), AssetType: str("network"), DataClassification: str("Public"), InScope: 0},
		{ID: "asset-4", AssetName: str("Archive NAS"), AssetType: str("storage"), DataClassification: str("CUI"), InScope: 0},
	}

	s.Dashboard = models.DashboardData{
		SPRSScore:        62,
		TotalControls:    110,
		AssessedControls: 80,
		ImplementationBreakdown: []models.ChartSlice{
			{Name: "Implemented", Value: 50, Color: "#5cb85c"},
			{Name: "Not Assessed", Value: 30, Color: "#ddd"},
		},
		FamilyHeatmap: []models.FamilyHeat{
			{Name: "Access Control", Code: "AC", Total: 22, Implemented: 20, Percentage: 91, Color: "#5cb85c"},
		},
		POAMSummary: models.POAMSummary{
			Total: 2, Open: 1, InProgress: 1,
			ByRisk: []models.ChartSlice{{Name: "Critical", Value: 1}, {Name: "High", Value: 1}},
		},
		BoundaryCount: 4,
		ScoreTrend:    []models.ChartSlice{{Name: "Jan", Value: 40}, {Name: "Feb", Value: 62}},
	}

	s.BulkResult = models.BulkUploadResult{Created: 0, Errors: []models.BulkUploadError{}}
}
