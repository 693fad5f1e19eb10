package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Badge is the presentational class attached to a status value
type Badge string

const (
	BadgeSuccess Badge = "success"
	BadgeWarning Badge = "warning"
	BadgeInfo    Badge = "info"
	BadgeDanger  Badge = "danger"
	BadgeMuted   Badge = "muted"
)

var titleCaser = cases.Title(language.English)

// humanize turns a snake_case vocabulary value into a title-cased label
func humanize(v string) string {
	return titleCaser.String(strings.ReplaceAll(v, "_", " "))
}

// ControlType distinguishes basic from derived requirements
type ControlType string

const (
	ControlTypeBasic   ControlType = "basic"
	ControlTypeDerived ControlType = "derived"
)

// Label returns the display label for the control type
func (t ControlType) Label() string {
	if t == ControlTypeDerived {
		return "Derived"
	}
	return "Basic"
}

// Badge returns the presentational class for the control type
func (t ControlType) Badge() Badge {
	if t == ControlTypeDerived {
		return BadgeInfo
	}
	return BadgeMuted
}

// ImplementationStatus is the assessed implementation state of a control
type ImplementationStatus string

const (
	StatusImplemented          ImplementationStatus = "implemented"
	StatusPartiallyImplemented ImplementationStatus = "partially_implemented"
	StatusPlanned              ImplementationStatus = "planned"
	StatusNotImplemented       ImplementationStatus = "not_implemented"
	StatusNotApplicable        ImplementationStatus = "not_applicable"
	StatusNotAssessed          ImplementationStatus = "not_assessed"
)

// ImplementationStatuses lists the statuses in display order
var ImplementationStatuses = []ImplementationStatus{
	StatusImplemented,
	StatusPartiallyImplemented,
	StatusPlanned,
	StatusNotImplemented,
	StatusNotApplicable,
	StatusNotAssessed,
}

var implementationBadges = map[ImplementationStatus]struct {
	badge Badge
	short string
}{
	StatusImplemented:          {BadgeSuccess, "Implemented"},
	StatusPartiallyImplemented: {BadgeWarning, "Partial"},
	StatusPlanned:              {BadgeInfo, "Planned"},
	StatusNotImplemented:       {BadgeDanger, "Not Impl."},
	StatusNotApplicable:        {BadgeMuted, "N/A"},
	StatusNotAssessed:          {BadgeMuted, "Not Assessed"},
}

// Valid reports whether s is one of the known statuses
func (s ImplementationStatus) Valid() bool {
	_, ok := implementationBadges[s]
	return ok
}

// Label returns the long display label, e.g. "Partially Implemented"
func (s ImplementationStatus) Label() string {
	if !s.Valid() {
		return string(s)
	}
	return humanize(string(s))
}

// ShortLabel returns the compact label used in list tables
func (s ImplementationStatus) ShortLabel() string {
	if info, ok := implementationBadges[s]; ok {
		return info.short
	}
	return string(s)
}

// Badge returns the presentational class for the status
func (s ImplementationStatus) Badge() Badge {
	if info, ok := implementationBadges[s]; ok {
		return info.badge
	}
	return BadgeMuted
}

// ObjectiveStatus is the assessment state of an objective
type ObjectiveStatus string

const (
	ObjectiveMet         ObjectiveStatus = "met"
	ObjectiveNotMet      ObjectiveStatus = "not_met"
	ObjectiveNotAssessed ObjectiveStatus = "not_assessed"
)

// ObjectiveStatuses lists the objective statuses in display order
var ObjectiveStatuses = []ObjectiveStatus{ObjectiveMet, ObjectiveNotMet, ObjectiveNotAssessed}

// Valid reports whether s is one of the known objective statuses
func (s ObjectiveStatus) Valid() bool {
	switch s {
	case ObjectiveMet, ObjectiveNotMet, ObjectiveNotAssessed:
		return true
	}
	return false
}

// Next returns the status that follows s in the toggle cycle
// met -> not_met -> not_assessed -> met. Unknown values restart at met.
func (s ObjectiveStatus) Next() ObjectiveStatus {
	switch s {
	case ObjectiveMet:
		return ObjectiveNotMet
	case ObjectiveNotMet:
		return ObjectiveNotAssessed
	default:
		return ObjectiveMet
	}
}

// Label returns the display label, e.g. "Not Met"
func (s ObjectiveStatus) Label() string {
	return humanize(string(s))
}

// Badge returns the presentational class for the objective status
func (s ObjectiveStatus) Badge() Badge {
	switch s {
	case ObjectiveMet:
		return BadgeSuccess
	case ObjectiveNotMet:
		return BadgeDanger
	default:
		return BadgeMuted
	}
}

// EvidenceType classifies an evidence artifact
type EvidenceType string

const (
	EvidencePolicy        EvidenceType = "policy"
	EvidenceProcedure     EvidenceType = "procedure"
	EvidenceScreenshot    EvidenceType = "screenshot"
	EvidenceConfiguration EvidenceType = "configuration"
	EvidenceLog           EvidenceType = "log"
	EvidenceReport        EvidenceType = "report"
	EvidenceAttestation   EvidenceType = "attestation"
	EvidenceOther         EvidenceType = "other"
)

// EvidenceTypes lists the evidence types in display order
var EvidenceTypes = []EvidenceType{
	EvidencePolicy,
	EvidenceProcedure,
	EvidenceScreenshot,
	EvidenceConfiguration,
	EvidenceLog,
	EvidenceReport,
	EvidenceAttestation,
	EvidenceOther,
}

// Valid reports whether t is one of the known evidence types
func (t EvidenceType) Valid() bool {
	for _, known := range EvidenceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns the display label, e.g. "Configuration"
func (t EvidenceType) Label() string {
	return humanize(string(t))
}

// RiskLevel is the risk rating of a POA&M item
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskModerate RiskLevel = "moderate"
	RiskLow      RiskLevel = "low"
)

// RiskLevels lists the risk levels from most to least severe
var RiskLevels = []RiskLevel{RiskCritical, RiskHigh, RiskModerate, RiskLow}

// Valid reports whether r is one of the known risk levels
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskCritical, RiskHigh, RiskModerate, RiskLow:
		return true
	}
	return false
}

// Label returns the display label
func (r RiskLevel) Label() string {
	return humanize(string(r))
}

// Badge returns the presentational class for the risk level
func (r RiskLevel) Badge() Badge {
	switch r {
	case RiskCritical:
		return BadgeDanger
	case RiskHigh:
		return BadgeWarning
	case RiskModerate:
		return BadgeInfo
	default:
		return BadgeMuted
	}
}

// POAMStatus is the lifecycle state of a POA&M item
type POAMStatus string

const (
	POAMOpen         POAMStatus = "open"
	POAMInProgress   POAMStatus = "in_progress"
	POAMCompleted    POAMStatus = "completed"
	POAMAcceptedRisk POAMStatus = "accepted_risk"
)

// POAMStatuses lists the POA&M statuses in display order
var POAMStatuses = []POAMStatus{POAMOpen, POAMInProgress, POAMCompleted, POAMAcceptedRisk}

// Valid reports whether s is one of the known POA&M statuses
func (s POAMStatus) Valid() bool {
	switch s {
	case POAMOpen, POAMInProgress, POAMCompleted, POAMAcceptedRisk:
		return true
	}
	return false
}

// Label returns the display label, e.g. "Accepted Risk"
func (s POAMStatus) Label() string {
	if !s.Valid() {
		return string(s)
	}
	return humanize(string(s))
}

// Badge returns the presentational class for the POA&M status
func (s POAMStatus) Badge() Badge {
	switch s {
	case POAMOpen:
		return BadgeDanger
	case POAMInProgress:
		return BadgeWarning
	case POAMCompleted:
		return BadgeSuccess
	case POAMAcceptedRisk:
		return BadgeInfo
	default:
		return BadgeMuted
	}
}

// ClassificationBadge maps a data classification to its badge:
// CUI -> danger, FCI -> warning, anything else -> info, missing -> muted.
// The comparison is case-insensitive.
func ClassificationBadge(classification *string) Badge {
	if classification == nil || *classification == "" {
		return BadgeMuted
	}
	switch strings.ToUpper(*classification) {
	case "CUI":
		return BadgeDanger
	case "FCI":
		return BadgeWarning
	default:
		return BadgeInfo
	}
}
