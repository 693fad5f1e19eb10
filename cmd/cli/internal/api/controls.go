package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/httpclient"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// ControlsClient talks to the /controls endpoints
type ControlsClient struct {
	hc *httpclient.Client
}

// ControlQuery narrows a control listing on the server. Empty fields are not sent.
type ControlQuery struct {
	FamilyID string
	Status   string
	Search   string
}

// ControlUpdate carries the client-mutable fields of a control.
// Nil fields are left out of the request body.
type ControlUpdate struct {
	ImplementationStatus *models.ImplementationStatus `json:"implementation_status,omitempty"`
	ImplementationNotes  *string                      `json:"implementation_notes,omitempty"`
	AssessorNotes        *string                      `json:"assessor_notes,omitempty"`
}

// ObjectiveUpdate carries the mutable fields of an assessment objective
type ObjectiveUpdate struct {
	Status *models.ObjectiveStatus `json:"status,omitempty"`
	Notes  *string                 `json:"notes,omitempty"`
}

type statusRequest struct {
	ImplementationStatus models.ImplementationStatus `json:"implementation_status"`
}

// controlEnvelope is the paginated shape of GET /controls
type controlEnvelope struct {
	Controls []models.Control `json:"controls"`
	Total    int              `json:"total"`
}

// decodeControlList accepts either a bare array or a {controls: [...]} envelope.
// Older servers return the former.
func decodeControlList(body []byte) ([]models.Control, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []models.Control{}, nil
	}

	if trimmed[0] == '[' {
		var controls []models.Control
		if err := json.Unmarshal(trimmed, &controls); err != nil {
			return nil, fmt.Errorf("failed to decode control list: %w", err)
		}
		return controls, nil
	}

	var env controlEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to decode control list: %w", err)
	}
	if env.Controls == nil {
		return []models.Control{}, nil
	}
	return env.Controls, nil
}

// Families lists the control families
func (c *ControlsClient) Families(ctx context.Context) ([]models.ControlFamily, error) {
	var families []models.ControlFamily
	if err := c.hc.Get(ctx, "/controls/families", nil, &families); err != nil {
		return nil, fmt.Errorf("failed to get control families: %w", err)
	}
	return families, nil
}

// List returns the controls matching q
func (c *ControlsClient) List(ctx context.Context, q ControlQuery) ([]models.Control, error) {
	var raw json.RawMessage
	query := params("family_id", q.FamilyID, "status", q.Status, "search", q.Search)
	if err := c.hc.Get(ctx, "/controls", query, &raw); err != nil {
		return nil, fmt.Errorf("failed to get controls: %w", err)
	}
	return decodeControlList(raw)
}

// Get returns a control together with its objectives, evidence and POA&M items
func (c *ControlsClient) Get(ctx context.Context, id string) (*models.Control, error) {
	var control models.Control
	if err := c.hc.Get(ctx, idPath("/controls", id), nil, &control); err != nil {
		return nil, fmt.Errorf("failed to get control %s: %w", id, err)
	}
	return &control, nil
}

// Update applies a partial update and returns the server's copy of the control
func (c *ControlsClient) Update(ctx context.Context, id string, update ControlUpdate) (*models.Control, error) {
	var control models.Control
	if err := c.hc.Put(ctx, idPath("/controls", id), update, &control); err != nil {
		return nil, fmt.Errorf("failed to update control %s: %w", id, err)
	}
	return &control, nil
}

// SetStatus changes only the implementation status of a control
func (c *ControlsClient) SetStatus(ctx context.Context, id string, status models.ImplementationStatus) (*models.Control, error) {
	var control models.Control
	if err := c.hc.Put(ctx, idPath("/controls", id)+"/status", statusRequest{ImplementationStatus: status}, &control); err != nil {
		return nil, fmt.Errorf("failed to set status of control %s: %w", id, err)
	}
	return &control, nil
}

// Export returns every control with its objectives
func (c *ControlsClient) Export(ctx context.Context) (*models.ControlExport, error) {
	var export models.ControlExport
	if err := c.hc.Get(ctx, "/controls/export", nil, &export); err != nil {
		return nil, fmt.Errorf("failed to export controls: %w", err)
	}
	return &export, nil
}

// UpdateObjective applies a partial update to an assessment objective
func (c *ControlsClient) UpdateObjective(ctx context.Context, id string, update ObjectiveUpdate) (*models.AssessmentObjective, error) {
	var objective models.AssessmentObjective
	if err := c.hc.Put(ctx, idPath("/controls/objectives", id), update, &objective); err != nil {
		return nil, fmt.Errorf("failed to update objective %s: %w", id, err)
	}
	return &objective, nil
}
