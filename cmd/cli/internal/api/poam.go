package api

import (
	"context"
	"fmt"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/httpclient"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// POAMClient talks to the /poam endpoints
type POAMClient struct {
	hc *httpclient.Client
}

// POAMQuery narrows a POA&M listing on the server. Empty fields are not sent.
type POAMQuery struct {
	Status    string
	RiskLevel string
}

// CreatePOAMRequest is the body of POST /poam.
// PlannedCompletionDate is sent as null when empty.
type CreatePOAMRequest struct {
	ControlID             string            `json:"control_id"`
	WeaknessDescription   string            `json:"weakness_description"`
	RemediationPlan       string            `json:"remediation_plan"`
	RiskLevel             models.RiskLevel  `json:"risk_level"`
	ResponsiblePerson     string            `json:"responsible_person"`
	PlannedCompletionDate *string           `json:"planned_completion_date"`
	Status                models.POAMStatus `json:"status"`
}

// UpdatePOAMRequest carries a partial update of a POA&M item
type UpdatePOAMRequest struct {
	Status                *models.POAMStatus `json:"status,omitempty"`
	RiskLevel             *models.RiskLevel  `json:"risk_level,omitempty"`
	RemediationPlan       *string            `json:"remediation_plan,omitempty"`
	ResponsiblePerson     *string            `json:"responsible_person,omitempty"`
	PlannedCompletionDate *string            `json:"planned_completion_date,omitempty"`
}

// List returns the POA&M items matching q
func (c *POAMClient) List(ctx context.Context, q POAMQuery) ([]models.POAMItem, error) {
	var items []models.POAMItem
	if err := c.hc.Get(ctx, "/poam", params("status", q.Status, "risk_level", q.RiskLevel), &items); err != nil {
		return nil, fmt.Errorf("failed to get POA&M items: %w", err)
	}
	return items, nil
}

// Create opens a new POA&M item
func (c *POAMClient) Create(ctx context.Context, req CreatePOAMRequest) (*models.POAMItem, error) {
	var item models.POAMItem
	if err := c.hc.Post(ctx, "/poam", req, &item); err != nil {
		return nil, fmt.Errorf("failed to create POA&M item: %w", err)
	}
	return &item, nil
}

// Update applies a partial update to a POA&M item
func (c *POAMClient) Update(ctx context.Context, id string, req UpdatePOAMRequest) (*models.POAMItem, error) {
	var item models.POAMItem
	if err := c.hc.Put(ctx, idPath("/poam", id), req, &item); err != nil {
		return nil, fmt.Errorf("failed to update POA&M item %s: %w", id, err)
	}
	return &item, nil
}

// Delete removes a POA&M item
func (c *POAMClient) Delete(ctx context.Context, id string) error {
	if err := c.hc.Delete(ctx, idPath("/poam", id)); err != nil {
		return fmt.Errorf("failed to delete POA&M item %s: %w", id, err)
	}
	return nil
}
