package api

import (
	"context"
	"fmt"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/httpclient"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// BoundaryClient talks to the /boundary endpoints
type BoundaryClient struct {
	hc *httpclient.Client
}

// CreateBoundaryRequest is the body of POST /boundary. Empty optional fields are sent as null.
type CreateBoundaryRequest struct {
	AssetName          string  `json:"asset_name"`
	AssetType          *string `json:"asset_type"`
	BoundaryName       *string `json:"boundary_name"`
	DataClassification string  `json:"data_classification"`
	InScope            int     `json:"in_scope"`
	Notes              *string `json:"notes"`
}

// UpdateBoundaryRequest carries a partial update of a boundary asset
type UpdateBoundaryRequest struct {
	InScope            *int    `json:"in_scope,omitempty"`
	DataClassification *string `json:"data_classification,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}

// List returns every registered boundary asset
func (c *BoundaryClient) List(ctx context.Context) ([]models.BoundaryAsset, error) {
	var assets []models.BoundaryAsset
	if err := c.hc.Get(ctx, "/boundary", nil, &assets); err != nil {
		return nil, fmt.Errorf("failed to get boundary assets: %w", err)
	}
	return assets, nil
}

// Create registers a new boundary asset
func (c *BoundaryClient) Create(ctx context.Context, req CreateBoundaryRequest) (*models.BoundaryAsset, error) {
	var asset models.BoundaryAsset
	if err := c.hc.Post(ctx, "/boundary", req, &asset); err != nil {
		return nil, fmt.Errorf("failed to create boundary asset: %w", err)
	}
	return &asset, nil
}

// Update applies a partial update to a boundary asset
func (c *BoundaryClient) Update(ctx context.Context, id string, req UpdateBoundaryRequest) (*models.BoundaryAsset, error) {
	var asset models.BoundaryAsset
	if err := c.hc.Put(ctx, idPath("/boundary", id), req, &asset); err != nil {
		return nil, fmt.Errorf("failed to update boundary asset %s: %w", id, err)
	}
	return &asset, nil
}

// Delete removes a boundary asset
func (c *BoundaryClient) Delete(ctx context.Context, id string) error {
	if err := c.hc.Delete(ctx, idPath("/boundary", id)); err != nil {
		return fmt.Errorf("failed to delete boundary asset %s: %w", id, err)
	}
	return nil
}
