package api

import (
	"context"
	"fmt"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/httpclient"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// FrameworksClient talks to the /frameworks endpoints
type FrameworksClient struct {
	hc *httpclient.Client
}

// List returns every framework
func (c *FrameworksClient) List(ctx context.Context) ([]models.Framework, error) {
	var frameworks []models.Framework
	if err := c.hc.Get(ctx, "/frameworks", nil, &frameworks); err != nil {
		return nil, fmt.Errorf("failed to get frameworks: %w", err)
	}
	return frameworks, nil
}

// Get returns a framework with its control families
func (c *FrameworksClient) Get(ctx context.Context, id string) (*models.Framework, error) {
	var framework models.Framework
	if err := c.hc.Get(ctx, idPath("/frameworks", id), nil, &framework); err != nil {
		return nil, fmt.Errorf("failed to get framework %s: %w", id, err)
	}
	return &framework, nil
}
