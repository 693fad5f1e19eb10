package api

import (
	"context"
	"fmt"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/httpclient"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// DashboardClient fetches the server-computed dashboard aggregate
type DashboardClient struct {
	hc *httpclient.Client
}

// Get returns the dashboard aggregate
func (c *DashboardClient) Get(ctx context.Context) (*models.DashboardData, error) {
	var data models.DashboardData
	if err := c.hc.Get(ctx, "/dashboard", nil, &data); err != nil {
		return nil, fmt.Errorf("failed to get dashboard: %w", err)
	}
	return &data, nil
}
