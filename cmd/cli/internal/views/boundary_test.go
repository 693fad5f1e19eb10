package views

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeBoundary(t *testing.T) {
	assets := []models.BoundaryAsset{
		{InScope: 1, DataClassification: models.StringPtr("CUI")},
		{InScope: 1, DataClassification: models.StringPtr("cui")},
		{InScope: 0, DataClassification: models.StringPtr("CUI")},
		{InScope: 1, DataClassification: models.StringPtr("Fci")},
		{InScope: 1, DataClassification: models.StringPtr("Public")},
		{InScope: 1},
	}
	assert.Equal(t, BoundarySummary{Total: 6, CUI: 2, FCI: 1}, SummarizeBoundary(assets))
	assert.Equal(t, BoundarySummary{}, SummarizeBoundary(nil))
}

func TestBoundaryRegister(t *testing.T) {
	client, srv := newAPI(t)
	ctx := context.Background()
	v := NewBoundaryRegister(client.Boundary, nil)
	v.Load(ctx)

	assert.Equal(t, BoundarySummary{Total: 4, CUI: 1, FCI: 1}, v.Summary())

	scope, err := v.ToggleScope(ctx, "asset-4")
	require.NoError(t, err)
	assert.Equal(t, 1, scope)
	assert.Equal(t, 2, v.Summary().CUI)

	scope, err = v.ToggleScope(ctx, "asset-4")
	require.NoError(t, err)
	assert.Equal(t, 0, scope)

	_, err = v.ToggleScope(ctx, "asset-missing")
	assert.Error(t, err)
	assert.Equal(t, 2, srv.Count(http.MethodPut, "/boundary/asset-4"))
}

func TestBoundaryAddDefaults(t *testing.T) {
	client, srv := newAPI(t)
	ctx := context.Background()
	v := NewBoundaryRegister(client.Boundary, nil)
	v.Load(ctx)

	assert.EqualError(t, v.Add(ctx, BoundaryForm{}), "name is required")

	require.NoError(t, v.Add(ctx, BoundaryForm{Name: "Domain Controller"}))
	req, _ := srv.Last(http.MethodPost, "/boundary")
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "CUI", body["data_classification"])
	assert.Equal(t, float64(1), body["in_scope"])
	assert.Nil(t, body["asset_type"])
	assert.Nil(t, body["boundary_name"])
	assert.Nil(t, body["notes"])

	assert.Equal(t, 2, v.Summary().CUI)
	assert.Equal(t, NewBoundaryForm(), v.Draft())

	require.NoError(t, v.Delete(ctx, "asset-1"))
	assert.Len(t, v.Assets(), 4)
}
