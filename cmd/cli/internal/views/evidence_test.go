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

func TestEvidenceLockerFilter(t *testing.T) {
	client, _ := newAPI(t)
	v := NewEvidenceLocker(client.Evidence, client.Controls, nil)
	v.Load(context.Background())

	assert.Len(t, v.Evidence(), 2)
	v.SetTypeFilter(models.EvidenceScreenshot)
	require.Len(t, v.Filtered(), 1)
	assert.Equal(t, "ev-2", v.Filtered()[0].ID)
	v.SetTypeFilter("")
	assert.Len(t, v.Filtered(), 2)
}

func TestEvidenceAdd(t *testing.T) {
	client, srv := newAPI(t)
	ctx := context.Background()
	v := NewEvidenceLocker(client.Evidence, client.Controls, nil)
	v.Load(ctx)

	err := v.Add(ctx, EvidenceForm{ControlID: "ctl-1"})
	assert.EqualError(t, err, "title is required")
	assert.Equal(t, 0, srv.Count(http.MethodPost, "/evidence"))

	require.NoError(t, v.Add(ctx, EvidenceForm{ControlID: "ctl-3", Title: "Audit log sample"}))
	req, _ := srv.Last(http.MethodPost, "/evidence")
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "policy", body["evidence_type"])
	assert.Nil(t, body["description"])
	assert.Nil(t, body["external_url"])
	assert.Len(t, v.Evidence(), 3)
}

func TestEvidenceDelete(t *testing.T) {
	client, _ := newAPI(t)
	ctx := context.Background()
	v := NewEvidenceLocker(client.Evidence, client.Controls, nil)
	v.Load(ctx)

	require.NoError(t, v.Delete(ctx, "ev-1"))
	assert.Len(t, v.Evidence(), 1)
	assert.Error(t, v.Delete(ctx, "ev-1"))
}

func TestEvidenceLoadFailureIsEmpty(t *testing.T) {
	client, srv := newAPI(t)
	srv.Fail(http.MethodGet, "/evidence", http.StatusInternalServerError)
	v := NewEvidenceLocker(client.Evidence, client.Controls, nil)
	v.Load(context.Background())
	assert.Equal(t, PhaseReadyEmpty, v.Phase())
	assert.Empty(t, v.Evidence())
	assert.Empty(t, v.Controls())
}
