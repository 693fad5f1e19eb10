package views

import (
	"testing"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/api"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/apitest"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/httpclient"
	"github.com/stretchr/testify/assert"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newAPI(t *testing.T) (*api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t)
	hc := httpclient.NewWithHTTPClient(srv.BaseURL(), srv.Client(), staticToken(srv.Token), nil)
	return api.New(hc), srv
}

func TestSubmitLock(t *testing.T) {
	var s Submit
	assert.False(t, s.Busy())
	assert.True(t, s.Begin())
	assert.True(t, s.Busy())
	assert.False(t, s.Begin())
	s.End()
	assert.True(t, s.Begin())
}

func TestValidationErrorMessage(t *testing.T) {
	assert.EqualError(t, required("name", ""), "name is required")
	assert.EqualError(t, required("control", "", "weakness", " "), "control and weakness are required")
	assert.NoError(t, required("control", "ctl-1"))
}

func TestGenerationStale(t *testing.T) {
	var g generation
	first := g.next()
	second := g.next()
	assert.True(t, g.stale(first))
	assert.False(t, g.stale(second))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "empty", PhaseReadyEmpty.String())
	assert.Equal(t, "not found", PhaseNotFound.String())
	assert.Equal(t, "failed", PhaseFailed.String())
}
