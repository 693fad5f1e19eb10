package views

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/api"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func controlNumbers(controls []models.Control) []string {
	out := make([]string, len(controls))
	for i, c := range controls {
		out[i] = c.ControlNumber
	}
	return out
}

func TestFilterControls(t *testing.T) {
	controls := []models.Control{
		{ID: "1", FamilyID: "fam-ac", FamilyCode: "AC", ControlNumber: "3.1.1", Title: "Limit system access", ImplementationStatus: models.StatusImplemented},
		{ID: "2", FamilyID: "fam-ac", FamilyCode: "AC", ControlNumber: "3.1.2", Title: "Limit transactions", ImplementationStatus: models.StatusPlanned},
		{ID: "3", FamilyID: "fam-ia", FamilyCode: "IA", ControlNumber: "3.5.3", Title: "Multifactor authentication", ImplementationStatus: models.StatusPlanned},
	}

	tests := []struct {
		name   string
		filter ControlFilter
		want   []string
	}{
		{"no filter", ControlFilter{}, []string{"3.1.1", "3.1.2", "3.5.3"}},
		{"family id", ControlFilter{Family: "fam-ia"}, []string{"3.5.3"}},
		{"family code", ControlFilter{Family: "ac"}, []string{"3.1.1", "3.1.2"}},
		{"status", ControlFilter{Status: models.StatusPlanned}, []string{"3.1.2", "3.5.3"}},
		{"search title", ControlFilter{Search: "MULTIFACTOR"}, []string{"3.5.3"}},
		{"search number", ControlFilter{Search: "3.1"}, []string{"3.1.1", "3.1.2"}},
		{"search family code", ControlFilter{Search: "ia"}, []string{"3.5.3"}},
		{"combined", ControlFilter{Family: "AC", Status: models.StatusPlanned, Search: "limit"}, []string{"3.1.2"}},
		{"no match", ControlFilter{Search: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, controlNumbers(FilterControls(controls, tt.filter)))
		})
	}
	assert.Len(t, controls, 3)
}

func TestControlListFiltersLocally(t *testing.T) {
	client, srv := newAPI(t)
	v := NewControlList(client.Controls, nil)
	assert.Equal(t, PhaseLoading, v.Phase())

	v.Load(context.Background())
	require.Equal(t, PhaseReady, v.Phase())
	assert.Len(t, v.Controls(), 5)
	assert.Len(t, v.Families(), 4)

	before := len(srv.Requests())
	v.SetFilter(ControlFilter{Family: "AC"})
	assert.Len(t, v.Filtered(), 2)
	v.SetFilter(ControlFilter{Search: "audit"})
	assert.Equal(t, []string{"3.3.1"}, controlNumbers(v.Filtered()))
	assert.Equal(t, before, len(srv.Requests()))
	assert.Len(t, v.Controls(), 5)
}

func TestControlListClearingFiltersRestoresOriginal(t *testing.T) {
	client, _ := newAPI(t)
	v := NewControlList(client.Controls, nil)
	v.Load(context.Background())
	original := v.Controls()
	require.Len(t, original, 5)

	v.SetFilter(ControlFilter{Family: "AC"})
	assert.Equal(t, []string{"3.1.1", "3.1.2"}, controlNumbers(v.Filtered()))
	v.SetFilter(ControlFilter{Family: "AC", Status: models.StatusImplemented})
	assert.Equal(t, []string{"3.1.1"}, controlNumbers(v.Filtered()))
	v.SetFilter(ControlFilter{})
	assert.Equal(t, original, v.Filtered())
	assert.Equal(t, original, v.Controls())
}

func TestControlListReloadReentersLoading(t *testing.T) {
	g := &gatedCatalog{calls: make(chan chan []models.Control)}
	v := NewControlList(g, nil)

	done := make(chan struct{})
	go func() {
		v.Load(context.Background())
		close(done)
	}()
	(<-g.calls) <- []models.Control{{ID: "a"}}
	<-done
	require.Equal(t, PhaseReady, v.Phase())

	done = make(chan struct{})
	go func() {
		v.Load(context.Background())
		close(done)
	}()
	reply := <-g.calls
	assert.Equal(t, PhaseLoading, v.Phase())
	reply <- []models.Control{}
	<-done
	assert.Equal(t, PhaseReadyEmpty, v.Phase())
}

func TestControlListEitherFailureLeavesBothEmpty(t *testing.T) {
	client, srv := newAPI(t)
	srv.Fail(http.MethodGet, "/controls/families", http.StatusInternalServerError)

	v := NewControlList(client.Controls, nil)
	v.Load(context.Background())
	assert.Equal(t, PhaseReadyEmpty, v.Phase())
	assert.Empty(t, v.Controls())
	assert.Empty(t, v.Families())
	assert.Empty(t, v.Filtered())
}

// gatedCatalog blocks each List call until the test answers on the channel it hands out
type gatedCatalog struct {
	calls chan chan []models.Control
}

func (g *gatedCatalog) List(ctx context.Context, _ api.ControlQuery) ([]models.Control, error) {
	reply := make(chan []models.Control)
	g.calls <- reply
	return <-reply, nil
}

func (g *gatedCatalog) Families(context.Context) ([]models.ControlFamily, error) {
	return []models.ControlFamily{}, nil
}

func TestControlListDiscardsStaleLoad(t *testing.T) {
	g := &gatedCatalog{calls: make(chan chan []models.Control)}
	v := NewControlList(g, nil)

	firstDone := make(chan struct{})
	go func() {
		v.Load(context.Background())
		close(firstDone)
	}()
	first := <-g.calls

	secondDone := make(chan struct{})
	go func() {
		v.Load(context.Background())
		close(secondDone)
	}()
	second := <-g.calls

	second <- []models.Control{{ID: "new"}}
	<-secondDone
	first <- []models.Control{{ID: "old"}}
	<-firstDone

	require.Len(t, v.Controls(), 1)
	assert.Equal(t, "new", v.Controls()[0].ID)
}

func TestControlDetailNotFound(t *testing.T) {
	client, _ := newAPI(t)
	v := NewControlDetail(client.Controls, "missing", nil)
	v.Load(context.Background())
	assert.Equal(t, PhaseNotFound, v.Phase())
	assert.Nil(t, v.Control())
}

func TestControlDetailServerFailure(t *testing.T) {
	client, srv := newAPI(t)
	srv.Fail(http.MethodGet, "/controls/ctl-1", http.StatusInternalServerError)

	v := NewControlDetail(client.Controls, "ctl-1", nil)
	v.Load(context.Background())
	assert.Equal(t, PhaseFailed, v.Phase())
	assert.Nil(t, v.Control())

	srv.Heal()
	v.Load(context.Background())
	require.Equal(t, PhaseReady, v.Phase())

	srv.Fail(http.MethodGet, "/controls/ctl-1", http.StatusInternalServerError)
	v.Load(context.Background())
	assert.Equal(t, PhaseReady, v.Phase())
	assert.Equal(t, "ctl-1", v.Control().ID)
}

func TestControlDetailSave(t *testing.T) {
	client, srv := newAPI(t)
	ctx := context.Background()
	v := NewControlDetail(client.Controls, "ctl-1", nil)
	v.Load(ctx)
	require.Equal(t, PhaseReady, v.Phase())
	assert.Equal(t, models.StatusImplemented, v.Form().Status)

	v.SetForm(ControlForm{Status: models.StatusPlanned, ImplementationNotes: "Rolling out", AssessorNotes: "Check Q3"})
	require.NoError(t, v.Save(ctx))

	c := v.Control()
	assert.Equal(t, models.StatusPlanned, c.ImplementationStatus)
	assert.Equal(t, "Rolling out", models.Deref(c.ImplementationNotes))
	assert.Len(t, c.Objectives, 2)

	srv.Fail(http.MethodPut, "/controls/ctl-1", http.StatusInternalServerError)
	v.SetForm(ControlForm{Status: models.StatusNotImplemented})
	assert.Error(t, v.Save(ctx))
	assert.Equal(t, models.StatusPlanned, v.Control().ImplementationStatus)
	assert.False(t, v.Saving())
}

func TestControlDetailSetStatus(t *testing.T) {
	client, _ := newAPI(t)
	ctx := context.Background()
	v := NewControlDetail(client.Controls, "ctl-5", nil)
	v.Load(ctx)

	require.NoError(t, v.SetStatus(ctx, models.StatusNotApplicable))
	assert.Equal(t, models.StatusNotApplicable, v.Control().ImplementationStatus)
	assert.Error(t, v.SetStatus(ctx, "bogus"))
}

func TestToggleObjectiveCycles(t *testing.T) {
	client, _ := newAPI(t)
	ctx := context.Background()
	v := NewControlDetail(client.Controls, "ctl-1", nil)
	v.Load(ctx)

	want := []models.ObjectiveStatus{models.ObjectiveNotAssessed, models.ObjectiveMet, models.ObjectiveNotMet}
	for _, w := range want {
		next, err := v.ToggleObjective(ctx, "obj-1b")
		require.NoError(t, err)
		assert.Equal(t, w, next)

		obj, ok := v.objective("obj-1b")
		require.True(t, ok)
		assert.Equal(t, w, obj.Status)
	}

	_, err := v.ToggleObjective(ctx, "obj-unknown")
	assert.True(t, errors.Is(err, ErrUnknownObjective))
}

func TestSetObjectiveStatus(t *testing.T) {
	client, _ := newAPI(t)
	ctx := context.Background()
	v := NewControlDetail(client.Controls, "ctl-1", nil)
	v.Load(ctx)

	require.NoError(t, v.SetObjectiveStatus(ctx, "obj-1a", models.ObjectiveNotMet))
	obj, _ := v.objective("obj-1a")
	assert.Equal(t, models.ObjectiveNotMet, obj.Status)
	assert.Error(t, v.SetObjectiveStatus(ctx, "obj-1a", "partial"))
}
