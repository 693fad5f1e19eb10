package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/api"
	"github.com/eaw-compliance/eaw-cli/pkg/logger"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"golang.org/x/sync/errgroup"
)

// POAMStore is the POA&M client surface the board uses
type POAMStore interface {
	List(ctx context.Context, q api.POAMQuery) ([]models.POAMItem, error)
	Create(ctx context.Context, req api.CreatePOAMRequest) (*models.POAMItem, error)
	Update(ctx context.Context, id string, req api.UpdatePOAMRequest) (*models.POAMItem, error)
	Delete(ctx context.Context, id string) error
}

// POAMFilter narrows the board locally. Empty fields match everything.
type POAMFilter struct {
	Risk   models.RiskLevel
	Status models.POAMStatus
}

// FilterPOAM returns the items matching f, in their original order
func FilterPOAM(items []models.POAMItem, f POAMFilter) []models.POAMItem {
	out := make([]models.POAMItem, 0, len(items))
	for _, item := range items {
		if f.Risk != "" && item.RiskLevel != f.Risk {
			continue
		}
		if f.Status != "" && item.Status != f.Status {
			continue
		}
		out = append(out, item)
	}
	return out
}

// POAMForm is the draft of a new POA&M item
type POAMForm struct {
	ControlID   string
	Weakness    string
	Remediation string
	Risk        models.RiskLevel
	Owner       string
	DueDate     string
}

// NewPOAMForm returns an empty draft with the default risk level
func NewPOAMForm() POAMForm {
	return POAMForm{Risk: models.RiskModerate}
}

func (f POAMForm) request() api.CreatePOAMRequest {
	risk := f.Risk
	if risk == "" {
		risk = models.RiskModerate
	}
	return api.CreatePOAMRequest{
		ControlID:             f.ControlID,
		WeaknessDescription:   f.Weakness,
		RemediationPlan:       f.Remediation,
		RiskLevel:             risk,
		ResponsiblePerson:     f.Owner,
		PlannedCompletionDate: models.StringPtr(strings.TrimSpace(f.DueDate)),
		Status:                models.POAMOpen,
	}
}

// POAMBoard is the POA&M tracker page
type POAMBoard struct {
	page
	api      POAMStore
	controls ControlLister

	items       []models.POAMItem
	controlList []models.Control
	filter      POAMFilter
	draft       POAMForm
	submit      Submit
}

// NewPOAMBoard creates an unloaded POA&M board
func NewPOAMBoard(store POAMStore, controls ControlLister, log *logger.Logger) *POAMBoard {
	v := &POAMBoard{api: store, controls: controls, draft: NewPOAMForm()}
	v.init(log)
	return v
}

// Load fetches the items and the control picker options together. If either
// fetch fails both keep their previous contents.
func (v *POAMBoard) Load(ctx context.Context) {
	gen := v.begin()

	var items []models.POAMItem
	var controls []models.Control
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = v.api.List(gctx, api.POAMQuery{})
		return err
	})
	g.Go(func() error {
		var err error
		controls, err = v.controls.List(gctx, api.ControlQuery{})
		return err
	})
	err := g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen.stale(gen) {
		return
	}
	if err != nil {
		v.log.Debugf("POA&M load failed: %v", err)
	} else {
		v.items = items
		v.controlList = controls
	}
	v.phase = settled(len(v.items))
}

// Items returns every loaded item
func (v *POAMBoard) Items() []models.POAMItem {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneSlice(v.items)
}

// Controls returns the control picker options
func (v *POAMBoard) Controls() []models.Control {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneSlice(v.controlList)
}

// SetFilter replaces the local filter
func (v *POAMBoard) SetFilter(f POAMFilter) {
	v.mu.Lock()
	v.filter = f
	v.mu.Unlock()
}

// Filtered returns the items passing the current filter
func (v *POAMBoard) Filtered() []models.POAMItem {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return FilterPOAM(v.items, v.filter)
}

// Draft returns the form of the create flow. After a failed Add it still holds
// what was submitted.
func (v *POAMBoard) Draft() POAMForm {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.draft
}

// Submitting reports whether a create is in flight
func (v *POAMBoard) Submitting() bool {
	return v.submit.Busy()
}

// Add creates a POA&M item with status open. The control and weakness are
// required. On success the draft is reset and the board reloaded.
func (v *POAMBoard) Add(ctx context.Context, form POAMForm) error {
	if err := required("control", form.ControlID, "weakness", form.Weakness); err != nil {
		return err
	}
	if form.Risk != "" && !form.Risk.Valid() {
		return fmt.Errorf("invalid risk level %q", form.Risk)
	}
	if !v.submit.Begin() {
		return ErrBusy
	}
	defer v.submit.End()

	v.mu.Lock()
	v.draft = form
	v.mu.Unlock()

	if _, err := v.api.Create(ctx, form.request()); err != nil {
		return err
	}

	v.mu.Lock()
	v.draft = NewPOAMForm()
	v.mu.Unlock()
	v.Load(ctx)
	return nil
}

// ChangeStatus moves an item to status and reloads the board
func (v *POAMBoard) ChangeStatus(ctx context.Context, id string, status models.POAMStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid POA&M status %q", status)
	}
	if _, err := v.api.Update(ctx, id, api.UpdatePOAMRequest{Status: &status}); err != nil {
		return err
	}
	v.Load(ctx)
	return nil
}

// Delete removes an item and reloads the board
func (v *POAMBoard) Delete(ctx context.Context, id string) error {
	if err := v.api.Delete(ctx, id); err != nil {
		return err
	}
	v.Load(ctx)
	return nil
}
