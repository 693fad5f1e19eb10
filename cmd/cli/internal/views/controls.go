package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/api"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/httpclient"
	"github.com/eaw-compliance/eaw-cli/pkg/logger"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"golang.org/x/sync/errgroup"
)

// ControlLister is the part of the controls client every page with a control
// picker needs
type ControlLister interface {
	List(ctx context.Context, q api.ControlQuery) ([]models.Control, error)
}

// ControlCatalog lists controls and their families
type ControlCatalog interface {
	ControlLister
	Families(ctx context.Context) ([]models.ControlFamily, error)
}

// ControlEditor reads and mutates a single control
type ControlEditor interface {
	Get(ctx context.Context, id string) (*models.Control, error)
	Update(ctx context.Context, id string, update api.ControlUpdate) (*models.Control, error)
	SetStatus(ctx context.Context, id string, status models.ImplementationStatus) (*models.Control, error)
	UpdateObjective(ctx context.Context, id string, update api.ObjectiveUpdate) (*models.AssessmentObjective, error)
}

// ControlFilter narrows the control list locally. Empty fields match everything.
type ControlFilter struct {
	// Family matches the family id or, case-insensitively, the family code
	Family string
	Status models.ImplementationStatus
	Search string
}

// FilterControls returns the controls matching f, in their original order.
// Search is a case-insensitive substring match over the control number, title
// and family code.
func FilterControls(controls []models.Control, f ControlFilter) []models.Control {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Control, 0, len(controls))
	for _, c := range controls {
		if f.Family != "" && c.FamilyID != f.Family && !strings.EqualFold(c.FamilyCode, f.Family) {
			continue
		}
		if f.Status != "" && c.ImplementationStatus != f.Status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(c.ControlNumber), q) &&
			!strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.FamilyCode), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ControlList is the control catalogue page
type ControlList struct {
	page
	api ControlCatalog

	controls []models.Control
	families []models.ControlFamily
	filter   ControlFilter
}

// NewControlList creates an unloaded control list page
func NewControlList(catalog ControlCatalog, log *logger.Logger) *ControlList {
	v := &ControlList{api: catalog}
	v.init(log)
	return v
}

// Load fetches controls and families together. If either fetch fails both
// lists keep their previous contents.
func (v *ControlList) Load(ctx context.Context) {
	gen := v.begin()

	var controls []models.Control
	var families []models.ControlFamily
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		controls, err = v.api.List(gctx, api.ControlQuery{})
		return err
	})
	g.Go(func() error {
		var err error
		families, err = v.api.Families(gctx)
		return err
	})
	err := g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen.stale(gen) {
		return
	}
	if err != nil {
		v.log.Debugf("control list load failed: %v", err)
	} else {
		v.controls = controls
		v.families = families
	}
	v.phase = settled(len(v.controls))
}

// SetFilter replaces the local filter
func (v *ControlList) SetFilter(f ControlFilter) {
	v.mu.Lock()
	v.filter = f
	v.mu.Unlock()
}

// Filter returns the local filter
func (v *ControlList) Filter() ControlFilter {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filter
}

// Controls returns every loaded control
func (v *ControlList) Controls() []models.Control {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneSlice(v.controls)
}

// Families returns the loaded control families
func (v *ControlList) Families() []models.ControlFamily {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneSlice(v.families)
}

// Filtered returns the controls passing the current filter
func (v *ControlList) Filtered() []models.Control {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return FilterControls(v.controls, v.filter)
}

// ErrUnknownObjective is returned for an objective id the loaded control does not carry
var ErrUnknownObjective = errors.New("objective does not belong to this control")

// ControlForm is the editable part of a control
type ControlForm struct {
	Status              models.ImplementationStatus
	ImplementationNotes string
	AssessorNotes       string
}

// ControlDetail is the single-control page with its edit form and objectives
type ControlDetail struct {
	page
	api ControlEditor
	id  string

	control *models.Control
	form    ControlForm
	saving  Submit
}

// NewControlDetail creates an unloaded detail page for the control id
func NewControlDetail(editor ControlEditor, id string, log *logger.Logger) *ControlDetail {
	v := &ControlDetail{api: editor, id: id}
	v.init(log)
	return v
}

// Load fetches the control. The edit form is reset to the fetched values.
// A 404 ends in PhaseNotFound. Any other failure with nothing loaded ends in
// PhaseFailed.
func (v *ControlDetail) Load(ctx context.Context) {
	gen := v.begin()
	control, err := v.api.Get(ctx, v.id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen.stale(gen) {
		return
	}
	missing := false
	if err != nil {
		missing = errors.Is(err, httpclient.ErrNotFound)
		if !missing {
			v.log.Debugf("control %s load failed: %v", v.id, err)
		}
	} else {
		v.setControl(control)
	}
	switch {
	case v.control != nil:
		v.phase = PhaseReady
	case err != nil && !missing:
		v.phase = PhaseFailed
	default:
		v.phase = PhaseNotFound
	}
}

// setControl replaces the control, keeping nested collections the response
// may omit. Callers hold the lock.
func (v *ControlDetail) setControl(c *models.Control) {
	if v.control != nil {
		if c.Objectives == nil {
			c.Objectives = v.control.Objectives
		}
		if c.Evidence == nil {
			c.Evidence = v.control.Evidence
		}
		if c.POAMItems == nil {
			c.POAMItems = v.control.POAMItems
		}
	}
	v.control = c
	v.form = ControlForm{
		Status:              c.ImplementationStatus,
		ImplementationNotes: models.Deref(c.ImplementationNotes),
		AssessorNotes:       models.Deref(c.AssessorNotes),
	}
}

// Control returns a copy of the loaded control, or nil
func (v *ControlDetail) Control() *models.Control {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.control == nil {
		return nil
	}
	c := *v.control
	return &c
}

// Form returns the edit form
func (v *ControlDetail) Form() ControlForm {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.form
}

// SetForm replaces the edit form without saving it
func (v *ControlDetail) SetForm(f ControlForm) {
	v.mu.Lock()
	v.form = f
	v.mu.Unlock()
}

// Saving reports whether a save is in flight
func (v *ControlDetail) Saving() bool {
	return v.saving.Busy()
}

// Save sends the edit form. On success the control is replaced by the server's
// copy; on failure the page is unchanged and the error is returned.
func (v *ControlDetail) Save(ctx context.Context) error {
	if !v.saving.Begin() {
		return ErrBusy
	}
	defer v.saving.End()

	form := v.Form()
	if form.Status != "" && !form.Status.Valid() {
		return fmt.Errorf("invalid implementation status %q", form.Status)
	}
	update := api.ControlUpdate{
		ImplementationNotes: &form.ImplementationNotes,
		AssessorNotes:       &form.AssessorNotes,
	}
	if form.Status != "" {
		update.ImplementationStatus = &form.Status
	}

	updated, err := v.api.Update(ctx, v.id, update)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.setControl(updated)
	v.phase = PhaseReady
	v.mu.Unlock()
	return nil
}

// SetStatus changes only the implementation status, leaving the notes alone
func (v *ControlDetail) SetStatus(ctx context.Context, status models.ImplementationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid implementation status %q", status)
	}
	if !v.saving.Begin() {
		return ErrBusy
	}
	defer v.saving.End()

	updated, err := v.api.SetStatus(ctx, v.id, status)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.setControl(updated)
	v.phase = PhaseReady
	v.mu.Unlock()
	return nil
}

func (v *ControlDetail) objective(id string) (models.AssessmentObjective, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.control == nil {
		return models.AssessmentObjective{}, false
	}
	for _, o := range v.control.Objectives {
		if o.ID == id {
			return o, true
		}
	}
	return models.AssessmentObjective{}, false
}

// ToggleObjective advances the objective to the next status of the
// met, not met, not assessed cycle and reloads the control
func (v *ControlDetail) ToggleObjective(ctx context.Context, objectiveID string) (models.ObjectiveStatus, error) {
	obj, ok := v.objective(objectiveID)
	if !ok {
		return "", ErrUnknownObjective
	}
	next := obj.Status.Next()
	if _, err := v.api.UpdateObjective(ctx, objectiveID, api.ObjectiveUpdate{Status: &next}); err != nil {
		return "", err
	}
	v.Load(ctx)
	return next, nil
}

// SetObjectiveStatus sets the objective to status and reloads the control
func (v *ControlDetail) SetObjectiveStatus(ctx context.Context, objectiveID string, status models.ObjectiveStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid objective status %q", status)
	}
	if _, ok := v.objective(objectiveID); !ok {
		return ErrUnknownObjective
	}
	if _, err := v.api.UpdateObjective(ctx, objectiveID, api.ObjectiveUpdate{Status: &status}); err != nil {
		return err
	}
	v.Load(ctx)
	return nil
}
