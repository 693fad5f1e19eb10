package views

import (
	"context"
	"fmt"
	"io"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/api"
	"github.com/eaw-compliance/eaw-cli/pkg/logger"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"golang.org/x/sync/errgroup"
)

// EvidenceStore is the evidence client surface the locker and upload pages use
type EvidenceStore interface {
	List(ctx context.Context, q api.EvidenceQuery) ([]models.Evidence, error)
	Create(ctx context.Context, req api.CreateEvidenceRequest) (*models.Evidence, error)
	Delete(ctx context.Context, id string) error
	BulkUpload(ctx context.Context, filename string, content io.Reader) (*models.BulkUploadResult, error)
	Template(ctx context.Context) ([]byte, error)
}

// FilterEvidence returns the evidence of type t, or everything when t is empty
func FilterEvidence(evidence []models.Evidence, t models.EvidenceType) []models.Evidence {
	out := make([]models.Evidence, 0, len(evidence))
	for _, e := range evidence {
		if t != "" && e.EvidenceType != t {
			continue
		}
		out = append(out, e)
	}
	return out
}

// EvidenceForm is the draft of a new evidence record
type EvidenceForm struct {
	ControlID   string
	Type        models.EvidenceType
	Title       string
	Description string
	URL         string
}

// NewEvidenceForm returns an empty draft with the default evidence type
func NewEvidenceForm() EvidenceForm {
	return EvidenceForm{Type: models.EvidencePolicy}
}

func (f EvidenceForm) request() api.CreateEvidenceRequest {
	t := f.Type
	if t == "" {
		t = models.EvidencePolicy
	}
	return api.CreateEvidenceRequest{
		ControlID:    f.ControlID,
		EvidenceType: t,
		Title:        f.Title,
		Description:  models.StringPtr(f.Description),
		ExternalURL:  models.StringPtr(f.URL),
	}
}

// EvidenceLocker is the evidence list page
type EvidenceLocker struct {
	page
	api      EvidenceStore
	controls ControlLister

	evidence    []models.Evidence
	controlList []models.Control
	typeFilter  models.EvidenceType
	draft       EvidenceForm
	submit      Submit
}

// NewEvidenceLocker creates an unloaded evidence locker
func NewEvidenceLocker(store EvidenceStore, controls ControlLister, log *logger.Logger) *EvidenceLocker {
	v := &EvidenceLocker{api: store, controls: controls, draft: NewEvidenceForm()}
	v.init(log)
	return v
}

// Load fetches the evidence and the control picker options together. If either
// fetch fails both keep their previous contents.
func (v *EvidenceLocker) Load(ctx context.Context) {
	gen := v.begin()

	var evidence []models.Evidence
	var controls []models.Control
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		evidence, err = v.api.List(gctx, api.EvidenceQuery{})
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
		v.log.Debugf("evidence load failed: %v", err)
	} else {
		v.evidence = evidence
		v.controlList = controls
	}
	v.phase = settled(len(v.evidence))
}

// Evidence returns every loaded record
func (v *EvidenceLocker) Evidence() []models.Evidence {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneSlice(v.evidence)
}

// Controls returns the control picker options
func (v *EvidenceLocker) Controls() []models.Control {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneSlice(v.controlList)
}

// SetTypeFilter replaces the local type filter
func (v *EvidenceLocker) SetTypeFilter(t models.EvidenceType) {
	v.mu.Lock()
	v.typeFilter = t
	v.mu.Unlock()
}

// Filtered returns the records passing the type filter
func (v *EvidenceLocker) Filtered() []models.Evidence {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return FilterEvidence(v.evidence, v.typeFilter)
}

// Draft returns the form of the create flow
func (v *EvidenceLocker) Draft() EvidenceForm {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.draft
}

// Submitting reports whether a create is in flight
func (v *EvidenceLocker) Submitting() bool {
	return v.submit.Busy()
}

// Add attaches a new record to a control. The control and title are required;
// an empty description or URL is sent as null.
func (v *EvidenceLocker) Add(ctx context.Context, form EvidenceForm) error {
	if err := required("control", form.ControlID, "title", form.Title); err != nil {
		return err
	}
	if form.Type != "" && !form.Type.Valid() {
		return fmt.Errorf("invalid evidence type %q", form.Type)
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
	v.draft = NewEvidenceForm()
	v.mu.Unlock()
	v.Load(ctx)
	return nil
}

// Delete removes a record and reloads the locker
func (v *EvidenceLocker) Delete(ctx context.Context, id string) error {
	if err := v.api.Delete(ctx, id); err != nil {
		return err
	}
	v.Load(ctx)
	return nil
}
