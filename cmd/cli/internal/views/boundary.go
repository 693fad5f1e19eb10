package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/api"
	"github.com/eaw-compliance/eaw-cli/pkg/logger"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// BoundaryStore is the boundary client surface the register uses
type BoundaryStore interface {
	List(ctx context.Context) ([]models.BoundaryAsset, error)
	Create(ctx context.Context, req api.CreateBoundaryRequest) (*models.BoundaryAsset, error)
	Update(ctx context.Context, id string, req api.UpdateBoundaryRequest) (*models.BoundaryAsset, error)
	Delete(ctx context.Context, id string) error
}

// BoundarySummary counts the registered assets and the in-scope CUI and FCI assets
type BoundarySummary struct {
	Total int `json:"total" yaml:"total"`
	CUI   int `json:"cui_in_scope" yaml:"cui_in_scope"`
	FCI   int `json:"fci_in_scope" yaml:"fci_in_scope"`
}

// SummarizeBoundary counts in-scope assets by classification. The classification
// match is case-insensitive; out-of-scope assets count only towards Total.
func SummarizeBoundary(assets []models.BoundaryAsset) BoundarySummary {
	s := BoundarySummary{Total: len(assets)}
	for _, a := range assets {
		if a.InScope != 1 || a.DataClassification == nil {
			continue
		}
		switch strings.ToUpper(*a.DataClassification) {
		case "CUI":
			s.CUI++
		case "FCI":
			s.FCI++
		}
	}
	return s
}

// BoundaryForm is the draft of a new boundary asset
type BoundaryForm struct {
	Name           string
	Type           string
	Boundary       string
	Classification string
	Notes          string
}

// NewBoundaryForm returns an empty draft classified as CUI
func NewBoundaryForm() BoundaryForm {
	return BoundaryForm{Classification: "CUI"}
}

func (f BoundaryForm) request() api.CreateBoundaryRequest {
	classification := f.Classification
	if classification == "" {
		classification = "CUI"
	}
	return api.CreateBoundaryRequest{
		AssetName:          f.Name,
		AssetType:          models.StringPtr(f.Type),
		BoundaryName:       models.StringPtr(f.Boundary),
		DataClassification: classification,
		InScope:            1,
		Notes:              models.StringPtr(f.Notes),
	}
}

// BoundaryRegister is the assessment boundary page
type BoundaryRegister struct {
	page
	api BoundaryStore

	assets []models.BoundaryAsset
	draft  BoundaryForm
	submit Submit
}

// NewBoundaryRegister creates an unloaded boundary register
func NewBoundaryRegister(store BoundaryStore, log *logger.Logger) *BoundaryRegister {
	v := &BoundaryRegister{api: store, draft: NewBoundaryForm()}
	v.init(log)
	return v
}

// Load fetches the assets. On failure the previous list is kept.
func (v *BoundaryRegister) Load(ctx context.Context) {
	gen := v.begin()
	assets, err := v.api.List(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen.stale(gen) {
		return
	}
	if err != nil {
		v.log.Debugf("boundary load failed: %v", err)
	} else {
		v.assets = assets
	}
	v.phase = settled(len(v.assets))
}

// Assets returns every loaded asset
func (v *BoundaryRegister) Assets() []models.BoundaryAsset {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneSlice(v.assets)
}

// Summary returns the classification counts of the loaded assets
func (v *BoundaryRegister) Summary() BoundarySummary {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return SummarizeBoundary(v.assets)
}

// Draft returns the form of the create flow
func (v *BoundaryRegister) Draft() BoundaryForm {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.draft
}

// Submitting reports whether a create is in flight
func (v *BoundaryRegister) Submitting() bool {
	return v.submit.Busy()
}

// Add registers a new in-scope asset. The name is required.
func (v *BoundaryRegister) Add(ctx context.Context, form BoundaryForm) error {
	if err := required("name", form.Name); err != nil {
		return err
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
	v.draft = NewBoundaryForm()
	v.mu.Unlock()
	v.Load(ctx)
	return nil
}

// ToggleScope flips an asset between in scope and out of scope and reloads.
// It returns the new scope flag.
func (v *BoundaryRegister) ToggleScope(ctx context.Context, id string) (int, error) {
	current := -1
	v.mu.RLock()
	for _, a := range v.assets {
		if a.ID == id {
			current = a.InScope
			break
		}
	}
	v.mu.RUnlock()
	if current < 0 {
		return 0, fmt.Errorf("boundary asset %s is not loaded", id)
	}

	next := 1
	if current == 1 {
		next = 0
	}
	if _, err := v.api.Update(ctx, id, api.UpdateBoundaryRequest{InScope: &next}); err != nil {
		return current, err
	}
	v.Load(ctx)
	return next, nil
}

// Delete removes an asset and reloads the register
func (v *BoundaryRegister) Delete(ctx context.Context, id string) error {
	if err := v.api.Delete(ctx, id); err != nil {
		return err
	}
	v.Load(ctx)
	return nil
}
