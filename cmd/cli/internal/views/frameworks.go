package views

import (
	"context"

	"github.com/eaw-compliance/eaw-cli/pkg/logger"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
)

// FrameworkCatalog is the framework client surface the list uses
type FrameworkCatalog interface {
	List(ctx context.Context) ([]models.Framework, error)
}

// FrameworkList is the frameworks page
type FrameworkList struct {
	page
	api FrameworkCatalog

	frameworks []models.Framework
}

// NewFrameworkList creates an unloaded framework list
func NewFrameworkList(catalog FrameworkCatalog, log *logger.Logger) *FrameworkList {
	v := &FrameworkList{api: catalog}
	v.init(log)
	return v
}

// Load fetches the frameworks. On failure the previous list is kept.
func (v *FrameworkList) Load(ctx context.Context) {
	gen := v.begin()
	frameworks, err := v.api.List(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen.stale(gen) {
		return
	}
	if err != nil {
		v.log.Debugf("framework list load failed: %v", err)
	} else {
		v.frameworks = frameworks
	}
	v.phase = settled(len(v.frameworks))
}

// Frameworks returns every loaded framework
func (v *FrameworkList) Frameworks() []models.Framework {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneSlice(v.frameworks)
}
