// Package views holds the page view-models. A view-model owns the records one
// page has loaded, the local filter and form state, and the submit lock of its
// create flow. Derived data (filtered lists, summaries, display bands) is computed
// by pure functions over a snapshot and never touches the network.
package views

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/eaw-compliance/eaw-cli/pkg/logger"
)

// Phase is the load state of a page
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseReadyEmpty
	PhaseNotFound
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseReadyEmpty:
		return "empty"
	case PhaseNotFound:
		return "not found"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrBusy is returned when a submission is attempted while another is in flight
var ErrBusy = errors.New("a submission is already in progress")

// ValidationError lists the required form fields that were left empty.
// Nothing is sent to the server when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return e.Fields[0] + " is required"
	}
	return strings.Join(e.Fields, " and ") + " are required"
}

func required(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Fields: missing}
}

// Submit guards a create or save flow. Begin refuses re-entry until End is called.
type Submit struct {
	mu   sync.Mutex
	busy bool
}

// Begin takes the lock, reporting false if a submission is already running
func (s *Submit) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

// End releases the lock
func (s *Submit) End() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Busy reports whether a submission is running
func (s *Submit) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// generation numbers loads so that only the latest one may commit its result
type generation struct {
	n atomic.Uint64
}

func (g *generation) next() uint64 {
	return g.n.Add(1)
}

func (g *generation) stale(n uint64) bool {
	return g.n.Load() != n
}

// page is the state every view-model shares
type page struct {
	mu    sync.RWMutex
	phase Phase
	gen   generation
	log   *logger.Logger
}

func (p *page) init(log *logger.Logger) {
	if log == nil {
		log = logger.Discard()
	}
	p.phase = PhaseLoading
	p.log = log
}

// begin starts a load: it takes the next generation and re-enters loading
func (p *page) begin() uint64 {
	n := p.gen.next()
	p.mu.Lock()
	p.phase = PhaseLoading
	p.mu.Unlock()
	return n
}

// Phase returns the current load state
func (p *page) Phase() Phase {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.phase
}

func settled(n int) Phase {
	if n == 0 {
		return PhaseReadyEmpty
	}
	return PhaseReady
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
