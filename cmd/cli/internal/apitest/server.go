// Package apitest provides an in-memory stand-in for the compliance REST API,
// for use in tests of the clients, view-models and commands.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Request is a recorded call to the fake server
type Request struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   []byte
}

// Server is a fake REST collaborator. Fields may be modified between calls;
// the handlers take the lock.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	Username string
	Password string
	Token    string
	User     models.User
	// LoginTokenField names the field the login token is returned in
	LoginTokenField string
	// BareControlList makes GET /controls return an array instead of an envelope
	BareControlList bool

	Families   []models.ControlFamily
	Controls   []models.Control
	Evidence   []models.Evidence
	POAM       []models.POAMItem
	Boundary   []models.BoundaryAsset
	Frameworks []models.Framework
	Dashboard  models.DashboardData
	BulkResult models.BulkUploadResult
	BulkBody   []byte

	failures map[string]int
	requests []Request
}

// NewServer starts a fake server seeded with Seed data and registers its shutdown with t
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		Username:        "admin",
		Password:        "admin123",
		Token:           "test-token",
		User:            models.User{ID: "u-1", Username: "admin", Role: "admin"},
		LoginTokenField: "token",
		failures:        map[string]int{},
	}
	Seed(s)
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root the clients should be configured with
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Fail makes every request with method and path answer with status
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// Heal removes every injected failure
func (s *Server) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]int{}
}

// Requests returns a copy of the calls received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many calls matched method and path
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent call matching method and path
func (s *Server) Last(method, path string) (Request, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return Request{}, false
}

func (s *Server) router() http.Handler {
	root := mux.NewRouter()
	r := root.PathPrefix("/api").Subrouter()
	r.Use(s.record, s.inject, s.authenticate)

	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", s.me).Methods(http.MethodGet)

	r.HandleFunc("/frameworks", s.listFrameworks).Methods(http.MethodGet)
	r.HandleFunc("/frameworks/{id}", s.getFramework).Methods(http.MethodGet)

	r.HandleFunc("/controls", s.listControls).Methods(http.MethodGet)
	r.HandleFunc("/controls/families", s.listFamilies).Methods(http.MethodGet)
	r.HandleFunc("/controls/export", s.exportControls).Methods(http.MethodGet)
	r.HandleFunc("/controls/objectives/{id}", s.updateObjective).Methods(http.MethodPut)
	r.HandleFunc("/controls/{id}", s.getControl).Methods(http.MethodGet)
	r.HandleFunc("/controls/{id}", s.updateControl).Methods(http.MethodPut)
	r.HandleFunc("/controls/{id}/status", s.updateControl).Methods(http.MethodPut)

	r.HandleFunc("/dashboard", s.dashboard).Methods(http.MethodGet)

	r.HandleFunc("/evidence", s.listEvidence).Methods(http.MethodGet)
	r.HandleFunc("/evidence", s.createEvidence).Methods(http.MethodPost)
	r.HandleFunc("/evidence/template", s.template).Methods(http.MethodGet)
	r.HandleFunc("/evidence/bulk", s.bulk).Methods(http.MethodPost)
	r.HandleFunc("/evidence/{id}", s.deleteEvidence).Methods(http.MethodDelete)

	r.HandleFunc("/poam", s.listPOAM).Methods(http.MethodGet)
	r.HandleFunc("/poam", s.createPOAM).Methods(http.MethodPost)
	r.HandleFunc("/poam/{id}", s.updatePOAM).Methods(http.MethodPut)
	r.HandleFunc("/poam/{id}", s.deletePOAM).Methods(http.MethodDelete)

	r.HandleFunc("/boundary", s.listBoundary).Methods(http.MethodGet)
	r.HandleFunc("/boundary", s.createBoundary).Methods(http.MethodPost)
	r.HandleFunc("/boundary/{id}", s.updateBoundary).Methods(http.MethodPut)
	r.HandleFunc("/boundary/{id}", s.deleteBoundary).Methods(http.MethodDelete)

	return root
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(strings.NewReader(string(body)))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   strings.TrimPrefix(r.URL.Path, "/api"),
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, ok := s.failures[r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api")]
		s.mu.Unlock()
		if ok {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api")
		if path == "/auth/login" || path == "/evidence/template" {
			next.ServeHTTP(w, r)
			return
		}
		s.mu.Lock()
		want := "Bearer " + s.Token
		s.mu.Unlock()
		if r.Header.Get("Authorization") != want {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Missing Authorization Header"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func newID() string {
	return uuid.NewString()
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing request body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Username != s.Username || req.Password != s.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		s.LoginTokenField: s.Token,
		"user":            s.User,
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.User)
}

func (s *Server) listFrameworks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Frameworks)
}

func (s *Server) getFramework(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := mux.Vars(r)["id"]
	for _, f := range s.Frameworks {
		if f.ID == id {
			f.Families = s.Families
			writeJSON(w, http.StatusOK, f)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Framework not found"})
}

func (s *Server) listFamilies(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Families)
}

func (s *Server) listControls(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	familyID := r.URL.Query().Get("family_id")
	status := r.URL.Query().Get("status")
	out := []models.Control{}
	for _, c := range s.Controls {
		if familyID != "" && c.FamilyID != familyID {
			continue
		}
		if status != "" && string(c.ImplementationStatus) != status {
			continue
		}
		c.Objectives, c.Evidence, c.POAMItems = nil, nil, nil
		out = append(out, c)
	}
	if s.BareControlList {
		writeJSON(w, http.StatusOK, out)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"controls": out, "total": len(out)})
}

func (s *Server) controlIndex(id string) int {
	for i, c := range s.Controls {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) getControl(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.controlIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Control not found"})
		return
	}
	c := s.Controls[i]
	c.Evidence = []models.Evidence{}
	for _, e := range s.Evidence {
		if e.ControlID == c.ID {
			c.Evidence = append(c.Evidence, e)
		}
	}
	c.POAMItems = []models.POAMItem{}
	for _, p := range s.POAM {
		if p.ControlID == c.ID {
			c.POAMItems = append(c.POAMItems, p)
		}
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) updateControl(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImplementationStatus *models.ImplementationStatus `json:"implementation_status"`
		ImplementationNotes  *string                      `json:"implementation_notes"`
		AssessorNotes        *string                      `json:"assessor_notes"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing request body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.controlIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Control not found"})
		return
	}
	if req.ImplementationStatus != nil {
		if !req.ImplementationStatus.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid status"})
			return
		}
		s.Controls[i].ImplementationStatus = *req.ImplementationStatus
	}
	if req.ImplementationNotes != nil {
		s.Controls[i].ImplementationNotes = req.ImplementationNotes
	}
	if req.AssessorNotes != nil {
		s.Controls[i].AssessorNotes = req.AssessorNotes
	}
	writeJSON(w, http.StatusOK, s.Controls[i])
}

func (s *Server) updateObjective(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status *models.ObjectiveStatus `json:"status"`
		Notes  *string                 `json:"notes"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing request body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := mux.Vars(r)["id"]
	for ci := range s.Controls {
		for oi := range s.Controls[ci].Objectives {
			obj := &s.Controls[ci].Objectives[oi]
			if obj.ID != id {
				continue
			}
			if req.Status != nil {
				obj.Status = *req.Status
			}
			if req.Notes != nil {
				obj.Notes = req.Notes
			}
			writeJSON(w, http.StatusOK, obj)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Objective not found"})
}

func (s *Server) exportControls(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, models.ControlExport{
		Controls:   s.Controls,
		Total:      len(s.Controls),
		ExportedAt: "2026-01-15T10:00:00",
	})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Dashboard)
}

func (s *Server) listEvidence(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	controlID := r.URL.Query().Get("control_id")
	evidenceType := r.URL.Query().Get("evidence_type")
	out := []models.Evidence{}
	for _, e := range s.Evidence {
		if controlID != "" && e.ControlID != controlID {
			continue
		}
		if evidenceType != "" && string(e.EvidenceType) != evidenceType {
			continue
		}
		out = append(out, e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createEvidence(w http.ResponseWriter, r *http.Request) {
	var e models.Evidence
	if err := decode(r, &e); err != nil || e.ControlID == "" || e.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "control_id and title are required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = newID()
	e.UploadedAt = "2026-01-15T10:00:00"
	if i := s.controlIndex(e.ControlID); i >= 0 {
		e.ControlNumber = s.Controls[i].ControlNumber
	}
	s.Evidence = append(s.Evidence, e)
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) deleteEvidence(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := mux.Vars(r)["id"]
	for i, e := range s.Evidence {
		if e.ID == id {
			s.Evidence = append(s.Evidence[:i], s.Evidence[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Evidence deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Evidence not found"})
}

func (s *Server) template(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	_, _ = fmt.Fprint(w, "control_number,evidence_type,title,description,external_url\n")
}

func (s *Server) bulk(w http.ResponseWriter, r *http.Request) {
	f, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "No file provided"})
		return
	}
	defer f.Close()
	body, _ := io.ReadAll(f)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.BulkBody = body
	writeJSON(w, http.StatusOK, s.BulkResult)
}

func (s *Server) listPOAM(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := r.URL.Query().Get("status")
	risk := r.URL.Query().Get("risk_level")
	out := []models.POAMItem{}
	for _, p := range s.POAM {
		if status != "" && string(p.Status) != status {
			continue
		}
		if risk != "" && string(p.RiskLevel) != risk {
			continue
		}
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createPOAM(w http.ResponseWriter, r *http.Request) {
	var p models.POAMItem
	if err := decode(r, &p); err != nil || p.ControlID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "control_id is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = newID()
	if i := s.controlIndex(p.ControlID); i >= 0 {
		p.ControlNumber = s.Controls[i].ControlNumber
	}
	s.POAM = append(s.POAM, p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) updatePOAM(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status    *models.POAMStatus `json:"status"`
		RiskLevel *models.RiskLevel  `json:"risk_level"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing request body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := mux.Vars(r)["id"]
	for i := range s.POAM {
		if s.POAM[i].ID != id {
			continue
		}
		if req.Status != nil {
			s.POAM[i].Status = *req.Status
		}
		if req.RiskLevel != nil {
			s.POAM[i].RiskLevel = *req.RiskLevel
		}
		writeJSON(w, http.StatusOK, s.POAM[i])
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "POA&M item not found"})
}

func (s *Server) deletePOAM(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := mux.Vars(r)["id"]
	for i, p := range s.POAM {
		if p.ID == id {
			s.POAM = append(s.POAM[:i], s.POAM[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "POA&M item deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "POA&M item not found"})
}

func (s *Server) listBoundary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Boundary)
}

func (s *Server) createBoundary(w http.ResponseWriter, r *http.Request) {
	var a models.BoundaryAsset
	if err := decode(r, &a); err != nil || a.AssetName == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "asset_name is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = newID()
	s.Boundary = append(s.Boundary, a)
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) updateBoundary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InScope *int `json:"in_scope"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing request body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := mux.Vars(r)["id"]
	for i := range s.Boundary {
		if s.Boundary[i].ID != id {
			continue
		}
		if req.InScope != nil {
			s.Boundary[i].InScope = *req.InScope
		}
		writeJSON(w, http.StatusOK, s.Boundary[i])
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Asset not found"})
}

func (s *Server) deleteBoundary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := mux.Vars(r)["id"]
	for i, a := range s.Boundary {
		if a.ID == id {
			s.Boundary = append(s.Boundary[:i], s.Boundary[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Asset deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Asset not found"})
}
