package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"alevatex/internal/domain"
	leadsvc "alevatex/internal/services/leads"
)

func (s *Server) getLeads(w http.ResponseWriter, r *http.Request) {
	var q, status *string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid format for parameter q: %w", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "status", r.URL.Query(), &status); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid format for parameter status: %w", err))
		return
	}
	filter, ok := domain.ParseStatusFilter(deref(status))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("unknown status filter %q", deref(status)))
		return
	}
	writeJSON(w, http.StatusOK, s.leads.List(r.Context(), deref(q), filter))
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.leads.Stats(r.Context()))
}

func (s *Server) getExport(w http.ResponseWriter, r *http.Request) {
	name := leadsvc.ExportFilename(s.exportPrefix, s.now())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := s.leads.ExportCSV(r.Context(), w); err != nil {
		s.log.WithError(err).Warn("csv export interrupted")
	}
}

func (s *Server) getLead(w http.ResponseWriter, r *http.Request) {
	id, ok := bindID(w, r)
	if !ok {
		return
	}
	lead, err := s.leads.Get(r.Context(), id)
	if errors.Is(err, leadsvc.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type statusRequest struct {
	Status domain.Status `json:"status"`
}

func (s *Server) putStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := bindID(w, r)
	if !ok {
		return
	}
	var body statusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("decoding body: %w", err))
		return
	}
	err := s.leads.SetStatus(r.Context(), id, body.Status)
	if errors.Is(err, leadsvc.ErrInvalidStatus) {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postAdvance(w http.ResponseWriter, r *http.Request) {
	id, ok := bindID(w, r)
	if !ok {
		return
	}
	if err := s.leads.Advance(r.Context(), id); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteLead removes a lead only when the caller passes confirm=true.
func (s *Server) deleteLead(w http.ResponseWriter, r *http.Request) {
	id, ok := bindID(w, r)
	if !ok {
		return
	}
	var confirm *bool
	if err := runtime.BindQueryParameter("form", true, false, "confirm", r.URL.Query(), &confirm); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid format for parameter confirm: %w", err))
		return
	}
	err := s.leads.Delete(r.Context(), id, confirm != nil && *confirm)
	if errors.Is(err, leadsvc.ErrNotConfirmed) {
		writeError(w, http.StatusBadRequest, "confirmation_required", err)
		return
	}
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func bindID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid format for parameter id: %w", err))
		return "", false
	}
	return id, true
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
