package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"alevatex/internal/ports"
)

// Server exposes the contact form and the admin lead view over HTTP.
type Server struct {
	submissions  ports.Submissions
	leads        ports.Leads
	exportPrefix string
	gatherer     prometheus.Gatherer
	log          logrus.FieldLogger

	now func() time.Time
}

func New(submissions ports.Submissions, leads ports.Leads, exportPrefix string, gatherer prometheus.Gatherer, log logrus.FieldLogger) *Server {
	return &Server{
		submissions:  submissions,
		leads:        leads,
		exportPrefix: exportPrefix,
		gatherer:     gatherer,
		log:          log.WithField("component", "http"),
		now:          time.Now,
	}
}

// Routes returns a chi.Router with every handler mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.getHealthz)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/contact", s.postContact)
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", s.getLeads)
			r.Get("/stats", s.getStats)
			r.Get("/export.csv", s.getExport)
			r.Get("/{id}", s.getLead)
			r.Put("/{id}/status", s.putStatus)
			r.Post("/{id}/advance", s.postAdvance)
			r.Delete("/{id}", s.deleteLead)
		})
	})
	return r
}

func (s *Server) getHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
		}).Debug("request")
	})
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorResponse{Error: code, Message: err.Error()})
}

// writeFailure logs an unexpected handler error and answers 500 without
// leaking its text.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithError(err).WithField("request_id", middleware.GetReqID(r.Context())).Error("request failed")
	writeError(w, http.StatusInternalServerError, "internal", errors.New("internal error"))
}
