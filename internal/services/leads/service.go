package leads

import (
	"context"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"alevatex/internal/domain"
	"alevatex/internal/metrics"
	"alevatex/internal/ports"
)

var (
	ErrNotFound      = errString("lead not found")
	ErrNotConfirmed  = errString("delete requires explicit confirmation")
	ErrInvalidStatus = errString("invalid lead status")
)

type errString string

func (e errString) Error() string { return string(e) }

var _ ports.Leads = (*Service)(nil)

type Service struct {
	store   ports.LeadStore
	loc     *time.Location
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// New returns the admin view over store. loc is the zone export timestamps are
// rendered in.
func New(store ports.LeadStore, loc *time.Location, log logrus.FieldLogger, m *metrics.Metrics) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, loc: loc, log: log.WithField("component", "leads"), metrics: m}
}

// List returns the leads whose name, email or service contains search
// (case-insensitive; empty matches all) and whose status passes filter.
// Store order (newest first) is preserved.
func (s *Service) List(ctx context.Context, search string, filter domain.StatusFilter) []domain.Lead {
	return Filter(s.store.Load(ctx), search, filter)
}

func Filter(leads []domain.Lead, search string, filter domain.StatusFilter) []domain.Lead {
	needle := strings.ToLower(search)
	out := make([]domain.Lead, 0, len(leads))
	for _, l := range leads {
		if !filter.Match(l.Status) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(l.Name), needle) &&
			!strings.Contains(strings.ToLower(l.Email), needle) &&
			!strings.Contains(strings.ToLower(l.Service), needle) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (s *Service) Get(ctx context.Context, id string) (domain.Lead, error) {
	for _, l := range s.store.Load(ctx) {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.Lead{}, ErrNotFound
}

// SetStatus assigns status to the lead with id. Any status may follow any
// other. An unknown id is a no-op.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	s.update(ctx, "status", id, func(l domain.Lead) domain.Status { return status })
	return nil
}

// Advance moves the lead one step along new -> contacted -> archived -> new.
func (s *Service) Advance(ctx context.Context, id string) error {
	s.update(ctx, "status", id, func(l domain.Lead) domain.Status { return l.Status.Next() })
	return nil
}

func (s *Service) update(ctx context.Context, op, id string, next func(domain.Lead) domain.Status) {
	s.store.Update(ctx, func(leads []domain.Lead) ([]domain.Lead, bool) {
		i := slices.IndexFunc(leads, func(l domain.Lead) bool { return l.ID == id })
		if i < 0 {
			return leads, false
		}
		from := leads[i].Status
		leads[i].Status = next(leads[i])
		s.mutated(op, logrus.Fields{"lead_id": id, "from": from, "to": leads[i].Status})
		return leads, true
	})
}

// Delete permanently removes the lead with id. confirmed must be true; an
// unknown id is a no-op.
func (s *Service) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	s.store.Update(ctx, func(leads []domain.Lead) ([]domain.Lead, bool) {
		i := slices.IndexFunc(leads, func(l domain.Lead) bool { return l.ID == id })
		if i < 0 {
			return leads, false
		}
		s.mutated("delete", logrus.Fields{"lead_id": id})
		return slices.Delete(leads, i, i+1), true
	})
	return nil
}

// ExportCSV writes the full, unfiltered lead list.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	return WriteCSV(w, s.store.Load(ctx), s.loc)
}

func (s *Service) mutated(op string, fields logrus.Fields) {
	if s.metrics != nil {
		s.metrics.LeadMutations.WithLabelValues(op).Inc()
	}
	s.log.WithFields(fields).WithField("op", op).Info("lead updated")
}
