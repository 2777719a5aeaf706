package submissions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"alevatex/internal/domain"
	"alevatex/internal/metrics"
	"alevatex/internal/ports"
)

var (
	ErrBusy    = errString("submission already in progress")
	ErrNotIdle = errString("form must be reset before resubmitting")
)

type errString string

func (e errString) Error() string { return string(e) }

var _ ports.Submissions = (*Service)(nil)

type Service struct {
	leads   ports.LeadStore
	relayer ports.Dispatcher
	log     logrus.FieldLogger
	metrics *metrics.Metrics

	now   func() time.Time
	newID func() string
}

func New(leads ports.LeadStore, relayer ports.Dispatcher, log logrus.FieldLogger, m *metrics.Metrics) *Service {
	return &Service{
		leads:   leads,
		relayer: relayer,
		log:     log.WithField("component", "submissions"),
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// NewForm starts an idle form bound to this service.
func (s *Service) NewForm() *Form {
	return &Form{svc: s, state: domain.FormIdle}
}

// Submit runs one fresh form to completion.
func (s *Service) Submit(ctx context.Context, fields map[string]string) (domain.Lead, domain.FormState, error) {
	return s.NewForm().Submit(ctx, fields)
}

func (s *Service) store(ctx context.Context, in domain.Inquiry) domain.Lead {
	lead := domain.Lead{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     in.Email,
		Service:   in.Service,
		Message:   in.Message,
		Timestamp: s.now().UTC(),
		Status:    domain.StatusNew,
	}
	s.leads.Update(ctx, func(leads []domain.Lead) ([]domain.Lead, bool) {
		return append([]domain.Lead{lead}, leads...), true
	})
	s.count("stored")
	s.log.WithFields(logrus.Fields{"lead_id": lead.ID, "service": lead.Service}).Info("lead captured")
	return lead
}

func (s *Service) relay(ctx context.Context, lead domain.Lead, fields map[string]string) error {
	err := s.relayer.Dispatch(ctx, fields)
	if err != nil {
		s.log.WithError(err).WithField("lead_id", lead.ID).Warn("form relay failed, lead kept locally")
	}
	return err
}

func (s *Service) count(outcome string) {
	if s.metrics != nil {
		s.metrics.Submissions.WithLabelValues(outcome).Inc()
	}
}
