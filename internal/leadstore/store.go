// Package leadstore keeps the lead list as one JSON array under a fixed key of
// a key/value backend. Failures never reach callers: a missing or unreadable
// list loads as empty, and a failed save is logged and dropped.
package leadstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"alevatex/internal/domain"
	"alevatex/internal/metrics"
	"alevatex/internal/ports"
)

var _ ports.LeadStore = (*Store)(nil)

type Store struct {
	kv      ports.KeyValueStore
	key     string
	log     logrus.FieldLogger
	metrics *metrics.Metrics

	mu sync.Mutex // serializes Update within this process
}

func New(kv ports.KeyValueStore, key string, log logrus.FieldLogger, m *metrics.Metrics) *Store {
	return &Store{
		kv:      kv,
		key:     key,
		log:     log.WithField("component", "leadstore"),
		metrics: m,
	}
}

func (s *Store) Load(ctx context.Context) []domain.Lead {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.fail("load", err)
		return []domain.Lead{}
	}
	if !found || len(raw) == 0 {
		return []domain.Lead{}
	}
	var leads []domain.Lead
	if err := json.Unmarshal(raw, &leads); err != nil {
		s.log.WithError(err).WithField("key", s.key).Warn("stored lead list is malformed, treating as empty")
		return []domain.Lead{}
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	return leads
}

func (s *Store) Save(ctx context.Context, leads []domain.Lead) {
	if leads == nil {
		leads = []domain.Lead{}
	}
	raw, err := json.Marshal(leads)
	if err != nil {
		s.fail("save", err)
		return
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		s.fail("save", err)
	}
}

func (s *Store) Update(ctx context.Context, fn func([]domain.Lead) ([]domain.Lead, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, changed := fn(s.Load(ctx))
	if changed {
		s.Save(ctx, next)
	}
}

func (s *Store) fail(op string, err error) {
	if s.metrics != nil {
		s.metrics.StoreFailures.WithLabelValues(op).Inc()
	}
	s.log.WithError(err).WithFields(logrus.Fields{"op": op, "key": s.key}).Error("lead store failure")
}
