package datastore

import (
	"context"
	"time"

	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/notes"
	"github.com/tphakala/simple-notes/internal/observability/metrics"
)

// metricsStore records Prometheus metrics around another Interface.
type metricsStore struct {
	next    Interface
	metrics *metrics.DatastoreMetrics
	backend string
}

// WithMetrics wraps store so every call is counted and timed under the given
// backend label. A nil m returns store unchanged.
func WithMetrics(store Interface, m *metrics.DatastoreMetrics, backend string) Interface {
	if m == nil {
		return store
	}
	return &metricsStore{next: store, metrics: m, backend: backend}
}

func (s *metricsStore) observe(operation string, start time.Time, err error) {
	s.metrics.RecordDbOperationDuration(operation, s.backend, time.Since(start).Seconds())

	switch {
	case err == nil:
		s.metrics.RecordDbOperation(operation, s.backend, metrics.StatusSuccess)
	case errors.IsNotFound(err):
		s.metrics.RecordDbOperation(operation, s.backend, metrics.StatusNotFound)
	default:
		s.metrics.RecordDbOperation(operation, s.backend, metrics.StatusError)
		s.metrics.RecordDbOperationError(operation, s.backend, string(errors.CategoryOf(err)))
	}
}

func (s *metricsStore) List(ctx context.Context) ([]notes.Note, error) {
	start := time.Now()
	list, err := s.next.List(ctx)
	s.observe(metrics.OpNoteList, start, err)
	if err == nil {
		s.metrics.RecordQueryResultSize(metrics.OpNoteList, s.backend, len(list))
		s.metrics.UpdateNoteCount(s.backend, len(list))
	}
	return list, err
}

func (s *metricsStore) Get(ctx context.Context, id string) (*notes.Note, error) {
	start := time.Now()
	note, err := s.next.Get(ctx, id)
	s.observe(metrics.OpNoteGet, start, err)
	return note, err
}

func (s *metricsStore) Create(ctx context.Context, title, content string) (*notes.Note, error) {
	start := time.Now()
	note, err := s.next.Create(ctx, title, content)
	s.observe(metrics.OpNoteCreate, start, err)
	return note, err
}

func (s *metricsStore) Update(ctx context.Context, id, title, content string) (*notes.Note, error) {
	start := time.Now()
	note, err := s.next.Update(ctx, id, title, content)
	s.observe(metrics.OpNoteUpdate, start, err)
	return note, err
}

func (s *metricsStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.observe(metrics.OpNoteDelete, start, err)
	return err
}

func (s *metricsStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe(metrics.OpPing, start, err)
	s.metrics.SetUp(s.backend, err == nil)
	return err
}

func (s *metricsStore) Close() error {
	return s.next.Close()
}
