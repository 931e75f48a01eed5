package monitoring

import (
	"sync"
	"time"

	"github.com/davidleathers/dependable-data-quality/internal/domain/quality"
)

// MetricsStore holds the per-dataset measurement history in memory,
// keyed by dataset name. Durable storage is an external collaborator's
// concern. The store serializes its own read-modify-append cycles, so
// concurrent measurements for the same dataset cannot corrupt the
// sequence; ordering between them is whichever append wins the lock.
type MetricsStore struct {
	mu            sync.RWMutex
	history       map[string][]*quality.QualityMetrics
	retentionDays int
}

// NewMetricsStore creates a store pruning entries older than
// retentionDays on every append
func NewMetricsStore(retentionDays int) *MetricsStore {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &MetricsStore{
		history:       make(map[string][]*quality.QualityMetrics),
		retentionDays: retentionDays,
	}
}

// Latest returns the most recent measurement for a dataset
func (s *MetricsStore) Latest(datasetName string) (*quality.QualityMetrics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.history[datasetName]
	if len(entries) == 0 {
		return nil, false
	}
	return entries[len(entries)-1], true
}

// Append stores a measurement and prunes entries that fell out of the
// retention window, measured from now
func (s *MetricsStore) Append(m *quality.QualityMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[m.DatasetName] = append(s.history[m.DatasetName], m)

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	for name, entries := range s.history {
		kept := entries[:0]
		for _, entry := range entries {
			if !entry.MeasuredAt.Before(cutoff) {
				kept = append(kept, entry)
			}
		}
		s.history[name] = kept
	}
}

// Since returns the measurements for a dataset from the last N days,
// oldest first
func (s *MetricsStore) Since(datasetName string, days int) []*quality.QualityMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().AddDate(0, 0, -days)
	var out []*quality.QualityMetrics
	for _, entry := range s.history[datasetName] {
		if !entry.MeasuredAt.Before(cutoff) {
			out = append(out, entry)
		}
	}
	return out
}

// Len returns the stored measurement count for a dataset
func (s *MetricsStore) Len(datasetName string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history[datasetName])
}
