package reportstore

import (
	"context"
	"sort"
	"sync"

	"github.com/couchcryptid/coastal-erosion-api/internal/domain"
)

// MemoryStore keeps reports in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	reports []domain.EventReport
	nextID  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Save(ctx context.Context, req domain.EventReportRequest) (domain.EventReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.EventReport{}, domain.PersistenceError("save event report", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req.ObservedAt = storedTime(req.ObservedAt)
	report := domain.EventReport{
		ID:                 s.nextID,
		EventReportRequest: req,
		CreatedAt:          createdAt(),
	}
	s.nextID++
	s.reports = append(s.reports, report)
	return report, nil
}

func (s *MemoryStore) List(ctx context.Context, max int) ([]domain.EventReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.PersistenceError("list event reports", err)
	}

	s.mu.RLock()
	reports := make([]domain.EventReport, len(s.reports))
	copy(reports, s.reports)
	s.mu.RUnlock()

	sort.SliceStable(reports, func(i, j int) bool {
		if !reports[i].ObservedAt.Equal(reports[j].ObservedAt) {
			return reports[i].ObservedAt.After(reports[j].ObservedAt)
		}
		return reports[i].ID > reports[j].ID
	})

	if n := limit(max); len(reports) > n {
		reports = reports[:n]
	}
	return reports, nil
}

// CheckReadiness always succeeds.
func (s *MemoryStore) CheckReadiness(context.Context) error { return nil }
