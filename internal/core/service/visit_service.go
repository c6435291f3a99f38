package service

import (
	"context"
	"fmt"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

// RecentVisitLimit caps the visit log.
const RecentVisitLimit = 50

type VisitService struct {
	visits ports.VisitRepository
}

func NewVisitService(visits ports.VisitRepository) *VisitService {
	return &VisitService{visits: visits}
}

// ListRecent returns the latest visits, newest first.
func (s *VisitService) ListRecent(ctx context.Context, state ports.SessionState) ([]domain.Visit, error) {
	if state.Session == nil {
		return nil, domain.ErrUnauthenticated
	}
	visits, err := s.visits.ListRecent(ctx, state.Token(), RecentVisitLimit)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	if len(visits) > RecentVisitLimit {
		visits = visits[:RecentVisitLimit]
	}
	return visits, nil
}
