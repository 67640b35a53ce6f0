package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wastewise/wastewise/internal/core/domain"
	"github.com/wastewise/wastewise/internal/core/ports"
)

type reportEventService struct {
	repo ports.ReportEventRepository
	log  zerolog.Logger
}

// NewReportEventService returns a ReportEventService implementation.
func NewReportEventService(repo ports.ReportEventRepository, log zerolog.Logger) ports.ReportEventService {
	return &reportEventService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *reportEventService) Process(ctx context.Context, event domain.ReportEvent) error {
	if event.ReportID == "" {
		return fmt.Errorf("process event: %w: missing report id", domain.ErrValidation)
	}
	if !event.Status.IsValid() {
		return fmt.Errorf("process event: %w", domain.ErrInvalidStatus)
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("process event: insert: %w", err)
	}

	s.log.Debug().
		Str("report_id", event.ReportID).
		Str("status", string(event.Status)).
		Str("actor", event.ActorEmail).
		Msg("report event recorded")
	return nil
}
