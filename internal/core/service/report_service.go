package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/wastewise/wastewise/internal/core/domain"
	"github.com/wastewise/wastewise/internal/core/ports"
)

const (
	minLocationLength    = 3
	maxLocationLength    = 200
	maxDescriptionLength = 1000
)

// EventPublisher hands audit events to the background dispatcher.
type EventPublisher interface {
	Enqueue(event domain.ReportEvent)
}

type reportService struct {
	repo   ports.ReportRepository
	images ports.ImageStore
	events EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

// NewReportService returns a ReportService implementation. events may be nil,
// in which case updates are not audited.
func NewReportService(
	repo ports.ReportRepository,
	images ports.ImageStore,
	events EventPublisher,
	log zerolog.Logger,
) ports.ReportService {
	return &reportService{
		repo:   repo,
		images: images,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (s *reportService) Create(ctx context.Context, actor *domain.User, in ports.CreateReportInput) (*domain.Report, error) {
	location := strings.TrimSpace(in.Location)
	if n := utf8.RuneCountInString(location); n < minLocationLength || n > maxLocationLength {
		return nil, fmt.Errorf("%w: location must be between %d and %d characters", domain.ErrValidation, minLocationLength, maxLocationLength)
	}
	description := strings.TrimSpace(in.Description)
	if n := utf8.RuneCountInString(description); n < domain.MinDescriptionLength || n > maxDescriptionLength {
		return nil, fmt.Errorf("%w: description must be between %d and %d characters", domain.ErrValidation, domain.MinDescriptionLength, maxDescriptionLength)
	}
	if len(in.Image) == 0 {
		return nil, domain.ErrInvalidImage
	}
	if len(in.Image) > domain.MaxImageBytes {
		return nil, domain.ErrImageTooLarge
	}
	if !domain.IsAcceptedImageType(mimetype.Detect(in.Image).String()) {
		return nil, domain.ErrInvalidImage
	}

	imageURL, err := s.images.Save(ctx, actor.ID, in.ImageName, in.Image)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	report := &domain.Report{
		UserID:      actor.ID,
		UserName:    actor.Name,
		UserEmail:   actor.Email,
		ImageURL:    imageURL,
		Location:    location,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Description: description,
		Status:      domain.StatusPending,
		Timestamp:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	s.log.Info().Str("report_id", report.ID).Str("user_id", actor.ID).Msg("report created")
	return report, nil
}

func (s *reportService) ListForUser(ctx context.Context, actor *domain.User, userID string) ([]*domain.Report, error) {
	if actor.ID != userID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *reportService) ListAll(ctx context.Context, actor *domain.User) ([]*domain.Report, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}
	return s.repo.ListAll(ctx)
}

// Update applies an admin's partial change. Any valid status may replace any
// other; the comment is stored verbatim, including the empty string.
func (s *reportService) Update(ctx context.Context, actor *domain.User, id string, fields ports.ReportFields) (*domain.Report, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}
	if fields.Status != nil && *fields.Status == "" {
		fields.Status = nil
	}
	if fields.Status != nil && !fields.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *fields.Status)
	}
	if fields.Empty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Enqueue(domain.ReportEvent{
			ReportID:     updated.ID,
			Status:       updated.Status,
			AdminComment: fields.AdminComment,
			ActorID:      actor.ID,
			ActorEmail:   actor.Email,
			Timestamp:    s.now().UTC(),
		})
	}

	s.log.Info().
		Str("report_id", updated.ID).
		Str("status", string(updated.Status)).
		Str("admin", actor.Email).
		Msg("report updated")
	return updated, nil
}

func (s *reportService) Stats(ctx context.Context, actor *domain.User) (*domain.Stats, error) {
	global, err := s.repo.CountByStatus(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	if actor.Role == domain.RoleCitizen {
		mine, err := s.repo.CountByStatus(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("count own reports: %w", err)
		}
		global.Mine = &mine
	}
	return &global, nil
}
