package ports

import (
	"context"

	"github.com/wastewise/wastewise/internal/core/domain"
)

// CreateReportInput carries all data needed to create a new report.
type CreateReportInput struct {
	ImageName   string
	Image       []byte
	Location    string
	Description string
	Latitude    *float64
	Longitude   *float64
}

// ReportService defines use-case operations for reports. Every call is made
// on behalf of an authenticated actor; role checks live here as well as in
// the router.
type ReportService interface {
	Create(ctx context.Context, actor *domain.User, in CreateReportInput) (*domain.Report, error)
	ListForUser(ctx context.Context, actor *domain.User, userID string) ([]*domain.Report, error)
	ListAll(ctx context.Context, actor *domain.User) ([]*domain.Report, error)
	Update(ctx context.Context, actor *domain.User, id string, fields ReportFields) (*domain.Report, error)
	Stats(ctx context.Context, actor *domain.User) (*domain.Stats, error)
}

// ReportEventService processes audit events produced by report updates.
type ReportEventService interface {
	Process(ctx context.Context, event domain.ReportEvent) error
}
