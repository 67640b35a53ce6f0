package ports

import (
	"context"

	"github.com/wastewise/wastewise/internal/core/domain"
)

// ReportFields carries a partial report update. Nil fields are not written.
type ReportFields struct {
	Status       *domain.ReportStatus
	AdminComment *string
}

// Empty reports whether no field is set.
func (f ReportFields) Empty() bool {
	return f.Status == nil && f.AdminComment == nil
}

// ReportRepository defines persistence operations for reports.
type ReportRepository interface {
	Create(ctx context.Context, r *domain.Report) error
	FindByID(ctx context.Context, id string) (*domain.Report, error)
	// ListByUser returns the user's reports, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Report, error)
	// ListAll returns every report, newest first.
	ListAll(ctx context.Context) ([]*domain.Report, error)
	Update(ctx context.Context, id string, fields ReportFields) (*domain.Report, error)
	// CountByStatus counts reports per status; an empty userID counts all.
	CountByStatus(ctx context.Context, userID string) (domain.Stats, error)
}

// ReportEventRepository persists the audit trail of report updates.
type ReportEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.ReportEvent) error
}

// ImageStore persists uploaded report images and returns the URL path under
// which they are served.
type ImageStore interface {
	Save(ctx context.Context, ownerID, filename string, data []byte) (string, error)
}
