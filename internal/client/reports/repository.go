// Package reports maps API report records into domain reports and guards
// every call behind a signed-in session.
package reports

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wastewise/wastewise/internal/client/gateway"
	"github.com/wastewise/wastewise/internal/core/domain"
)

// ErrNotAuthenticated is returned before any request when no session exists.
var ErrNotAuthenticated = errors.New("not authenticated")

const (
	unknownUserName  = "Unknown User"
	unknownUserEmail = "unknown@example.com"
)

// API is the subset of the gateway used here.
type API interface {
	CreateReport(ctx context.Context, in gateway.NewReport) (*gateway.RawReport, error)
	ListUserReports(ctx context.Context, userID string) ([]gateway.RawReport, error)
	ListAllReports(ctx context.Context) ([]gateway.RawReport, error)
	UpdateReport(ctx context.Context, id string, in gateway.ReportUpdate) (*gateway.RawReport, error)
	Stats(ctx context.Context) (*gateway.RawStats, error)
}

// SessionReader exposes the signed-in user and token.
type SessionReader interface {
	User() (*domain.User, bool)
	Token() string
}

// Image is a selected upload.
type Image struct {
	Name string
	MIME string
	Data []byte
}

// NewReport is the input of Create. Coordinates are sent only as a pair.
type NewReport struct {
	Image       Image
	Location    string
	Description string
	Latitude    *float64
	Longitude   *float64
}

type Repository struct {
	api     API
	session SessionReader
	baseURL string
	log     zerolog.Logger
}

// New returns a Repository. baseURL resolves relative image paths.
func New(api API, session SessionReader, baseURL string, log zerolog.Logger) *Repository {
	return &Repository{api: api, session: session, baseURL: baseURL, log: log}
}

func (r *Repository) currentUser() (*domain.User, error) {
	u, ok := r.session.User()
	if !ok || u == nil || r.session.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	return u, nil
}

func (r *Repository) Create(ctx context.Context, in NewReport) (*domain.Report, error) {
	user, err := r.currentUser()
	if err != nil {
		return nil, err
	}

	raw, err := r.api.CreateReport(ctx, gateway.NewReport{
		ImageName:   in.Image.Name,
		ImageType:   in.Image.MIME,
		Image:       in.Image.Data,
		Location:    in.Location,
		Description: in.Description,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	})
	if err != nil {
		r.log.Debug().Err(err).Msg("create report")
		return nil, err
	}
	rep := r.toDomain(*raw, user.Name, user.Email)
	return &rep, nil
}

// ListMine returns the reports of userID. Missing reporter fields default to
// the signed-in user only when userID is that user.
func (r *Repository) ListMine(ctx context.Context, userID string) ([]domain.Report, error) {
	user, err := r.currentUser()
	if err != nil {
		return nil, err
	}

	raws, err := r.api.ListUserReports(ctx, userID)
	if err != nil {
		r.log.Debug().Err(err).Msg("list user reports")
		return nil, err
	}
	if userID != user.ID {
		return r.mapAll(raws, unknownUserName, unknownUserEmail), nil
	}
	return r.mapAll(raws, user.Name, user.Email), nil
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.Report, error) {
	if _, err := r.currentUser(); err != nil {
		return nil, err
	}

	raws, err := r.api.ListAllReports(ctx)
	if err != nil {
		r.log.Debug().Err(err).Msg("list all reports")
		return nil, err
	}
	return r.mapAll(raws, unknownUserName, unknownUserEmail), nil
}

// UpdateStatus sends a partial update. A nil comment is left out of the
// request, so the stored one is kept.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus, comment *string) (*domain.Report, error) {
	if _, err := r.currentUser(); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	s := string(status)
	raw, err := r.api.UpdateReport(ctx, id, gateway.ReportUpdate{Status: &s, AdminComment: comment})
	if err != nil {
		r.log.Debug().Err(err).Str("report_id", id).Msg("update report")
		return nil, err
	}
	rep := r.toDomain(*raw, unknownUserName, unknownUserEmail)
	return &rep, nil
}

// Stats returns the server-side counts. Mine is set for citizens.
func (r *Repository) Stats(ctx context.Context) (*domain.Stats, error) {
	if _, err := r.currentUser(); err != nil {
		return nil, err
	}

	raw, err := r.api.Stats(ctx)
	if err != nil {
		r.log.Debug().Err(err).Msg("report stats")
		return nil, err
	}
	return toStats(raw), nil
}

func (r *Repository) mapAll(raws []gateway.RawReport, name, email string) []domain.Report {
	out := make([]domain.Report, 0, len(raws))
	for _, raw := range raws {
		out = append(out, r.toDomain(raw, name, email))
	}
	return out
}
