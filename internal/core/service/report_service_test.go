package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wastewise/wastewise/internal/core/domain"
	"github.com/wastewise/wastewise/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type stubReportRepo struct {
	reports map[string]*domain.Report
	nextID  int
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{reports: make(map[string]*domain.Report)}
}

func (r *stubReportRepo) Create(_ context.Context, rep *domain.Report) error {
	r.nextID++
	rep.ID = fmt.Sprintf("r%d", r.nextID)
	clone := *rep
	r.reports[rep.ID] = &clone
	return nil
}

func (r *stubReportRepo) FindByID(_ context.Context, id string) (*domain.Report, error) {
	rep, ok := r.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	clone := *rep
	return &clone, nil
}

func (r *stubReportRepo) list(keep func(*domain.Report) bool) []*domain.Report {
	out := make([]*domain.Report, 0)
	for _, rep := range r.reports {
		if keep(rep) {
			clone := *rep
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

func (r *stubReportRepo) ListByUser(_ context.Context, userID string) ([]*domain.Report, error) {
	return r.list(func(rep *domain.Report) bool { return rep.UserID == userID }), nil
}

func (r *stubReportRepo) ListAll(_ context.Context) ([]*domain.Report, error) {
	return r.list(func(*domain.Report) bool { return true }), nil
}

func (r *stubReportRepo) Update(_ context.Context, id string, fields ports.ReportFields) (*domain.Report, error) {
	rep, ok := r.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	if fields.Status != nil {
		rep.Status = *fields.Status
	}
	if fields.AdminComment != nil {
		rep.AdminComment = *fields.AdminComment
	}
	clone := *rep
	return &clone, nil
}

func (r *stubReportRepo) CountByStatus(_ context.Context, userID string) (domain.Stats, error) {
	var st domain.Stats
	for _, rep := range r.reports {
		if userID == "" || rep.UserID == userID {
			st.Add(rep.Status, 1)
		}
	}
	return st, nil
}

type stubImageStore struct {
	saved []string
	err   error
}

func (s *stubImageStore) Save(_ context.Context, ownerID, filename string, _ []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	url := "/uploads/" + ownerID + "_" + filename
	s.saved = append(s.saved, url)
	return url, nil
}

type stubPublisher struct {
	events []domain.ReportEvent
}

func (p *stubPublisher) Enqueue(e domain.ReportEvent) { p.events = append(p.events, e) }

var (
	citizen = &domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleCitizen}
	other   = &domain.User{ID: "u2", Name: "Bob", Email: "bob@example.com", Role: domain.RoleCitizen}
	admin   = &domain.User{ID: "a1", Name: "Admin", Email: "admin@wastewise.com", Role: domain.RoleAdmin}
)

func newReportSvc() (ports.ReportService, *stubReportRepo, *stubImageStore, *stubPublisher) {
	repo := newStubReportRepo()
	images := &stubImageStore{}
	pub := &stubPublisher{}
	return NewReportService(repo, images, pub, zerolog.Nop()), repo, images, pub
}

func validInput() ports.CreateReportInput {
	return ports.CreateReportInput{
		ImageName:   "bin.png",
		Image:       pngHeader,
		Location:    "Main Street 12",
		Description: "Overflowing bin near the bus stop",
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestReportService_Create_HappyPath(t *testing.T) {
	svc, repo, images, _ := newReportSvc()

	rep, err := svc.Create(context.Background(), citizen, validInput())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if rep.Status != domain.StatusPending {
		t.Errorf("expected pending status, got %q", rep.Status)
	}
	if rep.AdminComment != "" {
		t.Errorf("expected empty admin comment, got %q", rep.AdminComment)
	}
	if rep.UserID != citizen.ID || rep.UserName != citizen.Name || rep.UserEmail != citizen.Email {
		t.Errorf("reporter fields not copied from actor: %+v", rep)
	}
	if len(images.saved) != 1 || rep.ImageURL != images.saved[0] {
		t.Errorf("expected image url from store, got %q", rep.ImageURL)
	}
	if _, ok := repo.reports[rep.ID]; !ok {
		t.Errorf("expected report persisted")
	}
}

func TestReportService_Create_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ports.CreateReportInput)
		want   error
	}{
		{"short location", func(in *ports.CreateReportInput) { in.Location = "ab" }, domain.ErrValidation},
		{"long location", func(in *ports.CreateReportInput) { in.Location = strings.Repeat("x", 201) }, domain.ErrValidation},
		{"short description", func(in *ports.CreateReportInput) { in.Description = "too short" }, domain.ErrValidation},
		{"long description", func(in *ports.CreateReportInput) { in.Description = strings.Repeat("x", 1001) }, domain.ErrValidation},
		{"empty image", func(in *ports.CreateReportInput) { in.Image = nil }, domain.ErrInvalidImage},
		{"not an image", func(in *ports.CreateReportInput) { in.Image = []byte("%PDF-1.4\n") }, domain.ErrInvalidImage},
		{"svg", func(in *ports.CreateReportInput) { in.Image = []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`) }, domain.ErrInvalidImage},
		{"too large", func(in *ports.CreateReportInput) {
			in.Image = append(append([]byte{}, pngHeader...), make([]byte, domain.MaxImageBytes)...)
		}, domain.ErrImageTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, images, _ := newReportSvc()
			in := validInput()
			tc.mutate(&in)

			if _, err := svc.Create(context.Background(), citizen, in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(images.saved) != 0 {
				t.Fatalf("expected no image stored on validation failure")
			}
		})
	}
}

func TestReportService_Create_KeepsCoordinates(t *testing.T) {
	svc, _, _, _ := newReportSvc()
	lat, lon := 12.5, -3.25
	in := validInput()
	in.Latitude, in.Longitude = &lat, &lon

	rep, err := svc.Create(context.Background(), citizen, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rep.HasCoordinates() || *rep.Latitude != lat || *rep.Longitude != lon {
		t.Fatalf("expected coordinates to be stored, got %+v", rep)
	}
}

func TestReportService_ListForUser_Access(t *testing.T) {
	svc, _, _, _ := newReportSvc()
	if _, err := svc.Create(context.Background(), citizen, validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := svc.ListForUser(context.Background(), citizen, citizen.ID)
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected own report, got %d (%v)", len(mine), err)
	}
	if _, err := svc.ListForUser(context.Background(), other, citizen.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another citizen, got %v", err)
	}
	if got, err := svc.ListForUser(context.Background(), admin, citizen.ID); err != nil || len(got) != 1 {
		t.Fatalf("expected admin to read citizen reports, got %d (%v)", len(got), err)
	}
}

func TestReportService_ListAll_NewestFirst(t *testing.T) {
	svc, repo, _, _ := newReportSvc()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, u := range []*domain.User{citizen, other, citizen} {
		repo.reports[fmt.Sprintf("seed%d", i)] = &domain.Report{
			ID: fmt.Sprintf("seed%d", i), UserID: u.ID, Status: domain.StatusPending,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}
	}

	if _, err := svc.ListAll(context.Background(), citizen); !errors.Is(err, domain.ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}
	all, err := svc.ListAll(context.Background(), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 || all[0].ID != "seed2" || all[2].ID != "seed0" {
		t.Fatalf("expected newest first, got %v", ids(all))
	}
}

func ids(rs []*domain.Report) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestReportService_Update(t *testing.T) {
	svc, _, _, pub := newReportSvc()
	rep, _ := svc.Create(context.Background(), citizen, validInput())

	completed := domain.StatusCompleted
	updated, err := svc.Update(context.Background(), admin, rep.ID, ports.ReportFields{
		Status:       &completed,
		AdminComment: strPtr("Collected on Tuesday"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusCompleted || updated.AdminComment != "Collected on Tuesday" {
		t.Fatalf("unexpected report after update: %+v", updated)
	}
	if updated.UserEmail != citizen.Email || updated.Description != rep.Description {
		t.Fatalf("reporter fields must not change: %+v", updated)
	}
	if len(pub.events) != 1 || pub.events[0].ReportID != rep.ID || pub.events[0].ActorEmail != admin.Email {
		t.Fatalf("expected one audit event, got %+v", pub.events)
	}

	// Backwards moves are allowed and an empty comment clears the old one.
	pending := domain.StatusPending
	updated, err = svc.Update(context.Background(), admin, rep.ID, ports.ReportFields{Status: &pending, AdminComment: strPtr("")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusPending || updated.AdminComment != "" {
		t.Fatalf("expected pending with cleared comment, got %+v", updated)
	}
}

func TestReportService_Update_Errors(t *testing.T) {
	svc, _, _, pub := newReportSvc()
	rep, _ := svc.Create(context.Background(), citizen, validInput())

	bogus := domain.ReportStatus("archived")
	empty := domain.ReportStatus("")
	inProgress := domain.StatusInProgress

	cases := []struct {
		name   string
		actor  *domain.User
		id     string
		fields ports.ReportFields
		want   error
	}{
		{"citizen", citizen, rep.ID, ports.ReportFields{Status: &inProgress}, domain.ErrAdminRequired},
		{"no fields", admin, rep.ID, ports.ReportFields{}, domain.ErrNoFieldsToUpdate},
		{"empty status only", admin, rep.ID, ports.ReportFields{Status: &empty}, domain.ErrNoFieldsToUpdate},
		{"bad status", admin, rep.ID, ports.ReportFields{Status: &bogus}, domain.ErrInvalidStatus},
		{"missing", admin, "nope", ports.ReportFields{Status: &inProgress}, domain.ErrReportNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Update(context.Background(), tc.actor, tc.id, tc.fields); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no audit events for failed updates, got %d", len(pub.events))
	}
}

func TestReportService_Stats(t *testing.T) {
	svc, repo, _, _ := newReportSvc()
	statuses := []struct {
		user   string
		status domain.ReportStatus
	}{
		{citizen.ID, domain.StatusPending},
		{citizen.ID, domain.StatusCompleted},
		{other.ID, domain.StatusInProgress},
		{other.ID, domain.StatusPending},
	}
	for i, s := range statuses {
		id := fmt.Sprintf("s%d", i)
		repo.reports[id] = &domain.Report{ID: id, UserID: s.user, Status: s.status}
	}

	st, err := svc.Stats(context.Background(), citizen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Total != 4 || st.Pending != 2 || st.InProgress != 1 || st.Completed != 1 {
		t.Fatalf("unexpected global stats: %+v", st)
	}
	if st.Mine == nil || st.Mine.Total != 2 || st.Mine.Pending != 1 || st.Mine.Completed != 1 {
		t.Fatalf("unexpected own stats: %+v", st.Mine)
	}

	st, err = svc.Stats(context.Background(), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Mine != nil {
		t.Fatalf("expected no own stats for admin")
	}
}
