package reports

import (
	"net/url"
	"strings"
	"time"

	"github.com/wastewise/wastewise/internal/client/gateway"
	"github.com/wastewise/wastewise/internal/core/domain"
)

// Layouts accepted for report timestamps. Values without a zone are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (r *Repository) toDomain(raw gateway.RawReport, name, email string) domain.Report {
	rep := domain.Report{
		ID:           raw.ID,
		UserID:       raw.UserID,
		UserName:     orDefault(raw.UserName, name),
		UserEmail:    orDefault(raw.UserEmail, email),
		ImageURL:     ResolveImageURL(r.baseURL, raw.ImageURL),
		Location:     raw.Location,
		Latitude:     raw.Latitude,
		Longitude:    raw.Longitude,
		Description:  raw.Description,
		Status:       domain.ReportStatus(raw.Status),
		AdminComment: raw.AdminComment,
	}
	if !rep.Status.IsValid() {
		r.log.Warn().Str("report_id", raw.ID).Str("status", raw.Status).Msg("unknown report status")
	}

	ts, ok := ParseTimestamp(raw.Timestamp)
	if !ok {
		r.log.Warn().Str("report_id", raw.ID).Str("timestamp", raw.Timestamp).Msg("unparseable timestamp")
	}
	rep.Timestamp = ts
	return rep
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO timestamps.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ResolveImageURL joins a relative image path onto baseURL and leaves
// absolute URLs untouched.
func ResolveImageURL(baseURL, ref string) string {
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return strings.TrimRight(baseURL, "/") + ref
}

func toStats(raw *gateway.RawStats) *domain.Stats {
	st := &domain.Stats{
		Pending:    raw.Pending,
		InProgress: raw.InProgress,
		Completed:  raw.Completed,
		Total:      raw.Total,
	}
	if raw.MyTotal != nil {
		st.Mine = &domain.Stats{
			Pending:    deref(raw.MyPending),
			InProgress: deref(raw.MyInProgress),
			Completed:  deref(raw.MyCompleted),
			Total:      *raw.MyTotal,
		}
	}
	return st
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
