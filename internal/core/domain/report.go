package domain

import "time"

// ReportStatus represents the lifecycle state of a report.
type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusInProgress ReportStatus = "in_progress"
	StatusCompleted  ReportStatus = "completed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []ReportStatus{StatusPending, StatusInProgress, StatusCompleted}

// IsValid reports whether s is one of the three known statuses. Any valid
// status may follow any other; ordering is not enforced.
func (s ReportStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Label is the human-readable form used in tables and charts.
func (s ReportStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

// Report is one citizen-submitted waste issue. Reporter fields are written
// once at creation; only Status and AdminComment change afterwards.
type Report struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	UserName     string       `json:"user_name"`
	UserEmail    string       `json:"user_email"`
	ImageURL     string       `json:"image_url"`
	Location     string       `json:"location"`
	Latitude     *float64     `json:"latitude,omitempty"`
	Longitude    *float64     `json:"longitude,omitempty"`
	Description  string       `json:"description"`
	Status       ReportStatus `json:"status"`
	AdminComment string       `json:"admin_comment"`
	Timestamp    time.Time    `json:"timestamp"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (r *Report) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Stats holds per-status counts. Mine is only populated for citizens and
// scopes the same counts to their own reports.
type Stats struct {
	Pending    int    `json:"pending"`
	InProgress int    `json:"in_progress"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Mine       *Stats `json:"mine,omitempty"`
}

// Add increments the counter for status s and the total.
func (st *Stats) Add(s ReportStatus, n int) {
	switch s {
	case StatusPending:
		st.Pending += n
	case StatusInProgress:
		st.InProgress += n
	case StatusCompleted:
		st.Completed += n
	default:
		return
	}
	st.Total += n
}

// ReportEvent is an audit record written after every successful admin update.
type ReportEvent struct {
	ReportID     string
	Status       ReportStatus
	AdminComment *string
	ActorID      string
	ActorEmail   string
	Timestamp    time.Time
}
