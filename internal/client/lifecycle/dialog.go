// Package lifecycle implements the admin dialog that moves a report between
// statuses. Any status may follow any other.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wastewise/wastewise/internal/client/notify"
	"github.com/wastewise/wastewise/internal/core/domain"
)

var ErrClosed = errors.New("dialog is closed")

// Updater sends a status change. The comment is always passed.
type Updater interface {
	UpdateStatus(ctx context.Context, id string, status domain.ReportStatus, comment *string) (*domain.Report, error)
}

type Dialog struct {
	updater  Updater
	notifier notify.Notifier
	reload   func(context.Context)

	mu      sync.Mutex
	report  domain.Report
	status  domain.ReportStatus
	comment string
	open    bool
	loading bool
}

// Open starts editing report with its current status and comment. reload
// may be nil.
func Open(report domain.Report, u Updater, n notify.Notifier, reload func(context.Context)) *Dialog {
	return &Dialog{
		updater:  u,
		notifier: n,
		reload:   reload,
		report:   report,
		status:   report.Status,
		comment:  report.AdminComment,
		open:     true,
	}
}

func (d *Dialog) SetStatus(s domain.ReportStatus) error {
	if !s.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, s)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = s
	return nil
}

func (d *Dialog) SetComment(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.comment = s
}

// Report returns the edited item as last confirmed by the server.
func (d *Dialog) Report() domain.Report {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.report
}

func (d *Dialog) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *Dialog) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Close dismisses the dialog without sending anything.
func (d *Dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
}

// Submit sends the selected status and the current comment, even when empty.
// On success the dialog closes and reload runs; on failure it stays open.
func (d *Dialog) Submit(ctx context.Context) (*domain.Report, error) {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return nil, ErrClosed
	}
	if !d.status.IsValid() {
		d.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, d.status)
	}
	id, status, comment := d.report.ID, d.status, d.comment
	d.loading = true
	d.mu.Unlock()

	updated, err := d.updater.UpdateStatus(ctx, id, status, &comment)

	d.mu.Lock()
	d.loading = false
	if err != nil {
		d.mu.Unlock()
		d.notifier.Error("Failed to update status. Please try again.")
		return nil, err
	}
	d.report.Status = updated.Status
	d.report.AdminComment = updated.AdminComment
	d.open = false
	d.mu.Unlock()

	d.notifier.Success("Report status updated successfully!")
	if d.reload != nil {
		d.reload(ctx)
	}
	return updated, nil
}
