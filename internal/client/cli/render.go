package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/wastewise/wastewise/internal/client/analytics"
	"github.com/wastewise/wastewise/internal/client/dashboard"
	"github.com/wastewise/wastewise/internal/core/domain"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderCounts(w io.Writer, st domain.Stats) {
	rates := analytics.RatesOf(st)
	tw := newTable(w)
	fmt.Fprintf(tw, "Total\t%d\t\n", st.Total)
	fmt.Fprintf(tw, "Pending\t%d\t%s\n", st.Pending, analytics.FormatPercent(rates.Pending))
	fmt.Fprintf(tw, "In Progress\t%d\t%s\n", st.InProgress, analytics.FormatPercent(rates.InProgress))
	fmt.Fprintf(tw, "Completed\t%d\t%s\n", st.Completed, analytics.FormatPercent(rates.Completion))
	tw.Flush()
}

func renderReports(w io.Writer, reports []domain.Report, withReporter bool) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "No reports found")
		return
	}
	tw := newTable(w)
	if withReporter {
		fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tREPORTER\tLOCATION\tDESCRIPTION")
	} else {
		fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tLOCATION\tDESCRIPTION")
	}
	for _, r := range reports {
		date := r.Timestamp.Local().Format("Jan 2, 2006")
		if withReporter {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, date, r.Status.Label(), r.UserEmail, truncate(r.Location, 30), truncate(r.Description, 40))
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, date, r.Status.Label(), truncate(r.Location, 30), truncate(r.Description, 40))
		}
	}
	tw.Flush()
}

func renderAnalytics(w io.Writer, st domain.Stats, days []analytics.Day) {
	rates := analytics.RatesOf(st)
	fmt.Fprintf(w, "Total reports: %d\n", st.Total)
	fmt.Fprintf(w, "Active:        %d\n", analytics.Active(st))
	fmt.Fprintf(w, "Completion:    %s\n\n", analytics.FormatPercent(rates.Completion))

	tw := newTable(w)
	fmt.Fprintln(tw, "STATUS\tCOUNT\tSHARE\tCOLOR")
	for _, s := range analytics.StatusDistribution(st) {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Name, s.Value, analytics.FormatPercent(analytics.Percent(s.Value, st.Total)), s.Color)
	}
	tw.Flush()

	if len(days) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "DAY\tPENDING\tIN PROGRESS\tCOMPLETED\tTOTAL")
	for _, d := range days {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", d.Label, d.Pending, d.InProgress, d.Completed, d.Total)
	}
	tw.Flush()
}

func renderMarkers(w io.Writer, markers []dashboard.Marker) {
	if len(markers) == 0 {
		fmt.Fprintln(w, "No reports with a position")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSTATUS\tPOSITION")
	for _, m := range markers {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ReportID, m.Status.Label(), m.Coords)
	}
	tw.Flush()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
