// Package analytics derives counts, rates and chart series from reports.
// Every function is pure.
package analytics

import (
	"fmt"
	"time"

	"github.com/wastewise/wastewise/internal/core/domain"
)

// Count tallies reports per status. Unknown statuses are ignored.
func Count(reports []domain.Report) domain.Stats {
	var st domain.Stats
	for _, r := range reports {
		st.Add(r.Status, 1)
	}
	return st
}

// Percent returns part/total*100, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// FormatPercent renders p with one decimal, e.g. "50.0%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// Active counts reports that still need work.
func Active(st domain.Stats) int {
	return st.Pending + st.InProgress
}

type Rates struct {
	Completion float64
	InProgress float64
	Pending    float64
}

func RatesOf(st domain.Stats) Rates {
	return Rates{
		Completion: Percent(st.Completed, st.Total),
		InProgress: Percent(st.InProgress, st.Total),
		Pending:    Percent(st.Pending, st.Total),
	}
}

// Slice is one segment of a status chart.
type Slice struct {
	Status domain.ReportStatus
	Name   string
	Value  int
	Color  string
}

var statusColors = map[domain.ReportStatus]string{
	domain.StatusPending:    "#eab308",
	domain.StatusInProgress: "#3b82f6",
	domain.StatusCompleted:  "#22c55e",
}

// StatusDistribution returns one slice per status in lifecycle order.
func StatusDistribution(st domain.Stats) []Slice {
	values := map[domain.ReportStatus]int{
		domain.StatusPending:    st.Pending,
		domain.StatusInProgress: st.InProgress,
		domain.StatusCompleted:  st.Completed,
	}
	out := make([]Slice, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		out = append(out, Slice{Status: s, Name: s.Label(), Value: values[s], Color: statusColors[s]})
	}
	return out
}

// Bar is one bar of the per-status count chart.
type Bar struct {
	Label string
	Count int
	Fill  string
}

// BarSeries is StatusDistribution shaped for a bar chart.
func BarSeries(st domain.Stats) []Bar {
	slices := StatusDistribution(st)
	out := make([]Bar, len(slices))
	for i, s := range slices {
		out[i] = Bar{Label: s.Name, Count: s.Value, Fill: s.Color}
	}
	return out
}

// Day is one bucket of the activity timeline.
type Day struct {
	Date       time.Time
	Label      string
	Pending    int
	InProgress int
	Completed  int
	Total      int
}

const timelineDays = 7

// Timeline buckets reports into the seven local calendar days ending today,
// oldest first. Day boundaries follow now's location; report timestamps are
// converted into it. An empty input yields no buckets.
func Timeline(reports []domain.Report, now time.Time) []Day {
	if len(reports) == 0 {
		return nil
	}

	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	days := make([]Day, timelineDays)
	index := make(map[string]int, timelineDays)
	for i := range days {
		date := today.AddDate(0, 0, i-(timelineDays-1))
		days[i] = Day{Date: date, Label: date.Format("Jan 2")}
		index[date.Format(time.DateOnly)] = i
	}

	for _, r := range reports {
		i, ok := index[r.Timestamp.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		switch r.Status {
		case domain.StatusPending:
			days[i].Pending++
		case domain.StatusInProgress:
			days[i].InProgress++
		case domain.StatusCompleted:
			days[i].Completed++
		}
		days[i].Total++
	}
	return days
}
