package dashboard

import (
	"regexp"
	"strconv"

	"github.com/wastewise/wastewise/internal/client/geo"
	"github.com/wastewise/wastewise/internal/core/domain"
)

// FilterAll selects every report.
const FilterAll = "all"

// FilterByStatus returns the reports whose status equals filter, or all of
// them for FilterAll or an empty filter.
func FilterByStatus(reports []domain.Report, filter string) []domain.Report {
	if filter == "" || filter == FilterAll {
		return reports
	}
	out := make([]domain.Report, 0, len(reports))
	for _, r := range reports {
		if string(r.Status) == filter {
			out = append(out, r)
		}
	}
	return out
}

// Marker places one report on the map.
type Marker struct {
	ReportID string
	Status   domain.ReportStatus
	Coords   geo.Coordinates
}

var (
	latPattern = regexp.MustCompile(`(?i)lat:\s*(-?\d+\.?\d*)`)
	lngPattern = regexp.MustCompile(`(?i)lng:\s*(-?\d+\.?\d*)`)
)

// Markers returns a marker for every report with a position: stored
// coordinates first, otherwise a "Lat: x, Lng: y" location label.
func Markers(reports []domain.Report) []Marker {
	var out []Marker
	for _, r := range reports {
		if c, ok := position(r); ok {
			out = append(out, Marker{ReportID: r.ID, Status: r.Status, Coords: c})
		}
	}
	return out
}

func position(r domain.Report) (geo.Coordinates, bool) {
	if r.HasCoordinates() {
		return geo.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}, true
	}
	lat := latPattern.FindStringSubmatch(r.Location)
	lng := lngPattern.FindStringSubmatch(r.Location)
	if lat == nil || lng == nil {
		return geo.Coordinates{}, false
	}
	la, err1 := strconv.ParseFloat(lat[1], 64)
	lo, err2 := strconv.ParseFloat(lng[1], 64)
	if err1 != nil || err2 != nil {
		return geo.Coordinates{}, false
	}
	return geo.Coordinates{Latitude: la, Longitude: lo}, true
}
