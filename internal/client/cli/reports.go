package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wastewise/wastewise/internal/client/analytics"
	"github.com/wastewise/wastewise/internal/client/dashboard"
	"github.com/wastewise/wastewise/internal/client/guard"
	"github.com/wastewise/wastewise/internal/client/lifecycle"
	"github.com/wastewise/wastewise/internal/client/submission"
	"github.com/wastewise/wastewise/internal/core/domain"
)

func validFilter(s string) bool {
	return s == "" || s == dashboard.FilterAll || domain.ReportStatus(s).IsValid()
}

func (a *App) listReports(ctx context.Context, args []string) error {
	fs := a.flags("reports")
	all := fs.Bool("all", false, "list every report (admin)")
	status := fs.String("status", dashboard.FilterAll, "all, pending, in_progress or completed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !validFilter(*status) {
		fmt.Fprintf(a.errOut, "invalid status filter %q\n", *status)
		return errUsage
	}

	v := dashboard.NewView()
	if *all {
		if err := a.enter(guard.AdminReportsPath); err != nil {
			return err
		}
		if err := a.loader.LoadAdmin(ctx, v); err != nil {
			return err
		}
	} else {
		if err := a.enter(guard.CitizenReportsPath); err != nil {
			return err
		}
		user, _ := a.session.User()
		if err := a.loader.LoadCitizen(ctx, v, user.ID); err != nil {
			return err
		}
	}

	snap := v.Snapshot()
	if snap.Stats != nil {
		counts := *snap.Stats
		if !*all && counts.Mine != nil {
			counts = *counts.Mine
		}
		renderCounts(a.out, counts)
		fmt.Fprintln(a.out)
	}
	renderReports(a.out, dashboard.FilterByStatus(snap.Reports, *status), *all)
	return nil
}

func (a *App) submit(ctx context.Context, args []string) error {
	fs := a.flags("submit")
	image := fs.String("image", "", "path to a photo of the waste")
	location := fs.String("location", "", "where the waste is")
	description := fs.String("description", "", "what the issue is, at least 10 characters")
	detect := fs.Bool("detect", false, "fill the location from WASTEWISE_LAT/WASTEWISE_LON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.enter(guard.CitizenDashboard); err != nil {
		return err
	}

	flow := submission.New(a.reports, a.notifier,
		submission.WithLocator(a.locator),
		submission.WithGeocoder(a.geocoder),
		submission.WithCoordinates(),
		submission.WithReload(a.reloadMine),
	)

	if *image != "" {
		data, err := os.ReadFile(*image)
		if err != nil {
			a.notifier.Error("Could not read image file")
			return fmt.Errorf("read image: %w", err)
		}
		if err := flow.SelectImage(filepath.Base(*image), data); err != nil {
			return err
		}
	}
	flow.SetLocation(*location)
	flow.SetDescription(*description)
	if *detect {
		// Failures are reported and leave the typed location in place.
		_ = flow.DetectLocation(ctx)
	}

	rep, err := flow.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Report %s created at %s (%s)\n", rep.ID, rep.Location, rep.Status.Label())
	return nil
}

func (a *App) reloadMine(ctx context.Context) {
	user, ok := a.session.User()
	if !ok {
		return
	}
	v := dashboard.NewView()
	if err := a.loader.LoadCitizen(ctx, v, user.ID); err != nil {
		return
	}
	counts := analytics.Count(v.Snapshot().Reports)
	fmt.Fprintf(a.out, "You have %d reports, %d still open\n", counts.Total, analytics.Active(counts))
}

func (a *App) update(ctx context.Context, args []string) error {
	fs := a.flags("update")
	id := fs.String("id", "", "report id")
	status := fs.String("status", "", "pending, in_progress or completed")
	comment := fs.String("comment", "", "admin comment; keeps the current one when omitted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	commentSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "comment" {
			commentSet = true
		}
	})
	if *id == "" || *status == "" {
		fs.Usage()
		return errUsage
	}
	if err := a.enter(guard.AdminReportsPath); err != nil {
		return err
	}

	all, err := a.reports.ListAll(ctx)
	if err != nil {
		a.notifier.Error("Failed to load reports")
		return err
	}
	var target *domain.Report
	for i := range all {
		if all[i].ID == *id {
			target = &all[i]
			break
		}
	}
	if target == nil {
		a.notifier.Error("Report not found")
		return domain.ErrReportNotFound
	}

	d := lifecycle.Open(*target, a.reports, a.notifier, nil)
	if err := d.SetStatus(domain.ReportStatus(*status)); err != nil {
		a.notifier.Error("Invalid status")
		return errors.Join(errUsage, err)
	}
	if commentSet {
		d.SetComment(*comment)
	}
	updated, err := d.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is now %s\n", updated.ID, updated.Status.Label())
	if updated.AdminComment != "" {
		fmt.Fprintf(a.out, "Comment: %s\n", updated.AdminComment)
	}
	return nil
}

func (a *App) stats(ctx context.Context, _ []string) error {
	if err := a.signedIn(); err != nil {
		return err
	}
	st, err := a.reports.Stats(ctx)
	if err != nil {
		a.notifier.Error("Failed to load statistics")
		return err
	}

	fmt.Fprintln(a.out, "All reports")
	renderCounts(a.out, *st)
	if st.Mine != nil {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Your reports")
		renderCounts(a.out, *st.Mine)
	}
	return nil
}

func (a *App) analytics(ctx context.Context, _ []string) error {
	if err := a.enter(guard.AdminAnalyticsPath); err != nil {
		return err
	}
	v := dashboard.NewView()
	if err := a.loader.LoadAnalytics(ctx, v); err != nil {
		return err
	}
	snap := v.Snapshot()
	renderAnalytics(a.out, *snap.Stats, analytics.Timeline(snap.Reports, a.now()))
	return nil
}

func (a *App) markers(ctx context.Context, _ []string) error {
	if err := a.enter(guard.AdminReportsPath); err != nil {
		return err
	}
	v := dashboard.NewView()
	if err := a.loader.LoadAdmin(ctx, v); err != nil {
		return err
	}
	renderMarkers(a.out, dashboard.Markers(v.Snapshot().Reports))
	return nil
}
