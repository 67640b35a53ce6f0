// Package dashboard loads the data behind the citizen, admin and analytics
// views. Each load joins two parallel fetches and either applies both
// results or none.
package dashboard

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wastewise/wastewise/internal/client/notify"
	"github.com/wastewise/wastewise/internal/core/domain"
)

// Source is the report repository as seen by the dashboards.
type Source interface {
	ListMine(ctx context.Context, userID string) ([]domain.Report, error)
	ListAll(ctx context.Context) ([]domain.Report, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

// Snapshot is the data a view renders.
type Snapshot struct {
	Reports []domain.Report
	Stats   *domain.Stats
	Loading bool
}

// View holds the latest snapshot. Overlapping loads are not deduplicated;
// whichever finishes last wins.
type View struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewView() *View {
	return &View{snap: Snapshot{Loading: true}}
}

func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap
}

func (v *View) setLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snap.Loading = true
}

func (v *View) apply(reports []domain.Report, stats *domain.Stats) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snap = Snapshot{Reports: reports, Stats: stats}
}

type Loader struct {
	src      Source
	notifier notify.Notifier
}

func NewLoader(src Source, n notify.Notifier) *Loader {
	return &Loader{src: src, notifier: n}
}

// LoadCitizen fetches the user's reports and the stats.
func (l *Loader) LoadCitizen(ctx context.Context, v *View, userID string) error {
	return l.load(ctx, v, "Failed to load reports", func(ctx context.Context) ([]domain.Report, error) {
		return l.src.ListMine(ctx, userID)
	})
}

// LoadAdmin fetches every report and the stats.
func (l *Loader) LoadAdmin(ctx context.Context, v *View) error {
	return l.load(ctx, v, "Failed to load reports", l.src.ListAll)
}

// LoadAnalytics is LoadAdmin with the analytics failure message.
func (l *Loader) LoadAnalytics(ctx context.Context, v *View) error {
	return l.load(ctx, v, "Failed to load analytics", l.src.ListAll)
}

// load runs both fetches. On any failure one notification is sent, partial
// results are dropped and the view stays in the loading state.
func (l *Loader) load(ctx context.Context, v *View, failure string, list func(context.Context) ([]domain.Report, error)) error {
	v.setLoading()

	var (
		reports []domain.Report
		stats   *domain.Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reports, err = list(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = l.src.Stats(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		l.notifier.Error(failure)
		return err
	}
	v.apply(reports, stats)
	return nil
}
