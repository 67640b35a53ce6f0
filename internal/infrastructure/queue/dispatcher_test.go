package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wastewise/wastewise/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.ReportEvent
	fail   map[string]bool
}

func (s *recordingService) Process(_ context.Context, e domain.ReportEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[e.ReportID] {
		return errors.New("boom")
	}
	s.events = append(s.events, e)
	return nil
}

func (s *recordingService) byReport(id string) []domain.ReportStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ReportStatus
	for _, e := range s.events {
		if e.ReportID == id {
			out = append(out, e.Status)
		}
	}
	return out
}

func TestDispatcher_PreservesPerReportOrder(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(3, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	order := []domain.ReportStatus{domain.StatusInProgress, domain.StatusCompleted, domain.StatusPending}
	for i := 0; i < 5; i++ {
		for _, st := range order {
			d.Enqueue(domain.ReportEvent{ReportID: fmt.Sprintf("r%d", i), Status: st})
		}
	}

	cancel()
	d.Wait()

	for i := 0; i < 5; i++ {
		got := svc.byReport(fmt.Sprintf("r%d", i))
		if len(got) != len(order) {
			t.Fatalf("report r%d: expected %d events, got %d", i, len(order), len(got))
		}
		for j := range order {
			if got[j] != order[j] {
				t.Fatalf("report r%d: expected %v, got %v", i, order, got)
			}
		}
	}
}

func TestDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	svc := &recordingService{fail: map[string]bool{"bad": true}}
	d := NewDispatcher(1, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	d.Enqueue(domain.ReportEvent{ReportID: "bad", Status: domain.StatusPending})
	d.Enqueue(domain.ReportEvent{ReportID: "good", Status: domain.StatusCompleted})
	cancel()
	d.Wait()

	if got := svc.byReport("good"); len(got) != 1 {
		t.Fatalf("expected the event after a failure to be processed, got %v", got)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &recordingService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	if d.shardIndex("665f1c2a") != d.shardIndex("665f1c2a") {
		t.Fatalf("expected the same report to map to the same worker")
	}
}
