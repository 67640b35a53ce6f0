package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wastewise/wastewise/internal/api/metrics"
	"github.com/wastewise/wastewise/internal/core/domain"
	"github.com/wastewise/wastewise/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes report audit events to a fixed set of workers using
// consistent hashing on the report ID, so events for one report are recorded
// in the order they were produced.
type Dispatcher struct {
	workers []chan domain.ReportEvent
	service ports.ReportEventService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ReportEventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ReportEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ReportEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain what is already queued
// and stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands an event to the worker responsible for its report. It never
// blocks the request path: when that worker's buffer is full the event is
// dropped and logged.
func (d *Dispatcher) Enqueue(event domain.ReportEvent) {
	idx := d.shardIndex(event.ReportID)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.EventsProcessedTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("report_id", event.ReportID).
			Int("worker_id", idx).
			Msg("event queue full, dropping audit event")
	}
}

// shardIndex maps a report ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(reportID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(reportID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ReportEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(id, label, ch)
			return
		case event := <-ch:
			d.process(ctx, id, label, event)
		}
	}
}

// drain records events still buffered at shutdown with a short deadline of
// their own, since the worker context is already cancelled.
func (d *Dispatcher) drain(id int, label string, ch <-chan domain.ReportEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		select {
		case event := <-ch:
			d.process(ctx, id, label, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, label string, event domain.ReportEvent) {
	metrics.EventsQueueDepth.WithLabelValues(label).Dec()
	start := time.Now()

	if err := d.service.Process(ctx, event); err != nil {
		metrics.EventsProcessedTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("report_id", event.ReportID).
			Int("worker_id", id).
			Msg("event processing failed")
		return
	}

	metrics.EventsProcessedTotal.WithLabelValues("ok").Inc()
	metrics.EventProcessingDuration.Observe(time.Since(start).Seconds())
}
