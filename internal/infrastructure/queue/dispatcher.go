package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdpi/member-portal/internal/api/metrics"
	"github.com/pdpi/member-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes article view events to a fixed set of workers, sharded
// by article ID so the increments of one article are applied in order.
type Dispatcher struct {
	workers []chan ports.ViewEvent
	service ports.ViewService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers shards.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ViewService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ViewEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ViewEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled; Wait blocks
// until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.runWorker(ctx, i, ch)
		}()
	}
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands ev to its shard without blocking. A view is not worth
// stalling a request for, so a full queue drops the event and returns false.
func (d *Dispatcher) Enqueue(ev ports.ViewEvent) bool {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	idx := d.shardIndex(ev.ArticleID)
	select {
	case d.workers[idx] <- ev:
		metrics.ViewsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		metrics.ViewsDroppedTotal.Inc()
		d.log.Warn().Str("article_id", ev.ArticleID).Int("worker_id", idx).Msg("view queue full, event dropped")
		return false
	}
}

// shardIndex maps an article ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(articleID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(articleID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ViewEvent) {
	depth := metrics.ViewsQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			depth.Set(float64(len(ch)))
			start := time.Now()
			if err := d.service.Process(ctx, ev); err != nil {
				metrics.ViewsProcessedTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("article_id", ev.ArticleID).
					Int("worker_id", id).
					Msg("view processing failed")
				continue
			}
			metrics.ViewsProcessedTotal.WithLabelValues("counted").Inc()
			metrics.ViewProcessingDuration.Observe(time.Since(start).Seconds())
		}
	}
}
