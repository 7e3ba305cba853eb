package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrOutboxFull is returned by Publish when the target worker's buffer is full.
var ErrOutboxFull = errors.New("email outbox full")

// Dispatcher hands email jobs to a fixed set of workers, sharded by
// recipient so one person's emails leave in the order they were queued.
type Dispatcher struct {
	workers []chan ports.EmailJob
	mailer  ports.Mailer
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.EmailJob, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.EmailJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
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

// Publish queues the job without blocking.
func (d *Dispatcher) Publish(_ context.Context, job ports.EmailJob) error {
	idx := d.shardIndex(job.To)
	select {
	case d.workers[idx] <- job:
		metrics.EmailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		metrics.EmailJobsDroppedTotal.WithLabelValues("full").Inc()
		return ErrOutboxFull
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(recipient)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.EmailJob) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		if ctx.Err() != nil {
			d.discard(id, ch)
			return
		}
		select {
		case <-ctx.Done():
			d.discard(id, ch)
			return
		case job := <-ch:
			metrics.EmailQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if _, err := d.mailer.SendTemplate(ctx, job); err != nil {
				d.log.Error().Err(err).
					Str("template", job.Template).
					Str("to", job.To).
					Int("worker_id", id).
					Msg("email delivery failed")
			}
		}
	}
}

// discard empties a stopped worker's buffer so queued jobs show up in the
// dropped counter instead of vanishing.
func (d *Dispatcher) discard(id int, ch <-chan ports.EmailJob) {
	dropped := 0
	for {
		select {
		case job := <-ch:
			dropped++
			d.log.Warn().
				Str("template", job.Template).
				Str("to", job.To).
				Int("worker_id", id).
				Msg("email dropped on shutdown")
		default:
			if dropped > 0 {
				metrics.EmailJobsDroppedTotal.WithLabelValues("shutdown").Add(float64(dropped))
				metrics.EmailQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			}
			return
		}
	}
}
