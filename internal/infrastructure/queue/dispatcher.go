package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tubeworks/media-api/internal/api/metrics"
	"github.com/tubeworks/media-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ViewProcessor persists a single view event.
type ViewProcessor interface {
	ProcessView(ctx context.Context, event ports.ViewEvent) error
}

// Dispatcher routes view events to a fixed set of workers using consistent
// hashing on the video ID, so each video's counter updates are applied in
// order by a single worker.
type Dispatcher struct {
	workers   []chan ports.ViewEvent
	processor ViewProcessor
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor ViewProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan ports.ViewEvent, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ViewEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Stop closes their
// channels.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop closes the worker channels and blocks until every buffered event has
// been processed. Call after the HTTP server has shut down, while the store
// connections are still open. Enqueue must not be called after Stop.
func (d *Dispatcher) Stop() {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

// Enqueue sends an event to the worker responsible for its video. Blocks
// when that worker's buffer is full, so a hot video applies backpressure to
// its watch requests instead of dropping views.
func (d *Dispatcher) Enqueue(event ports.ViewEvent) {
	idx := d.shardIndex(event.VideoID)
	d.workers[idx] <- event
	metrics.ViewQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a video ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(videoID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(videoID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ViewEvent) {
	defer d.wg.Done()

	// Detached from request/shutdown cancellation so events buffered at
	// shutdown still reach the store during Stop.
	ctx = context.WithoutCancel(ctx)

	worker := strconv.Itoa(id)
	for event := range ch {
		metrics.ViewQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
		if err := d.processor.ProcessView(ctx, event); err != nil {
			metrics.ViewsErrorsTotal.Inc()
			d.log.Error().Err(err).
				Str("video_id", event.VideoID).
				Int("worker_id", id).
				Msg("view processing failed")
			continue
		}
		metrics.ViewsProcessedTotal.Inc()
	}
}
