package historyrecorder

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/streamium/internal/logger"
	"github.com/nkiryanov/streamium/internal/repository"
)

const (
	defaultCountWorkers = 4   // Number of workers draining view events
	defaultQueueSize    = 256 // Buffered events before Record starts dropping
)

type View struct {
	UserID    uuid.UUID
	VideoID   uuid.UUID
	WatchedAt time.Time
}

// Recorder appends watch history off the request path
// Requests enqueue views, a small worker pool writes them to the store
type Recorder struct {
	countWorkers int
	queue        chan View

	history repository.HistoryRepo
	logger  logger.Logger
}

func New(history repository.HistoryRepo, l logger.Logger) *Recorder {
	return &Recorder{
		countWorkers: defaultCountWorkers,
		queue:        make(chan View, defaultQueueSize),
		history:      history,
		logger:       l,
	}
}

// Record enqueues a view without blocking the request
// A full queue drops the event: history is best effort
func (r *Recorder) Record(v View) {
	if v.WatchedAt.IsZero() {
		v.WatchedAt = time.Now()
	}

	select {
	case r.queue <- v:
	default:
		r.logger.Warn("history queue full, dropping view", "user_id", v.UserID, "video_id", v.VideoID)
	}
}

// Run starts the workers and returns a channel closed when all of them
// stopped after context cancellation
func (r *Recorder) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < r.countWorkers; i++ {
		wg.Add(1)
		go func() {
			r.worker(ctx)
			wg.Done()
		}()
	}

	go func() {
		defer close(idleStopped)
		wg.Wait()
		r.logger.Debug("history recorder stopped")
	}()

	return idleStopped
}

func (r *Recorder) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case v := <-r.queue:
			// Request context is gone by now, the write gets its own
			if err := r.history.AddView(context.Background(), v.UserID, v.VideoID, v.WatchedAt); err != nil {
				r.logger.Error("failed to record view", "error", err, "user_id", v.UserID, "video_id", v.VideoID)
			}
		}
	}
}
