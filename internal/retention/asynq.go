package retention

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const queueName = "default"

// RedisOpt builds the asynq connection options.
func RedisOpt(addr, password string, db int) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: addr, Password: password, DB: db}
}

// Scheduler enqueues deletions in Redis for a Worker to execute.
type Scheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	now       func() time.Time
}

func NewScheduler(opt asynq.RedisClientOpt) *Scheduler {
	return &Scheduler{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		now:       time.Now,
	}
}

// Schedule enqueues the deletion of p to run after d. Failed deletions
// are not retried.
func (s *Scheduler) Schedule(ctx context.Context, p Payload, d time.Duration) (Handle, error) {
	b, err := encodePayload(p)
	if err != nil {
		return Handle{}, err
	}
	id := taskID(p.ExportID)
	task := asynq.NewTask(TypeExportPurge, b)
	info, err := s.client.EnqueueContext(ctx, task,
		asynq.TaskID(id),
		asynq.Queue(queueName),
		asynq.ProcessIn(d),
		asynq.MaxRetry(0),
	)
	if err != nil {
		return Handle{}, fmt.Errorf("scheduling deletion of %s: %w", p.ExportID, err)
	}
	fireAt := info.NextProcessAt
	if fireAt.IsZero() {
		fireAt = s.now().Add(d)
	}
	return Handle{TaskID: info.ID, FireAt: fireAt}, nil
}

// Cancel removes a pending deletion. It returns ErrExpired when the task
// already ran or is running.
func (s *Scheduler) Cancel(_ context.Context, h Handle) error {
	err := s.inspector.DeleteTask(queueName, h.TaskID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, asynq.ErrTaskNotFound), errors.Is(err, asynq.ErrQueueNotFound):
		return ErrExpired
	}
	info, getErr := s.inspector.GetTaskInfo(queueName, h.TaskID)
	if getErr == nil && info.State == asynq.TaskStateActive {
		return ErrExpired
	}
	return fmt.Errorf("cancelling %s: %w", h.TaskID, err)
}

func (s *Scheduler) Close() error {
	return errors.Join(s.client.Close(), s.inspector.Close())
}

// Worker executes scheduled deletions.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// NewWorker creates a worker processing deletions with p.
func NewWorker(opt asynq.RedisClientOpt, concurrency int, p Purger, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queueName: 1},
		Logger:      logger.Sugar(),
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExportPurge, HandlePurge(p, logger))
	return &Worker{srv: srv, mux: mux, logger: logger}
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("starting worker: %w", err)
	}
	w.logger.Info("retention worker started")
	<-ctx.Done()
	w.srv.Shutdown()
	w.logger.Info("retention worker stopped")
	return nil
}

// HandlePurge decodes a deletion task and runs it.
func HandlePurge(p Purger, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload Payload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Error("invalid purge payload", zap.Error(err))
			return fmt.Errorf("decoding purge payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := p.Purge(ctx, payload); err != nil {
			logger.Error("purge failed", zap.String("export_id", payload.ExportID), zap.Error(err))
			return err
		}
		logger.Info("export purged", zap.String("export_id", payload.ExportID))
		return nil
	}
}
