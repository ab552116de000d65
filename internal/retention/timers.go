package retention

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Timers schedules deletions in process memory. Pending deletions are lost
// on restart, so it only serves local runs without Redis.
type Timers struct {
	purger Purger
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

func NewTimers(p Purger, logger *zap.Logger) *Timers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Timers{purger: p, logger: logger, now: time.Now, pending: make(map[string]*time.Timer)}
}

func (t *Timers) Schedule(_ context.Context, p Payload, d time.Duration) (Handle, error) {
	if _, err := encodePayload(p); err != nil {
		return Handle{}, err
	}
	id := taskID(p.ExportID)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return Handle{}, context.Canceled
	}
	if old, ok := t.pending[id]; ok {
		old.Stop()
	}
	t.pending[id] = time.AfterFunc(d, func() { t.fire(id, p) })
	return Handle{TaskID: id, FireAt: t.now().Add(d)}, nil
}

func (t *Timers) fire(id string, p Payload) {
	t.mu.Lock()
	if _, ok := t.pending[id]; !ok {
		t.mu.Unlock()
		return
	}
	delete(t.pending, id)
	t.mu.Unlock()

	if err := t.purger.Purge(context.Background(), p); err != nil {
		t.logger.Error("purge failed", zap.String("export_id", p.ExportID), zap.Error(err))
		return
	}
	t.logger.Info("export purged", zap.String("export_id", p.ExportID))
}

// Cancel stops a pending deletion, or returns ErrExpired if it already fired.
func (t *Timers) Cancel(_ context.Context, h Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	timer, ok := t.pending[h.TaskID]
	if !ok {
		return ErrExpired
	}
	// A timer that already started skips the purge once its entry is gone.
	delete(t.pending, h.TaskID)
	timer.Stop()
	return nil
}

// Close stops every pending deletion without running it.
func (t *Timers) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, timer := range t.pending {
		timer.Stop()
		delete(t.pending, id)
	}
	t.closed = true
	return nil
}
