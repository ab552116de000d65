// Package retention deletes temporary exports once their retention window
// elapses. Every scheduled deletion is an owned handle that can be
// cancelled until it fires.
package retention

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alnah/go-folio/internal/storage"
)

// TypeExportPurge is the task type of a deferred export deletion.
const TypeExportPurge = "export:purge"

// ErrExpired is returned when cancelling a handle that already fired.
var ErrExpired = errors.New("deletion already executed")

// Payload identifies what a deletion removes.
type Payload struct {
	ExportID string         `json:"exportId"`
	Object   storage.Object `json:"object"`
}

// Handle is an owned reference to one scheduled deletion.
type Handle struct {
	TaskID string    `json:"taskId" bson:"task_id"`
	FireAt time.Time `json:"fireAt" bson:"fire_at"`
}

// Purger executes a deletion.
type Purger interface {
	Purge(ctx context.Context, p Payload) error
}

// PurgerFunc adapts a function to Purger.
type PurgerFunc func(ctx context.Context, p Payload) error

func (f PurgerFunc) Purge(ctx context.Context, p Payload) error { return f(ctx, p) }

func taskID(exportID string) string {
	return TypeExportPurge + ":" + exportID
}

func encodePayload(p Payload) ([]byte, error) {
	if p.ExportID == "" {
		return nil, errors.New("payload without export id")
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding purge payload: %w", err)
	}
	return b, nil
}
