// Package taskqueue defines the port to the external task-queue daemon.
package taskqueue

import (
	"context"

	"github.com/Strob0t/VerifyGate/internal/domain/job"
	"github.com/Strob0t/VerifyGate/internal/domain/verification"
)

// Client talks to the queue daemon. Every call is a fresh, synchronous
// invocation; implementations keep no state between calls.
type Client interface {
	// Enqueue adds a verification job and returns the daemon's raw
	// acknowledgement (the printed task id).
	Enqueue(ctx context.Context, req verification.EnqueueRequest) ([]byte, error)

	// ListStatus returns a snapshot of every task the daemon knows about.
	ListStatus(ctx context.Context) (*job.Snapshot, error)

	// GetLog returns the record and captured output of one task.
	// Returns domain.ErrNotFound if the daemon does not report the id.
	GetLog(ctx context.Context, id int) (*job.TaskLog, error)
}
