package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"

	cfotel "github.com/Strob0t/VerifyGate/internal/adapter/otel"
	"github.com/Strob0t/VerifyGate/internal/domain/job"
	"github.com/Strob0t/VerifyGate/internal/domain/verification"
	"github.com/Strob0t/VerifyGate/internal/logger"
	"github.com/Strob0t/VerifyGate/internal/port/messagequeue"
	"github.com/Strob0t/VerifyGate/internal/port/taskqueue"
)

// VerificationService validates enqueue requests, delegates to the task
// queue and shapes its output for clients. It holds no per-request state.
type VerificationService struct {
	queue   taskqueue.Client
	events  messagequeue.Publisher
	metrics *cfotel.Metrics
	now     func() time.Time
}

// NewVerificationService creates a VerificationService. events and metrics
// may be nil.
func NewVerificationService(queue taskqueue.Client, events messagequeue.Publisher, metrics *cfotel.Metrics) *VerificationService {
	return &VerificationService{
		queue:   queue,
		events:  events,
		metrics: metrics,
		now:     time.Now,
	}
}

// Enqueue validates req and adds it to the queue. It returns the queue
// CLI's stdout verbatim. A missing commit defaults to HEAD.
func (s *VerificationService) Enqueue(ctx context.Context, req verification.EnqueueRequest) ([]byte, error) {
	if req.Commit == "" {
		req.Commit = verification.DefaultCommit
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := cfotel.StartEnqueueSpan(ctx, req.Repo, req.Commit)
	defer span.End()

	out, err := s.queue.Enqueue(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enqueue failed")
		return nil, fmt.Errorf("enqueue %s@%s: %w", req.Repo, req.Commit, err)
	}

	s.metrics.RecordEnqueued(ctx)
	slog.InfoContext(ctx, "verification enqueued", "repo", req.Repo, "commit", req.Commit, "optimizer", req.Optimizer)
	s.publishEnqueued(ctx, req, out)

	return out, nil
}

// publishEnqueued emits the enqueued event. Failures are logged only: the
// job is already queued and the client must still see its id.
func (s *VerificationService) publishEnqueued(ctx context.Context, req verification.EnqueueRequest, out []byte) {
	if s.events == nil {
		return
	}

	data, err := json.Marshal(messagequeue.VerificationEnqueuedPayload{
		Repo:       req.Repo,
		Commit:     req.Commit,
		Optimizer:  req.Optimizer,
		Output:     string(out),
		RequestID:  logger.RequestID(ctx),
		EnqueuedAt: s.now().UTC(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "marshal enqueued event", "error", err)
		return
	}
	if err := s.events.Publish(ctx, messagequeue.SubjectVerificationEnqueued, data); err != nil {
		slog.WarnContext(ctx, "publish enqueued event failed", "error", err)
	}
}

// ListStatus returns every task known to the queue, sorted by id and without
// output.
func (s *VerificationService) ListStatus(ctx context.Context) (job.StatusDisplayable, error) {
	snap, err := s.queue.ListStatus(ctx)
	if err != nil {
		return job.StatusDisplayable{}, fmt.Errorf("list status: %w", err)
	}
	return job.BuildListing(snap.Tasks), nil
}

// GetStatus returns a single task including its captured output. An unknown
// id yields an error matching domain.ErrNotFound.
func (s *VerificationService) GetStatus(ctx context.Context, id int) (job.TaskDisplayable, error) {
	entry, err := s.queue.GetLog(ctx, id)
	if err != nil {
		return job.TaskDisplayable{}, fmt.Errorf("get status: %w", err)
	}
	return job.Detail(*entry), nil
}
