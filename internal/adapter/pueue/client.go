// Package pueue implements taskqueue.Client by running the pueue CLI.
package pueue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/codes"

	cfotel "github.com/Strob0t/VerifyGate/internal/adapter/otel"
	"github.com/Strob0t/VerifyGate/internal/domain"
	"github.com/Strob0t/VerifyGate/internal/domain/job"
	"github.com/Strob0t/VerifyGate/internal/domain/verification"
	"github.com/Strob0t/VerifyGate/internal/procpool"
)

const (
	// DefaultBinary is the queue CLI looked up on PATH.
	DefaultBinary = "pueue"
	// DefaultJobName is the verifier command template passed to `add`.
	DefaultJobName = "secret-contract-verifier"
)

// Operation names, used for spans, metrics and logs.
const (
	opAdd    = "add"
	opStatus = "status"
	opLog    = "log"
)

var errInvalidUTF8 = errors.New("output is not valid UTF-8")

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Binary  string
	JobName string
	// Timeout bounds a single invocation. Zero means no timeout.
	Timeout time.Duration
	Pool    *procpool.Pool
	Metrics *cfotel.Metrics
}

// Client runs the queue CLI once per call with an explicit argument vector.
type Client struct {
	binary  string
	jobName string
	timeout time.Duration
	pool    *procpool.Pool
	metrics *cfotel.Metrics
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		binary:  opts.Binary,
		jobName: opts.JobName,
		timeout: opts.Timeout,
		pool:    opts.Pool,
		metrics: opts.Metrics,
	}
	if c.binary == "" {
		c.binary = DefaultBinary
	}
	if c.jobName == "" {
		c.jobName = DefaultJobName
	}
	return c
}

// InvocationError describes a failed CLI invocation. It matches
// domain.ErrInvocation under errors.Is.
type InvocationError struct {
	Command  string
	ExitCode int // -1 if the process did not exit normally
	Stderr   string
	Err      error
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("%s: %s: %v", domain.ErrInvocation, e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Is reports whether target is domain.ErrInvocation.
func (e *InvocationError) Is(target error) bool { return target == domain.ErrInvocation }

// EnqueueArgs builds the `add` argument vector for req.
func EnqueueArgs(jobName string, req verification.EnqueueRequest) []string {
	args := []string{"add", "--print-task-id", "--", jobName, "--repo", req.Repo, "--commit", req.Commit}
	if req.HasOptimizer() {
		args = append(args, "--optimizer", req.Optimizer)
	}
	return args
}

// Enqueue adds a verification job and returns the CLI's stdout verbatim.
// An invalid optimizer is rejected without spawning the CLI.
func (c *Client) Enqueue(ctx context.Context, req verification.EnqueueRequest) ([]byte, error) {
	if req.HasOptimizer() {
		if err := verification.ValidateOptimizer(req.Optimizer); err != nil {
			return nil, err
		}
	}

	res, err := c.run(ctx, opAdd, EnqueueArgs(c.jobName, req))
	if err != nil {
		return nil, err
	}
	return res.stdout, nil
}

// ListStatus runs `status --json` and decodes the snapshot.
func (c *Client) ListStatus(ctx context.Context) (*job.Snapshot, error) {
	res, err := c.run(ctx, opStatus, []string{"status", "--json"})
	if err != nil {
		return nil, err
	}

	var snap job.Snapshot
	if err := res.decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetLog runs `log <id> --json` and returns the entry for id.
func (c *Client) GetLog(ctx context.Context, id int) (*job.TaskLog, error) {
	key := strconv.Itoa(id)
	res, err := c.run(ctx, opLog, []string{"log", key, "--json"})
	if err != nil {
		return nil, err
	}

	var logs map[string]job.TaskLog
	if err := res.decode(&logs); err != nil {
		return nil, err
	}
	entry, ok := logs[key]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
	}
	return &entry, nil
}

// result is the captured output of one successful invocation.
type result struct {
	command string
	stdout  []byte
	stderr  string
}

func (r *result) decode(v any) error {
	if err := json.Unmarshal(r.stdout, v); err != nil {
		return &InvocationError{
			Command: r.command,
			Stderr:  r.stderr,
			Err:     fmt.Errorf("decode output: %w", err),
		}
	}
	return nil
}

func (c *Client) run(ctx context.Context, op string, args []string) (*result, error) {
	start := time.Now()
	var res *result
	err := c.pool.Run(ctx, func() error {
		var execErr error
		res, execErr = c.exec(ctx, op, args)
		return execErr
	})
	c.metrics.RecordInvocation(ctx, op, err, time.Since(start))
	return res, err
}

func (c *Client) exec(ctx context.Context, op string, args []string) (*result, error) {
	// The subprocess is not tied to the caller's cancellation: an aborted
	// request leaves the daemon call to finish on its own.
	runCtx := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, c.timeout)
		defer cancel()
	}

	runCtx, span := cfotel.StartInvocationSpan(runCtx, op, args)
	defer span.End()

	command := c.binary + " " + strings.Join(args, " ")
	cmd := exec.CommandContext(runCtx, c.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	errText := strings.TrimSpace(stderr.String())

	if errText != "" {
		slog.WarnContext(ctx, "queue stderr", "op", op, "stderr", errText)
	}

	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
		return nil, &InvocationError{Command: command, ExitCode: exitCode, Stderr: errText, Err: runErr}
	}

	if !utf8.Valid(stdout.Bytes()) {
		span.SetStatus(codes.Error, errInvalidUTF8.Error())
		return nil, &InvocationError{Command: command, Stderr: errText, Err: errInvalidUTF8}
	}

	return &result{command: command, stdout: stdout.Bytes(), stderr: errText}, nil
}
