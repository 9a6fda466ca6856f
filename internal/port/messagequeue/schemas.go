package messagequeue

import "time"

// VerificationEnqueuedPayload is published on SubjectVerificationEnqueued
// after the queue accepted a verification job.
type VerificationEnqueuedPayload struct {
	Repo       string    `json:"repo"`
	Commit     string    `json:"commit"`
	Optimizer  string    `json:"optimizer,omitempty"`
	Output     string    `json:"output"` // stdout of the queue CLI, usually the task id
	RequestID  string    `json:"request_id,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
