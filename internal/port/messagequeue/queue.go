// Package messagequeue defines the message queue port (interface).
package messagequeue

import "context"

// Publisher sends messages to a subject.
type Publisher interface {
	// Publish sends data to the given subject.
	Publish(ctx context.Context, subject string, data []byte) error
}

// Subject constants for the events emitted by VerifyGate.
const (
	SubjectPrefix               = "verifications"
	SubjectVerificationEnqueued = SubjectPrefix + ".enqueued"
)
