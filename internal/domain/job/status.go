package job

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StatusKind is the variant tag of a TaskStatus.
type StatusKind string

const (
	StatusQueued  StatusKind = "Queued"
	StatusStashed StatusKind = "Stashed"
	StatusRunning StatusKind = "Running"
	StatusPaused  StatusKind = "Paused"
	StatusDone    StatusKind = "Done"
	StatusLocked  StatusKind = "Locked"
)

// ResultKind is the variant tag of a TaskResult.
type ResultKind string

const (
	ResultSuccess          ResultKind = "Success"
	ResultFailed           ResultKind = "Failed"
	ResultFailedToSpawn    ResultKind = "FailedToSpawn"
	ResultKilled           ResultKind = "Killed"
	ResultErrored          ResultKind = "Errored"
	ResultDependencyFailed ResultKind = "DependencyFailed"
)

// TaskStatus is the daemon's task state. The daemon encodes it externally
// tagged: payload-less variants as a bare string ("Running"), the others as a
// single-key object ({"Done":"Success"}). The received encoding is kept and
// written back unchanged, so payload fields unknown here survive.
type TaskStatus struct {
	Kind StatusKind
	raw  json.RawMessage
}

// NewStatus returns a payload-less status of the given kind.
func NewStatus(kind StatusKind) TaskStatus {
	return TaskStatus{Kind: kind}
}

// Known reports whether Kind is one of the variants this package defines.
func (s TaskStatus) Known() bool {
	switch s.Kind {
	case StatusQueued, StatusStashed, StatusRunning, StatusPaused, StatusDone, StatusLocked:
		return true
	}
	return false
}

// EnqueueAt returns the scheduled enqueue time of a Stashed task. The second
// result is false for any other kind.
func (s TaskStatus) EnqueueAt() (*time.Time, bool) {
	if s.Kind != StatusStashed {
		return nil, false
	}
	_, payload, err := decodeTagged(s.raw)
	if err != nil || len(payload) == 0 {
		return nil, true
	}
	var p struct {
		EnqueueAt *time.Time `json:"enqueue_at"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, true
	}
	return p.EnqueueAt, true
}

// Result returns the outcome of a Done task. The second result is false when
// the task is not done or the payload is not a TaskResult.
func (s TaskStatus) Result() (TaskResult, bool) {
	if s.Kind != StatusDone {
		return TaskResult{}, false
	}
	_, payload, err := decodeTagged(s.raw)
	if err != nil || len(payload) == 0 {
		return TaskResult{}, false
	}
	var r TaskResult
	if err := json.Unmarshal(payload, &r); err != nil {
		return TaskResult{}, false
	}
	return r, true
}

// MarshalJSON writes the received encoding, or the bare tag for statuses
// built with NewStatus.
func (s TaskStatus) MarshalJSON() ([]byte, error) {
	return encodeTagged(string(s.Kind), s.raw)
}

// UnmarshalJSON records the tag and keeps the raw encoding.
func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	tag, _, err := decodeTagged(data)
	if err != nil {
		return fmt.Errorf("task status: %w", err)
	}
	s.Kind = StatusKind(tag)
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}

// TaskResult is the outcome carried by a Done status.
type TaskResult struct {
	Kind ResultKind
	raw  json.RawMessage
}

// Known reports whether Kind is one of the variants this package defines.
func (r TaskResult) Known() bool {
	switch r.Kind {
	case ResultSuccess, ResultFailed, ResultFailedToSpawn, ResultKilled, ResultErrored, ResultDependencyFailed:
		return true
	}
	return false
}

// ExitCode returns the exit code of a Failed result.
func (r TaskResult) ExitCode() (int, bool) {
	if r.Kind != ResultFailed {
		return 0, false
	}
	var code int
	if !r.payload(&code) {
		return 0, false
	}
	return code, true
}

// Message returns the spawn error of a FailedToSpawn result.
func (r TaskResult) Message() (string, bool) {
	if r.Kind != ResultFailedToSpawn {
		return "", false
	}
	var msg string
	if !r.payload(&msg) {
		return "", false
	}
	return msg, true
}

func (r TaskResult) payload(dst any) bool {
	_, payload, err := decodeTagged(r.raw)
	if err != nil || len(payload) == 0 {
		return false
	}
	return json.Unmarshal(payload, dst) == nil
}

// MarshalJSON writes the received encoding.
func (r TaskResult) MarshalJSON() ([]byte, error) {
	return encodeTagged(string(r.Kind), r.raw)
}

// UnmarshalJSON records the tag and keeps the raw encoding.
func (r *TaskResult) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	tag, _, err := decodeTagged(data)
	if err != nil {
		return fmt.Errorf("task result: %w", err)
	}
	r.Kind = ResultKind(tag)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

var errNotTagged = errors.New("expected a variant name or a single-key object")

// decodeTagged splits an externally tagged value into its tag and payload.
// Payload is nil for bare-string variants.
func decodeTagged(data []byte) (string, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", nil, errNotTagged
	}

	switch trimmed[0] {
	case '"':
		var tag string
		if err := json.Unmarshal(trimmed, &tag); err != nil {
			return "", nil, err
		}
		if tag == "" {
			return "", nil, errNotTagged
		}
		return tag, nil, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return "", nil, err
		}
		if len(obj) != 1 {
			return "", nil, errNotTagged
		}
		for tag, payload := range obj {
			return tag, payload, nil
		}
	}
	return "", nil, errNotTagged
}

func encodeTagged(tag string, raw json.RawMessage) ([]byte, error) {
	if len(raw) > 0 {
		return raw, nil
	}
	if tag == "" {
		return []byte("null"), nil
	}
	return json.Marshal(tag)
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
