package messagequeue

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errMissingFields = errors.New("repo and commit are required")

// Validate checks whether data is valid JSON conforming to the schema
// associated with the given subject. Unknown subjects only need valid JSON.
func Validate(subject string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON on subject %s", subject)
	}

	switch subject {
	case SubjectVerificationEnqueued:
		var p VerificationEnqueuedPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("schema validation failed for %s: %w", subject, err)
		}
		if p.Repo == "" || p.Commit == "" {
			return fmt.Errorf("schema validation failed for %s: %w", subject, errMissingFields)
		}
	}
	return nil
}
