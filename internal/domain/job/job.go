// Package job models the external queue daemon's job records and the
// slimmed-down shapes VerifyGate returns to clients.
package job

import "time"

// Task is one job record as reported by the queue daemon. Fields the
// gateway does not expose are ignored when decoding.
type Task struct {
	ID        int        `json:"id"`
	Command   string     `json:"command"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	Start     *time.Time `json:"start"`
	End       *time.Time `json:"end"`
}

// Group is a daemon task group.
type Group struct {
	ParallelTasks int    `json:"parallel_tasks"`
	Status        string `json:"status"`
}

// Snapshot is the output of `status --json`. Task keys are stringified ids.
type Snapshot struct {
	Groups map[string]Group `json:"groups"`
	Tasks  map[string]Task  `json:"tasks"`
}

// TaskLog is one value of the `log <id> --json` mapping.
type TaskLog struct {
	Output string `json:"output"`
	Task   Task   `json:"task"`
}
