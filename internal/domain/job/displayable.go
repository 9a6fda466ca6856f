package job

import (
	"cmp"
	"slices"
	"time"
)

// TaskDisplayable is the public projection of a Task. Output is set only
// for the single-task view.
type TaskDisplayable struct {
	ID        int        `json:"id"`
	Command   string     `json:"command"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	Start     *time.Time `json:"start"`
	End       *time.Time `json:"end"`
	Output    *string    `json:"output"`
}

// StatusDisplayable is the listing returned by GET /status.
type StatusDisplayable struct {
	Tasks []TaskDisplayable `json:"tasks"`
}

// Project copies the exposed fields of t and attaches output.
func Project(t Task, output *string) TaskDisplayable {
	return TaskDisplayable{
		ID:        t.ID,
		Command:   t.Command,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		Start:     t.Start,
		End:       t.End,
		Output:    output,
	}
}

// Detail projects a log entry, carrying its captured output.
func Detail(l TaskLog) TaskDisplayable {
	out := l.Output
	return Project(l.Task, &out)
}

// BuildListing projects every task without output, ordered by id. Map
// iteration order is irrelevant.
func BuildListing(tasks map[string]Task) StatusDisplayable {
	list := make([]TaskDisplayable, 0, len(tasks))
	for _, t := range tasks {
		list = append(list, Project(t, nil))
	}
	slices.SortFunc(list, func(a, b TaskDisplayable) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return StatusDisplayable{Tasks: list}
}
