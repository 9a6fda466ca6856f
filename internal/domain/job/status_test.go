package job

import (
	"encoding/json"
	"testing"
)

func TestTaskStatusRoundTripKeepsEncoding(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind StatusKind
	}{
		{"queued", `"Queued"`, StatusQueued},
		{"running", `"Running"`, StatusRunning},
		{"paused", `"Paused"`, StatusPaused},
		{"locked", `"Locked"`, StatusLocked},
		{"stashed", `{"Stashed":{"enqueue_at":null}}`, StatusStashed},
		{"done success", `{"Done":"Success"}`, StatusDone},
		{"done failed", `{"Done":{"Failed":2}}`, StatusDone},
		{"done with extra fields", `{"Done":{"result":"Success","start":"2024-05-01T10:00:00+02:00"}}`, StatusDone},
		{"unknown variant", `{"Archived":{"reason":"old"}}`, StatusKind("Archived")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s TaskStatus
			if err := json.Unmarshal([]byte(tt.in), &s); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if s.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", s.Kind, tt.kind)
			}
			out, err := json.Marshal(s)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(out) != tt.in {
				t.Errorf("round trip = %s, want %s", out, tt.in)
			}
		})
	}
}

func TestTaskStatusRejectsMalformed(t *testing.T) {
	for _, in := range []string{`42`, `""`, `{}`, `{"Done":"Success","Running":null}`, `[]`} {
		var s TaskStatus
		if err := json.Unmarshal([]byte(in), &s); err == nil {
			t.Errorf("Unmarshal(%s) succeeded, want error", in)
		}
	}
}

func TestTaskStatusKnown(t *testing.T) {
	if !NewStatus(StatusRunning).Known() {
		t.Error("Running should be known")
	}
	if (TaskStatus{Kind: "Archived"}).Known() {
		t.Error("Archived should not be known")
	}
}

func TestNewStatusMarshalsBareTag(t *testing.T) {
	out, err := json.Marshal(NewStatus(StatusQueued))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"Queued"` {
		t.Errorf("got %s", out)
	}
}

func TestTaskStatusEnqueueAt(t *testing.T) {
	var s TaskStatus
	if err := json.Unmarshal([]byte(`{"Stashed":{"enqueue_at":"2024-05-01T10:00:00+02:00"}}`), &s); err != nil {
		t.Fatal(err)
	}
	at, ok := s.EnqueueAt()
	if !ok {
		t.Fatal("expected stashed status")
	}
	if at == nil || at.UTC().Hour() != 8 {
		t.Errorf("EnqueueAt = %v, want 08:00 UTC", at)
	}

	if _, ok := NewStatus(StatusRunning).EnqueueAt(); ok {
		t.Error("EnqueueAt should report false for Running")
	}
}

func TestTaskStatusResult(t *testing.T) {
	tests := []struct {
		in       string
		kind     ResultKind
		exitCode int
		hasCode  bool
		message  string
	}{
		{in: `{"Done":"Success"}`, kind: ResultSuccess},
		{in: `{"Done":{"Failed":3}}`, kind: ResultFailed, exitCode: 3, hasCode: true},
		{in: `{"Done":{"FailedToSpawn":"no such file"}}`, kind: ResultFailedToSpawn, message: "no such file"},
		{in: `{"Done":"Killed"}`, kind: ResultKilled},
		{in: `{"Done":"DependencyFailed"}`, kind: ResultDependencyFailed},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			var s TaskStatus
			if err := json.Unmarshal([]byte(tt.in), &s); err != nil {
				t.Fatal(err)
			}
			r, ok := s.Result()
			if !ok {
				t.Fatal("expected a result")
			}
			if r.Kind != tt.kind || !r.Known() {
				t.Errorf("Kind = %q, want known %q", r.Kind, tt.kind)
			}
			code, hasCode := r.ExitCode()
			if hasCode != tt.hasCode || code != tt.exitCode {
				t.Errorf("ExitCode = (%d, %v), want (%d, %v)", code, hasCode, tt.exitCode, tt.hasCode)
			}
			if msg, _ := r.Message(); msg != tt.message {
				t.Errorf("Message = %q, want %q", msg, tt.message)
			}
		})
	}

	if _, ok := NewStatus(StatusQueued).Result(); ok {
		t.Error("Result should report false for Queued")
	}
}
