package messagequeue

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		data    string
		wantErr bool
	}{
		{"valid enqueued", SubjectVerificationEnqueued, `{"repo":"git@h:x.git","commit":"HEAD","output":"3","enqueued_at":"2024-05-01T10:00:00Z"}`, false},
		{"missing commit", SubjectVerificationEnqueued, `{"repo":"git@h:x.git"}`, true},
		{"wrong type", SubjectVerificationEnqueued, `{"repo":1,"commit":"HEAD"}`, true},
		{"not json", SubjectVerificationEnqueued, `{`, true},
		{"unknown subject any json", "verifications.other", `[1,2]`, false},
		{"unknown subject invalid json", "verifications.other", `nope`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.subject, []byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
