// Package verification holds the enqueue request and its validation rules.
package verification

// DefaultCommit is used when a client does not send a commit.
const DefaultCommit = "HEAD"

// EnqueueRequest is a client request to verify a contract at repo@commit.
type EnqueueRequest struct {
	Repo      string `json:"repo"`
	Commit    string `json:"commit"`
	Optimizer string `json:"optimizer,omitempty"` // empty means not requested
}

// HasOptimizer reports whether a specific optimizer version was requested.
func (r EnqueueRequest) HasOptimizer() bool {
	return r.Optimizer != ""
}

// Validate checks repo, commit and, when present, optimizer. The first
// failing rule is returned.
func (r EnqueueRequest) Validate() error {
	if err := ValidateRepo(r.Repo); err != nil {
		return err
	}
	if err := ValidateCommit(r.Commit); err != nil {
		return err
	}
	if r.HasOptimizer() {
		if err := ValidateOptimizer(r.Optimizer); err != nil {
			return err
		}
	}
	return nil
}
