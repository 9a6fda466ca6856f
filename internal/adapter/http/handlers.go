package http

import (
	"net/http"
	"strconv"

	"github.com/Strob0t/VerifyGate/internal/domain/verification"
	"github.com/Strob0t/VerifyGate/internal/service"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const usage = `
    /status - Get status of all tasks
    /status/<id> - Get status of a task
    /enqueue - Enqueue a task (form fields: repo, commit, optimizer)
`

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Verifications *service.VerificationService
	BodyLimit     int64 // Max request body in bytes; 0 selects 1 MB
}

func (h *Handlers) bodyLimit() int64 {
	if h.BodyLimit > 0 {
		return h.BodyLimit
	}
	return maxRequestBodySize
}

// Root handles GET /
func (h *Handlers) Root(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, []byte(usage))
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListStatus handles GET /status
func (h *Handlers) ListStatus(w http.ResponseWriter, r *http.Request) {
	listing, err := h.Verifications.ListStatus(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "status not found")
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// GetStatus handles GET /status/{id}
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(urlParam(r, "id"), 10, strconv.IntSize-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "task id must be a non-negative integer")
		return
	}

	td, err := h.Verifications.GetStatus(r.Context(), int(id))
	if err != nil {
		writeDomainError(w, r, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, td)
}

// Enqueue handles POST /enqueue
func (h *Handlers) Enqueue(w http.ResponseWriter, r *http.Request) {
	if !readForm(w, r, h.bodyLimit()) {
		return
	}

	req := verification.EnqueueRequest{
		Repo:      r.PostForm.Get("repo"),
		Commit:    r.PostForm.Get("commit"),
		Optimizer: r.PostForm.Get("optimizer"),
	}
	if !requireField(w, req.Repo, "repo") {
		return
	}
	if req.Commit == "" {
		req.Commit = verification.DefaultCommit
	}

	out, err := h.Verifications.Enqueue(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err, "task not found")
		return
	}
	writeText(w, http.StatusOK, out)
}
