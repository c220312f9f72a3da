package jobs

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Kind labels what a job produces.
type Kind string

const (
	KindTranscription Kind = "transcription"
	KindGeneration    Kind = "generation"
)

var (
	// ErrNotFound is returned for unknown job ids.
	ErrNotFound = errors.New("job not found")
	// ErrInvalidState is returned when a result is requested before the job completed.
	ErrInvalidState = errors.New("job is not completed yet")
	// ErrNoResult is returned when a completed job produced no artifact.
	ErrNoResult = errors.New("job has no result")
)

// Outcome is what a RunFunc hands back on success.
type Outcome struct {
	Message string
	Result  any
}

// RunFunc performs the actual work of one job. Progress text flows through
// report; the returned error becomes the job's terminal error message.
type RunFunc func(ctx context.Context, report func(message string)) (Outcome, error)

// Snapshot is a read-only view of one job.
type Snapshot struct {
	Kind    Kind
	Status  Status
	Message string
	Result  any
}

type job struct {
	kind    Kind
	status  Status
	message string
	result  any
}

func (j *job) terminal() bool {
	return j.status == StatusCompleted || j.status == StatusError
}

// Registry owns every job for the lifetime of the process. Jobs are never
// evicted. Exactly one goroutine writes to a job: the worker Submit spawns
// for it. Terminal states are final.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*job
}

// NewRegistry creates an empty job registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*job)}
}

// Submit registers a queued job, spawns its worker goroutine, and returns the
// fresh job id immediately. It never blocks on the work itself.
func (r *Registry) Submit(kind Kind, run RunFunc) string {
	id := uuid.NewString()

	r.mu.Lock()
	r.jobs[id] = &job{
		kind:    kind,
		status:  StatusQueued,
		message: "Job queued for processing",
	}
	r.mu.Unlock()

	go r.execute(id, run)
	return id
}

// Get returns a snapshot of a job's current state.
func (r *Registry) Get(id string) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return Snapshot{Kind: j.kind, Status: j.status, Message: j.message, Result: j.result}, nil
}

// Result returns the artifact of a completed job.
func (r *Registry) Result(id string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if j.status != StatusCompleted {
		return nil, ErrInvalidState
	}
	if j.result == nil {
		return nil, ErrNoResult
	}
	return j.result, nil
}

func (r *Registry) execute(id string, run RunFunc) {
	r.update(id, StatusProcessing, "Job processing started", nil)

	outcome, err := run(context.Background(), func(message string) {
		r.update(id, StatusProcessing, message, nil)
	})
	if err != nil {
		log.Printf("[Jobs] Job %s failed: %v", id, err)
		r.update(id, StatusError, "Error: "+err.Error(), nil)
		return
	}

	message := outcome.Message
	if message == "" {
		message = "Job completed successfully"
	}
	r.update(id, StatusCompleted, message, outcome.Result)
}

// update applies a state write for the owning worker. Writes against a
// terminal job are dropped: completed and error are final.
func (r *Registry) update(id string, status Status, message string, result any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok || j.terminal() {
		return
	}
	j.status = status
	j.message = message
	if result != nil {
		j.result = result
	}
}
