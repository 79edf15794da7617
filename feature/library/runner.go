package library

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"psn-value/core/reconcile"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// JobKind selects the work a run performs.
type JobKind string

const (
	// JobSync reconciles the storefront catalog into the library.
	JobSync JobKind = "sync"
	// JobWeights recomputes weighted ratings and values.
	JobWeights JobKind = "weights"
	// JobThumbnails refreshes stored thumbnails.
	JobThumbnails JobKind = "thumbnails"
)

// ParseJobKind validates a job kind name.
func ParseJobKind(s string) (JobKind, error) {
	// Return the constants so callers never keep a reference to s.
	switch JobKind(s) {
	case JobSync:
		return JobSync, nil
	case JobWeights:
		return JobWeights, nil
	case JobThumbnails:
		return JobThumbnails, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownJobKind, s)
	}
}

// JobState is the lifecycle state of a job.
type JobState string

const (
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
)

// JobStatus describes a job started by the Runner.
type JobStatus struct {
	ID         string     `json:"id"`
	LibraryID  uint       `json:"library_id"`
	Kind       JobKind    `json:"kind"`
	State      JobState   `json:"state"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
	// Summary is a *reconcile.RunSummary or *reconcile.MaintenanceSummary.
	Summary any `json:"summary,omitempty"`
}

// JobEngine is the work the Runner schedules.
type JobEngine interface {
	Run(ctx context.Context, libraryID uint) (*reconcile.RunSummary, error)
	RecomputeWeights(ctx context.Context, libraryID uint) (*reconcile.MaintenanceSummary, error)
	RefreshThumbnails(ctx context.Context, libraryID uint) (*reconcile.MaintenanceSummary, error)
}

// LibraryLookup resolves library ids before a job is accepted.
type LibraryLookup interface {
	Library(ctx context.Context, libraryID uint) (*reconcile.LibraryInfo, error)
}

// Runner starts jobs and allows at most one in-flight job per library.
// With a lock directory the limit also holds across processes.
type Runner struct {
	engine  JobEngine
	lookup  LibraryLookup
	logger  *zap.Logger
	lookups singleflight.Group
	lockDir string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inFlight map[uint]*JobStatus
	latest   map[uint]*JobStatus
	locks    map[uint]*flock.Flock
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLockDir makes every job hold a per-library file lock in dir, so
// runners of different processes sharing dir exclude each other.
func WithLockDir(dir string) RunnerOption {
	return func(r *Runner) { r.lockDir = dir }
}

// LockPath returns the lock file of a library inside dir.
func LockPath(dir string, libraryID uint) string {
	return filepath.Join(dir, fmt.Sprintf("psn-value-library-%d.lock", libraryID))
}

// NewRunner creates a Runner. Jobs started by Trigger run until they finish
// or Shutdown is called.
func NewRunner(engine JobEngine, lookup LibraryLookup, logger *zap.Logger, opts ...RunnerOption) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		engine:   engine,
		lookup:   lookup,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		inFlight: make(map[uint]*JobStatus),
		latest:   make(map[uint]*JobStatus),
		locks:    make(map[uint]*flock.Flock),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Trigger starts a job in the background and returns its initial status.
// It fails with ErrRunInFlight while another job holds the library.
func (r *Runner) Trigger(ctx context.Context, libraryID uint, kind JobKind) (JobStatus, error) {
	status, err := r.begin(ctx, libraryID, kind)
	if err != nil {
		return JobStatus{}, err
	}
	snapshot := *status

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.execute(r.ctx, status)
	}()
	return snapshot, nil
}

// Execute runs a job to completion on the calling goroutine.
func (r *Runner) Execute(ctx context.Context, libraryID uint, kind JobKind) (JobStatus, error) {
	status, err := r.begin(ctx, libraryID, kind)
	if err != nil {
		return JobStatus{}, err
	}
	r.execute(ctx, status)

	r.mu.Lock()
	defer r.mu.Unlock()
	final := *status
	if final.State == JobFailed {
		return final, errors.New(final.Error)
	}
	return final, nil
}

// Status returns the most recent job of a library.
func (r *Runner) Status(libraryID uint) (JobStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.latest[libraryID]
	if !ok {
		return JobStatus{}, false
	}
	return *s, true
}

// Shutdown cancels running jobs and waits for them to stop.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.cancel()
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) begin(ctx context.Context, libraryID uint, kind JobKind) (*JobStatus, error) {
	kind, err := ParseJobKind(string(kind))
	if err != nil {
		return nil, err
	}

	// Concurrent triggers for one library share a single lookup.
	_, err, _ = r.lookups.Do(strconv.FormatUint(uint64(libraryID), 10), func() (any, error) {
		return r.lookup.Library(ctx, libraryID)
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inFlight[libraryID]; busy {
		return nil, ErrRunInFlight
	}
	if r.lockDir != "" {
		lock := flock.New(LockPath(r.lockDir, libraryID))
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire library lock: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("%w (lock %s)", ErrRunInFlight, lock.Path())
		}
		r.locks[libraryID] = lock
	}

	status := &JobStatus{
		ID:        uuid.NewString(),
		LibraryID: libraryID,
		Kind:      kind,
		State:     JobRunning,
		StartedAt: time.Now(),
	}
	r.inFlight[libraryID] = status
	r.latest[libraryID] = status
	return status, nil
}

func (r *Runner) execute(ctx context.Context, status *JobStatus) {
	l := r.logger.With(
		zap.String("job_id", status.ID),
		zap.Uint("library_id", status.LibraryID),
		zap.String("kind", string(status.Kind)),
	)
	l.Info("Job started")

	var (
		summary any
		err     error
	)
	switch status.Kind {
	case JobSync:
		var s *reconcile.RunSummary
		if s, err = r.engine.Run(ctx, status.LibraryID); s != nil {
			summary = s
		}
	case JobWeights:
		var s *reconcile.MaintenanceSummary
		if s, err = r.engine.RecomputeWeights(ctx, status.LibraryID); s != nil {
			summary = s
		}
	case JobThumbnails:
		var s *reconcile.MaintenanceSummary
		if s, err = r.engine.RefreshThumbnails(ctx, status.LibraryID); s != nil {
			summary = s
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	finished := time.Now()
	status.FinishedAt = &finished
	status.Summary = summary
	if err != nil {
		status.State = JobFailed
		status.Error = err.Error()
		l.Error("Job failed", zap.Error(err))
	} else {
		status.State = JobSucceeded
		l.Info("Job finished", zap.Duration("elapsed", finished.Sub(status.StartedAt)))
	}
	delete(r.inFlight, status.LibraryID)
	if lock, ok := r.locks[status.LibraryID]; ok {
		if err := lock.Unlock(); err != nil {
			l.Warn("Failed to release library lock", zap.Error(err))
		}
		delete(r.locks, status.LibraryID)
	}
}
