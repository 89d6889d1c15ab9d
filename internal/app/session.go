package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/balloon/internal/endpoint"
	"github.com/five82/balloon/internal/state"
	"github.com/five82/balloon/internal/translator"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultJobTimeout   = 60 * time.Second
)

var (
	// ErrSessionClosed is returned by Submit after Close.
	ErrSessionClosed = errors.New("session closed")
	// ErrSuperseded is returned by Submit when a newer submission replaced
	// the job before it reached Processing.
	ErrSuperseded = errors.New("job superseded by a newer submission")

	errJobFinished = errors.New("job finished")
)

// SessionOptions configure a Session.
type SessionOptions struct {
	Service      translator.Service
	Store        *state.Store
	Logger       *slog.Logger
	PollInterval time.Duration // zero uses 2s
	Timeout      time.Duration // zero uses 60s
}

// Session runs at most one translation job at a time: it submits the
// upload, polls for the result and enforces the deadline. Every state
// change goes through the Store.
type Session struct {
	service  translator.Service
	store    *state.Store
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration
	clock    clock
	newToken func() string

	// submitMu serializes the stop-previous/begin-next handoff.
	submitMu sync.Mutex

	mu     sync.Mutex
	active *activeJob
	closed bool
}

// activeJob is the per-submission handle used to cancel a job and wait for
// its goroutine to finish. The deadline is armed when the job begins, so the
// upload counts against the job timeout.
type activeJob struct {
	token    string
	filename string
	ctx      context.Context
	cancel   context.CancelCauseFunc
	deadline timer
	done     chan struct{}
}

// stop cancels the job and blocks until everything it started has returned.
func (j *activeJob) stop(cause error) {
	j.cancel(cause)
	<-j.done
}

// finish releases the job context and unblocks stop and Wait. It is called
// exactly once, by whichever path ends the job.
func (j *activeJob) finish() {
	j.deadline.Stop()
	j.cancel(errJobFinished)
	close(j.done)
}

func (j *activeJob) running() bool {
	select {
	case <-j.done:
		return false
	default:
		return true
	}
}

// NewSession builds a Session around opts.Service.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Service == nil {
		return nil, fmt.Errorf("session requires a translation service")
	}
	store := opts.Store
	if store == nil {
		store = state.NewStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	return &Session{
		service:  opts.Service,
		store:    store,
		logger:   logger,
		interval: interval,
		timeout:  timeout,
		clock:    realClock{},
		newToken: uuid.NewString,
	}, nil
}

// Store returns the store the session writes to.
func (s *Session) Store() *state.Store {
	return s.store
}

// Submit starts a new job, superseding any job already running. The
// previous job's timers and requests are stopped before the new job
// exists. rawEndpoint is resolved once here; the poll loop keeps using that
// resolution even if the caller's endpoint value changes later.
//
// An empty upload is rejected before any job is created.
//
// Submit blocks for the upload only. It returns the job token once the job
// is Processing, or the upload error after recording it in the Store. ctx
// bounds the whole job, including polling. The job timeout starts before the
// upload; a job whose upload used up the whole timeout times out as soon as
// it reaches Processing.
func (s *Session) Submit(ctx context.Context, rawEndpoint string, upload translator.Upload) (string, error) {
	if len(upload.Content) == 0 || strings.TrimSpace(upload.Filename) == "" {
		return "", translator.ErrEmptyUpload
	}
	eps := endpoint.Resolve(rawEndpoint)

	s.submitMu.Lock()
	job, err := s.begin(ctx, upload.Filename)
	s.submitMu.Unlock()
	if err != nil {
		return "", err
	}

	s.logger.Info("job submitted",
		"token", job.token,
		"file", upload.Filename,
		"bytes", len(upload.Content),
		"url", eps.SubmissionURL,
	)

	taskID, err := s.service.Submit(job.ctx, eps.SubmissionURL, upload)
	if err != nil {
		defer job.finish()
		switch cause := context.Cause(job.ctx); {
		case errors.Is(cause, ErrSuperseded), errors.Is(cause, ErrSessionClosed):
			s.logger.Info("job cancelled during upload", "token", job.token, "reason", cause)
			return job.token, cause
		}
		s.fail(job, "", err)
		return job.token, fmt.Errorf("submit job: %w", err)
	}

	if !s.store.MarkProcessing(job.token, taskID) {
		job.finish()
		return job.token, ErrSuperseded
	}
	s.logger.Info("job processing", "token", job.token, "task_id", taskID)

	go s.poll(job, eps, taskID)
	return job.token, nil
}

// Wait blocks until the current job stops running or ctx is done, and
// returns the final snapshot.
func (s *Session) Wait(ctx context.Context) (state.Snapshot, error) {
	s.mu.Lock()
	job := s.active
	s.mu.Unlock()
	if job == nil {
		return s.store.Snapshot(), nil
	}
	select {
	case <-job.done:
		return s.store.Snapshot(), nil
	case <-ctx.Done():
		return s.store.Snapshot(), ctx.Err()
	}
}

// Close cancels the running job, waits for its loop to exit and resets the
// store. Later Submit calls fail with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	prev := s.active
	s.active = nil
	s.mu.Unlock()

	if prev != nil {
		prev.stop(ErrSessionClosed)
	}
	s.store.Reset()
}

func (s *Session) begin(ctx context.Context, filename string) (*activeJob, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	prev := s.active
	s.active = nil
	s.mu.Unlock()

	if prev != nil {
		wasRunning := prev.running()
		prev.stop(ErrSuperseded)
		if wasRunning {
			s.logger.Info("job superseded", "token", prev.token, "file", prev.filename)
		}
	}

	jobCtx, cancel := context.WithCancelCause(ctx)
	job := &activeJob{
		token:    s.newToken(),
		filename: filename,
		ctx:      jobCtx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		cancel(ErrSessionClosed)
		return nil, ErrSessionClosed
	}
	job.deadline = s.clock.NewTimer(s.timeout)
	s.active = job
	s.store.Begin(job.token, filename, s.clock.Now())
	return job, nil
}

// fail records err against job. remote carries the server message for
// KindRemote failures.
func (s *Session) fail(job *activeJob, remote string, err error) {
	kind := translator.KindOf(err)
	if err == nil {
		kind = translator.KindRemote
	}
	msg := translator.UserMessage(kind, strings.TrimSpace(remote))
	if !s.store.Fail(job.token, kind, msg) {
		return
	}
	attrs := []any{"token", job.token, "kind", kind.String(), "message", msg}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	s.logger.Warn("job failed", attrs...)
}
