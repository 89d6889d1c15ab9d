package state

import (
	"sync"
	"time"

	"github.com/five82/balloon/internal/translator"
)

// JobState is the lifecycle position of a job.
type JobState string

const (
	Idle       JobState = "idle"
	Submitting JobState = "submitting"
	Processing JobState = "processing"
	Done       JobState = "done"
	Error      JobState = "error"
	TimedOut   JobState = "timed_out"
)

// Terminal reports whether s ends a job.
func (s JobState) Terminal() bool {
	switch s {
	case Done, Error, TimedOut:
		return true
	default:
		return false
	}
}

// Active reports whether a job in state s still has work outstanding.
func (s JobState) Active() bool {
	return s == Submitting || s == Processing
}

// Job is one submitted translation request.
type Job struct {
	Token        string // local session token, unique per submission
	ID           string // task id assigned by the service
	Filename     string
	SubmittedAt  time.Time
	UpdatedAt    time.Time
	State        JobState
	Results      []translator.Bubble
	ErrorKind    translator.Kind
	ErrorMessage string
	Polls        int
}

// Snapshot is a copy of the current job handed to renderers.
type Snapshot struct {
	Job     Job
	Version uint64 // incremented on every applied change
}

// HasJob reports whether any job was ever started.
func (s Snapshot) HasJob() bool {
	return s.Job.State != Idle
}

// Store holds the single current job. All transitions are keyed by the job
// token so callbacks belonging to a superseded job are ignored.
type Store struct {
	mu      sync.RWMutex
	job     Job
	version uint64
}

// NewStore returns a Store in the Idle state. The zero Store is also usable.
func NewStore() *Store {
	return &Store{job: Job{State: Idle}}
}

// Begin replaces whatever job was current with a new one in Submitting.
func (s *Store) Begin(token, filename string, submittedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.job = Job{
		Token:       token,
		Filename:    filename,
		SubmittedAt: submittedAt,
		UpdatedAt:   submittedAt,
		State:       Submitting,
	}
	s.version++
}

// MarkProcessing records the service task id and moves Submitting to Processing.
func (s *Store) MarkProcessing(token, taskID string) bool {
	return s.apply(token, Processing, func(j *Job) {
		j.ID = taskID
	})
}

// RecordPoll counts a non-terminal status query for a Processing job.
func (s *Store) RecordPoll(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job.Token != token || s.job.State != Processing {
		return false
	}
	s.job.Polls++
	s.job.UpdatedAt = time.Now()
	s.version++
	return true
}

// Complete stores the results and moves the job to Done.
func (s *Store) Complete(token string, bubbles []translator.Bubble) bool {
	return s.apply(token, Done, func(j *Job) {
		j.Polls++
		j.Results = translator.CloneBubbles(bubbles)
		if j.Results == nil {
			j.Results = []translator.Bubble{}
		}
	})
}

// Fail moves the job to Error with the given classification and message.
func (s *Store) Fail(token string, kind translator.Kind, message string) bool {
	return s.apply(token, Error, func(j *Job) {
		j.ErrorKind = kind
		j.ErrorMessage = message
	})
}

// Expire moves a Processing job to TimedOut.
func (s *Store) Expire(token, message string) bool {
	return s.apply(token, TimedOut, func(j *Job) {
		j.ErrorKind = translator.KindTimeout
		j.ErrorMessage = message
	})
}

// Reset returns the store to Idle, dropping the current job.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.job = Job{State: Idle}
	s.version++
}

// Snapshot returns a copy of the current job.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job := s.job
	if job.State == "" {
		job.State = Idle
	}
	if s.job.Results != nil {
		job.Results = translator.CloneBubbles(s.job.Results)
		if job.Results == nil {
			job.Results = []translator.Bubble{}
		}
	}
	return Snapshot{Job: job, Version: s.version}
}

func (s *Store) apply(token string, to JobState, mutate func(*Job)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" || s.job.Token != token {
		return false
	}
	if !CanTransition(s.job.State, to) {
		return false
	}
	mutate(&s.job)
	s.job.State = to
	s.job.UpdatedAt = time.Now()
	s.version++
	return true
}

// CanTransition enforces the job state machine edges. Entering Submitting
// is only possible through Begin, which creates a new job.
func CanTransition(from, to JobState) bool {
	switch from {
	case Submitting:
		return to == Processing || to == Error
	case Processing:
		return to == Done || to == Error || to == TimedOut
	default:
		return false
	}
}
