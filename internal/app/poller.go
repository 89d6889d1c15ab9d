package app

import (
	"context"
	"errors"

	"github.com/five82/balloon/internal/endpoint"
	"github.com/five82/balloon/internal/translator"
)

type pollResult struct {
	res translator.ResultResponse
	err error
}

// jobTimers are the two timers owned by one poll loop plus the context of
// the in-flight status query.
type jobTimers struct {
	ticker      ticker
	deadline    timer
	cancelQuery context.CancelFunc
}

// stop releases every timer and aborts the in-flight query. Safe to call
// more than once.
func (t jobTimers) stop() {
	t.ticker.Stop()
	t.deadline.Stop()
	t.cancelQuery()
}

// poll drives a Processing job to a terminal state. The first status query
// is issued immediately, then one per tick. At most one query is in flight;
// a tick that arrives while one is outstanding is skipped. Timers are always
// stopped before the terminal transition is written.
func (s *Session) poll(job *activeJob, eps endpoint.Endpoints, taskID string) {
	defer job.finish()

	// The deadline may have fired while the upload was in flight.
	select {
	case <-job.deadline.C():
		s.expire(job, taskID)
		return
	default:
	}

	queryCtx, cancelQuery := context.WithCancel(job.ctx)
	timers := jobTimers{
		ticker:      s.clock.NewTicker(s.interval),
		deadline:    job.deadline,
		cancelQuery: cancelQuery,
	}
	defer timers.stop()

	resultURL := eps.ResultURL(taskID)
	// Buffered so a query finishing after the loop returned never blocks.
	results := make(chan pollResult, 1)
	inFlight := false
	query := func() {
		inFlight = true
		go func() {
			res, err := s.service.FetchResult(queryCtx, resultURL)
			results <- pollResult{res: res, err: err}
		}()
	}

	query()
	for {
		select {
		case <-job.ctx.Done():
			return

		case <-timers.deadline.C():
			timers.stop()
			s.expire(job, taskID)
			return

		case <-timers.ticker.C():
			if inFlight {
				s.logger.Debug("status query still in flight, skipping tick", "token", job.token)
				continue
			}
			query()

		case r := <-results:
			inFlight = false
			if s.handleResult(job, taskID, r, timers) {
				return
			}
		}
	}
}

func (s *Session) expire(job *activeJob, taskID string) {
	if s.store.Expire(job.token, translator.MessageTimedOut) {
		s.logger.Warn("job timed out", "token", job.token, "task_id", taskID, "timeout", s.timeout)
	}
}

// handleResult applies one status response. It reports whether the job
// reached a terminal state.
func (s *Session) handleResult(job *activeJob, taskID string, r pollResult, timers jobTimers) bool {
	if r.err != nil {
		if job.ctx.Err() != nil && errors.Is(r.err, context.Canceled) {
			return true
		}
		timers.stop()
		s.fail(job, "", r.err)
		return true
	}

	switch {
	case r.res.IsDone():
		timers.stop()
		if s.store.Complete(job.token, r.res.Bubbles) {
			s.logger.Info("job done", "token", job.token, "task_id", taskID, "bubbles", len(r.res.Bubbles))
		}
		return true

	case r.res.IsFailed():
		timers.stop()
		s.fail(job, r.res.Error, nil)
		return true

	default:
		if s.store.RecordPoll(job.token) {
			s.logger.Debug("job still processing", "token", job.token, "task_id", taskID, "status", r.res.NormalizedStatus())
		}
		return false
	}
}
