// Package app runs translation jobs and wires balloon together.
//
// # Overview
//
// Session owns the lifecycle of the single current job: upload, status
// polling, deadline and supersession. Bootstrap is the composition root
// that loads configuration, builds the logger, the HTTP client and the
// session; Run starts the TUI on top of them.
//
// # Components
//
//   - app.go: Options, Bootstrap, Runtime and the TUI Run function
//   - session.go: Submit, Wait and Close; job handles and supersession
//   - poller.go: the per-job poll loop with its ticker and deadline timer
//   - clock.go: the timer source, replaceable in tests
//
// # Job Flow
//
//	Submit()
//	  ├─> endpoint.Resolve()          pins the URLs for this job
//	  ├─> stop previous job           cancel + wait for its goroutine
//	  ├─> store.Begin()               Submitting, deadline armed
//	  ├─> service.Submit()            multipart upload
//	  │     └─ error ──> store.Fail() Error, no polling
//	  ├─> store.MarkProcessing()      Processing
//	  └─> go poll()
//	        ├─ deadline already spent ──> store.Expire()
//	        ├─ query immediately, then once per tick
//	        ├─ done       ──> store.Complete()
//	        ├─ error      ──> store.Fail()
//	        ├─ query fail ──> store.Fail()
//	        └─ deadline   ──> store.Expire()
//
// The ticker and the deadline are always stopped before a terminal state is
// written. At most one status query is in flight; a tick that arrives while
// one is outstanding is skipped.
//
// # Supersession
//
// A new Submit cancels the running job with ErrSuperseded as the cause and
// waits for its goroutine to return before the new job is created, so at
// most one poll loop exists at any time. Store transitions are keyed by a
// per-job token, which makes a late response from a replaced job a no-op.
//
// # Timing
//
// The poll interval (default 2s) and job timeout (default 60s) come from
// config. The timeout is measured from submission, so the upload counts
// against it. A job never times out while Submitting: if the upload used up
// the timeout, the job expires as soon as it reaches Processing.
package app
