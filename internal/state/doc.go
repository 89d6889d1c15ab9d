// Package state holds the authoritative state of the current translation job.
//
// # Overview
//
// The Store is the coordination point between the job session (which
// submits and polls) and the UI (which renders). It owns exactly one Job at
// a time. A new submission replaces the job wholesale via Begin.
//
// # State Machine
//
//	Idle ──Begin──> Submitting ──> Processing ──> Done
//	                    │              ├────────> Error
//	                    └──> Error     └────────> TimedOut
//
// Done, Error and TimedOut are terminal for that job. Only Begin, which
// creates a new job with a new token, leaves a terminal state.
//
// # Stale Callbacks
//
// Every mutating method takes the token handed to Begin. A call whose token
// does not match the current job, or whose edge is not in the table above,
// is a no-op and returns false. This is what makes a status response that
// lands after a timeout, or after the user started another job, harmless:
//
//	store.Expire(tok, msg)           // Processing -> TimedOut, true
//	store.Complete(tok, bubbles)     // TimedOut -> Done not allowed, false
//	store.Begin(tok2, "p2.png", now) // new job
//	store.Fail(tok, kind, msg)       // old token, false
//
// # Snapshots
//
// Snapshot returns a copy with cloned results so renderers can hold on to
// it without locking. Version increases with every applied change, letting
// a renderer skip work when nothing moved.
//
// The zero Store is ready to use and reports Idle.
package state
