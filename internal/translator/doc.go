// Package translator provides an HTTP client for the remote speech-bubble
// translation service.
//
// # Endpoints
//
//   - POST {submission URL}: multipart upload with one "file" field,
//     answered with {"task_id": "..."} (the service uses 202 Accepted)
//   - GET {poll base}/result?id={task_id}: {"status": "processing"|"done"|"error",
//     "bubbles": [...], "error": "..."}
//   - GET {poll base}/health: {"status": "ok"}
//
// URLs are built by package endpoint; the client only issues requests.
//
// # Error Handling
//
// Every request failure is an *Error carrying a Kind:
//
//   - KindNetwork: dial/transport failures and any non-2xx status
//   - KindProtocol: 2xx with a body that is not JSON, or that lacks
//     task_id (submit) or status (poll)
//
// KindRemote and KindTimeout are never produced by the client. They are
// assigned by the job session when the service reports "error" or when the
// deadline expires, and share the same Kind type so the UI has a single
// taxonomy. UserMessage maps a Kind to the text shown to the user.
//
// Example error messages:
//   - "submit: execute request: dial tcp: connection refused"
//   - "poll: api /result returned status 404: Task not found"
//   - "poll: decode response: invalid character 'o' in literal null"
//
// # Design Rationale
//
//   - No retries (a failed attempt ends the job; the user resubmits)
//   - No caching (the session decides the polling cadence)
//   - Whole responses are read before decoding so a truncated body is a
//     protocol error rather than a half-filled struct
package translator
