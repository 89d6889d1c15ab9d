// Package ui provides balloon's Bubble Tea terminal interface.
//
// # Layout
//
// The screen has a header with the current job state badge and resolved
// submission URL, two input fields (endpoint and image path), a status line
// and a scrollable results pane listing each translated speech bubble with
// its confidence.
//
// # Data Flow
//
// The UI never talks to the translation service directly for jobs. Pressing
// enter reads the image and hands it to a Jobs implementation (the app
// session), which uploads, polls and writes every transition to a
// state.Store. The model re-reads the store on a short tick and redraws
// when the snapshot version changes:
//
//	enter ──> submitCmd ──> Jobs.Submit ──> state.Store <── poll loop
//	tick  ──> fetchSnapshotCmd ──> snapshotMsg ──> View
//
// # Keys
//
// While an input has focus, keys go to the input except enter, tab,
// shift+tab, esc and ctrl+c. With focus on the results pane, single-letter
// bindings apply: H checks the service health endpoint, T cycles the theme,
// ? toggles full help and q quits. Theme and endpoint are saved to the
// prefs file.
package ui
