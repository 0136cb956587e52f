// Package draft implements the submission state machine that carries a
// startup profile from first keystroke to launch: entry resolution against
// existing drafts, debounced autosave bound to a single server row,
// AI-assisted field population with user-mediated conflict resolution, and
// the final publish transition.
//
// One Session governs one editing session for one project row. Sessions are
// single-actor: the HTTP layer serializes commands per session, and the only
// background activity (the debounce timer, the AI retry loop) goes through
// the session's own Clock so tests can drive a virtual one.
package draft
