// Package resolve maps presentation targets to audit inputs.
//
// A target can be a filesystem path, an http(s) URL, or a "weekN lessonM"
// shorthand resolved against the course-content directory convention. The
// lesson-name table is injected configuration rather than package state, so
// tests and multi-course setups can run with different tables without
// cross-contamination.
package resolve
