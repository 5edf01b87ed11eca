// Package model defines the core data structures used throughout deckaudit.
//
// This package contains the following main types:
//   - Slide: One navigable unit of a presentation document
//   - Issue: A single detected quality defect scoped to one slide
//   - Analysis: Per-slide category scores and issues
//   - DeckReport: The aggregated audit result for a presentation
//   - Fix: A prescribed mutation intended to resolve one or more issues
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (heuristic, score, fix, report) need to use
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
