// Package heuristic provides the quality rule engine for slide fragments.
//
// # Purpose
//
// This package scans each slide's HTML/CSS source for readability,
// hierarchy, cognitive-load, accessibility, and mobile-responsiveness
// defects and emits Issues consumed by the scorer and the fix generator.
//
// # Design Philosophy
//
// The package follows a modular checker pattern where each class of defect
// is implemented as a separate Checker. This design was chosen because:
//  1. Each check has unique thresholds and matching logic
//  2. Enables selective checking based on configuration
//  3. Makes it easy to add new checks without modifying existing code
//  4. Simplifies testing of individual checkers
//
// Style-level checks (font sizes, spacing, colors, overlays) intentionally
// operate on the slide's raw CSS text: this is a cheap, explainable layer
// that trades recall and precision for zero rendering infrastructure. It
// cannot see inherited or class-sheet styles and is not a rendering-accurate
// auditor. Structure-level checks (alt text, heading order) use the parsed
// slide inventory from the deck package instead, so attribute order and
// multi-line tags cannot evade them.
//
// # Determinism
//
// Every checker is a pure function of the slide fragment and its configured
// thresholds. Re-running analysis on an unchanged slide always produces the
// identical issue list.
package heuristic
