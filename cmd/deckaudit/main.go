// Package main provides the entry point for the deckaudit CLI.
//
// deckaudit analyzes HTML slide presentations for quality defects:
// unreadable text, broken contrast, overflowing layouts, accessibility
// gaps, and cognitive overload. It scores every slide, generates fixes
// for mechanical defects, and can apply them iteratively until the deck
// reaches a target score.
//
// Usage:
//
//	deckaudit scan <presentation.html>
//	deckaudit fix --target 90 <presentation.html>
//
// See --help for all available options.
package main

// main is the entry point for deckaudit.
func main() {
	Execute()
}
