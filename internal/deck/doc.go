// Package deck loads presentation documents and splits them into slides.
//
// A slide is a top-level <section> element in the document. The splitter
// preserves each slide's raw source bytes exactly as they appear in the file,
// because the fix generator prescribes exact-substring replacements against
// the original source; a re-serialized DOM would not round-trip attribute
// quoting or whitespace.
//
// Design decision: We use golang.org/x/net/html rather than regex for the
// structural work (splitting, text extraction, image and heading inventory)
// because:
//  1. It correctly handles malformed HTML common in hand-edited decks
//  2. Multi-line tags and unusual attribute order don't evade it
//  3. More maintainable than complex regex patterns
//
// Style-level checks that intentionally operate on raw CSS text live in the
// heuristic package, not here.
package deck
