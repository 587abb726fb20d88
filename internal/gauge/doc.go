// Package gauge decodes the report's encoded progress indicator tokens.
//
// The source encodes a server's progress bar as a CSS-like class token drawn
// from a small closed vocabulary: "bar--step-0" through "bar--step-7" (eight
// discrete fill steps) and "bar--max" (full). The token is parsed once, at
// the extractor boundary, into a tagged Level value so downstream code never
// re-parses strings.
//
// Decoding is total: every string input maps to a Level, and unrecognized or
// absent tokens decode to a zero fraction.
package gauge
