// Package export renders the rolling window for downstream consumers.
//
// Two formats are supported: a structured markdown document meant to be
// fed to AI tools as analysis context (breaking changes first, then
// records grouped by primary category), and a stable indented JSON
// payload of the full window for programmatic consumers.
package export
