// Package diag defines the diagnostic model shared by every phase of the meta
// program.
//
// A phase never prints. It reports a Diagnostic through a Reporter; the driver
// collects them in a Bag and, because the meta program has no partial success,
// stops at the first error. The CLI renders the collected diagnostics through
// internal/diagfmt.
//
// Each Diagnostic carries a Code (grouped by phase, see codes.go), a Severity,
// a short Message, the logical Path and Line it refers to, and optionally the
// primary source.Span for tools that want byte offsets.
package diag
