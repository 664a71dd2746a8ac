// Package diag defines the diagnostic model shared by the frontend, the
// analyzer and the output formatters.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string ID,
//     a title and a category; together they form the diagnostic descriptor.
//   - Message – the text reported by the frontend.
//   - Primary span – the source.Span inside the analyzed prefix.
//   - Notes – optional secondary spans/messages.
//
// SuppressionInfo describes why a diagnostic is silenced for one compilation.
// Suppression never removes a diagnostic: consumers receive the record and
// decide what to show.
//
// # Emitting diagnostics
//
// Producers report through a Reporter. BagReporter collects into a Bag that
// honours a size limit; DedupReporter drops exact repeats, which go/types
// emits for some cascaded errors.
//
// Package diag does not perform formatting or IO beyond the short single-line
// form in golden.go. Rendering lives in internal/diagfmt.
package diag
