// Package recurrence implements categorical cross-recurrence quantification
// analysis (CRQA) for two aligned event sequences.
//
// BuildMatrix turns a parent sequence and a child sequence into an immutable
// recurrence Matrix (rows index parent timepoints, columns index child
// timepoints). Compute projects a Matrix onto the standard line-structure
// statistics:
//
//   - RR: percentage of recurrent cells outside the Theiler window
//   - DET, meanL, maxL, NRLINE, ENTR, rENTR: diagonal line structure
//   - LAM, TT, maxV: vertical (and optionally horizontal) line structure
//
// Analyze combines both steps. Statistics that would divide by zero are
// reported as undefined Metric values rather than zero; coalescing undefined
// values is a reporting decision and lives outside this package.
//
// The line of incidence (main diagonal) is always excluded. A Theiler window
// wider than one widens the excluded band symmetrically.
//
// DiagonalProfile computes the diagonal recurrence profile around lag zero,
// which is not subject to the Theiler window.
//
// Everything here is pure: no I/O, no shared state, and identical inputs give
// bit-identical results.
package recurrence
