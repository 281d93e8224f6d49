// Package report turns stored dyad results into tables, CSV exports, and
// recurrence plots.
//
// The engine reports undefined statistics as NA. Downstream statistical
// software often expects numbers in every cell, so exports may coalesce NA to
// 0 (Policy.CoalesceNA). That substitution happens here and nowhere else: the
// engine and the results database always keep NA distinct from zero.
package report
