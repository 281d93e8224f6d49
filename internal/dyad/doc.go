// Package dyad holds the per-conversation input unit and reads it from CSV.
//
// Two long-format layouts are accepted, one row per timepoint:
//
//	dyad_id,parent_code,child_code   (legacy integer channels)
//	dyad_id,speaker,number_talk      (event layout, encoded on load)
//
// An optional turn column orders rows within a dyad; otherwise file order is
// kept. Loading only parses. Coding-scheme checks happen in Validate so the
// caller decides whether to fail fast or report every violation.
package dyad
