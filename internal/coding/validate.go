package coding

import (
	"fmt"
	"strings"
)

// Violation is one timepoint whose code pair breaks the coding scheme.
type Violation struct {
	Index      int    `json:"index"`
	ParentCode int    `json:"parent_code"`
	ChildCode  int    `json:"child_code"`
	Reason     string `json:"reason"`
}

func (v Violation) String() string {
	return fmt.Sprintf("timepoint %d: %s", v.Index, v.Reason)
}

// Check returns every violation in the aligned channels. Timepoints beyond the
// shorter channel are not inspected; length mismatches are the caller's
// structural check.
func Check(parent, child []int) []Violation {
	n := min(len(parent), len(child))
	var out []Violation
	for i := 0; i < n; i++ {
		if reason := pairProblem(parent[i], child[i]); reason != "" {
			out = append(out, Violation{Index: i, ParentCode: parent[i], ChildCode: child[i], Reason: reason})
		}
	}
	return out
}

// ValidationError carries all violations found for one dyad.
type ValidationError struct {
	DyadID     string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "coding violation"
	}
	var b strings.Builder
	if e.DyadID != "" {
		fmt.Fprintf(&b, "dyad %s: ", e.DyadID)
	}
	fmt.Fprintf(&b, "%d invalid timepoint", len(e.Violations))
	if len(e.Violations) != 1 {
		b.WriteString("s")
	}
	fmt.Fprintf(&b, " (first: %s)", e.Violations[0])
	return b.String()
}

// ErrorKind classifies the error for reporting.
func (e *ValidationError) ErrorKind() string {
	return "validation"
}

// Validate wraps Check into an error for callers that fail fast.
func Validate(dyadID string, parent, child []int) error {
	violations := Check(parent, child)
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{DyadID: dyadID, Violations: violations}
}
