package dyad

import (
	"fmt"

	"crqa/internal/coding"
	"crqa/internal/recurrence"
)

// Dyad is one parent-child conversation as two aligned integer channels.
type Dyad struct {
	ID     string
	Parent []int
	Child  []int
}

// FromEvents encodes an event sequence into a Dyad.
func FromEvents(id string, events []coding.Event) Dyad {
	parent, child := coding.Encode(events)
	return Dyad{ID: id, Parent: parent, Child: child}
}

// Len returns the number of timepoints in the parent channel.
func (d Dyad) Len() int {
	return len(d.Parent)
}

// CheckShape verifies that both channels are non-empty and equally long.
func (d Dyad) CheckShape() error {
	if len(d.Parent) == 0 || len(d.Child) == 0 {
		return fmt.Errorf("dyad %s: %w", d.ID, recurrence.ErrEmptySequence)
	}
	if len(d.Parent) != len(d.Child) {
		return fmt.Errorf("dyad %s: %w: parent has %d timepoints, child has %d",
			d.ID, recurrence.ErrLengthMismatch, len(d.Parent), len(d.Child))
	}
	return nil
}

// Validate runs the shape check and then the coding-scheme check. A coding
// failure is returned as *coding.ValidationError listing every violation.
func (d Dyad) Validate() error {
	if err := d.CheckShape(); err != nil {
		return err
	}
	return coding.Validate(d.ID, d.Parent, d.Child)
}

// Analyze validates the dyad and runs the recurrence engine on it.
func (d Dyad) Analyze(params recurrence.Params) (*recurrence.Result, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	res, err := recurrence.Analyze(d.Parent, d.Child, params)
	if err != nil {
		return nil, fmt.Errorf("dyad %s: %w", d.ID, err)
	}
	return res, nil
}

// Find returns the dyad with the given ID.
func Find(dyads []Dyad, id string) (Dyad, bool) {
	for _, d := range dyads {
		if d.ID == id {
			return d, true
		}
	}
	return Dyad{}, false
}
