package recurrence

import "errors"

var (
	// ErrEmptySequence is returned when either input sequence has no timepoints.
	ErrEmptySequence = errors.New("sequence is empty")
	// ErrLengthMismatch is returned when the parent and child sequences differ in length.
	ErrLengthMismatch = errors.New("sequences differ in length")
	// ErrEmbeddingTooLong is returned when delay embedding leaves no usable points.
	ErrEmbeddingTooLong = errors.New("embedding leaves no usable points")
	// ErrInvalidParams wraps every parameter validation failure.
	ErrInvalidParams = errors.New("invalid recurrence parameters")
)
