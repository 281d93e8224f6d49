package recurrence

import (
	"fmt"
	"strings"
)

// MatchRule selects how two embedded points are compared.
type MatchRule string

const (
	// MatchCategorical treats points as recurrent when every coordinate is
	// equal. Radius is not consulted.
	MatchCategorical MatchRule = "categorical"
	// MatchDistance treats points as recurrent when their distance under
	// Params.Norm is at most Params.Radius.
	MatchDistance MatchRule = "distance"
)

// Norm is the distance function used by MatchDistance.
type Norm string

const (
	NormEuclidean Norm = "euclidean"
	NormMax       Norm = "max"
)

// LineDirection selects which non-diagonal runs feed LAM, TT and maxV.
type LineDirection string

const (
	// DirectionVertical scans columns (fixed child timepoint).
	DirectionVertical LineDirection = "vertical"
	// DirectionHorizontal scans rows (fixed parent timepoint).
	DirectionHorizontal LineDirection = "horizontal"
	// DirectionBoth scans columns and rows; LAM is normalized by twice the
	// recurrent point count so it stays within [0, 100].
	DirectionBoth LineDirection = "both"
)

// Params holds the hyperparameters of one analysis run.
type Params struct {
	Radius        float64       `json:"radius" yaml:"radius"`
	Delay         int           `json:"delay" yaml:"delay"`
	Embed         int           `json:"embed" yaml:"embed"`
	MinDiagLine   int           `json:"min_diag_line" yaml:"min_diag_line"`
	MinVertLine   int           `json:"min_vert_line" yaml:"min_vert_line"`
	TheilerWindow int           `json:"theiler_window" yaml:"theiler_window"`
	Match         MatchRule     `json:"match" yaml:"match"`
	Norm          Norm          `json:"norm" yaml:"norm"`
	Direction     LineDirection `json:"lam_direction" yaml:"lam_direction"`
}

// DefaultParams returns the conventional settings for categorical CRQA on
// integer-coded utterances.
func DefaultParams() Params {
	return Params{
		Radius:        0.5,
		Delay:         0,
		Embed:         1,
		MinDiagLine:   2,
		MinVertLine:   2,
		TheilerWindow: 1,
		Match:         MatchCategorical,
		Norm:          NormEuclidean,
		Direction:     DirectionVertical,
	}
}

// ParseMatchRule normalizes a configuration string into a MatchRule.
func ParseMatchRule(value string) (MatchRule, error) {
	switch rule := MatchRule(strings.ToLower(strings.TrimSpace(value))); rule {
	case "":
		return MatchCategorical, nil
	case MatchCategorical, MatchDistance:
		return rule, nil
	default:
		return "", fmt.Errorf("%w: unknown match rule %q", ErrInvalidParams, value)
	}
}

// ParseNorm normalizes a configuration string into a Norm.
func ParseNorm(value string) (Norm, error) {
	switch norm := Norm(strings.ToLower(strings.TrimSpace(value))); norm {
	case "":
		return NormEuclidean, nil
	case NormEuclidean, NormMax:
		return norm, nil
	default:
		return "", fmt.Errorf("%w: unknown norm %q", ErrInvalidParams, value)
	}
}

// ParseLineDirection normalizes a configuration string into a LineDirection.
func ParseLineDirection(value string) (LineDirection, error) {
	switch dir := LineDirection(strings.ToLower(strings.TrimSpace(value))); dir {
	case "":
		return DirectionVertical, nil
	case DirectionVertical, DirectionHorizontal, DirectionBoth:
		return dir, nil
	default:
		return "", fmt.Errorf("%w: unknown line direction %q", ErrInvalidParams, value)
	}
}

// Validate reports the first unusable hyperparameter.
func (p Params) Validate() error {
	if p.Radius < 0 {
		return fmt.Errorf("%w: radius must be >= 0", ErrInvalidParams)
	}
	if p.Delay < 0 {
		return fmt.Errorf("%w: delay must be >= 0", ErrInvalidParams)
	}
	if p.Embed < 1 {
		return fmt.Errorf("%w: embedding dimension must be >= 1", ErrInvalidParams)
	}
	if p.MinDiagLine < 2 {
		return fmt.Errorf("%w: minimum diagonal line must be >= 2", ErrInvalidParams)
	}
	if p.MinVertLine < 2 {
		return fmt.Errorf("%w: minimum vertical line must be >= 2", ErrInvalidParams)
	}
	if p.TheilerWindow < 1 {
		return fmt.Errorf("%w: theiler window must be >= 1 (the main diagonal is always excluded)", ErrInvalidParams)
	}
	if _, err := ParseMatchRule(string(p.Match)); err != nil {
		return err
	}
	if _, err := ParseNorm(string(p.Norm)); err != nil {
		return err
	}
	if _, err := ParseLineDirection(string(p.Direction)); err != nil {
		return err
	}
	return nil
}

// normalized fills empty enum fields with their defaults.
func (p Params) normalized() Params {
	if p.Match == "" {
		p.Match = MatchCategorical
	}
	if p.Norm == "" {
		p.Norm = NormEuclidean
	}
	if p.Direction == "" {
		p.Direction = DirectionVertical
	}
	return p
}
