package recurrence

import (
	"fmt"
	"math"
)

// EmbeddedLength returns the number of delay-embedded points available from a
// sequence of length n: n - (embed-1)*delay.
func EmbeddedLength(n, embed, delay int) int {
	if embed < 1 {
		embed = 1
	}
	return n - (embed-1)*delay
}

// embedding is a lazily evaluated delay embedding over an integer sequence.
// Point i has coordinates values[i], values[i+delay], ... for dim coordinates.
type embedding struct {
	values []int
	dim    int
	delay  int
	length int
}

func newEmbedding(values []int, dim, delay int) (embedding, error) {
	length := EmbeddedLength(len(values), dim, delay)
	if length < 1 {
		return embedding{}, fmt.Errorf("%w: %d points with embed=%d delay=%d", ErrEmbeddingTooLong, len(values), dim, delay)
	}
	return embedding{values: values, dim: dim, delay: delay, length: length}, nil
}

func (e embedding) coord(point, d int) int {
	return e.values[point+d*e.delay]
}

// comparator reports whether parent point i recurs with child point j.
type comparator func(parent, child embedding, i, j int) bool

func newComparator(p Params) comparator {
	if p.Match == MatchDistance {
		radius := p.Radius
		if p.Norm == NormMax {
			return func(parent, child embedding, i, j int) bool {
				var worst float64
				for d := 0; d < parent.dim; d++ {
					diff := math.Abs(float64(parent.coord(i, d) - child.coord(j, d)))
					if diff > worst {
						worst = diff
					}
				}
				return worst <= radius
			}
		}
		limit := radius * radius
		return func(parent, child embedding, i, j int) bool {
			var sum float64
			for d := 0; d < parent.dim; d++ {
				diff := float64(parent.coord(i, d) - child.coord(j, d))
				sum += diff * diff
			}
			return sum <= limit
		}
	}
	return func(parent, child embedding, i, j int) bool {
		for d := 0; d < parent.dim; d++ {
			if parent.coord(i, d) != child.coord(j, d) {
				return false
			}
		}
		return true
	}
}
