package augment

import (
	"math"
	"slices"
)

// Values is an ordered, immutable parameter range owned by a filter.
//
// Scale returns the range truncated to a leading proportional slice for a
// cutoff in (0, 1); a cutoff >= 1 returns the range unchanged. Scaling is
// deterministic and never produces an empty range. Two range kinds scale
// differently on purpose: integer sequences truncate by element count,
// float sequences rescale around their bounds keeping the step. Discrete
// sets never scale.
type Values interface {
	// Len returns the number of values.
	Len() int

	// Seq materializes the values in declared order.
	Seq() []float64

	// Scale returns the cutoff-truncated range.
	Scale(cutoff float64) Values
}

// IntRange is the arithmetic integer sequence [Lo, Hi) with the given
// positive Step. Scaling is count-based: the first floor(len*cutoff)
// elements survive, with a floor of one.
type IntRange struct {
	Lo, Hi, Step int
}

// Len returns the number of values.
func (r IntRange) Len() int {
	if r.Step <= 0 || r.Hi <= r.Lo {
		return 0
	}
	return (r.Hi - r.Lo + r.Step - 1) / r.Step
}

// Seq materializes the sequence.
func (r IntRange) Seq() []float64 {
	out := make([]float64, 0, r.Len())
	for v := r.Lo; v < r.Hi; v += r.Step {
		out = append(out, float64(v))
	}
	return out
}

// Scale truncates to the first floor(len*cutoff) elements, at least one.
func (r IntRange) Scale(cutoff float64) Values {
	if cutoff >= 1 {
		return r
	}
	n := int(math.Floor(float64(r.Len()) * cutoff))
	if n < 1 {
		n = 1
	}
	return IntRange{Lo: r.Lo, Hi: r.Lo + n*r.Step, Step: r.Step}
}

// FloatRange is the arithmetic float sequence [Min, Max) with the given
// positive Step. Scaling is value-based: the step is kept, the upper bound
// shrinks to Max*cutoff, and the lower bound shrinks toward zero only when
// negative, yielding a shorter sequence with identical spacing.
type FloatRange struct {
	Min, Max, Step float64
}

// seqEpsilon guards float accumulation at the open upper bound.
const seqEpsilon = 1e-9

// Len returns the number of values.
func (r FloatRange) Len() int {
	if r.Step <= 0 || r.Max <= r.Min {
		return 0
	}
	return int(math.Ceil((r.Max - r.Min - seqEpsilon) / r.Step))
}

// Seq materializes the sequence. Values are generated by index to avoid
// accumulating float error.
func (r FloatRange) Seq() []float64 {
	n := r.Len()
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Min + float64(i)*r.Step
	}
	return out
}

// Scale shrinks the bounds proportionally, keeping the step. The result is
// never empty: when the scaled bounds collapse, a single-element range at
// the scaled minimum remains.
func (r FloatRange) Scale(cutoff float64) Values {
	if cutoff >= 1 {
		return r
	}
	min := r.Min
	if min < 0 {
		min = min * cutoff
	}
	scaled := FloatRange{Min: min, Max: r.Max * cutoff, Step: r.Step}
	if scaled.Len() < 1 {
		scaled.Max = min + r.Step
	}
	return scaled
}

// Enum is a small discrete set of admissible parameters, such as the two
// flip axes. It is exempt from cutoff scaling.
type Enum []float64

// Len returns the number of values.
func (e Enum) Len() int { return len(e) }

// Seq returns a copy of the values.
func (e Enum) Seq() []float64 { return slices.Clone(e) }

// Scale returns the set unchanged regardless of cutoff.
func (e Enum) Scale(cutoff float64) Values { return e }
