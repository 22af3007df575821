package augment

import (
	"github.com/costajob/image-augmenter/pkg/errors"

	"github.com/costajob/image-augmenter/pkg/imgio"
)

// Augmenter drives the filter catalog over normalized images. Parameter
// ranges are scaled once at construction; the same Augmenter is reused for
// every image of a run.
type Augmenter struct {
	cutoff  float64
	filters []Filter
	scaled  []Values
}

// New validates the cutoff and precomputes the scaled parameter ranges.
// A zero cutoff disables every filter: streams then carry the identity
// variant only.
func New(cutoff float64, filters ...Filter) (*Augmenter, error) {
	if cutoff < 0 || cutoff > 1 {
		return nil, errors.New(errors.ErrCodeInvalidCutoff, "cutoff %v must lie within [0, 1]", cutoff)
	}
	a := &Augmenter{cutoff: cutoff, filters: filters}
	if cutoff > 0 {
		a.scaled = make([]Values, len(filters))
		for i, f := range filters {
			a.scaled[i] = f.Values().Scale(cutoff)
		}
	}
	return a, nil
}

// Cutoff returns the configured cutoff.
func (a *Augmenter) Cutoff() float64 { return a.cutoff }

// Filters returns the catalog in stream order.
func (a *Augmenter) Filters() []Filter { return a.filters }

// Count returns the number of variants a stream can yield at most: the
// identity plus one per scaled parameter. Filters may decline parameters
// for a particular image, so a realized stream can be shorter; it is never
// longer.
func (a *Augmenter) Count() int {
	n := 1
	for _, v := range a.scaled {
		n += v.Len()
	}
	return n
}

// Stream returns the variant sequence for one image. The sequence is lazy,
// finite and one-pass: each variant is computed on Next, and an exhausted
// stream stays exhausted.
func (a *Augmenter) Stream(img *imgio.Image) *Stream {
	var steps []step
	for i := range a.scaled {
		for _, v := range a.scaled[i].Seq() {
			steps = append(steps, step{f: a.filters[i], v: v})
		}
	}
	return &Stream{src: img, steps: steps}
}

// step is one pending filter application.
type step struct {
	f Filter
	v float64
}

// Stream yields the variants of a single image: first the untouched
// identity, then every admissible filter application in catalog order with
// parameters in range order. Declined applications are skipped silently.
type Stream struct {
	src     *imgio.Image
	steps   []step
	started bool
}

// Next returns the next variant, or ok=false when the stream is exhausted.
func (s *Stream) Next() (*imgio.Image, bool) {
	if !s.started {
		s.started = true
		return s.src.Clone(), true
	}
	for len(s.steps) > 0 {
		st := s.steps[0]
		s.steps = s.steps[1:]
		if out, ok := st.f.Apply(s.src, st.v); ok {
			return out, true
		}
	}
	return nil, false
}
