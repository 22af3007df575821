// Package augment implements the augmentation engine: a catalog of
// parametrized image transforms, the cutoff policy that scales how much of
// each transform's parameter range is exercised, and the engine that drives
// both over a normalized image to produce a finite, ordered stream of
// variants.
//
// Filters are pure: one catalog is constructed per run and reused across
// every image. A filter may decline a parameter for a given image (a shift
// larger than the image, a shear too small to be visible); declining is a
// first-class outcome, not an error, and declined combinations are skipped
// silently.
package augment

import (
	"github.com/costajob/image-augmenter/pkg/errors"
	"github.com/costajob/image-augmenter/pkg/imgio"
)

// Filter is a single parametrized transform.
//
// Apply returns the transformed image and true, or nil and false when the
// parameter is structurally inapplicable to this image. Implementations
// never mutate the input, always preserve its channel count, and never
// return a zero-sized image.
type Filter interface {
	// Name identifies the filter; catalog order sorts by it.
	Name() string

	// Values returns the declared, unscaled parameter range.
	Values() Values

	// Apply transforms img with the given parameter.
	Apply(img *imgio.Image, v float64) (*imgio.Image, bool)
}

// Axis selects which dimension the shift filter translates along.
type Axis string

// Shift axes.
const (
	AxisHorizontal Axis = "horizontal"
	AxisVertical   Axis = "vertical"
	AxisDiagonal   Axis = "diagonal"
)

// ParseAxis interprets an axis spec. Single-letter shorthands match the
// configuration surface ("h", "v"); anything else but the full names is
// rejected. Empty means diagonal.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "h", string(AxisHorizontal):
		return AxisHorizontal, nil
	case "v", string(AxisVertical):
		return AxisVertical, nil
	case "", "d", string(AxisDiagonal):
		return AxisDiagonal, nil
	}
	return "", errors.New(errors.ErrCodeInvalidAxis, "unknown shift axis %q (use horizontal, vertical or diagonal)", s)
}

// Rank selects the order statistic of the pixel filter.
type Rank string

// Pixel filter kinds.
const (
	RankMax    Rank = "max"
	RankMedian Rank = "median"
	RankMin    Rank = "min"
	RankMode   Rank = "mode"
)

// ParseRank interprets a rank spec. Empty means min.
func ParseRank(s string) (Rank, error) {
	switch Rank(s) {
	case RankMax, RankMedian, RankMode:
		return Rank(s), nil
	case "", RankMin:
		return RankMin, nil
	}
	return "", errors.New(errors.ErrCodeInvalidRank, "unknown pixel rank %q (use max, median, min or mode)", s)
}

// CatalogConfig carries the construction-time configuration of the
// configurable filters. The zero value selects the diagonal shift axis and
// the min rank filter.
type CatalogConfig struct {
	ShiftAxis Axis
	RankKind  Rank
}

// Catalog returns the full filter catalog in canonical order.
//
// The list is enumerated explicitly and sorted alphabetically by name;
// ordering is a design decision here, not an artifact of how filters are
// discovered, and it fixes the variant sequence for reproducible runs.
func Catalog(cfg CatalogConfig) []Filter {
	axis := cfg.ShiftAxis
	if axis == "" {
		axis = AxisDiagonal
	}
	rank := cfg.RankKind
	if rank == "" {
		rank = RankMin
	}
	return []Filter{
		Blur{},
		Flip{},
		Gamma{},
		Gaussian{},
		Noise{},
		Pixel{Kind: rank},
		Rescale{},
		Rotate{},
		Shift{Along: axis},
		Skew{},
		Unsharp{},
	}
}
