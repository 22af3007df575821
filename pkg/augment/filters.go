package augment

import (
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/costajob/image-augmenter/pkg/imgio"
)

// Blur averages pixels over a square kernel sized by the parameter.
type Blur struct{}

// Name implements Filter.
func (Blur) Name() string { return "blur" }

// Values declares kernel sizes 2 through 9.
func (Blur) Values() Values { return IntRange{Lo: 2, Hi: 10, Step: 1} }

// Apply implements Filter.
func (Blur) Apply(img *imgio.Image, v float64) (*imgio.Image, bool) {
	return img.WithPixels(boxBlur(img.NRGBA, int(v))), true
}

// Flip mirrors the image along one of the two fixed axes.
type Flip struct{}

// Flip axis parameters.
const (
	flipHorizontal = 0
	flipVertical   = 1
)

// Name implements Filter.
func (Flip) Name() string { return "flip" }

// Values declares the two axes as a discrete set, exempt from scaling.
func (Flip) Values() Values { return Enum{flipHorizontal, flipVertical} }

// Apply implements Filter.
func (Flip) Apply(img *imgio.Image, v float64) (*imgio.Image, bool) {
	if int(v) == flipVertical {
		return img.WithPixels(imaging.FlipV(img.NRGBA)), true
	}
	return img.WithPixels(imaging.FlipH(img.NRGBA)), true
}

// Gamma applies gamma correction with a fixed gain constant.
type Gamma struct{}

// gammaGain dampens the corrected output so high gammas do not blow out.
const gammaGain = 0.9

// Name implements Filter.
func (Gamma) Name() string { return "gamma" }

// Values declares gammas 0.1 through 2.5.
func (Gamma) Values() Values { return FloatRange{Min: 0.1, Max: 2.55, Step: 0.05} }

// Apply implements Filter.
func (Gamma) Apply(img *imgio.Image, v float64) (*imgio.Image, bool) {
	out := imaging.AdjustFunc(img.NRGBA, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: gammaChannel(c.R, v),
			G: gammaChannel(c.G, v),
			B: gammaChannel(c.B, v),
			A: c.A,
		}
	})
	return img.WithPixels(out), true
}

// gammaChannel maps one channel sample through gain * x^gamma.
func gammaChannel(x uint8, gamma float64) uint8 {
	return clamp8(gammaGain * math.Pow(float64(x)/255, gamma) * 255)
}

// Gaussian smooths the image with a gaussian kernel parametrized by sigma.
type Gaussian struct{}

// Name implements Filter.
func (Gaussian) Name() string { return "gaussian" }

// Values declares sigmas 0.2 through 1.4.
func (Gaussian) Values() Values { return FloatRange{Min: 0.2, Max: 1.5, Step: 0.1} }

// Apply implements Filter.
func (Gaussian) Apply(img *imgio.Image, v float64) (*imgio.Image, bool) {
	return img.WithPixels(imaging.Blur(img.NRGBA, v)), true
}

// Noise adds speckle noise scaled by the variance parameter.
type Noise struct{}

// Name implements Filter.
func (Noise) Name() string { return "noise" }

// Values declares variances 0.001 through 0.030.
func (Noise) Values() Values { return FloatRange{Min: 0.001, Max: 0.0301, Step: 0.001} }

// Apply implements Filter.
func (Noise) Apply(img *imgio.Image, v float64) (*imgio.Image, bool) {
	return img.WithPixels(speckle(img.NRGBA, v)), true
}

// Pixel applies a rank-order filter (max, median, min or mode) over a
// square neighborhood. The rank kind is fixed at construction.
type Pixel struct {
	Kind Rank
}

// Name implements Filter.
func (Pixel) Name() string { return "pixel" }

// Values declares odd window sizes 1 through 13.
func (Pixel) Values() Values { return IntRange{Lo: 1, Hi: 14, Step: 2} }

// Apply implements Filter. It declines windows too large for the smaller
// image dimension, per the admissibility table.
func (p Pixel) Apply(img *imgio.Image, v float64) (*imgio.Image, bool) {
	size := int(v)
	if size > maxRankWindow(min(img.Width(), img.Height())) {
		return nil, false
	}
	return img.WithPixels(rankFilter(img.NRGBA, size, p.Kind)), true
}

// rankWindowLimits maps the smaller image dimension to the largest
// admissible neighborhood. Chosen so the default 64px normalization admits
// windows up to 5.
var rankWindowLimits = []struct{ dim, window int }{
	{16, 1},
	{32, 3},
	{64, 5},
	{128, 7},
	{256, 9},
}

// maxRankWindow returns the largest admissible window for minDim.
func maxRankWindow(minDim int) int {
	for _, l := range rankWindowLimits {
		if minDim <= l.dim {
			return l.window
		}
	}
	return 13
}

// Rescale enlarges the image proportionally and crops the center back to
// the original dimensions.
type Rescale struct{}

// Name implements Filter.
func (Rescale) Name() string { return "rescale" }

// Values declares scales 1.05 through 2.30.
func (Rescale) Values() Values { return FloatRange{Min: 1.05, Max: 2.35, Step: 0.05} }

// Apply implements Filter.
func (Rescale) Apply(img *imgio.Image, v float64) (*imgio.Image, bool) {
	w, h := img.Width(), img.Height()
	nw := int(math.Round(float64(w) * v))
	nh := int(math.Round(float64(h) * v))
	resized := imaging.Resize(img.NRGBA, nw, nh, imaging.Lanczos)
	return img.WithPixels(imaging.CropCenter(resized, w, h)), true
}

// Rotate turns the image by a signed angle in degrees, keeping the original
// frame. Exposed background is white for opaque images and transparent for
// alpha-bearing ones.
type Rotate struct{}

// Name implements Filter.
func (Rotate) Name() string { return "rotate" }

// Values declares odd angles -155 through 155.
func (Rotate) Values() Values { return IntRange{Lo: -155, Hi: 156, Step: 2} }

// Apply implements Filter. A zero angle declines: the identity image is
// already the first element of every variant sequence.
func (Rotate) Apply(img *imgio.Image, v float64) (*imgio.Image, bool) {
	if v == 0 {
		return nil, false
	}
	bg := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if !img.Opaque() {
		bg = color.NRGBA{}
	}
	w, h := img.Width(), img.Height()
	rotated := imaging.Rotate(img.NRGBA, v, bg)
	out := imaging.CropCenter(rotated, w, h)
	if out.Bounds().Dx() != w || out.Bounds().Dy() != h {
		// The rotated bounding box can be narrower than the original frame
		// for elongated images; re-center on a background canvas.
		out = imaging.PasteCenter(imaging.New(w, h, bg), out)
	}
	return img.WithPixels(out), true
}

// Shift translates the image along its configured axis with wrap-around
// fill.
type Shift struct {
	Along Axis
}

// Name implements Filter.
func (Shift) Name() string { return "shift" }

// Values declares translation magnitudes 1 through 511.
func (Shift) Values() Values { return IntRange{Lo: 1, Hi: 512, Step: 1} }

// Apply implements Filter. It declines any magnitude that is not strictly
// smaller than the guarded image dimension(s).
func (s Shift) Apply(img *imgio.Image, v float64) (*imgio.Image, bool) {
	d := int(v)
	w, h := img.Width(), img.Height()
	var dx, dy int
	switch s.Along {
	case AxisHorizontal:
		if d >= w {
			return nil, false
		}
		dx = d
	case AxisVertical:
		if d >= h {
			return nil, false
		}
		dy = d
	default:
		if d >= w || d >= h {
			return nil, false
		}
		dx, dy = d, d
	}
	return img.WithPixels(wrapShift(img.NRGBA, dx, dy)), true
}

// Skew applies a horizontal shear transform.
type Skew struct{}

// skewVisibility is the magnitude below which a shear is indistinguishable
// from the identity and therefore declined.
const skewVisibility = 0.05

// Name implements Filter.
func (Skew) Name() string { return "skew" }

// Values declares shears -0.80 through 0.84.
func (Skew) Values() Values { return FloatRange{Min: -0.8, Max: 0.9, Step: 0.13} }

// Apply implements Filter.
func (Skew) Apply(img *imgio.Image, v float64) (*imgio.Image, bool) {
	if math.Abs(v) < skewVisibility {
		return nil, false
	}
	return img.WithPixels(shear(img.NRGBA, v)), true
}

// Unsharp sharpens the image with an unsharp mask parametrized by radius.
type Unsharp struct{}

// Name implements Filter.
func (Unsharp) Name() string { return "unsharp" }

// Values declares radii 1 through 50.
func (Unsharp) Values() Values { return IntRange{Lo: 1, Hi: 51, Step: 1} }

// Apply implements Filter.
func (Unsharp) Apply(img *imgio.Image, v float64) (*imgio.Image, bool) {
	return img.WithPixels(imaging.Sharpen(img.NRGBA, v)), true
}
