package augment

import (
	"image"
	"math"
	"math/rand"
	"sort"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// clamp8 rounds and clamps a float sample into one byte.
func clamp8(f float64) uint8 {
	v := int(f + 0.5)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// boxBlur averages every channel over a size x size window clamped at the
// image edges.
func boxBlur(src *image.NRGBA, size int) *image.NRGBA {
	if size < 1 {
		size = 1
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	// Window [x-lo, x+hi), matching the left-heavy split of even sizes.
	lo := size / 2
	hi := size - lo
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [4]int
			count := 0
			for wy := y - lo; wy < y+hi; wy++ {
				if wy < 0 || wy >= h {
					continue
				}
				for wx := x - lo; wx < x+hi; wx++ {
					if wx < 0 || wx >= w {
						continue
					}
					i := src.PixOffset(b.Min.X+wx, b.Min.Y+wy)
					sum[0] += int(src.Pix[i])
					sum[1] += int(src.Pix[i+1])
					sum[2] += int(src.Pix[i+2])
					sum[3] += int(src.Pix[i+3])
					count++
				}
			}
			j := dst.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				dst.Pix[j+c] = uint8((sum[c] + count/2) / count)
			}
		}
	}
	return dst
}

// speckle perturbs every color sample by p + p*n with n drawn from a
// zero-mean gaussian of the given variance. The generator is seeded from
// the variance so each parameter yields one reproducible pattern. Alpha is
// untouched.
func speckle(src *image.NRGBA, variance float64) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	rng := rand.New(rand.NewSource(int64(variance * 1e9)))
	sigma := math.Sqrt(variance)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			j := dst.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				p := float64(src.Pix[i+c])
				dst.Pix[j+c] = clamp8(p + p*sigma*rng.NormFloat64())
			}
			dst.Pix[j+3] = src.Pix[i+3]
		}
	}
	return dst
}

// rankFilter replaces every channel sample with an order statistic of its
// size x size neighborhood, clamped at the image edges.
func rankFilter(src *image.NRGBA, size int, kind Rank) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if size <= 1 {
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[dst.PixOffset(0, y):dst.PixOffset(0, y)+w*4], src.Pix[i:i+w*4])
		}
		return dst
	}

	r := size / 2
	window := make([][]uint8, 4)
	for c := range window {
		window[c] = make([]uint8, 0, size*size)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := range window {
				window[c] = window[c][:0]
			}
			for wy := y - r; wy <= y+r; wy++ {
				if wy < 0 || wy >= h {
					continue
				}
				for wx := x - r; wx <= x+r; wx++ {
					if wx < 0 || wx >= w {
						continue
					}
					i := src.PixOffset(b.Min.X+wx, b.Min.Y+wy)
					for c := range window {
						window[c] = append(window[c], src.Pix[i+c])
					}
				}
			}
			j := dst.PixOffset(x, y)
			for c := range window {
				dst.Pix[j+c] = orderStatistic(window[c], kind)
			}
		}
	}
	return dst
}

// orderStatistic reduces a non-empty sample window to the requested rank.
func orderStatistic(samples []uint8, kind Rank) uint8 {
	switch kind {
	case RankMax:
		out := samples[0]
		for _, s := range samples[1:] {
			if s > out {
				out = s
			}
		}
		return out
	case RankMin:
		out := samples[0]
		for _, s := range samples[1:] {
			if s < out {
				out = s
			}
		}
		return out
	case RankMedian:
		sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
		return samples[len(samples)/2]
	default: // RankMode, ties broken toward the smaller value
		var counts [256]int
		for _, s := range samples {
			counts[s]++
		}
		best, bestCount := 0, 0
		for v, n := range counts {
			if n > bestCount {
				best, bestCount = v, n
			}
		}
		return uint8(best)
	}
}

// wrapShift translates the image by (dx, dy) with modulo wrap-around, so no
// pixel is lost and no background is exposed.
func wrapShift(src *image.NRGBA, dx, dy int) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		sy := ((y-dy)%h + h) % h
		for x := 0; x < w; x++ {
			sx := ((x-dx)%w + w) % w
			i := src.PixOffset(b.Min.X+sx, b.Min.Y+sy)
			j := dst.PixOffset(x, y)
			copy(dst.Pix[j:j+4], src.Pix[i:i+4])
		}
	}
	return dst
}

// shear applies a horizontal shear of factor k within the original frame.
// Pixels sheared out of frame are dropped and uncovered regions stay zero
// (black for opaque images, transparent for alpha-bearing ones).
func shear(src *image.NRGBA, k float64) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	m := f64.Aff3{1, -k, 0, 0, 1, 0}
	xdraw.BiLinear.Transform(dst, m, src, b, xdraw.Src, nil)
	return dst
}
