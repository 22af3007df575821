package imgio

import (
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/costajob/image-augmenter/pkg/errors"
)

// DefaultSize is the default normalization target for the larger dimension.
const DefaultSize = 64

// CanvasMode selects how the resized image is padded onto a square canvas.
type CanvasMode int

const (
	// CanvasOff disables padding: the output keeps the resized aspect ratio.
	CanvasOff CanvasMode = iota
	// CanvasPlain pads onto a square canvas: white for opaque sources,
	// transparent for alpha-bearing ones.
	CanvasPlain
	// CanvasColor pads onto a square canvas of a fixed color.
	CanvasColor
	// CanvasImage pads onto a background image resized to the canvas.
	CanvasImage
)

// Canvas is the parsed canvas-padding configuration.
type Canvas struct {
	Mode  CanvasMode
	Color color.NRGBA // CanvasColor only
	Path  string      // CanvasImage only
}

// ParseCanvas interprets the configuration string:
//
//	""/"off"/"false"  -> no padding
//	"true"/"square"   -> plain square canvas
//	"RRGGBB"          -> colored square canvas
//	existing file     -> background-image canvas
//
// A malformed color spec is rejected here, at construction time, never at
// first use.
func ParseCanvas(s string) (Canvas, error) {
	switch strings.ToLower(s) {
	case "", "off", "false":
		return Canvas{Mode: CanvasOff}, nil
	case "true", "square":
		return Canvas{Mode: CanvasPlain}, nil
	}
	if st, err := os.Stat(s); err == nil && !st.IsDir() {
		return Canvas{Mode: CanvasImage, Path: s}, nil
	}
	rgb, err := hex.DecodeString(s)
	if err != nil || len(rgb) != 3 {
		return Canvas{}, errors.New(errors.ErrCodeInvalidColor, "canvas %q is neither a mode, a RRGGBB color, nor a file", s)
	}
	return Canvas{Mode: CanvasColor, Color: color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}}, nil
}

// String renders the canvas configuration for logs and cache keys.
func (c Canvas) String() string {
	switch c.Mode {
	case CanvasPlain:
		return "square"
	case CanvasColor:
		return fmt.Sprintf("color:%02x%02x%02x", c.Color.R, c.Color.G, c.Color.B)
	case CanvasImage:
		return "bg:" + c.Path
	default:
		return "off"
	}
}

// Normalizer maps a raw image source onto the canonical array: the larger
// dimension is resized to the target size (aspect preserved), then the
// result is optionally centered on a square canvas. One Normalizer is
// constructed per run and reused; it holds no per-image state.
type Normalizer struct {
	size   int
	canvas Canvas
}

// NewNormalizer validates the configuration and returns a Normalizer.
func NewNormalizer(size int, canvas Canvas) (*Normalizer, error) {
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidSize, "normalization size %d must be positive", size)
	}
	if canvas.Mode == CanvasImage {
		if _, err := os.Stat(canvas.Path); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "canvas background %s", canvas.Path)
		}
	}
	return &Normalizer{size: size, canvas: canvas}, nil
}

// Size returns the configured target size.
func (n *Normalizer) Size() int { return n.size }

// Canvas returns the configured canvas padding.
func (n *Normalizer) Canvas() Canvas { return n.canvas }

// Normalize decodes and normalizes the image file at path.
func (n *Normalizer) Normalize(path string) (*Image, error) {
	m, err := Open(path)
	if err != nil {
		return nil, err
	}
	return n.Apply(m)
}

// NormalizeReader decodes and normalizes an image from a stream. The hint
// names the source in error messages.
func (n *Normalizer) NormalizeReader(r io.Reader, hint string) (*Image, error) {
	m, err := Decode(r, hint)
	if err != nil {
		return nil, err
	}
	return n.Apply(m)
}

// Apply normalizes an already decoded image.
func (n *Normalizer) Apply(m *Image) (*Image, error) {
	resized := n.resize(m)
	if n.canvas.Mode == CanvasOff {
		return resized, nil
	}
	return n.pad(resized)
}

// resize scales the image so its larger dimension equals the target size.
// Dimensions floor like integer division but never reach zero.
func (n *Normalizer) resize(m *Image) *Image {
	w, h := m.Width(), m.Height()
	ratio := float64(max(w, h)) / float64(n.size)
	nw := max(int(float64(w)/ratio), 1)
	nh := max(int(float64(h)/ratio), 1)
	return m.WithPixels(imaging.Resize(m.NRGBA, nw, nh, imaging.Lanczos))
}

// pad centers the resized image on a square canvas with symmetric offsets
// ((size-w)/2, (size-h)/2).
func (n *Normalizer) pad(m *Image) (*Image, error) {
	offset := image.Pt((n.size-m.Width())/2, (n.size-m.Height())/2)

	switch n.canvas.Mode {
	case CanvasImage:
		bg, err := Open(n.canvas.Path)
		if err != nil {
			return nil, err
		}
		canvas := imaging.Resize(bg.NRGBA, n.size, n.size, imaging.Lanczos)
		return m.WithPixels(imaging.Overlay(canvas, m.NRGBA, offset, 1.0)), nil
	case CanvasColor:
		canvas := imaging.New(n.size, n.size, n.canvas.Color)
		return m.WithPixels(imaging.Paste(canvas, m.NRGBA, offset)), nil
	default: // CanvasPlain
		fill := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		if m.Channels == ChannelsRGBA {
			fill = color.NRGBA{}
		}
		canvas := imaging.New(n.size, n.size, fill)
		return m.WithPixels(imaging.Paste(canvas, m.NRGBA, offset)), nil
	}
}
