// Package imgio holds the canonical in-memory image representation and the
// normalization step that maps arbitrary source files onto it.
//
// Every image flowing through the pipeline is an NRGBA pixel buffer plus a
// logical channel count: 3 for opaque sources, 4 for sources carrying
// transparency. The channel count decides the output encoding (JPEG for
// opaque, PNG for transparent) and how filters fill exposed background.
package imgio

import (
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/costajob/image-augmenter/pkg/errors"
)

// Logical channel counts.
const (
	ChannelsRGB  = 3
	ChannelsRGBA = 4
)

// Output extensions by channel count.
const (
	ExtPNG = "png"
	ExtJPG = "jpg"
)

// Image is the canonical pipeline image: an NRGBA buffer with the logical
// channel count of its source. All filters preserve the channel count and
// never produce a zero-sized buffer.
type Image struct {
	NRGBA    *image.NRGBA
	Channels int
}

// FromImage converts any decoded image into the canonical representation.
func FromImage(img image.Image, channels int) *Image {
	return &Image{NRGBA: imaging.Clone(img), Channels: channels}
}

// WithPixels returns a new Image around px, keeping the channel count.
// Filters use this to tag their output with the source's channels.
func (m *Image) WithPixels(px *image.NRGBA) *Image {
	return &Image{NRGBA: px, Channels: m.Channels}
}

// Clone returns a deep copy.
func (m *Image) Clone() *Image {
	return &Image{NRGBA: imaging.Clone(m.NRGBA), Channels: m.Channels}
}

// Width returns the pixel width.
func (m *Image) Width() int {
	return m.NRGBA.Bounds().Dx()
}

// Height returns the pixel height.
func (m *Image) Height() int {
	return m.NRGBA.Bounds().Dy()
}

// Opaque reports whether the image has no alpha channel.
func (m *Image) Opaque() bool {
	return m.Channels != ChannelsRGBA
}

// Ext returns the output extension for this image: PNG for alpha-bearing
// sources, JPEG otherwise.
func (m *Image) Ext() string {
	if m.Channels == ChannelsRGBA {
		return ExtPNG
	}
	return ExtJPG
}

// Encode writes the image to w in the format chosen by Ext.
func (m *Image) Encode(w io.Writer) error {
	var err error
	if m.Channels == ChannelsRGBA {
		err = imaging.Encode(w, m.NRGBA, imaging.PNG)
	} else {
		err = imaging.Encode(w, m.NRGBA, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "encode %s image", m.Ext())
	}
	return nil
}

// jpegQuality is the encoder setting for opaque variants. High enough that
// recompression artifacts stay below the perturbations the filters add.
const jpegQuality = 95
