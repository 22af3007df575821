package imgio

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costajob/image-augmenter/pkg/errors"
)

// testImage builds a solid-colored canonical image.
func testImage(t *testing.T, w, h, channels int, fill color.NRGBA) *Image {
	t.Helper()
	return &Image{NRGBA: imaging.New(w, h, fill), Channels: channels}
}

func TestParseCanvas(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CanvasMode
		wantErr bool
	}{
		{"empty is off", "", CanvasOff, false},
		{"off keyword", "off", CanvasOff, false},
		{"false keyword", "false", CanvasOff, false},
		{"true is plain", "true", CanvasPlain, false},
		{"square is plain", "square", CanvasPlain, false},
		{"hex color", "ff00aa", CanvasColor, false},
		{"malformed color", "red", 0, true},
		{"short hex", "ff00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCanvas(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidColor))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Mode)
		})
	}
}

func TestParseCanvasColorValue(t *testing.T) {
	c, err := ParseCanvas("ff00aa")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x00, B: 0xaa, A: 0xff}, c.Color)
}

func TestParseCanvasBackgroundFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(8, 8, color.NRGBA{A: 255}), imaging.PNG))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	c, err := ParseCanvas(path)
	require.NoError(t, err)
	assert.Equal(t, CanvasImage, c.Mode)
	assert.Equal(t, path, c.Path)
}

func TestNewNormalizerRejectsBadSize(t *testing.T) {
	_, err := NewNormalizer(0, Canvas{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSize))
}

func TestNormalizeWithoutCanvasKeepsAspect(t *testing.T) {
	n, err := NewNormalizer(64, Canvas{Mode: CanvasOff})
	require.NoError(t, err)

	src := testImage(t, 100, 50, ChannelsRGB, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	out, err := n.Apply(src)
	require.NoError(t, err)

	assert.Equal(t, 64, out.Width())
	assert.Equal(t, 32, out.Height())
	assert.Equal(t, ChannelsRGB, out.Channels)
}

func TestNormalizeCanvasPadsToSquare(t *testing.T) {
	n, err := NewNormalizer(64, Canvas{Mode: CanvasPlain})
	require.NoError(t, err)

	src := testImage(t, 100, 50, ChannelsRGB, color.NRGBA{R: 200, G: 0, B: 0, A: 255})
	out, err := n.Apply(src)
	require.NoError(t, err)

	require.Equal(t, 64, out.Width())
	require.Equal(t, 64, out.Height())

	// Content is centered with symmetric offsets: (64-64)/2 = 0 horizontally,
	// (64-32)/2 = 16 vertically.
	top := out.NRGBA.NRGBAAt(32, 8)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, top, "padding above content should be white")
	mid := out.NRGBA.NRGBAAt(32, 32)
	assert.InDelta(t, 200, int(mid.R), 2, "center should hold the source content")
	bottom := out.NRGBA.NRGBAAt(32, 56)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, bottom, "padding below content should be white")
}

func TestNormalizeCanvasTransparentForAlpha(t *testing.T) {
	n, err := NewNormalizer(64, Canvas{Mode: CanvasPlain})
	require.NoError(t, err)

	src := testImage(t, 50, 100, ChannelsRGBA, color.NRGBA{R: 0, G: 0, B: 200, A: 255})
	out, err := n.Apply(src)
	require.NoError(t, err)

	require.Equal(t, 64, out.Width())
	require.Equal(t, 64, out.Height())
	assert.Equal(t, ChannelsRGBA, out.Channels)

	// Horizontal offset is (64-32)/2 = 16; the left padding stays transparent.
	left := out.NRGBA.NRGBAAt(8, 32)
	assert.Equal(t, uint8(0), left.A, "padding should be transparent for alpha sources")
}

func TestNormalizeColorCanvas(t *testing.T) {
	canvas, err := ParseCanvas("00ff00")
	require.NoError(t, err)
	n, err := NewNormalizer(32, canvas)
	require.NoError(t, err)

	src := testImage(t, 64, 32, ChannelsRGB, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	out, err := n.Apply(src)
	require.NoError(t, err)

	corner := out.NRGBA.NRGBAAt(0, 0)
	assert.Equal(t, color.NRGBA{R: 0, G: 255, B: 0, A: 255}, corner)
}

func TestDecodeChannelDetection(t *testing.T) {
	var pngBuf, jpgBuf bytes.Buffer
	src := imaging.New(10, 10, color.NRGBA{R: 9, G: 9, B: 9, A: 255})
	require.NoError(t, imaging.Encode(&pngBuf, src, imaging.PNG))
	require.NoError(t, imaging.Encode(&jpgBuf, src, imaging.JPEG))

	fromPNG, err := Decode(&pngBuf, "src.png")
	require.NoError(t, err)
	assert.Equal(t, ChannelsRGBA, fromPNG.Channels)
	assert.Equal(t, ExtPNG, fromPNG.Ext())

	fromJPG, err := Decode(&jpgBuf, "src.jpg")
	require.NoError(t, err)
	assert.Equal(t, ChannelsRGB, fromJPG.Channels)
	assert.Equal(t, ExtJPG, fromJPG.Ext())
}

func TestDecodeGarbageFails(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")), "junk.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeDecode))
}

func TestRecognized(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"a.PNG", true},
		{"dir/b.jpeg", true},
		{"b.JPG", true},
		{"c.gif", false},
		{"noext", false},
		{"archive.tar.gz", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Recognized(tt.path))
		})
	}
}
