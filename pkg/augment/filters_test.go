package augment

import (
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costajob/image-augmenter/pkg/imgio"
)

// solid builds a solid-colored canonical image.
func solid(w, h, channels int, fill color.NRGBA) *imgio.Image {
	return &imgio.Image{NRGBA: imaging.New(w, h, fill), Channels: channels}
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		input   string
		want    Axis
		wantErr bool
	}{
		{"h", AxisHorizontal, false},
		{"horizontal", AxisHorizontal, false},
		{"v", AxisVertical, false},
		{"vertical", AxisVertical, false},
		{"", AxisDiagonal, false},
		{"d", AxisDiagonal, false},
		{"sideways", "", true},
	}
	for _, tt := range tests {
		t.Run("axis "+tt.input, func(t *testing.T) {
			got, err := ParseAxis(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRank(t *testing.T) {
	got, err := ParseRank("")
	require.NoError(t, err)
	assert.Equal(t, RankMin, got)

	got, err = ParseRank("median")
	require.NoError(t, err)
	assert.Equal(t, RankMedian, got)

	_, err = ParseRank("average")
	require.Error(t, err)
}

func TestCatalogOrder(t *testing.T) {
	catalog := Catalog(CatalogConfig{})
	require.Len(t, catalog, 11)

	names := make([]string, len(catalog))
	for i, f := range catalog {
		names[i] = f.Name()
	}
	assert.Equal(t, []string{
		"blur", "flip", "gamma", "gaussian", "noise", "pixel",
		"rescale", "rotate", "shift", "skew", "unsharp",
	}, names)
}

func TestFiltersPreserveShapeAndChannels(t *testing.T) {
	tests := []struct {
		filter Filter
		v      float64
	}{
		{Blur{}, 3},
		{Flip{}, flipVertical},
		{Gamma{}, 0.5},
		{Gaussian{}, 0.8},
		{Noise{}, 0.01},
		{Pixel{Kind: RankMin}, 3},
		{Rescale{}, 1.5},
		{Rotate{}, 45},
		{Shift{Along: AxisDiagonal}, 10},
		{Skew{}, 0.4},
		{Unsharp{}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.filter.Name(), func(t *testing.T) {
			src := solid(40, 30, imgio.ChannelsRGBA, color.NRGBA{R: 120, G: 80, B: 40, A: 255})
			out, ok := tt.filter.Apply(src, tt.v)
			require.True(t, ok)
			assert.Equal(t, 40, out.Width())
			assert.Equal(t, 30, out.Height())
			assert.Equal(t, imgio.ChannelsRGBA, out.Channels)
			assert.NotSame(t, src.NRGBA, out.NRGBA, "input must stay untouched")
		})
	}
}

func TestFlipMirrors(t *testing.T) {
	src := solid(4, 4, imgio.ChannelsRGB, color.NRGBA{A: 255})
	src.NRGBA.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	out, ok := Flip{}.Apply(src, flipHorizontal)
	require.True(t, ok)
	assert.Equal(t, uint8(255), out.NRGBA.NRGBAAt(3, 0).R)

	out, ok = Flip{}.Apply(src, flipVertical)
	require.True(t, ok)
	assert.Equal(t, uint8(255), out.NRGBA.NRGBAAt(0, 3).R)
}

func TestGammaKeepsAlpha(t *testing.T) {
	src := solid(4, 4, imgio.ChannelsRGBA, color.NRGBA{R: 128, G: 128, B: 128, A: 77})
	out, ok := Gamma{}.Apply(src, 2.0)
	require.True(t, ok)

	px := out.NRGBA.NRGBAAt(1, 1)
	assert.Equal(t, uint8(77), px.A)
	assert.Less(t, px.R, uint8(128), "gamma above one darkens midtones")
}

func TestNoiseIsDeterministicPerVariance(t *testing.T) {
	src := solid(8, 8, imgio.ChannelsRGB, color.NRGBA{R: 100, G: 100, B: 100, A: 255})

	a, ok := Noise{}.Apply(src, 0.02)
	require.True(t, ok)
	b, ok := Noise{}.Apply(src, 0.02)
	require.True(t, ok)
	assert.Equal(t, a.NRGBA.Pix, b.NRGBA.Pix, "same variance must reproduce the same pattern")
}

func TestPixelDeclinesOversizedWindow(t *testing.T) {
	small := solid(64, 64, imgio.ChannelsRGB, color.NRGBA{A: 255})

	_, ok := Pixel{Kind: RankMin}.Apply(small, 7)
	assert.False(t, ok, "a 7px window exceeds the 64px admissibility limit")

	out, ok := Pixel{Kind: RankMin}.Apply(small, 5)
	require.True(t, ok)
	assert.Equal(t, 64, out.Width())
}

func TestMaxRankWindow(t *testing.T) {
	tests := []struct {
		dim  int
		want int
	}{
		{10, 1},
		{16, 1},
		{30, 3},
		{64, 5},
		{100, 7},
		{256, 9},
		{1000, 13},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, maxRankWindow(tt.dim), "dim %d", tt.dim)
	}
}

func TestRotateDeclinesZeroAngle(t *testing.T) {
	src := solid(10, 10, imgio.ChannelsRGB, color.NRGBA{A: 255})
	_, ok := Rotate{}.Apply(src, 0)
	assert.False(t, ok)
}

func TestRotateBackground(t *testing.T) {
	opaque := solid(20, 20, imgio.ChannelsRGB, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	out, ok := Rotate{}.Apply(opaque, 45)
	require.True(t, ok)
	corner := out.NRGBA.NRGBAAt(0, 0)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, corner, "opaque images rotate onto white")

	alpha := solid(20, 20, imgio.ChannelsRGBA, color.NRGBA{R: 1, G: 2, B: 3, A: 128})
	out, ok = Rotate{}.Apply(alpha, 45)
	require.True(t, ok)
	assert.Equal(t, uint8(0), out.NRGBA.NRGBAAt(0, 0).A, "alpha images rotate onto transparency")
}

func TestShiftGuards(t *testing.T) {
	src := solid(100, 50, imgio.ChannelsRGB, color.NRGBA{A: 255})

	tests := []struct {
		name string
		axis Axis
		v    float64
		ok   bool
	}{
		{"horizontal within width", AxisHorizontal, 99, true},
		{"horizontal at width declines", AxisHorizontal, 100, false},
		{"vertical within height", AxisVertical, 49, true},
		{"vertical at height declines", AxisVertical, 50, false},
		{"diagonal bound by smaller dim", AxisDiagonal, 49, true},
		{"diagonal at smaller dim declines", AxisDiagonal, 50, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Shift{Along: tt.axis}.Apply(src, tt.v)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestShiftWrapsAround(t *testing.T) {
	src := solid(10, 10, imgio.ChannelsRGB, color.NRGBA{A: 255})
	src.NRGBA.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	out, ok := Shift{Along: AxisHorizontal}.Apply(src, 3)
	require.True(t, ok)
	assert.Equal(t, uint8(255), out.NRGBA.NRGBAAt(3, 0).R, "marker moves right by the shift")
	assert.Equal(t, uint8(0), out.NRGBA.NRGBAAt(0, 0).R, "origin now holds wrapped content")
}

func TestSkewDeclinesInvisibleShear(t *testing.T) {
	src := solid(20, 20, imgio.ChannelsRGB, color.NRGBA{A: 255})

	_, ok := Skew{}.Apply(src, 0.01)
	assert.False(t, ok)
	_, ok = Skew{}.Apply(src, -0.04)
	assert.False(t, ok)

	out, ok := Skew{}.Apply(src, 0.4)
	require.True(t, ok)
	assert.Equal(t, 20, out.Width())
}
