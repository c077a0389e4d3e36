package images

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func TestAnnotateDrawsOutline(t *testing.T) {
	src := solidImage(100, 100, white)
	got := Annotate(src, []Box{{Rect: Rect{20, 20, 80, 80}, ClassID: 0}})

	c := BoxColor(0)
	// Corners and edge midpoints sit on the 3px frame.
	assert.Equal(t, c, got.RGBAAt(20, 20))
	assert.Equal(t, c, got.RGBAAt(79, 79))
	assert.Equal(t, c, got.RGBAAt(50, 21))
	assert.Equal(t, c, got.RGBAAt(21, 50))
	// The interior and the surrounding area stay untouched.
	assert.Equal(t, white, got.RGBAAt(50, 50))
	assert.Equal(t, white, got.RGBAAt(5, 50))
}

func TestAnnotateLeavesSourceUnmodified(t *testing.T) {
	src := solidImage(50, 50, white)
	_ = Annotate(src, []Box{{Rect: Rect{0, 0, 50, 50}, ClassID: 1}})
	assert.Equal(t, white, src.RGBAAt(0, 0))
}

func TestAnnotateNoBoxes(t *testing.T) {
	src := solidImage(30, 30, color.RGBA{R: 9, G: 8, B: 7, A: 255})
	got := Annotate(src, nil)
	assert.Equal(t, src.Pix, got.Pix)
}

func TestAnnotateClipsOutOfBoundsBox(t *testing.T) {
	src := solidImage(40, 40, white)

	require.NotPanics(t, func() {
		got := Annotate(src, []Box{{Rect: Rect{-50, -50, 500, 500}, ClassID: 2}})
		// The clipped frame hugs the image border.
		assert.Equal(t, BoxColor(2), got.RGBAAt(0, 0))
		assert.Equal(t, BoxColor(2), got.RGBAAt(39, 39))
		assert.Equal(t, white, got.RGBAAt(20, 20))
	})
}

func TestAnnotateSkipsEmptyBox(t *testing.T) {
	src := solidImage(40, 40, white)
	got := Annotate(src, []Box{{Rect: Rect{200, 200, 300, 300}, ClassID: 0}})
	assert.Equal(t, src.Pix, got.Pix)
}

func TestAnnotateLabelBanner(t *testing.T) {
	src := solidImage(200, 100, white)
	got := Annotate(src, []Box{{Rect: Rect{20, 30, 180, 90}, Label: "Door 0.88", ClassID: 3}})

	// The banner sits directly above the box's top edge.
	assert.Equal(t, BoxColor(3), got.RGBAAt(22, 25))
}

func TestAnnotateLabelSlidesInsideAtTopEdge(t *testing.T) {
	src := solidImage(200, 100, white)
	got := Annotate(src, []Box{{Rect: Rect{10, 0, 190, 60}, Label: "Bumper 0.91", ClassID: 1}})

	// No room above the box, so the banner is drawn inside it instead.
	assert.Equal(t, BoxColor(1), got.RGBAAt(12, 5))
}

func TestBoxColor(t *testing.T) {
	assert.Equal(t, BoxColor(0), BoxColor(len(palette)))
	assert.NotEqual(t, BoxColor(0), BoxColor(1))
	assert.NotPanics(t, func() { BoxColor(-1) })
}
