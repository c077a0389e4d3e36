// Package images - detection overlay drawing.
package images

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Box is a detection to draw: a region, the text to print next to it, and
// the class used to pick a stable color.
type Box struct {
	Rect    Rect
	Label   string
	ClassID int
}

const (
	outlineWidth = 3
	labelPadding = 2
)

// palette holds one saturated color per class, reused modulo its length.
var palette = []color.RGBA{
	{R: 230, G: 57, B: 70, A: 255},   // red
	{R: 244, G: 162, B: 97, A: 255},  // orange
	{R: 233, G: 196, B: 106, A: 255}, // sand
	{R: 42, G: 157, B: 143, A: 255},  // teal
	{R: 0, G: 119, B: 182, A: 255},   // blue
	{R: 142, G: 68, B: 173, A: 255},  // purple
	{R: 38, G: 70, B: 83, A: 255},    // slate
}

// BoxColor returns the palette color assigned to a class.
func BoxColor(classID int) color.RGBA {
	n := len(palette)
	return palette[((classID%n)+n)%n]
}

// Annotate copies src and draws every box outline with its label on the
// copy. Boxes are clipped to the image, so partially out-of-frame
// detections draw their visible portion only. The source image is never
// modified.
func Annotate(src image.Image, boxes []Box) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)

	for _, b := range boxes {
		r := b.Rect.ToImageRect().Add(bounds.Min).Intersect(bounds)
		if r.Empty() {
			continue
		}
		c := BoxColor(b.ClassID)
		drawOutline(dst, r, c)
		if b.Label != "" {
			drawLabel(dst, r, b.Label, c)
		}
	}
	return dst
}

// drawOutline paints a rectangular frame as four filled strips. Strip
// thickness grows inward so the frame never exceeds the clipped rect.
func drawOutline(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	src := image.NewUniform(c)
	w := outlineWidth
	if r.Dx() < 2*w {
		w = max(r.Dx()/2, 1)
	}
	if r.Dy() < 2*w {
		w = max(r.Dy()/2, 1)
	}

	top := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w)
	bottom := image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y)
	left := image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y)
	right := image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y)

	for _, strip := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(dst, strip, src, image.Point{}, draw.Src)
	}
}

// drawLabel prints text on a solid background sitting on the box's top
// edge. When the box touches the top of the image the banner slides inside
// the box instead of being clipped away.
func drawLabel(dst *image.RGBA, r image.Rectangle, label string, c color.RGBA) {
	face := basicfont.Face7x13
	textW := font.MeasureString(face, label).Ceil()

	bannerH := face.Height + 2*labelPadding
	banner := image.Rect(r.Min.X, r.Min.Y-bannerH, r.Min.X+textW+2*labelPadding, r.Min.Y)
	if banner.Min.Y < dst.Bounds().Min.Y {
		banner = banner.Add(image.Pt(0, bannerH))
	}
	banner = banner.Intersect(dst.Bounds())
	if banner.Empty() {
		return
	}
	draw.Draw(dst, banner, image.NewUniform(c), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(banner.Min.X+labelPadding, banner.Min.Y+labelPadding+face.Ascent),
	}
	d.DrawString(label)
}
