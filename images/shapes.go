// Package images - image decoding, encoding, box geometry, and annotation
// drawing for uploaded photos.
package images

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
)

// Rect is a lightweight bounding box in float32 pixel coordinates.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 float32
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.1f,%.1f)-(%.1f,%.1f)", r.X1, r.Y1, r.X2, r.Y2)
}

// Area returns the box area. Degenerate boxes have zero area.
func (r Rect) Area() float32 {
	if r.X2 <= r.X1 || r.Y2 <= r.Y1 {
		return 0
	}
	return (r.X2 - r.X1) * (r.Y2 - r.Y1)
}

// IoU (Intersection over Union) measures the extent of overlap between two
// bounding boxes: Area of Intersection / Area of Union, a value in [0, 1].
//
// The intersection corners come from the maximum of the two top-left corners
// and the minimum of the two bottom-right ones; a zero or negative width or
// height means the boxes do not overlap at all. The union follows the
// principle of inclusion-exclusion:
//
//	Union(A, B) = Area(A) + Area(B) - Intersection(A, B)
//
// See also:
//   - http://ronny.rest/tutorials/module/localization_001/iou
func (r Rect) IoU(o Rect) float32 {
	ix1 := math32.Max(r.X1, o.X1)
	iy1 := math32.Max(r.Y1, o.Y1)
	ix2 := math32.Min(r.X2, o.X2)
	iy2 := math32.Min(r.Y2, o.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	inter := interW * interH

	union := r.Area() + o.Area() - inter
	if union <= 0 {
		return 0.0
	}
	return inter / union
}

// Clamp bounds the box to the [0,w] x [0,h] region.
func (r Rect) Clamp(w, h float32) Rect {
	return Rect{
		X1: math32.Min(math32.Max(r.X1, 0), w),
		Y1: math32.Min(math32.Max(r.Y1, 0), h),
		X2: math32.Min(math32.Max(r.X2, 0), w),
		Y2: math32.Min(math32.Max(r.Y2, 0), h),
	}
}

// ToImageRect converts to integral pixel coordinates for drawing.
func (r Rect) ToImageRect() image.Rectangle {
	return image.Rect(int(r.X1), int(r.Y1), int(r.X2), int(r.Y2)).Canon()
}
