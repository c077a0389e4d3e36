// Package detect runs YOLOv8 object detection through ONNX Runtime.
//
// An Engine owns one inference session with fixed input and output tensors.
// Construction is expensive (the runtime loads and optimizes the graph
// once), inference afterwards is cheap and serialized by a mutex.
package detect

import (
	"context"
	"image"

	"github.com/damagelens/go-estimate/images"
)

// Detection is one detected region in source image pixel coordinates.
type Detection struct {
	Box       images.Rect
	Score     float32
	ClassID   int
	ClassName string
}

// Detector produces detections for an image.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Detection, error)
	Close() error
}

// CountByClass tallies detections per class ID.
func CountByClass(dets []Detection) map[int]int {
	counts := make(map[int]int, len(dets))
	for _, d := range dets {
		counts[d.ClassID]++
	}
	return counts
}
