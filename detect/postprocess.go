package detect

import (
	"sort"

	"github.com/damagelens/go-estimate/images"
)

// decodeOutput converts the raw YOLOv8 head output into scored boxes in
// source image coordinates.
//
// The tensor is [1, 4+C, 8400] flattened row-major: for anchor i, the values
// out[i], out[8400+i], out[2*8400+i], out[3*8400+i] are the box center and
// size in 640x640 space, and out[8400*(4+c)+i] is the score for class c.
// Anchors whose best class score falls below confThreshold are dropped; the
// rest are scaled to srcW x srcH, clamped, and returned sorted by descending
// score so suppression keeps the strongest box of each cluster.
func decodeOutput(out []float32, classes []string, srcW, srcH int, confThreshold float32) []Detection {
	if len(out) < (4+len(classes))*numAnchors || len(classes) == 0 {
		return nil
	}

	var dets []Detection
	for i := 0; i < numAnchors; i++ {
		classID := 0
		best := out[numAnchors*4+i]
		for c := 1; c < len(classes); c++ {
			if score := out[numAnchors*(4+c)+i]; score > best {
				best = score
				classID = c
			}
		}
		if best < confThreshold {
			continue
		}

		xc := out[i]
		yc := out[numAnchors+i]
		w := out[2*numAnchors+i]
		h := out[3*numAnchors+i]

		box := images.Rect{
			X1: (xc - w/2) / inputSize * float32(srcW),
			Y1: (yc - h/2) / inputSize * float32(srcH),
			X2: (xc + w/2) / inputSize * float32(srcW),
			Y2: (yc + h/2) / inputSize * float32(srcH),
		}.Clamp(float32(srcW), float32(srcH))

		dets = append(dets, Detection{
			Box:       box,
			Score:     best,
			ClassID:   classID,
			ClassName: classes[classID],
		})
	}

	sort.Slice(dets, func(i, j int) bool {
		return dets[i].Score > dets[j].Score
	})
	return dets
}
