package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damagelens/go-estimate/images"
)

func TestNonMaxSuppressionDropsOverlap(t *testing.T) {
	// The first two boxes cover the same region (IoU ≈ 0.68); the third is
	// far away. Input arrives sorted by score, as decodeOutput guarantees.
	dets := []Detection{
		{Box: images.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}, Score: 0.9, ClassID: 0},
		{Box: images.Rect{X1: 10, Y1: 10, X2: 110, Y2: 110}, Score: 0.8, ClassID: 1},
		{Box: images.Rect{X1: 300, Y1: 300, X2: 400, Y2: 400}, Score: 0.7, ClassID: 2},
	}

	kept := nonMaxSuppression(dets, 0.5)
	require.Len(t, kept, 2)
	assert.Equal(t, float32(0.9), kept[0].Score)
	assert.Equal(t, float32(0.7), kept[1].Score)
}

func TestNonMaxSuppressionKeepsBelowThreshold(t *testing.T) {
	// IoU ≈ 0.087, well under the threshold, so both survive.
	dets := []Detection{
		{Box: images.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}, Score: 0.9},
		{Box: images.Rect{X1: 60, Y1: 60, X2: 160, Y2: 160}, Score: 0.8},
	}
	assert.Len(t, nonMaxSuppression(dets, 0.5), 2)
}

func TestNonMaxSuppressionGreedyChain(t *testing.T) {
	// B overlaps A and is suppressed; C overlaps B but not A, so C survives
	// because suppressed boxes cannot knock out later ones.
	dets := []Detection{
		{Box: images.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}, Score: 0.9},
		{Box: images.Rect{X1: 50, Y1: 0, X2: 150, Y2: 100}, Score: 0.8},
		{Box: images.Rect{X1: 100, Y1: 0, X2: 200, Y2: 100}, Score: 0.7},
	}

	kept := nonMaxSuppression(dets, 0.3)
	require.Len(t, kept, 2)
	assert.Equal(t, float32(0.9), kept[0].Score)
	assert.Equal(t, float32(0.7), kept[1].Score)
}

func TestNonMaxSuppressionEmpty(t *testing.T) {
	assert.Nil(t, nonMaxSuppression(nil, 0.5))
	assert.Nil(t, nonMaxSuppression([]Detection{}, 0.5))
}

func TestNonMaxSuppressionSingle(t *testing.T) {
	dets := []Detection{{Box: images.Rect{X1: 5, Y1: 5, X2: 50, Y2: 50}, Score: 0.6}}
	assert.Equal(t, dets, nonMaxSuppression(dets, 0.7))
}
