package images

import (
	"math/rand"
	"testing"
)

// Benchmark cases cover the overlap shapes NMS sees in practice: the early
// return for disjoint boxes, the full calculation path, and a mixed batch.

// BenchmarkIoU_NonOverlapping tests performance with rectangles that don't
// overlap. This is the most optimized path: it returns early when the
// intersection width or height is non-positive.
func BenchmarkIoU_NonOverlapping(b *testing.B) {
	r1 := Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}
	r2 := Rect{X1: 200, Y1: 200, X2: 300, Y2: 300}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = r1.IoU(r2)
	}
}

// BenchmarkIoU_PartialOverlap tests the common detection scenario where two
// predictions partially cover the same object.
func BenchmarkIoU_PartialOverlap(b *testing.B) {
	r1 := Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}
	r2 := Rect{X1: 50, Y1: 50, X2: 150, Y2: 150}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = r1.IoU(r2)
	}
}

// BenchmarkIoU_RandomPairs simulates a varied suppression workload with
// pre-generated random rectangle pairs.
func BenchmarkIoU_RandomPairs(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	pairs := make([]struct{ r1, r2 Rect }, 1000)
	for i := range pairs {
		x1, y1 := float32(rng.Intn(1920)), float32(rng.Intn(1080))
		w1, h1 := float32(rng.Intn(300)+20), float32(rng.Intn(300)+20)
		x2, y2 := float32(rng.Intn(1920)), float32(rng.Intn(1080))
		w2, h2 := float32(rng.Intn(300)+20), float32(rng.Intn(300)+20)

		pairs[i].r1 = Rect{X1: x1, Y1: y1, X2: x1 + w1, Y2: y1 + h1}
		pairs[i].r2 = Rect{X1: x2, Y1: y2, X2: x2 + w2, Y2: y2 + h2}
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		pair := pairs[i%len(pairs)]
		_ = pair.r1.IoU(pair.r2)
	}
}
