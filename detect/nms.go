package detect

// nonMaxSuppression drops every box that overlaps a higher-scoring kept box
// by more than iouThreshold. The input must already be sorted by descending
// score; suppression is class-agnostic, so two classes claiming the same
// region resolve to the stronger one.
func nonMaxSuppression(dets []Detection, iouThreshold float32) []Detection {
	if len(dets) == 0 {
		return nil
	}

	var kept []Detection
	used := make([]bool, len(dets))

	for i := 0; i < len(dets); i++ {
		if used[i] {
			continue
		}
		kept = append(kept, dets[i])
		used[i] = true

		for j := i + 1; j < len(dets); j++ {
			if used[j] {
				continue
			}
			if dets[i].Box.IoU(dets[j].Box) > iouThreshold {
				used[j] = true
			}
		}
	}
	return kept
}
