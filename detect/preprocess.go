package detect

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// PrepareInput fills dst with img in the layout the model expects: resized
// to 640x640 and stored planar CHW, the full red channel first, then green,
// then blue, each value scaled to [0, 1].
//
// Arguments:
//   - img: The image to prepare.
//   - dst: The destination buffer, at least 3*640*640 floats.
//
// Returns:
//   - error: An error if dst is too small to hold the planes.
func PrepareInput(img image.Image, dst []float32) error {
	channelSize := inputSize * inputSize
	if len(dst) < channelSize*3 {
		return errors.Errorf("destination holds %d floats, needs %d (make sure it's the right shape)",
			len(dst), channelSize*3)
	}
	red := dst[0:channelSize]
	green := dst[channelSize : channelSize*2]
	blue := dst[channelSize*2 : channelSize*3]

	// Resize the image to 640x640 using the Lanczos3 algorithm.
	img = resize.Resize(inputSize, inputSize, img, resize.Lanczos3)

	i := 0
	for y := 0; y < inputSize; y++ {
		for x := 0; x < inputSize; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(b>>8) / 255.0
			i++
		}
	}
	return nil
}
