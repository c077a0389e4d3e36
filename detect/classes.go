package detect

// DamageParts are the output classes of the damage model, in training order.
// The IDs double as price-table lookup keys, so order changes here must be
// paired with retrained weights.
var DamageParts = []string{
	"Bonnet",
	"Bumper",
	"Dickey",
	"Door",
	"Fender",
	"Light",
	"Windshield",
}

// PartName resolves a damage class ID to its part name.
func PartName(id int) (string, bool) {
	if id < 0 || id >= len(DamageParts) {
		return "", false
	}
	return DamageParts[id], true
}

// COCOClasses for stock YOLOv8 checkpoints. The fallback model emits these
// when the damage weights are unavailable.
var COCOClasses = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat", "dog", "horse",
	"sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag", "tie",
	"suitcase", "frisbee", "skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove",
	"skateboard", "surfboard", "tennis racket", "bottle", "wine glass", "cup", "fork", "knife", "spoon",
	"bowl", "banana", "apple", "sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut",
	"cake", "chair", "couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator", "book",
	"clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}
