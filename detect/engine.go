package detect

import (
	"context"
	"image"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

const (
	// inputSize is the model input resolution on both axes.
	inputSize = 640
	// numAnchors is the number of candidate boxes a YOLOv8 640x640 head emits.
	numAnchors = 8400
)

// Options configure a detection engine.
type Options struct {
	// ModelPath points at the .onnx weights.
	ModelPath string
	// LibraryPath points at the ONNX Runtime shared library. Empty selects
	// the per-platform default under third_party/.
	LibraryPath string
	// Classes are the model's output class names, in training order.
	Classes []string
	// ConfThreshold drops anchors whose best class score is below it.
	ConfThreshold float32
	// IoUThreshold controls how aggressively overlapping boxes are merged.
	IoUThreshold float32
}

// The ONNX Runtime environment is process-wide: the shared library is
// loaded once and stays loaded, whichever engine initializes it first.
var (
	ortOnce    sync.Once
	ortInitErr error
)

func initRuntime(libPath string) error {
	ortOnce.Do(func() {
		if libPath == "" {
			libPath = defaultLibraryPath()
		}
		if _, err := os.Stat(libPath); err != nil {
			ortInitErr = errors.Wrapf(err, "onnxruntime library not found at %s", libPath)
			return
		}
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			ortInitErr = errors.Wrap(err, "initialize onnxruntime environment")
		}
	})
	return ortInitErr
}

func defaultLibraryPath() string {
	if runtime.GOOS == "windows" {
		return "third_party/onnxruntime.dll"
	}
	if runtime.GOOS == "darwin" {
		if runtime.GOARCH == "arm64" {
			return "third_party/onnxruntime_arm64.dylib"
		}
		return "third_party/onnxruntime_amd64.dylib"
	}
	if runtime.GOARCH == "arm64" {
		return "third_party/onnxruntime_arm64.so"
	}
	return "third_party/onnxruntime.so"
}

// Engine runs a YOLOv8 model through a reusable ONNX Runtime session.
//
// The session binds fixed input and output tensors, so concurrent Detect
// calls are serialized with a mutex rather than racing on the buffers.
type Engine struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]

	classes []string
	conf    float32
	iou     float32
	log     *zap.Logger

	mu     sync.Mutex
	closed bool
}

var _ Detector = (*Engine)(nil)

// NewEngine loads the model at opts.ModelPath and prepares an inference
// session for it.
//
// Arguments:
//   - opts: Model location, class catalog, and thresholds.
//   - log: Destination for per-inference debug logging.
//
// Returns:
//   - *Engine: The ready engine.
//   - error: An error if the runtime, tensors, or session cannot be created.
func NewEngine(opts Options, log *zap.Logger) (*Engine, error) {
	if len(opts.Classes) == 0 {
		return nil, errors.New("no output classes configured")
	}
	if _, err := os.Stat(opts.ModelPath); err != nil {
		return nil, errors.Wrapf(err, "model weights not found at %s", opts.ModelPath)
	}
	if err := initRuntime(opts.LibraryPath); err != nil {
		return nil, err
	}

	inputShape := ort.NewShape(1, 3, inputSize, inputSize)
	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, errors.Wrap(err, "create input tensor")
	}

	outputShape := ort.NewShape(1, int64(4+len(opts.Classes)), numAnchors)
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy() // Clean up input tensor if output tensor creation fails
		return nil, errors.Wrap(err, "create output tensor")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrap(err, "create session options")
	}
	defer options.Destroy()

	// Sets the number of threads used to parallelize execution within onnxruntime graph nodes. A value of 0 uses the default number of threads.
	options.SetIntraOpNumThreads(4)
	// Sets the number of threads used to parallelize execution across separate onnxruntime graph nodes. A value of 0 uses the default number of threads.
	options.SetInterOpNumThreads(2)
	// Sets the optimization level to apply when loading a graph.
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	session, err := ort.NewAdvancedSession(
		opts.ModelPath,
		[]string{"images"},
		[]string{"output0"},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrapf(err, "create session for %s", opts.ModelPath)
	}

	return &Engine{
		session: session,
		input:   inputTensor,
		output:  outputTensor,
		classes: opts.Classes,
		conf:    opts.ConfThreshold,
		iou:     opts.IoUThreshold,
		log:     log.Named("detect"),
	}, nil
}

// Classes returns the engine's output class catalog.
func (e *Engine) Classes() []string {
	return e.classes
}

// Detect runs the model on img and returns suppressed detections in source
// pixel coordinates, strongest first.
func (e *Engine) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, errors.New("engine is closed")
	}

	start := time.Now()
	if err := PrepareInput(img, e.input.GetData()); err != nil {
		return nil, errors.Wrap(err, "prepare input")
	}
	if err := e.session.Run(); err != nil {
		return nil, errors.Wrap(err, "run inference")
	}

	bounds := img.Bounds()
	candidates := decodeOutput(e.output.GetData(), e.classes, bounds.Dx(), bounds.Dy(), e.conf)
	kept := nonMaxSuppression(candidates, e.iou)

	e.log.Debug("inference complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("detections", len(kept)),
		zap.Duration("elapsed", time.Since(start)))

	return kept, nil
}

// Warmup runs one pass over a zeroed input so the first real request does
// not pay the lazy graph-initialization cost.
func (e *Engine) Warmup() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.New("engine is closed")
	}

	clear(e.input.GetData())
	return errors.Wrap(e.session.Run(), "warmup run")
}

// Close releases the session and its tensors. The engine cannot be used
// afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	var first error
	if err := e.session.Destroy(); err != nil {
		first = err
	}
	if err := e.input.Destroy(); err != nil && first == nil {
		first = err
	}
	if err := e.output.Destroy(); err != nil && first == nil {
		first = err
	}
	return errors.Wrap(first, "destroy session")
}
