// Command estimate runs the detection and pricing pipeline against a single
// image file, writes the annotated copy next to it, and prints the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/damagelens/go-estimate/config"
	"github.com/damagelens/go-estimate/detect"
	"github.com/damagelens/go-estimate/images"
	"github.com/damagelens/go-estimate/pricing"
)

func main() {
	defaults := config.Load()

	var (
		imagePath  string
		brand      string
		model      string
		weights    string
		pricesPath string
		onnxLib    string
		confidence float64
		iou        float64
	)
	flag.StringVar(&imagePath, "image", "", "Path to the damage photo (.png, .jpg, .jpeg)")
	flag.StringVar(&brand, "brand", "", "Car brand as named in the price table")
	flag.StringVar(&model, "model", "", "Car model as named in the price table")
	flag.StringVar(&weights, "weights", defaults.ModelPath, "Path to the ONNX damage model")
	flag.StringVar(&pricesPath, "prices", defaults.PricesPath, "Path to the price table JSON")
	flag.StringVar(&onnxLib, "onnx-lib", defaults.ONNXLibPath, "Path to the ONNX Runtime shared library")
	flag.Float64Var(&confidence, "confidence", defaults.ConfThreshold, "Detection confidence threshold")
	flag.Float64Var(&iou, "iou", defaults.IoUThreshold, "Suppression IoU threshold")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if imagePath == "" || brand == "" || model == "" {
		logger.Fatal("missing required flags",
			zap.String("usage", "estimate -image photo.jpg -brand Honda -model City"))
	}

	table, err := pricing.LoadTable(pricesPath)
	if err != nil {
		logger.Warn("price table unavailable, detections will not be priced",
			zap.String("path", pricesPath),
			zap.Error(err))
		table = pricing.Table{}
	}

	eng, err := detect.NewEngine(detect.Options{
		ModelPath:     weights,
		LibraryPath:   onnxLib,
		Classes:       detect.DamageParts,
		ConfThreshold: float32(confidence),
		IoUThreshold:  float32(iou),
	}, logger)
	if err != nil {
		logger.Fatal("load model", zap.Error(err))
	}
	defer eng.Close()

	img, err := images.DecodeFile(imagePath)
	if err != nil {
		logger.Fatal("decode image", zap.Error(err))
	}

	dets, err := eng.Detect(context.Background(), img)
	if err != nil {
		logger.Fatal("run detection", zap.Error(err))
	}

	outPath := filepath.Join(filepath.Dir(imagePath), "detected_"+filepath.Base(imagePath))
	if len(dets) > 0 {
		boxes := make([]images.Box, len(dets))
		for i, d := range dets {
			boxes[i] = images.Box{
				Rect:    d.Box,
				Label:   fmt.Sprintf("%s %.2f", d.ClassName, d.Score),
				ClassID: d.ClassID,
			}
		}
		if err := images.SaveAnnotated(imagePath, outPath, boxes); err != nil {
			logger.Fatal("write annotated image", zap.Error(err))
		}
	} else if err := images.CopyFile(imagePath, outPath); err != nil {
		logger.Fatal("write detected copy", zap.Error(err))
	}

	fmt.Printf("Detections (%d):\n", len(dets))
	for _, d := range dets {
		fmt.Printf("  %-12s score=%.2f box=%s\n", d.ClassName, d.Score, d.Box)
	}
	fmt.Printf("Annotated image: %s\n\n", outPath)

	est := pricing.NewEstimator(table, logger)
	breakdown := est.Estimate(brand, model, detect.CountByClass(dets), detect.PartName)
	if len(breakdown) == 0 {
		fmt.Printf("No priced damage for %s %s.\n", brand, model)
		return
	}

	fmt.Printf("Estimate for %s %s:\n", brand, model)
	for _, line := range breakdown {
		fmt.Printf("  %-12s x%d @ %10.2f = %12.2f\n", line.Part, line.Count, line.UnitPrice, line.Total)
	}
	fmt.Printf("  %-12s %31.2f\n", "TOTAL", breakdown.GrandTotal())
}
