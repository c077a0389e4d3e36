// Command go-estimate serves the car damage repair cost estimator: photo
// upload, ONNX damage detection, and a per-part price breakdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/damagelens/go-estimate/config"
	"github.com/damagelens/go-estimate/detect"
	"github.com/damagelens/go-estimate/pricing"
	"github.com/damagelens/go-estimate/server"
	"github.com/damagelens/go-estimate/store"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	table, err := pricing.LoadTable(cfg.PricesPath)
	if err != nil {
		// An empty table keeps the server up: uploads still run detection,
		// estimates just come back empty.
		logger.Error("load price table",
			zap.String("path", cfg.PricesPath),
			zap.Error(err))
		table = pricing.Table{}
	} else {
		logger.Info("price table loaded",
			zap.String("path", cfg.PricesPath),
			zap.Int("brands", len(table)))
		if missing := table.UnpricedParts(detect.DamageParts); len(missing) > 0 {
			logger.Warn("catalog parts missing from price table",
				zap.Strings("parts", missing))
		}
	}

	det := loadDetector(cfg, logger)
	if det != nil {
		defer det.Close()
	}

	uploads, err := store.New(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatal("create upload store", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UploadTTL > 0 {
		go store.NewSweeper(uploads, cfg.UploadTTL, cfg.SweepInterval, logger).Run(ctx)
	}

	est := pricing.NewEstimator(table, logger)
	srv := server.New(server.Config{
		TemplatesGlob:  cfg.TemplatesGlob,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, logger, est, det, uploads)

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("serve", zap.Error(err))
	}
	logger.Info("server stopped")
}

// loadDetector builds the damage engine, falling back to the stock
// pretrained weights when the damage weights fail to load, and to no
// detector at all when both fail. A nil return keeps the server up; every
// prediction then reports the model as unavailable.
func loadDetector(cfg *config.Config, logger *zap.Logger) detect.Detector {
	opts := detect.Options{
		ModelPath:     cfg.ModelPath,
		LibraryPath:   cfg.ONNXLibPath,
		Classes:       detect.DamageParts,
		ConfThreshold: float32(cfg.ConfThreshold),
		IoUThreshold:  float32(cfg.IoUThreshold),
	}

	eng, err := detect.NewEngine(opts, logger)
	if err != nil {
		logger.Warn("load damage model failed, trying fallback",
			zap.String("path", cfg.ModelPath),
			zap.Error(err))

		opts.ModelPath = cfg.FallbackModelPath
		opts.Classes = detect.COCOClasses
		eng, err = detect.NewEngine(opts, logger)
		if err != nil {
			logger.Error("load fallback model failed, detection disabled",
				zap.String("path", cfg.FallbackModelPath),
				zap.Error(err))
			return nil
		}
		logger.Warn("fallback model active: generic classes, detections will not price")
	}

	if err := eng.Warmup(); err != nil {
		logger.Warn("model warmup", zap.Error(err))
	}
	logger.Info("detection model ready", zap.String("path", opts.ModelPath))
	return eng
}
