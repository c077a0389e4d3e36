// Package server wires the HTTP surface: routes, middleware, templates, and
// the predict handler that chains validation, detection, and pricing.
package server

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/damagelens/go-estimate/detect"
	"github.com/damagelens/go-estimate/pricing"
	"github.com/damagelens/go-estimate/store"
)

// Config carries the server's tunables.
type Config struct {
	// TemplatesGlob locates the HTML templates, e.g. "templates/*.html".
	TemplatesGlob string
	// MaxUploadBytes caps the request body size.
	MaxUploadBytes int64
}

// Server holds the long-lived dependencies every request shares. All of
// them are read-only after construction.
type Server struct {
	cfg     Config
	log     *zap.Logger
	est     *pricing.Estimator
	det     detect.Detector // nil when no model could be loaded
	uploads *store.Store

	// pricesJS is the table marshaled once for the form's model dropdown.
	pricesJS template.JS
	router   *gin.Engine
}

// New assembles the router. det may be nil; POST /predict then answers
// every request with the model-unavailable message.
func New(cfg Config, log *zap.Logger, est *pricing.Estimator, det detect.Detector, uploads *store.Store) *Server {
	s := &Server{
		cfg:     cfg,
		log:     log.Named("server"),
		est:     est,
		det:     det,
		uploads: uploads,
	}

	raw := []byte("{}")
	if table := est.Table(); len(table) > 0 {
		if b, err := json.Marshal(table); err == nil {
			raw = b
		} else {
			s.log.Warn("marshal price table for form", zap.Error(err))
		}
	}
	s.pricesJS = template.JS(raw)

	s.router = s.routes()
	return s
}

// Router exposes the assembled gin engine for http.Server or tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(s.log), BodyLimit(s.cfg.MaxUploadBytes))
	r.LoadHTMLGlob(s.cfg.TemplatesGlob)

	r.Static("/static/uploads", s.uploads.Dir())

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/predict")
	})
	r.GET("/predict", s.handleForm)
	r.POST("/predict", s.handlePredict)
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
