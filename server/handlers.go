package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/damagelens/go-estimate/detect"
	"github.com/damagelens/go-estimate/images"
	"github.com/damagelens/go-estimate/store"
)

// User-facing messages, one per failure category. Raw error detail goes to
// the log, never into the page.
const (
	msgModelDown     = "The detection model failed to load. Cannot perform damage analysis."
	msgMissingFields = "Please select a car and upload an image."
	msgNoImage       = "Please upload an image."
	msgBadFileType   = "Invalid file type. Please upload a PNG, JPG, or JPEG image."
	msgTooLarge      = "The uploaded image is too large. Please choose a smaller file."
	msgSaveFailed    = "The image could not be saved. Please try again."
	msgBadImage      = "The image could not be read. Please upload a valid PNG, JPG, or JPEG."
	msgDetectFailed  = "Damage analysis failed. Please try again."
	msgRenderFailed  = "The annotated image could not be produced. Please try again."
)

func (s *Server) handleForm(c *gin.Context) {
	s.renderForm(c, "")
}

// renderForm shows the upload form, optionally with an inline error.
// Validation and processing failures always answer 200 with the form; the
// error string is the only failure signal the client sees.
func (s *Server) renderForm(c *gin.Context, errMsg string) {
	c.HTML(http.StatusOK, "predict.html", gin.H{
		"Brands":     s.est.Table().Brands(),
		"PricesJSON": s.pricesJS,
		"Error":      errMsg,
	})
}

func (s *Server) handlePredict(c *gin.Context) {
	// The model check runs before field validation so a broken deployment
	// reports itself even on an empty form post.
	if s.det == nil {
		s.renderForm(c, msgModelDown)
		return
	}

	// A file input left empty arrives as a plain form value, so FormFile
	// reports it the same way as a missing part.
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			s.log.Warn("upload over size limit", zap.Int64("limit", maxErr.Limit))
			s.renderForm(c, msgTooLarge)
		case c.PostForm("car_brand") != "" && c.PostForm("car_model") != "":
			s.renderForm(c, msgNoImage)
		default:
			s.renderForm(c, msgMissingFields)
		}
		return
	}
	defer file.Close()

	brand := c.PostForm("car_brand")
	model := c.PostForm("car_model")
	if brand == "" || model == "" {
		s.renderForm(c, msgMissingFields)
		return
	}

	// Sanitize before the extension check so a crafted name cannot smuggle
	// a rejected extension past validation.
	name := store.SanitizeFilename(header.Filename)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
	default:
		s.renderForm(c, msgBadFileType)
		return
	}

	pair, err := s.uploads.SaveOriginal(name, file)
	if err != nil {
		s.log.Error("save upload",
			zap.Error(err),
			zap.String("request_id", c.GetString(requestIDKey)))
		s.renderForm(c, msgSaveFailed)
		return
	}

	img, err := images.DecodeFile(s.uploads.Path(pair.Original))
	if err != nil {
		s.log.Warn("decode upload",
			zap.Error(err),
			zap.String("file", pair.Original))
		s.renderForm(c, msgBadImage)
		return
	}

	dets, err := s.det.Detect(c.Request.Context(), img)
	if err != nil {
		s.log.Error("run detection",
			zap.Error(err),
			zap.String("file", pair.Original))
		s.renderForm(c, msgDetectFailed)
		return
	}

	if len(dets) > 0 {
		boxes := make([]images.Box, len(dets))
		for i, d := range dets {
			boxes[i] = images.Box{
				Rect:    d.Box,
				Label:   fmt.Sprintf("%s %.2f", d.ClassName, d.Score),
				ClassID: d.ClassID,
			}
		}
		err = images.EncodeFile(images.Annotate(img, boxes), s.uploads.Path(pair.Detected))
	} else {
		// Both image links on the estimate page must resolve, so with
		// nothing to draw the detected name becomes a byte copy.
		err = images.CopyFile(s.uploads.Path(pair.Original), s.uploads.Path(pair.Detected))
	}
	if err != nil {
		s.log.Error("write detected image",
			zap.Error(err),
			zap.String("file", pair.Detected))
		s.renderForm(c, msgRenderFailed)
		return
	}

	breakdown := s.est.Estimate(brand, model, detect.CountByClass(dets), detect.PartName)

	s.log.Info("estimate rendered",
		zap.String("brand", brand),
		zap.String("model", model),
		zap.Int("detections", len(dets)),
		zap.Int("priced_parts", len(breakdown)),
		zap.String("request_id", c.GetString(requestIDKey)))

	c.HTML(http.StatusOK, "estimate.html", gin.H{
		"Brand":         brand,
		"Model":         model,
		"OriginalImage": "/static/uploads/" + pair.Original,
		"DetectedImage": "/static/uploads/" + pair.Detected,
		"Breakdown":     breakdown,
		"GrandTotal":    breakdown.GrandTotal(),
	})
}
