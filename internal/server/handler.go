// internal/server/handler.go
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/config"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/export"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/imagefile"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/logger"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/pipeline"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/utils"
	"github.com/SmitNfsu/image-metadata-analyzer/pkg/s3client"
)

// Handler serves the analysis endpoints.
type Handler struct {
	pipe       *pipeline.Pipeline
	cfg        *config.Config
	s3Exporter *export.S3Exporter
}

// NewHandler creates the handler. s3Exporter may be nil when S3 export
// is not configured.
func NewHandler(pipe *pipeline.Pipeline, cfg *config.Config, s3Exporter *export.S3Exporter) *Handler {
	return &Handler{pipe: pipe, cfg: cfg, s3Exporter: s3Exporter}
}

// HealthCheck surfaces OCR engine availability so a frontend can grey
// out the toggle instead of offering a no-op feature.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"ocr_available": h.pipe.OCRAvailable(),
	})
}

// Analyze accepts a multipart image upload plus the two toggles and
// responds with the consolidated metadata record. Extractor failures
// never produce a non-200; only an undecodable upload does.
func (h *Handler) Analyze(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image file provided"})
		return
	}
	if file.Size > h.cfg.Server.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file exceeds the %d byte upload limit", h.cfg.Server.MaxUploadSize)})
		return
	}
	if !s3client.IsSupportedImageFile(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file extension (want JPEG, PNG, TIFF or WEBP)"})
		return
	}

	f, err := file.Open()
	if err != nil {
		logger.Error("Failed to open upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		logger.Error("Failed to read upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}

	img, err := imagefile.Load(file.Filename, data)
	if err != nil {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	}

	opts := pipeline.Options{
		OCR:      formBool(c, "ocr", h.cfg.Detect.OCR),
		Language: formBool(c, "language", h.cfg.Detect.Language),
	}
	rec := h.pipe.Analyze(c.Request.Context(), img, opts)

	filename := export.Filename(file.Filename)

	if c.Query("download") == "1" {
		body, err := rec.MarshalIndent()
		if err != nil {
			logger.Error("Failed to serialize record: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize metadata"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/json", body)
		return
	}

	resp := gin.H{
		"metadata":        json.RawMessage(mustMarshal(rec)),
		"maps_link":       nil,
		"export_filename": filename,
	}
	if rec.GPS != nil {
		resp["maps_link"] = utils.GoogleMapsURL(rec.GPS.Latitude, rec.GPS.Longitude)
	}
	if h.s3Exporter != nil {
		url, err := h.s3Exporter.Export(c.Request.Context(), rec, file.Filename)
		if err == nil {
			resp["export_url"] = url
		}
	}

	c.JSON(http.StatusOK, resp)
}

func formBool(c *gin.Context, field string, def bool) bool {
	raw, ok := c.GetPostForm(field)
	if !ok || raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func mustMarshal(rec interface{ Marshal() ([]byte, error) }) []byte {
	data, err := rec.Marshal()
	if err != nil {
		// Record values are finite and UTF-8 by construction.
		logger.Error("Failed to serialize record: %v", err)
		return []byte("null")
	}
	return data
}
