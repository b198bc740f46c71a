package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourorg/s3-image-nodes/internal/config"
	"github.com/yourorg/s3-image-nodes/internal/imaging"
	"github.com/yourorg/s3-image-nodes/internal/nodes"
)

type Handler struct {
	env nodes.Env
}

func NewHandler(env nodes.Env) *Handler {
	return &Handler{env: env}
}

// Nodes is the discovery endpoint: node identifiers, display labels and
// the profile names a UI would offer in a dropdown.
func (h *Handler) Nodes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"nodes":    nodes.DisplayNames(h.env),
		"profiles": h.env.Config.ProfileNames(),
	})
}

// SaveRequest is the multipart form besides the image files.
type SaveRequest struct {
	Profile        string `form:"profile" binding:"required"`
	Bucket         string `form:"bucket"`
	Prefix         string `form:"prefix"`
	FilenamePrefix string `form:"filename_prefix"`
	CustomRegion   string `form:"custom_region"`
	Metadata       string `form:"metadata"` // JSON object, optional
}

func (h *Handler) Save(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var meta map[string]any
	if req.Metadata != "" {
		if err := json.Unmarshal([]byte(req.Metadata), &meta); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "metadata is not a JSON object: " + err.Error()})
			return
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one image file is required"})
		return
	}

	images := make([]imaging.Image, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "open " + fh.Filename + ": " + err.Error()})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "read " + fh.Filename + ": " + err.Error()})
			return
		}
		img, _, _, err := imaging.Decode(data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fh.Filename + ": " + err.Error()})
			return
		}
		images = append(images, img)
	}

	results, err := nodes.NewSave(h.env).Run(c.Request.Context(), nodes.SaveInput{
		Images:         images,
		Profile:        req.Profile,
		Bucket:         req.Bucket,
		Prefix:         req.Prefix,
		FilenamePrefix: req.FilenamePrefix,
		CustomRegion:   req.CustomRegion,
		Metadata:       meta,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *Handler) Load(c *gin.Context) {
	out, err := nodes.NewLoad(h.env).Run(c.Request.Context(), nodes.LoadInput{
		Profile:   c.Query("profile"),
		Bucket:    c.Query("bucket"),
		ObjectKey: c.Query("key"),
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, gin.H{
			"width":  out.Image.Width,
			"height": out.Image.Height,
			"mask":   maskSummary(out.Mask),
			"text":   out.Text,
		})
		return
	}

	// Re-encode the normalized image, carrying the text chunks through.
	data, err := imaging.EncodePNG(out.Image, out.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// maskSummary avoids shipping the full float buffer over the wire.
func maskSummary(m imaging.Mask) gin.H {
	var max float32
	var nonzero int
	for _, v := range m.Pix {
		if v > 0 {
			nonzero++
		}
		if v > max {
			max = v
		}
	}
	return gin.H{"width": m.Width, "height": m.Height, "nonzero": nonzero, "max": max}
}

func (h *Handler) List(c *gin.Context) {
	max := 0
	if v := c.Query("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max must be an integer"})
			return
		}
		max = n
	}
	records, err := nodes.NewList(h.env).Run(c.Request.Context(), nodes.ListInput{
		Profile:    c.Query("profile"),
		Bucket:     c.Query("bucket"),
		Prefix:     c.Query("prefix"),
		MaxObjects: max,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"objects": records})
}

// ConfigInfo always answers 200; problems live inside the report.
func (h *Handler) ConfigInfo(c *gin.Context) {
	c.JSON(http.StatusOK, nodes.NewConfigInfo(h.env).Run())
}

// statusFor maps node failures to HTTP codes: caller mistakes (missing
// inputs, unknown or unconfigured profiles) are 400s, everything else is
// a gateway-side failure.
func statusFor(err error) int {
	if errors.Is(err, nodes.ErrInvalidInput) ||
		errors.Is(err, config.ErrProfileNotFound) ||
		errors.Is(err, config.ErrInvalidProfile) {
		return http.StatusBadRequest
	}
	if errors.Is(err, nodes.ErrOperation) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
