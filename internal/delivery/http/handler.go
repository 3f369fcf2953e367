package http

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/ecocart/backend/config"
	"github.com/ecocart/backend/internal/domain"
	"github.com/ecocart/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *usecase.SearchService
	cfg     *config.Config
}

// NewHandler creates a new HTTP handler
func NewHandler(service *usecase.SearchService, cfg *config.Config) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Search handles POST /search: judge the given product if any, then find
// greener alternatives (or topic results when no product is given).
func (h *Handler) Search(c *gin.Context) {
	if !h.requireAPIKey(c) {
		return
	}

	// A missing or malformed body counts as an empty request
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = domain.SearchRequest{}
	}

	response, err := h.service.Search(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Judge handles POST /judge: rate a single product's environmental impact.
func (h *Handler) Judge(c *gin.Context) {
	if !h.requireAPIKey(c) {
		return
	}

	var req domain.JudgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = domain.JudgeRequest{}
	}

	response, err := h.service.Judge(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ExtractImage handles GET /extract-image?url= for a single candidate URL.
func (h *Handler) ExtractImage(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		writeError(c, http.StatusBadRequest, "bad_request", "Missing url parameter")
		return
	}

	image, dataURL := h.service.ExtractImage(c.Request.Context(), rawURL)

	body := gin.H{"image": image}
	if dataURL != "" {
		body["image_data_url"] = dataURL
	}
	c.JSON(http.StatusOK, body)
}

// ImageProxy handles GET /image-proxy?url=, streaming the fetched image
// bytes so the extension popup can render retailer images without tripping
// cross-origin rules.
func (h *Handler) ImageProxy(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		writeError(c, http.StatusBadRequest, "bad_request", "Missing url parameter")
		return
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		writeError(c, http.StatusBadRequest, "bad_request", "Only http(s) URLs are supported")
		return
	}

	data, contentType, err := h.service.FetchImage(c.Request.Context(), rawURL)
	if err != nil {
		writeError(c, http.StatusBadGateway, "fetch_failed", err.Error())
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}

// requireAPIKey rejects model-backed endpoints when no key is configured.
// Detected before any external call is attempted.
func (h *Handler) requireAPIKey(c *gin.Context) bool {
	if h.cfg.OpenAI.APIKey == "" {
		log.Printf("[HTTP] missing OPENAI_API_KEY, refusing to call OpenAI")
		writeError(c, http.StatusBadRequest, "missing_api_key", "OPENAI_API_KEY is not set on the server.")
		return false
	}
	return true
}

// writeServiceError maps usecase errors onto the response taxonomy.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(c, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrOpenAIAPI):
		writeError(c, http.StatusBadGateway, "openai_api_error", err.Error())
	default:
		log.Printf("[HTTP] unexpected error: %v", err)
		writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": code, "message": message})
}
