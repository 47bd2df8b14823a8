package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/proteinfinder/backend/internal/domain"
)

const maxKeywordLength = 100

// RecommendationService is the use case behind the HTTP API
type RecommendationService interface {
	Recommend(ctx context.Context, answers domain.PreferenceAnswers) (*domain.RankingResult, error)
	SearchKeyword(ctx context.Context, keyword string) *domain.RankingResult
	Fallback() *domain.RankingResult
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service RecommendationService
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil service makes the product
// endpoints answer 503.
func NewHandler(service RecommendationService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "proteinfinder-backend",
		"version": "1.0.0",
	})
}

// Recommend handles POST /api/v1/recommendations
func (h *Handler) Recommend(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var answers domain.PreferenceAnswers
	if err := c.ShouldBindJSON(&answers); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.service.Recommend(c.Request.Context(), answers)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchProducts handles GET /api/v1/products/search?q=
func (h *Handler) SearchProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "query parameter is required", Field: "q"})
		return
	}
	if len([]rune(keyword)) > maxKeywordLength {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "query is too long", Field: "q"})
		return
	}

	c.JSON(http.StatusOK, h.service.SearchKeyword(c.Request.Context(), keyword))
}

// FallbackCatalog handles GET /api/v1/catalog/fallback
func (h *Handler) FallbackCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	c.JSON(http.StatusOK, h.service.Fallback())
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "recommendation service not configured"})
		return false
	}
	return true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validation.Reason, Field: validation.Field})
		return
	}

	h.logger.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
