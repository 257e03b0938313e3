package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"credit-scoring-api/internal/adapters/primary/http/dto"
	"credit-scoring-api/internal/core/services"
)

const greeting = "API de scoring crédit connectée !"

type Handler struct {
	scoringSvc *services.ScoringService
	artifacts  *services.ArtifactStore
}

func New(scoringSvc *services.ScoringService, artifacts *services.ArtifactStore) *Handler {
	return &Handler{
		scoringSvc: scoringSvc,
		artifacts:  artifacts,
	}
}

// RegisterRoutes mounts the public routes. Scoring routes are registered on r
// so callers can guard them with extra middleware.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Home)
	r.POST("/predict", h.Predict)
}

func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: greeting})
}

// Healthz reports 503 until both artifacts are loaded.
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.artifacts.Ready(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
