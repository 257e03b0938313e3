package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"credit-scoring-api/internal/adapters/primary/http/dto"
	"credit-scoring-api/internal/core/domain"
)

func (h *Handler) Predict(c *gin.Context) {
	var req dto.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapDomainError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	result, err := h.scoringSvc.Predict(c.Request.Context(), domain.PredictionRequest{ClientID: *req.ClientID})
	if err != nil {
		log.WithError(err).WithField("client_id", *req.ClientID).Warn("prediction failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPredictResponse(result))
}
