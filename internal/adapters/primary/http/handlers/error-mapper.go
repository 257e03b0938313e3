package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"credit-scoring-api/internal/adapters/primary/http/dto"
	"credit-scoring-api/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrArtifactNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: err.Error()})

	// Schema, shape and validation errors
	case errors.Is(err, domain.ErrIDColumnMissing),
		errors.Is(err, domain.ErrDuplicateClientID),
		errors.Is(err, domain.ErrFeatureMismatch),
		errors.Is(err, domain.ErrFeatureShape),
		errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: err.Error()})

	case errors.Is(err, domain.ErrInvalidAPIKey):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Detail: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: "internal server error"})
	}
}
