package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"herd-api/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrServiceNotFound),
		errors.Is(err, domain.ErrFeatureNotFound),
		errors.Is(err, domain.ErrBranchNotFound),
		errors.Is(err, domain.ErrIterationNotFound),
		errors.Is(err, domain.ErrConfigNotFound),
		errors.Is(err, domain.ErrPipelineNotFound),
		errors.Is(err, domain.ErrReleaseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrPipelineNameConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidServiceName),
		errors.Is(err, domain.ErrInvalidFeatureName),
		errors.Is(err, domain.ErrInvalidBranchName),
		errors.Is(err, domain.ErrInvalidCommitHash),
		errors.Is(err, domain.ErrInvalidImageName),
		errors.Is(err, domain.ErrInvalidPipelineName),
		errors.Is(err, domain.ErrBranchDeleted):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
