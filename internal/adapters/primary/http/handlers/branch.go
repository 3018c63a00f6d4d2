package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"herd-api/internal/adapters/primary/http/dto"
	"herd-api/internal/core/domain"
)

func (h *Handler) GetBranch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch id"})
		return
	}

	branch, err := h.registrySvc.GetBranch(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBranchResponse(branch))
}

func (h *Handler) DeleteBranch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch id"})
		return
	}

	if err := h.registrySvc.DeleteBranch(c.Request.Context(), id); err != nil {
		log.WithError(err).Error("delete branch failed")
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListIterations(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch id"})
		return
	}

	filter := pageFilter(c)
	iterations, total, err := h.registrySvc.ListIterations(c.Request.Context(), id, filter)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListResponse(iterations, total, filter.Limit, filter.Offset, dto.ToIterationResponse))
}

func (h *Handler) GetIteration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid iteration id"})
		return
	}

	iteration, err := h.registrySvc.GetIteration(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIterationResponse(iteration))
}

func (h *Handler) FindIteration(c *gin.Context) {
	commitHash := c.Query("commit_hash")
	if commitHash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidCommitHash.Error()})
		return
	}

	iteration, err := h.registrySvc.FindIteration(c.Request.Context(), commitHash)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIterationResponse(iteration))
}

func (h *Handler) UpdateIteration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid iteration id"})
		return
	}

	var req dto.UpdateIterationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	iteration, err := h.registrySvc.SetIterationImage(c.Request.Context(), id, req.ImageName)
	if err != nil {
		log.WithError(err).Error("update iteration failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIterationResponse(iteration))
}
