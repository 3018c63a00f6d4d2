package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"herd-api/internal/adapters/primary/http/dto"
)

func (h *Handler) ListServices(c *gin.Context) {
	filter := pageFilter(c)
	services, total, err := h.registrySvc.ListServices(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list services failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListResponse(services, total, filter.Limit, filter.Offset, dto.ToServiceResponse))
}

func (h *Handler) GetService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id"})
		return
	}

	svc, err := h.registrySvc.GetService(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToServiceResponse(svc))
}

func (h *Handler) FindService(c *gin.Context) {
	svc, err := h.registrySvc.FindService(c.Request.Context(), c.Query("name"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToServiceResponse(svc))
}

func (h *Handler) ListFeatures(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id"})
		return
	}

	filter := pageFilter(c)
	features, total, err := h.registrySvc.ListFeatures(c.Request.Context(), id, filter)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListResponse(features, total, filter.Limit, filter.Offset, dto.ToFeatureResponse))
}

func (h *Handler) ListBranches(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id"})
		return
	}

	filter := pageFilter(c)
	branches, total, err := h.registrySvc.ListBranches(c.Request.Context(), id, filter)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListResponse(branches, total, filter.Limit, filter.Offset, dto.ToBranchResponse))
}
