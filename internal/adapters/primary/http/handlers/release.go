package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"herd-api/internal/adapters/primary/http/dto"
	ports "herd-api/internal/core/ports/output"
)

func (h *Handler) ListReleases(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.ReleaseFilter{Limit: clampLimit(limit), Offset: offset}
	if raw := c.Query("iteration_id"); raw != "" {
		iterationID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid iteration id"})
			return
		}
		filter.IterationID = iterationID
	}

	releases, total, err := h.releaseSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list releases failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListResponse(releases, total, filter.Limit, filter.Offset, dto.ToReleaseResponse))
}

func (h *Handler) GetRelease(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid release id"})
		return
	}

	release, err := h.releaseSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReleaseResponse(release))
}
