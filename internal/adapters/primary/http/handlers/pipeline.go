package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"herd-api/internal/adapters/primary/http/dto"
)

func (h *Handler) CreatePipeline(c *gin.Context) {
	var req dto.CreatePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	automatic := true
	if req.Automatic != nil {
		automatic = *req.Automatic
	}

	pipeline, err := h.pipelineSvc.Create(c.Request.Context(), req.ServiceID, req.Name, automatic)
	if err != nil {
		log.WithError(err).Error("create pipeline failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPipelineResponse(pipeline))
}

func (h *Handler) GetPipeline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pipeline id"})
		return
	}

	pipeline, err := h.pipelineSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPipelineResponse(pipeline))
}

func (h *Handler) ListPipelines(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id"})
		return
	}

	automaticOnly := c.Query("automatic") == "true"

	filter := pageFilter(c)
	pipelines, total, err := h.pipelineSvc.ListByService(c.Request.Context(), id, automaticOnly, filter)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListResponse(pipelines, total, filter.Limit, filter.Offset, dto.ToPipelineResponse))
}

func (h *Handler) UpdatePipeline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pipeline id"})
		return
	}

	var req dto.UpdatePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pipeline, err := h.pipelineSvc.Update(c.Request.Context(), id, req.Name, req.Automatic)
	if err != nil {
		log.WithError(err).Error("update pipeline failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPipelineResponse(pipeline))
}

func (h *Handler) DeletePipeline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pipeline id"})
		return
	}

	if err := h.pipelineSvc.Delete(c.Request.Context(), id); err != nil {
		log.WithError(err).Error("delete pipeline failed")
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
