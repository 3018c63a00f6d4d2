package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"herd-api/internal/adapters/primary/http/dto"
)

func (h *Handler) ListConfigs(c *gin.Context) {
	filter := pageFilter(c)
	configs, total, err := h.configSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list configs failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListResponse(configs, total, filter.Limit, filter.Offset, dto.ToConfigResponse))
}

func (h *Handler) GetConfig(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid config id"})
		return
	}

	cfg, err := h.configSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConfigResponse(cfg))
}

func (h *Handler) CreateConfig(c *gin.Context) {
	var req dto.CreateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.configSvc.Create(c.Request.Context(), req.KeyValuePairs)
	if err != nil {
		log.WithError(err).Error("create config failed")
		mapDomainError(c, err)
		return
	}

	// The unit config is get-or-create; answer 200 for the existing row.
	status := http.StatusCreated
	if req.KeyValuePairs == "" {
		status = http.StatusOK
	}
	c.JSON(status, dto.ToConfigResponse(cfg))
}

// FindConfig answers what config a new release on the branch would ship
// with, without cutting one.
func (h *Handler) FindConfig(c *gin.Context) {
	branchID, err := uuid.Parse(c.Query("branch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch id"})
		return
	}

	cfg, err := h.finder.Find(c.Request.Context(), branchID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConfigResponse(cfg))
}
