package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"herd-api/internal/adapters/primary/http/dto"
)

func (h *Handler) HandleBranchCommit(c *gin.Context) {
	var req dto.BranchCommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.WithFields(log.Fields{
		"repo":    req.RepoName,
		"feature": req.FeatureName,
		"branch":  req.BranchName,
		"commit":  req.CommitHash,
	}).Info("handling branch commit")

	iteration, err := h.commitSvc.HandleBranchCommit(c.Request.Context(),
		req.RepoName, req.FeatureName, req.BranchName, req.CommitHash)
	if err != nil {
		log.WithError(err).Error("handle branch commit failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BranchCommitResponse{IterationID: iteration.ID})
}

func (h *Handler) HandleBuild(c *gin.Context) {
	var req dto.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.WithFields(log.Fields{
		"service": req.ServiceName,
		"branch":  req.BranchName,
		"commit":  req.CommitHash,
		"image":   req.ImageName,
	}).Info("handling build")

	result, err := h.buildSvc.HandleBuild(c.Request.Context(),
		req.ServiceName, req.BranchName, req.MergeBaseCommitHash, req.CommitHash, req.ImageName)
	if err != nil {
		log.WithError(err).Error("handle build failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BuildResponse{
		IterationID:   result.Iteration.ID,
		ReleaseID:     result.Release.ID,
		ConfigID:      result.Config.ID,
		KeyValuePairs: result.Config.KeyValuePairs,
		Dispatched:    result.Dispatched,
	})
}

func (h *Handler) HandleImageBuilt(c *gin.Context) {
	var req dto.ImageBuiltRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.WithFields(log.Fields{
		"commit": req.CommitHash,
		"image":  req.ImageName,
	}).Info("handling image built")

	result, err := h.buildSvc.HandleImageBuilt(c.Request.Context(), req.CommitHash, req.ImageName)
	if err != nil {
		log.WithError(err).Error("handle image built failed")
		mapDomainError(c, err)
		return
	}

	releaseIDs := make([]uuid.UUID, 0, len(result.Releases))
	for _, r := range result.Releases {
		releaseIDs = append(releaseIDs, r.ID)
	}

	c.JSON(http.StatusOK, dto.ImageBuiltResponse{
		IterationID: result.Iteration.ID,
		ReleaseIDs:  releaseIDs,
		Dispatched:  result.Dispatched,
	})
}
