package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"herd-api/internal/core/ports/output"
	"herd-api/internal/core/services"
)

type Handler struct {
	commitSvc   *services.CommitService
	buildSvc    *services.BuildService
	registrySvc *services.RegistryService
	configSvc   *services.ConfigService
	pipelineSvc *services.PipelineService
	releaseSvc  *services.ReleaseService
	finder      *services.ConfigFinder
}

func New(
	commitSvc *services.CommitService,
	buildSvc *services.BuildService,
	registrySvc *services.RegistryService,
	configSvc *services.ConfigService,
	pipelineSvc *services.PipelineService,
	releaseSvc *services.ReleaseService,
	finder *services.ConfigFinder,
) *Handler {
	return &Handler{
		commitSvc:   commitSvc,
		buildSvc:    buildSvc,
		registrySvc: registrySvc,
		configSvc:   configSvc,
		pipelineSvc: pipelineSvc,
		releaseSvc:  releaseSvc,
		finder:      finder,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// CI hooks
	r.POST("/hooks/branch-commit", h.HandleBranchCommit)
	r.POST("/hooks/build", h.HandleBuild)
	r.POST("/hooks/image-built", h.HandleImageBuilt)

	// Services
	r.GET("/services", h.ListServices)
	r.GET("/services/:id", h.GetService)
	r.GET("/service", h.FindService)
	r.GET("/services/:id/features", h.ListFeatures)
	r.GET("/services/:id/branches", h.ListBranches)
	r.GET("/services/:id/pipelines", h.ListPipelines)

	// Branches
	r.GET("/branches/:id", h.GetBranch)
	r.DELETE("/branches/:id", h.DeleteBranch)
	r.GET("/branches/:id/iterations", h.ListIterations)

	// Iterations
	r.GET("/iterations/:id", h.GetIteration)
	r.GET("/iteration", h.FindIteration)
	r.PATCH("/iterations/:id", h.UpdateIteration)

	// Configs
	r.GET("/configs", h.ListConfigs)
	r.GET("/configs/:id", h.GetConfig)
	r.POST("/configs", h.CreateConfig)
	r.GET("/config_finder", h.FindConfig)

	// Pipelines
	r.POST("/pipelines", h.CreatePipeline)
	r.GET("/pipelines/:id", h.GetPipeline)
	r.PATCH("/pipelines/:id", h.UpdatePipeline)
	r.DELETE("/pipelines/:id", h.DeletePipeline)

	// Releases
	r.GET("/releases", h.ListReleases)
	r.GET("/releases/:id", h.GetRelease)
}

// clampLimit bounds the page size before it reaches the repositories and
// the response metadata, so page_size always reflects the query that ran.
func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func pageFilter(c *gin.Context) ports.ListFilter {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return ports.ListFilter{Limit: clampLimit(limit), Offset: offset}
}
