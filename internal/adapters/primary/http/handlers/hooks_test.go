package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"herd-api/internal/core/domain"
	"herd-api/internal/core/services"
	"herd-api/internal/testutil"
)

type routerFixture struct {
	serviceRepo   *testutil.MockServiceRepo
	featureRepo   *testutil.MockFeatureRepo
	branchRepo    *testutil.MockBranchRepo
	iterationRepo *testutil.MockIterationRepo
	configRepo    *testutil.MockConfigRepo
	pipelineRepo  *testutil.MockPipelineRepo
	releaseRepo   *testutil.MockReleaseRepo
	runner        *testutil.MockDeployRunner
	router        *gin.Engine
}

func setupRouter() *routerFixture {
	gin.SetMode(gin.TestMode)

	f := &routerFixture{
		serviceRepo:   new(testutil.MockServiceRepo),
		featureRepo:   new(testutil.MockFeatureRepo),
		branchRepo:    new(testutil.MockBranchRepo),
		iterationRepo: new(testutil.MockIterationRepo),
		configRepo:    new(testutil.MockConfigRepo),
		pipelineRepo:  new(testutil.MockPipelineRepo),
		releaseRepo:   new(testutil.MockReleaseRepo),
		runner:        new(testutil.MockDeployRunner),
	}

	finder := services.NewConfigFinder(f.configRepo, f.branchRepo)
	commitSvc := services.NewCommitService(f.serviceRepo, f.featureRepo, f.branchRepo, f.iterationRepo)
	buildSvc := services.NewBuildService(f.serviceRepo, f.branchRepo, f.iterationRepo, f.pipelineRepo, f.releaseRepo, finder, f.runner)
	registrySvc := services.NewRegistryService(f.serviceRepo, f.featureRepo, f.branchRepo, f.iterationRepo)
	configSvc := services.NewConfigService(f.configRepo)
	pipelineSvc := services.NewPipelineService(f.pipelineRepo, f.serviceRepo)
	releaseSvc := services.NewReleaseService(f.releaseRepo)

	h := New(commitSvc, buildSvc, registrySvc, configSvc, pipelineSvc, releaseSvc, finder)
	r := gin.New()
	api := r.Group("/api/v1/herd")
	h.RegisterRoutes(api)
	f.router = r

	return f
}

func (f *routerFixture) postJSON(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	assert.NoError(t, err)
	req, _ := http.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHandleBranchCommit(t *testing.T) {
	f := setupRouter()

	f.serviceRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Service")).Return(nil)
	f.featureRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Feature")).Return(nil)
	f.branchRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Branch")).Return(nil)
	f.iterationRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Iteration")).Return(nil)

	w := f.postJSON(t, "/api/v1/herd/hooks/branch-commit", gin.H{
		"repo_name":    "repo-x",
		"feature_name": "feature-x",
		"branch_name":  "branch-x",
		"commit_hash":  "aabbccdd11",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp["iteration_id"])
}

func TestHandleBranchCommit_MissingField(t *testing.T) {
	f := setupRouter()

	w := f.postJSON(t, "/api/v1/herd/hooks/branch-commit", gin.H{
		"repo_name":   "repo-x",
		"branch_name": "branch-x",
		"commit_hash": "aabbccdd11",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.serviceRepo.AssertNotCalled(t, "Ensure", mock.Anything, mock.Anything)
}

func TestHandleBuild(t *testing.T) {
	f := setupRouter()

	cfg := &domain.Config{ID: uuid.New(), KeyValuePairs: `"A"=>"a"`}

	f.serviceRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Service")).Return(nil)
	f.branchRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Branch")).Return(nil)
	f.iterationRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Iteration")).Return(nil)
	f.configRepo.On("LatestReleasedOnBranch", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(cfg, nil)
	f.releaseRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Release")).Return(nil)
	f.runner.On("Dispatch", mock.Anything, mock.AnythingOfType("domain.DeployEvent")).Return(nil)

	w := f.postJSON(t, "/api/v1/herd/hooks/build", gin.H{
		"service_name":           "s",
		"branch_name":            "b",
		"merge_base_commit_hash": "mb",
		"commit_hash":            "c4",
		"image_name":             "i4",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, `"A"=>"a"`, resp["key_value_pairs"])
	assert.Equal(t, true, resp["dispatched"])
}

func TestHandleImageBuilt(t *testing.T) {
	f := setupRouter()

	serviceID := uuid.New()
	branch := &domain.Branch{ID: uuid.New(), ServiceID: serviceID, Name: "b"}
	iteration := &domain.Iteration{ID: uuid.New(), BranchID: branch.ID, CommitHash: "c"}
	cfg := &domain.Config{ID: uuid.New()}
	pipelines := []*domain.Pipeline{{ID: uuid.New(), ServiceID: serviceID, Name: "qa", Automatic: true}}

	f.iterationRepo.On("GetByCommitHash", mock.Anything, "c").Return(iteration, nil)
	f.iterationRepo.On("SetImageName", mock.Anything, iteration.ID, "i").Return(nil)
	f.branchRepo.On("GetByID", mock.Anything, branch.ID).Return(branch, nil)
	f.configRepo.On("LatestReleasedOnBranch", mock.Anything, branch.ID).Return(cfg, nil)
	f.pipelineRepo.On("ListAutomaticByService", mock.Anything, serviceID).Return(pipelines, nil)
	f.releaseRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Release")).Return(nil)
	f.runner.On("Dispatch", mock.Anything, mock.AnythingOfType("domain.DeployEvent")).Return(nil)

	w := f.postJSON(t, "/api/v1/herd/hooks/image-built", gin.H{
		"commit_hash": "c",
		"image_name":  "i",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, float64(1), resp["dispatched"])
	assert.Len(t, resp["release_ids"], 1)
}

func TestHandleImageBuilt_UnknownCommit(t *testing.T) {
	f := setupRouter()

	f.iterationRepo.On("GetByCommitHash", mock.Anything, "nope").Return(nil, domain.ErrIterationNotFound)

	w := f.postJSON(t, "/api/v1/herd/hooks/image-built", gin.H{
		"commit_hash": "nope",
		"image_name":  "i",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}
