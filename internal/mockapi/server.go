// Package mockapi is an in-memory stand-in for the Surge platform API.
//
// It backs the surge-apistub binary and end-to-end tests of the client.
// Resources live in process memory; lifecycle transitions happen only
// through the Step* methods, mirroring how the real platform moves
// resources forward between polls.
package mockapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	apift "github.com/surgegrid/surge/pkg/api/types/finetunes"
	apijobs "github.com/surgegrid/surge/pkg/api/types/jobs"
	"github.com/surgegrid/surge/pkg/api/types/misc/rfctime"
	apimodels "github.com/surgegrid/surge/pkg/api/types/models"
	"github.com/surgegrid/surge/pkg/api/types/status"
	"github.com/surgegrid/surge/pkg/utils"
)

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(c echo.Context, code int, format string, a ...any) error {
	return c.JSON(code, errorResponse{Error: fmt.Sprintf(format, a...)})
}

// Server holds the platform state.
type Server struct {
	mu sync.Mutex

	// Token, when set, is required as "Authorization: Bearer <Token>".
	Token string

	jobs      map[string]*apijobs.Detail
	jobLogs   map[string][]string
	finetunes map[string]*apift.Detail
	ftLogs    map[string][]string
	models    map[string]*apimodels.Detail
	artifacts map[string][]byte

	now func() time.Time
}

func New() *Server {
	return &Server{
		jobs:      map[string]*apijobs.Detail{},
		jobLogs:   map[string][]string{},
		finetunes: map[string]*apift.Detail{},
		ftLogs:    map[string][]string{},
		models:    map[string]*apimodels.Detail{},
		artifacts: map[string][]byte{},
		now:       time.Now,
	}
}

// Handler builds the http.Handler serving the platform API.
func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true

	e.Use(s.authorize)

	e.GET("/jobs", s.findJobs)
	e.POST("/jobs", s.createJob)
	e.GET("/jobs/:id", s.getJob)
	e.POST("/jobs/:id/cancel", s.cancelJob)
	e.GET("/jobs/:id/logs", s.jobLogs_)

	e.GET("/finetune", s.findFinetunes)
	e.POST("/finetune", s.createFinetune)
	e.GET("/finetune/:id", s.getFinetune)
	e.POST("/finetune/:id/cancel", s.cancelFinetune)
	e.POST("/finetune/:id/deploy", s.deployFinetune)
	e.POST("/finetune/:id/download", s.downloadFinetune)
	e.GET("/finetune/:id/logs", s.finetuneLogs)

	e.GET("/models", s.findModels)
	e.POST("/models/:id/refresh", s.refreshModel)

	e.GET("/artifacts/:id", s.fetchArtifact)

	return e
}

func (s *Server) authorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.Token == "" {
			return next(c)
		}
		auth := c.Request().Header.Get("Authorization")
		if auth != "Bearer "+s.Token {
			return errorJSON(c, http.StatusUnauthorized, "token expired")
		}
		return next(c)
	}
}

// jobs

func (s *Server) findJobs(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]apijobs.Detail, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, *j)
	}
	jobs = utils.Sorted(jobs, func(a, b apijobs.Detail) bool {
		return a.JobId < b.JobId
	})

	return c.JSON(http.StatusOK, map[string][]apijobs.Detail{"jobs": jobs})
}

func (s *Server) getJob(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[c.Param("id")]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "job %s is not found", c.Param("id"))
	}
	return c.JSON(http.StatusOK, *job)
}

func (s *Server) createJob(c echo.Context) error {
	spec := new(apijobs.Spec)
	if err := c.Bind(spec); err != nil {
		return errorJSON(c, http.StatusBadRequest, "broken job spec")
	}
	if spec.Name == "" {
		return errorJSON(c, http.StatusBadRequest, "job name is required")
	}
	switch spec.Source {
	case apijobs.SourceHuggingFace:
		if spec.HFRepo == "" {
			return errorJSON(c, http.StatusBadRequest, "hf_repo is required for source huggingface")
		}
	case apijobs.SourceDocker:
		if spec.Image == "" {
			return errorJSON(c, http.StatusBadRequest, "image is required for source docker")
		}
	default:
		return errorJSON(c, http.StatusBadRequest, "unknown source: %s", spec.Source)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := rfctime.New(s.now())
	job := &apijobs.Detail{
		Summary: apijobs.Summary{
			JobId:     "job-" + uuid.NewString()[:8],
			Name:      spec.Name,
			Status:    status.Pending,
			GPUType:   spec.GPUType,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Source: spec.Source,
		HFRepo: spec.HFRepo,
		Image:  spec.Image,
	}
	if gpu, ok := spec.Resources["gpu"]; ok {
		job.GPUCount = int(gpu.Value())
	}
	s.jobs[job.JobId] = job

	return c.JSON(http.StatusCreated, *job)
}

func (s *Server) cancelJob(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[c.Param("id")]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "job %s is not found", c.Param("id"))
	}
	if job.Status.Terminal() {
		return errorJSON(c, http.StatusConflict, "job %s is already terminal", job.JobId)
	}

	job.Status = status.Cancelled
	job.UpdatedAt = rfctime.New(s.now())
	return c.JSON(http.StatusOK, *job)
}

func (s *Server) jobLogs_(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[c.Param("id")]; !ok {
		return errorJSON(c, http.StatusNotFound, "job %s is not found", c.Param("id"))
	}

	lines := s.jobLogs[c.Param("id")]
	if t := c.QueryParam("tail"); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil || n < 0 {
			return errorJSON(c, http.StatusBadRequest, `"tail" should be a non-negative integer`)
		}
		if n < len(lines) {
			lines = lines[len(lines)-n:]
		}
	}

	text := strings.Join(lines, "\n")
	if text != "" {
		text += "\n"
	}
	return c.JSON(http.StatusOK, map[string]string{"logs": text})
}

// finetunes

func (s *Server) findFinetunes(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	finetunes := make([]apift.Detail, 0, len(s.finetunes))
	for _, f := range s.finetunes {
		finetunes = append(finetunes, *f)
	}
	finetunes = utils.Sorted(finetunes, func(a, b apift.Detail) bool {
		return a.FinetuneId < b.FinetuneId
	})

	return c.JSON(http.StatusOK, map[string][]apift.Detail{"finetune_jobs": finetunes})
}

func (s *Server) getFinetune(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	finetune, ok := s.finetunes[c.Param("id")]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "finetune %s is not found", c.Param("id"))
	}
	return c.JSON(http.StatusOK, *finetune)
}

func (s *Server) createFinetune(c echo.Context) error {
	spec := new(apift.Spec)
	if err := c.Bind(spec); err != nil {
		return errorJSON(c, http.StatusBadRequest, "broken finetune spec")
	}
	if spec.Name == "" {
		return errorJSON(c, http.StatusBadRequest, "finetune name is required")
	}
	if spec.BaseModel == "" {
		return errorJSON(c, http.StatusBadRequest, "base_model is required")
	}
	if spec.Dataset == "" {
		return errorJSON(c, http.StatusBadRequest, "dataset is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := rfctime.New(s.now())
	finetune := &apift.Detail{
		Summary: apift.Summary{
			FinetuneId: "ft-" + uuid.NewString()[:8],
			Name:       spec.Name,
			Status:     status.Pending,
			BaseModel:  spec.BaseModel,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		Dataset: spec.Dataset,
		Epochs:  spec.Epochs,
		GPUType: spec.GPUType,
	}
	s.finetunes[finetune.FinetuneId] = finetune

	return c.JSON(http.StatusCreated, *finetune)
}

func (s *Server) cancelFinetune(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	finetune, ok := s.finetunes[c.Param("id")]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "finetune %s is not found", c.Param("id"))
	}
	if finetune.Status.Terminal() {
		return errorJSON(c, http.StatusConflict, "finetune %s is already terminal", finetune.FinetuneId)
	}

	finetune.Status = status.Cancelled
	finetune.UpdatedAt = rfctime.New(s.now())
	return c.JSON(http.StatusOK, *finetune)
}

func (s *Server) deployFinetune(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	finetune, ok := s.finetunes[c.Param("id")]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "finetune %s is not found", c.Param("id"))
	}
	if finetune.Status != status.Completed {
		return errorJSON(c, http.StatusConflict, "finetune %s is not completed", finetune.FinetuneId)
	}

	model := &apimodels.Detail{
		ModelId:    "model-" + uuid.NewString()[:8],
		Name:       finetune.Name,
		Status:     status.Starting,
		DeployedAt: rfctime.New(s.now()),
	}
	s.models[model.ModelId] = model

	return c.JSON(http.StatusOK, apift.Deployment{InstanceName: model.Name})
}

func (s *Server) downloadFinetune(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	finetune, ok := s.finetunes[c.Param("id")]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "finetune %s is not found", c.Param("id"))
	}
	if finetune.Status != status.Completed {
		return errorJSON(c, http.StatusConflict, "finetune %s is not completed", finetune.FinetuneId)
	}
	if _, ok := s.artifacts[finetune.FinetuneId]; !ok {
		return errorJSON(c, http.StatusConflict, "finetune %s has no artifact", finetune.FinetuneId)
	}

	scheme := "http"
	if c.Request().TLS != nil {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/artifacts/%s", scheme, c.Request().Host, finetune.FinetuneId)
	return c.JSON(http.StatusOK, apift.Artifact{DownloadURL: url})
}

func (s *Server) fetchArtifact(c echo.Context) error {
	s.mu.Lock()
	content, ok := s.artifacts[c.Param("id")]
	s.mu.Unlock()

	if !ok {
		return errorJSON(c, http.StatusNotFound, "artifact %s is not found", c.Param("id"))
	}
	return c.Blob(http.StatusOK, "application/octet-stream", content)
}

func (s *Server) finetuneLogs(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.finetunes[c.Param("id")]; !ok {
		return errorJSON(c, http.StatusNotFound, "finetune %s is not found", c.Param("id"))
	}

	lines := s.ftLogs[c.Param("id")]
	text := strings.Join(lines, "\n")
	if text != "" {
		text += "\n"
	}
	return c.JSON(http.StatusOK, map[string]string{"logs": text})
}

// models

func (s *Server) findModels(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	models := make([]apimodels.Detail, 0, len(s.models))
	for _, m := range s.models {
		models = append(models, *m)
	}
	models = utils.Sorted(models, func(a, b apimodels.Detail) bool {
		return a.ModelId < b.ModelId
	})

	return c.JSON(http.StatusOK, map[string][]apimodels.Detail{"models": models})
}

func (s *Server) refreshModel(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	model, ok := s.models[c.Param("id")]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "model %s is not found", c.Param("id"))
	}

	// a refresh makes a starting instance come up
	if model.Status == status.Starting {
		model.Status = status.Running
		model.OllamaURL = fmt.Sprintf("http://%s.serve.invalid", model.ModelId)
	}
	return c.JSON(http.StatusOK, *model)
}

// state manipulation for tests and the stub CLI

// PutJob registers a job as-is.
func (s *Server) PutJob(job apijobs.Detail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobId] = &job
}

// PutFinetune registers a fine-tuning job as-is.
func (s *Server) PutFinetune(finetune apift.Detail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finetunes[finetune.FinetuneId] = &finetune
}

// PutModel registers a model instance as-is.
func (s *Server) PutModel(model apimodels.Detail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[model.ModelId] = &model
}

// PutArtifact stores downloadable weights for a fine-tuning job.
func (s *Server) PutArtifact(finetuneId string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[finetuneId] = content
}

// AppendJobLog adds a log line to a job.
func (s *Server) AppendJobLog(jobId string, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobLogs[jobId] = append(s.jobLogs[jobId], line)
}

// AppendFinetuneLog adds a log line to a fine-tuning job.
func (s *Server) AppendFinetuneLog(finetuneId string, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ftLogs[finetuneId] = append(s.ftLogs[finetuneId], line)
}

// StepJob moves a job to the given status, as the platform would between
// polls.
func (s *Server) StepJob(jobId string, to status.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobId]
	if !ok {
		return false
	}
	job.Status = to
	job.UpdatedAt = rfctime.New(s.now())
	return true
}

// StepFinetune moves a fine-tuning job to the given status and progress.
func (s *Server) StepFinetune(finetuneId string, to status.Status, progress float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	finetune, ok := s.finetunes[finetuneId]
	if !ok {
		return false
	}
	finetune.Status = to
	finetune.Progress = progress
	finetune.UpdatedAt = rfctime.New(s.now())
	return true
}
