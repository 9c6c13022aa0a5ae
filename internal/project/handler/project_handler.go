package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/internal/project/model"
	"buildpro/internal/project/repository"
	"buildpro/internal/project/service"
	"buildpro/pkg/apperr"
)

type ProjectHandler struct {
	repo     *repository.ProjectRepository
	svc      *service.ProjectService
	progress *service.ProgressService
	logger   *zap.Logger
}

func NewProjectHandler(
	repo *repository.ProjectRepository,
	svc *service.ProjectService,
	progress *service.ProgressService,
	logger *zap.Logger,
) *ProjectHandler {
	return &ProjectHandler{repo: repo, svc: svc, progress: progress, logger: logger}
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("List: failed to fetch projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch projects"})
		return
	}

	if projects == nil {
		projects = []model.Project{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    projects,
		"count":   len(projects),
	})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid project id"})
		return
	}

	project, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Get: failed to fetch project", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": project})
}

type projectRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Location        string  `json:"location"`
	ClientName      string  `json:"client_name"`
	Budget          string  `json:"budget"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	PlannedProgress float64 `json:"planned_progress"`
	CurrentPhase    string  `json:"current_phase"`
	Status          string  `json:"status"`
}

func (req *projectRequest) toModel() (*model.Project, error) {
	p := &model.Project{
		Name:            req.Name,
		Description:     req.Description,
		Location:        req.Location,
		ClientName:      req.ClientName,
		PlannedProgress: req.PlannedProgress,
		CurrentPhase:    req.CurrentPhase,
		Status:          req.Status,
	}

	if req.Budget != "" {
		budget, err := decimal.NewFromString(req.Budget)
		if err != nil {
			return nil, apperr.Validation("invalid budget")
		}
		p.Budget = budget
	}
	if req.StartDate != nil {
		d, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, apperr.Validation("start_date must be YYYY-MM-DD")
		}
		p.StartDate = &d
	}
	if req.EndDate != nil {
		d, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, apperr.Validation("end_date must be YYYY-MM-DD")
		}
		p.EndDate = &d
	}
	return p, nil
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	project, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	id, err := h.svc.Create(c.Request.Context(), project)
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Create: failed to create project", zap.Error(err))
			c.JSON(status, gin.H{"success": false, "message": "failed to create project"})
			return
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}
	project.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Project created",
		"data":    project,
	})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid project id"})
		return
	}

	existing, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Update: failed to fetch project", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch project"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "project not found"})
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	updated, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	updated.ID = id
	// progress 不在可更新字段里，保持原值
	updated.Progress = existing.Progress

	ok, err := h.repo.Update(c.Request.Context(), updated)
	if err != nil {
		h.logger.Error("Update: failed to update project", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update project"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Project updated",
		"data":    updated,
	})
}

type updateProgressRequest struct {
	ProjectID int      `json:"project_id" binding:"required"`
	Progress  *float64 `json:"progress" binding:"required"`
}

// UpdateProgress 手动覆盖项目进度
func (h *ProjectHandler) UpdateProgress(c *gin.Context) {
	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := h.progress.OverrideProgress(c.Request.Context(), req.ProjectID, *req.Progress); err != nil {
		status := apperr.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("UpdateProgress failed", zap.Int("project_id", req.ProjectID), zap.Error(err))
			c.JSON(status, gin.H{"success": false, "message": "failed to update progress"})
			return
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Progress updated",
		"progress": *req.Progress,
	})
}
