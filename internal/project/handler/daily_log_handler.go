package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buildpro/internal/project/model"
	"buildpro/internal/project/repository"
	"buildpro/internal/project/service"
	"buildpro/pkg/apperr"
)

type DailyLogHandler struct {
	repo     *repository.DailyLogRepository
	progress *service.ProgressService
	logger   *zap.Logger
}

func NewDailyLogHandler(repo *repository.DailyLogRepository, progress *service.ProgressService, logger *zap.Logger) *DailyLogHandler {
	return &DailyLogHandler{repo: repo, progress: progress, logger: logger}
}

func (h *DailyLogHandler) ListByProject(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid project id"})
		return
	}

	logs, err := h.repo.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("ListByProject: failed to fetch daily logs", zap.Int("project_id", projectID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch daily logs"})
		return
	}

	if logs == nil {
		logs = []model.DailyLog{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    logs,
		"count":   len(logs),
	})
}

func (h *DailyLogHandler) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid daily log id"})
		return
	}

	log, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Detail: failed to fetch daily log", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch daily log"})
		return
	}
	if log == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "daily log not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": log})
}

type dailyLogRequest struct {
	ProjectID     int     `json:"project_id"`
	LogDate       string  `json:"log_date"`
	Activity      string  `json:"activity"`
	ProgressAdded float64 `json:"progress_added"`
	Weather       string  `json:"weather"`
	WorkerCount   int     `json:"worker_count"`
	Notes         string  `json:"notes"`
}

func (req *dailyLogRequest) toModel() (*model.DailyLog, error) {
	if req.ProgressAdded < 0 || req.ProgressAdded > 100 {
		return nil, apperr.Validation("progress_added must be between 0 and 100")
	}

	logDate := time.Now()
	if req.LogDate != "" {
		d, err := time.Parse("2006-01-02", req.LogDate)
		if err != nil {
			return nil, apperr.Validation("log_date must be YYYY-MM-DD")
		}
		logDate = d
	}

	return &model.DailyLog{
		ProjectID:     req.ProjectID,
		LogDate:       logDate,
		Activity:      req.Activity,
		ProgressAdded: req.ProgressAdded,
		Weather:       req.Weather,
		WorkerCount:   req.WorkerCount,
		Notes:         req.Notes,
	}, nil
}

// recompute 在日报变更后重算项目进度，返回新进度
func (h *DailyLogHandler) recompute(c *gin.Context, projectID int, note string) (float64, bool) {
	progress, err := h.progress.RecomputeProgress(c.Request.Context(), projectID, time.Now(), note)
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Progress recompute failed", zap.Int("project_id", projectID), zap.Error(err))
			c.JSON(status, gin.H{"success": false, "message": "failed to recompute progress"})
			return 0, false
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return 0, false
	}
	return progress, true
}

func (h *DailyLogHandler) Create(c *gin.Context) {
	var req dailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.ProjectID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "project_id is required"})
		return
	}

	log, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	id, err := h.repo.Insert(c.Request.Context(), log)
	if err != nil {
		h.logger.Error("Create: failed to insert daily log", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create daily log"})
		return
	}
	log.ID = id

	progress, ok := h.recompute(c, log.ProjectID, "Daily log added")
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":              true,
		"message":              "Daily log created",
		"data":                 log,
		"new_project_progress": progress,
	})
}

func (h *DailyLogHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid daily log id"})
		return
	}

	existing, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Update: failed to fetch daily log", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch daily log"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "daily log not found"})
		return
	}

	var req dailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	req.ProjectID = existing.ProjectID

	log, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	log.ID = id

	ok, err := h.repo.Update(c.Request.Context(), log)
	if err != nil {
		h.logger.Error("Update: failed to update daily log", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update daily log"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "daily log not found"})
		return
	}

	progress, recomputed := h.recompute(c, log.ProjectID, "Daily log updated")
	if !recomputed {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"message":              "Daily log updated",
		"data":                 log,
		"new_project_progress": progress,
	})
}

func (h *DailyLogHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid daily log id"})
		return
	}

	existing, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Delete: failed to fetch daily log", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch daily log"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "daily log not found"})
		return
	}

	deleted, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Delete: failed to delete daily log", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete daily log"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "daily log not found"})
		return
	}

	progress, recomputed := h.recompute(c, existing.ProjectID, "Daily log deleted")
	if !recomputed {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"message":              "Daily log deleted",
		"new_project_progress": progress,
	})
}
