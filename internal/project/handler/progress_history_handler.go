package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buildpro/internal/project/model"
	"buildpro/internal/project/repository"
)

type ProgressHistoryHandler struct {
	repo   *repository.ProgressHistoryRepository
	logger *zap.Logger
}

func NewProgressHistoryHandler(repo *repository.ProgressHistoryRepository, logger *zap.Logger) *ProgressHistoryHandler {
	return &ProgressHistoryHandler{repo: repo, logger: logger}
}

func (h *ProgressHistoryHandler) ListByProject(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid project id"})
		return
	}

	history, err := h.repo.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("ListByProject: failed to fetch progress history", zap.Int("project_id", projectID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch progress history"})
		return
	}

	if history == nil {
		history = []model.ProgressHistory{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    history,
		"count":   len(history),
	})
}

type upsertHistoryRequest struct {
	ProjectID       int     `json:"project_id" binding:"required"`
	RecordDate      string  `json:"record_date" binding:"required"`
	PlannedProgress float64 `json:"planned_progress"`
	ActualProgress  float64 `json:"actual_progress"`
	Notes           string  `json:"notes"`
}

func (h *ProgressHistoryHandler) Upsert(c *gin.Context) {
	var req upsertHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	recordDate, err := time.Parse("2006-01-02", req.RecordDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "record_date must be YYYY-MM-DD"})
		return
	}

	err = h.repo.Upsert(c.Request.Context(), req.ProjectID, recordDate, req.PlannedProgress, req.ActualProgress, req.Notes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to save progress history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Progress history saved"})
}
