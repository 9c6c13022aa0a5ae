package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buildpro/internal/auth"
	"buildpro/internal/project/model"
	"buildpro/internal/project/repository"
)

type TimelineNoteHandler struct {
	repo   *repository.TimelineNoteRepository
	logger *zap.Logger
}

func NewTimelineNoteHandler(repo *repository.TimelineNoteRepository, logger *zap.Logger) *TimelineNoteHandler {
	return &TimelineNoteHandler{repo: repo, logger: logger}
}

func (h *TimelineNoteHandler) ListByProject(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid project id"})
		return
	}

	notes, err := h.repo.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("ListByProject: failed to fetch timeline notes", zap.Int("project_id", projectID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch timeline notes"})
		return
	}

	if notes == nil {
		notes = []model.TimelineNote{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notes,
		"count":   len(notes),
	})
}

type timelineNoteRequest struct {
	ProjectID int    `json:"project_id"`
	NoteDate  string `json:"note_date"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

func (h *TimelineNoteHandler) Create(c *gin.Context) {
	var req timelineNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.ProjectID == 0 || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "project_id and content are required"})
		return
	}

	noteDate := time.Now()
	if req.NoteDate != "" {
		d, err := time.Parse("2006-01-02", req.NoteDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "note_date must be YYYY-MM-DD"})
			return
		}
		noteDate = d
	}

	note := &model.TimelineNote{
		ProjectID: req.ProjectID,
		NoteDate:  noteDate,
		Title:     req.Title,
		Content:   req.Content,
		CreatedBy: auth.FromGinContext(c).UserID,
	}

	id, err := h.repo.Insert(c.Request.Context(), note)
	if err != nil {
		h.logger.Error("Create: failed to insert timeline note", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create timeline note"})
		return
	}
	note.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Timeline note created",
		"data":    note,
	})
}

func (h *TimelineNoteHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid timeline note id"})
		return
	}

	var req timelineNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	noteDate := time.Now()
	if req.NoteDate != "" {
		d, err := time.Parse("2006-01-02", req.NoteDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "note_date must be YYYY-MM-DD"})
			return
		}
		noteDate = d
	}

	note := &model.TimelineNote{
		ID:       id,
		NoteDate: noteDate,
		Title:    req.Title,
		Content:  req.Content,
	}

	ok, err := h.repo.Update(c.Request.Context(), note)
	if err != nil {
		h.logger.Error("Update: failed to update timeline note", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update timeline note"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "timeline note not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Timeline note updated", "data": note})
}

func (h *TimelineNoteHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid timeline note id"})
		return
	}

	deleted, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Delete: failed to delete timeline note", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete timeline note"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "timeline note not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Timeline note deleted"})
}
