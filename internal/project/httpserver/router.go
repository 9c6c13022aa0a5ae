package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"buildpro/internal/project/handler"
	"buildpro/pkg/httpserver"
)

func NewRouter(
	projectHandler *handler.ProjectHandler,
	dailyLogHandler *handler.DailyLogHandler,
	historyHandler *handler.ProgressHistoryHandler,
	noteHandler *handler.TimelineNoteHandler,
	budgetHandler *handler.BudgetSummaryHandler,
	logger *zap.Logger,
	db *pgxpool.Pool,
	mqReady httpserver.ReadyCheck,
) *gin.Engine {
	r := gin.Default()
	r.Use(httpserver.RequestLogger(logger))
	r.Use(httpserver.Metrics())

	httpserver.RegisterHealth(r, db, mqReady)

	r.GET("/projects", projectHandler.List)
	r.GET("/projects/:id", projectHandler.Get)
	r.POST("/projects", projectHandler.Create)
	r.PUT("/projects/:id", projectHandler.Update)
	r.GET("/projects/:id/budget-summary", budgetHandler.Summary)

	r.POST("/update-progress", projectHandler.UpdateProgress)

	r.GET("/daily-logs/:project_id", dailyLogHandler.ListByProject)
	r.GET("/daily-logs/detail/:id", dailyLogHandler.Detail)
	r.POST("/daily-logs", dailyLogHandler.Create)
	r.PUT("/daily-logs/:id", dailyLogHandler.Update)
	r.DELETE("/daily-logs/:id", dailyLogHandler.Delete)

	r.GET("/progress-history/:project_id", historyHandler.ListByProject)
	r.POST("/progress-history", historyHandler.Upsert)

	r.GET("/timeline-notes/:project_id", noteHandler.ListByProject)
	r.POST("/timeline-notes", noteHandler.Create)
	r.PUT("/timeline-notes/:id", noteHandler.Update)
	r.DELETE("/timeline-notes/:id", noteHandler.Delete)

	return r
}
