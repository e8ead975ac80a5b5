package http

import (
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	middleware "taskflow.com/taskflow/internal/http/middlewares"
)

const serviceName = "taskflow"

func Register(e *echo.Echo, h *Handler, authn middleware.Authenticator, logger *log.Logger, rateLimitPerMinute int) {
	e.HTTPErrorHandler = ErrorHandler
	e.JSONSerializer = JSONSerializer{}
	e.Use(middleware.Tracing(serviceName))
	e.Use(middleware.RequestLogger(logger))

	e.GET("/healthz", h.Healthz)

	api := e.Group("/api",
		middleware.Authenticate(authn, logger),
		middleware.RateLimiter(rateLimitPerMinute, time.Minute),
	)
	api.GET("/me", h.Me)

	api.GET("/teams", h.ListTeams)
	api.POST("/teams", h.CreateTeam)
	api.GET("/teams/:id", h.GetTeam)
	api.PATCH("/teams/:id", h.UpdateTeam)
	api.POST("/teams/:id/columns", h.AddColumn)
	api.PATCH("/teams/:id/columns/:columnId", h.UpdateColumn)
	api.DELETE("/teams/:id/columns/:columnId", h.DeleteColumn)

	api.GET("/teams/:id/board", h.GetBoard)
	api.POST("/teams/:id/board/moves", h.MoveTask)
	api.GET("/teams/:id/changes", h.StreamChanges)
	api.GET("/teams/:id/streak", h.GetStreak)
	api.GET("/teams/:id/tasks", h.ListTasks)
	api.POST("/teams/:id/tasks", h.CreateTask)
	api.POST("/teams/:id/assistant/messages", h.SendMessage)

	api.GET("/tasks/:id", h.GetTask)
	api.PATCH("/tasks/:id", h.UpdateTask)
	api.POST("/tasks/:id/handoff", h.HandoffTask)
}
