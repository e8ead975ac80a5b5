package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskflow.com/taskflow/internal/board"
	dto "taskflow.com/taskflow/internal/data_models"
	apperrors "taskflow.com/taskflow/internal/errors"
	middleware "taskflow.com/taskflow/internal/http/middlewares"
	"taskflow.com/taskflow/internal/http/validators"
	"taskflow.com/taskflow/internal/services"
)

const DefaultHeartbeat = 25 * time.Second

type Handler struct {
	teams     *services.TeamService
	tasks     *services.TaskService
	streaks   *services.StreakService
	chat      *services.ChatService
	users     *services.UserService
	boards    *board.Registry
	changes   board.Subscriber
	heartbeat time.Duration
	logger    *log.Entry
}

// Deps are the collaborators a Handler serves requests with.
type Deps struct {
	Teams     *services.TeamService
	Tasks     *services.TaskService
	Streaks   *services.StreakService
	Chat      *services.ChatService
	Users     *services.UserService
	Boards    *board.Registry
	Changes   board.Subscriber
	Heartbeat time.Duration
}

func NewHandler(deps Deps, logger *log.Logger) *Handler {
	heartbeat := deps.Heartbeat
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &Handler{
		teams:     deps.Teams,
		tasks:     deps.Tasks,
		streaks:   deps.Streaks,
		chat:      deps.Chat,
		users:     deps.Users,
		boards:    deps.Boards,
		changes:   deps.Changes,
		heartbeat: heartbeat,
		logger:    logger.WithField("component", "http.handler"),
	}
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Me returns the caller's identity and records the profile.
func (h *Handler) Me(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return apperrors.ErrUnauthorized
	}
	user, err := h.users.SyncUser(c.Request().Context(), id.Subject, id.Name, id.Email, id.AvatarURL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) ListTeams(c echo.Context) error {
	teams, err := h.teams.ListTeams(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count": len(teams),
		"teams": teams,
	})
}

func (h *Handler) CreateTeam(c echo.Context) error {
	var req dto.CreateTeamRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateCreateTeamRequest(&req); err != nil {
		return err
	}

	team, err := h.teams.CreateTeam(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, team)
}

func (h *Handler) GetTeam(c echo.Context) error {
	team, err := h.teams.GetTeam(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, team)
}

func (h *Handler) UpdateTeam(c echo.Context) error {
	var req dto.UpdateTeamRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateUpdateTeamRequest(&req); err != nil {
		return err
	}

	team, err := h.teams.UpdateTeam(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, team)
}

func (h *Handler) AddColumn(c echo.Context) error {
	var req dto.ColumnRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateAddColumnRequest(&req); err != nil {
		return err
	}

	team, err := h.teams.AddColumn(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, team)
}

func (h *Handler) UpdateColumn(c echo.Context) error {
	var req dto.ColumnRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateUpdateColumnRequest(&req); err != nil {
		return err
	}

	team, err := h.teams.UpdateColumn(c.Request().Context(), c.Param("id"), c.Param("columnId"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, team)
}

// DeleteColumn removes the column together with its tasks.
func (h *Handler) DeleteColumn(c echo.Context) error {
	if err := h.teams.DeleteColumn(c.Request().Context(), c.Param("id"), c.Param("columnId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.tasks.ListTasks(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.tasks.CreateTask(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.tasks.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateUpdateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.tasks.UpdateTask(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) GetStreak(c echo.Context) error {
	streak, err := h.streaks.GetStreak(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, streak)
}

func (h *Handler) SendMessage(c echo.Context) error {
	var req dto.ChatRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateChatRequest(&req); err != nil {
		return err
	}

	resp, err := h.chat.Send(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
