package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "taskflow.com/taskflow/internal/data_models"
)

const maxChatMessages = 50

func ValidateChatRequest(r *dto.ChatRequest) error {
	if len(r.Messages) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "messages are required")
	}
	if len(r.Messages) > maxChatMessages {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation is too long")
	}
	for _, m := range r.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			return echo.NewHTTPError(http.StatusBadRequest, "role must be user or assistant")
		}
		if m.Content == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "message content is required")
		}
	}
	if r.Messages[len(r.Messages)-1].Role != "user" {
		return echo.NewHTTPError(http.StatusBadRequest, "last message must come from the user")
	}
	return nil
}
