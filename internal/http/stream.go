package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"taskflow.com/taskflow/internal/feed"
)

// StreamChanges sends the team's change events as server-sent events until
// the client goes away.
func (h *Handler) StreamChanges(c echo.Context) error {
	ctx := c.Request().Context()
	teamID := c.Param("id")
	if _, err := h.teams.GetTeam(ctx, teamID); err != nil {
		return err
	}

	sub := h.changes.Subscribe(feed.Filter{TeamID: teamID})
	defer sub.Close()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	logger := h.logger.WithField("team_id", teamID)
	logger.Debug("change stream opened")
	defer func() {
		logger.WithField("dropped", sub.Dropped()).Debug("change stream closed")
	}()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			data, err := sonic.Marshal(ev)
			if err != nil {
				logger.WithError(err).Error("encode change event")
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Table, data); err != nil {
				logger.WithError(err).Debug("client write failed")
				return nil
			}
			w.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
