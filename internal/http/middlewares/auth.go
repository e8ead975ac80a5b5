package middleware

import (
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskflow.com/taskflow/internal/auth"
	apperrors "taskflow.com/taskflow/internal/errors"
)

const identityKey = "identity"

type Authenticator interface {
	IdentityFromAuthHeader(h string) (auth.Identity, error)
}

// Authenticate rejects requests without a valid bearer token. EventSource
// clients cannot set headers, so a token query parameter is accepted too.
func Authenticate(a Authenticator, logger *log.Logger) echo.MiddlewareFunc {
	entry := logger.WithField("component", "http.auth")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				if token := c.QueryParam("token"); token != "" {
					header = "Bearer " + token
				}
			}

			id, err := a.IdentityFromAuthHeader(header)
			if err != nil {
				entry.WithError(err).WithField("path", c.Path()).Debug("rejected token")
				return apperrors.ErrUnauthorized
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity Authenticate stored on the context.
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	id, ok := c.Get(identityKey).(auth.Identity)
	return id, ok
}
