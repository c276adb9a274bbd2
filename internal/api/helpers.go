package api

import (
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
)

const headerRequestID = "X-Request-ID"

type ResponseError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return writeJSON(c, status, map[string]any{
		"error": ResponseError{
			Message:   msg,
			Type:      errType,
			RequestID: c.Response().Header().Get(headerRequestID),
		},
	})
}

// requestID echoes a client supplied X-Request-ID or assigns a new one.
func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			id := c.Request().Header.Get(headerRequestID)
			if id == "" {
				id = newRequestID()
			}
			c.Response().Header().Set(headerRequestID, id)
			return next(c)
		}
	}
}

func newRequestID() string {
	return "req_" + uuid.NewString()
}
