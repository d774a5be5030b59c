// Package envelope renders every API response in the uniform shape the
// browser client expects: {"success": true, "data": ...} on success and
// {"success": false, "error": "..."} on failure.
package envelope

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK writes a success envelope with the given status and payload.
func OK(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Response{Success: true, Data: data})
}

// Fail writes a failure envelope with the given status and message.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Response{Success: false, Error: message})
}

// ErrorHandler is an echo HTTPErrorHandler that funnels every handler error
// through the failure envelope. Non-HTTP errors become opaque 500s so
// internal details never reach the caller.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	if httpErr, ok := err.(*echo.HTTPError); ok {
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(status)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = Fail(c, status, message)
}
