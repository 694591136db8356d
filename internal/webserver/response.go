package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// restError is the failure envelope shared by every handler.
type restError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Ok renders data as a 200 JSON response.
func Ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// Fail renders the failure envelope with the given status.
func Fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, restError{Code: code, Message: message, Details: details})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return Fail(c, status, code, message, details)
}
