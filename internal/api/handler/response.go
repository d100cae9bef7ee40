package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// envelope is the success body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// errorResponse documents the error body rendered by the API error handler.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"content not found"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, data any, msg string) error {
	return c.JSON(status, envelope{Success: true, Data: data, Message: msg})
}

func errInvalidPayload(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
}

// bindAndValidate decodes the request into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidPayload(err)
	}
	return c.Validate(req)
}
