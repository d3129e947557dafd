package server

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/proofmark/proofmark/internal/usecase"
)

type Meta struct {
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

type Res struct {
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// errorJSON maps usecase errors onto status codes. Anything outside the
// taxonomy is a 500.
func errorJSON(ctx echo.Context, err error) error {
	var code int
	switch {
	case errors.Is(err, usecase.ErrValidation):
		code = 400
	case errors.Is(err, usecase.ErrInvalidCredentials):
		code = 401
	case errors.Is(err, usecase.ErrNotFound):
		code = 404
	case errors.Is(err, usecase.ErrConflict),
		errors.Is(err, usecase.ErrAlreadyPending),
		errors.Is(err, usecase.ErrInvalidTransition):
		code = 409
	default:
		code = 500
	}
	return ctx.JSON(code, map[string]string{"error": err.Error()})
}
