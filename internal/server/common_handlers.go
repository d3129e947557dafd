package server

import "github.com/labstack/echo/v4"

func (s *Server) healthHandler(ctx echo.Context) error {
	return ctx.JSON(200, s.server.Health())
}
