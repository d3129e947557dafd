package server

import (
	"context"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/proofmark/proofmark/internal/config"
)

func (s *Server) getUID(c echo.Context) (string, error) {

	var (
		reqClientID = c.Request().Header.Get(config.HEADER_KEY_X_CLIENT_ID)
		reqUID      = c.Request().Header.Get(config.HEADER_KEY_X_UID)
		clientID    = os.Getenv(config.ENV_KEY_CLIENT_ID)
	)

	// Trusted internal clients pass the uid directly.
	if reqClientID != "" &&
		reqUID != "" &&
		reqClientID == clientID {
		return reqUID, nil
	}

	var auth = c.Request().Header.Get("Authorization")

	if len(auth) < len("Bearer ") {
		return "", echo.NewHTTPError(401, "Authorization header is required")
	}

	token := auth[len("Bearer "):]

	return s.server.VerifyIDToken(c.Request().Context(), token)
}

// AuthMiddleware checks the authorization header, verifies the token and
// transforms the request to carry the resolved user id and role in the
// downstream context.
func (s *Server) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {

		var (
			ctx = c.Request().Context()
		)

		uid, err := s.getUID(c)

		if err != nil {
			return c.JSON(401, map[string]string{
				"error":   err.Error(),
				"message": "Invalid token",
			})
		}

		au, err := s.server.GetAuthUserByUID(ctx, uid)
		if err != nil {
			return c.JSON(401, map[string]string{
				"error":   err.Error(),
				"message": "User not found",
			})
		}

		ctx = context.WithValue(ctx, config.CTX_KEY_USER_ID, au.UserID)
		ctx = context.WithValue(ctx, config.CTX_KEY_USER_ROLE, au.GlobalRole)

		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
