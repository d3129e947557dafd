package server

import (
	"github.com/labstack/echo/v4"

	"github.com/proofmark/proofmark/internal/usecase"
)

// UploadFile accepts one multipart file, hashes it server-side and
// registers the fingerprint in the same request. Oversized bodies are
// rejected by the route's body limit before hashing begins.
func (s *Server) UploadFile(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": "no file uploaded"})
	}

	f, err := fh.Open()
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	defer f.Close()

	asset, err := s.server.RegisterUpload(ctx.Request().Context(), usecase.UploadAsset{
		File:        f,
		FileName:    fh.Filename,
		Size:        fh.Size,
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
	})
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(201, Res{
		Data:    ConvertAsset(asset),
		Message: asset.ChainError,
	})
}
