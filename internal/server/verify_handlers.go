package server

import (
	"github.com/labstack/echo/v4"
)

// VerifyHash returns the earliest registration of a content hash with
// its current chain proof.
func (s *Server) VerifyHash(ctx echo.Context) error {
	res, err := s.server.VerifyHash(ctx.Request().Context(), ctx.Param("hash"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: res})
}

// FindByHash returns every registration of a hash, earliest first.
func (s *Server) FindByHash(ctx echo.Context) error {
	assets, total, err := s.server.FindByHash(ctx.Request().Context(), ctx.Param("hash"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	list := make([]Asset, 0, len(assets))
	for _, a := range assets {
		list = append(list, ConvertAsset(a))
	}

	return ctx.JSON(200, Res{
		Data: list,
		Meta: &Meta{Total: total},
	})
}

// GetCertificate serves the QR code of the verification certificate.
func (s *Server) GetCertificate(ctx echo.Context) error {
	cert, err := s.server.GetCertificate(ctx.Request().Context(), ctx.Param("hash"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	ctx.Response().Header().Set("X-Verify-Url", cert.VerifyURL)
	return ctx.Blob(200, "image/png", cert.QRCode)
}
