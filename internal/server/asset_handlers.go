package server

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/proofmark/proofmark/internal/usecase"
)

type Asset struct {
	ID            string  `json:"id"`
	OwnerID       string  `json:"owner_id"`
	Owner         string  `json:"owner"`
	FileName      string  `json:"file_name,omitempty"`
	FileURL       string  `json:"file_url,omitempty"`
	Size          int64   `json:"size,omitempty"`
	ContentHash   string  `json:"content_hash"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	ChainStatus   string  `json:"chain_status"`
	ChainTxRef    *string `json:"chain_tx_ref,omitempty"`
	ChainBlockRef *int64  `json:"chain_block_ref,omitempty"`
	ChainError    string  `json:"chain_error,omitempty"`
	RegisteredAt  string  `json:"registered_at"`
}

func ConvertAsset(a usecase.Asset) Asset {
	return Asset{
		ID:            a.ID.String(),
		OwnerID:       a.OwnerID.String(),
		Owner:         a.Principal(),
		FileName:      a.FileName,
		FileURL:       a.FileURL,
		Size:          a.Size,
		ContentHash:   a.ContentHash,
		Title:         a.Title,
		Description:   a.Description,
		ChainStatus:   string(a.ChainStatus),
		ChainTxRef:    a.ChainTxRef,
		ChainBlockRef: a.ChainBlockRef,
		ChainError:    a.ChainError,
		RegisteredAt:  a.RegisteredAt.String(),
	}
}

type CreateAssetRequest struct {
	ContentHash string `json:"content_hash" validate:"required,len=64,hexadecimal"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// CreateAsset registers a client-side-computed hash.
func (s *Server) CreateAsset(ctx echo.Context) error {
	var req CreateAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	asset, err := s.server.Register(ctx.Request().Context(), usecase.RegisterAsset{
		ContentHash: req.ContentHash,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(201, Res{
		Data:    ConvertAsset(asset),
		Message: asset.ChainError,
	})
}

type ListAssetsRequest struct {
	Skip  int `query:"skip"`
	Limit int `query:"limit" validate:"omitempty,max=100"`
}

func (s *Server) ListMyAssets(ctx echo.Context) error {
	var req ListAssetsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	assets, total, err := s.server.ListMyAssets(ctx.Request().Context(), usecase.ListAssetsOption{
		Skip:  req.Skip,
		Limit: req.Limit,
	})
	if err != nil {
		return errorJSON(ctx, err)
	}

	list := make([]Asset, 0, len(assets))
	for _, a := range assets {
		list = append(list, ConvertAsset(a))
	}

	return ctx.JSON(200, Res{
		Data: list,
		Meta: &Meta{
			Total: total,
			Skip:  req.Skip,
			Limit: req.Limit,
		},
	})
}

func (s *Server) GetAssetByID(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": "invalid asset id"})
	}

	asset, err := s.server.GetAssetByID(ctx.Request().Context(), id)
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertAsset(asset)})
}

// AnchorAsset retries chain anchoring for an unanchored or failed record.
func (s *Server) AnchorAsset(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": "invalid asset id"})
	}

	asset, err := s.server.AnchorAsset(ctx.Request().Context(), id)
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Data:    ConvertAsset(asset),
		Message: asset.ChainError,
	})
}
