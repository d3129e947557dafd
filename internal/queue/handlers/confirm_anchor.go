package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type ConfirmAnchorPayload struct {
	AssetID string `json:"asset_id"`
}

// HandleConfirmAnchor awaits the ledger outcome for one pending asset.
// This is a thin wrapper; the settle logic lives in the usecase.
func (h *Handlers) HandleConfirmAnchor(ctx context.Context, task *asynq.Task) error {
	var payload ConfirmAnchorPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		slog.Error("failed to parse confirm task payload", "err", err)
		return err
	}

	assetID, err := uuid.Parse(payload.AssetID)
	if err != nil {
		slog.Error("invalid asset id in confirm task", "asset_id", payload.AssetID, "err", err)
		return err
	}

	slog.Info("awaiting chain confirmation", "asset_id", assetID)

	if err := h.usecase.ProcessConfirmAnchor(ctx, assetID); err != nil {
		slog.Error("confirm task failed", "asset_id", assetID, "err", err)
		return err
	}

	slog.Info("chain confirmation settled", "asset_id", assetID)
	return nil
}
