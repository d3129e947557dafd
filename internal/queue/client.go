package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TaskTypeConfirmAnchor = "chain:confirm"

// Client wraps asynq.Client for enqueuing tasks
type Client struct {
	client *asynq.Client
}

// NewClient creates a new queue client
func NewClient(redisAddr string, redisPassword string) *Client {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
	})

	return &Client{
		client: client,
	}
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.client.Close()
}

type ConfirmAnchorPayload struct {
	AssetID string `json:"asset_id"`
}

// EnqueueConfirmAnchor schedules a confirmation watcher for a pending
// submission. The task id is derived from the asset id, so a second
// enqueue while a watcher is still outstanding is a no-op.
func (c *Client) EnqueueConfirmAnchor(ctx context.Context, assetID uuid.UUID) error {
	payload, err := json.Marshal(ConfirmAnchorPayload{AssetID: assetID.String()})
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeConfirmAnchor, payload)

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.TaskID(TaskTypeConfirmAnchor+":"+assetID.String()),
		asynq.MaxRetry(3),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			slog.Info("confirm watcher already queued", "asset_id", assetID)
			return nil
		}
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	slog.Info("enqueued confirm watcher", "task_id", info.ID, "queue", info.Queue, "asset_id", assetID)
	return nil
}
