package server

import (
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/proofmark/proofmark/internal/usecase"
)

const (
	eventsPollInterval = 2 * time.Second
	eventsMaxDuration  = 5 * time.Minute
)

// AssetEvents streams chain-status changes for one asset over a
// websocket until the status is terminal or the watch window closes.
func (s *Server) AssetEvents(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": "invalid asset id"})
	}

	conn, err := websocket.Accept(ctx.Response(), ctx.Request(), &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		return err
	}
	defer conn.CloseNow()

	wctx := ctx.Request().Context()

	var (
		last   usecase.ChainStatus
		ticker = time.NewTicker(eventsPollInterval)
		window = time.NewTimer(eventsMaxDuration)
	)
	defer ticker.Stop()
	defer window.Stop()

	for {
		asset, err := s.server.GetAssetByID(wctx, id)
		if err != nil {
			conn.Close(websocket.StatusInternalError, err.Error())
			return nil
		}

		if asset.ChainStatus != last {
			last = asset.ChainStatus
			if err := wsjson.Write(wctx, conn, ConvertAsset(asset)); err != nil {
				return nil
			}
		}

		if last == usecase.ChainStatusConfirmed || last == usecase.ChainStatusFailed {
			conn.Close(websocket.StatusNormalClosure, "settled")
			return nil
		}

		select {
		case <-wctx.Done():
			return nil
		case <-window.C:
			conn.Close(websocket.StatusNormalClosure, "watch window elapsed")
			return nil
		case <-ticker.C:
		}
	}
}
