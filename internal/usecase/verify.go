package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
)

// VerificationResult is the authoritative answer for a content hash: the
// earliest registration of those bytes plus its current chain proof.
type VerificationResult struct {
	AssetID       string      `json:"asset_id"`
	Owner         string      `json:"owner"`
	ContentHash   string      `json:"content_hash"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	RegisteredAt  time.Time   `json:"registered_at"`
	ChainStatus   ChainStatus `json:"chain_status"`
	ChainTxRef    *string     `json:"chain_tx_ref,omitempty"`
	ChainBlockRef *int64      `json:"chain_block_ref,omitempty"`
	// Registrations counts every record of this hash, across owners.
	Registrations int `json:"registrations"`
}

// VerificationCache is a read-through cache for settled verification
// results. Nil-able; misses and errors fall through to the store.
type VerificationCache interface {
	Get(ctx context.Context, contentHash string) ([]byte, bool)
	Set(ctx context.Context, contentHash string, value []byte)
	Delete(ctx context.Context, contentHash string)
}

// VerifyHash returns the oldest registration of a hash. First registrant
// wins the presentation; later claims of the same bytes stay queryable
// via the count but are not surfaced here.
func (u Usecase) VerifyHash(ctx context.Context, contentHash string) (VerificationResult, error) {
	contentHash = strings.ToLower(strings.TrimSpace(contentHash))

	if u.verificationCache != nil {
		if b, ok := u.verificationCache.Get(ctx, contentHash); ok {
			var res VerificationResult
			if err := json.Unmarshal(b, &res); err == nil {
				return res, nil
			}
		}
	}

	assets, total, err := u.repo.ListAssets(ctx, ListAssetsOption{
		ContentHash: contentHash,
		SortBy:      "registered_at",
		SortIn:      "asc",
		Limit:       1,
	})
	if err != nil {
		return VerificationResult{}, err
	}
	if len(assets) == 0 {
		return VerificationResult{}, ErrNotFound
	}

	a := assets[0]
	res := VerificationResult{
		AssetID:       a.ID.String(),
		Owner:         a.Principal(),
		ContentHash:   a.ContentHash,
		Title:         a.Title,
		Description:   a.Description,
		RegisteredAt:  a.RegisteredAt,
		ChainStatus:   a.ChainStatus,
		ChainTxRef:    a.ChainTxRef,
		ChainBlockRef: a.ChainBlockRef,
		Registrations: total,
	}

	// Only a terminal successful anchor is worth caching; anything else
	// may still move.
	if u.verificationCache != nil && a.ChainStatus == ChainStatusConfirmed {
		if b, err := json.Marshal(res); err == nil {
			u.verificationCache.Set(ctx, contentHash, b)
		}
	}

	return res, nil
}

// FindByHash returns every registration of a hash, earliest first.
func (u Usecase) FindByHash(ctx context.Context, contentHash string) ([]Asset, int, error) {
	return u.repo.ListAssets(ctx, ListAssetsOption{
		ContentHash: strings.ToLower(strings.TrimSpace(contentHash)),
		SortBy:      "registered_at",
		SortIn:      "asc",
	})
}

func (u Usecase) invalidateVerification(ctx context.Context, contentHash string) {
	if u.verificationCache == nil {
		return
	}
	u.verificationCache.Delete(ctx, contentHash)
	slog.Debug("verification cache invalidated", "content_hash", contentHash)
}
