package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/proofmark/proofmark/internal/config"
)

// ChainStatus tracks how far an asset's on-chain anchor has progressed.
type ChainStatus string

const (
	ChainStatusUnanchored ChainStatus = "UNANCHORED"
	ChainStatusPending    ChainStatus = "PENDING"
	ChainStatusConfirmed  ChainStatus = "CONFIRMED"
	ChainStatusFailed     ChainStatus = "FAILED"
)

// CanTransition reports whether moving to next is a legal forward step.
// CONFIRMED is terminal; FAILED may be retried back to PENDING, and a
// retry that fails again refreshes the failure reason in place.
func (s ChainStatus) CanTransition(next ChainStatus) bool {
	switch s {
	case ChainStatusUnanchored:
		return next == ChainStatusPending || next == ChainStatusFailed
	case ChainStatusPending:
		return next == ChainStatusConfirmed || next == ChainStatusFailed
	case ChainStatusFailed:
		return next == ChainStatusPending || next == ChainStatusFailed
	default:
		return false
	}
}

// Asset is one registration of one file's content hash by one owner.
// Registrations are append-only evidence records and are never deleted.
type Asset struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	FileName      string
	StoragePath   string
	Size          int64
	ContentHash   string
	Title         string
	Description   string
	ChainStatus   ChainStatus
	ChainTxRef    *string
	ChainBlockRef *int64
	ChainError    string
	ChainReceipt  []byte
	RegisteredAt  time.Time
	UpdatedAt     time.Time

	Owner *User

	// FileURL is a presigned download link for the stored bytes,
	// populated on detail reads only.
	FileURL string
}

// Principal is the identity surfaced as the asset's owner: the user's
// wallet address when one is linked, otherwise the user id.
func (a Asset) Principal() string {
	if a.Owner != nil && a.Owner.WalletAddress != "" {
		return a.Owner.WalletAddress
	}
	return a.OwnerID.String()
}

// ChainTransition is one step of the per-asset status machine. The store
// applies it atomically and rejects it when From no longer matches.
type ChainTransition struct {
	From     ChainStatus
	To       ChainStatus
	TxRef    *string
	BlockRef *int64
	Reason   string
	Receipt  []byte
}

type ListAssetsOption struct {
	Skip        int
	Limit       int
	OwnerID     uuid.UUID
	ContentHash string
	SortBy      string
	SortIn      string
}

func (u Usecase) GetAssetByID(ctx context.Context, id uuid.UUID) (Asset, error) {
	a, err := u.repo.GetAssetByID(ctx, id)
	if err != nil {
		return Asset{}, err
	}
	if a.StoragePath != "" && u.fileStorageProvider != nil {
		if url, err := u.fileStorageProvider.GetPresignedURL(ctx, a.StoragePath); err == nil {
			a.FileURL = url
		}
	}
	return a, nil
}

// ListMyAssets returns the calling user's registrations, newest first.
func (u Usecase) ListMyAssets(ctx context.Context, opt ListAssetsOption) ([]Asset, int, error) {
	userID, ok := ctx.Value(config.CTX_KEY_USER_ID).(uuid.UUID)
	if !ok {
		return nil, 0, fmt.Errorf("user id not found in context")
	}
	opt.OwnerID = userID
	opt.ContentHash = ""
	if opt.SortBy == "" {
		opt.SortBy = "registered_at"
		opt.SortIn = "desc"
	}
	return u.repo.ListAssets(ctx, opt)
}
