package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/proofmark/proofmark/internal/config"
	"github.com/proofmark/proofmark/internal/hash"
)

// AnchorHintDegraded is surfaced to the caller when a registration is
// saved without a chain anchor.
const AnchorHintDegraded = "ledger unreachable, registration saved without chain anchor"

var hexDigestRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

// RegisterAsset is the client-side-hashing registration input.
type RegisterAsset struct {
	ContentHash string
	Title       string
	Description string
}

// UploadAsset is the server-side-hashing registration input. File is the
// raw upload stream; it is hashed and stored in one pass.
type UploadAsset struct {
	File        io.Reader
	FileName    string
	Size        int64
	Title       string
	Description string
}

// Register creates the off-chain record for a pre-computed hash and then
// attempts to anchor it. The record write is durable before any chain
// interaction, so a chain outage never loses the registration.
func (u Usecase) Register(ctx context.Context, ra RegisterAsset) (Asset, error) {
	userID, ok := ctx.Value(config.CTX_KEY_USER_ID).(uuid.UUID)
	if !ok {
		return Asset{}, fmt.Errorf("user id not found in context")
	}

	if strings.TrimSpace(ra.Title) == "" {
		return Asset{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	contentHash := strings.ToLower(strings.TrimSpace(ra.ContentHash))
	if !hexDigestRe.MatchString(contentHash) {
		return Asset{}, fmt.Errorf("%w: content hash must be a 64-char hex sha-256 digest", ErrValidation)
	}

	return u.register(ctx, Asset{
		OwnerID:     userID,
		ContentHash: contentHash,
		Title:       ra.Title,
		Description: ra.Description,
	})
}

// RegisterUpload hashes the upload stream server-side, stores the
// original bytes and registers the resulting fingerprint. The stream is
// consumed exactly once; hashing and storage share the same pass.
func (u Usecase) RegisterUpload(ctx context.Context, up UploadAsset) (Asset, error) {
	userID, ok := ctx.Value(config.CTX_KEY_USER_ID).(uuid.UUID)
	if !ok {
		return Asset{}, fmt.Errorf("user id not found in context")
	}

	title := strings.TrimSpace(up.Title)
	if title == "" {
		title = up.FileName
	}
	if title == "" {
		return Asset{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	// Hash and store in a single pass over the stream.
	var (
		storagePath string
		digest      = hash.NewDigest()
		stream      = io.TeeReader(up.File, digest)
	)
	if u.fileStorageProvider != nil {
		storagePath = fmt.Sprintf("files/%s-%d/%s", userID.String()[:8], time.Now().UnixNano(), up.FileName)
		if err := u.fileStorageProvider.Put(ctx, storagePath, stream, up.Size); err != nil {
			// Partial upload: nothing registered, partial digest discarded.
			return Asset{}, err
		}
	} else if _, err := io.Copy(io.Discard, stream); err != nil {
		return Asset{}, fmt.Errorf("hash: reading stream: %w", err)
	}

	return u.register(ctx, Asset{
		OwnerID:     userID,
		FileName:    up.FileName,
		StoragePath: storagePath,
		Size:        digest.Size(),
		ContentHash: digest.SumHex(),
		Title:       title,
		Description: up.Description,
	})
}

func (u Usecase) register(ctx context.Context, a Asset) (Asset, error) {
	a.ChainStatus = ChainStatusUnanchored

	created, err := u.repo.CreateAsset(ctx, a)
	if err != nil {
		return Asset{}, err
	}

	return u.anchor(ctx, created)
}

// AnchorAsset retries anchoring for an unanchored or failed record,
// resubmitting the identical hash/title/description tuple.
func (u Usecase) AnchorAsset(ctx context.Context, id uuid.UUID) (Asset, error) {
	userID, ok := ctx.Value(config.CTX_KEY_USER_ID).(uuid.UUID)
	if !ok {
		return Asset{}, fmt.Errorf("user id not found in context")
	}

	a, err := u.repo.GetAssetByID(ctx, id)
	if err != nil {
		return Asset{}, err
	}
	if a.OwnerID != userID {
		return Asset{}, fmt.Errorf("%w: asset belongs to another owner", ErrValidation)
	}

	switch a.ChainStatus {
	case ChainStatusPending:
		return Asset{}, ErrAlreadyPending
	case ChainStatusConfirmed:
		return Asset{}, fmt.Errorf("%w: asset is already anchored", ErrValidation)
	}

	return u.anchor(ctx, a)
}

// anchor submits the record to the ledger and advances the status
// machine. Chain failures are absorbed into the record, never returned
// as a failure of the registration itself.
func (u Usecase) anchor(ctx context.Context, a Asset) (Asset, error) {
	if u.chainProvider == nil {
		a.ChainError = AnchorHintDegraded
		return a, nil
	}

	ref, err := u.chainProvider.SubmitRegistration(ctx, ChainSubmission{
		ContentHash: a.ContentHash,
		Title:       a.Title,
		Description: a.Description,
		Signer:      a.Principal(),
	})
	switch {
	case errors.Is(err, ErrChainUnreachable), errors.Is(err, ErrChainTimeout):
		// Stable resting state: the off-chain record stands on its own
		// until the caller explicitly retries anchoring.
		a.ChainError = AnchorHintDegraded
		return a, nil
	case errors.Is(err, ErrChainRejected):
		return u.repo.UpdateAssetChainStatus(ctx, a.ID, ChainTransition{
			From:   a.ChainStatus,
			To:     ChainStatusFailed,
			Reason: err.Error(),
		})
	case err != nil:
		slog.Error("chain submission failed", "asset_id", a.ID, "err", err)
		a.ChainError = AnchorHintDegraded
		return a, nil
	}

	if ref.Mock {
		a.ChainError = AnchorHintDegraded
		return a, nil
	}

	updated, err := u.repo.UpdateAssetChainStatus(ctx, a.ID, ChainTransition{
		From:  a.ChainStatus,
		To:    ChainStatusPending,
		TxRef: &ref.TxRef,
	})
	if err != nil {
		return Asset{}, err
	}

	if u.queueClient != nil {
		if err := u.queueClient.EnqueueConfirmAnchor(ctx, updated.ID); err != nil {
			slog.Error("enqueue confirm task failed", "asset_id", updated.ID, "err", err)
		}
	}

	return updated, nil
}

// ProcessConfirmAnchor awaits the ledger outcome for a pending asset and
// settles the record. Run by the queue worker; bounded by the configured
// confirmation timeout so a hung ledger cannot leak watchers.
func (u Usecase) ProcessConfirmAnchor(ctx context.Context, assetID uuid.UUID) error {
	a, err := u.repo.GetAssetByID(ctx, assetID)
	if err != nil {
		return err
	}
	if a.ChainStatus != ChainStatusPending || a.ChainTxRef == nil {
		// Stale or duplicate task; the record already settled.
		return nil
	}

	cctx, cancel := context.WithTimeout(ctx, confirmTimeout())
	defer cancel()

	out, err := u.chainProvider.AwaitOutcome(cctx, ChainPendingRef{TxRef: *a.ChainTxRef})

	var tr ChainTransition
	switch {
	case err == nil && out.Confirmed:
		tr = ChainTransition{
			From:     ChainStatusPending,
			To:       ChainStatusConfirmed,
			BlockRef: &out.BlockRef,
			Receipt:  out.Receipt,
		}
	case err == nil:
		tr = ChainTransition{
			From:   ChainStatusPending,
			To:     ChainStatusFailed,
			Reason: out.Reason,
		}
	case errors.Is(err, ErrChainTimeout), errors.Is(err, ErrChainUnreachable):
		// Ambiguous outcome: the transaction may have landed. Reconcile
		// against actual ledger state before declaring failure.
		if ca, gerr := u.chainProvider.GetAssetByHash(ctx, a.ContentHash); gerr == nil && ca.BlockRef > 0 {
			tr = ChainTransition{
				From:     ChainStatusPending,
				To:       ChainStatusConfirmed,
				BlockRef: &ca.BlockRef,
			}
		} else {
			tr = ChainTransition{
				From:   ChainStatusPending,
				To:     ChainStatusFailed,
				Reason: ErrChainTimeout.Error(),
			}
		}
	default:
		tr = ChainTransition{
			From:   ChainStatusPending,
			To:     ChainStatusFailed,
			Reason: err.Error(),
		}
	}

	settled, err := u.repo.UpdateAssetChainStatus(ctx, assetID, tr)
	if err != nil {
		// A concurrent settle already applied; nothing left to do.
		if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrAlreadyPending) {
			return nil
		}
		return err
	}

	u.invalidateVerification(ctx, settled.ContentHash)
	u.notifyAnchorOutcome(ctx, settled)

	return nil
}

func confirmTimeout() time.Duration {
	if v := os.Getenv(config.ENV_KEY_CHAIN_CONFIRM_TIMEOUT_SECONDS); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return config.DEFAULT_CHAIN_CONFIRM_TIMEOUT_SECONDS * time.Second
}
