package usecase

import (
	"context"

	"github.com/google/uuid"
)

func New(
	repo Repository,
	ip IdentityProvider,
	fsp FileStorageProvider,
	mp MailProvider,
	cp ChainProvider,
	qc QueueClient,
	vc VerificationCache,
) Usecase {
	return Usecase{
		repo:                repo,
		identityProvider:    ip,
		fileStorageProvider: fsp,
		mailProvider:        mp,
		chainProvider:       cp,
		queueClient:         qc,
		verificationCache:   vc,
	}
}

type Repository interface {
	Health() map[string]string
	Close() error

	CreateAsset(context.Context, Asset) (Asset, error)
	GetAssetByID(context.Context, uuid.UUID) (Asset, error)
	ListAssets(context.Context, ListAssetsOption) ([]Asset, int, error)
	// UpdateAssetChainStatus applies tr as a single atomic
	// read-modify-write; concurrent callers never clobber each other.
	UpdateAssetChainStatus(ctx context.Context, id uuid.UUID, tr ChainTransition) (Asset, error)

	CreateUser(context.Context, User) (User, error)
	GetUserByID(context.Context, uuid.UUID) (User, error)
	GetUserByName(context.Context, string) (User, error)
	CreateAuthUser(context.Context, AuthUser) (AuthUser, error)
	GetAuthUserByUID(context.Context, string) (AuthUser, error)
}

// QueueClient enqueues background tasks. The API server always has one;
// the worker and tests may pass nil, in which case confirmation is
// awaited inline.
type QueueClient interface {
	EnqueueConfirmAnchor(ctx context.Context, assetID uuid.UUID) error
}

type Usecase struct {
	repo                Repository
	identityProvider    IdentityProvider
	fileStorageProvider FileStorageProvider
	mailProvider        MailProvider
	chainProvider       ChainProvider
	queueClient         QueueClient
	verificationCache   VerificationCache
}

func (u Usecase) Health() map[string]string {
	stats := u.repo.Health()
	if u.chainProvider != nil {
		if u.chainProvider.Degraded() {
			stats["chain"] = "degraded"
		} else {
			stats["chain"] = "connected"
		}
	}
	return stats
}

func (u Usecase) Close() error {
	return u.repo.Close()
}
