package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAsset(t *testing.T, repo *fakeRepo, owner uuid.UUID, title string, at time.Time) Asset {
	t.Helper()
	a, err := repo.CreateAsset(context.Background(), Asset{
		OwnerID:      owner,
		ContentHash:  testHash,
		Title:        title,
		RegisteredAt: at,
	})
	require.NoError(t, err)
	return a
}

func confirmAsset(t *testing.T, repo *fakeRepo, id uuid.UUID, block int64) {
	t.Helper()
	tx := "0x" + id.String()[:8]
	_, err := repo.UpdateAssetChainStatus(context.Background(), id, ChainTransition{
		From:  ChainStatusUnanchored,
		To:    ChainStatusPending,
		TxRef: &tx,
	})
	require.NoError(t, err)
	_, err = repo.UpdateAssetChainStatus(context.Background(), id, ChainTransition{
		From:     ChainStatusPending,
		To:       ChainStatusConfirmed,
		BlockRef: &block,
	})
	require.NoError(t, err)
}

func TestVerifyHashEarliestWins(t *testing.T) {
	repo := newFakeRepo()
	uc := New(repo, nil, nil, nil, nil, nil, nil)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := seedAsset(t, repo, seedUser(t, repo).ID, "Original", base)
	seedAsset(t, repo, seedUser(t, repo).ID, "Copycat", base.Add(48*time.Hour))

	res, err := uc.VerifyHash(context.Background(), testHash)
	require.NoError(t, err)

	assert.Equal(t, first.ID.String(), res.AssetID)
	assert.Equal(t, "Original", res.Title)
	assert.True(t, res.RegisteredAt.Equal(base))
	// Both claims remain visible in the count.
	assert.Equal(t, 2, res.Registrations)
}

func TestVerifyHashNotFound(t *testing.T) {
	uc := New(newFakeRepo(), nil, nil, nil, nil, nil, nil)

	_, err := uc.VerifyHash(context.Background(), testHash)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyHashNormalizesInput(t *testing.T) {
	repo := newFakeRepo()
	uc := New(repo, nil, nil, nil, nil, nil, nil)
	seedAsset(t, repo, seedUser(t, repo).ID, "Original", time.Now())

	res, err := uc.VerifyHash(context.Background(), "  "+strings.ToUpper(testHash)+"  ")
	require.NoError(t, err)
	assert.Equal(t, testHash, res.ContentHash)
}

func TestVerifyHashCachesConfirmedOnly(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	uc := New(repo, nil, nil, nil, nil, nil, cache)
	owner := seedUser(t, repo)

	a := seedAsset(t, repo, owner.ID, "Original", time.Now())

	// Unanchored results are never cached; they may still move.
	_, err := uc.VerifyHash(context.Background(), testHash)
	require.NoError(t, err)
	assert.Empty(t, cache.entries)

	confirmAsset(t, repo, a.ID, 42)

	res, err := uc.VerifyHash(context.Background(), testHash)
	require.NoError(t, err)
	assert.Equal(t, ChainStatusConfirmed, res.ChainStatus)
	assert.Len(t, cache.entries, 1)

	// Subsequent reads are served from the cache.
	delete(repo.assets, a.ID)
	cached, err := uc.VerifyHash(context.Background(), testHash)
	require.NoError(t, err)
	assert.Equal(t, a.ID.String(), cached.AssetID)
	require.NotNil(t, cached.ChainBlockRef)
	assert.Equal(t, int64(42), *cached.ChainBlockRef)
}

func TestFindByHashOrdersEarliestFirst(t *testing.T) {
	repo := newFakeRepo()
	uc := New(repo, nil, nil, nil, nil, nil, nil)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedAsset(t, repo, seedUser(t, repo).ID, "Third", base.Add(2*time.Hour))
	seedAsset(t, repo, seedUser(t, repo).ID, "First", base)
	seedAsset(t, repo, seedUser(t, repo).ID, "Second", base.Add(time.Hour))

	assets, total, err := uc.FindByHash(context.Background(), testHash)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, assets, 3)
	assert.Equal(t, "First", assets[0].Title)
	assert.Equal(t, "Second", assets[1].Title)
	assert.Equal(t, "Third", assets[2].Title)
}

func TestListMyAssetsNewestFirst(t *testing.T) {
	repo := newFakeRepo()
	uc := New(repo, nil, nil, nil, nil, nil, nil)
	owner := seedUser(t, repo)
	other := seedUser(t, repo)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedAsset(t, repo, owner.ID, "Older", base)
	seedAsset(t, repo, owner.ID, "Newer", base.Add(time.Hour))
	seedAsset(t, repo, other.ID, "Not mine", base.Add(2*time.Hour))

	assets, total, err := uc.ListMyAssets(authedCtx(owner.ID), ListAssetsOption{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, assets, 2)
	assert.Equal(t, "Newer", assets[0].Title)
	assert.Equal(t, "Older", assets[1].Title)
}
