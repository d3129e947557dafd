package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/proofmark/proofmark/internal/usecase"
)

const testHash = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"

func newTestService(t *testing.T) *service {
	t.Helper()

	// One shared in-memory database per test, named to avoid cross-test
	// bleed through the connection pool.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	svc, err := New(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	return svc
}

func seedOwner(t *testing.T, svc *service) usecase.User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), usecase.User{
		Name:  "owner-" + uuid.NewString()[:8],
		Email: uuid.NewString()[:8] + "@example.com",
	})
	require.NoError(t, err)
	return u
}

func seedAsset(t *testing.T, svc *service, owner uuid.UUID, title string) usecase.Asset {
	t.Helper()
	a, err := svc.CreateAsset(context.Background(), usecase.Asset{
		OwnerID:     owner,
		ContentHash: testHash,
		Title:       title,
	})
	require.NoError(t, err)
	// autoCreateTime orders records by insertion; keep timestamps apart.
	time.Sleep(2 * time.Millisecond)
	return a
}

func TestCreateAndGetAsset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := seedOwner(t, svc)

	created, err := svc.CreateAsset(ctx, usecase.Asset{
		OwnerID:     owner.ID,
		FileName:    "song.mp3",
		Size:        1024,
		ContentHash: testHash,
		Title:       "My Song",
		Description: "demo recording",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, usecase.ChainStatusUnanchored, created.ChainStatus)
	assert.False(t, created.RegisteredAt.IsZero())

	got, err := svc.GetAssetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "My Song", got.Title)
	assert.Equal(t, testHash, got.ContentHash)
	require.NotNil(t, got.Owner)
	assert.Equal(t, owner.Name, got.Owner.Name)
}

func TestGetAssetByIDNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetAssetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestCreateAssetDuplicateID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := seedOwner(t, svc)

	id := uuid.New()
	_, err := svc.CreateAsset(ctx, usecase.Asset{ID: id, OwnerID: owner.ID, ContentHash: testHash, Title: "one"})
	require.NoError(t, err)

	_, err = svc.CreateAsset(ctx, usecase.Asset{ID: id, OwnerID: owner.ID, ContentHash: testHash, Title: "two"})
	assert.ErrorIs(t, err, usecase.ErrConflict)
}

func TestListAssetsByHashEarliestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first := seedAsset(t, svc, seedOwner(t, svc).ID, "First")
	seedAsset(t, svc, seedOwner(t, svc).ID, "Second")
	seedAsset(t, svc, seedOwner(t, svc).ID, "Third")

	assets, total, err := svc.ListAssets(ctx, usecase.ListAssetsOption{
		ContentHash: testHash,
		SortBy:      "registered_at",
		SortIn:      "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, assets, 3)
	assert.Equal(t, first.ID, assets[0].ID)
	assert.Equal(t, "First", assets[0].Title)

	// Limit narrows the page but not the count.
	page, total, err := svc.ListAssets(ctx, usecase.ListAssetsOption{
		ContentHash: testHash,
		SortBy:      "registered_at",
		SortIn:      "asc",
		Limit:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)
}

func TestListAssetsByOwnerNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := seedOwner(t, svc)
	other := seedOwner(t, svc)

	seedAsset(t, svc, owner.ID, "Older")
	newest := seedAsset(t, svc, owner.ID, "Newer")
	seedAsset(t, svc, other.ID, "Not mine")

	assets, total, err := svc.ListAssets(ctx, usecase.ListAssetsOption{OwnerID: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, assets, 2)
	assert.Equal(t, newest.ID, assets[0].ID)
}

func TestUpdateChainStatusLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := seedAsset(t, svc, seedOwner(t, svc).ID, "My Song")

	tx := "0xabc123"
	pending, err := svc.UpdateAssetChainStatus(ctx, a.ID, usecase.ChainTransition{
		From:  usecase.ChainStatusUnanchored,
		To:    usecase.ChainStatusPending,
		TxRef: &tx,
	})
	require.NoError(t, err)
	assert.Equal(t, usecase.ChainStatusPending, pending.ChainStatus)
	require.NotNil(t, pending.ChainTxRef)
	assert.Equal(t, tx, *pending.ChainTxRef)

	block := int64(7231554)
	confirmed, err := svc.UpdateAssetChainStatus(ctx, a.ID, usecase.ChainTransition{
		From:     usecase.ChainStatusPending,
		To:       usecase.ChainStatusConfirmed,
		BlockRef: &block,
		Receipt:  []byte(`{"gasUsed":"21000"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, usecase.ChainStatusConfirmed, confirmed.ChainStatus)
	require.NotNil(t, confirmed.ChainBlockRef)
	assert.Equal(t, block, *confirmed.ChainBlockRef)
	assert.JSONEq(t, `{"gasUsed":"21000"}`, string(confirmed.ChainReceipt))
	assert.Empty(t, confirmed.ChainError)
}

func TestUpdateChainStatusFailedKeepsReason(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := seedAsset(t, svc, seedOwner(t, svc).ID, "My Song")

	failed, err := svc.UpdateAssetChainStatus(ctx, a.ID, usecase.ChainTransition{
		From:   usecase.ChainStatusUnanchored,
		To:     usecase.ChainStatusFailed,
		Reason: "gateway rejected submission",
	})
	require.NoError(t, err)
	assert.Equal(t, usecase.ChainStatusFailed, failed.ChainStatus)
	assert.Equal(t, "gateway rejected submission", failed.ChainError)

	// Retry clears the stale error on the way back to PENDING.
	tx := "0xretry"
	retried, err := svc.UpdateAssetChainStatus(ctx, a.ID, usecase.ChainTransition{
		From:  usecase.ChainStatusFailed,
		To:    usecase.ChainStatusPending,
		TxRef: &tx,
	})
	require.NoError(t, err)
	assert.Equal(t, usecase.ChainStatusPending, retried.ChainStatus)
	assert.Empty(t, retried.ChainError)
}

func TestUpdateChainStatusFailedReasonRefresh(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := seedAsset(t, svc, seedOwner(t, svc).ID, "My Song")

	_, err := svc.UpdateAssetChainStatus(ctx, a.ID, usecase.ChainTransition{
		From:   usecase.ChainStatusUnanchored,
		To:     usecase.ChainStatusFailed,
		Reason: "first rejection",
	})
	require.NoError(t, err)

	refreshed, err := svc.UpdateAssetChainStatus(ctx, a.ID, usecase.ChainTransition{
		From:   usecase.ChainStatusFailed,
		To:     usecase.ChainStatusFailed,
		Reason: "second rejection",
	})
	require.NoError(t, err)
	assert.Equal(t, usecase.ChainStatusFailed, refreshed.ChainStatus)
	assert.Equal(t, "second rejection", refreshed.ChainError)
}

func TestUpdateChainStatusIllegalStep(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := seedAsset(t, svc, seedOwner(t, svc).ID, "My Song")

	// UNANCHORED cannot jump straight to CONFIRMED.
	block := int64(1)
	_, err := svc.UpdateAssetChainStatus(ctx, a.ID, usecase.ChainTransition{
		From:     usecase.ChainStatusUnanchored,
		To:       usecase.ChainStatusConfirmed,
		BlockRef: &block,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidTransition)
}

func TestUpdateChainStatusStaleFrom(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := seedAsset(t, svc, seedOwner(t, svc).ID, "My Song")

	tx := "0xabc"
	_, err := svc.UpdateAssetChainStatus(ctx, a.ID, usecase.ChainTransition{
		From:  usecase.ChainStatusUnanchored,
		To:    usecase.ChainStatusPending,
		TxRef: &tx,
	})
	require.NoError(t, err)

	// A second submitter reading the stale UNANCHORED state loses.
	_, err = svc.UpdateAssetChainStatus(ctx, a.ID, usecase.ChainTransition{
		From:  usecase.ChainStatusUnanchored,
		To:    usecase.ChainStatusPending,
		TxRef: &tx,
	})
	assert.ErrorIs(t, err, usecase.ErrAlreadyPending)
}

func TestUpdateChainStatusLoserRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := seedAsset(t, svc, seedOwner(t, svc).ID, "My Song")

	tx := "0xabc"
	_, err := svc.UpdateAssetChainStatus(ctx, a.ID, usecase.ChainTransition{
		From:  usecase.ChainStatusUnanchored,
		To:    usecase.ChainStatusPending,
		TxRef: &tx,
	})
	require.NoError(t, err)

	block := int64(9)
	_, err = svc.UpdateAssetChainStatus(ctx, a.ID, usecase.ChainTransition{
		From:     usecase.ChainStatusPending,
		To:       usecase.ChainStatusConfirmed,
		BlockRef: &block,
	})
	require.NoError(t, err)

	// The losing settle attempt cannot regress a confirmed record.
	_, err = svc.UpdateAssetChainStatus(ctx, a.ID, usecase.ChainTransition{
		From:   usecase.ChainStatusPending,
		To:     usecase.ChainStatusFailed,
		Reason: "late failure",
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidTransition)

	got, err := svc.GetAssetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.ChainStatusConfirmed, got.ChainStatus)
}

func TestCreateUserDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, usecase.User{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, usecase.User{Name: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, usecase.ErrConflict)
}

func TestAuthUserRoundtrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := seedOwner(t, svc)

	_, err := svc.CreateAuthUser(ctx, usecase.AuthUser{
		UID:          owner.ID.String(),
		UserID:       owner.ID,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		GlobalRole:   "USER",
	})
	require.NoError(t, err)

	got, err := svc.GetUserByName(ctx, owner.Name)
	require.NoError(t, err)
	require.NotNil(t, got.AuthUser)
	assert.Equal(t, owner.ID, got.AuthUser.UserID)
}
