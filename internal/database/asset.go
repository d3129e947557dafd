package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/proofmark/proofmark/internal/usecase"
)

type Asset struct {
	ID            uuid.UUID      `gorm:"column:id;primaryKey;type:uuid"`
	OwnerID       uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index"`
	FileName      string         `gorm:"column:file_name;type:varchar(255)"`
	StoragePath   string         `gorm:"column:storage_path;type:varchar(512)"`
	Size          int64          `gorm:"column:size;type:bigint"`
	ContentHash   string         `gorm:"column:content_hash;type:varchar(64);not null;index"`
	Title         string         `gorm:"column:title;type:varchar(255);not null"`
	Description   string         `gorm:"column:description;type:text"`
	ChainStatus   string         `gorm:"column:chain_status;type:varchar(20);not null;index"`
	ChainTxRef    *string        `gorm:"column:chain_tx_ref;type:varchar(255)"`
	ChainBlockRef *int64         `gorm:"column:chain_block_ref;type:bigint"`
	ChainError    string         `gorm:"column:chain_error;type:text"`
	ChainReceipt  datatypes.JSON `gorm:"column:chain_receipt"`
	RegisteredAt  time.Time      `gorm:"column:registered_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
	Owner         *User          `gorm:"foreignKey:OwnerID"`
}

func (Asset) TableName() string {
	return "assets"
}

func (s *service) CreateAsset(ctx context.Context, asset usecase.Asset) (usecase.Asset, error) {
	a := Asset{
		ID:          asset.ID,
		OwnerID:     asset.OwnerID,
		FileName:    asset.FileName,
		StoragePath: asset.StoragePath,
		Size:        asset.Size,
		ContentHash: asset.ContentHash,
		Title:       asset.Title,
		Description: asset.Description,
		ChainStatus: string(usecase.ChainStatusUnanchored),
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	err := s.db.WithContext(ctx).Create(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.Asset{}, usecase.ErrConflict
		}
		return usecase.Asset{}, err
	}
	return a.ConvertToUsecase(), nil
}

func (s *service) GetAssetByID(ctx context.Context, id uuid.UUID) (usecase.Asset, error) {
	var a Asset

	err := s.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.Asset{}, usecase.ErrNotFound
		}
		return usecase.Asset{}, err
	}

	return a.ConvertToUsecase(), nil
}

func (s *service) ListAssets(ctx context.Context, opt usecase.ListAssetsOption) ([]usecase.Asset, int, error) {
	var (
		assets []Asset
		list   []usecase.Asset
		count  int64
	)

	db := s.db.Model([]Asset{}).WithContext(ctx)

	if opt.OwnerID != uuid.Nil {
		db = db.Where("owner_id = ?", opt.OwnerID)
	}
	if opt.ContentHash != "" {
		db = db.Where("content_hash = ?", opt.ContentHash)
	}

	sortBy := "registered_at"
	if opt.SortBy != "" {
		sortBy = opt.SortBy
	}
	sortIn := "desc"
	if opt.SortIn != "" {
		sortIn = opt.SortIn
	}

	db = db.
		Count(&count).
		Order(sortBy + " " + sortIn)

	// Zero means unbounded; GORM would otherwise emit LIMIT 0.
	if opt.Limit > 0 {
		db = db.Limit(opt.Limit)
	}
	if opt.Skip > 0 {
		db = db.Offset(opt.Skip)
	}

	err := db.
		Preload("Owner").
		Find(&assets).
		Error

	if err != nil {
		return nil, 0, err
	}

	for _, a := range assets {
		list = append(list, a.ConvertToUsecase())
	}

	return list, int(count), nil
}

// UpdateAssetChainStatus applies tr with a single conditional UPDATE so
// concurrent registrar callbacks for the same asset can never both win.
func (s *service) UpdateAssetChainStatus(ctx context.Context, id uuid.UUID, tr usecase.ChainTransition) (usecase.Asset, error) {
	if !tr.From.CanTransition(tr.To) {
		return usecase.Asset{}, usecase.ErrInvalidTransition
	}

	values := map[string]any{
		"chain_status": string(tr.To),
		"updated_at":   time.Now(),
	}
	switch tr.To {
	case usecase.ChainStatusPending:
		values["chain_tx_ref"] = tr.TxRef
		values["chain_error"] = ""
	case usecase.ChainStatusConfirmed:
		values["chain_block_ref"] = tr.BlockRef
		values["chain_error"] = ""
		if tr.Receipt != nil {
			values["chain_receipt"] = datatypes.JSON(tr.Receipt)
		}
	case usecase.ChainStatusFailed:
		values["chain_error"] = tr.Reason
	}

	res := s.db.WithContext(ctx).
		Model(&Asset{}).
		Where("id = ? AND chain_status = ?", id, string(tr.From)).
		Updates(values)
	if res.Error != nil {
		return usecase.Asset{}, res.Error
	}

	if res.RowsAffected == 0 {
		// Lost the race or the caller read stale state; report which.
		current, err := s.GetAssetByID(ctx, id)
		if err != nil {
			return usecase.Asset{}, err
		}
		if current.ChainStatus == usecase.ChainStatusPending && tr.To == usecase.ChainStatusPending {
			return usecase.Asset{}, usecase.ErrAlreadyPending
		}
		return usecase.Asset{}, usecase.ErrInvalidTransition
	}

	return s.GetAssetByID(ctx, id)
}

// Convert core model to Usecase
func (a Asset) ConvertToUsecase() usecase.Asset {
	ua := usecase.Asset{
		ID:            a.ID,
		OwnerID:       a.OwnerID,
		FileName:      a.FileName,
		StoragePath:   a.StoragePath,
		Size:          a.Size,
		ContentHash:   a.ContentHash,
		Title:         a.Title,
		Description:   a.Description,
		ChainStatus:   usecase.ChainStatus(a.ChainStatus),
		ChainTxRef:    a.ChainTxRef,
		ChainBlockRef: a.ChainBlockRef,
		ChainError:    a.ChainError,
		ChainReceipt:  []byte(a.ChainReceipt),
		RegisteredAt:  a.RegisteredAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.Owner != nil {
		owner := a.Owner.ConvertToUsecase()
		ua.Owner = &owner
	}
	return ua
}
