package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/proofmark/proofmark/internal/usecase"
)

type AuthUser struct {
	UID          string          `gorm:"column:uid;primaryKey;type:varchar(255)"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	PasswordHash string          `gorm:"column:password_hash;type:varchar(255);not null"`
	GlobalRole   string          `gorm:"column:global_role;type:varchar(50);default:USER"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
	DeletedAt    *gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (AuthUser) TableName() string {
	return "auth_users"
}

func (s *service) CreateAuthUser(ctx context.Context, au usecase.AuthUser) (usecase.AuthUser, error) {
	a := AuthUser{
		UID:          au.UID,
		UserID:       au.UserID,
		PasswordHash: au.PasswordHash,
		GlobalRole:   au.GlobalRole,
	}

	err := s.db.WithContext(ctx).Create(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.AuthUser{}, usecase.ErrConflict
		}
		return usecase.AuthUser{}, err
	}
	return a.ConvertToUsecase(), nil
}

func (s *service) GetAuthUserByUID(ctx context.Context, uid string) (usecase.AuthUser, error) {
	var a AuthUser

	err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.AuthUser{}, usecase.ErrNotFound
		}
		return usecase.AuthUser{}, err
	}

	return a.ConvertToUsecase(), nil
}

// Convert core model to Usecase
func (a AuthUser) ConvertToUsecase() usecase.AuthUser {
	var d *time.Time
	if a.DeletedAt != nil {
		d = &a.DeletedAt.Time
	}
	return usecase.AuthUser{
		UID:          a.UID,
		UserID:       a.UserID,
		PasswordHash: a.PasswordHash,
		GlobalRole:   a.GlobalRole,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		DeletedAt:    d,
	}
}
