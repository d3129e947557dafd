package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/proofmark/proofmark/internal/usecase"
)

type User struct {
	ID            uuid.UUID       `gorm:"column:id;primaryKey;type:uuid"`
	Name          string          `gorm:"column:name;type:varchar(255);uniqueIndex"`
	Email         string          `gorm:"column:email;type:varchar(255);uniqueIndex"`
	WalletAddress string          `gorm:"column:wallet_address;type:varchar(255)"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
	DeletedAt     *gorm.DeletedAt `gorm:"column:deleted_at"`
	AuthUser      *AuthUser       `gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

func (s *service) CreateUser(ctx context.Context, user usecase.User) (usecase.User, error) {
	u := User{
		ID:            uuid.New(),
		Name:          user.Name,
		Email:         user.Email,
		WalletAddress: user.WalletAddress,
	}

	err := s.db.WithContext(ctx).Create(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.User{}, usecase.ErrConflict
		}
		return usecase.User{}, err
	}
	return u.ConvertToUsecase(), nil
}

func (s *service) GetUserByID(ctx context.Context, id uuid.UUID) (usecase.User, error) {
	var u User

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.User{}, usecase.ErrNotFound
		}
		return usecase.User{}, err
	}

	return u.ConvertToUsecase(), nil
}

func (s *service) GetUserByName(ctx context.Context, name string) (usecase.User, error) {
	var u User

	err := s.db.WithContext(ctx).Preload("AuthUser").Where("name = ?", name).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.User{}, usecase.ErrNotFound
		}
		return usecase.User{}, err
	}

	return u.ConvertToUsecase(), nil
}

// Convert core model to Usecase
func (u User) ConvertToUsecase() usecase.User {
	var d *time.Time
	if u.DeletedAt != nil {
		d = &u.DeletedAt.Time
	}
	uu := usecase.User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		WalletAddress: u.WalletAddress,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		DeletedAt:     d,
	}
	if u.AuthUser != nil {
		au := u.AuthUser.ConvertToUsecase()
		uu.AuthUser = &au
	}
	return uu
}
