package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/proofmark/proofmark/internal/config"
)

type User struct {
	ID            uuid.UUID
	Name          string
	Email         string
	WalletAddress string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time

	AuthUser *AuthUser
}

func (u Usecase) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	return u.repo.GetUserByID(ctx, id)
}

// GetMe resolves the calling user from the request context.
func (u Usecase) GetMe(ctx context.Context) (User, error) {
	userID, ok := ctx.Value(config.CTX_KEY_USER_ID).(uuid.UUID)
	if !ok {
		return User{}, fmt.Errorf("user id not found in context")
	}
	return u.repo.GetUserByID(ctx, userID)
}
