package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthUser struct {
	UID          string
	UserID       uuid.UUID
	PasswordHash string
	GlobalRole   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time

	User *User
}

type RegisterUser struct {
	Name          string
	Email         string
	Password      string
	WalletAddress string
}

// ErrInvalidCredentials deliberately hides whether the user or the
// password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// IdentityProvider issues and verifies the bearer tokens that resolve a
// request to an owner principal.
type IdentityProvider interface {
	IssueToken(ctx context.Context, uid string) (string, error)
	// VerifyIDToken returns the UID the token was issued for.
	VerifyIDToken(ctx context.Context, token string) (string, error)
}

func (u Usecase) RegisterUser(ctx context.Context, ru RegisterUser) (User, error) {
	if strings.TrimSpace(ru.Name) == "" || strings.TrimSpace(ru.Email) == "" || ru.Password == "" {
		return User{}, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(ru.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user, err := u.repo.CreateUser(ctx, User{
		Name:          ru.Name,
		Email:         ru.Email,
		WalletAddress: ru.WalletAddress,
	})
	if err != nil {
		return User{}, err
	}

	_, err = u.repo.CreateAuthUser(ctx, AuthUser{
		UID:          user.ID.String(),
		UserID:       user.ID,
		PasswordHash: string(hashed),
		GlobalRole:   "USER",
	})
	if err != nil {
		return User{}, err
	}

	return user, nil
}

// Login verifies credentials and returns a signed bearer token.
func (u Usecase) Login(ctx context.Context, name, password string) (string, User, error) {
	user, err := u.repo.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}
	if user.AuthUser == nil {
		return "", User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.AuthUser.PasswordHash), []byte(password)); err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := u.identityProvider.IssueToken(ctx, user.AuthUser.UID)
	if err != nil {
		return "", User{}, err
	}

	return token, user, nil
}

// used by middleware
func (u Usecase) VerifyIDToken(ctx context.Context, token string) (string, error) {
	return u.identityProvider.VerifyIDToken(ctx, token)
}

func (u Usecase) GetAuthUserByUID(ctx context.Context, uid string) (AuthUser, error) {
	return u.repo.GetAuthUserByUID(ctx, uid)
}
