// Package identity resolves bearer tokens to owner principals using
// locally signed JWTs. Signing material is supplied through the
// environment at startup, never embedded.
package identity

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/proofmark/proofmark/internal/config"
)

func New() *JWTProvider {
	secret := os.Getenv(config.ENV_KEY_JWT_SECRET)
	if secret == "" {
		panic("identity: " + config.ENV_KEY_JWT_SECRET + " must be set")
	}

	expire := 24 * time.Hour
	if v := os.Getenv(config.ENV_KEY_JWT_EXPIRE_HOURS); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			expire = time.Duration(n) * time.Hour
		}
	}

	return &JWTProvider{secret: []byte(secret), expire: expire}
}

type JWTProvider struct {
	secret []byte
	expire time.Duration
}

func (p *JWTProvider) IssueToken(_ context.Context, uid string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   uid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.expire)),
	})
	return token.SignedString(p.secret)
}

func (p *JWTProvider) VerifyIDToken(_ context.Context, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("identity: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("identity: token has no subject")
	}

	return claims.Subject, nil
}
