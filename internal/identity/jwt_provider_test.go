package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofmark/proofmark/internal/config"
)

func TestIssueAndVerifyToken(t *testing.T) {
	t.Setenv(config.ENV_KEY_JWT_SECRET, "unit-test-secret")
	p := New()

	token, err := p.IssueToken(context.Background(), "user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	uid, err := p.VerifyIDToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", uid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Setenv(config.ENV_KEY_JWT_SECRET, "unit-test-secret")
	p := New()

	_, err := p.VerifyIDToken(context.Background(), "not.a.token")
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Setenv(config.ENV_KEY_JWT_SECRET, "first-secret")
	token, err := New().IssueToken(context.Background(), "user-123")
	require.NoError(t, err)

	t.Setenv(config.ENV_KEY_JWT_SECRET, "second-secret")
	_, err = New().VerifyIDToken(context.Background(), token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Setenv(config.ENV_KEY_JWT_SECRET, "unit-test-secret")
	p := &JWTProvider{secret: []byte("unit-test-secret"), expire: -time.Minute}

	token, err := p.IssueToken(context.Background(), "user-123")
	require.NoError(t, err)

	_, err = p.VerifyIDToken(context.Background(), token)
	assert.Error(t, err)
}

func TestNewPanicsWithoutSecret(t *testing.T) {
	t.Setenv(config.ENV_KEY_JWT_SECRET, "")
	assert.Panics(t, func() { New() })
}
