package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndValidate(t *testing.T) {
	s := New("test-secret", time.Hour)

	token, err := s.GenerateToken(42, "rep")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := s.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "rep", claims.Role)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := New("secret-a", time.Hour).GenerateToken(1, "rep")
	assert.NoError(t, err)

	_, err = New("secret-b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	token, err := New("test-secret", -time.Minute).GenerateToken(1, "rep")
	assert.NoError(t, err)

	_, err = New("test-secret", -time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := New("test-secret", time.Hour).ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
