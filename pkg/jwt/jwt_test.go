package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.GenerateAccessToken("7f4c2b0e-1111-2222-3333-444455556666", "leo")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7f4c2b0e-1111-2222-3333-444455556666", claims.UserID)
	assert.Equal(t, "leo", claims.Username)
}

func TestManager_RejectsForeignSignature(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).GenerateAccessToken("id", "leo")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestManager_RejectsExpired(t *testing.T) {
	m := NewManager("test-secret", time.Minute)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	token, err := m.GenerateAccessToken("id", "leo")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}
