package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_SessionToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	u := uuid.New()

	token, jti, expiresAt, err := j.GenerateSessionToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, jti)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	gotUser, gotJTI, err := j.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, u, gotUser)
	assert.Equal(t, jti, gotJTI)
}

func TestJWT_UniqueJTI(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	u := uuid.New()

	_, first, _, err := j.GenerateSessionToken(u)
	require.NoError(t, err)
	_, second, _, err := j.GenerateSessionToken(u)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWT_ParseSessionToken_Errors(t *testing.T) {
	u := uuid.New()
	j := NewJWT("secret", time.Hour)

	wrongType := func() string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			UserID:    u,
			TokenType: "refresh",
		})
		s, err := tok.SignedString([]byte("secret"))
		require.NoError(t, err)
		return s
	}

	expired := func() string {
		old := NewJWT("secret", time.Minute)
		old.now = func() time.Time { return time.Now().Add(-time.Hour) }
		s, _, _, err := old.GenerateSessionToken(u)
		require.NoError(t, err)
		return s
	}

	otherSecret := func() string {
		s, _, _, err := NewJWT("other", time.Hour).GenerateSessionToken(u)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name  string
		token func() string
	}{
		{name: "garbage", token: func() string { return "not-a-token" }},
		{name: "wrong type", token: wrongType},
		{name: "expired", token: expired},
		{name: "wrong secret", token: otherSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := j.ParseSessionToken(tt.token())
			assert.Error(t, err)
		})
	}
}
