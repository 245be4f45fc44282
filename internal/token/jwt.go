package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/bananaquest-server/internal/model"
)

// Claims represents JWT claims with token type and user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

const (
	issuer      = "bananaquest"
	typeSession = "session"
)

// NewJWT creates a new JWT token manager. Tokens expire after ttl.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	return &JWT{
		secretKey: secretKey,
		ttl:       ttl,
		now:       time.Now,
	}
}

var _ model.TokenManager = (*JWT)(nil)

// GenerateSessionToken creates a session token and returns its JTI and expiry.
func (j *JWT) GenerateSessionToken(userID uuid.UUID) (string, string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl)
	jti := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    userID,
		TokenType: typeSession,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, jti, expiresAt, nil
}

// ParseSessionToken validates a session token and extracts the user ID and JTI.
func (j *JWT) ParseSessionToken(tokenString string) (uuid.UUID, string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(j.now))
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, "", fmt.Errorf("session token is invalid")
	}
	if claims.TokenType != typeSession {
		return uuid.Nil, "", fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	if claims.ID == "" {
		return uuid.Nil, "", fmt.Errorf("session token has no id")
	}
	return claims.UserID, claims.ID, nil
}
