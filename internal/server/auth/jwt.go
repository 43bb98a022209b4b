// Package auth issues and verifies the HS256 tokens used by the backend.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/butcherdesk/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType separates access tokens from refresh tokens so one can never be
// used in place of the other.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Claims carries the registered claims plus the user, role and token type.
type Claims struct {
	jwt.RegisteredClaims
	UserID string    `json:"user_id"`
	Role   string    `json:"role"`
	Type   TokenType `json:"typ"`
}

// GenerateToken signs a token of type typ for userID valid for validity.
func GenerateToken(typ TokenType, userID, role string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID: userID,
		Role:   role,
		Type:   typ,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies tokenString and checks it is of type want.
// An expired token yields common.ErrTokenExpired (common.ErrRefreshTokenExpired
// for refresh tokens); anything else wrong yields common.ErrInvalidToken.
func ParseToken(tokenString string, want TokenType, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			if want == TokenRefresh {
				return nil, common.ErrRefreshTokenExpired
			}
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Type != want || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
