package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/UBelaid/SAgency4U/pkg/utilities"
)

// TokenTTL is the fixed validity window of issued tokens. There is no
// server-side revocation; a token is good until this window ends.
const TokenTTL = time.Hour

// Claims carries the registered claim set plus the owning user's ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// TokenCodec signs and verifies bearer tokens with a process-wide HS256 secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	if ttl == 0 {
		ttl = TokenTTL
	}
	return &TokenCodec{secret: secret, ttl: ttl}
}

// Sign mints a token asserting userID, valid for the codec's TTL.
func (c *TokenCodec) Sign(userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        utilities.NewTokenID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the asserted user ID.
// Verification is binary: any failure, expiry included, is ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
