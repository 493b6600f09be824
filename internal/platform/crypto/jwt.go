package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an admin session token stays valid.
const SessionTTL = 7 * 24 * time.Hour

type Claims struct {
	Sub      string `json:"sub"` // user id
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func generateJTI() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Token is a signed session token with the claims callers need to keep.
type Token struct {
	Value     string
	ID        string // jti
	ExpiresAt time.Time
}

// GenerateToken signs an HS256 session token. ExpiresAt is the exp claim
// as encoded, truncated to whole seconds.
func GenerateToken(secret, userID, username, role string, ttl time.Duration) (Token, error) {
	if secret == "" {
		return Token{}, errors.New("crypto: empty signing secret")
	}
	jti, err := generateJTI()
	if err != nil {
		return Token{}, err
	}

	now := time.Now()
	c := Claims{
		Sub:      userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenStr, err := t.SignedString([]byte(secret))
	if err != nil {
		return Token{}, err
	}
	return Token{Value: tokenStr, ID: jti, ExpiresAt: c.ExpiresAt.Time}, nil
}

// ParseToken verifies signature, algorithm and expiry.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims, ok := t.Claims.(*Claims); ok && t.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
